// Package domain defines the feed port surface
package domain

import (
	"context"

	billsdomain "congresswatch/internal/services/bills/domain"
)

// FeedPort exposes the cursor paginated feed to transports
type FeedPort interface {
	Page(ctx context.Context, cursor, limit int) (billsdomain.FeedPage, error)
}
