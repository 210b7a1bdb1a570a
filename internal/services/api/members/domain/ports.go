package domain

import "context"

// MemberPort exposes the member cross-reference to transports
type MemberPort interface {
	Activity(ctx context.Context, bioguideID string, limit int, loose bool) (MemberActivity, error)
}
