package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	perr "congresswatch/internal/platform/errors"
)

// decode limit guards against pathological responses
const maxBodyBytes = 8 << 20

// ListParams controls a bill list request
type ListParams struct {
	// Congress and Type narrow the listing to /bill/{congress}/{type}
	// when both are set; zero values hit the global /bill feed
	Congress int
	Type     string

	Limit  int
	Offset int

	// Sort is passed through, e.g. "updateDate+desc"
	Sort string
}

// ListBills fetches one page of the bill list, newest first when sorted
func (c *Client) ListBills(ctx context.Context, p ListParams) ([]ListBill, error) {
	path := "/bill"
	if p.Congress > 0 && p.Type != "" {
		path = fmt.Sprintf("/bill/%d/%s", p.Congress, strings.ToLower(p.Type))
	}
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}

	var env listEnvelope
	if err := c.getJSON(ctx, path, q, &env); err != nil {
		return nil, err
	}
	return env.Bills, nil
}

// CommitteeParams controls a committee bills request
type CommitteeParams struct {
	Limit  int
	Offset int

	// FromDateTime bounds the listing, ISO form "2006-01-02T00:00:00Z"
	FromDateTime string
}

// CommitteeBills fetches one page of measures before a committee
func (c *Client) CommitteeBills(ctx context.Context, chamber, code string, p CommitteeParams) ([]CommitteeBill, error) {
	path := fmt.Sprintf("/committee/%s/%s/bills", strings.ToLower(chamber), strings.ToLower(code))
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.FromDateTime != "" {
		q.Set("fromDateTime", p.FromDateTime)
	}

	var env committeeBillsEnvelope
	if err := c.getJSON(ctx, path, q, &env); err != nil {
		return nil, err
	}
	return env.CommitteeBills.Bills, nil
}

// BillDetail fetches the detail payload for one measure
func (c *Client) BillDetail(ctx context.Context, congress int, typ, number string) (BillDetail, error) {
	path := fmt.Sprintf("/bill/%d/%s/%s", congress, strings.ToLower(typ), number)
	var env detailEnvelope
	if err := c.getJSON(ctx, path, nil, &env); err != nil {
		return BillDetail{}, err
	}
	return env.Bill, nil
}

// BillDetailURL fetches a detail payload via the absolute url upstream rows carry
func (c *Client) BillDetailURL(ctx context.Context, rawURL string) (BillDetail, error) {
	var env detailEnvelope
	if err := c.getJSON(ctx, rawURL, nil, &env); err != nil {
		return BillDetail{}, err
	}
	return env.Bill, nil
}

// BillCommittees fetches the committees a measure has been before
func (c *Client) BillCommittees(ctx context.Context, congress int, typ, number string) ([]BillCommittee, error) {
	path := fmt.Sprintf("/bill/%d/%s/%s/committees", congress, strings.ToLower(typ), number)
	var env committeesEnvelope
	if err := c.getJSON(ctx, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Committees, nil
}

// MemberByID fetches a member's name fields by bioguide id
func (c *Client) MemberByID(ctx context.Context, bioguideID string) (Member, error) {
	path := "/member/" + url.PathEscape(bioguideID)
	var env memberEnvelope
	if err := c.getJSON(ctx, path, nil, &env); err != nil {
		return Member{}, err
	}
	return env.Member, nil
}

// getJSON runs Do and decodes the body into out
func (c *Client) getJSON(ctx context.Context, pathOrURL string, q url.Values, out any) error {
	resp, err := c.Do(ctx, pathOrURL, q)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", pathOrURL).Msg("congress close body failed")
		}
	}()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "congress read body failed")
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "congress decode failed")
	}
	return nil
}
