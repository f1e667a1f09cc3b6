package dto

import (
	"github.com/jsamuelsen/quotefault/internal/domain"
)

// NoneResponse is the body legacy routes return when nothing matched.
const NoneResponse = "none"

// ListQuotesQuery filters GET /quotes. Text criteria are case-insensitive
// substring matches.
type ListQuotesQuery struct {
	Speaker   string `form:"speaker"`
	Submitter string `form:"submitter"`
	Quote     string `form:"quote"`

	PageQuery
}

// Filter builds the domain filter for the query.
func (q *ListQuotesQuery) Filter() domain.QuoteFilter {
	return domain.QuoteFilter{
		Speaker:   domain.Contains(q.Speaker),
		Submitter: domain.Contains(q.Submitter),
		Quote:     domain.Contains(q.Quote),
	}
}

// CreateQuoteRequest is the body of POST /quotes, as JSON or form fields.
// Field rules are enforced by the quote service so that the caller gets
// the rule message in order.
type CreateQuoteRequest struct {
	Speaker string `json:"speaker" form:"speaker"`
	Quote   string `json:"quote"   form:"quote"`
}

// UpdateQuoteRequest is the body of PUT /quotes/:id. Absent fields are kept.
type UpdateQuoteRequest struct {
	Speaker *string `json:"speaker"`
	Quote   *string `json:"quote"`
}

// VoteRequest is the body of POST /quotes/:id/votes.
type VoteRequest struct {
	Direction *int `json:"direction" validate:"required,vote"`
}

// LegacyCreateRequest is the body of PUT /:key/create.
type LegacyCreateRequest struct {
	Submitter string `json:"submitter"`
	Speaker   string `json:"speaker"`
	Quote     string `json:"quote"`
}

// LegacyQuery filters the legacy listing routes. Submitter and speaker are
// exact matches; date selects a single day.
type LegacyQuery struct {
	Submitter string `form:"submitter"`
	Speaker   string `form:"speaker"`
	Date      string `form:"date"`
}

// Filter builds the domain filter for the query, with the window spanning
// start to end when both are given.
func (q *LegacyQuery) Filter(start, end string) (domain.QuoteFilter, error) {
	if start == "" {
		start = q.Date
	}

	from, to, err := domain.DateWindow(start, end)
	if err != nil {
		return domain.QuoteFilter{}, err
	}

	return domain.QuoteFilter{
		From:      from,
		To:        to,
		Submitter: domain.Exact(q.Submitter),
		Speaker:   domain.Exact(q.Speaker),
	}, nil
}

// KeyResponse is returned by GET /generatekey/:reason.
type KeyResponse struct {
	Hash string `json:"hash"`
}

// StatusResponse acknowledges a mutation.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusSuccess is the status of a completed mutation.
const StatusSuccess = "success"
