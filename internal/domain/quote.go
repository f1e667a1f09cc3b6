// Package domain contains core business entities and rules.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// MaxQuoteLength is the longest quote text accepted, counted in characters.
const MaxQuoteLength = 200

// Validation rule tags reported by quote creation and editing.
const (
	RuleMissingSpeaker = "missing_speaker"
	RuleMissingQuote   = "missing_quote"
	RuleSelfQuote      = "self_quote"
	RuleDuplicateQuote = "duplicate_quote"
	RuleUnknownSpeaker = "unknown_speaker"
	RuleQuoteTooLong   = "quote_too_long"
	RuleBadDirection   = "bad_direction"
)

// Quote is an attributed quotation.
// ID and QuoteTime are assigned at creation and never change.
type Quote struct {
	ID        int64
	Submitter string
	Text      string
	Speaker   string
	QuoteTime time.Time
}

// Vote is one user's opinion of a quote. Direction is -1, 0 or 1.
type Vote struct {
	ID          int64
	QuoteID     int64
	Voter       string
	Direction   int
	UpdatedTime time.Time
}

// ValidDirection reports whether d is an acceptable vote direction.
func ValidDirection(d int) bool {
	return d >= -1 && d <= 1
}

// APIKey grants access to the legacy routes. Owner and Reason are unique together.
type APIKey struct {
	ID     int64
	Hash   string
	Owner  string
	Reason string
}

// Member is a directory entry.
type Member struct {
	Username    string
	DisplayName string

	// Groups are the short names of the groups the member belongs to.
	Groups []string
}

// InGroup reports whether the member belongs to group.
func (m *Member) InGroup(group string) bool {
	if m == nil {
		return false
	}

	for _, g := range m.Groups {
		if strings.EqualFold(g, group) {
			return true
		}
	}

	return false
}

// QuoteView is a quote together with its aggregated vote state as seen by one viewer.
type QuoteView struct {
	ID        int64     `json:"id"`
	Quote     string    `json:"quote"`
	Submitter string    `json:"submitter"`
	Speaker   string    `json:"speaker"`
	QuoteTime time.Time `json:"quoteTime"`
	Votes     int       `json:"votes"`
	Direction int       `json:"direction"`
}

// AssembleView builds the view of q for viewer.
// Votes is the sum of every vote on q; Direction is only ever the viewer's own
// latest vote, or 0 when the viewer has not voted or is anonymous.
func AssembleView(q *Quote, votes []Vote, viewer string) QuoteView {
	view := QuoteView{
		ID:        q.ID,
		Quote:     q.Text,
		Submitter: q.Submitter,
		Speaker:   q.Speaker,
		QuoteTime: q.QuoteTime,
	}

	var latest time.Time

	for i := range votes {
		v := &votes[i]
		if v.QuoteID != q.ID {
			continue
		}

		view.Votes += v.Direction

		if viewer != "" && v.Voter == viewer && !v.UpdatedTime.Before(latest) {
			view.Direction = v.Direction
			latest = v.UpdatedTime
		}
	}

	return view
}

// AssembleViews builds views for a batch of quotes from one batch of votes,
// preserving the order of quotes.
func AssembleViews(quotes []Quote, votes []Vote, viewer string) []QuoteView {
	byQuote := make(map[int64][]Vote, len(quotes))
	for _, v := range votes {
		byQuote[v.QuoteID] = append(byQuote[v.QuoteID], v)
	}

	views := make([]QuoteView, 0, len(quotes))
	for i := range quotes {
		views = append(views, AssembleView(&quotes[i], byQuote[quotes[i].ID], viewer))
	}

	return views
}

// QuoteIDs returns the ids of quotes in order.
func QuoteIDs(quotes []Quote) []int64 {
	ids := make([]int64, len(quotes))
	for i := range quotes {
		ids[i] = quotes[i].ID
	}

	return ids
}

// FormatID renders a quote id for error messages.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
