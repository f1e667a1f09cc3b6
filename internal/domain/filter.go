package domain

import (
	"fmt"
	"strings"
	"time"
)

// Accepted quote date layouts. A hyphen selects the US layout.
const (
	compactDateLayout = "20060102"
	usDateLayout      = "01-02-2006"
)

// Page size limits for paginated listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MatchMode selects how a string filter compares against a column.
type MatchMode int

const (
	// MatchExact compares for byte equality.
	MatchExact MatchMode = iota

	// MatchContains is a case-insensitive substring match.
	MatchContains
)

// Match is an optional string criterion. The zero value matches everything.
type Match struct {
	Value string
	Mode  MatchMode
}

// Exact returns a criterion requiring equality with v.
func Exact(v string) Match {
	return Match{Value: v, Mode: MatchExact}
}

// Contains returns a criterion requiring v as a case-insensitive substring.
func Contains(v string) Match {
	return Match{Value: v, Mode: MatchContains}
}

// IsSet reports whether the criterion constrains anything.
func (m Match) IsSet() bool {
	return m.Value != ""
}

// QuoteFilter describes a quote query. Set criteria are combined with AND.
// When ID is set every other criterion is ignored.
type QuoteFilter struct {
	ID *int64

	// From and To bound QuoteTime as the half-open window [From, To).
	From *time.Time
	To   *time.Time

	Submitter Match
	Speaker   Match
	Quote     Match
}

// ByID returns a filter selecting the single quote with id.
func ByID(id int64) QuoteFilter {
	return QuoteFilter{ID: &id}
}

// MalformedDateError is returned when a date string matches neither accepted layout.
type MalformedDateError struct {
	Input string
}

// Error implements the error interface.
func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date %q: expected YYYYMMDD or MM-DD-YYYY", e.Input)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MalformedDateError) Unwrap() error {
	return ErrValidation
}

// ParseQuoteDate parses s as midnight UTC of the given day.
func ParseQuoteDate(s string) (time.Time, error) {
	layout := compactDateLayout
	if strings.Contains(s, "-") {
		layout = usDateLayout
	}

	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, &MalformedDateError{Input: s}
	}

	return t, nil
}

// DateWindow converts optional start and end date strings into a [from, to) window.
// A start without an end covers that single day. Both empty yields no bounds.
func DateWindow(start, end string) (from, to *time.Time, err error) {
	if start == "" {
		if end != "" {
			return nil, nil, NewValidationError("start", "an end date requires a start date")
		}

		return nil, nil, nil
	}

	s, err := ParseQuoteDate(start)
	if err != nil {
		return nil, nil, err
	}

	e := s.Add(24 * time.Hour)

	if end != "" {
		e, err = ParseQuoteDate(end)
		if err != nil {
			return nil, nil, err
		}
	}

	return &s, &e, nil
}

// Page selects a slice of an ordered result set.
type Page struct {
	ID   int
	Size int
}

// NewPage validates a page request. A zero size selects DefaultPageSize.
func NewPage(id, size int) (Page, error) {
	if size == 0 {
		size = DefaultPageSize
	}

	if id < 0 {
		return Page{}, NewValidationErrorWithValue("page_id", "must not be negative", id)
	}

	if size < 1 || size > MaxPageSize {
		return Page{}, NewValidationErrorWithValue("page_size",
			fmt.Sprintf("must be between 1 and %d", MaxPageSize), size)
	}

	return Page{ID: id, Size: size}, nil
}

// Bounds returns the half-open index range [start, end) covered by the page.
func (p Page) Bounds() (start, end int) {
	return p.ID * p.Size, (p.ID + 1) * p.Size
}
