package dto

import "github.com/jsamuelsen/quotefault/internal/domain"

// PageQuery carries the page_id and page_size query parameters.
type PageQuery struct {
	// PageID is zero based.
	PageID int `form:"page_id" json:"page_id" validate:"gte=0"`

	// PageSize defaults to the configured page size when zero.
	PageSize int `form:"page_size" json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// Page converts the query into a domain page, applying defaultSize when the
// caller did not pick one.
func (p *PageQuery) Page(defaultSize int) (domain.Page, error) {
	size := p.PageSize
	if size == 0 {
		size = defaultSize
	}

	return domain.NewPage(p.PageID, size)
}
