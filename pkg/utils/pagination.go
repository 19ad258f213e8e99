package utils

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is bound from the page and limit query parameters.
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// PageResult is the data payload of every list endpoint.
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Pages int64       `json:"pages"`
}

// GetPageOffset clamps Page and Limit in place and returns the row offset and limit.
func (p *Pagination) GetPageOffset() (int, int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return (p.Page - 1) * p.Limit, p.Limit
}

func NewPageResult(list interface{}, total int64, p Pagination) *PageResult {
	_, limit := p.GetPageOffset()
	return &PageResult{
		List:  list,
		Total: total,
		Page:  p.Page,
		Limit: limit,
		Pages: (total + int64(limit) - 1) / int64(limit),
	}
}
