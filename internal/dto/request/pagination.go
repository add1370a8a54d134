package request

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"omitempty,min=1"`
	PerPage int `json:"per_page" validate:"omitempty,min=1,max=100"`
}

// Normalize fills in the defaults for missing query params.
func (p *PaginatedRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage = p.Limit()
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}
