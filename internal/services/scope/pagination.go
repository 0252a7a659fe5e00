package scope

// PageRequest carries caller-supplied pagination. A zero Limit means the
// caller did not paginate and the full result set is returned.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Bounded() bool {
	return p.Limit > 0
}

func (p PageRequest) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination describes the page that was actually served. Unbounded
// requests report a single page holding the entire result set.
func NewPagination(req PageRequest, total int) Pagination {
	if !req.Bounded() {
		return Pagination{Page: 1, Limit: total, Total: total, Pages: 1}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	pages := total / req.Limit
	if total%req.Limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}

	return Pagination{Page: page, Limit: req.Limit, Total: total, Pages: pages}
}
