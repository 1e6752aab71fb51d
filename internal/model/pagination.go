package model

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Page struct {
	Number  int
	PerPage int
}

// NewPage clamps raw page parameters to usable values.
func NewPage(number, perPage int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Number: number, PerPage: perPage}
}

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

type Pagination struct {
	Total       int
	Pages       int
	CurrentPage int
	PerPage     int
	HasNext     bool
	HasPrev     bool
}

func NewPagination(total int, page Page) Pagination {
	pages := 0
	if page.PerPage > 0 {
		pages = (total + page.PerPage - 1) / page.PerPage
	}
	return Pagination{
		Total:       total,
		Pages:       pages,
		CurrentPage: page.Number,
		PerPage:     page.PerPage,
		HasNext:     page.Number < pages,
		HasPrev:     page.Number > 1,
	}
}
