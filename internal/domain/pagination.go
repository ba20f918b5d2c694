package domain

// Default paging values applied when a caller omits or garbles page/limit.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Page holds the slice bounds and metadata for one page of a collection.
// Items for the page are collection[Start:End].
type Page struct {
	Start      int
	End        int
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Count is the number of items on the page.
func (p Page) Count() int {
	return p.End - p.Start
}

// Paginate computes the bounds of page over a collection of total items.
// A page beyond the end yields an empty range with the metadata intact.
func Paginate(total, page, limit int) Page {
	if total < 0 {
		total = 0
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	p := Page{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: total / limit,
	}
	if total%limit != 0 {
		p.TotalPages++
	}

	// page-1 < TotalPages keeps (page-1)*limit below total.
	if page-1 >= p.TotalPages {
		p.Start, p.End = total, total
		return p
	}
	p.Start = (page - 1) * limit
	p.End = total
	if limit < total-p.Start {
		p.End = p.Start + limit
	}
	return p
}

// ListResult is the envelope returned for list queries.
type ListResult struct {
	Data       []Entity `json:"data"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

// NewListResult slices items (the whole collection) to the page p.
func NewListResult(items []Entity, p Page) *ListResult {
	data := make([]Entity, 0, p.Count())
	data = append(data, items[p.Start:p.End]...)
	return &ListResult{
		Data:       data,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
