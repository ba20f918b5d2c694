package domain

// Payload is the resolved `data` member of an upstream envelope: either a
// single record or a sequence of records.
type Payload struct {
	Single map[string]any
	Many   []map[string]any
	IsMany bool
	// Meta carries paging fields echoed by an upstream that paginates itself.
	Meta *PageMeta
}

// PageMeta is the pagination metadata an upstream may send alongside a list.
type PageMeta struct {
	Total int
	Page  int
	Limit int
}

func SinglePayload(record map[string]any) Payload {
	return Payload{Single: record}
}

func ManyPayload(records []map[string]any) Payload {
	return Payload{Many: records, IsMany: true}
}
