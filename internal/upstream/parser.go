package upstream

import (
	"encoding/json"

	"github.com/dom/catalog-facade/internal/domain"
)

// Shape is the arity the caller expects under the envelope's data member.
type Shape int

const (
	ShapeAny Shape = iota
	ShapeObject
	ShapeArray
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	}
	return "object or array"
}

// Parse decodes a `{"data": ...}` envelope. It checks the envelope only and
// leaves field-level content to the normalizer.
func Parse(body []byte, expect Shape) (domain.Payload, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Payload{}, &domain.FormatError{Reason: "undecodable body", Err: err}
	}

	envelope, ok := decoded.(map[string]any)
	if !ok {
		return domain.Payload{}, &domain.FormatError{Reason: "unexpected envelope shape"}
	}

	var payload domain.Payload
	switch data := envelope["data"].(type) {
	case map[string]any:
		if expect == ShapeArray {
			return domain.Payload{}, &domain.FormatError{Reason: "unexpected envelope shape"}
		}
		payload = domain.SinglePayload(data)
	case []any:
		if expect == ShapeObject {
			return domain.Payload{}, &domain.FormatError{Reason: "unexpected envelope shape"}
		}
		records := make([]map[string]any, 0, len(data))
		for _, item := range data {
			record, ok := item.(map[string]any)
			if !ok {
				return domain.Payload{}, &domain.FormatError{Reason: "unexpected envelope shape"}
			}
			records = append(records, record)
		}
		payload = domain.ManyPayload(records)
		payload.Meta = pageMeta(envelope)
	default:
		return domain.Payload{}, &domain.FormatError{Reason: "unexpected envelope shape"}
	}

	return payload, nil
}

// pageMeta reads total/page/limit when the upstream paginated the list
// itself. A missing or non-numeric total means it did not.
func pageMeta(envelope map[string]any) *domain.PageMeta {
	total, ok := number(envelope["total"])
	if !ok || total < 0 {
		return nil
	}
	meta := &domain.PageMeta{Total: total}
	if page, ok := number(envelope["page"]); ok && page > 0 {
		meta.Page = page
	}
	if limit, ok := number(envelope["limit"]); ok && limit > 0 {
		meta.Limit = limit
	}
	return meta
}

func number(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
