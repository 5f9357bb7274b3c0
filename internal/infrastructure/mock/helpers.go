package mock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const defaultPageSize = 10

// Page is a zero-based page in the shape of a Spring Data Page
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Size             int  `json:"size"`
	Number           int  `json:"number"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
}

// Paginate returns page number `page` of `size` elements.
// size <= 0 falls back to 10 and a negative page is treated as 0.
// Pages past the end are empty.
func Paginate[T any](data []T, page, size int) Page[T] {
	if size <= 0 {
		size = defaultPageSize
	}
	if page < 0 {
		page = 0
	}

	total := len(data)
	// page <= (total-1)/size keeps page*size within the data
	var content []T
	if total > 0 && page <= (total-1)/size {
		start := page * size
		end := start + min(size, total-start)
		content = append(make([]T, 0, end-start), data[start:end]...)
	} else {
		content = []T{}
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             size,
		Number:           page,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             page >= totalPages-1,
	}
}

// Filter keeps the records matching every filter. A filter applies only
// when its trimmed value is non-empty and the record has the field; the
// stringified field must then contain the value, ignoring case.
// Empty filters return records unchanged.
func Filter(records []Record, filters map[string]string) []Record {
	if len(filters) == 0 {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, filters) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec Record, filters map[string]string) bool {
	for key, raw := range filters {
		want := strings.TrimSpace(raw)
		if want == "" {
			continue
		}
		field, ok := rec[key]
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(stringify(field)), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

// stringify renders a field the way it would print in a JSON client
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// GenerateID returns a random identifier, "<prefix>-<random>" when prefix is set
func GenerateID(prefix string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return random
	}
	return prefix + "-" + random
}

// pageQuery splits list params into page, size and field filters.
// A page or size that does not parse counts as absent (0), which Paginate
// then resolves to the first page or the default size.
func pageQuery(params map[string]string) (page, size int, filters map[string]string) {
	filters = make(map[string]string, len(params))
	for k, v := range params {
		switch k {
		case "page":
			page = atoiOrZero(v)
		case "size":
			size = atoiOrZero(v)
		default:
			filters[k] = v
		}
	}
	return page, size, filters
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
