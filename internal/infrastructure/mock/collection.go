package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/erp/client/internal/domain/shared"
)

// Record is one row of a mock collection, shaped like a decoded JSON object
type Record map[string]any

// String returns the field as a string, or "" when absent or not a string
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Collection is a concurrency safe, ordered in-memory table of records
// keyed by their "id" field.
type Collection struct {
	mu       sync.RWMutex
	label    string
	idPrefix string
	noPrefix string
	seq      int
	records  []Record
}

// NewCollection creates a collection. label names the entity in messages,
// idPrefix prefixes generated ids and noPrefix prefixes document numbers.
func NewCollection(label, idPrefix, noPrefix string, seed ...Record) *Collection {
	c := &Collection{label: label, idPrefix: idPrefix, noPrefix: noPrefix}
	for _, r := range seed {
		c.records = append(c.records, cloneRecord(r))
	}
	c.seq = len(c.records)
	return c
}

// Len returns the number of records
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// All returns a copy of every record in insertion order
func (c *Collection) All() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, len(c.records))
	for i, r := range c.records {
		out[i] = cloneRecord(r)
	}
	return out
}

// Where returns copies of the records for which keep is true
func (c *Collection) Where(keep func(Record) bool) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Record
	for _, r := range c.records {
		if keep(r) {
			out = append(out, cloneRecord(r))
		}
	}
	return out
}

// Find returns a copy of the record with the given id
func (c *Collection) Find(id string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return cloneRecord(c.records[i]), true
	}
	return nil, false
}

// List filters and paginates the collection using list params
func (c *Collection) List(params map[string]string) *shared.Envelope {
	page, size, filters := pageQuery(params)
	return shared.NewSuccessEnvelope("获取成功", Paginate(Filter(c.All(), filters), page, size))
}

// Detail returns the record with the given id
func (c *Collection) Detail(id string) *shared.Envelope {
	rec, ok := c.Find(id)
	if !ok {
		return c.notFound().Envelope()
	}
	return shared.NewSuccessEnvelope("获取成功", rec)
}

// Insert stores a new record. Missing id, document number and timestamps
// are filled in. The stored copy is returned.
func (c *Collection) Insert(rec Record) Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	now := timestamp()
	rec = cloneRecord(rec)
	if rec.String("id") == "" {
		rec["id"] = GenerateID(c.idPrefix)
	}
	if c.noPrefix != "" && rec.String("orderNo") == "" {
		rec["orderNo"] = fmt.Sprintf("%s%s%04d", c.noPrefix, time.Now().Format("20060102"), c.seq)
	}
	rec["createdAt"] = now
	rec["updatedAt"] = now

	c.records = append(c.records, rec)
	return cloneRecord(rec)
}

// Mutate applies fn to the stored record under the write lock. A non-nil
// error from fn leaves the record untouched.
func (c *Collection) Mutate(id string, fn func(Record) error) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, c.notFound()
	}

	working := cloneRecord(c.records[i])
	if err := fn(working); err != nil {
		return nil, err
	}
	working["id"] = c.records[i]["id"]
	working["updatedAt"] = timestamp()
	c.records[i] = working
	return cloneRecord(working), nil
}

// Remove deletes the record with the given id. guard may veto the removal.
func (c *Collection) Remove(id string, guard func(Record) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return c.notFound()
	}
	if guard != nil {
		if err := guard(c.records[i]); err != nil {
			return err
		}
	}
	c.records = append(c.records[:i], c.records[i+1:]...)
	return nil
}

func (c *Collection) indexOf(id string) int {
	for i, r := range c.records {
		if r.String("id") == id {
			return i
		}
	}
	return -1
}

func (c *Collection) notFound() *shared.DomainError {
	return shared.NewDomainError(shared.CodeNotFound, c.label+"不存在")
}

// toRecord converts an arbitrary JSON-able payload into a Record
func toRecord(payload any) (Record, error) {
	switch p := payload.(type) {
	case nil:
		return Record{}, nil
	case Record:
		return cloneRecord(p), nil
	case map[string]any:
		return cloneRecord(p), nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, shared.ErrInvalidInput
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, shared.ErrInvalidInput
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

func cloneRecord(r map[string]any) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return cloneRecord(t)
	case map[string]any:
		return map[string]any(cloneRecord(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []Record:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneRecord(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

// envelopeOf turns a service result into an envelope
func envelopeOf(message string, data any, err error) *shared.Envelope {
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			return de.Envelope()
		}
		return shared.NewErrorEnvelope(shared.CodeBadRequest, err.Error())
	}
	return shared.NewSuccessEnvelope(message, data)
}
