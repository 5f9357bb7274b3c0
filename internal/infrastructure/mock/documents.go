package mock

import (
	"fmt"
	"slices"
	"time"

	"github.com/erp/client/internal/domain/shared"
)

// Fields a client payload may never overwrite
var protectedFields = []string{"id", "orderNo", "status", "createdAt", "updatedAt"}

// documents is the shared CRUD behaviour of business documents (orders,
// requisitions, shipments): a collection, its line items and the statuses
// in which a document can still be edited or deleted.
type documents struct {
	coll     *Collection
	products *ProductService
	itemsKey string
	editable []string
}

func (d *documents) List(params map[string]string) *shared.Envelope {
	return d.coll.List(params)
}

func (d *documents) Detail(id string) *shared.Envelope {
	return d.coll.Detail(id)
}

func (d *documents) Delete(id string) *shared.Envelope {
	err := d.coll.Remove(id, func(r Record) error {
		return d.requireStatus(r, d.editable...)
	})
	return envelopeOf("删除成功", nil, err)
}

// create stores payload as a new document in the given initial status
func (d *documents) create(payload any, status string, defaults Record) (Record, error) {
	rec, err := toRecord(payload)
	if err != nil {
		return nil, err
	}
	for _, f := range protectedFields {
		delete(rec, f)
	}
	for k, v := range defaults {
		if _, ok := rec[k]; !ok {
			rec[k] = v
		}
	}
	rec["status"] = status
	d.prepareLines(rec)
	return d.coll.Insert(rec), nil
}

// Update merges the payload into an editable document
func (d *documents) Update(id string, payload any) *shared.Envelope {
	patch, err := toRecord(payload)
	if err != nil {
		return envelopeOf("", nil, err)
	}
	rec, err := d.coll.Mutate(id, func(r Record) error {
		if err := d.requireStatus(r, d.editable...); err != nil {
			return err
		}
		for k, v := range patch {
			if !slices.Contains(protectedFields, k) {
				r[k] = v
			}
		}
		d.prepareLines(r)
		return nil
	})
	return envelopeOf("更新成功", rec, err)
}

// transition moves a document from one of the `from` statuses to `to`,
// letting apply record extra fields
func (d *documents) transition(id string, from []string, to string, apply func(Record)) (Record, error) {
	return d.coll.Mutate(id, func(r Record) error {
		if err := d.requireStatus(r, from...); err != nil {
			return err
		}
		r["status"] = to
		if apply != nil {
			apply(r)
		}
		return nil
	})
}

func (d *documents) requireStatus(r Record, allowed ...string) error {
	if len(allowed) == 0 || slices.Contains(allowed, r.String("status")) {
		return nil
	}
	return shared.NewDomainError(shared.CodeBadRequest,
		fmt.Sprintf("%s状态为%s，不允许此操作", d.coll.label, r.String("status")))
}

// prepareLines fills product names on lines and recomputes totals
func (d *documents) prepareLines(rec Record) {
	if d.itemsKey == "" {
		return
	}
	items := lineItems(rec, d.itemsKey)
	if len(items) == 0 {
		return
	}
	for _, it := range items {
		if it.String("productName") != "" || d.products == nil {
			continue
		}
		if p, ok := d.products.Find(it.String("productId")); ok {
			it["productName"] = p["name"]
			it["unit"] = p["unit"]
			if _, ok := it["unitPrice"]; !ok {
				it["unitPrice"] = p["unitPrice"]
			}
		}
	}
	applyTotals(rec, d.itemsKey)
}

func today() string {
	return time.Now().Format("2006-01-02")
}
