package api

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/erp/client/internal/domain/shared"
)

// Resource is a REST collection such as /sales/orders. It exposes the list,
// detail, create, update and delete calls plus named actions on one item.
type Resource struct {
	requester Requester
	base      string
}

// NewResource creates a Resource rooted at base
func NewResource(r Requester, base string) *Resource {
	return &Resource{requester: r, base: "/" + strings.Trim(base, "/")}
}

// Path returns the collection path
func (r *Resource) Path() string {
	return r.base
}

// List fetches one page. Params carry page, size and field filters.
func (r *Resource) List(ctx context.Context, params map[string]string) (*shared.Envelope, error) {
	return r.requester.Get(ctx, r.base, params)
}

// Detail fetches one item
func (r *Resource) Detail(ctx context.Context, id string) (*shared.Envelope, error) {
	return r.requester.Get(ctx, r.item(id), nil)
}

// Create posts a new item
func (r *Resource) Create(ctx context.Context, data any) (*shared.Envelope, error) {
	return r.requester.Post(ctx, r.base, data)
}

// Update replaces the editable fields of an item
func (r *Resource) Update(ctx context.Context, id string, data any) (*shared.Envelope, error) {
	return r.requester.Put(ctx, r.item(id), data)
}

// Delete removes an item
func (r *Resource) Delete(ctx context.Context, id string) (*shared.Envelope, error) {
	return r.requester.Delete(ctx, r.item(id), nil)
}

// Action posts to /<base>/<id>/<action>, e.g. submit or approve
func (r *Resource) Action(ctx context.Context, id, action string, data any) (*shared.Envelope, error) {
	return r.requester.Post(ctx, fmt.Sprintf("%s/%s", r.item(id), action), data)
}

func (r *Resource) item(id string) string {
	return r.base + "/" + url.PathEscape(id)
}

// Collections maps short names to the collection paths the backend serves
var Collections = map[string]string{
	"sales-orders":          "/sales/orders",
	"products":              "/products",
	"customers":             "/customers",
	"suppliers":             "/basedata/suppliers",
	"purchase-requisitions": "/purchase/requisitions",
	"purchase-orders":       "/purchase/orders",
	"inbound-orders":        "/inventory/inbound-orders",
	"outbound-orders":       "/inventory/outbound-orders",
	"shipments":             "/sales/shipments",
	"carriers":              "/basedata/logistics-carriers",
}

// CollectionNames returns the keys of Collections in sorted order
func CollectionNames() []string {
	names := make([]string, 0, len(Collections))
	for name := range Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
