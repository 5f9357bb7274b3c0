package mock

import "github.com/erp/client/internal/domain/shared"

// ProductService is the read-only product catalog
type ProductService struct {
	products *Collection
}

func NewProductService(seed []Record) *ProductService {
	return &ProductService{products: NewCollection("产品", "prod", "", seed...)}
}

func (s *ProductService) List(params map[string]string) *shared.Envelope {
	return s.products.List(params)
}

func (s *ProductService) Detail(id string) *shared.Envelope {
	return s.products.Detail(id)
}

// Find returns the product record, used to enrich order lines
func (s *ProductService) Find(id string) (Record, bool) {
	return s.products.Find(id)
}
