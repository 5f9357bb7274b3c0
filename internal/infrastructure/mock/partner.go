package mock

import "github.com/erp/client/internal/domain/shared"

// CustomerService lists sales customers
type CustomerService struct {
	customers *Collection
}

func NewCustomerService(seed []Record) *CustomerService {
	return &CustomerService{customers: NewCollection("客户", "cust", "", seed...)}
}

func (s *CustomerService) List(params map[string]string) *shared.Envelope {
	return s.customers.List(params)
}

func (s *CustomerService) Detail(id string) *shared.Envelope {
	return s.customers.Detail(id)
}

// SupplierService lists suppliers (base data)
type SupplierService struct {
	suppliers *Collection
}

func NewSupplierService(seed []Record) *SupplierService {
	return &SupplierService{suppliers: NewCollection("供应商", "sup", "", seed...)}
}

func (s *SupplierService) List(params map[string]string) *shared.Envelope {
	return s.suppliers.List(params)
}

func (s *SupplierService) Detail(id string) *shared.Envelope {
	return s.suppliers.Detail(id)
}

// CarrierService lists logistics carriers
type CarrierService struct {
	carriers *Collection
}

func NewCarrierService(seed []Record) *CarrierService {
	return &CarrierService{carriers: NewCollection("物流公司", "carrier", "", seed...)}
}

// List returns every carrier matching the filters, unpaginated.
// The list feeds a select box, so it is never split into pages.
func (s *CarrierService) List(params map[string]string) *shared.Envelope {
	_, _, filters := pageQuery(params)
	return shared.NewSuccessEnvelope("获取成功", Filter(s.carriers.All(), filters))
}

// Find returns the carrier record
func (s *CarrierService) Find(id string) (Record, bool) {
	return s.carriers.Find(id)
}
