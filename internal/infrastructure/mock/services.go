// Package mock is an in-memory stand-in for the ERP backend. Each service
// keeps one entity collection and answers with the same envelopes the real
// backend would send; Router maps REST calls onto the services.
package mock

// Services groups every mock data service
type Services struct {
	Users                *UserService
	Products             *ProductService
	Customers            *CustomerService
	Suppliers            *SupplierService
	Carriers             *CarrierService
	SalesOrders          *SalesOrderService
	PurchaseRequisitions *PurchaseRequisitionService
	PurchaseOrders       *PurchaseOrderService
	InboundOrders        *InboundOrderService
	OutboundOrders       *OutboundOrderService
	Shipments            *ShipmentOrderService
}

// ServicesOption configures NewServices
type ServicesOption func(*servicesOptions)

type servicesOptions struct {
	seed uint64
}

// WithSeed fixes the gofakeit seed used for descriptive seed data.
// 0 picks a random seed.
func WithSeed(seed uint64) ServicesOption {
	return func(o *servicesOptions) {
		o.seed = seed
	}
}

// NewServices builds every service over freshly seeded collections
func NewServices(opts ...ServicesOption) *Services {
	o := &servicesOptions{}
	for _, opt := range opts {
		opt(o)
	}

	sd := newSeeder(o.seed)
	products := sd.products()
	customers := sd.customers()
	suppliers := sd.suppliers()
	carriers := sd.carriers()
	salesOrders := sd.salesOrders(products, customers)
	purchaseOrders := sd.purchaseOrders(products, suppliers)
	outbound := sd.outboundOrders(salesOrders)

	s := &Services{
		Users:     NewUserService(DefaultUser),
		Products:  NewProductService(products),
		Customers: NewCustomerService(customers),
		Suppliers: NewSupplierService(suppliers),
		Carriers:  NewCarrierService(carriers),
	}
	s.SalesOrders = NewSalesOrderService(s.Products, salesOrders)
	s.PurchaseRequisitions = NewPurchaseRequisitionService(s.Products, sd.requisitions(products))
	s.InboundOrders = NewInboundOrderService(s.Products, sd.inboundOrders(purchaseOrders))
	s.PurchaseOrders = NewPurchaseOrderService(s.Products, s.InboundOrders, purchaseOrders)
	s.OutboundOrders = NewOutboundOrderService(s.SalesOrders, outbound)
	s.Shipments = NewShipmentOrderService(s.OutboundOrders, s.Carriers, sd.shipments(outbound, carriers))
	return s
}
