package mock

import (
	"net/http"

	"github.com/erp/client/internal/domain/shared"
)

// Collection paths
const (
	pathSalesOrders    = "/sales/orders"
	pathProducts       = "/products"
	pathCustomers      = "/customers"
	pathRequisitions   = "/purchase/requisitions"
	pathPurchaseOrders = "/purchase/orders"
	pathSuppliers      = "/basedata/suppliers"
	pathInbound        = "/inventory/inbound-orders"
	pathOutbound       = "/inventory/outbound-orders"
	pathPendingLines   = "/inventory/pending-outbound-lines"
	pathReadyToShip    = "/inventory/outbound-orders/ready-to-ship"
	pathShipments      = "/sales/shipments"
	pathCarriers       = "/basedata/logistics-carriers"
)

// Entity ids sit at segment 3 for two-level collections ("/sales/orders/{id}")
// and at segment 2 for the top-level ones ("/products/{id}")
func id3(c Call) string { return c.Segment(3) }
func id2(c Call) string { return c.Segment(2) }

func list(fn func(map[string]string) *shared.Envelope) Handler {
	return func(c Call) *shared.Envelope { return fn(c.Params) }
}

func byID(id func(Call) string, fn func(string) *shared.Envelope) Handler {
	return func(c Call) *shared.Envelope { return fn(id(c)) }
}

func withBody(fn func(any) *shared.Envelope) Handler {
	return func(c Call) *shared.Envelope { return fn(c.Payload) }
}

func byIDWithBody(fn func(string, any) *shared.Envelope) Handler {
	return func(c Call) *shared.Envelope { return fn(id3(c), c.Payload) }
}

// Routes returns the route tables in evaluation order. Action routes come
// before the generic prefix rule of the same method, otherwise
// "/sales/orders/1/submit" would be taken for an item call.
func Routes(s *Services) map[string][]Rule {
	return map[string][]Rule{
		http.MethodGet: {
			{"auth.info", Exact("/auth/info"), func(Call) *shared.Envelope { return s.Users.GetCurrentUser() }},
			{"sales_order.list", All(Prefix(pathSalesOrders), Segments(3)), list(s.SalesOrders.List)},
			{"sales_order.detail", All(Prefix(pathSalesOrders), Segments(4)), byID(id3, s.SalesOrders.Detail)},
			{"product.list", Exact(pathProducts), list(s.Products.List)},
			{"product.detail", Prefix(pathProducts + "/"), byID(id2, s.Products.Detail)},
			{"customer.list", Exact(pathCustomers), list(s.Customers.List)},
			{"customer.detail", Prefix(pathCustomers + "/"), byID(id2, s.Customers.Detail)},
			{"purchase_requisition.list", Exact(pathRequisitions), list(s.PurchaseRequisitions.List)},
			{"purchase_requisition.detail", Prefix(pathRequisitions + "/"), byID(id3, s.PurchaseRequisitions.Detail)},
			{"purchase_order.list", Exact(pathPurchaseOrders), list(s.PurchaseOrders.List)},
			{"purchase_order.detail", Prefix(pathPurchaseOrders + "/"), byID(id3, s.PurchaseOrders.Detail)},
			{"supplier.list", Exact(pathSuppliers), list(s.Suppliers.List)},
			{"supplier.detail", Prefix(pathSuppliers + "/"), byID(id3, s.Suppliers.Detail)},
			{"inbound_order.list", Exact(pathInbound), list(s.InboundOrders.List)},
			{"inbound_order.detail", Prefix(pathInbound + "/"), byID(id3, s.InboundOrders.Detail)},
			{"outbound_order.pending_lines", Exact(pathPendingLines), list(s.OutboundOrders.PendingLines)},
			{"outbound_order.ready_to_ship", Exact(pathReadyToShip), list(s.OutboundOrders.ReadyToShip)},
			{"outbound_order.list", All(Exact(pathOutbound), Segments(3)), list(s.OutboundOrders.List)},
			{"outbound_order.detail", Prefix(pathOutbound + "/"), byID(id3, s.OutboundOrders.Detail)},
			{"shipment.list", Exact(pathShipments), list(s.Shipments.List)},
			{"shipment.detail", Prefix(pathShipments + "/"), byID(id3, s.Shipments.Detail)},
			{"carrier.list", Exact(pathCarriers), list(s.Carriers.List)},
		},
		http.MethodPost: {
			{"sales_order.create", Exact(pathSalesOrders), withBody(s.SalesOrders.Create)},
			{"sales_order.submit", Action(pathSalesOrders, "submit"), byID(id3, s.SalesOrders.Submit)},
			{"sales_order.approve", Action(pathSalesOrders, "approve"), func(c Call) *shared.Envelope {
				var d ApprovalDecision
				if err := decodeInto(c.Payload, &d); err != nil {
					return envelopeOf("", nil, err)
				}
				return s.SalesOrders.Approve(id3(c), d.Approved, d.Comment)
			}},
			{"purchase_requisition.create", Exact(pathRequisitions), withBody(s.PurchaseRequisitions.Create)},
			{"purchase_requisition.submit", Action(pathRequisitions, "submit"), byID(id3, s.PurchaseRequisitions.Submit)},
			{"purchase_requisition.approve", Action(pathRequisitions, "approve"), byIDWithBody(s.PurchaseRequisitions.Approve)},
			{"purchase_order.create", Exact(pathPurchaseOrders), withBody(s.PurchaseOrders.Create)},
			{"purchase_order.receive", Action(pathPurchaseOrders, "receive"), byIDWithBody(s.PurchaseOrders.ConfirmReceipt)},
			{"inbound_order.create", Exact(pathInbound), withBody(s.InboundOrders.Create)},
			{"inbound_order.cancel", Action(pathInbound, "cancel"), byID(id3, s.InboundOrders.Cancel)},
			{"outbound_order.create", Exact(pathOutbound), withBody(s.OutboundOrders.Create)},
			{"shipment.create", Exact(pathShipments), withBody(s.Shipments.Create)},
			{"shipment.delivered", Action(pathShipments, "delivered"), byID(id3, s.Shipments.ConfirmDelivery)},
		},
		http.MethodPut: {
			{"sales_order.update", Prefix(pathSalesOrders + "/"), byIDWithBody(s.SalesOrders.Update)},
			{"purchase_requisition.update", Prefix(pathRequisitions + "/"), byIDWithBody(s.PurchaseRequisitions.Update)},
			{"purchase_order.update", Prefix(pathPurchaseOrders + "/"), byIDWithBody(s.PurchaseOrders.Update)},
			{"inbound_order.update", Prefix(pathInbound + "/"), byIDWithBody(s.InboundOrders.Update)},
			{"outbound_order.update", Prefix(pathOutbound + "/"), byIDWithBody(s.OutboundOrders.Update)},
			{"shipment.update", Prefix(pathShipments + "/"), byIDWithBody(s.Shipments.Update)},
		},
		http.MethodDelete: {
			{"sales_order.delete", Prefix(pathSalesOrders + "/"), byID(id3, s.SalesOrders.Delete)},
			{"purchase_requisition.delete", Prefix(pathRequisitions + "/"), byID(id3, s.PurchaseRequisitions.Delete)},
			{"purchase_order.delete", Prefix(pathPurchaseOrders + "/"), byID(id3, s.PurchaseOrders.Delete)},
			{"outbound_order.delete", Prefix(pathOutbound + "/"), byID(id3, s.OutboundOrders.Delete)},
			{"shipment.delete", Prefix(pathShipments + "/"), byID(id3, s.Shipments.Delete)},
		},
	}
}
