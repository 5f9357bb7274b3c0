package mock

import (
	"fmt"

	"github.com/erp/client/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Inbound order statuses
const (
	InboundPending   = "PENDING"
	InboundCompleted = "COMPLETED"
	InboundCancelled = "CANCELLED"
)

// Outbound order statuses
const (
	OutboundReadyToShip = "READY_TO_SHIP"
	OutboundShipped     = "SHIPPED"
)

// InboundOrderService manages warehouse receipts
type InboundOrderService struct {
	documents
}

func NewInboundOrderService(products *ProductService, seed []Record) *InboundOrderService {
	return &InboundOrderService{documents{
		coll:     NewCollection("入库单", "ib", "IB", seed...),
		products: products,
		itemsKey: "items",
		editable: []string{InboundPending},
	}}
}

func (s *InboundOrderService) Create(payload any) *shared.Envelope {
	rec, err := s.create(payload, InboundPending, Record{"sourceType": "MANUAL"})
	return envelopeOf("创建成功", rec, err)
}

// Cancel voids a pending inbound order
func (s *InboundOrderService) Cancel(id string) *shared.Envelope {
	rec, err := s.transition(id, []string{InboundPending}, InboundCancelled,
		func(r Record) { r["cancelledAt"] = timestamp() })
	return envelopeOf("取消成功", rec, err)
}

// book records goods already put away, e.g. on purchase receipt
func (s *InboundOrderService) book(rec Record) Record {
	created, _ := s.create(rec, InboundCompleted, nil)
	return created
}

// OutboundOrderService manages picking of approved sales order lines
type OutboundOrderService struct {
	documents
	sales *SalesOrderService
}

func NewOutboundOrderService(sales *SalesOrderService, seed []Record) *OutboundOrderService {
	return &OutboundOrderService{
		documents: documents{
			coll:     NewCollection("出库单", "ob", "OB", seed...),
			editable: []string{OutboundReadyToShip},
		},
		sales: sales,
	}
}

// Create books an outbound order over pending sales order lines. The order
// is created picked and ready to ship. Every line must reference an
// approved sales order and stay within its pending quantity.
func (s *OutboundOrderService) Create(payload any) *shared.Envelope {
	rec, err := toRecord(payload)
	if err != nil {
		return envelopeOf("", nil, err)
	}

	lines := lineItems(rec, "lines")
	if len(lines) == 0 {
		return shared.ErrInvalidInput.Envelope()
	}

	pending := s.pendingByLine()
	for _, l := range lines {
		key := lineKey(l.String("salesOrderId"), l.String("productId"))
		p, ok := pending[key]
		if !ok {
			return shared.NewDomainError(shared.CodeBadRequest,
				fmt.Sprintf("销售订单%s没有待出库的产品%s", l.String("salesOrderId"), l.String("productId"))).Envelope()
		}
		q := decimalOf(l["quantity"])
		if q.LessThanOrEqual(decimal.Zero) || q.GreaterThan(decimalOf(p["pendingQuantity"])) {
			return shared.NewDomainError(shared.CodeBadRequest, "出库数量超过待出库数量").Envelope()
		}
		if l.String("productName") == "" {
			l["productName"] = p["productName"]
		}
	}
	if rec.String("salesOrderId") == "" {
		rec["salesOrderId"] = lines[0].String("salesOrderId")
	}
	if rec.String("customerName") == "" {
		rec["customerName"] = pending[lineKey(lines[0].String("salesOrderId"), lines[0].String("productId"))]["customerName"]
	}

	created, err := s.create(rec, OutboundReadyToShip, Record{"warehouse": "主仓库"})
	return envelopeOf("创建成功", created, err)
}

// PendingLines lists approved sales order lines not yet fully covered by
// outbound orders
func (s *OutboundOrderService) PendingLines(params map[string]string) *shared.Envelope {
	pending := s.pendingByLine()
	var out []Record
	// keep sales order order for stable pages
	for _, so := range s.sales.Approved() {
		for _, it := range lineItems(so, "items") {
			key := lineKey(so.String("id"), it.String("productId"))
			if p, ok := pending[key]; ok {
				out = append(out, p)
				delete(pending, key)
			}
		}
	}

	page, size, filters := pageQuery(params)
	return shared.NewSuccessEnvelope("获取成功", Paginate(Filter(out, filters), page, size))
}

// ReadyToShip lists outbound orders waiting for a shipment
func (s *OutboundOrderService) ReadyToShip(params map[string]string) *shared.Envelope {
	ready := s.coll.Where(func(r Record) bool { return r.String("status") == OutboundReadyToShip })
	page, size, filters := pageQuery(params)
	return shared.NewSuccessEnvelope("获取成功", Paginate(Filter(ready, filters), page, size))
}

// markShipped and markReady move an order between ready and shipped as
// shipments are created or deleted
func (s *OutboundOrderService) markShipped(id string) error {
	_, err := s.transition(id, []string{OutboundReadyToShip}, OutboundShipped,
		func(r Record) { r["shippedAt"] = timestamp() })
	return err
}

func (s *OutboundOrderService) markReady(id string) error {
	_, err := s.transition(id, []string{OutboundShipped}, OutboundReadyToShip,
		func(r Record) { delete(r, "shippedAt") })
	return err
}

func lineKey(salesOrderID, productID string) string {
	return salesOrderID + ":" + productID
}

// pendingByLine computes, per (sales order, product), the ordered quantity
// minus what existing outbound orders already cover
func (s *OutboundOrderService) pendingByLine() map[string]Record {
	allocated := make(map[string]decimal.Decimal)
	for _, ob := range s.coll.All() {
		for _, l := range lineItems(ob, "lines") {
			key := lineKey(l.String("salesOrderId"), l.String("productId"))
			allocated[key] = allocated[key].Add(decimalOf(l["quantity"]))
		}
	}

	pending := make(map[string]Record)
	for _, so := range s.sales.Approved() {
		for _, it := range lineItems(so, "items") {
			key := lineKey(so.String("id"), it.String("productId"))
			if p, ok := pending[key]; ok {
				p["orderedQuantity"] = decimalOf(p["orderedQuantity"]).Add(decimalOf(it["quantity"])).InexactFloat64()
				continue
			}
			pending[key] = Record{
				"id":              key,
				"salesOrderId":    so["id"],
				"salesOrderNo":    so["orderNo"],
				"customerName":    so["customerName"],
				"productId":       it["productId"],
				"productName":     it["productName"],
				"unit":            it["unit"],
				"orderedQuantity": decimalOf(it["quantity"]).InexactFloat64(),
			}
		}
	}

	for key, p := range pending {
		rest := decimalOf(p["orderedQuantity"]).Sub(allocated[key])
		if rest.LessThanOrEqual(decimal.Zero) {
			delete(pending, key)
			continue
		}
		p["outboundQuantity"] = allocated[key].InexactFloat64()
		p["pendingQuantity"] = rest.InexactFloat64()
	}
	return pending
}
