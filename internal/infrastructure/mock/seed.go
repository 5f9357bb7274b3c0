package mock

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/erp/client/internal/domain/identity"
)

// Seed sizes
const (
	seedProducts     = 12
	seedCustomers    = 8
	seedSuppliers    = 6
	seedSalesOrders  = 12
	seedRequisitions = 6
	seedPurchases    = 6
)

var salesOrderSeedStatuses = []string{
	SalesOrderDraft, SalesOrderPendingApproval, SalesOrderApproved, SalesOrderRejected,
}

var requisitionSeedStatuses = []string{
	RequisitionDraft, RequisitionPendingApproval, RequisitionApproved, RequisitionRejected,
}

var purchaseOrderSeedStatuses = []string{
	PurchaseOrderDraft, PurchaseOrderOrdered, PurchaseOrderReceived,
}

var carrierNames = []string{"顺丰速运", "中通快递", "京东物流", "德邦物流"}

// DefaultUser is the profile returned by GET /auth/info
var DefaultUser = identity.UserInfo{
	ID:       "user-001",
	UserID:   "user-001",
	Username: "zhangsan",
	FullName: "张三",
	Roles:    []string{"ROLE_SALES"},
}

// seeder builds the initial collections. Ids are stable ("so-001") so
// they can be addressed from tests and scripts; descriptive fields
// come from gofakeit.
type seeder struct {
	faker *gofakeit.Faker
	day   time.Time
}

func newSeeder(seed uint64) *seeder {
	return &seeder{
		faker: gofakeit.New(seed),
		day:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
	}
}

func seqID(prefix string, i int) string {
	return fmt.Sprintf("%s-%03d", prefix, i+1)
}

func (s *seeder) date(offsetDays int) string {
	return s.day.AddDate(0, 0, offsetDays).Format("2006-01-02")
}

func (s *seeder) products() []Record {
	out := make([]Record, seedProducts)
	for i := range out {
		out[i] = Record{
			"id":        seqID("prod", i),
			"code":      fmt.Sprintf("P%05d", 10001+i),
			"name":      s.faker.ProductName(),
			"category":  s.faker.ProductCategory(),
			"unit":      "件",
			"unitPrice": s.faker.Price(10, 2000),
			"stock":     float64(s.faker.Number(0, 500)),
		}
	}
	return out
}

func (s *seeder) customers() []Record {
	out := make([]Record, seedCustomers)
	for i := range out {
		out[i] = Record{
			"id":      seqID("cust", i),
			"code":    fmt.Sprintf("C%04d", 1001+i),
			"name":    s.faker.Company(),
			"contact": s.faker.Name(),
			"phone":   s.faker.Phone(),
			"email":   s.faker.Email(),
			"address": s.faker.City() + " " + s.faker.Street(),
		}
	}
	return out
}

func (s *seeder) suppliers() []Record {
	out := make([]Record, seedSuppliers)
	for i := range out {
		out[i] = Record{
			"id":      seqID("sup", i),
			"code":    fmt.Sprintf("S%04d", 2001+i),
			"name":    s.faker.Company(),
			"contact": s.faker.Name(),
			"phone":   s.faker.Phone(),
			"status":  "ACTIVE",
		}
	}
	return out
}

func (s *seeder) carriers() []Record {
	out := make([]Record, len(carrierNames))
	for i, name := range carrierNames {
		out[i] = Record{
			"id":    seqID("carrier", i),
			"name":  name,
			"phone": s.faker.Phone(),
		}
	}
	return out
}

func (s *seeder) lines(products []Record, n int) []any {
	lines := make([]any, 0, n)
	for j := 0; j < n; j++ {
		p := products[s.faker.Number(0, len(products)-1)]
		lines = append(lines, map[string]any{
			"productId":   p["id"],
			"productName": p["name"],
			"unit":        p["unit"],
			"quantity":    float64(s.faker.Number(1, 20)),
			"unitPrice":   p["unitPrice"],
		})
	}
	return lines
}

func (s *seeder) salesOrders(products, customers []Record) []Record {
	out := make([]Record, seedSalesOrders)
	for i := range out {
		c := customers[i%len(customers)]
		rec := Record{
			"id":           seqID("so", i),
			"orderNo":      fmt.Sprintf("SO%s%04d", s.day.Format("20060102"), i+1),
			"customerId":   c["id"],
			"customerName": c["name"],
			"orderDate":    s.date(i),
			"status":       salesOrderSeedStatuses[i%len(salesOrderSeedStatuses)],
			"salesperson":  DefaultUser.FullName,
			"remark":       "",
			"items":        s.lines(products, 1+i%3),
		}
		applyTotals(rec, "items")
		out[i] = rec
	}
	return out
}

func (s *seeder) requisitions(products []Record) []Record {
	out := make([]Record, seedRequisitions)
	for i := range out {
		rec := Record{
			"id":          seqID("pr", i),
			"orderNo":     fmt.Sprintf("PR%s%04d", s.day.Format("20060102"), i+1),
			"applicant":   s.faker.Name(),
			"department":  "采购部",
			"requestDate": s.date(i),
			"status":      requisitionSeedStatuses[i%len(requisitionSeedStatuses)],
			"reason":      s.faker.Sentence(5),
			"items":       s.lines(products, 1+i%2),
		}
		applyTotals(rec, "items")
		out[i] = rec
	}
	return out
}

func (s *seeder) purchaseOrders(products, suppliers []Record) []Record {
	out := make([]Record, seedPurchases)
	for i := range out {
		sup := suppliers[i%len(suppliers)]
		rec := Record{
			"id":           seqID("po", i),
			"orderNo":      fmt.Sprintf("PO%s%04d", s.day.Format("20060102"), i+1),
			"supplierId":   sup["id"],
			"supplierName": sup["name"],
			"orderDate":    s.date(i),
			"status":       purchaseOrderSeedStatuses[i%len(purchaseOrderSeedStatuses)],
			"items":        s.lines(products, 1+i%3),
		}
		applyTotals(rec, "items")
		out[i] = rec
	}
	return out
}

func (s *seeder) inboundOrders(purchaseOrders []Record) []Record {
	var out []Record
	for _, po := range purchaseOrders {
		if po.String("status") != PurchaseOrderReceived {
			continue
		}
		out = append(out, Record{
			"id":              seqID("ib", len(out)),
			"orderNo":         fmt.Sprintf("IB%s%04d", s.day.Format("20060102"), len(out)+1),
			"sourceType":      "PURCHASE_ORDER",
			"purchaseOrderId": po["id"],
			"supplierName":    po["supplierName"],
			"warehouse":       "主仓库",
			"status":          InboundCompleted,
			"items":           cloneValue(po["items"]),
		})
	}
	out = append(out, Record{
		"id":         seqID("ib", len(out)),
		"orderNo":    fmt.Sprintf("IB%s%04d", s.day.Format("20060102"), len(out)+1),
		"sourceType": "MANUAL",
		"warehouse":  "主仓库",
		"status":     InboundPending,
		"items":      []any{},
	})
	return out
}

// outboundOrders covers the first two approved sales orders: one ready to
// ship and one already shipped. The rest stay pending outbound.
func (s *seeder) outboundOrders(salesOrders []Record) []Record {
	var out []Record
	statuses := []string{OutboundReadyToShip, OutboundShipped}
	for _, so := range salesOrders {
		if so.String("status") != SalesOrderApproved || len(out) == len(statuses) {
			continue
		}
		var lines []any
		for _, it := range lineItems(so, "items") {
			lines = append(lines, map[string]any{
				"salesOrderId": so["id"],
				"productId":    it["productId"],
				"productName":  it["productName"],
				"quantity":     it["quantity"],
			})
		}
		out = append(out, Record{
			"id":           seqID("ob", len(out)),
			"orderNo":      fmt.Sprintf("OB%s%04d", s.day.Format("20060102"), len(out)+1),
			"salesOrderId": so["id"],
			"customerName": so["customerName"],
			"warehouse":    "主仓库",
			"status":       statuses[len(out)],
			"lines":        lines,
		})
	}
	return out
}

func (s *seeder) shipments(outbound []Record, carriers []Record) []Record {
	var out []Record
	for _, ob := range outbound {
		if ob.String("status") != OutboundShipped {
			continue
		}
		c := carriers[len(out)%len(carriers)]
		out = append(out, Record{
			"id":              seqID("sh", len(out)),
			"orderNo":         fmt.Sprintf("SH%s%04d", s.day.Format("20060102"), len(out)+1),
			"outboundOrderId": ob["id"],
			"customerName":    ob["customerName"],
			"carrierId":       c["id"],
			"carrierName":     c["name"],
			"trackingNo":      fmt.Sprintf("TN%010d", s.faker.Number(1, 999999999)),
			"status":          ShipmentInTransit,
			"shippedAt":       s.date(len(out) + 3),
		})
	}
	return out
}
