package mock

import (
	"github.com/erp/client/internal/domain/shared"
)

// Sales order statuses
const (
	SalesOrderDraft           = "DRAFT"
	SalesOrderPendingApproval = "PENDING_APPROVAL"
	SalesOrderApproved        = "APPROVED"
	SalesOrderRejected        = "REJECTED"
)

// Purchase requisition statuses
const (
	RequisitionDraft           = "DRAFT"
	RequisitionPendingApproval = "PENDING_APPROVAL"
	RequisitionApproved        = "APPROVED"
	RequisitionRejected        = "REJECTED"
)

// Purchase order statuses
const (
	PurchaseOrderDraft    = "DRAFT"
	PurchaseOrderOrdered  = "ORDERED"
	PurchaseOrderReceived = "RECEIVED"
)

// ApprovalDecision is the body of an approve call
type ApprovalDecision struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment"`
}

// SalesOrderService manages sales orders: DRAFT -> PENDING_APPROVAL ->
// APPROVED or REJECTED. Rejected orders may be edited and resubmitted.
type SalesOrderService struct {
	documents
}

func NewSalesOrderService(products *ProductService, seed []Record) *SalesOrderService {
	return &SalesOrderService{documents{
		coll:     NewCollection("销售订单", "so", "SO", seed...),
		products: products,
		itemsKey: "items",
		editable: []string{SalesOrderDraft, SalesOrderRejected},
	}}
}

func (s *SalesOrderService) Create(payload any) *shared.Envelope {
	rec, err := s.create(payload, SalesOrderDraft, Record{"orderDate": today()})
	return envelopeOf("创建成功", rec, err)
}

// Submit sends a draft or rejected order for approval
func (s *SalesOrderService) Submit(id string) *shared.Envelope {
	rec, err := s.transition(id, []string{SalesOrderDraft, SalesOrderRejected}, SalesOrderPendingApproval,
		func(r Record) { r["submittedAt"] = timestamp() })
	return envelopeOf("提交成功", rec, err)
}

// Approve records the approval decision on a pending order
func (s *SalesOrderService) Approve(id string, approved bool, comment string) *shared.Envelope {
	to := SalesOrderRejected
	if approved {
		to = SalesOrderApproved
	}
	rec, err := s.transition(id, []string{SalesOrderPendingApproval}, to, func(r Record) {
		r["approvalComment"] = comment
		r["approvedAt"] = timestamp()
	})
	return envelopeOf("审批完成", rec, err)
}

// Approved returns copies of every approved order
func (s *SalesOrderService) Approved() []Record {
	return s.coll.Where(func(r Record) bool { return r.String("status") == SalesOrderApproved })
}

// PurchaseRequisitionService manages purchase requisitions with the same
// approval flow as sales orders
type PurchaseRequisitionService struct {
	documents
}

func NewPurchaseRequisitionService(products *ProductService, seed []Record) *PurchaseRequisitionService {
	return &PurchaseRequisitionService{documents{
		coll:     NewCollection("采购申请", "pr", "PR", seed...),
		products: products,
		itemsKey: "items",
		editable: []string{RequisitionDraft, RequisitionRejected},
	}}
}

func (s *PurchaseRequisitionService) Create(payload any) *shared.Envelope {
	rec, err := s.create(payload, RequisitionDraft, Record{"requestDate": today()})
	return envelopeOf("创建成功", rec, err)
}

func (s *PurchaseRequisitionService) Submit(id string) *shared.Envelope {
	rec, err := s.transition(id, []string{RequisitionDraft, RequisitionRejected}, RequisitionPendingApproval,
		func(r Record) { r["submittedAt"] = timestamp() })
	return envelopeOf("提交成功", rec, err)
}

// Approve reads {approved, comment} from payload
func (s *PurchaseRequisitionService) Approve(id string, payload any) *shared.Envelope {
	var decision ApprovalDecision
	if err := decodeInto(payload, &decision); err != nil {
		return envelopeOf("", nil, err)
	}
	to := RequisitionRejected
	if decision.Approved {
		to = RequisitionApproved
	}
	rec, err := s.transition(id, []string{RequisitionPendingApproval}, to, func(r Record) {
		r["approvalComment"] = decision.Comment
		r["approvedAt"] = timestamp()
	})
	return envelopeOf("审批完成", rec, err)
}

// PurchaseOrderService manages purchase orders. Receiving goods closes the
// order and books a completed inbound order.
type PurchaseOrderService struct {
	documents
	inbound *InboundOrderService
}

func NewPurchaseOrderService(products *ProductService, inbound *InboundOrderService, seed []Record) *PurchaseOrderService {
	return &PurchaseOrderService{
		documents: documents{
			coll:     NewCollection("采购订单", "po", "PO", seed...),
			products: products,
			itemsKey: "items",
			editable: []string{PurchaseOrderDraft, PurchaseOrderOrdered},
		},
		inbound: inbound,
	}
}

func (s *PurchaseOrderService) Create(payload any) *shared.Envelope {
	rec, err := s.create(payload, PurchaseOrderOrdered, Record{"orderDate": today()})
	return envelopeOf("创建成功", rec, err)
}

// ConfirmReceipt marks an ordered purchase as received. payload may carry
// the received "items", a "warehouse" and a "remark".
func (s *PurchaseOrderService) ConfirmReceipt(id string, payload any) *shared.Envelope {
	receipt, err := toRecord(payload)
	if err != nil {
		return envelopeOf("", nil, err)
	}

	rec, err := s.transition(id, []string{PurchaseOrderOrdered}, PurchaseOrderReceived, func(r Record) {
		r["receivedAt"] = timestamp()
		if items, ok := receipt["items"]; ok {
			r["receivedItems"] = items
		} else {
			r["receivedItems"] = cloneValue(r["items"])
		}
		if remark, ok := receipt["remark"]; ok {
			r["receiptRemark"] = remark
		}
	})
	if err != nil {
		return envelopeOf("", nil, err)
	}

	if s.inbound != nil {
		warehouse := receipt.String("warehouse")
		if warehouse == "" {
			warehouse = "主仓库"
		}
		s.inbound.book(Record{
			"sourceType":      "PURCHASE_ORDER",
			"purchaseOrderId": rec["id"],
			"supplierName":    rec["supplierName"],
			"warehouse":       warehouse,
			"items":           cloneValue(rec["receivedItems"]),
		})
	}
	return shared.NewSuccessEnvelope("收货成功", rec)
}

// decodeInto converts a loosely typed payload into v
func decodeInto(payload any, v any) error {
	if payload == nil {
		return nil
	}
	env := shared.Envelope{Data: payload}
	if err := env.DecodeData(v); err != nil {
		return shared.ErrInvalidInput
	}
	return nil
}
