package mock

import (
	"fmt"

	"github.com/erp/client/internal/domain/shared"
)

// Shipment statuses
const (
	ShipmentInTransit = "IN_TRANSIT"
	ShipmentDelivered = "DELIVERED"
)

// ShipmentOrderService manages shipments of outbound orders
type ShipmentOrderService struct {
	documents
	outbound *OutboundOrderService
	carriers *CarrierService
}

func NewShipmentOrderService(outbound *OutboundOrderService, carriers *CarrierService, seed []Record) *ShipmentOrderService {
	return &ShipmentOrderService{
		documents: documents{
			coll:     NewCollection("发货单", "sh", "SH", seed...),
			editable: []string{ShipmentInTransit},
		},
		outbound: outbound,
		carriers: carriers,
	}
}

// Create ships an outbound order. When outboundOrderId is given, that order
// must be ready to ship and is marked shipped.
func (s *ShipmentOrderService) Create(payload any) *shared.Envelope {
	rec, err := toRecord(payload)
	if err != nil {
		return envelopeOf("", nil, err)
	}

	if id := rec.String("carrierId"); id != "" && rec.String("carrierName") == "" {
		if c, ok := s.carriers.Find(id); ok {
			rec["carrierName"] = c["name"]
		}
	}
	if rec.String("trackingNo") == "" {
		rec["trackingNo"] = GenerateID("TN")
	}

	obID := rec.String("outboundOrderId")
	if obID != "" {
		ob, ok := s.outbound.coll.Find(obID)
		if !ok {
			return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("出库单%s不存在", obID)).Envelope()
		}
		if rec.String("customerName") == "" {
			rec["customerName"] = ob["customerName"]
		}
		if err := s.outbound.markShipped(obID); err != nil {
			return envelopeOf("", nil, err)
		}
	}

	created, err := s.create(rec, ShipmentInTransit, Record{"shippedAt": timestamp()})
	return envelopeOf("创建成功", created, err)
}

// Delete removes an in-transit shipment and returns its outbound order to
// ready to ship
func (s *ShipmentOrderService) Delete(id string) *shared.Envelope {
	var obID string
	err := s.coll.Remove(id, func(r Record) error {
		if err := s.requireStatus(r, s.editable...); err != nil {
			return err
		}
		obID = r.String("outboundOrderId")
		return nil
	})
	if err == nil && obID != "" {
		// the outbound order may have been deleted in the meantime
		_ = s.outbound.markReady(obID)
	}
	return envelopeOf("删除成功", nil, err)
}

// ConfirmDelivery marks an in-transit shipment delivered
func (s *ShipmentOrderService) ConfirmDelivery(id string) *shared.Envelope {
	rec, err := s.transition(id, []string{ShipmentInTransit}, ShipmentDelivered,
		func(r Record) { r["deliveredAt"] = timestamp() })
	return envelopeOf("确认送达成功", rec, err)
}
