package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID        uuid.UUID  `gorm:"type:uuid;index"`
	Status            string     `gorm:"type:varchar(16);index"`
	ShipperID         *uuid.UUID `gorm:"type:uuid;index"`
	ShipperAssignedAt *time.Time
	TrackingNumber    string `gorm:"type:varchar(64)"`
	EstimatedDelivery *time.Time
	Total             decimal.Decimal `gorm:"type:numeric(14,2)"`
	Version           int64

	PlacedAt    time.Time
	PreparingAt *time.Time
	InTransitAt *time.Time
	DeliveredAt *time.Time
	ReturnedAt  *time.Time
	CancelledAt *time.Time

	Items []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LineItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID       `gorm:"type:uuid;index"`
	SellerID  uuid.UUID       `gorm:"type:uuid;index"`
	Quantity  int
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	var shipperID *uuid.UUID
	if s.ShipperID != nil {
		raw := s.ShipperID.Bytes()
		shipperID = &raw
	}

	items := make([]LineItemDTO, 0, len(s.Items))
	for i, item := range s.Items {
		items = append(items, LineItemDTO{
			OrderID:   s.ID.Bytes(),
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			SellerID:  item.SellerID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:                s.ID.Bytes(),
		CustomerID:        s.CustomerID.Bytes(),
		Status:            s.Status.String(),
		ShipperID:         shipperID,
		ShipperAssignedAt: s.ShipperAssignedAt,
		TrackingNumber:    s.Tracking.Number,
		EstimatedDelivery: s.Tracking.EstimatedDelivery,
		Total:             o.Total().Decimal(),
		Version:           s.Version,
		PlacedAt:          s.EnteredAt[order.Placed],
		PreparingAt:       enteredAt(s, order.Preparing),
		InTransitAt:       enteredAt(s, order.InTransit),
		DeliveredAt:       enteredAt(s, order.Delivered),
		ReturnedAt:        enteredAt(s, order.Returned),
		CancelledAt:       enteredAt(s, order.Cancelled),
		Items:             items,
	}
}

func enteredAt(s order.Snapshot, status order.Status) *time.Time {
	at, ok := s.EnteredAt[status]
	if !ok {
		return nil
	}
	return &at
}

// changes are the columns Save may update; line items never change after placement.
func (dto OrderDTO) changes() map[string]any {
	return map[string]any{
		"status":              dto.Status,
		"shipper_id":          dto.ShipperID,
		"shipper_assigned_at": dto.ShipperAssignedAt,
		"tracking_number":     dto.TrackingNumber,
		"estimated_delivery":  dto.EstimatedDelivery,
		"preparing_at":        dto.PreparingAt,
		"in_transit_at":       dto.InTransitAt,
		"delivered_at":        dto.DeliveredAt,
		"returned_at":         dto.ReturnedAt,
		"cancelled_at":        dto.CancelledAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var shipperID *kernel.UUID
	if dto.ShipperID != nil {
		sID, shipperErr := kernel.UUIDFromBytes((*dto.ShipperID)[:])
		if shipperErr != nil {
			return nil, shipperErr
		}
		shipperID = &sID
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	entered := map[order.Status]time.Time{order.Placed: dto.PlacedAt}
	for status, at := range map[order.Status]*time.Time{
		order.Preparing: dto.PreparingAt,
		order.InTransit: dto.InTransitAt,
		order.Delivered: dto.DeliveredAt,
		order.Returned:  dto.ReturnedAt,
		order.Cancelled: dto.CancelledAt,
	} {
		if at != nil {
			entered[status] = *at
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                id,
		CustomerID:        customerID,
		Items:             items,
		Status:            status,
		ShipperID:         shipperID,
		ShipperAssignedAt: dto.ShipperAssignedAt,
		Tracking: order.Tracking{
			Number:            dto.TrackingNumber,
			EstimatedDelivery: dto.EstimatedDelivery,
		},
		EnteredAt: entered,
		Version:   dto.Version,
	})
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.LineItem{}, err
	}

	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return order.LineItem{}, err
	}

	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.NewLineItem(productID, sellerID, dto.Quantity, price)
}
