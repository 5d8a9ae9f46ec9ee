package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"
)

type PlaceOrderRequest struct {
	Items []PlaceOrderItemRequest `json:"items"`
}

type PlaceOrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type TransitionRequest struct {
	Target            string     `json:"target"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

type AssignShipperRequest struct {
	ShipperID string `json:"shipperId"`
}

type AccountLockRequest struct {
	Locked bool `json:"locked"`
}

type LineItemResponse struct {
	ProductID string `json:"productId"`
	SellerID  string `json:"sellerId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type TrackingResponse struct {
	Number            string     `json:"number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

type OrderResponse struct {
	ID                string               `json:"id"`
	CustomerID        string               `json:"customerId"`
	Status            string               `json:"status"`
	Items             []LineItemResponse   `json:"items"`
	Total             string               `json:"total"`
	ShipperID         *string              `json:"shipperId,omitempty"`
	ShipperAssignedAt *time.Time           `json:"shipperAssignedAt,omitempty"`
	Tracking          *TrackingResponse    `json:"tracking,omitempty"`
	Timeline          map[string]time.Time `json:"timeline"`
	Version           int64                `json:"version"`
}

type EarningsResponse struct {
	SellerID string `json:"sellerId"`
	Total    string `json:"total"`
	Entries  int    `json:"entries"`
}

type ProfileResponse struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Locked bool   `json:"locked"`
}

// OkResponse and ErrorResponse are the two envelopes every endpoint answers with.
type OkResponse struct {
	Status   string            `json:"status"`
	Order    *OrderResponse    `json:"order,omitempty"`
	Earnings *EarningsResponse `json:"earnings,omitempty"`
	Profile  *ProfileResponse  `json:"profile,omitempty"`
}

type ErrorResponse struct {
	Status string            `json:"status"`
	Kind   string            `json:"kind"`
	Detail map[string]string `json:"detail"`
}

func newOrderResponse(o *order.Order) *OrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, LineItemResponse{
			ProductID: item.ProductID().String(),
			SellerID:  item.SellerID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
		})
	}

	timeline := make(map[string]time.Time)
	for status, at := range o.Timeline() {
		timeline[status.String()] = at
	}

	response := &OrderResponse{
		ID:                o.ID().String(),
		CustomerID:        o.CustomerID().String(),
		Status:            o.Status().String(),
		Items:             items,
		Total:             o.Total().String(),
		ShipperAssignedAt: o.ShipperAssignedAt(),
		Timeline:          timeline,
		Version:           o.Version(),
	}

	if shipper := o.Shipper(); shipper != nil {
		id := shipper.String()
		response.ShipperID = &id
	}

	if tracking := o.Tracking(); !tracking.IsEmpty() {
		response.Tracking = &TrackingResponse{
			Number:            tracking.Number,
			EstimatedDelivery: tracking.EstimatedDelivery,
		}
	}

	return response
}

func newEarningsResponse(r queries.GetSellerEarningsQueryResponse) *EarningsResponse {
	return &EarningsResponse{
		SellerID: r.SellerID.String(),
		Total:    r.Total.String(),
		Entries:  r.Entries,
	}
}

func newProfileResponse(r queries.GetProfileQueryResponse) *ProfileResponse {
	return &ProfileResponse{
		ID:     r.ID.String(),
		Role:   r.Role.String(),
		Locked: r.Locked,
	}
}
