// Package http exposes the marketplace use cases over REST with echo. Every response is either
// {"status":"ok", ...} or {"status":"error","kind":...,"detail":{...}}.
package http

import (
	"net/http"
	"strings"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler     commands.PlaceOrderCommandHandler
	transitionHandler     commands.RequestTransitionCommandHandler
	assignShipperHandler  commands.AssignShipperCommandHandler
	setAccountLockHandler commands.SetAccountLockCommandHandler

	// Query handlers
	getOrderHandler    queries.GetOrderQueryHandler
	getEarningsHandler queries.GetSellerEarningsQueryHandler
	getProfileHandler  queries.GetProfileQueryHandler
}

func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	transitionHandler commands.RequestTransitionCommandHandler,
	assignShipperHandler commands.AssignShipperCommandHandler,
	setAccountLockHandler commands.SetAccountLockCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getEarningsHandler queries.GetSellerEarningsQueryHandler,
	getProfileHandler queries.GetProfileQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:     placeOrderHandler,
		transitionHandler:     transitionHandler,
		assignShipperHandler:  assignShipperHandler,
		setAccountLockHandler: setAccountLockHandler,
		getOrderHandler:       getOrderHandler,
		getEarningsHandler:    getEarningsHandler,
		getProfileHandler:     getProfileHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/transitions", s.RequestTransition)
	api.POST("/orders/:id/shipper", s.AssignShipper)
	api.GET("/sellers/:id/earnings", s.GetSellerEarnings)
	api.GET("/me", s.GetProfile)
	api.PUT("/principals/:id/lock", s.SetAccountLock)
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body")
	}

	items := make([]commands.PlaceOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return badRequest(c, "productId")
		}
		items = append(items, commands.PlaceOrderItem{ProductID: productID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewPlaceOrderCommand(bearerToken(c), items)
	if err != nil {
		return renderError(c, err)
	}

	o, err := s.placeOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusCreated, OkResponse{Status: "ok", Order: newOrderResponse(o)})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "id")
	}

	query, err := queries.NewGetOrderQuery(bearerToken(c), orderID)
	if err != nil {
		return renderError(c, err)
	}

	o, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Status: "ok", Order: newOrderResponse(o)})
}

// RequestTransition handles POST /api/v1/orders/:id/transitions.
func (s *Server) RequestTransition(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "id")
	}

	var req TransitionRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "body")
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return renderError(c, err)
	}

	tracking := order.Tracking{Number: req.TrackingNumber, EstimatedDelivery: req.EstimatedDelivery}
	cmd, err := commands.NewRequestTransitionCommand(bearerToken(c), orderID, target, tracking)
	if err != nil {
		return renderError(c, err)
	}

	o, err := s.transitionHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Status: "ok", Order: newOrderResponse(o)})
}

// AssignShipper handles POST /api/v1/orders/:id/shipper.
func (s *Server) AssignShipper(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "id")
	}

	var req AssignShipperRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "body")
	}

	shipperID, err := kernel.UUIDFromString(req.ShipperID)
	if err != nil {
		return badRequest(c, "shipperId")
	}

	cmd, err := commands.NewAssignShipperCommand(bearerToken(c), orderID, shipperID)
	if err != nil {
		return renderError(c, err)
	}

	o, err := s.assignShipperHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Status: "ok", Order: newOrderResponse(o)})
}

// GetSellerEarnings handles GET /api/v1/sellers/:id/earnings.
func (s *Server) GetSellerEarnings(c echo.Context) error {
	sellerID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "id")
	}

	query, err := queries.NewGetSellerEarningsQuery(bearerToken(c), sellerID)
	if err != nil {
		return renderError(c, err)
	}

	earnings, err := s.getEarningsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Status: "ok", Earnings: newEarningsResponse(earnings)})
}

// GetProfile handles GET /api/v1/me.
func (s *Server) GetProfile(c echo.Context) error {
	profile, err := s.getProfileHandler.Handle(c.Request().Context(), queries.NewGetProfileQuery(bearerToken(c)))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Status: "ok", Profile: newProfileResponse(profile)})
}

// SetAccountLock handles PUT /api/v1/principals/:id/lock.
func (s *Server) SetAccountLock(c echo.Context) error {
	principalID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "id")
	}

	var req AccountLockRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "body")
	}

	cmd, err := commands.NewSetAccountLockCommand(bearerToken(c), principalID, req.Locked)
	if err != nil {
		return renderError(c, err)
	}

	if err = s.setAccountLockHandler.Handle(c.Request().Context(), cmd); err != nil {
		return renderError(c, err)
	}

	return c.JSON(http.StatusOK, OkResponse{Status: "ok"})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
