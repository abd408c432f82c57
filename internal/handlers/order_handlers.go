package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"canteenhub/internal/common"
	"canteenhub/internal/services"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder commits the session cart into an order.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	order, lines, err := h.orderService.PlaceOrder(c.Request().Context(), sessionID)
	if err != nil {
		var stockErr *services.InsufficientStockError
		var fundsErr *services.InsufficientFundsError
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			return common.SendUnauthorizedError(c)
		case errors.Is(err, services.ErrEmployeeNotFound):
			return common.SendNotFoundError(c, "Employee")
		case errors.Is(err, services.ErrEmptyCart):
			return common.SendClientError(c, "Cart is empty")
		case errors.As(err, &stockErr):
			return common.SendConflictError(c, "INSUFFICIENT_STOCK", stockErr.Error())
		case errors.As(err, &fundsErr):
			return common.SendConflictError(c, "INSUFFICIENT_FUNDS", fundsErr.Error())
		default:
			log.Printf("ERROR: failed to place order: %v", err)
			return common.SendServerError(c, "Failed to place order")
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"order": order,
		"lines": lines,
	})
}

// GetOrder returns an order with its resolved lines.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, lines, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		log.Printf("ERROR: failed to load order: %v", err)
		return common.SendServerError(c, "Failed to load order")
	}
	if order == nil {
		return common.SendNotFoundError(c, "Order")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"order": order,
		"lines": lines,
	})
}

// ListMyOrders returns the verified employee's order history.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	employeeID, ok := common.GetEmployeeIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.ListEmployeeOrders(c.Request().Context(), employeeID, limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to list orders: %v", err)
		return common.SendServerError(c, "Failed to list orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// ListByDate returns all orders for a calendar date. Admin endpoint.
func (h *OrderHandler) ListByDate(c echo.Context) error {
	date, err := common.ValidateDateFormat(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	orders, err := h.orderService.ListOrdersByDate(c.Request().Context(), date)
	if err != nil {
		log.Printf("ERROR: failed to list orders by date: %v", err)
		return common.SendServerError(c, "Failed to list orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// PurgeByDate deletes all orders for a calendar date. Admin endpoint.
func (h *OrderHandler) PurgeByDate(c echo.Context) error {
	date, err := common.ValidateDateFormat(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	deleted, err := h.orderService.PurgeOrdersByDate(c.Request().Context(), date)
	if err != nil {
		log.Printf("ERROR: failed to purge orders: %v", err)
		return common.SendServerError(c, "Failed to purge orders")
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": deleted})
}
