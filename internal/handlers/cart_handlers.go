package handlers

import (
	"errors"
	"log"
	"net/http"

	"canteenhub/internal/common"
	"canteenhub/internal/services"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type addCartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// AddItem merges a quantity into the session cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	if err := h.cartService.AddItem(c.Request().Context(), sessionID, itemID, req.Quantity); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		log.Printf("ERROR: failed to add cart item: %v", err)
		return common.SendServerError(c, "Failed to add item to cart")
	}
	return h.View(c)
}

// RemoveItem drops an entry from the cart. Unknown entries are a no-op.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.cartService.RemoveItem(c.Request().Context(), sessionID, itemID); err != nil {
		log.Printf("ERROR: failed to remove cart item: %v", err)
		return common.SendServerError(c, "Failed to remove item from cart")
	}
	return h.View(c)
}

// View returns the resolved cart with line amounts and the grand total.
func (h *CartHandler) View(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	view, err := h.cartService.View(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: failed to load cart: %v", err)
		return common.SendServerError(c, "Failed to load cart")
	}
	return c.JSON(http.StatusOK, view)
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if err := h.cartService.Clear(c.Request().Context(), sessionID); err != nil {
		log.Printf("ERROR: failed to clear cart: %v", err)
		return common.SendServerError(c, "Failed to clear cart")
	}
	return c.NoContent(http.StatusNoContent)
}
