package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"canteenhub/internal/common"
	"canteenhub/internal/models"
	"canteenhub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type MenuHandler struct {
	menuService services.MenuService
}

func NewMenuHandler(menuService services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// AvailableMenu returns everything orderable right now.
func (h *MenuHandler) AvailableMenu(c echo.Context) error {
	items, err := h.menuService.AvailableMenu(c.Request().Context(), time.Now())
	if err != nil {
		log.Printf("ERROR: failed to load available menu: %v", err)
		return common.SendServerError(c, "Failed to load menu")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	item, err := h.menuService.GetItem(c.Request().Context(), id)
	if err != nil {
		log.Printf("ERROR: failed to load menu item: %v", err)
		return common.SendServerError(c, "Failed to load menu item")
	}
	if item == nil {
		return common.SendNotFoundError(c, "Menu item")
	}
	return c.JSON(http.StatusOK, item)
}

type menuItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Quantity    int      `json:"quantity"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Days        []string `json:"available_days"`
}

func (h *MenuHandler) parseItemRequest(c echo.Context) (*models.MenuItem, error) {
	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return nil, common.SendClientError(c, "Invalid request body")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, common.SendValidationError(c, "name", err.Error())
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return nil, common.SendValidationError(c, "price", "price must be a positive number")
	}
	if req.Quantity < 0 {
		return nil, common.SendValidationError(c, "quantity", "quantity cannot be negative")
	}
	if err := common.ValidateClockFormat(req.StartTime, "start_time"); err != nil {
		return nil, common.SendValidationError(c, "start_time", err.Error())
	}
	if err := common.ValidateClockFormat(req.EndTime, "end_time"); err != nil {
		return nil, common.SendValidationError(c, "end_time", err.Error())
	}
	if len(req.Days) == 0 {
		return nil, common.SendValidationError(c, "available_days", "at least one weekday is required")
	}
	for _, day := range req.Days {
		if err := common.ValidateWeekday(day); err != nil {
			return nil, common.SendValidationError(c, "available_days", err.Error())
		}
	}

	return &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Quantity:    req.Quantity,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Days:        req.Days,
	}, nil
}

func (h *MenuHandler) CreateItem(c echo.Context) error {
	item, err := h.parseItemRequest(c)
	if err != nil {
		return err
	}
	if err := h.menuService.CreateItem(c.Request().Context(), item); err != nil {
		log.Printf("ERROR: failed to create menu item: %v", err)
		return common.SendServerError(c, "Failed to create menu item")
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	item, parseErr := h.parseItemRequest(c)
	if parseErr != nil {
		return parseErr
	}
	item.ID = id

	if err := h.menuService.UpdateItem(c.Request().Context(), item); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		log.Printf("ERROR: failed to update menu item: %v", err)
		return common.SendServerError(c, "Failed to update menu item")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	if err := h.menuService.DeleteItem(c.Request().Context(), id); err != nil {
		log.Printf("ERROR: failed to delete menu item: %v", err)
		return common.SendServerError(c, "Failed to delete menu item")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) ListItems(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	items, err := h.menuService.ListItems(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to list menu items: %v", err)
		return common.SendServerError(c, "Failed to list menu items")
	}
	return c.JSON(http.StatusOK, items)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *MenuHandler) Restock(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidatePositiveInteger(req.Quantity, "quantity", 10000); err != nil {
		return common.SendValidationError(c, "quantity", err.Error())
	}

	item, err := h.menuService.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		log.Printf("ERROR: failed to restock menu item: %v", err)
		return common.SendServerError(c, "Failed to restock menu item")
	}
	return c.JSON(http.StatusOK, item)
}

// Search performs filtered, sorted search on the catalog.
func (h *MenuHandler) Search(c echo.Context) error {
	filter := &models.MenuItemSearchFilter{
		Query:     c.QueryParam("q"),
		Day:       c.QueryParam("day"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}

	if filter.Day != "" {
		if err := common.ValidateWeekday(filter.Day); err != nil {
			return common.SendValidationError(c, "day", err.Error())
		}
	}
	if raw := c.QueryParam("stock_threshold"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			return common.SendValidationError(c, "stock_threshold", "stock_threshold must be a non-negative integer")
		}
		filter.StockThreshold = &threshold
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || minPrice < 0 {
			return common.SendValidationError(c, "min_price", "min_price must be a non-negative number")
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			return common.SendValidationError(c, "max_price", "max_price must be a non-negative number")
		}
		filter.MaxPrice = &maxPrice
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	filter.Limit = limit
	filter.Offset = offset

	items, err := h.menuService.Search(c.Request().Context(), filter)
	if err != nil {
		log.Printf("ERROR: menu search failed: %v", err)
		return common.SendServerError(c, "Search failed")
	}
	return c.JSON(http.StatusOK, items)
}

// AttachPhoto uploads a photo for a menu item.
func (h *MenuHandler) AttachPhoto(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return common.SendValidationError(c, "photo", "photo file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	item, err := h.menuService.AttachPhoto(c.Request().Context(), id, src, file.Size, contentType)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		log.Printf("ERROR: failed to attach photo: %v", err)
		return common.SendServerError(c, "Failed to attach photo")
	}
	return c.JSON(http.StatusOK, item)
}

// PhotoURL returns a presigned link to the item photo.
func (h *MenuHandler) PhotoURL(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	url, err := h.menuService.PhotoURL(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return common.SendNotFoundError(c, "Menu item")
		}
		log.Printf("ERROR: failed to presign photo: %v", err)
		return common.SendServerError(c, "Failed to generate photo link")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
