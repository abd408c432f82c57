package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"canteenhub/internal/common"
	"canteenhub/internal/middleware"
	"canteenhub/internal/models"
	"canteenhub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type EmployeeHandler struct {
	employeeService services.EmployeeService
}

func NewEmployeeHandler(employeeService services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

type verifyRequest struct {
	EmployeeID string `json:"employee_id"`
	PIN        string `json:"pin"`
}

// Verify exchanges a scanned badge id and PIN for a session token.
func (h *EmployeeHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	employeeID, err := common.ValidateUUID(req.EmployeeID, "employee_id")
	if err != nil {
		return common.SendValidationError(c, "employee_id", err.Error())
	}
	if err := common.ValidatePIN(req.PIN); err != nil {
		return common.SendValidationError(c, "pin", err.Error())
	}

	sessionID, employee, err := h.employeeService.Verify(c.Request().Context(), employeeID, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			return common.SendNotFoundError(c, "Employee")
		case errors.Is(err, services.ErrIncorrectPin):
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INCORRECT_PIN", "Incorrect PIN", nil))
		default:
			log.Printf("ERROR: verification failed: %v", err)
			return common.SendServerError(c, "Verification failed")
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"session_token": sessionID,
		"employee":      employee,
	})
}

// Logout unbinds the caller's session.
func (h *EmployeeHandler) Logout(c echo.Context) error {
	sessionID, ok := common.GetSessionIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if err := h.employeeService.Logout(c.Request().Context(), sessionID); err != nil {
		log.Printf("ERROR: logout failed: %v", err)
		return common.SendServerError(c, "Logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the verified employee bound to the session.
func (h *EmployeeHandler) Me(c echo.Context) error {
	employeeID, ok := common.GetEmployeeIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	employee, err := h.employeeService.GetEmployee(c.Request().Context(), employeeID)
	if err != nil {
		log.Printf("ERROR: failed to load employee: %v", err)
		return common.SendServerError(c, "Failed to load employee")
	}
	if employee == nil {
		return common.SendNotFoundError(c, "Employee")
	}
	return c.JSON(http.StatusOK, employee)
}

type createEmployeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	PIN        string `json:"pin"`
	Wallet     string `json:"wallet_amount"`
}

func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if err := common.ValidatePIN(req.PIN); err != nil {
		return common.SendValidationError(c, "pin", err.Error())
	}

	wallet := decimal.Zero
	if req.Wallet != "" {
		parsed, err := decimal.NewFromString(req.Wallet)
		if err != nil || parsed.IsNegative() {
			return common.SendValidationError(c, "wallet_amount", "wallet_amount must be a non-negative amount")
		}
		wallet = parsed
	}

	employee := &models.Employee{
		Name:         req.Name,
		Email:        req.Email,
		Department:   req.Department,
		PIN:          req.PIN,
		WalletAmount: wallet,
	}
	if err := h.employeeService.CreateEmployee(c.Request().Context(), employee); err != nil {
		log.Printf("ERROR: failed to create employee: %v", err)
		return common.SendServerError(c, "Failed to create employee")
	}
	return c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	employee, err := h.employeeService.GetEmployee(c.Request().Context(), id)
	if err != nil {
		log.Printf("ERROR: failed to load employee: %v", err)
		return common.SendServerError(c, "Failed to load employee")
	}
	if employee == nil {
		return common.SendNotFoundError(c, "Employee")
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if req.PIN != "" {
		if err := common.ValidatePIN(req.PIN); err != nil {
			return common.SendValidationError(c, "pin", err.Error())
		}
	}

	employee := &models.Employee{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		PIN:        req.PIN,
	}
	if err := h.employeeService.UpdateEmployee(c.Request().Context(), employee); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return common.SendNotFoundError(c, "Employee")
		}
		log.Printf("ERROR: failed to update employee: %v", err)
		return common.SendServerError(c, "Failed to update employee")
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	if err := h.employeeService.DeleteEmployee(c.Request().Context(), id); err != nil {
		log.Printf("ERROR: failed to delete employee: %v", err)
		return common.SendServerError(c, "Failed to delete employee")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	employees, err := h.employeeService.ListEmployees(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to list employees: %v", err)
		return common.SendServerError(c, "Failed to list employees")
	}
	return c.JSON(http.StatusOK, employees)
}

type topUpRequest struct {
	Amount string `json:"amount"`
}

// TopUpWallet credits an employee wallet.
func (h *EmployeeHandler) TopUpWallet(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req topUpRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return common.SendValidationError(c, "amount", "amount must be a positive number")
	}

	employee, err := h.employeeService.TopUpWallet(c.Request().Context(), id, amount)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return common.SendNotFoundError(c, "Employee")
		}
		log.Printf("ERROR: failed to top up wallet: %v", err)
		return common.SendServerError(c, "Failed to top up wallet")
	}
	return c.JSON(http.StatusOK, employee)
}

// BadgeURL returns a presigned link to the employee's QR badge.
func (h *EmployeeHandler) BadgeURL(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	url, err := h.employeeService.BadgeURL(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return common.SendNotFoundError(c, "Employee")
		}
		log.Printf("ERROR: failed to presign badge: %v", err)
		return common.SendServerError(c, "Failed to generate badge link")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// AuthHandler issues admin tokens.
type AuthHandler struct {
	jwtSecret     string
	adminUsername string
	adminPassword string
}

func NewAuthHandler(jwtSecret, adminUsername, adminPassword string) *AuthHandler {
	return &AuthHandler{jwtSecret: jwtSecret, adminUsername: adminUsername, adminPassword: adminPassword}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if req.Username != h.adminUsername || req.Password != h.adminPassword {
		return common.SendUnauthorizedError(c)
	}

	token, err := middleware.MintAdminToken(h.jwtSecret, req.Username, 12*time.Hour)
	if err != nil {
		log.Printf("ERROR: failed to mint admin token: %v", err)
		return common.SendServerError(c, "Failed to issue token")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
