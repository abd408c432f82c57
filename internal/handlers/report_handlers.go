package handlers

import (
	"fmt"
	"log"
	"net/http"

	"canteenhub/internal/common"
	"canteenhub/internal/services"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportDaily streams the daily report PDF for the given date.
func (h *ReportHandler) ExportDaily(c echo.Context) error {
	date, err := common.ValidateDateFormat(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	data, err := h.reportService.DailyReportPDF(c.Request().Context(), date)
	if err != nil {
		log.Printf("ERROR: failed to render daily report: %v", err)
		return common.SendServerError(c, "Failed to render report")
	}

	filename := fmt.Sprintf("canteen-report-%s.pdf", date.Format("2006-01-02"))
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// ArchiveDaily renders the report and stores it in the report bucket.
func (h *ReportHandler) ArchiveDaily(c echo.Context) error {
	date, err := common.ValidateDateFormat(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	key, err := h.reportService.ArchiveDailyReport(c.Request().Context(), date)
	if err != nil {
		log.Printf("ERROR: failed to archive daily report: %v", err)
		return common.SendServerError(c, "Failed to archive report")
	}
	return c.JSON(http.StatusOK, map[string]string{"key": key})
}

// Summary returns order count and revenue for a date.
func (h *ReportHandler) Summary(c echo.Context) error {
	date, err := common.ValidateDateFormat(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	summary, err := h.reportService.DailySummary(c.Request().Context(), date)
	if err != nil {
		log.Printf("ERROR: failed to build daily summary: %v", err)
		return common.SendServerError(c, "Failed to build summary")
	}
	return c.JSON(http.StatusOK, summary)
}
