package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"canteenhub/internal/repositories"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ReportService renders the daily order report as a PDF and archives it to
// the object store.
type ReportService interface {
	DailyReportPDF(ctx context.Context, date time.Time) ([]byte, error)
	ArchiveDailyReport(ctx context.Context, date time.Time) (string, error)
	DailySummary(ctx context.Context, date time.Time) (*DailySummary, error)
}

// DailySummary aggregates a day's orders for the admin dashboard.
type DailySummary struct {
	Date       string          `json:"date"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type reportService struct {
	orderRepo    repositories.OrderRepository
	minio        *MinioService
	reportBucket string
}

func NewReportService(orderRepo repositories.OrderRepository, minio *MinioService, reportBucket string) ReportService {
	return &reportService{
		orderRepo:    orderRepo,
		minio:        minio,
		reportBucket: reportBucket,
	}
}

// DailyReportPDF renders one table row per order: who ordered, the line
// summary, the total and the time. An empty day still produces a valid PDF.
func (s *reportService) DailyReportPDF(ctx context.Context, date time.Time) ([]byte, error) {
	rows, err := s.orderRepo.DailyReportRows(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load report rows: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, fmt.Sprintf("Canteen Daily Report - %s", date.Format("2006-01-02")))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(45, 8, "Employee", "1", 0, "L", true, 0, "")
	pdf.CellFormat(85, 8, "Items", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Time", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	grandTotal := decimal.Zero
	for _, row := range rows {
		items := row.Items
		if len(items) > 60 {
			items = items[:57] + "..."
		}
		pdf.CellFormat(45, 7, row.EmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(85, 7, items, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, row.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, row.OrderedAt.Format("15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		grandTotal = grandTotal.Add(row.TotalAmount)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 8, fmt.Sprintf("Orders: %d", len(rows)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("Grand Total: %s", grandTotal.StringFixed(2)), "1", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ArchiveDailyReport renders the report and uploads it to the report bucket,
// returning the object key. Used by the nightly scheduler and the manual
// export endpoint.
func (s *reportService) ArchiveDailyReport(ctx context.Context, date time.Time) (string, error) {
	data, err := s.DailyReportPDF(ctx, date)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("daily/%s.pdf", date.Format("2006-01-02"))
	if err := s.minio.UploadBytes(ctx, s.reportBucket, key, data, "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}
	log.Printf("Archived daily report %s (%d bytes)", key, len(data))
	return key, nil
}

func (s *reportService) DailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	rows, err := s.orderRepo.DailyReportRows(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load report rows: %w", err)
	}

	summary := &DailySummary{Date: date.Format("2006-01-02"), OrderCount: len(rows), Revenue: decimal.Zero}
	for _, row := range rows {
		summary.Revenue = summary.Revenue.Add(row.TotalAmount)
	}
	return summary, nil
}
