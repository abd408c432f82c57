package background

import (
	"context"
	"log"
	"time"

	"canteenhub/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic canteen jobs: low stock alerts during the
// day and the nightly report archive.
type JobScheduler struct {
	scheduler         gocron.Scheduler
	menuService       services.MenuService
	reportService     services.ReportService
	notifier          services.NotificationService
	lowStockThreshold int
}

func NewJobScheduler(menuService services.MenuService, reportService services.ReportService, notifier services.NotificationService, lowStockThreshold int) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &JobScheduler{
		scheduler:         scheduler,
		menuService:       menuService,
		reportService:     reportService,
		notifier:          notifier,
		lowStockThreshold: lowStockThreshold,
	}, nil
}

// Start registers the jobs and launches the scheduler.
func (js *JobScheduler) Start() error {
	// Low stock scan every hour during serving hours.
	_, err := js.scheduler.NewJob(
		gocron.CronJob("0 7-20 * * *", false),
		gocron.NewTask(js.runLowStockScan),
	)
	if err != nil {
		return err
	}

	// Archive the day's report after the canteen closes.
	_, err = js.scheduler.NewJob(
		gocron.CronJob("0 21 * * *", false),
		gocron.NewTask(js.runNightlyArchive),
	)
	if err != nil {
		return err
	}

	js.scheduler.Start()
	log.Println("Background job scheduler started")
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (js *JobScheduler) Stop() error {
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) runLowStockScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	items, err := js.menuService.LowStockItems(ctx, js.lowStockThreshold)
	if err != nil {
		log.Printf("ERROR: low stock scan failed: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}

	log.Printf("Low stock scan found %d items at or below %d", len(items), js.lowStockThreshold)
	if err := js.notifier.SendLowStockAlert(ctx, items); err != nil {
		log.Printf("WARN: low stock alert not delivered: %v", err)
	}
}

func (js *JobScheduler) runNightlyArchive() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	key, err := js.reportService.ArchiveDailyReport(ctx, time.Now())
	if err != nil {
		log.Printf("ERROR: nightly report archive failed: %v", err)
		return
	}
	log.Printf("Nightly report archived as %s", key)
}
