package schedule

import (
	"os"
	"time"

	"profitshare/internal/handlers/business"
	"profitshare/pkg/payprocessor"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
)

// RunMonthlyImport pulls the previous calendar month from the processor feed
// and ingests it into the ledger. Safe to re-run: already-imported
// transactions are skipped by external ref.
func RunMonthlyImport() error {
	now := time.Now().UTC()
	period := business.Period{Year: now.Year(), Month: int(now.Month())}.Previous()
	start, end := period.Bounds()

	logger.Infof("> starting monthly ledger import for %s", period)

	feed := payprocessor.NewClient(os.Getenv("PAYFEED_API_KEY"))
	result, err := business.RunFeedImport(feed, start, end)
	if err != nil {
		return err
	}

	logger.Infof("> monthly import for %s done: imported=%d skipped=%d errors=%d (batch %s)",
		period, result.Imported, result.Skipped, len(result.Errors), result.BatchID)
	return nil
}

// StartImportScheduler runs the monthly import on the 1st at 06:00 UTC,
// after the processor has closed the previous day's settlements.
func StartImportScheduler() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 6 1 * *", func() {
		if err := RunMonthlyImport(); err != nil {
			logger.Errorf("> monthly ledger import failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> failed to schedule monthly import: %v", err)
	}

	c.Start()
	logger.Info("> ledger import scheduler started")
	return c
}
