package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"profitshare/internal/handlers/business"
	"profitshare/pkg/config"
	"profitshare/pkg/payprocessor"
	"profitshare/schedule"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

// ImportJob is the ledger_import queue payload
type ImportJob struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	// Monthly import on the 1st, plus on-demand jobs from the queue
	importCron := schedule.StartImportScheduler()
	defer importCron.Stop()

	msgConsumer, err := config.NewConsumer("ledger_import")
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Ledger import worker started, waiting for messages...")

	err = msgConsumer.Consume(func(msg []byte) error {
		var job ImportJob
		if err := json.Unmarshal(msg, &job); err != nil {
			logrus.Errorf("Failed to unmarshal import job: %v", err)
			return err
		}

		start, err := time.Parse("2006-01-02", job.StartDate)
		if err != nil {
			logrus.Errorf("Invalid start_date in import job: %v", err)
			return err
		}
		end, err := time.Parse("2006-01-02", job.EndDate)
		if err != nil {
			logrus.Errorf("Invalid end_date in import job: %v", err)
			return err
		}

		feed := payprocessor.NewClient(os.Getenv("PAYFEED_API_KEY"))
		result, err := business.RunFeedImport(feed, start, end)
		if err != nil {
			logrus.Errorf("Import job failed: %v", err)
			return err
		}

		logrus.WithFields(logrus.Fields{
			"batch_id": result.BatchID,
			"imported": result.Imported,
			"skipped":  result.Skipped,
			"errors":   len(result.Errors),
		}).Info("Import job finished")
		return nil
	})
	if err != nil {
		logrus.Fatal("Consumer stopped: ", err)
	}
}
