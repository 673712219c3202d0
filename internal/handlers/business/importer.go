package business

import (
	"fmt"
	"time"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"
	"profitshare/pkg/payprocessor"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ImportCategory is the ledger category stamped on processor-sourced revenue
const ImportCategory = "platform_revenue"

// ImportError records one transaction that could not be ingested
type ImportError struct {
	ExternalRef string `json:"external_ref"`
	Reason      string `json:"reason"`
}

// ImportResult summarizes one import batch
type ImportResult struct {
	BatchID  string        `json:"batch_id"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// FeedClient is the read-only processor feed consumed by the importer
type FeedClient interface {
	GetSettledTransactions(start, end time.Time) ([]payprocessor.SettledTransaction, error)
}

// ImportTransactions ingests settled charges into the ledger exactly once per
// external ref. A transaction whose ref already exists counts as skipped, and
// one bad item never aborts the batch: the loop continues and reports
// per-item errors.
func ImportTransactions(transactions []payprocessor.SettledTransaction) *ImportResult {
	result := &ImportResult{BatchID: uuid.NewString()}

	for i := range transactions {
		txn := &transactions[i]
		if txn.ExternalRef == "" {
			result.Errors = append(result.Errors, ImportError{
				Reason: "missing external ref",
			})
			continue
		}

		var count int64
		if err := dbconfig.DB.Model(&models.FinancialRecord{}).
			Where("external_ref = ?", txn.ExternalRef).
			Count(&count).Error; err != nil {
			result.Errors = append(result.Errors, ImportError{
				ExternalRef: txn.ExternalRef,
				Reason:      err.Error(),
			})
			continue
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		ref := txn.ExternalRef
		record := models.FinancialRecord{
			Kind:   models.RecordKindRevenue,
			Amount: txn.Amount,
			Fee:    txn.Fee,
			// The processor's local settlement date decides which period
			// the money belongs to, not the time we ingested it.
			OccurredOn:     txn.SettledAt.UTC().Truncate(24 * time.Hour),
			Category:       ImportCategory,
			Description:    txn.Description,
			ApprovalStatus: models.ApprovalStatusApproved,
			ExternalRef:    &ref,
			CreatedBy:      "importer",
		}
		if err := dbconfig.DB.Create(&record).Error; err != nil {
			// A concurrent batch may have inserted the same ref between the
			// count and the create; the unique index turns that into an
			// error here, which is a skip, not a failure.
			var again int64
			dbconfig.DB.Model(&models.FinancialRecord{}).
				Where("external_ref = ?", txn.ExternalRef).
				Count(&again)
			if again > 0 {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, ImportError{
				ExternalRef: txn.ExternalRef,
				Reason:      err.Error(),
			})
			continue
		}
		result.Imported++
	}

	logImportResult(result)
	return result
}

// RunFeedImport pulls the processor feed for a date range and ingests it
func RunFeedImport(feed FeedClient, start, end time.Time) (*ImportResult, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	transactions, err := feed.GetSettledTransactions(start, end)
	if err != nil {
		return nil, &UpstreamError{Op: "settled transactions feed", Err: err}
	}
	return ImportTransactions(transactions), nil
}

func logImportResult(result *ImportResult) {
	logrus.WithFields(logrus.Fields{
		"batch_id": result.BatchID,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   len(result.Errors),
	}).Info("ledger import batch finished")

	err := dbconfig.DB.Create(&models.AuditLog{
		Actor:   "importer",
		Action:  "ledger_import",
		Level:   "INFO",
		Message: fmt.Sprintf("imported %d, skipped %d, %d errors", result.Imported, result.Skipped, len(result.Errors)),
		Meta: models.JSONMap{
			"batch_id": result.BatchID,
			"imported": result.Imported,
			"skipped":  result.Skipped,
			"errors":   len(result.Errors),
		},
	}).Error
	if err != nil {
		logrus.Warnf("failed to write import audit log: %v", err)
	}
}
