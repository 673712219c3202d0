package business

import (
	"testing"
	"time"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the engine at a fresh in-memory database
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.FinancialRecord{},
		&models.RevenueShareAdjustment{},
		&models.Settlement{},
		&models.AuditLog{},
	))

	dbconfig.DB = db
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func seedRevenue(t *testing.T, amount, fee string, occurredOn time.Time, externalRef string) *models.FinancialRecord {
	t.Helper()

	record := &models.FinancialRecord{
		Kind:           models.RecordKindRevenue,
		Amount:         mustDecimal(t, amount),
		Fee:            mustDecimal(t, fee),
		OccurredOn:     occurredOn,
		Category:       ImportCategory,
		ApprovalStatus: models.ApprovalStatusApproved,
	}
	if externalRef != "" {
		record.ExternalRef = &externalRef
	}
	require.NoError(t, dbconfig.DB.Create(record).Error)
	return record
}

func seedExpense(t *testing.T, amount string, occurredOn time.Time, contractorID *string, status models.ApprovalStatus) *models.FinancialRecord {
	t.Helper()

	record := &models.FinancialRecord{
		Kind:           models.RecordKindExpense,
		Amount:         mustDecimal(t, amount),
		Fee:            decimal.Zero,
		OccurredOn:     occurredOn,
		Category:       "operations",
		ContractorID:   contractorID,
		ApprovalStatus: status,
	}
	require.NoError(t, dbconfig.DB.Create(record).Error)
	return record
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func strPtr(s string) *string {
	return &s
}
