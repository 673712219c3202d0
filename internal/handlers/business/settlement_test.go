package business

import (
	"testing"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJune(t *testing.T) {
	t.Helper()
	seedRevenue(t, "10000.00", "300.00", date(2025, 6, 5), "tx-1")
	seedExpense(t, "1000.00", date(2025, 6, 10), nil, models.ApprovalStatusApproved)
	seedExpense(t, "500.00", date(2025, 6, 12), strPtr("contractor-7"), models.ApprovalStatusApproved)
}

func TestFinalizeBlockedByPendingAdjustments(t *testing.T) {
	setupTestDB(t)
	seedJune(t)

	pending := proposePeer(t, models.PartnerA, 2025, 6, "15")

	var preconditionErr *PreconditionError
	_, err := FinalizeSettlement(2025, 6, "admin-1")
	require.ErrorAs(t, err, &preconditionErr)
	assert.Equal(t, int64(1), preconditionErr.PendingAdjustments)
	assert.Equal(t, 2025, preconditionErr.Year)
	assert.Equal(t, 6, preconditionErr.Month)

	// Either decision outcome unblocks the period
	_, err = DecideAdjustment(pending.ID, DecisionReject, "admin-2")
	require.NoError(t, err)

	settlement, err := FinalizeSettlement(2025, 6, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusFinalized, settlement.Status)
	assert.Equal(t, "admin-1", settlement.FinalizedBy)
	require.NotNil(t, settlement.FinalizedAt)
	assert.Nil(t, settlement.PaidAt)
	assert.Equal(t, "8200", settlement.NetProfit.String())
}

func TestFinalizeTwiceConflicts(t *testing.T) {
	setupTestDB(t)
	seedJune(t)

	_, err := FinalizeSettlement(2025, 6, "admin-1")
	require.NoError(t, err)

	var conflictErr *ConflictError
	_, err = FinalizeSettlement(2025, 6, "admin-1")
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, 2025, conflictErr.Year)
	assert.Equal(t, 6, conflictErr.Month)
}

func TestFinalizeFreezesSnapshot(t *testing.T) {
	setupTestDB(t)
	seedJune(t)
	approveAdjustment(t, models.PartnerB, 2025, 6, "20")

	settlement, err := FinalizeSettlement(2025, 6, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "2460", settlement.PartnerAShare.String())
	assert.Equal(t, "1640", settlement.PartnerBShare.String())
	assert.Equal(t, "4100", settlement.CompanyResidual.String())

	// Late-arriving revenue for the period must not change the snapshot
	seedRevenue(t, "5000.00", "150.00", date(2025, 6, 28), "tx-late")

	allocation, err := GetAllocation(2025, 6)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusFinalized, allocation.Status)
	assert.Equal(t, "10000", allocation.TotalRevenue.String())
	assert.Equal(t, "8200", allocation.NetProfit.String())
	assert.Equal(t, "1640", allocation.Partners[1].Share.String())
	assert.Equal(t, "admin-1", allocation.FinalizedBy)
}

func TestGetAllocationDraftIsSideEffectFree(t *testing.T) {
	setupTestDB(t)
	seedJune(t)

	first, err := GetAllocation(2025, 6)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusDraft, first.Status)

	second, err := GetAllocation(2025, 6)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Draft reads never persist a settlement row
	var count int64
	require.NoError(t, dbconfig.DB.Model(&models.Settlement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMarkPaidRequiresFinalized(t *testing.T) {
	setupTestDB(t)
	seedJune(t)

	// Draft period cannot be paid
	var preconditionErr *PreconditionError
	_, err := MarkSettlementPaid(2025, 6, "admin-1")
	require.ErrorAs(t, err, &preconditionErr)
	assert.Equal(t, string(models.SettlementStatusDraft), preconditionErr.CurrentStatus)
	assert.Equal(t, string(models.SettlementStatusFinalized), preconditionErr.RequiredStatus)

	_, err = FinalizeSettlement(2025, 6, "admin-1")
	require.NoError(t, err)

	paid, err := MarkSettlementPaid(2025, 6, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	// Monetary fields are untouched by the transition
	assert.Equal(t, "8200", paid.NetProfit.String())

	// Terminal: paying again conflicts
	var conflictErr *ConflictError
	_, err = MarkSettlementPaid(2025, 6, "admin-1")
	require.ErrorAs(t, err, &conflictErr)

	// And a paid period can never be re-finalized
	_, err = FinalizeSettlement(2025, 6, "admin-1")
	require.ErrorAs(t, err, &conflictErr)
}

func TestGetAllocationReturnsPaidSnapshot(t *testing.T) {
	setupTestDB(t)
	seedJune(t)

	_, err := FinalizeSettlement(2025, 6, "admin-1")
	require.NoError(t, err)
	_, err = MarkSettlementPaid(2025, 6, "admin-1")
	require.NoError(t, err)

	allocation, err := GetAllocation(2025, 6)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementStatusPaid, allocation.Status)
	require.NotNil(t, allocation.PaidAt)
}

func TestListSettlementsPagination(t *testing.T) {
	setupTestDB(t)

	for month := 1; month <= 3; month++ {
		seedRevenue(t, "1000.00", "30.00", date(2025, month, 5), "")
		_, err := FinalizeSettlement(2025, month, "admin-1")
		require.NoError(t, err)
	}

	settlements, total, err := ListSettlements(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, settlements, 2)
	// Newest period first
	assert.Equal(t, 3, settlements[0].Month)
	assert.Equal(t, 2, settlements[1].Month)

	rest, _, err := ListSettlements(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, 1, rest[0].Month)
}

func TestFinalizeValidation(t *testing.T) {
	setupTestDB(t)

	var validationErr *ValidationError
	_, err := FinalizeSettlement(2025, 13, "admin-1")
	require.ErrorAs(t, err, &validationErr)

	_, err = FinalizeSettlement(2025, 6, "")
	require.ErrorAs(t, err, &validationErr)
}

func TestFinalizeWritesAuditLog(t *testing.T) {
	setupTestDB(t)
	seedJune(t)

	_, err := FinalizeSettlement(2025, 6, "admin-1")
	require.NoError(t, err)

	var logs []models.AuditLog
	require.NoError(t, dbconfig.DB.Where("action = ?", "settlement_finalized").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "admin-1", logs[0].Actor)
}
