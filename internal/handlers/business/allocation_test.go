package business

import (
	"testing"

	"profitshare/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approveAdjustment(t *testing.T, partnerID string, year, month int, percent string) {
	t.Helper()

	adjustment, err := ProposeAdjustment(ProposeAdjustmentInput{
		Year:            year,
		Month:           month,
		AdjustmentType:  models.AdjustmentTypeAdminProposal,
		TargetPartnerID: partnerID,
		ProposedPercent: mustDecimal(t, percent),
		Reason:          "test adjustment",
		ProposedBy:      "admin-1",
	})
	require.NoError(t, err)

	_, err = DecideAdjustment(adjustment.ID, DecisionApprove, "admin-2")
	require.NoError(t, err)
}

func TestAllocateWorkedExample(t *testing.T) {
	setupTestDB(t)

	// revenue $10,000 with $300 fee, $1,000 company expense, $500 contractor
	// expense; partner A at basis 30%, partner B adjusted to 20%
	seedRevenue(t, "10000.00", "300.00", date(2025, 6, 5), "tx-1")
	seedExpense(t, "1000.00", date(2025, 6, 10), nil, models.ApprovalStatusApproved)
	seedExpense(t, "500.00", date(2025, 6, 12), strPtr("contractor-7"), models.ApprovalStatusApproved)
	approveAdjustment(t, models.PartnerB, 2025, 6, "20")

	allocation, err := Allocate(2025, 6)
	require.NoError(t, err)

	assert.Equal(t, "9700", allocation.GrossProfit.String())
	assert.Equal(t, "8200", allocation.NetProfit.String())
	assert.Equal(t, "1500", allocation.TotalExpenses.String())

	require.Len(t, allocation.Partners, 2)
	partnerA, partnerB := allocation.Partners[0], allocation.Partners[1]
	assert.Equal(t, models.PartnerA, partnerA.PartnerID)
	assert.Equal(t, "30", partnerA.Percent.String())
	assert.Equal(t, "2460", partnerA.Share.String())
	assert.Equal(t, models.PartnerB, partnerB.PartnerID)
	assert.Equal(t, "20", partnerB.Percent.String())
	assert.Equal(t, "1640", partnerB.Share.String())

	assert.Equal(t, "4100", allocation.CompanyResidual.String())
	assert.Equal(t, models.SettlementStatusDraft, allocation.Status)
}

func TestAllocateIsDeterministic(t *testing.T) {
	setupTestDB(t)

	seedRevenue(t, "1234.56", "37.03", date(2025, 6, 5), "tx-1")
	seedRevenue(t, "789.01", "23.67", date(2025, 6, 20), "tx-2")
	seedExpense(t, "150.49", date(2025, 6, 10), nil, models.ApprovalStatusApproved)
	approveAdjustment(t, models.PartnerA, 2025, 6, "12.5")

	first, err := Allocate(2025, 6)
	require.NoError(t, err)
	second, err := Allocate(2025, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAllocateLossMonthDoesNotClamp(t *testing.T) {
	setupTestDB(t)

	seedRevenue(t, "100.00", "10.00", date(2025, 6, 5), "tx-1")
	seedExpense(t, "1090.00", date(2025, 6, 10), nil, models.ApprovalStatusApproved)

	allocation, err := Allocate(2025, 6)
	require.NoError(t, err)

	assert.Equal(t, "-1000", allocation.NetProfit.String())
	// Both partners at basis 30%: a loss month reduces what is owed
	assert.Equal(t, "-300", allocation.Partners[0].Share.String())
	assert.Equal(t, "-300", allocation.Partners[1].Share.String())
	assert.Equal(t, "-400", allocation.CompanyResidual.String())
}

func TestAllocateResidualReconciles(t *testing.T) {
	setupTestDB(t)

	seedRevenue(t, "333.33", "11.11", date(2025, 6, 5), "tx-1")
	approveAdjustment(t, models.PartnerB, 2025, 6, "17.25")

	allocation, err := Allocate(2025, 6)
	require.NoError(t, err)

	sum := allocation.Partners[0].Share.
		Add(allocation.Partners[1].Share).
		Add(allocation.CompanyResidual)
	assert.True(t, sum.Equal(allocation.NetProfit),
		"shares %s + %s + residual %s must equal net %s",
		allocation.Partners[0].Share, allocation.Partners[1].Share,
		allocation.CompanyResidual, allocation.NetProfit)
}

func TestResolvePartnerPercentDefaultsToBasis(t *testing.T) {
	setupTestDB(t)

	percent, err := ResolvePartnerPercent(models.PartnerA, 2025, 6)
	require.NoError(t, err)
	assert.True(t, percent.Equal(models.BasisSharePercent))

	_, err = ResolvePartnerPercent("partner_c", 2025, 6)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestResolvePartnerPercentUsesLatestApproved(t *testing.T) {
	setupTestDB(t)

	approveAdjustment(t, models.PartnerA, 2025, 6, "25")
	approveAdjustment(t, models.PartnerA, 2025, 6, "10")

	percent, err := ResolvePartnerPercent(models.PartnerA, 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, "10", percent.String())

	// A rejected adjustment never changes the percent
	adjustment, err := ProposeAdjustment(ProposeAdjustmentInput{
		Year: 2025, Month: 6,
		AdjustmentType:  models.AdjustmentTypeAdminProposal,
		TargetPartnerID: models.PartnerA,
		ProposedPercent: mustDecimal(t, "5"),
		Reason:          "rejected attempt",
		ProposedBy:      "admin-1",
	})
	require.NoError(t, err)
	_, err = DecideAdjustment(adjustment.ID, DecisionReject, "admin-2")
	require.NoError(t, err)

	percent, err = ResolvePartnerPercent(models.PartnerA, 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, "10", percent.String())

	// Other periods are untouched
	percent, err = ResolvePartnerPercent(models.PartnerA, 2025, 7)
	require.NoError(t, err)
	assert.True(t, percent.Equal(models.BasisSharePercent))
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"30.045", "30.05"},
		{"30.044", "30.04"},
		{"30.046", "30.05"},
		{"-30.045", "-30.04"}, // ties go toward positive infinity
		{"-30.046", "-30.05"},
		{"2460", "2460"},
	}
	for _, tc := range cases {
		got := roundHalfUp(decimal.RequireFromString(tc.in), 2)
		assert.Equal(t, tc.want, got.String(), "roundHalfUp(%s)", tc.in)
	}
}

func TestAllocateRoundsSharesHalfUp(t *testing.T) {
	setupTestDB(t)

	// net 100.15 at 30% is 30.045, which rounds half-up to 30.05
	seedRevenue(t, "100.15", "0", date(2025, 6, 5), "tx-1")

	allocation, err := Allocate(2025, 6)
	require.NoError(t, err)

	assert.Equal(t, "30.05", allocation.Partners[0].Share.String())
	assert.Equal(t, "30.05", allocation.Partners[1].Share.String())
	assert.Equal(t, "40.05", allocation.CompanyResidual.String())
}
