package business

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodValidate(t *testing.T) {
	assert.NoError(t, Period{Year: 2025, Month: 6}.Validate())
	assert.NoError(t, Period{Year: 2025, Month: 1}.Validate())
	assert.NoError(t, Period{Year: 2025, Month: 12}.Validate())

	var validationErr *ValidationError
	err := Period{Year: 2025, Month: 0}.Validate()
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "month", validationErr.Field)

	err = Period{Year: 2025, Month: 13}.Validate()
	require.ErrorAs(t, err, &validationErr)

	err = Period{Year: 1999, Month: 6}.Validate()
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "year", validationErr.Field)
}

func TestPeriodBounds(t *testing.T) {
	start, end := Period{Year: 2025, Month: 6}.Bounds()
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls over into the next year
	start, end = Period{Year: 2025, Month: 12}.Bounds()
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)

	// February in a leap year covers the 29th
	start, end = Period{Year: 2024, Month: 2}.Bounds()
	assert.True(t, start.Before(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)))
	assert.True(t, end.After(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)))
}

func TestPeriodPrevious(t *testing.T) {
	assert.Equal(t, Period{Year: 2025, Month: 5}, Period{Year: 2025, Month: 6}.Previous())
	assert.Equal(t, Period{Year: 2024, Month: 12}, Period{Year: 2025, Month: 1}.Previous())
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDateRange(start, start.AddDate(0, 1, 0)))
	assert.NoError(t, ValidateDateRange(start, start.AddDate(0, 0, 366)))

	var validationErr *ValidationError
	require.ErrorAs(t, ValidateDateRange(start, start), &validationErr)
	require.ErrorAs(t, ValidateDateRange(start.AddDate(0, 1, 0), start), &validationErr)
	require.ErrorAs(t, ValidateDateRange(start, start.AddDate(0, 0, 367)), &validationErr)
}
