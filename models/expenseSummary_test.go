package models_test

import (
	"bytes"
	"net/url"
	"testing"
	"time"

	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPeriodRange(t *testing.T) {
	now := time.Date(2024, time.February, 10, 23, 59, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		period   models.Period
		from, to time.Time
	}{
		{models.PeriodToday, day(2024, 2, 10), day(2024, 2, 10)},
		{models.PeriodThisMonth, day(2024, 2, 1), day(2024, 2, 29)},
		{models.PeriodThisYear, day(2024, 1, 1), day(2024, 12, 31)},
	}
	for _, tc := range cases {
		from, to, ok := tc.period.Range(now)
		require.True(t, ok, tc.period)
		assert.Equal(t, tc.from, from, tc.period)
		assert.Equal(t, tc.to, to, tc.period)
	}

	_, _, ok := models.Period("last_week").Range(now)
	assert.False(t, ok)
}

func TestPeriodRange_UsesBusinessTimezone(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)
	// 02:00 UTC on March 1st is still February 29th in Lima
	now := time.Date(2024, time.March, 1, 2, 0, 0, 0, time.UTC).In(lima)

	from, to, ok := models.PeriodThisMonth.Range(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), to)
}

func TestSummarizeExpenses_PartsAddUpToTotal(t *testing.T) {
	paid := models.PaymentStatusPaid
	pending := models.PaymentStatusPending
	pen := func(s string) decimal.NullDecimal {
		return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
	}
	expenses := []*models.Expense{
		{Category: "alquiler", AmountPen: pen("1500"), PaymentMethod: models.PaymentMethodTransfer, PaymentStatus: &paid},
		{Category: "servicios", AmountPen: pen("120.50"), PaymentMethod: models.PaymentMethodCash, PaymentStatus: &pending},
		{Category: "servicios", AmountPen: pen("79.50"), PaymentMethod: models.PaymentMethodCash},
		// USD only, contributes zero
		{Category: "marketing", AmountUsd: pen("300"), PaymentMethod: models.PaymentMethodCard, PaymentStatus: &paid},
	}

	summary := models.SummarizeExpenses(expenses)

	assert.Equal(t, "1700", summary.Total.String())
	assert.Equal(t, "1500", summary.Paid.String())
	assert.Equal(t, "120.5", summary.Pending.String())

	byCategory := decimal.Zero
	count := 0
	for _, g := range summary.ByCategory {
		byCategory = byCategory.Add(g.Total)
		count += g.Count
	}
	assert.True(t, byCategory.Equal(summary.Total))
	assert.Equal(t, len(expenses), count)
	assert.Equal(t, 2, summary.ByCategory["servicios"].Count)
	assert.Equal(t, "200", summary.ByCategory["servicios"].Total.String())
	assert.True(t, summary.ByCategory["marketing"].Total.IsZero())

	byMethod := decimal.Zero
	for _, g := range summary.ByPaymentMethod {
		byMethod = byMethod.Add(g.Total)
	}
	assert.True(t, byMethod.Equal(summary.Total))
}

func TestSummarizeExpenses_Empty(t *testing.T) {
	summary := models.SummarizeExpenses(nil)
	assert.True(t, summary.Total.IsZero())
	assert.NotNil(t, summary.ByCategory)
	assert.NotNil(t, summary.ByPaymentMethod)
}

func TestGetExpenseSummary_DefaultsToThisMonth(t *testing.T) {
	ctx := setupDB(t, march15)
	mustCreateExpense(t, ctx, newExpenseInput("2024-03-01", "alquiler", "1500"))
	mustCreateExpense(t, ctx, newExpenseInput("2024-03-31", "servicios", "100"))
	mustCreateExpense(t, ctx, newExpenseInput("2024-02-29", "servicios", "999"))

	summary, period, err := models.GetExpenseSummary(ctx, models.ExpenseFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodThisMonth, period)
	assert.Equal(t, "1600", summary.Total.String())
	assert.Equal(t, "1600", summary.Paid.String())
	assert.Len(t, summary.ByCategory, 2)

	filter, err := models.ExpenseFilterFromQuery(url.Values{"period": {"this_year"}, "category": {"servicios"}})
	require.NoError(t, err)
	summary, period, err = models.GetExpenseSummary(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodThisYear, period)
	assert.Equal(t, "1099", summary.Total.String())
}

func TestExportExpenses_WritesRowsAndTotal(t *testing.T) {
	ctx := setupDB(t, march15)
	mustCreateExpense(t, ctx, newExpenseInput("2024-03-01", "alquiler", "1500"))
	mustCreateExpense(t, ctx, newExpenseInput("2024-03-02", "servicios", "100.25"))

	var buf bytes.Buffer
	require.NoError(t, models.ExportExpenses(ctx, models.ExpenseFilter{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Description", rows[0][2])
	// newest first
	assert.Equal(t, "2024-03-02", rows[1][1])
	assert.Equal(t, "servicios", rows[1][3])
	assert.Equal(t, "Total PEN", rows[3][4])
	assert.Equal(t, "1600.25", rows[3][5])
}
