package models_test

import (
	"context"
	"strconv"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// setupDB opens a private in-memory database and freezes the business clock at now.
func setupDB(t *testing.T, now time.Time) context.Context {
	t.Helper()
	require.NoError(t, config.ConnectSQLite(":memory:"))
	require.NoError(t, models.MigrateTable())
	restore := config.SetClock(func() time.Time { return now })
	t.Cleanup(func() {
		restore()
		_ = config.CloseDB()
	})
	return context.Background()
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func itoa(i int) string { return strconv.Itoa(i) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newExpenseInput(date string, category string, pen string) *models.NewExpense {
	return &models.NewExpense{
		Description:   strPtr("gasto " + category),
		Category:      strPtr(category),
		AmountPen:     decPtr(pen),
		PaymentMethod: strPtr("efectivo"),
		PaymentStatus: strPtr("paid"),
		ExpenseDate:   strPtr(date),
	}
}

func mustCreateExpense(t *testing.T, ctx context.Context, input *models.NewExpense) *models.Expense {
	t.Helper()
	expense, err := models.CreateExpense(ctx, input, nil)
	require.NoError(t, err)
	return expense
}
