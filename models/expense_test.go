package models_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march15 = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestBindNewExpense_RequiresAtLeastOneAmount(t *testing.T) {
	_, err := models.BindNewExpense([]byte(`{
		"description": "Pago de alquiler",
		"category": "alquiler",
		"payment_method": "efectivo",
		"expense_date": "2024-03-15"
	}`))
	require.Error(t, err)

	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, models.ErrAmountRequired)
	assert.Equal(t, models.ErrAmountRequired.Error(), verr.Message)
	assert.Empty(t, verr.Fields)
}

func TestBindNewExpense_ZeroAmountsCountAsAbsent(t *testing.T) {
	_, err := models.BindNewExpense([]byte(`{
		"description": "x", "category": "otros", "payment_method": "efectivo",
		"expense_date": "2024-03-15", "amount_usd": 0, "amount_pen": 0
	}`))
	assert.ErrorIs(t, err, models.ErrAmountRequired)
}

func TestBindNewExpense_FieldErrorsAndAmountRuleTogether(t *testing.T) {
	_, err := models.BindNewExpense([]byte(`{
		"description": "",
		"category": "otros",
		"payment_method": "bitcoin",
		"expense_date": "2024-02-30",
		"amount_pen": "abc"
	}`))
	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, []string{"The description field is required."}, verr.Fields["description"])
	assert.Equal(t, []string{"The selected payment method is invalid."}, verr.Fields["payment_method"])
	assert.Equal(t, []string{"The expense date field must be a valid date."}, verr.Fields["expense_date"])
	assert.Equal(t, []string{"The amount pen field must be a number."}, verr.Fields["amount_pen"])
	assert.Equal(t, models.ErrAmountRequired.Error(), verr.Message)
}

func TestBindNewExpense_RejectsNonObjectBody(t *testing.T) {
	for _, body := range []string{``, `[]`, `null`, `"text"`, `{`} {
		_, err := models.BindNewExpense([]byte(body))
		assert.ErrorIs(t, err, utils.ErrMalformedBody, "body %q", body)
	}
}

func TestCreateExpense_StoresRoundedAmountsAndDate(t *testing.T) {
	ctx := setupDB(t, march15)

	input := newExpenseInput("2024-03-15", "alquiler", "1500.005")
	input.AmountUsd = decPtr("400.1")
	input.ExchangeRate = decPtr("3.75129")
	input.PaymentStatus = nil

	expense := mustCreateExpense(t, ctx, input)

	assert.NotZero(t, expense.ID)
	assert.Equal(t, "2024-03-15", expense.ExpenseDate.String())
	assert.True(t, expense.AmountPen.Decimal.Equal(decimal.RequireFromString("1500.01")), expense.AmountPen.Decimal.String())
	assert.True(t, expense.AmountUsd.Decimal.Equal(decimal.RequireFromString("400.1")))
	assert.True(t, expense.ExchangeRate.Decimal.Equal(decimal.RequireFromString("3.7513")))
	assert.Nil(t, expense.PaymentStatus)
	assert.Nil(t, expense.CreatedBy)
	assert.Nil(t, expense.Creator)
}

func TestCreateExpense_RecordsExistingCreatorOnly(t *testing.T) {
	ctx := setupDB(t, march15)

	user, err := models.UpsertUser(ctx, &models.NewUser{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	expense, err := models.CreateExpense(ctx, newExpenseInput("2024-03-15", "otros", "10"), &user.ID)
	require.NoError(t, err)
	require.NotNil(t, expense.CreatedBy)
	assert.Equal(t, user.ID, *expense.CreatedBy)
	require.NotNil(t, expense.Creator)
	assert.Equal(t, "Ana", expense.Creator.Name)

	ghost := 9999
	expense, err = models.CreateExpense(ctx, newExpenseInput("2024-03-15", "otros", "10"), &ghost)
	require.NoError(t, err)
	assert.Nil(t, expense.CreatedBy)
}

func TestUpdateExpense_OnlyPaymentStatus(t *testing.T) {
	ctx := setupDB(t, march15)
	created := mustCreateExpense(t, ctx, newExpenseInput("2024-03-10", "servicios", "250.50"))

	input, present, err := models.BindExpenseUpdate([]byte(`{"payment_status": "pending"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"payment_status": true}, present)

	updated, err := models.UpdateExpense(ctx, created.ID, input, present)
	require.NoError(t, err)

	require.NotNil(t, updated.PaymentStatus)
	assert.Equal(t, models.PaymentStatusPending, *updated.PaymentStatus)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, "2024-03-10", updated.ExpenseDate.String())
	assert.True(t, updated.AmountPen.Decimal.Equal(created.AmountPen.Decimal))
}

func TestUpdateExpense_ExplicitNullClearsOptionalColumn(t *testing.T) {
	ctx := setupDB(t, march15)
	input := newExpenseInput("2024-03-10", "servicios", "80")
	input.Supplier = strPtr("Luz del Sur")
	created := mustCreateExpense(t, ctx, input)

	update, present, err := models.BindExpenseUpdate([]byte(`{"supplier": null}`))
	require.NoError(t, err)
	updated, err := models.UpdateExpense(ctx, created.ID, update, present)
	require.NoError(t, err)
	assert.Nil(t, updated.Supplier)
}

func TestUpdateExpense_ValidatesPresentFieldsOnly(t *testing.T) {
	ctx := setupDB(t, march15)
	created := mustCreateExpense(t, ctx, newExpenseInput("2024-03-10", "servicios", "80"))

	_, _, err := models.BindExpenseUpdate([]byte(`{"payment_method": "bitcoin"}`))
	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields, "payment_method")

	// clearing both amounts is accepted while the update rule flag is off
	update, present, err := models.BindExpenseUpdate([]byte(`{"amount_pen": null}`))
	require.NoError(t, err)
	updated, err := models.UpdateExpense(ctx, created.ID, update, present)
	require.NoError(t, err)
	assert.False(t, updated.AmountPen.Valid)
}

func TestUpdateExpense_AmountRuleBehindFlag(t *testing.T) {
	ctx := setupDB(t, march15)
	t.Setenv("EXPENSE_UPDATE_REQUIRE_AMOUNT", "true")
	created := mustCreateExpense(t, ctx, newExpenseInput("2024-03-10", "servicios", "80"))

	update, present, err := models.BindExpenseUpdate([]byte(`{"amount_pen": 0}`))
	require.NoError(t, err)
	_, err = models.UpdateExpense(ctx, created.ID, update, present)
	assert.ErrorIs(t, err, models.ErrAmountRequired)

	update, present, err = models.BindExpenseUpdate([]byte(`{"amount_pen": 0, "amount_usd": 20}`))
	require.NoError(t, err)
	_, err = models.UpdateExpense(ctx, created.ID, update, present)
	assert.NoError(t, err)
}

func TestUpdateExpense_UnknownId(t *testing.T) {
	ctx := setupDB(t, march15)
	update, present, err := models.BindExpenseUpdate([]byte(`{"notes": "x"}`))
	require.NoError(t, err)
	_, err = models.UpdateExpense(ctx, 42, update, present)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestDeleteExpense_ThenGetIsNotFound(t *testing.T) {
	ctx := setupDB(t, march15)
	created := mustCreateExpense(t, ctx, newExpenseInput("2024-03-10", "otros", "5"))

	_, err := models.DeleteExpense(ctx, created.ID)
	require.NoError(t, err)

	_, err = models.GetExpense(ctx, created.ID)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)

	_, err = models.DeleteExpense(ctx, created.ID)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestListExpenses_PeriodToday(t *testing.T) {
	ctx := setupDB(t, march15)
	mustCreateExpense(t, ctx, newExpenseInput("2024-03-14", "otros", "1"))
	today := mustCreateExpense(t, ctx, newExpenseInput("2024-03-15", "otros", "2"))
	mustCreateExpense(t, ctx, newExpenseInput("2024-03-16", "otros", "3"))

	filter, err := models.ExpenseFilterFromQuery(url.Values{"period": {"today"}})
	require.NoError(t, err)
	page, err := models.ListExpenses(ctx, filter)
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	assert.Equal(t, today.ID, page.Data[0].ID)
	assert.Equal(t, int64(1), page.Total)
}

func TestListExpenses_FiltersSortAndPagination(t *testing.T) {
	ctx := setupDB(t, march15)

	a := newExpenseInput("2024-03-01", "alquiler", "1500")
	a.Supplier = strPtr("Inmobiliaria 100% Sur")
	mustCreateExpense(t, ctx, a)
	b := newExpenseInput("2024-03-05", "servicios", "120")
	b.PaymentStatus = strPtr("pending")
	mustCreateExpense(t, ctx, b)
	mustCreateExpense(t, ctx, newExpenseInput("2024-02-20", "servicios", "95"))

	list := func(q url.Values) *models.Page[models.Expense] {
		t.Helper()
		filter, err := models.ExpenseFilterFromQuery(q)
		require.NoError(t, err)
		page, err := models.ListExpenses(ctx, filter)
		require.NoError(t, err)
		return page
	}

	page := list(url.Values{})
	require.Len(t, page.Data, 3)
	assert.Equal(t, "2024-03-05", page.Data[0].ExpenseDate.String())
	assert.Equal(t, "2024-02-20", page.Data[2].ExpenseDate.String())

	page = list(url.Values{"category": {"servicios"}, "payment_status": {"pending"}})
	require.Len(t, page.Data, 1)
	assert.Equal(t, "2024-03-05", page.Data[0].ExpenseDate.String())

	// % is matched literally
	page = list(url.Values{"search": {"100%"}})
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alquiler", page.Data[0].Category)

	page = list(url.Values{"search": {"SERVICIOS"}})
	assert.Len(t, page.Data, 2)

	page = list(url.Values{"date_from": {"2024-03-01"}, "date_to": {"2024-03-04"}})
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alquiler", page.Data[0].Category)

	page = list(url.Values{"sort_by": {"amount_pen"}, "sort_order": {"asc"}})
	require.Len(t, page.Data, 3)
	assert.Equal(t, "2024-02-20", page.Data[0].ExpenseDate.String())

	// unknown sort columns fall back to expense_date desc
	page = list(url.Values{"sort_by": {"amount_pen; DROP TABLE expenses"}})
	require.Len(t, page.Data, 3)
	assert.Equal(t, "2024-03-05", page.Data[0].ExpenseDate.String())

	page = list(url.Values{"per_page": {"2"}, "page": {"2"}})
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.NotNil(t, page.From)
	assert.Equal(t, 3, *page.From)
	assert.Equal(t, 3, *page.To)

	page = list(url.Values{"page": {"9"}})
	assert.Empty(t, page.Data)
	assert.Nil(t, page.From)
}

func TestExpenseFilterFromQuery_MalformedDate(t *testing.T) {
	_, err := models.ExpenseFilterFromQuery(url.Values{"date_from": {"yesterday"}})
	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"The date from field must be a valid date."}, verr.Fields["date_from"])
}

func TestExpenseFilter_OrderClauses(t *testing.T) {
	assert.Equal(t, []string{"expense_date desc", "id desc"}, models.ExpenseFilter{}.OrderClauses())
	assert.Equal(t, []string{"supplier asc", "id asc"}, models.ExpenseFilter{SortBy: "supplier", SortOrder: "ASC"}.OrderClauses())
	assert.Equal(t, []string{"id desc"}, models.ExpenseFilter{SortBy: "id", SortOrder: "sideways"}.OrderClauses())
}
