package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/handlers"
	"github.com/mmdatafocus/backoffice_backend/middlewares"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Period  string              `json:"period"`
	Errors  map[string][]string `json:"errors"`
	Data    json.RawMessage     `json:"data"`
}

func newRouter(t *testing.T, now time.Time) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, config.ConnectSQLite(":memory:"))
	require.NoError(t, models.MigrateTable())
	restore := config.SetClock(func() time.Time { return now })
	t.Cleanup(func() {
		restore()
		_ = config.CloseDB()
	})

	r := gin.New()
	r.Use(middlewares.AuthMiddleware())
	handlers.RegisterRoutes(r)
	r.NoRoute(handlers.NotFoundHandler)
	return r
}

func do(t *testing.T, r http.Handler, method string, path string, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

var march20 = time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)

func TestExpenseLifecycle(t *testing.T) {
	r := newRouter(t, march20)

	w, env := do(t, r, http.MethodPost, "/api/expenses", `{
		"description": "Pago de alquiler",
		"category": "alquiler",
		"amount_pen": 1500,
		"payment_method": "transferencia",
		"payment_status": "paid",
		"expense_date": "2024-03-15"
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var created struct {
		ID          int     `json:"id"`
		AmountPen   float64 `json:"amount_pen"`
		AmountUsd   *string `json:"amount_usd"`
		ExpenseDate string  `json:"expense_date"`
		CreatedBy   *int    `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 1500.0, created.AmountPen)
	assert.Nil(t, created.AmountUsd)
	assert.Equal(t, "2024-03-15", created.ExpenseDate)
	assert.Nil(t, created.CreatedBy)

	w, env = do(t, r, http.MethodGet, "/api/expenses/summary?period=this_month", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "this_month", env.Period)
	var summary struct {
		Total      float64 `json:"total"`
		Paid       float64 `json:"paid"`
		Pending    float64 `json:"pending"`
		ByCategory map[string]struct {
			Count int     `json:"count"`
			Total float64 `json:"total"`
		} `json:"by_category"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1500.0, summary.Total)
	assert.Equal(t, 1500.0, summary.Paid)
	assert.Equal(t, 0.0, summary.Pending)
	assert.Equal(t, 1, summary.ByCategory["alquiler"].Count)

	path := "/api/expenses/" + strconv.Itoa(created.ID)
	w, env = do(t, r, http.MethodPut, path, `{"payment_status": "pending"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "expense updated", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/expenses?payment_status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data  []json.RawMessage `json:"data"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)

	w, _ = do(t, r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestCreateExpense_ValidationResponses(t *testing.T) {
	r := newRouter(t, march20)

	w, env := do(t, r, http.MethodPost, "/api/expenses", `{
		"description": "Sin monto",
		"category": "otros",
		"payment_method": "efectivo",
		"expense_date": "2024-03-15"
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, models.ErrAmountRequired.Error(), env.Message)

	w, env = do(t, r, http.MethodPost, "/api/expenses", `{
		"description": "Pago",
		"category": "otros",
		"amount_usd": 20,
		"payment_method": "bitcoin",
		"expense_date": "2024-03-15"
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"The selected payment method is invalid."}, env.Errors["payment_method"])
	assert.Empty(t, env.Message)

	w, _ = do(t, r, http.MethodPost, "/api/expenses", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseRoutes_NotFound(t *testing.T) {
	r := newRouter(t, march20)

	for _, path := range []string{"/api/expenses/999", "/api/expenses/abc"} {
		w, env := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.False(t, env.Success)
	}

	// unknown id wins over an invalid payload
	w, _ := do(t, r, http.MethodPut, "/api/expenses/999", `{"payment_method": "bitcoin"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateExpense_RecordsBearerUser(t *testing.T) {
	r := newRouter(t, march20)
	user, err := models.UpsertUser(context.Background(), &models.NewUser{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	token, err := utils.JwtGenerate(user.ID, user.Name)
	require.NoError(t, err)

	body := `{"description": "Luz", "category": "servicios", "amount_pen": 90, "payment_method": "efectivo", "expense_date": "2024-03-01"}`
	w, env := do(t, r, http.MethodPost, "/api/expenses", body, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		CreatedBy *int `json:"created_by"`
		Creator   *struct {
			Name string `json:"name"`
		} `json:"creator"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, user.ID, *created.CreatedBy)
	require.NotNil(t, created.Creator)
	assert.Equal(t, "Ana", created.Creator.Name)

	// a bad token never blocks the request
	w, env = do(t, r, http.MethodPost, "/api/expenses", body, "Authorization", "Bearer not-a-token")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Nil(t, created.CreatedBy)
}

func TestExpenseCategoriesAndExport(t *testing.T) {
	r := newRouter(t, march20)

	w, env := do(t, r, http.MethodGet, "/api/expenses/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var categories map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Equal(t, "Alquiler", categories["alquiler"])
	assert.Len(t, categories, 10)

	w, _ = do(t, r, http.MethodGet, "/api/expenses/export?period=this_year", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses_20240320.xlsx")
	assert.NotZero(t, w.Body.Len())

	w, env = do(t, r, http.MethodGet, "/api/expenses/export?date_from=bad", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "date_from")
}

func TestHealth(t *testing.T) {
	r := newRouter(t, march20)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"API is running"}`, w.Body.String())
}
