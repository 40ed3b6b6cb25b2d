package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/backoffice_backend/utils"
	"gorm.io/gorm"
)

const defaultExpenseSort = "expense_date"

var expenseSortColumns = map[string]bool{
	"expense_date":   true,
	"description":    true,
	"category":       true,
	"amount_usd":     true,
	"amount_pen":     true,
	"payment_method": true,
	"payment_status": true,
	"supplier":       true,
	"created_at":     true,
	"id":             true,
}

var expenseSearchColumns = []string{"description", "category", "supplier", "invoice_number"}

// ExpenseFilter holds the optional list criteria. The zero value matches every expense.
type ExpenseFilter struct {
	Search        string
	Category      string
	PaymentStatus string
	DateFrom      *time.Time
	DateTo        *time.Time
	Period        Period
	SortBy        string
	SortOrder     string
	Page          int
	PerPage       int
}

// ExpenseFilterFromQuery reads list parameters. Blank values count as absent;
// only a malformed date_from or date_to is rejected.
func ExpenseFilterFromQuery(q url.Values) (ExpenseFilter, error) {
	f := ExpenseFilter{
		Search:        strings.TrimSpace(q.Get("search")),
		Category:      strings.TrimSpace(q.Get("category")),
		PaymentStatus: strings.TrimSpace(q.Get("payment_status")),
		Period:        Period(strings.TrimSpace(q.Get("period"))),
		SortBy:        strings.TrimSpace(q.Get("sort_by")),
		SortOrder:     strings.TrimSpace(q.Get("sort_order")),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	f.Page, f.PerPage = NormalizePage(f.Page, f.PerPage)

	var err error
	f.DateFrom, f.DateTo, err = parseDateRange(q)
	return f, err
}

// parseDateRange reads the inclusive date_from/date_to bounds of a list query.
func parseDateRange(q url.Values) (from *time.Time, to *time.Time, err error) {
	fieldErrs := make(utils.FieldErrors)
	for _, param := range []struct {
		name string
		dst  **time.Time
	}{{"date_from", &from}, {"date_to", &to}} {
		raw := strings.TrimSpace(q.Get(param.name))
		if raw == "" {
			continue
		}
		d, err := utils.ParseDate(raw)
		if err != nil {
			fieldErrs.Add(param.name, "The "+strings.ReplaceAll(param.name, "_", " ")+" field must be a valid date.")
			continue
		}
		*param.dst = &d
	}
	if len(fieldErrs) > 0 {
		return from, to, &utils.ValidationError{Fields: fieldErrs}
	}
	return from, to, nil
}

// Apply adds the filter predicates to dbCtx. Period and explicit bounds are both applied when given.
func (f ExpenseFilter) Apply(dbCtx *gorm.DB) *gorm.DB {
	if f.Search != "" {
		term := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		conds := make([]string, 0, len(expenseSearchColumns))
		args := make([]interface{}, 0, len(expenseSearchColumns))
		for _, col := range expenseSearchColumns {
			conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '!'")
			args = append(args, term)
		}
		dbCtx = dbCtx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if f.Category != "" {
		dbCtx = dbCtx.Where("category = ?", f.Category)
	}
	if f.PaymentStatus != "" {
		dbCtx = dbCtx.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.DateFrom != nil {
		dbCtx = dbCtx.Where("expense_date >= ?", utils.DateOnly(*f.DateFrom))
	}
	if f.DateTo != nil {
		dbCtx = dbCtx.Where("expense_date <= ?", utils.DateOnly(*f.DateTo))
	}
	if from, to, ok := f.Period.CurrentRange(); ok {
		dbCtx = dbCtx.Where("expense_date BETWEEN ? AND ?", from, to)
	}
	return dbCtx
}

// OrderClauses resolves sort_by/sort_order against the allow-list, with id as tie breaker.
func (f ExpenseFilter) OrderClauses() []string {
	column := f.SortBy
	if !expenseSortColumns[column] {
		column = defaultExpenseSort
	}
	direction := "desc"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "asc"
	}
	orders := []string{column + " " + direction}
	if column != "id" {
		orders = append(orders, "id "+direction)
	}
	return orders
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
