package models

import (
	"context"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("backoffice_backend/models")

type GroupTotal struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseSummary totals amount_pen only. USD amounts are never converted or summed.
type ExpenseSummary struct {
	Total           decimal.Decimal       `json:"total"`
	Paid            decimal.Decimal       `json:"paid"`
	Pending         decimal.Decimal       `json:"pending"`
	ByCategory      map[string]GroupTotal `json:"by_category"`
	ByPaymentMethod map[string]GroupTotal `json:"by_payment_method"`
}

// SummarizeExpenses aggregates an already filtered set. A null amount_pen counts as zero.
func SummarizeExpenses(expenses []*Expense) ExpenseSummary {
	summary := ExpenseSummary{
		Total:           decimal.Zero,
		Paid:            decimal.Zero,
		Pending:         decimal.Zero,
		ByCategory:      make(map[string]GroupTotal),
		ByPaymentMethod: make(map[string]GroupTotal),
	}
	for _, e := range expenses {
		amount := decimal.Zero
		if e.AmountPen.Valid {
			amount = e.AmountPen.Decimal
		}
		summary.Total = summary.Total.Add(amount)
		if e.PaymentStatus != nil {
			switch *e.PaymentStatus {
			case PaymentStatusPaid:
				summary.Paid = summary.Paid.Add(amount)
			case PaymentStatusPending:
				summary.Pending = summary.Pending.Add(amount)
			}
		}
		summary.ByCategory[e.Category] = addToGroup(summary.ByCategory[e.Category], amount)
		method := string(e.PaymentMethod)
		summary.ByPaymentMethod[method] = addToGroup(summary.ByPaymentMethod[method], amount)
	}
	return summary
}

func addToGroup(g GroupTotal, amount decimal.Decimal) GroupTotal {
	g.Count++
	g.Total = g.Total.Add(amount)
	return g
}

// GetExpenseSummary loads every expense matching the filter and aggregates it.
// The period defaults to this_month; pagination and sorting are ignored.
func GetExpenseSummary(ctx context.Context, filter ExpenseFilter) (*ExpenseSummary, Period, error) {
	if filter.Period == "" {
		filter.Period = PeriodThisMonth
	}

	ctx, span := tracer.Start(ctx, "models.GetExpenseSummary",
		trace.WithAttributes(attribute.String("period", string(filter.Period))))
	defer span.End()

	db := config.GetDB()
	var expenses []*Expense
	err := filter.Apply(db.WithContext(ctx).Model(&Expense{})).
		Select("id", "category", "amount_pen", "payment_method", "payment_status").
		Find(&expenses).Error
	if err != nil {
		span.RecordError(err)
		return nil, filter.Period, err
	}
	span.SetAttributes(attribute.Int("expenses", len(expenses)))

	summary := SummarizeExpenses(expenses)
	return &summary, filter.Period, nil
}
