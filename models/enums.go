package models

import (
	"time"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "efectivo"
	PaymentMethodCard     PaymentMethod = "tarjeta"
	PaymentMethodTransfer PaymentMethod = "transferencia"
	PaymentMethodCheque   PaymentMethod = "cheque"
)

func (t PaymentMethod) IsValid() bool {
	switch t {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheque:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

func (t PaymentStatus) IsValid() bool {
	return t == PaymentStatusPaid || t == PaymentStatusPending
}

// Period is a named date range relative to the business clock.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodThisMonth Period = "this_month"
	PeriodThisYear  Period = "this_year"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodToday, PeriodThisMonth, PeriodThisYear:
		return true
	}
	return false
}

// Range returns inclusive calendar date bounds (UTC midnight, as expense dates are stored)
// for the period evaluated at now. ok is false for unknown periods.
func (p Period) Range(now time.Time) (from time.Time, to time.Time, ok bool) {
	today := utils.DateOnly(now)
	switch p {
	case PeriodToday:
		return today, today, true
	case PeriodThisMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, -1), true
	case PeriodThisYear:
		from = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, time.Time{}, false
}

// CurrentRange resolves the period against the configured business clock.
func (p Period) CurrentRange() (time.Time, time.Time, bool) {
	return p.Range(config.Now())
}

type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeCompany    CustomerType = "empresa"
)

type DocumentType string

const (
	DocumentTypeDNI      DocumentType = "DNI"
	DocumentTypeRUC      DocumentType = "RUC"
	DocumentTypeCE       DocumentType = "CE"
	DocumentTypePassport DocumentType = "PASAPORTE"
)

// Sales and service records share the same lifecycle; only completed rows count in rollups.
type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusCancelled RecordStatus = "cancelled"
)

type ExchangeRateSource string

const (
	ExchangeRateSourceManual ExchangeRateSource = "manual"
	ExchangeRateSourceApi    ExchangeRateSource = "api"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyPEN Currency = "PEN"
)
