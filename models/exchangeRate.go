package models

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNoExchangeRate = errors.New("no exchange rate registered")

// ExchangeRate is the USD/PEN rate of one calendar date.
type ExchangeRate struct {
	ID        int                `gorm:"primary_key" json:"id"`
	RateDate  Date               `gorm:"type:date;not null;uniqueIndex" json:"rate_date"`
	BuyRate   decimal.Decimal    `gorm:"type:decimal(10,4);not null" json:"buy_rate"`
	SellRate  decimal.Decimal    `gorm:"type:decimal(10,4);not null" json:"sell_rate"`
	Source    ExchangeRateSource `gorm:"size:20;not null;default:manual" json:"source"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExchangeRate struct {
	BuyRate  *decimal.Decimal `json:"buy_rate" validate:"required,gt=0"`
	SellRate *decimal.Decimal `json:"sell_rate" validate:"required,gt=0"`
	RateDate *string          `json:"rate_date" validate:"omitempty,calendar_date"`
}

type NewConversion struct {
	Amount *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	From   *string          `json:"from" validate:"required,oneof=USD PEN"`
	To     *string          `json:"to" validate:"required,oneof=USD PEN"`
}

type Conversion struct {
	Amount          decimal.Decimal `json:"amount"`
	From            Currency        `json:"from"`
	To              Currency        `json:"to"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	RateDate        *Date           `json:"rate_date"`
}

func BindNewExchangeRate(body []byte) (*NewExchangeRate, error) {
	var input NewExchangeRate
	if _, err := utils.BindAndValidate(body, &input, false); err != nil {
		return nil, err
	}
	return &input, nil
}

func BindNewConversion(body []byte) (*NewConversion, error) {
	var input NewConversion
	if _, err := utils.BindAndValidate(body, &input, false); err != nil {
		return nil, err
	}
	return &input, nil
}

// GetCurrentExchangeRate returns the rate with the latest date.
func GetCurrentExchangeRate(ctx context.Context) (*ExchangeRate, error) {
	db := config.GetDB()
	var rate ExchangeRate
	err := db.WithContext(ctx).Order("rate_date desc").Order("id desc").First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoExchangeRate
		}
		return nil, err
	}
	return &rate, nil
}

// SetManualExchangeRate records the rate for rate_date (default today), replacing that date's rate.
func SetManualExchangeRate(ctx context.Context, input *NewExchangeRate) (*ExchangeRate, error) {
	if fieldErrs := utils.ValidateStruct(input, nil); len(fieldErrs) > 0 {
		return nil, &utils.ValidationError{Fields: fieldErrs}
	}

	rateDate := NewDate(config.Now())
	if input.RateDate != nil {
		d, err := utils.ParseDate(*input.RateDate)
		if err != nil {
			return nil, utils.NewFieldError("rate_date", "The rate date field must be a valid date.")
		}
		rateDate = Date(d)
	}

	db := config.GetDB()
	var rate ExchangeRate
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("rate_date = ?", rateDate).First(&rate).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rate.RateDate = rateDate
		rate.BuyRate = input.BuyRate.Round(4)
		rate.SellRate = input.SellRate.Round(4)
		rate.Source = ExchangeRateSourceManual
		return tx.Save(&rate).Error
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

type ExchangeRateFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PerPage  int
}

func ExchangeRateFilterFromQuery(q url.Values) (ExchangeRateFilter, error) {
	var f ExchangeRateFilter
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	f.Page, f.PerPage = NormalizePage(f.Page, f.PerPage)

	var err error
	f.DateFrom, f.DateTo, err = parseDateRange(q)
	return f, err
}

func GetExchangeRateHistory(ctx context.Context, filter ExchangeRateFilter) (*Page[ExchangeRate], error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&ExchangeRate{})
	if filter.DateFrom != nil {
		dbCtx = dbCtx.Where("rate_date >= ?", utils.DateOnly(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		dbCtx = dbCtx.Where("rate_date <= ?", utils.DateOnly(*filter.DateTo))
	}
	return FetchPage[ExchangeRate](dbCtx, filter.Page, filter.PerPage, []string{"rate_date desc", "id desc"})
}

// Convert applies rate: USD to PEN at the sell rate, PEN to USD at the buy rate.
func (rate ExchangeRate) Convert(amount decimal.Decimal, from Currency, to Currency) Conversion {
	result := Conversion{
		Amount:          amount,
		From:            from,
		To:              to,
		Rate:            decimal.NewFromInt(1),
		ConvertedAmount: amount.Round(2),
	}
	rateDate := rate.RateDate
	result.RateDate = &rateDate
	switch {
	case from == CurrencyUSD && to == CurrencyPEN:
		result.Rate = rate.SellRate
		result.ConvertedAmount = amount.Mul(rate.SellRate).Round(2)
	case from == CurrencyPEN && to == CurrencyUSD:
		result.Rate = rate.BuyRate
		if !rate.BuyRate.IsZero() {
			result.ConvertedAmount = amount.Div(rate.BuyRate).Round(2)
		}
	}
	return result
}

// ConvertAmount converts with the current rate.
func ConvertAmount(ctx context.Context, input *NewConversion) (*Conversion, error) {
	if fieldErrs := utils.ValidateStruct(input, nil); len(fieldErrs) > 0 {
		return nil, &utils.ValidationError{Fields: fieldErrs}
	}
	rate, err := GetCurrentExchangeRate(ctx)
	if err != nil {
		return nil, err
	}
	result := rate.Convert(*input.Amount, Currency(*input.From), Currency(*input.To))
	return &result, nil
}
