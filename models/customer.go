package models

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// frequent customers have at least this many completed sales
const FrequentCustomerSales = 5

type Customer struct {
	ID             int            `gorm:"primary_key" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	DocumentType   DocumentType   `gorm:"size:20;not null" json:"document_type"`
	DocumentNumber string         `gorm:"size:20;not null;uniqueIndex" json:"document_number"`
	Email          *string        `gorm:"size:255" json:"email"`
	Phone          *string        `gorm:"size:20" json:"phone"`
	PhoneSecondary *string        `gorm:"size:20" json:"phone_secondary"`
	Address        *string        `gorm:"size:255" json:"address"`
	City           *string        `gorm:"size:100" json:"city"`
	District       *string        `gorm:"size:100" json:"district"`
	BirthDate      *Date          `gorm:"type:date" json:"birth_date"`
	CustomerType   CustomerType   `gorm:"size:20;not null;default:individual" json:"customer_type"`
	IsActive       *bool          `gorm:"not null;default:true" json:"is_active"`
	Notes          *string        `gorm:"type:text" json:"notes"`
	Vehicles       []*Vehicle     `json:"vehicles,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type NewCustomer struct {
	Name           *string `json:"name" validate:"required,max=255"`
	DocumentType   *string `json:"document_type" validate:"required,oneof=DNI RUC CE PASAPORTE"`
	DocumentNumber *string `json:"document_number" validate:"required,max=20"`
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,max=20,pe_phone"`
	PhoneSecondary *string `json:"phone_secondary" validate:"omitempty,max=20,pe_phone"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	City           *string `json:"city" validate:"omitempty,max=100"`
	District       *string `json:"district" validate:"omitempty,max=100"`
	BirthDate      *string `json:"birth_date" validate:"omitempty,calendar_date"`
	CustomerType   *string `json:"customer_type" validate:"omitempty,oneof=individual empresa"`
	IsActive       *bool   `json:"is_active"`
	Notes          *string `json:"notes"`
}

// CustomerDetail adds the derived purchase figures to a customer.
type CustomerDetail struct {
	*Customer
	TotalPurchases     decimal.Decimal `json:"total_purchases"`
	TotalServices      decimal.Decimal `json:"total_services"`
	CompletedSales     int64           `json:"completed_sales"`
	IsFrequent         bool            `json:"is_frequent"`
	FullIdentification string          `json:"full_identification"`
	LastPurchase       *Sale           `json:"last_purchase"`
}

func (c Customer) FullIdentification() string {
	return fmt.Sprintf("%s: %s - %s", c.DocumentType, c.DocumentNumber, c.Name)
}

func optionalDate(s *string) *Date {
	if s == nil {
		return nil
	}
	d, err := utils.ParseDate(*s)
	if err != nil {
		return nil
	}
	date := Date(d)
	return &date
}

// validate input for both create & update (id = 0 for create, present = nil validates every field)
func (input *NewCustomer) validate(ctx context.Context, id int, present map[string]bool) error {
	fieldErrs := utils.ValidateStruct(input, present)

	// validate unique document number
	if input.DocumentNumber != nil && fieldErrs["document_number"] == nil {
		if err := collectFieldErrors(fieldErrs, utils.ValidateUnique[Customer](ctx, "document_number", *input.DocumentNumber, id)); err != nil {
			return err
		}
	}
	return fieldErrorsOrNil(fieldErrs)
}

func BindNewCustomer(body []byte) (*NewCustomer, error) {
	var input NewCustomer
	if _, err := utils.BindAndValidate(body, &input, false); err != nil {
		return nil, err
	}
	return &input, nil
}

func BindCustomerUpdate(body []byte) (*NewCustomer, map[string]bool, error) {
	var input NewCustomer
	present, err := utils.BindAndValidate(body, &input, true)
	if err != nil {
		return nil, nil, err
	}
	return &input, present, nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	if err := input.validate(ctx, 0, nil); err != nil {
		return nil, err
	}

	customerType := CustomerTypeIndividual
	if input.CustomerType != nil {
		customerType = CustomerType(*input.CustomerType)
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	customer := Customer{
		Name:           *input.Name,
		DocumentType:   DocumentType(*input.DocumentType),
		DocumentNumber: *input.DocumentNumber,
		Email:          input.Email,
		Phone:          input.Phone,
		PhoneSecondary: input.PhoneSecondary,
		Address:        input.Address,
		City:           input.City,
		District:       input.District,
		BirthDate:      optionalDate(input.BirthDate),
		CustomerType:   customerType,
		IsActive:       &isActive,
		Notes:          input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, utils.UniqueViolation(err, "document_number")
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer, present map[string]bool) (*Customer, error) {

	// id exists
	if _, err := utils.FetchModel[Customer](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id, present); err != nil {
		return nil, err
	}

	updates := presentUpdates(present, map[string]func() interface{}{
		"name":            func() interface{} { return utils.DereferencePtr(input.Name) },
		"document_type":   func() interface{} { return DocumentType(utils.DereferencePtr(input.DocumentType)) },
		"document_number": func() interface{} { return utils.DereferencePtr(input.DocumentNumber) },
		"email":           func() interface{} { return input.Email },
		"phone":           func() interface{} { return input.Phone },
		"phone_secondary": func() interface{} { return input.PhoneSecondary },
		"address":         func() interface{} { return input.Address },
		"city":            func() interface{} { return input.City },
		"district":        func() interface{} { return input.District },
		"birth_date":      func() interface{} { return optionalDate(input.BirthDate) },
		"customer_type":   func() interface{} { return CustomerType(utils.DereferencePtr(input.CustomerType, string(CustomerTypeIndividual))) },
		"is_active":       func() interface{} { return utils.DereferencePtr(input.IsActive, true) },
		"notes":           func() interface{} { return input.Notes },
	})

	if len(updates) > 0 {
		db := config.GetDB()
		if err := db.WithContext(ctx).Model(&Customer{ID: id}).Updates(updates).Error; err != nil {
			return nil, utils.UniqueViolation(err, "document_number")
		}
	}
	return utils.FetchModel[Customer](ctx, id)
}

// DeleteCustomer soft deletes; vehicles, sales and service records are kept.
func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {
	result, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&Customer{}, id).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// GetCustomer returns the customer with vehicles and derived totals.
func GetCustomer(ctx context.Context, id int) (*CustomerDetail, error) {
	customer, err := utils.FetchModel[Customer](ctx, id, "Vehicles")
	if err != nil {
		return nil, err
	}

	detail := CustomerDetail{
		Customer:           customer,
		FullIdentification: customer.FullIdentification(),
	}
	if detail.TotalPurchases, err = sumCompleted[Sale](ctx, id); err != nil {
		return nil, err
	}
	if detail.TotalServices, err = sumCompleted[ServiceRecord](ctx, id); err != nil {
		return nil, err
	}
	if detail.CompletedSales, err = utils.ResourceCountWhere[Sale](ctx, "customer_id = ? AND status = ?", id, RecordStatusCompleted); err != nil {
		return nil, err
	}
	detail.IsFrequent = detail.CompletedSales >= FrequentCustomerSales
	if detail.LastPurchase, err = lastCompletedSale(ctx, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// sumCompleted totals total_pen of a customer's completed rows.
func sumCompleted[T any](ctx context.Context, customerId int) (decimal.Decimal, error) {
	var model T
	var total decimal.NullDecimal

	db := config.GetDB()
	row := db.WithContext(ctx).Model(&model).
		Where("customer_id = ? AND status = ?", customerId, RecordStatusCompleted).
		Select("COALESCE(SUM(total_pen), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

type CustomerFilter struct {
	Search       string
	IsActive     *bool
	CustomerType string
	Page         int
	PerPage      int
}

func CustomerFilterFromQuery(q url.Values) CustomerFilter {
	f := CustomerFilter{
		Search:       strings.TrimSpace(q.Get("search")),
		CustomerType: strings.TrimSpace(q.Get("customer_type")),
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(q.Get("is_active"))); err == nil {
		f.IsActive = &v
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	f.Page, f.PerPage = NormalizePage(f.Page, f.PerPage)
	return f
}

func (f CustomerFilter) Apply(dbCtx *gorm.DB) *gorm.DB {
	if f.Search != "" {
		term := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		dbCtx = dbCtx.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(document_number) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(phone) LIKE ? ESCAPE '!')",
			term, term, term, term)
	}
	if f.IsActive != nil {
		dbCtx = dbCtx.Where("is_active = ?", *f.IsActive)
	}
	if f.CustomerType != "" {
		dbCtx = dbCtx.Where("customer_type = ?", f.CustomerType)
	}
	return dbCtx
}

func ListCustomers(ctx context.Context, filter CustomerFilter) (*Page[Customer], error) {
	db := config.GetDB()
	dbCtx := filter.Apply(db.WithContext(ctx).Model(&Customer{}))

	return FetchPage[Customer](dbCtx, filter.Page, filter.PerPage, []string{"name asc", "id asc"})
}
