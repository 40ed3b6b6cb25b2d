package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/shopspring/decimal"
)

var ErrAmountRequired = errors.New("at least one amount (USD or PEN) is required")

type Expense struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	Description   string              `gorm:"size:255;not null" json:"description"`
	Category      string              `gorm:"size:100;index;not null" json:"category"`
	AmountUsd     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"amount_usd"`
	AmountPen     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"amount_pen"`
	ExchangeRate  decimal.NullDecimal `gorm:"type:decimal(10,4)" json:"exchange_rate"`
	PaymentMethod PaymentMethod       `gorm:"size:20;not null" json:"payment_method"`
	PaymentStatus *PaymentStatus      `gorm:"size:20;index" json:"payment_status"`
	Supplier      *string             `gorm:"size:255" json:"supplier"`
	InvoiceNumber *string             `gorm:"size:100" json:"invoice_number"`
	ExpenseDate   Date                `gorm:"type:date;index;not null" json:"expense_date"`
	Notes         *string             `gorm:"type:text" json:"notes"`
	CreatedBy     *int                `gorm:"index" json:"created_by"`
	Creator       *User               `gorm:"foreignKey:CreatedBy" json:"creator"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewExpense is the write payload for create and update. On update only the fields present
// in the request body are validated and written.
type NewExpense struct {
	Description   *string          `json:"description" validate:"required,max=255"`
	Category      *string          `json:"category" validate:"required,max=100"`
	AmountUsd     *decimal.Decimal `json:"amount_usd" validate:"omitempty,gte=0"`
	AmountPen     *decimal.Decimal `json:"amount_pen" validate:"omitempty,gte=0"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate" validate:"omitempty,gte=0"`
	PaymentMethod *string          `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia cheque"`
	PaymentStatus *string          `json:"payment_status" validate:"omitempty,oneof=paid pending"`
	Supplier      *string          `json:"supplier" validate:"omitempty,max=255"`
	InvoiceNumber *string          `json:"invoice_number" validate:"omitempty,max=100"`
	ExpenseDate   *string          `json:"expense_date" validate:"required,calendar_date"`
	Notes         *string          `json:"notes"`
}

// ExpenseCategories is the fixed label map served to clients. Stored categories are not restricted to it.
func ExpenseCategories() map[string]string {
	return map[string]string{
		"compra_inventario": "Compra de Inventario",
		"operativo":         "Gastos Operativos",
		"salarios":          "Salarios",
		"servicios":         "Servicios (Luz, Agua, Internet)",
		"impuestos":         "Impuestos",
		"alquiler":          "Alquiler",
		"marketing":         "Marketing y Publicidad",
		"mantenimiento":     "Mantenimiento",
		"transporte":        "Transporte",
		"otros":             "Otros",
	}
}

func isAbsentAmount(d *decimal.Decimal) bool {
	return d == nil || d.IsZero()
}

func hasAnyAmount(usd, pen decimal.NullDecimal) bool {
	return (usd.Valid && !usd.Decimal.IsZero()) || (pen.Valid && !pen.Decimal.IsZero())
}

func nullDecimal(d *decimal.Decimal, places int32) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d.Round(places), Valid: true}
}

func paymentStatusPtr(s *string) *PaymentStatus {
	if s == nil {
		return nil
	}
	status := PaymentStatus(*s)
	return &status
}

// validate input for create, every failing field is reported together with the amount rule
func (input *NewExpense) validate(typeErrs utils.FieldErrors) error {
	fieldErrs := make(utils.FieldErrors)
	fieldErrs.Merge(typeErrs)
	fieldErrs.Merge(utils.ValidateStruct(input, nil))

	var cause error
	if isAbsentAmount(input.AmountUsd) && isAbsentAmount(input.AmountPen) {
		cause = ErrAmountRequired
	}
	if len(fieldErrs) == 0 && cause == nil {
		return nil
	}
	verr := &utils.ValidationError{Fields: fieldErrs, Cause: cause}
	if cause != nil {
		verr.Message = cause.Error()
	}
	return verr
}

// BindNewExpense decodes a create request body and runs the create rules.
func BindNewExpense(body []byte) (*NewExpense, error) {
	var input NewExpense
	_, typeErrs, err := utils.DecodeFields(body, &input)
	if err != nil {
		return nil, err
	}
	if err := input.validate(typeErrs); err != nil {
		return nil, err
	}
	return &input, nil
}

// BindExpenseUpdate decodes a partial update body. Only present fields are checked.
func BindExpenseUpdate(body []byte) (*NewExpense, map[string]bool, error) {
	var input NewExpense
	present, err := utils.BindAndValidate(body, &input, true)
	if err != nil {
		return nil, nil, err
	}
	return &input, present, nil
}

// CreateExpense stores a new expense. createdBy is the acting user, nil when anonymous.
func CreateExpense(ctx context.Context, input *NewExpense, createdBy *int) (*Expense, error) {

	// validate expense
	if err := input.validate(nil); err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(*input.ExpenseDate)
	if err != nil {
		return nil, utils.NewFieldError("expense_date", "The expense date field must be a valid date.")
	}

	// an identity that no longer resolves to a user is recorded as anonymous
	if createdBy != nil {
		if err := utils.ValidateResourceId[User](ctx, *createdBy); err != nil {
			if !errors.Is(err, utils.ErrorRecordNotFound) {
				return nil, err
			}
			createdBy = nil
		}
	}

	// store expense
	expense := Expense{
		Description:   *input.Description,
		Category:      *input.Category,
		AmountUsd:     nullDecimal(input.AmountUsd, 2),
		AmountPen:     nullDecimal(input.AmountPen, 2),
		ExchangeRate:  nullDecimal(input.ExchangeRate, 4),
		PaymentMethod: PaymentMethod(*input.PaymentMethod),
		PaymentStatus: paymentStatusPtr(input.PaymentStatus),
		Supplier:      input.Supplier,
		InvoiceNumber: input.InvoiceNumber,
		ExpenseDate:   NewDate(date),
		Notes:         input.Notes,
		CreatedBy:     createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}

	return GetExpense(ctx, expense.ID)
}

// UpdateExpense writes the present fields only. An explicit null clears a nullable column.
func UpdateExpense(ctx context.Context, id int, input *NewExpense, present map[string]bool) (*Expense, error) {

	// id exists
	existing, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrs := utils.ValidateStruct(input, present); len(fieldErrs) > 0 {
		return nil, &utils.ValidationError{Fields: fieldErrs}
	}

	updates := make(map[string]interface{})
	if present["description"] {
		updates["description"] = utils.DereferencePtr(input.Description)
	}
	if present["category"] {
		updates["category"] = utils.DereferencePtr(input.Category)
	}
	if present["amount_usd"] {
		existing.AmountUsd = nullDecimal(input.AmountUsd, 2)
		updates["amount_usd"] = existing.AmountUsd
	}
	if present["amount_pen"] {
		existing.AmountPen = nullDecimal(input.AmountPen, 2)
		updates["amount_pen"] = existing.AmountPen
	}
	if present["exchange_rate"] {
		updates["exchange_rate"] = nullDecimal(input.ExchangeRate, 4)
	}
	if present["payment_method"] {
		updates["payment_method"] = PaymentMethod(utils.DereferencePtr(input.PaymentMethod))
	}
	if present["payment_status"] {
		updates["payment_status"] = paymentStatusPtr(input.PaymentStatus)
	}
	if present["supplier"] {
		updates["supplier"] = input.Supplier
	}
	if present["invoice_number"] {
		updates["invoice_number"] = input.InvoiceNumber
	}
	if present["expense_date"] {
		date, err := utils.ParseDate(utils.DereferencePtr(input.ExpenseDate))
		if err != nil {
			return nil, utils.NewFieldError("expense_date", "The expense date field must be a valid date.")
		}
		updates["expense_date"] = NewDate(date)
	}
	if present["notes"] {
		updates["notes"] = input.Notes
	}

	if config.ExpenseUpdateRequiresAmount() && !hasAnyAmount(existing.AmountUsd, existing.AmountPen) {
		return nil, &utils.ValidationError{Message: ErrAmountRequired.Error(), Cause: ErrAmountRequired}
	}

	if len(updates) > 0 {
		db := config.GetDB()
		if err := db.WithContext(ctx).Model(&Expense{ID: id}).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return GetExpense(ctx, id)
}

func DeleteExpense(ctx context.Context, id int) (*Expense, error) {

	result, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&Expense{}, id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func GetExpense(ctx context.Context, id int) (*Expense, error) {

	return utils.FetchModel[Expense](ctx, id, "Creator")
}

// ListExpenses returns one page of expenses matching the filter, creators preloaded.
func ListExpenses(ctx context.Context, filter ExpenseFilter) (*Page[Expense], error) {
	db := config.GetDB()
	dbCtx := filter.Apply(db.WithContext(ctx).Model(&Expense{}))

	return FetchPage[Expense](dbCtx, filter.Page, filter.PerPage, filter.OrderClauses(), "Creator")
}
