package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
)

const DefaultTireSize = "N/A"

type Vehicle struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CustomerId int       `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `json:"customer,omitempty"`
	Plate      string    `gorm:"size:20;not null;uniqueIndex" json:"plate"`
	Brand      string    `gorm:"size:100;not null" json:"brand"`
	Model      string    `gorm:"size:100;not null" json:"model"`
	Year       int       `gorm:"not null" json:"year"`
	Color      *string   `gorm:"size:50" json:"color"`
	Mileage    *int      `json:"mileage"`
	TireSize   string    `gorm:"size:50;not null;default:'N/A'" json:"tire_size"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVehicle struct {
	CustomerId *int    `json:"customer_id" validate:"required,gt=0"`
	Plate      *string `json:"plate" validate:"required,max=20"`
	Brand      *string `json:"brand" validate:"required,max=100"`
	Model      *string `json:"model" validate:"required,max=100"`
	Year       *int    `json:"year" validate:"required,gte=1900,lte=2100"`
	Color      *string `json:"color" validate:"omitempty,max=50"`
	Mileage    *int    `json:"mileage" validate:"omitempty,gte=0"`
	TireSize   *string `json:"tire_size" validate:"omitempty,max=50"`
}

func (input *NewVehicle) validate(ctx context.Context) error {
	fieldErrs := utils.ValidateStruct(input, nil)

	// exists customer
	if input.CustomerId != nil && fieldErrs["customer_id"] == nil {
		err := utils.ValidateResourceId[Customer](ctx, *input.CustomerId)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			fieldErrs.Add("customer_id", "The selected customer id is invalid.")
		} else if err != nil {
			return err
		}
	}
	// validate unique plate
	if input.Plate != nil && fieldErrs["plate"] == nil {
		if err := collectFieldErrors(fieldErrs, utils.ValidateUnique[Vehicle](ctx, "plate", *input.Plate, 0)); err != nil {
			return err
		}
	}
	return fieldErrorsOrNil(fieldErrs)
}

func BindNewVehicle(body []byte) (*NewVehicle, error) {
	var input NewVehicle
	if _, err := utils.BindAndValidate(body, &input, false); err != nil {
		return nil, err
	}
	return &input, nil
}

// CreateVehicle stores the vehicle; an omitted tire size is recorded as "N/A".
func CreateVehicle(ctx context.Context, input *NewVehicle) (*Vehicle, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	vehicle := Vehicle{
		CustomerId: *input.CustomerId,
		Plate:      *input.Plate,
		Brand:      *input.Brand,
		Model:      *input.Model,
		Year:       *input.Year,
		Color:      input.Color,
		Mileage:    input.Mileage,
		TireSize:   utils.DereferencePtr(input.TireSize, DefaultTireSize),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&vehicle).Error; err != nil {
		return nil, utils.UniqueViolation(err, "plate")
	}
	return &vehicle, nil
}

func GetVehicle(ctx context.Context, id int) (*Vehicle, error) {
	return utils.FetchModel[Vehicle](ctx, id, "Customer")
}

// GetVehicles lists vehicles with their customer, optionally for one customer.
func GetVehicles(ctx context.Context, customerId *int) ([]*Vehicle, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Customer")
	if customerId != nil && *customerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", *customerId)
	}
	results := make([]*Vehicle, 0)
	if err := dbCtx.Order("id desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
