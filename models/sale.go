package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale and ServiceRecord are written by the point of sale; here they only feed customer rollups.
type Sale struct {
	ID         int             `gorm:"primary_key" json:"id"`
	CustomerId int             `gorm:"index;not null" json:"customer_id"`
	Status     RecordStatus    `gorm:"size:20;index;not null;default:pending" json:"status"`
	TotalPen   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_pen"`
	TotalUsd   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_usd"`
	SaleDate   Date            `gorm:"type:date;index;not null" json:"sale_date"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type ServiceRecord struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CustomerId  int             `gorm:"index;not null" json:"customer_id"`
	VehicleId   *int            `gorm:"index" json:"vehicle_id"`
	Status      RecordStatus    `gorm:"size:20;index;not null;default:pending" json:"status"`
	TotalPen    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_pen"`
	TotalUsd    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_usd"`
	ServiceDate Date            `gorm:"type:date;index;not null" json:"service_date"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// most recent completed sale by sale_date, nil when there is none
func lastCompletedSale(ctx context.Context, customerId int) (*Sale, error) {
	db := config.GetDB()
	var sale Sale
	err := db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerId, RecordStatusCompleted).
		Order("sale_date desc").Order("id desc").
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}
