package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmdatafocus/backoffice_backend/config"
	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db
// (may return RecordNotFound, other storage errors are returned as is)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// count records matching condition
func ResourceCountWhere[T any](ctx context.Context, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where(condition, value...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// check if id exists, return RecordNotFound Error
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// ValidateUnique reports a field error when column already holds value, soft deleted rows included.
// exceptId excludes the record being updated; pass 0 on create.
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId int) error {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Unscoped().Model(&model).Where(column+" = ?", value)
	if exceptId > 0 {
		dbCtx = dbCtx.Where("id <> ?", exceptId)
	}
	var count int64
	if err := dbCtx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewFieldError(column, fmt.Sprintf("The %s has already been taken.", fieldLabel(column)))
	}
	return nil
}
