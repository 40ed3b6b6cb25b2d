package models

import (
	"errors"

	"github.com/mmdatafocus/backoffice_backend/utils"
)

// collectFieldErrors moves the field errors of a lookup check into fieldErrs.
// Any other error is a storage failure and is returned.
func collectFieldErrors(fieldErrs utils.FieldErrors, err error) error {
	if err == nil {
		return nil
	}
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		fieldErrs.Merge(verr.Fields)
		return nil
	}
	return err
}

func fieldErrorsOrNil(fieldErrs utils.FieldErrors) error {
	if len(fieldErrs) == 0 {
		return nil
	}
	return &utils.ValidationError{Fields: fieldErrs}
}

// presentUpdates copies the present json fields into a column map using the given converters.
func presentUpdates(present map[string]bool, columns map[string]func() interface{}) map[string]interface{} {
	updates := make(map[string]interface{})
	for column, value := range columns {
		if present[column] {
			updates[column] = value()
		}
	}
	return updates
}
