package utils

import (
	"errors"
	"fmt"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

var (
	ErrorRecordNotFound = errors.New("record not found")
	// ErrMalformedBody is returned when a request body is not a JSON object.
	ErrMalformedBody = errors.New("malformed request body")
)

// IsDuplicateKeyErr reports a unique index violation from mysql or sqlite.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// UniqueViolation maps a duplicate key error to the field error ValidateUnique reports.
func UniqueViolation(err error, column string) error {
	if IsDuplicateKeyErr(err) {
		return NewFieldError(column, fmt.Sprintf("The %s has already been taken.", fieldLabel(column)))
	}
	return err
}
