package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmdatafocus/backoffice_backend/utils"
)

// Date is a calendar date stored as UTC midnight and serialized as YYYY-MM-DD.
type Date time.Time

func NewDate(t time.Time) Date {
	return Date(utils.DateOnly(t))
}

func (t Date) Time() time.Time {
	return time.Time(t)
}

func (t Date) String() string {
	return time.Time(t).Format(utils.DateLayout)
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return err
	}
	*t = Date(d)
	return nil
}

func (Date) GormDataType() string {
	return "date"
}

// Value implements the driver.Valuer interface
func (t Date) Value() (driver.Value, error) {
	return utils.DateOnly(time.Time(t)), nil
}

// Scan implements the sql.Scanner interface
func (t *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = Date(time.Time{})
	case time.Time:
		*t = NewDate(v)
	case string:
		d, err := utils.ParseDate(v)
		if err != nil {
			return err
		}
		*t = Date(d)
	case []byte:
		d, err := utils.ParseDate(string(v))
		if err != nil {
			return err
		}
		*t = Date(d)
	default:
		return fmt.Errorf("cannot convert %T to Date", value)
	}
	return nil
}
