package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a json field name to its messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field string, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		if _, ok := f[field]; ok {
			continue
		}
		f[field] = append([]string(nil), messages...)
	}
}

// ValidationError is returned for rejected input. Message carries business rule
// failures, Fields carries per-field failures; either may be empty.
type ValidationError struct {
	Message string
	Fields  FieldErrors
	Cause   error
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

func NewFieldError(field string, message string) *ValidationError {
	return &ValidationError{Fields: FieldErrors{field: {message}}}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// numeric tags (gte, gt) compare decimals as numbers
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("pe_phone", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true
			}
			return ValidatePhoneNumber(s, CountryCode) == nil
		})
		validate = v
	})
	return validate
}

// BindAndValidate decodes a JSON object into dst (pointer to struct) and runs its validate tags.
//
// Fields are decoded one by one, so a value of the wrong JSON type becomes a field error instead
// of failing the request. With partial set only fields present in the body are validated.
// The returned set lists the json names present in the body, explicit nulls included.
func BindAndValidate(body []byte, dst interface{}, partial bool) (map[string]bool, error) {
	present, fieldErrs, err := DecodeFields(body, dst)
	if err != nil {
		return nil, err
	}
	var only map[string]bool
	if partial {
		only = present
	}
	fieldErrs.Merge(ValidateStruct(dst, only))
	if len(fieldErrs) > 0 {
		return present, &ValidationError{Fields: fieldErrs}
	}
	return present, nil
}

// DecodeFields fills the json tagged fields of dst from a JSON object.
func DecodeFields(body []byte, dst interface{}) (map[string]bool, FieldErrors, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, nil, ErrMalformedBody
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, nil, errors.New("DecodeFields: dst must be a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	present := make(map[string]bool)
	fieldErrs := make(FieldErrors)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		value, ok := raw[name]
		if !ok {
			continue
		}
		present[name] = true
		field := rv.Field(i)
		target := reflect.New(field.Type())
		if err := json.Unmarshal(value, target.Interface()); err != nil {
			fieldErrs.Add(name, fmt.Sprintf("The %s field must be %s.", fieldLabel(name), typeNoun(field.Type())))
			continue
		}
		field.Set(normalizeBlank(target.Elem()))
	}
	return present, fieldErrs, nil
}

// strings are trimmed, a blank optional string counts as null
func normalizeBlank(v reflect.Value) reflect.Value {
	switch {
	case v.Kind() == reflect.String:
		return reflect.ValueOf(strings.TrimSpace(v.String())).Convert(v.Type())
	case v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.String:
		s := strings.TrimSpace(v.Elem().String())
		if s == "" {
			return reflect.Zero(v.Type())
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(reflect.ValueOf(s).Convert(v.Type().Elem()))
		return p
	}
	return v
}

// ValidateStruct runs the validate tags of s. When only is not nil, failures on other fields are dropped.
func ValidateStruct(s interface{}, only map[string]bool) FieldErrors {
	fieldErrs := make(FieldErrors)
	err := GetValidator().Struct(s)
	if err == nil {
		return fieldErrs
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fieldErrs.Add("_", err.Error())
		return fieldErrs
	}
	for _, fe := range validationErrors {
		name := fe.Field()
		if only != nil && !only[name] {
			continue
		}
		fieldErrs.Add(name, validationMessage(fe))
	}
	return fieldErrs
}

func validationMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be at least %s.", label, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "calendar_date":
		return fmt.Sprintf("The %s field must be a valid date.", label)
	case "pe_phone":
		return fmt.Sprintf("The %s field must be a valid phone number.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

// payment_method -> payment method
func fieldLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func typeNoun(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == reflect.TypeOf(decimal.Decimal{}) {
		return "a number"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "true or false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "a valid value"
	}
}
