package domain

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// DateLayout is the only accepted calendar date format for CV entries.
const DateLayout = "2006-01-02"

// PresentDate marks an ongoing education or experience entry.
const PresentDate = "Present"

type ErrorType string

const (
	ErrRequired     ErrorType = "required"
	ErrInvalidField ErrorType = "invalid_field"
	ErrMinLength    ErrorType = "min_length"
	ErrMaxLength    ErrorType = "max_length"
	ErrXSSDetected  ErrorType = "xss_detected"
	ErrDateRange    ErrorType = "date_range"
	ErrDuplicate    ErrorType = "duplicate"
)

// DomainModel is implemented by every payload that is sanitized and validated before persistence.
type DomainModel interface {
	Validate() error
	BeforeSave()
}

type ValidationError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Type    ErrorType `json:"type"`
	Value   any       `json:"-"`
}

func NewValidationError(field, message string, errType ErrorType) *ValidationError {
	return &ValidationError{Field: field, Message: message, Type: errType}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationErrors flattens a single ValidationError or a ValidationErrors chain into a slice.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many, true
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return ValidationErrors{single}, true
	}
	return nil, false
}

// PrefixErrors rewrites field names of every validation error with the given prefix.
func PrefixErrors(prefix string, err error) error {
	if err == nil {
		return nil
	}
	list, ok := AsValidationErrors(err)
	if !ok {
		return err
	}
	out := make(ValidationErrors, 0, len(list))
	for _, e := range list {
		out = append(out, &ValidationError{
			Field:   prefix + "." + e.Field,
			Message: e.Message,
			Type:    e.Type,
			Value:   e.Value,
		})
	}
	return out
}

// SecuritySanitizer provides HTML sanitization helpers.
type SecuritySanitizer struct {
	policy *bluemonday.Policy
}

func NewSecuritySanitizer() *SecuritySanitizer {
	return &SecuritySanitizer{policy: bluemonday.StrictPolicy()}
}

// SanitizeString strips every HTML element. Entities escaped by the policy are
// decoded again so plain text such as "R&D" survives unchanged.
func (s *SecuritySanitizer) SanitizeString(input string) string {
	if input == "" {
		return input
	}
	return html.UnescapeString(s.policy.Sanitize(input))
}

func (s *SecuritySanitizer) ContainsHTML(input string) bool {
	return s.SanitizeString(input) != input
}

var defaultSanitizer = NewSecuritySanitizer()

func sanitize(input string) string {
	return strings.TrimSpace(defaultSanitizer.SanitizeString(input))
}

func sanitizeAll(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if cleaned := sanitize(in); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// ValidationBuilder accumulates field errors for a single model.
type ValidationBuilder[T any] struct {
	errors    ValidationErrors
	sanitizer *SecuritySanitizer
}

func NewValidationBuilder[T any]() *ValidationBuilder[T] {
	return &ValidationBuilder[T]{sanitizer: defaultSanitizer}
}

func (vb *ValidationBuilder[T]) addError(field, message string, errType ErrorType, value any) {
	for _, existing := range vb.errors {
		if existing.Field == field && existing.Type == errType {
			return
		}
	}
	vb.errors = append(vb.errors, &ValidationError{Field: field, Message: message, Type: errType, Value: value})
}

func (vb *ValidationBuilder[T]) Field(name string, value any) *FieldValidator[T] {
	return &FieldValidator[T]{builder: vb, field: name, value: value}
}

func (vb *ValidationBuilder[T]) Build() error {
	if len(vb.errors) == 0 {
		return nil
	}
	return vb.errors
}

type FieldValidator[T any] struct {
	builder *ValidationBuilder[T]
	field   string
	value   any
}

func (fv *FieldValidator[T]) Required() *FieldValidator[T] {
	if isZero(fv.value) {
		fv.builder.addError(fv.field, fv.field+" is required", ErrRequired, fv.value)
	}
	return fv
}

func (fv *FieldValidator[T]) String() *StringValidator[T] {
	s, _ := fv.value.(string)
	return &StringValidator[T]{FieldValidator: fv, value: s}
}

func (fv *FieldValidator[T]) StringSlice() *StringSliceValidator[T] {
	s, _ := fv.value.([]string)
	return &StringSliceValidator[T]{FieldValidator: fv, value: s}
}

func (fv *FieldValidator[T]) Date() *DateValidator[T] {
	s, _ := fv.value.(string)
	return &DateValidator[T]{FieldValidator: fv, value: s}
}

func (fv *FieldValidator[T]) Int() *IntValidator[T] {
	n, _ := fv.value.(int)
	return &IntValidator[T]{FieldValidator: fv, value: n}
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	}
	return reflect.ValueOf(v).IsZero()
}

type StringValidator[T any] struct {
	*FieldValidator[T]
	value string
}

func (sv *StringValidator[T]) MinLength(min int) *StringValidator[T] {
	if sv.value != "" && len([]rune(sv.value)) < min {
		sv.builder.addError(sv.field, fmt.Sprintf("minimum length is %d characters", min), ErrMinLength, sv.value)
	}
	return sv
}

func (sv *StringValidator[T]) MaxLength(max int) *StringValidator[T] {
	if len([]rune(sv.value)) > max {
		sv.builder.addError(sv.field, fmt.Sprintf("maximum length is %d characters", max), ErrMaxLength, sv.value)
	}
	return sv
}

func (sv *StringValidator[T]) NotEmpty() *StringValidator[T] {
	if strings.TrimSpace(sv.value) == "" {
		sv.builder.addError(sv.field, sv.field+" is required", ErrRequired, sv.value)
	}
	return sv
}

func (sv *StringValidator[T]) Pattern(pattern string, message string) *StringValidator[T] {
	if sv.value != "" {
		if !regexp.MustCompile(pattern).MatchString(sv.value) {
			sv.builder.addError(sv.field, message, ErrInvalidField, sv.value)
		}
	}
	return sv
}

func (sv *StringValidator[T]) OneOf(allowed ...string) *StringValidator[T] {
	if sv.value == "" {
		return sv
	}
	for _, a := range allowed {
		if sv.value == a {
			return sv
		}
	}
	sv.builder.addError(sv.field, "must be one of: "+strings.Join(allowed, ", "), ErrInvalidField, sv.value)
	return sv
}

func (sv *StringValidator[T]) SecureSanitize() *StringValidator[T] {
	if sv.value != "" && sv.builder.sanitizer.ContainsHTML(sv.value) {
		sv.builder.addError(sv.field, "content contains potentially unsafe HTML", ErrXSSDetected, sv.value)
	}
	return sv
}

type StringSliceValidator[T any] struct {
	*FieldValidator[T]
	value []string
}

func (ssv *StringSliceValidator[T]) MaxLength(max int) *StringSliceValidator[T] {
	if len(ssv.value) > max {
		ssv.builder.addError(ssv.field, fmt.Sprintf("maximum %d items allowed", max), ErrMaxLength, ssv.value)
	}
	return ssv
}

func (ssv *StringSliceValidator[T]) EachMaxLength(max int) *StringSliceValidator[T] {
	for i, item := range ssv.value {
		if len([]rune(item)) > max {
			ssv.builder.addError(fmt.Sprintf("%s[%d]", ssv.field, i),
				fmt.Sprintf("maximum length is %d characters", max), ErrMaxLength, item)
		}
	}
	return ssv
}

func (ssv *StringSliceValidator[T]) EachSecureSanitize() *StringSliceValidator[T] {
	for i, item := range ssv.value {
		if item != "" && ssv.builder.sanitizer.ContainsHTML(item) {
			ssv.builder.addError(fmt.Sprintf("%s[%d]", ssv.field, i),
				"content contains potentially unsafe HTML", ErrXSSDetected, item)
		}
	}
	return ssv
}

type DateValidator[T any] struct {
	*FieldValidator[T]
	value string
}

func (dv *DateValidator[T]) ISO8601() *DateValidator[T] {
	if dv.value != "" {
		if _, err := time.Parse(DateLayout, dv.value); err != nil {
			dv.builder.addError(dv.field, "invalid date format (expected YYYY-MM-DD)", ErrInvalidField, dv.value)
		}
	}
	return dv
}

// NotBefore reports an error when the date is earlier than the reference date.
func (dv *DateValidator[T]) NotBefore(reference string) *DateValidator[T] {
	if dv.value == "" || reference == "" {
		return dv
	}
	date, err1 := time.Parse(DateLayout, dv.value)
	ref, err2 := time.Parse(DateLayout, reference)
	if err1 == nil && err2 == nil && date.Before(ref) {
		dv.builder.addError(dv.field, "date must not be before the start date", ErrDateRange, dv.value)
	}
	return dv
}

type IntValidator[T any] struct {
	*FieldValidator[T]
	value int
}

func (iv *IntValidator[T]) Range(min, max int) *IntValidator[T] {
	if iv.value < min || iv.value > max {
		iv.builder.addError(iv.field, fmt.Sprintf("must be between %d and %d", min, max), ErrInvalidField, iv.value)
	}
	return iv
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator lazily initializes the shared validator; fields are reported by json name.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
		validatorInst.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validatorInst
}

// ValidateStruct validates a struct using go-playground/validator and maps errors into the
// project's ValidationErrors format for consistent error handling.
func ValidateStruct(model any) error {
	err := getValidator().Struct(model)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	mapped := make(ValidationErrors, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		mapped = append(mapped, &ValidationError{
			Field:   fieldErr.Field(),
			Message: formatValidationMessage(fieldErr),
			Type:    validationType(fieldErr.Tag()),
			Value:   fieldErr.Value(),
		})
	}
	return mapped
}

func validationType(tag string) ErrorType {
	switch tag {
	case "required":
		return ErrRequired
	case "max":
		return ErrMaxLength
	case "min":
		return ErrMinLength
	default:
		return ErrInvalidField
	}
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	default:
		return err.Error()
	}
}
