package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind mirrors the input types that carry a shape rule.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindURL      FieldKind = "url"
	KindPhone    FieldKind = "tel"
	KindNumber   FieldKind = "number"
	KindFile     FieldKind = "file"
	KindPassword FieldKind = "password"
)

// FormErrorToast is raised when a submit is blocked.
const FormErrorToast = "Please fix the errors in the form"

// Field is one input as submitted for live validation.
type Field struct {
	Name     string    `json:"name" binding:"required"`
	Kind     FieldKind `json:"kind"`
	Value    string    `json:"value"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	// FileSize is the byte size of a selected file, 0 when none.
	FileSize int64 `json:"fileSize,omitempty"`
}

// FieldError is the inline message shown under a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validator applies the per-field rules.
type Validator struct {
	MaxFileSize int64
}

func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{MaxFileSize: maxFileSize}
}

// ValidateField returns the message of the last failing rule, or "" when
// the field is valid. Shape rules only apply to non-empty values.
func (v *Validator) ValidateField(f Field) string {
	value := strings.TrimSpace(f.Value)
	msg := ""

	if f.Required && value == "" && f.FileSize == 0 {
		msg = "This field is required"
	}

	switch f.Kind {
	case KindEmail:
		if value != "" && !IsValidEmail(value) {
			msg = "Please enter a valid email address"
		}
	case KindURL:
		if value != "" && !IsValidURL(value) {
			msg = "Please enter a valid URL"
		}
	case KindPhone:
		if value != "" && !IsValidPhone(value) {
			msg = "Please enter a valid phone number"
		}
	case KindNumber:
		if num, ok := parseNumber(value); ok {
			if f.Min != nil && num < *f.Min {
				msg = "Value must be at least " + formatBound(*f.Min)
			}
			if f.Max != nil && num > *f.Max {
				msg = "Value must be at most " + formatBound(*f.Max)
			}
		}
	case KindFile:
		if f.FileSize > v.MaxFileSize {
			msg = fmt.Sprintf("File size must be less than %dMB", v.MaxFileSize/(1024*1024))
		}
	}

	return msg
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormResult is the outcome of validating every field of a form.
type FormResult struct {
	Valid bool `json:"valid"`
	// Errors lists failing fields in form order.
	Errors []FieldError `json:"errors"`
	// Focus is the first failing field.
	Focus string `json:"focus,omitempty"`
	Toast string `json:"toast,omitempty"`
	// Strength rates each non-empty password field. It never fails a form.
	Strength map[string]PasswordStrength `json:"strength,omitempty"`
}

// ValidateForm runs every field, never stopping at the first failure.
func (v *Validator) ValidateForm(fields []Field) FormResult {
	result := FormResult{Valid: true, Errors: []FieldError{}}
	for _, f := range fields {
		if msg := v.ValidateField(f); msg != "" {
			result.Errors = append(result.Errors, FieldError{Field: f.Name, Message: msg})
		}
		if f.Kind == KindPassword && f.Value != "" {
			if result.Strength == nil {
				result.Strength = make(map[string]PasswordStrength)
			}
			result.Strength[f.Name] = CheckPasswordStrength(f.Value)
		}
	}
	if len(result.Errors) > 0 {
		result.Valid = false
		result.Focus = result.Errors[0].Field
		result.Toast = FormErrorToast
	}
	return result
}

// ValidateSalaryRange is the cross-field rule of the posting form: when both
// bounds are positive numbers, the maximum must not be below the minimum.
func ValidateSalaryRange(min, max string) string {
	lo, okLo := parseNumber(min)
	hi, okHi := parseNumber(max)
	if okLo && okHi && lo != 0 && hi != 0 && lo > hi {
		return "Maximum salary must be greater than minimum salary"
	}
	return ""
}
