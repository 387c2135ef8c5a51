package validation

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
	allowedImages = map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
	}
)

// Display names for fields whose JSON name reads badly in a message
var fieldLabels = map[string]string{
	"topic_id":         "Topic",
	"tag_ids":          "Tags",
	"confirm_password": "Confirm password",
	"avatar_url":       "Avatar URL",
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator checks request structs against their `validate` tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate returns every violation in field declaration order
func (v *Validator) Validate(s interface{}) []ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	result := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, toValidationError(fe))
	}
	return result
}

// First returns the first violated rule, or nil when s is valid
func (v *Validator) First(s interface{}) *ValidationError {
	errs := v.Validate(s)
	if len(errs) == 0 {
		return nil
	}
	return &errs[0]
}

func toValidationError(fe validator.FieldError) ValidationError {
	field := fe.Field()
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	label := labelFor(field)
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array

	ve := ValidationError{Field: field}
	switch fe.Tag() {
	case "required":
		ve.Message = fmt.Sprintf("%s is required", label)
	case "min":
		if isList {
			ve.Message = fmt.Sprintf("%s must contain at least %s items", label, fe.Param())
		} else {
			ve.Message = fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
	case "max":
		if isList {
			ve.Message = fmt.Sprintf("You can select up to %s %s", fe.Param(), strings.ToLower(label))
		} else {
			ve.Message = fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
	case "len":
		ve.Message = fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())
	case "email":
		ve.Message = "Please enter a valid email address"
		ve.Value = fe.Value()
	case "uuid":
		ve.Message = fmt.Sprintf("%s must be a valid id", label)
		ve.Value = fe.Value()
	case "unique":
		ve.Message = fmt.Sprintf("%s must not contain duplicates", label)
	case "oneof":
		ve.Message = fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
		ve.Value = fe.Value()
	case "eqfield":
		ve.Message = "Passwords don't match"
	case "numeric":
		ve.Message = fmt.Sprintf("%s must contain only digits", label)
	case "slug":
		ve.Message = fmt.Sprintf("%s must contain only lowercase letters, digits and dashes", label)
		ve.Value = fe.Value()
	case "url":
		ve.Message = fmt.Sprintf("%s must be a valid URL", label)
	default:
		ve.Message = fmt.Sprintf("%s is invalid", label)
	}
	return ve
}

func labelFor(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	if field == "" {
		return "Value"
	}
	words := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}

// ValidateImage checks an uploaded image by extension, size and sniffed content.
// It returns the detected content type and the lowercase extension without the dot.
func ValidateImage(field, filename string, data []byte, maxSize int64) (contentType, ext string, verr *ValidationError) {
	ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	expected, ok := allowedImages[ext]
	if !ok {
		return "", "", &ValidationError{Field: field, Message: "Only JPG, PNG, GIF and WEBP images are supported", Value: filename}
	}
	if len(data) == 0 {
		return "", "", &ValidationError{Field: field, Message: "Image is empty"}
	}
	if int64(len(data)) > maxSize {
		return "", "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Image must be smaller than %dMB", maxSize/(1024*1024)),
		}
	}

	detected := http.DetectContentType(data)
	if detected != expected {
		return "", "", &ValidationError{Field: field, Message: "File content does not match its image type", Value: filename}
	}
	return detected, ext, nil
}

// Slugify lowercases s and collapses every run of non-alphanumerics into a dash
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// IsValidSlug reports whether s is already in slug form
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// IsValidUUID reports whether s parses as a UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
