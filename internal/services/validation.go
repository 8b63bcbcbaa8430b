package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages line up with
// request bodies.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"title.required":  "Title is required",
	"title.max":       "Title must be between 1 and 200 characters",
	"author.required": "Author is required",
	"author.max":      "Author must be between 1 and 100 characters",
	"price.gte":       "Price must be greater than or equal to 0",
	"isbn.required":   "ISBN is required",
	"isbn.min":        "ISBN must be between 10 and 17 characters",
	"isbn.max":        "ISBN must be between 10 and 17 characters",
	"description.max": "Description must be at most 1000 characters",
	"name.required":   "Name is required",
	"name.min":        "Name must be between 2 and 50 characters",
	"name.max":        "Name must be between 2 and 50 characters",
	"email.required":  "Email is required",
	"email.email":     "Please provide a valid email",
}

func validateStruct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	problems := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		problems = append(problems, FieldError{Field: fe.Field(), Message: msg})
	}
	return problems
}

// validateID checks a path id before it reaches the store.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func isValidID(id string) bool {
	return validateID(id) == nil
}

// newID generates a time-ordered record id.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
