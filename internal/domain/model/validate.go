package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/target/reportd/internal/errors"
)

// ValidationError reports request fields that failed their struct tag rules.
// It unwraps to an internal/errors AppError with code validation.
type ValidationError struct {
	Fields []string
	// Field is the first offending field, in the request's JSON naming when known.
	Field string
	cause error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}
	return "invalid request: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := []error{apperrors.ValidationField(e.Field, e.Error())}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("jobid", validJobID)
	})
	return validate
}

func validateStruct(v any) error {
	err := requestValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{cause: err, Field: fieldErrs[0].Field()}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return out
}

// Validate checks tag rules and that the schedule and window are coherent.
func (r *CreateJobRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := r.Schedule().Validate(); err != nil {
		return &ValidationError{Fields: []string{err.Error()}, Field: "schedule", cause: err}
	}
	return nil
}

// Validate checks tag rules and that exactly one trigger form is set.
func (r *UpdateScheduleRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := r.Schedule().Validate(); err != nil {
		return &ValidationError{Fields: []string{err.Error()}, Field: "schedule", cause: err}
	}
	return nil
}

// Validate checks tag rules.
func (r *CreateSubscriberRequest) Validate() error {
	return validateStruct(r)
}

// jsonFieldName reports fields by their JSON name.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// validJobID rejects ids that cannot prefix an artifact file name.
func validJobID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return !strings.HasPrefix(id, ".") && !strings.ContainsAny(id, `/\`)
}
