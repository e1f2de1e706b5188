package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"golfmaster/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

type PlayerValidator struct {
	validate *validator.Validate
}

func NewPlayerValidator() *PlayerValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &PlayerValidator{validate: v}
}

func (v *PlayerValidator) Validate(p *model.Player) error {
	if err := v.validateStruct(p); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return ValidationErrors{{Field: "id", Message: "is required"}}
	}
	return nil
}

func (v *PlayerValidator) ValidateUpdate(u *model.PlayerUpdate) error {
	if u.IsEmpty() {
		return ValidationErrors{{Field: "update", Message: "at least one field must be provided"}}
	}
	return v.validateStruct(u)
}

func (v *PlayerValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		var msg string
		switch err.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "e164":
			msg = "must be a valid phone number"
		case "min", "max":
			msg = fmt.Sprintf("must satisfy %s=%s", err.Tag(), err.Param())
		default:
			msg = fmt.Sprintf("failed on %s", err.Tag())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: msg})
	}
	return out
}
