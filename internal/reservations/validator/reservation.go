package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	reservationserrors "golfmaster/internal/reservations/errors"
	"golfmaster/pkg/logger"
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

type ReservationValidator struct {
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	return &ReservationValidator{
		validate: v,
		log:      log,
		now:      time.Now,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func (v *ReservationValidator) ValidateCreate(req *model.CreateReservationRequest) error {
	if err := v.validateStruct(req); err != nil {
		return err
	}
	return v.validateDate(req.Date)
}

// Validate checks a fully built reservation, including the owner
// membership rule.
func (v *ReservationValidator) Validate(r *model.Reservation) error {
	if err := v.validateStruct(r); err != nil {
		return err
	}

	if !r.HasParticipant(r.OwnerID) {
		return ValidationErrors{{Field: "participants", Message: "must include the owner"}}
	}
	if len(r.Participants) > r.Players {
		return ValidationErrors{{Field: "players", Message: fmt.Sprintf("must be at least the number of participants (%d)", len(r.Participants))}}
	}
	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if update.IsEmpty() {
		return ValidationErrors{{Field: "update", Message: "at least one field must be provided"}}
	}
	if err := v.validateStruct(update); err != nil {
		return err
	}
	if update.Date != nil {
		return v.validateDate(*update.Date)
	}
	return nil
}

func (v *ReservationValidator) validateDate(date time.Time) error {
	if !date.After(v.now()) {
		return ValidationErrors{{Field: "date", Message: reservationserrors.ErrDateInPast.Error()}}
	}
	return nil
}

func (v *ReservationValidator) validateStruct(s any) error {
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
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: messageFor(err),
		})
	}

	return validationErrors
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", err.Param())
		}
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s entries", err.Param())
		}
		return fmt.Sprintf("must be at most %s", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "mongodb":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed on %s", err.Tag())
	}
}
