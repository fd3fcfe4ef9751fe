package transactpay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
)

// Field error codes.
const (
	CodeDetailsRequired          = "details required"
	CodeOwnerRequired            = "owner required"
	CodeAddressRequired          = "address required"
	CodeReservationPeriodInvalid = "reservation period invalid"
)

// RawFormInput is the admin form submission before validation.
type RawFormInput struct {
	Details         string
	Owner           string
	Address         string
	ReservationDays string
	// CustomText holds only the languages present in the submission.
	CustomText           map[int64]string
	DisplayPaymentInvite bool
	Credentials          CredentialInput
}

// CredentialInput is the credentials section of a submission.
// GoLive is nil when the switch was not submitted; empty keys are left untouched.
type CredentialInput struct {
	GoLive *bool
	Live   CredentialSet
	Test   CredentialSet
}

// FieldError is one validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidatedSettings can only be obtained from a successful validation.
type ValidatedSettings struct {
	input RawFormInput
}

// Input returns the normalized submission.
func (v ValidatedSettings) Input() RawFormInput {
	return v.input
}

type settingsForm struct {
	Details         string `validate:"required"`
	Owner           string `validate:"required"`
	Address         string `validate:"required"`
	ReservationDays string `validate:"omitempty,reservation_days"`
}

var fieldErrors = map[string]FieldError{
	"Details": {Field: KeyBankWireDetails, Code: CodeDetailsRequired, Message: "Account details are required."},
	"Owner":   {Field: KeyBankWireOwner, Code: CodeOwnerRequired, Message: "Account owner is required."},
	"Address": {Field: KeyBankWireAddress, Code: CodeAddressRequired, Message: "Bank address is required."},
	"ReservationDays": {
		Field:   KeyBankWireReservationDays,
		Code:    CodeReservationPeriodInvalid,
		Message: "The Reservation period is invalid. Please enter a positive integer.",
	},
}

// SettingsValidator checks admin submissions.
type SettingsValidator struct {
	validate *validator.Validate
}

// NewSettingsValidator builds a validator with the module's custom rules. It panics
// if a rule cannot be registered, since every later Validate call would fail on the tag.
func NewSettingsValidator() *SettingsValidator {
	v := validator.New()
	if err := v.RegisterValidation("reservation_days", validReservationDays); err != nil {
		panic(fmt.Errorf("transactpay: register reservation_days rule: %w", err))
	}
	return &SettingsValidator{validate: v}
}

func validReservationDays(fl validator.FieldLevel) bool {
	_, err := strconv.ParseUint(fl.Field().String(), 10, 32)
	return err == nil
}

var (
	defaultValidator     *SettingsValidator
	defaultValidatorOnce sync.Once
)

// Validate checks in with a shared SettingsValidator.
func Validate(in RawFormInput) (ValidatedSettings, []FieldError) {
	defaultValidatorOnce.Do(func() { defaultValidator = NewSettingsValidator() })
	return defaultValidator.Validate(in)
}

// Validate collects every violation in form order. An empty slice means in may be persisted.
func (sv *SettingsValidator) Validate(in RawFormInput) (ValidatedSettings, []FieldError) {
	in.Details = strings.TrimSpace(in.Details)
	in.Owner = strings.TrimSpace(in.Owner)
	in.Address = strings.TrimSpace(in.Address)
	in.ReservationDays = strings.TrimSpace(in.ReservationDays)

	form := settingsForm{
		Details:         in.Details,
		Owner:           in.Owner,
		Address:         in.Address,
		ReservationDays: in.ReservationDays,
	}
	var errs []FieldError
	if err := sv.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ValidatedSettings{}, []FieldError{{Code: "invalid", Message: err.Error()}}
		}
		for _, fe := range verrs {
			if e, ok := fieldErrors[fe.StructField()]; ok {
				errs = append(errs, e)
			}
		}
	}
	if len(errs) > 0 {
		return ValidatedSettings{}, errs
	}
	return ValidatedSettings{input: in}, nil
}
