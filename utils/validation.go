package utils

import (
	"CarePoint/models"
	"errors"
	"log"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
)

// dateRule rejects values that do not parse as a calendar date.
func dateRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseInLocation(models.DateLayout, s, time.Local); err != nil {
		return errors.New("must be a date in YYYY-MM-DD form")
	}
	return nil
}

// clockRule rejects values that do not parse as a time of day.
func clockRule(value interface{}) error {
	s, _ := value.(string)
	if _, err := time.ParseInLocation(models.ClockLayout, s, time.Local); err != nil {
		return errors.New("must be a time in HH:MM form")
	}
	return nil
}

// ValidateBooking checks the booking parameters arriving at the transport
// boundary before they reach the scheduler.
func ValidateBooking(patientID, clinicianID, date, timeOfDay, reason string) error {
	err := validation.Errors{
		"patient_id":   validation.Validate(patientID, validation.Required),
		"clinician_id": validation.Validate(clinicianID, validation.Required),
		"date":         validation.Validate(date, validation.Required, validation.By(dateRule)),
		"time":         validation.Validate(timeOfDay, validation.Required, validation.By(clockRule)),
		"reason":       validation.Validate(reason, validation.Required, validation.Length(1, 500)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateBill checks a bill's base fields before totals are computed.
func ValidateBill(bill *models.Bill) error {
	err := validation.ValidateStruct(bill,
		validation.Field(&bill.PatientID, validation.Required),
		validation.Field(&bill.BillType, validation.Required),
		validation.Field(&bill.ItemName, validation.Required, validation.Length(1, 200)),
		validation.Field(&bill.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&bill.UnitPrice, validation.Min(0.0)),
		validation.Field(&bill.DueDate, validation.Required, validation.By(dateRule)),
		validation.Field(&bill.BillDate, validation.By(dateRule)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidatePrescription checks a medication order before it enters the lifecycle.
func ValidatePrescription(p *models.Prescription) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.PatientID, validation.Required),
		validation.Field(&p.ClinicianID, validation.Required),
		validation.Field(&p.MedicationName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Dosage, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Frequency, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.DurationDays, validation.Required, validation.Min(1)),
		validation.Field(&p.PrescribedQuantity, validation.Required, validation.Min(1)),
		validation.Field(&p.RefillsAllowed, validation.Min(0)),
		validation.Field(&p.StartDate, validation.By(dateRule)),
		validation.Field(&p.EndDate, validation.By(dateRule)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateUserData validates user data using ozzo-validation.
func ValidateUserData(user models.User) error {
	err := validation.ValidateStruct(&user,
		validation.Field(&user.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
