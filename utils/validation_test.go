package utils

import (
	"CarePoint/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBooking(t *testing.T) {
	assert.NoError(t, ValidateBooking("P-1", "C-1", "2026-09-01", "10:00", "checkup"))

	assert.Error(t, ValidateBooking("", "C-1", "2026-09-01", "10:00", "checkup"))
	assert.Error(t, ValidateBooking("P-1", "C-1", "09/01/2026", "10:00", "checkup"))
	assert.Error(t, ValidateBooking("P-1", "C-1", "2026-09-01", "25:00", "checkup"))
	assert.Error(t, ValidateBooking("P-1", "C-1", "2026-09-01", "10:00", ""))
}

func TestValidateBill(t *testing.T) {
	valid := &models.Bill{
		PatientID: "P-1",
		BillType:  models.BillConsultation,
		ItemName:  "Consultation",
		Quantity:  1,
		UnitPrice: 50,
		DueDate:   "2026-09-15",
	}
	assert.NoError(t, ValidateBill(valid))

	missingItem := *valid
	missingItem.ItemName = ""
	assert.Error(t, ValidateBill(&missingItem))

	zeroQuantity := *valid
	zeroQuantity.Quantity = 0
	assert.Error(t, ValidateBill(&zeroQuantity))

	badDueDate := *valid
	badDueDate.DueDate = "soon"
	assert.Error(t, ValidateBill(&badDueDate))
}

func TestValidatePrescription(t *testing.T) {
	valid := &models.Prescription{
		PatientID:          "P-1",
		ClinicianID:        "C-1",
		MedicationName:     "Amoxicillin",
		Dosage:             "500mg",
		Frequency:          "3x daily",
		DurationDays:       7,
		PrescribedQuantity: 21,
	}
	assert.NoError(t, ValidatePrescription(valid))

	missingDosage := *valid
	missingDosage.Dosage = ""
	assert.Error(t, ValidatePrescription(&missingDosage))

	zeroDuration := *valid
	zeroDuration.DurationDays = 0
	assert.Error(t, ValidatePrescription(&zeroDuration))
}

func TestValidateUserData(t *testing.T) {
	user := models.User{Username: "frontdesk", Email: "frontdesk@example.com", Password: "Sup3rSecret!"}
	assert.NoError(t, ValidateUserData(user))

	user.Password = "short"
	assert.Error(t, ValidateUserData(user))

	user.Password = "alllowercase1!"
	assert.Error(t, ValidateUserData(user))
}
