package services

import (
	"CarePoint/models"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activePrescription(id uint) *models.Prescription {
	return &models.Prescription{
		ID:                 id,
		PatientID:          "P-1",
		ClinicianID:        "C-1",
		MedicationName:     "Amoxicillin",
		Dosage:             "500mg",
		Frequency:          "3x daily",
		DurationDays:       7,
		PrescribedQuantity: 21,
		RefillsAllowed:     2,
		Status:             models.PrescriptionPrescribed,
		EndDate:            time.Now().AddDate(0, 0, 30).Format(models.DateLayout),
	}
}

func TestCreatePrescriptionStartsClean(t *testing.T) {
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	p := activePrescription(0)
	p.DispensedQuantity = 10
	p.RefillsUsed = 1
	p.Status = ""

	err := svc.CreatePrescription(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, models.PrescriptionPrescribed, p.Status)
	assert.Equal(t, 0, p.DispensedQuantity)
	assert.Equal(t, 0, p.RefillsUsed)
	assert.NotEmpty(t, p.PrescriptionDate)
}

func TestCreatePrescriptionRejectsInvalidInput(t *testing.T) {
	svc := NewPrescriptionService(new(mockPrescriptionStore), newKeyedLocker())
	err := svc.CreatePrescription(context.Background(), &models.Prescription{PatientID: "P-1"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDispenseRecordsFulfilment(t *testing.T) {
	p := activePrescription(1)
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(p, nil)
	prescriptions.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	updated, err := svc.Dispense(context.Background(), 1, 21, "pharm-7")
	assert.NoError(t, err)
	assert.Equal(t, models.PrescriptionDispensed, updated.Status)
	assert.Equal(t, 21, updated.DispensedQuantity)
	assert.Equal(t, "pharm-7", updated.DispensedBy)
	assert.NotEmpty(t, updated.DispensedDate)
}

func TestDispenseRejectsExpired(t *testing.T) {
	p := activePrescription(1)
	p.EndDate = time.Now().AddDate(0, 0, -3).Format(models.DateLayout)
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(p, nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	_, err := svc.Dispense(context.Background(), 1, 21, "pharm-7")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	prescriptions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDispenseRejectsTerminalAndBadQuantity(t *testing.T) {
	cancelled := activePrescription(1)
	cancelled.Status = models.PrescriptionCancelled
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(cancelled, nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	_, err := svc.Dispense(context.Background(), 1, 21, "pharm-7")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = svc.Dispense(context.Background(), 1, 0, "pharm-7")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestRefillIncrementsCounterUntilExhausted(t *testing.T) {
	p := activePrescription(1)
	p.Status = models.PrescriptionDispensed
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(p, nil)
	prescriptions.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	updated, err := svc.Refill(context.Background(), 1, 21, "pharm-7")
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.RefillsUsed)

	updated, err = svc.Refill(context.Background(), 1, 21, "pharm-7")
	assert.NoError(t, err)
	assert.Equal(t, 2, updated.RefillsUsed)

	_, err = svc.Refill(context.Background(), 1, 21, "pharm-7")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestRefillBypassesCachedRead(t *testing.T) {
	p := activePrescription(1)
	p.Status = models.PrescriptionDispensed
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(p, nil)
	prescriptions.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	_, err := svc.Refill(context.Background(), 1, 21, "pharm-7")
	assert.NoError(t, err)
	// The refill counter increments from the committed row, never a cached copy.
	prescriptions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCompleteOnlyFromDispensed(t *testing.T) {
	prescribed := activePrescription(1)
	dispensed := activePrescription(2)
	dispensed.Status = models.PrescriptionDispensed

	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(prescribed, nil)
	prescriptions.On("GetForUpdate", mock.Anything, uint(2)).Return(dispensed, nil)
	prescriptions.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	_, err := svc.Complete(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	updated, err := svc.Complete(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, models.PrescriptionCompleted, updated.Status)
}

func TestDiscontinueRecordsReason(t *testing.T) {
	p := activePrescription(1)
	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetForUpdate", mock.Anything, uint(1)).Return(p, nil)
	prescriptions.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	updated, err := svc.Discontinue(context.Background(), 1, "adverse reaction")
	assert.NoError(t, err)
	assert.Equal(t, models.PrescriptionDiscontinued, updated.Status)
	assert.Equal(t, "adverse reaction", updated.StopReason)
	assert.NotEmpty(t, updated.StopDate)

	// Terminal states reject every further transition.
	_, err = svc.CancelPrescription(context.Background(), 1, "duplicate")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestCanRefillQuery(t *testing.T) {
	eligible := activePrescription(1)
	eligible.Status = models.PrescriptionDispensed
	completed := activePrescription(2)
	completed.Status = models.PrescriptionCompleted

	prescriptions := new(mockPrescriptionStore)
	prescriptions.On("GetByID", mock.Anything, uint(1)).Return(eligible, nil)
	prescriptions.On("GetByID", mock.Anything, uint(2)).Return(completed, nil)
	prescriptions.On("GetByID", mock.Anything, uint(3)).Return(nil, nil)

	svc := NewPrescriptionService(prescriptions, newKeyedLocker())

	ok, err := svc.CanRefill(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanRefill(context.Background(), 2)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CanRefill(context.Background(), 3)
	assert.True(t, errors.Is(err, ErrNotFound))
}
