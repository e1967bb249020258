package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanRefill(t *testing.T) {
	future := time.Now().AddDate(0, 0, 7).Format(DateLayout)
	longPast := time.Now().AddDate(0, 0, -3).Format(DateLayout)

	exhausted := &Prescription{RefillsAllowed: 3, RefillsUsed: 3, EndDate: future}
	assert.False(t, exhausted.CanRefill())

	eligible := &Prescription{RefillsAllowed: 3, RefillsUsed: 2, EndDate: future}
	assert.True(t, eligible.CanRefill())

	expired := &Prescription{RefillsAllowed: 3, RefillsUsed: 0, EndDate: longPast}
	assert.False(t, expired.CanRefill())

	openEnded := &Prescription{RefillsAllowed: 1, RefillsUsed: 0}
	assert.True(t, openEnded.CanRefill())
}

func TestIsExpiredGracePeriod(t *testing.T) {
	// Expiry kicks in a full day after the end date, so a prescription ending
	// today is still usable.
	today := time.Now().Format(DateLayout)
	assert.False(t, (&Prescription{EndDate: today}).IsExpired())

	threeDaysAgo := time.Now().AddDate(0, 0, -3).Format(DateLayout)
	assert.True(t, (&Prescription{EndDate: threeDaysAgo}).IsExpired())

	assert.False(t, (&Prescription{}).IsExpired())
}

func TestIsFullCourseCompleted(t *testing.T) {
	assert.True(t, (&Prescription{PrescribedQuantity: 30, DispensedQuantity: 30}).IsFullCourseCompleted())
	assert.True(t, (&Prescription{PrescribedQuantity: 30, DispensedQuantity: 40}).IsFullCourseCompleted())
	assert.False(t, (&Prescription{PrescribedQuantity: 30, DispensedQuantity: 10}).IsFullCourseCompleted())
}

func TestRemainingRefills(t *testing.T) {
	p := &Prescription{RefillsAllowed: 3, RefillsUsed: 1}
	assert.Equal(t, 2, p.RemainingRefills())
}

func TestProgressPercentage(t *testing.T) {
	p := &Prescription{PrescribedQuantity: 40, DispensedQuantity: 10}
	assert.Equal(t, 25.0, p.ProgressPercentage())

	zero := &Prescription{}
	assert.Equal(t, 0.0, zero.ProgressPercentage())
}

func TestPrescriptionStatusIsTerminal(t *testing.T) {
	assert.True(t, PrescriptionCompleted.IsTerminal())
	assert.True(t, PrescriptionExpired.IsTerminal())
	assert.True(t, PrescriptionDiscontinued.IsTerminal())
	assert.True(t, PrescriptionCancelled.IsTerminal())
	assert.False(t, PrescriptionPrescribed.IsTerminal())
	assert.False(t, PrescriptionDispensed.IsTerminal())
}
