package models

import (
	"time"
)

// PrescriptionStatus enumerates the prescription lifecycle.
type PrescriptionStatus string

const (
	PrescriptionPrescribed   PrescriptionStatus = "PRESCRIBED"
	PrescriptionDispensed    PrescriptionStatus = "DISPENSED"
	PrescriptionCompleted    PrescriptionStatus = "COMPLETED"
	PrescriptionDiscontinued PrescriptionStatus = "DISCONTINUED"
	PrescriptionExpired      PrescriptionStatus = "EXPIRED"
	PrescriptionCancelled    PrescriptionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is defined from the status.
func (s PrescriptionStatus) IsTerminal() bool {
	switch s {
	case PrescriptionCompleted, PrescriptionExpired, PrescriptionDiscontinued, PrescriptionCancelled:
		return true
	}
	return false
}

// Prescription model. One medication order tied to a patient and the
// prescribing clinician, optionally to the appointment it came out of.
type Prescription struct {
	ID                       uint               `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID                string             `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ClinicianID              string             `gorm:"column:clinician_id;not null;index" json:"clinician_id"`
	AppointmentID            *uint              `gorm:"column:appointment_id;index" json:"appointment_id,omitempty"`
	PrescriptionDate         string             `gorm:"column:prescription_date;not null;index" json:"prescription_date"`
	MedicationName           string             `gorm:"column:medication_name;not null" json:"medication_name"`
	GenericName              string             `gorm:"column:generic_name" json:"generic_name,omitempty"`
	Dosage                   string             `gorm:"column:dosage;not null" json:"dosage"`
	Frequency                string             `gorm:"column:frequency;not null" json:"frequency"`
	DurationDays             int                `gorm:"column:duration_days;not null" json:"duration_days"`
	Instructions             string             `gorm:"column:instructions" json:"instructions"`
	PrescribedQuantity       int                `gorm:"column:prescribed_quantity;not null" json:"prescribed_quantity"`
	DispensedQuantity        int                `gorm:"column:dispensed_quantity;not null" json:"dispensed_quantity"`
	DispensedDate            string             `gorm:"column:dispensed_date" json:"dispensed_date,omitempty"`
	DispensedBy              string             `gorm:"column:dispensed_by" json:"dispensed_by,omitempty"`
	RefillsAllowed           int                `gorm:"column:refills_allowed;not null" json:"refills_allowed"`
	RefillsUsed              int                `gorm:"column:refills_used;not null" json:"refills_used"`
	Status                   PrescriptionStatus `gorm:"column:status;not null;index" json:"status"`
	StartDate                string             `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate                  string             `gorm:"column:end_date" json:"end_date,omitempty"`
	StopReason               string             `gorm:"column:stop_reason" json:"stop_reason,omitempty"`
	StopDate                 string             `gorm:"column:stop_date" json:"stop_date,omitempty"`
	IsEmergency              bool               `gorm:"column:is_emergency;not null" json:"is_emergency"`
	IsControlledSubstance    bool               `gorm:"column:is_controlled_substance;not null" json:"is_controlled_substance"`
	ControlledSubstanceClass string             `gorm:"column:controlled_substance_class" json:"controlled_substance_class,omitempty"`
	CreatedAt                time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient                  Patient            `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Clinician                Clinician          `gorm:"foreignKey:ClinicianID;references:ID" json:"-"`
}

func (Prescription) TableName() string {
	return "prescription"
}

func (p *Prescription) IsActive() bool {
	return p.Status == PrescriptionPrescribed || p.Status == PrescriptionDispensed
}

// IsExpired reports whether the order has run past its end date. A missing end
// date never expires.
func (p *Prescription) IsExpired() bool {
	if p.EndDate == "" {
		return false
	}
	end, err := time.ParseInLocation(DateLayout, p.EndDate, time.Local)
	if err != nil {
		return false
	}
	return time.Now().After(end.Add(24 * time.Hour))
}

// CanRefill reports refill eligibility: refills remain and the order has not expired.
func (p *Prescription) CanRefill() bool {
	return p.RefillsUsed < p.RefillsAllowed && !p.IsExpired()
}

// IsFullCourseCompleted is a derived read-only check; dispensing does not
// enforce the quantity relationship at write time.
func (p *Prescription) IsFullCourseCompleted() bool {
	return p.DispensedQuantity >= p.PrescribedQuantity
}

func (p *Prescription) RemainingRefills() int {
	return p.RefillsAllowed - p.RefillsUsed
}

// ProgressPercentage returns the dispensed share of the prescribed quantity.
func (p *Prescription) ProgressPercentage() float64 {
	if p.PrescribedQuantity == 0 {
		return 0
	}
	return float64(p.DispensedQuantity) / float64(p.PrescribedQuantity) * 100
}
