package models

import (
	"time"
)

const (
	// DateLayout is the storage layout for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the storage layout for times of day.
	ClockLayout = "15:04"
	// DefaultDurationMinutes is the slot length assumed when a booking does not specify one.
	DefaultDurationMinutes = 30
)

// AppointmentStatus enumerates the appointment lifecycle.
type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "SCHEDULED"
	AppointmentConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentInProgress  AppointmentStatus = "IN_PROGRESS"
	AppointmentCompleted   AppointmentStatus = "COMPLETED"
	AppointmentCancelled   AppointmentStatus = "CANCELLED"
	AppointmentNoShow      AppointmentStatus = "NO_SHOW"
	AppointmentRescheduled AppointmentStatus = "RESCHEDULED"
)

// IsTerminal reports whether no further transition is defined from the status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled || s == AppointmentNoShow
}

// Appointment model
type Appointment struct {
	ID                 uint              `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID          string            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ClinicianID        string            `gorm:"column:clinician_id;not null;index:idx_clinician_date" json:"clinician_id"`
	NurseID            string            `gorm:"column:nurse_id" json:"nurse_id,omitempty"`
	AppointmentDate    string            `gorm:"column:appointment_date;not null;index:idx_clinician_date" json:"appointment_date"`
	AppointmentTime    string            `gorm:"column:appointment_time;not null" json:"appointment_time"`
	DurationMinutes    int               `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Status             AppointmentStatus `gorm:"column:status;not null;index" json:"status"`
	Reason             string            `gorm:"column:reason;not null" json:"reason"`
	Notes              string            `gorm:"column:notes" json:"notes"`
	Symptoms           string            `gorm:"column:symptoms" json:"symptoms"`
	Diagnosis          string            `gorm:"column:diagnosis" json:"diagnosis"`
	Treatment          string            `gorm:"column:treatment" json:"treatment"`
	CancellationReason string            `gorm:"column:cancellation_reason" json:"cancellation_reason,omitempty"`
	CancellationDate   *time.Time        `gorm:"column:cancellation_date" json:"cancellation_date,omitempty"`
	ActualVisitTime    *time.Time        `gorm:"column:actual_visit_time" json:"actual_visit_time,omitempty"`
	IsEmergency        bool              `gorm:"column:is_emergency;not null" json:"is_emergency"`
	ConsultationFee    float64           `gorm:"column:consultation_fee" json:"consultation_fee"`
	PaidAmount         float64           `gorm:"column:paid_amount" json:"paid_amount"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient            Patient           `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Clinician          Clinician         `gorm:"foreignKey:ClinicianID;references:ID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// StartAt resolves the appointment's date and time to an instant.
func (a *Appointment) StartAt() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, a.AppointmentDate+" "+a.AppointmentTime, time.Local)
}

// Window returns the half-open slot [start, start+duration) the appointment occupies.
func (a *Appointment) Window() (time.Time, time.Time, error) {
	start, err := a.StartAt()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	minutes := a.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return start, start.Add(time.Duration(minutes) * time.Minute), nil
}

// WindowsOverlap reports whether two half-open intervals overlap.
// Touching boundaries do not conflict.
func WindowsOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// OccupiesSlot reports whether the appointment still holds its slot for
// conflict-checking purposes. A cancelled appointment frees its window.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != AppointmentCancelled
}

func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentCompleted
}

// IsUpcoming reports whether the appointment is still ahead of now and not yet underway.
func (a *Appointment) IsUpcoming() bool {
	start, err := a.StartAt()
	if err != nil {
		return false
	}
	return start.After(time.Now()) &&
		(a.Status == AppointmentScheduled || a.Status == AppointmentConfirmed)
}

// CanBeCancelled reports whether cancellation is still permitted: the slot must
// be in the future and the appointment not yet started.
func (a *Appointment) CanBeCancelled() bool {
	start, err := a.StartAt()
	if err != nil {
		return false
	}
	return start.After(time.Now()) &&
		(a.Status == AppointmentScheduled || a.Status == AppointmentConfirmed)
}
