package models

import (
	"time"
)

// Clinician model. A doctor or nurse acting as the medical professional on an
// appointment or prescription.
type Clinician struct {
	ID            string         `gorm:"primaryKey;column:id" json:"id"`
	FirstName     string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName      string         `gorm:"column:last_name;not null;index" json:"last_name"`
	Specialty     string         `gorm:"column:specialty" json:"specialty"`
	LicenseNumber string         `gorm:"column:license_number" json:"license_number"`
	Phone         string         `gorm:"column:phone" json:"phone"`
	Email         string         `gorm:"column:email" json:"email"`
	IsActive      bool           `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments  []Appointment  `gorm:"foreignKey:ClinicianID;references:ID" json:"-"`
	Prescriptions []Prescription `gorm:"foreignKey:ClinicianID;references:ID" json:"-"`
}

func (Clinician) TableName() string {
	return "clinician"
}

// Patient model
type Patient struct {
	ID               string         `gorm:"primaryKey;column:id" json:"id"`
	FirstName        string         `gorm:"column:first_name;not null" json:"first_name"`
	MiddleName       string         `gorm:"column:middle_name" json:"middle_name"`
	LastName         string         `gorm:"column:last_name;not null;index" json:"last_name"`
	Sex              string         `gorm:"column:sex;check:sex IN ('Male', 'Female', 'Other');not null" json:"sex"`
	DateOfBirth      string         `gorm:"column:date_of_birth;not null;index" json:"date_of_birth"`
	BloodGroup       string         `gorm:"column:blood_group" json:"blood_group"`
	Allergies        string         `gorm:"column:allergies" json:"allergies"`
	Insured          bool           `gorm:"column:insured;not null" json:"insured"`
	InsuranceCompany string         `gorm:"column:insurance_company" json:"insurance_company"`
	InsurancePolicy  string         `gorm:"column:insurance_policy" json:"insurance_policy"`
	CoverLimit       float64        `gorm:"column:cover_limit" json:"cover_limit"`
	Phone            string         `gorm:"column:phone" json:"phone"`
	Email            string         `gorm:"column:email" json:"email"`
	Address          string         `gorm:"column:address" json:"address"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments     []Appointment  `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Bills            []Bill         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Prescriptions    []Prescription `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}
