package controllers

import (
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/models"

	"github.com/gin-gonic/gin"
)

// ClinicalController registers the appointment, billing, prescription and
// registry routes with role gating. Services behind these routes trust the
// caller; authorization happens here.
type ClinicalController struct {
	Appointments  *handlers.AppointmentHandler
	Bills         *handlers.BillingHandler
	Prescriptions *handlers.PrescriptionHandler
	Patients      *handlers.PatientHandler
	Clinicians    *handlers.ClinicianHandler
}

func NewClinicalController(
	appointments *handlers.AppointmentHandler,
	bills *handlers.BillingHandler,
	prescriptions *handlers.PrescriptionHandler,
	patients *handlers.PatientHandler,
	clinicians *handlers.ClinicianHandler,
) *ClinicalController {
	return &ClinicalController{
		Appointments:  appointments,
		Bills:         bills,
		Prescriptions: prescriptions,
		Patients:      patients,
		Clinicians:    clinicians,
	}
}

func (cc *ClinicalController) RegisterRoutes(router *gin.Engine) {
	staff := middlewares.RequireRoles(models.RoleAdmin, models.RoleClinician, models.RoleNurse)
	clinical := middlewares.RequireRoles(models.RoleAdmin, models.RoleClinician)
	anyRole := middlewares.RequireRoles(models.RoleAdmin, models.RoleClinician, models.RoleNurse, models.RolePatient)
	adminOnly := middlewares.RequireRoles(models.RoleAdmin)

	api := router.Group("/api/v1").Use(middlewares.TokenAuthMiddleware())

	// Appointments
	api.POST("/appointments", anyRole, cc.Appointments.BookAppointment)
	api.GET("/appointments/availability", anyRole, cc.Appointments.CheckAvailability)
	api.GET("/appointments/upcoming", staff, cc.Appointments.GetUpcomingAppointments)
	api.GET("/appointments/emergency", staff, cc.Appointments.GetEmergencyAppointments)
	api.GET("/appointments/:appointment_id", anyRole, cc.Appointments.GetAppointmentByID)
	api.POST("/appointments/:appointment_id/confirm", staff, cc.Appointments.ConfirmAppointment)
	api.POST("/appointments/:appointment_id/start", staff, cc.Appointments.StartAppointment)
	api.POST("/appointments/:appointment_id/complete", clinical, cc.Appointments.CompleteAppointment)
	api.POST("/appointments/:appointment_id/cancel", anyRole, cc.Appointments.CancelAppointment)
	api.POST("/appointments/:appointment_id/no-show", staff, cc.Appointments.MarkNoShow)
	api.POST("/appointments/:appointment_id/reschedule", anyRole, cc.Appointments.RescheduleAppointment)
	api.PUT("/appointments/:appointment_id/visit-notes", clinical, cc.Appointments.RecordVisitNotes)
	api.GET("/patients/:patient_id/appointments", anyRole, cc.Appointments.GetPatientAppointments)
	api.GET("/patients/:patient_id/appointments/recent", anyRole, cc.Appointments.GetRecentPatientAppointments)
	api.GET("/clinicians/:clinician_id/schedule", staff, cc.Appointments.GetClinicianSchedule)

	// Billing
	api.POST("/bills", staff, cc.Bills.CreateBill)
	api.GET("/bills/overdue", staff, cc.Bills.GetOverdueBills)
	api.GET("/bills/revenue", adminOnly, cc.Bills.GetRevenueSummary)
	api.GET("/bills/:bill_id", anyRole, cc.Bills.GetBillByID)
	api.POST("/bills/:bill_id/payments", staff, cc.Bills.AddPayment)
	api.POST("/bills/:bill_id/discount", adminOnly, cc.Bills.ApplyDiscount)
	api.POST("/bills/:bill_id/waiver", adminOnly, cc.Bills.ApplyWaiver)
	api.POST("/bills/:bill_id/approve", staff, cc.Bills.ApproveBill)
	api.POST("/bills/:bill_id/cancel", adminOnly, cc.Bills.CancelBill)
	api.POST("/bills/:bill_id/refund", adminOnly, cc.Bills.RefundBill)
	api.GET("/patients/:patient_id/bills", anyRole, cc.Bills.GetPatientBills)
	api.GET("/patients/:patient_id/bills/outstanding", anyRole, cc.Bills.GetOutstandingAmount)

	// Prescriptions
	api.POST("/prescriptions", clinical, cc.Prescriptions.CreatePrescription)
	api.GET("/prescriptions/emergency", staff, cc.Prescriptions.GetEmergencyPrescriptions)
	api.GET("/prescriptions/:prescription_id", anyRole, cc.Prescriptions.GetPrescriptionByID)
	api.POST("/prescriptions/:prescription_id/dispense", staff, cc.Prescriptions.DispensePrescription)
	api.POST("/prescriptions/:prescription_id/refill", staff, cc.Prescriptions.RefillPrescription)
	api.POST("/prescriptions/:prescription_id/complete", clinical, cc.Prescriptions.CompletePrescription)
	api.POST("/prescriptions/:prescription_id/discontinue", clinical, cc.Prescriptions.DiscontinuePrescription)
	api.POST("/prescriptions/:prescription_id/cancel", clinical, cc.Prescriptions.CancelPrescription)
	api.GET("/prescriptions/:prescription_id/can-refill", anyRole, cc.Prescriptions.CheckRefillEligibility)
	api.GET("/patients/:patient_id/prescriptions", anyRole, cc.Prescriptions.GetPatientPrescriptions)
	api.GET("/patients/:patient_id/prescriptions/refillable", anyRole, cc.Prescriptions.GetRefillablePrescriptions)

	// Patient registry
	api.POST("/patients", staff, cc.Patients.CreatePatient)
	api.GET("/patients", staff, cc.Patients.GetAllPatients)
	api.GET("/patients/:patient_id", anyRole, cc.Patients.GetPatientByID)
	api.PUT("/patients/:patient_id", staff, cc.Patients.UpdatePatient)
	api.DELETE("/patients/:patient_id", adminOnly, cc.Patients.DeletePatient)

	// Clinician registry
	api.POST("/clinicians", adminOnly, cc.Clinicians.CreateClinician)
	api.GET("/clinicians", staff, cc.Clinicians.GetAllClinicians)
	api.GET("/clinicians/:clinician_id", anyRole, cc.Clinicians.GetClinicianByID)
	api.PUT("/clinicians/:clinician_id", adminOnly, cc.Clinicians.UpdateClinician)
	api.DELETE("/clinicians/:clinician_id", adminOnly, cc.Clinicians.DeleteClinician)
}
