package handlers

import (
	"CarePoint/models"
	"CarePoint/services"
	"CarePoint/utils"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.SchedulerService
}

func NewAppointmentHandler(service *services.SchedulerService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateBooking(req.PatientID, req.ClinicianID, req.Date, req.Time, req.Reason); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	appointment, err := h.service.Book(c, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, appointment)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	appointment, err := h.service.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

func (h *AppointmentHandler) StartAppointment(c *gin.Context) {
	h.transition(c, h.service.Start)
}

func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.service.MarkNoShow)
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	appointment, err := h.service.Cancel(c, id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var body struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	appointment, err := h.service.Reschedule(c, id, body.Date, body.Time)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

func (h *AppointmentHandler) RecordVisitNotes(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var body struct {
		Symptoms  string `json:"symptoms"`
		Diagnosis string `json:"diagnosis"`
		Treatment string `json:"treatment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	appointment, err := h.service.RecordVisitNotes(c, id, body.Symptoms, body.Diagnosis, body.Treatment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	clinicianID := c.Query("clinician_id")
	date := c.Query("date")
	timeOfDay := c.Query("time")
	if clinicianID == "" || date == "" || timeOfDay == "" {
		c.JSON(400, gin.H{"error": "clinician_id, date and time are required"})
		return
	}
	available, err := h.service.IsAvailable(c, clinicianID, date, timeOfDay)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"available": available})
}

func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	patientID := c.Param("patient_id")
	page, size := pagination(c)
	appointments, err := h.service.GetForPatient(c, patientID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) GetRecentPatientAppointments(c *gin.Context) {
	patientID := c.Param("patient_id")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}
	appointments, err := h.service.GetRecentForPatient(c, patientID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) GetClinicianSchedule(c *gin.Context) {
	clinicianID := c.Param("clinician_id")
	appointments, err := h.service.GetTodayForClinician(c, clinicianID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) GetUpcomingAppointments(c *gin.Context) {
	appointments, err := h.service.GetUpcoming(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) GetEmergencyAppointments(c *gin.Context) {
	appointments, err := h.service.GetEmergency(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

func (h *AppointmentHandler) transition(c *gin.Context, op func(ctx context.Context, id uint) (*models.Appointment, error)) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	appointment, err := op(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("appointment_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
