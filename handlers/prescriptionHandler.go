package handlers

import (
	"CarePoint/models"
	"CarePoint/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var prescription models.Prescription
	if err := c.ShouldBindJSON(&prescription); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreatePrescription(c, &prescription); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, prescription)
}

func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	id, ok := prescriptionID(c)
	if !ok {
		return
	}
	prescription, err := h.service.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}

func (h *PrescriptionHandler) DispensePrescription(c *gin.Context) {
	id, ok := prescriptionID(c)
	if !ok {
		return
	}
	var body struct {
		Quantity    int    `json:"quantity"`
		DispensedBy string `json:"dispensed_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	prescription, err := h.service.Dispense(c, id, body.Quantity, body.DispensedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}

func (h *PrescriptionHandler) RefillPrescription(c *gin.Context) {
	id, ok := prescriptionID(c)
	if !ok {
		return
	}
	var body struct {
		Quantity    int    `json:"quantity"`
		DispensedBy string `json:"dispensed_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	prescription, err := h.service.Refill(c, id, body.Quantity, body.DispensedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}

func (h *PrescriptionHandler) CompletePrescription(c *gin.Context) {
	id, ok := prescriptionID(c)
	if !ok {
		return
	}
	prescription, err := h.service.Complete(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}

func (h *PrescriptionHandler) DiscontinuePrescription(c *gin.Context) {
	id, ok := prescriptionID(c)
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
	prescription, err := h.service.Discontinue(c, id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}

func (h *PrescriptionHandler) CancelPrescription(c *gin.Context) {
	id, ok := prescriptionID(c)
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
	prescription, err := h.service.CancelPrescription(c, id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}

func (h *PrescriptionHandler) CheckRefillEligibility(c *gin.Context) {
	id, ok := prescriptionID(c)
	if !ok {
		return
	}
	eligible, err := h.service.CanRefill(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"can_refill": eligible})
}

func (h *PrescriptionHandler) GetRefillablePrescriptions(c *gin.Context) {
	patientID := c.Param("patient_id")
	prescriptions, err := h.service.GetRefillable(c, patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescriptions)
}

func (h *PrescriptionHandler) GetPatientPrescriptions(c *gin.Context) {
	patientID := c.Param("patient_id")
	page, size := pagination(c)
	prescriptions, err := h.service.GetForPatient(c, patientID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescriptions)
}

func (h *PrescriptionHandler) GetEmergencyPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.GetEmergency(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescriptions)
}

func prescriptionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("prescription_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
