package handlers

import (
	"CarePoint/models"
	"CarePoint/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	service *services.BillingService
}

func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

func (h *BillingHandler) CreateBill(c *gin.Context) {
	var bill models.Bill
	if err := c.ShouldBindJSON(&bill); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateBill(c, &bill); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, bill)
}

func (h *BillingHandler) GetBillByID(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	bill, err := h.service.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) AddPayment(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	var body struct {
		Amount    float64              `json:"amount"`
		Method    models.PaymentMethod `json:"method"`
		Reference string               `json:"reference"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	bill, err := h.service.AddPayment(c, id, body.Amount, body.Method, body.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) ApplyDiscount(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	var body struct {
		Percentage float64 `json:"percentage"`
		Amount     float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	bill, err := h.service.ApplyDiscount(c, id, body.Percentage, body.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) ApplyWaiver(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	var body struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	bill, err := h.service.ApplyWaiver(c, id, body.Amount, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) ApproveBill(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	bill, err := h.service.Approve(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) CancelBill(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	bill, err := h.service.CancelBill(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) RefundBill(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	bill, err := h.service.Refund(c, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bill)
}

func (h *BillingHandler) GetPatientBills(c *gin.Context) {
	patientID := c.Param("patient_id")
	page, size := pagination(c)
	bills, err := h.service.GetForPatient(c, patientID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bills)
}

func (h *BillingHandler) GetOutstandingAmount(c *gin.Context) {
	patientID := c.Param("patient_id")
	amount, err := h.service.GetOutstandingAmount(c, patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"patient_id": patientID, "outstanding_amount": amount})
}

func (h *BillingHandler) GetOverdueBills(c *gin.Context) {
	bills, err := h.service.GetOverdueBills(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, bills)
}

func (h *BillingHandler) GetRevenueSummary(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(400, gin.H{"error": "start and end are required"})
		return
	}
	billed, err := h.service.GetTotalBilledInPeriod(c, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	collected, err := h.service.GetTotalCollectedInPeriod(c, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"start": start, "end": end, "total_billed": billed, "total_collected": collected})
}

func billID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("bill_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
