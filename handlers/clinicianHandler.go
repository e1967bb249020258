package handlers

import (
	"CarePoint/models"
	"CarePoint/repositories"

	"github.com/gin-gonic/gin"
)

type ClinicianHandler struct {
	repo *repositories.ClinicianRepository
}

func NewClinicianHandler(repo *repositories.ClinicianRepository) *ClinicianHandler {
	return &ClinicianHandler{repo: repo}
}

func (h *ClinicianHandler) CreateClinician(c *gin.Context) {
	var clinician models.Clinician
	if err := c.ShouldBindJSON(&clinician); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if clinician.ID == "" || clinician.LicenseNumber == "" {
		c.JSON(400, gin.H{"error": "clinician id and license number are required"})
		return
	}
	if err := h.repo.Create(c, &clinician); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, clinician)
}

func (h *ClinicianHandler) GetClinicianByID(c *gin.Context) {
	clinician, err := h.repo.GetByID(c, c.Param("clinician_id"))
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if clinician == nil {
		c.JSON(404, gin.H{"error": "Clinician not found"})
		return
	}
	c.JSON(200, clinician)
}

func (h *ClinicianHandler) GetAllClinicians(c *gin.Context) {
	clinicians, err := h.repo.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, clinicians)
}

func (h *ClinicianHandler) UpdateClinician(c *gin.Context) {
	var clinician models.Clinician
	if err := c.ShouldBindJSON(&clinician); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	clinician.ID = c.Param("clinician_id")
	if err := h.repo.Update(c, &clinician); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, clinician)
}

func (h *ClinicianHandler) DeleteClinician(c *gin.Context) {
	if err := h.repo.Delete(c, c.Param("clinician_id")); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Clinician deleted"})
}
