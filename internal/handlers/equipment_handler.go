package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/pagination"
	"cineorca/internal/pricing"
	"cineorca/internal/services"
)

// EquipmentHandler handles equipment-related requests.
type EquipmentHandler struct {
	equipmentService services.EquipmentServicer
	auditService     services.AuditServicer
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(equipmentService services.EquipmentServicer, auditService services.AuditServicer) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService, auditService: auditService}
}

// EquipmentRequest represents the request payload for creating or updating equipment.
type EquipmentRequest struct {
	Name          string       `json:"name" binding:"required,notblank,max=100"`
	PurchaseValue pricing.Text `json:"purchase_value" swaggertype:"string" example:"25000"`
	RentalValue   pricing.Text `json:"rental_value" swaggertype:"string" example:"250,00"`
}

// CreateEquipment handles the creation of new equipment
// @Summary     Create equipment
// @Tags        equipment
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EquipmentRequest true "Equipment data"
// @Success     201 {object} models.Equipment
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /equipment [post]
func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	e, err := h.equipmentService.CreateEquipment(userID, req.Name, req.PurchaseValue.Decimal(), req.RentalValue.Decimal())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "equipment", e.ID, c.ClientIP(),
		map[string]interface{}{"name": e.Name})

	c.JSON(http.StatusCreated, e)
}

// GetEquipment lists the user's equipment
// @Summary     List equipment
// @Tags        equipment
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Equipment]
// @Router      /equipment [get]
func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.equipmentService.GetUserEquipment(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEquipmentByID returns one piece of equipment
// @Summary     Get equipment
// @Tags        equipment
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Equipment ID"
// @Success     200 {object} models.Equipment
// @Failure     404 {object} ErrorResponse "Equipment not found"
// @Router      /equipment/{id} [get]
func (h *EquipmentHandler) GetEquipmentByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	e, err := h.equipmentService.GetEquipmentByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateEquipment replaces an equipment's fields
// @Summary     Update equipment
// @Tags        equipment
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Equipment ID"
// @Param       request body EquipmentRequest true "Equipment data"
// @Success     200 {object} models.Equipment
// @Failure     404 {object} ErrorResponse "Equipment not found"
// @Router      /equipment/{id} [put]
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	e, err := h.equipmentService.UpdateEquipment(userID, id, req.Name, req.PurchaseValue.Decimal(), req.RentalValue.Decimal())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "equipment", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, e)
}

// DeleteEquipment removes a piece of equipment
// @Summary     Delete equipment
// @Tags        equipment
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Equipment ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Equipment not found"
// @Router      /equipment/{id} [delete]
func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.equipmentService.DeleteEquipment(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "equipment", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Equipment deleted"})
}
