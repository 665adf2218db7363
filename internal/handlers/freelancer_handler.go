package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/pagination"
	"cineorca/internal/pricing"
	"cineorca/internal/services"
)

// FreelancerHandler handles freelancer-related requests.
type FreelancerHandler struct {
	freelancerService services.FreelancerServicer
	auditService      services.AuditServicer
}

// NewFreelancerHandler creates a new FreelancerHandler.
func NewFreelancerHandler(freelancerService services.FreelancerServicer, auditService services.AuditServicer) *FreelancerHandler {
	return &FreelancerHandler{freelancerService: freelancerService, auditService: auditService}
}

// FreelancerRequest represents the request payload for creating or updating a freelancer.
type FreelancerRequest struct {
	Name      string       `json:"name" binding:"required,notblank,max=100"`
	Role      string       `json:"role" binding:"max=100"`
	DailyRate pricing.Text `json:"daily_rate" swaggertype:"string" example:"450,00"`
}

// CreateFreelancer handles the creation of a new freelancer
// @Summary     Create a freelancer
// @Tags        freelancers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FreelancerRequest true "Freelancer data"
// @Success     201 {object} models.Freelancer
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /freelancers [post]
func (h *FreelancerHandler) CreateFreelancer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FreelancerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	f, err := h.freelancerService.CreateFreelancer(userID, req.Name, req.Role, req.DailyRate.Decimal())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "freelancer", f.ID, c.ClientIP(),
		map[string]interface{}{"name": f.Name})

	c.JSON(http.StatusCreated, f)
}

// GetFreelancers lists the user's freelancers
// @Summary     List freelancers
// @Tags        freelancers
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Freelancer]
// @Router      /freelancers [get]
func (h *FreelancerHandler) GetFreelancers(c *gin.Context) {
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

	result, err := h.freelancerService.GetUserFreelancers(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFreelancerByID returns one freelancer
// @Summary     Get a freelancer
// @Tags        freelancers
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Freelancer ID"
// @Success     200 {object} models.Freelancer
// @Failure     404 {object} ErrorResponse "Freelancer not found"
// @Router      /freelancers/{id} [get]
func (h *FreelancerHandler) GetFreelancerByID(c *gin.Context) {
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

	f, err := h.freelancerService.GetFreelancerByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// UpdateFreelancer replaces a freelancer's fields
// @Summary     Update a freelancer
// @Tags        freelancers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Freelancer ID"
// @Param       request body FreelancerRequest true "Freelancer data"
// @Success     200 {object} models.Freelancer
// @Failure     404 {object} ErrorResponse "Freelancer not found"
// @Router      /freelancers/{id} [put]
func (h *FreelancerHandler) UpdateFreelancer(c *gin.Context) {
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

	var req FreelancerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	f, err := h.freelancerService.UpdateFreelancer(userID, id, req.Name, req.Role, req.DailyRate.Decimal())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "freelancer", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, f)
}

// DeleteFreelancer removes a freelancer
// @Summary     Delete a freelancer
// @Tags        freelancers
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Freelancer ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Freelancer not found"
// @Router      /freelancers/{id} [delete]
func (h *FreelancerHandler) DeleteFreelancer(c *gin.Context) {
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

	if err := h.freelancerService.DeleteFreelancer(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "freelancer", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Freelancer deleted"})
}
