package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/pagination"
	"cineorca/internal/services"
)

// ClientHandler handles client-related requests.
type ClientHandler struct {
	clientService services.ClientServicer
	auditService  services.AuditServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer, auditService services.AuditServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService, auditService: auditService}
}

// ClientRequest represents the request payload for creating or updating a client.
type ClientRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=100"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Active  *bool  `json:"active"`
}

// QuickSaveResponse is the outcome of a quick save from the budget form.
type QuickSaveResponse struct {
	Success    bool           `json:"success"`
	IsExisting bool           `json:"is_existing"`
	Client     *models.Client `json:"client"`
}

func (r ClientRequest) input() services.ClientInput {
	return services.ClientInput{
		Name:    r.Name,
		TaxID:   r.TaxID,
		Phone:   r.Phone,
		Address: r.Address,
		Active:  r.Active,
	}
}

// CreateClient handles the creation of a new client
// @Summary     Create a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClientRequest true "Client data"
// @Success     201 {object} models.Client
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "client", client.ID, c.ClientIP(),
		map[string]interface{}{"name": client.Name})

	c.JSON(http.StatusCreated, client)
}

// QuickSaveClient creates a client unless one with the same name exists
// @Summary     Quick-save a client
// @Description Used by the budget form. Returns the existing client when the name is already taken.
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClientRequest true "Client data"
// @Success     200 {object} QuickSaveResponse "Existing client"
// @Success     201 {object} QuickSaveResponse "Created client"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /clients/quick [post]
func (h *ClientHandler) QuickSaveClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, existing, err := h.clientService.QuickSave(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusOK
	if !existing {
		status = http.StatusCreated
		h.auditService.Log(userID, services.AuditCreate, "client", client.ID, c.ClientIP(),
			map[string]interface{}{"name": client.Name, "quick": true})
	}
	c.JSON(status, QuickSaveResponse{Success: true, IsExisting: existing, Client: client})
}

// GetClients lists the user's clients
// @Summary     List clients
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       active    query bool false "Filter by active flag"
// @Param       page      query int  false "Page number"
// @Param       page_size query int  false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Client]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /clients [get]
func (h *ClientHandler) GetClients(c *gin.Context) {
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

	var active *bool
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "active must be a boolean"))
			return
		}
		active = &v
	}

	result, err := h.clientService.GetUserClients(userID, active, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetClientByID returns one client
// @Summary     Get a client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} models.Client
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [get]
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.GetClientByID(userID, clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient replaces a client's fields
// @Summary     Update a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Client ID"
// @Param       request body ClientRequest true "Client data"
// @Success     200 {object} models.Client
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(userID, clientID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "client", clientID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client
// @Summary     Delete a client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.clientService.DeleteClient(userID, clientID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "client", clientID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Client deleted"})
}
