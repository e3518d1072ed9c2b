package lead

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crm/internal/pkg/request"
	"crm/internal/pkg/response"
)

const (
	msgInvalidID     = "Invalid lead ID"
	msgInvalidJSON   = "Invalid JSON body"
	msgNotFound      = "Lead not found"
	msgFetchLeads    = "Error fetching leads"
	msgFetchLead     = "Error fetching lead"
	msgCreateLead    = "Error creating lead"
	msgUpdateLead    = "Error updating lead"
	msgLeadUpdatedOK = "Lead updated successfully"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates lead handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListLeads handles GET /api/leads
// @Summary List leads
// @Description All leads, newest first
// @Tags Leads
// @Produce json
// @Success 200 {array} Lead
// @Failure 500 {object} ErrorResponse
// @Router /leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	leads, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, msgFetchLeads)
		return
	}

	response.Success(c, http.StatusOK, leads)
}

// GetLead handles GET /api/leads/:id
// @Summary Get lead by ID
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} Lead
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, msgNotFound)
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, msgFetchLead)
		return
	}

	response.Success(c, http.StatusOK, lead)
}

// CreateLead handles POST /api/leads
// @Summary Create lead
// @Description Status defaults to cold when omitted
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leads [post]
func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	id, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, msgCreateLead)
		return
	}

	response.Created(c, id)
}

// UpdateStatus handles PATCH /api/leads/:id
// @Summary Update lead status
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body UpdateStatusRequest true "Status update"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leads/{id} [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req UpdateStatusRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, &req); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, msgUpdateLead)
		return
	}

	response.Message(c, http.StatusOK, msgLeadUpdatedOK)
}

// EditLead handles PATCH /api/lead/edit/:id
// @Summary Edit lead details
// @Description Replaces name, address, phone and occupation
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body EditLeadRequest true "Lead details"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lead/edit/{id} [patch]
func (h *Handler) EditLead(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req EditLeadRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if err := h.service.Edit(c.Request.Context(), id, &req); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, msgUpdateLead)
		return
	}

	response.Message(c, http.StatusOK, msgLeadUpdatedOK)
}
