package note

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm/internal/pkg/request"
	"crm/internal/pkg/response"
)

// Handler handles note HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListNotes handles GET /api/leads/:id/notes
// @Summary List notes of a lead
// @Description Newest first. An unknown lead yields an empty list.
// @Tags Notes
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {array} Note
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leads/{id}/notes [get]
func (h *Handler) ListNotes(c *gin.Context) {
	leadID, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	notes, err := h.service.ListByLead(c.Request.Context(), leadID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error fetching notes")
		return
	}

	response.Success(c, http.StatusOK, notes)
}

// CreateNote handles POST /api/leads/:id/notes
// @Summary Add note to a lead
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body CreateNoteRequest true "Note"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /leads/{id}/notes [post]
func (h *Handler) CreateNote(c *gin.Context) {
	leadID, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	var req CreateNoteRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	id, err := h.service.Create(c.Request.Context(), leadID, &req)
	if err != nil {
		// Unknown lead included: the contract reports it as a server error.
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error creating note")
		return
	}

	response.Created(c, id)
}

// DeleteNote handles DELETE /api/notes/:id
// @Summary Delete note
// @Description Succeeds even when no note matched
// @Tags Notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /notes/{id} [delete]
func (h *Handler) DeleteNote(c *gin.Context) {
	id, err := request.ParamID(c, "id")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid note ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error deleting note")
		return
	}

	response.Message(c, http.StatusOK, "Note deleted successfully")
}
