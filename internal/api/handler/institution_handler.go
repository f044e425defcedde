package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/domain/account"
)

// InstitutionHandler handles HTTP requests for institution operations
type InstitutionHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(logger *slog.Logger, accountService service.AccountService) *InstitutionHandler {
	return &InstitutionHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles creation of a new institution
func (h *InstitutionHandler) Create(c *gin.Context) {
	var req InstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inst, err := h.accountService.CreateInstitution(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, account.ErrEmptyName) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create institution", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapInstitutionToResponse(inst))
}

// List returns institutions ordered by name
func (h *InstitutionHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	institutions, err := h.accountService.ListInstitutions(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list institutions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]InstitutionResponse, len(institutions))
	for i, inst := range institutions {
		responses[i] = mapInstitutionToResponse(inst)
	}
	RespondOK(c, responses)
}

// Update renames an institution
func (h *InstitutionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid institution ID")
		return
	}

	var req InstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inst, err := h.accountService.UpdateInstitution(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.As(err, &account.ErrInstitutionNotFound{}) {
			RespondNotFound(c, "Institution not found")
			return
		}
		if errors.Is(err, account.ErrEmptyName) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to update institution", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapInstitutionToResponse(inst))
}

// Delete removes an institution with no dependent instruments; a referenced
// one is deactivated instead, so this never fails on dependents
func (h *InstitutionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid institution ID")
		return
	}

	if err := h.accountService.DeleteInstitution(c.Request.Context(), id); err != nil {
		if errors.As(err, &account.ErrInstitutionNotFound{}) {
			RespondNotFound(c, "Institution not found")
			return
		}
		h.logger.Error("Failed to delete institution", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// mapInstitutionToResponse maps an institution entity to its response DTO
func mapInstitutionToResponse(inst *account.Institution) InstitutionResponse {
	return InstitutionResponse{
		ID:        inst.ID.String(),
		Name:      inst.Name,
		Active:    inst.Active,
		CreatedAt: inst.CreatedAt.Format(time.RFC3339),
		UpdatedAt: inst.UpdatedAt.Format(time.RFC3339),
	}
}
