package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/domain/category"
	"github.com/familia-ledger/internal/domain/shared"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(logger *slog.Logger, categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// Create handles creation of a new category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name, shared.EntryKind(req.Kind))
	if err != nil {
		if errors.Is(err, category.ErrEmptyName) || errors.Is(err, category.ErrInvalidKind) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create category", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapCategoryToResponse(cat))
}

// List returns all categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		responses[i] = mapCategoryToResponse(cat)
	}
	RespondOK(c, responses)
}

// Update renames a category
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.As(err, &category.ErrCategoryNotFound{}) {
			RespondNotFound(c, "Category not found")
			return
		}
		if errors.Is(err, category.ErrEmptyName) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to update category", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCategoryToResponse(cat))
}

// Delete removes a category no entries reference, refusing with 409 while
// entries still point at it
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.As(err, &category.ErrCategoryInUse{}) {
			RespondConflict(c, "Category still referenced by ledger entries")
			return
		}
		if errors.As(err, &category.ErrCategoryNotFound{}) {
			RespondNotFound(c, "Category not found")
			return
		}
		h.logger.Error("Failed to delete category", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// mapCategoryToResponse maps a category entity to its response DTO
func mapCategoryToResponse(cat *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID.String(),
		Name:      cat.Name,
		Kind:      string(cat.Kind),
		CreatedAt: cat.CreatedAt.Format(time.RFC3339),
	}
}
