package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/category"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// CategoryServiceImpl implements the CategoryService interface
type CategoryServiceImpl struct {
	categoryRepo category.Repository
	ledgerRepo   ledger.Repository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo category.Repository, ledgerRepo ledger.Repository) CategoryService {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// CreateCategory stores a new income or expense category
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, name string, kind shared.EntryKind) (*category.Category, error) {
	cat, err := category.NewCategory(name, kind)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ListCategories returns all categories
func (s *CategoryServiceImpl) ListCategories(ctx context.Context) ([]*category.Category, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategory renames a category. The kind is immutable once entries
// may reference it.
func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*category.Category, error) {
	cat, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, category.ErrEmptyName
	}

	cat.Name = name
	if err := s.categoryRepo.Update(ctx, cat); err != nil {
		return nil, err
	}

	return cat, nil
}

// DeleteCategory removes a category that no entries reference
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.ledgerRepo.CountByCategoryID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return category.ErrCategoryInUse{CategoryID: id}
	}

	return s.categoryRepo.Delete(ctx, id)
}
