package category

import (
	"context"
	"strings"
	"time"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService interface {
	ListCategories(ctx context.Context, ownerID string) ([]models.Category, error)
	GetCategory(ctx context.Context, ownerID, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, ownerID string, req CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id string, req UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
}

type CategoryServiceImpl struct {
	Repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) CategoryService {
	return &CategoryServiceImpl{Repo: repo}
}

func owner(ownerID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNoSuchUser()
	}
	return oid, nil
}

func duplicateName() error {
	return apperr.New(apperr.DuplicateKey, "Category with this name already exists")
}

func (s *CategoryServiceImpl) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	oid, err := owner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, oid)
}

func (s *CategoryServiceImpl) GetCategory(ctx context.Context, ownerID, id string) (*models.Category, error) {
	oid, err := owner(ownerID)
	if err != nil {
		return nil, err
	}
	category, err := s.Repo.FindByID(ctx, oid, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.ErrNotFound("Category")
	}
	return category, nil
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, ownerID string, req CreateCategoryRequest) (*models.Category, error) {
	oid, err := owner(ownerID)
	if err != nil {
		return nil, err
	}
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindByName(ctx, oid, req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateName()
	}

	now := time.Now()
	category := &models.Category{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    true,
		CreatedBy:   oid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, ownerID, id string, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.GetCategory(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil && *req.Type != "" {
		if err := validateType(*req.Type); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" && name != category.Name {
			categoryType := category.Type
			if req.Type != nil && *req.Type != "" {
				categoryType = *req.Type
			}
			existing, err := s.Repo.FindByName(ctx, category.CreatedBy, name, categoryType)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != category.ID {
				return nil, duplicateName()
			}
			category.Name = name
		}
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}
	if req.Type != nil && *req.Type != "" {
		category.Type = *req.Type
	}
	if req.Icon != nil {
		category.Icon = orDefault(*req.Icon, defaultIcon)
	}
	if req.Color != nil {
		category.Color = orDefault(*req.Color, defaultColor)
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, ownerID, id string) error {
	oid, err := owner(ownerID)
	if err != nil {
		return err
	}
	deleted, err := s.Repo.Delete(ctx, oid, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotFound("Category")
	}
	return nil
}
