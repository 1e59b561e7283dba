package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spenza/internal/errors"
	"spenza/internal/models"
	"spenza/internal/pagination"
)

// categoryService handles category management.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new expense category.
func (s *categoryService) CreateCategory(name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "A category with this name already exists")
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// ListCategories returns a paginated list of categories, optionally filtered
// by a case-insensitive substring match on name.
func (s *categoryService) ListCategories(page pagination.PageRequest, search string) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{})
	if search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's name and description.
func (s *categoryService) UpdateCategory(id uint, name, description string) (*models.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("name = ? AND id <> ?", name, id).Count(&count)
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "A category with this name already exists")
	}

	category.Name = name
	category.Description = description
	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a category. Deletion is refused while expenses
// still reference it.
func (s *categoryService) DeleteCategory(id uint) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Expense{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
