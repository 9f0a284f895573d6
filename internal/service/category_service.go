package service

import (
	"errors"
	"fmt"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

// CategoryService manages post categories.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns categories ordered by title. When publishedOnly is set,
// hidden categories are skipped.
func (s *CategoryService) List(publishedOnly bool) ([]db.Category, error) {
	query := s.db.Model(&db.Category{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var categories []db.Category
	if err := query.Order("title asc, id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetBySlug returns a category regardless of its publication state.
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// Create stores a new category.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	input.normalize()
	verrs := validateStruct(&input)
	if _, invalid := verrs["slug"]; !invalid {
		var count int64
		if err := s.db.Model(&db.Category{}).Where("slug = ?", input.Slug).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}
	if err := verrs.orNil(); err != nil {
		return nil, err
	}

	category := db.Category{
		Title:       input.Title,
		Description: input.Description,
		Slug:        input.Slug,
		IsPublished: input.IsPublished,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// SetPublished toggles the publication flag of a category.
func (s *CategoryService) SetPublished(slug string, published bool) error {
	result := s.db.Model(&db.Category{}).Where("slug = ?", slug).Update("is_published", published)
	if result.Error != nil {
		return fmt.Errorf("update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. Posts keep existing without a category.
func (s *CategoryService) Delete(slug string) error {
	category, err := s.GetBySlug(slug)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("category_id = ?", category.ID).Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Delete(&db.Category{}, category.ID).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
