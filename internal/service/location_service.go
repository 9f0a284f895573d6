package service

import (
	"errors"
	"fmt"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

// LocationService manages post locations.
type LocationService struct {
	db *gorm.DB
}

// NewLocationService creates a LocationService instance.
func NewLocationService(gdb *gorm.DB) *LocationService {
	return &LocationService{db: gdb}
}

// List returns locations ordered by name.
func (s *LocationService) List(publishedOnly bool) ([]db.Location, error) {
	query := s.db.Model(&db.Location{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var locations []db.Location
	if err := query.Order("name asc, id asc").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// Get returns a location by id.
func (s *LocationService) Get(id uint) (*db.Location, error) {
	var location db.Location
	if err := s.db.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &location, nil
}

// Create stores a new location.
func (s *LocationService) Create(input LocationInput) (*db.Location, error) {
	input.normalize()
	if err := validateStruct(&input).orNil(); err != nil {
		return nil, err
	}

	location := db.Location{Name: input.Name, IsPublished: input.IsPublished}
	if err := s.db.Create(&location).Error; err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &location, nil
}

// SetPublished toggles the publication flag of a location.
func (s *LocationService) SetPublished(id uint, published bool) error {
	result := s.db.Model(&db.Location{}).Where("id = ?", id).Update("is_published", published)
	if result.Error != nil {
		return fmt.Errorf("update location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location and detaches it from posts.
func (s *LocationService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("location_id = ?", id).Update("location_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		result := tx.Delete(&db.Location{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete location: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrLocationNotFound
		}
		return nil
	})
}
