package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pathfinder/career-advisor/internal/models"
)

var ErrCatalogSourceNotFound = errors.New("catalog source not found")

type CatalogSourceRepository interface {
	FindByPath(path string) (*models.CatalogSource, error)
	Upsert(source *models.CatalogSource) error
	Delete(id uuid.UUID) error
	List() ([]models.CatalogSource, error)
}

type catalogSourceRepository struct {
	db *gorm.DB
}

func NewCatalogSourceRepository(db *gorm.DB) CatalogSourceRepository {
	return &catalogSourceRepository{db: db}
}

// FindByPath implements CatalogSourceRepository.
func (r *catalogSourceRepository) FindByPath(path string) (*models.CatalogSource, error) {
	var source models.CatalogSource
	if err := r.db.Where("path = ?", path).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogSourceNotFound
		}
		return nil, fmt.Errorf("failed to find catalog source: %w", err)
	}
	return &source, nil
}

// Upsert implements CatalogSourceRepository. Rows are keyed by path.
func (r *catalogSourceRepository) Upsert(source *models.CatalogSource) error {
	if source.ID == uuid.Nil {
		source.ID = uuid.New()
	}
	source.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"checksum", "chunk_count", "updated_at"}),
	}).Create(source).Error
	if err != nil {
		return fmt.Errorf("failed to upsert catalog source: %w", err)
	}
	return nil
}

// Delete implements CatalogSourceRepository.
func (r *catalogSourceRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.CatalogSource{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete catalog source: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCatalogSourceNotFound
	}
	return nil
}

// List implements CatalogSourceRepository.
func (r *catalogSourceRepository) List() ([]models.CatalogSource, error) {
	var sources []models.CatalogSource
	if err := r.db.Order("path ASC").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalog sources: %w", err)
	}
	return sources, nil
}
