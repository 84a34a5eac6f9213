package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogSource records a learning-catalog file that has been chunked and
// indexed into the vector store.
type CatalogSource struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Path       string    `gorm:"type:text;uniqueIndex" json:"path"`
	Checksum   string    `gorm:"type:text" json:"checksum"`
	ChunkCount int       `gorm:"not null;default:0" json:"chunk_count"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (CatalogSource) TableName() string {
	return "catalog_sources"
}
