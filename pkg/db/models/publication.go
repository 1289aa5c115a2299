package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Publication represents a scientific article or book chapter listed on
// the site.
type Publication struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Abstract  string         `gorm:"column:abstract;not null" json:"abstract"`
	Authors   pq.StringArray `gorm:"column:authors;type:text[];not null;default:ARRAY[]::text[]" json:"authors"`
	Journal   *string        `gorm:"column:journal" json:"journal,omitempty"`
	Year      *int           `gorm:"column:year" json:"year,omitempty"`
	DOI       *string        `gorm:"column:doi" json:"doi,omitempty"`
	URL       *string        `gorm:"column:url" json:"url,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
