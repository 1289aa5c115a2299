package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course represents a listed training offering.
type Course struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string          `gorm:"column:title;not null" json:"title"`
	Description string          `gorm:"column:description;not null" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Image       *string         `gorm:"column:image" json:"image,omitempty"`
	Workload    *string         `gorm:"column:workload" json:"workload,omitempty"`
	EnrollURL   *string         `gorm:"column:enroll_url" json:"enroll_url,omitempty"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
