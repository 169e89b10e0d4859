package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/pkg/enums"
)

// CatalogItem is an admin-curated produce entry vendors attach offers to.
type CatalogItem struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                `gorm:"column:name;type:text;not null;uniqueIndex"`
	Category  enums.ProduceCategory `gorm:"column:category;type:text;not null"`
	ImageURL  *string               `gorm:"column:image_url"`
	IsActive  bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
