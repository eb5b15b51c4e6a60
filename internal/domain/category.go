package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Category Model
type Category struct {
	ID        uuid.UUID  `gorm:"column:category_id;type:char(36);primaryKey"` // Primary key
	Name      string     `gorm:"size:256;not null"`                           // Uniqueness is checked by the handlers
	CreatedOn time.Time  `gorm:"not null"`                                    // Creation timestamp
	UpdatedOn *time.Time `gorm:"default:null"`                                // Last update timestamp
}

// BeforeCreate assigns the identifier and creation time when missing
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedOn.IsZero() {
		c.CreatedOn = time.Now().UTC()
	}
	return nil
}
