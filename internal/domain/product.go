package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// Product Model
type Product struct {
	ProductID     uuid.UUID       `gorm:"type:char(36);primaryKey"`                                             // Primary key
	Name          string          `gorm:"size:256;not null;index"`                                              // Product name
	Description   string          `gorm:"type:text"`                                                            // Free text description
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"`                                          // Unit price
	ImageURL      string          `gorm:"size:1024"`                                                            // Remote or uploaded image URL
	ImageURLLocal string          `gorm:"size:1024"`                                                            // Local path of an uploaded image
	SKU           string          `gorm:"column:sku;size:64;not null;index"`                                    // Stock-keeping unit
	Stock         int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`               // Units on hand, never negative
	CreatedOn     time.Time       `gorm:"not null"`                                                             // Creation timestamp
	UpdatedOn     *time.Time      `gorm:"default:null"`                                                         // Last update timestamp
	CategoryID    uuid.UUID       `gorm:"type:char(36);not null;index"`                                         // Foreign key to Category
	Category      Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"` // Owning category
}

// BeforeCreate assigns the identifier and creation time when missing
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == uuid.Nil {
		p.ProductID = uuid.New()
	}
	if p.CreatedOn.IsZero() {
		p.CreatedOn = time.Now().UTC()
	}
	return nil
}
