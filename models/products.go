package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry stored in Postgres. The cart treats products as
// read-only: line prices are captured at add time and never re-derived.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(128);index" json:"category"`

	BasePrice         float64    `gorm:"not null" json:"base_price"`
	DiscountPrice     *float64   `json:"discount_price"`
	DiscountStartDate *time.Time `json:"discount_start_date"`
	DiscountEndDate   *time.Time `json:"discount_end_date"`
	DiscountActive    bool       `gorm:"not null;default:false" json:"discount_active"`

	// Lab-specific display fields
	PurityPercentage  float64 `gorm:"not null;default:0" json:"purity_percentage"`
	MolecularWeight   *string `gorm:"type:varchar(64)" json:"molecular_weight"`
	CASNumber         *string `gorm:"type:varchar(64)" json:"cas_number"`
	Sequence          *string `gorm:"type:text" json:"sequence"`
	StorageConditions string  `gorm:"type:varchar(255)" json:"storage_conditions"`

	// Complete-set bundle pricing (alternate SKU, priced independently of
	// variations; shares the underlying stock counter)
	IsCompleteSet          bool     `gorm:"not null;default:false" json:"is_complete_set"`
	CompleteSetPrice       *float64 `json:"complete_set_price"`
	CompleteSetDescription *string  `gorm:"type:text" json:"complete_set_description"`

	// StockQuantity applies only when the product sells without variations.
	StockQuantity int  `gorm:"not null;default:0" json:"stock_quantity"`
	Available     bool `gorm:"not null;default:true" json:"available"`
	Featured      bool `gorm:"not null;default:false" json:"featured"`

	ImageURL       *string `gorm:"type:varchar(1024)" json:"image_url"`
	SafetySheetURL *string `gorm:"type:varchar(1024)" json:"safety_sheet_url"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Variations []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations,omitempty"`
}

// ProductVariation is a named, separately priced and stocked size/option of a
// product. Variation prices are absolute; the base discount never applies.
type ProductVariation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	QuantityMg    float64   `gorm:"not null;default:0" json:"quantity_mg"`
	Price         float64   `gorm:"not null" json:"price"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PaymentMethod is a manual payment channel (bank / e-wallet account) shown at
// checkout. Orders reference it by snapshot, not by foreign key.
type PaymentMethod struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(128);not null" json:"name"`
	AccountNumber string    `gorm:"type:varchar(128)" json:"account_number"`
	AccountName   string    `gorm:"type:varchar(128)" json:"account_name"`
	QRCodeURL     *string   `gorm:"type:varchar(1024)" json:"qr_code_url"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	SortOrder     int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
