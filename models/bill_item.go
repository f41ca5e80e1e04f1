package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BillItemRent    = "Sewa Kamar"
	BillItemLaundry = "Laundry"
	BillItemPenalty = "Denda"
	BillItemOther   = "Lainnya"
)

type BillItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BillID      uint      `gorm:"not null;index" json:"bill_id"`
	Category    string    `gorm:"type:varchar(20);not null" json:"category"`
	Description string    `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeSave keeps subtotal consistent with quantity x unit price.
func (bi *BillItem) BeforeSave(tx *gorm.DB) error {
	bi.Subtotal = float64(bi.Quantity) * bi.UnitPrice
	return nil
}
