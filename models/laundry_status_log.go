package models

import "time"

// LaundryStatusLog adalah jejak perubahan status order, append-only.
// Baris yang sudah tercatat tidak pernah diubah atau dihapus.
type LaundryStatusLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LaundryOrderID uint      `gorm:"not null;index" json:"laundry_order_id"`
	PreviousStatus *string   `gorm:"type:varchar(20)" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy      uint      `gorm:"not null" json:"changed_by"`
	User           User      `gorm:"foreignKey:ChangedBy" json:"user"`
	Note           string    `gorm:"type:text" json:"note"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
