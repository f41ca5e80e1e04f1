package models

import "time"

const (
	NotifTypeBill    = "Tagihan"
	NotifTypePayment = "Pembayaran"
	NotifTypeLaundry = "Laundry"
	NotifTypeSystem  = "Sistem"
)

type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	Title     string     `gorm:"type:varchar(100);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"type:varchar(20);not null;default:'Sistem'" json:"type"`
	Link      string     `gorm:"type:varchar(255)" json:"link"`
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
