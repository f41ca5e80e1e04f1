package models

import "time"

const (
	TenantActive   = "Aktif"
	TenantInactive = "Non-Aktif"
)

type Tenant struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	User             User       `gorm:"foreignKey:UserID" json:"user"`
	RoomID           *uint      `gorm:"index" json:"room_id,omitempty"`
	Room             *Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	IDCardNumber     string     `gorm:"type:varchar(30)" json:"id_card_number"`
	Gender           string     `gorm:"type:varchar(10)" json:"gender"`
	Occupation       string     `gorm:"type:varchar(100)" json:"occupation"`
	EmergencyContact string     `gorm:"type:varchar(100)" json:"emergency_contact"`
	EmergencyPhone   string     `gorm:"type:varchar(30)" json:"emergency_phone"`
	CheckInDate      *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate     *time.Time `json:"check_out_date,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:'Aktif'" json:"status"`
	Note             string     `gorm:"type:text" json:"note"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}
