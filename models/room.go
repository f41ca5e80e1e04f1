package models

import "time"

const (
	RoomAvailable   = "Tersedia"
	RoomOccupied    = "Terisi"
	RoomMaintenance = "Maintenance"
)

type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(20);unique;not null" json:"code"`
	Floor       int       `gorm:"not null" json:"floor"`
	RoomType    string    `gorm:"type:varchar(50);not null" json:"room_type"`
	MonthlyRate float64   `gorm:"type:decimal(12,2);not null" json:"monthly_rate"`
	Facilities  string    `gorm:"type:text" json:"facilities"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Tersedia'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Room) IsAvailable() bool {
	return r.Status == RoomAvailable
}
