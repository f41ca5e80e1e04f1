package models

import "time"

// LaundryService adalah jenis layanan laundry (kiloan, express, dsb).
type LaundryService struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	PricePerKg   float64   `gorm:"type:decimal(12,2);not null" json:"price_per_kg"`
	EstimateDays int       `gorm:"not null;default:2" json:"estimate_days"`
	Description  string    `gorm:"type:text" json:"description"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *LaundryService) CalculatePrice(weightKg float64) float64 {
	return s.PricePerKg * weightKg
}
