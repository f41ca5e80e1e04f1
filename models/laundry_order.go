package models

import (
	"fmt"
	"time"
)

const (
	LaundryReceived  = "Diterima"
	LaundryWashing   = "Dicuci"
	LaundryDrying    = "Dikeringkan"
	LaundryIroning   = "Disetrika"
	LaundryReady     = "Siap Diambil"
	LaundryCompleted = "Selesai"
	LaundryCancelled = "Dibatalkan"

	LaundryUnpaid = "Belum Dibayar"
	LaundryPaid   = "Sudah Dibayar"
)

// statusFlow adalah rantai maju status order; Dibatalkan di luar rantai.
var statusFlow = map[string]string{
	LaundryReceived: LaundryWashing,
	LaundryWashing:  LaundryDrying,
	LaundryDrying:   LaundryIroning,
	LaundryIroning:  LaundryReady,
	LaundryReady:    LaundryCompleted,
}

var statusProgress = map[string]int{
	LaundryReceived:  20,
	LaundryWashing:   40,
	LaundryDrying:    60,
	LaundryIroning:   80,
	LaundryReady:     90,
	LaundryCompleted: 100,
	LaundryCancelled: 0,
}

type LaundryOrder struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Code          string             `gorm:"type:varchar(20);unique;not null" json:"code"`
	TenantID      uint               `gorm:"not null;index" json:"tenant_id"`
	Tenant        Tenant             `gorm:"foreignKey:TenantID" json:"tenant"`
	ServiceID     uint               `gorm:"not null;index" json:"service_id"`
	Service       LaundryService     `gorm:"foreignKey:ServiceID" json:"service"`
	ReceivedBy    *uint              `json:"received_by,omitempty"`
	Receiver      *User              `gorm:"foreignKey:ReceivedBy" json:"receiver,omitempty"`
	CompletedBy   *uint              `json:"completed_by,omitempty"`
	Completer     *User              `gorm:"foreignKey:CompletedBy" json:"completer,omitempty"`
	ReceivedAt    time.Time          `gorm:"not null" json:"received_at"`
	EstimatedDate time.Time          `gorm:"not null" json:"estimated_date"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	WeightKg      float64            `gorm:"type:decimal(6,2);not null" json:"weight_kg"`
	TotalCost     float64            `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	OrderStatus   string             `gorm:"type:varchar(20);not null;default:'Diterima'" json:"order_status"`
	PaymentStatus string             `gorm:"type:varchar(20);not null;default:'Belum Dibayar'" json:"payment_status"`
	Note          string             `gorm:"type:text" json:"note"`
	StatusLogs    []LaundryStatusLog `gorm:"foreignKey:LaundryOrderID" json:"status_logs,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// IsTerminal -> Selesai dan Dibatalkan tidak bisa diubah lagi.
func (o *LaundryOrder) IsTerminal() bool {
	return o.OrderStatus == LaundryCompleted || o.OrderStatus == LaundryCancelled
}

// NextStatus returns the designated next status in the forward chain,
// or "" when the order is terminal.
func (o *LaundryOrder) NextStatus() string {
	return statusFlow[o.OrderStatus]
}

// CanTransitionTo reports whether the requested status is either the
// designated next status or a cancellation of a non-terminal order.
func (o *LaundryOrder) CanTransitionTo(newStatus string) bool {
	if o.IsTerminal() {
		return false
	}
	if newStatus == LaundryCancelled {
		return true
	}
	return statusFlow[o.OrderStatus] == newStatus
}

// ProgressPercentage is cosmetic only, for the tracking UI.
func (o *LaundryOrder) ProgressPercentage() int {
	return statusProgress[o.OrderStatus]
}

// IsOverdueAt -> estimasi selesai sudah lewat dan order belum selesai.
func (o *LaundryOrder) IsOverdueAt(today time.Time) bool {
	if o.OrderStatus == LaundryCompleted || o.OrderStatus == LaundryCancelled {
		return false
	}
	return o.EstimatedDate.Before(truncateDay(today))
}

// LaundryCodePrefix -> "LD-202503-" untuk bulan pembuatan order.
func LaundryCodePrefix(t time.Time) string {
	return fmt.Sprintf("LD-%s-", t.Format("200601"))
}

// FormatLaundryCode -> "LD-202503-007".
func FormatLaundryCode(t time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", LaundryCodePrefix(t), seq)
}
