package models

import (
	"fmt"
	"time"
)

const (
	BillUnpaid        = "Belum Dibayar"
	BillPartiallyPaid = "Dibayar Sebagian"
	BillPaid          = "Lunas"
	BillOverdue       = "Terlambat"
)

// Denda keterlambatan: tarif harian tetap dengan batas maksimal hari.
const (
	DailyPenalty   = 10000.0
	MaxPenaltyDays = 30
)

type Bill struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TenantID    uint       `gorm:"not null;index:idx_bill_period,unique" json:"tenant_id"`
	Tenant      Tenant     `gorm:"foreignKey:TenantID" json:"tenant"`
	PeriodMonth int        `gorm:"not null;index:idx_bill_period,unique" json:"period_month"`
	PeriodYear  int        `gorm:"not null;index:idx_bill_period,unique" json:"period_year"`
	IssueDate   time.Time  `gorm:"not null" json:"issue_date"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	TotalAmount float64    `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Penalty     float64    `gorm:"type:decimal(12,2);not null;default:0" json:"penalty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'Belum Dibayar'" json:"status"`
	Note        string     `gorm:"type:text" json:"note"`
	CreatedBy   *uint      `json:"created_by,omitempty"`
	Creator     *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items       []BillItem `gorm:"foreignKey:BillID" json:"items"`
	Payments    []Payment  `gorm:"foreignKey:BillID" json:"payments"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var monthNames = [13]string{"",
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName -> nama bulan Indonesia, "" jika di luar 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}

// PeriodString -> "Maret 2025"
func (b *Bill) PeriodString() string {
	if b.PeriodMonth < 1 || b.PeriodMonth > 12 {
		return fmt.Sprintf("%d-%d", b.PeriodMonth, b.PeriodYear)
	}
	return fmt.Sprintf("%s %d", monthNames[b.PeriodMonth], b.PeriodYear)
}

func (b *Bill) IsPaid() bool {
	return b.Status == BillPaid
}

// IsOverdueAt -> jatuh tempo sudah lewat dan tagihan belum lunas.
func (b *Bill) IsOverdueAt(today time.Time) bool {
	return truncateDay(b.DueDate).Before(truncateDay(today)) && b.Status != BillPaid
}

// DaysOverdueAt returns whole days past the due date, floored at zero.
func (b *Bill) DaysOverdueAt(today time.Time) int {
	days := int(truncateDay(today).Sub(truncateDay(b.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// CalculatePenaltyAt -> min(hari terlambat, 30) x 10.000.
func (b *Bill) CalculatePenaltyAt(today time.Time) float64 {
	if !b.IsOverdueAt(today) {
		return 0
	}
	days := b.DaysOverdueAt(today)
	if days > MaxPenaltyDays {
		days = MaxPenaltyDays
	}
	return float64(days) * DailyPenalty
}

// DeriveStatus computes the canonical bill status from the sum of
// verified payments and today's date. Priority order: Lunas,
// Dibayar Sebagian, Terlambat (with recomputed penalty), Belum Dibayar.
// Pure function; callers persist the result.
func (b *Bill) DeriveStatus(totalPaid float64, today time.Time) (status string, penalty float64) {
	switch {
	case totalPaid >= b.TotalAmount:
		return BillPaid, b.Penalty
	case totalPaid > 0:
		return BillPartiallyPaid, b.Penalty
	case truncateDay(b.DueDate).Before(truncateDay(today)):
		days := b.DaysOverdueAt(today)
		if days > MaxPenaltyDays {
			days = MaxPenaltyDays
		}
		return BillOverdue, float64(days) * DailyPenalty
	default:
		return BillUnpaid, b.Penalty
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
