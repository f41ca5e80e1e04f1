package models

import "time"

const (
	PaymentMethodCash     = "Tunai"
	PaymentMethodTransfer = "Transfer Bank"
	PaymentMethodEWallet  = "E-Wallet"

	VerificationPending  = "Menunggu"
	VerificationVerified = "Terverifikasi"
	VerificationRejected = "Ditolak"
)

type Payment struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	BillID             uint       `gorm:"not null;index" json:"bill_id"`
	Bill               Bill       `gorm:"foreignKey:BillID" json:"bill"`
	PaidAt             time.Time  `gorm:"not null" json:"paid_at"`
	Amount             float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method             string     `gorm:"type:varchar(20);not null" json:"method"`
	ProofRef           string     `gorm:"type:varchar(100)" json:"proof_ref"`
	VerificationStatus string     `gorm:"type:varchar(20);not null;default:'Menunggu'" json:"verification_status"`
	VerifiedBy         *uint      `json:"verified_by,omitempty"`
	Verifier           *User      `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	VerificationNote   string     `gorm:"type:text" json:"verification_note"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (p *Payment) IsVerified() bool {
	return p.VerificationStatus == VerificationVerified
}

func (p *Payment) IsPending() bool {
	return p.VerificationStatus == VerificationPending
}
