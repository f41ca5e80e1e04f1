package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/realtime"
	"github.com/domoskost/kost-app/utils"
)

// BillingService menangani siklus hidup tagihan: pembuatan, generate
// bulanan, pencatatan dan verifikasi pembayaran, serta perhitungan
// ulang status tagihan.
type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

type BillItemInput struct {
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64 `json:"unit_price" binding:"required,min=0"`
}

type CreateBillInput struct {
	TenantID    uint
	PeriodMonth int
	PeriodYear  int
	IssueDate   time.Time
	DueDate     time.Time
	Note        string
	Items       []BillItemInput
	CreatedBy   *uint
}

// verifiedTotal menjumlahkan pembayaran terverifikasi sebuah tagihan.
// Selalu query segar, tidak pernah dari field yang di-cache.
func verifiedTotal(tx *gorm.DB, billID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.Payment{}).
		Where("bill_id = ? AND verification_status = ?", billID, models.VerificationVerified).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}

// CreateBill membuat tagihan baru beserta rinciannya. Satu tagihan per
// (penghuni, bulan, tahun); duplikat ditolak dengan ErrDuplicatePeriod.
func (s *BillingService) CreateBill(in CreateBillInput) (*models.Bill, error) {
	var tenant models.Tenant
	if err := s.DB.Preload("User").First(&tenant, in.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	bill := models.Bill{
		TenantID:    in.TenantID,
		PeriodMonth: in.PeriodMonth,
		PeriodYear:  in.PeriodYear,
		IssueDate:   in.IssueDate,
		DueDate:     in.DueDate,
		Status:      models.BillUnpaid,
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
	}

	var total float64
	for _, item := range in.Items {
		subtotal := float64(item.Quantity) * item.UnitPrice
		total += subtotal
		bill.Items = append(bill.Items, models.BillItem{
			Category:    item.Category,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    subtotal,
		})
	}
	bill.TotalAmount = total

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Bill{}).
			Where("tenant_id = ? AND period_month = ? AND period_year = ?",
				in.TenantID, in.PeriodMonth, in.PeriodYear).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicatePeriod
		}
		return tx.Create(&bill).Error
	})
	if err != nil {
		// Unique index (tenant, month, year) menangkap race yang lolos
		// dari pemeriksaan count di atas.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePeriod
		}
		return nil, err
	}

	notifyUser(s.DB, tenant.UserID,
		"Tagihan Baru",
		fmt.Sprintf("Tagihan %s sebesar Rp %s telah diterbitkan. Jatuh tempo: %s",
			bill.PeriodString(), utils.FormatCurrency(bill.TotalAmount),
			bill.DueDate.Format("02/01/2006")),
		models.NotifTypeBill,
		fmt.Sprintf("/penghuni/tagihan/%d", bill.ID))
	realtime.BroadcastBillUpdate(bill)

	return &bill, nil
}

// RecomputeStatus menghitung ulang status tagihan dari agregat
// pembayaran terverifikasi dan tanggal hari ini, lalu menyimpannya.
// Idempoten: dipanggil dua kali tanpa perubahan input menghasilkan
// status dan denda yang sama.
func (s *BillingService) RecomputeStatus(billID uint, today time.Time) (*models.Bill, error) {
	var bill models.Bill

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bill, billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		paid, err := verifiedTotal(tx, bill.ID)
		if err != nil {
			return err
		}

		status, penalty := bill.DeriveStatus(paid, today)
		bill.Status = status
		bill.Penalty = penalty
		return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{"status": status, "penalty": penalty}).Error
	})
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

type RecordPaymentInput struct {
	BillID   uint
	PaidAt   time.Time
	Amount   float64
	Method   string
	ProofRef string
	// ActingUserID mengisi verifikator saat pembayaran tunai
	// (terverifikasi otomatis); nil untuk upload bukti penghuni.
	ActingUserID *uint
}

// RecordPayment mencatat pembayaran terhadap tagihan. Pembayaran tunai
// oleh petugas langsung terverifikasi dan status tagihan dihitung ulang
// dalam transaksi yang sama; metode lain menunggu verifikasi.
func (s *BillingService) RecordPayment(in RecordPaymentInput, now time.Time) (*models.Payment, error) {
	if in.ProofRef == "" {
		in.ProofRef = uuid.New().String()
	}

	payment := models.Payment{
		BillID:             in.BillID,
		PaidAt:             in.PaidAt,
		Amount:             in.Amount,
		Method:             in.Method,
		ProofRef:           in.ProofRef,
		VerificationStatus: models.VerificationPending,
	}

	var bill models.Bill
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tenant.User").First(&bill, in.BillID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if bill.IsPaid() {
			return ErrBillLocked
		}

		paid, err := verifiedTotal(tx, bill.ID)
		if err != nil {
			return err
		}
		if in.Amount > bill.TotalAmount-paid {
			return ErrPaymentExceeds
		}

		if in.Method == models.PaymentMethodCash && in.ActingUserID != nil {
			payment.VerificationStatus = models.VerificationVerified
			payment.VerifiedBy = in.ActingUserID
			payment.VerifiedAt = &now
		}

		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if payment.IsVerified() {
			status, penalty := bill.DeriveStatus(paid+payment.Amount, now)
			bill.Status = status
			bill.Penalty = penalty
			return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).
				Updates(map[string]interface{}{"status": status, "penalty": penalty}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	verified := "menunggu verifikasi"
	if payment.IsVerified() {
		verified = "terverifikasi"
	}
	notifyUser(s.DB, bill.Tenant.UserID,
		"Pembayaran Diterima",
		fmt.Sprintf("Pembayaran sebesar Rp %s untuk tagihan %s telah diterima dan %s.",
			utils.FormatCurrency(payment.Amount), bill.PeriodString(), verified),
		models.NotifTypePayment,
		fmt.Sprintf("/penghuni/tagihan/%d", bill.ID))
	realtime.BroadcastPaymentUpdate(payment)

	return &payment, nil
}

// VerifyPayment menyetujui pembayaran yang menunggu, lalu menghitung
// ulang status tagihan dari agregat segar di dalam transaksi yang sama
// sehingga dua verifikasi bersamaan tidak saling menimpa.
func (s *BillingService) VerifyPayment(paymentID, actingUserID uint, note string, now time.Time) (*models.Payment, error) {
	var payment models.Payment
	var bill models.Bill

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !payment.IsPending() {
			return ErrPaymentNotPending
		}

		payment.VerificationStatus = models.VerificationVerified
		payment.VerifiedBy = &actingUserID
		payment.VerifiedAt = &now
		payment.VerificationNote = note
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if err := tx.Preload("Tenant.User").First(&bill, payment.BillID).Error; err != nil {
			return err
		}
		paid, err := verifiedTotal(tx, bill.ID)
		if err != nil {
			return err
		}
		status, penalty := bill.DeriveStatus(paid, now)
		bill.Status = status
		bill.Penalty = penalty
		return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{"status": status, "penalty": penalty}).Error
	})
	if err != nil {
		return nil, err
	}

	notifyUser(s.DB, bill.Tenant.UserID,
		"Pembayaran Terverifikasi",
		fmt.Sprintf("Pembayaran sebesar Rp %s untuk tagihan %s telah diverifikasi.",
			utils.FormatCurrency(payment.Amount), bill.PeriodString()),
		models.NotifTypePayment,
		fmt.Sprintf("/penghuni/tagihan/%d", bill.ID))
	realtime.BroadcastPaymentUpdate(payment)
	realtime.BroadcastBillUpdate(bill)

	return &payment, nil
}

// RejectPayment menolak pembayaran yang menunggu. Pembayaran yang sudah
// terverifikasi tidak dapat ditolak.
func (s *BillingService) RejectPayment(paymentID, actingUserID uint, note string, now time.Time) (*models.Payment, error) {
	var payment models.Payment
	var bill models.Bill

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !payment.IsPending() {
			return ErrPaymentNotPending
		}

		payment.VerificationStatus = models.VerificationRejected
		payment.VerifiedBy = &actingUserID
		payment.VerifiedAt = &now
		payment.VerificationNote = note
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		return tx.Preload("Tenant.User").First(&bill, payment.BillID).Error
	})
	if err != nil {
		return nil, err
	}

	notifyUser(s.DB, bill.Tenant.UserID,
		"Pembayaran Ditolak",
		fmt.Sprintf("Pembayaran sebesar Rp %s untuk tagihan %s ditolak. Alasan: %s",
			utils.FormatCurrency(payment.Amount), bill.PeriodString(), note),
		models.NotifTypePayment,
		fmt.Sprintf("/penghuni/tagihan/%d", bill.ID))
	realtime.BroadcastPaymentUpdate(payment)

	return &payment, nil
}

type GenerateResult struct {
	Created      int      `json:"created"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"errors"`
	TotalTenants int      `json:"total_tenants"`
}

// GenerateMonthlyBills menerbitkan tagihan sewa kamar untuk semua
// penghuni aktif pada periode tertentu. Penghuni yang sudah punya
// tagihan periode itu dilewati.
func (s *BillingService) GenerateMonthlyBills(month, year int, createdBy *uint) (*GenerateResult, error) {
	var tenants []models.Tenant
	if err := s.DB.Preload("User").Preload("Room").
		Where("status = ? AND room_id IS NOT NULL", models.TenantActive).
		Find(&tenants).Error; err != nil {
		return nil, err
	}

	issueDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	dueDate := time.Date(year, time.Month(month), 10, 0, 0, 0, 0, time.Local)

	result := &GenerateResult{TotalTenants: len(tenants)}
	for _, tenant := range tenants {
		if tenant.Room == nil {
			continue
		}

		_, err := s.CreateBill(CreateBillInput{
			TenantID:    tenant.ID,
			PeriodMonth: month,
			PeriodYear:  year,
			IssueDate:   issueDate,
			DueDate:     dueDate,
			Items: []BillItemInput{{
				Category: models.BillItemRent,
				Description: fmt.Sprintf("Sewa Kamar %s %s %d",
					tenant.Room.Code, models.MonthName(month), year),
				Quantity:  1,
				UnitPrice: tenant.Room.MonthlyRate,
			}},
			CreatedBy: createdBy,
		})
		switch {
		case errors.Is(err, ErrDuplicatePeriod):
			result.Skipped++
		case err != nil:
			result.Errors = append(result.Errors,
				fmt.Sprintf("gagal membuat tagihan untuk %s: %v", tenant.User.FullName, err))
		default:
			result.Created++
		}
	}

	return result, nil
}
