package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domoskost/kost-app/models"
)

func rentItems(rate float64) []BillItemInput {
	return []BillItemInput{{
		Category:    models.BillItemRent,
		Description: "Sewa Kamar",
		Quantity:    1,
		UnitPrice:   rate,
	}}
}

func TestCreateBill(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")

	bill, err := svc.CreateBill(CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	})
	require.NoError(t, err)
	assert.Equal(t, models.BillUnpaid, bill.Status)
	assert.Equal(t, 1500000.0, bill.TotalAmount)
	assert.Len(t, bill.Items, 1)

	// Notifikasi penghuni ikut dibuat.
	var notifCount int64
	db.Model(&models.Notification{}).Where("user_id = ?", tenant.UserID).Count(&notifCount)
	assert.EqualValues(t, 1, notifCount)
}

func TestCreateBillDuplicatePeriod(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")

	input := CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	}

	_, err := svc.CreateBill(input)
	require.NoError(t, err)

	_, err = svc.CreateBill(input)
	assert.ErrorIs(t, err, ErrDuplicatePeriod)

	// Periode berbeda untuk penghuni yang sama tetap boleh.
	input.PeriodMonth = 4
	input.IssueDate = time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)
	input.DueDate = time.Date(2025, 4, 10, 0, 0, 0, 0, time.Local)
	_, err = svc.CreateBill(input)
	assert.NoError(t, err)
}

func TestRecomputeStatusIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")

	bill, err := svc.CreateBill(CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	})
	require.NoError(t, err)

	today := time.Date(2025, 3, 15, 8, 0, 0, 0, time.Local) // terlambat 5 hari

	first, err := svc.RecomputeStatus(bill.ID, today)
	require.NoError(t, err)
	assert.Equal(t, models.BillOverdue, first.Status)
	assert.Equal(t, 50000.0, first.Penalty)

	second, err := svc.RecomputeStatus(bill.ID, today)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Penalty, second.Penalty)
}

func TestCashPaymentAutoVerified(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)

	bill, err := svc.CreateBill(CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	})
	require.NoError(t, err)

	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.Local)
	payment, err := svc.RecordPayment(RecordPaymentInput{
		BillID:       bill.ID,
		PaidAt:       now,
		Amount:       1500000,
		Method:       models.PaymentMethodCash,
		ActingUserID: &staff.ID,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, models.VerificationVerified, payment.VerificationStatus)
	require.NotNil(t, payment.VerifiedBy)
	assert.Equal(t, staff.ID, *payment.VerifiedBy)
	assert.NotEmpty(t, payment.ProofRef)

	// Status tagihan ikut dihitung ulang dalam transaksi yang sama.
	var updated models.Bill
	require.NoError(t, db.First(&updated, bill.ID).Error)
	assert.Equal(t, models.BillPaid, updated.Status)
}

func TestTransferPaymentNeedsVerification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")
	admin := seedStaff(t, db, "admin", models.RoleAdmin)

	bill, err := svc.CreateBill(CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	})
	require.NoError(t, err)

	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.Local)
	payment, err := svc.RecordPayment(RecordPaymentInput{
		BillID:   bill.ID,
		PaidAt:   now,
		Amount:   800000,
		Method:   models.PaymentMethodTransfer,
		ProofRef: "bukti-transfer.jpg",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, payment.VerificationStatus)

	// Belum diverifikasi, status tagihan tidak berubah.
	var before models.Bill
	require.NoError(t, db.First(&before, bill.ID).Error)
	assert.Equal(t, models.BillUnpaid, before.Status)

	_, err = svc.VerifyPayment(payment.ID, admin.ID, "", now)
	require.NoError(t, err)

	var after models.Bill
	require.NoError(t, db.First(&after, bill.ID).Error)
	assert.Equal(t, models.BillPartiallyPaid, after.Status)

	// Verifikasi kedua pada pembayaran yang sama ditolak.
	_, err = svc.VerifyPayment(payment.ID, admin.ID, "", now)
	assert.ErrorIs(t, err, ErrPaymentNotPending)
}

func TestRejectedPaymentDoesNotCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")
	admin := seedStaff(t, db, "admin", models.RoleAdmin)

	bill, err := svc.CreateBill(CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	})
	require.NoError(t, err)

	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.Local)
	payment, err := svc.RecordPayment(RecordPaymentInput{
		BillID:   bill.ID,
		PaidAt:   now,
		Amount:   1500000,
		Method:   models.PaymentMethodEWallet,
		ProofRef: "ref-123",
	}, now)
	require.NoError(t, err)

	_, err = svc.RejectPayment(payment.ID, admin.ID, "Bukti tidak terbaca", now)
	require.NoError(t, err)

	updated, err := svc.RecomputeStatus(bill.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.BillUnpaid, updated.Status)
}

func TestPaymentExceedsRemaining(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)

	bill, err := svc.CreateBill(CreateBillInput{
		TenantID:    tenant.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		DueDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Items:       rentItems(1500000),
	})
	require.NoError(t, err)

	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.Local)

	_, err = svc.RecordPayment(RecordPaymentInput{
		BillID:       bill.ID,
		PaidAt:       now,
		Amount:       2000000,
		Method:       models.PaymentMethodCash,
		ActingUserID: &staff.ID,
	}, now)
	assert.ErrorIs(t, err, ErrPaymentExceeds)

	// Bayar sebagian dulu, sisa berkurang.
	_, err = svc.RecordPayment(RecordPaymentInput{
		BillID:       bill.ID,
		PaidAt:       now,
		Amount:       1000000,
		Method:       models.PaymentMethodCash,
		ActingUserID: &staff.ID,
	}, now)
	require.NoError(t, err)

	_, err = svc.RecordPayment(RecordPaymentInput{
		BillID:       bill.ID,
		PaidAt:       now,
		Amount:       600000,
		Method:       models.PaymentMethodCash,
		ActingUserID: &staff.ID,
	}, now)
	assert.ErrorIs(t, err, ErrPaymentExceeds)
}

func TestGenerateMonthlyBills(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db)
	admin := seedStaff(t, db, "admin", models.RoleAdmin)

	budi := seedTenant(t, db, "budi")
	seedTenant(t, db, "citra")

	// Penghuni non-aktif tidak kebagian tagihan.
	inactive := seedTenant(t, db, "dodi")
	require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", inactive.ID).
		Update("status", models.TenantInactive).Error)

	result, err := svc.GenerateMonthlyBills(3, 2025, &admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	var bill models.Bill
	require.NoError(t, db.Where("tenant_id = ?", budi.ID).First(&bill).Error)
	assert.Equal(t, 1, bill.IssueDate.Day())
	assert.Equal(t, 10, bill.DueDate.Day())
	assert.Equal(t, 1500000.0, bill.TotalAmount)

	// Generate ulang periode yang sama: semua dilewati.
	again, err := svc.GenerateMonthlyBills(3, 2025, &admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 2, again.Skipped)
}
