package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domoskost/kost-app/models"
)

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	order, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   3.5,
		ReceivedBy: &staff.ID,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "LD-202503-001", order.Code)
	assert.Equal(t, models.LaundryReceived, order.OrderStatus)
	assert.Equal(t, models.LaundryUnpaid, order.PaymentStatus)
	assert.Equal(t, 24500.0, order.TotalCost)
	assert.Equal(t, now.AddDate(0, 0, 2), order.EstimatedDate)
	assert.Nil(t, order.CompletedAt)

	// Log status awal ikut tercatat.
	var logs []models.LaundryStatusLog
	require.NoError(t, db.Where("laundry_order_id = ?", order.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].PreviousStatus)
	assert.Equal(t, models.LaundryReceived, logs[0].NewStatus)
}

func TestCreateOrderCodeSequence(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	march := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	for i := 1; i <= 3; i++ {
		order, err := svc.CreateOrder(CreateOrderInput{
			TenantID:   tenant.ID,
			ServiceID:  service.ID,
			WeightKg:   1,
			ReceivedBy: &staff.ID,
		}, march)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("LD-202503-%03d", i), order.Code)
	}

	// Bulan berikutnya urutan mulai dari awal lagi.
	april := time.Date(2025, 4, 1, 9, 0, 0, 0, time.Local)
	order, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   1,
		ReceivedBy: &staff.ID,
	}, april)
	require.NoError(t, err)
	assert.Equal(t, "LD-202504-001", order.Code)
}

func TestCreateOrderConcurrent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	const n = 8

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.CreateOrder(CreateOrderInput{
				TenantID:   tenant.ID,
				ServiceID:  service.ID,
				WeightKg:   1,
				ReceivedBy: &staff.ID,
			}, now)
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	// Semua kode unik dan berurutan 001..n tanpa lubang.
	var codes []string
	require.NoError(t, db.Model(&models.LaundryOrder{}).
		Order("code ASC").Pluck("code", &codes).Error)
	require.Len(t, codes, n)
	for i, code := range codes {
		assert.Equal(t, fmt.Sprintf("LD-202503-%03d", i+1), code)
	}
}

func TestCreateOrderInactiveService(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)

	service := models.LaundryService{
		Name:         "Express",
		PricePerKg:   12000,
		EstimateDays: 1,
		IsActive:     false,
	}
	require.NoError(t, db.Create(&service).Error)

	// Nilai false harus benar-benar tersimpan, bukan tertimpa default.
	var saved models.LaundryService
	require.NoError(t, db.First(&saved, service.ID).Error)
	require.False(t, saved.IsActive)

	_, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   2,
		ReceivedBy: &staff.ID,
	}, time.Now())
	assert.ErrorIs(t, err, ErrServiceInactive)
}

// Kode lama yang suffix-nya bukan angka membuat urutan tidak bisa
// dihitung; error harus menyebut kode yang rusak.
func TestCreateOrderCorruptExistingCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	require.NoError(t, db.Create(&models.LaundryOrder{
		Code:          "LD-202503-xyz",
		TenantID:      tenant.ID,
		ServiceID:     service.ID,
		ReceivedAt:    now,
		EstimatedDate: now.AddDate(0, 0, 2),
		WeightKg:      2,
		TotalCost:     14000,
		OrderStatus:   models.LaundryReceived,
		PaymentStatus: models.LaundryUnpaid,
	}).Error)

	_, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   2,
		ReceivedBy: &staff.ID,
	}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LD-202503-xyz")
}

func TestAdvanceOrderFullChain(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	order, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   2,
		ReceivedBy: &staff.ID,
	}, now)
	require.NoError(t, err)

	chain := []string{
		models.LaundryWashing,
		models.LaundryDrying,
		models.LaundryIroning,
		models.LaundryReady,
		models.LaundryCompleted,
	}
	for _, status := range chain {
		now = now.Add(time.Hour)
		updated, err := svc.AdvanceOrder(order.ID, status, staff.ID, "", now)
		require.NoError(t, err)
		assert.Equal(t, status, updated.OrderStatus)

		if status == models.LaundryCompleted {
			require.NotNil(t, updated.CompletedAt)
			require.NotNil(t, updated.CompletedBy)
			assert.Equal(t, staff.ID, *updated.CompletedBy)
		} else {
			assert.Nil(t, updated.CompletedAt)
		}
	}

	// Satu log pembuatan + lima log transisi, berurutan.
	var logs []models.LaundryStatusLog
	require.NoError(t, db.Where("laundry_order_id = ?", order.ID).
		Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 6)
	assert.Equal(t, models.LaundryReceived, logs[0].NewStatus)
	for i, status := range chain {
		require.NotNil(t, logs[i+1].PreviousStatus)
		assert.Equal(t, status, logs[i+1].NewStatus)
	}

	// Order selesai menolak perubahan lebih lanjut.
	_, err = svc.AdvanceOrder(order.ID, models.LaundryCancelled, staff.ID, "", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvanceOrderRejectsSkip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	now := time.Now()
	order, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   2,
		ReceivedBy: &staff.ID,
	}, now)
	require.NoError(t, err)

	_, err = svc.AdvanceOrder(order.ID, models.LaundryIroning, staff.ID, "", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Transisi gagal tidak meninggalkan log baru.
	var logCount int64
	db.Model(&models.LaundryStatusLog{}).Where("laundry_order_id = ?", order.ID).Count(&logCount)
	assert.EqualValues(t, 1, logCount)
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	now := time.Now()
	order, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   2,
		ReceivedBy: &staff.ID,
	}, now)
	require.NoError(t, err)

	_, err = svc.AdvanceOrder(order.ID, models.LaundryWashing, staff.ID, "", now)
	require.NoError(t, err)

	cancelled, err := svc.AdvanceOrder(order.ID, models.LaundryCancelled, staff.ID, "Diminta penghuni", now)
	require.NoError(t, err)
	assert.Equal(t, models.LaundryCancelled, cancelled.OrderStatus)
	assert.Equal(t, 0, cancelled.ProgressPercentage())

	_, err = svc.AdvanceOrder(order.ID, models.LaundryWashing, staff.ID, "", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLaundryOrderService(db)
	tenant := seedTenant(t, db, "budi")
	staff := seedStaff(t, db, "sari", models.RoleStaff)
	service := seedLaundryService(t, db)

	order, err := svc.CreateOrder(CreateOrderInput{
		TenantID:   tenant.ID,
		ServiceID:  service.ID,
		WeightKg:   2,
		ReceivedBy: &staff.ID,
	}, time.Now())
	require.NoError(t, err)

	paid, err := svc.MarkPaid(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LaundryPaid, paid.PaymentStatus)
}
