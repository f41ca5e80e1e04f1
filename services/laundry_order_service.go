package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/realtime"
	"github.com/domoskost/kost-app/utils"
)

// Batas percobaan ulang saat dua order dibuat bersamaan dan berebut
// nomor urut kode yang sama.
const codeGenMaxAttempts = 3

// LaundryOrderService menangani pembuatan order laundry dan mesin
// status: Diterima -> Dicuci -> Dikeringkan -> Disetrika ->
// Siap Diambil -> Selesai, dengan Dibatalkan dari status non-terminal.
type LaundryOrderService struct {
	DB *gorm.DB
}

func NewLaundryOrderService(db *gorm.DB) *LaundryOrderService {
	return &LaundryOrderService{DB: db}
}

type CreateOrderInput struct {
	TenantID   uint
	ServiceID  uint
	WeightKg   float64
	Note       string
	ReceivedBy *uint
}

// CreateOrder membuat order laundry baru. Kode order LD-YYYYMM-NNN
// diambil dari urutan per bulan; konflik penulisan bersamaan ditangkap
// oleh unique constraint pada kolom code dan dicoba ulang.
func (s *LaundryOrderService) CreateOrder(in CreateOrderInput, now time.Time) (*models.LaundryOrder, error) {
	var tenant models.Tenant
	if err := s.DB.Preload("User").First(&tenant, in.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var service models.LaundryService
	if err := s.DB.First(&service, in.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}

	order := models.LaundryOrder{
		TenantID:      in.TenantID,
		ServiceID:     in.ServiceID,
		ReceivedBy:    in.ReceivedBy,
		ReceivedAt:    now,
		EstimatedDate: now.AddDate(0, 0, service.EstimateDays),
		WeightKg:      in.WeightKg,
		TotalCost:     service.CalculatePrice(in.WeightKg),
		OrderStatus:   models.LaundryReceived,
		PaymentStatus: models.LaundryUnpaid,
		Note:          in.Note,
	}

	var lastErr error
	for attempt := 0; attempt < codeGenMaxAttempts; attempt++ {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			seq, err := nextCodeSequence(tx, now)
			if err != nil {
				return err
			}
			order.ID = 0
			order.Code = models.FormatLaundryCode(now, seq)
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			changedBy := uint(0)
			if in.ReceivedBy != nil {
				changedBy = *in.ReceivedBy
			}
			log := models.LaundryStatusLog{
				LaundryOrderID: order.ID,
				PreviousStatus: nil,
				NewStatus:      models.LaundryReceived,
				ChangedBy:      changedBy,
				Note:           "Order dibuat",
				CreatedAt:      now,
			}
			return tx.Create(&log).Error
		})
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if lastErr != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("laundry code generation exhausted retries: %v", lastErr)
		}
		return nil, ErrConcurrencyConflict
	}

	order.Service = service
	order.Tenant = tenant

	notifyUser(s.DB, tenant.UserID,
		"Order Laundry Diterima",
		fmt.Sprintf("Order laundry %s (%.1f kg) telah diterima. Estimasi selesai: %s",
			order.Code, order.WeightKg, order.EstimatedDate.Format("02/01/2006")),
		models.NotifTypeLaundry,
		fmt.Sprintf("/penghuni/laundry/%d", order.ID))
	realtime.BroadcastLaundryUpdate(order)

	return &order, nil
}

// nextCodeSequence membaca suffix numerik terbesar dari kode bulan
// berjalan dan mengembalikan urutan berikutnya (mulai dari 1).
func nextCodeSequence(tx *gorm.DB, now time.Time) (int, error) {
	prefix := models.LaundryCodePrefix(now)

	var codes []string
	err := tx.Model(&models.LaundryOrder{}).
		Where("code LIKE ?", prefix+"%").
		Order("code DESC").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil {
		return 0, err
	}
	if len(codes) == 0 {
		return 1, nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(codes[0], prefix))
	if err != nil {
		return 0, fmt.Errorf("kode order tidak valid %q: %w", codes[0], err)
	}
	return seq + 1, nil
}

// AdvanceOrder mengubah status order ke newStatus. Transisi divalidasi
// terhadap rantai status; perubahan status dan catatan audit ditulis
// dalam satu transaksi. Notifikasi penghuni dikirim setelah commit dan
// kegagalannya tidak membatalkan transisi.
func (s *LaundryOrderService) AdvanceOrder(orderID uint, newStatus string, actingUserID uint, note string, now time.Time) (*models.LaundryOrder, error) {
	var order models.LaundryOrder

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tenant.User").Preload("Service").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !order.CanTransitionTo(newStatus) {
			return ErrInvalidTransition
		}

		previous := order.OrderStatus
		order.OrderStatus = newStatus
		if newStatus == models.LaundryCompleted {
			order.CompletedAt = &now
			order.CompletedBy = &actingUserID
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		log := models.LaundryStatusLog{
			LaundryOrderID: order.ID,
			PreviousStatus: &previous,
			NewStatus:      newStatus,
			ChangedBy:      actingUserID,
			Note:           note,
			CreatedAt:      now,
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case models.LaundryReady:
		notifyUser(s.DB, order.Tenant.UserID,
			"Laundry Siap Diambil",
			fmt.Sprintf("Laundry %s sudah selesai dan siap diambil.", order.Code),
			models.NotifTypeLaundry,
			fmt.Sprintf("/penghuni/laundry/%d", order.ID))
	case models.LaundryCompleted:
		notifyUser(s.DB, order.Tenant.UserID,
			"Laundry Selesai",
			fmt.Sprintf("Order laundry %s telah diselesaikan. Terima kasih.", order.Code),
			models.NotifTypeLaundry,
			fmt.Sprintf("/penghuni/laundry/%d", order.ID))
	case models.LaundryCancelled:
		notifyUser(s.DB, order.Tenant.UserID,
			"Order Laundry Dibatalkan",
			fmt.Sprintf("Order laundry %s dibatalkan. %s", order.Code, note),
			models.NotifTypeLaundry,
			fmt.Sprintf("/penghuni/laundry/%d", order.ID))
	}
	realtime.BroadcastLaundryUpdate(order)

	return &order, nil
}

// MarkPaid menandai order laundry sudah dibayar.
func (s *LaundryOrderService) MarkPaid(orderID uint) (*models.LaundryOrder, error) {
	var order models.LaundryOrder
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.OrderStatus == models.LaundryCancelled {
		return nil, ErrInvalidTransition
	}

	order.PaymentStatus = models.LaundryPaid
	if err := s.DB.Save(&order).Error; err != nil {
		return nil, err
	}
	realtime.BroadcastLaundryUpdate(order)
	return &order, nil
}
