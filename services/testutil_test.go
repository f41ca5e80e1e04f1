package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/domoskost/kost-app/models"
)

// setupTestDB membuka database sqlite in-memory terpisah per test.
// MaxOpenConns(1) membuat akses serial sehingga hasil test deterministik.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Tenant{},
		&models.Bill{},
		&models.BillItem{},
		&models.Payment{},
		&models.LaundryService{},
		&models.LaundryOrder{},
		&models.LaundryStatusLog{},
		&models.Notification{},
		&models.Setting{},
	))

	return db
}

// seedTenant membuat user + kamar + penghuni aktif siap pakai.
func seedTenant(t *testing.T, db *gorm.DB, username string) models.Tenant {
	t.Helper()

	user := models.User{
		Role:     models.RoleTenant,
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		FullName: "Penghuni " + username,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	room := models.Room{
		Code:        "K-" + username,
		Floor:       1,
		RoomType:    "Standard",
		MonthlyRate: 1500000,
		Status:      models.RoomOccupied,
	}
	require.NoError(t, db.Create(&room).Error)

	checkIn := time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local)
	tenant := models.Tenant{
		UserID:      user.ID,
		RoomID:      &room.ID,
		CheckInDate: &checkIn,
		Status:      models.TenantActive,
	}
	require.NoError(t, db.Create(&tenant).Error)
	tenant.User = user
	tenant.Room = &room

	return tenant
}

// seedStaff membuat user admin/staff untuk jadi aktor operasi.
func seedStaff(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()

	user := models.User{
		Role:     role,
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		FullName: "Petugas " + username,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedLaundryService membuat jenis layanan laundry aktif.
func seedLaundryService(t *testing.T, db *gorm.DB) models.LaundryService {
	t.Helper()

	service := models.LaundryService{
		Name:         "Cuci Kering Setrika",
		PricePerKg:   7000,
		EstimateDays: 2,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&service).Error)
	return service
}
