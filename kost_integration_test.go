package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/router"
	"github.com/domoskost/kost-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama lewat router asli:
// 0. Seed admin + penghuni, login -> token
// 1. Admin membuat tagihan sewa
// 2. Penghuni mengirim konfirmasi pembayaran transfer
// 3. Admin memverifikasi -> tagihan lunas
// 4. Order laundry berjalan sampai Siap Diambil
// 5. Penghuni melihat tagihannya dan melacak laundry
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	adminToken := loginAs(t, r, "admin", "secret123")
	tenantToken := loginAs(t, r, "budi", "secret123")

	// Admin membuat tagihan.
	w := request(t, r, "POST", "/admin/bills", adminToken, map[string]interface{}{
		"tenant_id":    1,
		"period_month": 3,
		"period_year":  2025,
		"issue_date":   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"due_date":     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		"items": []map[string]interface{}{{
			"category":    models.BillItemRent,
			"description": "Sewa Kamar Maret 2025",
			"quantity":    1,
			"unit_price":  1500000,
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var billResp struct {
		Data models.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &billResp))
	billID := billResp.Data.ID

	// Penghuni mengirim konfirmasi transfer.
	w = request(t, r, "POST", "/admin/my/payments", tenantToken, map[string]interface{}{
		"bill_id":   billID,
		"amount":    1500000,
		"method":    models.PaymentMethodTransfer,
		"proof_ref": "bukti-transfer.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var paymentResp struct {
		Data models.Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paymentResp))
	assert.Equal(t, models.VerificationPending, paymentResp.Data.VerificationStatus)

	// Admin memverifikasi.
	w = request(t, r, "POST",
		fmt.Sprintf("/admin/payments/%d/verify", paymentResp.Data.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, r, "GET", fmt.Sprintf("/admin/bills/%d", billID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &billResp))
	assert.Equal(t, models.BillPaid, billResp.Data.Status)

	// Laundry: buat layanan + order, majukan sampai Siap Diambil.
	w = request(t, r, "POST", "/admin/laundry/services", adminToken, map[string]interface{}{
		"name":          "Cuci Kering Setrika",
		"price_per_kg":  7000,
		"estimate_days": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var svcResp struct {
		Data models.LaundryService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &svcResp))

	w = request(t, r, "POST", "/admin/laundry/orders", adminToken, map[string]interface{}{
		"tenant_id":  1,
		"service_id": svcResp.Data.ID,
		"weight_kg":  3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var orderResp struct {
		Data models.LaundryOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResp))
	orderID := orderResp.Data.ID

	for _, status := range []string{
		models.LaundryWashing,
		models.LaundryDrying,
		models.LaundryIroning,
		models.LaundryReady,
	} {
		w = request(t, r, "PATCH",
			fmt.Sprintf("/admin/laundry/orders/%d/status", orderID), adminToken,
			map[string]interface{}{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// Penghuni melihat tagihan + melacak laundry.
	w = request(t, r, "GET", "/admin/my/bills", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var myBills struct {
		Data []models.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &myBills))
	require.Len(t, myBills.Data, 1)
	assert.Equal(t, models.BillPaid, myBills.Data[0].Status)

	w = request(t, r, "GET", "/admin/my/laundry", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var myLaundry struct {
		Data []struct {
			models.LaundryOrder
			Progress int `json:"progress"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &myLaundry))
	require.Len(t, myLaundry.Data, 1)
	assert.Equal(t, models.LaundryReady, myLaundry.Data[0].OrderStatus)
	assert.Equal(t, 90, myLaundry.Data[0].Progress)

	// Notifikasi penghuni terkumpul selama flow.
	w = request(t, r, "GET", "/admin/notifications", tenantToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notifResp struct {
		Data struct {
			UnreadCount int64 `json:"unread_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifResp))
	assert.Greater(t, notifResp.Data.UnreadCount, int64(0))
}

// setupIntegrationDB -> migrasi model di SQLite in-memory + seed data
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
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
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)

	admin := models.User{
		Role:     models.RoleAdmin,
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hashed),
		FullName: "Test Admin",
		IsActive: true,
	}
	db.Create(&admin)

	tenantUser := models.User{
		Role:     models.RoleTenant,
		Username: "budi",
		Email:    "budi@example.com",
		Password: string(hashed),
		FullName: "Budi Santoso",
		IsActive: true,
	}
	db.Create(&tenantUser)

	room := models.Room{
		Code:        "A-101",
		Floor:       1,
		RoomType:    "Standard",
		MonthlyRate: 1500000,
		Status:      models.RoomOccupied,
	}
	db.Create(&room)

	checkIn := time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local)
	db.Create(&models.Tenant{
		UserID:      tenantUser.ID,
		RoomID:      &room.ID,
		CheckInDate: &checkIn,
		Status:      models.TenantActive,
	})

	return db
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()

	w := request(t, r, "POST", "/login", "", map[string]interface{}{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func request(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
