package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/realtime"
	"github.com/domoskost/kost-app/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetStats mengambil statistik untuk dashboard admin
func (dc *DashboardController) GetStats(c *gin.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")

	var stats struct {
		RoomStats struct {
			Total       int64   `json:"total"`
			Available   int64   `json:"available"`
			Occupied    int64   `json:"occupied"`
			Maintenance int64   `json:"maintenance"`
			Occupancy   float64 `json:"occupancy_rate"`
		} `json:"room_stats"`
		TenantStats struct {
			Active   int64 `json:"active"`
			Inactive int64 `json:"inactive"`
		} `json:"tenant_stats"`
		BillStats struct {
			Unpaid        int64   `json:"unpaid"`
			PartiallyPaid int64   `json:"partially_paid"`
			Overdue       int64   `json:"overdue"`
			Paid          int64   `json:"paid"`
			MonthRevenue  float64 `json:"month_revenue"`
			TodayRevenue  float64 `json:"today_revenue"`
		} `json:"bill_stats"`
		PaymentStats struct {
			PendingVerification int64 `json:"pending_verification"`
		} `json:"payment_stats"`
		LaundryStats struct {
			Active       int64   `json:"active"`
			ReadyPickup  int64   `json:"ready_pickup"`
			TodayOrders  int64   `json:"today_orders"`
			MonthRevenue float64 `json:"month_revenue"`
		} `json:"laundry_stats"`
	}

	// Kamar
	dc.DB.Model(&models.Room{}).Count(&stats.RoomStats.Total)
	dc.DB.Model(&models.Room{}).Where("status = ?", models.RoomAvailable).Count(&stats.RoomStats.Available)
	dc.DB.Model(&models.Room{}).Where("status = ?", models.RoomOccupied).Count(&stats.RoomStats.Occupied)
	dc.DB.Model(&models.Room{}).Where("status = ?", models.RoomMaintenance).Count(&stats.RoomStats.Maintenance)
	if stats.RoomStats.Total > 0 {
		stats.RoomStats.Occupancy = float64(stats.RoomStats.Occupied) / float64(stats.RoomStats.Total) * 100
	}

	// Penghuni
	dc.DB.Model(&models.Tenant{}).Where("status = ?", models.TenantActive).Count(&stats.TenantStats.Active)
	dc.DB.Model(&models.Tenant{}).Where("status = ?", models.TenantInactive).Count(&stats.TenantStats.Inactive)

	// Tagihan
	dc.DB.Model(&models.Bill{}).Where("status = ?", models.BillUnpaid).Count(&stats.BillStats.Unpaid)
	dc.DB.Model(&models.Bill{}).Where("status = ?", models.BillPartiallyPaid).Count(&stats.BillStats.PartiallyPaid)
	dc.DB.Model(&models.Bill{}).Where("status = ?", models.BillOverdue).Count(&stats.BillStats.Overdue)
	dc.DB.Model(&models.Bill{}).Where("status = ?", models.BillPaid).Count(&stats.BillStats.Paid)

	// Pendapatan dari pembayaran terverifikasi
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	dc.DB.Model(&models.Payment{}).
		Where("verification_status = ? AND paid_at >= ?", models.VerificationVerified, monthStart).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&stats.BillStats.MonthRevenue)
	dc.DB.Model(&models.Payment{}).
		Where("verification_status = ? AND DATE(paid_at) = ?", models.VerificationVerified, today).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&stats.BillStats.TodayRevenue)

	dc.DB.Model(&models.Payment{}).
		Where("verification_status = ?", models.VerificationPending).
		Count(&stats.PaymentStats.PendingVerification)

	// Laundry
	dc.DB.Model(&models.LaundryOrder{}).
		Where("order_status NOT IN ?", []string{models.LaundryCompleted, models.LaundryCancelled}).
		Count(&stats.LaundryStats.Active)
	dc.DB.Model(&models.LaundryOrder{}).
		Where("order_status = ?", models.LaundryReady).
		Count(&stats.LaundryStats.ReadyPickup)
	dc.DB.Model(&models.LaundryOrder{}).
		Where("DATE(received_at) = ?", today).
		Count(&stats.LaundryStats.TodayOrders)
	dc.DB.Model(&models.LaundryOrder{}).
		Where("order_status != ? AND received_at >= ?", models.LaundryCancelled, monthStart).
		Select("COALESCE(SUM(total_cost), 0)").Row().Scan(&stats.LaundryStats.MonthRevenue)

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventDashboardUpdate,
		Data:  stats,
	})

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetRecentActivities mengambil aktivitas terbaru untuk panel dashboard
func (dc *DashboardController) GetRecentActivities(c *gin.Context) {
	var payments []models.Payment
	dc.DB.Preload("Bill.Tenant.User").
		Order("created_at DESC").Limit(10).
		Find(&payments)

	var laundryLogs []models.LaundryStatusLog
	dc.DB.Preload("User").
		Order("created_at DESC").Limit(10).
		Find(&laundryLogs)

	var checkIns []models.Tenant
	dc.DB.Preload("User").Preload("Room").
		Where("check_in_date IS NOT NULL").
		Order("check_in_date DESC").Limit(5).
		Find(&checkIns)

	utils.RespondJSON(c, http.StatusOK, "Recent activities", gin.H{
		"recent_payments":     payments,
		"recent_laundry_logs": laundryLogs,
		"recent_check_ins":    checkIns,
	})
}

// GetMyDashboard -> ringkasan untuk penghuni yang login
func (dc *DashboardController) GetMyDashboard(c *gin.Context) {
	userID := c.GetUint("user_id")

	var tenant models.Tenant
	if err := dc.DB.Preload("Room").Where("user_id = ?", userID).
		Order("id DESC").First(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("data penghuni tidak ditemukan"))
		return
	}

	var outstanding []models.Bill
	dc.DB.Where("tenant_id = ? AND status != ?", tenant.ID, models.BillPaid).
		Order("period_year DESC, period_month DESC").
		Find(&outstanding)

	var activeLaundry []models.LaundryOrder
	dc.DB.Preload("Service").
		Where("tenant_id = ? AND order_status NOT IN ?", tenant.ID,
			[]string{models.LaundryCompleted, models.LaundryCancelled}).
		Order("received_at DESC").
		Find(&activeLaundry)

	var unreadNotifs int64
	dc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unreadNotifs)

	utils.RespondJSON(c, http.StatusOK, "Tenant dashboard", gin.H{
		"tenant":               tenant,
		"outstanding_bills":    outstanding,
		"active_laundry":       activeLaundry,
		"unread_notifications": unreadNotifs,
	})
}
