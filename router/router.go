package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/controllers"
	"github.com/domoskost/kost-app/middlewares"
	"github.com/domoskost/kost-app/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	roomCtrl := controllers.NewRoomController(db)
	tenantCtrl := controllers.NewTenantController(db)
	billCtrl := controllers.NewBillController(db)
	paymentCtrl := controllers.NewPaymentController(db)
	laundryCtrl := controllers.NewLaundryController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	dashboardCtrl := controllers.NewDashboardController(db)
	reportCtrl := controllers.NewReportController(db)
	settingCtrl := controllers.NewSettingController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	// Profil (semua role)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)
	auth.POST("/logout", userCtrl.Logout)

	// USERS (khusus admin)
	adminOnly := auth.Group("/")
	adminOnly.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		adminOnly.GET("/users", userCtrl.GetAllUsers)
		adminOnly.PATCH("/users/:user_id/active", userCtrl.SetUserActive)

		// SETTINGS
		adminOnly.GET("/settings", settingCtrl.GetAllSettings)
		adminOnly.GET("/settings/:key", settingCtrl.GetSetting)
		adminOnly.PUT("/settings/:key", settingCtrl.UpsertSetting)

		// REPORTS
		adminOnly.GET("/reports/revenue", reportCtrl.GetRevenueReport)
		adminOnly.GET("/reports/outstanding", reportCtrl.GetOutstandingReport)
		adminOnly.GET("/reports/laundry", reportCtrl.GetLaundrySummary)
		adminOnly.GET("/reports/revenue/export-pdf", reportCtrl.ExportRevenuePDF)
	}

	// Staff/admin
	staff := auth.Group("/")
	staff.Use(middlewares.RequireRoles(models.RoleStaff))
	{
		// ROOMS
		staff.GET("/rooms", roomCtrl.GetAllRooms)
		staff.POST("/rooms", roomCtrl.CreateRoom)
		staff.GET("/rooms/:room_id", roomCtrl.GetRoomByID)
		staff.PATCH("/rooms/:room_id", roomCtrl.UpdateRoom)
		staff.DELETE("/rooms/:room_id", roomCtrl.DeleteRoom)

		// TENANTS
		staff.GET("/tenants", tenantCtrl.GetAllTenants)
		staff.POST("/tenants", tenantCtrl.CreateTenant)
		staff.GET("/tenants/:tenant_id", tenantCtrl.GetTenantByID)
		staff.PATCH("/tenants/:tenant_id", tenantCtrl.UpdateTenant)
		staff.DELETE("/tenants/:tenant_id", tenantCtrl.DeleteTenant)
		staff.POST("/tenants/:tenant_id/check-in", tenantCtrl.CheckIn)
		staff.POST("/tenants/:tenant_id/check-out", tenantCtrl.CheckOut)

		// BILLS
		staff.GET("/bills", billCtrl.GetAllBills)
		staff.POST("/bills", billCtrl.CreateBill)
		staff.GET("/bills/:bill_id", billCtrl.GetBillByID)
		staff.PATCH("/bills/:bill_id", billCtrl.UpdateBill)
		staff.POST("/bills/generate", billCtrl.GenerateMonthlyBills)
		staff.POST("/bills/:bill_id/recompute", billCtrl.RecomputeBill)

		// PAYMENTS
		staff.GET("/payments", paymentCtrl.GetAllPayments)
		staff.POST("/payments", paymentCtrl.CreatePayment)
		staff.GET("/payments/pending", paymentCtrl.GetPendingPayments)
		staff.GET("/payments/:payment_id", paymentCtrl.GetPaymentByID)
		staff.POST("/payments/:payment_id/verify", paymentCtrl.VerifyPayment)
		staff.POST("/payments/:payment_id/reject", paymentCtrl.RejectPayment)

		// LAUNDRY
		staff.GET("/laundry/services", laundryCtrl.GetAllServices)
		staff.POST("/laundry/services", laundryCtrl.CreateService)
		staff.PATCH("/laundry/services/:service_id", laundryCtrl.UpdateService)
		staff.GET("/laundry/orders", laundryCtrl.GetAllOrders)
		staff.POST("/laundry/orders", laundryCtrl.CreateOrder)
		staff.GET("/laundry/orders/:order_id", laundryCtrl.GetOrderByID)
		staff.PATCH("/laundry/orders/:order_id", laundryCtrl.UpdateOrder)
		staff.PATCH("/laundry/orders/:order_id/status", laundryCtrl.UpdateOrderStatus)
		staff.POST("/laundry/orders/:order_id/paid", laundryCtrl.MarkOrderPaid)
		staff.GET("/laundry/board", laundryCtrl.GetBoard)

		// DASHBOARD
		staff.GET("/dashboard/stats", dashboardCtrl.GetStats)
		staff.GET("/dashboard/activities", dashboardCtrl.GetRecentActivities)
	}

	// Self-service penghuni
	my := auth.Group("/my")
	{
		my.GET("/dashboard", dashboardCtrl.GetMyDashboard)
		my.GET("/bills", billCtrl.GetMyBills)
		my.GET("/bills/:bill_id", billCtrl.GetMyBillByID)
		my.POST("/payments", paymentCtrl.SubmitMyPayment)
		my.GET("/laundry", laundryCtrl.GetMyOrders)
		my.POST("/laundry", laundryCtrl.SubmitMyOrder)
	}

	// NOTIFICATIONS (semua role)
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)
	auth.PATCH("/notifications/read-all", notificationCtrl.MarkAllRead)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)
	adminOnly.POST("/notifications", notificationCtrl.CreateNotification)

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.StreamHandler)
	}

	return r
}
