package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/services"
	"github.com/domoskost/kost-app/utils"
)

type LaundryController struct {
	DB     *gorm.DB
	Orders *services.LaundryOrderService
}

func NewLaundryController(db *gorm.DB) *LaundryController {
	return &LaundryController{DB: db, Orders: services.NewLaundryOrderService(db)}
}

// ---------------- Jenis layanan ----------------

func (lc *LaundryController) GetAllServices(c *gin.Context) {
	query := lc.DB.Model(&models.LaundryService{})
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var svcs []models.LaundryService
	if err := query.Order("name ASC").Find(&svcs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of laundry services", svcs)
}

func (lc *LaundryController) CreateService(c *gin.Context) {
	var input struct {
		Name         string  `json:"name" binding:"required"`
		PricePerKg   float64 `json:"price_per_kg" binding:"required,gt=0"`
		EstimateDays int     `json:"estimate_days" binding:"required,min=1"`
		Description  string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	svc := models.LaundryService{
		Name:         input.Name,
		PricePerKg:   input.PricePerKg,
		EstimateDays: input.EstimateDays,
		Description:  input.Description,
		IsActive:     true,
	}
	if err := lc.DB.Create(&svc).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Laundry service created", svc)
}

func (lc *LaundryController) UpdateService(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	var svc models.LaundryService
	if err := lc.DB.First(&svc, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("jenis layanan tidak ditemukan"))
		return
	}

	var input struct {
		Name         *string  `json:"name"`
		PricePerKg   *float64 `json:"price_per_kg"`
		EstimateDays *int     `json:"estimate_days"`
		Description  *string  `json:"description"`
		IsActive     *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Name != nil {
		svc.Name = *input.Name
	}
	if input.PricePerKg != nil {
		svc.PricePerKg = *input.PricePerKg
	}
	if input.EstimateDays != nil {
		svc.EstimateDays = *input.EstimateDays
	}
	if input.Description != nil {
		svc.Description = *input.Description
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}

	if err := lc.DB.Save(&svc).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Laundry service updated", svc)
}

// ---------------- Orders ----------------

// GetAllOrders dengan filter status, penghuni, dan rentang tanggal
func (lc *LaundryController) GetAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := lc.DB.Model(&models.LaundryOrder{})
	if status := c.Query("status"); status != "" {
		query = query.Where("order_status = ?", status)
	}
	if payment := c.Query("payment_status"); payment != "" {
		query = query.Where("payment_status = ?", payment)
	}
	if tenantID := c.Query("tenant_id"); tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("received_at >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("received_at < ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.LaundryOrder
	if err := query.Preload("Tenant.User").Preload("Service").
		Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPaginated(c, http.StatusOK, "List of laundry orders", orders, utils.PageMeta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

func (lc *LaundryController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.LaundryOrder
	if err := lc.DB.Preload("Tenant.User").Preload("Service").
		Preload("Receiver").Preload("Completer").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("laundry_status_logs.id ASC")
		}).
		Preload("StatusLogs.User").
		First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Laundry order detail", gin.H{
		"order":    order,
		"progress": order.ProgressPercentage(),
		"next":     order.NextStatus(),
	})
}

func (lc *LaundryController) CreateOrder(c *gin.Context) {
	var input struct {
		TenantID  uint    `json:"tenant_id" binding:"required"`
		ServiceID uint    `json:"service_id" binding:"required"`
		WeightKg  float64 `json:"weight_kg" binding:"required,gt=0"`
		Note      string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	order, err := lc.Orders.CreateOrder(services.CreateOrderInput{
		TenantID:   input.TenantID,
		ServiceID:  input.ServiceID,
		WeightKg:   input.WeightKg,
		Note:       input.Note,
		ReceivedBy: &userID,
	}, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Laundry order %s created (%.1f kg)", order.Code, order.WeightKg)
	utils.RespondJSON(c, http.StatusCreated, "Laundry order created", order)
}

// UpdateOrder mengubah berat/catatan order. Order terminal terkunci.
func (lc *LaundryController) UpdateOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.LaundryOrder
	if err := lc.DB.Preload("Service").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order tidak ditemukan"))
		return
	}
	if order.IsTerminal() {
		utils.RespondError(c, http.StatusConflict, errors.New("order selesai atau dibatalkan tidak bisa diubah"))
		return
	}

	var input struct {
		WeightKg *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
		Note     *string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.WeightKg != nil {
		order.WeightKg = *input.WeightKg
		order.TotalCost = order.Service.CalculatePrice(*input.WeightKg)
	}
	if input.Note != nil {
		order.Note = *input.Note
	}

	if err := lc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Laundry order updated", order)
}

// UpdateOrderStatus memajukan status order satu langkah atau
// membatalkannya.
func (lc *LaundryController) UpdateOrderStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var input struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	order, err := lc.Orders.AdvanceOrder(uint(id), input.Status, userID, input.Note, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Laundry order %s -> %s by user %d", order.Code, input.Status, userID)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// MarkOrderPaid menandai order sudah dibayar.
func (lc *LaundryController) MarkOrderPaid(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := lc.Orders.MarkPaid(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order marked as paid", order)
}

// GetMyOrders -> penghuni melacak laundrynya sendiri
func (lc *LaundryController) GetMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	var tenant models.Tenant
	if err := lc.DB.Where("user_id = ?", userID).
		Order("id DESC").First(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("data penghuni tidak ditemukan"))
		return
	}

	var orders []models.LaundryOrder
	if err := lc.DB.Preload("Service").
		Where("tenant_id = ?", tenant.ID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type trackedOrder struct {
		models.LaundryOrder
		Progress int `json:"progress"`
	}
	tracked := make([]trackedOrder, 0, len(orders))
	for _, o := range orders {
		tracked = append(tracked, trackedOrder{LaundryOrder: o, Progress: o.ProgressPercentage()})
	}

	utils.RespondJSON(c, http.StatusOK, "My laundry orders", tracked)
}

// SubmitMyOrder -> penghuni memasukkan laundry sendiri. Ditolak jika
// masih menumpuk order selesai yang belum dibayar.
func (lc *LaundryController) SubmitMyOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	var tenant models.Tenant
	if err := lc.DB.Where("user_id = ? AND status = ?", userID, models.TenantActive).
		Order("id DESC").First(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("data penghuni tidak ditemukan"))
		return
	}

	var input struct {
		ServiceID uint    `json:"service_id" binding:"required"`
		WeightKg  float64 `json:"weight_kg" binding:"required,gt=0"`
		Note      string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var unpaidDone int64
	if err := lc.DB.Model(&models.LaundryOrder{}).
		Where("tenant_id = ? AND order_status = ? AND payment_status = ?",
			tenant.ID, models.LaundryCompleted, models.LaundryUnpaid).
		Count(&unpaidDone).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if unpaidDone >= 3 {
		utils.RespondError(c, http.StatusUnprocessableEntity,
			errors.New("masih ada order selesai yang belum dibayar, lunasi dulu"))
		return
	}

	order, err := lc.Orders.CreateOrder(services.CreateOrderInput{
		TenantID:  tenant.ID,
		ServiceID: input.ServiceID,
		WeightKg:  input.WeightKg,
		Note:      input.Note,
	}, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Laundry order created", gin.H{
		"order":    order,
		"progress": order.ProgressPercentage(),
	})
}

// GetBoard mengelompokkan order aktif per status untuk papan kerja staff.
func (lc *LaundryController) GetBoard(c *gin.Context) {
	var orders []models.LaundryOrder
	if err := lc.DB.Preload("Tenant.User").Preload("Service").
		Where("order_status NOT IN ?", []string{models.LaundryCompleted, models.LaundryCancelled}).
		Order("received_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board := map[string][]models.LaundryOrder{
		models.LaundryReceived: {},
		models.LaundryWashing:  {},
		models.LaundryDrying:   {},
		models.LaundryIroning:  {},
		models.LaundryReady:    {},
	}
	for _, o := range orders {
		board[o.OrderStatus] = append(board[o.OrderStatus], o)
	}

	utils.RespondJSON(c, http.StatusOK, "Laundry board", board)
}
