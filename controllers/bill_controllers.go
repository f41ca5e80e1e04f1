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

type BillController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewBillController(db *gorm.DB) *BillController {
	return &BillController{DB: db, Billing: services.NewBillingService(db)}
}

// respondServiceError memetakan error dari service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrDuplicatePeriod),
		errors.Is(err, services.ErrBillLocked),
		errors.Is(err, services.ErrPaymentNotPending):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrPaymentExceeds),
		errors.Is(err, services.ErrServiceInactive):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrConcurrencyConflict):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// GetAllBills dengan filter status/periode/penghuni + pagination
func (bc *BillController) GetAllBills(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := bc.DB.Model(&models.Bill{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if month := c.Query("month"); month != "" {
		query = query.Where("period_month = ?", month)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("period_year = ?", year)
	}
	if tenantID := c.Query("tenant_id"); tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bills []models.Bill
	if err := query.Preload("Tenant.User").Preload("Items").
		Order("period_year DESC, period_month DESC, id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&bills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPaginated(c, http.StatusOK, "List of bills", bills, utils.PageMeta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

func (bc *BillController) GetBillByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("bill_id"))

	var bill models.Bill
	if err := bc.DB.Preload("Tenant.User").Preload("Tenant.Room").
		Preload("Items").Preload("Payments.Verifier").
		First(&bill, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("tagihan tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

func (bc *BillController) CreateBill(c *gin.Context) {
	var input struct {
		TenantID    uint                     `json:"tenant_id" binding:"required"`
		PeriodMonth int                      `json:"period_month" binding:"required,min=1,max=12"`
		PeriodYear  int                      `json:"period_year" binding:"required,min=2000"`
		IssueDate   time.Time                `json:"issue_date" binding:"required"`
		DueDate     time.Time                `json:"due_date" binding:"required"`
		Note        string                   `json:"note"`
		Items       []services.BillItemInput `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	bill, err := bc.Billing.CreateBill(services.CreateBillInput{
		TenantID:    input.TenantID,
		PeriodMonth: input.PeriodMonth,
		PeriodYear:  input.PeriodYear,
		IssueDate:   input.IssueDate,
		DueDate:     input.DueDate,
		Note:        input.Note,
		Items:       input.Items,
		CreatedBy:   &userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Bill created", bill)
}

// UpdateBill mengubah catatan/tanggal tagihan. Tagihan lunas terkunci.
func (bc *BillController) UpdateBill(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("bill_id"))

	var bill models.Bill
	if err := bc.DB.First(&bill, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("tagihan tidak ditemukan"))
		return
	}
	if bill.IsPaid() {
		utils.RespondError(c, http.StatusConflict, errors.New("tagihan lunas tidak bisa diubah"))
		return
	}

	var input struct {
		Note    *string    `json:"note"`
		DueDate *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Note != nil {
		bill.Note = *input.Note
	}
	dueChanged := false
	if input.DueDate != nil {
		bill.DueDate = *input.DueDate
		dueChanged = true
	}

	if err := bc.DB.Save(&bill).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Geser jatuh tempo bisa mengubah status/denda.
	if dueChanged {
		updated, err := bc.Billing.RecomputeStatus(bill.ID, time.Now())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		bill = *updated
	}

	utils.RespondJSON(c, http.StatusOK, "Bill updated", bill)
}

// GenerateMonthlyBills menerbitkan tagihan sewa untuk semua penghuni
// aktif pada satu periode.
func (bc *BillController) GenerateMonthlyBills(c *gin.Context) {
	var input struct {
		Month int `json:"month" binding:"required,min=1,max=12"`
		Year  int `json:"year" binding:"required,min=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	result, err := bc.Billing.GenerateMonthlyBills(input.Month, input.Year, &userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Monthly bills generated for %d-%02d: created=%d skipped=%d",
		input.Year, input.Month, result.Created, result.Skipped)
	utils.RespondJSON(c, http.StatusOK, "Monthly bills generated", result)
}

// RecomputeBill menghitung ulang status + denda tagihan hari ini.
func (bc *BillController) RecomputeBill(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("bill_id"))

	bill, err := bc.Billing.RecomputeStatus(uint(id), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill status recomputed", bill)
}

// GetMyBills -> penghuni melihat tagihannya sendiri
func (bc *BillController) GetMyBills(c *gin.Context) {
	userID := c.GetUint("user_id")

	var tenant models.Tenant
	if err := bc.DB.Where("user_id = ?", userID).
		Order("id DESC").First(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("data penghuni tidak ditemukan"))
		return
	}

	query := bc.DB.Model(&models.Bill{}).Where("tenant_id = ?", tenant.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bills []models.Bill
	if err := query.Preload("Items").Preload("Payments").
		Order("period_year DESC, period_month DESC").
		Find(&bills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "My bills", bills)
}

// GetMyBillByID -> detail tagihan milik penghuni sendiri
func (bc *BillController) GetMyBillByID(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.Atoi(c.Param("bill_id"))

	var tenant models.Tenant
	if err := bc.DB.Where("user_id = ?", userID).
		Order("id DESC").First(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("data penghuni tidak ditemukan"))
		return
	}

	var bill models.Bill
	if err := bc.DB.Preload("Items").Preload("Payments").
		Where("tenant_id = ?", tenant.ID).
		First(&bill, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("tagihan tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}
