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

type PaymentController struct {
	DB      *gorm.DB
	Billing *services.BillingService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Billing: services.NewBillingService(db)}
}

// GetAllPayments dengan filter status verifikasi dan metode
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := pc.DB.Model(&models.Payment{})
	if status := c.Query("verification_status"); status != "" {
		query = query.Where("verification_status = ?", status)
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("method = ?", method)
	}
	if billID := c.Query("bill_id"); billID != "" {
		query = query.Where("bill_id = ?", billID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var payments []models.Payment
	if err := query.Preload("Bill.Tenant.User").Preload("Verifier").
		Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPaginated(c, http.StatusOK, "List of payments", payments, utils.PageMeta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var payment models.Payment
	if err := pc.DB.Preload("Bill.Tenant.User").Preload("Verifier").
		First(&payment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("pembayaran tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// CreatePayment -> petugas mencatat pembayaran (tunai langsung
// terverifikasi, lainnya menunggu).
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var input struct {
		BillID   uint       `json:"bill_id" binding:"required"`
		Amount   float64    `json:"amount" binding:"required,gt=0"`
		Method   string     `json:"method" binding:"required"`
		ProofRef string     `json:"proof_ref"`
		PaidAt   *time.Time `json:"paid_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch input.Method {
	case models.PaymentMethodCash, models.PaymentMethodTransfer, models.PaymentMethodEWallet:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("metode pembayaran tidak dikenal"))
		return
	}

	now := time.Now()
	paidAt := now
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	userID := c.GetUint("user_id")
	payment, err := pc.Billing.RecordPayment(services.RecordPaymentInput{
		BillID:       input.BillID,
		PaidAt:       paidAt,
		Amount:       input.Amount,
		Method:       input.Method,
		ProofRef:     input.ProofRef,
		ActingUserID: &userID,
	}, now)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment recorded", payment)
}

// SubmitMyPayment -> penghuni mengunggah konfirmasi pembayaran untuk
// tagihannya sendiri; selalu berstatus Menunggu.
func (pc *PaymentController) SubmitMyPayment(c *gin.Context) {
	var input struct {
		BillID   uint       `json:"bill_id" binding:"required"`
		Amount   float64    `json:"amount" binding:"required,gt=0"`
		Method   string     `json:"method" binding:"required"`
		ProofRef string     `json:"proof_ref"`
		PaidAt   *time.Time `json:"paid_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Method != models.PaymentMethodTransfer && input.Method != models.PaymentMethodEWallet {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("pembayaran mandiri hanya via Transfer Bank atau E-Wallet"))
		return
	}

	userID := c.GetUint("user_id")

	// Tagihan harus milik penghuni yang login.
	var bill models.Bill
	if err := pc.DB.Preload("Tenant").First(&bill, input.BillID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("tagihan tidak ditemukan"))
		return
	}
	if bill.Tenant.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("tagihan bukan milik anda"))
		return
	}

	now := time.Now()
	paidAt := now
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	payment, err := pc.Billing.RecordPayment(services.RecordPaymentInput{
		BillID:   input.BillID,
		PaidAt:   paidAt,
		Amount:   input.Amount,
		Method:   input.Method,
		ProofRef: input.ProofRef,
	}, now)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Konfirmasi pembayaran dikirim", payment)
}

// VerifyPayment menyetujui pembayaran yang menunggu verifikasi.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var input struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&input)

	userID := c.GetUint("user_id")
	payment, err := pc.Billing.VerifyPayment(uint(id), userID, input.Note, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Payment %d verified by user %d", payment.ID, userID)
	utils.RespondJSON(c, http.StatusOK, "Payment verified", payment)
}

// RejectPayment menolak pembayaran yang menunggu verifikasi.
func (pc *PaymentController) RejectPayment(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var input struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetUint("user_id")
	payment, err := pc.Billing.RejectPayment(uint(id), userID, input.Note, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Payment %d rejected by user %d", payment.ID, userID)
	utils.RespondJSON(c, http.StatusOK, "Payment rejected", payment)
}

// GetPendingPayments -> antrian verifikasi untuk admin/staff
func (pc *PaymentController) GetPendingPayments(c *gin.Context) {
	var payments []models.Payment
	if err := pc.DB.Preload("Bill.Tenant.User").
		Where("verification_status = ?", models.VerificationPending).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Pending payments", payments)
}
