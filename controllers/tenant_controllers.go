package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/utils"
)

type TenantController struct {
	DB *gorm.DB
}

func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{DB: db}
}

// GetAllTenants dengan filter status dan pencarian nama
func (tc *TenantController) GetAllTenants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := tc.DB.Model(&models.Tenant{}).
		Joins("JOIN users ON users.id = tenants.user_id")

	if status := c.Query("status"); status != "" {
		query = query.Where("tenants.status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("users.full_name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var tenants []models.Tenant
	if err := query.Preload("User").Preload("Room").
		Order("users.full_name ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&tenants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPaginated(c, http.StatusOK, "List of tenants", tenants, utils.PageMeta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

func (tc *TenantController) GetTenantByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tenant_id"))

	var tenant models.Tenant
	if err := tc.DB.Preload("User").Preload("Room").First(&tenant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("penghuni tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tenant detail", tenant)
}

// CreateTenant mendaftarkan penghuni baru untuk user yang sudah ada.
func (tc *TenantController) CreateTenant(c *gin.Context) {
	var input struct {
		UserID           uint   `json:"user_id" binding:"required"`
		IDCardNumber     string `json:"id_card_number"`
		Gender           string `json:"gender"`
		Occupation       string `json:"occupation"`
		EmergencyContact string `json:"emergency_contact"`
		EmergencyPhone   string `json:"emergency_phone"`
		Note             string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := tc.DB.First(&user, input.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user tidak ditemukan"))
		return
	}

	var existing int64
	tc.DB.Model(&models.Tenant{}).
		Where("user_id = ? AND status = ?", input.UserID, models.TenantActive).
		Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("user sudah terdaftar sebagai penghuni aktif"))
		return
	}

	tenant := models.Tenant{
		UserID:           input.UserID,
		IDCardNumber:     input.IDCardNumber,
		Gender:           input.Gender,
		Occupation:       input.Occupation,
		EmergencyContact: input.EmergencyContact,
		EmergencyPhone:   input.EmergencyPhone,
		Status:           models.TenantActive,
		Note:             input.Note,
	}
	if err := tc.DB.Create(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Tenant created", tenant)
}

func (tc *TenantController) UpdateTenant(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tenant_id"))

	var tenant models.Tenant
	if err := tc.DB.First(&tenant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("penghuni tidak ditemukan"))
		return
	}

	var input struct {
		IDCardNumber     *string `json:"id_card_number"`
		Gender           *string `json:"gender"`
		Occupation       *string `json:"occupation"`
		EmergencyContact *string `json:"emergency_contact"`
		EmergencyPhone   *string `json:"emergency_phone"`
		Note             *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.IDCardNumber != nil {
		tenant.IDCardNumber = *input.IDCardNumber
	}
	if input.Gender != nil {
		tenant.Gender = *input.Gender
	}
	if input.Occupation != nil {
		tenant.Occupation = *input.Occupation
	}
	if input.EmergencyContact != nil {
		tenant.EmergencyContact = *input.EmergencyContact
	}
	if input.EmergencyPhone != nil {
		tenant.EmergencyPhone = *input.EmergencyPhone
	}
	if input.Note != nil {
		tenant.Note = *input.Note
	}

	if err := tc.DB.Save(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tenant updated", tenant)
}

// CheckIn menempatkan penghuni ke kamar yang tersedia. Kamar berubah
// jadi Terisi dalam transaksi yang sama.
func (tc *TenantController) CheckIn(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tenant_id"))

	var input struct {
		RoomID      uint       `json:"room_id" binding:"required"`
		CheckInDate *time.Time `json:"check_in_date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	checkIn := time.Now()
	if input.CheckInDate != nil {
		checkIn = *input.CheckInDate
	}

	var tenant models.Tenant
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tenant, id).Error; err != nil {
			return errors.New("penghuni tidak ditemukan")
		}
		if tenant.RoomID != nil {
			return errors.New("penghuni sudah menempati kamar")
		}

		var room models.Room
		if err := tx.First(&room, input.RoomID).Error; err != nil {
			return errors.New("kamar tidak ditemukan")
		}
		if !room.IsAvailable() {
			return errors.New("kamar tidak tersedia")
		}

		if err := tx.Model(&room).Update("status", models.RoomOccupied).Error; err != nil {
			return err
		}

		tenant.RoomID = &input.RoomID
		tenant.CheckInDate = &checkIn
		tenant.CheckOutDate = nil
		tenant.Status = models.TenantActive
		return tx.Save(&tenant).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.InfoLogger.Printf("Tenant %d checked in to room %d", tenant.ID, input.RoomID)
	utils.RespondJSON(c, http.StatusOK, "Check-in berhasil", tenant)
}

// CheckOut mengeluarkan penghuni dari kamarnya; kamar kembali Tersedia.
func (tc *TenantController) CheckOut(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tenant_id"))

	var tenant models.Tenant
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tenant, id).Error; err != nil {
			return errors.New("penghuni tidak ditemukan")
		}
		if tenant.RoomID == nil {
			return errors.New("penghuni tidak menempati kamar")
		}

		if err := tx.Model(&models.Room{}).Where("id = ?", *tenant.RoomID).
			Update("status", models.RoomAvailable).Error; err != nil {
			return err
		}

		now := time.Now()
		tenant.RoomID = nil
		tenant.CheckOutDate = &now
		tenant.Status = models.TenantInactive
		return tx.Save(&tenant).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.InfoLogger.Printf("Tenant %d checked out", tenant.ID)
	utils.RespondJSON(c, http.StatusOK, "Check-out berhasil", tenant)
}

// DeleteTenant menghapus data penghuni. Penghuni aktif atau yang masih
// punya tagihan harus di-check-out / diarsipkan, bukan dihapus.
func (tc *TenantController) DeleteTenant(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tenant_id"))

	var tenant models.Tenant
	if err := tc.DB.First(&tenant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("penghuni tidak ditemukan"))
		return
	}
	if tenant.Status == models.TenantActive {
		utils.RespondError(c, http.StatusConflict, errors.New("penghuni aktif tidak bisa dihapus"))
		return
	}

	var billCount int64
	if err := tc.DB.Model(&models.Bill{}).
		Where("tenant_id = ?", tenant.ID).Count(&billCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if billCount > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("penghuni masih memiliki riwayat tagihan"))
		return
	}

	if err := tc.DB.Delete(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Tenant %d deleted", tenant.ID)
	utils.RespondJSON(c, http.StatusOK, "Penghuni dihapus", nil)
}
