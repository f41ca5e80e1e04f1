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

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> notifikasi user yang sedang login
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := nc.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if notifType := c.Query("type"); notifType != "" {
		query = query.Where("type = ?", notifType)
	}

	var notifs []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var unread int64
	nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)

	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"notifications": notifs,
		"unread_count":  unread,
	})
}

// MarkRead menandai satu notifikasi sudah dibaca.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))
	userID := c.GetUint("user_id")

	var notif models.Notification
	if err := nc.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notifikasi tidak ditemukan"))
		return
	}

	now := time.Now()
	if err := nc.DB.Model(&notif).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllRead menandai semua notifikasi user sudah dibaca.
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	now := time.Now()
	result := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{
		"updated": result.RowsAffected,
	})
}

// CreateNotification -> admin mengirim pengumuman manual
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	var input struct {
		UserID  uint   `json:"user_id" binding:"required"`
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		Type    string `json:"type"`
		Link    string `json:"link"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Type == "" {
		input.Type = models.NotifTypeSystem
	}

	notif := models.Notification{
		UserID:    input.UserID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		Link:      input.Link,
		CreatedAt: time.Now(),
	}
	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// DeleteNotification menghapus notifikasi milik user sendiri.
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))
	userID := c.GetUint("user_id")

	result := nc.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("notifikasi tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
