package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/realtime"
	"github.com/domoskost/kost-app/utils"
)

// notifyUser menulis notifikasi untuk user dan menyiarkannya ke
// dashboard. Best-effort: kegagalan hanya dicatat di log, tidak pernah
// menggagalkan operasi pemanggil.
func notifyUser(db *gorm.DB, userID uint, title, message, notifType, link string) {
	notif := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Link:      link,
		CreatedAt: time.Now(),
	}

	if err := db.Create(&notif).Error; err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("failed to enqueue notification for user %d: %v", userID, err)
		}
		return
	}

	realtime.BroadcastNotification(notif)
}
