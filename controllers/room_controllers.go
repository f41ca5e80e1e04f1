package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/utils"
)

type RoomController struct {
	DB *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db}
}

// GetAllRooms dengan filter status / lantai / tipe
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	query := rc.DB.Model(&models.Room{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if floor := c.Query("floor"); floor != "" {
		query = query.Where("floor = ?", floor)
	}
	if roomType := c.Query("type"); roomType != "" {
		query = query.Where("room_type = ?", roomType)
	}

	var rooms []models.Room
	if err := query.Order("code ASC").Find(&rooms).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of rooms", rooms)
}

func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("room_id"))

	var room models.Room
	if err := rc.DB.First(&room, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("kamar tidak ditemukan"))
		return
	}

	// Sertakan penghuni aktif jika ada.
	var tenant models.Tenant
	err := rc.DB.Preload("User").
		Where("room_id = ? AND status = ?", room.ID, models.TenantActive).
		First(&tenant).Error
	if err != nil {
		utils.RespondJSON(c, http.StatusOK, "Room detail", gin.H{"room": room})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Room detail", gin.H{
		"room":   room,
		"tenant": tenant,
	})
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var input struct {
		Code        string  `json:"code" binding:"required"`
		Floor       int     `json:"floor" binding:"required"`
		RoomType    string  `json:"room_type" binding:"required"`
		MonthlyRate float64 `json:"monthly_rate" binding:"required,min=0"`
		Facilities  string  `json:"facilities"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room := models.Room{
		Code:        input.Code,
		Floor:       input.Floor,
		RoomType:    input.RoomType,
		MonthlyRate: input.MonthlyRate,
		Facilities:  input.Facilities,
		Status:      models.RoomAvailable,
	}

	if err := rc.DB.Create(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("kode kamar sudah dipakai"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Room created", room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("room_id"))

	var room models.Room
	if err := rc.DB.First(&room, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("kamar tidak ditemukan"))
		return
	}

	var input struct {
		RoomType    *string  `json:"room_type"`
		MonthlyRate *float64 `json:"monthly_rate"`
		Facilities  *string  `json:"facilities"`
		Status      *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.RoomType != nil {
		room.RoomType = *input.RoomType
	}
	if input.MonthlyRate != nil {
		room.MonthlyRate = *input.MonthlyRate
	}
	if input.Facilities != nil {
		room.Facilities = *input.Facilities
	}
	if input.Status != nil {
		switch *input.Status {
		case models.RoomAvailable, models.RoomOccupied, models.RoomMaintenance:
			room.Status = *input.Status
		default:
			utils.RespondError(c, http.StatusBadRequest, errors.New("status kamar tidak dikenal"))
			return
		}
	}

	if err := rc.DB.Save(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Room updated", room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("room_id"))

	var room models.Room
	if err := rc.DB.First(&room, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("kamar tidak ditemukan"))
		return
	}
	if room.Status == models.RoomOccupied {
		utils.RespondError(c, http.StatusConflict, errors.New("kamar masih dihuni"))
		return
	}

	if err := rc.DB.Delete(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room deleted", gin.H{"room_id": id})
}
