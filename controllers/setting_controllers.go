package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/utils"
)

type SettingController struct {
	DB *gorm.DB
}

func NewSettingController(db *gorm.DB) *SettingController {
	return &SettingController{DB: db}
}

func (sc *SettingController) GetAllSettings(c *gin.Context) {
	var settings []models.Setting
	if err := sc.DB.Order("key ASC").Find(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

func (sc *SettingController) GetSetting(c *gin.Context) {
	var setting models.Setting
	if err := sc.DB.Where("key = ?", c.Param("key")).First(&setting).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("pengaturan tidak ditemukan"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Setting", gin.H{
		"key":   setting.Key,
		"value": setting.TypedValue(),
	})
}

// UpsertSetting membuat atau memperbarui satu pengaturan.
func (sc *SettingController) UpsertSetting(c *gin.Context) {
	var input struct {
		Value       string `json:"value" binding:"required"`
		ValueType   string `json:"value_type"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	key := c.Param("key")

	var setting models.Setting
	err := sc.DB.Where("key = ?", key).First(&setting).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if input.ValueType == "" {
			input.ValueType = "text"
		}
		setting = models.Setting{
			Key:         key,
			Value:       input.Value,
			ValueType:   input.ValueType,
			Description: input.Description,
		}
		if err := sc.DB.Create(&setting).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	default:
		setting.Value = input.Value
		if input.ValueType != "" {
			setting.ValueType = input.ValueType
		}
		if input.Description != "" {
			setting.Description = input.Description
		}
		if err := sc.DB.Save(&setting).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.InfoLogger.Printf("Setting %s updated", key)
	utils.RespondJSON(c, http.StatusOK, "Setting saved", setting)
}
