package models

import (
	"encoding/json"
	"strconv"
	"time"
)

type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"type:varchar(100);unique;not null" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	ValueType   string    `gorm:"type:varchar(20);not null;default:'text'" json:"value_type"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TypedValue casts the stored string according to ValueType.
func (s *Setting) TypedValue() interface{} {
	switch s.ValueType {
	case "boolean":
		return s.Value == "1" || s.Value == "true"
	case "number":
		n, _ := strconv.ParseFloat(s.Value, 64)
		return n
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			return s.Value
		}
		return v
	default:
		return s.Value
	}
}
