package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleTenant = "tenant"
)

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Role      string     `gorm:"type:varchar(20);not null" json:"role"`
	Username  string     `gorm:"type:varchar(100);unique;not null" json:"username"`
	Email     string     `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName  string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string     `gorm:"type:varchar(30)" json:"phone"`
	Address   string     `gorm:"type:text" json:"address"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
