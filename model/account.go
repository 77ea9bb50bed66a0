package model

import "time"

type Account struct {
	DTO
	Username  string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Active    bool       `gorm:"default:true" json:"active"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type CreateAccountInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
