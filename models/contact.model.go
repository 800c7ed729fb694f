package models

import "gorm.io/gorm"

type ContactMessage struct {
	gorm.Model
	Name    string `json:"name" gorm:"size:100;not null"`
	Email   string `json:"email" gorm:"size:254;not null"`
	Subject string `json:"subject" gorm:"size:200;default:''"`
	Message string `json:"message" gorm:"type:text;not null"`
	IsRead  bool   `json:"is_read" gorm:"default:false;index"`
}
