package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a catalog entry describing a government-document assistance offering.
type Service struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"size:255;not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Category       string          `json:"category" gorm:"size:64;not null;index"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ProcessingTime string          `json:"processing_time" gorm:"size:64"`
	Requirements   []string        `json:"requirements" gorm:"type:text;serializer:json"`
	Icon           string          `json:"icon" gorm:"size:64"`
	Badge          string          `json:"badge,omitempty" gorm:"size:32"`
	BadgeColor     string          `json:"badge_color,omitempty" gorm:"size:32"`
	CreatedAt      time.Time       `json:"created_at"`
}
