package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mesa is a physical table owned by a restaurant. Rows are never removed,
// retirement only flips Delete.
type Mesa struct {
	ID             string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Numero         int         `gorm:"not null;index:idx_mesas_restaurant_numero,priority:2" json:"numero"`
	Capacity       int         `gorm:"not null;default:0" json:"capacity"`
	Location       string      `gorm:"type:varchar(255)" json:"location"`
	Delete         bool        `gorm:"column:delete;not null;default:false" json:"delete"`
	RestaurantCnpj string      `gorm:"type:varchar(18);not null;index:idx_mesas_restaurant_numero,priority:1" json:"restaurantCnpj"`
	Restaurant     *Restaurant `gorm:"foreignKey:RestaurantCnpj;references:Cnpj;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"restaurant,omitempty"`
}

func (m *Mesa) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MesaResponse is the projection handed back to callers.
type MesaResponse struct {
	ID       string `json:"id"`
	Numero   int    `json:"numero"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

func (m Mesa) Response() MesaResponse {
	return MesaResponse{
		ID:       m.ID,
		Numero:   m.Numero,
		Capacity: m.Capacity,
		Location: m.Location,
	}
}

// MesaInput is the create payload. ID is accepted on the wire but never persisted.
type MesaInput struct {
	ID        string `json:"id"`
	Numero    int    `json:"numero" binding:"gte=0"`
	Capacity  int    `json:"capacity" binding:"gte=0"`
	Location  string `json:"location" binding:"max=255"`
	EndNumber *int   `json:"endNumber"`
}

type TableQuery struct {
	Page       *int
	Limit      *int
	Search     map[string]string
	Cnpj       string
	MesaNumber string
}
