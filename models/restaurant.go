package models

import "time"

type Restaurant struct {
	Cnpj      string    `gorm:"primaryKey;type:varchar(18)" json:"cnpj"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Mesas     []Mesa    `gorm:"foreignKey:RestaurantCnpj;references:Cnpj" json:"mesas,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}
