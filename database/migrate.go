package database

import (
	"github.com/yeremiapane/mesa-backend/models"
	"github.com/yeremiapane/mesa-backend/utils"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Mesa{},
	); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedRestaurant makes sure a restaurant with cnpj exists. An empty cnpj
// skips seeding.
func SeedRestaurant(db *gorm.DB, cnpj, name string) error {
	if cnpj == "" {
		return nil
	}
	restaurant := models.Restaurant{Cnpj: cnpj, Name: name}
	if err := db.Where(models.Restaurant{Cnpj: cnpj}).FirstOrCreate(&restaurant).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Restaurant %s ready", cnpj)
	return nil
}
