package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Client{}, &models.Car{}, &models.CarItem{}, &models.Order{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestClient(t *testing.T, db *gorm.DB, cpf, email string) *models.Client {
	t.Helper()

	client := models.Client{
		FullName:  "Test Client",
		Email:     email,
		CPF:       cpf,
		Phone:     "123456789",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return &client
}

func createTestCar(t *testing.T, db *gorm.DB, plate, status string) *models.Car {
	t.Helper()

	car := models.Car{
		Plate:  plate,
		Brand:  "Test Brand",
		Model:  "Test Model",
		Km:     10000,
		Year:   2020,
		Price:  60000,
		Status: status,
	}
	if err := db.Create(&car).Error; err != nil {
		t.Fatalf("Failed to create test car: %v", err)
	}
	return &car
}
