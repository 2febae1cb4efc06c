package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/models"
)

// setupControllerTest wires an in-memory database and a test config into the
// package-level accessors the handlers read from
func setupControllerTest(t *testing.T) *gorm.DB {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Client{}, &models.Car{}, &models.CarItem{}, &models.Order{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:     "test",
		JWTSecret: "controller-test-secret",
	})

	return db
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performMultipart(router *gin.Engine, method, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile(field, filename)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

func createCarRow(t *testing.T, db *gorm.DB, plate, status string) *models.Car {
	t.Helper()

	car := models.Car{Plate: plate, Brand: "Fiat", Model: "Uno", Km: 30000, Year: 2019, Price: 35000, Status: status}
	if err := db.Create(&car).Error; err != nil {
		t.Fatalf("Failed to create test car: %v", err)
	}
	return &car
}

func createClientRow(t *testing.T, db *gorm.DB, cpf, email string) *models.Client {
	t.Helper()

	client := models.Client{
		FullName:  "Test Client",
		Email:     email,
		CPF:       cpf,
		Phone:     "11999998888",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return &client
}
