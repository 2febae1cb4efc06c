package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/models"
	"github.com/compasscar/compass-car-api/services"
)

// setupTestApp wires an in-memory database and a test configuration, then
// builds the real application router
func setupTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")
	err = db.AutoMigrate(&models.User{}, &models.Client{}, &models.Car{}, &models.CarItem{}, &models.Order{})
	require.NoError(t, err, "Failed to migrate test database")

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:     "test",
		Port:      "8080",
		JWTSecret: "integration-test-secret",
	})

	return setupRouter(), db
}

// loginAs registers a user and returns a bearer token for it
func loginAs(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	_, err := services.NewUserService(config.GetDB()).CreateUser(services.CreateUserInput{
		FullName: "Integration User",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)

	payload, _ := json.Marshal(map[string]string{"email": email, "password": "secret123"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "Login should succeed: %s", w.Body.String())
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body["token"])
	return body["token"]
}

// doJSON performs a JSON request against the router, optionally authenticated
func doJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if payload != nil {
		json.NewEncoder(&buf).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestPublicEndpoints tests that root, health and login bypass authentication
func TestPublicEndpoints(t *testing.T) {
	router, _ := setupTestApp(t)

	w := doJSON(router, "GET", "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API CompassCar is running!", w.Body.String())

	w = doJSON(router, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Compass Car API is running", response["message"])
}

// TestProtectedRoutesRequireToken tests the auth gate on every resource
func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupTestApp(t)

	paths := []struct{ method, path string }{
		{"GET", "/cars"},
		{"POST", "/cars"},
		{"GET", "/clients"},
		{"GET", "/orders"},
		{"GET", "/users/"},
	}

	for _, p := range paths {
		w := doJSON(router, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require a token", p.method, p.path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Token not provided.", body["error"])
	}
}

// TestInvalidTokenRejected tests the 403 path of the auth gate
func TestInvalidTokenRejected(t *testing.T) {
	router, _ := setupTestApp(t)

	w := doJSON(router, "GET", "/cars", "not-a-real-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid token.", body["error"])
}

// TestAuthenticatedAccess tests that a token from the login endpoint opens
// the protected routes
func TestAuthenticatedAccess(t *testing.T) {
	router, _ := setupTestApp(t)

	token := loginAs(t, router, "integration@example.com")

	w := doJSON(router, "POST", "/cars", token, map[string]interface{}{
		"plate": "INT1234",
		"brand": "Fiat",
		"model": "Uno",
	})
	assert.Equal(t, http.StatusCreated, w.Code, "Response: %s", w.Body.String())

	w = doJSON(router, "GET", "/cars", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["total"])
}

// TestUserRoutesIntegration tests the user CRUD surface through the real router
func TestUserRoutesIntegration(t *testing.T) {
	router, _ := setupTestApp(t)

	token := loginAs(t, router, "admin@example.com")

	w := doJSON(router, "POST", "/users/create", token, map[string]interface{}{
		"fullName": "New User",
		"email":    "new@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response: %s", w.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, "PATCH", "/users/update/"+created.ID, token, map[string]interface{}{
		"fullName": "Renamed User",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "updatedUser")

	w = doJSON(router, "DELETE", "/users/delete/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, "GET", "/users/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
