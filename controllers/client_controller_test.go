package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compasscar/compass-car-api/models"
)

func clientRouter() *gin.Engine {
	router := gin.New()
	router.POST("/clients", CreateClient)
	router.GET("/clients", ListClients)
	router.GET("/clients/:id", GetClient)
	router.PUT("/clients/:id", UpdateClient)
	router.DELETE("/clients/:id", DeleteClient)
	return router
}

func TestCreateClientEndpoint(t *testing.T) {
	setupControllerTest(t)
	router := clientRouter()

	w := performJSON(router, http.MethodPost, "/clients", gin.H{
		"fullName":  "Maria Silva",
		"email":     "maria@example.com",
		"cpf":       "52998224725",
		"phone":     "11999998888",
		"birthDate": "1985-03-20",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "52998224725", body["cpf"])
}

func TestCreateClientEndpointEmptyBody(t *testing.T) {
	setupControllerTest(t)
	router := clientRouter()

	w := performJSON(router, http.MethodPost, "/clients", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Corpo da requisição não está definido.", body["error"])
}

func TestCreateClientEndpointInvalidCPF(t *testing.T) {
	setupControllerTest(t)
	router := clientRouter()

	w := performJSON(router, http.MethodPost, "/clients", gin.H{
		"fullName":  "Maria Silva",
		"email":     "maria@example.com",
		"cpf":       "123",
		"phone":     "11999998888",
		"birthDate": "1985-03-20",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid cpf format", body["message"])
}

func TestCreateClientEndpointDuplicate(t *testing.T) {
	db := setupControllerTest(t)
	router := clientRouter()

	createClientRow(t, db, "52998224725", "maria@example.com")

	w := performJSON(router, http.MethodPost, "/clients", gin.H{
		"fullName":  "Maria Again",
		"email":     "maria@example.com",
		"cpf":       "52998224725",
		"phone":     "11999998888",
		"birthDate": "1985-03-20",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Client already exist", body["message"])
}

func TestListClientsEndpointExcluidoOrdering(t *testing.T) {
	db := setupControllerTest(t)
	router := clientRouter()

	alive := createClientRow(t, db, "52998224725", "alive@example.com")
	alive.FullName = "Alive Client"
	require.NoError(t, db.Save(alive).Error)

	gone := createClientRow(t, db, "39053344705", "gone@example.com")
	gone.FullName = "Gone Client"
	now := time.Now()
	gone.DeletedAt = &now
	require.NoError(t, db.Save(gone).Error)

	w := performJSON(router, http.MethodGet, "/clients?orderBy=excluido", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var clients []models.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clients))
	require.Len(t, clients, 2)
	assert.Equal(t, "Gone Client", clients[0].FullName)
	assert.NotNil(t, clients[0].DeletedAt)
}

func TestGetClientEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	router := clientRouter()

	client := createClientRow(t, db, "52998224725", "maria@example.com")

	w := performJSON(router, http.MethodGet, "/clients/"+client.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/clients/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Client Not Found", body["error"])
}

func TestUpdateClientEndpointNotFound(t *testing.T) {
	setupControllerTest(t)
	router := clientRouter()

	w := performJSON(router, http.MethodPut, "/clients/missing", gin.H{"phone": "11888887777"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Client not found", body["message"])
}

func TestUpdateClientEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	router := clientRouter()

	client := createClientRow(t, db, "52998224725", "maria@example.com")

	w := performJSON(router, http.MethodPut, "/clients/"+client.ID, gin.H{"phone": "11888887777"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "11888887777", body["phone"])
}

func TestDeleteClientEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	router := clientRouter()

	client := createClientRow(t, db, "52998224725", "maria@example.com")

	w := performJSON(router, http.MethodDelete, "/clients/"+client.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Client deleted successfully", body["message"])

	w = performJSON(router, http.MethodDelete, "/clients/"+client.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Client Not Found", body["error"])
}
