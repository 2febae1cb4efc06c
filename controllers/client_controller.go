package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/services"
)

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CPF       string `json:"cpf"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
}

// UpdateClientRequest represents the request body for updating a client
type UpdateClientRequest struct {
	FullName  *string `json:"fullName"`
	Email     *string `json:"email"`
	CPF       *string `json:"cpf"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birthDate"`
}

// CreateClient handles POST /clients
func CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição não está definido."})
		return
	}
	if req == (CreateClientRequest{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição não está definido."})
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid birthDate format"})
		return
	}

	clientService := services.NewClientService(config.GetDB())
	client, err := clientService.CreateClient(services.CreateClientInput{
		FullName:  req.FullName,
		Email:     req.Email,
		CPF:       req.CPF,
		Phone:     req.Phone,
		BirthDate: birthDate,
	})
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// ListClients handles GET /clients with name filtering and ordering. The
// orderBy parameter may repeat; the key "excluido" sorts soft-deleted
// clients first.
func ListClients(c *gin.Context) {
	clientService := services.NewClientService(config.GetDB())
	clients, err := clientService.ListClients(c.Query("nome"), c.QueryArray("orderBy"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /clients/:id
func GetClient(c *gin.Context) {
	clientService := services.NewClientService(config.GetDB())
	client, err := clientService.ShowClient(c.Param("id"))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT /clients/:id
func UpdateClient(c *gin.Context) {
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}

	input := services.UpdateClientInput{
		FullName: req.FullName,
		Email:    req.Email,
		CPF:      req.CPF,
		Phone:    req.Phone,
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid birthDate format"})
			return
		}
		input.BirthDate = &birthDate
	}

	clientService := services.NewClientService(config.GetDB())
	client, err := clientService.UpdateClient(c.Param("id"), input)
	if err != nil {
		respondClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /clients/:id - soft-delete
func DeleteClient(c *gin.Context) {
	clientService := services.NewClientService(config.GetDB())
	if err := clientService.DeleteClient(c.Param("id")); err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// respondClientError maps client service failures for the create/update
// endpoints, which report everything under a message key
func respondClientError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case services.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
	}
}

// parseDate accepts "2006-01-02" dates as well as full RFC3339 timestamps
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
