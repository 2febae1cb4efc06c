package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/services"
)

// LoginRequest represents the request body for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login - verifies credentials and returns a token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	authService := services.NewAuthService(config.GetDB(), config.GetConfig().JWTSecret)
	token, err := authService.Login(req.Email, req.Password)
	if err != nil {
		if services.KindOf(err) == services.KindUnexpected {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
