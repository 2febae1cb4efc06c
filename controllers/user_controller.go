package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/services"
)

// User field validation messages
const (
	msgNameEmpty     = "O nome não pode ser vazio."
	msgNameNotString = "O nome deve ser uma string."
	msgEmailInvalid  = "O email deve ser válido."
	msgPasswordShort = "A senha deve ter pelo menos 6 caracteres."
)

// CreateUser handles POST /users/create. The body is read as a raw map so
// that absent, null and wrongly-typed fields produce distinct errors, all
// aggregated into a single response.
func CreateUser(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Corpo da requisição inválido."}})
		return
	}

	if errs := validateUserFields(body, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	fullName, _ := body["fullName"].(string)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	role, _ := body["role"].(string)

	userService := services.NewUserService(config.GetDB())
	user, err := userService.CreateUser(services.CreateUserInput{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		if services.KindOf(err) == services.KindConflict {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /users/ - soft-deleted users are excluded
func ListUsers(c *gin.Context) {
	userService := services.NewUserService(config.GetDB())
	users, err := userService.ListUsers()
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func GetUser(c *gin.Context) {
	userService := services.NewUserService(config.GetDB())
	user, err := userService.GetUserByID(c.Param("id"))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PATCH /users/update/:id - partial update of the
// supplied fields only
func UpdateUser(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Corpo da requisição inválido."}})
		return
	}

	if errs := validateUserFields(body, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	input := services.UpdateUserInput{}
	if v, ok := body["fullName"].(string); ok {
		input.FullName = &v
	}
	if v, ok := body["email"].(string); ok {
		input.Email = &v
	}
	if v, ok := body["password"].(string); ok {
		input.Password = &v
	}

	userService := services.NewUserService(config.GetDB())
	user, err := userService.UpdateUser(c.Param("id"), input)
	if err != nil {
		switch services.KindOf(err) {
		case services.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.KindConflict:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"updatedUser": user})
}

// DeleteUser handles DELETE /users/delete/:id - soft-delete
func DeleteUser(c *gin.Context) {
	userService := services.NewUserService(config.GetDB())
	if err := userService.DeleteUser(c.Param("id")); err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	c.Status(http.StatusNoContent)
}

// validateUserFields checks the user payload field by field and returns all
// problems found. With requireAll set, absent fields count as errors too
// (creation); otherwise only supplied fields are validated (partial update).
func validateUserFields(body map[string]interface{}, requireAll bool) []string {
	var errs []string

	if v, present := body["fullName"]; present {
		if s, ok := v.(string); !ok {
			if v == nil {
				errs = append(errs, msgNameEmpty)
			} else {
				errs = append(errs, msgNameNotString)
			}
		} else if strings.TrimSpace(s) == "" {
			errs = append(errs, msgNameEmpty)
		}
	} else if requireAll {
		errs = append(errs, msgNameEmpty)
	}

	if v, present := body["email"]; present {
		if s, ok := v.(string); !ok || !services.IsValidEmail(s) {
			errs = append(errs, msgEmailInvalid)
		}
	} else if requireAll {
		errs = append(errs, msgEmailInvalid)
	}

	if v, present := body["password"]; present {
		if s, ok := v.(string); !ok || len(s) < 6 {
			errs = append(errs, msgPasswordShort)
		}
	} else if requireAll {
		errs = append(errs, msgPasswordShort)
	}

	return errs
}
