package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/services"
)

var orderValidate = validator.New()

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CarID      string  `json:"carId"`
	ClientID   string  `json:"clientId"`
	Zipcode    string  `json:"zipcode"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	TotalValue float64 `json:"totalValue"`
}

// UpdateOrderRequest represents the request body for updating an order.
// The whole struct is validated at once and every field error is reported,
// not just the first one.
type UpdateOrderRequest struct {
	Status     *string  `json:"status" validate:"omitempty,oneof=OPEN APPROVED CLOSED CANCELED"`
	Zipcode    *string  `json:"zipcode" validate:"omitempty,min=8"`
	City       *string  `json:"city" validate:"omitempty,min=1"`
	State      *string  `json:"state" validate:"omitempty,len=2"`
	TotalValue *float64 `json:"totalValue" validate:"omitempty,gte=0"`
}

// CreateOrder handles POST /orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido."})
		return
	}

	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.CreateOrder(services.CreateOrderInput{
		CarID:      req.CarID,
		ClientID:   req.ClientID,
		Zipcode:    req.Zipcode,
		City:       req.City,
		State:      req.State,
		TotalValue: req.TotalValue,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders with filtering, sorting and pagination
func ListOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:    c.Query("status"),
		ClientCpf: c.Query("clientCpf"),
		Sort:      c.DefaultQuery("sort", "createdAt"),
		Order:     c.DefaultQuery("order", "desc"),
		Page:      1,
		Limit:     services.DefaultOrderPageSize,
	}
	if p := queryInt(c, "page"); p != nil {
		filter.Page = *p
	}
	if l := queryInt(c, "limit"); l != nil {
		filter.Limit = *l
	}
	if raw := c.Query("startDate"); raw != "" {
		if t, err := parseDate(raw); err == nil {
			filter.StartDate = &t
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if t, err := parseDate(raw); err == nil {
			filter.EndDate = &t
		}
	}

	orderService := services.NewOrderService(config.GetDB())
	orders, total, err := orderService.ListOrders(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao listar pedidos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// GetOrder handles GET /orders/:id
func GetOrder(c *gin.Context) {
	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.GetOrderByID(c.Param("id"))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao buscar pedido"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PUT /orders/:id. The payload is checked against the
// update schema first; all field errors are aggregated into one response.
func UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Corpo da requisição inválido."}})
		return
	}

	if errs := validateOrderUpdate(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.UpdateOrder(c.Param("id"), services.UpdateOrderInput{
		Status:     req.Status,
		Zipcode:    req.Zipcode,
		City:       req.City,
		State:      req.State,
		TotalValue: req.TotalValue,
	})
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id - cancels the order, keeping the row
func DeleteOrder(c *gin.Context) {
	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.DeleteOrder(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// validateOrderUpdate collects every field error of the update payload
func validateOrderUpdate(req *UpdateOrderRequest) []string {
	err := orderValidate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Erro de validação"}
	}

	var messages []string
	for _, fe := range validationErrors {
		switch fe.Field() {
		case "Status":
			messages = append(messages, "O status deve ser OPEN, APPROVED, CLOSED ou CANCELED.")
		case "Zipcode":
			messages = append(messages, "O CEP informado é inválido.")
		case "City":
			messages = append(messages, "A cidade não pode estar vazia.")
		case "State":
			messages = append(messages, "O estado deve ter 2 caracteres.")
		case "TotalValue":
			messages = append(messages, "O valor total não pode ser negativo.")
		default:
			messages = append(messages, fmt.Sprintf("O campo %s é inválido.", fe.Field()))
		}
	}
	return messages
}
