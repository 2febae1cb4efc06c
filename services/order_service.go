package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/models"
)

// DefaultOrderPageSize is the limit used when the listing request does not
// specify one
const DefaultOrderPageSize = 10

// orderSortColumns is the allow-list for the sort query parameter
var orderSortColumns = map[string]string{
	"createdAt":  "orders.created_at",
	"status":     "orders.status",
	"totalValue": "orders.total_value",
	"city":       "orders.city",
	"state":      "orders.state",
}

// OrderService implements the order lifecycle rules
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService bound to a database handle
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrderInput carries the fields accepted on order creation. Status is
// not among them: every order starts OPEN.
type CreateOrderInput struct {
	CarID      string
	ClientID   string
	Zipcode    string
	City       string
	State      string
	TotalValue float64
}

// UpdateOrderInput carries the optional fields of a partial order update
type UpdateOrderInput struct {
	Status     *string
	Zipcode    *string
	City       *string
	State      *string
	TotalValue *float64
}

// OrderFilter describes the listing query
type OrderFilter struct {
	Status    string
	ClientCpf string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      string
	Order     string
	Page      int
	Limit     int
}

// CreateOrder persists a new OPEN order after checking that the referenced
// car and client exist
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.CarID == "" {
		return nil, NewValidationError("O campo carId é obrigatório.")
	}
	if input.ClientID == "" {
		return nil, NewValidationError("O campo clientId é obrigatório.")
	}

	var car models.Car
	if err := s.db.First(&car, "id = ?", input.CarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Carro não encontrado")
		}
		return nil, NewUnexpectedError("Erro ao criar pedido", err)
	}
	var client models.Client
	if err := s.db.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Cliente não encontrado")
		}
		return nil, NewUnexpectedError("Erro ao criar pedido", err)
	}

	order := models.Order{
		CarID:      input.CarID,
		ClientID:   input.ClientID,
		Status:     models.OrderStatusOpen,
		Zipcode:    input.Zipcode,
		City:       input.City,
		State:      input.State,
		TotalValue: input.TotalValue,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, NewUnexpectedError("Erro ao criar pedido", err)
	}
	return &order, nil
}

// ListOrders lists orders filtered by status, client cpf and creation date
// range, sorted and paginated
func (s *OrderService) ListOrders(filter OrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if filter.ClientCpf != "" {
		query = query.Joins("JOIN clients ON clients.id = orders.client_id").
			Where("clients.cpf = ?", filter.ClientCpf)
	}
	if filter.StartDate != nil {
		query = query.Where("orders.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("orders.created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, NewUnexpectedError("Erro ao listar pedidos", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultOrderPageSize
	}

	var orders []models.Order
	err := query.Order(orderSortClause(filter.Sort, filter.Order)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, NewUnexpectedError("Erro ao listar pedidos", err)
	}
	return orders, total, nil
}

// orderSortClause resolves the sort field against the column allow-list;
// direction defaults to desc.
func orderSortClause(sortField, direction string) string {
	column, ok := orderSortColumns[sortField]
	if !ok {
		column = "orders.created_at"
	}
	if direction != "asc" {
		direction = "desc"
	}
	return column + " " + direction
}

// GetOrderByID returns an order by id
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Pedido não encontrado")
		}
		return nil, NewUnexpectedError("Erro ao buscar pedido", err)
	}
	return &order, nil
}

// UpdateOrder applies a partial update to an order. Field-level schema
// validation happens at the controller; here only existence and the status
// enum are enforced.
func (s *OrderService) UpdateOrder(id string, input UpdateOrderInput) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Pedido não encontrado")
		}
		return nil, NewUnexpectedError("Erro ao atualizar pedido", err)
	}

	updates := make(map[string]interface{})
	if input.Status != nil {
		if !models.ValidOrderStatus(*input.Status) {
			return nil, NewValidationError("Status de pedido inválido.")
		}
		updates["status"] = *input.Status
	}
	if input.Zipcode != nil {
		updates["zipcode"] = *input.Zipcode
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.State != nil {
		updates["state"] = *input.State
	}
	if input.TotalValue != nil {
		updates["total_value"] = *input.TotalValue
	}

	if len(updates) > 0 {
		if err := s.db.Model(&order).Updates(updates).Error; err != nil {
			return nil, NewUnexpectedError("Erro ao atualizar pedido", err)
		}
	}

	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, NewUnexpectedError("Erro ao atualizar pedido", err)
	}
	return &order, nil
}

// DeleteOrder cancels an order. The row is kept; deletion is the transition
// to CANCELED.
func (s *OrderService) DeleteOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Pedido não encontrado")
		}
		return nil, NewUnexpectedError("Erro ao excluir pedido", err)
	}

	if err := s.db.Model(&order).Update("status", models.OrderStatusCanceled).Error; err != nil {
		return nil, NewUnexpectedError("Erro ao excluir pedido", err)
	}
	order.Status = models.OrderStatusCanceled
	return &order, nil
}
