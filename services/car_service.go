package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/models"
)

// DefaultCarPageSize is the page size used when the listing request does
// not specify one
const DefaultCarPageSize = 10

// carOrderColumns is the allow-list for the orderBy query parameter. Sort
// keys are validated against it; nothing from the request is ever
// interpolated into SQL.
var carOrderColumns = map[string]string{
	"plate":     "plate",
	"brand":     "brand",
	"model":     "model",
	"km":        "km",
	"year":      "year",
	"price":     "price",
	"status":    "status",
	"createdAt": "created_at",
}

// CarService implements the car lifecycle rules
type CarService struct {
	db *gorm.DB
}

// NewCarService creates a CarService bound to a database handle
func NewCarService(db *gorm.DB) *CarService {
	return &CarService{db: db}
}

// orderedItems preloads a car's items in the order they were submitted
func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("items.position")
}

// CreateCarInput carries the fields accepted on car creation
type CreateCarInput struct {
	Plate  string
	Brand  string
	Model  string
	Km     int
	Year   int
	Price  float64
	Status string
	Items  []string
}

// UpdateCarInput carries the optional fields of a partial car update. A
// non-nil Items slice replaces the car's whole equipment list.
type UpdateCarInput struct {
	Plate  *string
	Brand  *string
	Model  *string
	Km     *int
	Year   *int
	Price  *float64
	Status *string
	Items  *[]string
}

// CarFilter describes the listing query
type CarFilter struct {
	Brand    string
	MinYear  *int
	MaxYear  *int
	MinPrice *float64
	MaxPrice *float64
	OrderBy  string
	Page     int
	PageSize int
}

// CreateCar validates the required fields, enforces plate uniqueness among
// non-deleted cars and persists the car together with its items.
func (s *CarService) CreateCar(input CreateCarInput) (*models.Car, error) {
	if strings.TrimSpace(input.Brand) == "" {
		return nil, NewValidationError("A marca não pode estar vazia.")
	}
	if strings.TrimSpace(input.Model) == "" {
		return nil, NewValidationError("O modelo não pode estar vazio.")
	}
	if strings.TrimSpace(input.Plate) == "" {
		return nil, NewValidationError("A placa não pode estar vazia.")
	}

	status := input.Status
	if status == "" {
		status = models.CarStatusActived
	}
	if !models.ValidCarStatus(status) {
		return nil, NewValidationError("Status deve ser ACTIVED, INACTIVED ou DELETED.")
	}

	var count int64
	err := s.db.Model(&models.Car{}).
		Where("plate = ? AND status <> ?", input.Plate, models.CarStatusDeleted).
		Count(&count).Error
	if err != nil {
		return nil, NewUnexpectedError("Erro ao criar carro", err)
	}
	if count > 0 {
		return nil, NewConflictError("Já existe um carro com esta placa com status ativo ou inativo.")
	}

	car := models.Car{
		Plate:  input.Plate,
		Brand:  input.Brand,
		Model:  input.Model,
		Km:     input.Km,
		Year:   input.Year,
		Price:  input.Price,
		Status: status,
	}
	for i, name := range input.Items {
		car.Items = append(car.Items, models.CarItem{Name: name, Position: i})
	}

	if err := s.db.Create(&car).Error; err != nil {
		return nil, NewUnexpectedError("Erro ao criar carro", err)
	}
	return &car, nil
}

// GetAllCars lists cars matching the filter, paginated. An empty result set
// is reported as not-found, distinct from a query failure.
func (s *CarService) GetAllCars(filter CarFilter) ([]models.Car, int64, error) {
	query := s.db.Model(&models.Car{})
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinYear != nil {
		query = query.Where("year >= ?", *filter.MinYear)
	}
	if filter.MaxYear != nil {
		query = query.Where("year <= ?", *filter.MaxYear)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, NewUnexpectedError("Erro ao listar carros", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = DefaultCarPageSize
	}

	var cars []models.Car
	err := query.Order(carOrderClause(filter.OrderBy)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("Items", orderedItems).
		Find(&cars).Error
	if err != nil {
		return nil, 0, NewUnexpectedError("Erro ao listar carros", err)
	}
	if len(cars) == 0 {
		return nil, 0, NewNotFoundError("Nenhum carro encontrado.")
	}
	return cars, total, nil
}

// carOrderClause resolves an orderBy value such as "brand_desc" against the
// column allow-list, falling back to newest-first.
func carOrderClause(orderBy string) string {
	column, direction := orderBy, "asc"
	if strings.HasSuffix(orderBy, "_desc") {
		column, direction = strings.TrimSuffix(orderBy, "_desc"), "desc"
	} else if strings.HasSuffix(orderBy, "_asc") {
		column = strings.TrimSuffix(orderBy, "_asc")
	}
	if col, ok := carOrderColumns[column]; ok {
		return col + " " + direction
	}
	return "created_at desc"
}

// GetCarByID returns a car with its items
func (s *CarService) GetCarByID(id string) (*models.Car, error) {
	var car models.Car
	if err := s.db.Preload("Items", orderedItems).First(&car, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Carro não encontrado")
		}
		return nil, NewUnexpectedError("Erro ao buscar carro", err)
	}
	return &car, nil
}

// UpdateCar applies a partial update. Cars with status DELETED accept no
// updates at all. A supplied item list replaces the existing one inside a
// single transaction so readers never observe a partial set.
func (s *CarService) UpdateCar(id string, input UpdateCarInput) (*models.Car, error) {
	var car models.Car
	if err := s.db.First(&car, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Carro não encontrado")
		}
		return nil, NewUnexpectedError("Erro interno.", err)
	}

	if car.Status == models.CarStatusDeleted {
		return nil, NewBlockedError("Carros com status excluído não podem ser atualizados")
	}
	if input.Status != nil && !models.ValidCarStatus(*input.Status) {
		return nil, NewValidationError("Status deve ser ACTIVED, INACTIVED ou DELETED.")
	}

	updates := make(map[string]interface{})
	if input.Plate != nil {
		updates["plate"] = *input.Plate
	}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.Km != nil {
		updates["km"] = *input.Km
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&car).Updates(updates).Error; err != nil {
				return err
			}
		}
		if input.Items != nil {
			if err := tx.Where("car_id = ?", id).Delete(&models.CarItem{}).Error; err != nil {
				return err
			}
			for i, name := range *input.Items {
				if err := tx.Create(&models.CarItem{Name: name, CarID: id, Position: i}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}

	if err := s.db.Preload("Items", orderedItems).First(&car, "id = ?", id).Error; err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}
	return &car, nil
}

// DeleteCar marks a car as DELETED. Re-deleting fails, it does not no-op,
// and a car with open orders cannot be deleted.
func (s *CarService) DeleteCar(id string) error {
	var car models.Car
	if err := s.db.First(&car, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Carro inexistente")
		}
		return NewUnexpectedError("Erro ao excluir o carro", err)
	}

	if car.Status == models.CarStatusDeleted {
		return NewNotFoundError("Este carro já está excluído.")
	}

	open, err := s.HasOpenOrders(id)
	if err != nil {
		return err
	}
	if open {
		return NewBlockedError("Não é possível excluir o carro. Há pedidos em aberto.")
	}

	if err := s.db.Model(&car).Update("status", models.CarStatusDeleted).Error; err != nil {
		return NewUnexpectedError("Erro ao excluir o carro", err)
	}
	return nil
}

// HasOpenOrders reports whether at least one OPEN order references the car
func (s *CarService) HasOpenOrders(carID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Order{}).
		Where("car_id = ? AND status = ?", carID, models.OrderStatusOpen).
		Count(&count).Error
	if err != nil {
		return false, NewUnexpectedError("Erro ao excluir o carro", err)
	}
	return count > 0, nil
}

// SetCarPhoto stores the S3 key of the car's photo. Deleted cars cannot be
// touched.
func (s *CarService) SetCarPhoto(id, s3Key string) (*models.Car, error) {
	var car models.Car
	if err := s.db.First(&car, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Carro não encontrado")
		}
		return nil, NewUnexpectedError("Erro interno.", err)
	}
	if car.Status == models.CarStatusDeleted {
		return nil, NewBlockedError("Carros com status excluído não podem ser atualizados")
	}

	if err := s.db.Model(&car).Update("photo_s3_key", s3Key).Error; err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}
	car.PhotoS3Key = &s3Key
	return &car, nil
}
