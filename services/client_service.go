package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/models"
)

// ClientService implements the client lifecycle rules
type ClientService struct {
	db *gorm.DB
}

// NewClientService creates a ClientService bound to a database handle
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// CreateClientInput carries the fields accepted on client creation
type CreateClientInput struct {
	FullName  string
	Email     string
	CPF       string
	Phone     string
	BirthDate time.Time
}

// UpdateClientInput carries the optional fields of a partial client update
type UpdateClientInput struct {
	FullName  *string
	Email     *string
	CPF       *string
	Phone     *string
	BirthDate *time.Time
}

// CreateClient validates formats first, then checks cpf/email uniqueness.
// The duplicate check spans soft-deleted rows as well.
func (s *ClientService) CreateClient(input CreateClientInput) (*models.Client, error) {
	if !IsValidEmail(input.Email) {
		return nil, NewValidationError("Invalid email format")
	}
	if !IsValidCPF(input.CPF) {
		return nil, NewNotFoundError("Invalid cpf format")
	}

	var count int64
	err := s.db.Model(&models.Client{}).
		Where("cpf = ? OR email = ?", input.CPF, input.Email).
		Count(&count).Error
	if err != nil {
		return nil, NewUnexpectedError("An unexpected error occurred.", err)
	}
	if count > 0 {
		return nil, NewConflictError("Client already exist")
	}

	client := models.Client{
		FullName:  input.FullName,
		Email:     input.Email,
		CPF:       input.CPF,
		Phone:     input.Phone,
		BirthDate: input.BirthDate,
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, NewUnexpectedError("An unexpected error occurred.", err)
	}
	return &client, nil
}

// ListClients returns clients filtered by a name substring and sorted by the
// given keys. Soft-deleted clients are included; the special key "excluido"
// puts them first, with fullName as the secondary order. Ties keep input
// order (stable sort).
func (s *ClientService) ListClients(nome string, orderBy []string) ([]models.Client, error) {
	query := s.db.Model(&models.Client{})
	if nome != "" {
		query = query.Where("full_name LIKE ?", "%"+nome+"%")
	}

	var clients []models.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, NewUnexpectedError("An unexpected error occurred.", err)
	}

	if len(orderBy) > 0 {
		sortClients(clients, orderBy)
	}
	return clients, nil
}

func sortClients(clients []models.Client, orderBy []string) {
	sort.SliceStable(clients, func(i, j int) bool {
		for _, key := range orderBy {
			if c := compareClients(&clients[i], &clients[j], key); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareClients(a, b *models.Client, key string) int {
	switch key {
	case "excluido":
		if (a.DeletedAt != nil) != (b.DeletedAt != nil) {
			if a.DeletedAt != nil {
				return -1
			}
			return 1
		}
		return strings.Compare(a.FullName, b.FullName)
	case "fullName", "nome":
		return strings.Compare(a.FullName, b.FullName)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "cpf":
		return strings.Compare(a.CPF, b.CPF)
	case "phone":
		return strings.Compare(a.Phone, b.Phone)
	default:
		return 0
	}
}

// ShowClient returns a client by id, soft-deleted or not
func (s *ClientService) ShowClient(id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Client Not Found")
		}
		return nil, NewUnexpectedError("An unexpected error occurred.", err)
	}
	return &client, nil
}

// UpdateClient applies a partial update after re-validating any supplied
// email or cpf
func (s *ClientService) UpdateClient(id string, input UpdateClientInput) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Client not found")
		}
		return nil, NewUnexpectedError("An unexpected error occurred.", err)
	}

	updates := make(map[string]interface{})
	if input.Email != nil {
		if !IsValidEmail(*input.Email) {
			return nil, NewValidationError("Invalid email format")
		}
		updates["email"] = *input.Email
	}
	if input.CPF != nil {
		if !IsValidCPF(*input.CPF) {
			return nil, NewNotFoundError("Invalid cpf format")
		}
		updates["cpf"] = *input.CPF
	}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.BirthDate != nil {
		updates["birth_date"] = *input.BirthDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(&client).Updates(updates).Error; err != nil {
			return nil, NewUnexpectedError("An unexpected error occurred.", err)
		}
	}

	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, NewUnexpectedError("An unexpected error occurred.", err)
	}
	return &client, nil
}

// DeleteClient soft-deletes a client by setting its deletion timestamp
func (s *ClientService) DeleteClient(id string) error {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Client Not Found")
		}
		return NewUnexpectedError("An unexpected error occurred.", err)
	}
	if client.DeletedAt != nil {
		return NewNotFoundError("Client Not Found")
	}

	now := time.Now()
	if err := s.db.Model(&client).Update("deleted_at", &now).Error; err != nil {
		return NewUnexpectedError("An unexpected error occurred.", err)
	}
	return nil
}
