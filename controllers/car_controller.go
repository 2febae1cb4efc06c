package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/services"
)

// CreateCarRequest represents the request body for creating a car
type CreateCarRequest struct {
	Plate  string   `json:"plate"`
	Brand  string   `json:"brand"`
	Model  string   `json:"model"`
	Km     int      `json:"km"`
	Year   int      `json:"year"`
	Price  float64  `json:"price"`
	Status string   `json:"status"`
	Items  []string `json:"items"`
}

// UpdateCarRequest represents the request body for updating a car. Absent
// fields are left untouched; a present items list replaces the whole set.
type UpdateCarRequest struct {
	Plate  *string   `json:"plate"`
	Brand  *string   `json:"brand"`
	Model  *string   `json:"model"`
	Km     *int      `json:"km"`
	Year   *int      `json:"year"`
	Price  *float64  `json:"price"`
	Status *string   `json:"status"`
	Items  *[]string `json:"items"`
}

// CreateCar handles POST /cars
func CreateCar(c *gin.Context) {
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido."})
		return
	}

	carService := services.NewCarService(config.GetDB())
	car, err := carService.CreateCar(services.CreateCarInput{
		Plate:  req.Plate,
		Brand:  req.Brand,
		Model:  req.Model,
		Km:     req.Km,
		Year:   req.Year,
		Price:  req.Price,
		Status: req.Status,
		Items:  req.Items,
	})
	if err != nil {
		switch services.KindOf(err) {
		case services.KindValidation, services.KindConflict:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case services.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Erro ao criar carro",
				"details": unwrapDetail(err),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, car)
}

// ListCars handles GET /cars with filtering, ordering and pagination
func ListCars(c *gin.Context) {
	filter := services.CarFilter{
		Brand:    c.Query("brand"),
		MinYear:  queryInt(c, "minYear"),
		MaxYear:  queryInt(c, "maxYear"),
		MinPrice: queryFloat(c, "minPrice"),
		MaxPrice: queryFloat(c, "maxPrice"),
		OrderBy:  c.Query("orderBy"),
	}
	if p := queryInt(c, "page"); p != nil {
		filter.Page = *p
	}
	if ps := queryInt(c, "pageSize"); ps != nil {
		filter.PageSize = *ps
	}

	carService := services.NewCarService(config.GetDB())
	cars, total, err := carService.GetAllCars(filter)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Erro ao listar carros",
			"details": unwrapDetail(err),
		})
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = services.DefaultCarPageSize
	}

	c.JSON(http.StatusOK, gin.H{
		"cars":     cars,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetCar handles GET /cars/:id
func GetCar(c *gin.Context) {
	carService := services.NewCarService(config.GetDB())
	car, err := carService.GetCarByID(c.Param("id"))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Erro ao buscar carro",
			"details": unwrapDetail(err),
		})
		return
	}

	c.JSON(http.StatusOK, car)
}

// UpdateCar handles PUT /cars/:id
func UpdateCar(c *gin.Context) {
	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido."})
		return
	}

	carService := services.NewCarService(config.GetDB())
	car, err := carService.UpdateCar(c.Param("id"), services.UpdateCarInput{
		Plate:  req.Plate,
		Brand:  req.Brand,
		Model:  req.Model,
		Km:     req.Km,
		Year:   req.Year,
		Price:  req.Price,
		Status: req.Status,
		Items:  req.Items,
	})
	if err != nil {
		switch services.KindOf(err) {
		case services.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.KindValidation, services.KindBlocked:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		}
		return
	}

	c.JSON(http.StatusOK, car)
}

// DeleteCar handles DELETE /cars/:id - soft-deletes by setting status DELETED
func DeleteCar(c *gin.Context) {
	carService := services.NewCarService(config.GetDB())
	if err := carService.DeleteCar(c.Param("id")); err != nil {
		switch services.KindOf(err) {
		case services.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case services.KindBlocked:
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Carro marcado como 'DELETED' com sucesso"})
}

// UploadCarPhoto handles POST /cars/:id/photo - multipart PNG upload to S3
func UploadCarPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo de foto é obrigatório."})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	carService := services.NewCarService(config.GetDB())
	car, err := carService.SetCarPhoto(c.Param("id"), s3Key)
	if err != nil {
		// The photo is orphaned if the car cannot take it
		if delErr := imageService.DeleteImage(s3Key); delErr != nil {
			_ = delErr
		}
		switch services.KindOf(err) {
		case services.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.KindBlocked:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		}
		return
	}

	photoURL, err := imageService.GetImageURL(s3Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"car": car, "photoUrl": photoURL})
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// queryFloat parses an optional float query parameter
func queryFloat(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// unwrapDetail surfaces the underlying error message of an unexpected
// failure, falling back to the service message
func unwrapDetail(err error) string {
	var se *services.ServiceError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
