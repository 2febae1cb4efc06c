package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/controllers"
	"github.com/compasscar/compass-car-api/models"
)

// OrderAcceptanceTestSuite drives the rental order endpoints over a real
// HTTP server
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
	car    *models.Car
	client *models.Client
}

func (suite *OrderAcceptanceTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.Client{}, &models.Car{}, &models.CarItem{}, &models.Order{}))
	suite.db = db

	config.SetDB(db)
	config.SetConfig(&config.Config{GoEnv: "test", JWTSecret: "order-acceptance-secret"})

	router := gin.New()
	router.POST("/orders", controllers.CreateOrder)
	router.GET("/orders", controllers.ListOrders)
	router.GET("/orders/:id", controllers.GetOrder)
	router.PUT("/orders/:id", controllers.UpdateOrder)
	router.DELETE("/orders/:id", controllers.DeleteOrder)
	suite.server = httptest.NewServer(router)

	car := models.Car{Plate: "OAC1234", Brand: "Fiat", Model: "Uno", Status: models.CarStatusActived}
	suite.Require().NoError(db.Create(&car).Error)
	suite.car = &car

	client := models.Client{
		FullName:  "Order Client",
		Email:     "order-acceptance@example.com",
		CPF:       "52998224725",
		Phone:     "11999998888",
		BirthDate: time.Date(1992, 5, 5, 0, 0, 0, 0, time.UTC),
	}
	suite.Require().NoError(db.Create(&client).Error)
	suite.client = &client
}

func (suite *OrderAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *OrderAcceptanceTestSuite) request(method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, reqBody)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	var body map[string]interface{}
	if len(raw) > 0 {
		suite.Require().NoError(json.Unmarshal(raw, &body))
	}
	return resp, body
}

func (suite *OrderAcceptanceTestSuite) TestOrderCreationStartsOpen() {
	resp, body := suite.request("POST", "/orders", map[string]interface{}{
		"carId":      suite.car.ID,
		"clientId":   suite.client.ID,
		"zipcode":    "01310-100",
		"city":       "São Paulo",
		"state":      "SP",
		"totalValue": 980.5,
	})

	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal(models.OrderStatusOpen, body["status"])
	suite.Equal(980.5, body["totalValue"])
}

func (suite *OrderAcceptanceTestSuite) TestOrderValidationErrorsAggregated() {
	resp, body := suite.request("POST", "/orders", map[string]interface{}{
		"clientId": suite.client.ID,
	})
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("O campo carId é obrigatório.", body["error"])

	resp, body = suite.request("PUT", "/orders/any", map[string]interface{}{
		"status": "SIDEWAYS",
		"state":  "XYZ",
	})
	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	errs, ok := body["errors"].([]interface{})
	suite.Require().True(ok)
	suite.Contains(errs, "O status deve ser OPEN, APPROVED, CLOSED ou CANCELED.")
	suite.Contains(errs, "O estado deve ter 2 caracteres.")
}

func (suite *OrderAcceptanceTestSuite) TestDeleteTransitionsToCanceled() {
	_, created := suite.request("POST", "/orders", map[string]interface{}{
		"carId":    suite.car.ID,
		"clientId": suite.client.ID,
	})
	id := created["id"].(string)

	resp, body := suite.request("DELETE", "/orders/"+id, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(models.OrderStatusCanceled, body["status"])

	// deleting never removes the row
	resp, body = suite.request("GET", "/orders/"+id, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(models.OrderStatusCanceled, body["status"])
}

func (suite *OrderAcceptanceTestSuite) TestListPagination() {
	for i := 0; i < 3; i++ {
		resp, _ := suite.request("POST", "/orders", map[string]interface{}{
			"carId":    suite.car.ID,
			"clientId": suite.client.ID,
		})
		suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	resp, body := suite.request("GET", "/orders?page=2&limit=2", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.EqualValues(3, body["total"])
	suite.EqualValues(2, body["page"])
	suite.EqualValues(2, body["limit"])
	suite.Len(body["orders"], 1)
}

func TestOrderAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
