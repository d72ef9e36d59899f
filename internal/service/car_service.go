package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SM227465/cl/internal/entity"
	"github.com/SM227465/cl/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCarNotFound       = errors.New("Car not found")
	ErrExternalAPIError  = errors.New("External API error")
	ErrExternalFetchFail = errors.New("Failed to fetch external car data")
)

// CarDataFetcher pulls the marketplace's own listing data for a product id.
type CarDataFetcher interface {
	Fetch(ctx context.Context, productID string) (json.RawMessage, error)
}

type CreateCarInput struct {
	ProductID          string
	Brand              string
	CarModel           string
	Year               int
	Price              int64
	Status             string
	Odo                int64
	Image              string
	VIN                string
	RegistrationNumber string
	FuelType           string
	CC                 string
	Cylinders          string
	TransmissionType   string
	MaxSpeed           string
	BodyType           string
	TrimType           string
}

type CarPage struct {
	Cars        []entity.Car
	Total       int64
	CurrentPage int
	TotalPages  int
}

type CarService struct {
	cars    repository.CarRepository
	fetcher CarDataFetcher
}

func NewCarService(cars repository.CarRepository, fetcher CarDataFetcher) *CarService {
	return &CarService{cars: cars, fetcher: fetcher}
}

func (s *CarService) Create(ctx context.Context, input CreateCarInput, addedBy uuid.UUID) (*entity.Car, error) {
	car := &entity.Car{
		ProductID:          input.ProductID,
		Brand:              input.Brand,
		CarModel:           input.CarModel,
		Year:               input.Year,
		Price:              input.Price,
		Status:             input.Status,
		Odo:                input.Odo,
		Image:              input.Image,
		VIN:                input.VIN,
		RegistrationNumber: input.RegistrationNumber,
		FuelType:           input.FuelType,
		CC:                 input.CC,
		Cylinders:          input.Cylinders,
		TransmissionType:   input.TransmissionType,
		MaxSpeed:           input.MaxSpeed,
		BodyType:           input.BodyType,
		TrimType:           input.TrimType,
		AddedBy:            addedBy,
	}
	if car.Status == "" {
		car.Status = entity.CarStatusAvailable
	}
	car.Name = car.DisplayName()

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// sortColumns whitelists the client-facing sort keys. A leading '-' on the
// query value means descending.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"year":      "year",
	"odo":       "odo",
	"brand":     "brand",
	"name":      "name",
}

func (s *CarService) List(ctx context.Context, page, limit int, sort string) (*CarPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	cars, err := s.cars.List(ctx, limit, (page-1)*limit, orderClause(sort))
	if err != nil {
		return nil, err
	}
	total, err := s.cars.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &CarPage{Cars: cars, Total: total, CurrentPage: page, TotalPages: totalPages}, nil
}

// GetEnriched resolves a stored car and returns the external listing data for
// its product id.
func (s *CarService) GetEnriched(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrCarNotFound
	}
	return s.fetcher.Fetch(ctx, car.ProductID)
}

func orderClause(sort string) string {
	if sort == "" {
		sort = "-createdAt"
	}
	direction := "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = sort[1:]
	}
	column, ok := sortColumns[sort]
	if !ok {
		column = "created_at"
		direction = "DESC"
	}
	return column + " " + direction
}

// ExternalCarClient fetches listing details from the upstream car data API.
type ExternalCarClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewExternalCarClient(baseURL string) *ExternalCarClient {
	return &ExternalCarClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ExternalCarClient) Fetch(ctx context.Context, productID string) (json.RawMessage, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.BaseURL, productID), nil)
	if err != nil {
		return nil, ErrExternalFetchFail
	}
	request.Header.Set("Accept", "application/json, text/plain, */*")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, ErrExternalFetchFail
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, ErrExternalAPIError
	}

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, ErrExternalFetchFail
	}
	return payload.Data, nil
}
