package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SM227465/cl/api/middleware"
	"github.com/SM227465/cl/internal/dto"
	"github.com/SM227465/cl/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CarHandler struct {
	Service  *service.CarService
	Validate *validator.Validate
}

func NewCarHandler(svc *service.CarService, validate *validator.Validate) *CarHandler {
	return &CarHandler{Service: svc, Validate: validate}
}

func (h *CarHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("You are not logged in! Please log in to get access."))
	}

	var req dto.CreateCarRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}

	input := service.CreateCarInput{
		ProductID:          req.ProductID,
		Brand:              req.Brand,
		CarModel:           req.CarModel,
		Year:               req.Year,
		Price:              req.Price,
		Status:             req.Status,
		Odo:                req.Odo,
		Image:              req.Image,
		VIN:                req.VIN,
		RegistrationNumber: req.RegistrationNumber,
		FuelType:           req.FuelType,
		CC:                 req.CC,
		Cylinders:          req.Cylinders,
		TransmissionType:   req.TransmissionType,
		MaxSpeed:           req.MaxSpeed,
		BodyType:           req.BodyType,
		TrimType:           req.TrimType,
	}
	car, err := h.Service.Create(c.Request().Context(), input, user.ID)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Car created successfully",
		"data":    dto.CarResponseFromEntity(car),
	})
}

func (h *CarHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	sort := c.QueryParam("sort")

	result, err := h.Service.List(c.Request().Context(), page, limit, sort)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"results":     len(result.Cars),
		"total":       result.Total,
		"currentPage": result.CurrentPage,
		"totalPages":  result.TotalPages,
		"data":        dto.CarResponsesFromEntities(result.Cars),
	})
}

func (h *CarHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("Invalid car id"))
	}

	data, err := h.Service.GetEnriched(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}
