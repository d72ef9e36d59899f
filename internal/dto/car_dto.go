package dto

import (
	"time"

	"github.com/SM227465/cl/internal/entity"
)

type CreateCarRequest struct {
	ProductID          string `json:"productId" validate:"omitempty"`
	Brand              string `json:"brand" validate:"required"`
	CarModel           string `json:"carModel" validate:"required"`
	Year               int    `json:"year" validate:"required,gte=1900"`
	Price              int64  `json:"price" validate:"required,gt=0"`
	Status             string `json:"status" validate:"omitempty"`
	Odo                int64  `json:"odo" validate:"gte=0"`
	Image              string `json:"image" validate:"omitempty"`
	VIN                string `json:"vin" validate:"required"`
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	FuelType           string `json:"fuelType" validate:"required"`
	CC                 string `json:"cc" validate:"required"`
	Cylinders          string `json:"cylinders" validate:"required"`
	TransmissionType   string `json:"transmissionType" validate:"required"`
	MaxSpeed           string `json:"maxSpeed" validate:"required"`
	BodyType           string `json:"bodyType" validate:"required"`
	TrimType           string `json:"trimType" validate:"required"`
}

type CarResponse struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"productId,omitempty"`
	Brand              string    `json:"brand"`
	CarModel           string    `json:"carModel"`
	Year               int       `json:"year"`
	Price              int64     `json:"price"`
	Status             string    `json:"status"`
	Odo                int64     `json:"odo"`
	Name               string    `json:"name"`
	Image              string    `json:"image,omitempty"`
	VIN                string    `json:"vin"`
	RegistrationNumber string    `json:"registrationNumber"`
	FuelType           string    `json:"fuelType"`
	CC                 string    `json:"cc"`
	Cylinders          string    `json:"cylinders"`
	TransmissionType   string    `json:"transmissionType"`
	MaxSpeed           string    `json:"maxSpeed"`
	BodyType           string    `json:"bodyType"`
	TrimType           string    `json:"trimType"`
	AddedBy            string    `json:"addedBy"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func CarResponseFromEntity(car *entity.Car) CarResponse {
	return CarResponse{
		ID:                 car.ID.String(),
		ProductID:          car.ProductID,
		Brand:              car.Brand,
		CarModel:           car.CarModel,
		Year:               car.Year,
		Price:              car.Price,
		Status:             car.Status,
		Odo:                car.Odo,
		Name:               car.Name,
		Image:              car.Image,
		VIN:                car.VIN,
		RegistrationNumber: car.RegistrationNumber,
		FuelType:           car.FuelType,
		CC:                 car.CC,
		Cylinders:          car.Cylinders,
		TransmissionType:   car.TransmissionType,
		MaxSpeed:           car.MaxSpeed,
		BodyType:           car.BodyType,
		TrimType:           car.TrimType,
		AddedBy:            car.AddedBy.String(),
		CreatedAt:          car.CreatedAt,
		UpdatedAt:          car.UpdatedAt,
	}
}

func CarResponsesFromEntities(cars []entity.Car) []CarResponse {
	responses := make([]CarResponse, 0, len(cars))
	for i := range cars {
		responses = append(responses, CarResponseFromEntity(&cars[i]))
	}
	return responses
}
