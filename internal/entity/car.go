package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const CarStatusAvailable = "Available"

type Car struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID string    `gorm:"type:varchar(100);default:''"`

	Brand    string `gorm:"type:varchar(100);not null"`
	CarModel string `gorm:"type:varchar(100);not null"`
	Year     int    `gorm:"not null"`
	Price    int64  `gorm:"not null"`
	Status   string `gorm:"type:varchar(50);default:'Available'"`
	Odo      int64  `gorm:"default:0"`
	Name     string `gorm:"type:varchar(255);not null"`
	Image    string `gorm:"type:text;default:''"`

	VIN                string `gorm:"column:vin;type:varchar(50);not null"`
	RegistrationNumber string `gorm:"type:varchar(50);not null"`
	FuelType           string `gorm:"type:varchar(50);not null"`
	CC                 string `gorm:"column:cc;type:varchar(20);not null"`
	Cylinders          string `gorm:"type:varchar(20);not null"`
	TransmissionType   string `gorm:"type:varchar(50);not null"`
	MaxSpeed           string `gorm:"type:varchar(20);not null"`
	BodyType           string `gorm:"type:varchar(50);not null"`
	TrimType           string `gorm:"type:varchar(50);not null"`

	AddedBy uuid.UUID `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the listing title shown to buyers.
func (c *Car) DisplayName() string {
	return fmt.Sprintf("%d %s %s %s", c.Year, c.Brand, c.CarModel, c.TrimType)
}
