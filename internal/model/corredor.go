package model

import (
	"time"

	"github.com/google/uuid"
)

// Corredor is a delivery courier. Referenced by Salida; never owns stock
// directly — custody during a shift is tracked per Salida in StockCorredor.
type Corredor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null;index"`
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Corredor) TableName() string { return "corredores" }
