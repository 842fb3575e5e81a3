package model

import (
	"time"

	"github.com/google/uuid"
)

// Reabastecimiento is a mid-shift exchange between warehouse and courier.
// Events are append-only: a wrong entry is corrected with a compensating
// event, never edited or deleted.
type Reabastecimiento struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time

	Detalles []ReabastecimientoDetalle `gorm:"foreignKey:ReabastecimientoID"`
}

func (Reabastecimiento) TableName() string { return "reabastecimientos" }

// ReabastecimientoDetalle records, per product, full containers taken from
// the warehouse and full/empty containers handed back.
type ReabastecimientoDetalle struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReabastecimientoID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID         uuid.UUID `gorm:"type:uuid;not null"`
	LlenosTomados      int       `gorm:"not null;default:0"`
	LlenosDevueltos    int       `gorm:"not null;default:0"`
	VaciosDevueltos    int       `gorm:"not null;default:0"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (ReabastecimientoDetalle) TableName() string { return "reabastecimiento_detalles" }
