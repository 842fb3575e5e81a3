package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock tipos — every warehouse counter mutation names its cause.
const (
	MovSalidaInicial    = "salida_inicial"
	MovReabastecimiento = "reabastecimiento"
	MovDevolucion       = "devolucion"
	MovLiquidacion      = "liquidacion"
	MovCancelacion      = "cancelacion_salida"
	MovAjusteManual     = "ajuste_manual"
)

// Envase discriminates which warehouse counter a movement touched.
const (
	EnvaseLleno = "lleno"
	EnvaseVacio = "vacio"
)

// MovimientoStock registra cada cambio en los contadores del almacén.
// Movements are NEVER modified or deleted — corrections create compensating
// entries, so the audit trail always explains the current counters.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"type:varchar(30);not null"`
	// Envase: "lleno" | "vacio"
	Envase        string `gorm:"type:varchar(10);not null"`
	Cantidad      int    `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int    `gorm:"not null"`
	StockNuevo    int    `gorm:"not null"`
	Motivo        string
	// ReferenciaID links to the causing salida, reabastecimiento or liquidación.
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }
