package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Salida lifecycle states.
const (
	SalidaAbierta   = "abierta"
	SalidaLiquidada = "liquidada"
	SalidaCancelada = "cancelada"
)

// Salida is one courier's working period, from the initial stock allocation
// until liquidación. It is the aggregate root: detalles, reabastecimientos,
// ventas, gastos and the liquidación all belong to exactly one salida and
// never outlive it.
type Salida struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CorredorID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Estado: "abierta" | "liquidada" | "cancelada"
	Estado    string    `gorm:"type:varchar(20);not null;default:'abierta';index"`
	StartedAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Corredor          *Corredor          `gorm:"foreignKey:CorredorID"`
	Detalles          []SalidaDetalle    `gorm:"foreignKey:SalidaID"`
	Stock             []StockCorredor    `gorm:"foreignKey:SalidaID"`
	Reabastecimientos []Reabastecimiento `gorm:"foreignKey:SalidaID"`
	Ventas            []Venta            `gorm:"foreignKey:SalidaID"`
	Gastos            []Gasto            `gorm:"foreignKey:SalidaID"`
	Liquidacion       *Liquidacion       `gorm:"foreignKey:SalidaID"`
}

// SalidaDetalle is one line of the initial allocation: how many full
// containers left the warehouse with the courier, and how many empties the
// courier carried out (already-collected empties taken along for exchange).
type SalidaDetalle struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null"`
	CantidadLlena int       `gorm:"not null"`
	CantidadVacia int       `gorm:"not null;default:0"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// StockCorredor is the incremental custody counter: how many full containers
// of a product the courier currently holds. Updated in the same transaction
// as the event that changes it (salida inicial, reabastecimiento, venta,
// liquidación) — never recomputed destructively from history.
type StockCorredor struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salida_producto"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salida_producto"`
	CantidadLlena int       `gorm:"not null;default:0"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (StockCorredor) TableName() string { return "stock_corredores" }

// Gasto is a shift expense (fuel, tolls, food) deducted from the expected
// cash at liquidación.
type Gasto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Concepto  string          `gorm:"not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}
