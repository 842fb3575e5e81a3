package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clasificacion values for the cash variance at liquidación.
// cuadrada: |diferencia| < 0.01 (currency tolerance).
const (
	DiferenciaCuadrada = "cuadrada"
	DiferenciaSobrante = "sobrante"
	DiferenciaFaltante = "faltante"
)

// Liquidacion is the end-of-shift reconciliation record. Created exactly once
// per salida, inside the same transaction that closes it, and immutable
// thereafter.
type Liquidacion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	TotalVentas         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalTransferencias decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalVales          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalDeudas         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalGastos         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EfectivoEsperado    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EfectivoEntregado   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Diferencia = entregado − esperado. Positive: sobrante, negative: faltante.
	Diferencia    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Clasificacion string          `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time

	Devoluciones []LiquidacionDevolucion `gorm:"foreignKey:LiquidacionID"`
}

func (Liquidacion) TableName() string { return "liquidaciones" }

// LiquidacionDevolucion is the final return of unsold full containers,
// credited back to the warehouse when the salida closes.
type LiquidacionDevolucion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LiquidacionID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad      int       `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (LiquidacionDevolucion) TableName() string { return "liquidacion_devoluciones" }
