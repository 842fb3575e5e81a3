package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a point-of-sale transaction against the courier's carried stock.
// Total = Σ detalles.cantidad × precio_unitario.
// MontoPendiente = max(0, total − efectivo − transferencia − vale): the part
// the customer still owes in cash.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalidaID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cliente      string          `gorm:"not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PagoEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// PagoTransferencia covers Yape/Plin/bank transfer collected electronically.
	PagoTransferencia decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PagoVale          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoPendiente    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Detalles   []VentaDetalle    `gorm:"foreignKey:VentaID"`
	Pendientes []PendienteEnvase `gorm:"foreignKey:VentaID"`
}

// VentaDetalle is one sale line. ConEnvase=true means the container itself
// was sold with the product (no return obligation is created). ConEnvase=false
// means the customer must hand back one empty per unit — unless that unit is
// covered by a PendienteEnvase, in which case the customer keeps the empty
// temporarily. The two states are mutually exclusive per unit.
type VentaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	ConEnvase      bool            `gorm:"not null;default:false"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// PendienteEnvase is a customer's deferred obligation to return an empty
// container. Devuelto flips to true when the envase finally comes back;
// that flip is the only mutation allowed after the salida is liquidada.
type PendienteEnvase struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad   int       `gorm:"not null"`
	Devuelto   bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PendienteEnvase) TableName() string { return "pendientes_envase" }
