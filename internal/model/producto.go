package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prefixes of Producto.Tipo that mark a product as a deposit-bearing container
// (envase retornable). Anything else (valvulas, accesorios) carries no return
// obligation.
const (
	TipoPrefixGas  = "GAS_"
	TipoPrefixAgua = "AGUA_"
)

// Producto is a catalog entry plus the warehouse ledger row for that product:
// StockLleno / StockVacio are the full and empty container counters at the
// central depot. Both counters only change through recorded movements
// (salida inicial, reabastecimiento, liquidación, ajuste manual).
type Producto struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"index;not null"`
	// Tipo classifies the product: "GAS_10KG", "AGUA_20L", "VALVULA", ...
	Tipo           string          `gorm:"type:varchar(40);not null;index"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockLleno     int             `gorm:"not null;default:0"`
	StockVacio     int             `gorm:"not null;default:0"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EsEnvase reports whether the product is a deposit-bearing container type.
func (p *Producto) EsEnvase() bool {
	return EsTipoEnvase(p.Tipo)
}

// EsTipoEnvase applies the GAS_/AGUA_ prefix convention to a raw tipo tag.
func EsTipoEnvase(tipo string) bool {
	return strings.HasPrefix(tipo, TipoPrefixGas) || strings.HasPrefix(tipo, TipoPrefixAgua)
}
