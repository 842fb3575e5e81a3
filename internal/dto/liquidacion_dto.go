package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DevolucionFinalRequest is one line of the final full-stock return at close.
type DevolucionFinalRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type LiquidarRequest struct {
	EfectivoEntregado decimal.Decimal          `json:"efectivo_entregado" validate:"min=0"`
	GastosFinales     []GastoRequest           `json:"gastos_finales"     validate:"dive"`
	Devoluciones      []DevolucionFinalRequest `json:"devoluciones"       validate:"dive"`
	// EmailReporte: when present, the settlement worker mails the PDF report.
	EmailReporte *string `json:"email_reporte" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DevolucionFinalResponse struct {
	ProductoID string `json:"producto_id"`
	Producto   string `json:"producto"`
	Cantidad   int    `json:"cantidad"`
}

type LiquidacionResponse struct {
	ID                  string                    `json:"id"`
	SalidaID            string                    `json:"salida_id"`
	TotalVentas         decimal.Decimal           `json:"total_ventas"`
	TotalTransferencias decimal.Decimal           `json:"total_transferencias"`
	TotalVales          decimal.Decimal           `json:"total_vales"`
	TotalDeudas         decimal.Decimal           `json:"total_deudas"`
	TotalGastos         decimal.Decimal           `json:"total_gastos"`
	EfectivoEsperado    decimal.Decimal           `json:"efectivo_esperado"`
	EfectivoEntregado   decimal.Decimal           `json:"efectivo_entregado"`
	Diferencia          decimal.Decimal           `json:"diferencia"`
	Clasificacion       string                    `json:"clasificacion"` // cuadrada | sobrante | faltante
	Devoluciones        []DevolucionFinalResponse `json:"devoluciones"`
	CreatedAt           string                    `json:"created_at"`
}
