package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DetalleVentaRequest is one sale line. ConEnvase marks the container as sold
// along with the product (no return obligation).
type DetalleVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	ConEnvase  bool   `json:"con_envase"`
}

// PendienteRequest declares that the customer temporarily keeps the empty
// container for part of a line's quantity.
type PendienteRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type PagoVentaRequest struct {
	Efectivo      decimal.Decimal `json:"efectivo"      validate:"min=0"`
	Transferencia decimal.Decimal `json:"transferencia" validate:"min=0"`
	Vale          decimal.Decimal `json:"vale"          validate:"min=0"`
}

type RegistrarVentaRequest struct {
	SalidaID   string                `json:"salida_id" validate:"required,uuid"`
	Cliente    string                `json:"cliente"   validate:"required,min=2"`
	Detalles   []DetalleVentaRequest `json:"detalles"  validate:"required,min=1,dive"`
	Pago       PagoVentaRequest      `json:"pago"      validate:"required"`
	Pendientes []PendienteRequest    `json:"pendientes" validate:"dive"`
}

// ActualizarVentaRequest edits an existing sale. While the salida is abierta
// lines may be replaced (custody is rebalanced); once liquidada only Pago and
// PendientesDevueltos are accepted — line edits are rejected outright.
type ActualizarVentaRequest struct {
	Detalles            []DetalleVentaRequest `json:"detalles"             validate:"omitempty,min=1,dive"`
	Pago                *PagoVentaRequest     `json:"pago"`
	PendientesDevueltos []string              `json:"pendientes_devueltos" validate:"dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	ConEnvase      bool            `json:"con_envase"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PendienteResponse struct {
	ID         string `json:"id"`
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
	Devuelto   bool   `json:"devuelto"`
}

type VentaResponse struct {
	ID                string                 `json:"id"`
	SalidaID          string                 `json:"salida_id"`
	Cliente           string                 `json:"cliente"`
	Detalles          []DetalleVentaResponse `json:"detalles"`
	Total             decimal.Decimal        `json:"total"`
	PagoEfectivo      decimal.Decimal        `json:"pago_efectivo"`
	PagoTransferencia decimal.Decimal        `json:"pago_transferencia"`
	PagoVale          decimal.Decimal        `json:"pago_vale"`
	MontoPendiente    decimal.Decimal        `json:"monto_pendiente"`
	Pendientes        []PendienteResponse    `json:"pendientes"`
	CreatedAt         string                 `json:"created_at"`
}
