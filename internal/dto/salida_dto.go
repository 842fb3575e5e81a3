package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SalidaFilter is bound from the query string of GET /v1/salidas.
type SalidaFilter struct {
	Fecha      string `form:"fecha"` // YYYY-MM-DD; empty = all
	Estado     string `form:"estado"`
	CorredorID string `form:"corredor_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DetalleSalidaRequest is one line of the initial allocation.
type DetalleSalidaRequest struct {
	ProductoID    string `json:"producto_id"    validate:"required,uuid"`
	CantidadLlena int    `json:"cantidad_llena" validate:"min=0"`
	CantidadVacia int    `json:"cantidad_vacia" validate:"min=0"`
}

type CrearSalidaRequest struct {
	CorredorID string                 `json:"corredor_id" validate:"required,uuid"`
	Detalles   []DetalleSalidaRequest `json:"detalles"    validate:"required,min=1,dive"`
}

// DetalleReabastecimientoRequest is one product line of a mid-shift exchange.
type DetalleReabastecimientoRequest struct {
	ProductoID      string `json:"producto_id"      validate:"required,uuid"`
	LlenosTomados   int    `json:"llenos_tomados"   validate:"min=0"`
	LlenosDevueltos int    `json:"llenos_devueltos" validate:"min=0"`
	VaciosDevueltos int    `json:"vacios_devueltos" validate:"min=0"`
}

type ReabastecerRequest struct {
	Detalles []DetalleReabastecimientoRequest `json:"detalles" validate:"required,min=1,dive"`
}

type GastoRequest struct {
	Concepto string          `json:"concepto" validate:"required,min=3"`
	Monto    decimal.Decimal `json:"monto"    validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleSalidaResponse struct {
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto"`
	CantidadLlena int    `json:"cantidad_llena"`
	CantidadVacia int    `json:"cantidad_vacia"`
}

type StockCorredorResponse struct {
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto"`
	CantidadLlena int    `json:"cantidad_llena"`
}

type ReabastecimientoResponse struct {
	ID        string                            `json:"id"`
	Detalles  []DetalleReabastecimientoResponse `json:"detalles"`
	CreatedAt string                            `json:"created_at"`
}

type DetalleReabastecimientoResponse struct {
	ProductoID      string `json:"producto_id"`
	LlenosTomados   int    `json:"llenos_tomados"`
	LlenosDevueltos int    `json:"llenos_devueltos"`
	VaciosDevueltos int    `json:"vacios_devueltos"`
}

type GastoResponse struct {
	Concepto string          `json:"concepto"`
	Monto    decimal.Decimal `json:"monto"`
}

type SalidaResponse struct {
	ID         string                  `json:"id"`
	CorredorID string                  `json:"corredor_id"`
	Corredor   string                  `json:"corredor"`
	Estado     string                  `json:"estado"`
	StartedAt  string                  `json:"started_at"`
	Detalles   []DetalleSalidaResponse `json:"detalles"`
	Stock      []StockCorredorResponse `json:"stock_corredor"`
}

type SalidaListItem struct {
	ID         string `json:"id"`
	CorredorID string `json:"corredor_id"`
	Corredor   string `json:"corredor"`
	Estado     string `json:"estado"`
	StartedAt  string `json:"started_at"`
}

type SalidaListResponse struct {
	Data  []SalidaListItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// BalanceTipoResponse is one per-container-type row of the reconciliation
// report: what the courier took, returned, sold and still must justify.
type BalanceTipoResponse struct {
	Tipo              string `json:"tipo"`
	TomadosLlenos     int    `json:"tomados_llenos"`
	VaciosIniciales   int    `json:"vacios_iniciales"`
	DevueltosLlenos   int    `json:"devueltos_llenos"`
	DevueltosVacios   int    `json:"devueltos_vacios"`
	VendidosConEnvase int    `json:"vendidos_con_envase"`
	VendidosSinEnvase int    `json:"vendidos_sin_envase"`
	Pendientes        int    `json:"pendientes"`
	Saldo             int    `json:"saldo"`
	Sobrante          int    `json:"sobrante"`
}

// ReporteSalidaResponse is the full shift report: event history plus the
// figures both engines derive. The UI renders this as-is; it never re-derives
// the arithmetic.
type ReporteSalidaResponse struct {
	Salida            SalidaResponse             `json:"salida"`
	Reabastecimientos []ReabastecimientoResponse `json:"reabastecimientos"`
	Ventas            []VentaResponse            `json:"ventas"`
	Gastos            []GastoResponse            `json:"gastos"`
	Balance           []BalanceTipoResponse      `json:"balance"`
	EfectivoEsperado  decimal.Decimal            `json:"efectivo_esperado"`
	Liquidacion       *LiquidacionResponse       `json:"liquidacion"`
}
