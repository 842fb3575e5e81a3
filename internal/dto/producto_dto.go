package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Tipo   string `form:"tipo"`
	Activo string `form:"activo"` // "false" | "all" | default activos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2"`
	Tipo           string          `json:"tipo"            validate:"required,min=2"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required,gt=0"`
	StockLleno     int             `json:"stock_lleno"     validate:"min=0"`
	StockVacio     int             `json:"stock_vacio"     validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2"`
	Tipo           string          `json:"tipo"            validate:"required,min=2"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required,gt=0"`
}

// AjustarStockRequest is a manual warehouse correction. Every adjustment
// leaves an audit entry in movimientos_stock.
type AjustarStockRequest struct {
	Envase    string `json:"envase"    validate:"required,oneof=lleno vacio"`
	Operacion string `json:"operacion" validate:"required,oneof=incrementar decrementar"`
	Cantidad  int    `json:"cantidad"  validate:"required,gt=0"`
	Motivo    string `json:"motivo"    validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Tipo           string          `json:"tipo"`
	EsEnvase       bool            `json:"es_envase"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	StockLleno     int             `json:"stock_lleno"`
	StockVacio     int             `json:"stock_vacio"`
	Activo         bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Tipo          string  `json:"tipo"`
	Envase        string  `json:"envase"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}
