package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Business-rule rejections. None of these are transient: the caller must fix
// its input, never retry blindly. Handlers translate them to 4xx responses
// with the embedded context (producto, solicitado vs disponible).

// StockInsuficienteError: a requested quantity exceeds what the warehouse or
// the courier actually holds.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	// Origen: "almacen" | "corredor"
	Origen     string
	Solicitado int
	Disponible int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s para producto %s: solicitado %d, disponible %d",
		e.Origen, e.ProductoID, e.Solicitado, e.Disponible)
}

// DisposicionInvalidaError: a sale line claims contradictory container
// handling — sold with the container AND leaving a pending-envase debt, or a
// pendiente larger than the line itself.
type DisposicionInvalidaError struct {
	ProductoID uuid.UUID
	Motivo     string
}

func (e *DisposicionInvalidaError) Error() string {
	return fmt.Sprintf("disposición de envase inválida para producto %s: %s", e.ProductoID, e.Motivo)
}

// SalidaNoAbiertaError: a mutating operation was attempted on a salida that
// is already liquidada or cancelada.
type SalidaNoAbiertaError struct {
	SalidaID uuid.UUID
	Estado   string
}

func (e *SalidaNoAbiertaError) Error() string {
	return fmt.Sprintf("la salida %s no está abierta (estado: %s)", e.SalidaID, e.Estado)
}

// EdicionRestringidaError: once the salida is liquidada, sale lines and
// quantities are frozen; only pagos and pendiente fulfillment may change.
type EdicionRestringidaError struct {
	VentaID uuid.UUID
	Campo   string
}

func (e *EdicionRestringidaError) Error() string {
	return fmt.Sprintf("la venta %s pertenece a una salida liquidada: %s no puede modificarse", e.VentaID, e.Campo)
}

// ValidacionError: non-numeric or negative quantity/amount input that slipped
// past the HTTP-layer validator (defensive callers, seeds, batch imports).
type ValidacionError struct {
	Campo  string
	Motivo string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("valor inválido en %s: %s", e.Campo, e.Motivo)
}

// Sentinels for not-found lookups surfaced by services.
var (
	ErrSalidaNoEncontrada   = errors.New("salida no encontrada")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrCorredorNoEncontrado = errors.New("corredor no encontrado")
	// ErrSalidaConMovimientos: a salida with recorded ventas or
	// reabastecimientos cannot be cancelled, only liquidada.
	ErrSalidaConMovimientos = errors.New("la salida tiene movimientos registrados y no puede cancelarse")
)
