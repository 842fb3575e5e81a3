package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Actualizar(ctx context.Context, ventaID uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListarPorSalida(ctx context.Context, salidaID uuid.UUID) ([]dto.VentaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	salidaRepo   repository.SalidaRepository
	productoRepo repository.ProductoRepository
}

func NewVentaService(
	repo repository.VentaRepository,
	salidaRepo repository.SalidaRepository,
	productoRepo repository.ProductoRepository,
) VentaService {
	return &ventaService{repo: repo, salidaRepo: salidaRepo, productoRepo: productoRepo}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Records a sale against the courier's carried stock:
//   1. Salida must be abierta.
//   2. Each line consumes custody (never warehouse stock directly).
//   3. Container disposition must be coherent: a unit is either sold with its
//      container, exchanged for an empty, or left pending with the customer —
//      pendiente and con_envase are mutually exclusive.
//   4. total and monto_pendiente come out of the same arithmetic the
//      settlement engine uses later.

func (s *ventaService) Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	salidaID, err := uuid.Parse(req.SalidaID)
	if err != nil {
		return nil, fmt.Errorf("salida_id inválido: %w", err)
	}
	salida, err := s.salidaRepo.FindByID(ctx, salidaID)
	if err != nil {
		return nil, ErrSalidaNoEncontrada
	}
	if salida.Estado != model.SalidaAbierta {
		return nil, &SalidaNoAbiertaError{SalidaID: salidaID, Estado: salida.Estado}
	}

	custodia := make(map[uuid.UUID]int, len(salida.Stock))
	for _, sc := range salida.Stock {
		custodia[sc.ProductoID] = sc.CantidadLlena
	}

	detalles, total, err := s.resolverDetalles(ctx, req.Detalles, custodia)
	if err != nil {
		return nil, err
	}

	pendientes, err := validarPendientes(req.Pendientes, detalles)
	if err != nil {
		return nil, err
	}

	if req.Pago.Efectivo.IsNegative() || req.Pago.Transferencia.IsNegative() || req.Pago.Vale.IsNegative() {
		return nil, &ValidacionError{Campo: "pago", Motivo: "los montos deben ser ≥ 0"}
	}

	venta := model.Venta{
		SalidaID:          salidaID,
		Cliente:           req.Cliente,
		Detalles:          detalles,
		Pendientes:        pendientes,
		Total:             total,
		PagoEfectivo:      req.Pago.Efectivo,
		PagoTransferencia: req.Pago.Transferencia,
		PagoVale:          req.Pago.Vale,
		MontoPendiente:    montoPendiente(total, req.Pago),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, d := range venta.Detalles {
			if err := s.salidaRepo.SumarStockCorredorTx(tx, salidaID, d.ProductoID, -d.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockCorredorInsuficiente) {
					return &StockInsuficienteError{
						ProductoID: d.ProductoID,
						Origen:     "corredor",
						Solicitado: d.Cantidad,
						Disponible: custodia[d.ProductoID],
					}
				}
				return err
			}
		}
		return s.repo.CreateTx(tx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ventaToResponse(&venta)
	return &resp, nil
}

// resolverDetalles resolves each requested line against the catalog, prices
// it, and pre-checks custody so the caller gets an actionable error before
// the transaction opens.
func (s *ventaService) resolverDetalles(ctx context.Context, lineas []dto.DetalleVentaRequest, custodia map[uuid.UUID]int) ([]model.VentaDetalle, decimal.Decimal, error) {
	detalles := make([]model.VentaDetalle, 0, len(lineas))
	total := decimal.Zero
	solicitado := make(map[uuid.UUID]int)

	for _, l := range lineas {
		pid, err := uuid.Parse(l.ProductoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("producto_id inválido: %w", err)
		}
		if l.Cantidad <= 0 {
			return nil, decimal.Zero, &ValidacionError{Campo: "cantidad", Motivo: "debe ser > 0"}
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, ErrProductoNoEncontrado
		}
		if !p.Activo {
			return nil, decimal.Zero, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}

		solicitado[pid] += l.Cantidad
		if solicitado[pid] > custodia[pid] {
			return nil, decimal.Zero, &StockInsuficienteError{
				ProductoID: pid,
				Origen:     "corredor",
				Solicitado: solicitado[pid],
				Disponible: custodia[pid],
			}
		}

		subtotal := p.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
		total = total.Add(subtotal)
		detalles = append(detalles, model.VentaDetalle{
			ProductoID:     pid,
			Cantidad:       l.Cantidad,
			ConEnvase:      l.ConEnvase,
			PrecioUnitario: p.PrecioUnitario,
			Subtotal:       subtotal,
		})
	}
	return detalles, total, nil
}

// validarPendientes enforces the disposition invariant: a pendiente can only
// cover units sold WITHOUT their container, and never more units than those
// lines hold.
func validarPendientes(reqs []dto.PendienteRequest, detalles []model.VentaDetalle) ([]model.PendienteEnvase, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	sinEnvase := make(map[uuid.UUID]int)
	conEnvase := make(map[uuid.UUID]bool)
	for _, d := range detalles {
		if d.ConEnvase {
			conEnvase[d.ProductoID] = true
		} else {
			sinEnvase[d.ProductoID] += d.Cantidad
		}
	}

	pendientes := make([]model.PendienteEnvase, 0, len(reqs))
	acumulado := make(map[uuid.UUID]int)
	for _, r := range reqs {
		pid, err := uuid.Parse(r.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if r.Cantidad <= 0 {
			return nil, &ValidacionError{Campo: "pendientes.cantidad", Motivo: "debe ser > 0"}
		}
		disponible, hay := sinEnvase[pid]
		if !hay {
			if conEnvase[pid] {
				return nil, &DisposicionInvalidaError{
					ProductoID: pid,
					Motivo:     "vendido con envase y a la vez con pendiente de devolución",
				}
			}
			return nil, &DisposicionInvalidaError{
				ProductoID: pid,
				Motivo:     "pendiente sin línea de venta correspondiente",
			}
		}
		acumulado[pid] += r.Cantidad
		if acumulado[pid] > disponible {
			return nil, &DisposicionInvalidaError{
				ProductoID: pid,
				Motivo:     fmt.Sprintf("pendiente de %d unidades excede las %d vendidas sin envase", acumulado[pid], disponible),
			}
		}
		pendientes = append(pendientes, model.PendienteEnvase{ProductoID: pid, Cantidad: r.Cantidad})
	}
	return pendientes, nil
}

func montoPendiente(total decimal.Decimal, pago dto.PagoVentaRequest) decimal.Decimal {
	pendiente := total.Sub(pago.Efectivo).Sub(pago.Transferencia).Sub(pago.Vale)
	if pendiente.IsNegative() {
		return decimal.Zero
	}
	return pendiente
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// While the salida is abierta, lines may be replaced and custody is
// rebalanced. Once liquidada, the reconciled balance is protected: only
// payment fields and pendiente fulfillment may change.

func (s *ventaService) Actualizar(ctx context.Context, ventaID uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	salida, err := s.salidaRepo.FindByID(ctx, venta.SalidaID)
	if err != nil {
		return nil, ErrSalidaNoEncontrada
	}

	if len(req.Detalles) > 0 && salida.Estado != model.SalidaAbierta {
		return nil, &EdicionRestringidaError{VentaID: ventaID, Campo: "detalles"}
	}

	pendientesIDs := make([]uuid.UUID, 0, len(req.PendientesDevueltos))
	for _, raw := range req.PendientesDevueltos {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("pendiente_id inválido: %w", err)
		}
		encontrado := false
		for _, p := range venta.Pendientes {
			if p.ID == pid {
				encontrado = true
				break
			}
		}
		if !encontrado {
			return nil, &ValidacionError{Campo: "pendientes_devueltos", Motivo: "no pertenece a la venta"}
		}
		pendientesIDs = append(pendientesIDs, pid)
	}

	pago := dto.PagoVentaRequest{
		Efectivo:      venta.PagoEfectivo,
		Transferencia: venta.PagoTransferencia,
		Vale:          venta.PagoVale,
	}
	if req.Pago != nil {
		if req.Pago.Efectivo.IsNegative() || req.Pago.Transferencia.IsNegative() || req.Pago.Vale.IsNegative() {
			return nil, &ValidacionError{Campo: "pago", Motivo: "los montos deben ser ≥ 0"}
		}
		pago = *req.Pago
	}

	total := venta.Total
	var nuevosDetalles []model.VentaDetalle
	if len(req.Detalles) > 0 {
		// Custody as if this sale had never happened, so the replacement
		// lines are validated against what the courier would actually hold.
		custodia := make(map[uuid.UUID]int, len(salida.Stock))
		for _, sc := range salida.Stock {
			custodia[sc.ProductoID] = sc.CantidadLlena
		}
		for _, d := range venta.Detalles {
			custodia[d.ProductoID] += d.Cantidad
		}

		nuevosDetalles, total, err = s.resolverDetalles(ctx, req.Detalles, custodia)
		if err != nil {
			return nil, err
		}
		if _, err := validarPendientes(pendientesComoRequest(venta.Pendientes), nuevosDetalles); err != nil {
			return nil, err
		}
	}

	nuevoPendiente := montoPendiente(total, pago)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if len(nuevosDetalles) > 0 {
			// Return the old lines to custody, then consume the new ones.
			for _, d := range venta.Detalles {
				if err := s.salidaRepo.SumarStockCorredorTx(tx, venta.SalidaID, d.ProductoID, d.Cantidad); err != nil {
					return err
				}
			}
			for _, d := range nuevosDetalles {
				if err := s.salidaRepo.SumarStockCorredorTx(tx, venta.SalidaID, d.ProductoID, -d.Cantidad); err != nil {
					if errors.Is(err, repository.ErrStockCorredorInsuficiente) {
						return &StockInsuficienteError{
							ProductoID: d.ProductoID,
							Origen:     "corredor",
							Solicitado: d.Cantidad,
							Disponible: 0,
						}
					}
					return err
				}
			}
			if err := s.repo.ReplaceDetallesTx(tx, ventaID, nuevosDetalles, total, nuevoPendiente); err != nil {
				return err
			}
		}
		if err := s.repo.UpdatePagosTx(tx, ventaID, pago.Efectivo, pago.Transferencia, pago.Vale, nuevoPendiente); err != nil {
			return err
		}
		for _, pid := range pendientesIDs {
			if err := s.repo.MarcarPendienteTx(tx, pid, true); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	actualizada, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	resp := ventaToResponse(actualizada)
	return &resp, nil
}

func pendientesComoRequest(pendientes []model.PendienteEnvase) []dto.PendienteRequest {
	reqs := make([]dto.PendienteRequest, 0, len(pendientes))
	for _, p := range pendientes {
		reqs = append(reqs, dto.PendienteRequest{ProductoID: p.ProductoID.String(), Cantidad: p.Cantidad})
	}
	return reqs
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaService) ListarPorSalida(ctx context.Context, salidaID uuid.UUID) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.ListBySalida(ctx, salidaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, ventaToResponse(&ventas[i]))
	}
	return out, nil
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			ConEnvase:      d.ConEnvase,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	pendientes := make([]dto.PendienteResponse, 0, len(v.Pendientes))
	for _, p := range v.Pendientes {
		pendientes = append(pendientes, dto.PendienteResponse{
			ID:         p.ID.String(),
			ProductoID: p.ProductoID.String(),
			Cantidad:   p.Cantidad,
			Devuelto:   p.Devuelto,
		})
	}
	return dto.VentaResponse{
		ID:                v.ID.String(),
		SalidaID:          v.SalidaID.String(),
		Cliente:           v.Cliente,
		Detalles:          detalles,
		Total:             v.Total,
		PagoEfectivo:      v.PagoEfectivo,
		PagoTransferencia: v.PagoTransferencia,
		PagoVale:          v.PagoVale,
		MontoPendiente:    v.MontoPendiente,
		Pendientes:        pendientes,
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
	}
}
