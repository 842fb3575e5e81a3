package service

// liquidacion_service.go — settlement engine.
//
// The arithmetic (expected cash, variance, classification) is a set of pure
// functions over a loaded Salida; Liquidar wraps them in the one transaction
// that closes the shift and returns unsold inventory to the warehouse.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// toleranciaDiferencia: cash variances below one cent count as balanced.
var toleranciaDiferencia = decimal.NewFromFloat(0.01)

// EfectivoEsperado computes the physical cash the courier must hand over:
// total sales minus everything already collected by other means
// (transferencias, vales), minus customer debts still open, minus shift
// expenses. Pure; idempotent on an unchanged salida.
func EfectivoEsperado(salida *model.Salida) decimal.Decimal {
	ventas, transferencias, vales, deudas := TotalesVentas(salida.Ventas)
	gastos := TotalGastos(salida.Gastos)
	return ventas.Sub(transferencias).Sub(vales).Sub(deudas).Sub(gastos)
}

// TotalesVentas sums a shift's sales by collection channel.
func TotalesVentas(ventas []model.Venta) (total, transferencias, vales, deudas decimal.Decimal) {
	total, transferencias, vales, deudas = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, v := range ventas {
		total = total.Add(v.Total)
		transferencias = transferencias.Add(v.PagoTransferencia)
		vales = vales.Add(v.PagoVale)
		deudas = deudas.Add(v.MontoPendiente)
	}
	return total, transferencias, vales, deudas
}

func TotalGastos(gastos []model.Gasto) decimal.Decimal {
	total := decimal.Zero
	for _, g := range gastos {
		total = total.Add(g.Monto)
	}
	return total
}

// ClasificarDiferencia returns "cuadrada" | "sobrante" | "faltante".
func ClasificarDiferencia(diferencia decimal.Decimal) string {
	switch {
	case diferencia.Abs().LessThan(toleranciaDiferencia):
		return model.DiferenciaCuadrada
	case diferencia.IsPositive():
		return model.DiferenciaSobrante
	default:
		return model.DiferenciaFaltante
	}
}

type LiquidacionService interface {
	// EfectivoEsperado loads the salida and returns the engine's figure.
	EfectivoEsperado(ctx context.Context, salidaID uuid.UUID) (decimal.Decimal, error)
	Liquidar(ctx context.Context, salidaID uuid.UUID, req dto.LiquidarRequest) (*dto.LiquidacionResponse, error)
}

type liquidacionService struct {
	salidaRepo   repository.SalidaRepository
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoStockRepository
	dispatcher   *worker.Dispatcher
}

func NewLiquidacionService(
	salidaRepo repository.SalidaRepository,
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) LiquidacionService {
	return &liquidacionService{
		salidaRepo:   salidaRepo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		dispatcher:   dispatcher,
	}
}

func (s *liquidacionService) EfectivoEsperado(ctx context.Context, salidaID uuid.UUID) (decimal.Decimal, error) {
	salida, err := s.salidaRepo.FindByID(ctx, salidaID)
	if err != nil {
		return decimal.Zero, ErrSalidaNoEncontrada
	}
	return EfectivoEsperado(salida), nil
}

// ── Liquidar ──────────────────────────────────────────────────────────────────
// Closes the shift. Preconditions are checked before anything is written;
// any failure aborts with zero side effects. On success, in one transaction:
// last-minute gastos are appended, the immutable Liquidación is created, the
// salida transitions to liquidada, and the returned full containers go back
// into the warehouse counters (empties were already credited at each
// reabastecimiento).

func (s *liquidacionService) Liquidar(ctx context.Context, salidaID uuid.UUID, req dto.LiquidarRequest) (*dto.LiquidacionResponse, error) {
	salida, err := s.salidaRepo.FindByID(ctx, salidaID)
	if err != nil {
		return nil, ErrSalidaNoEncontrada
	}
	if salida.Estado != model.SalidaAbierta {
		return nil, &SalidaNoAbiertaError{SalidaID: salidaID, Estado: salida.Estado}
	}
	if req.EfectivoEntregado.IsNegative() {
		return nil, &ValidacionError{Campo: "efectivo_entregado", Motivo: "debe ser ≥ 0"}
	}

	custodia := make(map[uuid.UUID]int, len(salida.Stock))
	for _, sc := range salida.Stock {
		custodia[sc.ProductoID] = sc.CantidadLlena
	}

	// Pre-validate the final return against custody. Exceeding custody is a
	// data-entry error, not something to clamp silently.
	devoluciones := make([]model.LiquidacionDevolucion, 0, len(req.Devoluciones))
	for _, d := range req.Devoluciones {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if d.Cantidad <= 0 {
			return nil, &ValidacionError{Campo: "devoluciones.cantidad", Motivo: "debe ser > 0"}
		}
		if d.Cantidad > custodia[pid] {
			return nil, &StockInsuficienteError{
				ProductoID: pid,
				Origen:     "corredor",
				Solicitado: d.Cantidad,
				Disponible: custodia[pid],
			}
		}
		custodia[pid] -= d.Cantidad
		devoluciones = append(devoluciones, model.LiquidacionDevolucion{ProductoID: pid, Cantidad: d.Cantidad})
	}

	gastosFinales := make([]model.Gasto, 0, len(req.GastosFinales))
	for _, g := range req.GastosFinales {
		if g.Monto.IsNegative() || g.Monto.IsZero() {
			return nil, &ValidacionError{Campo: "gastos_finales.monto", Motivo: "debe ser > 0"}
		}
		gastosFinales = append(gastosFinales, model.Gasto{
			SalidaID: salidaID,
			Concepto: g.Concepto,
			Monto:    g.Monto,
		})
	}

	totalVentas, totalTransferencias, totalVales, totalDeudas := TotalesVentas(salida.Ventas)
	totalGastos := TotalGastos(salida.Gastos).Add(TotalGastos(gastosFinales))
	esperado := totalVentas.Sub(totalTransferencias).Sub(totalVales).Sub(totalDeudas).Sub(totalGastos)
	diferencia := req.EfectivoEntregado.Sub(esperado)

	liq := model.Liquidacion{
		SalidaID:            salidaID,
		TotalVentas:         totalVentas,
		TotalTransferencias: totalTransferencias,
		TotalVales:          totalVales,
		TotalDeudas:         totalDeudas,
		TotalGastos:         totalGastos,
		EfectivoEsperado:    esperado,
		EfectivoEntregado:   req.EfectivoEntregado,
		Diferencia:          diferencia,
		Clasificacion:       ClasificarDiferencia(diferencia),
		Devoluciones:        devoluciones,
	}

	txErr := runTx(ctx, s.salidaRepo.DB(), func(tx *gorm.DB) error {
		for i := range gastosFinales {
			if err := s.salidaRepo.CreateGastoTx(tx, &gastosFinales[i]); err != nil {
				return err
			}
		}
		if err := s.salidaRepo.CreateLiquidacionTx(tx, &liq); err != nil {
			return err
		}
		for _, d := range liq.Devoluciones {
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
			if err := s.creditarDevolucionFinal(tx, d.ProductoID, d.Cantidad, liq.ID); err != nil {
				return err
			}
		}
		return s.salidaRepo.UpdateEstadoTx(tx, salidaID, model.SalidaLiquidada)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async settlement report (best-effort — fire & forget)
	if s.dispatcher != nil {
		payload := map[string]interface{}{
			"salida_id":      salidaID.String(),
			"liquidacion_id": liq.ID.String(),
		}
		if req.EmailReporte != nil && *req.EmailReporte != "" {
			payload["email"] = *req.EmailReporte
		}
		_ = s.dispatcher.EnqueueReporteLiquidacion(ctx, payload)
	}

	catalogo := make(map[uuid.UUID]model.Producto)
	for _, d := range liq.Devoluciones {
		if p, err := s.productoRepo.FindByID(ctx, d.ProductoID); err == nil {
			catalogo[d.ProductoID] = *p
		}
	}
	resp := liquidacionToResponse(&liq, catalogo)
	return &resp, nil
}

func (s *liquidacionService) creditarDevolucionFinal(tx *gorm.DB, productoID uuid.UUID, cantidad int, liqID uuid.UUID) error {
	antes, err := s.productoRepo.FindByIDTx(tx, productoID)
	if err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.productoRepo.CreditarLlenoTx(tx, productoID, cantidad); err != nil {
		return err
	}
	ref := liqID
	return s.movRepo.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          model.MovLiquidacion,
		Envase:        model.EnvaseLleno,
		Cantidad:      cantidad,
		StockAnterior: antes.StockLleno,
		StockNuevo:    antes.StockLleno + cantidad,
		Motivo:        "Devolución final en liquidación",
		ReferenciaID:  &ref,
	})
}

func liquidacionToResponse(l *model.Liquidacion, catalogo map[uuid.UUID]model.Producto) dto.LiquidacionResponse {
	devoluciones := make([]dto.DevolucionFinalResponse, 0, len(l.Devoluciones))
	for _, d := range l.Devoluciones {
		nombre := ""
		if p, ok := catalogo[d.ProductoID]; ok {
			nombre = p.Nombre
		} else if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		devoluciones = append(devoluciones, dto.DevolucionFinalResponse{
			ProductoID: d.ProductoID.String(),
			Producto:   nombre,
			Cantidad:   d.Cantidad,
		})
	}
	return dto.LiquidacionResponse{
		ID:                  l.ID.String(),
		SalidaID:            l.SalidaID.String(),
		TotalVentas:         l.TotalVentas,
		TotalTransferencias: l.TotalTransferencias,
		TotalVales:          l.TotalVales,
		TotalDeudas:         l.TotalDeudas,
		TotalGastos:         l.TotalGastos,
		EfectivoEsperado:    l.EfectivoEsperado,
		EfectivoEntregado:   l.EfectivoEntregado,
		Diferencia:          l.Diferencia,
		Clasificacion:       l.Clasificacion,
		Devoluciones:        devoluciones,
		CreatedAt:           l.CreatedAt.Format(time.RFC3339),
	}
}
