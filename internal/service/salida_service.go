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
	"gorm.io/gorm"
)

type SalidaService interface {
	Crear(ctx context.Context, req dto.CrearSalidaRequest) (*dto.SalidaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SalidaResponse, error)
	Listar(ctx context.Context, filter dto.SalidaFilter) (*dto.SalidaListResponse, error)
	Reporte(ctx context.Context, id uuid.UUID) (*dto.ReporteSalidaResponse, error)
	Reabastecer(ctx context.Context, salidaID uuid.UUID, req dto.ReabastecerRequest) (*dto.ReabastecimientoResponse, error)
	RegistrarGasto(ctx context.Context, salidaID uuid.UUID, req dto.GastoRequest) error
	Cancelar(ctx context.Context, salidaID uuid.UUID) error
}

type salidaService struct {
	repo         repository.SalidaRepository
	productoRepo repository.ProductoRepository
	corredorRepo repository.CorredorRepository
	movRepo      repository.MovimientoStockRepository
}

func NewSalidaService(
	repo repository.SalidaRepository,
	productoRepo repository.ProductoRepository,
	corredorRepo repository.CorredorRepository,
	movRepo repository.MovimientoStockRepository,
) SalidaService {
	return &salidaService{
		repo:         repo,
		productoRepo: productoRepo,
		corredorRepo: corredorRepo,
		movRepo:      movRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Opens a shift: reserves the initial allocation from the warehouse and seeds
// the courier's custody counters. All-or-nothing — a single product short on
// stock aborts the whole departure.

func (s *salidaService) Crear(ctx context.Context, req dto.CrearSalidaRequest) (*dto.SalidaResponse, error) {
	corredorID, err := uuid.Parse(req.CorredorID)
	if err != nil {
		return nil, fmt.Errorf("corredor_id inválido: %w", err)
	}
	corredor, err := s.corredorRepo.FindByID(ctx, corredorID)
	if err != nil || !corredor.Activo {
		return nil, ErrCorredorNoEncontrado
	}

	// Resolve products up front (pre-flight, outside TX)
	type lineaInicial struct {
		producto *model.Producto
		llenos   int
		vacios   int
	}
	lineas := make([]lineaInicial, 0, len(req.Detalles))
	for _, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if d.CantidadLlena < 0 || d.CantidadVacia < 0 {
			return nil, &ValidacionError{Campo: "cantidad", Motivo: "debe ser ≥ 0"}
		}
		if d.CantidadLlena == 0 && d.CantidadVacia == 0 {
			return nil, &ValidacionError{Campo: "detalles", Motivo: "línea sin cantidades"}
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, ErrProductoNoEncontrado
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo", p.Nombre)
		}
		lineas = append(lineas, lineaInicial{producto: p, llenos: d.CantidadLlena, vacios: d.CantidadVacia})
	}

	salida := model.Salida{
		CorredorID: corredorID,
		Estado:     model.SalidaAbierta,
		StartedAt:  time.Now(),
	}
	for _, l := range lineas {
		salida.Detalles = append(salida.Detalles, model.SalidaDetalle{
			ProductoID:    l.producto.ID,
			CantidadLlena: l.llenos,
			CantidadVacia: l.vacios,
		})
		if l.llenos > 0 {
			salida.Stock = append(salida.Stock, model.StockCorredor{
				ProductoID:    l.producto.ID,
				CantidadLlena: l.llenos,
			})
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &salida); err != nil {
			return err
		}
		for _, l := range lineas {
			if l.llenos > 0 {
				if err := s.reservarConAuditoria(tx, l.producto.ID, model.EnvaseLleno, l.llenos,
					model.MovSalidaInicial, fmt.Sprintf("Salida inicial corredor %s", corredor.Nombre), salida.ID); err != nil {
					return err
				}
			}
			if l.vacios > 0 {
				if err := s.reservarConAuditoria(tx, l.producto.ID, model.EnvaseVacio, l.vacios,
					model.MovSalidaInicial, fmt.Sprintf("Salida inicial corredor %s", corredor.Nombre), salida.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	salida.Corredor = corredor
	resp := salidaToResponse(&salida)
	return &resp, nil
}

// reservarConAuditoria decrements a warehouse counter behind its guard and
// records the movement with before/after values.
func (s *salidaService) reservarConAuditoria(tx *gorm.DB, productoID uuid.UUID, envase string, cantidad int, tipo, motivo string, refID uuid.UUID) error {
	antes, err := s.productoRepo.FindByIDTx(tx, productoID)
	if err != nil {
		return ErrProductoNoEncontrado
	}

	var disponible int
	var reservar func(*gorm.DB, uuid.UUID, int) error
	if envase == model.EnvaseLleno {
		disponible = antes.StockLleno
		reservar = s.productoRepo.ReservarLlenoTx
	} else {
		disponible = antes.StockVacio
		reservar = s.productoRepo.ReservarVacioTx
	}

	if err := reservar(tx, productoID, cantidad); err != nil {
		if errors.Is(err, repository.ErrStockInsuficiente) {
			return &StockInsuficienteError{
				ProductoID: productoID,
				Origen:     "almacen",
				Solicitado: cantidad,
				Disponible: disponible,
			}
		}
		return err
	}

	ref := refID
	return s.movRepo.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Envase:        envase,
		Cantidad:      -cantidad,
		StockAnterior: disponible,
		StockNuevo:    disponible - cantidad,
		Motivo:        motivo,
		ReferenciaID:  &ref,
	})
}

// creditarConAuditoria increments a warehouse counter and records the movement.
func (s *salidaService) creditarConAuditoria(tx *gorm.DB, productoID uuid.UUID, envase string, cantidad int, tipo, motivo string, refID uuid.UUID) error {
	antes, err := s.productoRepo.FindByIDTx(tx, productoID)
	if err != nil {
		return ErrProductoNoEncontrado
	}

	var actual int
	var creditar func(*gorm.DB, uuid.UUID, int) error
	if envase == model.EnvaseLleno {
		actual = antes.StockLleno
		creditar = s.productoRepo.CreditarLlenoTx
	} else {
		actual = antes.StockVacio
		creditar = s.productoRepo.CreditarVacioTx
	}

	if err := creditar(tx, productoID, cantidad); err != nil {
		return err
	}

	ref := refID
	return s.movRepo.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    productoID,
		Tipo:          tipo,
		Envase:        envase,
		Cantidad:      cantidad,
		StockAnterior: actual,
		StockNuevo:    actual + cantidad,
		Motivo:        motivo,
		ReferenciaID:  &ref,
	})
}

// ── Reabastecer ───────────────────────────────────────────────────────────────
// Mid-shift exchange: full containers out of the warehouse into custody,
// full/empty containers back. The event is append-only; a wrong entry gets a
// compensating event, never an edit.

func (s *salidaService) Reabastecer(ctx context.Context, salidaID uuid.UUID, req dto.ReabastecerRequest) (*dto.ReabastecimientoResponse, error) {
	salida, err := s.repo.FindByID(ctx, salidaID)
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

	reab := model.Reabastecimiento{SalidaID: salidaID}
	for _, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if d.LlenosTomados < 0 || d.LlenosDevueltos < 0 || d.VaciosDevueltos < 0 {
			return nil, &ValidacionError{Campo: "cantidad", Motivo: "debe ser ≥ 0"}
		}
		if d.LlenosTomados == 0 && d.LlenosDevueltos == 0 && d.VaciosDevueltos == 0 {
			return nil, &ValidacionError{Campo: "detalles", Motivo: "línea sin cantidades"}
		}
		// Full returns come out of custody — verify before touching anything.
		if d.LlenosDevueltos > custodia[pid]+d.LlenosTomados {
			return nil, &StockInsuficienteError{
				ProductoID: pid,
				Origen:     "corredor",
				Solicitado: d.LlenosDevueltos,
				Disponible: custodia[pid] + d.LlenosTomados,
			}
		}
		reab.Detalles = append(reab.Detalles, model.ReabastecimientoDetalle{
			ProductoID:      pid,
			LlenosTomados:   d.LlenosTomados,
			LlenosDevueltos: d.LlenosDevueltos,
			VaciosDevueltos: d.VaciosDevueltos,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateReabastecimientoTx(tx, &reab); err != nil {
			return err
		}
		for _, d := range reab.Detalles {
			if d.LlenosTomados > 0 {
				if err := s.reservarConAuditoria(tx, d.ProductoID, model.EnvaseLleno, d.LlenosTomados,
					model.MovReabastecimiento, "Reabastecimiento a corredor", reab.ID); err != nil {
					return err
				}
				if err := s.repo.SumarStockCorredorTx(tx, salidaID, d.ProductoID, d.LlenosTomados); err != nil {
					return err
				}
			}
			if d.LlenosDevueltos > 0 {
				if err := s.repo.SumarStockCorredorTx(tx, salidaID, d.ProductoID, -d.LlenosDevueltos); err != nil {
					if errors.Is(err, repository.ErrStockCorredorInsuficiente) {
						return &StockInsuficienteError{
							ProductoID: d.ProductoID,
							Origen:     "corredor",
							Solicitado: d.LlenosDevueltos,
							Disponible: custodia[d.ProductoID],
						}
					}
					return err
				}
				if err := s.creditarConAuditoria(tx, d.ProductoID, model.EnvaseLleno, d.LlenosDevueltos,
					model.MovDevolucion, "Devolución de llenos en reabastecimiento", reab.ID); err != nil {
					return err
				}
			}
			if d.VaciosDevueltos > 0 {
				if err := s.creditarConAuditoria(tx, d.ProductoID, model.EnvaseVacio, d.VaciosDevueltos,
					model.MovDevolucion, "Devolución de vacíos en reabastecimiento", reab.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := reabastecimientoToResponse(&reab)
	return &resp, nil
}

// ── RegistrarGasto ────────────────────────────────────────────────────────────

func (s *salidaService) RegistrarGasto(ctx context.Context, salidaID uuid.UUID, req dto.GastoRequest) error {
	salida, err := s.repo.FindByID(ctx, salidaID)
	if err != nil {
		return ErrSalidaNoEncontrada
	}
	if salida.Estado != model.SalidaAbierta {
		return &SalidaNoAbiertaError{SalidaID: salidaID, Estado: salida.Estado}
	}
	if req.Monto.IsNegative() || req.Monto.IsZero() {
		return &ValidacionError{Campo: "monto", Motivo: "debe ser > 0"}
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateGastoTx(tx, &model.Gasto{
			SalidaID: salidaID,
			Concepto: req.Concepto,
			Monto:    req.Monto,
		})
	})
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// A salida with no recorded activity can be aborted: the initial allocation
// goes back to the warehouse and the shift closes as cancelada.

func (s *salidaService) Cancelar(ctx context.Context, salidaID uuid.UUID) error {
	salida, err := s.repo.FindByID(ctx, salidaID)
	if err != nil {
		return ErrSalidaNoEncontrada
	}
	if salida.Estado != model.SalidaAbierta {
		return &SalidaNoAbiertaError{SalidaID: salidaID, Estado: salida.Estado}
	}
	if len(salida.Ventas) > 0 || len(salida.Reabastecimientos) > 0 {
		return ErrSalidaConMovimientos
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, d := range salida.Detalles {
			if d.CantidadLlena > 0 {
				if err := s.creditarConAuditoria(tx, d.ProductoID, model.EnvaseLleno, d.CantidadLlena,
					model.MovCancelacion, "Cancelación de salida", salidaID); err != nil {
					return err
				}
			}
			if d.CantidadVacia > 0 {
				if err := s.creditarConAuditoria(tx, d.ProductoID, model.EnvaseVacio, d.CantidadVacia,
					model.MovCancelacion, "Cancelación de salida", salidaID); err != nil {
					return err
				}
			}
		}
		if err := s.repo.DeleteStockCorredorTx(tx, salidaID); err != nil {
			return err
		}
		return s.repo.UpdateEstadoTx(tx, salidaID, model.SalidaCancelada)
	})
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *salidaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SalidaResponse, error) {
	salida, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSalidaNoEncontrada
	}
	resp := salidaToResponse(salida)
	return &resp, nil
}

func (s *salidaService) Listar(ctx context.Context, filter dto.SalidaFilter) (*dto.SalidaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	salidas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalidaListItem, 0, len(salidas))
	for _, sal := range salidas {
		corredor := ""
		if sal.Corredor != nil {
			corredor = sal.Corredor.Nombre
		}
		items = append(items, dto.SalidaListItem{
			ID:         sal.ID.String(),
			CorredorID: sal.CorredorID.String(),
			Corredor:   corredor,
			Estado:     sal.Estado,
			StartedAt:  sal.StartedAt.Format(time.RFC3339),
		})
	}
	return &dto.SalidaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Reporte assembles the full shift view: event history plus the figures both
// engines derive. Everything numeric comes from the engines — nothing here
// re-adds totals.
func (s *salidaService) Reporte(ctx context.Context, id uuid.UUID) (*dto.ReporteSalidaResponse, error) {
	salida, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSalidaNoEncontrada
	}

	catalogo, err := s.catalogoDe(ctx, salida)
	if err != nil {
		return nil, err
	}

	balances := TiposOrdenados(BalanceEnvases(salida, catalogo))
	balanceRows := make([]dto.BalanceTipoResponse, 0, len(balances))
	for _, b := range balances {
		balanceRows = append(balanceRows, dto.BalanceTipoResponse{
			Tipo:              b.Tipo,
			TomadosLlenos:     b.TomadosLlenos,
			VaciosIniciales:   b.VaciosIniciales,
			DevueltosLlenos:   b.DevueltosLlenos,
			DevueltosVacios:   b.DevueltosVacios,
			VendidosConEnvase: b.VendidosConEnvase,
			VendidosSinEnvase: b.VendidosSinEnvase,
			Pendientes:        b.Pendientes,
			Saldo:             b.Saldo,
			Sobrante:          b.Sobrante,
		})
	}

	reabs := make([]dto.ReabastecimientoResponse, 0, len(salida.Reabastecimientos))
	for i := range salida.Reabastecimientos {
		reabs = append(reabs, reabastecimientoToResponse(&salida.Reabastecimientos[i]))
	}
	ventas := make([]dto.VentaResponse, 0, len(salida.Ventas))
	for i := range salida.Ventas {
		ventas = append(ventas, ventaToResponse(&salida.Ventas[i]))
	}
	gastos := make([]dto.GastoResponse, 0, len(salida.Gastos))
	for _, g := range salida.Gastos {
		gastos = append(gastos, dto.GastoResponse{Concepto: g.Concepto, Monto: g.Monto})
	}

	reporte := &dto.ReporteSalidaResponse{
		Salida:            salidaToResponse(salida),
		Reabastecimientos: reabs,
		Ventas:            ventas,
		Gastos:            gastos,
		Balance:           balanceRows,
		EfectivoEsperado:  EfectivoEsperado(salida),
	}
	if salida.Liquidacion != nil {
		liq := liquidacionToResponse(salida.Liquidacion, catalogo)
		reporte.Liquidacion = &liq
	}
	return reporte, nil
}

// catalogoDe resolves every producto referenced by the salida's events into a
// snapshot map for the balance engine.
func (s *salidaService) catalogoDe(ctx context.Context, salida *model.Salida) (map[uuid.UUID]model.Producto, error) {
	ids := make(map[uuid.UUID]struct{})
	for _, d := range salida.Detalles {
		ids[d.ProductoID] = struct{}{}
	}
	for _, r := range salida.Reabastecimientos {
		for _, d := range r.Detalles {
			ids[d.ProductoID] = struct{}{}
		}
	}
	for _, v := range salida.Ventas {
		for _, d := range v.Detalles {
			ids[d.ProductoID] = struct{}{}
		}
		for _, p := range v.Pendientes {
			ids[p.ProductoID] = struct{}{}
		}
	}

	catalogo := make(map[uuid.UUID]model.Producto, len(ids))
	for id := range ids {
		p, err := s.productoRepo.FindByID(ctx, id)
		if err != nil {
			return nil, ErrProductoNoEncontrado
		}
		catalogo[id] = *p
	}
	return catalogo, nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func salidaToResponse(s *model.Salida) dto.SalidaResponse {
	corredor := ""
	if s.Corredor != nil {
		corredor = s.Corredor.Nombre
	}
	detalles := make([]dto.DetalleSalidaResponse, 0, len(s.Detalles))
	for _, d := range s.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleSalidaResponse{
			ProductoID:    d.ProductoID.String(),
			Producto:      nombre,
			CantidadLlena: d.CantidadLlena,
			CantidadVacia: d.CantidadVacia,
		})
	}
	stock := make([]dto.StockCorredorResponse, 0, len(s.Stock))
	for _, sc := range s.Stock {
		nombre := ""
		if sc.Producto != nil {
			nombre = sc.Producto.Nombre
		}
		stock = append(stock, dto.StockCorredorResponse{
			ProductoID:    sc.ProductoID.String(),
			Producto:      nombre,
			CantidadLlena: sc.CantidadLlena,
		})
	}
	return dto.SalidaResponse{
		ID:         s.ID.String(),
		CorredorID: s.CorredorID.String(),
		Corredor:   corredor,
		Estado:     s.Estado,
		StartedAt:  s.StartedAt.Format(time.RFC3339),
		Detalles:   detalles,
		Stock:      stock,
	}
}

func reabastecimientoToResponse(r *model.Reabastecimiento) dto.ReabastecimientoResponse {
	detalles := make([]dto.DetalleReabastecimientoResponse, 0, len(r.Detalles))
	for _, d := range r.Detalles {
		detalles = append(detalles, dto.DetalleReabastecimientoResponse{
			ProductoID:      d.ProductoID.String(),
			LlenosTomados:   d.LlenosTomados,
			LlenosDevueltos: d.LlenosDevueltos,
			VaciosDevueltos: d.VaciosDevueltos,
		})
	}
	return dto.ReabastecimientoResponse{
		ID:        r.ID.String(),
		Detalles:  detalles,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
