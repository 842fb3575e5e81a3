package service

import (
	"context"
	"time"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// AjustarStock is the manual correction path (recuentos físicos, mermas).
	// It goes through the same guarded counters and audit trail as the
	// operational flows.
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	ListarMovimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
}

type productoService struct {
	repo    repository.ProductoRepository
	movRepo repository.MovimientoStockRepository
}

func NewProductoService(repo repository.ProductoRepository, movRepo repository.MovimientoStockRepository) ProductoService {
	return &productoService{repo: repo, movRepo: movRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := model.Producto{
		Nombre:         req.Nombre,
		Tipo:           req.Tipo,
		PrecioUnitario: req.PrecioUnitario,
		StockLleno:     req.StockLleno,
		StockVacio:     req.StockVacio,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	resp := productoToResponse(&p)
	return &resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	p.Nombre = req.Nombre
	p.Tipo = req.Tipo
	p.PrecioUnitario = req.PrecioUnitario
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrProductoNoEncontrado
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		antes, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrProductoNoEncontrado
		}

		var stockAnterior int
		if req.Envase == model.EnvaseLleno {
			stockAnterior = antes.StockLleno
		} else {
			stockAnterior = antes.StockVacio
		}

		delta := req.Cantidad
		switch {
		case req.Operacion == "incrementar" && req.Envase == model.EnvaseLleno:
			err = s.repo.CreditarLlenoTx(tx, id, req.Cantidad)
		case req.Operacion == "incrementar":
			err = s.repo.CreditarVacioTx(tx, id, req.Cantidad)
		case req.Envase == model.EnvaseLleno:
			delta = -req.Cantidad
			err = s.repo.ReservarLlenoTx(tx, id, req.Cantidad)
		default:
			delta = -req.Cantidad
			err = s.repo.ReservarVacioTx(tx, id, req.Cantidad)
		}
		if err != nil {
			if err == repository.ErrStockInsuficiente {
				return &StockInsuficienteError{
					ProductoID: id,
					Origen:     "almacen",
					Solicitado: req.Cantidad,
					Disponible: stockAnterior,
				}
			}
			return err
		}

		return s.movRepo.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          model.MovAjusteManual,
			Envase:        req.Envase,
			Cantidad:      req.Cantidad,
			StockAnterior: stockAnterior,
			StockNuevo:    stockAnterior + delta,
			Motivo:        req.Motivo,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) ListarMovimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrProductoNoEncontrado
	}
	movs, err := s.movRepo.ListByProducto(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		var ref *string
		if m.ReferenciaID != nil {
			v := m.ReferenciaID.String()
			ref = &v
		}
		out = append(out, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Envase:        m.Envase,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  ref,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		Tipo:           p.Tipo,
		EsEnvase:       model.EsTipoEnvase(p.Tipo),
		PrecioUnitario: p.PrecioUnitario,
		StockLleno:     p.StockLleno,
		StockVacio:     p.StockVacio,
		Activo:         p.Activo,
	}
}
