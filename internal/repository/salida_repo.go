package repository

import (
	"context"
	"errors"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockCorredorInsuficiente is returned by guarded custody decrements when
// the courier holds less than the requested quantity.
var ErrStockCorredorInsuficiente = errors.New("stock del corredor insuficiente")

// SalidaRepository is the data access contract for the shift aggregate and
// everything it owns: detalles, custody counters, reabastecimientos, gastos
// and the liquidación.
type SalidaRepository interface {
	CreateTx(tx *gorm.DB, s *model.Salida) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Salida, error)
	List(ctx context.Context, filter dto.SalidaFilter) ([]model.Salida, int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error

	CreateReabastecimientoTx(tx *gorm.DB, r *model.Reabastecimiento) error
	CreateGastoTx(tx *gorm.DB, g *model.Gasto) error
	CreateLiquidacionTx(tx *gorm.DB, l *model.Liquidacion) error
	// DeleteStockCorredorTx removes the custody counters of a cancelled
	// salida; the initial-allocation detalles stay as a historical record.
	DeleteStockCorredorTx(tx *gorm.DB, salidaID uuid.UUID) error

	// Custody counters (stock_corredores). SumarStockCorredorTx applies a
	// delta: positive deltas upsert, negative deltas are guarded so custody
	// never goes negative (ErrStockCorredorInsuficiente on a miss).
	FindStockCorredor(ctx context.Context, salidaID uuid.UUID) ([]model.StockCorredor, error)
	SumarStockCorredorTx(tx *gorm.DB, salidaID, productoID uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type salidaRepo struct{ db *gorm.DB }

func NewSalidaRepository(db *gorm.DB) SalidaRepository { return &salidaRepo{db: db} }

func (r *salidaRepo) CreateTx(tx *gorm.DB, s *model.Salida) error {
	return tx.Create(s).Error
}

func (r *salidaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Salida, error) {
	var s model.Salida
	err := r.db.WithContext(ctx).
		Preload("Corredor").
		Preload("Detalles.Producto").
		Preload("Stock.Producto").
		Preload("Reabastecimientos.Detalles").
		Preload("Ventas.Detalles").
		Preload("Ventas.Pendientes").
		Preload("Gastos").
		Preload("Liquidacion.Devoluciones").
		First(&s, id).Error
	return &s, err
}

func (r *salidaRepo) List(ctx context.Context, filter dto.SalidaFilter) ([]model.Salida, int64, error) {
	var salidas []model.Salida
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Salida{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.CorredorID != "" {
		q = q.Where("corredor_id = ?", filter.CorredorID)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(started_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Corredor").
		Order("started_at DESC").Limit(filter.Limit).Offset(offset).Find(&salidas).Error
	return salidas, total, err
}

func (r *salidaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Salida{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *salidaRepo) CreateReabastecimientoTx(tx *gorm.DB, reab *model.Reabastecimiento) error {
	return tx.Create(reab).Error
}

func (r *salidaRepo) CreateGastoTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *salidaRepo) CreateLiquidacionTx(tx *gorm.DB, l *model.Liquidacion) error {
	return tx.Create(l).Error
}

func (r *salidaRepo) DeleteStockCorredorTx(tx *gorm.DB, salidaID uuid.UUID) error {
	return tx.Where("salida_id = ?", salidaID).Delete(&model.StockCorredor{}).Error
}

func (r *salidaRepo) FindStockCorredor(ctx context.Context, salidaID uuid.UUID) ([]model.StockCorredor, error) {
	var stock []model.StockCorredor
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("salida_id = ?", salidaID).Find(&stock).Error
	return stock, err
}

func (r *salidaRepo) SumarStockCorredorTx(tx *gorm.DB, salidaID, productoID uuid.UUID, delta int) error {
	if delta >= 0 {
		res := tx.Model(&model.StockCorredor{}).
			Where("salida_id = ? AND producto_id = ?", salidaID, productoID).
			Update("cantidad_llena", gorm.Expr("cantidad_llena + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&model.StockCorredor{
				SalidaID:      salidaID,
				ProductoID:    productoID,
				CantidadLlena: delta,
			}).Error
		}
		return nil
	}

	res := tx.Model(&model.StockCorredor{}).
		Where("salida_id = ? AND producto_id = ? AND cantidad_llena >= ?", salidaID, productoID, -delta).
		Update("cantidad_llena", gorm.Expr("cantidad_llena + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockCorredorInsuficiente
	}
	return nil
}

func (r *salidaRepo) DB() *gorm.DB { return r.db }
