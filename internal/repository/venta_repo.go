package repository

import (
	"context"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	ListBySalida(ctx context.Context, salidaID uuid.UUID) ([]model.Venta, error)

	// UpdatePagosTx rewrites only the payment columns — lines stay untouched.
	UpdatePagosTx(tx *gorm.DB, id uuid.UUID, efectivo, transferencia, vale, montoPendiente decimal.Decimal) error
	// ReplaceDetallesTx swaps a sale's lines wholesale (only legal while the
	// owning salida is still abierta) and rewrites the totals.
	ReplaceDetallesTx(tx *gorm.DB, ventaID uuid.UUID, detalles []model.VentaDetalle, total, montoPendiente decimal.Decimal) error
	// MarcarPendienteTx flips the devuelto flag of one pendiente de envase.
	MarcarPendienteTx(tx *gorm.DB, pendienteID uuid.UUID, devuelto bool) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Pendientes.Producto").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListBySalida(ctx context.Context, salidaID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Pendientes.Producto").
		Where("salida_id = ?", salidaID).
		Order("created_at ASC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdatePagosTx(tx *gorm.DB, id uuid.UUID, efectivo, transferencia, vale, montoPendiente decimal.Decimal) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"pago_efectivo":      efectivo,
		"pago_transferencia": transferencia,
		"pago_vale":          vale,
		"monto_pendiente":    montoPendiente,
	}).Error
}

func (r *ventaRepo) ReplaceDetallesTx(tx *gorm.DB, ventaID uuid.UUID, detalles []model.VentaDetalle, total, montoPendiente decimal.Decimal) error {
	if err := tx.Where("venta_id = ?", ventaID).Delete(&model.VentaDetalle{}).Error; err != nil {
		return err
	}
	for i := range detalles {
		detalles[i].VentaID = ventaID
	}
	if len(detalles) > 0 {
		if err := tx.Create(&detalles).Error; err != nil {
			return err
		}
	}
	return tx.Model(&model.Venta{}).Where("id = ?", ventaID).Updates(map[string]interface{}{
		"total":           total,
		"monto_pendiente": montoPendiente,
	}).Error
}

func (r *ventaRepo) MarcarPendienteTx(tx *gorm.DB, pendienteID uuid.UUID, devuelto bool) error {
	return tx.Model(&model.PendienteEnvase{}).Where("id = ?", pendienteID).
		Update("devuelto", devuelto).Error
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
