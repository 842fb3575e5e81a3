package tests

// stubs_test.go — hand-written in-memory repositories for service-level unit
// tests. Repo DB() returns nil, which makes the services run their
// transactional closures directly (no GORM involved).

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) find(id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	// Snapshot — callers record before/after counters.
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.find(id)
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.find(id)
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if filter.Activo != "all" && filter.Activo != "false" && !p.Activo {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) ReservarLlenoTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok || p.StockLleno < cantidad {
		return repository.ErrStockInsuficiente
	}
	p.StockLleno -= cantidad
	return nil
}

func (r *stubProductoRepo) ReservarVacioTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok || p.StockVacio < cantidad {
		return repository.ErrStockInsuficiente
	}
	p.StockVacio -= cantidad
	return nil
}

func (r *stubProductoRepo) CreditarLlenoTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	if p, ok := r.productos[id]; ok {
		p.StockLleno += cantidad
	}
	return nil
}

func (r *stubProductoRepo) CreditarVacioTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	if p, ok := r.productos[id]; ok {
		p.StockVacio += cantidad
	}
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── CorredorRepository ───────────────────────────────────────────────────────

type stubCorredorRepo struct {
	corredores map[uuid.UUID]*model.Corredor
}

func newStubCorredorRepo() *stubCorredorRepo {
	return &stubCorredorRepo{corredores: make(map[uuid.UUID]*model.Corredor)}
}

func (r *stubCorredorRepo) Create(_ context.Context, c *model.Corredor) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.corredores[c.ID] = c
	return nil
}

func (r *stubCorredorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Corredor, error) {
	c, ok := r.corredores[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubCorredorRepo) List(_ context.Context, incluirInactivos bool) ([]model.Corredor, error) {
	var out []model.Corredor
	for _, c := range r.corredores {
		if !incluirInactivos && !c.Activo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCorredorRepo) Update(_ context.Context, c *model.Corredor) error {
	r.corredores[c.ID] = c
	return nil
}

func (r *stubCorredorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.corredores[id]; ok {
		c.Activo = false
	}
	return nil
}

// ── SalidaRepository ─────────────────────────────────────────────────────────

type stubSalidaRepo struct {
	salidas map[uuid.UUID]*model.Salida
	// custody counters, keyed salida → producto
	stock  map[uuid.UUID]map[uuid.UUID]int
	ventas map[uuid.UUID][]*model.Venta
}

func newStubSalidaRepo() *stubSalidaRepo {
	return &stubSalidaRepo{
		salidas: make(map[uuid.UUID]*model.Salida),
		stock:   make(map[uuid.UUID]map[uuid.UUID]int),
		ventas:  make(map[uuid.UUID][]*model.Venta),
	}
}

func (r *stubSalidaRepo) CreateTx(_ *gorm.DB, s *model.Salida) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Detalles {
		s.Detalles[i].ID = uuid.New()
		s.Detalles[i].SalidaID = s.ID
	}
	custody := make(map[uuid.UUID]int)
	for _, sc := range s.Stock {
		custody[sc.ProductoID] = sc.CantidadLlena
	}
	s.Stock = nil
	r.stock[s.ID] = custody
	r.salidas[s.ID] = s
	return nil
}

func (r *stubSalidaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Salida, error) {
	s, ok := r.salidas[id]
	if !ok {
		return nil, errNotFound
	}
	s.Stock = nil
	for pid, qty := range r.stock[id] {
		s.Stock = append(s.Stock, model.StockCorredor{SalidaID: id, ProductoID: pid, CantidadLlena: qty})
	}
	s.Ventas = nil
	for _, v := range r.ventas[id] {
		s.Ventas = append(s.Ventas, *v)
	}
	return s, nil
}

func (r *stubSalidaRepo) List(_ context.Context, _ dto.SalidaFilter) ([]model.Salida, int64, error) {
	var out []model.Salida
	for _, s := range r.salidas {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSalidaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	s, ok := r.salidas[id]
	if !ok {
		return errNotFound
	}
	s.Estado = estado
	return nil
}

func (r *stubSalidaRepo) CreateReabastecimientoTx(_ *gorm.DB, reab *model.Reabastecimiento) error {
	if reab.ID == uuid.Nil {
		reab.ID = uuid.New()
	}
	reab.CreatedAt = time.Now()
	for i := range reab.Detalles {
		reab.Detalles[i].ID = uuid.New()
		reab.Detalles[i].ReabastecimientoID = reab.ID
	}
	s, ok := r.salidas[reab.SalidaID]
	if !ok {
		return errNotFound
	}
	s.Reabastecimientos = append(s.Reabastecimientos, *reab)
	return nil
}

func (r *stubSalidaRepo) CreateGastoTx(_ *gorm.DB, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	s, ok := r.salidas[g.SalidaID]
	if !ok {
		return errNotFound
	}
	s.Gastos = append(s.Gastos, *g)
	return nil
}

func (r *stubSalidaRepo) CreateLiquidacionTx(_ *gorm.DB, l *model.Liquidacion) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	for i := range l.Devoluciones {
		l.Devoluciones[i].ID = uuid.New()
		l.Devoluciones[i].LiquidacionID = l.ID
	}
	s, ok := r.salidas[l.SalidaID]
	if !ok {
		return errNotFound
	}
	s.Liquidacion = l
	return nil
}

func (r *stubSalidaRepo) DeleteStockCorredorTx(_ *gorm.DB, salidaID uuid.UUID) error {
	delete(r.stock, salidaID)
	return nil
}

func (r *stubSalidaRepo) FindStockCorredor(_ context.Context, salidaID uuid.UUID) ([]model.StockCorredor, error) {
	var out []model.StockCorredor
	for pid, qty := range r.stock[salidaID] {
		out = append(out, model.StockCorredor{SalidaID: salidaID, ProductoID: pid, CantidadLlena: qty})
	}
	return out, nil
}

func (r *stubSalidaRepo) SumarStockCorredorTx(_ *gorm.DB, salidaID, productoID uuid.UUID, delta int) error {
	custody, ok := r.stock[salidaID]
	if !ok {
		custody = make(map[uuid.UUID]int)
		r.stock[salidaID] = custody
	}
	if delta < 0 && custody[productoID] < -delta {
		return repository.ErrStockCorredorInsuficiente
	}
	custody[productoID] += delta
	return nil
}

func (r *stubSalidaRepo) DB() *gorm.DB { return nil }

// custodia reads a custody counter directly (test assertions).
func (r *stubSalidaRepo) custodia(salidaID, productoID uuid.UUID) int {
	return r.stock[salidaID][productoID]
}

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas     map[uuid.UUID]*model.Venta
	salidaRepo *stubSalidaRepo
}

func newStubVentaRepo(salidaRepo *stubSalidaRepo) *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta), salidaRepo: salidaRepo}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	for i := range v.Detalles {
		v.Detalles[i].ID = uuid.New()
		v.Detalles[i].VentaID = v.ID
	}
	for i := range v.Pendientes {
		v.Pendientes[i].ID = uuid.New()
		v.Pendientes[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	r.salidaRepo.ventas[v.SalidaID] = append(r.salidaRepo.ventas[v.SalidaID], v)
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) ListBySalida(_ context.Context, salidaID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.salidaRepo.ventas[salidaID] {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVentaRepo) UpdatePagosTx(_ *gorm.DB, id uuid.UUID, efectivo, transferencia, vale, montoPendiente decimal.Decimal) error {
	v, ok := r.ventas[id]
	if !ok {
		return errNotFound
	}
	v.PagoEfectivo = efectivo
	v.PagoTransferencia = transferencia
	v.PagoVale = vale
	v.MontoPendiente = montoPendiente
	return nil
}

func (r *stubVentaRepo) ReplaceDetallesTx(_ *gorm.DB, ventaID uuid.UUID, detalles []model.VentaDetalle, total, montoPendiente decimal.Decimal) error {
	v, ok := r.ventas[ventaID]
	if !ok {
		return errNotFound
	}
	for i := range detalles {
		detalles[i].ID = uuid.New()
		detalles[i].VentaID = ventaID
	}
	v.Detalles = detalles
	v.Total = total
	v.MontoPendiente = montoPendiente
	return nil
}

func (r *stubVentaRepo) MarcarPendienteTx(_ *gorm.DB, pendienteID uuid.UUID, devuelto bool) error {
	for _, v := range r.ventas {
		for i := range v.Pendientes {
			if v.Pendientes[i].ID == pendienteID {
				v.Pendientes[i].Devuelto = devuelto
				return nil
			}
		}
	}
	return errNotFound
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// ── MovimientoStockRepository ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if r.movimientos[i].ProductoID == productoID {
			out = append(out, r.movimientos[i])
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) porTipo(tipo string) []model.MovimientoStock {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

// ── Test environment ─────────────────────────────────────────────────────────

type testEnv struct {
	productos  *stubProductoRepo
	corredores *stubCorredorRepo
	salidas    *stubSalidaRepo
	ventas     *stubVentaRepo
	movs       *stubMovimientoRepo

	salidaSvc   service.SalidaService
	ventaSvc    service.VentaService
	liqSvc      service.LiquidacionService
	productoSvc service.ProductoService
}

func newTestEnv() *testEnv {
	productos := newStubProductoRepo()
	corredores := newStubCorredorRepo()
	salidas := newStubSalidaRepo()
	ventas := newStubVentaRepo(salidas)
	movs := &stubMovimientoRepo{}

	return &testEnv{
		productos:   productos,
		corredores:  corredores,
		salidas:     salidas,
		ventas:      ventas,
		movs:        movs,
		salidaSvc:   service.NewSalidaService(salidas, productos, corredores, movs),
		ventaSvc:    service.NewVentaService(ventas, salidas, productos),
		liqSvc:      service.NewLiquidacionService(salidas, productos, movs, nil),
		productoSvc: service.NewProductoService(productos, movs),
	}
}

func (e *testEnv) seedProducto(nombre, tipo string, precio float64, lleno, vacio int) *model.Producto {
	p := &model.Producto{
		ID:             uuid.New(),
		Nombre:         nombre,
		Tipo:           tipo,
		PrecioUnitario: decimal.NewFromFloat(precio),
		StockLleno:     lleno,
		StockVacio:     vacio,
		Activo:         true,
	}
	e.productos.productos[p.ID] = p
	return p
}

func (e *testEnv) seedCorredor(nombre string) *model.Corredor {
	c := &model.Corredor{ID: uuid.New(), Nombre: nombre, Activo: true}
	e.corredores.corredores[c.ID] = c
	return c
}
