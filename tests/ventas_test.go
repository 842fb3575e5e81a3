package tests

// Sales against the courier's carried stock: custody consumption, container
// disposition rules and the post-settlement edit restrictions.

import (
	"context"
	"testing"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarVenta_ConsumeCustodiaYCalculaTotales(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 10},
	)

	resp, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID: salidaID.String(),
		Cliente:  "Bodega San Martín",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 3}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(100), Transferencia: d(50)},
	})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(d(174))) // 3 × 58.00
	assert.True(t, resp.MontoPendiente.Equal(d(24)))
	require.Len(t, resp.Detalles, 1)
	assert.True(t, resp.Detalles[0].Subtotal.Equal(d(174)))

	assert.Equal(t, 7, env.salidas.custodia(salidaID, gas.ID))
	// The warehouse counter is untouched by a sale.
	assert.Equal(t, 10, env.productos.productos[gas.ID].StockLleno)
}

func TestRegistrarVenta_PagoCompletoSinPendiente(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)

	resp, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID: salidaID.String(),
		Cliente:  "Cliente contado",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(60)}, // paid over the 58.00
	})
	require.NoError(t, err)
	// Overpayment never goes negative.
	assert.True(t, resp.MontoPendiente.IsZero())
}

func TestRegistrarVenta_CustodiaInsuficienteSinEfectos(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 2},
	)

	_, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID: salidaID.String(),
		Cliente:  "Bodega San Martín",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 5}},
		Pago:     dto.PagoVentaRequest{},
	})

	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "corredor", stockErr.Origen)
	assert.Equal(t, 5, stockErr.Solicitado)
	assert.Equal(t, 2, stockErr.Disponible)
	assert.Equal(t, 2, env.salidas.custodia(salidaID, gas.ID))
	assert.Empty(t, env.ventas.ventas)
}

func TestRegistrarVenta_LineasAcumuladasContraCustodia(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 4},
	)

	// Two lines of the same product: 3+2 exceeds the 4 in custody even though
	// each line alone fits.
	_, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID: salidaID.String(),
		Cliente:  "Bodega San Martín",
		Detalles: []dto.DetalleVentaRequest{
			{ProductoID: gas.ID.String(), Cantidad: 3},
			{ProductoID: gas.ID.String(), Cantidad: 2, ConEnvase: true},
		},
		Pago: dto.PagoVentaRequest{},
	})

	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Solicitado)
}

func TestRegistrarVenta_SalidaNoAbierta(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 2},
	)
	require.NoError(t, env.salidas.UpdateEstadoTx(nil, salidaID, model.SalidaCancelada))

	_, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID: salidaID.String(),
		Cliente:  "Bodega San Martín",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
		Pago:     dto.PagoVentaRequest{},
	})
	var abierta *service.SalidaNoAbiertaError
	require.ErrorAs(t, err, &abierta)
	assert.Equal(t, model.SalidaCancelada, abierta.Estado)
}

func TestRegistrarVenta_PendienteSobreLineaConEnvaseRechazado(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)

	_, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID:   salidaID.String(),
		Cliente:    "Bodega San Martín",
		Detalles:   []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2, ConEnvase: true}},
		Pago:       dto.PagoVentaRequest{},
		Pendientes: []dto.PendienteRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
	})

	var dispErr *service.DisposicionInvalidaError
	require.ErrorAs(t, err, &dispErr)
	assert.Equal(t, gas.ID, dispErr.ProductoID)
}

func TestRegistrarVenta_PendienteExcedeCantidadVendida(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)

	_, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID:   salidaID.String(),
		Cliente:    "Bodega San Martín",
		Detalles:   []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2}},
		Pago:       dto.PagoVentaRequest{},
		Pendientes: []dto.PendienteRequest{{ProductoID: gas.ID.String(), Cantidad: 3}},
	})

	var dispErr *service.DisposicionInvalidaError
	assert.ErrorAs(t, err, &dispErr)
}

func TestRegistrarVenta_ProductoInactivoRechazado(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 58, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)
	env.productos.productos[gas.ID].Activo = false

	_, err := env.ventaSvc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		SalidaID: salidaID.String(),
		Cliente:  "Bodega San Martín",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
		Pago:     dto.PagoVentaRequest{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactivo")
}

func TestActualizarVenta_ReemplazaLineasYRebalanceaCustodia(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 10},
	)
	ventaID := registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 3}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(150)},
	})
	require.Equal(t, 7, env.salidas.custodia(salidaID, gas.ID))

	resp, err := env.ventaSvc.Actualizar(context.Background(), ventaID, dto.ActualizarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 5}},
		Pago:     &dto.PagoVentaRequest{Efectivo: d(250)},
	})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(d(250)))
	assert.True(t, resp.MontoPendiente.IsZero())
	// 10 initial − 5 now sold.
	assert.Equal(t, 5, env.salidas.custodia(salidaID, gas.ID))
}

func TestActualizarVenta_ReemplazoExcedeCustodiaDisponible(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 4},
	)
	ventaID := registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(100)},
	})

	// As if the sale never happened the courier holds 4; asking for 6 fails.
	_, err := env.ventaSvc.Actualizar(context.Background(), ventaID, dto.ActualizarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 6}},
	})
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, env.salidas.custodia(salidaID, gas.ID))
}

func TestActualizarVenta_DetallesCongeladosTrasLiquidacion(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)
	ventaID := registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(100)},
	})
	_, err := env.liqSvc.Liquidar(context.Background(), salidaID, dto.LiquidarRequest{
		EfectivoEntregado: d(100),
		Devoluciones: []dto.DevolucionFinalRequest{
			{ProductoID: gas.ID.String(), Cantidad: 3},
		},
	})
	require.NoError(t, err)

	_, err = env.ventaSvc.Actualizar(context.Background(), ventaID, dto.ActualizarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
	})
	var edicion *service.EdicionRestringidaError
	require.ErrorAs(t, err, &edicion)
	assert.Equal(t, "detalles", edicion.Campo)
}

func TestActualizarVenta_PagoEditableTrasLiquidacion(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)
	ventaID := registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(60)}, // 40.00 still owed
	})
	_, err := env.liqSvc.Liquidar(context.Background(), salidaID, dto.LiquidarRequest{
		EfectivoEntregado: d(60),
		Devoluciones: []dto.DevolucionFinalRequest{
			{ProductoID: gas.ID.String(), Cantidad: 3},
		},
	})
	require.NoError(t, err)

	// The customer settles their debt days later.
	resp, err := env.ventaSvc.Actualizar(context.Background(), ventaID, dto.ActualizarVentaRequest{
		Pago: &dto.PagoVentaRequest{Efectivo: d(100)},
	})
	require.NoError(t, err)
	assert.True(t, resp.PagoEfectivo.Equal(d(100)))
	assert.True(t, resp.MontoPendiente.IsZero())
}

func TestActualizarVenta_MarcaPendienteDevuelto(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)
	ventaID := registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Detalles:   []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2}},
		Pago:       dto.PagoVentaRequest{Efectivo: d(100)},
		Pendientes: []dto.PendienteRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
	})

	venta, err := env.ventaSvc.Obtener(context.Background(), ventaID)
	require.NoError(t, err)
	require.Len(t, venta.Pendientes, 1)
	require.False(t, venta.Pendientes[0].Devuelto)

	resp, err := env.ventaSvc.Actualizar(context.Background(), ventaID, dto.ActualizarVentaRequest{
		PendientesDevueltos: []string{venta.Pendientes[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, resp.Pendientes, 1)
	assert.True(t, resp.Pendientes[0].Devuelto)
}

func TestActualizarVenta_PendienteAjenoRechazado(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 5},
	)
	ventaID := registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(50)},
	})

	_, err := env.ventaSvc.Actualizar(context.Background(), ventaID, dto.ActualizarVentaRequest{
		PendientesDevueltos: []string{uuid.NewString()},
	})
	var valErr *service.ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "pendientes_devueltos", valErr.Campo)
}

func TestListarPorSalida(t *testing.T) {
	env := newTestEnv()
	gas := env.seedProducto("Balón 10kg", "GAS_10KG", 50, 20, 0)
	corredor := env.seedCorredor("Carlos Quispe")
	salidaID := abrirSalida(t, env, corredor.ID,
		dto.DetalleSalidaRequest{ProductoID: gas.ID.String(), CantidadLlena: 10},
	)
	registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Cliente:  "Primera",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 1}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(50)},
	})
	registrarVenta(t, env, salidaID, dto.RegistrarVentaRequest{
		Cliente:  "Segunda",
		Detalles: []dto.DetalleVentaRequest{{ProductoID: gas.ID.String(), Cantidad: 2}},
		Pago:     dto.PagoVentaRequest{Efectivo: d(100)},
	})

	ventas, err := env.ventaSvc.ListarPorSalida(context.Background(), salidaID)
	require.NoError(t, err)
	assert.Len(t, ventas, 2)
}
