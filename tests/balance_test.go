package tests

// Container reconciliation engine: the per-type arithmetic over a shift's
// event history. These run against the pure functions with hand-built
// snapshots — no repositories involved.

import (
	"testing"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogo(productos ...model.Producto) map[uuid.UUID]model.Producto {
	m := make(map[uuid.UUID]model.Producto, len(productos))
	for _, p := range productos {
		m[p.ID] = p
	}
	return m
}

func gas10() model.Producto {
	return model.Producto{
		ID:             uuid.New(),
		Nombre:         "Balón de gas 10kg",
		Tipo:           "GAS_10KG",
		PrecioUnitario: decimal.NewFromFloat(58),
		Activo:         true,
	}
}

func TestBalance_VentaSinEnvaseGeneraSaldo(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 10}},
		Ventas: []model.Venta{
			{Detalles: []model.VentaDetalle{{ProductoID: p.ID, Cantidad: 3, ConEnvase: false}}},
		},
	}

	balances := service.BalanceEnvases(salida, catalogo(p))
	require.Contains(t, balances, "GAS_10KG")

	b := balances["GAS_10KG"]
	assert.Equal(t, 10, b.TomadosLlenos)
	assert.Equal(t, 3, b.VendidosSinEnvase)
	assert.Equal(t, 3, b.Saldo)
	assert.Equal(t, 0, b.Sobrante)
	assert.Equal(t, 7, b.CustodiaLlenos)

	saldos := service.SaldoEnvases(salida, catalogo(p))
	assert.Equal(t, map[string]int{"GAS_10KG": 3}, saldos)
}

func TestBalance_DevolucionDeVaciosCancelaSaldo(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 10}},
		Ventas: []model.Venta{
			{Detalles: []model.VentaDetalle{{ProductoID: p.ID, Cantidad: 3}}},
		},
		Reabastecimientos: []model.Reabastecimiento{
			{Detalles: []model.ReabastecimientoDetalle{
				{ProductoID: p.ID, LlenosTomados: 5, VaciosDevueltos: 3},
			}},
		},
	}

	b := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	require.NotNil(t, b)
	assert.Equal(t, 15, b.TomadosLlenos)
	assert.Equal(t, 3, b.DevueltosVacios)
	assert.Equal(t, 0, b.Saldo)
	assert.Equal(t, 0, b.Sobrante)
	assert.Equal(t, 12, b.CustodiaLlenos)

	assert.Empty(t, service.SaldoEnvases(salida, catalogo(p)))
}

func TestBalance_VentaConEnvaseNoGeneraObligacion(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 5}},
		Ventas: []model.Venta{
			{Detalles: []model.VentaDetalle{{ProductoID: p.ID, Cantidad: 2, ConEnvase: true}}},
		},
	}

	b := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	require.NotNil(t, b)
	assert.Equal(t, 2, b.VendidosConEnvase)
	assert.Equal(t, 0, b.VendidosSinEnvase)
	assert.Equal(t, 0, b.Saldo)
	assert.Equal(t, 3, b.CustodiaLlenos)
}

func TestBalance_PendienteExcluyeUnidadesDelSaldo(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 10}},
		Ventas: []model.Venta{
			{
				Detalles:   []model.VentaDetalle{{ProductoID: p.ID, Cantidad: 4}},
				Pendientes: []model.PendienteEnvase{{ProductoID: p.ID, Cantidad: 3}},
			},
		},
	}

	b := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	require.NotNil(t, b)
	// 3 of the 4 units stay with the customer; only 1 owes an empty now.
	assert.Equal(t, 3, b.Pendientes)
	assert.Equal(t, 1, b.VendidosSinEnvase)
	assert.Equal(t, 1, b.Saldo)
	assert.Equal(t, 6, b.CustodiaLlenos)
}

func TestBalance_VaciosInicialesCuentanEnSaldo(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 4, CantidadVacia: 2}},
	}

	b := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	require.NotNil(t, b)
	assert.Equal(t, 2, b.VaciosIniciales)
	assert.Equal(t, 2, b.Saldo)
}

func TestBalance_SobreDevolucionSeReportaComoSobrante(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 10}},
		Ventas: []model.Venta{
			{Detalles: []model.VentaDetalle{{ProductoID: p.ID, Cantidad: 2}}},
		},
		Reabastecimientos: []model.Reabastecimiento{
			{Detalles: []model.ReabastecimientoDetalle{
				{ProductoID: p.ID, VaciosDevueltos: 5},
			}},
		},
	}

	b := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	require.NotNil(t, b)
	// More empties handed in than ever owed: saldo clamps at zero, the
	// surplus surfaces in Sobrante.
	assert.Equal(t, 0, b.Saldo)
	assert.Equal(t, 3, b.Sobrante)
}

func TestBalance_ProductoSinEnvaseSeIgnora(t *testing.T) {
	valvula := model.Producto{
		ID:             uuid.New(),
		Nombre:         "Válvula premium",
		Tipo:           "ACCESORIO",
		PrecioUnitario: decimal.NewFromFloat(12.50),
		Activo:         true,
	}
	salida := &model.Salida{
		Estado: model.SalidaAbierta,
		Ventas: []model.Venta{
			{Detalles: []model.VentaDetalle{{ProductoID: valvula.ID, Cantidad: 8}}},
		},
	}

	assert.Empty(t, service.BalanceEnvases(salida, catalogo(valvula)))
}

func TestBalance_AgregaPorTipoEntreProductosYVentas(t *testing.T) {
	gasA := gas10()
	gasB := gas10() // same tipo, different catalog entry
	agua := model.Producto{ID: uuid.New(), Nombre: "Bidón 20L", Tipo: "AGUA_20L", Activo: true}

	salida := &model.Salida{
		Estado: model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{
			{ProductoID: gasA.ID, CantidadLlena: 6},
			{ProductoID: gasB.ID, CantidadLlena: 4},
			{ProductoID: agua.ID, CantidadLlena: 10},
		},
		Ventas: []model.Venta{
			{Detalles: []model.VentaDetalle{{ProductoID: gasA.ID, Cantidad: 2}}},
			{Detalles: []model.VentaDetalle{{ProductoID: gasB.ID, Cantidad: 1}}},
			{Detalles: []model.VentaDetalle{{ProductoID: agua.ID, Cantidad: 5}}},
		},
	}

	balances := service.BalanceEnvases(salida, catalogo(gasA, gasB, agua))
	require.Len(t, balances, 2)
	assert.Equal(t, 3, balances["GAS_10KG"].Saldo)
	assert.Equal(t, 10, balances["GAS_10KG"].TomadosLlenos)
	assert.Equal(t, 5, balances["AGUA_20L"].Saldo)

	ordenados := service.TiposOrdenados(balances)
	require.Len(t, ordenados, 2)
	assert.Equal(t, "AGUA_20L", ordenados[0].Tipo)
	assert.Equal(t, "GAS_10KG", ordenados[1].Tipo)
}

func TestBalance_EsIdempotenteSobreElMismoSnapshot(t *testing.T) {
	p := gas10()
	salida := &model.Salida{
		Estado:   model.SalidaAbierta,
		Detalles: []model.SalidaDetalle{{ProductoID: p.ID, CantidadLlena: 10, CantidadVacia: 1}},
		Ventas: []model.Venta{
			{
				Detalles:   []model.VentaDetalle{{ProductoID: p.ID, Cantidad: 4}},
				Pendientes: []model.PendienteEnvase{{ProductoID: p.ID, Cantidad: 1}},
			},
		},
	}

	primero := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	segundo := service.BalanceEnvases(salida, catalogo(p))["GAS_10KG"]
	assert.Equal(t, *primero, *segundo)
}
