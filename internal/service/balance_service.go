package service

// balance_service.go — container reconciliation engine.
//
// Pure computation over a fully loaded Salida snapshot: no locking, no side
// effects, idempotent on unchanged input. All balance arithmetic for the
// whole application lives here — handlers and the settlement flow consume
// these figures as plain data and never re-derive them.

import (
	"sort"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"

	"github.com/google/uuid"
)

// BalanceTipo aggregates container movement for one deposit-bearing product
// type across a shift's full event history.
//
// Saldo is the quantity the courier must still justify: every unit sold
// without its container puts an empty in the courier's hands, as do the
// empties carried out at departure; returning empties to the warehouse
// cancels the obligation. Units covered by a pendiente stay with the
// customer, so the obligation moves to the customer relationship and leaves
// the courier's balance.
//
// Saldo is clamped at zero; an over-return (more empties handed in than ever
// owed) is surfaced in Sobrante instead of a negative chip, so data-entry
// errors stay visible without breaking callers that expect quantities.
type BalanceTipo struct {
	Tipo string

	TomadosLlenos   int // inicial + reabastecimientos
	VaciosIniciales int // empties carried out at departure
	DevueltosLlenos int
	DevueltosVacios int

	VendidosConEnvase int // container sold along — no return obligation
	VendidosSinEnvase int // exchange sales, net of pendientes
	Pendientes        int // units whose empty stayed with the customer

	// CustodiaLlenos derives the full containers the courier should still
	// hold: tomados − devueltos llenos − vendidos. Must match the
	// incrementally tracked stock_corredores counter at all times.
	CustodiaLlenos int

	Saldo    int
	Sobrante int
}

// BalanceEnvases computes the per-type reconciliation for a salida. The
// productos map is the catalog snapshot and must resolve every producto
// referenced by the salida's events; products whose tipo is not
// deposit-bearing (no GAS_/AGUA_ prefix) are ignored.
func BalanceEnvases(salida *model.Salida, productos map[uuid.UUID]model.Producto) map[string]*BalanceTipo {
	balances := make(map[string]*BalanceTipo)

	get := func(productoID uuid.UUID) *BalanceTipo {
		p, ok := productos[productoID]
		if !ok || !model.EsTipoEnvase(p.Tipo) {
			return nil
		}
		b, ok := balances[p.Tipo]
		if !ok {
			b = &BalanceTipo{Tipo: p.Tipo}
			balances[p.Tipo] = b
		}
		return b
	}

	for _, d := range salida.Detalles {
		if b := get(d.ProductoID); b != nil {
			b.TomadosLlenos += d.CantidadLlena
			b.VaciosIniciales += d.CantidadVacia
		}
	}

	for _, r := range salida.Reabastecimientos {
		for _, d := range r.Detalles {
			if b := get(d.ProductoID); b != nil {
				b.TomadosLlenos += d.LlenosTomados
				b.DevueltosLlenos += d.LlenosDevueltos
				b.DevueltosVacios += d.VaciosDevueltos
			}
		}
	}

	for i := range salida.Ventas {
		v := &salida.Ventas[i]

		// Pendientes per producto within this venta: those units stay with
		// the customer and are excluded from the courier's obligation.
		pendientes := make(map[uuid.UUID]int)
		for _, p := range v.Pendientes {
			pendientes[p.ProductoID] += p.Cantidad
		}

		for _, d := range v.Detalles {
			b := get(d.ProductoID)
			if b == nil {
				continue
			}
			if d.ConEnvase {
				b.VendidosConEnvase += d.Cantidad
				continue
			}
			sinEnvase := d.Cantidad
			if pend := pendientes[d.ProductoID]; pend > 0 {
				cubiertos := min(pend, sinEnvase)
				pendientes[d.ProductoID] -= cubiertos
				sinEnvase -= cubiertos
				b.Pendientes += cubiertos
			}
			b.VendidosSinEnvase += sinEnvase
		}
	}

	for _, b := range balances {
		b.CustodiaLlenos = b.TomadosLlenos - b.DevueltosLlenos -
			b.VendidosConEnvase - b.VendidosSinEnvase - b.Pendientes

		saldo := b.VaciosIniciales + b.VendidosSinEnvase - b.DevueltosVacios
		if saldo >= 0 {
			b.Saldo = saldo
		} else {
			b.Sobrante = -saldo
		}
	}

	return balances
}

// SaldoEnvases reduces BalanceEnvases to the outstanding quantity per type,
// dropping types that are fully justified.
func SaldoEnvases(salida *model.Salida, productos map[uuid.UUID]model.Producto) map[string]int {
	saldos := make(map[string]int)
	for tipo, b := range BalanceEnvases(salida, productos) {
		if b.Saldo > 0 {
			saldos[tipo] = b.Saldo
		}
	}
	return saldos
}

// TiposOrdenados returns the balance rows sorted by tipo for stable output.
func TiposOrdenados(balances map[string]*BalanceTipo) []*BalanceTipo {
	out := make([]*BalanceTipo, 0, len(balances))
	for _, b := range balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tipo < out[j].Tipo })
	return out
}
