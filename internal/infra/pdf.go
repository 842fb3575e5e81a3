package infra

// pdf.go — settlement receipt generation using go-pdf/fpdf.
// Renders the liquidación of a salida as an A5 recibo with:
//   - Business header, corredor and dates
//   - Cash reconciliation table (ventas, transferencias, vales, deudas, gastos)
//   - Expected vs delivered cash with the variance classification
//   - Final returns of unsold full containers
//
// The output file is saved to storagePath/liquidacion_{salida}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboLiquidacionPDF renders the settlement receipt of a closed
// salida. The salida must carry its Liquidacion (with Devoluciones) loaded.
// Returns the absolute path to the generated file.
func GenerateReciboLiquidacionPDF(salida *model.Salida, storagePath string) (string, error) {
	liq := salida.Liquidacion
	if liq == nil {
		return "", fmt.Errorf("pdf: salida %s has no liquidación", salida.ID)
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("liquidacion_%s.pdf", salida.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "Distribuidora de Gas y Agua", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Recibo de Liquidación", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Salida info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	corredor := ""
	if salida.Corredor != nil {
		corredor = salida.Corredor.Nombre
	}
	pdf.CellFormat(contentW, 5, "Corredor: "+corredor, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Salida: "+salida.StartedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Liquidada: "+liq.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Cash reconciliation ───────────────────────────────────────────────────
	labelW := contentW * 0.65
	amountW := contentW * 0.35

	row := func(label string, amount string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 5.5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 5.5, amount, "", 1, "R", false, 0, "")
	}

	row("Total ventas", "$"+liq.TotalVentas.StringFixed(2), false)
	row("Transferencias", "-$"+liq.TotalTransferencias.StringFixed(2), false)
	row("Vales", "-$"+liq.TotalVales.StringFixed(2), false)
	row("Deudas de clientes", "-$"+liq.TotalDeudas.StringFixed(2), false)
	row("Gastos del corredor", "-$"+liq.TotalGastos.StringFixed(2), false)
	pdf.Ln(1)
	row("Efectivo esperado", "$"+liq.EfectivoEsperado.StringFixed(2), true)
	row("Efectivo entregado", "$"+liq.EfectivoEntregado.StringFixed(2), true)

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 10)
	diferencia := fmt.Sprintf("%s ($%s)", liq.Clasificacion, liq.Diferencia.Abs().StringFixed(2))
	pdf.CellFormat(contentW, 7, "Diferencia: "+diferencia, "", 1, "L", false, 0, "")

	// ── Final returns ─────────────────────────────────────────────────────────
	if len(liq.Devoluciones) > 0 {
		pdf.Ln(2)
		pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 5.5, "Devolución final (llenos)", "B", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 5.5, "Cantidad", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, d := range liq.Devoluciones {
			nombre := d.ProductoID.String()
			if d.Producto != nil {
				nombre = d.Producto.Nombre
			}
			if len(nombre) > 40 {
				nombre = nombre[:39] + "…"
			}
			pdf.CellFormat(labelW, 5.5, nombre, "", 0, "L", false, 0, "")
			pdf.CellFormat(amountW, 5.5, fmt.Sprintf("x%d", d.Cantidad), "", 1, "R", false, 0, "")
		}
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Documento generado automáticamente al cierre de la salida.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
