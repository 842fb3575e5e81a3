package worker

// reporte_worker.go
// Processes settlement report jobs from QueueReportes: renders the PDF
// receipt of a liquidación and, when the request carried an email, enqueues
// it for delivery. PDF generation retries with exponential backoff; jobs
// that exhaust their retries go to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/infra"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxReporteAttempts = 3

// ReporteJobPayload is the job envelope sent to QueueReportes.
type ReporteJobPayload struct {
	SalidaID      string `json:"salida_id"`
	LiquidacionID string `json:"liquidacion_id"`
	Email         string `json:"email,omitempty"`
}

type ReporteWorker struct {
	salidaRepo     repository.SalidaRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewReporteWorker(
	salidaRepo repository.SalidaRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *ReporteWorker {
	return &ReporteWorker{
		salidaRepo:     salidaRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}

	salidaID, err := uuid.Parse(payload.SalidaID)
	if err != nil {
		log.Error().Str("salida_id", payload.SalidaID).Msg("reporte_worker: invalid salida_id")
		return
	}

	salida, err := w.salidaRepo.FindByID(ctx, salidaID)
	if err != nil {
		log.Error().Err(err).Str("salida_id", payload.SalidaID).Msg("reporte_worker: salida not found")
		return
	}
	if salida.Liquidacion == nil {
		log.Error().Str("salida_id", payload.SalidaID).Msg("reporte_worker: salida has no liquidación")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, maxReporteAttempts, func(attempt int) error {
		path, err := infra.GenerateReciboLiquidacionPDF(salida, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("salida_id", payload.SalidaID).
				Msg("reporte_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		log.Error().Err(genErr).Str("salida_id", payload.SalidaID).Msg("reporte_worker: PDF failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueReportes, "reporte_liquidacion", raw,
			fmt.Sprintf("pdf generation failed after %d attempts: %v", maxReporteAttempts, genErr),
			maxReporteAttempts)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("salida_id", payload.SalidaID).Msg("reporte_worker: PDF generated")

	if payload.Email == "" {
		return
	}
	corredor := "corredor"
	if salida.Corredor != nil {
		corredor = salida.Corredor.Nombre
	}
	emailJob := EmailJobPayload{
		ToEmail: payload.Email,
		Subject: fmt.Sprintf("Liquidación de salida — %s", corredor),
		Body: fmt.Sprintf("Adjunto encontrarás el recibo de liquidación.\nEfectivo entregado: $%.2f",
			salida.Liquidacion.EfectivoEntregado.InexactFloat64()),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("reporte_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", payload.Email).Msg("reporte_worker: email job enqueued")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
