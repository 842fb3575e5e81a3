package handler

import (
	"net/http"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/apierror"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// SalidasHandler covers the whole shift lifecycle: apertura, reabastecimiento,
// gastos, cancelación, the reconciliation report and the liquidación itself.
type SalidasHandler struct {
	svc    service.SalidaService
	liqSvc service.LiquidacionService
}

func NewSalidasHandler(svc service.SalidaService, liqSvc service.LiquidacionService) *SalidasHandler {
	return &SalidasHandler{svc: svc, liqSvc: liqSvc}
}

func (h *SalidasHandler) Crear(c *gin.Context) {
	var req dto.CrearSalidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalidasHandler) Listar(c *gin.Context) {
	var filter dto.SalidaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar salidas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalidasHandler) Obtener(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalidasHandler) Reporte(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Reporte(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalidasHandler) Reabastecer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReabastecerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reabastecer(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalidasHandler) RegistrarGasto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.GastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RegistrarGasto(c.Request.Context(), id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *SalidasHandler) Cancelar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EfectivoEsperado previews the settlement engine's figure without closing
// the shift.
func (h *SalidasHandler) EfectivoEsperado(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	esperado, err := h.liqSvc.EfectivoEsperado(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"efectivo_esperado": esperado})
}

func (h *SalidasHandler) Liquidar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.LiquidarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.liqSvc.Liquidar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
