package handler

import (
	"net/http"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/apierror"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type CorredoresHandler struct{ svc service.CorredorService }

func NewCorredoresHandler(svc service.CorredorService) *CorredoresHandler {
	return &CorredoresHandler{svc: svc}
}

func (h *CorredoresHandler) Crear(c *gin.Context) {
	var req dto.CrearCorredorRequest
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

func (h *CorredoresHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar corredores"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CorredoresHandler) Obtener(c *gin.Context) {
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

func (h *CorredoresHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCorredorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CorredoresHandler) Desactivar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
