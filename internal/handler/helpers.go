package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/apierror"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// pathID parses the :id (or named) path parameter as a UUID, writing the 400
// itself on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the service layer's typed errors onto HTTP status
// codes. Unknown errors surface as 400 with their message — internals never
// reach the client because services wrap infrastructure failures.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	var dispErr *service.DisposicionInvalidaError
	var estadoErr *service.SalidaNoAbiertaError
	var edicionErr *service.EdicionRestringidaError
	var valErr *service.ValidacionError

	switch {
	case errors.Is(err, service.ErrSalidaNoEncontrada),
		errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrCorredorNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &stockErr),
		errors.As(err, &estadoErr),
		errors.As(err, &edicionErr),
		errors.Is(err, service.ErrSalidaConMovimientos):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &dispErr),
		errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
