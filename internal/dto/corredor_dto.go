package dto

type CrearCorredorRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2"`
	Telefono *string `json:"telefono" validate:"omitempty,min=6"`
}

type ActualizarCorredorRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2"`
	Telefono *string `json:"telefono" validate:"omitempty,min=6"`
}

type CorredorResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono"`
	Activo   bool    `json:"activo"`
}
