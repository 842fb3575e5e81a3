package service

import (
	"context"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/dto"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/model"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"

	"github.com/google/uuid"
)

type CorredorService interface {
	Crear(ctx context.Context, req dto.CrearCorredorRequest) (*dto.CorredorResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CorredorResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.CorredorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCorredorRequest) (*dto.CorredorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type corredorService struct {
	repo repository.CorredorRepository
}

func NewCorredorService(repo repository.CorredorRepository) CorredorService {
	return &corredorService{repo: repo}
}

func (s *corredorService) Crear(ctx context.Context, req dto.CrearCorredorRequest) (*dto.CorredorResponse, error) {
	c := model.Corredor{Nombre: req.Nombre, Telefono: req.Telefono, Activo: true}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	resp := corredorToResponse(&c)
	return &resp, nil
}

func (s *corredorService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CorredorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCorredorNoEncontrado
	}
	resp := corredorToResponse(c)
	return &resp, nil
}

func (s *corredorService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.CorredorResponse, error) {
	corredores, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CorredorResponse, 0, len(corredores))
	for i := range corredores {
		out = append(out, corredorToResponse(&corredores[i]))
	}
	return out, nil
}

func (s *corredorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCorredorRequest) (*dto.CorredorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCorredorNoEncontrado
	}
	c.Nombre = req.Nombre
	c.Telefono = req.Telefono
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := corredorToResponse(c)
	return &resp, nil
}

func (s *corredorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCorredorNoEncontrado
	}
	return s.repo.SoftDelete(ctx, id)
}

func corredorToResponse(c *model.Corredor) dto.CorredorResponse {
	return dto.CorredorResponse{
		ID:       c.ID.String(),
		Nombre:   c.Nombre,
		Telefono: c.Telefono,
		Activo:   c.Activo,
	}
}
