package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

// ResolveBranch resuelve la sucursal a usar a partir del directorio completo.
// Si requested no está vacío debe existir; si está vacío se usa la única sucursal principal.
func ResolveBranch(branches []*entity.Branch, requested string) (*entity.Branch, error) {
	if requested != "" {
		for _, b := range branches {
			if b.ID == requested {
				return b, nil
			}
		}
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, requested)
	}
	var primary *entity.Branch
	for _, b := range branches {
		if !b.IsPrimary {
			continue
		}
		if primary != nil {
			return nil, fmt.Errorf("%w: hay más de una sucursal principal", domain.ErrConflict)
		}
		primary = b
	}
	if primary == nil {
		return nil, fmt.Errorf("%w: no hay sucursal principal configurada", domain.ErrNotFound)
	}
	return primary, nil
}

// ResolveBranchID consulta el directorio y aplica ResolveBranch.
// Con un ID explícito basta una lectura puntual.
func ResolveBranchID(ctx context.Context, repo repository.BranchRepository, requested string) (string, error) {
	if requested != "" {
		b, err := repo.GetByID(ctx, requested)
		if err != nil {
			return "", err
		}
		if b == nil {
			return "", fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, requested)
		}
		return b.ID, nil
	}
	branches, err := repo.List(ctx)
	if err != nil {
		return "", err
	}
	b, err := ResolveBranch(branches, "")
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

// BranchUseCase consultas sobre el directorio de sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// List lista todas las sucursales.
func (uc *BranchUseCase) List(ctx context.Context) (*dto.BranchListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{Items: items}, nil
}

// Default devuelve la sucursal principal.
func (uc *BranchUseCase) Default(ctx context.Context) (*dto.BranchResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	b, err := ResolveBranch(list, "")
	if err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		IsPrimary: b.IsPrimary,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
