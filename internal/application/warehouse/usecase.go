package warehouse

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rtrejos/almacen-api/internal/application/dto"
	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/access"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// UseCase altas y lecturas de almacenes. Para el núcleo de movimientos un
// almacén es inmutable una vez creado: no hay update ni delete.
type UseCase struct {
	repo repository.WarehouseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.WarehouseRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create da de alta un almacén.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateWarehouseRequest) (*entity.Warehouse, error) {
	if err := access.Allow(actor, access.OpWarehouseCreate, access.Resource{}); err != nil {
		return nil, err
	}
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		IsCedis:   in.IsCedis,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// GetByID obtiene un almacén.
func (uc *UseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*entity.Warehouse, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return warehouse, nil
}

// List lista almacenes con paginación.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, limit, offset int) ([]*entity.Warehouse, error) {
	if err := access.Allow(actor, access.OpRead, access.Resource{}); err != nil {
		return nil, err
	}
	return uc.repo.List(limit, offset)
}
