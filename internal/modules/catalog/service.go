package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Service defines catalog business logic for items and units.
type Service interface {
	CreateItem(ctx context.Context, req CreateItemRequest, createdBy int64) (*Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context) ([]*ItemWithBalance, error)

	CreateUnit(ctx context.Context, name string) (*Unit, bool, error)
	ListUnits(ctx context.Context) ([]*Unit, error)
}

// CreateItemRequest holds the data for creating an item.
type CreateItemRequest struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	BeginningStock int     `json:"beginning_stock" validate:"gte=0"`
	NewDelivery    int     `json:"new_delivery" validate:"gte=0"`
	StockNo        string  `json:"stock_no"`
	UnitID         int64   `json:"unit_id" validate:"required,gt=0"`
	UnitCost       float64 `json:"unit_cost" validate:"gte=0"`
}

// UpdateItemRequest holds the editable item fields. Opening stock is not
// editable after creation; movements go through the ledger instead.
type UpdateItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	StockNo     string  `json:"stock_no"`
	UnitID      int64   `json:"unit_id" validate:"required,gt=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
	IsActive    *bool   `json:"is_active"`
}

type service struct {
	itemRepo ItemRepository
	unitRepo UnitRepository
	validate *validator.Validate
}

// NewService creates a new catalog service.
func NewService(itemRepo ItemRepository, unitRepo UnitRepository) Service {
	return &service{
		itemRepo: itemRepo,
		unitRepo: unitRepo,
		validate: validator.New(),
	}
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest, createdBy int64) (*Item, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}

	it := &Item{
		Name:             req.Name,
		Description:      req.Description,
		BeginningStock:   req.BeginningStock,
		NewDeliveryStock: req.NewDelivery,
		StockNo:          strings.TrimSpace(req.StockNo),
		UnitID:           req.UnitID,
		UnitCost:         req.UnitCost,
		Status:           StatusInStock,
		IsActive:         true,
	}
	if req.BeginningStock+req.NewDelivery == 0 {
		it.Status = StatusOutOfStock
	}

	if err := s.itemRepo.Create(ctx, it, createdBy); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *service) UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}

	it, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Name = req.Name
	it.Description = req.Description
	it.StockNo = strings.TrimSpace(req.StockNo)
	it.UnitID = req.UnitID
	it.UnitCost = req.UnitCost
	if req.IsActive != nil {
		it.IsActive = *req.IsActive
	}

	if err := s.itemRepo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) DeleteItem(ctx context.Context, id int64) error {
	return s.itemRepo.Delete(ctx, id)
}

func (s *service) ListItems(ctx context.Context) ([]*ItemWithBalance, error) {
	return s.itemRepo.ListWithBalance(ctx)
}

// CreateUnit returns the existing unit when one with the same name already
// exists. The bool reports whether a new unit was created.
func (s *service) CreateUnit(ctx context.Context, name string) (*Unit, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New("unit name is required")
	}

	existing, err := s.unitRepo.GetByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUnitNotFound) {
		return nil, false, err
	}

	created, err := s.unitRepo.Create(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *service) ListUnits(ctx context.Context) ([]*Unit, error) {
	return s.unitRepo.List(ctx)
}
