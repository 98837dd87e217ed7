package inventory

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Service defines inventory business logic outside the release flow:
// stock card listing, deliveries, and the annual report.
type Service interface {
	StockCard(ctx context.Context, itemID int64) ([]*StockCardRow, error)
	StockIn(ctx context.Context, req StockInRequest, userID int64) (int, error)
	Report(ctx context.Context, year int) ([]*ReportRow, error)
}

// StockInRequest holds the data for recording a delivery.
type StockInRequest struct {
	ItemID   int64   `json:"item_id" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	UnitCost float64 `json:"unit_cost" validate:"gte=0"`
	Remarks  string  `json:"remarks"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, validate: validator.New(), logger: logger}
}

func (s *service) StockCard(ctx context.Context, itemID int64) ([]*StockCardRow, error) {
	return s.repo.ListStockCard(ctx, itemID)
}

func (s *service) StockIn(ctx context.Context, req StockInRequest, userID int64) (int, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("invalid delivery: %w", err)
	}

	remarks := req.Remarks
	if remarks == "" {
		remarks = "New delivery"
	}

	balance, err := s.repo.StockIn(ctx, req.ItemID, userID, req.Quantity, req.UnitCost, remarks)
	if err != nil {
		return 0, err
	}

	s.logger.Info("recorded delivery",
		zap.Int64("item_id", req.ItemID),
		zap.Int("quantity", req.Quantity),
		zap.Int("balance", balance))
	return balance, nil
}

func (s *service) Report(ctx context.Context, year int) ([]*ReportRow, error) {
	return s.repo.Report(ctx, year)
}
