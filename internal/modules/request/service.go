package request

import (
	"context"
	"errors"
	"strings"

	"github.com/supplyoffice/ris-backend/internal/modules/realtime"
	"go.uber.org/zap"
)

// ErrNoItems is returned when a submission carries no line items.
var ErrNoItems = errors.New("no items to save")

// Service defines RIS request business logic.
type Service interface {
	Create(ctx context.Context, userID int64, req CreateRequest) (*Request, error)
	ListMine(ctx context.Context, userID int64) ([]*Request, error)
	ListAll(ctx context.Context) ([]*Request, error)
	Delete(ctx context.Context, id, userID int64) error
}

// CreateRequest holds a staff submission.
type CreateRequest struct {
	Purpose string              `json:"purpose"`
	Items   []CreateRequestItem `json:"items"`
}

// CreateRequestItem is one submitted line. The descriptive fields are
// stored as given so the slip text is a snapshot, not a live join.
type CreateRequestItem struct {
	ItemID      *int64 `json:"item_id"`
	StockNo     string `json:"stock_no"`
	Unit        string `json:"unit"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Remarks     string `json:"remarks"`
}

type service struct {
	repo     Repository
	notifier realtime.Broadcaster
	logger   *zap.Logger
}

// NewService creates a new request service.
func NewService(repo Repository, notifier realtime.Broadcaster, logger *zap.Logger) Service {
	return &service{repo: repo, notifier: notifier, logger: logger}
}

func (s *service) Create(ctx context.Context, userID int64, req CreateRequest) (*Request, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	r := &Request{
		UserID:  userID,
		Purpose: strings.TrimSpace(req.Purpose),
	}
	for _, in := range req.Items {
		r.Items = append(r.Items, &RequestItem{
			ItemID:      in.ItemID,
			StockNo:     in.StockNo,
			Unit:        in.Unit,
			Name:        in.Name,
			Description: in.Description,
			Quantity:    in.Quantity,
			Remarks:     in.Remarks,
		})
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("request submitted",
		zap.Int64("request_id", r.ID),
		zap.Int64("user_id", userID),
		zap.Int("items", len(r.Items)))
	s.notifier.Broadcast(realtime.EventRequestsUpdated)
	return r, nil
}

func (s *service) ListMine(ctx context.Context, userID int64) ([]*Request, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]*Request, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	if err := s.repo.DeleteOwned(ctx, id, userID); err != nil {
		return err
	}
	s.notifier.Broadcast(realtime.EventRequestsUpdated)
	return nil
}
