package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/supplyoffice/ris-backend/internal/modules/catalog"
	"github.com/supplyoffice/ris-backend/internal/modules/inventory"
	"github.com/supplyoffice/ris-backend/internal/modules/realtime"
	"github.com/supplyoffice/ris-backend/internal/modules/request"
	"go.uber.org/zap"
)

// ErrNothingProcessed is returned when a request was found but none of its
// lines could be applied: every line was unlinked, unmatched, or had an
// invalid quantity.
var ErrNothingProcessed = errors.New("no inventory was updated for this request; make sure the request items are linked to inventory items")

// RequestStore is the view of the request store the engine needs.
// Satisfied by request.Repository.
type RequestStore interface {
	MarkReleased(ctx context.Context, id, releasedBy int64) error
	Reopen(ctx context.Context, id int64) error
	ListItems(ctx context.Context, requestID int64) ([]*request.RequestItem, error)
}

// ItemResolver resolves a captured stock number to a catalog item id.
// Satisfied by catalog.ItemRepository.
type ItemResolver interface {
	GetIDByStockNo(ctx context.Context, stockNo string) (int64, error)
}

// Ledger applies a single OUT movement atomically and returns the
// resulting balance. Satisfied by inventory.Repository.
type Ledger interface {
	ReleaseLine(ctx context.Context, itemID, userID int64, qty int, remarks string) (int, error)
}

// Service converts a submitted request's line items into inventory
// deductions exactly once per request.
type Service interface {
	// Release processes every line of the request and returns how many
	// lines were applied. Errors: request.ErrNotFound,
	// request.ErrAlreadyReleased, ErrNothingProcessed, or a store error.
	Release(ctx context.Context, requestID, userID int64) (int, error)
}

type service struct {
	requests RequestStore
	items    ItemResolver
	ledger   Ledger
	notifier realtime.Broadcaster
	logger   *zap.Logger
}

// NewService creates a new release engine.
func NewService(requests RequestStore, items ItemResolver, ledger Ledger, notifier realtime.Broadcaster, logger *zap.Logger) Service {
	return &service{
		requests: requests,
		items:    items,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *service) Release(ctx context.Context, requestID, userID int64) (int, error) {
	// The conditional status flip is the gate against double release: of
	// two concurrent calls for the same request, exactly one gets past it.
	if err := s.requests.MarkReleased(ctx, requestID, userID); err != nil {
		return 0, err
	}

	lines, err := s.requests.ListItems(ctx, requestID)
	if err != nil {
		s.reopen(ctx, requestID)
		return 0, fmt.Errorf("loading request items: %w", err)
	}

	remarks := fmt.Sprintf("RIS #%d", requestID)
	processed := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		itemID, ok, err := s.resolveItem(ctx, line)
		if err != nil {
			return processed, s.abort(ctx, requestID, processed, err)
		}
		if !ok {
			continue
		}

		balance, err := s.ledger.ReleaseLine(ctx, itemID, userID, line.Quantity, remarks)
		if err != nil {
			if errors.Is(err, inventory.ErrNoSummary) {
				continue
			}
			return processed, s.abort(ctx, requestID, processed, err)
		}
		if balance < 0 {
			s.logger.Warn("release drove balance negative",
				zap.Int64("request_id", requestID),
				zap.Int64("item_id", itemID),
				zap.Int("balance", balance))
		}
		processed++
	}

	if processed == 0 {
		s.reopen(ctx, requestID)
		return 0, ErrNothingProcessed
	}

	s.logger.Info("released request",
		zap.Int64("request_id", requestID),
		zap.Int64("released_by", userID),
		zap.Int("processed", processed),
		zap.Int("lines", len(lines)))
	s.notifier.Broadcast(realtime.EventRequestsUpdated)
	return processed, nil
}

// resolveItem returns the target item for a line: the direct reference if
// present, otherwise a stock-number match against the catalog. ok is false
// when the line cannot be resolved at all.
func (s *service) resolveItem(ctx context.Context, line *request.RequestItem) (int64, bool, error) {
	if line.ItemID != nil && *line.ItemID > 0 {
		return *line.ItemID, true, nil
	}
	if line.StockNo == "" {
		return 0, false, nil
	}
	id, err := s.items.GetIDByStockNo(ctx, line.StockNo)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("resolving stock number %q: %w", line.StockNo, err)
	}
	return id, true, nil
}

// abort handles a store failure mid-request. Lines already applied stay
// applied; the request only reopens when nothing was deducted yet.
func (s *service) abort(ctx context.Context, requestID int64, processed int, err error) error {
	if processed == 0 {
		s.reopen(ctx, requestID)
	}
	return fmt.Errorf("releasing request %d: %w", requestID, err)
}

func (s *service) reopen(ctx context.Context, requestID int64) {
	if err := s.requests.Reopen(ctx, requestID); err != nil {
		s.logger.Error("reopening request after failed release",
			zap.Int64("request_id", requestID), zap.Error(err))
	}
}
