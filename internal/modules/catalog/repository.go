package catalog

import (
	"context"
	"errors"
)

// ErrItemNotFound is returned when no item matches the given id or stock number.
var ErrItemNotFound = errors.New("item not found")

// ErrUnitNotFound is returned when no unit matches the given name.
var ErrUnitNotFound = errors.New("unit not found")

// UnitRepository defines unit-of-measure data storage.
type UnitRepository interface {
	Create(ctx context.Context, name string) (*Unit, error)
	GetByName(ctx context.Context, name string) (*Unit, error)
	List(ctx context.Context) ([]*Unit, error)
}

// ItemRepository defines item data storage. Create seeds the item's
// inventory summary and opening ledger rows in the same transaction.
type ItemRepository interface {
	Create(ctx context.Context, it *Item, createdBy int64) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	GetIDByStockNo(ctx context.Context, stockNo string) (int64, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id int64) error
	ListWithBalance(ctx context.Context) ([]*ItemWithBalance, error)
}
