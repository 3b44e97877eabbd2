package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/inventory"
)

type fakeQuerier struct {
	stock   map[string]int32
	ledger  []dbgen.InventoryAdjustment
	missing bool
}

func key(id pgtype.UUID) string { return uuid.UUID(id.Bytes).String() }

func (f *fakeQuerier) AdjustProductStock(_ context.Context, arg dbgen.AdjustProductStockParams) (dbgen.AdjustProductStockRow, error) {
	if f.missing {
		return dbgen.AdjustProductStockRow{}, pgx.ErrNoRows
	}
	current := f.stock[key(arg.ID)]
	if current+arg.Delta < 0 {
		return dbgen.AdjustProductStockRow{}, pgx.ErrNoRows
	}
	f.stock[key(arg.ID)] = current + arg.Delta
	return dbgen.AdjustProductStockRow{ID: arg.ID, Stock: current + arg.Delta}, nil
}

func (f *fakeQuerier) InsertInventoryAdjustment(_ context.Context, arg dbgen.InsertInventoryAdjustmentParams) (dbgen.InventoryAdjustment, error) {
	row := dbgen.InventoryAdjustment{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		ProductID: arg.ProductID,
		Delta:     arg.Delta,
		Reason:    arg.Reason,
		ActorID:   arg.ActorID,
	}
	f.ledger = append(f.ledger, row)
	return row, nil
}

func (f *fakeQuerier) ListInventoryAdjustments(_ context.Context, arg dbgen.ListInventoryAdjustmentsParams) ([]dbgen.InventoryAdjustment, error) {
	var out []dbgen.InventoryAdjustment
	for _, row := range f.ledger {
		if row.ProductID == arg.ProductID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeQuerier) ListLowStockProducts(context.Context, int32) ([]dbgen.ListLowStockProductsRow, error) {
	return nil, nil
}

func TestAdjustRecordsLedgerEntry(t *testing.T) {
	productID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	q := &fakeQuerier{stock: map[string]int32{key(productID): 5}}
	svc := &inventory.Service{Q: q}

	actor := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	row, err := svc.Adjust(context.Background(), key(productID), 3, "restock", actor)
	require.NoError(t, err)
	require.Equal(t, int32(8), row.Stock)
	require.Len(t, q.ledger, 1)
	require.Equal(t, int32(3), q.ledger[0].Delta)
	require.Equal(t, "restock", q.ledger[0].Reason.String)
	require.Equal(t, actor, q.ledger[0].ActorID)
}

func TestAdjustRejectsNegativeStock(t *testing.T) {
	productID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	q := &fakeQuerier{stock: map[string]int32{key(productID): 2}}
	svc := &inventory.Service{Q: q}

	_, err := svc.Adjust(context.Background(), key(productID), -5, "shrinkage", pgtype.UUID{})
	require.Error(t, err)
	require.Empty(t, q.ledger)
}

func TestAdjustRejectsZeroDelta(t *testing.T) {
	svc := &inventory.Service{Q: &fakeQuerier{stock: map[string]int32{}}}
	_, err := svc.Adjust(context.Background(), uuid.NewString(), 0, "", pgtype.UUID{})
	require.Error(t, err)
}
