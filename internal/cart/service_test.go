package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/rentkart/backend-rentkart/internal/cart"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/promo"
)

type fakeDB struct {
	carts    map[string]dbgen.Cart
	items    []dbgen.CartItem
	products map[string]dbgen.GetProductByIDRow
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		carts:    map[string]dbgen.Cart{},
		products: map[string]dbgen.GetProductByIDRow{},
	}
}

func key(id pgtype.UUID) string { return uuid.UUID(id.Bytes).String() }

func (f *fakeDB) CreateCart(_ context.Context, arg dbgen.CreateCartParams) (dbgen.Cart, error) {
	c := dbgen.Cart{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		UserID:    arg.UserID,
		AnonID:    arg.AnonID,
		PriceList: arg.PriceList,
		ExpiresAt: arg.ExpiresAt,
	}
	f.carts[key(c.ID)] = c
	return c, nil
}

func (f *fakeDB) GetCartByID(_ context.Context, id pgtype.UUID) (dbgen.Cart, error) {
	c, ok := f.carts[key(id)]
	if !ok {
		return dbgen.Cart{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeDB) GetActiveCartByUser(_ context.Context, userID pgtype.UUID) (dbgen.Cart, error) {
	for _, c := range f.carts {
		if c.UserID.Valid && c.UserID == userID {
			return c, nil
		}
	}
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (f *fakeDB) GetActiveCartByAnon(_ context.Context, anonID pgtype.Text) (dbgen.Cart, error) {
	for _, c := range f.carts {
		if c.AnonID.Valid && c.AnonID.String == anonID.String {
			return c, nil
		}
	}
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (f *fakeDB) TouchCart(_ context.Context, arg dbgen.TouchCartParams) error {
	if c, ok := f.carts[key(arg.ID)]; ok {
		c.ExpiresAt = arg.ExpiresAt
		f.carts[key(arg.ID)] = c
	}
	return nil
}

func (f *fakeDB) SetCartPriceList(_ context.Context, arg dbgen.SetCartPriceListParams) (dbgen.Cart, error) {
	c, ok := f.carts[key(arg.ID)]
	if !ok {
		return dbgen.Cart{}, pgx.ErrNoRows
	}
	c.PriceList = arg.PriceList
	f.carts[key(arg.ID)] = c
	return c, nil
}

func (f *fakeDB) UpdateCartPromo(_ context.Context, arg dbgen.UpdateCartPromoParams) error {
	if c, ok := f.carts[key(arg.ID)]; ok {
		c.AppliedPromoCode = arg.AppliedPromoCode
		f.carts[key(arg.ID)] = c
	}
	return nil
}

func (f *fakeDB) TransferCartToUser(_ context.Context, arg dbgen.TransferCartToUserParams) error {
	if c, ok := f.carts[key(arg.ID)]; ok {
		c.UserID = arg.UserID
		c.AnonID = pgtype.Text{}
		f.carts[key(arg.ID)] = c
	}
	return nil
}

func (f *fakeDB) ListCartItems(_ context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error) {
	var out []dbgen.CartItem
	for _, it := range f.items {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeDB) GetCartItemByID(_ context.Context, arg dbgen.GetCartItemByIDParams) (dbgen.CartItem, error) {
	for _, it := range f.items {
		if it.ID == arg.ID && it.CartID == arg.CartID {
			return it, nil
		}
	}
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func sameWindow(a, b pgtype.Timestamptz) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Time.Equal(b.Time)
}

func (f *fakeDB) FindCartItemByProduct(_ context.Context, arg dbgen.FindCartItemByProductParams) (dbgen.CartItem, error) {
	for _, it := range f.items {
		if it.CartID == arg.CartID && it.ProductID == arg.ProductID &&
			sameWindow(it.StartsAt, arg.StartsAt) && sameWindow(it.EndsAt, arg.EndsAt) {
			return it, nil
		}
	}
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (f *fakeDB) CreateCartItem(_ context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error) {
	it := dbgen.CartItem{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		CartID:      arg.CartID,
		ProductID:   arg.ProductID,
		Title:       arg.Title,
		Slug:        arg.Slug,
		Qty:         arg.Qty,
		UnitPrice:   arg.UnitPrice,
		PricingUnit: arg.PricingUnit,
		StartsAt:    arg.StartsAt,
		EndsAt:      arg.EndsAt,
	}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeDB) UpdateCartItemQty(_ context.Context, arg dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error) {
	for i, it := range f.items {
		if it.ID == arg.ID && it.CartID == arg.CartID {
			f.items[i].Qty = arg.Qty
			return f.items[i], nil
		}
	}
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (f *fakeDB) UpdateCartItemDates(_ context.Context, arg dbgen.UpdateCartItemDatesParams) (dbgen.CartItem, error) {
	for i, it := range f.items {
		if it.ID == arg.ID && it.CartID == arg.CartID {
			f.items[i].StartsAt = arg.StartsAt
			f.items[i].EndsAt = arg.EndsAt
			return f.items[i], nil
		}
	}
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (f *fakeDB) DeleteCartItem(_ context.Context, arg dbgen.DeleteCartItemParams) (int64, error) {
	for i, it := range f.items {
		if it.ID == arg.ID && it.CartID == arg.CartID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeDB) ClearCart(_ context.Context, cartID pgtype.UUID) error {
	var kept []dbgen.CartItem
	for _, it := range f.items {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeDB) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error) {
	p, ok := f.products[key(id)]
	if !ok {
		return dbgen.GetProductByIDRow{}, pgx.ErrNoRows
	}
	return p, nil
}

type fakePromoDB struct {
	promotion dbgen.Promotion
	missing   bool
}

func (f *fakePromoDB) GetPromotionByCode(context.Context, string) (dbgen.Promotion, error) {
	if f.missing {
		return dbgen.Promotion{}, pgx.ErrNoRows
	}
	return f.promotion, nil
}

func (f *fakePromoDB) CountPromotionUsageByUser(context.Context, dbgen.CountPromotionUsageByUserParams) (int64, error) {
	return 0, nil
}

func (f *fakePromoDB) GetPromotionUsageByRental(context.Context, dbgen.GetPromotionUsageByRentalParams) (dbgen.PromotionUsage, error) {
	return dbgen.PromotionUsage{}, pgx.ErrNoRows
}

func (f *fakePromoDB) InsertPromotionUsage(_ context.Context, arg dbgen.InsertPromotionUsageParams) (dbgen.PromotionUsage, error) {
	return dbgen.PromotionUsage{PromotionID: arg.PromotionID, RentalID: arg.RentalID}, nil
}

func (f *fakePromoDB) IncreasePromotionUsedCount(context.Context, pgtype.UUID) (int32, error) {
	return 1, nil
}

func (f *fakePromoDB) DeletePromotionUsage(context.Context, dbgen.DeletePromotionUsageParams) (int64, error) {
	return 0, nil
}

func (f *fakePromoDB) DecreasePromotionUsedCount(context.Context, pgtype.UUID) error {
	return nil
}

func seedProduct(db *fakeDB, title string, price int64, unit dbgen.PricingUnit) pgtype.UUID {
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	db.products[key(id)] = dbgen.GetProductByIDRow{
		ID:          id,
		Title:       title,
		Slug:        cart.UUIDString(id)[:8],
		UnitPrice:   price,
		PricingUnit: unit,
		Stock:       10,
		Active:      true,
	}
	return id
}

func newService(db *fakeDB) *cart.Service {
	return &cart.Service{
		Q:   db,
		Now: func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestEnsureCartReusesActiveCart(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	first, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	second, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "standard", first.PriceList)
}

func TestAddItemMergesSameWindowOnly(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	marchStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	marchEnd := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, &marchStart, &marchEnd)
	require.NoError(t, err)
	merged, err := svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 2, &marchStart, &marchEnd)
	require.NoError(t, err)
	require.Equal(t, int32(3), merged.Qty)
	require.Len(t, db.items, 1)

	aprilStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	aprilEnd := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, &aprilStart, &aprilEnd)
	require.NoError(t, err)
	require.Len(t, db.items, 2)
}

func TestAddItemRejectsInvertedWindow(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	starts := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddItem(context.Background(), cart.UUIDString(c.ID), cart.UUIDString(drill), 1, &starts, &ends)
	require.ErrorIs(t, err, cart.ErrInvalidInput)
}

func TestUpdateQtyZeroRemovesLine(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	item, err := svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 2, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQty(context.Background(), cartID, cart.UUIDString(item.ID), 0))
	require.Empty(t, db.items)

	err = svc.UpdateQty(context.Background(), cartID, cart.UUIDString(item.ID), 0)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestViewComputesBillableUnits(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	tripod := seedProduct(db, "Tripod", 20000, dbgen.PricingUnitDay)

	starts := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, &starts, &ends)
	require.NoError(t, err)
	// no dates: billed as a single unit
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(tripod), 1, nil, nil)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	byTitle := map[string]cart.ItemView{}
	for _, it := range view.Items {
		byTitle[it.Title] = it
	}
	require.Equal(t, int64(3), byTitle["Hammer Drill"].BillableUnits)
	require.False(t, byTitle["Hammer Drill"].IncompleteDates)
	require.Equal(t, int64(150000), byTitle["Hammer Drill"].LineTotal)
	require.Equal(t, int64(1), byTitle["Tripod"].BillableUnits)
	require.Equal(t, int64(170000), view.Summary.Subtotal)
	require.Equal(t, int64(170000), view.Summary.Payable)
}

func TestViewFlagsIncompleteDates(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	starts := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, &starts, nil)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.True(t, view.Items[0].IncompleteDates)
	require.Equal(t, int64(1), view.Items[0].BillableUnits)
}

func TestViewPriceListMultiplier(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, nil, nil)
	require.NoError(t, err)

	_, err = svc.SetPriceList(context.Background(), cartID, "premium")
	require.NoError(t, err)

	view, err := svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.Equal(t, "premium", view.PriceList)
	require.Equal(t, int64(60000), view.Summary.Subtotal)
}

func TestViewFallsBackToSnapshotPrice(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, nil, nil)
	require.NoError(t, err)

	// live price change is reflected
	p := db.products[key(drill)]
	p.UnitPrice = 55000
	db.products[key(drill)] = p
	view, err := svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.Equal(t, int64(55000), view.Summary.Subtotal)

	// deleted product falls back to the snapshot taken at add time
	delete(db.products, key(drill))
	view, err = svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.Equal(t, int64(50000), view.Summary.Subtotal)
}

func TestBillLineUsesLivePriceWithSnapshotFallback(t *testing.T) {
	db := newFakeDB()
	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	item := dbgen.CartItem{ProductID: drill, Qty: 2, UnitPrice: 45000, PricingUnit: dbgen.PricingUnitDay}

	line := cart.BillLine(context.Background(), db, item)
	require.Equal(t, int64(50000), line.UnitPrice)
	require.Equal(t, int64(2), line.Qty)

	// retired product bills the snapshot
	p := db.products[key(drill)]
	p.Active = false
	db.products[key(drill)] = p
	line = cart.BillLine(context.Background(), db, item)
	require.Equal(t, int64(45000), line.UnitPrice)

	// deleted product bills the snapshot
	delete(db.products, key(drill))
	line = cart.BillLine(context.Background(), db, item)
	require.Equal(t, int64(45000), line.UnitPrice)
}

func TestViewDegradesWhenPromoNoLongerEligible(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)
	svc.Promo = &promo.Service{Q: &fakePromoDB{missing: true}}

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, nil, nil)
	require.NoError(t, err)

	require.NoError(t, db.UpdateCartPromo(context.Background(), dbgen.UpdateCartPromoParams{
		ID:               c.ID,
		AppliedPromoCode: pgtype.Text{String: "GONE", Valid: true},
	}))

	view, err := svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.Empty(t, view.PromoCode)
	require.Equal(t, int64(0), view.Summary.Discount)
	require.Equal(t, int64(50000), view.Summary.Payable)
}

func TestViewAppliesPromotionDiscount(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)
	svc.Promo = &promo.Service{Q: &fakePromoDB{promotion: dbgen.Promotion{
		ID:     pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Code:   "RENT50",
		Kind:   dbgen.DiscountKindFixed,
		Value:  5000,
		Active: true,
	}}}

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	_, err = svc.AddItem(context.Background(), cartID, cart.UUIDString(drill), 1, nil, nil)
	require.NoError(t, err)

	_, err = svc.ApplyPromo(context.Background(), cartID, "RENT50")
	require.NoError(t, err)

	view, err := svc.View(context.Background(), cartID)
	require.NoError(t, err)
	require.Equal(t, "RENT50", view.PromoCode)
	require.Equal(t, int64(5000), view.Summary.Discount)
	require.Equal(t, int64(45000), view.Summary.Payable)
}

func TestAuthorizeRejectsForeignUserCart(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	owner := uuid.NewString()
	c, err := svc.EnsureCart(context.Background(), &owner, nil)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	require.NoError(t, svc.Authorize(context.Background(), cartID, &owner))

	require.ErrorIs(t, svc.Authorize(context.Background(), cartID, nil), cart.ErrForbidden)
	other := uuid.NewString()
	require.ErrorIs(t, svc.Authorize(context.Background(), cartID, &other), cart.ErrForbidden)
}

func TestAuthorizeAllowsAnonymousCartByID(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	c, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)
	cartID := cart.UUIDString(c.ID)

	require.NoError(t, svc.Authorize(context.Background(), cartID, nil))
	userID := uuid.NewString()
	require.NoError(t, svc.Authorize(context.Background(), cartID, &userID))
}

func TestMergeRejectsCartOwnedByAnotherUser(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	owner := uuid.NewString()
	c, err := svc.EnsureCart(context.Background(), &owner, nil)
	require.NoError(t, err)

	other := uuid.NewString()
	_, err = svc.Merge(context.Background(), cart.UUIDString(c.ID), other)
	require.ErrorIs(t, err, cart.ErrForbidden)
}

func TestMergeAdoptsGuestCartForNewUser(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	anon := "visitor-1"
	guest, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	_, err = svc.AddItem(context.Background(), cart.UUIDString(guest.ID), cart.UUIDString(drill), 1, nil, nil)
	require.NoError(t, err)

	userID := uuid.NewString()
	mergedID, err := svc.Merge(context.Background(), cart.UUIDString(guest.ID), userID)
	require.NoError(t, err)
	require.Equal(t, cart.UUIDString(guest.ID), mergedID)

	adopted := db.carts[mergedID]
	require.True(t, adopted.UserID.Valid)
	require.False(t, adopted.AnonID.Valid)
}

func TestMergeCombinesLinesIntoUserCart(t *testing.T) {
	db := newFakeDB()
	svc := newService(db)

	userID := uuid.NewString()
	userCart, err := svc.EnsureCart(context.Background(), &userID, nil)
	require.NoError(t, err)

	anon := "visitor-1"
	guest, err := svc.EnsureCart(context.Background(), nil, &anon)
	require.NoError(t, err)

	drill := seedProduct(db, "Hammer Drill", 50000, dbgen.PricingUnitDay)
	tripod := seedProduct(db, "Tripod", 20000, dbgen.PricingUnitDay)

	_, err = svc.AddItem(context.Background(), cart.UUIDString(userCart.ID), cart.UUIDString(drill), 1, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.UUIDString(guest.ID), cart.UUIDString(drill), 3, nil, nil)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.UUIDString(guest.ID), cart.UUIDString(tripod), 1, nil, nil)
	require.NoError(t, err)

	mergedID, err := svc.Merge(context.Background(), cart.UUIDString(guest.ID), userID)
	require.NoError(t, err)
	require.Equal(t, cart.UUIDString(userCart.ID), mergedID)

	items, err := db.ListCartItems(context.Background(), userCart.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		if it.ProductID == drill {
			require.Equal(t, int32(3), it.Qty)
		}
	}
}
