package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/pricing"
	"github.com/rentkart/backend-rentkart/internal/promo"
)

// ErrNotFound indicates the requested cart or line could not be located.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrForbidden indicates the cart belongs to a different user.
var ErrForbidden = errors.New("cart does not belong to user")

// Querier captures the database methods required by the cart service.
type Querier interface {
	CreateCart(ctx context.Context, arg dbgen.CreateCartParams) (dbgen.Cart, error)
	GetCartByID(ctx context.Context, id pgtype.UUID) (dbgen.Cart, error)
	GetActiveCartByUser(ctx context.Context, userID pgtype.UUID) (dbgen.Cart, error)
	GetActiveCartByAnon(ctx context.Context, anonID pgtype.Text) (dbgen.Cart, error)
	TouchCart(ctx context.Context, arg dbgen.TouchCartParams) error
	SetCartPriceList(ctx context.Context, arg dbgen.SetCartPriceListParams) (dbgen.Cart, error)
	UpdateCartPromo(ctx context.Context, arg dbgen.UpdateCartPromoParams) error
	TransferCartToUser(ctx context.Context, arg dbgen.TransferCartToUserParams) error
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error)
	GetCartItemByID(ctx context.Context, arg dbgen.GetCartItemByIDParams) (dbgen.CartItem, error)
	FindCartItemByProduct(ctx context.Context, arg dbgen.FindCartItemByProductParams) (dbgen.CartItem, error)
	CreateCartItem(ctx context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error)
	UpdateCartItemQty(ctx context.Context, arg dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error)
	UpdateCartItemDates(ctx context.Context, arg dbgen.UpdateCartItemDatesParams) (dbgen.CartItem, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) (int64, error)
	ClearCart(ctx context.Context, cartID pgtype.UUID) error
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.GetProductByIDRow, error)
}

// Service encapsulates cart domain operations. Quantities, date windows and the
// price list live here; all money math is delegated to the pricing engine.
type Service struct {
	Q           Querier
	Promo       *promo.Service
	TTL         time.Duration
	TaxBps      int
	DeliveryFee int64
	Now         func() time.Time
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsureCart loads or creates the active cart for the provided identity. New
// carts start on the standard price list.
func (s *Service) EnsureCart(ctx context.Context, userID, anonID *string) (dbgen.Cart, error) {
	if s == nil || s.Q == nil {
		return dbgen.Cart{}, errors.New("cart service not configured")
	}
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}

	if userID != nil && *userID != "" {
		uid, err := toUUID(*userID)
		if err != nil {
			return dbgen.Cart{}, fmt.Errorf("parse user id: %w", err)
		}
		cart, err := s.Q.GetActiveCartByUser(ctx, uid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.Q.CreateCart(ctx, dbgen.CreateCartParams{
					UserID:    uid,
					PriceList: string(pricing.PriceListStandard),
					ExpiresAt: expires,
				})
			}
			return dbgen.Cart{}, err
		}
		_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cart.ID, ExpiresAt: expires})
		return cart, nil
	}

	if anonID != nil && *anonID != "" {
		anon := pgtype.Text{String: *anonID, Valid: true}
		cart, err := s.Q.GetActiveCartByAnon(ctx, anon)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return s.Q.CreateCart(ctx, dbgen.CreateCartParams{
					AnonID:    anon,
					PriceList: string(pricing.PriceListStandard),
					ExpiresAt: expires,
				})
			}
			return dbgen.Cart{}, err
		}
		_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cart.ID, ExpiresAt: expires})
		return cart, nil
	}

	return dbgen.Cart{}, fmt.Errorf("user or anon id required: %w", ErrInvalidInput)
}

// Authorize checks that the caller may act on the cart. A cart bound to a
// user is only accessible to that user; anonymous carts are addressed by
// their id alone.
func (s *Service) Authorize(ctx context.Context, cartID string, userID *string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return ErrNotFound
	}
	c, err := s.Q.GetCartByID(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !c.UserID.Valid {
		return nil
	}
	if userID == nil || uuidString(c.UserID) != *userID {
		return ErrForbidden
	}
	return nil
}

// AddItem inserts a rental line or increments the quantity of an identical one.
// The same product with a different date window is a distinct line. The unit
// price and pricing unit are snapshotted from the product at add time.
func (s *Service) AddItem(ctx context.Context, cartID string, productID string, qty int, startsAt, endsAt *time.Time) (dbgen.CartItem, error) {
	if s == nil || s.Q == nil {
		return dbgen.CartItem{}, errors.New("cart service not configured")
	}
	if qty <= 0 {
		return dbgen.CartItem{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse cart id: %w", err)
	}
	pID, err := toUUID(productID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse product id: %w", err)
	}
	starts, ends, err := normalizeWindow(startsAt, endsAt)
	if err != nil {
		return dbgen.CartItem{}, err
	}

	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	existing, err := s.Q.FindCartItemByProduct(ctx, dbgen.FindCartItemByProductParams{
		CartID:    cID,
		ProductID: pID,
		StartsAt:  starts,
		EndsAt:    ends,
	})
	if err == nil {
		item, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{
			ID:     existing.ID,
			CartID: cID,
			Qty:    existing.Qty + int32(qty),
		})
		if err != nil {
			return dbgen.CartItem{}, err
		}
		_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
		return item, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbgen.CartItem{}, err
	}

	product, err := s.Q.GetProductByID(ctx, pID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CartItem{}, fmt.Errorf("product not found: %w", ErrInvalidInput)
		}
		return dbgen.CartItem{}, err
	}
	if !product.Active {
		return dbgen.CartItem{}, fmt.Errorf("product not available: %w", ErrInvalidInput)
	}
	unitPrice := product.UnitPrice
	if unitPrice < 0 {
		unitPrice = 0
	}
	item, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
		CartID:      cID,
		ProductID:   pID,
		Title:       product.Title,
		Slug:        product.Slug,
		Qty:         int32(qty),
		UnitPrice:   unitPrice,
		PricingUnit: product.PricingUnit,
		StartsAt:    starts,
		EndsAt:      ends,
	})
	if err != nil {
		return dbgen.CartItem{}, err
	}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cID, ExpiresAt: expires})
	return item, nil
}

// UpdateQty sets a line's quantity. A quantity of zero removes the line.
func (s *Service) UpdateQty(ctx context.Context, cartID, itemID string, qty int) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if qty < 0 {
		return fmt.Errorf("qty must not be negative: %w", ErrInvalidInput)
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", err)
	}
	if qty == 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}
	if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: iID, CartID: cID, Qty: int32(qty)}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.touch(ctx, cID)
	return nil
}

// UpdateDates replaces a line's rental window.
func (s *Service) UpdateDates(ctx context.Context, cartID, itemID string, startsAt, endsAt *time.Time) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", err)
	}
	starts, ends, err := normalizeWindow(startsAt, endsAt)
	if err != nil {
		return err
	}
	if _, err := s.Q.UpdateCartItemDates(ctx, dbgen.UpdateCartItemDatesParams{
		ID:       iID,
		CartID:   cID,
		StartsAt: starts,
		EndsAt:   ends,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.touch(ctx, cID)
	return nil
}

// RemoveItem deletes a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", err)
	}
	deleted, err := s.Q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{ID: iID, CartID: cID})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	s.touch(ctx, cID)
	return nil
}

// Clear removes every line and the applied promotion.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	if err := s.Q.ClearCart(ctx, cID); err != nil {
		return err
	}
	if err := s.Q.UpdateCartPromo(ctx, dbgen.UpdateCartPromoParams{ID: cID}); err != nil {
		return err
	}
	s.touch(ctx, cID)
	return nil
}

// SetPriceList switches the cart's multiplier tier.
func (s *Service) SetPriceList(ctx context.Context, cartID, tier string) (dbgen.Cart, error) {
	if s == nil || s.Q == nil {
		return dbgen.Cart{}, errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return dbgen.Cart{}, fmt.Errorf("parse cart id: %w", err)
	}
	list := pricing.ParsePriceList(tier)
	cart, err := s.Q.SetCartPriceList(ctx, dbgen.SetCartPriceListParams{ID: cID, PriceList: string(list)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Cart{}, ErrNotFound
		}
		return dbgen.Cart{}, err
	}
	s.touch(ctx, cID)
	return cart, nil
}

// ApplyPromo validates the code against the cart's current total and attaches
// it. Applying a new code replaces any previous one.
func (s *Service) ApplyPromo(ctx context.Context, cartID, code string) (promo.Resolution, error) {
	if s == nil || s.Q == nil {
		return promo.Resolution{}, errors.New("cart service not configured")
	}
	if s.Promo == nil {
		return promo.Resolution{}, errors.New("promo service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return promo.Resolution{}, fmt.Errorf("parse cart id: %w", err)
	}
	cart, err := s.Q.GetCartByID(ctx, cID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return promo.Resolution{}, ErrNotFound
		}
		return promo.Resolution{}, err
	}
	view, err := s.buildView(ctx, cart, nil)
	if err != nil {
		return promo.Resolution{}, err
	}
	if len(view.Items) == 0 {
		return promo.Resolution{}, fmt.Errorf("cart empty: %w", ErrInvalidInput)
	}
	var userID *string
	if cart.UserID.Valid {
		id := uuidString(cart.UserID)
		userID = &id
	}
	resolution, err := s.Promo.Resolve(ctx, code, userID, view.Summary.Total)
	if err != nil {
		return promo.Resolution{}, err
	}
	if err := s.Q.UpdateCartPromo(ctx, dbgen.UpdateCartPromoParams{
		ID:               cart.ID,
		AppliedPromoCode: pgtype.Text{String: resolution.Code, Valid: true},
	}); err != nil {
		return promo.Resolution{}, err
	}
	s.touch(ctx, cart.ID)
	return resolution, nil
}

// RemovePromo clears the applied promotion.
func (s *Service) RemovePromo(ctx context.Context, cartID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	cID, err := toUUID(cartID)
	if err != nil {
		return fmt.Errorf("parse cart id: %w", err)
	}
	if err := s.Q.UpdateCartPromo(ctx, dbgen.UpdateCartPromoParams{ID: cID}); err != nil {
		return err
	}
	s.touch(ctx, cID)
	return nil
}

// Merge moves guest cart lines into the user's active cart. Lines matching on
// product and date window keep the higher quantity. The guest cart is expired
// afterwards.
func (s *Service) Merge(ctx context.Context, guestCartID, userID string) (string, error) {
	if s == nil || s.Q == nil {
		return "", errors.New("cart service not configured")
	}
	gID, err := toUUID(guestCartID)
	if err != nil {
		return "", fmt.Errorf("parse guest cart id: %w", err)
	}
	uid, err := toUUID(userID)
	if err != nil {
		return "", fmt.Errorf("parse user id: %w", err)
	}
	guestCart, err := s.Q.GetCartByID(ctx, gID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if guestCart.UserID.Valid && uuidString(guestCart.UserID) != userID {
		return "", ErrForbidden
	}
	userCart, err := s.Q.GetActiveCartByUser(ctx, uid)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		// No cart on the account yet: adopt the guest cart wholesale. The
		// promotion is dropped because per-user eligibility changes on login.
		if err := s.Q.TransferCartToUser(ctx, dbgen.TransferCartToUserParams{ID: guestCart.ID, UserID: uid}); err != nil {
			return "", err
		}
		_ = s.Q.UpdateCartPromo(ctx, dbgen.UpdateCartPromoParams{ID: guestCart.ID})
		s.touch(ctx, guestCart.ID)
		return uuidString(guestCart.ID), nil
	}
	if userCart.ID == guestCart.ID {
		return uuidString(userCart.ID), nil
	}
	guestItems, err := s.Q.ListCartItems(ctx, gID)
	if err != nil {
		return "", err
	}
	for _, item := range guestItems {
		existing, err := s.Q.FindCartItemByProduct(ctx, dbgen.FindCartItemByProductParams{
			CartID:    userCart.ID,
			ProductID: item.ProductID,
			StartsAt:  item.StartsAt,
			EndsAt:    item.EndsAt,
		})
		if err == nil {
			if existing.Qty < item.Qty {
				if _, err := s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{
					ID:     existing.ID,
					CartID: userCart.ID,
					Qty:    item.Qty,
				}); err != nil {
					return "", err
				}
			}
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		if _, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
			CartID:      userCart.ID,
			ProductID:   item.ProductID,
			Title:       item.Title,
			Slug:        item.Slug,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			PricingUnit: item.PricingUnit,
			StartsAt:    item.StartsAt,
			EndsAt:      item.EndsAt,
		}); err != nil {
			return "", err
		}
	}
	s.touch(ctx, userCart.ID)
	_ = s.Q.UpdateCartPromo(ctx, dbgen.UpdateCartPromoParams{ID: guestCart.ID})
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: guestCart.ID, ExpiresAt: pgtype.Timestamptz{Time: s.now(), Valid: true}})
	return uuidString(userCart.ID), nil
}

func (s *Service) touch(ctx context.Context, cartID pgtype.UUID) {
	expires := pgtype.Timestamptz{Time: s.now().Add(s.ttl()), Valid: true}
	_ = s.Q.TouchCart(ctx, dbgen.TouchCartParams{ID: cartID, ExpiresAt: expires})
}

func normalizeWindow(startsAt, endsAt *time.Time) (pgtype.Timestamptz, pgtype.Timestamptz, error) {
	starts := pgtype.Timestamptz{}
	ends := pgtype.Timestamptz{}
	if startsAt != nil {
		starts = pgtype.Timestamptz{Time: midnight(*startsAt), Valid: true}
	}
	if endsAt != nil {
		ends = pgtype.Timestamptz{Time: midnight(*endsAt), Valid: true}
	}
	if starts.Valid && ends.Valid && !ends.Time.After(starts.Time) {
		return starts, ends, fmt.Errorf("endDate must be after startDate: %w", ErrInvalidInput)
	}
	return starts, ends, nil
}

// midnight truncates to local midnight; rental days have no time-of-day
// semantics.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	return toUUID(value)
}

// UUIDString converts a pgtype.UUID into a canonical string.
func UUIDString(id pgtype.UUID) string {
	return uuidString(id)
}
