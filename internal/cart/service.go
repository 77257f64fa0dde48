// Package cart is the orchestrating service: the only component with side
// effects. Every mutating operation runs validation first, then the pure
// reducer, then the persistence write, in that order, so storage never
// reflects a state validation rejected.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fjod/moment_cart/internal/cache"
	"github.com/fjod/moment_cart/internal/calc"
	"github.com/fjod/moment_cart/internal/catalog"
	"github.com/fjod/moment_cart/internal/domain"
	"github.com/fjod/moment_cart/internal/reducer"
	"github.com/fjod/moment_cart/internal/rules"
	"github.com/fjod/moment_cart/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var ErrItemNotInCart = errors.New("item not in cart")

// Deps are the collaborators a Service is wired with. Publisher may be nil.
type Deps struct {
	Store     *storage.Adapter
	Cache     cache.AnalyticsCache
	Session   cache.SessionStore
	Catalog   catalog.Provider
	Wallet    WalletProvider
	Payments  PaymentProcessor
	Publisher *CheckoutPublisher
}

type Service struct {
	mu    sync.Mutex
	state domain.CartState

	store     *storage.Adapter
	cache     cache.AnalyticsCache
	session   cache.SessionStore
	catalog   catalog.Provider
	wallet    WalletProvider
	payments  PaymentProcessor
	publisher *CheckoutPublisher

	sfg singleflight.Group // collapses concurrent analytics computes
	now func() time.Time
}

func NewService(deps Deps) *Service {
	return &Service{
		state:     domain.CartState{Items: []domain.CartItem{}},
		store:     deps.Store,
		cache:     deps.Cache,
		session:   deps.Session,
		catalog:   deps.Catalog,
		wallet:    deps.Wallet,
		payments:  deps.Payments,
		publisher: deps.Publisher,
		now:       time.Now,
	}
}

// AddEvent validates a catalog event against the cart limits and event rules,
// then adds it with a generated cart item id and the cheapest table price as
// the estimate.
func (s *Service) AddEvent(ctx context.Context, eventID string) (domain.CartItem, error) {
	s.begin()

	event, err := s.catalog.Event(ctx, eventID)
	if err != nil {
		return domain.CartItem{}, s.fail(Translate(err))
	}

	snap := s.snapshot()
	result := rules.ValidateCartLimits(snap.Items, &event)
	result.Merge("", rules.ValidateEvent(event, s.now()))
	if !result.IsValid {
		return domain.CartItem{}, s.fail(validationError(result))
	}
	logWarnings("add event", result.Warnings)

	item := domain.CartItem{
		Event:           event,
		CartItemID:      uuid.NewString(),
		AddedAt:         s.now(),
		SelectedMoments: []domain.SelectedMoment{},
		EstimatedPrice:  seedPrice(event),
	}

	s.dispatch(domain.AddItem{Item: item})
	if err := s.persist(ctx); err != nil {
		return item, err
	}
	s.finish()
	return item, nil
}

// RemoveEvent drops a cart item.
func (s *Service) RemoveEvent(ctx context.Context, cartItemID string) error {
	s.begin()

	if _, ok := s.snapshot().ItemByID(cartItemID); !ok {
		return s.fail(Translate(ErrItemNotInCart))
	}

	s.dispatch(domain.RemoveItem{CartItemID: cartItemID})
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.finish()
	return nil
}

// UpdateEvent applies a partial update to an existing cart item. A moment
// selection inside the patch is validated like ConfigureMoments.
func (s *Service) UpdateEvent(ctx context.Context, cartItemID string, patch domain.ItemPatch) error {
	s.begin()

	snap := s.snapshot()
	item, ok := snap.ItemByID(cartItemID)
	if !ok {
		return s.fail(Translate(ErrItemNotInCart))
	}
	if patch.SelectedMoments != nil {
		result := rules.ValidateMoments(patch.SelectedMoments, item.Event)
		if !result.IsValid {
			return s.fail(validationError(result))
		}
		logWarnings("update event", result.Warnings)
	}

	s.dispatch(domain.UpdateItem{CartItemID: cartItemID, Patch: patch})
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.finish()
	return nil
}

// ConfigureMoments saves a moment selection for a cart item, marking it
// configured and fixing its final price.
func (s *Service) ConfigureMoments(ctx context.Context, cartItemID string, moments []domain.SelectedMoment) error {
	s.begin()

	snap := s.snapshot()
	item, ok := snap.ItemByID(cartItemID)
	if !ok {
		return s.fail(Translate(ErrItemNotInCart))
	}

	result := rules.ValidateMoments(moments, item.Event)
	if !result.IsValid {
		return s.fail(validationError(result))
	}
	logWarnings("configure moments", result.Warnings)

	if item.IsConfigured {
		s.dispatch(domain.UpdateMoments{CartItemID: cartItemID, Moments: moments})
	} else {
		s.dispatch(domain.ConfigureMoments{CartItemID: cartItemID, Moments: moments})
	}
	if err := s.persist(ctx); err != nil {
		return err
	}

	s.clearEditingTarget(ctx)
	s.finish()
	return nil
}

// ClearCart empties the live cart and the persisted items. Clearing an empty
// cart is a no-op, not an error.
func (s *Service) ClearCart(ctx context.Context) error {
	s.begin()

	s.dispatch(domain.ClearCart{})
	if err := s.store.ClearCart(ctx); err != nil {
		return s.fail(Translate(err))
	}
	s.invalidateAnalytics()
	s.finish()
	return nil
}

// ToggleCart flips the drawer open state. UI-only, nothing persisted.
func (s *Service) ToggleCart() {
	s.dispatch(domain.ToggleOpen{})
}

// RefreshCart reloads the live cart from storage. Reads are fail-safe, so a
// broken record degrades to an empty cart.
func (s *Service) RefreshCart(ctx context.Context) {
	s.begin()
	items := s.store.LoadCartItems(ctx)
	s.dispatch(domain.LoadCart{Items: items})
	s.invalidateAnalytics()
	s.finish()
}

func (s *Service) IsEventInCart(eventID string) bool {
	_, ok := s.snapshot().ItemByEventID(eventID)
	return ok
}

func (s *Service) CartItemByEventID(eventID string) (domain.CartItem, bool) {
	return s.snapshot().ItemByEventID(eventID)
}

// State returns the current cart state. Items are shared copy-on-write with
// the reducer, which never mutates a published slice.
func (s *Service) State() domain.CartState {
	return s.snapshot()
}

// Session surfaces the transient UI state for the frontend to restore.
func (s *Service) Session(ctx context.Context) cache.SessionState {
	state, err := s.session.Load(ctx)
	if err != nil {
		log.Printf("session load failed: %v", err)
		return cache.SessionState{}
	}
	return state
}

// SetEditingTarget remembers which cart item the user is configuring.
func (s *Service) SetEditingTarget(ctx context.Context, cartItemID string) {
	state := s.Session(ctx)
	state.EditingTarget = cartItemID
	if err := s.session.Save(ctx, state); err != nil {
		log.Printf("session save failed: %v", err)
	}
}

// SetCheckoutStep remembers where in the checkout flow the user is.
func (s *Service) SetCheckoutStep(ctx context.Context, step string) {
	state := s.Session(ctx)
	state.CheckoutStep = step
	if err := s.session.Save(ctx, state); err != nil {
		log.Printf("session save failed: %v", err)
	}
}

// snapshot returns the state as of call time. Operations validate against
// this captured value, not a re-read taken under the dispatch lock, so two
// rapid operations can both validate against the pre-first-call state. That
// window is intentional; do not close it silently.
func (s *Service) snapshot() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) dispatch(action domain.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reducer.Reduce(s.state, action, s.now())
}

// persist writes the current item list. The dispatch already committed in
// memory, so a failed write leaves memory ahead of storage until the next
// successful write; the error is surfaced rather than rolled back.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.SaveCartItems(ctx, s.snapshot().Items); err != nil {
		return s.fail(Translate(err))
	}
	s.invalidateAnalytics()
	return nil
}

func (s *Service) begin() {
	s.dispatch(domain.SetLoading{Loading: true})
	s.dispatch(domain.ClearError{})
}

func (s *Service) finish() {
	s.dispatch(domain.SetLoading{Loading: false})
}

// fail records the typed error, drops the loading flag and returns the error
// for the caller to reject with.
func (s *Service) fail(cartErr *domain.CartError) error {
	s.dispatch(domain.SetError{Err: cartErr})
	s.dispatch(domain.SetLoading{Loading: false})
	return cartErr
}

func (s *Service) invalidateAnalytics() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("analytics cache invalidate error: %v", err)
	}
}

func (s *Service) clearEditingTarget(ctx context.Context) {
	state := s.Session(ctx)
	if state.EditingTarget == "" {
		return
	}
	state.EditingTarget = ""
	if err := s.session.Save(ctx, state); err != nil {
		log.Printf("session save failed: %v", err)
	}
}

// seedPrice is the pre-configuration estimate: the cheapest priced moment.
func seedPrice(event domain.Event) int64 {
	var min int64
	for _, p := range event.PriceTable {
		if min == 0 || p.Price < min {
			min = p.Price
		}
	}
	return min
}

func logWarnings(op string, warnings []string) {
	for _, w := range warnings {
		log.Printf("%s warning: %s", op, w)
	}
}

// Analytics returns the derived cart summary, served from the cache when
// fresh. Concurrent misses collapse into one compute.
func (s *Service) Analytics(ctx context.Context) domain.CartAnalytics {
	v, _, _ := s.sfg.Do("analytics", func() (interface{}, error) {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("analytics cache get error: %v", err)
		}

		analytics := calc.Analytics(s.snapshot().Items)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(ctx, &analytics); err != nil {
				log.Printf("analytics cache set error: %v", err)
			}
		}()

		return &analytics, nil
	})
	return *v.(*domain.CartAnalytics)
}
