package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pos-terminal/internal/cart"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/kitchen"
)

// TakeAwayLabel names the context used when no table is selected.
const TakeAwayLabel = "Take away"

// SnapshotStore is the local persistence adapter the session writes through
// to on every mutation.
type SnapshotStore interface {
	Save(ctx context.Context, key string, snap domain.CartSnapshot) error
	Load(ctx context.Context, key string) (domain.CartSnapshot, bool, error)
	Clear(ctx context.Context, key string) error
}

// Backend is the slice of the back-office API the session depends on.
type Backend interface {
	OccupyTable(ctx context.Context, id int64) (*domain.Table, error)
	ReleaseTable(ctx context.Context, id int64) error
	FetchPending(ctx context.Context, tableID *int64) (*domain.PendingOrder, error)
	SubmitPending(ctx context.Context, sub domain.OrderSubmission) error
	SubmitOrder(ctx context.Context, sub domain.OrderSubmission) (*domain.OrderReceipt, error)
}

// TicketPrinter dispatches kitchen slips. Reprints are idempotent from the
// kitchen's perspective, so failures are logged and never rolled back.
type TicketPrinter interface {
	PrintTicket(ctx context.Context, t kitchen.Ticket) error
}

// View is the render-facing projection of the session, rebuilt after every
// mutation. Monetary fields are rounded here, at the presentation boundary.
type View struct {
	ContextLabel  string            `json:"contextLabel"`
	TableID       *int64            `json:"tableId,omitempty"`
	Items         []domain.LineItem `json:"items"`
	Totals        cart.Totals       `json:"totals"`
	CashGiven     float64           `json:"cashGiven"`
	SurchargeName string            `json:"surchargeName"`
}

// Session owns the state of the single active order context: the cart, the
// selected table (nil means take-away), and the payment inputs. All mutations
// flow through it; the mutex keeps the one-logical-writer model of a POS
// screen intact even though HTTP handlers run concurrently.
type Session struct {
	mu sync.Mutex

	cart             *cart.Cart
	table            *domain.Table
	surchargeName    string
	surchargePercent float64
	defaultPercent   float64
	cashGiven        float64

	store   SnapshotStore
	backend Backend
	printer TicketPrinter
	logger  *log.Logger

	onChange func(View)
	now      func() time.Time
}

func New(store SnapshotStore, backend Backend, printer TicketPrinter, logger *log.Logger, surchargeName string, surchargePercent float64) *Session {
	return &Session{
		cart:             cart.New(),
		surchargeName:    surchargeName,
		surchargePercent: surchargePercent,
		defaultPercent:   surchargePercent,
		store:            store,
		backend:          backend,
		printer:          printer,
		logger:           logger,
		now:              time.Now,
	}
}

// OnChange registers the observer invoked with a fresh view after every
// mutation. The callback runs under the session lock and must not call back
// into the session.
func (s *Session) OnChange(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Restore loads the take-away snapshot, matching what a fresh screen load
// does. Call once at startup.
func (s *Session) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocalLocked(ctx)
	s.notifyLocked()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// AddItem appends the product to the cart or merges it into a compatible
// line. Selecting a free table defers the occupy call to the first addition;
// it is requested at most once while the table is not yet occupied.
func (s *Session) AddItem(ctx context.Context, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureOccupiedLocked(ctx)
	s.cart.AddItem(p)
	s.persistLocked(ctx)
	s.notifyLocked()
}

func (s *Session) AdjustQuantity(ctx context.Context, index, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AdjustQuantity(index, delta)
	s.persistLocked(ctx)
	s.notifyLocked()
}

func (s *Session) EditItem(ctx context.Context, index int, note, rawPrice string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.EditItem(index, note, rawPrice, admin)
	s.persistLocked(ctx)
	s.notifyLocked()
}

func (s *Session) RemoveItem(ctx context.Context, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(index)
	s.persistLocked(ctx)
	s.notifyLocked()
}

// Clear empties the cart and resets the cash tendered, as an explicit order
// cancel does.
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.cashGiven = 0
	s.persistLocked(ctx)
	s.notifyLocked()
}

func (s *Session) SetCash(ctx context.Context, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount < 0 {
		amount = 0
	}
	s.cashGiven = amount
	s.persistLocked(ctx)
	s.notifyLocked()
}

func (s *Session) SetSurchargePercent(ctx context.Context, percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if percent < 0 {
		percent = 0
	}
	s.surchargePercent = percent
	s.persistLocked(ctx)
	s.notifyLocked()
}

// SelectTable switches the active context to the given table: the outgoing
// context is persisted first (even when empty, so a stale snapshot is
// overwritten), then the incoming context is reconciled against the server's
// pending record with the local snapshot as fallback.
func (s *Session) SelectTable(ctx context.Context, table domain.Table) {
	s.mu.Lock()
	s.persistLocked(ctx)
	t := table
	s.table = &t
	key := domain.ContextKey(s.table)
	s.mu.Unlock()

	s.reconcile(ctx, key)
}

// SelectTakeAway switches the active context to the take-away slot.
func (s *Session) SelectTakeAway(ctx context.Context) {
	s.mu.Lock()
	s.persistLocked(ctx)
	s.table = nil
	key := domain.ContextKey(nil)
	s.mu.Unlock()

	s.reconcile(ctx, key)
}

// NotifyKitchen fires the not-yet-notified items: it prints a ticket with
// only those items, then submits the entire cart as the new pending record.
// Items are marked notified only after the server accepted the submission, so
// a failed submission leaves everything retriable.
func (s *Session) NotifyKitchen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unfired := s.cart.Unnotified()
	if len(unfired) == 0 {
		return domain.ErrNothingToFire
	}

	ticket := kitchen.BuildTicket(s.contextLabelLocked(), unfired, s.now())
	if err := s.printer.PrintTicket(ctx, ticket); err != nil {
		s.logger.Printf("print kitchen ticket: %v", err)
	}

	if err := s.backend.SubmitPending(ctx, s.buildSubmissionLocked(nil, nil)); err != nil {
		return fmt.Errorf("submit pending order: %w", err)
	}

	s.cart.MarkAllNotified()
	s.persistLocked(ctx)
	s.notifyLocked()
	return nil
}

// Checkout validates the order, submits the priced payload built from the
// live cart, and on success tears down the local and server-held state for
// the context. Any failure leaves cart, table occupancy and pending state
// untouched so the operator can retry.
func (s *Session) Checkout(ctx context.Context) (*domain.OrderReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		return nil, domain.ErrEmptyCart
	}
	totals := cart.ComputeTotals(s.cart.Items(), s.surchargePercent, s.cashGiven)
	cash := cart.Round2(s.cashGiven)
	// Sufficiency is judged at currency precision, the same figure the
	// operator sees on the display.
	if cash < cart.Round2(totals.Total) {
		return nil, domain.ErrInsufficientCash
	}

	change := cart.Round2(totals.Change)
	receipt, err := s.backend.SubmitOrder(ctx, s.buildSubmissionLocked(&cash, &change))
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	key := domain.ContextKey(s.table)
	if err := s.store.Clear(ctx, key); err != nil {
		s.logger.Printf("clear snapshot for %s: %v", key, err)
	}
	if s.table != nil {
		// The order is already committed; a failed release is the back
		// office's problem to surface, not a reason to keep the cart.
		if err := s.backend.ReleaseTable(ctx, s.table.ID); err != nil {
			s.logger.Printf("release table %d: %v", s.table.ID, err)
		}
	}
	s.table = nil
	s.cart.Clear()
	s.cashGiven = 0
	s.surchargePercent = s.defaultPercent
	s.notifyLocked()
	return receipt, nil
}

// reconcile replaces local state with the server's pending record for the
// context identified by key, falling back to the local snapshot when the
// server has nothing. The fetch runs without the lock; the key tags the
// request, and a response arriving after the operator switched away from
// that context is discarded.
func (s *Session) reconcile(ctx context.Context, key string) {
	var tableID *int64
	s.mu.Lock()
	if domain.ContextKey(s.table) != key {
		s.mu.Unlock()
		return
	}
	if s.table != nil {
		id := s.table.ID
		tableID = &id
	}
	s.mu.Unlock()

	pending, err := s.backend.FetchPending(ctx, tableID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Printf("fetch pending order for %s: %v", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if domain.ContextKey(s.table) != key {
		return
	}

	if err == nil && pending != nil && len(pending.Items) > 0 {
		items := make([]domain.LineItem, 0, len(pending.Items))
		for _, it := range pending.Items {
			items = append(items, domain.LineItem{
				ProductID:     it.ID,
				Name:          it.Name,
				Category:      it.Category,
				UnitPrice:     it.UnitPrice,
				PriceOverride: it.PriceOverride,
				Quantity:      it.Quantity,
				Note:          it.Note,
				// The server record is exactly what the kitchen was told.
				Notified: true,
			})
		}
		s.cart.Replace(items)
		s.cashGiven = 0
		if pending.SurchargePercent != nil {
			s.surchargePercent = *pending.SurchargePercent
		}
		if pending.SurchargeName != "" {
			s.surchargeName = pending.SurchargeName
		}
		s.persistLocked(ctx)
		s.notifyLocked()
		return
	}

	s.loadLocalLocked(ctx)
	s.notifyLocked()
}

// ensureOccupiedLocked requests occupancy for a not-yet-occupied table. The
// returned record replaces the session's copy, so while the table stays
// OCCUPIED no further request is made. Failures do not block the item add.
func (s *Session) ensureOccupiedLocked(ctx context.Context) {
	if s.table == nil || s.table.Status == domain.TableOccupied {
		return
	}
	table, err := s.backend.OccupyTable(ctx, s.table.ID)
	if err != nil {
		s.logger.Printf("occupy table %d: %v", s.table.ID, err)
		return
	}
	s.table = table
}

func (s *Session) loadLocalLocked(ctx context.Context) {
	key := domain.ContextKey(s.table)
	snap, ok, err := s.store.Load(ctx, key)
	if err != nil {
		s.logger.Printf("load snapshot for %s: %v", key, err)
	}
	if err != nil || !ok {
		s.cart.Clear()
		s.cashGiven = 0
		s.surchargePercent = s.defaultPercent
		return
	}
	s.cart.Replace(snap.Items)
	s.cashGiven = snap.CashGiven
	s.surchargePercent = snap.SurchargePercent
}

func (s *Session) persistLocked(ctx context.Context) {
	key := domain.ContextKey(s.table)
	snap := domain.CartSnapshot{
		Items:            s.cart.Items(),
		SurchargePercent: s.surchargePercent,
		CashGiven:        s.cashGiven,
	}
	// The snapshot is a convenience cache; a failed write must not break the
	// order flow.
	if err := s.store.Save(ctx, key, snap); err != nil {
		s.logger.Printf("persist cart for %s: %v", key, err)
	}
}

func (s *Session) buildSubmissionLocked(cash, change *float64) domain.OrderSubmission {
	totals := cart.ComputeTotals(s.cart.Items(), s.surchargePercent, s.cashGiven)
	sub := domain.OrderSubmission{
		TableNumber:      s.contextLabelLocked(),
		TotalAmount:      cart.Round2(totals.Total),
		SurchargePercent: totals.SurchargePercent,
		SurchargeAmount:  cart.Round2(totals.SurchargeAmount),
		SurchargeName:    s.surchargeName,
		CustomerCash:     cash,
		ChangeAmount:     change,
	}
	if s.table != nil {
		id := s.table.ID
		sub.TableID = &id
	}
	for _, item := range s.cart.Items() {
		sub.Items = append(sub.Items, domain.OrderItemSubmission{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     cart.Round2(item.EffectivePrice()),
			Note:      item.Note,
		})
	}
	return sub
}

func (s *Session) contextLabelLocked() string {
	if s.table == nil {
		return TakeAwayLabel
	}
	return s.table.Name
}

func (s *Session) viewLocked() View {
	v := View{
		ContextLabel:  s.contextLabelLocked(),
		Items:         s.cart.Items(),
		Totals:        cart.ComputeTotals(s.cart.Items(), s.surchargePercent, s.cashGiven).Rounded(),
		CashGiven:     s.cashGiven,
		SurchargeName: s.surchargeName,
	}
	if s.table != nil {
		id := s.table.ID
		v.TableID = &id
	}
	return v
}

func (s *Session) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.viewLocked())
	}
}
