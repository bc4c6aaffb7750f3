package checkout

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service/cart"
)

type stubPurchases struct {
	created []domain.Purchase
	failOn  map[string]error
}

func (s *stubPurchases) Create(_ context.Context, p domain.Purchase) (*domain.Purchase, error) {
	if err := s.failOn[p.Name]; err != nil {
		return nil, err
	}
	p.ID = "purchase-" + strconv.Itoa(len(s.created)+1)
	s.created = append(s.created, p)
	return &p, nil
}

func line(id, price string) domain.Product {
	return domain.Product{ID: id, Name: "item " + id, Price: price, Image: "image" + id, Quantity: 1}
}

func newTestCheckout(t *testing.T) (*Service, *cart.Engine, *stubPurchases) {
	t.Helper()
	engine := cart.New()
	repo := &stubPurchases{failOn: map[string]error{}}
	svc := New(engine, repo, nil, nil)
	fixed := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, engine, repo
}

func TestConfirm_WritesSelectedAndKeepsUnselected(t *testing.T) {
	svc, engine, repo := newTestCheckout(t)
	engine.AddToCart(line("1", "$10"))
	engine.AddToCart(line("2", "$20"))
	engine.AddToCart(line("3", "$30"))
	engine.ToggleSelected("1")
	engine.ToggleSelected("2")

	if err := svc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	receipt, err := svc.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if len(repo.created) != 2 || repo.created[0].Name != "item 1" || repo.created[1].Name != "item 2" {
		t.Fatalf("expected purchases for 1 and 2 in order, got %+v", repo.created)
	}
	if repo.created[0].Price != "$10" || repo.created[0].Image != "image1" {
		t.Fatalf("purchase fields not copied: %+v", repo.created[0])
	}
	if !repo.created[0].PurchasedAt.Equal(time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected purchase time %v", repo.created[0].PurchasedAt)
	}
	items := engine.Items()
	if len(items) != 1 || items[0].ID != "3" {
		t.Fatalf("expected only unselected line left, got %+v", items)
	}
	if receipt.TotalQuantity != 2 || receipt.TotalAmount != "$30.00" || len(receipt.Purchases) != 2 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if svc.State() != StateCompleted {
		t.Fatalf("expected completed, got %s", svc.State())
	}
	if got, ok := svc.Receipt(); !ok || got.TotalAmount != "$30.00" {
		t.Fatalf("expected stored receipt, got %+v ok=%v", got, ok)
	}

	if err := svc.Acknowledge(); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if svc.State() != StateIdle {
		t.Fatalf("expected idle, got %s", svc.State())
	}
	if _, ok := svc.Receipt(); ok {
		t.Fatalf("receipt should be gone after acknowledge")
	}
}

func TestConfirm_PersistFailureDoesNotStopLoop(t *testing.T) {
	svc, engine, repo := newTestCheckout(t)
	engine.AddToCart(line("1", "$10"))
	engine.AddToCart(line("2", "$20"))
	engine.ToggleSelected("1")
	engine.ToggleSelected("2")
	repo.failOn["item 1"] = errors.New("disk full")

	_ = svc.Begin()
	receipt, err := svc.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].Name != "item 2" {
		t.Fatalf("expected second purchase written, got %+v", repo.created)
	}
	if len(receipt.Failed) != 1 || receipt.Failed[0].Item.ID != "1" || receipt.Failed[0].Error != "disk full" {
		t.Fatalf("unexpected failures %+v", receipt.Failed)
	}
	if len(engine.Items()) != 0 {
		t.Fatalf("selected lines are removed whatever the persist outcome")
	}
}

func TestConfirm_SeesEditsMadeWhileConfirming(t *testing.T) {
	svc, engine, repo := newTestCheckout(t)
	engine.AddToCart(line("1", "$10"))
	engine.AddToCart(line("2", "$20"))
	engine.ToggleSelected("1")

	_ = svc.Begin()
	engine.IncreaseQuantity("1")
	engine.ToggleSelected("2")

	receipt, _ := svc.Confirm(context.Background())
	if len(repo.created) != 2 {
		t.Fatalf("expected both lines bought, got %d", len(repo.created))
	}
	if receipt.TotalQuantity != 3 || receipt.TotalAmount != "$40.00" {
		t.Fatalf("unexpected totals %+v", receipt)
	}
}

func TestConfirm_EmptySelection(t *testing.T) {
	svc, engine, repo := newTestCheckout(t)
	engine.AddToCart(line("1", "$10"))

	_ = svc.Begin()
	receipt, err := svc.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(repo.created) != 0 || receipt.TotalAmount != "$0.00" || len(engine.Items()) != 1 {
		t.Fatalf("unexpected outcome receipt=%+v created=%d", receipt, len(repo.created))
	}
}

func TestInvalidTransitions(t *testing.T) {
	svc, engine, repo := newTestCheckout(t)
	engine.AddToCart(line("1", "$10"))
	engine.ToggleSelected("1")
	ctx := context.Background()

	if _, err := svc.Confirm(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirm from idle: %v", err)
	}
	if err := svc.Acknowledge(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ack from idle: %v", err)
	}
	if err := svc.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel from idle: %v", err)
	}
	if len(repo.created) != 0 || !engine.InCart("1") {
		t.Fatalf("rejected transitions must not change anything")
	}

	_ = svc.Begin()
	if err := svc.Begin(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("begin twice: %v", err)
	}
	if err := svc.Acknowledge(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ack from confirming: %v", err)
	}

	_, _ = svc.Confirm(ctx)
	if _, err := svc.Confirm(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirm twice: %v", err)
	}
	if err := svc.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel from completed: %v", err)
	}
	if err := svc.Begin(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("begin from completed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected a single purchase, got %d", len(repo.created))
	}
}

func TestCancel(t *testing.T) {
	svc, engine, repo := newTestCheckout(t)
	engine.AddToCart(line("1", "$10"))
	engine.ToggleSelected("1")

	_ = svc.Begin()
	if err := svc.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if svc.State() != StateIdle || len(repo.created) != 0 || !engine.InCart("1") {
		t.Fatalf("cancel must not have side effects")
	}
}
