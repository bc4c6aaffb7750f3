package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"
)

// State is the position of the checkout flow.
type State string

const (
	StateIdle       State = "idle"
	StateConfirming State = "confirming"
	StateCompleted  State = "completed"
)

// ErrInvalidTransition is returned when an operation is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid checkout transition")

// Cart is the live cart the checkout reads from and clears.
type Cart interface {
	SelectedItems() []domain.Product
	TotalSelectedQuantity() int
	TotalSelectedAmount() string
	RemoveSelected() []domain.Product
}

type purchaseRepo interface {
	Create(ctx context.Context, p domain.Purchase) (*domain.Purchase, error)
}

// Failure is a selected line whose purchase record could not be written.
type Failure struct {
	Item  domain.Product `json:"item"`
	Error string         `json:"error"`
}

// Receipt summarises a confirmed checkout. Totals are taken before the cart is cleared.
type Receipt struct {
	Purchases     []domain.Purchase `json:"purchases"`
	Failed        []Failure         `json:"failed,omitempty"`
	TotalQuantity int               `json:"totalQuantity"`
	TotalAmount   string            `json:"totalAmount"`
}

// Service drives Idle -> Confirming -> Completed -> Idle over a live cart.
// It is not safe for concurrent use.
type Service struct {
	cart      Cart
	purchases purchaseRepo
	logger    *log.Logger
	metrics   metrics.Recorder
	now       func() time.Time

	state   State
	receipt *Receipt
}

func New(cart Cart, purchases purchaseRepo, logger *log.Logger, rec metrics.Recorder) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		cart:      cart,
		purchases: purchases,
		logger:    logger,
		metrics:   metrics.OrNop(rec),
		now:       time.Now,
		state:     StateIdle,
	}
}

func (s *Service) State() State {
	return s.state
}

// Receipt returns the outcome of the last confirmation while the flow is Completed.
func (s *Service) Receipt() (Receipt, bool) {
	if s.state != StateCompleted || s.receipt == nil {
		return Receipt{}, false
	}
	return *s.receipt, true
}

// Begin opens the confirmation step. The cart is not copied, so edits made while
// confirming change what Confirm buys.
func (s *Service) Begin() error {
	if s.state != StateIdle {
		return ErrInvalidTransition
	}
	s.state = StateConfirming
	return nil
}

// Cancel closes the confirmation step without buying anything.
func (s *Service) Cancel() error {
	if s.state != StateConfirming {
		return ErrInvalidTransition
	}
	s.state = StateIdle
	return nil
}

// Confirm writes one purchase per selected line, in cart order, then removes every
// selected line from the cart. A failed write is logged and reported in the receipt; the
// remaining lines are still processed.
func (s *Service) Confirm(ctx context.Context) (Receipt, error) {
	if s.state != StateConfirming {
		return Receipt{}, ErrInvalidTransition
	}
	start := s.now()

	selected := s.cart.SelectedItems()
	receipt := Receipt{
		Purchases:     make([]domain.Purchase, 0, len(selected)),
		TotalQuantity: s.cart.TotalSelectedQuantity(),
		TotalAmount:   s.cart.TotalSelectedAmount(),
	}
	for _, item := range selected {
		created, err := s.purchases.Create(ctx, domain.Purchase{
			Name:        item.Name,
			Price:       item.Price,
			Image:       item.Image,
			PurchasedAt: s.now().UTC(),
		})
		if err != nil {
			s.logger.Printf("checkout: save purchase id=%s name=%s error=%v", item.ID, item.Name, err)
			receipt.Failed = append(receipt.Failed, Failure{Item: item, Error: err.Error()})
			continue
		}
		receipt.Purchases = append(receipt.Purchases, *created)
	}
	s.cart.RemoveSelected()

	s.receipt = &receipt
	s.state = StateCompleted
	s.metrics.Observe("checkout_confirm", len(receipt.Failed) == 0, s.now().Sub(start))
	return receipt, nil
}

// Acknowledge dismisses the completion notice.
func (s *Service) Acknowledge() error {
	if s.state != StateCompleted {
		return ErrInvalidTransition
	}
	s.state = StateIdle
	s.receipt = nil
	return nil
}
