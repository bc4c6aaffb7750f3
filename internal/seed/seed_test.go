package seed

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubWriter struct {
	byID  map[string]domain.Product
	order []string
	err   error
}

func (s *stubWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.byID == nil {
		s.byID = make(map[string]domain.Product)
	}
	if _, ok := s.byID[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.byID[p.ID] = p
	return &p, nil
}

func TestApply_IsIdempotent(t *testing.T) {
	w := &stubWriter{}
	for i := 0; i < 2; i++ {
		n, err := Apply(context.Background(), w)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if n != 6 {
			t.Fatalf("expected 6 products, got %d", n)
		}
	}
	if len(w.byID) != 6 {
		t.Fatalf("expected 6 distinct products, got %d", len(w.byID))
	}
	first := w.byID[w.order[0]]
	if first.Image != "image1" || first.Name != "Mean Girl" || first.Price != "$120.0" {
		t.Fatalf("unexpected first product %+v", first)
	}
	if w.order[0] != ProductID("image1") {
		t.Fatalf("expected stable id for image1")
	}
}

func TestApply_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	n, err := Apply(context.Background(), &stubWriter{err: boom})
	if !errors.Is(err, boom) || n != 0 {
		t.Fatalf("expected wrapped error after 0 products, got n=%d err=%v", n, err)
	}
}
