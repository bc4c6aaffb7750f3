package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubLister struct {
	products []domain.Product
	err      error
}

func (s stubLister) List(context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func TestLoad(t *testing.T) {
	svc, err := Load(context.Background(), stubLister{products: []domain.Product{
		{ID: "1", Name: "Mean Girl", Price: "$120.0", Quantity: 7, Selected: true},
		{ID: "2", Name: "Hey You", Price: "$270.0"},
		{ID: "1", Name: "duplicate"},
	}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if svc.Len() != 2 {
		t.Fatalf("expected duplicates dropped, got %d", svc.Len())
	}
	p, ok := svc.Get("1")
	if !ok || p.Name != "Mean Girl" || p.Quantity != 1 || p.Selected {
		t.Fatalf("unexpected entry %+v ok=%v", p, ok)
	}
	if _, ok := svc.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestListReturnsCopy(t *testing.T) {
	svc := New([]domain.Product{{ID: "1", Name: "a"}})
	list := svc.List()
	list[0].Name = "changed"
	if p, _ := svc.Get("1"); p.Name != "a" {
		t.Fatalf("catalog mutated through List")
	}
}

func TestLoadError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Load(context.Background(), stubLister{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
