package httpserver

import (
	"net/http"
	"testing"

	checkoutsvc "storefront/internal/service/checkout"
)

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	env.session.account = "alice"
	env.do(t, http.MethodPost, "/cart/items", `{"id":"p1"}`)
	env.do(t, http.MethodPost, "/cart/items", `{"id":"p2"}`)
	env.do(t, http.MethodPost, "/cart/items/p1/select", "")

	var view checkoutView
	rec := env.do(t, http.MethodPost, "/checkout", "")
	decode(t, rec, &view)
	if rec.Code != http.StatusOK || view.State != checkoutsvc.StateConfirming || len(view.Items) != 1 || view.TotalAmount != "$10.00" {
		t.Fatalf("begin: %d %+v", rec.Code, view)
	}

	env.do(t, http.MethodPost, "/cart/items/p1/increase", "")

	var receipt checkoutsvc.Receipt
	rec = env.do(t, http.MethodPost, "/checkout/confirm", "")
	decode(t, rec, &receipt)
	if rec.Code != http.StatusOK || len(receipt.Purchases) != 1 || receipt.TotalQuantity != 2 || receipt.TotalAmount != "$20.00" {
		t.Fatalf("confirm: %d %+v", rec.Code, receipt)
	}
	if len(env.purchases.created) != 1 || env.purchases.created[0].Name != "Mean Girl" {
		t.Fatalf("unexpected purchases %+v", env.purchases.created)
	}
	if env.cart.InCart("p1") || !env.cart.InCart("p2") {
		t.Fatalf("expected only unselected p2 left")
	}

	rec = env.do(t, http.MethodGet, "/checkout", "")
	decode(t, rec, &view)
	if view.State != checkoutsvc.StateCompleted || view.Receipt == nil {
		t.Fatalf("status after confirm: %+v", view)
	}

	if rec := env.do(t, http.MethodPost, "/checkout/confirm", ""); rec.Code != http.StatusConflict {
		t.Fatalf("confirm twice: expected 409, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/checkout/ack", "")
	decode(t, rec, &view)
	if view.State != checkoutsvc.StateIdle {
		t.Fatalf("ack: %+v", view)
	}

	rec = env.do(t, http.MethodGet, "/purchases", "")
	if rec.Code != http.StatusOK || env.purchases.lastLimit != defaultPurchaseLimit {
		t.Fatalf("purchases: %d limit=%d", rec.Code, env.purchases.lastLimit)
	}
	if rec := env.do(t, http.MethodGet, "/purchases?limit=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestCheckoutCancel(t *testing.T) {
	env := newTestEnv(t)
	env.session.account = "alice"
	env.do(t, http.MethodPost, "/cart/items", `{"id":"p1"}`)
	env.do(t, http.MethodPost, "/cart/items/p1/select", "")

	if rec := env.do(t, http.MethodPost, "/checkout/cancel", ""); rec.Code != http.StatusConflict {
		t.Fatalf("cancel from idle: expected 409, got %d", rec.Code)
	}
	env.do(t, http.MethodPost, "/checkout", "")
	var view checkoutView
	decode(t, env.do(t, http.MethodPost, "/checkout/cancel", ""), &view)
	if view.State != checkoutsvc.StateIdle || len(env.purchases.created) != 0 || !env.cart.InCart("p1") {
		t.Fatalf("cancel must not buy anything: %+v", view)
	}
}

func TestCheckoutPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.session.account = "alice"
	env.purchases.failNames["Mean Girl"] = true
	env.do(t, http.MethodPost, "/cart/items", `{"id":"p1"}`)
	env.do(t, http.MethodPost, "/cart/items", `{"id":"p2"}`)
	env.do(t, http.MethodPost, "/cart/items/p1/select", "")
	env.do(t, http.MethodPost, "/cart/items/p2/select", "")
	env.do(t, http.MethodPost, "/checkout", "")

	var receipt checkoutsvc.Receipt
	decode(t, env.do(t, http.MethodPost, "/checkout/confirm", ""), &receipt)
	if len(receipt.Purchases) != 1 || len(receipt.Failed) != 1 || receipt.Failed[0].Item.ID != "p1" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if len(env.cart.Items()) != 0 {
		t.Fatalf("all selected lines are removed")
	}
}
