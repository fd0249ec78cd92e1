package main

import (
	"fmt"
	"strings"
	"testing"
)

func newTestBot(config *Config, sess *fakeSession) *CheckoutBot {
	bot := NewCheckoutBot(config, testLog(), nil)
	bot.newSession = func() session { return sess }
	bot.newDelayer = func() Delayer { return noDelay{} }
	return bot
}

func TestRunFullCheckoutSucceeds(t *testing.T) {
	config := DefaultConfig()
	page := &fakePage{
		checked: true,
		url:     "https://shop.example.com/order-received/789/",
	}
	sess := &fakeSession{page: page}

	payload := Payload{
		Produtos: []string{"https://shop.example.com/p1:0,05"},
		Checkout: validCheckoutInfo(),
	}

	result, err := newTestBot(config, sess).Run(payload)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 item outcome, got %d", len(result.Items))
	}
	if !result.Items[0].Added {
		t.Error("Expected the product to be added")
	}
	if result.Items[0].Qty != "0.05" {
		t.Errorf("Expected normalized quantity 0.05, got %q", result.Items[0].Qty)
	}
	if result.Checkout != checkoutStateSubmitted {
		t.Errorf("Expected checkout state %q, got %q", checkoutStateSubmitted, result.Checkout)
	}
	if result.RedirectURL == "" {
		t.Error("Expected a non-empty redirect URL")
	}
	if sess.released != 1 {
		t.Errorf("Expected the session released exactly once, got %d", sess.released)
	}
}

func TestRunAbortsOnErrorBanner(t *testing.T) {
	config := DefaultConfig()
	page := &fakePage{
		content: "Ocorreu um erro ao processar seu pedido",
	}
	sess := &fakeSession{page: page}

	payload := Payload{
		Produtos: []string{"https://shop.example.com/p1:1"},
		Checkout: validCheckoutInfo(),
	}

	result, err := newTestBot(config, sess).Run(payload)
	if err == nil {
		t.Fatal("Expected an error when the processing banner is present")
	}

	// Cart outcomes from before the abort are preserved.
	if len(result.Items) != 1 || !result.Items[0].Added {
		t.Errorf("Expected the cart stage outcome to be kept, got %+v", result.Items)
	}
	if result.Checkout != checkoutStatePending {
		t.Errorf("Expected checkout state to remain %q, got %q", checkoutStatePending, result.Checkout)
	}
	if result.RedirectURL != "" {
		t.Errorf("Expected no redirect URL, got %q", result.RedirectURL)
	}
	if page.countClicks(config.Selectors.PlaceOrderButton) != 0 {
		t.Error("Expected no submission attempt after the banner abort")
	}
	if sess.released != 1 {
		t.Errorf("Expected the session released exactly once, got %d", sess.released)
	}
}

func TestRunAbortsOnCheckoutNavigationFailure(t *testing.T) {
	config := DefaultConfig()
	page := &fakePage{
		navErr: map[string]error{
			config.CheckoutURL: fmt.Errorf("net::ERR_TIMED_OUT"),
		},
	}
	sess := &fakeSession{page: page}

	payload := Payload{
		Produtos: []string{"https://shop.example.com/p1:1"},
		Checkout: validCheckoutInfo(),
	}

	_, err := newTestBot(config, sess).Run(payload)
	if err == nil {
		t.Fatal("Expected an error when the checkout page is unreachable")
	}
	if !strings.Contains(err.Error(), "checkout page") {
		t.Errorf("Expected a checkout navigation error, got: %v", err)
	}
	if sess.released != 1 {
		t.Errorf("Expected the session released exactly once, got %d", sess.released)
	}
}

func TestRunAbortsOnSubmitFailure(t *testing.T) {
	config := DefaultConfig()
	page := &fakePage{
		checked: true,
		clickErr: map[string]error{
			config.Selectors.PlaceOrderButton: fmt.Errorf("element detached"),
		},
	}
	sess := &fakeSession{page: page}

	payload := Payload{
		Produtos: []string{},
		Checkout: validCheckoutInfo(),
	}

	result, err := newTestBot(config, sess).Run(payload)
	if err == nil {
		t.Fatal("Expected an error when order submission fails")
	}
	if result.Checkout != checkoutStateFilled {
		t.Errorf("Expected checkout state %q after form fill, got %q", checkoutStateFilled, result.Checkout)
	}
	if sess.released != 1 {
		t.Errorf("Expected the session released exactly once, got %d", sess.released)
	}
}

func TestRunAbortsWhenSessionAcquireFails(t *testing.T) {
	config := DefaultConfig()
	sess := &fakeSession{acquireErr: fmt.Errorf("failed to launch browser")}

	payload := Payload{
		Produtos: []string{"https://shop.example.com/p1:1"},
		Checkout: validCheckoutInfo(),
	}

	result, err := newTestBot(config, sess).Run(payload)
	if err == nil {
		t.Fatal("Expected an error when the browser session cannot be acquired")
	}
	if len(result.Items) != 0 {
		t.Errorf("Expected no item outcomes, got %+v", result.Items)
	}
	if sess.released != 1 {
		t.Errorf("Expected the session released exactly once, got %d", sess.released)
	}
}

func TestRunStateString(t *testing.T) {
	tests := []struct {
		state runState
		want  string
	}{
		{stateInit, "init"},
		{statePopulatingCart, "populating_cart"},
		{stateAtCheckoutForm, "at_checkout_form"},
		{stateSubmittingOrder, "submitting_order"},
		{stateDone, "done"},
		{stateAborted, "aborted"},
		{runState(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("runState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
