package main

import (
	"fmt"
	"strconv"
)

// runState tracks a checkout run through its ordered phases.
type runState int

const (
	stateInit runState = iota
	statePopulatingCart
	stateAtCheckoutForm
	stateSubmittingOrder
	stateDone
	stateAborted
)

func (s runState) String() string {
	switch s {
	case stateInit:
		return "init"
	case statePopulatingCart:
		return "populating_cart"
	case stateAtCheckoutForm:
		return "at_checkout_form"
	case stateSubmittingOrder:
		return "submitting_order"
	case stateDone:
		return "done"
	case stateAborted:
		return "aborted"
	}
	return "unknown"
}

// session abstracts BrowserSession so runs are testable without a browser.
type session interface {
	Acquire() (Page, error)
	Release()
}

// CheckoutBot sequences cart population, form filling, and order submission
// for one request. Each run gets its own browser session and delay source;
// runs share no mutable state.
type CheckoutBot struct {
	config     *Config
	log        *RunLog
	metrics    *Metrics
	newSession func() session
	newDelayer func() Delayer
}

func NewCheckoutBot(config *Config, log *RunLog, metrics *Metrics) *CheckoutBot {
	return &CheckoutBot{
		config:     config,
		log:        log,
		metrics:    metrics,
		newSession: func() session { return NewBrowserSession(config, log) },
		newDelayer: func() Delayer { return newHumanDelayer() },
	}
}

// Run executes one full checkout. Cart failures are absorbed into per-item
// outcomes; checkout navigation, the processing-error banner, and submission
// failures abort the run. The browser session is released on every path.
func (b *CheckoutBot) Run(payload Payload) (*CheckoutResult, error) {
	b.log.Info(LogFields{Step: "run", Message: "starting checkout run"})

	state := stateInit
	result := NewCheckoutResult()

	sess := b.newSession()
	defer sess.Release()

	page, err := sess.Acquire()
	if err != nil {
		b.transition(state, stateAborted)
		return result, fmt.Errorf("failed to acquire browser session: %w", err)
	}

	delay := b.newDelayer()

	state = b.transition(state, statePopulatingCart)
	NewCartPopulator(b.config, b.log, delay).Populate(page, payload.Produtos, result)
	b.countItems(result)

	state = b.transition(state, stateAtCheckoutForm)
	if err := NewCheckoutFormFiller(b.config, b.log, delay).Fill(page, payload.Checkout); err != nil {
		b.transition(state, stateAborted)
		return result, err
	}
	result.Checkout = checkoutStateFilled

	state = b.transition(state, stateSubmittingOrder)
	if err := NewOrderSubmitter(b.config, b.log, delay).Submit(page, result); err != nil {
		b.transition(state, stateAborted)
		return result, err
	}

	b.transition(state, stateDone)
	return result, nil
}

func (b *CheckoutBot) transition(from, to runState) runState {
	b.log.Info(LogFields{Step: "run", Message: fmt.Sprintf("state %s -> %s", from, to)})
	return to
}

func (b *CheckoutBot) countItems(result *CheckoutResult) {
	if b.metrics == nil {
		return
	}
	for _, item := range result.Items {
		b.metrics.Items.WithLabelValues(strconv.FormatBool(item.Added)).Inc()
	}
}
