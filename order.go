package main

import "fmt"

// OrderSubmitter selects the payment method, places the order, and records
// the post-submit redirect as proof of submission.
type OrderSubmitter struct {
	config *Config
	log    *RunLog
	delay  Delayer
}

func NewOrderSubmitter(config *Config, log *RunLog, delay Delayer) *OrderSubmitter {
	return &OrderSubmitter{config: config, log: log, delay: delay}
}

// Submit places the order. Payment selection is best-effort; a failed
// submission or a missing redirect aborts the run.
func (o *OrderSubmitter) Submit(page Page, result *CheckoutResult) error {
	o.selectPayment(page)

	if err := page.Click(o.config.Selectors.PlaceOrderButton); err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}
	o.log.Info(LogFields{Step: "order", Message: "place-order button clicked"})

	// Server-side processing plus the client-side redirect take a while.
	o.delay.Sleep(6, 20)

	finalURL, err := page.URL()
	if err != nil {
		return fmt.Errorf("failed to capture post-submit redirect: %w", err)
	}
	if finalURL == "" {
		return fmt.Errorf("no redirect captured after order submission")
	}

	result.Checkout = checkoutStateSubmitted
	result.RedirectURL = finalURL
	o.log.Info(LogFields{Step: "order", URL: finalURL, Message: "order submitted"})

	return nil
}

// selectPayment is idempotent: the option is clicked only when not already
// selected, avoiding redundant interactions with the payment widget. Any
// failure is logged and submission proceeds regardless.
func (o *OrderSubmitter) selectPayment(page Page) {
	selector := o.config.Selectors.PaymentMethod

	checked, err := page.IsChecked(selector)
	if err != nil {
		o.log.Warn(LogFields{Step: "order", Field: selector, Message: "failed to read payment method state", Error: err.Error()})
		return
	}
	if checked {
		o.log.Info(LogFields{Step: "order", Field: selector, Message: "payment method already selected"})
		return
	}

	if err := page.Check(selector); err != nil {
		o.log.Warn(LogFields{Step: "order", Field: selector, Message: "failed to select payment method", Error: err.Error()})
		return
	}
	o.log.Info(LogFields{Step: "order", Field: selector, Message: "payment method selected"})
}
