package main

import (
	"fmt"
	"strings"
)

// Banner WooCommerce renders on the checkout page when the order cannot be
// processed. Its presence makes the run unrecoverable.
const orderErrorBanner = "Ocorreu um erro ao processar seu pedido"

// The select2 state widget drops the first interaction often enough that a
// single pass is unreliable; the whole open/type/confirm sequence always
// runs this many times.
const regionConfirmCycles = 2

// CheckoutFormFiller navigates to the checkout page and fills the billing
// form. Individual field failures are tolerated; a failed navigation or a
// detected processing-error banner aborts the run.
type CheckoutFormFiller struct {
	config *Config
	log    *RunLog
	delay  Delayer
}

func NewCheckoutFormFiller(config *Config, log *RunLog, delay Delayer) *CheckoutFormFiller {
	return &CheckoutFormFiller{config: config, log: log, delay: delay}
}

type billingField struct {
	id    string
	value string
}

func billingFields(c CheckoutInfo) []billingField {
	return []billingField{
		{"billing_email", c.Email},
		{"billing_first_name", c.FirstName},
		{"billing_last_name", c.LastName},
		{"billing_cpf", c.CPF},
		{"billing_postcode", c.CEP},
		{"billing_address_1", c.Address1},
		{"billing_number", c.Number},
		{"billing_address_2", c.Address2},
		{"billing_neighborhood", c.Neighborhood},
		{"billing_city", c.City},
		{"billing_phone", c.Phone},
	}
}

func (f *CheckoutFormFiller) Fill(page Page, info CheckoutInfo) error {
	f.log.Info(LogFields{Step: "form", URL: f.config.CheckoutURL, Message: "navigating to checkout"})

	if err := page.Navigate(f.config.CheckoutURL); err != nil {
		return fmt.Errorf("failed to reach checkout page: %w", err)
	}

	for _, field := range billingFields(info) {
		if err := page.Fill("#"+field.id, field.value); err != nil {
			f.log.Warn(LogFields{Step: "form", Field: field.id, Message: "failed to fill field", Error: err.Error()})
		} else {
			f.log.Info(LogFields{Step: "form", Field: field.id, Message: "field filled"})
		}
		f.delay.Sleep(0.2, 0.6)
	}

	f.selectRegion(page)

	html, err := page.Content()
	if err != nil {
		return fmt.Errorf("failed to read checkout page content: %w", err)
	}
	if strings.Contains(html, orderErrorBanner) {
		return fmt.Errorf("order processing error reported by checkout page")
	}

	return nil
}

// selectRegion drives the searchable state dropdown. The full sequence runs
// regionConfirmCycles times unconditionally; a failure anywhere abandons the
// remaining cycles, is logged, and the run continues.
func (f *CheckoutFormFiller) selectRegion(page Page) {
	for cycle := 0; cycle < regionConfirmCycles; cycle++ {
		if err := f.regionCycle(page); err != nil {
			f.log.Warn(LogFields{
				Step:    "form",
				Message: fmt.Sprintf("failed to select region %q", f.config.RegionLabel),
				Error:   err.Error(),
			})
			return
		}
	}
	f.log.Info(LogFields{
		Step:    "form",
		Message: fmt.Sprintf("region %q selected with double confirmation", f.config.RegionLabel),
	})
}

func (f *CheckoutFormFiller) regionCycle(page Page) error {
	if err := page.Click(f.config.Selectors.RegionContainer); err != nil {
		return err
	}
	f.delay.Sleep(0.4, 0.7)

	if err := page.Fill(f.config.Selectors.RegionSearch, f.config.RegionLabel); err != nil {
		return err
	}
	if err := page.Press("Enter"); err != nil {
		return err
	}
	f.delay.Sleep(0.4, 0.7)

	return nil
}
