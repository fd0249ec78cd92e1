package main

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Wire types shared with the request gateway. Field names follow the
// storefront integration that produces these payloads.

type CheckoutInfo struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	CPF          string `json:"cpf"`
	CEP          string `json:"cep"`
	Address1     string `json:"address_1"`
	Number       string `json:"number"`
	Address2     string `json:"address_2,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Phone        string `json:"phone"`
}

type Payload struct {
	Produtos []string     `json:"produtos"`
	Checkout CheckoutInfo `json:"checkout"`
}

// ItemOutcome records the result of one add-to-cart attempt. Outcomes are
// appended in input order and never reordered.
type ItemOutcome struct {
	URL        string `json:"url"`
	Qty        string `json:"qty"`
	Added      bool   `json:"added"`
	OutOfStock bool   `json:"out_of_stock,omitempty"`
}

const (
	checkoutStatePending   = "pending"
	checkoutStateFilled    = "filled"
	checkoutStateSubmitted = "pedido_enviado"
)

// CheckoutResult accumulates the run's outcome. It is owned by the bot for
// the run's duration and becomes the response payload afterwards.
type CheckoutResult struct {
	Items       []ItemOutcome `json:"items"`
	Checkout    string        `json:"checkout"`
	RedirectURL string        `json:"redirect_url,omitempty"`
	Status      string        `json:"status,omitempty"`
	DurationMS  int64         `json:"duration_ms,omitempty"`
}

func NewCheckoutResult() *CheckoutResult {
	return &CheckoutResult{
		Items:    []ItemOutcome{},
		Checkout: checkoutStatePending,
	}
}

func (c *CheckoutInfo) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"email", c.Email},
		{"first_name", c.FirstName},
		{"last_name", c.LastName},
		{"cpf", c.CPF},
		{"cep", c.CEP},
		{"address_1", c.Address1},
		{"number", c.Number},
		{"neighborhood", c.Neighborhood},
		{"city", c.City},
		{"state", c.State},
		{"phone", c.Phone},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("checkout.%s is required", field.name)
		}
	}

	if utf8.RuneCountInString(c.State) != 2 {
		return fmt.Errorf("checkout.state must be exactly 2 characters, got %q", c.State)
	}

	return nil
}

func (p *Payload) Validate() error {
	if p.Produtos == nil {
		return fmt.Errorf("produtos is required")
	}
	return p.Checkout.Validate()
}
