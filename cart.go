package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Message WooCommerce renders when the requested quantity exceeds stock.
const outOfStockMessage = "não pode adicionar a quantidade"

// CartPopulator adds each requested product line to the cart. Failures are
// absorbed into per-item outcomes and never abort the run.
type CartPopulator struct {
	config *Config
	log    *RunLog
	delay  Delayer
}

func NewCartPopulator(config *Config, log *RunLog, delay Delayer) *CartPopulator {
	return &CartPopulator{config: config, log: log, delay: delay}
}

// parseProductLine splits a "url:quantity" line on its last colon, since the
// URL itself contains "://".
func parseProductLine(line string) (url, rawQty string, err error) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("missing ':' separator in line %q", line)
	}
	return line[:idx], line[idx+1:], nil
}

// normalizeQty converts a decimal-locale-tolerant quantity ("0,5" or "2")
// into the fixed two-decimal form the storefront's quantity input expects.
func normalizeQty(raw string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	qty, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "", fmt.Errorf("invalid quantity %q: %w", raw, err)
	}
	if qty < 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return "", fmt.Errorf("invalid quantity %q: must be a non-negative finite number", raw)
	}
	return fmt.Sprintf("%.2f", qty), nil
}

// Populate processes product lines in input order, appending exactly one
// outcome per successfully parsed line. Lines missing the separator are
// skipped without an outcome.
func (c *CartPopulator) Populate(page Page, lines []string, result *CheckoutResult) {
	for _, line := range lines {
		url, rawQty, err := parseProductLine(line)
		if err != nil {
			c.log.Warn(LogFields{Step: "cart", Message: "invalid product line format", Error: err.Error()})
			continue
		}

		qty, err := normalizeQty(rawQty)
		if err != nil {
			c.log.Warn(LogFields{Step: "cart", URL: url, Message: "quantity normalization failed", Error: err.Error()})
			result.Items = append(result.Items, ItemOutcome{URL: url, Qty: rawQty, Added: false})
			continue
		}

		c.log.Info(LogFields{Step: "cart", URL: url, Message: "opening product page (qty=" + qty + ")"})

		if err := page.Navigate(url); err != nil {
			c.log.Error(LogFields{Step: "cart", URL: url, Message: "failed to load product page", Error: err.Error()})
			result.Items = append(result.Items, ItemOutcome{URL: url, Qty: qty, Added: false})
			continue
		}

		if err := c.addToCart(page, qty); err != nil {
			c.log.Warn(LogFields{Step: "cart", URL: url, Message: "failed to add product", Error: err.Error()})

			outcome := ItemOutcome{URL: url, Qty: qty, Added: false}
			if html, herr := page.Content(); herr == nil && strings.Contains(html, outOfStockMessage) {
				outcome.OutOfStock = true
				c.log.Warn(LogFields{Step: "cart", URL: url, Message: "product out of stock"})
			}
			result.Items = append(result.Items, outcome)
			continue
		}

		c.log.Info(LogFields{Step: "cart", URL: url, Message: "product added to cart"})
		result.Items = append(result.Items, ItemOutcome{URL: url, Qty: qty, Added: true})

		c.delay.Sleep(0.5, 1.2)
	}
}

// addToCart fills the quantity input and clicks the add button while a
// waiter is armed for the storefront's background cart response. The add is
// confirmed only once that response is observed.
func (c *CartPopulator) addToCart(page Page, qty string) error {
	if err := page.Fill(c.config.Selectors.QuantityInput, qty); err != nil {
		return err
	}

	c.delay.Sleep(0.3, 0.8)

	wait := page.ExpectResponse(c.config.CartResponseURLPart)
	if err := page.Click(c.config.Selectors.AddToCartButton); err != nil {
		return err
	}
	return wait()
}
