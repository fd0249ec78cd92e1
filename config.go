package main

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CheckoutURL     string `yaml:"checkout_url"`
	ActionTimeoutMS int    `yaml:"action_timeout_ms"`
	InstanceName    string `yaml:"instance_name"`

	ListenAddr string `yaml:"listen_addr"`
	LogDir     string `yaml:"log_dir"`

	Headless       bool `yaml:"headless"`
	SlowMotionMS   int  `yaml:"slow_motion_ms"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`

	// Delay before the browser is torn down, so pending redirect and
	// analytics requests can finish.
	SettleDelaySeconds int `yaml:"settle_delay_seconds"`

	RegionLabel string `yaml:"region_label"`

	// URL fragment of the storefront's background add-to-cart response.
	CartResponseURLPart string `yaml:"cart_response_url_part"`

	Selectors SelectorConfig `yaml:"selectors"`
}

type SelectorConfig struct {
	QuantityInput    string `yaml:"quantity_input"`
	AddToCartButton  string `yaml:"add_to_cart_button"`
	RegionContainer  string `yaml:"region_container"`
	RegionSearch     string `yaml:"region_search"`
	PaymentMethod    string `yaml:"payment_method"`
	PlaceOrderButton string `yaml:"place_order_button"`
}

func DefaultConfig() *Config {
	return &Config{
		CheckoutURL:         "https://naturalvalle.com.br/checkout/",
		ActionTimeoutMS:     15000,
		InstanceName:        "instancia-padrao",
		ListenAddr:          ":8000",
		LogDir:              "logs",
		Headless:            true,
		SlowMotionMS:        300,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		SettleDelaySeconds:  10,
		RegionLabel:         "São Paulo",
		CartResponseURLPart: "wc-ajax",
		Selectors: SelectorConfig{
			QuantityInput:    "input.qty",
			AddToCartButton:  `button[name="add-to-cart"]`,
			RegionContainer:  "#select2-billing_state-container",
			RegionSearch:     ".select2-search__field",
			PaymentMethod:    "#payment_method_asaas-pix",
			PlaceOrderButton: "#place_order",
		},
	}
}

// LoadConfig reads the config file, creating it with defaults when missing.
// Environment variables override whatever the file says.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path); err != nil {
			return nil, err
		}
		config.applyEnv()
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CHECKOUT_URL"); v != "" {
		c.CheckoutURL = v
	}
	if v := os.Getenv("ACTION_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.ActionTimeoutMS = ms
		}
	}
	if v := os.Getenv("INSTANCE_NAME"); v != "" {
		c.InstanceName = v
	}
	if v := os.Getenv("BIND_ADDR"); v != "" {
		c.ListenAddr = v
	}
}

func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.ActionTimeoutMS) * time.Millisecond
}
