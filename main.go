package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	checkoutURL := flag.String("checkout-url", "", "Checkout page URL (overrides config)")
	headful := flag.Bool("headful", false, "Run the browser with a visible window")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *addr != "" {
		config.ListenAddr = *addr
	}
	if *checkoutURL != "" {
		config.CheckoutURL = *checkoutURL
	}
	if *headful {
		config.Headless = false
	}

	runLog, err := OpenRunLog(config.InstanceName, config.LogDir)
	if err != nil {
		log.Fatalf("Failed to open run log: %v", err)
	}

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	bot := NewCheckoutBot(config, runLog, metrics)
	server := NewServer(config, runLog, metrics, bot.Run)

	fmt.Printf("Checkout bot %q listening on %s\n", config.InstanceName, config.ListenAddr)
	fmt.Printf("Checkout URL: %s\n", config.CheckoutURL)

	srv := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
