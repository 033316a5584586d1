package marketdata

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

const defaultTradierBaseURL = "https://sandbox.tradier.com"

// NewProviderFromEnv picks the market data provider from the environment:
// POLYGON_API_KEY selects Polygon, otherwise TRADIER_BEARER_TOKEN selects
// Tradier with TRADIER_BASE_URL defaulting to the sandbox host.
func NewProviderFromEnv() (Provider, error) {
	if apiKey := os.Getenv("POLYGON_API_KEY"); apiKey != "" {
		log.Info("NewProviderFromEnv: using polygon market data")
		return NewPolygonProvider(apiKey), nil
	}

	if token := os.Getenv("TRADIER_BEARER_TOKEN"); token != "" {
		baseURL := os.Getenv("TRADIER_BASE_URL")
		if baseURL == "" {
			baseURL = defaultTradierBaseURL
		}

		log.Infof("NewProviderFromEnv: using tradier market data at %s", baseURL)
		return NewTradierProvider(baseURL, token), nil
	}

	return nil, fmt.Errorf("NewProviderFromEnv: neither POLYGON_API_KEY nor TRADIER_BEARER_TOKEN is set")
}
