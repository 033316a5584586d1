package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

const expirationsFixture = `{"expirations":{"date":["2026-09-18","2026-10-16","2026-12-18"]}}`

const quotesFixture = `{"quotes":{"quote":{"symbol":"CCJ","last":101.25,"bid":101.2,"ask":101.3}}}`

const chainFixture = `{"options":{"option":[
	{"strike":95,"option_type":"call","bid":7.1,"ask":7.5,"last":7.2,"volume":321,"open_interest":1500,"greeks":{"mid_iv":0.41}},
	{"strike":100,"option_type":"call","bid":3.9,"ask":4.1,"last":4.0,"volume":1450,"open_interest":2100,"greeks":{"mid_iv":0.38}},
	{"strike":95,"option_type":"put","bid":1.1,"ask":1.3,"volume":null,"open_interest":null},
	{"strike":100,"option_type":"put","last":3.1}
]}}`

func newTradierTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/markets/options/expirations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "CCJ", r.URL.Query().Get("symbol"))
		w.Write([]byte(expirationsFixture))
	})
	mux.HandleFunc("/v1/markets/quotes", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quotesFixture))
	})
	mux.HandleFunc("/v1/markets/options/chains", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-09-18", r.URL.Query().Get("expiration"))
		assert.Equal(t, "true", r.URL.Query().Get("greeks"))
		w.Write([]byte(chainFixture))
	})

	return httptest.NewServer(mux)
}

func TestTradierProviderGetSpotAndExpirations(t *testing.T) {
	server := newTradierTestServer(t)
	defer server.Close()

	provider := NewTradierProvider(server.URL, "test-token")

	spot, expirations, err := provider.GetSpotAndExpirations(context.Background(), "CCJ")
	require.NoError(t, err)

	assert.Equal(t, 101.25, spot)
	assert.Equal(t, []optionmodels.ExpirationDate{"2026-09-18", "2026-10-16", "2026-12-18"}, expirations)
}

func TestTradierProviderGetChain(t *testing.T) {
	server := newTradierTestServer(t)
	defer server.Close()

	provider := NewTradierProvider(server.URL, "test-token")

	chain, err := provider.GetChain(context.Background(), "CCJ", "2026-09-18")
	require.NoError(t, err)

	require.Len(t, chain.Calls, 2)
	require.Len(t, chain.Puts, 2)

	assert.Equal(t, 95.0, chain.Calls[0].Strike)
	assert.Equal(t, 7.3, chain.Calls[0].Mid)
	assert.Equal(t, 0.41, chain.Calls[0].ImpliedVol)
	assert.NotZero(t, chain.Calls[0].Delta)

	// null and missing fields sanitize to zero
	assert.Equal(t, 0, chain.Puts[0].Volume)
	assert.Equal(t, 0, chain.Puts[0].OpenInterest)
	assert.Equal(t, 0.0, chain.Puts[0].ImpliedVol)
	assert.Equal(t, 0.0, chain.Puts[0].Delta)

	// bid/ask missing entirely: mid falls back to last
	assert.Equal(t, 3.1, chain.Puts[1].Mid)

	assert.Equal(t, 101.25, chain.Spot)
	assert.Equal(t, optionmodels.ExpirationDate("2026-09-18"), chain.Expiration)
}

func TestTradierProviderErrors(t *testing.T) {
	t.Run("no expirations means no data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"expirations":{"date":[]}}`))
		}))
		defer server.Close()

		provider := NewTradierProvider(server.URL, "test-token")

		_, _, err := provider.GetSpotAndExpirations(context.Background(), "ZZZZ")
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("upstream failure surfaces as error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		provider := NewTradierProvider(server.URL, "test-token")

		_, err := provider.GetChain(context.Background(), "CCJ", "2026-09-18")
		assert.Error(t, err)
	})

	t.Run("empty chain means no data", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/markets/options/expirations", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(expirationsFixture))
		})
		mux.HandleFunc("/v1/markets/quotes", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(quotesFixture))
		})
		mux.HandleFunc("/v1/markets/options/chains", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"options":{"option":[]}}`))
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		provider := NewTradierProvider(server.URL, "test-token")

		_, err := provider.GetChain(context.Background(), "CCJ", "2026-09-18")
		assert.ErrorIs(t, err, ErrNoData)
	})
}
