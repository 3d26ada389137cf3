package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMarketClient_BanStatusTaggedLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bans/prapor" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"isBanned":true}`))
	}))
	defer srv.Close()

	c := NewMarketClient(MarketClientConfig{BaseURL: srv.URL})

	status, err := c.BanStatus(context.Background(), "prapor")
	if err != nil {
		t.Fatalf("BanStatus failed: %v", err)
	}
	if !status.IsBanned {
		t.Error("expected isBanned=true")
	}
	if status.Source != "live" {
		t.Errorf("successful answer must be tagged live, got %q", status.Source)
	}
	if status.Name != "prapor" {
		t.Errorf("expected name prapor, got %q", status.Name)
	}
}

func TestMarketClient_NotFoundMapsToErrNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewMarketClient(MarketClientConfig{BaseURL: srv.URL})

	_, err := c.BanStatus(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for 404, got %v", err)
	}
}

func TestMarketClient_ServerErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewMarketClient(MarketClientConfig{BaseURL: srv.URL})

	_, err := c.GlobalStats(context.Background())
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a 500 must not map to not-found")
	}
}

func TestMarketClient_PriceHistoryCarriesRequestParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history/item-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("days") != "7" {
			t.Errorf("expected days=7, got %s", r.URL.Query().Get("days"))
		}
		_, _ = w.Write([]byte(`[{"timestamp":"2026-08-20T00:00:00Z","price":12500}]`))
	}))
	defer srv.Close()

	c := NewMarketClient(MarketClientConfig{BaseURL: srv.URL})

	history, err := c.PriceHistory(context.Background(), "item-1", 7)
	if err != nil {
		t.Fatalf("PriceHistory failed: %v", err)
	}
	if history.ItemID != "item-1" || history.Days != 7 {
		t.Errorf("unexpected history metadata: %+v", history)
	}
	if len(history.Points) != 1 || history.Points[0].Price != 12500 {
		t.Errorf("unexpected points: %+v", history.Points)
	}
}

func TestMarketClient_OpenBreakerRejectsWithoutNetworkCall(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewMarketClient(MarketClientConfig{BaseURL: srv.URL})

	// Default failure threshold is 5.
	for i := 0; i < 5; i++ {
		if _, err := c.GlobalStats(context.Background()); err == nil {
			t.Fatal("expected failure")
		}
	}
	if hits != 5 {
		t.Fatalf("expected 5 upstream hits, got %d", hits)
	}

	if _, err := c.GlobalStats(context.Background()); err == nil {
		t.Fatal("expected rejection while open")
	}
	if hits != 5 {
		t.Errorf("open breaker must not reach the network, got %d hits", hits)
	}
}
