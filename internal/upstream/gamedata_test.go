package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGameDataClient_PlayerByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Variables["name"] != "Nikita" {
			t.Errorf("expected name variable Nikita, got %v", req.Variables["name"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"players":[{"id":"p1","name":"nikita","level":42,"side":"usec","kdRatio":5.1}]}}`))
	}))
	defer srv.Close()

	c := NewGameDataClient(GameDataClientConfig{BaseURL: srv.URL})

	player, err := c.PlayerByName(context.Background(), "Nikita")
	if err != nil {
		t.Fatalf("PlayerByName failed: %v", err)
	}
	if player.ID != "p1" || player.Level != 42 {
		t.Errorf("unexpected player: %+v", player)
	}
}

func TestGameDataClient_PlayerByName_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"players":[]}}`))
	}))
	defer srv.Close()

	c := NewGameDataClient(GameDataClientConfig{BaseURL: srv.URL})

	_, err := c.PlayerByName(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty player list, got %v", err)
	}
}

func TestGameDataClient_ErrorListIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"rate limited"},{"message":"try later"}]}`))
	}))
	defer srv.Close()

	c := NewGameDataClient(GameDataClientConfig{BaseURL: srv.URL})

	_, err := c.ItemByID(context.Background(), "5447a9cd4bdc2dbd208b4567")
	if err == nil {
		t.Fatal("expected error for graphql error list")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("an explicit error envelope is a failure, not absence")
	}
}

func TestGameDataClient_ItemByID_NullItemIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"item":null}}`))
	}))
	defer srv.Close()

	c := NewGameDataClient(GameDataClientConfig{BaseURL: srv.URL})

	_, err := c.ItemByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for null item, got %v", err)
	}
}

func TestGameDataClient_SearchItems_EmptyResultIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"items":[]}}`))
	}))
	defer srv.Close()

	c := NewGameDataClient(GameDataClientConfig{BaseURL: srv.URL})

	items, err := c.SearchItems(context.Background(), "unobtainium", 20, 0)
	if err != nil {
		t.Fatalf("SearchItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result, got %d items", len(items))
	}
}

func TestGameDataClient_TimeoutIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewGameDataClient(GameDataClientConfig{
		BaseURL: srv.URL,
		Timeout: 10 * time.Millisecond,
	})

	if _, err := c.PlayerByName(context.Background(), "slowpoke"); err == nil {
		t.Error("expected timeout to surface as an error")
	}
}
