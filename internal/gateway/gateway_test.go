package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/isogloss/tarkov-search/internal/upstream"
)

type report struct {
	Banned bool
	Source string
}

func TestFetchOrDegrade_SuccessPassesThroughUntouched(t *testing.T) {
	result := FetchOrDegrade(context.Background(), nil, "test",
		func(ctx context.Context) (report, error) {
			return report{Banned: true, Source: "live"}, nil
		},
		func() report {
			t.Fatal("degraded factory must not run on success")
			return report{}
		},
		"unreachable",
	)

	if !result.Ok() {
		t.Fatalf("expected ok result, got %s", result.Status)
	}
	if result.Note != "" {
		t.Errorf("authoritative result must carry no note, got %q", result.Note)
	}
	if !result.Value.Banned || result.Value.Source != "live" {
		t.Errorf("value altered: %+v", result.Value)
	}
}

func TestFetchOrDegrade_FailureIsSwallowedAndSubstituted(t *testing.T) {
	var calls int

	result := FetchOrDegrade(context.Background(), nil, "test",
		func(ctx context.Context) (report, error) {
			calls++
			return report{}, errors.New("connection timed out")
		},
		func() report {
			return report{Banned: false, Source: "offline"}
		},
		"provider unreachable",
	)

	if calls != 1 {
		t.Errorf("failure must not be retried, got %d calls", calls)
	}
	if !result.Degraded() {
		t.Fatalf("expected degraded result, got %s", result.Status)
	}
	if result.Note != "provider unreachable" {
		t.Errorf("expected provenance note, got %q", result.Note)
	}
	if result.Value.Source != "offline" {
		t.Errorf("expected substitute value, got %+v", result.Value)
	}
}

func TestFetchOrDegrade_NotFoundIsDistinctFromDegraded(t *testing.T) {
	result := FetchOrDegrade(context.Background(), nil, "test",
		func(ctx context.Context) (report, error) {
			return report{}, upstream.ErrNotFound
		},
		func() report {
			t.Fatal("not-found must not trigger the degraded factory")
			return report{}
		},
		"unreachable",
	)

	if result.Status != StatusNotFound {
		t.Errorf("expected not_found, got %s", result.Status)
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusOK:       "ok",
		StatusNotFound: "not_found",
		StatusDegraded: "degraded",
		Status(99):     "unknown",
	}

	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
