package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	impl "github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/test/mocks"
)

func TestCheck_AppliesClassPolicy(t *testing.T) {
	cases := []struct {
		class  ports.EndpointClass
		limit  int
		window time.Duration
	}{
		{ports.ClassLogin, 5, time.Minute},
		{ports.ClassRegister, 3, time.Minute},
		{ports.ClassPasswordReset, 3, 5 * time.Minute},
		{ports.ClassTwoFactor, 5, time.Minute},
		{ports.ClassAPI, 100, time.Minute},
		{ports.ClassDefault, 60, time.Minute},
	}
	for _, tc := range cases {
		var gotKey string
		var gotLimit int
		var gotWindow time.Duration
		store := &mocks.RateLimitStoreMock{
			CheckFn: func(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error) {
				gotKey, gotLimit, gotWindow = key, limit, window
				return ports.RateLimitResult{Allowed: true, Remaining: limit - 1, Limit: limit}, nil
			},
		}
		svc := impl.NewRateLimiterService(store, nil)

		res, err := svc.Check(context.Background(), tc.class, "1.2.3.4")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.class, err)
		}
		if !res.Allowed {
			t.Fatalf("%s: expected allowed", tc.class)
		}
		if gotKey != string(tc.class)+":1.2.3.4" {
			t.Fatalf("%s: key = %q", tc.class, gotKey)
		}
		if gotLimit != tc.limit || gotWindow != tc.window {
			t.Fatalf("%s: policy = (%d, %s), want (%d, %s)", tc.class, gotLimit, gotWindow, tc.limit, tc.window)
		}
	}
}

func TestCheck_UnknownClassFallsBackToDefault(t *testing.T) {
	var gotLimit int
	store := &mocks.RateLimitStoreMock{
		CheckFn: func(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error) {
			gotLimit = limit
			return ports.RateLimitResult{Allowed: true, Remaining: limit - 1, Limit: limit}, nil
		},
	}
	svc := impl.NewRateLimiterService(store, nil)

	if _, err := svc.Check(context.Background(), "made-up-class", "client"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 60 {
		t.Fatalf("limit = %d, want the default 60", gotLimit)
	}
}

func TestCheck_FailsOpenOnStoreError(t *testing.T) {
	store := &mocks.RateLimitStoreMock{
		CheckFn: func(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error) {
			return ports.RateLimitResult{}, errors.New("redis is gone")
		},
	}
	svc := impl.NewRateLimiterService(store, nil)

	res, err := svc.Check(context.Background(), ports.ClassLogin, "1.2.3.4")
	if err == nil {
		t.Fatalf("the store error must be reported for logging")
	}
	if !res.Allowed {
		t.Fatalf("a broken store must fail open")
	}
}
