package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/infrastructure/httpserver"
	"github.com/propgate/propgate/test/mocks"
)

func newTestServer(triggerToken string, dunningService *mocks.DunningServiceMock) *httpserver.Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return httpserver.NewServer(&httpserver.ServerConfig{
		Host:            "127.0.0.1",
		Port:            "0",
		JobTriggerToken: triggerToken,
	}, logger, httpserver.ServerDeps{
		DunningService:     dunningService,
		RateLimiterService: services.NewRateLimiterService(&mocks.RateLimitStoreMock{}, logger),
	})
}

func TestTriggerDunningRun_Unconfigured(t *testing.T) {
	srv := newTestServer("", &mocks.DunningServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/dunning-run", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when no trigger token is configured", rec.Code)
	}
}

func TestTriggerDunningRun_InvalidToken(t *testing.T) {
	runs := 0
	srv := newTestServer("job-secret", &mocks.DunningServiceMock{
		RunAutomaticFn: func(ctx context.Context) (*dunning.RunSummary, error) {
			runs++
			return &dunning.RunSummary{OK: true}, nil
		},
	})

	for _, header := range []string{"", "Bearer wrong", "job-secret"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/dunning-run", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
	if runs != 0 {
		t.Fatalf("the run must not start without a valid token")
	}
}

func TestTriggerDunningRun_ValidToken(t *testing.T) {
	runs := 0
	srv := newTestServer("job-secret", &mocks.DunningServiceMock{
		RunAutomaticFn: func(ctx context.Context) (*dunning.RunSummary, error) {
			runs++
			return &dunning.RunSummary{OK: true, TenantsProcessed: 2, RecordsCreated: 3}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/dunning-run", nil)
	req.Header.Set("Authorization", "Bearer job-secret")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if runs != 1 {
		t.Fatalf("run triggered %d times, want 1", runs)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"processed":2`) || !strings.Contains(body, `"created":3`) {
		t.Fatalf("summary missing from response: %s", body)
	}
}
