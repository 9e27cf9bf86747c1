package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
)

type limitPolicy struct {
	limit  int
	window time.Duration
}

// defaultPolicies are the per-endpoint-class limits. Security-sensitive
// classes are tight; the API class covers authenticated traffic.
var defaultPolicies = map[ports.EndpointClass]limitPolicy{
	ports.ClassLogin:         {limit: 5, window: time.Minute},
	ports.ClassRegister:      {limit: 3, window: time.Minute},
	ports.ClassPasswordReset: {limit: 3, window: 5 * time.Minute},
	ports.ClassTwoFactor:     {limit: 5, window: time.Minute},
	ports.ClassAPI:           {limit: 100, window: time.Minute},
	ports.ClassDefault:       {limit: 60, window: time.Minute},
}

// RateLimiterService applies a static per-class policy on top of a counting
// store. Store failures fail open: availability beats strict limiting here,
// the middleware logs the error for alerting.
type RateLimiterService struct {
	store    ports.RateLimitStore
	policies map[ports.EndpointClass]limitPolicy
	logger   *logrus.Logger
}

func NewRateLimiterService(store ports.RateLimitStore, logger *logrus.Logger) ports.RateLimiterService {
	return &RateLimiterService{store: store, policies: defaultPolicies, logger: logger}
}

func (s *RateLimiterService) Check(ctx context.Context, class ports.EndpointClass, clientID string) (ports.RateLimitResult, error) {
	policy, ok := s.policies[class]
	if !ok {
		policy = s.policies[ports.ClassDefault]
	}

	key := string(class) + ":" + clientID
	result, err := s.store.Check(ctx, key, policy.limit, policy.window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"class": class}).WithError(err).Error("rate limit store check failed, failing open")
		}
		return ports.RateLimitResult{Allowed: true, Remaining: policy.limit, Limit: policy.limit}, err
	}
	return result, nil
}
