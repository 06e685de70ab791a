//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fismapp/internal/ratelimit"
	"fismapp/pkg/testutil/containers"
)

type RedisLimiterSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	limiter *ratelimit.RedisLimiter
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.limiter = ratelimit.NewRedisLimiter(s.redis.Client)
}

func (s *RedisLimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLimiterSuite) TestAllowUpToLimit() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		result, err := s.limiter.Allow(ctx, "client-a", 5, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed, "attempt %d", i)
		s.Equal(5-i-1, result.Remaining)
	}

	result, err := s.limiter.Allow(ctx, "client-a", 5, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)
}

func (s *RedisLimiterSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.limiter.Allow(ctx, "client-a", 5, time.Minute)
		s.Require().NoError(err)
	}

	result, err := s.limiter.Allow(ctx, "client-b", 5, time.Minute)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisLimiterSuite) TestWindowExpiry() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.limiter.Allow(ctx, "client-a", 3, time.Second)
		s.Require().NoError(err)
	}
	result, err := s.limiter.Allow(ctx, "client-a", 3, time.Second)
	s.Require().NoError(err)
	s.False(result.Allowed)

	time.Sleep(1100 * time.Millisecond)

	result, err = s.limiter.Allow(ctx, "client-a", 3, time.Second)
	s.Require().NoError(err)
	s.True(result.Allowed)
}
