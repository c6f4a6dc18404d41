package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/shared"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const RATE_LIMIT_SVC = "rate_limit_svc"

// RateLimitConfig is a fixed window limit for one endpoint type.
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Message      string
}

// WindowCounter counts hits per key inside a fixed window.
type WindowCounter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

func DefaultRateLimitConfigs() map[string]*RateLimitConfig {
	return map[string]*RateLimitConfig{
		shared.RateLimitSessionStart: {
			EndpointType: shared.RateLimitSessionStart,
			MaxRequests:  30,
			WindowSize:   time.Hour,
			Message:      "Too many practice sessions started. Please try again later.",
		},
		shared.RateLimitFeedbackGenerate: {
			EndpointType: shared.RateLimitFeedbackGenerate,
			MaxRequests:  10,
			WindowSize:   10 * time.Minute,
			Message:      "Too many feedback requests. Please wait before trying again.",
		},
	}
}

type RateLimitService struct {
	appContext.DefaultService

	counter WindowCounter
	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex
}

func NewRateLimitService(counter WindowCounter, configs map[string]*RateLimitConfig) *RateLimitService {
	if configs == nil {
		configs = DefaultRateLimitConfigs()
	}
	return &RateLimitService{counter: counter, configs: configs}
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = DefaultRateLimitConfigs()

	// RATE_LIMIT_SESSION_START=20/1h style overrides
	for endpointType, config := range svc.configs {
		key := "RATE_LIMIT_" + strings.ToUpper(endpointType)
		raw := getEnv(key, "")
		if raw == "" {
			continue
		}
		max, window, err := parseRateLimit(raw)
		if err != nil {
			log.WithField("key", key).Warnf("Invalid rate limit %q: %v", raw, err)
			continue
		}
		config.MaxRequests = max
		config.WindowSize = window
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService)
	if ok && redisSvc.Enabled() {
		svc.counter = redisSvc
		log.Info("Rate limits backed by Redis")
		return nil
	}

	svc.counter = NewMemoryWindowCounter()
	return nil
}

func parseRateLimit(raw string) (int, time.Duration, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want <max>/<window>")
	}
	max, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || max <= 0 {
		return 0, 0, fmt.Errorf("invalid max %q", parts[0])
	}
	window, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil || window <= 0 {
		return 0, 0, fmt.Errorf("invalid window %q", parts[1])
	}
	return max, window, nil
}

func (svc *RateLimitService) Config(endpointType string) (*RateLimitConfig, bool) {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	config, ok := svc.configs[endpointType]
	return config, ok
}

// IsAllowed counts one request for identifier against the endpoint's window.
func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	config, exists := svc.Config(endpointType)
	if !exists || svc.counter == nil {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", endpointType, identifier)
	count, ttl, err := svc.counter.IncrementWindow(ctx, key, config.WindowSize)
	if err != nil {
		return false, nil, err
	}

	resetTime := time.Now().Add(ttl)
	remaining := config.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	info := &dto.RateLimitInfo{
		Allowed:   int(count) <= config.MaxRequests,
		Limit:     config.MaxRequests,
		Remaining: remaining,
		ResetTime: &resetTime,
	}
	if !info.Allowed {
		info.BlockedUntil = &resetTime
	}
	return info.Allowed, info, nil
}

// UserBasedRateLimit limits an authenticated route per user, falling back to
// the client IP when no user is attached.
func (svc *RateLimitService) UserBasedRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, _ := c.Locals(shared.UserID).(string)
		if identifier == "" {
			identifier = c.IP()
		}

		allowed, info, err := svc.IsAllowed(c.UserContext(), identifier, endpointType)
		if err != nil {
			// counter outages never block practice
			log.WithFields(log.Fields{
				"endpoint_type": endpointType,
				"identifier":    identifier,
				"error":         err.Error(),
			}).Warn("Rate limit check failed")
			return c.Next()
		}

		addRateLimitHeaders(c, info)

		if !allowed {
			message := "Too many requests. Please try again later."
			if config, ok := svc.Config(endpointType); ok && config.Message != "" {
				message = config.Message
			}
			return shared.NewRateLimitedError(message, info)
		}

		return c.Next()
	}
}

func addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil || info.Remaining < 0 {
		return
	}

	c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if info.BlockedUntil != nil {
		retryAfter := int(time.Until(*info.BlockedUntil).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set("Retry-After", strconv.Itoa(retryAfter))
	}
}

// MemoryWindowCounter is the single process fallback when Redis is not
// configured. Each key lives in go-cache with the window as its TTL.
type MemoryWindowCounter struct {
	windows *cache.Cache
}

func NewMemoryWindowCounter() *MemoryWindowCounter {
	return &MemoryWindowCounter{
		windows: cache.New(cache.NoExpiration, time.Minute),
	}
}

func (m *MemoryWindowCounter) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if err := m.windows.Add(key, int64(1), window); err == nil {
		return 1, window, nil
	}

	count, err := m.windows.IncrementInt64(key, 1)
	if err != nil {
		// window expired between Add and IncrementInt64
		m.windows.Set(key, int64(1), window)
		return 1, window, nil
	}

	_, expires, found := m.windows.GetWithExpiration(key)
	if !found {
		return count, window, nil
	}
	return count, time.Until(expires), nil
}
