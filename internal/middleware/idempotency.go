package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	CorrelationIDHeader    = "X-Correlation-ID"
	IdempotentReplayHeader = "X-Idempotent-Replay"

	skipReplayStoreKey = "idempotencySkipStore"
)

// SkipReplayStore keeps the current response out of the replay store, so a
// later request with the same correlation id still runs. Handlers call it for
// responses that changed nothing, such as dry runs.
func SkipReplayStore(c *fiber.Ctx) {
	c.Locals(skipReplayStoreKey, true)
}

// storedResponse is what a replay sends back
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays the first successful response of a mutating
// request carrying X-Correlation-ID. Keys are scoped to the athlete, so it
// must run after VerifyToken. Requests without the header pass through.
func IdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get(CorrelationIDHeader)
		if correlationID == "" {
			return c.Next()
		}

		key := fmt.Sprintf("idempotency:%s:%s", GetUserID(c), correlationID)
		ctx := c.UserContext()

		cached, err := redisClient.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err == nil {
				c.Set(IdempotentReplayHeader, "true")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Status(stored.Status).Send(stored.Body)
			}
		} else if err != nil && err != redis.Nil {
			logrus.WithError(err).Warn("idempotency lookup failed, processing request")
		}

		if err := c.Next(); err != nil {
			return err
		}

		if skip, _ := c.Locals(skipReplayStoreKey).(bool); skip {
			return nil
		}

		// only 2xx responses are replayed
		statusCode := c.Response().StatusCode()
		if statusCode < 200 || statusCode >= 300 {
			return nil
		}
		body := c.Response().Body()
		if len(body) == 0 {
			return nil
		}

		payload, err := json.Marshal(storedResponse{Status: statusCode, Body: append([]byte(nil), body...)})
		if err != nil {
			return nil
		}
		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Set(setCtx, key, payload, ttl).Err(); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to store idempotent response")
		}
		return nil
	}
}
