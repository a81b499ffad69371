package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver records the outcome of an HTTP request.
type RequestObserver interface {
	ObserveRequest(route, status string, took time.Duration)
}

// Metrics reports every request to obs, labelled by the matched route
// pattern so that /orders/1 and /orders/2 share a series.
func Metrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		obs.ObserveRequest(c.Route().Path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
