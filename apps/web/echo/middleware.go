package echoweb

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	metricsvc "github.com/codegrow/frontend/services/metrics"
)

func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if claims.IsAdmin {
			return next(ctx)
		}
		return errHttpForbidden
	}
}

// metricsMiddleware observes every request by route. Errors are handled here so the
// recorded status is the one sent.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err)
		}
		metricsvc.ObserveRequest(ctx.Request().Method, ctx.Path(), ctx.Response().Status, time.Since(start))
		return nil
	}
}
