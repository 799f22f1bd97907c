package middleware

import "github.com/labstack/echo/v4"

// Chain folds mws into one middleware; the first runs outermost.
func Chain(mws ...echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
