package middleware

import (
	"errors"
	"net/http"
	"net/url"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"docportal/internal/auth"
	"docportal/internal/metrics"
)

// SessionContextKey is where the gate stores the validated *auth.Claims.
const SessionContextKey = "session"

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

var errInvalidSession = errors.New("invalid session")

// GateConfig configures the request gate.
type GateConfig struct {
	Routes  auth.RouteTable
	Codec   *auth.SessionCodec
	Cookies *auth.CookieHelper
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// SessionGate redirects requests for protected paths to the login page unless
// they carry a valid session cookie. Other paths pass through untouched.
func SessionGate(cfg GateConfig) echo.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  SessionContextKey,
		TokenLookup: "cookie:" + cfg.Cookies.Name(),
		Skipper: func(c echo.Context) bool {
			switch cfg.Routes.Classify(c.Request().URL.Path) {
			case auth.RoutePublic:
				cfg.Metrics.ObserveGate(metrics.GatePublic)
				return true
			case auth.RouteUnrestricted:
				cfg.Metrics.ObserveGate(metrics.GateUnrestricted)
				return true
			default:
				return false
			}
		},
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, ok := cfg.Codec.Validate(token)
			if !ok {
				return nil, errInvalidSession
			}
			cfg.Metrics.ObserveGate(metrics.GateAllowed)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			path := c.Request().URL.Path
			if cfg.Cookies.Token(c) == "" {
				cfg.Metrics.ObserveGate(metrics.GateMissing)
			} else {
				cfg.Metrics.ObserveGate(metrics.GateInvalid)
				cfg.Cookies.ClearSession(c)
				logger.Debug("rejected session cookie", zap.String("path", path), zap.Error(err))
			}
			return c.Redirect(http.StatusFound, LoginRedirect(path))
		},
	})
}

// LoginRedirect returns the login URL that sends the user back to path afterwards.
func LoginRedirect(path string) string {
	return LoginPath + "?" + url.Values{"redirect": {path}}.Encode()
}

// Session returns the claims the gate attached to c, if any.
func Session(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(SessionContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
