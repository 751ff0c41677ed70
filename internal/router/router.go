package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	apperrors "docportal/internal/errors"
	"docportal/internal/handler"
)

// Handlers groups every HTTP handler the portal exposes.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Pages         *handler.PageHandler
	Docs          *handler.DocsHandler
	Questionnaire *handler.QuestionnaireHandler
}

// Options carries the cross-cutting pieces installed on the echo instance.
type Options struct {
	Logger   *zap.Logger
	Renderer echo.Renderer
	Gate     echo.MiddlewareFunc
	Gatherer prometheus.Gatherer
}

// Register wires routes and middleware.
func Register(e *echo.Echo, h Handlers, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Renderer = opts.Renderer
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))
	e.Use(echomw.Recover())
	if opts.Gate != nil {
		e.Use(opts.Gate)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Pages
	e.GET("/", h.Pages.Home)
	e.GET("/login", h.Pages.LoginPage)
	e.POST("/login", h.Pages.LoginSubmit)
	e.POST("/logout", h.Pages.LogoutSubmit)
	e.GET("/docs", h.Docs.Index)
	e.GET("/docs/*", h.Docs.Page)
	e.GET("/questionnaire", h.Questionnaire.Form)
	e.POST("/questionnaire", h.Questionnaire.Submit)
	e.GET("/admin", h.Pages.Admin)
	e.GET("/admin/users", h.Pages.AdminUsers)

	api := e.Group("/api")

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me)

	api.GET("/docs/pages", h.Docs.ListPages)
	api.GET("/docs/catalog", h.Docs.ListCatalog)

	// Each user endpoint checks the session and admin role itself.
	api.GET("/users", h.Users.ListUsers)
	api.POST("/users", h.Users.CreateUser)
	api.GET("/users/:id", h.Users.GetUser)
	api.PATCH("/users/:id", h.Users.UpdateUser)
	api.DELETE("/users/:id", h.Users.DeleteUser)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// ErrorHandler renders every error as an ErrorResponse JSON body.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			mapped := apperrors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
		}

		var body apperrors.ErrorResponse
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body = apperrors.ErrorResponse{Error: msg}
		default:
			body = apperrors.ErrorResponse{Error: http.StatusText(he.Code)}
		}

		if he.Code >= http.StatusInternalServerError {
			cause := err
			if he.Internal != nil {
				cause = he.Internal
			}
			logger.Error("request error", zap.String("uri", c.Request().RequestURI), zap.Error(cause))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
