package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/api"
	"github.com/nemberjs/nember/internal/cmd"
	"github.com/nemberjs/nember/internal/codec"
	"github.com/nemberjs/nember/internal/contracts"
	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/envelope"
	"github.com/nemberjs/nember/internal/errors"
)

// APIServer manages the HTTP API for the daemon.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	// Logger for API server operations.
	logger hclog.Logger

	// Transform envelopes response bodies and unwraps request bodies.
	transform *envelope.Transform

	// Posts and comments served by the API.
	posts    contracts.Repository[domain.Post]
	comments contracts.Repository[domain.Comment]

	// Addr specifies the network address to bind.
	addr string

	// CORS configuration for cross-origin requests.
	cors CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	shutdownTimeout time.Duration

	// Codecs negotiated by the API, the first one is the default.
	codecs []codec.Codec

	// Started is reported by the health route.
	started time.Time
}

// NewAPIServer creates a new API server with the provided dependencies and options.
// Applies default options first, then user-provided options to ensure all fields have valid values.
func NewAPIServer(deps APIDependencies, opt ...APIOption) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	// Ensure we always start with defaults and apply user options on top.
	apiOpts, err := NewAPIOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &APIServer{
		logger:          deps.Logger.Named("api"),
		transform:       deps.Transform,
		posts:           deps.Posts,
		comments:        deps.Comments,
		addr:            deps.Addr,
		cors:            apiOpts.CORS,
		shutdownTimeout: apiOpts.ShutdownTimeout,
		codecs:          apiOpts.Codecs,
		started:         time.Now(),
	}, nil
}

// Handler builds the HTTP handler serving the API.
// Returns the handler and the API path prefix (e.g., "/api/v1") under which the routes are created.
func (a *APIServer) Handler() (http.Handler, string, error) {
	mux, _, apiPathPrefix, err := a.build()
	if err != nil {
		return nil, "", err
	}
	return mux, apiPathPrefix, nil
}

// OpenAPI returns the OpenAPI description of the routes the API serves.
func (a *APIServer) OpenAPI() (*huma.OpenAPI, error) {
	_, router, _, err := a.build()
	if err != nil {
		return nil, err
	}
	return router.OpenAPI(), nil
}

// build creates the router with every route registered.
func (a *APIServer) build() (http.Handler, huma.API, string, error) {
	// Create router.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Add CORS middleware if enabled.
	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	formats, err := api.Formats(a.transform, a.codecs)
	if err != nil {
		return nil, nil, "", err
	}

	config := huma.DefaultConfig("nember docs", cmd.Version())
	config.Formats = formats
	config.DefaultFormat = a.codecs[0].ContentType()
	config.Transformers = api.Transformers(a.transform)
	// The default create hooks add a schema link transformer, which would replace body values
	// before the envelope transformer sees them.
	config.CreateHooks = nil
	router := humachi.New(mux, config)

	// Configure the error handling wrapping.
	huma.NewErrorWithContext = errorHandler(a.logger)

	apiPathPrefix, err := api.RegisterRoutes(router, api.RouteDependencies{
		Transform: a.transform,
		Posts:     a.posts,
		Comments:  a.comments,
		Started:   a.started,
	})
	if err != nil {
		return nil, nil, "", err
	}

	return mux, router, apiPathPrefix, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	handler, apiPathPrefix, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)

	// Start the API.
	go func() {
		a.logger.Info(
			"Starting API server",
			"address", a.addr,
			"prefix", apiPathPrefix,
			"formats", codecNames(a.codecs),
		)
		if a.cors.Enabled {
			a.logger.Info("CORS enabled", "origins", a.cors.AllowOrigins)
		}
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Handle graceful shutdown.
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		_ = srv.Shutdown(shutdownCtx)
		a.logger.Info("Shutdown complete")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := corsOptions(a.cors)
	mux.Use(cors.Handler(corsOptions))
}

// corsOptions converts the CORS configuration into go-chi/cors options.
// A wildcard origin replaces every other origin and disables credentials.
func corsOptions(c CORSConfig) cors.Options {
	origins := make([]string, 0, len(c.AllowOrigins))
	allowCredentials := c.AllowCredentials

	for _, origin := range c.AllowOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			origins = []string{"*"}
			allowCredentials = false
			break
		}
		origins = append(origins, origin)
	}

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   c.AllowMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   c.ExposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           int(c.MaxAge.Seconds()),
	}
}

func codecNames(codecs []codec.Codec) []string {
	names := make([]string, 0, len(codecs))
	for _, c := range codecs {
		names = append(names, c.Name())
	}
	return names
}

// mapError maps application domain errors to appropriate HTTP status codes.
//
// This function is the central place where domain errors from internal/errors are converted to HTTP responses.
// When adding new errors to internal/errors/errors.go, you MUST add them here to prevent them from falling
// through to the default case which returns HTTP 500.
//
// NOTE: Keep this function in sync with internal/errors/errors.go.
// Every error defined there should have an explicit case here otherwise it will default to 500.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, bodies missing their envelope root)
//   - 404: Resource not found errors
//   - 500: Envelope configuration errors and unexpected internal errors (default case)
//
// Don't forget to:
// 1. Add test cases to TestMapError (internal/daemon/api_server_test.go)
// 2. Update the documentation in internal/errors/errors.go
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrMissingRoot):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrResourceNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrUnsupportedShape):
		logger.Error("Body type has no read envelope", "error", err)
		return huma.Error500InternalServerError("Unsupported body shape", err)
	case stdErrors.Is(err, errors.ErrInvalidArgument):
		logger.Error("Invalid argument handed to the envelope transform", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	default:
		logger.Error("Unexpected error serving API request", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to API friendly errors.
// It allows the logger to be supplied to functions that resolve huma.StatusError,
// and it supports different behaviors based on the variadic errors parameter.
// Errors raised by huma itself (e.g. body parsing and validation) carry details and keep their status.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		switch {
		case len(errs) == 0:
			// No errors provided; return a generic error.
			return huma.NewError(status, msg)
		case allDetailed(errs):
			return huma.NewError(status, msg, errs...)
		case len(errs) == 1:
			// Single error; map it directly.
			return mapError(logger, errs[0])
		default:
			// Multiple errors; join them and map.
			combinedErr := stdErrors.Join(errs...)
			return mapError(logger, combinedErr)
		}
	}
}

func allDetailed(errs []error) bool {
	for _, err := range errs {
		var d huma.ErrorDetailer
		if !stdErrors.As(err, &d) {
			return false
		}
	}
	return true
}
