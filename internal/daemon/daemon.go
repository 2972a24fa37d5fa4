package daemon

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/envelope"
	"github.com/nemberjs/nember/internal/inflect"
	"github.com/nemberjs/nember/internal/shape"
	"github.com/nemberjs/nember/internal/shaping"
	"github.com/nemberjs/nember/internal/store"
)

// Daemon wires the envelope transform, the resource stores and the API server together.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger    hclog.Logger
	apiServer *APIServer
	transform *envelope.Transform
}

// NewDaemon creates a new Daemon instance with the provided dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon dependencies: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	transform, err := newTransform(logger, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope transform: %w", err)
	}

	posts, err := store.NewStore[domain.Post](logger, "post")
	if err != nil {
		return nil, err
	}
	comments, err := store.NewStore[domain.Comment](logger, "comment")
	if err != nil {
		return nil, err
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, transform, posts, comments, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid API dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:    logger,
		apiServer: apiServer,
		transform: transform,
	}, nil
}

// newTransform builds the envelope transform along with its classifier, shaper and meta providers.
func newTransform(logger hclog.Logger, opts Options) (*envelope.Transform, error) {
	classifier, err := shape.NewClassifier()
	if err != nil {
		return nil, err
	}

	pluralizer, err := inflect.NewEnglish(opts.Plurals)
	if err != nil {
		return nil, err
	}

	shaper, err := shaping.NewShaper(logger, pluralizer)
	if err != nil {
		return nil, err
	}

	transform, err := envelope.NewTransform(envelope.Dependencies{
		Logger:     logger,
		Classifier: classifier,
		Markers:    &shape.Markers{},
		Shaper:     shaper,
	}, envelope.WithConventions(opts.Conventions))
	if err != nil {
		return nil, err
	}

	if opts.MetaTotal {
		transform.AddMetaProvider(shaping.TotalProvider())
	}
	if opts.APIVersion != "" {
		transform.AddMetaProvider(shaping.VersionProvider(opts.APIVersion))
	}

	return transform, nil
}

// StartAndManage starts the API server and blocks until the context is canceled or the server fails.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	d.logger.Info("Starting daemon")
	err := d.apiServer.Start(ctx)
	d.logger.Info("Daemon stopped")
	return err
}

// OpenAPI returns the OpenAPI description of the daemon's API.
func (d *Daemon) OpenAPI() (*huma.OpenAPI, error) {
	return d.apiServer.OpenAPI()
}

// IsValidAddr returns an error if the address is not a valid "host:port" string.
func IsValidAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	if port == "" {
		return fmt.Errorf("address missing port")
	}

	// Try parsing port as a number
	if _, err := strconv.Atoi(port); err != nil {
		// Try looking up the named port
		if _, err := net.LookupPort("tcp", port); err != nil {
			return fmt.Errorf("invalid address port: %s", port)
		}
	}

	_ = host // it's ok to accept an empty host (listens on all interfaces)

	return nil
}
