package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/contracts"
	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/envelope"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8090").
	Addr string

	// Transform envelopes response bodies and unwraps request bodies.
	Transform *envelope.Transform

	// Posts stores the posts served by the API.
	Posts contracts.Repository[domain.Post]

	// Comments stores the comments served by the API.
	Comments contracts.Repository[domain.Comment]

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	transform *envelope.Transform,
	posts contracts.Repository[domain.Post],
	comments contracts.Repository[domain.Comment],
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:      addr,
		Transform: transform,
		Posts:     posts,
		Comments:  comments,
		Logger:    logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := IsValidAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Transform == nil {
		return fmt.Errorf("envelope transform cannot be nil")
	}
	if d.Posts == nil || reflect.ValueOf(d.Posts).IsNil() {
		return fmt.Errorf("post repository cannot be nil")
	}
	if d.Comments == nil || reflect.ValueOf(d.Comments).IsNil() {
		return fmt.Errorf("comment repository cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
