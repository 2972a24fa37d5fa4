package api

import (
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nemberjs/nember/internal/contracts"
	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/envelope"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// RouteDependencies contains what the API routes are served from.
type RouteDependencies struct {
	Transform *envelope.Transform
	Posts     contracts.Repository[domain.Post]
	Comments  contracts.Repository[domain.Comment]
	Started   time.Time
}

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(router huma.API, deps RouteDependencies) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if deps.Transform == nil {
		return "", fmt.Errorf("envelope transform cannot be nil")
	}
	if deps.Posts == nil || reflect.ValueOf(deps.Posts).IsNil() {
		return "", fmt.Errorf("post repository cannot be nil")
	}
	if deps.Comments == nil || reflect.ValueOf(deps.Comments).IsNil() {
		return "", fmt.Errorf("comment repository cannot be nil")
	}

	ops, err := NewOperations(deps.Transform)
	if err != nil {
		return "", err
	}

	// Request bodies decoded through the envelope transform.
	registry := deps.Transform.Registry()
	envelope.Register[Post](registry)
	envelope.Register[Comment](registry)

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterHealthRoutes(versionedGroup, ops, deps.Started, "/health")
	RegisterPostRoutes(versionedGroup, ops, deps.Posts, deps.Comments, "/posts")
	RegisterDiagnosticsRoutes(versionedGroup, ops, deps.Transform, deps.Posts, deps.Comments, "")

	return apiPathPrefix, nil
}
