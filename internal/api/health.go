package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// HealthStatusOK is reported while the API is serving requests.
const HealthStatusOK = "ok"

// HealthResponse is the response for GET /health.
// The body is an ad-hoc record, so it is never enveloped.
type HealthResponse struct {
	Body struct {
		Status string `doc:"Status of the API"             json:"status" yaml:"status"`
		Uptime string `doc:"Time since the API was started" json:"uptime" yaml:"uptime"`
	}
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, ops *Operations, started time.Time, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	Register(
		healthAPI,
		ops,
		huma.Operation{
			OperationID: "getHealth",
			Method:      http.MethodGet,
			Summary:     "Get the health status of the API",
			Tags:        []string{"Health"},
		},
		func(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
			return handleHealth(started, time.Now()), nil
		},
	)
}

// handleHealth is the handler for retrieving the current health of the API.
func handleHealth(started time.Time, now time.Time) *HealthResponse {
	resp := &HealthResponse{}
	resp.Body.Status = HealthStatusOK
	resp.Body.Uptime = now.Sub(started).Truncate(time.Second).String()
	return resp
}
