package api

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nemberjs/nember/internal/contracts"
	"github.com/nemberjs/nember/internal/domain"
	"github.com/nemberjs/nember/internal/envelope"
	"github.com/nemberjs/nember/internal/errors"
	"github.com/nemberjs/nember/internal/filter"
)

// TypeVerdict describes how the envelope transform treats a body type.
type TypeVerdict struct {
	Type     string `doc:"Go type of the body"                             json:"type"           yaml:"type"`
	Envelope bool   `doc:"Whether values of the type are enveloped"        json:"envelope"       yaml:"envelope"`
	Root     string `doc:"Root key of the envelope"                        json:"root,omitempty" yaml:"root,omitempty"`
	Readable bool   `doc:"Whether enveloped request bodies can be decoded" json:"readable"       yaml:"readable"`
}

// ClassifyRequest represents the incoming request for type verdicts.
type ClassifyRequest struct {
	Type     string `doc:"Only report types whose name contains this value (case-insensitive)" example:"Post" query:"type"`
	Envelope string `doc:"Only report types that are (true) or are not (false) enveloped"     example:"true" query:"envelope"`
}

// filters returns the request's query filters keyed by matcher name.
func (r *ClassifyRequest) filters() map[string]string {
	return map[string]string{
		"type":     r.Type,
		"envelope": r.Envelope,
	}
}

// verdictMatchers are the query filters supported when classifying body types.
var verdictMatchers = filter.WithMatchers(map[string]filter.Predicate[TypeVerdict]{
	"type":     filter.Partial(func(v TypeVerdict) string { return v.Type }),
	"envelope": filter.EqualsBool(func(v TypeVerdict) bool { return v.Envelope }),
})

// ClassifyResponse represents the wrapped API response for a list of type verdicts.
type ClassifyResponse struct {
	Body []TypeVerdict
}

// StatsResponse is the response for GET /stats.
// The body is an ad-hoc record, so it is never enveloped.
type StatsResponse struct {
	Body struct {
		Posts    int `doc:"Number of stored posts"    json:"posts"    yaml:"posts"`
		Comments int `doc:"Number of stored comments" json:"comments" yaml:"comments"`
	}
}

// RegisterDiagnosticsRoutes sets up the classification and statistics routes.
func RegisterDiagnosticsRoutes(
	routerAPI huma.API,
	ops *Operations,
	transform *envelope.Transform,
	posts contracts.Repository[domain.Post],
	comments contracts.Repository[domain.Comment],
	apiPathPrefix string,
) {
	diagnosticsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Diagnostics"}

	Register(
		diagnosticsAPI,
		ops,
		huma.Operation{
			OperationID: "classifyTypes",
			Method:      http.MethodGet,
			Path:        "/classify",
			Summary:     "Report how body types are enveloped",
			Tags:        tags,
		},
		func(ctx context.Context, input *ClassifyRequest) (*ClassifyResponse, error) {
			return handleClassify(transform, ops, input.filters())
		},
	)

	Register(
		diagnosticsAPI,
		ops,
		huma.Operation{
			OperationID: "getStats",
			Method:      http.MethodGet,
			Path:        "/stats",
			Summary:     "Count stored resources",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
			resp := &StatsResponse{}
			resp.Body.Posts = posts.Len()
			resp.Body.Comments = comments.Len()
			return resp, nil
		},
	)
}

// handleClassify reports the verdict of every registered body type matching filters.
func handleClassify(transform *envelope.Transform, ops *Operations, filters map[string]string) (*ClassifyResponse, error) {
	verdicts := make([]TypeVerdict, 0)
	for _, t := range ops.BodyTypes() {
		v, err := classify(transform, t)
		if err != nil {
			return nil, err
		}

		ok, err := filter.Match(v, filters, verdictMatchers)
		if err != nil {
			return nil, err
		}
		if ok {
			verdicts = append(verdicts, v)
		}
	}

	if len(verdicts) == 0 && filter.Active(filters) {
		return nil, fmt.Errorf("%w: no body type matches the filters", errors.ErrResourceNotFound)
	}

	return &ClassifyResponse{Body: verdicts}, nil
}

func classify(transform *envelope.Transform, t reflect.Type) (TypeVerdict, error) {
	enveloped, err := transform.ShouldEnvelope(t)
	if err != nil {
		return TypeVerdict{}, err
	}

	v := TypeVerdict{Type: t.String(), Envelope: enveloped}
	if enveloped {
		v.Root = transform.RootKey(t)
		_, v.Readable = transform.Registry().Lookup(t)
	}
	return v, nil
}
