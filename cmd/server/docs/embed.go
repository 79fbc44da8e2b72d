package docs

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
)

//go:embed swagger.json
var swaggerJSON []byte

// SwaggerSpec is the subset of swagger.json the index page reads.
type SwaggerSpec struct {
	Paths map[string]map[string]PathInfo `json:"paths"`
}

// PathInfo describes one operation on a path.
type PathInfo struct {
	Summary     string                `json:"summary"`
	Description string                `json:"description"`
	Tags        []string              `json:"tags"`
	Security    []map[string][]string `json:"security,omitempty"`
}

// Endpoint is a single method and path pair.
type Endpoint struct {
	Method string
	Path   string
	PathInfo
}

// Protected reports whether the operation needs a bearer token.
func (e Endpoint) Protected() bool {
	return len(e.Security) > 0
}

// GetSwaggerSpec returns the parsed swagger specification
func GetSwaggerSpec() (*SwaggerSpec, error) {
	var spec SwaggerSpec
	if err := json.Unmarshal(swaggerJSON, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Endpoints flattens the document, sorted by path then method.
func (s *SwaggerSpec) Endpoints() []Endpoint {
	var out []Endpoint
	for path, methods := range s.Paths {
		for method, info := range methods {
			out = append(out, Endpoint{Method: strings.ToUpper(method), Path: path, PathInfo: info})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}
