package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/unidep/pkg/buildinfo"
	"github.com/matzehuels/unidep/pkg/envspec"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/manifest"
	"github.com/matzehuels/unidep/pkg/pipeline"
	"github.com/matzehuels/unidep/pkg/platform"
	"github.com/matzehuels/unidep/pkg/resolve"
)

// ResolveRequest is the body of POST /v1/resolve and POST /v1/pip.
type ResolveRequest struct {
	Document         string   `json:"document"`         // requirements.yaml or [tool.unidep] text
	Format           string   `json:"format,omitempty"` // "yaml" (default) or "toml"
	Name             string   `json:"name,omitempty"`
	Platforms        []string `json:"platforms,omitempty"`
	Selector         string   `json:"selector,omitempty"`
	PreferConda      bool     `json:"prefer_conda,omitempty"`
	IgnorePins       []string `json:"ignore_pins,omitempty"`
	OverwritePins    []string `json:"overwrite_pins,omitempty"`
	SkipDependencies []string `json:"skip_dependencies,omitempty"`
	Extras           []string `json:"extras,omitempty"`
	Refresh          bool     `json:"refresh,omitempty"`
}

// WarningResponse is a resolution warning with its rendered message.
type WarningResponse struct {
	resolve.Warning
	Message string `json:"message"`
}

// ResolveResponse is the body returned by POST /v1/resolve.
type ResolveResponse struct {
	Environment     *envspec.Environment `json:"environment"`
	EnvironmentYAML string               `json:"environment_yaml"`
	Pip             []string             `json:"pip"`
	Warnings        []WarningResponse    `json:"warnings"`
	CacheHit        bool                 `json:"cache_hit"`
}

// PipResponse is the body returned by POST /v1/pip.
type PipResponse struct {
	Pip      []string          `json:"pip"`
	Warnings []WarningResponse `json:"warnings"`
}

// PlatformInfo describes one row of the platform table.
type PlatformInfo struct {
	Platform  platform.Platform   `json:"platform"`
	Class     platform.Class      `json:"class"`
	Selectors []platform.Selector `json:"selectors"`
	Marker    string              `json:"marker"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	tbl := platform.Default()
	out := make([]PlatformInfo, 0, len(tbl.All()))
	for _, p := range tbl.All() {
		out = append(out, PlatformInfo{
			Platform:  p,
			Class:     tbl.Class(p),
			Selectors: tbl.Selectors(p),
			Marker:    tbl.Marker([]platform.Platform{p}),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	result, err := s.execute(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := result.Environment.Bytes(envspec.Header{Version: buildinfo.Version})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{
		Environment:     result.Environment,
		EnvironmentYAML: string(text),
		Pip:             nonNil(result.Pip),
		Warnings:        warnings(result),
		CacheHit:        result.CacheHit,
	})
}

func (s *Server) handlePip(w http.ResponseWriter, r *http.Request) {
	result, err := s.execute(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PipResponse{
		Pip:      nonNil(result.Pip),
		Warnings: warnings(result),
	})
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) (*pipeline.Result, error) {
	var req ResolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	doc, err := parseDocument(req)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		IgnorePins:       req.IgnorePins,
		OverwritePins:    req.OverwritePins,
		SkipDependencies: req.SkipDependencies,
		Extras:           req.Extras,
		Name:             req.Name,
		Selector:         envspec.SelectorStyle(req.Selector),
		PreferConda:      req.PreferConda,
		Refresh:          req.Refresh,
		Logger:           s.logger.With("request_id", RequestID(r.Context())),
	}
	for _, p := range req.Platforms {
		opts.Platforms = append(opts.Platforms, platform.Platform(p))
	}
	if len(opts.Platforms) == 0 {
		opts.Platforms = doc.Platforms
	}
	return s.runner.ExecuteDocument(r.Context(), doc, opts)
}

func parseDocument(req ResolveRequest) (*manifest.Document, error) {
	if req.Document == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	var parser manifest.Parser
	var name string
	switch req.Format {
	case "", "yaml":
		parser, name = manifest.YAMLParser{}, manifest.RequirementsFile
	case "toml":
		parser, name = manifest.TOMLParser{}, manifest.PyprojectFile
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: yaml, toml)", req.Format)
	}
	doc, err := parser.Parse(name, []byte(req.Document))
	if err != nil {
		return nil, err
	}
	if len(doc.Includes) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "includes cannot be resolved for a posted document")
	}
	return doc, nil
}

func warnings(result *pipeline.Result) []WarningResponse {
	out := make([]WarningResponse, len(result.Warnings))
	for i, w := range result.Warnings {
		out[i] = WarningResponse{Warning: w, Message: w.Message()}
	}
	return out
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
