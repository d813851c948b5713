package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unidep/pkg/cache"
	"github.com/matzehuels/unidep/pkg/envspec"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/manifest"
	"github.com/matzehuels/unidep/pkg/observability"
	"github.com/matzehuels/unidep/pkg/platform"
	"github.com/matzehuels/unidep/pkg/resolve"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads opts.Files and everything they include, then resolves and
// emits. File results are not cached: manifests change on disk.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Files)
	mopts := opts.ManifestOptions()
	mopts.Logger = func(format string, args ...any) { logger.Debugf(format, args...) }
	reqs, err := manifest.Load(ctx, opts.Files, mopts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Files, specCount(reqs), time.Since(loadStart), err)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded manifests", "files", len(reqs.Files), "specs", len(reqs.Specs), "duration", time.Since(loadStart))

	result, err := r.run(ctx, reqs, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart) - result.Stats.ResolveTime - result.Stats.EmitTime
	return result, nil
}

// ExecuteDocument runs the pipeline on an in-memory manifest. Includes are
// not followed. Results are cached by document content and options unless
// opts.Refresh is set.
func (r *Runner) ExecuteDocument(ctx context.Context, doc *manifest.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "manifest document is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	inputHash, err := cache.HashJSON(struct {
		Doc  *manifest.Document
		Opts manifest.Options
	}{doc, opts.ManifestOptions()})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}
	key := r.Keyer.EnvironmentKey(inputHash, cache.EnvironmentKeyOpts{
		Name:        opts.Name,
		Platforms:   platformStrings(opts.Platforms),
		Selector:    string(opts.Selector),
		PreferConda: opts.PreferConda,
	})

	if !opts.Refresh {
		if cached, ok := r.cached(ctx, key); ok {
			logger.Debug("cache hit", "key", key)
			return cached, nil
		}
	}

	loadStart := time.Now()
	reqs, err := manifest.LoadDocument(doc, opts.ManifestOptions())
	if err != nil {
		return nil, err
	}
	result, err := r.run(ctx, reqs, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart) - result.Stats.ResolveTime - result.Stats.EmitTime

	if data, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLEnvironment); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "env", len(data))
		}
	}
	return result, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "env")
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		observability.Cache().OnCacheMiss(ctx, "env")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "env")
	result.CacheHit = true
	return &result, true
}

// run resolves reqs and emits both outputs.
func (r *Runner) run(ctx context.Context, reqs *manifest.Requirements, opts Options, logger *log.Logger) (*Result, error) {
	platforms := opts.Platforms
	if len(platforms) == 0 {
		platforms = reqs.Platforms
	}
	collector := &resolve.Collector{}
	result := &Result{Files: reqs.Files}
	result.Stats.SpecCount = len(reqs.Specs)

	resolveStart := time.Now()
	observability.Pipeline().OnResolveStart(ctx, len(reqs.ByName()))
	resolved, err := resolve.Resolve(reqs.Specs, resolve.Options{
		Platforms: platforms,
		Observer:  collector,
	})
	result.Stats.ResolveTime = time.Since(resolveStart)
	observability.Pipeline().OnResolveComplete(ctx, len(resolved), len(collector.Warnings()), result.Stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}
	result.Resolved = resolved
	result.Stats.PackageCount = len(resolved)

	emitStart := time.Now()
	observability.Pipeline().OnEmitStart(ctx, "environment")
	env, err := envspec.Create(resolved, reqs.Channels, platforms, envspec.Options{
		Selector:    opts.Selector,
		PreferConda: opts.PreferConda,
		Observer:    collector,
	})
	if err == nil {
		env.Name = opts.Name
		result.Environment = env
		result.Pip, err = envspec.PipDependencies(resolved, platforms)
	}
	result.Stats.EmitTime = time.Since(emitStart)
	observability.Pipeline().OnEmitComplete(ctx, "environment", result.Stats.EmitTime, err)
	if err != nil {
		return nil, err
	}

	result.Warnings = collector.Warnings()
	for _, w := range result.Warnings {
		logger.Warn(w.Message())
	}
	logger.Debug("resolved environment",
		"packages", result.Stats.PackageCount,
		"conda", len(env.Conda),
		"pip", len(env.Pip),
		"warnings", len(result.Warnings))
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func specCount(reqs *manifest.Requirements) int {
	if reqs == nil {
		return 0
	}
	return len(reqs.Specs)
}

func platformStrings(ps []platform.Platform) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
