package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/importdeps/pkg/cache"
	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
	"github.com/matzehuels/importdeps/pkg/observability"
	"github.com/matzehuels/importdeps/pkg/render/nodelink"
)

const keyTypeArtifact = "artifact"

// RenderOptions configures graph rendering.
type RenderOptions struct {
	Format          nodelink.Format
	HighlightCycles bool
}

// Render produces the graph in opts.Format. DOT output is returned as is;
// other formats go through Graphviz and are cached by DOT content.
// The returned bool reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *dag.Graph, cycles transform.EdgeSet, opts RenderOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = nodelink.FormatDOT
	}
	format := string(opts.Format)

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, format)

	dot := nodelink.ToDOT(g, cycles, nodelink.Options{HighlightCycles: opts.HighlightCycles})
	if opts.Format == nodelink.FormatDOT {
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), nil)
		return []byte(dot), false, nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: format})
	if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), nil)
		return data, true, nil
	} else if err != nil {
		r.Logger.Debug("artifact cache read failed", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	data, err := nodelink.Render(ctx, dot, opts.Format)
	observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Debug("artifact cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}
