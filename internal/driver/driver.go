package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"ember/internal/diag"
	"ember/internal/manifest"
	"ember/internal/pipeline"
)

// Request configures a manifest emission run.
type Request struct {
	Manifest *manifest.Manifest
	// Jobs bounds kernel parallelism; <=0 means NumCPU.
	Jobs int
	// Cache is consulted and filled when non-nil.
	Cache *DiskCache
	// Progress receives per-kernel events; nil means no reporting.
	Progress pipeline.ProgressSink
}

// KernelResult is the outcome for one kernel, in manifest order.
type KernelResult struct {
	Name   string
	Dump   string
	Cached bool
	Bag    *diag.Bag
	Err    error
}

// EmitKernels processes every manifest kernel, in parallel up to Jobs.
// Each kernel gets its own emitter, so parallelism never shares a
// binding table. Per-kernel failures land in the result, not in the
// returned error; the error reports run-level problems only.
func EmitKernels(ctx context.Context, req *Request) ([]KernelResult, error) {
	if req == nil || req.Manifest == nil {
		return nil, fmt.Errorf("driver: missing manifest")
	}
	sink := req.Progress
	if sink == nil {
		sink = pipeline.NopSink{}
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]KernelResult, len(req.Manifest.Kernels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, k := range req.Manifest.Kernels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = emitOne(k, req.Cache, sink)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func emitOne(k manifest.Kernel, cache *DiskCache, sink pipeline.ProgressSink) KernelResult {
	start := time.Now()

	if cache != nil {
		if dump, ok, err := cache.Get(k.Digest()); err == nil && ok {
			sink.OnEvent(pipeline.Event{
				Kernel: k.Name, Stage: pipeline.StageEmit,
				Status: pipeline.StatusCached, Elapsed: time.Since(start),
			})
			return KernelResult{Name: k.Name, Dump: dump, Cached: true}
		}
	}

	sink.OnEvent(pipeline.Event{Kernel: k.Name, Stage: pipeline.StageBuild, Status: pipeline.StatusWorking})
	dump, bag, err := EmitKernel(k)
	if err != nil {
		sink.OnEvent(pipeline.Event{
			Kernel: k.Name, Stage: pipeline.StageEmit,
			Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start),
		})
		return KernelResult{Name: k.Name, Bag: bag, Err: err}
	}

	if cache != nil {
		// Best effort: a failed write never fails the kernel.
		_ = cache.Put(k.Digest(), k.Name, dump)
	}
	sink.OnEvent(pipeline.Event{
		Kernel: k.Name, Stage: pipeline.StageDump,
		Status: pipeline.StatusDone, Elapsed: time.Since(start),
	})
	return KernelResult{Name: k.Name, Dump: dump, Bag: bag}
}
