package driver

import (
	"context"
	"strings"
	"testing"

	"ember/internal/manifest"
)

func TestEmitKernelDynamicMul(t *testing.T) {
	k := manifest.Kernel{Name: "prod", Op: manifest.OpMul, Elem: "f32", Shape: []int64{-1, 4}}

	dump, bag, err := EmitKernel(k)
	if err != nil {
		t.Fatalf("EmitKernel: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	for _, want := range []string{
		"func @prod(%v0: memref<?x4xf32>, %v1: memref<?x4xf32>, %v2: memref<?x4xf32>)",
		"dim",        // dynamic dimension size query
		"affine_for", // the loop nest
		"mulf",       // float multiplication, never affine
		"store",      // innermost write
		"return",
	} {
		if !strings.Contains(dump, want) {
			t.Fatalf("dump missing %q:\n%s", want, dump)
		}
	}
	// The terminator must close the function after the loop nest.
	if strings.Index(dump, "affine_for") > strings.Index(dump, "return") {
		t.Fatalf("return precedes the loop nest:\n%s", dump)
	}
	if !strings.HasSuffix(dump, "  return\n}\n") {
		t.Fatalf("dump does not end with the terminator:\n%s", dump)
	}
}

func TestEmitKernelStaticFill(t *testing.T) {
	k := manifest.Kernel{Name: "zero", Op: manifest.OpFill, Elem: "f64", Shape: []int64{2, 3}}

	dump, _, err := EmitKernel(k)
	if err != nil {
		t.Fatalf("EmitKernel: %v", err)
	}
	// Static bounds take the compact constant-loop form; the whole dump
	// is deterministic, so compare it verbatim to catch ordering and
	// nesting regressions.
	want := `func @zero(%v0: memref<2x3xf64>) {
  %v1 = constant 0 : index
  %v2 = constant 1 : index
  %v3 = constant 0 : index
  %v4 = constant 0 : index
  %v5 = constant 2 : index
  %v6 = constant 3 : index
  %v7 = constant 1 : index
  %v8 = constant 1 : index
  %v9 = constant 0 : f64
  affine_for %v10 = 0 to 2 step 1 {
    affine_for %v11 = 0 to 3 step 1 {
      store %v9, %v0, %v10, %v11
    }
  }
  return
}
`
	if dump != want {
		t.Fatalf("dump mismatch:\ngot:\n%s\nwant:\n%s", dump, want)
	}
}

func TestEmitKernelsParallelAndCache(t *testing.T) {
	m, err := manifest.Parse(`
[[kernel]]
name  = "a"
op    = "copy"
elem  = "i32"
shape = [8]

[[kernel]]
name  = "b"
op    = "add"
elem  = "index"
shape = [-1]
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	req := &Request{Manifest: m, Jobs: 2, Cache: cache}
	results, err := EmitKernels(context.Background(), req)
	if err != nil {
		t.Fatalf("EmitKernels: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("kernel %s: %v", r.Name, r.Err)
		}
		if r.Cached {
			t.Fatalf("kernel %s unexpectedly served from a cold cache", r.Name)
		}
	}

	// Second run must be served from the cache with identical dumps.
	again, err := EmitKernels(context.Background(), req)
	if err != nil {
		t.Fatalf("EmitKernels (cached): %v", err)
	}
	for i, r := range again {
		if !r.Cached {
			t.Fatalf("kernel %s missed the cache", r.Name)
		}
		if r.Dump != results[i].Dump {
			t.Fatalf("cached dump differs for %s", r.Name)
		}
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	k := manifest.Kernel{Name: "x", Op: manifest.OpCopy, Elem: "f32", Shape: []int64{4}}

	if _, ok, err := cache.Get(k.Digest()); err != nil || ok {
		t.Fatalf("cold cache Get = ok=%v err=%v", ok, err)
	}
	if err := cache.Put(k.Digest(), k.Name, "func @x() {}\n"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	dump, ok, err := cache.Get(k.Digest())
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok=%v err=%v", ok, err)
	}
	if dump != "func @x() {}\n" {
		t.Fatalf("round-tripped dump = %q", dump)
	}
}
