package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ember/internal/driver"
	"ember/internal/manifest"
	"ember/internal/observ"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] [manifest]",
	Short: "Emit kernels from a manifest",
	Long:  "Emit every kernel declared in an ember.toml manifest as textual IR.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  emitExecution,
}

func init() {
	emitCmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
	emitCmd.Flags().Bool("no-cache", false, "skip the on-disk kernel cache")
	emitCmd.Flags().Int("jobs", 0, "maximum parallel kernels (0 = NumCPU)")
	emitCmd.Flags().String("out", "", "directory for per-kernel dump files (default: stdout)")
}

func emitExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	uiMode, err := parseTriState("ui", uiValue)
	if err != nil {
		return err
	}
	colorMode, err := parseTriState("color", colorValue)
	if err != nil {
		return err
	}
	colorize := colorMode.resolve(os.Stderr)

	manifestPath := "ember.toml"
	if len(args) > 0 {
		manifestPath = args[0]
	}

	timer := observ.NewTimer()

	phase := timer.Begin("load-manifest")
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d kernels", len(m.Kernels)))

	var cache *driver.DiskCache
	if !noCache {
		cache, err = driver.OpenDiskCache("ember")
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "warning: kernel cache unavailable: %v\n", err)
			}
			cache = nil
		}
	}

	req := &driver.Request{
		Manifest: m,
		Jobs:     jobs,
		Cache:    cache,
	}

	names := make([]string, len(m.Kernels))
	for i, k := range m.Kernels {
		names[i] = k.Name
	}

	phase = timer.Begin("emit-kernels")
	var results []driver.KernelResult
	if uiMode.resolve(os.Stdout) {
		results, err = runEmitWithUI(cmd.Context(), "emitting "+m.Package.Name, names, req)
	} else {
		results, err = driver.EmitKernels(cmd.Context(), req)
	}
	timer.End(phase, "")
	if err != nil {
		return err
	}

	phase = timer.Begin("write-output")
	failed := 0
	for _, res := range results {
		res.Bag.Write(os.Stderr, colorize)
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "kernel %s: %v\n", res.Name, res.Err)
			continue
		}
		if outDir != "" {
			path := filepath.Join(outDir, res.Name+".mlir")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(res.Dump), 0o644); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
		} else if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), res.Dump)
		}
	}
	timer.End(phase, "")

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d kernels failed", failed, len(results))
	}
	return nil
}
