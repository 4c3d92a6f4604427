package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ember/internal/driver"
	"ember/internal/pipeline"
	"ember/internal/ui"
)

type emitOutcome struct {
	results []driver.KernelResult
	err     error
}

func runEmitWithUI(ctx context.Context, title string, kernels []string, req *driver.Request) ([]driver.KernelResult, error) {
	if req == nil {
		return nil, fmt.Errorf("missing emit request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan emitOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.EmitKernels(ctx, &reqCopy)
		outcomeCh <- emitOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, kernels, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
