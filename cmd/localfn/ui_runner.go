package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"localfn/internal/driver"
	"localfn/internal/ui"
)

type bindOutcome struct {
	result *driver.BindResult
	err    error
}

// runBindWithUI runs Bind in the background and renders its progress
// events until the run finishes.
func runBindWithUI(ctx context.Context, title string, files []string, opts driver.BindOptions) (*driver.BindResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan bindOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Bind(ctx, files, opts)
		outcomeCh <- bindOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы Bind не застрял на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
