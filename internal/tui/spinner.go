package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// progressMsg replaces the spinner message.
type progressMsg string

// doneMsg signals that the work behind the spinner has finished.
type doneMsg struct{}

type spinnerModel struct {
	spinner   spinner.Model
	message   string
	keys      KeyMap
	styles    Styles
	cancel    context.CancelFunc
	cancelled bool
	done      bool
}

func newSpinnerModel(message string, styles Styles, cancel context.CancelFunc) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return spinnerModel{
		spinner: s,
		message: message,
		keys:    DefaultKeyMap(),
		styles:  styles,
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.cancelled {
			m.cancelled = true
			m.message = "Cancelling..."
			m.cancel()
		}
		return m, nil
	case progressMsg:
		if !m.cancelled {
			m.message = string(msg)
		}
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model. The spinner line is cleared once work is done.
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message + " " + m.styles.Muted.Render("("+m.keys.HelpText()+")")
}

// SpinnerOptions configures RunWithSpinner.
type SpinnerOptions struct {
	Message string
	Output  io.Writer
	Input   io.Reader
	Styles  Styles

	// ProgramOptions are appended to the bubbletea options.
	ProgramOptions []tea.ProgramOption
}

// RunWithSpinner runs work while a spinner is drawn on opts.Output.
// work receives a context that is cancelled when the user presses the quit
// key, and a function that replaces the spinner message. RunWithSpinner
// returns once work has returned, with work's error.
func RunWithSpinner(ctx context.Context, opts SpinnerOptions, work func(ctx context.Context, update func(string)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := append([]tea.ProgramOption{
		tea.WithOutput(opts.Output),
		tea.WithInput(opts.Input),
	}, opts.ProgramOptions...)
	p := tea.NewProgram(newSpinnerModel(opts.Message, opts.Styles, cancel), programOpts...)

	var workErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		workErr = work(ctx, func(msg string) { p.Send(progressMsg(msg)) })
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		if workErr != nil {
			return workErr
		}
		return fmt.Errorf("spinner failed: %w", err)
	}
	<-finished
	return workErr
}
