package tui

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/resumelens/internal/model"
)

// ErrCancelled is returned by RunLoader when the user interrupts the wait.
var ErrCancelled = errors.New("cancelled")

type loadDoneMsg struct {
	res model.AnalysisResult
	err error
}

type loaderModel struct {
	label   string
	run     func(ctx context.Context) (model.AnalysisResult, error)
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model
	result  model.AnalysisResult
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doRun(), m.spinner.Tick)
}

func (m loaderModel) doRun() tea.Cmd {
	run, ctx := m.run, m.ctx
	return func() tea.Msg {
		res, err := run(ctx)
		return loadDoneMsg{res: res, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.result = msg.res
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// RunLoader shows a spinner on stderr while run executes. It renders inline
// (no alt screen) so the printed result stays in the scrollback.
func RunLoader(ctx context.Context, label string, run func(ctx context.Context) (model.AnalysisResult, error)) (model.AnalysisResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	m := loaderModel{
		label:   label,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
		spinner: sp,
	}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return model.AnalysisResult{}, err
	}
	lm := final.(loaderModel)
	return lm.result, lm.err
}
