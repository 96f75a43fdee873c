// Package tui is the interactive resume view: pick a resume, paste or link a
// job description, run an analysis or comparison, and export the report.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/resume"
	"github.com/amishk599/resumelens/internal/workflow"
)

type screen int

const (
	screenMain screen = iota
	screenPicker
)

type focus int

const (
	focusNone focus = iota
	focusJobText
	focusJobURL
)

// Fixed rows above and below the result pane: title, resume line, job text
// box, job URL box, alert line, result border and status bar.
const chromeHeight = 17

const genericFailure = "Something went wrong. Please try again."

// resumeLoadedMsg is sent when a picked file has been read from disk.
type resumeLoadedMsg struct {
	file       model.ResumeFile
	info       resume.Info
	inspectErr error
	err        error
}

// resultMsg is sent when a submitted request settles.
type resultMsg struct {
	res model.AnalysisResult
	err error
}

// Options configures the view.
type Options struct {
	StrictPDF bool   // restrict the picker to .pdf files
	OutputDir string // where DownloadReport writes
	StartDir  string // initial picker directory
}

// Model is the bubbletea model for the resume view.
type Model struct {
	wf   *workflow.Workflow
	opts Options

	screen screen
	focus  focus

	picker  filepicker.Model
	jobText textarea.Model
	jobURL  textinput.Model
	spinner spinner.Model
	result  viewport.Model

	width  int
	height int

	info       *resume.Info
	inspectErr error
	showRaw    bool
	alert      string
	notice     string
}

// New builds the view around wf.
func New(wf *workflow.Workflow, opts Options) Model {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	fp := filepicker.New()
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}
	if opts.StrictPDF {
		fp.AllowedTypes = []string{".pdf"}
	}

	ta := textarea.New()
	ta.Placeholder = "Paste the job description here"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.SetWidth(76)

	ti := textinput.New()
	ti.Placeholder = "https://example.com/jobs/123"
	ti.Width = 74

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		wf:      wf,
		opts:    opts,
		picker:  fp,
		jobText: ta,
		jobURL:  ti,
		spinner: sp,
		result:  viewport.New(78, 20),
		width:   80,
		height:  20 + chromeHeight,
	}
	m.refreshResult()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case resumeLoadedMsg:
		if msg.err != nil {
			m.alert = fmt.Sprintf("Could not read resume: %v", msg.err)
			return m, nil
		}
		wasLoading := m.wf.Loading()
		m.wf.SelectResume(msg.file)
		m.info = &msg.info
		m.inspectErr = msg.inspectErr
		m.alert = ""
		m.notice = ""
		if wasLoading {
			m.notice = "Previous request cancelled."
		}
		m.refreshResult()
		return m, nil

	case resultMsg:
		if errors.Is(msg.err, workflow.ErrSuperseded) {
			return m, nil
		}
		if msg.err != nil {
			m.alert = alertFor(msg.err)
		}
		m.refreshResult()
		return m, nil

	case spinner.TickMsg:
		if !m.wf.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenPicker {
			return m.updatePicker(msg)
		}
		return m.updateMain(msg)
	}

	// The picker reads directories asynchronously and the inputs blink.
	if m.screen == screenPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m.updateFocused(msg)
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		m.screen = screenMain
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.screen = screenMain
		return m, tea.Batch(cmd, loadResumeCmd(path))
	}
	if ok, _ := m.picker.DidSelectDisabledFile(msg); ok {
		m.alert = "Please upload a PDF resume."
	}
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.focus != focusNone {
		switch key {
		case "esc":
			return m, m.setFocus(focusNone)
		case "tab":
			next := focusJobURL
			if m.focus == focusJobURL {
				next = focusJobText
			}
			return m, m.setFocus(next)
		}
		return m.updateFocused(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		return m, m.setFocus(focusJobText)
	case "f":
		m.alert = ""
		m.screen = screenPicker
		return m, m.picker.Init()
	case "a":
		return m.submit(m.wf.BeginAnalyze)
	case "c":
		return m.submit(m.wf.BeginCompare)
	case "d":
		m.alert, m.notice = "", ""
		path, err := m.wf.DownloadReport(m.opts.OutputDir)
		if err != nil {
			m.alert = alertFor(err)
			return m, nil
		}
		m.notice = "Report saved to " + path
		return m, nil
	case "j":
		m.showRaw = !m.showRaw
		m.refreshResult()
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusJobText:
		m.jobText, cmd = m.jobText.Update(msg)
		m.wf.SetJobText(m.jobText.Value())
	case focusJobURL:
		m.jobURL, cmd = m.jobURL.Update(msg)
		m.wf.SetJobURL(m.jobURL.Value())
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.jobText.Blur()
	m.jobURL.Blur()
	switch f {
	case focusJobText:
		return m.jobText.Focus()
	case focusJobURL:
		return m.jobURL.Focus()
	}
	return nil
}

func (m Model) submit(begin func(context.Context) (*workflow.Submission, error)) (tea.Model, tea.Cmd) {
	m.alert, m.notice = "", ""
	sub, err := begin(context.Background())
	if err != nil {
		m.alert = alertFor(err)
		return m, nil
	}
	m.refreshResult()
	return m, tea.Batch(m.spinner.Tick, sendCmd(m.wf, sub))
}

func sendCmd(wf *workflow.Workflow, sub *workflow.Submission) tea.Cmd {
	return func() tea.Msg {
		res, err := wf.Send(sub)
		return resultMsg{res: res, err: err}
	}
}

func loadResumeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := resume.Load(path)
		if err != nil {
			return resumeLoadedMsg{err: err}
		}
		info, inspectErr := resume.Inspect(f)
		return resumeLoadedMsg{file: f, info: info, inspectErr: inspectErr}
	}
}

// alertFor maps an action error to the line shown to the user.
func alertFor(err error) string {
	var verr *workflow.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Msg
	case errors.Is(err, workflow.ErrBusy):
		return "A request is already in progress."
	case errors.Is(err, workflow.ErrNoReport):
		return "No successful analysis to export. Run an analysis first."
	case errors.Is(err, workflow.ErrRequestFailed):
		return genericFailure
	default:
		return err.Error()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	inner := max(width-4, 20)
	m.jobText.SetWidth(inner)
	m.jobURL.Width = max(inner-2, 10)
	m.result.Width = max(width-2, 20)
	m.result.Height = max(height-chromeHeight, 5)
	m.refreshResult()
}

func (m *Model) refreshResult() {
	var content string
	res, ok := m.wf.Result()
	switch {
	case m.wf.Loading():
		content = ""
	case ok:
		content = RenderResult(res, m.result.Width, m.showRaw)
	default:
		content = hintStyle.Render("Press f to choose a resume, then a to analyze it or c to compare it with a job description.")
	}
	m.result.SetContent(content)
	m.result.GotoTop()
}

func (m Model) View() string {
	if m.screen == screenPicker {
		return m.viewPicker()
	}
	return m.viewMain()
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a resume") + "\n\n")
	b.WriteString(m.picker.View() + "\n")
	if m.alert != "" {
		b.WriteString(alertStyle.Render("⚠ "+m.alert) + "\n")
	}
	b.WriteString(statusBarStyle.Width(m.width).Render(" ↑/↓ move  enter open/select  ←/esc up a directory  q back"))
	return b.String()
}

func (m Model) viewMain() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Resume Analyzer") + "\n")

	b.WriteString(labelStyle.Render("Resume"))
	b.WriteString(m.resumeLine() + "\n")

	border := func(f focus) lipgloss.Style {
		if m.focus == f {
			return activeBorderStyle
		}
		return inactiveBorderStyle
	}
	b.WriteString(border(focusJobText).Render(m.jobText.View()) + "\n")
	b.WriteString(border(focusJobURL).Render(m.jobURL.View()) + "\n")

	switch {
	case m.wf.Loading():
		b.WriteString(m.spinner.View() + " Analyzing...\n")
	case m.alert != "":
		b.WriteString(alertStyle.Render("⚠ "+m.alert) + "\n")
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(inactiveBorderStyle.Render(m.result.View()) + "\n")

	status := " f resume  tab edit job  a analyze  c compare  d report  j raw  q quit"
	if m.focus != focusNone {
		status = " tab next field  esc done"
	}
	b.WriteString(statusBarStyle.Width(m.width).Render(status))
	return b.String()
}

func (m Model) resumeLine() string {
	f, ok := m.wf.Resume()
	if !ok {
		return hintStyle.Render("no file selected (press f)")
	}
	line := valueStyle.Render(f.Name)
	if m.info == nil {
		return line
	}
	details := formatSize(m.info.Size)
	if m.inspectErr != nil {
		details += ", not a readable PDF"
	} else if m.info.Pages == 1 {
		details += ", 1 page"
	} else {
		details += fmt.Sprintf(", %d pages", m.info.Pages)
	}
	return line + hintStyle.Render(" ("+details+")")
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Run launches the resume view on the alternate screen.
func Run(wf *workflow.Workflow, opts Options) error {
	p := tea.NewProgram(New(wf, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
