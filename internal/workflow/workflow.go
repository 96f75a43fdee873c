// Package workflow holds the state behind the resume view: the selected
// resume, the job description inputs, the in-flight request and the latest
// result. It has no UI dependencies; the TUI and the one-shot commands both
// drive it.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/amishk599/resumelens/internal/inflight"
	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/report"
)

// Phase is where the view is in its request cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

var (
	// ErrRequestFailed is surfaced for transport failures. The cause is logged.
	ErrRequestFailed = errors.New("request failed")

	// ErrSuperseded is returned when a request settles after being cancelled
	// by a newer selection. Its outcome has been discarded.
	ErrSuperseded = errors.New("request superseded")

	// ErrNoReport is returned by DownloadReport without a successful result.
	ErrNoReport = errors.New("run an analysis first")

	// ErrBusy is returned when an action is triggered while a request is outstanding.
	ErrBusy = inflight.ErrBusy
)

// ValidationError is a client-side precondition failure. No request was sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Workflow owns the transient state of one resume view. It is safe for use
// from the UI loop and from request goroutines.
type Workflow struct {
	api       model.AnalysisAPI
	history   model.HistoryStore
	guard     *inflight.Guard
	strictPDF bool
	logger    *slog.Logger

	mu     sync.Mutex
	resume *model.ResumeFile
	job    model.JobInput
	result *model.AnalysisResult
}

// New creates a workflow. strictPDF makes Analyze reject resumes whose name
// does not end in ".pdf" before any request is sent.
func New(api model.AnalysisAPI, history model.HistoryStore, strictPDF bool, logger *slog.Logger) *Workflow {
	return &Workflow{
		api:       api,
		history:   history,
		guard:     inflight.NewGuard(),
		strictPDF: strictPDF,
		logger:    logger,
	}
}

// Submission is a validated request that has been admitted but not yet sent.
type Submission struct {
	Action model.Action
	Resume model.ResumeFile
	Job    model.JobInput

	ctx    context.Context
	ticket inflight.Ticket
}

// SelectResume replaces the current resume and clears the result. A request
// still in flight is cancelled and its response will be discarded.
func (w *Workflow) SelectResume(f model.ResumeFile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.guard.Cancel()
	w.resume = &f
	w.result = nil
}

// SetJobText updates the pasted job description.
func (w *Workflow) SetJobText(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.job.Text = s
}

// SetJobURL updates the job posting URL.
func (w *Workflow) SetJobURL(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.job.URL = s
}

// Analyze validates, sends and settles an analyze request.
func (w *Workflow) Analyze(ctx context.Context) (model.AnalysisResult, error) {
	sub, err := w.BeginAnalyze(ctx)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return w.Send(sub)
}

// Compare validates, sends and settles a compare request.
func (w *Workflow) Compare(ctx context.Context) (model.AnalysisResult, error) {
	sub, err := w.BeginCompare(ctx)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return w.Send(sub)
}

// BeginAnalyze checks the analyze preconditions and marks the workflow as
// loading. The returned submission must be passed to Send.
func (w *Workflow) BeginAnalyze(ctx context.Context) (*Submission, error) {
	w.mu.Lock()
	resume := w.resume
	w.mu.Unlock()

	if err := w.checkResume(resume); err != nil {
		return nil, err
	}
	return w.admit(ctx, model.ActionAnalyze, *resume, model.JobInput{})
}

// BeginCompare checks the compare preconditions and marks the workflow as
// loading. The returned submission must be passed to Send.
func (w *Workflow) BeginCompare(ctx context.Context) (*Submission, error) {
	w.mu.Lock()
	resume := w.resume
	job := w.job
	w.mu.Unlock()

	if resume == nil {
		return nil, &ValidationError{Msg: "Upload your resume first."}
	}
	if job.Empty() {
		return nil, &ValidationError{Msg: "Paste a job description or provide a job URL."}
	}
	return w.admit(ctx, model.ActionCompare, *resume, job.Trimmed())
}

func (w *Workflow) checkResume(resume *model.ResumeFile) error {
	if resume == nil || (w.strictPDF && !resume.HasPDFExtension()) {
		return &ValidationError{Msg: "Please upload a PDF resume."}
	}
	return nil
}

func (w *Workflow) admit(ctx context.Context, action model.Action, resume model.ResumeFile, job model.JobInput) (*Submission, error) {
	ticket, reqCtx, err := w.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	// Loading hides the previous result.
	w.mu.Lock()
	w.result = nil
	w.mu.Unlock()

	return &Submission{
		Action: action,
		Resume: resume,
		Job:    job,
		ctx:    reqCtx,
		ticket: ticket,
	}, nil
}

// Send performs the network call for sub and settles it. Server-reported
// failures come back as an error-variant result with a nil error.
func (w *Workflow) Send(sub *Submission) (model.AnalysisResult, error) {
	var (
		res model.AnalysisResult
		err error
	)
	switch sub.Action {
	case model.ActionAnalyze:
		res, err = w.api.Analyze(sub.ctx, sub.Resume)
	case model.ActionCompare:
		res, err = w.api.Compare(sub.ctx, sub.Resume, sub.Job)
	default:
		err = fmt.Errorf("unknown action %q", sub.Action)
	}

	// Settle under mu so a concurrent SelectResume either supersedes this
	// request or runs after its result is stored, never in between.
	w.mu.Lock()
	current := w.guard.Release(sub.ticket)
	if current && err == nil {
		w.result = &res
	}
	w.mu.Unlock()

	if !current {
		w.logger.Debug("discarding superseded response", "action", sub.Action, "resume", sub.Resume.Name)
		return model.AnalysisResult{}, ErrSuperseded
	}

	if err != nil {
		w.logger.Error("request failed", "action", sub.Action, "resume", sub.Resume.Name, "error", err)
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	w.record(sub, res)
	return res, nil
}

func (w *Workflow) record(sub *Submission, res model.AnalysisResult) {
	entry := model.HistoryEntry{
		Action:     sub.Action,
		ResumeName: sub.Resume.Name,
		Status:     res.Status,
		Summary:    res.Summary,
		Similarity: res.Data.SimilarityPercentage,
	}
	if !res.Succeeded() {
		entry.Summary = res.Message
	}
	if err := w.history.Record(entry); err != nil {
		w.logger.Warn("failed to record history", "error", err)
	}
}

// DownloadReport writes the report for the current successful result into
// dir and returns the file path.
func (w *Workflow) DownloadReport(dir string) (string, error) {
	w.mu.Lock()
	res := w.result
	w.mu.Unlock()

	if res == nil || !res.Succeeded() {
		return "", ErrNoReport
	}

	path := filepath.Join(dir, report.FileName)
	if err := report.Save(path, *res); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	w.logger.Info("report saved", "path", path)
	return path, nil
}

// Result returns the live result, if any.
func (w *Workflow) Result() (model.AnalysisResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return model.AnalysisResult{}, false
	}
	return *w.result, true
}

// Resume returns the selected resume, if any.
func (w *Workflow) Resume() (model.ResumeFile, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resume == nil {
		return model.ResumeFile{}, false
	}
	return *w.resume, true
}

// Job returns the current job description inputs, untrimmed.
func (w *Workflow) Job() model.JobInput {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.job
}

// Loading reports whether a request is outstanding.
func (w *Workflow) Loading() bool {
	return w.guard.Busy()
}

// Phase derives the current phase from the request and result state.
func (w *Workflow) Phase() Phase {
	if w.Loading() {
		return PhaseLoading
	}
	res, ok := w.Result()
	switch {
	case !ok:
		return PhaseIdle
	case res.Succeeded():
		return PhaseSuccess
	default:
		return PhaseError
	}
}
