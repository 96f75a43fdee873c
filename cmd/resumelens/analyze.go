package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/report"
	"github.com/amishk599/resumelens/internal/resume"
	"github.com/amishk599/resumelens/internal/tui"
	"github.com/amishk599/resumelens/internal/workflow"
)

var (
	analyzeReportDir string
	analyzeRaw       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume>",
	Short: "Analyze a resume on its own",
	Long:  "Uploads the resume to the analyze endpoint, prints the result and optionally saves the PDF report.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeReportDir, "report", "", "save "+report.FileName+" into this directory")
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "also print the raw data payload")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := newSession(os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := resume.Load(args[0])
	if err != nil {
		return err
	}
	s.wf.SelectResume(f)

	return runOneShot(cmd, s, "Analyzing "+f.Name+"...", s.wf.Analyze, analyzeReportDir, analyzeRaw)
}

// runOneShot runs submit behind a spinner, prints the rendered result and
// optionally saves the report. Validation, transport and server-reported
// failures all produce an error so the process exits non-zero.
func runOneShot(cmd *cobra.Command, s *session, label string, submit func(context.Context) (model.AnalysisResult, error), reportDir string, raw bool) error {
	res, err := tui.RunLoader(cmd.Context(), label, submit)
	if err != nil {
		var verr *workflow.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Msg)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tui.RenderResult(res, 80, raw))
	if !res.Succeeded() {
		return errReported
	}

	if reportDir != "" {
		path, err := s.wf.DownloadReport(reportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport saved to %s\n", path)
	}
	return nil
}
