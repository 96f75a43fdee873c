package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/amishk599/resumelens/internal/model"
)

// maxErrorBody caps how much of an unexpected response body is kept for logging.
const maxErrorBody = 512

// Ensure Client implements model.AnalysisAPI.
var _ model.AnalysisAPI = (*Client)(nil)

// Client submits resumes to the analysis backend over multipart POST requests.
type Client struct {
	baseURL    string
	contract   Contract
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the backend at baseURL speaking the given contract.
func New(baseURL string, contract Contract, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		contract:   contract,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Analyze uploads the resume alone to the analyze endpoint.
func (c *Client) Analyze(ctx context.Context, resume model.ResumeFile) (model.AnalysisResult, error) {
	body, contentType, err := buildForm(func(w *multipart.Writer) error {
		return writeFile(w, c.contract.AnalyzeField, resume)
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze %s: %w", resume.Name, err)
	}

	res, err := c.post(ctx, c.contract.AnalyzePath, body, contentType)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze %s: %w", resume.Name, err)
	}
	return res, nil
}

// Compare uploads the resume together with the job description. Blank job
// fields are omitted from the payload.
func (c *Client) Compare(ctx context.Context, resume model.ResumeFile, job model.JobInput) (model.AnalysisResult, error) {
	job = job.Trimmed()
	body, contentType, err := buildForm(func(w *multipart.Writer) error {
		if err := writeFile(w, c.contract.ResumeField, resume); err != nil {
			return err
		}
		for _, f := range c.contract.jobFields(job) {
			if err := w.WriteField(f.name, f.value); err != nil {
				return fmt.Errorf("write field %s: %w", f.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("compare %s: %w", resume.Name, err)
	}

	res, err := c.post(ctx, c.contract.ComparePath, body, contentType)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("compare %s: %w", resume.Name, err)
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, body *bytes.Buffer, contentType string) (model.AnalysisResult, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("submitting to backend", "url", url, "bytes", body.Len())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("read response: %w", err)
	}

	res, decodeErr := decodeResult(respBytes)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A non-2xx carrying a proper error body is still a server-reported
		// failure and renders inline.
		if decodeErr == nil && res.Status == model.StatusError {
			return res, nil
		}
		return model.AnalysisResult{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBytes), maxErrorBody),
			Err:        fmt.Errorf("unexpected status from %s", path),
		}
	}

	if decodeErr != nil {
		return model.AnalysisResult{}, fmt.Errorf("decode response: %w", decodeErr)
	}

	c.logger.Debug("backend responded", "path", path, "status", res.Status)
	return res, nil
}

// wireResult is the superset of response shapes the backend has used.
type wireResult struct {
	model.AnalysisResult
	Error string `json:"error"` // older backends: {"error": "..."}
}

// decodeResult parses a response body into an AnalysisResult, normalising the
// older {"error": "..."} shape into the error variant.
func decodeResult(b []byte) (model.AnalysisResult, error) {
	var w wireResult
	if err := json.Unmarshal(b, &w); err != nil {
		return model.AnalysisResult{}, err
	}
	res := w.AnalysisResult

	switch {
	case res.Status == model.StatusSuccess:
	case res.Status == model.StatusError:
		if res.Message == "" {
			res.Message = w.Error
		}
	case res.Status == "" && w.Error != "":
		res.Status = model.StatusError
		res.Message = w.Error
	default:
		return model.AnalysisResult{}, fmt.Errorf("unknown result status %q", res.Status)
	}
	return res, nil
}

func buildForm(fill func(w *multipart.Writer) error) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, f model.ResumeFile) error {
	part, err := w.CreateFormFile(field, f.Name)
	if err != nil {
		return fmt.Errorf("create form file %s: %w", field, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("write form file %s: %w", field, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
