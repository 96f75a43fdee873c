package client

import (
	"fmt"

	"github.com/amishk599/resumelens/internal/model"
)

// Contract names the endpoints and multipart fields a backend expects.
type Contract struct {
	Name         string
	AnalyzePath  string
	AnalyzeField string
	ComparePath  string
	ResumeField  string

	// Separate text/URL fields. Empty when the backend takes a single job field.
	JobTextField string
	JobURLField  string

	// Single job field used by the legacy compare endpoint.
	JobField string
}

// StandardContract is the canonical backend contract.
var StandardContract = Contract{
	Name:         "standard",
	AnalyzePath:  "/analyze-resume/",
	AnalyzeField: "resume",
	ComparePath:  "/compare-resume-job/",
	ResumeField:  "resume",
	JobTextField: "jobtext",
	JobURLField:  "joburl",
}

// LegacyContract matches the early API helper: the analyze upload goes under
// "file" and comparison posts a single "job" field to /compare-job/.
var LegacyContract = Contract{
	Name:         "legacy",
	AnalyzePath:  "/analyze-resume/",
	AnalyzeField: "file",
	ComparePath:  "/compare-job/",
	ResumeField:  "resume",
	JobField:     "job",
}

// ContractByName resolves a contract from its config name.
func ContractByName(name string) (Contract, error) {
	switch name {
	case "", StandardContract.Name:
		return StandardContract, nil
	case LegacyContract.Name:
		return LegacyContract, nil
	default:
		return Contract{}, fmt.Errorf("unknown api contract %q", name)
	}
}

type formField struct {
	name  string
	value string
}

// jobFields maps a trimmed job input onto the contract's text fields.
func (c Contract) jobFields(job model.JobInput) []formField {
	if c.JobField != "" {
		v := job.Text
		if v == "" {
			v = job.URL
		}
		if v == "" {
			return nil
		}
		return []formField{{name: c.JobField, value: v}}
	}

	var fields []formField
	if job.Text != "" {
		fields = append(fields, formField{name: c.JobTextField, value: job.Text})
	}
	if job.URL != "" {
		fields = append(fields, formField{name: c.JobURLField, value: job.URL})
	}
	return fields
}
