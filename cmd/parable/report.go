package main

import (
	"os"

	"github.com/cellux/parable"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type caseReport struct {
	Status  string `json:"status"`
	Form    string `json:"form"`
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

type fileReport struct {
	Source  string       `json:"source"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Errored int          `json:"errored"`
	Cases   []caseReport `json:"cases"`
}

type runReport struct {
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Errored int          `json:"errored"`
	Files   []fileReport `json:"files"`
}

func newRunReport(reports []*parable.TestReport) *runReport {
	run := &runReport{
		Files: make([]fileReport, 0, len(reports)),
	}
	for _, r := range reports {
		file := fileReport{
			Source:  r.Source,
			Passed:  r.Passed,
			Failed:  r.Failed,
			Errored: r.Errored,
			Cases:   make([]caseReport, 0, len(r.Cases)),
		}
		for _, c := range r.Cases {
			cr := caseReport{
				Status:  c.Status.String(),
				Form:    parable.Pprint(c.Form),
				Result:  parable.Pprint(c.Result),
				Message: c.Msg,
			}
			if span := c.Form.Span(); span != nil {
				cr.Row = span.StartRow
				cr.Col = span.StartCol
			}
			file.Cases = append(file.Cases, cr)
		}
		run.Files = append(run.Files, file)
		run.Passed += r.Passed
		run.Failed += r.Failed
		run.Errored += r.Errored
	}
	run.Total = run.Passed + run.Failed + run.Errored
	return run
}

func writeReport(path string, run *runReport) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding test report")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing test report %s", path)
	}
	return nil
}
