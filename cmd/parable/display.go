package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cellux/parable"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const contextLines = 2

type palette struct {
	lineNo    string
	code      string
	highlight string
	end       string
}

var colors = palette{
	lineNo:    "\033[95m",
	code:      "\033[92m",
	highlight: "\033[93m",
	end:       "\033[0m",
}

// printer reports results and failures to the user, quoting the source
// fragments they refer to.
type printer struct {
	w       io.Writer
	palette palette
}

func newPrinter(w io.Writer, color bool) *printer {
	p := &printer{w: w}
	if color {
		p.palette = colors
	}
	return p
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// sourceLines returns the lines of the file a span points into, or nil if
// it cannot be shown.
func sourceLines(span *parable.Span) []string {
	if span == nil || span.Source == "" || strings.HasPrefix(span.Source, "<") {
		return nil
	}
	data, err := os.ReadFile(span.Source)
	if err != nil {
		log.WithFields(log.Fields{
			"source": span.Source,
		}).Debug("Source not available for display")
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// splitLine cuts line n into the parts before, inside and after span.
func splitLine(line string, n int, span *parable.Span) (string, string, string) {
	runes := []rune(line)
	clamp := func(i int) int {
		return max(0, min(i, len(runes)))
	}
	start := clamp(span.StartCol)
	end := clamp(span.EndCol + 1)
	switch {
	case n < span.StartRow || n > span.EndRow:
		return line, "", ""
	case n == span.StartRow && n == span.EndRow:
		if end < start {
			end = start
		}
		return string(runes[:start]), string(runes[start:end]), string(runes[end:])
	case n == span.StartRow:
		return string(runes[:start]), string(runes[start:]), ""
	case n == span.EndRow:
		return "", string(runes[:end]), string(runes[end:])
	default:
		return "", line, ""
	}
}

func (p *printer) form(span *parable.Span, context bool) {
	lines := sourceLines(span)
	if lines == nil {
		return
	}
	first, last := span.StartRow, span.EndRow
	if context {
		first = max(0, first-contextLines)
		last += contextLines
	}
	last = min(last, len(lines)-1)
	c := p.palette
	for n := first; n <= last; n++ {
		before, inside, after := splitLine(lines[n], n, span)
		p.printf("%s%d:\t%s%s%s%s%s%s%s\n",
			c.lineNo, n, c.code, before, c.highlight, inside, c.code, after, c.end)
	}
}

func (p *printer) evalError(e *parable.Error) {
	if msg := parable.ErrorMessage(e); msg != "" {
		p.printf("Error of type \"%s\": %s\n", e.Type.Name, msg)
	} else {
		p.printf("Error of type \"%s\".\n", e.Type.Name)
	}
	span := e.Span()
	if form, ok := parable.ErrorForm(e); ok && form.Span() != nil {
		span = form.Span()
	}
	p.form(span, true)
}

func (p *printer) hostError(err error) {
	var readErr *parable.ReadError
	var loadErr *parable.LoadError
	var evalErr *parable.EvalFailure
	switch {
	case errors.As(err, &evalErr):
		p.evalError(evalErr.Err)
	case errors.As(err, &loadErr):
		if loadErr.Warning {
			log.WithFields(log.Fields{
				"form": parable.Pprint(loadErr.Form),
			}).Warn(loadErr.Msg)
		}
		p.printf("Error: %s\n", err)
		p.form(loadErr.Form.Span(), true)
	case errors.As(err, &readErr):
		p.printf("Error: %s\n", err)
		p.form(readErr.Span(), true)
	default:
		p.printf("Error: %s\n", err)
	}
}

func (p *printer) testCase(c parable.TestCase) {
	switch c.Status {
	case parable.TestPassed:
		p.printf("Test passed.\n")
	case parable.TestFailed:
		p.printf("Test failed:\n")
		p.form(c.Form.Span(), false)
	default:
		if e, ok := c.Result.(*parable.Error); ok {
			if c.Msg != "" {
				p.printf("Test error (%s): %s\n", e.Type.Name, c.Msg)
			} else {
				p.printf("Test error (%s).\n", e.Type.Name)
			}
			if form, ok := parable.ErrorForm(e); ok && form.Span() != nil {
				p.form(form.Span(), false)
			} else {
				p.printf("No location information for the error.\n")
			}
			return
		}
		p.printf("%s\n", c.Msg)
		p.form(c.Form.Span(), false)
	}
}
