package main

import (
	"io"
	"os"
	"strings"

	"github.com/cellux/parable"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const promptCont = "  "

type session struct {
	env *parable.Env
	out *printer
}

func runREPL(env *parable.Env, out *printer) error {
	s := &session{env: env, out: out}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.complete)

	histPath := expandHome(viper.GetString("repl.history"))
	loadHistory(ln, histPath)
	defer saveHistory(ln, histPath)

	prompt := viper.GetString("repl.prompt")
	for {
		text, err := readInput(ln, prompt)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				out.printf("\n")
				return nil
			}
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		ln.AppendHistory(text)
		s.eval(text)
	}
}

type historyReader interface {
	ReadHistory(r io.Reader) (int, error)
}

type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// loadHistory fills h from the file at path. A missing file is not an error.
func loadHistory(h historyReader, path string) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			warnHistory("Cannot load history", path, err)
		}
		return
	}
	_, err = h.ReadHistory(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		warnHistory("Cannot load history", path, err)
	}
}

func saveHistory(h historyWriter, path string) {
	f, err := os.Create(path)
	if err != nil {
		warnHistory("Cannot save history", path, err)
		return
	}
	_, err = h.WriteHistory(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		warnHistory("Cannot save history", path, err)
	}
}

func warnHistory(msg, path string, err error) {
	log.WithFields(log.Fields{
		"path":  path,
		"error": err,
	}).Warn(msg)
}

// readInput keeps prompting until the collected text no longer ends inside
// an open list or string.
func readInput(ln *liner.State, prompt string) (string, error) {
	var sb strings.Builder
	p := prompt
	for {
		line, err := ln.Prompt(p)
		if err != nil {
			return "", err
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		if _, err := readForms(sb.String()); !errors.Is(err, parable.ErrUnexpectedEOF) {
			return sb.String(), nil
		}
		p = promptCont
	}
}

func readForms(text string) ([]parable.Value, error) {
	rdr := parable.NewStringReader(text, "<string>")
	var forms []parable.Value
	for {
		form, err := rdr.Read()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return forms, err
		}
		forms = append(forms, form)
	}
}

// eval evaluates every form of text in the session environment. The last
// result is bound to _.
func (s *session) eval(text string) {
	forms, err := readForms(text)
	if err != nil {
		s.out.hostError(err)
		return
	}
	for _, form := range forms {
		result := parable.Eval(form, s.env)
		if e, ok := result.(*parable.Error); ok {
			s.out.evalError(e)
		}
		s.out.printf("%s\n", parable.Pprint(result))
		s.env = s.env.With("_", result)
	}
}

func (s *session) complete(line string) []string {
	i := strings.LastIndexAny(line, "() '`,\t") + 1
	prefix, word := line[:i], line[i:]
	if word == "" {
		return nil
	}
	var candidates []string
	for _, name := range s.env.Names() {
		if strings.HasPrefix(name, word) {
			candidates = append(candidates, prefix+name)
		}
	}
	for _, name := range parable.SpecialForms() {
		if strings.HasPrefix(name, word) {
			candidates = append(candidates, prefix+name)
		}
	}
	return candidates
}
