package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cellux/parable"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	exitOK    = 0
	exitUsage = 1
	exitLoad  = 2
	exitTests = 3
)

type options struct {
	eval   string
	expand string
	tests  []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("parable", pflag.ContinueOnError)
	fs.StringSliceP("load", "l", nil, "load one or more library files")
	fs.StringSliceVarP(&opts.tests, "test", "t", nil, "run one or more test files")
	fs.StringVarP(&opts.eval, "eval", "e", "", "evaluate the given expression")
	fs.StringVarP(&opts.expand, "macro-expand", "m", "", "macro-expand the given expression")
	fs.StringP("config", "c", "", "configuration file")
	fs.Bool("prelude", true, "load the built-in prelude")
	fs.Bool("color", true, "highlight source fragments")
	fs.String("report", "", "write a JSON test report to this file")
	fs.String("log-level", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: parable [-l FILES] [-e EXPR | -m EXPR | -t FILES]\n\n")
		fmt.Fprintf(os.Stderr, "Loads and evaluates parable files and expressions.\n")
		fmt.Fprintf(os.Stderr, "Without -e, -m or -t an interactive session is started.\n\n")
		fs.PrintDefaults()
	}
	return fs
}

func run(args []string, stdout io.Writer) int {
	viper.Reset()

	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if err := initConfig(fs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	initLogging()

	count := 0
	for _, set := range []bool{opts.eval != "", opts.expand != "", len(opts.tests) > 0} {
		if set {
			count++
		}
	}
	if count > 1 {
		fmt.Fprintln(os.Stderr, "Only one of -t, -m and -e can be used.")
		return exitUsage
	}

	out := newPrinter(stdout, viper.GetBool("color"))

	env, err := loadLibraries(viper.GetBool("prelude"), viper.GetStringSlice("load"))
	if err != nil {
		out.hostError(err)
		return exitLoad
	}

	switch {
	case opts.eval != "":
		return evalExpression(opts.eval, env, out)
	case opts.expand != "":
		return expandExpression(opts.expand, env, out)
	case len(opts.tests) > 0:
		return runTestFiles(opts.tests, env, out)
	default:
		if err := runREPL(env, out); err != nil {
			log.Error(err)
			return exitLoad
		}
		return exitOK
	}
}

func loadLibraries(prelude bool, files []string) (*parable.Env, error) {
	var env *parable.Env
	if prelude {
		var err error
		if env, err = parable.Prelude(); err != nil {
			return nil, errors.Wrap(err, "loading prelude")
		}
	}
	for _, file := range files {
		log.WithFields(log.Fields{
			"file": file,
		}).Info("Loading library")
		f, err := os.Open(file)
		if err != nil {
			return nil, errors.Wrap(err, "opening library")
		}
		env, err = parable.Load(f, file, env)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return env, nil
}

func readExpression(expr string) (parable.Value, error) {
	form, err := parable.ReadString(expr, "<string>")
	if err == io.EOF {
		return nil, errors.New("nothing to evaluate")
	}
	return form, err
}

func evalExpression(expr string, env *parable.Env, out *printer) int {
	form, err := readExpression(expr)
	if err != nil {
		out.hostError(err)
		return exitLoad
	}
	result := parable.Eval(form, env)
	if e, ok := result.(*parable.Error); ok {
		out.evalError(e)
		return exitLoad
	}
	out.printf("Evaluation Result: %s\n", parable.Pprint(result))
	return exitOK
}

func expandExpression(expr string, env *parable.Env, out *printer) int {
	form, err := readExpression(expr)
	if err != nil {
		out.hostError(err)
		return exitLoad
	}
	result, expanded := parable.MacroExpand(form, env)
	if e, ok := result.(*parable.Error); ok {
		out.evalError(e)
		return exitLoad
	}
	out.printf("Macro Expansion Result: %t %s\n", expanded, parable.Pprint(result))
	return exitOK
}

func runTestFiles(files []string, env *parable.Env, out *printer) int {
	var reports []*parable.TestReport
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			out.hostError(errors.Wrap(err, "opening test file"))
			return exitLoad
		}
		report, err := parable.RunTests(f, file, env)
		f.Close()
		for _, c := range report.Cases {
			out.testCase(c)
		}
		if err != nil {
			out.hostError(err)
			return exitLoad
		}
		reports = append(reports, report)
	}

	total := newRunReport(reports)
	out.printf("Total tests: %d\n", total.Total)
	out.printf("   Successful: %d\n", total.Passed)
	out.printf("   Failed: %d\n", total.Failed)
	out.printf("   Error: %d\n", total.Errored)

	if path := viper.GetString("report"); path != "" {
		if err := writeReport(path, total); err != nil {
			log.Error(err)
			return exitLoad
		}
	}

	if total.Failed != 0 || total.Errored != 0 {
		return exitTests
	}
	return exitOK
}
