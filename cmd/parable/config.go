package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initConfig(fs *pflag.FlagSet) error {

	viper.SetDefault("load", []string{})
	viper.SetDefault("prelude", true)
	viper.SetDefault("color", true)
	viper.SetDefault("report", "")
	viper.SetDefault("repl.history", "~/.parable_history")
	viper.SetDefault("repl.prompt", "* ")
	viper.SetDefault("log.level", "warn")

	viper.SetEnvPrefix("parable")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindings := map[string]string{
		"load":      "load",
		"prelude":   "prelude",
		"color":     "color",
		"report":    "report",
		"log.level": "log-level",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return errors.Wrapf(err, "binding flag --%s", flag)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("parable")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/parable")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "reading configuration")
		}
	}

	return nil
}

func initLogging() {

	log.SetOutput(os.Stderr)

	level, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.WithFields(log.Fields{
			"level": viper.GetString("log.level"),
		}).Warn("Invalid log level, using warn")
		level = log.WarnLevel
	}
	log.SetLevel(level)

	if file := viper.ConfigFileUsed(); file != "" {
		log.WithFields(log.Fields{
			"file": file,
		}).Info("Loaded configuration")
	}
}

// expandHome resolves a leading ~ in path.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
