// Binary render_template renders one documentation
// template against a configuration file, stamp info files
// and explicit variable substitutions.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/byte4ever/docgen/docconfig"
	"github.com/byte4ever/docgen/templating"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func main() {
	var (
		stampInfoFile arrayFlags
		variable      arrayFlags
		config        string
		output        string
		tpl           string
		executable    bool
	)

	flag.Var(
		&stampInfoFile,
		"stamp_info_file",
		"Stamp info file path (repeatable)",
	)

	flag.Var(
		&variable,
		"variable",
		"Variable in NAME=VALUE format (repeatable)",
	)

	flag.StringVar(
		&config, "config", "",
		"Configuration file (JSON or YAML)",
	)

	flag.StringVar(
		&output, "output", "",
		"Output file path (stdout if empty)",
	)

	flag.StringVar(
		&tpl, "template", "",
		"Input template file path (stdin if empty)",
	)

	flag.BoolVar(
		&executable, "executable", false,
		"Set executable bit on output file",
	)

	flag.Parse()

	cfg := docconfig.NewScope()

	if config != "" {
		loaded, err := docconfig.Load(config)
		if err != nil {
			slog.Error("fatal", "error", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	en := templating.Engine{
		StampInfoFiles: stampInfoFile,
	}

	if err := en.Expand(
		tpl, output, cfg, variable, executable,
	); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
