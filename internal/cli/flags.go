package cli

import (
	ucli "github.com/urfave/cli/v2"
)

// Flag names shared by the subcommands.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagPort    = "port"
	flagPretty  = "pretty"
	flagSummary = "summary"
)

// GlobalFlags are accepted by every subcommand.
func GlobalFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Value:   "config.yaml",
			Usage:   "Path to config file (falls back to environment variables when missing)",
		},
		&ucli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"v"},
			Usage:   "Verbose output (debug logging)",
		},
	}
}

func serveFlags() []ucli.Flag {
	return append(GlobalFlags(),
		&ucli.IntFlag{
			Name:    flagPort,
			Aliases: []string{"p"},
			Usage:   "Port to listen on (overrides config)",
			EnvVars: []string{"PORT"},
		},
	)
}

func fetchFlags() []ucli.Flag {
	return append(GlobalFlags(),
		&ucli.BoolFlag{
			Name:  flagPretty,
			Usage: "Indent the JSON output",
		},
		&ucli.BoolFlag{
			Name:  flagSummary,
			Usage: "Print a human-readable pick list instead of JSON",
		},
	)
}
