package main

import (
	"os"

	flags "github.com/jessevdk/go-flags"
)

// config defines the command line options avmcli accepts.
type config struct {
	Input    string `short:"i" long:"input" description:"Path to CBOR-encoded VerifyRequest (default: stdin)"`
	Output   string `short:"o" long:"output" description:"Path to write the CBOR-encoded VerifyResponse (default: stdout)"`
	JSON     bool   `long:"json" description:"Emit the response as JSON instead of CBOR"`
	LogFile  string `long:"logfile" description:"Path to a rotating log file (default: stdout only)"`
	LogLevel string `long:"loglevel" description:"Log level for all subsystems (trace, debug, info, warn, error, critical)" default:"info"`
}

// loadConfig parses the command line into a config, applying defaults.
func loadConfig() (*config, error) {
	cfg := config{
		LogLevel: "info",
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	return &cfg, nil
}
