package main

import (
	"fmt"
	"io"
	"os"

	"koord"
	"koord/logger"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Config   string `short:"c" long:"config" description:"analyzer configuration file (.properties)"`
	Dump     bool   `short:"d" long:"dump" description:"print the symbol table"`
	LogLevel string `long:"log-level" description:"override the configured log level"`
	Args     struct {
		Tree string `positional-arg-name:"tree.yaml"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	code, err := run(opts, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(code)
}

// run analyzes the tree named by opts and writes its diagnostics to w. The
// exit code is 1 when the program has diagnostics.
func run(opts options, w io.Writer) (int, error) {
	conf := koord.DefaultConfig()
	if opts.Config != "" {
		var err error
		if conf, err = koord.LoadConfig(opts.Config); err != nil {
			return 0, err
		}
	}
	if opts.LogLevel != "" {
		if err := conf.Log.Level.UnmarshalText([]byte(opts.LogLevel)); err != nil {
			return 0, fmt.Errorf("log-level: %w", err)
		}
	}
	log, err := logger.New(conf.Log)
	if err != nil {
		return 0, err
	}
	defer log.Sync()
	prog, err := koord.LoadProgram(opts.Args.Tree)
	if err != nil {
		return 0, err
	}
	table, err := koord.Analyze(prog, koord.WithConfig(conf), koord.WithLogger(log))
	if err != nil {
		return 0, err
	}
	if opts.Dump {
		if err := table.Dump(w); err != nil {
			return 0, err
		}
	}
	for _, diag := range table.Diagnostics.All() {
		fmt.Fprintln(w, diag.Err())
	}
	if !table.IsValid() {
		return 1, nil
	}
	return 0, nil
}
