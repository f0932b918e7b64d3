package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MimeLyc/locpipe/internal/config"
	"github.com/MimeLyc/locpipe/internal/locale"
	"github.com/MimeLyc/locpipe/internal/pipeline"
	"github.com/MimeLyc/locpipe/pkg/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return 1
	}

	switch args[0] {
	case "help", "-h", "--help":
		usage()
		return 0
	}

	cmd, ok := pipeline.ParseCommand(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "locpipe: unknown command %q\n", args[0])
		usage()
		return 1
	}

	// Optional .env next to the source tree, for local tool overrides.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Error("Invalid configuration: %v", err)
		return pipeline.ErrConfig.ExitCode()
	}
	log.InitLogger(cfg.LogLevel)

	registry, err := locale.Default()
	if err != nil {
		log.Error("Invalid locale registry: %v", err)
		return pipeline.ErrConfig.ExitCode()
	}

	p := pipeline.New(*cfg, registry)
	if err := p.Run(context.Background(), cmd); err != nil {
		log.Error("%s failed: %v", cmd, err)
		return pipeline.ExitCode(err)
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, `locpipe - localization catalog pipeline

usage: locpipe <command>

commands:
  update     Extract translatable strings into the template catalog and
             merge them into every per-locale catalog.
  compile    Compile every per-locale catalog into the binary form the
             application loads at runtime.

Run from the root of the source tree (the directory containing data/).
`)
}
