// Package pipeline implements the three-stage localization pipeline:
// extraction of translatable strings into a template catalog, merge of the
// template into per-locale catalogs, and compilation of those catalogs into
// the binary form the application loads at runtime.
//
// Stages run strictly in order and fail fast: the first external-tool
// failure aborts the whole run, remaining locales included.
package pipeline

import (
	"context"
	"fmt"

	"github.com/MimeLyc/locpipe/internal/config"
	"github.com/MimeLyc/locpipe/internal/gettext"
	"github.com/MimeLyc/locpipe/internal/locale"
	"github.com/MimeLyc/locpipe/pkg/file"
)

// Command selects which stages of the pipeline a run executes.
type Command int

const (
	// CommandUpdate runs extraction followed by the per-locale catalog
	// update.
	CommandUpdate Command = iota
	// CommandCompile compiles every per-locale catalog to its binary form.
	CommandCompile
)

// ParseCommand maps a CLI verb onto a Command.
func ParseCommand(s string) (Command, bool) {
	switch s {
	case "update":
		return CommandUpdate, true
	case "compile":
		return CommandCompile, true
	default:
		return 0, false
	}
}

func (c Command) String() string {
	switch c {
	case CommandUpdate:
		return "update"
	case CommandCompile:
		return "compile"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

type Pipeline struct {
	cfg      config.Config
	registry locale.Registry
	tools    gettext.Toolset
}

func New(cfg config.Config, registry locale.Registry) Pipeline {
	return Pipeline{
		cfg:      cfg,
		registry: registry,
		tools:    gettext.NewToolset(cfg.Tools, cfg.TextDomain),
	}
}

// Run validates the source tree and executes the stages of cmd.
// No locking is provided; the run assumes exclusive ownership of the
// template and per-locale catalogs.
func (p Pipeline) Run(ctx context.Context, cmd Command) error {
	if !file.IsDir(p.cfg.DataPath()) {
		return NewError(ErrInvalidSourceTree,
			fmt.Sprintf("source tree %q has no %q subtree", p.cfg.SourceRoot, p.cfg.DataDir))
	}

	switch cmd {
	case CommandUpdate:
		if err := p.Extract(ctx); err != nil {
			return err
		}
		return p.Update(ctx)
	case CommandCompile:
		return p.Compile(ctx)
	default:
		return NewError(ErrConfig, fmt.Sprintf("unknown pipeline command %d", int(cmd)))
	}
}
