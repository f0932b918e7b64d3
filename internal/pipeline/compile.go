package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/MimeLyc/locpipe/pkg/file"
	"github.com/MimeLyc/locpipe/pkg/log"
)

// Compile regenerates the binary catalog of every locale from its
// per-locale catalog. Each locale's output directory is removed and
// recreated, so the compiled artifact is always a fresh derivation with no
// staleness checks.
//
// Locales run through a worker pool bounded by cfg.Jobs; the default of 1
// keeps the sequential registry-order behaviour. Fail-fast is preserved in
// either case: the first failure cancels the locales not yet started.
func (p Pipeline) Compile(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Jobs)

	for _, loc := range p.registry {
		loc := loc
		g.Go(func() error {
			// A failure in an earlier locale cancels the group; don't
			// start work for the remaining ones.
			if ctx.Err() != nil {
				return nil
			}
			return p.compileLocale(loc.Code)
		})
	}
	return g.Wait()
}

func (p Pipeline) compileLocale(code string) error {
	poFile := p.cfg.PoPath(code)
	if !file.Exists(poFile) {
		return NewError(ErrMissingCatalog,
			fmt.Sprintf("no per-locale catalog %q, run update first", poFile)).
			WithContext("locale", code)
	}

	outDir := p.cfg.MoLocalePath(code)
	if err := os.RemoveAll(outDir); err != nil {
		return WrapError(err, ErrCompileTool, "couldn't clear output directory").
			WithContext("locale", code)
	}

	moFile := p.cfg.MoPath(code)
	if err := os.MkdirAll(filepath.Dir(moFile), 0o755); err != nil {
		return WrapError(err, ErrCompileTool, "couldn't create output directory").
			WithContext("locale", code)
	}

	log.Info("%s -> %s", poFile, moFile)
	if err := p.tools.CompileCatalog(poFile, moFile); err != nil {
		return WrapError(err, ErrCompileTool, "catalog compilation failed").
			WithContext("locale", code)
	}
	return nil
}
