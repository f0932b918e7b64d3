package pipeline

import (
	"context"
	"fmt"

	"github.com/MimeLyc/locpipe/pkg/file"
	"github.com/MimeLyc/locpipe/pkg/log"
)

// Update synchronizes every per-locale catalog with the current template
// catalog, in registry order. A locale without a catalog is bootstrapped
// from the template; an existing catalog is merged in place, keeping
// translations and marking changed entries fuzzy and removed entries
// obsolete. The first failure aborts the remaining locales.
func (p Pipeline) Update(ctx context.Context) error {
	potFile := p.cfg.PotPath()
	if !file.Exists(potFile) {
		return NewError(ErrUpdateTool,
			fmt.Sprintf("template catalog %q does not exist, run extraction first", potFile))
	}

	for _, loc := range p.registry {
		if err := ctx.Err(); err != nil {
			return WrapError(err, ErrUpdateTool, "update interrupted")
		}

		poFile := p.cfg.PoPath(loc.Code)
		if !file.Exists(poFile) {
			log.Info("%s -> %s (bootstrap %s)", potFile, poFile, loc.Canonical)
			if err := p.tools.InitCatalog(potFile, loc.Canonical, poFile); err != nil {
				return WrapError(err, ErrUpdateTool, "catalog bootstrap failed").
					WithContext("locale", loc.Code)
			}
			continue
		}

		log.Info("%s -> %s (merge)", potFile, poFile)

		// The merge tool restamps the creation date even when nothing
		// changed; keep the old one so repeated runs are stable.
		poDate, err := readPOTCreationDate(poFile)
		if err != nil {
			return WrapError(err, ErrUpdateTool, "couldn't read catalog header").
				WithContext("locale", loc.Code)
		}
		if err := p.tools.MergeCatalog(poFile, potFile); err != nil {
			return WrapError(err, ErrUpdateTool, "catalog merge failed").
				WithContext("locale", loc.Code)
		}
		if err := restorePOTCreationDate(poDate, poFile); err != nil {
			return WrapError(err, ErrUpdateTool, "couldn't restore catalog header").
				WithContext("locale", loc.Code)
		}
	}
	return nil
}
