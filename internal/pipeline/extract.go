package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MimeLyc/locpipe/internal/gettext"
	"github.com/MimeLyc/locpipe/pkg/file"
	"github.com/MimeLyc/locpipe/pkg/log"
)

// Directories never scanned for source modules.
var skipSourceDirs = map[string]struct{}{
	"vendor":   {},
	"testdata": {},
}

// Generated modules known to trip the message extractor with noise.
var moduleDenylist = map[string]struct{}{
	"bindata.go":       {},
	"resources_gen.go": {},
}

// Extract scans the source tree and rebuilds the template catalog from
// scratch. Sidecar extracted-strings files are produced next to each UI
// file, fed into the message extractor together with the source modules,
// and deleted again once the template catalog has been written. On failure
// the sidecars stay on disk so the failing unit can be inspected.
func (p Pipeline) Extract(ctx context.Context) error {
	uiFiles, err := file.FindByExt(p.cfg.DataPath(),
		[]string{".glade", ".ui", ".xml"}, skipSourceDirs)
	if err != nil {
		return WrapError(err, ErrExtractTool, "couldn't enumerate UI-definition files")
	}

	var sidecars []string
	for _, uiFile := range uiFiles {
		if err := ctx.Err(); err != nil {
			return WrapError(err, ErrExtractTool, "extraction interrupted")
		}

		sidecar := gettext.SidecarPath(uiFile)
		log.Info("%s -> %s", uiFile, sidecar)
		if err := p.tools.ExtractUI(uiFile, uiKind(uiFile)); err != nil {
			return WrapError(err, ErrExtractTool, "sidecar extraction failed").
				WithContext("file", uiFile)
		}
		sidecars = append(sidecars, sidecar)
	}

	modules, err := p.sourceModules()
	if err != nil {
		return WrapError(err, ErrMessageTool, "couldn't enumerate source modules")
	}

	inputs := make([]string, 0, len(modules)+len(sidecars))
	inputs = append(inputs, modules...)
	for _, sidecar := range sidecars {
		rel, err := filepath.Rel(p.cfg.SourceRoot, sidecar)
		if err != nil {
			return WrapError(err, ErrMessageTool, "sidecar path outside source root").
				WithContext("file", sidecar)
		}
		inputs = append(inputs, rel)
	}

	potFile := p.cfg.PotPath()
	if err := os.MkdirAll(filepath.Dir(potFile), 0o755); err != nil {
		return WrapError(err, ErrMessageTool, "couldn't create catalog directory")
	}

	// Keep the creation date of an existing template so an unchanged tree
	// regenerates an unchanged catalog.
	potDate, err := readPOTCreationDate(potFile)
	if err != nil {
		return WrapError(err, ErrMessageTool, "couldn't read template catalog header")
	}

	log.Info("%d source modules + %d sidecars -> %s", len(modules), len(sidecars), potFile)
	if err := p.tools.ExtractMessages(p.cfg.SourceRoot, potFile, inputs); err != nil {
		// A partially-written template is stale; discard it.
		_ = os.Remove(potFile)
		return WrapError(err, ErrMessageTool, "template catalog build failed")
	}
	if err := restorePOTCreationDate(potDate, potFile); err != nil {
		return WrapError(err, ErrMessageTool, "couldn't restore template catalog header")
	}

	// Cleanup runs only after full success.
	for _, sidecar := range sidecars {
		if err := os.Remove(sidecar); err != nil {
			log.Warn("couldn't remove sidecar %s: %v", sidecar, err)
		}
	}
	return nil
}

// sourceModules enumerates the tree's source modules relative to the source
// root, excluding the application-data subtree, tests, and the denylist of
// known-noisy generated code.
func (p Pipeline) sourceModules() ([]string, error) {
	dataPath := filepath.Clean(p.cfg.DataPath())

	var modules []string
	err := filepath.WalkDir(p.cfg.SourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("fail to access %q: %w", path, err)
		}
		if d.IsDir() {
			if filepath.Clean(path) == dataPath {
				return filepath.SkipDir
			}
			name := d.Name()
			if _, skip := skipSourceDirs[name]; skip {
				return filepath.SkipDir
			}
			if path != p.cfg.SourceRoot && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if _, deny := moduleDenylist[d.Name()]; deny {
			return nil
		}
		if strings.HasPrefix(d.Name(), "zz_generated") {
			return nil
		}

		rel, err := filepath.Rel(p.cfg.SourceRoot, path)
		if err != nil {
			return fmt.Errorf("path %q cannot be made relative to %q", path, p.cfg.SourceRoot)
		}
		modules = append(modules, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// uiKind selects the sidecar-extraction mode from the file extension.
func uiKind(uiFile string) gettext.UIKind {
	if filepath.Ext(uiFile) == ".xml" {
		return gettext.KindXML
	}
	return gettext.KindGlade
}
