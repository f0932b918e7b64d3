// Package gettext wraps the external localization collaborators: sidecar
// extraction from UI files, template-catalog build, per-locale catalog
// bootstrap and merge, and binary catalog compilation. Every invocation is a
// blocking subprocess call whose exit status is inspected before the
// pipeline proceeds.
package gettext

import (
	"fmt"
	"os/exec"

	"github.com/MimeLyc/locpipe/internal/config"
)

// UIKind selects the sidecar-extraction mode for a UI-definition file.
type UIKind string

const (
	// KindGlade is a widget-tree UI definition.
	KindGlade UIKind = "glade"
	// KindXML is structured application markup (menus etc.).
	KindXML UIKind = "xml"
)

// Keyword functions recognized by the message extractor as
// translatable-string call sites.
const (
	KeywordSingular = "G"
	KeywordNoop     = "GN"
)

type Toolset struct {
	uiExtractCmd  string
	msgExtractCmd string
	catInitCmd    string
	catMergeCmd   string
	catCompileCmd string
	packageName   string
}

func NewToolset(tools config.ToolsConfig, packageName string) Toolset {
	return Toolset{
		uiExtractCmd:  tools.UIExtract,
		msgExtractCmd: tools.MsgExtract,
		catInitCmd:    tools.CatInit,
		catMergeCmd:   tools.CatMerge,
		catCompileCmd: tools.CatCompile,
		packageName:   packageName,
	}
}

// SidecarPath returns the extracted-strings file the sidecar tool produces
// next to a UI-definition file.
func SidecarPath(uiFile string) string {
	return uiFile + ".h"
}

// ExtractUI produces the sidecar extracted-strings file for one UI file.
func (t Toolset) ExtractUI(uiFile string, kind UIKind) error {
	return t.run(t.uiExtractCmd, t.extractUIArgs(uiFile, kind))
}

// ExtractMessages builds the template catalog at potFile from the given
// inputs (source modules plus sidecars), all relative to root.
func (t Toolset) ExtractMessages(root, potFile string, inputs []string) error {
	return t.run(t.msgExtractCmd, t.extractMessagesArgs(root, potFile, inputs))
}

// InitCatalog bootstraps a brand-new per-locale catalog from the template.
func (t Toolset) InitCatalog(potFile, canonicalLocale, poFile string) error {
	return t.run(t.catInitCmd, t.initCatalogArgs(potFile, canonicalLocale, poFile))
}

// MergeCatalog merges the template catalog into an existing per-locale
// catalog in place. New entries come in untranslated, changed entries are
// marked fuzzy, removed entries are kept as obsolete (tool-default).
func (t Toolset) MergeCatalog(poFile, potFile string) error {
	return t.run(t.catMergeCmd, t.mergeCatalogArgs(poFile, potFile))
}

// CompileCatalog compiles a per-locale catalog into its binary form.
func (t Toolset) CompileCatalog(poFile, moFile string) error {
	return t.run(t.catCompileCmd, t.compileCatalogArgs(poFile, moFile))
}

func (t Toolset) run(cmd string, args []string) error {
	cmdPath, err := exec.LookPath(cmd)
	if err != nil {
		return fmt.Errorf("%s not available: %w", cmd, err)
	}
	if out, err := exec.Command(cmdPath, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w\ntool output: %s", cmd, err, out)
	}
	return nil
}

func (t Toolset) extractUIArgs(uiFile string, kind UIKind) []string {
	return []string{
		"--type=gettext/" + string(kind),
		"--quiet",
		uiFile,
	}
}

func (t Toolset) extractMessagesArgs(root, potFile string, inputs []string) []string {
	args := []string{
		"--keyword=" + KeywordSingular,
		"--keyword=" + KeywordNoop,
		"--add-comments",
		"--sort-output",
		"--package-name=" + t.packageName,
		"-D", root,
		"--output=" + potFile,
	}
	return append(args, inputs...)
}

func (t Toolset) initCatalogArgs(potFile, canonicalLocale, poFile string) []string {
	return []string{
		"--input=" + potFile,
		"--locale=" + canonicalLocale,
		"--no-translator",
		"--output=" + poFile,
	}
}

func (t Toolset) mergeCatalogArgs(poFile, potFile string) []string {
	return []string{
		"--update",
		"--backup=none",
		poFile,
		potFile,
	}
}

func (t Toolset) compileCatalogArgs(poFile, moFile string) []string {
	return []string{
		"--output-file=" + moFile,
		poFile,
	}
}
