package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/locpipe/internal/config"
	"github.com/MimeLyc/locpipe/internal/locale"
)

// The gettext collaborators are black boxes to the pipeline, so tests run
// against small shell stand-ins on a prepended PATH. The stand-ins model
// just enough of the real tools' contract: the sidecar tool emits marker
// calls for each line of a UI file, the extractor greps marker calls out of
// its inputs, init copies the template, merge appends missing entries
// without ever deleting existing ones, and the compiler prefixes the
// catalog with a magic header. Each logs its argv to <name>.args and fails
// when MOCK_<NAME>_FAIL is set.

const mockUIExtract = `#!/bin/sh
echo "$@" >> "$MOCK_LOG_DIR/intltool-extract.args"
for a in "$@"; do last="$a"; done
if [ -n "$MOCK_INTLTOOL_FAIL" ]; then
    case "$last" in *"$MOCK_INTLTOOL_FAIL"*) exit 1;; esac
fi
sed 's/.*/G("&")/' "$last" > "$last.h"
`

const mockMsgExtract = `#!/bin/sh
echo "$@" >> "$MOCK_LOG_DIR/xgettext.args"
[ -n "$MOCK_XGETTEXT_FAIL" ] && exit 1
out=""; root=""; inputs=""; prev=""
for a in "$@"; do
    if [ "$prev" = "-D" ]; then root="$a"; prev=""; continue; fi
    case "$a" in
        --output=*) out="${a#--output=}";;
        -D) prev="-D";;
        --*) ;;
        *) inputs="$inputs $a";;
    esac
done
{
    echo 'msgid ""'
    echo 'msgstr ""'
    printf '"POT-Creation-Date: run-%s\\n"\n' "$$"
    cd "$root" || exit 1
    for f in $inputs; do
        grep -oE '(G|GN)\("[^"]*"\)' "$f" 2>/dev/null
    done | sed -E 's/^(GN|G)\("/msgid "/; s/"\)$/"/' \
         | while IFS= read -r line; do printf '%s\nmsgstr ""\n' "$line"; done
} > "$out"
`

const mockCatInit = `#!/bin/sh
echo "$@" >> "$MOCK_LOG_DIR/msginit.args"
[ -n "$MOCK_MSGINIT_FAIL" ] && exit 1
in=""; out=""; loc=""
for a in "$@"; do
    case "$a" in
        --input=*) in="${a#--input=}";;
        --output=*) out="${a#--output=}";;
        --locale=*) loc="${a#--locale=}";;
    esac
done
cp "$in" "$out"
printf '"Language: %s\\n"\n' "$loc" >> "$out"
`

const mockCatMerge = `#!/bin/sh
echo "$@" >> "$MOCK_LOG_DIR/msgmerge.args"
[ -n "$MOCK_MSGMERGE_FAIL" ] && exit 1
po=""; pot=""
for a in "$@"; do
    case "$a" in
        --*) ;;
        *) if [ -z "$po" ]; then po="$a"; else pot="$a"; fi;;
    esac
done
sed "s/^\"POT-Creation-Date:.*/\"POT-Creation-Date: merge-$$\\\\n\"/" "$po" > "$po.tmp" \
    && mv "$po.tmp" "$po"
grep '^msgid "' "$pot" | grep -v '^msgid ""$' | while IFS= read -r line; do
    if ! grep -qxF "$line" "$po"; then
        printf '%s\nmsgstr ""\n' "$line" >> "$po"
    fi
done
exit 0
`

const mockCatCompile = `#!/bin/sh
echo "$@" >> "$MOCK_LOG_DIR/msgfmt.args"
[ -n "$MOCK_MSGFMT_FAIL" ] && exit 1
po=""; out=""
for a in "$@"; do
    case "$a" in
        --output-file=*) out="${a#--output-file=}";;
        --*) ;;
        *) po="$a";;
    esac
done
{ printf 'MO-MAGIC\n'; cat "$po"; } > "$out"
`

// installMockTools puts the shell stand-ins on PATH and returns the
// directory their argv logs land in.
func installMockTools(t *testing.T) string {
	t.Helper()
	mockDir := t.TempDir()

	scripts := map[string]string{
		"intltool-extract": mockUIExtract,
		"xgettext":         mockMsgExtract,
		"msginit":          mockCatInit,
		"msgmerge":         mockCatMerge,
		"msgfmt":           mockCatCompile,
	}
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(mockDir, name), []byte(body), 0o755))
	}

	t.Setenv("PATH", mockDir+":"+os.Getenv("PATH"))
	t.Setenv("MOCK_LOG_DIR", mockDir)
	return mockDir
}

// toolInvocations returns the logged argv lines of one mock tool.
func toolInvocations(t *testing.T, mockDir, tool string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(mockDir, tool+".args"))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

// writeSourceTree lays out a small application tree:
//
//	data/mainwindow/mainwindow.glade  UI file with the string "Hello"
//	data/mainwindow/appmenu.xml       markup file with the string "Quit"
//	internal/ui/window.go             module calling the marker with "World"
//	internal/ui/window_test.go        test module (never extracted)
//	vendor/dep/dep.go                 vendored module (never extracted)
//	internal/gen/bindata.go           denylisted module (never extracted)
func writeSourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"data/mainwindow/mainwindow.glade": "Hello",
		"data/mainwindow/appmenu.xml":      "Quit",
		"internal/ui/window.go":            "package ui\n\nfunc title() string { return G(\"World\") }\n",
		"internal/ui/window_test.go":       "package ui\n\nvar _ = G(\"NotExtracted\")\n",
		"vendor/dep/dep.go":                "package dep\n\nvar _ = G(\"VendorNoise\")\n",
		"internal/gen/bindata.go":          "package gen\n\nvar _ = G(\"GeneratedNoise\")\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func testPipeline(t *testing.T, root string, opts ...config.Option) Pipeline {
	t.Helper()
	opts = append([]config.Option{config.WithSourceRoot(root)}, opts...)
	cfg, err := config.New(opts...)
	require.NoError(t, err)

	reg, err := locale.Default()
	require.NoError(t, err)

	return New(*cfg, reg)
}
