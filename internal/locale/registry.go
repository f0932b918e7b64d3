package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Entry pairs a canonical system locale identifier with the short code used
// to name catalog files. The short code is unique within a Registry.
type Entry struct {
	Canonical string // e.g. "fr_FR.UTF-8"
	Code      string // e.g. "fr"
}

// Registry is the ordered set of locales the pipeline maintains catalogs for.
// It is built once at startup and never mutated afterwards.
type Registry []Entry

// defaultPairs is the compiled-in registry, one "canonical:code" pair per
// supported locale.
var defaultPairs = []string{
	"fr_FR.UTF-8:fr",
	"de_DE.UTF-8:de",
}

// Default returns the registry of locales shipped with the application.
func Default() (Registry, error) {
	return ParseRegistry(defaultPairs)
}

// ParseRegistry builds a Registry from "canonical:code" pairs. An entry
// missing either field, a duplicate short code, or a canonical identifier
// whose language part is not a valid tag all fail the whole registry.
func ParseRegistry(pairs []string) (Registry, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("locale registry is empty")
	}

	reg := make(Registry, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		canonical, code, ok := strings.Cut(pair, ":")
		if !ok || canonical == "" || code == "" {
			return nil, fmt.Errorf("locale registry entry %q: want canonical:code", pair)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("locale registry entry %q: duplicate short code %q", pair, code)
		}
		if _, err := language.Parse(languagePart(canonical)); err != nil {
			return nil, fmt.Errorf("locale registry entry %q: invalid canonical locale: %v", pair, err)
		}
		seen[code] = struct{}{}
		reg = append(reg, Entry{Canonical: canonical, Code: code})
	}
	return reg, nil
}

// languagePart reduces a system locale identifier like "fr_FR.UTF-8" to a
// BCP 47 candidate like "fr-FR".
func languagePart(canonical string) string {
	tag, _, _ := strings.Cut(canonical, ".")
	return strings.ReplaceAll(tag, "_", "-")
}

// Codes returns the short codes in registry order.
func (r Registry) Codes() []string {
	codes := make([]string, 0, len(r))
	for _, e := range r {
		codes = append(codes, e.Code)
	}
	return codes
}
