package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// The extraction and merge tools stamp a fresh POT-Creation-Date on every
// run, which would make an otherwise unchanged catalog differ byte-for-byte
// between runs. The pipeline reads the header before invoking a tool and
// writes it back afterwards so unchanged inputs produce unchanged outputs.

const potCreationDatePrefix = `"POT-Creation-Date:`

// readPOTCreationDate returns the full POT-Creation-Date header line of a
// catalog, or "" if the file does not exist or carries no such header.
func readPOTCreationDate(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("couldn't open %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), potCreationDatePrefix) {
			return scanner.Text(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error while reading %q: %w", path, err)
	}
	return "", nil
}

// restorePOTCreationDate rewrites the catalog at path, replacing its
// POT-Creation-Date header with the given line. A no-op when line is empty.
func restorePOTCreationDate(line, path string) error {
	if line == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("couldn't open %q: %w", path, err)
	}
	defer f.Close()

	tmpPath := path + ".new"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("couldn't create %q: %w", tmpPath, err)
	}
	defer out.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		t := scanner.Text()
		if strings.HasPrefix(t, potCreationDatePrefix) {
			t = line
		}
		if _, err := out.WriteString(t + "\n"); err != nil {
			return fmt.Errorf("couldn't write to %q: %w", tmpPath, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error while reading %q: %w", path, err)
	}

	f.Close()
	if err := out.Close(); err != nil {
		return fmt.Errorf("couldn't close %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("couldn't rename %q to %q: %w", tmpPath, path, err)
	}
	return nil
}
