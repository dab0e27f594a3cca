package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const versionLayout = "20060102150405"

var migrationFileName = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks file names, unique versions and goose annotations in dir.
func ValidateDir(dir string) error {
	_, err := scanDir(dir)
	return err
}

// ValidateDialects validates <root>/<driver> for every driver and requires
// all of them to carry the same set of versions.
func ValidateDialects(root string, drivers ...string) error {
	var (
		reference       []string
		referenceDriver string
	)
	for _, driver := range drivers {
		versions, err := scanDir(filepath.Join(root, driver))
		if err != nil {
			return fmt.Errorf("%s: %w", driver, err)
		}
		if reference == nil {
			reference, referenceDriver = versions, driver
			continue
		}
		if strings.Join(versions, ",") != strings.Join(reference, ",") {
			return fmt.Errorf("%s versions %v differ from %s versions %v", driver, versions, referenceDriver, reference)
		}
	}
	return nil
}

// scanDir returns the sorted versions found in dir.
func scanDir(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	byVersion := map[string]string{}
	versions := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		match := migrationFileName.FindStringSubmatch(name)
		if match == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := byVersion[match[1]]; ok {
			return nil, fmt.Errorf("version %s used by both %q and %q", match[1], prev, name)
		}
		byVersion[match[1]] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", name, err)
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(body), marker) {
				return nil, fmt.Errorf("migration %q missing %q", name, marker)
			}
		}
		versions = append(versions, match[1])
	}
	sort.Strings(versions)
	return versions, nil
}
