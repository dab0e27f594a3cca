package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- %s
-- +goose Up

-- +goose Down
`

// CreateSQLMigration writes an empty goose migration into dir and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	paths, err := createVersioned(time.Now().UTC(), name, dir)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// CreateForDialects writes the same version into <root>/<driver> for every
// driver so the dialect trees stay aligned.
func CreateForDialects(root, name string, drivers ...string) ([]string, error) {
	if len(drivers) == 0 {
		return nil, fmt.Errorf("at least one driver is required")
	}
	dirs := make([]string, 0, len(drivers))
	for _, driver := range drivers {
		if _, err := Dialect(driver); err != nil {
			return nil, err
		}
		dirs = append(dirs, filepath.Join(root, driver))
	}
	return createVersioned(time.Now().UTC(), name, dirs...)
}

func createVersioned(now time.Time, name string, dirs ...string) ([]string, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	filename := fmt.Sprintf("%s_%s.sql", now.Format(versionLayout), slug)

	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			return nil, fmt.Errorf("dir is required")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", dir, err)
		}
		full := filepath.Join(dir, filename)
		if _, err := os.Stat(full); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", full)
		}
		if err := os.WriteFile(full, []byte(fmt.Sprintf(migrationTemplate, slug)), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", full, err)
		}
		paths = append(paths, full)
	}
	return paths, nil
}

func slugify(name string) string {
	slug := unsafeNameChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(slug, "_")
}
