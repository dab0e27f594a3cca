package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bicisena/bicisena-backend/pkg/config"
)

func TestDialect(t *testing.T) {
	if d, err := Dialect(config.DriverPostgres); err != nil || d != "postgres" {
		t.Fatalf("unexpected postgres dialect %q %v", d, err)
	}
	if d, err := Dialect(config.DriverMySQL); err != nil || d != "mysql" {
		t.Fatalf("unexpected mysql dialect %q %v", d, err)
	}
	if _, err := Dialect(config.DriverSQLite); err == nil {
		t.Fatal("sqlite has no SQL migrations")
	}
}

func TestEmbeddedMigrationsCoverBothTables(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL} {
		entries, err := embedded.ReadDir("migrations/" + driver)
		if err != nil {
			t.Fatalf("read embedded %s: %v", driver, err)
		}
		var all strings.Builder
		for _, e := range entries {
			b, err := embedded.ReadFile("migrations/" + driver + "/" + e.Name())
			if err != nil {
				t.Fatalf("read %s: %v", e.Name(), err)
			}
			all.Write(b)
		}
		sql := all.String()
		for _, want := range []string{"usuarios_cedula_key", "usuarios_codigo_key", "REFERENCES usuarios (id)"} {
			if !strings.Contains(sql, want) {
				t.Fatalf("%s migrations missing %q", driver, want)
			}
		}
	}
}

func TestShippedMigrationsAreAlignedAcrossDialects(t *testing.T) {
	if err := ValidateDialects("migrations", config.DriverPostgres, config.DriverMySQL); err != nil {
		t.Fatalf("ValidateDialects: %v", err)
	}
}

func TestCreateForDialectsKeepsVersionsAligned(t *testing.T) {
	root := t.TempDir()
	paths, err := CreateForDialects(root, "add parking slot", config.DriverPostgres, config.DriverMySQL)
	if err != nil {
		t.Fatalf("CreateForDialects: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != filepath.Base(paths[1]) {
		t.Fatalf("expected matching files, got %v", paths)
	}
	if err := ValidateDialects(root, config.DriverPostgres, config.DriverMySQL); err != nil {
		t.Fatalf("ValidateDialects: %v", err)
	}

	later := time.Now().UTC().Add(time.Hour)
	if _, err := createVersioned(later, "mysql only", filepath.Join(root, config.DriverMySQL)); err != nil {
		t.Fatalf("createVersioned: %v", err)
	}
	if err := ValidateDialects(root, config.DriverPostgres, config.DriverMySQL); err == nil {
		t.Fatal("expected diverging dialects to fail validation")
	}

	if _, err := CreateForDialects(root, "x", config.DriverSQLite); err == nil {
		t.Fatal("sqlite has no SQL migrations")
	}
}

func TestCreateSQLMigrationThenValidate(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Rider Index!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_rider_index.sql") {
		t.Fatalf("unexpected path %q", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("select 1;"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}
}
