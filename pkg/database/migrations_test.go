package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestMigrationsArePaired(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations embedded")
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, f := range files {
		name := strings.TrimPrefix(f, "migrations/")
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
	if len(ups) != len(downs) {
		t.Errorf("%d up and %d down migrations", len(ups), len(downs))
	}
}

func TestMigrationSourceReadsVersions(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("iofs: %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil || version != 1 {
		t.Fatalf("first version = %d, %v", version, err)
	}
	count := 1
	for {
		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
		count++
	}
	if count != 4 {
		t.Fatalf("expected 4 migrations, got %d", count)
	}
}
