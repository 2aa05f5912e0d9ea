package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gorm.io/gorm/schema"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)CREATE TABLE (?:IF NOT EXISTS )?([a-z_][a-z0-9_]*)`)
	insertIntoRe  = regexp.MustCompile(`(?i)INSERT INTO ([a-z_][a-z0-9_]*)`)
)

type migrationFile struct {
	version string
	name    string
	body    string
}

// ValidateDir checks migration filenames, version uniqueness and goose
// Up/Down markers.
func ValidateDir(dir string) error {
	_, err := readMigrations(dir)
	return err
}

// ValidateSchema runs ValidateDir and then checks the files against the
// models the sqlite bootstrap builds from: every model table must be
// created by some migration, and rows may only be inserted into a table
// once an earlier (or the same) migration has created it.
func ValidateSchema(dir string) error {
	files, err := readMigrations(dir)
	if err != nil {
		return err
	}

	created := map[string]string{} // table -> version
	for _, f := range files {
		up := upSection(f.body)
		for _, m := range createTableRe.FindAllStringSubmatch(up, -1) {
			table := strings.ToLower(m[1])
			if _, ok := created[table]; !ok {
				created[table] = f.version
			}
		}
		for _, m := range insertIntoRe.FindAllStringSubmatch(up, -1) {
			table := strings.ToLower(m[1])
			if _, ok := created[table]; !ok {
				return fmt.Errorf("migration %q inserts into %s before it is created", f.name, table)
			}
		}
	}

	for _, model := range models.All() {
		tabler, ok := model.(schema.Tabler)
		if !ok {
			continue
		}
		if _, ok := created[tabler.TableName()]; !ok {
			return fmt.Errorf("no migration creates table %s", tabler.TableName())
		}
	}
	return nil
}

// readMigrations returns the directory's migrations ordered by version.
func readMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	var files []migrationFile

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		up := strings.Index(txt, "-- +goose Up")
		down := strings.Index(txt, "-- +goose Down")
		switch {
		case up < 0:
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		case down < 0:
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		case down < up:
			return nil, fmt.Errorf("migration %q has its Down section before Up", name)
		}
		files = append(files, migrationFile{version: version, name: name, body: txt})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %q", dir)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

func upSection(body string) string {
	up := strings.Index(body, "-- +goose Up")
	down := strings.Index(body, "-- +goose Down")
	return body[up:down]
}
