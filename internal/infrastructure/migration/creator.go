package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- {{.Name}}
-- Created: {{.Timestamp}}

`

const migrationDownTemplate = `-- {{.Name}} (rollback)
-- Created: {{.Timestamp}}

`

var (
	migrationFileRe = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)
	unsafeNameRe    = regexp.MustCompile(`[^a-z0-9]+`)
)

// MigrationFile is a newly created up/down migration pair
type MigrationFile struct {
	Version   uint
	Name      string
	Timestamp string
	UpPath    string
	DownPath  string
}

// CreateMigration writes the next sequentially numbered migration pair
// (000002_name.up.sql / .down.sql) into dir.
func CreateMigration(dir, name string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	prefix := fmt.Sprintf("%06d_%s", next, base)
	mf := &MigrationFile{
		Version:   next,
		Name:      name,
		Timestamp: time.Now().Format(time.RFC3339),
		UpPath:    filepath.Join(dir, prefix+".up.sql"),
		DownPath:  filepath.Join(dir, prefix+".down.sql"),
	}

	if err := writeFromTemplate(mf.UpPath, migrationUpTemplate, mf); err != nil {
		return nil, err
	}
	if err := writeFromTemplate(mf.DownPath, migrationDownTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeFromTemplate(path, text string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sanitizeName lowercases name and collapses every run of other characters
// into a single underscore
func sanitizeName(name string) string {
	return strings.Trim(unsafeNameRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// MigrationEntry is an existing migration found on disk
type MigrationEntry struct {
	Version uint
	Name    string
}

// ListMigrations returns the migrations in dir ordered by version. A missing
// directory yields an empty list.
func ListMigrations(dir string) ([]MigrationEntry, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []MigrationEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	found := make([]MigrationEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFileRe.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			continue
		}
		found = append(found, MigrationEntry{Version: uint(version), Name: match[2]})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Version < found[j].Version })
	return found, nil
}
