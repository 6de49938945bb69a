package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}

	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatalf("expected at least one migration")
	}

	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}

func TestInitialSchemaGuardsBalances(t *testing.T) {
	data, err := fs.ReadFile(FS, "000001_init_schema.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	schema := string(data)
	for _, want := range []string{
		"CHECK (balance >= 0)",
		"ON DELETE RESTRICT",
		"UNIQUE (account_number)",
		"UNIQUE (email)",
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
