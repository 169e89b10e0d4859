package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSelectionsMigrationEnforcesOnePerItem(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_shopping_lists.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no shopping lists migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS shopping_lists",
		"CREATE TABLE IF NOT EXISTS shopping_list_items",
		"CREATE TABLE IF NOT EXISTS selections",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_selections_item ON selections (shopping_list_item_id)",
		"CHECK (status IN ('draft', 'completed'))",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
