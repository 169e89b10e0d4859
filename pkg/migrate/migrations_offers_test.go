package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVendorOffersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_vendor_offers.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no vendor offers migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS vendor_offers",
		"FOREIGN KEY (vendor_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (catalog_item_id) REFERENCES catalog_items(id) ON DELETE CASCADE",
		"CHECK (quantity >= 0)",
		"CHECK (initial_quantity > 0)",
		"CHECK (price > 0)",
		"DROP TABLE IF EXISTS vendor_offers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
