package db

import "testing"

func TestMigrationURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/finance":   "pgx5://u:p@localhost:5432/finance",
		"postgresql://u:p@localhost:5432/finance": "pgx5://u:p@localhost:5432/finance",
		"pgx5://u:p@localhost:5432/finance":       "pgx5://u:p@localhost:5432/finance",
	}
	for in, want := range cases {
		if got := migrationURL(in); got != want {
			t.Fatalf("migrationURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected up and down migrations, got %d files", len(entries))
	}
}
