package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mahefa-ra/agentwatch/internal/config"
	"github.com/mahefa-ra/agentwatch/internal/repository/postgres"
	"github.com/mahefa-ra/agentwatch/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("Connected to database successfully")

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name        TEXT PRIMARY KEY,
			executed_at TEXT NOT NULL
		)
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create migrations table: %v\n", err)
		os.Exit(1)
	}

	files, err := fs.Glob(migrations.GetFS(), "*.sql")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read migrations: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Println("No migration files found")
		return
	}

	for _, filename := range files {
		var count int
		query := db.Rebind("SELECT COUNT(*) FROM schema_migrations WHERE name = ?")
		if err := db.QueryRow(query, filename).Scan(&count); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to check migration status: %v\n", err)
			os.Exit(1)
		}

		if count > 0 {
			fmt.Printf("Skipping %s (already executed)\n", filepath.Base(filename))
			continue
		}

		content, err := fs.ReadFile(migrations.GetFS(), filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration %s: %v\n", filename, err)
			os.Exit(1)
		}

		fmt.Printf("Running migration: %s\n", filename)
		if _, err := db.Exec(string(content)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to execute migration %s: %v\n", filename, err)
			os.Exit(1)
		}

		insert := db.Rebind("INSERT INTO schema_migrations (name, executed_at) VALUES (?, CURRENT_TIMESTAMP)")
		if _, err := db.Exec(insert, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record migration %s: %v\n", filename, err)
			os.Exit(1)
		}

		fmt.Printf("Migration %s completed\n", filename)
	}

	fmt.Println("All migrations completed successfully")
}
