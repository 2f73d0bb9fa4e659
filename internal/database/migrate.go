package database

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

// findDir looks for rel in the working directory and its parent (the binary
// may run from bin/).
func findDir(rel ...string) string {
	cwd, _ := os.Getwd()
	dirs := []string{
		filepath.Join(append([]string{cwd}, rel...)...),
		filepath.Join(append([]string{cwd, ".."}, rel...)...),
	}
	for _, d := range dirs {
		if _, err := os.Stat(d); err == nil {
			abs, _ := filepath.Abs(d)
			return abs
		}
	}
	return ""
}

// ensureDatabase creates the target database if it does not exist, connecting
// to the "postgres" maintenance database with the same credentials.
func ensureDatabase(databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("database name is empty in url")
	}
	u.Path = "/postgres"

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping admin connection: %w", err)
	}

	var exists bool
	if err := db.QueryRow("SELECT true FROM pg_database WHERE datname = $1", dbName).Scan(&exists); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	log.Printf("database: created %q", dbName)
	return nil
}

// MigrateUp creates the database if needed and applies all pending SQL
// migrations from database/migrations.
func MigrateUp(databaseURL string) error {
	if err := ensureDatabase(databaseURL); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	dir := findDir("database", "migrations")
	if dir == "" {
		return fmt.Errorf("migrations dir not found (tried cwd and parent)")
	}
	m, err := migrate.New("file://"+filepath.ToSlash(dir), databaseURL)
	if err != nil {
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("migrate: no pending migrations")
			return nil
		}
		return err
	}
	log.Println("migrate: up ok")
	return nil
}

// CreateMigration writes an empty up/down SQL pair into database/migrations.
func CreateMigration(name string) error {
	dir := findDir("database", "migrations")
	if dir == "" {
		cwd, _ := os.Getwd()
		dir = filepath.Join(cwd, "database", "migrations")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	base := fmt.Sprintf("%d_%s", time.Now().Unix(), name)
	up := filepath.Join(dir, base+".up.sql")
	down := filepath.Join(dir, base+".down.sql")
	if err := os.WriteFile(up, []byte("-- migration up: "+name+"\n"), 0644); err != nil {
		return err
	}
	return os.WriteFile(down, []byte("-- migration down: "+name+"\n"), 0644)
}
