package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// RunSeeds executes every *.sql file in database/seeds in lexicographic order.
func RunSeeds(db *gorm.DB) error {
	dir := findDir("database", "seeds")
	if dir == "" {
		return fmt.Errorf("seeds dir not found (tried database/seeds)")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, f := range files {
		body, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return fmt.Errorf("seed %s: %w", f, err)
		}
		if err := db.Exec(string(body)).Error; err != nil {
			return fmt.Errorf("seed %s: %w", f, err)
		}
		log.Printf("seed: applied %s", f)
	}
	return nil
}
