// Package main provides a read-only inspection tool for the PromptKeep database.
//
// It prints per-user counts of folders, prompts, tags, and active sessions,
// plus the most-copied prompts. Useful when debugging a live data directory.
//
// Usage:
//
//	DATA_PATH=~/PromptKeep/data go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/store"
	"github.com/promptkeep/promptkeep-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "PromptKeep", "data")
	}

	dbPath := filepath.Join(dataPath, "promptkeep.db")
	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("Database not found at %s", dbPath)
	}

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Path: %s\n\n", dbPath)

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	fmt.Printf("Users: %d\n\n", len(users))

	for _, u := range users {
		fmt.Printf("User: %s (%s)\n", u.Email, u.ID)

		folders, err := s.ListFolders(ctx, u.ID)
		if err != nil {
			log.Fatalf("Failed to list folders for %s: %v", u.ID, err)
		}

		tags, err := s.ListTags(ctx, u.ID)
		if err != nil {
			log.Fatalf("Failed to list tags for %s: %v", u.ID, err)
		}

		page, err := s.ListPrompts(ctx, store.PromptQuery{
			UserID:        u.ID,
			SortBy:        domain.SortByCopyCount,
			SortDirection: "desc",
			PageSize:      5,
		})
		if err != nil {
			log.Fatalf("Failed to list prompts for %s: %v", u.ID, err)
		}

		fmt.Printf("  Folders: %d\n", len(folders))
		fmt.Printf("  Tags:    %d\n", len(tags))
		fmt.Printf("  Prompts: %d\n", page.Total)

		if len(page.Items) > 0 {
			fmt.Println("  Most copied:")
			for _, p := range page.Items {
				fmt.Printf("    %4d  %s\n", p.CopyCount, p.Title)
			}
		}
		fmt.Println()
	}
}
