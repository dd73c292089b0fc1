// Package main provides a tool to seed the database with demo data.
//
// It creates a demo user with a few folders, tags, and prompts so the API
// has something to serve during development.
//
// Usage:
//
//	DATA_PATH=~/PromptKeep/data go run ./cmd/seed
//	go run ./cmd/seed --email demo@example.com --password demo-password
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/auth"
	"github.com/promptkeep/promptkeep-server/internal/color"
	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/id"
	"github.com/promptkeep/promptkeep-server/internal/store"
	"github.com/promptkeep/promptkeep-server/internal/store/sqlite"
)

var (
	email    = flag.String("email", "demo@promptkeep.local", "Email for the demo user")
	password = flag.String("password", "demo-password", "Password for the demo user")
)

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "PromptKeep", "data")
	}
	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataPath, "promptkeep.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := createDemoUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Demo user ready: %s (password: %s)\n", user.Email, *password)

	if err := seedContent(ctx, s, user); err != nil {
		log.Fatalf("Failed to seed content: %v", err)
	}

	fmt.Println("Done.")
}

func createDemoUser(ctx context.Context, s *sqlite.Store) (*domain.User, error) {
	if existing, err := s.GetUserByEmail(ctx, *email); err == nil {
		fmt.Println("Demo user already exists, reusing it")
		return existing, nil
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           userID,
		Name:         "Demo User",
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// CreateUser also provisions the user's General folder.
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedContent(ctx context.Context, s *sqlite.Store, user *domain.User) error {
	folders := map[string]string{
		"Writing": "Drafting and editing prompts",
		"Coding":  "Programming assistants",
	}

	folderIDs := make(map[string]string)
	for name, desc := range folders {
		folderID, err := id.Generate(id.PrefixFolder)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		f := &domain.Folder{
			ID:          folderID,
			Name:        name,
			Description: desc,
			UserID:      user.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.CreateFolder(ctx, f); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				fmt.Printf("Folder %q already exists, skipping\n", name)
				continue
			}
			return err
		}
		folderIDs[name] = folderID
		fmt.Printf("Created folder: %s\n", name)
	}

	tagIDs := make([]string, 0, 3)
	for i, name := range []string{"daily", "experimental", "favorite"} {
		tag, created, err := s.FindOrCreateTag(ctx, user.ID, name, i%domain.TagPaletteSize)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created tag: %s (%s)\n", name, color.TagHex(tag.Color))
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	general, err := s.GetGeneralFolder(ctx, user.ID)
	if err != nil {
		return err
	}

	prompts := []struct {
		title  string
		body   string
		folder string
		tags   []string
	}{
		{
			title:  "Summarize meeting notes",
			body:   "Summarize the following meeting notes into action items grouped by owner.",
			folder: "",
			tags:   tagIDs[:1],
		},
		{
			title:  "Blog post outline",
			body:   "Outline a blog post about the topic below. Include an intro hook and three sections.",
			folder: "Writing",
			tags:   tagIDs[:2],
		},
		{
			title:  "Code review checklist",
			body:   "Review this diff for correctness, naming, and missing tests. Be specific.",
			folder: "Coding",
			tags:   tagIDs[2:],
		},
	}

	for _, p := range prompts {
		promptID, err := id.Generate(id.PrefixPrompt)
		if err != nil {
			return err
		}
		folderID := general.ID
		if p.folder != "" {
			if fid, ok := folderIDs[p.folder]; ok {
				folderID = fid
			}
		}
		now := time.Now().UTC()
		prompt := &domain.Prompt{
			ID:        promptID,
			Title:     p.title,
			Body:      p.body,
			CopyCount: rand.Intn(20),
			FolderID:  folderID,
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreatePrompt(ctx, prompt, p.tags); err != nil {
			return err
		}
		fmt.Printf("Created prompt: %s\n", p.title)
	}

	return nil
}
