package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"share-lab/domain"
	"share-lab/infrastructure/storage"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	// VIEWER_PAGES bounds how many history pages are printed, 0 prints everything
	Pages    int  `envconfig:"VIEWER_PAGES" default:"1"`
	PageSize int  `envconfig:"HISTORY_LIMIT" default:"50"`
	Colours  bool `envconfig:"VIEWER_COLOURS" default:"true"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while the dashboard holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repository := storage.NewSnapshotRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)), config.PageSize)

	// 3. Current placement
	last, err := repository.Last()
	if err != nil {
		fmt.Println(paint(config, color.FgYellow, "No placement stored yet"))
	} else {
		fmt.Println(paint(config, color.FgGreen, fmt.Sprintf("Current layout %d: %s", last.Layout, names(last.Participants))))
	}

	// 4. History, newest first
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Reason", "Layout", "Participants", "Published", "ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	var cursor *string
	for page := 0; config.Pages == 0 || page < config.Pages; page++ {
		records, next, err := repository.History(cursor)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		for _, r := range records {
			published := "no"
			if r.Published {
				published = paint(config, color.FgGreen, "yes")
			}
			table.Append([]string{
				r.At.Format("2006-01-02 15:04:05"),
				r.Reason,
				fmt.Sprintf("%d", r.Layout),
				names(r.Participants),
				published,
				r.ID.String()[:8],
			})
		}
		if len(records) == 0 || next == nil {
			break
		}
		cursor = next
	}
	table.Render()
}

func names(participants []domain.Participant) string {
	if len(participants) == 0 {
		return "-"
	}
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		out = append(out, p.Name)
	}
	return strings.Join(out, ", ")
}

func paint(config Config, c color.Color, text string) string {
	if !config.Colours {
		return text
	}
	return color.New(c).Render(text)
}
