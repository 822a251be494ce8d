package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/foldview/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	deckDir := flag.String("deck", "", "directory of .txt/.md pages (optional, defaults to the sample deck)")
	vertical := flag.Bool("vertical", false, "flip pages top to bottom")
	pollSeconds := flag.Int("poll", 0, "deck rescan interval in seconds (optional, defaults to 5s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		DeckDir:    *deckDir,
		Vertical:   *vertical,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "foldview: %v\n", err)
		return 1
	}
	return 0
}
