package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/handiism/deezer-downloader/internal/config"
	"github.com/handiism/deezer-downloader/internal/deezer"
	"github.com/handiism/deezer-downloader/internal/download"
)

func main() {
	// Command line flags
	var (
		urlFlag         = flag.String("url", "", "Deezer track or album URL to download")
		trackFlag       = flag.Int64("track", 0, "Track ID to download")
		searchFlag      = flag.String("search", "", "Search albums and tracks instead of downloading")
		bitrateFlag     = flag.String("bitrate", "", "Preferred quality: FLAC, MP3_320, MP3_256, MP3_128 (overrides config)")
		outputFlag      = flag.String("out", "", "Output directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		concurrencyFlag = flag.Int("concurrency", 0, "Concurrent track downloads (overrides config)")
		playlistFlag    = flag.Bool("playlist", false, "Write an M3U playlist after album downloads")
		skipFailedFlag  = flag.Bool("skip-failed", false, "Keep going when a track fails, skipping it")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output and debug logs")
	)

	flag.Parse()

	if *urlFlag == "" && *trackFlag == 0 && *searchFlag == "" && flag.NArg() == 0 {
		fmt.Println("Deezer Downloader - Download music from Deezer")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  deezer-dl -url <URL> [options]")
		fmt.Println("  deezer-dl -track <ID> [options]")
		fmt.Println("  deezer-dl -search <query>")
		fmt.Println("  deezer-dl <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: deezer-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load .env before the config so the environment overlay sees it
	_ = godotenv.Load()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *bitrateFlag != "" {
		settings.Bitrate = *bitrateFlag
	}
	if *concurrencyFlag > 0 {
		settings.Concurrency = *concurrencyFlag
	}
	if *playlistFlag {
		settings.WritePlaylist = true
	}
	if *skipFailedFlag {
		settings.SkipFailedTracks = true
	}

	url := *urlFlag
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	logger := zap.NewNop()
	if *verboseFlag {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	session := deezer.NewSession(settings.ARL, &deezer.SessionOptions{Logger: logger})

	// Search needs no login
	if *searchFlag != "" {
		if err := runSearch(ctx, session, *searchFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if settings.ARL == "" {
		fmt.Fprintln(os.Stderr, `Error: no arl cookie configured. Set DEEZER_ARL or add "arl" to the config file.`)
		os.Exit(1)
	}

	manager := download.NewManager(session, &download.Options{
		Concurrency:      settings.Concurrency,
		SkipFailedTracks: settings.SkipFailedTracks,
		Logger:           logger,
		OnEvent:          printEvent(*verboseFlag),
	})

	fmt.Println("🎵 Deezer Downloader")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	saveOpts := download.SaveOptions{
		Dir:           settings.OutputDir,
		Bitrate:       settings.ParsedBitrate(),
		CoverSize:     settings.ParsedCoverSize(),
		CoverMaxEdge:  settings.CoverMaxEdge,
		WritePlaylist: settings.WritePlaylist,
	}

	paths, err := run(ctx, manager, url, *trackFlag, saveOpts)
	if err != nil && ctx.Err() != nil {
		fmt.Println("\nDownload cancelled.")
		os.Exit(130)
	}

	downloaded, failed := manager.Stats()
	if err != nil && downloaded == 0 {
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("✨ Complete! Downloaded %d tracks (%.2f MB)\n", downloaded, float64(manager.BytesDownloaded())/1024/1024)
	if failed > 0 {
		fmt.Printf("   %d tracks failed\n", failed)
	}
	if len(paths) > 0 {
		fmt.Printf("   Saved under %s\n", settings.OutputDir)
	}
}

// run downloads either a single track by ID or whatever the URL
// points at. Single track downloads get a byte progress bar; album
// downloads report per-track events instead.
func run(ctx context.Context, manager *download.Manager, url string, trackID int64, opts download.SaveOptions) ([]string, error) {
	if trackID > 0 {
		opts.OnProgress = byteBar()

		track, err := manager.Catalog().Track(ctx, trackID)
		if err != nil {
			return nil, err
		}
		path, err := manager.SaveTrack(ctx, track, opts)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	link, err := deezer.ParseLink(url)
	if err != nil {
		return nil, err
	}
	if link.Kind == deezer.LinkTrack {
		opts.OnProgress = byteBar()
	}
	return manager.SaveByURL(ctx, url, opts)
}

func runSearch(ctx context.Context, session *deezer.Session, query string) error {
	result, err := session.Search(ctx, query, deezer.DefaultAlbumLimit, deezer.DefaultTotalLimit)
	if err != nil {
		return err
	}

	if len(result.Albums) > 0 {
		fmt.Println("Albums:")
		for _, album := range result.Albums {
			fmt.Printf("  %s - %s\n    %s\n", album.Artist, album.Title, album.Link)
		}
		fmt.Println()
	}
	if len(result.Tracks) > 0 {
		fmt.Println("Tracks:")
		for _, track := range result.Tracks {
			fmt.Printf("  %s - %s [%s]\n    %s\n", track.Artist, track.Title, track.Album, track.Link)
		}
	}
	if len(result.Albums) == 0 && len(result.Tracks) == 0 {
		fmt.Println("No results.")
	}
	return nil
}

// printEvent writes manager notifications to the terminal.
func printEvent(verbose bool) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		}

		fmt.Println(prefix + event.Message)
	}
}

// byteBar adapts a terminal byte progress bar to the manager's
// progress callbacks. The bar is created on the first callback, when
// the stream size is known.
func byteBar() download.ProgressFunc {
	var (
		mu  sync.Mutex
		bar *progressbar.ProgressBar
	)
	return func(current, total int64) {
		mu.Lock()
		defer mu.Unlock()
		if bar == nil {
			bar = progressbar.DefaultBytes(total, "downloading")
		}
		_ = bar.Set64(current)
		if current == total {
			_ = bar.Finish()
		}
	}
}
