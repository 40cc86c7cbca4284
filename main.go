package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"hn-sort-checker/config"
	"hn-sort-checker/fetcher"
	"hn-sort-checker/models"
	"hn-sort-checker/scraper"
	"hn-sort-checker/validator"

	"github.com/google/uuid"
)

// newestURL is the listing checked by run
var newestURL = scraper.NewestURL

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one check and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	runID := uuid.NewString()
	log.SetPrefix(fmt.Sprintf("[%s] ", runID[:8]))

	opts, err := config.ParseArgs(args)
	if err != nil {
		if config.IsHelp(err) {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintf(stderr, "Invalid arguments: %v\n", err)
		return 2
	}

	cfg := loadConfig(opts.ConfigPath)
	if err := opts.Apply(cfg); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 2
	}

	log.Printf("Starting Hacker News article validation (run %s, %d articles, %s fetcher)\n", runID, cfg.ArticleCount, cfg.Fetcher)

	if err := checkNewest(cfg, newestURL); err != nil {
		fmt.Fprintln(stderr, "\nTest failed with an error:")
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "Success! Validated that the first %d articles are sorted correctly from newest to oldest.\n", cfg.ArticleCount)
	return 0
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config file: %v. Using defaults.\n", err)
			cfg = config.GetDefaultConfig()
		}
	} else {
		log.Println("Config file not found. Using default configuration.")
		cfg = config.GetDefaultConfig()
	}
	return cfg
}

// checkNewest collects the timestamps from the listing at url and validates them.
// The browser is closed before validation starts.
func checkNewest(cfg *config.Config, url string) error {
	timestamps, err := collectTimestamps(cfg, url)
	if err != nil {
		return err
	}

	log.Printf("Retrieved %d articles. Now validating...\n", len(timestamps))
	if newest, ok := timestamps.Newest(); ok {
		oldest, _ := timestamps.Oldest()
		log.Printf("Newest %s, oldest %s, span %s\n", newest, oldest, timestamps.Span())
	}

	return validator.New(cfg.ArticleCount).Validate(timestamps)
}

// collectTimestamps owns the browsing session for the duration of the scrape
func collectTimestamps(cfg *config.Config, url string) (models.Sequence, error) {
	f, err := fetcher.New(cfg.Fetcher, cfg.SettleTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: Failed to close browser: %v\n", err)
		}
	}()

	page, err := f.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Printf("Warning: Failed to close page: %v\n", err)
		}
	}()

	newestPage := scraper.NewNewestPage(page, url)
	if err := newestPage.Goto(); err != nil {
		return nil, err
	}

	return newestPage.TimestampsForFirst(cfg.ArticleCount)
}
