package config

import (
	"fmt"
	"strconv"

	goflags "github.com/jessevdk/go-flags"
)

// ArticleCount is an optional positive count; Set records whether a value
// was given on the command line or in the environment
type ArticleCount struct {
	Value int
	Set   bool
}

// UnmarshalFlag implements goflags.Unmarshaler
func (c *ArticleCount) UnmarshalFlag(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("article count %q is not an integer", value)
	}
	if n <= 0 {
		return fmt.Errorf("article count must be positive, got %d", n)
	}
	c.Value = n
	c.Set = true
	return nil
}

// MarshalFlag implements goflags.Marshaler
func (c ArticleCount) MarshalFlag() (string, error) {
	if !c.Set {
		return "", nil
	}
	return strconv.Itoa(c.Value), nil
}

// Options holds the command-line flags. The article count can also come from
// the ARTICLE_COUNT environment variable; an explicit flag wins.
type Options struct {
	ConfigPath string       `short:"c" long:"config" description:"Path to YAML configuration file" default:"config.yaml"`
	Count      ArticleCount `short:"n" long:"count" env:"ARTICLE_COUNT" value-name:"N" description:"Number of newest articles to check (default 100)"`
	Fetcher    string       `short:"f" long:"fetcher" choice:"rod" choice:"colly" description:"Browsing implementation"`
}

// ParseArgs parses command-line arguments (without the program name)
func ParseArgs(args []string) (*Options, error) {
	var opts Options

	parser := goflags.NewParser(&opts, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "hn-sort-checker"
	parser.LongDescription = "Checks that the newest Hacker News submissions are listed newest first."

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	return &opts, nil
}

// IsHelp reports whether err is the help request returned by ParseArgs
func IsHelp(err error) bool {
	flagsErr, ok := err.(*goflags.Error)
	return ok && flagsErr.Type == goflags.ErrHelp
}

// Apply overrides cfg with any options given on the command line or in the
// environment, then validates the result
func (o *Options) Apply(cfg *Config) error {
	if o.Count.Set {
		cfg.ArticleCount = o.Count.Value
	}
	if o.Fetcher != "" {
		cfg.Fetcher = o.Fetcher
	}
	return cfg.Validate()
}
