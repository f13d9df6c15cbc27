// Package bootstrap loads command-line/environment configuration for the
// cmd/analyzercore entry point.
package bootstrap

import (
	"flag"
	"os"
	"strconv"

	"github.com/sebas/sipwatch/internal/callcore/config"
)

// Config holds every option the core needs plus the log level for the
// ambient logger.
type Config struct {
	LogLevel string

	Capture config.CaptureOptions
	Match   config.MatchOptions
	Sort    config.SortOptions
}

// Load parses flags and environment variables into a Config.
func Load() *Config {
	cfg := &Config{
		Capture: config.CaptureOptions{Limit: 1000, Rotate: true, RTPCapture: true},
	}

	flag.StringVar(&cfg.LogLevel, "loglevel", "info", "log level (debug, info, warn, error)")
	flag.IntVar(&cfg.Capture.Limit, "limit", cfg.Capture.Limit, "max retained calls (0 = unbounded)")
	flag.BoolVar(&cfg.Capture.Rotate, "rotate", cfg.Capture.Rotate, "evict oldest unlocked call at capacity")
	flag.BoolVar(&cfg.Capture.RTPCapture, "rtp", cfg.Capture.RTPCapture, "track RTP/RTCP streams")
	flag.BoolVar(&cfg.Capture.StorageMode, "store-payload", false, "retain raw payload per message")
	flag.StringVar(&cfg.Match.Expr, "mexpr", "", "match expression (extended regex)")
	flag.BoolVar(&cfg.Match.Invert, "minvert", false, "invert match expression")
	flag.BoolVar(&cfg.Match.Case, "micase", false, "case-insensitive match expression")
	flag.BoolVar(&cfg.Match.Invite, "match-invite", false, "only track calls starting with INVITE")
	flag.BoolVar(&cfg.Match.Complete, "match-complete", false, "only track calls starting with a dialog-initiating request")
	flag.Parse()

	if v := os.Getenv("LOGLEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CAPTURE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Capture.Limit = n
		}
	}
	if v := os.Getenv("MATCH_EXPR"); v != "" {
		cfg.Match.Expr = v
	}

	cfg.Sort = config.LoadSort(envLookup{})
	return cfg
}

// envLookup is the SettingLookup implementation used outside a full config
// module: it reads CALL_LIST_SORT_FIELD / CALL_LIST_SORT_ORDER from the
// environment.
type envLookup struct{}

func (envLookup) Lookup(key string) (string, bool) {
	var envKey string
	switch key {
	case "call-list.sort-field":
		envKey = "CALL_LIST_SORT_FIELD"
	case "call-list.sort-order":
		envKey = "CALL_LIST_SORT_ORDER"
	default:
		return "", false
	}
	return os.LookupEnv(envKey)
}
