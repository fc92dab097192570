package config

import (
	"fmt"
	"strings"

	"github.com/phuslu/log"

	"recruit-engine/internal/listing"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a trimmed copy of cfg with the problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.App.Host = strings.TrimSpace(out.App.Host)
	out.Listing.DefaultSort = strings.ToLower(strings.TrimSpace(out.Listing.DefaultSort))
	out.Security.KeyringAccount = strings.TrimSpace(out.Security.KeyringAccount)
	out.Seed.File = strings.TrimSpace(out.Seed.File)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))

	if out.App.Host == "" {
		res.addErr("app.host is required")
	}
	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Listing.PageSize <= 0 {
		res.addErr("listing.page_size must be > 0")
	} else if out.Listing.PageSize > 200 {
		res.addWarn("listing.page_size is large (%d); every event re-renders all cards.", out.Listing.PageSize)
	}
	if out.Listing.DefaultSort == "" {
		out.Listing.DefaultSort = listing.DefaultSort
	}
	key, dir := listing.ParseSort(out.Listing.DefaultSort)
	if canonical := string(key) + "_" + string(dir); canonical != out.Listing.DefaultSort {
		res.addErr("listing.default_sort %q is not one of posted|deadline|apps with _asc|_desc", out.Listing.DefaultSort)
	}
	if out.Listing.ViewTTLSeconds <= 0 {
		res.addErr("listing.view_ttl_seconds must be > 0")
	}
	if out.Listing.SweepSeconds <= 0 {
		res.addErr("listing.sweep_seconds must be > 0")
	} else if out.Listing.ViewTTLSeconds > 0 && out.Listing.SweepSeconds > out.Listing.ViewTTLSeconds {
		res.addWarn("listing.sweep_seconds (%d) exceeds view_ttl_seconds (%d); idle views outlive their TTL.",
			out.Listing.SweepSeconds, out.Listing.ViewTTLSeconds)
	}

	if out.Security.KeyringAccount == "" {
		res.addErr("security.keyring_account is required")
	}
	if out.Security.RatePerSecond <= 0 {
		res.addErr("security.rate_per_second must be > 0")
	}
	if out.Security.RateBurst <= 0 {
		res.addErr("security.rate_burst must be > 0")
	}

	if out.Log.Level == "" {
		out.Log.Level = "info"
	}
	switch out.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		res.addErr("log.level %q must be trace|debug|info|warn|error", out.Log.Level)
	}

	if out.Seed.File == "" {
		res.addWarn("seed.file is empty; the list shows only postings already stored.")
	}

	return out, res
}

// Level maps log.level onto the logger's level.
func (c Config) Level() log.Level {
	return log.ParseLevel(c.Log.Level)
}
