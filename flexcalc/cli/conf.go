package cli

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// defaults for configuration keys which may be overridden by config files
// and command line flags.
var defaults = map[string]interface{}{
	"lexer.maxlinelength": flexcalc.DefaultMaxLineLength,
	"output.precision":    12,
	"output.locale":       "en",
	"repl.editmode":       "emacs",
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"maxlinelength": "lexer.maxlinelength",
	"precision":     "output.precision",
	"locale":        "output.locale",
	"editmode":      "repl.editmode",
}

// loadConfig is a callback function used by cobra's initialization mechanism.
// Unfortunately we're not allowed a return value.
func loadConfig() {
	k := koanf.New(".") // '.' is hierarchy delimiter
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		tracing.Errorf(err.Error())
		flexcalc.Exit(1)
	}
	// We locate flexcalc configuration with an application-key of 'FLEXCALC' and
	// use NestedText-format (nt) for config-files
	konf := koanfadapter.New(k, "FLEXCALC", []string{"nt"})
	konf.InitDefaults()
	if err := mergeFlags(konf); err != nil {
		tracing.Errorf(err.Error())
		flexcalc.Exit(1)
	}
	if err := configureTracing(konf); err != nil {
		tracing.Errorf(err.Error())
		flexcalc.Exit(1)
	}
	flexcalc.Configuration = k // push the configuration to app-global scope
}

func mergeFlags(konf *koanfadapter.KConf) error {
	flags := rootCmd.PersistentFlags()
	provider := posflag.ProviderWithValue(flags, ".", konf.Koanf(), func(key, value string) (string, interface{}) {
		if k, ok := flagKeys[key]; ok {
			return k, value
		}
		return key, value
	})
	if err := konf.Koanf().Load(provider, nil); err != nil {
		return err
	}
	if logname := konf.GetString("logfile"); logname != "" && logname != "stderr" {
		if strings.Contains(logname, ":/") {
			konf.Set("tracing.destination", logname)
		} else {
			konf.Set("tracing.destination", "file://"+logname)
		}
	}
	return nil
}

func configureTracing(konf *koanfadapter.KConf) error {
	if a := konf.GetString("tracing.adapter"); a != "" && a != "go" {
		tracing.Errorf("tracing adapter type '%s' currently not supported", a)
	}
	konf.Set("tracing.adapter", "go") // use Go builtin logging facilities
	paths := locatePaths()
	if dest := konf.GetString("tracing.destination"); dest != "" {
		if !strings.Contains(dest, ":") && paths.ConfigDir() != "" {
			dest = "file://" + paths.ConfigDir() + "/" + dest
			konf.Set("tracing.destination", dest)
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func locatePaths() AppPaths {
	paths, err := DefaultAppPaths("FLEXCALC")
	if err != nil {
		tracing.Errorf("cannot configure paths: %v", err)
	}
	return paths
}

// settings are the configuration values the commands need, read from
// flexcalc.Configuration.
type settings struct {
	maxLineLength int
	precision     int
	locale        string
	editMode      string
}

func currentSettings() settings {
	s := settings{
		maxLineLength: flexcalc.DefaultMaxLineLength,
		precision:     12,
		locale:        "en",
		editMode:      "emacs",
	}
	k := flexcalc.Configuration
	if k == nil {
		return s
	}
	if n := k.Int("lexer.maxlinelength"); n > 0 {
		s.maxLineLength = n
	}
	if k.Exists("output.precision") {
		s.precision = k.Int("output.precision")
	}
	if l := k.String("output.locale"); l != "" {
		s.locale = l
	}
	if m := k.String("repl.editmode"); m == "vi" {
		s.editMode = m
	}
	return s
}
