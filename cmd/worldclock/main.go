// Command worldclock shows the time in a list of zones for now or for a
// given date and time.
//
//	worldclock [flags] [time ...]
//
// Examples:
//
//	worldclock
//	worldclock 2030-07-01 12:00 CET --dst-info
//	worldclock --only-list Europe/Berlin Asia/Kolkata 9:30 PST
//	worldclock --list-timezones
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/pflag"

	"github.com/ngrash/worldclock/internal/config"
	"github.com/ngrash/worldclock/internal/logging"
	"github.com/ngrash/worldclock/internal/render"
	"github.com/ngrash/worldclock/tzdb"
	"github.com/ngrash/worldclock/worldclock"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, worldclock.SystemClock{}); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "worldclock:", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError is a problem with the command line.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

type options struct {
	configPath    string
	fold          int
	listTimezones bool
	dstInfo       bool
	alsoIn        bool
	long          bool
	strictFold    bool
	skipUnknown   bool
	extra         []string
	only          []string
	zoneinfo      string
	strategy      string
	level         string
}

func newFlagSet(o *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("worldclock", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: worldclock [flags] [time ...]")
		fs.PrintDefaults()
	}
	fs.StringVar(&o.configPath, "config", "", "read settings from this YAML file")
	fs.IntVar(&o.fold, "fold", -1, "explicitly choose the earlier (0) or later (1) time for ambiguous times")
	fs.BoolVar(&o.listTimezones, "list-timezones", false, "list all known zones with their offset and exit")
	fs.BoolVar(&o.dstInfo, "dst-info", false, "show if times are daylight saving times and until when, if that changes in the next 366 days")
	fs.BoolVar(&o.alsoIn, "also-in", false, "show other zones with the same time at the reference time")
	fs.BoolVar(&o.long, "long", false, "don't shorten the list of zones shown by --also-in")
	fs.StringSliceVar(&o.extra, "extra-list", nil, "also show these zones, separated by commas or spaces")
	fs.StringSliceVar(&o.only, "only-list", nil, "only show these zones, separated by commas or spaces")
	fs.StringVar(&o.zoneinfo, "zoneinfo", "", "read zones from this zoneinfo directory instead of the system database")
	fs.StringVar(&o.strategy, "dst-strategy", config.DefaultDSTStrategy, `find DST changes by "scan"ning or from the transition "table"`)
	fs.BoolVar(&o.strictFold, "strict-fold", false, "fail on ambiguous times unless --fold is given")
	fs.BoolVar(&o.skipUnknown, "skip-unknown", false, "leave out unknown zones instead of failing")
	fs.StringVarP(&o.level, "loglevel", "l", config.DefaultLogLevel, "set loglevel to trace, debug, info, warning, error or fatal")
	return fs
}

// settings merges the flags that were set into cfg.
func (o *options) settings(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("dst-info") {
		cfg.DSTInfo = o.dstInfo
	}
	if fs.Changed("also-in") {
		cfg.AlsoIn = o.alsoIn
	}
	if fs.Changed("long") {
		cfg.Long = o.long
	}
	if fs.Changed("strict-fold") {
		cfg.StrictFold = o.strictFold
	}
	if fs.Changed("skip-unknown") {
		cfg.SkipUnknown = o.skipUnknown
	}
	if fs.Changed("extra-list") {
		cfg.Extra = o.extra
	}
	if fs.Changed("only-list") {
		cfg.Only = o.only
	}
	if fs.Changed("zoneinfo") {
		cfg.Zoneinfo = o.zoneinfo
	}
	if fs.Changed("dst-strategy") {
		cfg.DSTStrategy = o.strategy
	}
	if fs.Changed("loglevel") {
		cfg.LogLevel = o.level
	}
}

func run(args []string, stdout, stderr io.Writer, clock worldclock.Clock) error {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(joinListArgs(args)); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return usageError{err}
	}
	var fold worldclock.Fold
	switch o.fold {
	case -1:
		fold = worldclock.FoldUnspecified
	case 0:
		fold = worldclock.FoldEarlier
	case 1:
		fold = worldclock.FoldLater
	default:
		return usageError{fmt.Errorf("--fold must be 0 or 1, got %d", o.fold)}
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.settings(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError{err}
	}
	log := logging.New(stderr, level)

	sys := &tzdb.System{Logger: log}
	var db tzdb.Database = sys
	if cfg.Zoneinfo != "" {
		db = &tzdb.Dir{Path: cfg.Zoneinfo, Logger: log}
	}

	resolver := &worldclock.Resolver{
		DB:         db,
		Local:      sys.Local(),
		Clock:      clock,
		StrictFold: cfg.StrictFold,
		Logger:     log,
	}
	at, err := resolver.Resolve(strings.Join(fs.Args(), " "), cfg.BaseTable(), fold)
	if err != nil {
		return err
	}
	log.Debug("reference time", "instant", at.UTC().Format(time.RFC3339), "fold", fold)

	calc := worldclock.Calculator{DB: db}
	if o.listTimezones {
		return listZones(stdout, log, calc, at)
	}

	var clusters worldclock.Clusters
	if cfg.AlsoIn {
		ids, err := db.ZoneIDs()
		if err != nil {
			return err
		}
		if clusters, err = worldclock.BuildClusters(calc, ids, at); err != nil {
			return err
		}
		log.Debug("built clusters", "zones", len(ids), "offsets", len(clusters))
	}

	asm := &worldclock.Assembler{
		Calc:        calc,
		Finder:      finder(cfg.DSTStrategy),
		DSTInfo:     cfg.DSTInfo,
		AlsoIn:      cfg.AlsoIn,
		Long:        cfg.Long,
		SkipUnknown: cfg.SkipUnknown,
		Logger:      log,
	}
	rows, err := asm.Rows(cfg.Table(), clusters, at)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("none of the zones could be shown")
	}
	return render.Table(stdout, rows, render.Options{DSTInfo: cfg.DSTInfo, AlsoIn: cfg.AlsoIn})
}

var listFlags = map[string]bool{"--extra-list": true, "--only-list": true}

// joinListArgs rewrites zone identifiers that follow a list flag as separate
// arguments into the flag's value, so "--only-list Europe/Paris Asia/Tokyo"
// reads as "--only-list=Europe/Paris,Asia/Tokyo".
func joinListArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		name, val, hasVal := strings.Cut(a, "=")
		if !listFlags[name] || (!hasVal && i+1 == len(args)) {
			out = append(out, a)
			continue
		}
		if !hasVal {
			i++
			val = args[i]
		}
		for i+1 < len(args) && isZoneID(args[i+1]) {
			i++
			if val != "" {
				val += ","
			}
			val += args[i]
		}
		out = append(out, name+"="+val)
	}
	return out
}

// isZoneID reports whether s has the Area/Location form of a zone
// identifier. Dates such as 3/1/2024 start with a digit.
func isZoneID(s string) bool {
	c, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(c) && strings.Contains(s, "/")
}

func finder(strategy string) worldclock.TransitionFinder {
	if strategy == config.StrategyTable {
		return worldclock.TableFinder{Fallback: worldclock.HorizonScanner{}}
	}
	return worldclock.HorizonScanner{}
}

func listZones(w io.Writer, log *slog.Logger, calc worldclock.Calculator, at time.Time) error {
	ids, err := calc.DB.ZoneIDs()
	if err != nil {
		return err
	}
	zones := make([]render.ZoneOffset, 0, len(ids))
	for _, id := range ids {
		res, err := calc.OffsetAt(id, at)
		if err != nil {
			log.Warn("skipping zone", "zone", id, "error", err)
			continue
		}
		zones = append(zones, render.ZoneOffset{Zone: id, Offset: res.Offset})
	}
	return render.Zones(w, zones)
}
