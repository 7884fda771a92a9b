package worldclock

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/ngrash/worldclock/abbrev"
	"github.com/ngrash/worldclock/tzdb"
)

// Fold selects one of the two instants a repeated local time denotes.
type Fold int

const (
	FoldUnspecified Fold = iota
	FoldEarlier
	FoldLater
)

func (f Fold) String() string {
	switch f {
	case FoldEarlier:
		return "earlier"
	case FoldLater:
		return "later"
	default:
		return "unspecified"
	}
}

// ParseError reports free text that is not a time, or a zone token that
// cannot be resolved.
type ParseError struct {
	Text string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	s := fmt.Sprintf("cannot parse %q: %s", e.Text, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Err }

// AmbiguousTimeError reports a local time that occurs twice in a zone when
// no fold was chosen and the resolver is strict.
type AmbiguousTimeError struct {
	Local          time.Time // wall clock fields only
	Zone           string
	Earlier, Later time.Time
}

func (e *AmbiguousTimeError) Error() string {
	return fmt.Sprintf("%s is ambiguous in %s: %s or %s, choose a fold",
		e.Local.Format("2006-01-02 15:04:05"), e.Zone,
		e.Earlier.UTC().Format(time.RFC3339), e.Later.UTC().Format(time.RFC3339))
}

// Resolver turns free text into an instant.
type Resolver struct {
	// DB resolves zone identifiers written in the text.
	DB tzdb.Database
	// Local is the zone of times written without a zone.
	Local tzdb.Zone
	// Clock provides "now". If nil, SystemClock is used.
	Clock Clock
	// StrictFold makes an unspecified fold on an ambiguous time an error
	// instead of choosing the earlier instant.
	StrictFold bool
	// Logger receives debug output. If nil, slog.Default() is used.
	Logger *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Resolver) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock.Now()
}

// noZone marks parse results without an explicit zone. No real zone has
// an offset of one second.
var noZone = time.FixedZone("", 1)

// Resolve parses text into an instant. Empty text is the current time.
//
// At most one whitespace separated token names the zone of the text: a
// label of table, a literal offset such as "+05:30", "UTC", "Z", "GMT" or
// a zone identifier of the database. Without such a token the time is
// local. The rest of the text is a date and time, or a time of day on the
// current date of the zone.
//
// Local times that occur twice are resolved with fold; see ResolveLocal.
func (r *Resolver) Resolve(text string, table abbrev.Table, fold Fold) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return r.now(), nil
	}

	var (
		zone  tzdb.Zone
		rest  []string
		token string
	)
	for _, f := range strings.Fields(text) {
		z, ok, err := r.zoneToken(f, table)
		if err != nil {
			return time.Time{}, &ParseError{Text: text, Msg: fmt.Sprintf("zone %q", f), Err: err}
		}
		if !ok {
			rest = append(rest, f)
			continue
		}
		if zone != nil {
			return time.Time{}, &ParseError{Text: text, Msg: fmt.Sprintf("more than one zone: %q and %q", token, f)}
		}
		zone, token = z, f
	}
	if zone == nil {
		zone = r.Local
		if zone == nil {
			zone = tzdb.Location(time.Local)
		}
	}
	r.logger().Debug("resolving time", "text", text, "zone", zone.Name(), "fold", fold)

	if len(rest) == 0 {
		// only a zone: now
		return r.now(), nil
	}
	date := strings.Join(rest, " ")
	t, absolute, err := r.parseDate(date, zone)
	if err != nil {
		return time.Time{}, &ParseError{Text: text, Msg: "unrecognized date or time", Err: err}
	}

	if absolute {
		name, off := t.Zone()
		switch {
		case token != "":
			return time.Time{}, &ParseError{Text: text, Msg: fmt.Sprintf("zone %q given in addition to the offset in the date", token)}
		case off == 0 && name != "" && name != "UTC" && name != "GMT" && name != "Z":
			return time.Time{}, &ParseError{Text: text, Msg: fmt.Sprintf("unknown zone abbreviation %q", name)}
		}
		return t, nil
	}
	y, m, d := t.Date()
	wall := time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return r.ResolveLocal(zone, wall, fold)
}

// zoneToken reports whether f names a zone. An error is returned for a
// table label whose zone cannot be found.
func (r *Resolver) zoneToken(f string, table abbrev.Table) (tzdb.Zone, bool, error) {
	if id, ok := table.Lookup(f); ok {
		z, err := r.lookup(id)
		if err != nil {
			return nil, false, err
		}
		return z, true, nil
	}
	if z, ok := tzdb.ParseFixed(f); ok {
		return z, true, nil
	}
	// time.LoadLocation accepts "Local", but it is no zone name.
	if r.DB == nil || f == "Local" || !looksLikeZoneID(f) {
		return nil, false, nil
	}
	z, err := r.DB.Lookup(f)
	if err != nil {
		return nil, false, nil
	}
	return z, true, nil
}

func (r *Resolver) lookup(id string) (tzdb.Zone, error) {
	if r.DB == nil {
		if f, ok := tzdb.ParseFixed(id); ok {
			return f, nil
		}
		return nil, &tzdb.UnknownZoneError{ID: id}
	}
	return tzdb.WithFixed(r.DB).Lookup(id)
}

// looksLikeZoneID filters out tokens that cannot be zone identifiers
// before they hit the database.
func looksLikeZoneID(f string) bool {
	for i, c := range f {
		if i == 0 && !unicode.IsUpper(c) {
			return false
		}
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || strings.ContainsRune("/_-+", c)) {
			return false
		}
	}
	return true
}

// parseDate parses a date and time. A time of day alone is taken on the
// current date in z. It reports whether the text named an instant, by an
// offset, a zone abbreviation or as a Unix timestamp; otherwise the result
// carries only wall clock fields.
func (r *Resolver) parseDate(s string, z tzdb.Zone) (time.Time, bool, error) {
	if tod, ok := parseTimeOfDay(s); ok {
		now := r.now()
		off, _ := z.Lookup(now)
		y, m, d := now.UTC().Add(off).Date()
		return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, noZone), false, nil
	}
	t, err := dateparse.ParseIn(s, noZone)
	if err != nil {
		return time.Time{}, false, err
	}
	if isUnixTimestamp(s) {
		return t.UTC(), true, nil
	}
	return t, t.Location() != noZone, nil
}

// isUnixTimestamp reports whether dateparse reads s as seconds, milli-,
// micro- or nanoseconds since the epoch. Eight and fourteen digits are
// yyyymmdd and yyyymmddhhmmss.
func isUnixTimestamp(s string) bool {
	switch len(s) {
	case 10, 13, 16, 19:
	default:
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var timeOfDayLayouts = []string{"15:04", "15:04:05", "3:04pm", "3:04PM", "3pm", "3PM", "3:04 pm", "3:04 PM"}

func parseTimeOfDay(s string) (time.Time, bool) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveLocal returns the instant at which the wall clock of z shows the
// date and time fields of wall. The location of wall is ignored.
//
// A wall time that occurs twice resolves to the earlier instant for
// FoldEarlier, the later for FoldLater, and the earlier for
// FoldUnspecified unless StrictFold is set, in which case an
// *AmbiguousTimeError is returned. A wall time that does not occur, because
// the clock jumps over it, is read with the offset before the jump for
// FoldEarlier and FoldUnspecified, and with the offset after it for
// FoldLater.
func (r *Resolver) ResolveLocal(z tzdb.Zone, wall time.Time, fold Fold) (time.Time, error) {
	y, m, d := wall.Date()
	w := time.Date(y, m, d, wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), time.UTC)

	// The offsets a day before and after are the candidates; transitions
	// are further apart than that.
	before, _ := z.Lookup(w.Add(-24 * time.Hour))
	after, _ := z.Lookup(w.Add(24 * time.Hour))
	early, late := w.Add(-before), w.Add(-after)
	if before == after {
		if off, _ := z.Lookup(early); off != before {
			// The offset changes twice within a day; take the one in effect.
			return w.Add(-off), nil
		}
		return early, nil
	}

	earlyOK := offsetIs(z, early, before)
	lateOK := offsetIs(z, late, after)
	switch {
	case earlyOK && lateOK:
		if late.Before(early) {
			early, late = late, early
		}
		switch fold {
		case FoldLater:
			return late, nil
		case FoldUnspecified:
			if r.StrictFold {
				return time.Time{}, &AmbiguousTimeError{Local: wall, Zone: z.Name(), Earlier: early, Later: late}
			}
			r.logger().Debug("ambiguous local time, choosing earlier", "local", w, "zone", z.Name())
		}
		return early, nil
	case earlyOK:
		return early, nil
	case lateOK:
		return late, nil
	}
	r.logger().Debug("local time does not exist", "local", w, "zone", z.Name(), "fold", fold)
	if fold == FoldLater {
		return late, nil
	}
	return early, nil
}

func offsetIs(z tzdb.Zone, t time.Time, want time.Duration) bool {
	off, _ := z.Lookup(t)
	return off == want
}

// IsUnknownZone reports whether err was caused by an unknown zone.
func IsUnknownZone(err error) bool {
	return errors.Is(err, tzdb.ErrUnknownZone)
}
