package tzdb

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ngrash/worldclock/tzif"
)

// DefaultDirs are the zoneinfo directories searched by System.
var DefaultDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo", // Solaris
	"/usr/lib/locale/TZ",      // IRIX
	"/etc/zoneinfo",           // NixOS
}

// walkZoneDir returns the identifiers of all TZif files below root.
//
// By convention zone names are capitalized. Directories and files that do
// not follow that convention (posix/, right/, localtime, posixrules, tables)
// are skipped.
func walkZoneDir(root string, log *slog.Logger) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Debug("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if path == root {
			return nil
		}
		if !capitalized(d.Name()) {
			log.Debug("skipping path because name is not capitalized", "path", path)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !isTZifFile(path) {
			log.Debug("file is not a timezone file", "path", path)
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	return ids, err
}

func capitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func isTZifFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, len(tzif.Magic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return tzif.HasMagic(magic)
}

// zipZoneIDs lists the zones in a zoneinfo.zip as shipped with Go.
func zipZoneIDs(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var ids []string
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		ids = append(ids, f.Name)
	}
	return ids, nil
}

// sortedUnique sorts ids and drops duplicates in place.
func sortedUnique(ids []string) []string {
	sort.Strings(ids)
	out := ids[:0]
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		out = append(out, id)
	}
	return out
}

var errNoZones = errors.New("no zoneinfo found")
