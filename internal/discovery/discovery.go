package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flopp/go-findfont"

	"fontsieve/internal/faults"
)

// DefaultExtensions are the font-like file extensions picked up by Scan.
var DefaultExtensions = []string{"ttf", "otf", "woff", "woff2"}

// Input is one discovered font file.
type Input struct {
	// Name is the file's basename; outputs are derived from it.
	Name string
	// Path is the absolute location of the file.
	Path string
}

// Scan lists regular files in dir whose extension matches one of exts,
// compared case-insensitively. Results are sorted by name. Subdirectories are
// not descended into.
func Scan(dir string, exts []string) ([]Input, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = struct{}{}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve input directory: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrConfiguration, "discovery", "scan", fmt.Sprintf("input directory %q does not exist", abs), nil)
		}
		return nil, faults.Wrap(faults.ErrConfiguration, "discovery", "scan", fmt.Sprintf("read input directory %q", abs), err)
	}

	var inputs []Input
	for _, entry := range entries {
		if !isRegular(abs, entry) {
			continue
		}
		name := entry.Name()
		if !matchesExtension(name, allowed) {
			continue
		}
		inputs = append(inputs, Input{Name: name, Path: filepath.Join(abs, name)})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })
	return inputs, nil
}

// ResolveSystem locates installed fonts by file name (for example
// "DejaVuSans.ttf") in the platform's font directories.
func ResolveSystem(names []string) ([]Input, error) {
	var inputs []Input
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		path, err := findfont.Find(name)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "discovery", "system font", fmt.Sprintf("%q not found", name), err)
		}
		inputs = append(inputs, Input{Name: filepath.Base(path), Path: path})
	}
	return inputs, nil
}

// Merge concatenates input lists, dropping repeated paths. Two different files
// with the same basename would write the same output and are rejected.
func Merge(lists ...[]Input) ([]Input, error) {
	byName := make(map[string]string)
	var merged []Input
	for _, list := range lists {
		for _, in := range list {
			if prev, ok := byName[in.Name]; ok {
				if prev == in.Path {
					continue
				}
				return nil, faults.Wrap(faults.ErrConfiguration, "discovery", "merge",
					fmt.Sprintf("%q and %q share the output name %q", prev, in.Path, in.Name), nil)
			}
			byName[in.Name] = in.Path
			merged = append(merged, in)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged, nil
}

func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

func matchesExtension(name string, allowed map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := allowed[ext]
	return ok
}
