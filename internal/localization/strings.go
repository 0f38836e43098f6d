// Package localization serves the bot's display strings from per-locale YAML tables.
package localization

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed resources/*.yaml
var resources embed.FS

// DefaultLocale is used when no table matches the requested locale.
var DefaultLocale = language.English

// Table implements ports.StringTable.
type Table struct {
	tags    []language.Tag
	tables  []map[string]string
	matcher language.Matcher
}

// New loads the built-in string tables.
func New() (*Table, error) {
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub)
}

// NewFromFS loads every <locale>.yaml file at the root of fsys. A table for
// DefaultLocale is required.
func NewFromFS(fsys fs.FS) (*Table, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}

	t := &Table{}
	for _, name := range files {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(name), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("string table %s: %w", name, err)
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		var entries map[string]string
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("string table %s: %w", name, err)
		}

		// The matcher's first tag is its fallback.
		if tag == DefaultLocale {
			t.tags = append([]language.Tag{tag}, t.tags...)
			t.tables = append([]map[string]string{entries}, t.tables...)
		} else {
			t.tags = append(t.tags, tag)
			t.tables = append(t.tables, entries)
		}
	}
	if len(t.tags) == 0 || t.tags[0] != DefaultLocale {
		return nil, fmt.Errorf("missing string table for %s", DefaultLocale)
	}
	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

// Get returns the string for key in the closest matching locale. Keys missing
// from that table fall back to the default table, and unknown keys to the key itself.
func (t *Table) Get(locale, key string, args ...any) string {
	s, ok := t.tables[t.match(locale)][key]
	if !ok {
		s, ok = t.tables[0][key]
	}
	if !ok {
		return key
	}
	return format(s, args...)
}

// Locales lists the loaded locales, default first.
func (t *Table) Locales() []string {
	out := make([]string, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.String()
	}
	return out
}

func (t *Table) match(locale string) int {
	if locale == "" {
		return 0
	}
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return 0
	}
	_, idx, conf := t.matcher.Match(desired...)
	if conf == language.No {
		return 0
	}
	return idx
}

// format replaces positional placeholders {0}, {1}, ... with args.
func format(s string, args ...any) string {
	for i, a := range args {
		s = strings.ReplaceAll(s, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}
	return s
}
