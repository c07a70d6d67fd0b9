// Package prompts holds the model prompt templates. Each embedded JSON file maps prompt
// names to templates with {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var (
	loadOnce sync.Once
	library  map[string]map[string]string
	loadErr  error
)

// load parses every embedded file on first use.
func load() (map[string]map[string]string, error) {
	loadOnce.Do(func() {
		names, err := fs.Glob(promptFiles, "*.json")
		if err != nil {
			loadErr = err
			return
		}
		lib := make(map[string]map[string]string, len(names))
		for _, name := range names {
			data, err := promptFiles.ReadFile(name)
			if err != nil {
				loadErr = fmt.Errorf("failed to read prompt file %s: %w", name, err)
				return
			}
			var set map[string]string
			if err := json.Unmarshal(data, &set); err != nil {
				loadErr = fmt.Errorf("failed to parse prompt file %s: %w", name, err)
				return
			}
			lib[name] = set
		}
		library = lib
	})
	return library, loadErr
}

// Get returns the template named key in file, e.g. Get("tailoring.json", "tailor-resume").
func Get(file, key string) (string, error) {
	lib, err := load()
	if err != nil {
		return "", err
	}
	set, ok := lib[file]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", file)
	}
	tmpl, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return tmpl, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(file, key string) string {
	tmpl, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}

// Format substitutes {{.Key}} placeholders. Placeholders without a value are left as is.
func Format(tmpl string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := vars[m[3:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// Render formats a stored prompt and fails if any placeholder has no value.
func Render(file, key string, vars map[string]string) (string, error) {
	tmpl, err := Get(file, key)
	if err != nil {
		return "", err
	}
	if missing := Placeholders(tmpl, vars); len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: missing values for %s", file, key, strings.Join(missing, ", "))
	}
	return Format(tmpl, vars), nil
}

// Placeholders returns the sorted placeholder names of tmpl that vars does not cover.
func Placeholders(tmpl string, vars map[string]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		if _, ok := vars[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Names returns the sorted prompt names of file.
func Names(file string) ([]string, error) {
	lib, err := load()
	if err != nil {
		return nil, err
	}
	set, ok := lib[file]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", file)
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
