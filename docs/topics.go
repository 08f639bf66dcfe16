// Package docs holds the cfo documentation topics, embedded in the binary.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// Topic returns the markdown of a topic. "*" is every topic but the index.
func Topic(name string) (string, error) {
	if name == "*" {
		all, err := Topics()
		if err != nil {
			return "", err
		}
		return Join(all...)
	}
	content, err := files.ReadFile(strings.ToLower(name) + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q, see 'cfo topic' for the list: %w", name, err)
	}
	return string(content), nil
}

// Join returns the markdown of several topics, one after the other.
func Join(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Topics returns the sorted names of the topics, without the index.
func Topics() ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == Index {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
