package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/stackb/supplements/pkg/supplement"
)

// Config is the optional YAML configuration of the supplements tool.
type Config struct {
	// Roots are the open project roots.  Relative roots are taken relative
	// to the directory of the config file.
	Roots []string `yaml:"roots"`
	// FileTypes groups extensions that supplement each other, keyed by an
	// arbitrary name.  For example c: [".c", ".h"].
	FileTypes map[string][]string `yaml:"file_types"`
	// MaxSteps bounds Starlark execution of override scripts.  Zero is
	// unlimited.
	MaxSteps uint64 `yaml:"max_steps"`
}

// ReadConfig decodes the YAML file at filename.
func ReadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filename, err)
	}

	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, err
	}
	for i, root := range config.Roots {
		if !filepath.IsAbs(root) {
			config.Roots[i] = filepath.Join(dir, root)
		}
	}
	return &config, nil
}

// ExtensionsFor returns the union of every file type group that contains the
// extension of filename, in group name order.
func (c *Config) ExtensionsFor(filename string) []string {
	names := make([]string, 0, len(c.FileTypes))
	for name := range c.FileTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	base := filepath.Base(filename)
	var exts []string
	for _, name := range names {
		group := supplement.NormalizeExtensions(c.FileTypes[name])
		ext := supplement.SplitExtension(base, group)
		for _, e := range group {
			if e == ext {
				exts = append(exts, group...)
				break
			}
		}
	}
	return supplement.NormalizeExtensions(exts)
}
