// Package canonical maps raw professor names to the single spelling stored
// everywhere else. Names are trimmed, upper-cased and whitespace-collapsed,
// then looked up in a corrections table loaded from a TOML file:
//
//	[corrections]
//	"DUPOND J." = "DUPONT JEAN"
package canonical

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

type correctionsFile struct {
	Corrections map[string]string `toml:"corrections"`
}

// Normalizer canonicalizes professor names. It is safe for concurrent use.
type Normalizer struct {
	mu          sync.RWMutex
	corrections map[string]string
}

// NewNormalizer builds a normalizer with an optional initial corrections table.
func NewNormalizer(corrections map[string]string) *Normalizer {
	n := &Normalizer{}
	n.Replace(corrections)
	return n
}

// Name returns the canonical form of raw.
func (n *Normalizer) Name(raw string) string {
	key := fold(raw)
	if n == nil || key == "" {
		return key
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if fixed, ok := n.corrections[key]; ok {
		return fixed
	}
	return key
}

// Names canonicalizes a list, dropping blanks and duplicates while keeping order.
func (n *Normalizer) Names(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := n.Name(r)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Rename is a stored spelling that a new corrections table maps elsewhere.
type Rename struct {
	From string
	To   string
}

// Replace swaps the corrections table. Keys and values are folded.
// It returns the spellings already in use that must now be rewritten so
// stored rows agree with the new table, in key order. Spellings that are
// themselves correction targets are left alone, and dropping a mapping does
// not undo an earlier rename.
func (n *Normalizer) Replace(corrections map[string]string) []Rename {
	table := make(map[string]string, len(corrections))
	targets := make(map[string]struct{}, len(corrections))
	for from, to := range corrections {
		if k, v := fold(from), fold(to); k != "" && v != "" {
			table[k] = v
			targets[v] = struct{}{}
		}
	}

	n.mu.Lock()
	prev := n.corrections
	n.corrections = table
	n.mu.Unlock()

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var renames []Rename
	seen := make(map[string]struct{})
	add := func(from, to string) {
		if from == to {
			return
		}
		if _, target := targets[from]; target {
			return
		}
		if _, dup := seen[from]; dup {
			return
		}
		seen[from] = struct{}{}
		renames = append(renames, Rename{From: from, To: to})
	}
	for _, k := range keys {
		v := table[k]
		add(k, v)
		if old, ok := prev[k]; ok {
			add(old, v)
		}
	}
	return renames
}

// Len returns the number of corrections in use.
func (n *Normalizer) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.corrections)
}

// LoadFile reads a corrections table from path and installs it, returning
// the renames implied by the change.
func (n *Normalizer) LoadFile(path string) ([]Rename, error) {
	table, err := ReadCorrections(path)
	if err != nil {
		return nil, err
	}
	return n.Replace(table), nil
}

// ReadCorrections parses a corrections TOML file.
func ReadCorrections(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corrections: %w", err)
	}
	var f correctionsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse corrections %s: %w", path, err)
	}
	return f.Corrections, nil
}

func fold(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}
