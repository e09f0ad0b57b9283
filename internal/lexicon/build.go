package lexicon

import (
	"fmt"
	"strings"
)

// Edits are the user overrides applied to a base word list before it is
// ranked.
type Edits struct {
	// Add lists words to insert. Existing words are skipped unless Overwrite
	// is set.
	Add []string
	// Blacklist lists words to remove. A blacklisted word is never re-added
	// by Add.
	Blacklist []string
	// AddToTop inserts additions at rank 0 instead of at the end.
	AddToTop bool
	// Overwrite relocates an added word that already exists.
	Overwrite bool
}

// Empty reports whether applying e would leave the base list unchanged apart
// from normalization.
func (e Edits) Empty() bool {
	return len(e.Add) == 0 && len(e.Blacklist) == 0
}

// Build folds, deduplicates and edits base, returning a new ranked word list.
// base is not modified.
func Build(base []string, e Edits) ([]string, error) {
	blocked := make(map[string]struct{}, len(e.Blacklist))
	for _, w := range e.Blacklist {
		if k := Key(strings.TrimSpace(w)); k != "" {
			blocked[k] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(base))
	words := make([]string, 0, len(base)+len(e.Add))
	for _, w := range base {
		k := Key(strings.TrimSpace(w))
		if k == "" {
			continue
		}
		if _, ok := blocked[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		words = append(words, k)
	}

	var additions []string
	added := make(map[string]struct{}, len(e.Add))
	for _, w := range e.Add {
		k := Key(strings.TrimSpace(w))
		if k == "" {
			continue
		}
		if _, ok := blocked[k]; ok {
			continue
		}
		if _, ok := added[k]; ok {
			continue
		}
		if _, exists := seen[k]; exists && !e.Overwrite {
			continue
		}
		added[k] = struct{}{}
		additions = append(additions, k)
	}

	if len(additions) > 0 {
		if e.Overwrite {
			kept := make([]string, 0, len(words))
			for _, w := range words {
				if _, moved := added[w]; !moved {
					kept = append(kept, w)
				}
			}
			words = kept
		}
		if e.AddToTop {
			words = append(additions, words...)
		} else {
			words = append(words, additions...)
		}
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("build dictionary: %w", ErrEmptyDictionary)
	}
	return words, nil
}
