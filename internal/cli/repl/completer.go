package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the loop itself.
var builtins = []string{"exit", "quit", "history"}

// Completer suggests command lines for a prefix.
type Completer struct {
	words []string
}

// NewCompleter creates a completer over words plus the loop builtins.
func NewCompleter(words []string) *Completer {
	seen := make(map[string]struct{}, len(words)+len(builtins))
	var all []string
	for _, w := range append(append([]string{}, builtins...), words...) {
		if _, dup := seen[w]; dup || w == "" {
			continue
		}
		seen[w] = struct{}{}
		all = append(all, w)
	}
	sort.Strings(all)
	return &Completer{words: all}
}

// Complete returns the known lines starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var out []string
	for _, w := range c.words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out
}
