package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[Kind]*Dialect)
)

// Register adds a dialect to the global registry. Called by the dialect
// implementations in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[d.Kind] = d
}

// Get returns a registered dialect by kind.
func Get(kind Kind) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[kind]
	return d, ok
}

// List returns all registered dialect kinds (sorted).
func List() []Kind {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	kinds := make([]Kind, 0, len(dialects))
	for k := range dialects {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Resolve matches an engine's identity strings against the registered
// dialects and returns a configured handle. Both the declared dialect name
// and the driver name are inspected, since some drivers only populate one.
// Matching is substring containment to tolerate vendor-qualified identifiers
// such as "postgresql+psycopg2". No match is a hard error.
func Resolve(dialectName, driverName string) (*Dialect, error) {
	identities := []string{strings.ToLower(dialectName), strings.ToLower(driverName)}

	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	for _, d := range dialects {
		for _, token := range d.matches {
			for _, id := range identities {
				if id != "" && strings.Contains(id, token) {
					handle := *d
					if handle.configure != nil {
						handle.configure(&handle)
					}
					return &handle, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialectName)
}
