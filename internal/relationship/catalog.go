// Package relationship maps network type strings to closeness levels.
package relationship

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownNetworkType is returned when a network type has no catalog
// entry. An unknown type is almost always a typo, so it is rejected
// instead of being mapped to the closest tier
var ErrUnknownNetworkType = errors.New("unknown network type")

// Closeness levels, 1 = immediate family up to 4 = acquaintance
const (
	LevelImmediate    = 1
	LevelExtended     = 2
	LevelFriend       = 3
	LevelAcquaintance = 4
)

// Catalog is an immutable lookup table from network type to level,
// built once at startup
type Catalog struct {
	levels map[string]int
}

// defaultLevels is the static catalog carried over from the legacy
// configuration, including the "distant" alias older rows still use
var defaultLevels = map[string]int{
	"immediate":    LevelImmediate,
	"extended":     LevelExtended,
	"friend":       LevelFriend,
	"distant":      LevelFriend,
	"acquaintance": LevelAcquaintance,
}

// NewCatalog builds the default catalog
func NewCatalog() *Catalog {
	levels := make(map[string]int, len(defaultLevels))
	for k, v := range defaultLevels {
		levels[k] = v
	}
	return &Catalog{levels: levels}
}

// Level resolves a network type to its closeness level
func (c *Catalog) Level(networkType string) (int, error) {
	level, ok := c.levels[networkType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetworkType, networkType)
	}
	return level, nil
}

// Types returns the known network types in sorted order, for error
// messages and API documentation endpoints
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.levels))
	for t := range c.levels {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
