package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk shape of a catalog override file:
//
//	[[games]]
//	game = "kosatka"
//	energy_cap = 120
type File struct {
	Games []engine.Catalog `toml:"games"`
}

// LoadFile reads catalogs from path and merges them over the built-in set.
// A game present in the file replaces the built-in catalog of the same id.
// An empty path returns the built-in set.
func LoadFile(path string) (map[string]*engine.Catalog, error) {
	catalogs := Builtin()
	if path == "" {
		return catalogs, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var f File
	if err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	for i := range f.Games {
		c := f.Games[i]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		catalogs[c.Game] = &c
	}
	return catalogs, nil
}

// Names returns the game ids of catalogs in stable order.
func Names(catalogs map[string]*engine.Catalog) []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
