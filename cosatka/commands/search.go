package commands

import (
	"strings"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/sahilm/fuzzy"
)

// itemSource implements fuzzy.Source over catalog items, matching on
// name and id together.
type itemSource []engine.ItemSpec

func (s itemSource) String(i int) string {
	return s[i].Name + " " + s[i].ID
}

func (s itemSource) Len() int {
	return len(s)
}

// matchItems returns up to limit items ranked by fuzzy match against query.
// An empty query returns items in catalog order.
func matchItems(items []engine.ItemSpec, query string, limit int) []engine.ItemSpec {
	query = strings.TrimSpace(query)
	if query == "" {
		return items[:min(limit, len(items))]
	}

	matches := fuzzy.FindFrom(query, itemSource(items))
	out := make([]engine.ItemSpec, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, items[m.Index])
	}
	return out
}

// resolveItemID maps user input to an item id. Exact ids and case-insensitive
// names resolve; anything else is returned unchanged for the engine to reject.
func resolveItemID(c *engine.Catalog, input string) string {
	input = strings.TrimSpace(input)
	if _, ok := c.Item(input); ok {
		return input
	}
	for _, it := range c.Items {
		if strings.EqualFold(it.Name, input) || strings.EqualFold(it.ID, input) {
			return it.ID
		}
	}
	return input
}
