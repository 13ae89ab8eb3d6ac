package overpass

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shelfaware/backend/internal/domain"
	"github.com/shelfaware/backend/internal/geo"
)

// categoryKeywords maps well-known retail chains to directory categories.
// Categorization is by name keyword; unmatched stores land in "other".
var categoryKeywords = map[string][]string{
	"supermarket": {"walmart", "target", "kroger", "safeway", "albertsons", "publix", "winn-dixie", "rouses"},
	"wholesale":   {"costco", "sam's club", "bj's"},
	"discount":    {"dollar general", "family dollar", "dollar tree", "save-a-lot"},
	"convenience": {"7-eleven", "circle k", "cvs", "walgreens"},
	"specialty":   {"whole foods", "trader joe's", "sprouts", "aldi", "lidl"},
}

// categoryOrder keeps categorization deterministic across map iteration.
var categoryOrder = []string{"supermarket", "wholesale", "discount", "convenience", "specialty"}

// mapElements converts Overpass nodes to directory stores: resolve a display
// name, compute distance from the search center, categorize, dedupe, and
// order nearest-first.
func mapElements(elements []element, centerLat, centerLon float64) []domain.Store {
	var stores []domain.Store
	for _, el := range elements {
		if el.Type != "node" {
			continue
		}
		name := resolveName(el.Tags)
		stores = append(stores, domain.Store{
			Name:     name,
			Category: categorize(name),
			Lat:      el.Lat,
			Lon:      el.Lon,
			Distance: geo.Miles(centerLat, centerLon, el.Lat, el.Lon),
		})
	}

	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].Distance < stores[j].Distance
	})

	// Nearest occurrence wins when the same store appears twice.
	seen := make(map[string]bool, len(stores))
	unique := stores[:0]
	for _, s := range stores {
		key := fmt.Sprintf("%s_%f_%f", s.Name, s.Lat, s.Lon)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}
	return unique
}

// resolveName picks a display name from the node tags, preferring the
// standard name and degrading through brand and operator to a synthesized
// fallback.
func resolveName(tags map[string]string) string {
	name := firstNonEmpty(tags["name"], tags["name:en"], tags["brand"], tags["operator"])
	if name == "" {
		shop := tags["shop"]
		if shop == "" {
			shop = "store"
		}
		street := tags["addr:street"]
		if street == "" {
			return "Unknown Store"
		}
		return fmt.Sprintf("%s at %s", capitalize(shop), street)
	}

	// Strip localized retail prefixes and collapse whitespace.
	name = strings.ReplaceAll(name, "Supermercado", "")
	name = strings.ReplaceAll(name, "Tienda", "")
	name = strings.Join(strings.Fields(name), " ")

	// A bare generic name needs street context to be useful.
	switch strings.ToLower(name) {
	case "store", "shop", "market":
		if street := tags["addr:street"]; street != "" {
			return fmt.Sprintf("%s on %s", capitalize(name), street)
		}
	}
	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func categorize(name string) string {
	lower := strings.ToLower(name)
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return "other"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
