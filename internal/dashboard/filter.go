package dashboard

import (
	"net/url"
	"sort"
	"strings"

	"proptrackrr/web/internal/models"
)

const StatusAll = "all"

// Filter is the dashboard's search/status/city selection. Empty values match everything.
type Filter struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
	City   string `form:"city" json:"city"`
}

// Normalize maps empty selections to "all" and trims the search text
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Status == "" {
		f.Status = StatusAll
	}
	if strings.TrimSpace(f.City) == "" {
		f.City = StatusAll
	}
	return f
}

// Query encodes the normalized filter for a dashboard URL. An empty search is left out.
func (f Filter) Query() string {
	f = f.Normalize()
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	q.Set("status", f.Status)
	q.Set("city", f.City)
	return q.Encode()
}

// Apply runs the filter pipeline: title search, then status, then city. The result is a
// new slice holding a subset of props in their original order.
func (f Filter) Apply(props []models.Property) []models.Property {
	f = f.Normalize()
	search := strings.ToLower(f.Search)

	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if f.Status != StatusAll && p.Status != f.Status {
			continue
		}
		if f.City != StatusAll && !strings.EqualFold(p.City, f.City) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Cities lists the distinct non-empty cities in first-seen order
func Cities(props []models.Property) []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, p := range props {
		if p.City == "" {
			continue
		}
		if _, ok := seen[p.City]; ok {
			continue
		}
		seen[p.City] = struct{}{}
		cities = append(cities, p.City)
	}
	return cities
}

// SortForDisplay orders active listings first, then newest first. Ties keep their order.
func SortForDisplay(props []models.Property) {
	sort.SliceStable(props, func(i, j int) bool {
		ai, aj := props[i].IsActive(), props[j].IsActive()
		if ai != aj {
			return ai
		}
		return props[i].CreatedAt.After(props[j].CreatedAt)
	})
}

func Summarize(props []models.Property) models.PropertyStats {
	stats := models.PropertyStats{Total: len(props)}
	for _, p := range props {
		if p.IsActive() {
			stats.Active++
		} else {
			stats.Disabled++
		}
	}
	return stats
}
