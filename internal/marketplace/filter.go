package marketplace

import (
	"sort"
	"strings"

	"proptrackrr/web/internal/models"
)

const All = "all"

// Filter is the marketplace search bar: free text, city and BHK
type Filter struct {
	Search string `form:"search" json:"search"`
	City   string `form:"city" json:"city"`
	BHK    string `form:"bhk" json:"bhk"`
}

func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if strings.TrimSpace(f.City) == "" {
		f.City = All
	}
	if strings.TrimSpace(f.BHK) == "" {
		f.BHK = All
	}
	return f
}

// Apply keeps listings whose title, city or locality contains the search text, then
// narrows by city and by BHK
func (f Filter) Apply(props []models.Property) []models.Property {
	f = f.Normalize()
	q := strings.ToLower(f.Search)

	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if q != "" && !matchesText(p, q) {
			continue
		}
		if f.City != All && (p.City == "" || !strings.EqualFold(p.City, f.City)) {
			continue
		}
		if f.BHK != All && p.BHK.String() != f.BHK {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesText(p models.Property, q string) bool {
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.City), q) ||
		strings.Contains(strings.ToLower(p.Locality), q)
}

// Cities lists the distinct non-empty cities in first-seen order
func Cities(props []models.Property) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range props {
		if p.City == "" {
			continue
		}
		if _, ok := seen[p.City]; !ok {
			seen[p.City] = struct{}{}
			out = append(out, p.City)
		}
	}
	return out
}

// BHKOptions lists the distinct BHK values sorted numerically. Non-numeric values sort last.
func BHKOptions(props []models.Property) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range props {
		if p.BHK.IsZero() {
			continue
		}
		v := p.BHK.String()
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := models.NewNumber(out[i]).Float()
		b, bok := models.NewNumber(out[j]).Float()
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return out[i] < out[j]
		}
	})
	return out
}
