package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proptrackrr/web/internal/models"
)

func listings() []models.Property {
	return []models.Property{
		{ID: 1, Title: "Sunny Flat", City: "Pune", Locality: "Baner", BHK: models.NewNumber("2")},
		{ID: 2, Title: "Sea View", City: "Mumbai", Locality: "Bandra", BHK: models.NewNumber("3")},
		{ID: 3, Title: "Garden Villa", City: "pune", Locality: "Kothrud", BHK: models.NewNumber("10")},
		{ID: 4, Title: "Studio", City: "", Locality: "Aundh", BHK: models.Number{}},
		{ID: 5, Title: "Loft", City: "Pune", Locality: "Baner", BHK: models.NewNumber("2")},
	}
}

func propertyIDs(props []models.Property) []int64 {
	out := make([]int64, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected []int64
	}{
		{name: "No filter", filter: Filter{}, expected: []int64{1, 2, 3, 4, 5}},
		{name: "Search matches locality", filter: Filter{Search: "baner"}, expected: []int64{1, 5}},
		{name: "Search matches city", filter: Filter{Search: "MUMB"}, expected: []int64{2}},
		{name: "City ignores case", filter: Filter{City: "Pune"}, expected: []int64{1, 3, 5}},
		{name: "BHK is exact", filter: Filter{BHK: "2"}, expected: []int64{1, 5}},
		{name: "BHK 1 does not match 10", filter: Filter{BHK: "1"}, expected: []int64{}},
		{name: "Combined", filter: Filter{Search: "villa", City: "pune", BHK: "10"}, expected: []int64{3}},
		{name: "All sentinels", filter: Filter{City: "all", BHK: "all"}, expected: []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, propertyIDs(tt.filter.Apply(listings())))
		})
	}
}

func TestCitiesAndBHKOptions(t *testing.T) {
	props := listings()
	assert.Equal(t, []string{"Pune", "Mumbai", "pune"}, Cities(props))
	assert.Equal(t, []string{"2", "3", "10"}, BHKOptions(props))
}

func TestBHKOptionsNonNumericLast(t *testing.T) {
	props := []models.Property{
		{BHK: models.NewNumber("studio")},
		{BHK: models.NewNumber("4")},
		{BHK: models.NewNumber("1")},
	}
	assert.Equal(t, []string{"1", "4", "studio"}, BHKOptions(props))
}
