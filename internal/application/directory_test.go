package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

func TestBuildDirectory_GroupsInRegistryOrder(t *testing.T) {
	categories := []model.Category{
		{ID: "wiki", Name: "Confluence"},
		{ID: "jira", Name: "Jira Server"},
	}
	services := []model.Service{
		{ID: "1", Name: "JIRA", URL: "http://jira", Category: "jira"},
		{ID: "2", Name: "Docs", URL: "http://docs", Category: "wiki"},
		{ID: "3", Name: "Lost", URL: "http://lost", Category: "gone"},
		{ID: "4", Name: "Blank", URL: "http://blank"},
	}
	statuses := map[string]model.ProbeResult{
		"1": {Status: model.ProbeStatusOnline},
	}

	groups := BuildDirectory(services, categories, statuses, "")

	require.Len(t, groups, 3)
	assert.Equal(t, "wiki", groups[0].CategoryID)
	assert.Equal(t, "jira", groups[1].CategoryID)
	assert.Equal(t, "default", groups[2].CategoryID)
	assert.Equal(t, "Uncategorized", groups[2].Label)
	require.Len(t, groups[2].Entries, 2)
	assert.Equal(t, "Lost", groups[2].Entries[0].Service.Name)

	assert.Equal(t, model.ProbeStatusOnline, groups[1].Entries[0].Status.Status)
	assert.Equal(t, model.ProbeStatusUnknown, groups[0].Entries[0].Status.Status)
}

func TestBuildDirectory_DefaultKeepsRegistryPosition(t *testing.T) {
	categories := []model.Category{
		{ID: "default", Name: "Misc"},
		{ID: "jira", Name: "Jira Server"},
	}
	services := []model.Service{
		{ID: "1", Name: "JIRA", Category: "jira"},
		{ID: "2", Name: "Orphan", Category: "gone"},
	}

	groups := BuildDirectory(services, categories, nil, "")

	require.Len(t, groups, 2)
	assert.Equal(t, "default", groups[0].CategoryID)
	assert.Equal(t, "Misc", groups[0].Label)
}

func TestBuildDirectory_Query(t *testing.T) {
	categories := []model.Category{{ID: "jira", Name: "Jira Server"}, {ID: "ops", Name: "Operations"}}
	services := []model.Service{
		{ID: "1", Name: "JIRA", URL: "http://jira.local", Category: "jira"},
		{ID: "2", Name: "Grafana", URL: "http://metrics.local", Category: "ops"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "by name", query: "graf", want: []string{"Grafana"}},
		{name: "by url", query: "METRICS", want: []string{"Grafana"}},
		{name: "by category label", query: "server", want: []string{"JIRA"}},
		{name: "by category id", query: "ops", want: []string{"Grafana"}},
		{name: "no match", query: "nothing", want: nil},
		{name: "blank", query: "  ", want: []string{"JIRA", "Grafana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, g := range BuildDirectory(services, categories, nil, tt.query) {
				for _, e := range g.Entries {
					got = append(got, e.Service.Name)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryUsage(t *testing.T) {
	usage := CategoryUsage([]model.Service{
		{Category: "jira"}, {Category: "jira"}, {Category: ""},
	})
	assert.Equal(t, map[string]int{"jira": 2, "": 1}, usage)
}

func TestIsOrphaned(t *testing.T) {
	categories := []model.Category{{ID: "jira"}}

	assert.False(t, IsOrphaned(model.Service{Category: "jira"}, categories))
	assert.True(t, IsOrphaned(model.Service{Category: "gone"}, categories))
	assert.True(t, IsOrphaned(model.Service{}, categories))
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
	}

	for _, tt := range tests {
		at := time.Date(2024, 5, 1, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.want, Greeting(at), "hour %d", tt.hour)
	}
}
