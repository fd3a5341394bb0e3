package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hikaru/benkyo/internal/store"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, f.Subjects)
	require.NotEmpty(t, f.Titles)
	require.NotEmpty(t, f.Badges)

	// Exactly one default title so first profile access can equip it.
	defaults := 0
	for _, title := range f.Titles {
		if title.Requirement.Type == "default" {
			defaults++
		}
	}
	require.Equal(t, 1, defaults)

	// Subject references in requirements must resolve.
	subjects := map[string]bool{}
	for _, s := range f.Subjects {
		subjects[s.ID] = true
	}
	for _, title := range f.Titles {
		if title.Requirement.SubjectID != "" {
			require.True(t, subjects[title.Requirement.SubjectID],
				"title %s references unknown subject", title.ID)
		}
	}
	for _, b := range f.Badges {
		if b.Requirement.SubjectID != "" {
			require.True(t, subjects[b.Requirement.SubjectID],
				"badge %s references unknown subject", b.ID)
		}
	}
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"subjects": [`},
		{"no subjects", `{"titles": []}`},
		{"empty subjects", `{"subjects": []}`},
		{"subject missing name", `{"subjects": [{"id": "fin", "exam_type": "t"}]}`},
		{"bad id", `{"subjects": [{"id": "Fin!", "exam_type": "t", "name": "F"}]}`},
		{
			"streak without value",
			`{"subjects": [{"id": "fin", "exam_type": "t", "name": "F"}],
			  "titles": [{"id": "x", "name": "X", "rarity": "common",
			              "requirement": {"type": "streak"}}]}`,
		},
		{
			"subject_rank without rank",
			`{"subjects": [{"id": "fin", "exam_type": "t", "name": "F"}],
			  "titles": [{"id": "x", "name": "X", "rarity": "common",
			              "requirement": {"type": "subject_rank", "subject_id": "fin"}}]}`,
		},
		{
			"unknown requirement type",
			`{"subjects": [{"id": "fin", "exam_type": "t", "name": "F"}],
			  "titles": [{"id": "x", "name": "X", "rarity": "common",
			              "requirement": {"type": "lottery"}}]}`,
		},
		{
			"bad rarity",
			`{"subjects": [{"id": "fin", "exam_type": "t", "name": "F"}],
			  "titles": [{"id": "x", "name": "X", "rarity": "shiny",
			              "requirement": {"type": "default"}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.json))
			require.Error(t, err)
		})
	}
}

func TestSeedDefaultCatalog(t *testing.T) {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f, err := Default()
	require.NoError(t, err)

	ctx := context.Background()
	sum, err := Seed(ctx, st, f)
	require.NoError(t, err)
	require.Equal(t, 4, sum.Subjects)
	require.Equal(t, 6, sum.Titles)
	require.Equal(t, 4, sum.Badges)

	subjects, err := st.Repos().Catalog.Subjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 4)
	require.Equal(t, "fin", subjects[0].ID)

	// Topic -> subject resolution crosses the chapter join.
	subjectID, err := st.Repos().Catalog.SubjectIDForTopic(ctx, "mgmt-costing-cvp")
	require.ErrorIs(t, err, store.ErrNotFound)
	subjectID, err = st.Repos().Catalog.SubjectIDForTopic(ctx, "mgmt-planning-cvp")
	require.NoError(t, err)
	require.Equal(t, "mgmt", subjectID)

	// Re-seeding is a no-op.
	_, err = Seed(ctx, st, f)
	require.NoError(t, err)
	n, err := st.Repos().Achievements.CountTitles(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, n)
}
