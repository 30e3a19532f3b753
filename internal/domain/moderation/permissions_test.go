package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/moderation"
)

func TestResolvePermissions(t *testing.T) {
	cases := []struct {
		name string
		rel  moderation.Relationship
		want moderation.Capabilities
	}{
		{"admin", admin, moderation.Capabilities{Moderate: true, AttachFeedback: true, Delete: true}},
		{"editor de la org", orgEditor, moderation.Capabilities{Moderate: true, AttachFeedback: true, Delete: true}},
		{"editor ajeno", otherEditor, moderation.Capabilities{}},
		{"autor visitante", author, moderation.Capabilities{AuthorTransitions: true, EditContent: true, Delete: true}},
		{"visitante ajeno", stranger, moderation.Capabilities{}},
		{"editor autor de otra org", moderation.Relationship{Role: entity.RoleEditor, IsAuthor: true},
			moderation.Capabilities{AuthorTransitions: true, EditContent: true, Delete: true}},
		{"rol desconocido", moderation.Relationship{Role: "root", IsAuthor: true}, moderation.Capabilities{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := moderation.ResolvePermissions(tc.rel)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want != moderation.Capabilities{}, got.Any())
		})
	}
}

func TestContentEditable(t *testing.T) {
	assert.True(t, moderation.ContentEditable(entity.StatePending))
	assert.True(t, moderation.ContentEditable(entity.StateDraft))
	assert.True(t, moderation.ContentEditable(entity.StateRejected))
	assert.False(t, moderation.ContentEditable(entity.StateApproved))
	assert.False(t, moderation.ContentEditable(entity.StatePublished))
	assert.False(t, moderation.ContentEditable(entity.StateHidden))
}
