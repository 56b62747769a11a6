package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/types"
)

func TestNewServiceRejectsEmptyRoleSet(t *testing.T) {
	_, err := NewService("demo", nil)
	require.ErrorIs(t, err, types.ErrEmptyRoleSet)
}

func TestServiceHasRoleAndCompareRoles(t *testing.T) {
	svc, err := NewService("demo", []string{"pub", "sub"})
	require.NoError(t, err)

	assert.True(t, svc.HasRole("pub"))
	assert.False(t, svc.HasRole("other"))
	assert.True(t, svc.CompareRoles([]string{"sub", "pub"}))
	assert.False(t, svc.CompareRoles([]string{"pub", "sub", "extra"}))
	assert.False(t, svc.CompareRoles([]string{"pub", "other"}))
}

func TestServiceRegisterInstanceRejectsUnknownRole(t *testing.T) {
	svc, err := NewService("demo", []string{"pub", "sub"})
	require.NoError(t, err)

	_, err = svc.RegisterInstance(1, "ghost", nil, &fakeSubscriber{id: 1})
	require.ErrorIs(t, err, types.ErrInvalidRole)

	_, err = svc.RegisterInstance(1, "pub", []string{"ghost"}, &fakeSubscriber{id: 1})
	require.ErrorIs(t, err, types.ErrInvalidRole)
}

func TestServiceRegisterInstanceDiffusesAcrossRoles(t *testing.T) {
	svc, err := NewService("demo", []string{"pub", "sub"})
	require.NoError(t, err)

	pub := &fakeSubscriber{id: 1}
	tag1, err := svc.RegisterInstance(1, "pub", []string{"sub"}, pub)
	require.NoError(t, err)
	assert.True(t, tag1.Valid(tag1.ServiceID()))

	_, err = svc.RegisterInstance(2, "sub", nil, &fakeSubscriber{id: 2})
	require.NoError(t, err)

	dirty := svc.IssueUpdate(nil)
	assert.Equal(t, 2, dirty) // "pub" gained a member; "sub" gained a subscriber and a member

	require.Len(t, pub.updates, 1)
	assert.Equal(t, "sub", pub.updates[0].RoleName)
	require.Len(t, pub.updates[0].Entries, 1)
	assert.Equal(t, types.InstanceID(2), pub.updates[0].Entries[0].InstanceID)
}

func TestServiceDropInstanceRemovesAllTags(t *testing.T) {
	svc, err := NewService("demo", []string{"pub", "sub"})
	require.NoError(t, err)

	_, err = svc.RegisterInstance(1, "pub", []string{"sub"}, &fakeSubscriber{id: 1})
	require.NoError(t, err)

	require.Equal(t, 1, svc.TagCountForInstanceID(1))
	svc.DropInstance(1)
	assert.Equal(t, 0, svc.TagCountForInstanceID(1))
	assert.Equal(t, 0, svc.TagCount())
}

func TestServiceDropTagErrorsOnUnknownTag(t *testing.T) {
	svc, err := NewService("demo", []string{"pub"})
	require.NoError(t, err)

	err = svc.DropTag(types.NewTag(1, 99))
	require.ErrorIs(t, err, types.ErrTagNotFound)
}

func TestServiceDropTagRemovesFromEverywhere(t *testing.T) {
	svc, err := NewService("demo", []string{"pub", "sub"})
	require.NoError(t, err)

	tag, err := svc.RegisterInstance(1, "pub", []string{"sub"}, &fakeSubscriber{id: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DropTag(tag))
	assert.Equal(t, 0, svc.TagCount())
	require.ErrorIs(t, svc.DropTag(tag), types.ErrTagNotFound)
}

func TestServiceDropAllClearsEveryInstance(t *testing.T) {
	svc, err := NewService("demo", []string{"pub", "sub"})
	require.NoError(t, err)

	_, err = svc.RegisterInstance(1, "pub", []string{"sub"}, &fakeSubscriber{id: 1})
	require.NoError(t, err)
	_, err = svc.RegisterInstance(2, "sub", nil, &fakeSubscriber{id: 2})
	require.NoError(t, err)

	require.Equal(t, 2, svc.TagCount())
	svc.DropAll()
	assert.Equal(t, 0, svc.TagCount())
}

func TestServiceTagUniquenessAcrossRegistrations(t *testing.T) {
	svc, err := NewService("demo", []string{"pub"})
	require.NoError(t, err)

	seen := map[types.Tag]struct{}{}
	for i := 0; i < 100; i++ {
		tag, err := svc.RegisterInstance(types.InstanceID(i), "pub", nil, &fakeSubscriber{id: types.InstanceID(i)})
		require.NoError(t, err)
		_, dup := seen[tag]
		require.False(t, dup, "tag %v reused", tag)
		seen[tag] = struct{}{}
	}
}
