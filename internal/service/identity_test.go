package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSubject(t *testing.T) {
	repo := newFakeUserRepo()
	alice := repo.add("alice", "auth0|alice")
	svc := NewIdentityService(repo, testLogger())

	user, err := svc.ResolveSubject(context.Background(), "auth0|alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, alice.ID, user.ID)
}

func TestResolveSubject_Unknown(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo(), testLogger())

	// A valid token whose subject never registered is not an error.
	user, err := svc.ResolveSubject(context.Background(), "auth0|stranger")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveSubject_Empty(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo(), testLogger())

	user, err := svc.ResolveSubject(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveSubject_RepoFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.failWith = errors.New("connection reset")
	svc := NewIdentityService(repo, testLogger())

	_, err := svc.ResolveSubject(context.Background(), "auth0|alice")
	assert.Error(t, err)
}
