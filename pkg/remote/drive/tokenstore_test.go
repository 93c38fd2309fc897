package drive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := &FileTokenStore{Path: filepath.Join(t.TempDir(), "token.json")}

	tok, err := store.LoadToken()
	require.NoError(t, err)
	assert.Nil(t, tok, "missing file means signed out")

	in := (&oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
	}).WithExtra(map[string]interface{}{"id_token": "header.payload.sig"})
	require.NoError(t, store.SaveToken(in))

	out, err := store.LoadToken()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "access", out.AccessToken)
	assert.Equal(t, "refresh", out.RefreshToken)
	assert.Equal(t, "header.payload.sig", out.Extra("id_token"))

	require.NoError(t, store.ClearToken())
	out, err = store.LoadToken()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestFileTokenStoreCorruptFileMeansSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0600))

	store := &FileTokenStore{Path: path}
	tok, err := store.LoadToken()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestFileTokenStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := &FileTokenStore{Path: path}
	require.NoError(t, store.SaveToken(&oauth2.Token{AccessToken: "a"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
