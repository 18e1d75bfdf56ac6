package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smilecare.backend/pkg/crypto"
)

func noEnv(string) string { return "" }

func TestResolvePassword(t *testing.T) {
	got, err := resolvePassword([]string{"abc"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	got, err = resolvePassword(nil, func(k string) string {
		if k == "HASH_PASSWORD" {
			return "from-env"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	_, err = resolvePassword(nil, noEnv)
	assert.Error(t, err)
}

func withHooks(t *testing.T) *[]string {
	t.Helper()
	origArgs, origPrintf, origHash, origFatalf := os.Args, printfFn, generateHashFn, fatalfFn
	t.Cleanup(func() {
		os.Args, printfFn, generateHashFn, fatalfFn = origArgs, origPrintf, origHash, origFatalf
	})

	var lines []string
	record := func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	}
	printfFn = func(format string, a ...interface{}) (int, error) {
		record(format, a...)
		return 0, nil
	}
	fatalfFn = record
	return &lines
}

func TestMain_PrintsVerifiableHash(t *testing.T) {
	lines := withHooks(t)
	os.Args = []string{"hash-gen", "my-pass"}

	main()

	require.Len(t, *lines, 1)
	var hash string
	_, err := fmt.Sscanf((*lines)[0], "Bcrypt Hash: %s\n", &hash)
	require.NoError(t, err)
	assert.True(t, crypto.CheckPassword("my-pass", hash))
}

func TestMain_ReportsHashFailure(t *testing.T) {
	lines := withHooks(t)
	os.Args = []string{"hash-gen", "my-pass"}
	generateHashFn = func(string) (string, error) { return "", errors.New("boom") }

	main()

	require.Len(t, *lines, 1)
	assert.Equal(t, "Failed to hash password: boom", (*lines)[0])
}

func TestMain_ReportsMissingPassword(t *testing.T) {
	lines := withHooks(t)
	os.Args = []string{"hash-gen"}
	t.Setenv("HASH_PASSWORD", "")

	main()

	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "usage: hash-gen")
}
