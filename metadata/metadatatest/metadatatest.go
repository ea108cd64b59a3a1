// Package metadatatest provides snapshot fixtures shared by tests.
package metadatatest

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/winrtgen/metadata"
)

//go:embed testdata/*
var fixtures embed.FS

// Fixture file names.
const (
	FoundationFile = "foundation.yaml"
	WidgetsFile    = "widgets.toml"
)

// Foundation builds a snapshot holding only the Windows.Foundation module.
func Foundation(t testing.TB) *metadata.Snapshot {
	t.Helper()
	return build(t, FoundationFile)
}

// All builds a snapshot holding every fixture module.
func All(t testing.TB) *metadata.Snapshot {
	t.Helper()
	return build(t, FoundationFile, WidgetsFile)
}

// Bytes returns the raw content of a fixture file.
func Bytes(t testing.TB, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

// WriteFiles copies fixtures into dir and returns their paths.
func WriteFiles(t testing.TB, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, Bytes(t, name), 0o644))
		paths = append(paths, path)
	}
	return paths
}

// MustFind looks up a definition by full name.
func MustFind(t testing.TB, r metadata.Resolver, full string) *metadata.TypeDef {
	t.Helper()
	ns, name := metadata.SplitName(full)
	def, ok := r.Find(ns, name)
	require.Truef(t, ok, "fixture type %s not found", full)
	return def
}

// MustMethod returns the first method of def with the given name.
func MustMethod(t testing.TB, def *metadata.TypeDef, name string) *metadata.MethodDef {
	t.Helper()
	for _, m := range def.Methods {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "method not found", "%s has no method %s", def.FullName(), name)
	return nil
}

func build(t testing.TB, names ...string) *metadata.Snapshot {
	t.Helper()
	docs := make([]*metadata.Document, 0, len(names))
	for _, name := range names {
		doc, err := metadata.DecodeDocument(name, Bytes(t, name))
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	snap, err := metadata.Build(docs...)
	require.NoError(t, err)
	return snap
}
