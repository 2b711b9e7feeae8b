package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "pageweld.yml")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestGetConfig(t *testing.T) {
	filename := writeConfig(t, `
port: 9090
origin: http://localhost:3000
provider: sqlite
dbPath: composites.db
decorators:
  - path: /content
    decorators: [/decorator]
  - path: /docs/*
    decorators: [/layouts/docs, /layouts/site]
`)

	config, err := getConfig(filename)
	if err != nil {
		t.Fatalf("Error reading config: %+v", err)
	}
	if config.Port != 9090 || config.Provider != "sqlite" {
		t.Fatalf("Config is %+v", config)
	}
	if len(config.Mappings) != 2 || len(config.Mappings[1].Decorators) != 2 {
		t.Fatalf("Mappings are %+v", config.Mappings)
	}
}

func TestGetConfigRejectsUnknownProvider(t *testing.T) {
	filename := writeConfig(t, `
origin: http://localhost:3000
provider: redis
`)

	if _, err := getConfig(filename); err == nil {
		t.Fatal("Expected validation error for unknown provider")
	}
}

func TestGetConfigRejectsEmptyDecoratorChain(t *testing.T) {
	filename := writeConfig(t, `
origin: http://localhost:3000
decorators:
  - path: /content
    decorators: []
`)

	if _, err := getConfig(filename); err == nil {
		t.Fatal("Expected validation error for empty decorator chain")
	}
}
