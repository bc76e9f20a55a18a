package main

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aldenluthfi/situs-backend/internal/search"
	"github.com/aldenluthfi/situs-backend/pkg/apis"
	"github.com/aldenluthfi/situs-backend/pkg/schema"
)

// schemagen writes the search profile JSON schema next to an example file
// holding the built-in defaults.
func main() {
	outputDir := flag.String("output", "api", "Output directory for generated schemas")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	schemaJSON, err := schema.NewGenerator("https://schemas.situs.dev").GenerateJSON(apis.SearchProfile{})
	if err != nil {
		slog.Error("Failed to generate search profile schema", "error", err)
		os.Exit(1)
	}
	writeFile(filepath.Join(*outputDir, "search-profile-v1.json"), schemaJSON)

	var buf bytes.Buffer
	buf.WriteString("# yaml-language-server: $schema=./search-profile-v1.json\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(search.DefaultProfile()); err != nil {
		slog.Error("Failed to encode example profile", "error", err)
		os.Exit(1)
	}
	_ = enc.Close()
	writeFile(filepath.Join(*outputDir, "search-profile-example.yaml"), buf.Bytes())
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("Failed to write file", "path", path, "error", err)
		os.Exit(1)
	}
	slog.Info("Generated", "path", path)
}
