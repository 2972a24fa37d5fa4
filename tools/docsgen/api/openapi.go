//go:build docsgen_api
// +build docsgen_api

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/nemberjs/nember/internal/daemon"
	"github.com/nemberjs/nember/internal/perms"
)

// main generates the OpenAPI specification for the nember API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "nember.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// The daemon is never started, the address only has to be valid.
	deps, err := daemon.NewDependencies(logger, "localhost:0")
	if err != nil {
		logger.Error("failed to create daemon dependencies", "error", err)
		os.Exit(1)
	}

	d, err := daemon.NewDaemon(deps)
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	spec, err := d.OpenAPI()
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	yamlBytes, err := spec.YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, perms.RegularDir); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, yamlBytes, perms.RegularFile); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
