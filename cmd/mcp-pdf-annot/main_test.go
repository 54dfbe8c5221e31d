package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"testing"

	"github.com/a3tai/mcp-pdf-annot/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	tests := []struct {
		name      string
		version   string
		buildTime string
		gitCommit string
	}{
		{"release", "1.2.3", "2023-12-01_10:30:00", "abc123"},
		{"defaults", "dev", "unknown", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.buildTime, tt.gitCommit

			var buf bytes.Buffer
			printVersion(&buf)
			output := buf.String()
			assert.Contains(t, output, "MCP PDF Annot")
			assert.Contains(t, output, "Version: "+tt.version)
			assert.Contains(t, output, "Build Time: "+tt.buildTime)
			assert.Contains(t, output, "Git Commit: "+tt.gitCommit)
			assert.Contains(t, output, "Built with:")
		})
	}
}

func TestSetupLogging(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	tests := []struct {
		name      string
		config    *config.Config
		output    io.Writer
		shortfile bool
	}{
		{"stdio debug", &config.Config{Mode: config.ModeStdio, LogLevel: "debug"}, os.Stderr, false},
		{"stdio quiet", &config.Config{Mode: config.ModeStdio, LogLevel: "info"}, io.Discard, false},
		{"server", &config.Config{Mode: config.ModeServer, LogLevel: "info"}, os.Stdout, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log.SetFlags(log.LstdFlags)
			logger := setupLogging(tt.config)
			assert.Same(t, log.Default(), logger)
			assert.Equal(t, tt.output, log.Writer())
			assert.Equal(t, tt.shortfile, log.Flags()&log.Lshortfile != 0)
		})
	}
}
