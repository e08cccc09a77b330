package constants_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/agentstation/shelf/pkg/constants"
)

// Example demonstrates using constants for common operations
func Example() {
	dir, err := os.MkdirTemp("", "shelf-example")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	file := filepath.Join(dir, constants.DefaultArea+".json")
	if err := os.WriteFile(file, []byte(`{"version":1}`), constants.FilePermissions); err != nil {
		panic(err)
	}

	fmt.Printf("Created file with %o permissions\n", constants.FilePermissions)
	fmt.Printf("Overlay schema v%d\n", constants.OverlaySchemaVersion)
	// Output:
	// Created file with 644 permissions
	// Overlay schema v1
}

// Example_timeouts demonstrates timeout constants
func Example_timeouts() {
	client := &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	}
	fmt.Printf("HTTP timeout: %v\n", client.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), constants.ReloadContextTimeout)
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	fmt.Println("Reload has deadline:", hasDeadline)

	// Output:
	// HTTP timeout: 30s
	// Reload has deadline: true
}

// Example_placeholder shows how unnamed items are labelled
func Example_placeholder() {
	fmt.Printf(constants.PlaceholderNameFormat+"\n", "42")
	// Output:
	// Item 42
}
