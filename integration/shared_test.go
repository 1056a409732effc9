//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedCodegradePath holds the path to a shared codegrade binary built once for all tests.
	sharedCodegradePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getCodegradeBinary returns the path to the codegrade binary, building it once if needed.
func getCodegradeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "codegrade-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		codegradePath := filepath.Join(tempDir, "codegrade")
		buildCmd := exec.Command("go", "build", "-o", codegradePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build codegrade: %v", err))
		}

		sharedCodegradePath = codegradePath
	})

	return sharedCodegradePath
}

// runCodegradeCommand runs the shared binary from the project root.
func runCodegradeCommand(t *testing.T, args ...string) error {
	t.Helper()
	codegradePath := getCodegradeBinary()
	cmd := exec.Command(codegradePath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
