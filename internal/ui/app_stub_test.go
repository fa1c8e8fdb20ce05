//go:build !fyne

package ui

import (
	"strings"
	"testing"
)

func TestRun_WithoutFyneTag(t *testing.T) {
	for _, stateDir := range []string{"", "/tmp/alt-state"} {
		err := Run(stateDir)
		if err == nil {
			t.Fatalf("Run(%q) = nil, want build-tag error", stateDir)
		}
		// the message must tell the user how to get a working UI binary
		if !strings.Contains(err.Error(), "go run -tags fyne") {
			t.Fatalf("error does not name the rebuild command: %v", err)
		}
	}
}
