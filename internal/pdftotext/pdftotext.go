// Package pdftotext shells out to poppler's pdftotext to turn a PDF
// into the positional word XML the extraction pipeline consumes.
package pdftotext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Binary is the pdftotext executable name, resolvable via PATH.
const Binary = "pdftotext"

// Extract runs pdftotext in bbox mode on path and returns the XML
// word layout on stdout.
func Extract(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, Binary, "-q", "-nopgbrk", "-bbox", path, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("pdftotext %s: %w: %s", path, err, msg)
		}
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}
	return stdout.Bytes(), nil
}

// Available reports whether the pdftotext binary is on the PATH.
func Available() bool {
	_, err := exec.LookPath(Binary)
	return err == nil
}
