// Package importer hands finished snapshots to a downstream consumer.
package importer

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Command invokes an external program with the snapshot path as its final
// argument. The program owns the actual search-index load; the pipeline
// only guarantees the snapshot exists and is complete when Import runs.
type Command struct {
	name string
	args []string
}

var _ driven.Importer = (*Command)(nil)

// NewCommand creates a command importer. The snapshot path is appended to
// args on each invocation.
func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

// Import runs the configured command and fails if it exits non-zero.
func (c *Command) Import(ctx context.Context, snapshotPath string) error {
	args := append(append([]string{}, c.args...), snapshotPath)
	cmd := exec.CommandContext(ctx, c.name, args...)

	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		logger.Debug("importer output: %s", out)
	}
	if err != nil {
		return fmt.Errorf("importer %s: %w: %s", c.name, err, out)
	}
	return nil
}
