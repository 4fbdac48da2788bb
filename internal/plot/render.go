package plot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/hominid-cli/internal/utils"
)

// Renderer writes charts as PNG files and optionally hands them to a viewer.
type Renderer struct {
	// Dir receives the rendered images.
	Dir string
	// Viewer is a command line run with the image path appended, e.g. "feh" or "xdg-open".
	// Empty means the image is only written.
	Viewer string
	Out    io.Writer
	Logger *slog.Logger
}

// Display renders c to a new file and blocks until the viewer exits.
// It returns the image path.
func (r *Renderer) Display(ctx context.Context, c Chart) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", err
	}
	dir := r.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "hominid-charts")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("chart dir: %w", err)
	}
	path := filepath.Join(dir, utils.UniqueFileName(c.Name(), ".png"))
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	r.logger().Debug("chart written", "chart", c.Name(), "path", path, "bytes", buf.Len())
	if r.Out != nil {
		fmt.Fprintf(r.Out, "✓ Wrote chart to %s\n", path)
	}
	if strings.TrimSpace(r.Viewer) == "" {
		return path, nil
	}
	args := strings.Fields(r.Viewer)
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdout = r.Out
	cmd.Stderr = r.Out
	if err := cmd.Run(); err != nil {
		return path, fmt.Errorf("viewer %s: %w", args[0], err)
	}
	return path, nil
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
