package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"gorcr/domain/core"
	"gorcr/internal"
	"gorcr/internal/errors"
)

var acceptedExtensions = map[string]bool{
	".pdf": true,
	".svg": true,
	".png": true,
	".jpg": true,
}

// CheckOutput rejects image paths whose extension graphviz output is not produced for
func CheckOutput(path string) error {
	ext := filepath.Ext(filepath.Base(path))
	if !acceptedExtensions[ext] {
		return core.NewUnsupportedFormatError(ext)
	}
	return nil
}

// Graphviz renders DOT through the graphviz command line tools
type Graphviz struct {
	bin    string
	dpi    int
	logger *internal.Logger
}

// NewGraphviz creates a renderer; bin defaults to "dot" and dpi to 72
func NewGraphviz(bin string, dpi int, logger *internal.Logger) *Graphviz {
	if bin == "" {
		bin = "dot"
	}
	if dpi <= 0 {
		dpi = 72
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Graphviz{bin: bin, dpi: dpi, logger: logger}
}

// Render writes the image for src to path, choosing the format from the extension
func (g *Graphviz) Render(ctx context.Context, src []byte, path string) error {
	if err := CheckOutput(path); err != nil {
		return err
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")

	cmd := exec.CommandContext(ctx, g.bin, "-T"+format, fmt.Sprintf("-Gdpi=%d", g.dpi), "-o", path)
	cmd.Stdin = bytes.NewReader(src)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	g.logger.Debug("[Graphviz] %s -T%s -> %s", g.bin, format, path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return errors.ExternalServiceError("graphviz", err)
	}
	g.logger.Info("[Graphviz] wrote %s", path)
	return nil
}
