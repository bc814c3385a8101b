package cli

import (
	"io"
	"path/filepath"

	"github.com/rileyhilliard/keybatch/internal/keygen"
	"github.com/rileyhilliard/keybatch/internal/ui"
)

// spinningGenerator shows a spinner while the wrapped generator runs.
type spinningGenerator struct {
	inner keygen.Generator
	w     io.Writer
}

func (g *spinningGenerator) Generate(opts keygen.Options) error {
	spinner := ui.NewSpinner(g.w, "Generating "+filepath.Base(opts.Path))
	spinner.Start()
	err := g.inner.Generate(opts)
	spinner.Stop()
	return err
}
