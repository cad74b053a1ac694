package app

import (
	"context"

	"gorcr/adapters/render"
	"gorcr/internal/errors"
)

// Renderer turns DOT source into an image file
type Renderer interface {
	Render(ctx context.Context, src []byte, path string) error
}

// Plot draws one view of the analysis to path. The extension is checked before
// any DOT is built. gene is required for the hypothesis view only.
func Plot(ctx context.Context, a *Analysis, view render.View, gene, path string, r Renderer) error {
	if err := render.CheckOutput(path); err != nil {
		return errors.Wrap(err, "invalid plot output")
	}

	var (
		src []byte
		err error
	)
	switch view {
	case render.ViewPathway:
		src, err = render.PathwayDOT(a.graph)
	case render.ViewHypothesis:
		if gene == "" {
			return errors.InvalidInput("hypothesis view requires a gene")
		}
		src, err = render.HypothesisDOT(a.result, gene)
	case render.ViewFull:
		src, err = render.FullNetworkDOT(a.result)
	default:
		return errors.InvalidInput("unknown view " + string(view))
	}
	if err != nil {
		return errors.Wrapf(err, "failed to build %s view", view)
	}
	return r.Render(ctx, src, path)
}
