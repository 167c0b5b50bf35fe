package pipeline

import (
	stderrors "errors"
	"io/fs"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/graph"
)

// LoadGraph reads a graph file (.json, .yaml or .yml).
//
// Missing files return [errors.ErrCodeFileNotFound]; undecodable files
// return [errors.ErrCodeInvalidGraph]. Edges with unknown endpoints are not
// an error here; the layout drops and counts them.
func LoadGraph(path string) (graph.Graph, error) {
	if err := errors.ValidateGraphFilename(path); err != nil {
		return graph.Graph{}, err
	}
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return graph.Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file not found: %s", path)
		}
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "failed to parse %s", path)
	}
	for _, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid node in %s", path)
		}
	}
	return g, nil
}
