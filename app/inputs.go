package app

import (
	"gorcr/adapters/tabular"
	"gorcr/domain/causal"
	"gorcr/domain/expression"
	"gorcr/internal"
	"gorcr/internal/config"
	"gorcr/internal/errors"
)

// Inputs are the in-memory tables an analysis runs on
type Inputs struct {
	Records []expression.GeneRecord
	Edges   []causal.PathwayEdge
}

// InputFiles locates the tables on disk. MappingFile is optional.
type InputFiles struct {
	ExpressionFile string
	PathwayFile    string
	MappingFile    string
	Columns        tabular.ExpressionColumns
	Join           tabular.JoinOptions
}

// InputFilesFromConfig maps configured paths and columns
func InputFilesFromConfig(cfg *config.Config) InputFiles {
	return InputFiles{
		ExpressionFile: cfg.Paths.ExpressionFile,
		PathwayFile:    cfg.Paths.PathwayFile,
		MappingFile:    cfg.Paths.MappingFile,
		Columns: tabular.ExpressionColumns{
			Symbol:        cfg.Columns.Symbol,
			LogFoldChange: cfg.Columns.LogFoldChange,
			PValue:        cfg.Columns.PValue,
		},
		Join: tabular.JoinOptions{UnmappedAsAmbiguous: cfg.Analysis.UnmappedAsAmbiguous},
	}
}

// LoadInputs reads the expression, pathway and mapping tables and joins the
// pathway with the mapping into candidate edges
func LoadInputs(files InputFiles, logger *internal.Logger) (Inputs, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if files.ExpressionFile == "" {
		return Inputs{}, errors.InvalidInput("expression file is required")
	}
	if files.PathwayFile == "" {
		return Inputs{}, errors.InvalidInput("pathway file is required")
	}

	snap, err := tabular.ReadExpression(files.ExpressionFile, files.Columns, logger)
	if err != nil {
		return Inputs{}, errors.Wrap(err, "failed to read expression table")
	}
	pathway, err := tabular.ReadPathway(files.PathwayFile, logger)
	if err != nil {
		return Inputs{}, errors.Wrap(err, "failed to read pathway table")
	}

	var mapping []tabular.MappingRow
	if files.MappingFile != "" {
		mapping, err = tabular.ReadMapping(files.MappingFile, logger)
		if err != nil {
			return Inputs{}, errors.Wrap(err, "failed to read mapping table")
		}
	}

	edges, err := tabular.CandidateEdges(pathway, mapping, files.Join)
	if err != nil {
		return Inputs{}, errors.Wrap(err, "failed to join pathway with mapping")
	}

	logger.Info("[Inputs] %d expression records, %d pathway rows, %d mapping rows, %d candidate edges",
		snap.Len(), len(pathway), len(mapping), len(edges))
	return Inputs{Records: snap.Records(), Edges: edges}, nil
}
