package app

import (
	"context"
	"time"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/domain/enrichment"
	"gorcr/domain/expression"
	"gorcr/domain/inference"
	"gorcr/domain/run"
	"gorcr/internal"
	"gorcr/internal/errors"
	"gorcr/internal/metrics"
	"gorcr/ports"
)

// Pipeline stage names, used as metric labels
const (
	StageClassify = "classify"
	StageBuild    = "build"
	StageInfer    = "infer"
	StageScore    = "score"
	StagePersist  = "persist"
)

// AnalysisService runs classify, build, infer and score over a set of inputs
type AnalysisService struct {
	classifier *expression.Classifier
	scorer     *enrichment.Scorer
	runRepo    ports.RunRepository
	metrics    *metrics.Registry
	logger     *internal.Logger
}

// ServiceOptions configures an AnalysisService. RunRepo and Metrics are optional.
type ServiceOptions struct {
	Thresholds expression.Thresholds
	Workers    int
	RunRepo    ports.RunRepository
	Metrics    *metrics.Registry
	Logger     *internal.Logger
}

// NewAnalysisService validates the thresholds and creates the service
func NewAnalysisService(opts ServiceOptions) (*AnalysisService, error) {
	classifier, err := expression.NewClassifier(opts.Thresholds)
	if err != nil {
		return nil, errors.Wrap(err, "invalid thresholds")
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = internal.NewNopLogger()
	}
	return &AnalysisService{
		classifier: classifier,
		scorer:     enrichment.NewScorer(opts.Workers),
		runRepo:    opts.RunRepo,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}, nil
}

// Run executes the pipeline. When a run repository is configured the run and its
// regulator scores are stored before returning.
func (s *AnalysisService) Run(ctx context.Context, in Inputs) (*Analysis, error) {
	a, err := s.run(ctx, in)
	if err != nil {
		s.metrics.RecordAnalysis("error")
		s.logger.Error("[Analysis] run failed: %v", err)
		return nil, err
	}
	s.metrics.RecordAnalysis("success")
	return a, nil
}

func (s *AnalysisService) run(ctx context.Context, in Inputs) (*Analysis, error) {
	start := time.Now()
	th := s.classifier.Thresholds()
	a := &Analysis{
		runID:       core.NewRunID(),
		fingerprint: FingerprintOf(in, th),
		thresholds:  th,
	}
	log := s.logger.With("run_id", a.runID.String())
	log.Info("[Analysis] starting run, fingerprint %s", a.fingerprint.Short())

	var err error
	stage := time.Now()
	if a.snapshot, err = expression.NewSnapshot(in.Records); err != nil {
		return nil, errors.Wrap(err, "invalid expression records")
	}
	a.states = s.classifier.ClassifyAll(a.snapshot)
	up, down := a.states.Count()
	s.metrics.ObserveStage(StageClassify, time.Since(stage))
	log.Info("[Analysis] classified %d genes: %d increased, %d decreased", a.snapshot.Len(), up, down)

	stage = time.Now()
	if a.graph, err = causal.Build(in.Edges); err != nil {
		return nil, errors.Wrap(err, "failed to build causal graph")
	}
	s.metrics.ObserveStage(StageBuild, time.Since(stage))
	s.metrics.SetGraphSize(a.graph.NodeCount(), a.graph.EdgeCount(), a.graph.AmbiguousEdgeCount())
	log.Info("[Analysis] causal graph: %d genes, %d edges, %d ambiguous",
		a.graph.NodeCount(), a.graph.EdgeCount(), a.graph.AmbiguousEdgeCount())

	stage = time.Now()
	if a.result, err = inference.Infer(a.graph, a.states); err != nil {
		return nil, errors.Wrap(err, "causal inference failed")
	}
	s.metrics.ObserveStage(StageInfer, time.Since(stage))

	stage = time.Now()
	if a.scores, err = s.scorer.ScoreAll(ctx, a.result); err != nil {
		return nil, errors.Wrap(err, "enrichment scoring failed")
	}
	s.metrics.ObserveStage(StageScore, time.Since(stage))
	s.metrics.SetScoredRegulators(a.scores.Defined())
	log.Debug("[Analysis] %d of %d regulators have a concordance", a.scores.Defined(), len(a.scores.Scores))

	if s.runRepo != nil {
		stage = time.Now()
		rec := run.NewRecord(a.runID, a.fingerprint, th, a.graph, a.scores)
		if err := s.runRepo.SaveRun(ctx, rec, run.RegulatorsFrom(a.runID, a.scores)); err != nil {
			return nil, errors.DatabaseError("failed to save run", err)
		}
		s.metrics.ObserveStage(StagePersist, time.Since(stage))
	}

	log.Info("[Analysis] run completed in %v", time.Since(start))
	return a, nil
}

// FingerprintOf identifies a run by its inputs and thresholds
func FingerprintOf(in Inputs, th expression.Thresholds) core.Hash {
	return run.ComputeFingerprint(in.Records, in.Edges, th)
}

// Previous returns earlier runs with the same input fingerprint, or nil without a repository
func (s *AnalysisService) Previous(ctx context.Context, fingerprint core.Hash) ([]run.Record, error) {
	if s.runRepo == nil {
		return nil, nil
	}
	recs, err := s.runRepo.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, errors.DatabaseError("failed to look up runs", err)
	}
	return recs, nil
}
