// Package service runs the request-to-score pipeline: validate, deduplicate,
// encode, score and persist a lead exactly once.
package service

import (
	"context"
	"errors"
	"time"

	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/internal/leads/encoding"
	"leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/leads/scoring"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/metrics"
	"leadscore_backend/platform/validator"
)

const (
	opScore = "service.Score"
	opGet   = "service.Get"

	msgValidationFailed = "validation failed"
)

// KnownLeadCache remembers stored lead numbers. It is an optimisation only;
// the repository stays authoritative.
type KnownLeadCache interface {
	Known(ctx context.Context, leadNumber int64) (bool, error)
	Remember(ctx context.Context, leadNumber int64) error
}

// Metrics receives pipeline observations.
type Metrics interface {
	ObservePrediction(outcome string, elapsed time.Duration)
	ObserveScore(score float64)
	ObserveCacheLookup(result string)
}

type noopMetrics struct{}

func (noopMetrics) ObservePrediction(string, time.Duration) {}
func (noopMetrics) ObserveScore(float64)                    {}
func (noopMetrics) ObserveCacheLookup(string)               {}

// Result is the outcome of a successful pipeline run. A duplicate carries
// no score.
type Result struct {
	Duplicate bool
	Score     float64
	Record    domain.LeadRecord
}

type Service struct {
	repo    repository.LeadStore
	encoder *encoding.Table
	engine  *scoring.Engine
	val     *validator.Validator
	log     *logger.Logger
	cache   KnownLeadCache
	metrics Metrics
	now     func() time.Time
}

// New creates the pipeline. The encoder and engine are shared read-only
// by every request.
func New(repo repository.LeadStore, encoder *encoding.Table, engine *scoring.Engine, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		encoder: encoder,
		engine:  engine,
		val:     val,
		log:     log,
		metrics: noopMetrics{},
		now:     time.Now,
	}
}

// SetCache enables the known-lead cache.
func (s *Service) SetCache(cache KnownLeadCache) {
	s.cache = cache
}

// SetMetrics replaces the no-op metrics sink.
func (s *Service) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Score runs one request through the pipeline.
func (s *Service) Score(ctx context.Context, in transport.LeadInput) (Result, error) {
	start := s.now()
	result, err := s.score(ctx, in)

	outcome := metrics.OutcomeScored
	switch {
	case err != nil:
		outcome = apperr.GetKind(err).String()
	case result.Duplicate:
		outcome = metrics.OutcomeDuplicate
	default:
		s.metrics.ObserveScore(result.Score)
	}
	s.metrics.ObservePrediction(outcome, s.now().Sub(start))

	return result, err
}

func (s *Service) score(ctx context.Context, in transport.LeadInput) (Result, error) {
	if err := s.val.Struct(in); err != nil {
		return Result{}, apperr.Validation(msgValidationFailed).
			WithOp(opScore).
			WithDetails(validator.FieldErrors(err))
	}

	lead := in.ToLead()
	ctx = context.WithValue(ctx, logger.LeadNumberKey, lead.LeadNumber)
	log := s.log.WithContext(ctx)

	known, err := s.isKnown(ctx, log, lead.LeadNumber)
	if err != nil {
		return Result{}, err
	}
	if known {
		log.LeadScored(lead.LeadNumber, metrics.OutcomeDuplicate, 0)
		return Result{Duplicate: true}, nil
	}

	encoded, err := s.encoder.Encode(domain.FeatureRow(lead))
	if err != nil {
		return Result{}, err
	}
	features, err := scoring.ToFeatures(encoded)
	if err != nil {
		return Result{}, err
	}
	p, err := s.engine.Score(features)
	if err != nil {
		return Result{}, err
	}
	score := domain.ScoreFromProbability(p)

	rec, err := s.repo.Insert(ctx, domain.NewLeadRecord(lead, score))
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent request stored this lead first.
		s.remember(ctx, log, lead.LeadNumber)
		log.LeadScored(lead.LeadNumber, metrics.OutcomeDuplicate, 0)
		return Result{Duplicate: true}, nil
	}
	if err != nil {
		log.DatabaseError("insert lead", err)
		return Result{}, apperr.Persistence("failed to store lead", err).WithOp(opScore)
	}

	s.remember(ctx, log, lead.LeadNumber)
	log.LeadScored(lead.LeadNumber, metrics.OutcomeScored, score)
	return Result{Score: score, Record: rec}, nil
}

// isKnown consults the cache, then the repository. Cache failures fall
// through to the repository.
func (s *Service) isKnown(ctx context.Context, log *logger.Logger, leadNumber int64) (bool, error) {
	if s.cache != nil {
		known, err := s.cache.Known(ctx, leadNumber)
		switch {
		case err != nil:
			s.metrics.ObserveCacheLookup("error")
			log.Warn("known-lead cache lookup failed", "error", err)
		case known:
			s.metrics.ObserveCacheLookup("hit")
			return true, nil
		default:
			s.metrics.ObserveCacheLookup("miss")
		}
	}

	exists, err := s.repo.Exists(ctx, leadNumber)
	if err != nil {
		log.DatabaseError("check lead", err)
		return false, apperr.Persistence("failed to check for an existing lead", err).WithOp(opScore)
	}
	if exists {
		s.remember(ctx, log, leadNumber)
	}
	return exists, nil
}

func (s *Service) remember(ctx context.Context, log *logger.Logger, leadNumber int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Remember(ctx, leadNumber); err != nil {
		log.Warn("known-lead cache update failed", "error", err)
	}
}

// Get returns the stored record for leadNumber.
func (s *Service) Get(ctx context.Context, leadNumber int64) (domain.LeadRecord, error) {
	if leadNumber <= 0 {
		return domain.LeadRecord{}, apperr.Validation("lead number must be a positive integer").WithOp(opGet)
	}

	rec, err := s.repo.FindByLeadNumber(ctx, leadNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.LeadRecord{}, apperr.NotFound("lead not found").WithOp(opGet)
	}
	if err != nil {
		s.log.DatabaseError("find lead", err)
		return domain.LeadRecord{}, apperr.Persistence("failed to read lead", err).WithOp(opGet)
	}
	return rec, nil
}
