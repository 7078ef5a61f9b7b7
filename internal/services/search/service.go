package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/metrics"
	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
	"healthdir_backend/internal/services/dto"
)

// Store is the read capability the pipeline needs from a directory backend.
type Store interface {
	Count(ctx context.Context, source query.Source, where query.Predicate) (int64, error)
	FindDoctors(ctx context.Context, find query.Find) ([]models.Doctor, error)
	FindHospitals(ctx context.Context, find query.Find) ([]models.Hospital, error)
	FindDepartments(ctx context.Context, find query.Find) ([]models.Department, error)
	GroupBy(ctx context.Context, source query.Source, field string, where query.Predicate) ([]query.Group, error)
}

type Config struct {
	DefaultLimit     int
	MaxLimit         int
	LiveDefaultLimit int
	LiveMaxLimit     int
	// Timeout bounds one Search or LiveSearch call; zero disables it.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 100
	}
	if c.LiveDefaultLimit <= 0 {
		c.LiveDefaultLimit = 8
	}
	if c.LiveMaxLimit <= 0 {
		c.LiveMaxLimit = 20
	}
	return c
}

type Service interface {
	// Search never fails: any error yields EmptyResponse and is logged.
	Search(ctx context.Context, req *dto.SearchRequest) *dto.SearchResponse
	// LiveSearch returns store failures to the caller.
	LiveSearch(ctx context.Context, req *dto.LiveSearchRequest) (*dto.LiveSearchResponse, error)
	FilterSpec(entityType string) (*dto.FilterSpecResponse, error)
}

type searchService struct {
	store Store
	cfg   Config
}

func NewService(store Store, cfg Config) Service {
	return &searchService{
		store: store,
		cfg:   cfg.withDefaults(),
	}
}

var includes = map[EntityType][]string{
	EntityDoctor:     {"user.profile", "hospital", "department", "reviews"},
	EntityHospital:   {"reviews", "doctors", "departments"},
	EntityDepartment: {"hospital", "doctors.reviews"},
}

var sources = map[EntityType]query.Source{
	EntityDoctor:     query.SourceDoctor,
	EntityHospital:   query.SourceHospital,
	EntityDepartment: query.SourceDepartment,
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) *dto.SearchResponse {
	start := time.Now()
	entity := "invalid"
	if req != nil {
		if t, err := ParseEntityType(req.Type); err == nil {
			entity = string(t)
		}
	}

	resp, err := s.search(ctx, req)
	if err != nil {
		logger.CtxWithError(ctx, "Search failed, returning empty response", err,
			"type", entity,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		metrics.ObserveSearch(entity, metrics.OutcomeFailSoft, time.Since(start))
		return EmptyResponse()
	}

	metrics.ObserveSearch(entity, metrics.OutcomeOK, time.Since(start))
	return resp
}

// fetched holds the raw page of whichever entity was searched.
type fetched struct {
	doctors     []models.Doctor
	hospitals   []models.Hospital
	departments []models.Department
}

func (s *searchService) search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	if req == nil {
		return nil, errors.New("nil search request")
	}
	crit, err := ResolveCriteria(req, Limits{Default: s.cfg.DefaultLimit, Max: s.cfg.MaxLimit})
	if err != nil {
		return nil, err
	}

	where := BuildPredicate(crit.Filters)
	plan := ResolvePlan(crit.Entity, crit.SortKey)
	find := query.Find{
		Where:   where,
		Include: includes[crit.Entity],
		OrderBy: plan.StoreOrder,
		Skip:    crit.Offset(),
		Take:    crit.Limit,
	}

	logger.CtxDebug(ctx, "Search resolved",
		"entity", crit.Entity,
		"sort", crit.SortKey,
		"page", crit.Page,
		"limit", crit.Limit,
		"where", query.Describe(where),
		"post_sort", plan.NeedsPostSort(),
	)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	facetQs := facetQueries(crit.Entity)
	facetResults := make([][]query.Group, len(facetQs))

	var (
		total int64
		page  fetched
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer observeStage("count", time.Now())
		n, err := s.store.Count(gctx, sources[crit.Entity], where)
		if err != nil {
			return fmt.Errorf("count %s: %w", crit.Entity, err)
		}
		total = n
		return nil
	})

	g.Go(func() error {
		defer observeStage("fetch", time.Now())
		var err error
		switch crit.Entity {
		case EntityDoctor:
			page.doctors, err = s.store.FindDoctors(gctx, find)
		case EntityHospital:
			page.hospitals, err = s.store.FindHospitals(gctx, find)
		case EntityDepartment:
			page.departments, err = s.store.FindDepartments(gctx, find)
		}
		if err != nil {
			return fmt.Errorf("fetch %s: %w", crit.Entity, err)
		}
		return nil
	})

	for i, fq := range facetQs {
		i, fq := i, fq
		g.Go(func() error {
			defer observeStage("facets", time.Now())
			groups, err := s.store.GroupBy(gctx, fq.source, fq.field, fq.where)
			if err != nil {
				return fmt.Errorf("facet %s.%s: %w", fq.source, fq.field, err)
			}
			facetResults[i] = groups
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := EmptyResponse()
	resp.TotalCount = total
	resp.Facets = buildFacets(crit.Entity, facetQs, facetResults)
	resp.Pagination = paginate(total, crit.Page, crit.Limit)

	switch crit.Entity {
	case EntityDoctor:
		ranked := RankDoctors(page.doctors)
		if f, ok := crit.Filters.(DoctorFilters); ok && f.MinRating != nil {
			ranked = FilterByMinRating(ranked, *f.MinRating)
		}
		applyPostSort(ranked, plan)
		resp.Doctors = doctorResults(ranked)
	case EntityHospital:
		resp.Hospitals = hospitalResults(RankHospitals(page.hospitals))
	case EntityDepartment:
		resp.Departments = departmentResults(RankDepartments(page.departments))
	}

	logger.CtxDebug(ctx, "Search assembled",
		"entity", crit.Entity,
		"total", total,
		"returned", len(resp.Doctors)+len(resp.Hospitals)+len(resp.Departments),
	)
	return resp, nil
}

func observeStage(stage string, start time.Time) {
	metrics.ObserveStage(stage, time.Since(start))
}

func (s *searchService) FilterSpec(entityType string) (*dto.FilterSpecResponse, error) {
	entity, err := ParseEntityType(entityType)
	if err != nil {
		return nil, err
	}
	spec, _ := SpecFor(entity)

	resp := &dto.FilterSpecResponse{
		Type:        string(entity),
		Filters:     make([]string, len(spec.Filters)),
		SortKeys:    make([]string, len(spec.SortKeys)),
		DefaultSort: string(spec.DefaultSort),
	}
	for i, f := range spec.Filters {
		resp.Filters[i] = string(f)
	}
	for i, k := range spec.SortKeys {
		resp.SortKeys[i] = string(k)
	}
	return resp, nil
}
