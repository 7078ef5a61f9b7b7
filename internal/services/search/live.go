package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/query"
	"healthdir_backend/internal/services/dto"
	"healthdir_backend/pkg/apperrors"
)

// MinLiveQueryLength is the shortest query that reaches the store.
const MinLiveQueryLength = 2

var liveIncludes = map[EntityType][]string{
	EntityDoctor:     {"user.profile", "hospital", "reviews"},
	EntityHospital:   {"reviews"},
	EntityDepartment: {"hospital"},
}

func (s *searchService) LiveSearch(ctx context.Context, req *dto.LiveSearchRequest) (*dto.LiveSearchResponse, error) {
	resp := &dto.LiveSearchResponse{Results: []dto.LiveSearchItem{}}
	if req == nil {
		return resp, nil
	}

	q := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(q) < MinLiveQueryLength {
		return resp, nil
	}

	entities, err := liveEntities(req.Type)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.LiveDefaultLimit
	}
	if limit > s.cfg.LiveMaxLimit {
		limit = s.cfg.LiveMaxLimit
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	perEntity := make([][]dto.LiveSearchItem, len(entities))
	g, gctx := errgroup.WithContext(ctx)
	for i, entity := range entities {
		i, entity := i, entity
		g.Go(func() error {
			items, err := s.liveFetch(gctx, entity, liveFilters(entity, q, req), limit)
			if err != nil {
				return fmt.Errorf("live %s: %w", entity, err)
			}
			perEntity[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.CtxWithError(ctx, "Live search failed", err, "query", q, "type", req.Type)
		return nil, apperrors.ErrLiveSearchFailed(err)
	}

	for _, items := range perEntity {
		resp.Results = append(resp.Results, items...)
	}
	if len(resp.Results) > limit {
		resp.Results = resp.Results[:limit]
	}
	return resp, nil
}

// liveEntities expands "" and "all" to every entity type.
func liveEntities(raw string) ([]EntityType, error) {
	if v := strings.TrimSpace(raw); v == "" || strings.EqualFold(v, "all") {
		return []EntityType{EntityDoctor, EntityHospital, EntityDepartment}, nil
	}
	entity, err := ParseEntityType(raw)
	if err != nil {
		return nil, err
	}
	return []EntityType{entity}, nil
}

func liveFilters(entity EntityType, q string, req *dto.LiveSearchRequest) Filters {
	city := cleanValue(req.City)
	switch entity {
	case EntityHospital:
		return HospitalFilters{Query: q, City: city}
	case EntityDepartment:
		return DepartmentFilters{Query: q, City: city}
	default:
		return DoctorFilters{Query: q, City: city, Specialization: cleanValue(req.Specialization)}
	}
}

func (s *searchService) liveFetch(ctx context.Context, entity EntityType, f Filters, limit int) ([]dto.LiveSearchItem, error) {
	find := query.Find{
		Where:   BuildPredicate(f),
		Include: liveIncludes[entity],
		OrderBy: ResolvePlan(entity, SortNameAZ).StoreOrder,
		Take:    limit,
	}

	switch entity {
	case EntityDoctor:
		docs, err := s.store.FindDoctors(ctx, find)
		if err != nil {
			return nil, err
		}
		items := make([]dto.LiveSearchItem, 0, len(docs))
		for _, r := range doctorResults(RankDoctors(docs)) {
			rating := r.AvgRating
			items = append(items, dto.LiveSearchItem{
				ID: r.ID, Type: string(EntityDoctor), Name: r.Name,
				City: r.City, ImageURL: r.ImageURL, Rating: &rating,
			})
		}
		return items, nil
	case EntityHospital:
		hospitals, err := s.store.FindHospitals(ctx, find)
		if err != nil {
			return nil, err
		}
		items := make([]dto.LiveSearchItem, 0, len(hospitals))
		for _, r := range RankHospitals(hospitals) {
			rating := r.AvgRating
			items = append(items, dto.LiveSearchItem{
				ID: r.Hospital.ID, Type: string(EntityHospital), Name: r.Hospital.Name,
				City: r.Hospital.City, ImageURL: r.Hospital.ImageURL, Rating: &rating,
			})
		}
		return items, nil
	default:
		depts, err := s.store.FindDepartments(ctx, find)
		if err != nil {
			return nil, err
		}
		items := make([]dto.LiveSearchItem, 0, len(depts))
		for _, d := range depts {
			item := dto.LiveSearchItem{ID: d.ID, Type: string(EntityDepartment), Name: d.Name}
			if d.Hospital != nil {
				item.City = d.Hospital.City
			}
			items = append(items, item)
		}
		return items, nil
	}
}
