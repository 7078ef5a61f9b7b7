package search

import (
	"sort"

	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
	"healthdir_backend/internal/services/dto"
)

type facetKind int

const (
	facetSpecializations facetKind = iota
	facetCities
	facetGenders
)

// facetQuery is one grouped count. The where clause is a fixed baseline and
// does not follow the caller's filters.
type facetQuery struct {
	kind   facetKind
	source query.Source
	field  string
	where  query.Predicate
}

var (
	specializationBaseline = query.All(
		query.Eq("isVerified", true),
		query.Eq("user.isActive", true),
		query.Eq("status", string(models.DoctorStatusApproved)),
		query.NotEmpty("specialization"),
	)
	cityBaseline = query.All(
		query.Eq("isVerified", true),
		query.NotEmpty("city"),
	)
	genderBaseline = query.All(
		query.Eq("user.doctor.isVerified", true),
		query.NotEmpty("gender"),
	)
)

// experienceLevels are fixed buckets; experience is free text so they carry no counts.
var experienceLevels = []string{"1-5", "5-10", "10+"}

func facetQueries(entity EntityType) []facetQuery {
	cities := facetQuery{kind: facetCities, source: query.SourceHospital, field: "city", where: cityBaseline}
	if entity != EntityDoctor {
		return []facetQuery{cities}
	}
	return []facetQuery{
		{kind: facetSpecializations, source: query.SourceDoctor, field: "specialization", where: specializationBaseline},
		cities,
		{kind: facetGenders, source: query.SourceProfile, field: "gender", where: genderBaseline},
	}
}

func emptyFacets() dto.Facets {
	return dto.Facets{
		Specializations:  []dto.NameCount{},
		Cities:           []dto.NameCount{},
		Ratings:          []dto.ValueCount{},
		Genders:          []dto.ValueCount{},
		ExperienceLevels: []dto.ValueCount{},
	}
}

// buildFacets merges grouped counts into the response facets. results is
// indexed like queries.
func buildFacets(entity EntityType, queries []facetQuery, results [][]query.Group) dto.Facets {
	f := emptyFacets()
	for i, q := range queries {
		groups := sortGroups(results[i])
		switch q.kind {
		case facetSpecializations:
			f.Specializations = toNameCounts(groups)
		case facetCities:
			f.Cities = toNameCounts(groups)
		case facetGenders:
			f.Genders = toValueCounts(groups)
		}
	}
	if entity == EntityDoctor {
		for _, level := range experienceLevels {
			f.ExperienceLevels = append(f.ExperienceLevels, dto.ValueCount{Value: level})
		}
	}
	return f
}

// sortGroups orders by count descending, then value ascending, dropping
// negative counts.
func sortGroups(groups []query.Group) []query.Group {
	out := make([]query.Group, 0, len(groups))
	for _, g := range groups {
		if g.Count >= 0 {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func toNameCounts(groups []query.Group) []dto.NameCount {
	out := make([]dto.NameCount, len(groups))
	for i, g := range groups {
		out[i] = dto.NameCount{Name: g.Value, Count: g.Count}
	}
	return out
}

func toValueCounts(groups []query.Group) []dto.ValueCount {
	out := make([]dto.ValueCount, len(groups))
	for i, g := range groups {
		out[i] = dto.ValueCount{Value: g.Value, Count: g.Count}
	}
	return out
}
