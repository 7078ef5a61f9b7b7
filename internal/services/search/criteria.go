package search

import (
	"math"
	"strings"

	"healthdir_backend/internal/models"
	"healthdir_backend/internal/services/dto"
)

// Limits bounds the page size.
type Limits struct {
	Default int
	Max     int
}

// Criteria is a SearchRequest after validation-class cleanup.
type Criteria struct {
	Entity  EntityType
	Filters Filters
	SortKey SortKey
	Page    int
	Limit   int
}

func (c Criteria) Offset() int {
	return (c.Page - 1) * c.Limit
}

// ResolveCriteria applies the entity's filter spec to req. Only an unknown
// entity type is an error; every other bad input is normalised away.
func ResolveCriteria(req *dto.SearchRequest, limits Limits) (Criteria, error) {
	entity, err := ParseEntityType(req.Type)
	if err != nil {
		return Criteria{}, err
	}
	spec, _ := SpecFor(entity)

	c := Criteria{
		Entity:  entity,
		SortKey: spec.ResolveSort(req.SortBy),
		Page:    req.Page,
		Limit:   req.Limit,
	}
	if c.Page < 1 {
		c.Page = 1
	}
	if c.Limit <= 0 {
		c.Limit = limits.Default
	}
	if limits.Max > 0 && c.Limit > limits.Max {
		c.Limit = limits.Max
	}
	// keeps Offset from overflowing; such a page is past any real result set
	if c.Limit > 0 && c.Page > math.MaxInt/c.Limit {
		c.Page = math.MaxInt / c.Limit
	}

	pick := func(f FilterField, v string) string {
		if !spec.Allows(f) {
			return ""
		}
		return cleanValue(v)
	}

	switch entity {
	case EntityDoctor:
		f := DoctorFilters{
			Query:          pick(FieldQuery, req.Query),
			Specialization: pick(FieldSpecialization, req.Specialization),
			City:           pick(FieldCity, req.City),
			Experience:     pick(FieldExperience, req.Experience),
		}
		if g, ok := models.ParseGender(pick(FieldGender, req.Gender)); ok {
			f.Gender = g
		}
		if spec.Allows(FieldMinRating) && req.MinRating != nil && *req.MinRating > 0 {
			v := *req.MinRating
			f.MinRating = &v
		}
		c.Filters = f
	case EntityHospital:
		c.Filters = HospitalFilters{
			Query: pick(FieldQuery, req.Query),
			City:  pick(FieldCity, req.City),
		}
	case EntityDepartment:
		c.Filters = DepartmentFilters{
			Query: pick(FieldQuery, req.Query),
			City:  pick(FieldCity, req.City),
		}
	}
	return c, nil
}

// cleanValue treats blank and "all" as absent.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
