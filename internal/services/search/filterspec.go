// Package search implements the public directory search: faceted,
// paginated lookups over doctors, hospitals and departments, plus the
// lightweight live-search used for autocomplete.
//
// A request flows through a fixed pipeline. The filter spec decides which
// inputs count, the predicate builder and ranking plan turn them into a
// store query, fetched rows gain derived attributes (average rating,
// experience in years), and post-filter and post-sort stages handle what
// the store cannot order or filter on. Facets are counted independently
// against fixed baselines.
package search

import (
	"strings"

	"healthdir_backend/pkg/apperrors"
)

type EntityType string

const (
	EntityDoctor     EntityType = "doctor"
	EntityHospital   EntityType = "hospital"
	EntityDepartment EntityType = "department"
)

// ParseEntityType accepts the wire names case-insensitively.
func ParseEntityType(s string) (EntityType, error) {
	switch t := EntityType(strings.ToLower(strings.TrimSpace(s))); t {
	case EntityDoctor, EntityHospital, EntityDepartment:
		return t, nil
	default:
		return "", apperrors.ErrUnknownEntityType.WithDetails(map[string]string{"type": s})
	}
}

type SortKey string

const (
	SortNameAZ          SortKey = "name_az"
	SortFeeLow          SortKey = "fee_low"
	SortFeeHigh         SortKey = "fee_high"
	SortRatingHigh      SortKey = "rating_high"
	SortReviewsHigh     SortKey = "reviews_high"
	SortExperienceHigh  SortKey = "experience_high"
	SortDoctorsHigh     SortKey = "doctors_high"
	SortDepartmentsHigh SortKey = "departments_high"
	SortNewest          SortKey = "newest"
)

type FilterField string

const (
	FieldQuery          FilterField = "query"
	FieldSpecialization FilterField = "specialization"
	FieldCity           FilterField = "city"
	FieldMinRating      FilterField = "minRating"
	FieldGender         FilterField = "gender"
	FieldExperience     FilterField = "experience"
)

// FilterSpec is the static allow-list for one entity type. Inputs outside
// it are dropped, never rejected.
type FilterSpec struct {
	Entity      EntityType
	Filters     []FilterField
	SortKeys    []SortKey
	DefaultSort SortKey
}

func (s FilterSpec) Allows(f FilterField) bool {
	for _, allowed := range s.Filters {
		if allowed == f {
			return true
		}
	}
	return false
}

func (s FilterSpec) AllowsSort(k SortKey) bool {
	for _, allowed := range s.SortKeys {
		if allowed == k {
			return true
		}
	}
	return false
}

var specs = map[EntityType]FilterSpec{
	EntityDoctor: {
		Entity: EntityDoctor,
		Filters: []FilterField{
			FieldQuery, FieldSpecialization, FieldCity, FieldMinRating, FieldGender, FieldExperience,
		},
		SortKeys: []SortKey{
			SortNameAZ, SortFeeLow, SortFeeHigh, SortRatingHigh, SortReviewsHigh, SortExperienceHigh, SortNewest,
		},
		DefaultSort: SortNameAZ,
	},
	EntityHospital: {
		Entity:  EntityHospital,
		Filters: []FilterField{FieldQuery, FieldCity},
		SortKeys: []SortKey{
			SortNameAZ, SortRatingHigh, SortReviewsHigh, SortDoctorsHigh, SortDepartmentsHigh, SortNewest,
		},
		DefaultSort: SortNameAZ,
	},
	EntityDepartment: {
		Entity:      EntityDepartment,
		Filters:     []FilterField{FieldQuery, FieldCity},
		SortKeys:    []SortKey{SortNameAZ, SortDoctorsHigh, SortNewest},
		DefaultSort: SortNameAZ,
	},
}

// SpecFor returns the filter spec of an entity type.
func SpecFor(entity EntityType) (FilterSpec, bool) {
	s, ok := specs[entity]
	return s, ok
}

// ResolveSort returns key when the spec allows it and the default otherwise.
func (s FilterSpec) ResolveSort(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if s.AllowsSort(key) {
		return key
	}
	return s.DefaultSort
}
