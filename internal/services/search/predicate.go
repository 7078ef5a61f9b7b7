package search

import (
	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
)

// Filters is the typed filter set of one entity type: DoctorFilters,
// HospitalFilters or DepartmentFilters.
type Filters interface {
	Entity() EntityType
}

type DoctorFilters struct {
	Query          string
	Specialization string
	City           string
	Gender         models.Gender
	Experience     string
	// MinRating is applied after the fetch; it never reaches the store.
	MinRating *float64
}

type HospitalFilters struct {
	Query string
	City  string
}

type DepartmentFilters struct {
	Query string
	City  string
}

func (DoctorFilters) Entity() EntityType     { return EntityDoctor }
func (HospitalFilters) Entity() EntityType   { return EntityHospital }
func (DepartmentFilters) Entity() EntityType { return EntityDepartment }

// BuildPredicate translates f into the store-level filter tree. Empty
// fields contribute nothing; visibility requirements always apply.
func BuildPredicate(f Filters) query.Predicate {
	switch v := f.(type) {
	case DoctorFilters:
		return doctorPredicate(v)
	case HospitalFilters:
		return hospitalPredicate(v)
	case DepartmentFilters:
		return departmentPredicate(v)
	default:
		return nil
	}
}

func doctorPredicate(f DoctorFilters) query.Predicate {
	var city query.Predicate
	if f.City != "" {
		// Either where the doctor lives or where they practice.
		city = query.Any(
			query.Contains("user.profile.city", f.City),
			query.Contains("hospital.city", f.City),
		)
	}
	var gender query.Predicate
	if f.Gender != "" {
		gender = query.Eq("user.profile.gender", string(f.Gender))
	}

	return query.All(
		containsIf("user.name", f.Query),
		containsIf("specialization", f.Specialization),
		city,
		gender,
		containsIf("experience", f.Experience),
		query.Eq("isVerified", true),
		query.Eq("user.isActive", true),
	)
}

func hospitalPredicate(f HospitalFilters) query.Predicate {
	var text query.Predicate
	if f.Query != "" {
		text = query.Any(
			query.Contains("name", f.Query),
			query.Contains("description", f.Query),
		)
	}
	return query.All(
		text,
		containsIf("city", f.City),
		query.Eq("isVerified", true),
	)
}

func departmentPredicate(f DepartmentFilters) query.Predicate {
	return query.All(
		containsIf("name", f.Query),
		query.Eq("hospital.isVerified", true),
		containsIf("hospital.city", f.City),
	)
}

func containsIf(field, value string) query.Predicate {
	if value == "" {
		return nil
	}
	return query.Contains(field, value)
}
