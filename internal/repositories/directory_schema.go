package repositories

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownSource    = errors.New("unknown source")
	ErrUnsupportedOrder = errors.New("unsupported order")
)

// sourceSchema maps query field paths of one Source onto SQL.
type sourceSchema struct {
	table string
	model func() any
	joins []string
	// columns maps a field path to a qualified column.
	columns map[string]string
	// aggregates maps an Order key ("count:reviews") to a correlated subquery.
	aggregates map[string]string
	// preloads maps an include path to a GORM association path.
	preloads map[string]string
}

var schemas = map[query.Source]*sourceSchema{
	query.SourceDoctor: {
		table: "doctors",
		model: func() any { return &models.Doctor{} },
		joins: []string{
			"LEFT JOIN users ON users.id = doctors.user_id",
			"LEFT JOIN profiles ON profiles.user_id = doctors.user_id",
			"LEFT JOIN hospitals ON hospitals.id = doctors.hospital_id",
			"LEFT JOIN departments ON departments.id = doctors.department_id",
		},
		columns: map[string]string{
			"id":                  "doctors.id",
			"isVerified":          "doctors.is_verified",
			"status":              "doctors.status",
			"specialization":      "doctors.specialization",
			"experience":          "doctors.experience",
			"consultationFee":     "doctors.consultation_fee",
			"createdAt":           "doctors.created_at",
			"user.name":           "users.name",
			"user.isActive":       "users.is_active",
			"user.profile.city":   "profiles.city",
			"user.profile.gender": "profiles.gender",
			"hospital.name":       "hospitals.name",
			"hospital.city":       "hospitals.city",
			"hospital.isVerified": "hospitals.is_verified",
			"department.name":     "departments.name",
		},
		aggregates: map[string]string{
			"avg:reviews.rating": "COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.doctor_id = doctors.id), 0)",
			"count:reviews":      "(SELECT COUNT(*) FROM reviews r WHERE r.doctor_id = doctors.id)",
		},
		preloads: map[string]string{
			"user":         "User",
			"user.profile": "User.Profile",
			"hospital":     "Hospital",
			"department":   "Department",
			"reviews":      "Reviews",
		},
	},
	query.SourceHospital: {
		table: "hospitals",
		model: func() any { return &models.Hospital{} },
		columns: map[string]string{
			"id":          "hospitals.id",
			"name":        "hospitals.name",
			"description": "hospitals.description",
			"city":        "hospitals.city",
			"isVerified":  "hospitals.is_verified",
			"createdAt":   "hospitals.created_at",
		},
		aggregates: map[string]string{
			"avg:reviews.rating": "COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.hospital_id = hospitals.id), 0)",
			"count:reviews":      "(SELECT COUNT(*) FROM reviews r WHERE r.hospital_id = hospitals.id)",
			"count:doctors":      "(SELECT COUNT(*) FROM doctors d WHERE d.hospital_id = hospitals.id)",
			"count:departments":  "(SELECT COUNT(*) FROM departments dp WHERE dp.hospital_id = hospitals.id)",
		},
		preloads: map[string]string{
			"reviews":     "Reviews",
			"doctors":     "Doctors",
			"departments": "Departments",
		},
	},
	query.SourceDepartment: {
		table: "departments",
		model: func() any { return &models.Department{} },
		joins: []string{
			"LEFT JOIN hospitals ON hospitals.id = departments.hospital_id",
		},
		columns: map[string]string{
			"id":                  "departments.id",
			"name":                "departments.name",
			"description":         "departments.description",
			"createdAt":           "departments.created_at",
			"hospital.name":       "hospitals.name",
			"hospital.city":       "hospitals.city",
			"hospital.isVerified": "hospitals.is_verified",
		},
		aggregates: map[string]string{
			"count:doctors": "(SELECT COUNT(*) FROM doctors d WHERE d.department_id = departments.id)",
		},
		preloads: map[string]string{
			"hospital":        "Hospital",
			"doctors":         "Doctors",
			"doctors.reviews": "Doctors.Reviews",
		},
	},
	query.SourceProfile: {
		table: "profiles",
		model: func() any { return &models.Profile{} },
		joins: []string{
			"LEFT JOIN users ON users.id = profiles.user_id",
			"LEFT JOIN doctors ON doctors.user_id = profiles.user_id",
		},
		columns: map[string]string{
			"id":                     "profiles.id",
			"city":                   "profiles.city",
			"gender":                 "profiles.gender",
			"user.isActive":          "users.is_active",
			"user.doctor.isVerified": "doctors.is_verified",
		},
	},
}

func schemaFor(source query.Source) (*sourceSchema, error) {
	s, ok := schemas[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return s, nil
}

func (s *sourceSchema) column(field string) (string, error) {
	col, ok := s.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, s.table, field)
	}
	return col, nil
}

// compileWhere renders p as a parameterised SQL condition. An empty string
// means no restriction.
func compileWhere(s *sourceSchema, p query.Predicate) (string, []any, error) {
	switch v := p.(type) {
	case nil:
		return "", nil, nil
	case query.And:
		return compileJunction(s, v, " AND ", false)
	case query.Or:
		return compileJunction(s, v, " OR ", true)
	case query.Cond:
		return compileCond(s, v)
	default:
		return "", nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func compileJunction(s *sourceSchema, clauses []query.Predicate, sep string, anyOf bool) (string, []any, error) {
	parts := make([]string, 0, len(clauses))
	var args []any
	for _, c := range clauses {
		sql, a, err := compileWhere(s, c)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			// An unrestricted branch makes the whole disjunction unrestricted.
			if anyOf {
				return "", nil, nil
			}
			continue
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	switch len(parts) {
	case 0:
		return "", nil, nil
	case 1:
		return parts[0], args, nil
	default:
		return "(" + strings.Join(parts, sep) + ")", args, nil
	}
}

func compileCond(s *sourceSchema, c query.Cond) (string, []any, error) {
	col, err := s.column(c.Field)
	if err != nil {
		return "", nil, err
	}

	switch c.Op {
	case query.OpEq:
		return col + " = ?", []any{sqlValue(c.Value)}, nil
	case query.OpContains:
		return col + " ILIKE ?", []any{"%" + escapeLike(fmt.Sprint(c.Value)) + "%"}, nil
	case query.OpNotEmpty:
		return "(" + col + " IS NOT NULL AND TRIM(" + col + ") <> '')", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
	}
}

// compileOrder renders one ORDER BY term.
func compileOrder(s *sourceSchema, o query.Order) (string, error) {
	var expr string
	if o.Aggregate == query.AggNone {
		col, err := s.column(o.Field)
		if err != nil {
			return "", err
		}
		expr = col
		if o.Fold {
			expr = "LOWER(" + col + ")"
		}
	} else {
		agg, ok := s.aggregates[o.Key()]
		if !ok {
			return "", fmt.Errorf("%w: %s on %s", ErrUnsupportedOrder, o.Key(), s.table)
		}
		expr = agg
	}

	if o.Desc {
		return expr + " DESC", nil
	}
	return expr + " ASC", nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// sqlValue unwraps named string types (models.DoctorStatus, models.Gender)
// so the driver binds them as text.
func sqlValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}
