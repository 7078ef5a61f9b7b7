// Package memory is an in-process DirectoryRepository over a fixed data set.
// It evaluates the same query trees as the SQL repository and backs tests
// and demo deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
	"healthdir_backend/internal/repositories"
)

// Seed is the flat data set a Store is built from. Relations are resolved
// by ID; nested relation fields on the records are ignored.
type Seed struct {
	Users       []models.User
	Profiles    []models.Profile
	Hospitals   []models.Hospital
	Departments []models.Department
	Doctors     []models.Doctor
	Reviews     []models.Review
}

// Store is safe for concurrent use; it never mutates after New.
type Store struct {
	users       map[string]*models.User
	profiles    map[string]*models.Profile // by user ID
	hospitals   []*models.Hospital
	hospitalsBy map[string]*models.Hospital
	departments []*models.Department
	deptsBy     map[string]*models.Department
	doctors     []*models.Doctor
	doctorsBy   map[string]*models.Doctor // by user ID
	profileList []*models.Profile

	doctorReviews   map[string][]models.Review
	hospitalReviews map[string][]models.Review
	doctorsByHosp   map[string][]*models.Doctor
	doctorsByDept   map[string][]*models.Doctor
	deptsByHosp     map[string][]*models.Department
}

var _ repositories.DirectoryRepository = (*Store)(nil)

// New indexes seed. Records without an ID get a random one.
func New(seed Seed) (*Store, error) {
	s := &Store{
		users:           make(map[string]*models.User, len(seed.Users)),
		profiles:        make(map[string]*models.Profile, len(seed.Profiles)),
		hospitalsBy:     make(map[string]*models.Hospital, len(seed.Hospitals)),
		deptsBy:         make(map[string]*models.Department, len(seed.Departments)),
		doctorsBy:       make(map[string]*models.Doctor, len(seed.Doctors)),
		doctorReviews:   make(map[string][]models.Review),
		hospitalReviews: make(map[string][]models.Review),
		doctorsByHosp:   make(map[string][]*models.Doctor),
		doctorsByDept:   make(map[string][]*models.Doctor),
		deptsByHosp:     make(map[string][]*models.Department),
	}

	for _, u := range seed.Users {
		u := u
		ensureID(&u.BaseModel)
		u.Profile, u.Doctor = nil, nil
		s.users[u.ID] = &u
	}
	for _, p := range seed.Profiles {
		p := p
		ensureID(&p.BaseModel)
		if _, ok := s.users[p.UserID]; !ok {
			return nil, fmt.Errorf("profile %s: unknown user %q", p.ID, p.UserID)
		}
		s.profiles[p.UserID] = &p
		s.profileList = append(s.profileList, &p)
	}
	for _, h := range seed.Hospitals {
		h := h
		ensureID(&h.BaseModel)
		h.Doctors, h.Departments, h.Reviews = nil, nil, nil
		s.hospitals = append(s.hospitals, &h)
		s.hospitalsBy[h.ID] = &h
	}
	for _, d := range seed.Departments {
		d := d
		ensureID(&d.BaseModel)
		d.Hospital, d.Doctors = nil, nil
		if _, ok := s.hospitalsBy[d.HospitalID]; !ok {
			return nil, fmt.Errorf("department %s: unknown hospital %q", d.ID, d.HospitalID)
		}
		s.departments = append(s.departments, &d)
		s.deptsBy[d.ID] = &d
		s.deptsByHosp[d.HospitalID] = append(s.deptsByHosp[d.HospitalID], &d)
	}
	for _, d := range seed.Doctors {
		d := d
		ensureID(&d.BaseModel)
		d.User, d.Hospital, d.Department, d.Reviews = nil, nil, nil, nil
		if _, ok := s.users[d.UserID]; !ok {
			return nil, fmt.Errorf("doctor %s: unknown user %q", d.ID, d.UserID)
		}
		if d.HospitalID != nil {
			if _, ok := s.hospitalsBy[*d.HospitalID]; !ok {
				return nil, fmt.Errorf("doctor %s: unknown hospital %q", d.ID, *d.HospitalID)
			}
			s.doctorsByHosp[*d.HospitalID] = append(s.doctorsByHosp[*d.HospitalID], &d)
		}
		if d.DepartmentID != nil {
			if _, ok := s.deptsBy[*d.DepartmentID]; !ok {
				return nil, fmt.Errorf("doctor %s: unknown department %q", d.ID, *d.DepartmentID)
			}
			s.doctorsByDept[*d.DepartmentID] = append(s.doctorsByDept[*d.DepartmentID], &d)
		}
		s.doctors = append(s.doctors, &d)
		s.doctorsBy[d.UserID] = &d
	}
	for _, r := range seed.Reviews {
		r := r
		ensureID(&r.BaseModel)
		if r.DoctorID != nil {
			s.doctorReviews[*r.DoctorID] = append(s.doctorReviews[*r.DoctorID], r)
		}
		if r.HospitalID != nil {
			s.hospitalReviews[*r.HospitalID] = append(s.hospitalReviews[*r.HospitalID], r)
		}
	}
	return s, nil
}

func ensureID(b *models.BaseModel) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Count(ctx context.Context, source query.Source, where query.Predicate) (count int64, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "count", string(source), time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch source {
	case query.SourceDoctor:
		return countRows(s.doctors, where, s.doctorField)
	case query.SourceHospital:
		return countRows(s.hospitals, where, s.hospitalField)
	case query.SourceDepartment:
		return countRows(s.departments, where, s.departmentField)
	case query.SourceProfile:
		return countRows(s.profileList, where, s.profileField)
	default:
		return 0, fmt.Errorf("%w: %q", repositories.ErrUnknownSource, source)
	}
}

func (s *Store) FindDoctors(ctx context.Context, find query.Find) (out []models.Doctor, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "find", string(query.SourceDoctor), time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inc, err := includes(find.Include, "user", "user.profile", "hospital", "department", "reviews")
	if err != nil {
		return nil, err
	}
	rows, err := selectRows(s.doctors, find, s.doctorField, s.doctorAggregate)
	if err != nil {
		return nil, err
	}

	out = make([]models.Doctor, len(rows))
	for i, d := range rows {
		out[i] = s.hydrateDoctor(d, inc)
	}
	return out, nil
}

func (s *Store) FindHospitals(ctx context.Context, find query.Find) (out []models.Hospital, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "find", string(query.SourceHospital), time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inc, err := includes(find.Include, "reviews", "doctors", "departments")
	if err != nil {
		return nil, err
	}
	rows, err := selectRows(s.hospitals, find, s.hospitalField, s.hospitalAggregate)
	if err != nil {
		return nil, err
	}

	out = make([]models.Hospital, len(rows))
	for i, h := range rows {
		out[i] = *h
		if inc["reviews"] {
			out[i].Reviews = append([]models.Review{}, s.hospitalReviews[h.ID]...)
		}
		if inc["doctors"] {
			for _, d := range s.doctorsByHosp[h.ID] {
				out[i].Doctors = append(out[i].Doctors, *d)
			}
		}
		if inc["departments"] {
			for _, d := range s.deptsByHosp[h.ID] {
				out[i].Departments = append(out[i].Departments, *d)
			}
		}
	}
	return out, nil
}

func (s *Store) FindDepartments(ctx context.Context, find query.Find) (out []models.Department, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "find", string(query.SourceDepartment), time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inc, err := includes(find.Include, "hospital", "doctors", "doctors.reviews")
	if err != nil {
		return nil, err
	}
	rows, err := selectRows(s.departments, find, s.departmentField, s.departmentAggregate)
	if err != nil {
		return nil, err
	}

	out = make([]models.Department, len(rows))
	for i, d := range rows {
		out[i] = *d
		if inc["hospital"] {
			h := *s.hospitalsBy[d.HospitalID]
			out[i].Hospital = &h
		}
		if inc["doctors"] || inc["doctors.reviews"] {
			for _, doc := range s.doctorsByDept[d.ID] {
				cp := *doc
				if inc["doctors.reviews"] {
					cp.Reviews = append([]models.Review{}, s.doctorReviews[doc.ID]...)
				}
				out[i].Doctors = append(out[i].Doctors, cp)
			}
		}
	}
	return out, nil
}

func (s *Store) GroupBy(ctx context.Context, source query.Source, field string, where query.Predicate) (groups []query.Group, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(ctx, "group_by", string(source)+"."+field, time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch source {
	case query.SourceDoctor:
		return groupRows(s.doctors, field, where, s.doctorField)
	case query.SourceHospital:
		return groupRows(s.hospitals, field, where, s.hospitalField)
	case query.SourceDepartment:
		return groupRows(s.departments, field, where, s.departmentField)
	case query.SourceProfile:
		return groupRows(s.profileList, field, where, s.profileField)
	default:
		return nil, fmt.Errorf("%w: %q", repositories.ErrUnknownSource, source)
	}
}

func (s *Store) hydrateDoctor(d *models.Doctor, inc map[string]bool) models.Doctor {
	out := *d
	if inc["user"] || inc["user.profile"] {
		u := *s.users[d.UserID]
		if p, ok := s.profiles[d.UserID]; ok && inc["user.profile"] {
			cp := *p
			u.Profile = &cp
		}
		out.User = &u
	}
	if inc["hospital"] && d.HospitalID != nil {
		h := *s.hospitalsBy[*d.HospitalID]
		out.Hospital = &h
	}
	if inc["department"] && d.DepartmentID != nil {
		dept := *s.deptsBy[*d.DepartmentID]
		out.Department = &dept
	}
	if inc["reviews"] {
		out.Reviews = append([]models.Review{}, s.doctorReviews[d.ID]...)
	}
	return out
}

func includes(requested []string, allowed ...string) (map[string]bool, error) {
	out := make(map[string]bool, len(requested))
	for _, inc := range requested {
		ok := false
		for _, a := range allowed {
			if inc == a {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: include %q", repositories.ErrUnknownField, inc)
		}
		out[inc] = true
	}
	return out, nil
}

type getter[T any] func(row T, field string) (any, bool, error)

func countRows[T any](rows []T, where query.Predicate, get getter[T]) (int64, error) {
	var n int64
	for _, row := range rows {
		ok, err := query.Match(where, bind(row, get))
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func groupRows[T any](rows []T, field string, where query.Predicate, get getter[T]) ([]query.Group, error) {
	counts := make(map[string]int64)
	for _, row := range rows {
		ok, err := query.Match(where, bind(row, get))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, present, err := get(row, field)
		if err != nil {
			return nil, err
		}
		if !present || v == nil {
			continue
		}
		counts[fmt.Sprint(v)]++
	}

	groups := make([]query.Group, 0, len(counts))
	for v, c := range counts {
		groups = append(groups, query.Group{Value: v, Count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
	return groups, nil
}

// selectRows filters, orders and windows rows. Missing values order after
// present ones ascending, matching PostgreSQL's NULL placement.
func selectRows[T any](rows []T, find query.Find, get getter[T], agg func(T, query.Order) (any, error)) ([]T, error) {
	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		ok, err := query.Match(find.Where, bind(row, get))
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, row)
		}
	}

	type keyed struct {
		row  T
		keys []sortValue
	}
	items := make([]keyed, len(matched))
	for i, row := range matched {
		keys := make([]sortValue, len(find.OrderBy))
		for k, o := range find.OrderBy {
			var (
				v       any
				present = true
				err     error
			)
			if o.Aggregate == query.AggNone {
				v, present, err = get(row, o.Field)
			} else {
				v, err = agg(row, o)
			}
			if err != nil {
				return nil, err
			}
			if s, ok := v.(string); ok && o.Fold {
				v = strings.ToLower(s)
			}
			keys[k] = sortValue{v: v, present: present && v != nil}
		}
		items[i] = keyed{row: row, keys: keys}
	}

	sort.SliceStable(items, func(i, j int) bool {
		for k, o := range find.OrderBy {
			c := compareValues(items[i].keys[k], items[j].keys[k])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	lo := min(max(find.Skip, 0), len(items))
	hi := len(items)
	if find.Take > 0 {
		hi = min(lo+find.Take, hi)
	}

	out := make([]T, 0, hi-lo)
	for _, it := range items[lo:hi] {
		out = append(out, it.row)
	}
	return out, nil
}

func bind[T any](row T, get getter[T]) query.Getter {
	return func(field string) (any, bool, error) {
		return get(row, field)
	}
}

type sortValue struct {
	v       any
	present bool
}

func compareValues(a, b sortValue) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return 1
	case !b.present:
		return -1
	}

	switch x := a.v.(type) {
	case string:
		return strings.Compare(x, fmt.Sprint(b.v))
	case float64:
		return compareFloat(x, toFloat(b.v))
	case int:
		return compareFloat(float64(x), toFloat(b.v))
	case int64:
		return compareFloat(float64(x), toFloat(b.v))
	case bool:
		y, _ := b.v.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case time.Time:
		y, _ := b.v.(time.Time)
		return x.Compare(y)
	default:
		return strings.Compare(fmt.Sprint(a.v), fmt.Sprint(b.v))
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}
