package memory

import (
	"fmt"

	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
	"healthdir_backend/internal/repositories"
)

func unknownField(table, field string) error {
	return fmt.Errorf("%w: %s.%s", repositories.ErrUnknownField, table, field)
}

func (s *Store) doctorField(d *models.Doctor, field string) (any, bool, error) {
	switch field {
	case "id":
		return d.ID, true, nil
	case "isVerified":
		return d.IsVerified, true, nil
	case "status":
		return string(d.Status), true, nil
	case "specialization":
		return d.Specialization, true, nil
	case "experience":
		return d.Experience, true, nil
	case "consultationFee":
		return d.ConsultationFee, true, nil
	case "createdAt":
		return d.CreatedAt, true, nil
	}

	switch field {
	case "user.name", "user.isActive":
		u, ok := s.users[d.UserID]
		if !ok {
			return nil, false, nil
		}
		if field == "user.name" {
			return u.Name, true, nil
		}
		return u.IsActive, true, nil
	case "user.profile.city", "user.profile.gender":
		p, ok := s.profiles[d.UserID]
		if !ok {
			return nil, false, nil
		}
		if field == "user.profile.city" {
			return p.City, true, nil
		}
		return string(p.Gender), true, nil
	case "hospital.name", "hospital.city", "hospital.isVerified":
		if d.HospitalID == nil {
			return nil, false, nil
		}
		return hospitalRef(s.hospitalsBy[*d.HospitalID], field)
	case "department.name":
		if d.DepartmentID == nil {
			return nil, false, nil
		}
		return s.deptsBy[*d.DepartmentID].Name, true, nil
	}
	return nil, false, unknownField("doctors", field)
}

func hospitalRef(h *models.Hospital, field string) (any, bool, error) {
	if h == nil {
		return nil, false, nil
	}
	switch field {
	case "hospital.name":
		return h.Name, true, nil
	case "hospital.city":
		return h.City, true, nil
	default:
		return h.IsVerified, true, nil
	}
}

func (s *Store) hospitalField(h *models.Hospital, field string) (any, bool, error) {
	switch field {
	case "id":
		return h.ID, true, nil
	case "name":
		return h.Name, true, nil
	case "description":
		return h.Description, true, nil
	case "city":
		return h.City, true, nil
	case "isVerified":
		return h.IsVerified, true, nil
	case "createdAt":
		return h.CreatedAt, true, nil
	}
	return nil, false, unknownField("hospitals", field)
}

func (s *Store) departmentField(d *models.Department, field string) (any, bool, error) {
	switch field {
	case "id":
		return d.ID, true, nil
	case "name":
		return d.Name, true, nil
	case "description":
		return d.Description, true, nil
	case "createdAt":
		return d.CreatedAt, true, nil
	case "hospital.name", "hospital.city", "hospital.isVerified":
		return hospitalRef(s.hospitalsBy[d.HospitalID], field)
	}
	return nil, false, unknownField("departments", field)
}

func (s *Store) profileField(p *models.Profile, field string) (any, bool, error) {
	switch field {
	case "id":
		return p.ID, true, nil
	case "city":
		return p.City, true, nil
	case "gender":
		return string(p.Gender), true, nil
	case "user.isActive":
		u, ok := s.users[p.UserID]
		if !ok {
			return nil, false, nil
		}
		return u.IsActive, true, nil
	case "user.doctor.isVerified":
		d, ok := s.doctorsBy[p.UserID]
		if !ok {
			return nil, false, nil
		}
		return d.IsVerified, true, nil
	}
	return nil, false, unknownField("profiles", field)
}

func (s *Store) doctorAggregate(d *models.Doctor, o query.Order) (any, error) {
	switch o.Key() {
	case "avg:reviews.rating":
		return averageRating(s.doctorReviews[d.ID]), nil
	case "count:reviews":
		return int64(len(s.doctorReviews[d.ID])), nil
	}
	return nil, unsupportedOrder("doctors", o)
}

func (s *Store) hospitalAggregate(h *models.Hospital, o query.Order) (any, error) {
	switch o.Key() {
	case "avg:reviews.rating":
		return averageRating(s.hospitalReviews[h.ID]), nil
	case "count:reviews":
		return int64(len(s.hospitalReviews[h.ID])), nil
	case "count:doctors":
		return int64(len(s.doctorsByHosp[h.ID])), nil
	case "count:departments":
		return int64(len(s.deptsByHosp[h.ID])), nil
	}
	return nil, unsupportedOrder("hospitals", o)
}

func (s *Store) departmentAggregate(d *models.Department, o query.Order) (any, error) {
	if o.Key() == "count:doctors" {
		return int64(len(s.doctorsByDept[d.ID])), nil
	}
	return nil, unsupportedOrder("departments", o)
}

func unsupportedOrder(table string, o query.Order) error {
	return fmt.Errorf("%w: %s on %s", repositories.ErrUnsupportedOrder, o.Key(), table)
}

// averageRating mirrors COALESCE(AVG(rating), 0).
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
