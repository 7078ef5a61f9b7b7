package search

import (
	"healthdir_backend/internal/services/dto"
)

// EmptyResponse is the fail-soft result: every list present and empty,
// every count zero.
func EmptyResponse() *dto.SearchResponse {
	return &dto.SearchResponse{
		Doctors:     []dto.DoctorResult{},
		Hospitals:   []dto.HospitalResult{},
		Departments: []dto.DepartmentResult{},
		Facets:      emptyFacets(),
	}
}

func paginate(total int64, page, limit int) dto.Pagination {
	p := dto.Pagination{Page: page, Limit: limit}
	if limit <= 0 {
		return p
	}
	p.TotalPages = int(total / int64(limit))
	if total%int64(limit) != 0 {
		p.TotalPages++
	}
	p.HasMore = page < p.TotalPages
	return p
}

func doctorResults(ranked []RankedDoctor) []dto.DoctorResult {
	out := make([]dto.DoctorResult, len(ranked))
	for i, r := range ranked {
		d := r.Doctor
		res := dto.DoctorResult{
			ID:              d.ID,
			Specialization:  d.Specialization,
			Experience:      d.Experience,
			ExperienceYears: r.ExpYears,
			ConsultationFee: d.ConsultationFee,
			Languages:       append([]string{}, d.Languages...),
			AvgRating:       r.AvgRating,
			ReviewCount:     r.ReviewCount,
		}
		if d.User != nil {
			res.Name = d.User.Name
			if p := d.User.Profile; p != nil {
				res.City = p.City
				res.Gender = string(p.Gender)
				res.ImageURL = p.ImageURL
			}
		}
		if h := d.Hospital; h != nil {
			res.Hospital = &dto.HospitalRef{ID: h.ID, Name: h.Name, City: h.City}
			if res.City == "" {
				res.City = h.City
			}
		}
		if dep := d.Department; dep != nil {
			res.Department = &dto.DepartmentRef{ID: dep.ID, Name: dep.Name}
		}
		out[i] = res
	}
	return out
}

func hospitalResults(ranked []RankedHospital) []dto.HospitalResult {
	out := make([]dto.HospitalResult, len(ranked))
	for i, r := range ranked {
		h := r.Hospital
		depts := make([]dto.DepartmentRef, len(h.Departments))
		for j, d := range h.Departments {
			depts[j] = dto.DepartmentRef{ID: d.ID, Name: d.Name}
		}
		out[i] = dto.HospitalResult{
			ID:              h.ID,
			Name:            h.Name,
			Description:     h.Description,
			Address:         h.Address,
			City:            h.City,
			ImageURL:        h.ImageURL,
			AvgRating:       r.AvgRating,
			ReviewCount:     r.ReviewCount,
			DoctorCount:     r.DoctorCount,
			DepartmentCount: r.DepartmentCount,
			Services:        append([]string{}, h.Services...),
			Departments:     depts,
		}
	}
	return out
}

func departmentResults(ranked []RankedDepartment) []dto.DepartmentResult {
	out := make([]dto.DepartmentResult, len(ranked))
	for i, r := range ranked {
		d := r.Department
		res := dto.DepartmentResult{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			AvgRating:   r.AvgRating,
			ReviewCount: r.ReviewCount,
			DoctorCount: r.DoctorCount,
		}
		if h := d.Hospital; h != nil {
			res.Hospital = &dto.HospitalRef{ID: h.ID, Name: h.Name, City: h.City}
		}
		out[i] = res
	}
	return out
}
