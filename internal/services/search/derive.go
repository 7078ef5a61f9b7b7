package search

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"healthdir_backend/internal/models"
)

// AverageRating is the mean of ratings, 0 for an empty list, clamped to the
// rating scale.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Min(math.Max(avg, 0), models.MaxRating)
}

// ParseExperienceYears reads the leading integer of free-text experience,
// e.g. "7 years" -> 7, "10+ ans" -> 10, "5-10" -> 5. Anything without a
// leading number, or too large to represent, is 0.
func ParseExperienceYears(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func ratingsOf(reviews []models.Review) []int {
	out := make([]int, len(reviews))
	for i, r := range reviews {
		out[i] = r.Rating
	}
	return out
}

type RankedDoctor struct {
	Doctor      models.Doctor
	AvgRating   float64
	ReviewCount int
	ExpYears    int
}

type RankedHospital struct {
	Hospital        models.Hospital
	AvgRating       float64
	ReviewCount     int
	DoctorCount     int
	DepartmentCount int
}

// RankedDepartment takes its rating from the reviews of its doctors.
type RankedDepartment struct {
	Department  models.Department
	AvgRating   float64
	ReviewCount int
	DoctorCount int
}

func RankDoctors(doctors []models.Doctor) []RankedDoctor {
	out := make([]RankedDoctor, len(doctors))
	for i, d := range doctors {
		out[i] = RankedDoctor{
			Doctor:      d,
			AvgRating:   AverageRating(ratingsOf(d.Reviews)),
			ReviewCount: len(d.Reviews),
			ExpYears:    ParseExperienceYears(d.Experience),
		}
	}
	return out
}

func RankHospitals(hospitals []models.Hospital) []RankedHospital {
	out := make([]RankedHospital, len(hospitals))
	for i, h := range hospitals {
		out[i] = RankedHospital{
			Hospital:        h,
			AvgRating:       AverageRating(ratingsOf(h.Reviews)),
			ReviewCount:     len(h.Reviews),
			DoctorCount:     len(h.Doctors),
			DepartmentCount: len(h.Departments),
		}
	}
	return out
}

func RankDepartments(departments []models.Department) []RankedDepartment {
	out := make([]RankedDepartment, len(departments))
	for i, d := range departments {
		var ratings []int
		for _, doc := range d.Doctors {
			ratings = append(ratings, ratingsOf(doc.Reviews)...)
		}
		out[i] = RankedDepartment{
			Department:  d,
			AvgRating:   AverageRating(ratings),
			ReviewCount: len(ratings),
			DoctorCount: len(d.Doctors),
		}
	}
	return out
}
