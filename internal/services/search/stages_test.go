package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
	"healthdir_backend/internal/services/dto"
	"healthdir_backend/pkg/apperrors"
)

func ptr[T any](v T) *T { return &v }

var limits = Limits{Default: 10, Max: 100}

func TestResolveCriteria(t *testing.T) {
	t.Run("doctor filters are cleaned", func(t *testing.T) {
		c, err := ResolveCriteria(&dto.SearchRequest{
			Type:           " Doctor ",
			Query:          "  alice ",
			Specialization: "all",
			City:           "Paris",
			Gender:         "female",
			MinRating:      ptr(4.0),
			SortBy:         "RATING_HIGH",
		}, limits)
		require.NoError(t, err)

		assert.Equal(t, EntityDoctor, c.Entity)
		assert.Equal(t, SortRatingHigh, c.SortKey)
		assert.Equal(t, 1, c.Page)
		assert.Equal(t, 10, c.Limit)
		assert.Equal(t, DoctorFilters{
			Query:     "alice",
			City:      "Paris",
			Gender:    models.GenderFemale,
			MinRating: ptr(4.0),
		}, c.Filters)
	})

	t.Run("invalid gender and non-positive rating are dropped", func(t *testing.T) {
		c, err := ResolveCriteria(&dto.SearchRequest{Type: "doctor", Gender: "other", MinRating: ptr(0.0)}, limits)
		require.NoError(t, err)
		assert.Equal(t, DoctorFilters{}, c.Filters)
	})

	t.Run("filters outside the spec are ignored", func(t *testing.T) {
		c, err := ResolveCriteria(&dto.SearchRequest{
			Type: "hospital", Query: "saint", Specialization: "Cardiology", Gender: "MALE", MinRating: ptr(3.0),
		}, limits)
		require.NoError(t, err)
		assert.Equal(t, HospitalFilters{Query: "saint"}, c.Filters)
	})

	t.Run("sort key of another entity falls back to default", func(t *testing.T) {
		c, err := ResolveCriteria(&dto.SearchRequest{Type: "department", SortBy: "fee_low"}, limits)
		require.NoError(t, err)
		assert.Equal(t, SortNameAZ, c.SortKey)
	})

	t.Run("paging is clamped", func(t *testing.T) {
		tests := []struct {
			page, limit         int
			wantPage, wantLimit int
			wantOffset          int
		}{
			{0, 0, 1, 10, 0},
			{-3, -1, 1, 10, 0},
			{3, 20, 3, 20, 40},
			{2, 500, 2, 100, 100},
		}
		for _, tc := range tests {
			c, err := ResolveCriteria(&dto.SearchRequest{Type: "hospital", Page: tc.page, Limit: tc.limit}, limits)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, c.Page)
			assert.Equal(t, tc.wantLimit, c.Limit)
			assert.Equal(t, tc.wantOffset, c.Offset())
		}
	})

	t.Run("huge pages do not overflow the offset", func(t *testing.T) {
		for _, limit := range []int{1, 10, 100} {
			c, err := ResolveCriteria(&dto.SearchRequest{Type: "doctor", Page: math.MaxInt, Limit: limit}, limits)
			require.NoError(t, err)
			assert.Positive(t, c.Offset(), "limit %d", limit)
			assert.Equal(t, math.MaxInt/limit, c.Page)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ResolveCriteria(&dto.SearchRequest{Type: "nurse"}, limits)
		assert.ErrorIs(t, err, apperrors.ErrUnknownEntityType)
	})
}

func TestBuildPredicate(t *testing.T) {
	tests := []struct {
		name string
		in   Filters
		want string
	}{
		{
			"doctor without filters keeps visibility rules",
			DoctorFilters{},
			"(isVerified eq true AND user.isActive eq true)",
		},
		{
			"doctor with every filter",
			DoctorFilters{
				Query: "alice", Specialization: "cardio", City: "Paris",
				Gender: models.GenderFemale, Experience: "10", MinRating: ptr(4.0),
			},
			"(user.name contains alice AND specialization contains cardio AND " +
				"(user.profile.city contains Paris OR hospital.city contains Paris) AND " +
				"user.profile.gender eq FEMALE AND experience contains 10 AND " +
				"isVerified eq true AND user.isActive eq true)",
		},
		{
			"hospital text matches name or description",
			HospitalFilters{Query: "heart", City: "Lyon"},
			"((name contains heart OR description contains heart) AND city contains Lyon AND isVerified eq true)",
		},
		{
			"department without city",
			DepartmentFilters{Query: "neuro"},
			"(name contains neuro AND hospital.isVerified eq true)",
		},
		{
			"department with city",
			DepartmentFilters{City: "Lyon"},
			"(hospital.isVerified eq true AND hospital.city contains Lyon)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, query.Describe(BuildPredicate(tc.in)))
		})
	}
}

func TestResolvePlan(t *testing.T) {
	id := query.Asc("id")

	tests := []struct {
		entity EntityType
		key    SortKey
		want   []query.Order
		post   bool
	}{
		{EntityDoctor, SortNameAZ, []query.Order{query.FoldAsc("user.name"), id}, false},
		{EntityDoctor, SortFeeLow, []query.Order{query.Asc("consultationFee"), id}, false},
		{EntityDoctor, SortFeeHigh, []query.Order{query.Desc("consultationFee"), id}, false},
		{EntityDoctor, SortRatingHigh, []query.Order{query.AvgDesc("reviews.rating"), id}, false},
		{EntityDoctor, SortReviewsHigh, []query.Order{query.CountDesc("reviews"), id}, false},
		{EntityDoctor, SortExperienceHigh, []query.Order{query.Desc("createdAt"), id}, true},
		{EntityDoctor, SortNewest, []query.Order{query.Desc("createdAt"), id}, false},
		{EntityHospital, SortDoctorsHigh, []query.Order{query.CountDesc("doctors"), id}, false},
		{EntityHospital, SortDepartmentsHigh, []query.Order{query.CountDesc("departments"), id}, false},
		{EntityHospital, SortFeeLow, []query.Order{query.FoldAsc("name"), id}, false},
		{EntityDepartment, SortDoctorsHigh, []query.Order{query.CountDesc("doctors"), id}, false},
		{EntityDepartment, SortRatingHigh, []query.Order{query.FoldAsc("name"), id}, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.entity)+"/"+string(tc.key), func(t *testing.T) {
			p := ResolvePlan(tc.entity, tc.key)
			assert.Equal(t, tc.want, p.StoreOrder)
			assert.Equal(t, tc.post, p.NeedsPostSort())
		})
	}
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]int{}))
	assert.Equal(t, 4.5, AverageRating([]int{4, 5}))
	assert.InDelta(t, 4.333, AverageRating([]int{5, 4, 4}), 0.001)
	assert.Equal(t, 5.0, AverageRating([]int{9}), "clamped to the scale")
	assert.Equal(t, 0.0, AverageRating([]int{-3}), "clamped at zero")
}

func TestParseExperienceYears(t *testing.T) {
	tests := map[string]int{
		"7 years":                7,
		"10+ ans":                10,
		"":                       0,
		"n/a":                    0,
		"5-10":                   5,
		"  12 years":             12,
		"\t3":                    3,
		"about 4 years":          0,
		"٣ years":                0,
		"99999999999999999999 y": 0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseExperienceYears(in), "%q", in)
	}
}

func TestRankDepartmentsUsesDoctorReviews(t *testing.T) {
	ranked := RankDepartments([]models.Department{{
		Name: "Cardiology",
		Doctors: []models.Doctor{
			{Reviews: []models.Review{{Rating: 5}, {Rating: 3}}},
			{Reviews: []models.Review{{Rating: 4}}},
			{},
		},
	}})

	require.Len(t, ranked, 1)
	assert.Equal(t, 4.0, ranked[0].AvgRating)
	assert.Equal(t, 3, ranked[0].ReviewCount)
	assert.Equal(t, 3, ranked[0].DoctorCount)
}

func TestFilterByMinRating(t *testing.T) {
	in := []RankedDoctor{{AvgRating: 4.5}, {AvgRating: 3.99}, {AvgRating: 4}, {AvgRating: 0}}
	out := FilterByMinRating(in, 4)

	require.Len(t, out, 2)
	for _, d := range out {
		assert.GreaterOrEqual(t, d.AvgRating, 4.0)
	}
	assert.NotNil(t, FilterByMinRating(nil, 4))
}

func TestSortByExperienceIsStable(t *testing.T) {
	doctors := []RankedDoctor{
		{Doctor: models.Doctor{Specialization: "a"}, ExpYears: 3},
		{Doctor: models.Doctor{Specialization: "b"}, ExpYears: 10},
		{Doctor: models.Doctor{Specialization: "c"}, ExpYears: 3},
		{Doctor: models.Doctor{Specialization: "d"}, ExpYears: 0},
		{Doctor: models.Doctor{Specialization: "e"}, ExpYears: 10},
	}
	SortByExperience(doctors)

	got := make([]string, len(doctors))
	for i, d := range doctors {
		got[i] = d.Doctor.Specialization
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, got)
}

func TestBuildFacets(t *testing.T) {
	t.Run("doctor", func(t *testing.T) {
		qs := facetQueries(EntityDoctor)
		require.Len(t, qs, 3)

		f := buildFacets(EntityDoctor, qs, [][]query.Group{
			{{Value: "Neurology", Count: 2}, {Value: "Cardiology", Count: 5}, {Value: "Dermatology", Count: 2}},
			{{Value: "Paris", Count: 1}},
			{{Value: "MALE", Count: 3}, {Value: "FEMALE", Count: 3}},
		})

		assert.Equal(t, []dto.NameCount{{Name: "Cardiology", Count: 5}, {Name: "Dermatology", Count: 2}, {Name: "Neurology", Count: 2}}, f.Specializations)
		assert.Equal(t, []dto.NameCount{{Name: "Paris", Count: 1}}, f.Cities)
		assert.Equal(t, []dto.ValueCount{{Value: "FEMALE", Count: 3}, {Value: "MALE", Count: 3}}, f.Genders)
		assert.Equal(t, []dto.ValueCount{{Value: "1-5", Count: 0}, {Value: "5-10", Count: 0}, {Value: "10+", Count: 0}}, f.ExperienceLevels)
		assert.NotNil(t, f.Ratings)
		assert.Empty(t, f.Ratings)
	})

	t.Run("hospital gets cities only", func(t *testing.T) {
		qs := facetQueries(EntityHospital)
		require.Len(t, qs, 1)
		assert.Equal(t, query.SourceHospital, qs[0].source)

		f := buildFacets(EntityHospital, qs, [][]query.Group{{{Value: "Lyon", Count: 2}, {Value: "Bad", Count: -1}}})
		assert.Equal(t, []dto.NameCount{{Name: "Lyon", Count: 2}}, f.Cities)
		assert.Empty(t, f.Specializations)
		assert.Empty(t, f.Genders)
		assert.Empty(t, f.ExperienceLevels)
		assert.NotNil(t, f.ExperienceLevels)
	})
}

func TestPaginate(t *testing.T) {
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 10, TotalPages: 2, HasMore: true}, paginate(15, 1, 10))
	assert.Equal(t, dto.Pagination{Page: 2, Limit: 10, TotalPages: 2}, paginate(15, 2, 10))
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 10}, paginate(0, 1, 10))
}

func TestSpecForAndSort(t *testing.T) {
	spec, ok := SpecFor(EntityDepartment)
	require.True(t, ok)
	assert.True(t, spec.Allows(FieldCity))
	assert.False(t, spec.Allows(FieldGender))
	assert.Equal(t, SortDoctorsHigh, spec.ResolveSort(" doctors_high"))
	assert.Equal(t, SortNameAZ, spec.ResolveSort("bogus"))

	_, ok = SpecFor("nurse")
	assert.False(t, ok)
}
