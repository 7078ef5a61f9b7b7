package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdir_backend/internal/models"
	"healthdir_backend/internal/query"
)

func TestCompileWhere(t *testing.T) {
	doctors := schemas[query.SourceDoctor]

	tests := []struct {
		name     string
		p        query.Predicate
		wantSQL  string
		wantArgs []any
	}{
		{"nil", nil, "", nil},
		{"empty and", query.And{}, "", nil},
		{"single eq", query.Eq("isVerified", true), "doctors.is_verified = ?", []any{true}},
		{
			"named string type is unwrapped",
			query.Eq("status", models.DoctorStatusApproved),
			"doctors.status = ?", []any{"APPROVED"},
		},
		{
			"contains escapes wildcards",
			query.Contains("user.name", "50%_off"),
			"users.name ILIKE ?", []any{`%50\%\_off%`},
		},
		{
			"not empty",
			query.NotEmpty("specialization"),
			"(doctors.specialization IS NOT NULL AND TRIM(doctors.specialization) <> '')", nil,
		},
		{
			"and with nested or",
			query.All(
				query.Eq("isVerified", true),
				query.Any(query.Contains("user.profile.city", "paris"), query.Contains("hospital.city", "paris")),
			),
			"(doctors.is_verified = ? AND (profiles.city ILIKE ? OR hospitals.city ILIKE ?))",
			[]any{true, "%paris%", "%paris%"},
		},
		{"or with unrestricted branch", query.Any(query.And{}, query.Eq("id", "x")), "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := compileWhere(doctors, tc.p)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestCompileWhereUnknownField(t *testing.T) {
	_, _, err := compileWhere(schemas[query.SourceHospital], query.Eq("user.name", "x"))
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestCompileOrder(t *testing.T) {
	tests := []struct {
		source query.Source
		order  query.Order
		want   string
	}{
		{query.SourceDoctor, query.FoldAsc("user.name"), "LOWER(users.name) ASC"},
		{query.SourceDoctor, query.Desc("consultationFee"), "doctors.consultation_fee DESC"},
		{query.SourceDoctor, query.AvgDesc("reviews.rating"), "COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.doctor_id = doctors.id), 0) DESC"},
		{query.SourceHospital, query.CountDesc("departments"), "(SELECT COUNT(*) FROM departments dp WHERE dp.hospital_id = hospitals.id) DESC"},
		{query.SourceDepartment, query.Asc("id"), "departments.id ASC"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			got, err := compileOrder(schemas[tc.source], tc.order)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompileOrderUnsupportedAggregate(t *testing.T) {
	_, err := compileOrder(schemas[query.SourceDepartment], query.AvgDesc("reviews.rating"))
	assert.ErrorIs(t, err, ErrUnsupportedOrder)
}

func TestSchemaForUnknownSource(t *testing.T) {
	_, err := schemaFor("nurse")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
