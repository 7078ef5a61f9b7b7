package dto

// ====================
//  Request DTOs
// ====================

// SearchRequest is accepted both as query parameters (GET) and as a JSON
// body (POST). Empty or "all" filter values mean no restriction.
type SearchRequest struct {
	Type           string   `json:"type" form:"type" validate:"required,entity-type"`
	Query          string   `json:"query" form:"query"`
	Specialization string   `json:"specialization" form:"specialization"`
	City           string   `json:"city" form:"city"`
	MinRating      *float64 `json:"minRating" form:"minRating" validate:"omitempty,min=0,max=5"`
	Gender         string   `json:"gender" form:"gender"`
	Experience     string   `json:"experience" form:"experience"`
	SortBy         string   `json:"sortBy" form:"sortBy"`
	Page           int      `json:"page" form:"page"`
	Limit          int      `json:"limit" form:"limit"`
}

type LiveSearchRequest struct {
	Query          string `json:"query" form:"query"`
	Type           string `json:"type" form:"type" validate:"live-entity-type"`
	Specialization string `json:"specialization" form:"specialization"`
	City           string `json:"city" form:"city"`
	// Limit is read leniently by the handler; garbage falls back to the default.
	Limit int `json:"limit" form:"-"`
}

// ====================
//  Response DTOs
// ====================

type SearchResponse struct {
	Doctors     []DoctorResult     `json:"doctors"`
	Hospitals   []HospitalResult   `json:"hospitals"`
	Departments []DepartmentResult `json:"departments"`
	TotalCount  int64              `json:"totalCount"`
	Facets      Facets             `json:"facets"`
	Pagination  Pagination         `json:"pagination"`
}

// Pagination is derived from TotalCount, which is counted before the
// minRating post-filter.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

type Facets struct {
	Specializations  []NameCount  `json:"specializations"`
	Cities           []NameCount  `json:"cities"`
	Ratings          []ValueCount `json:"ratings"`
	Genders          []ValueCount `json:"genders"`
	ExperienceLevels []ValueCount `json:"experienceLevels"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type HospitalRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DoctorResult struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	City            string         `json:"city"`
	Gender          string         `json:"gender,omitempty"`
	Specialization  string         `json:"specialization"`
	Experience      string         `json:"experience"`
	ExperienceYears int            `json:"experienceYears"`
	ConsultationFee float64        `json:"consultationFee"`
	Languages       []string       `json:"languages"`
	AvgRating       float64        `json:"avgRating"`
	ReviewCount     int            `json:"reviewCount"`
	Hospital        *HospitalRef   `json:"hospital,omitempty"`
	Department      *DepartmentRef `json:"department,omitempty"`
}

type HospitalResult struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	AvgRating       float64         `json:"avgRating"`
	ReviewCount     int             `json:"reviewCount"`
	DoctorCount     int             `json:"doctorCount"`
	DepartmentCount int             `json:"departmentCount"`
	Services        []string        `json:"services"`
	Departments     []DepartmentRef `json:"departments"`
}

type DepartmentResult struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Hospital    *HospitalRef `json:"hospital,omitempty"`
	AvgRating   float64      `json:"avgRating"`
	ReviewCount int          `json:"reviewCount"`
	DoctorCount int          `json:"doctorCount"`
}

type LiveSearchItem struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	City     string   `json:"city,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
}

type LiveSearchResponse struct {
	Results []LiveSearchItem `json:"results"`
}

// FilterSpecResponse describes which filters and sort keys a type accepts.
type FilterSpecResponse struct {
	Type        string   `json:"type"`
	Filters     []string `json:"filters"`
	SortKeys    []string `json:"sortKeys"`
	DefaultSort string   `json:"defaultSort"`
}
