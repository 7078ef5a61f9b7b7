package search

import "healthdir_backend/internal/query"

// PostSort is an in-memory ordering applied after derived attributes exist.
type PostSort int

const (
	PostSortNone PostSort = iota
	// PostSortExperienceDesc orders by parsed experience years, descending.
	PostSortExperienceDesc
)

// Plan is the two-stage ranking for one sort key: what the store orders by,
// and what (if anything) is re-sorted in memory afterwards.
type Plan struct {
	StoreOrder []query.Order
	PostSort   PostSort
}

func (p Plan) NeedsPostSort() bool {
	return p.PostSort != PostSortNone
}

// ResolvePlan maps a sort key to its plan. Keys the entity does not support
// fall back to the name order. Every plan ends with an id tiebreak.
func ResolvePlan(entity EntityType, key SortKey) Plan {
	var p Plan

	switch entity {
	case EntityDoctor:
		switch key {
		case SortFeeLow:
			p.StoreOrder = []query.Order{query.Asc("consultationFee")}
		case SortFeeHigh:
			p.StoreOrder = []query.Order{query.Desc("consultationFee")}
		case SortRatingHigh:
			p.StoreOrder = []query.Order{query.AvgDesc("reviews.rating")}
		case SortReviewsHigh:
			p.StoreOrder = []query.Order{query.CountDesc("reviews")}
		case SortExperienceHigh:
			// Experience is free text; the store can only give a stable base order.
			p.StoreOrder = []query.Order{query.Desc("createdAt")}
			p.PostSort = PostSortExperienceDesc
		case SortNewest:
			p.StoreOrder = []query.Order{query.Desc("createdAt")}
		}
	case EntityHospital:
		switch key {
		case SortRatingHigh:
			p.StoreOrder = []query.Order{query.AvgDesc("reviews.rating")}
		case SortReviewsHigh:
			p.StoreOrder = []query.Order{query.CountDesc("reviews")}
		case SortDoctorsHigh:
			p.StoreOrder = []query.Order{query.CountDesc("doctors")}
		case SortDepartmentsHigh:
			p.StoreOrder = []query.Order{query.CountDesc("departments")}
		case SortNewest:
			p.StoreOrder = []query.Order{query.Desc("createdAt")}
		}
	case EntityDepartment:
		switch key {
		case SortDoctorsHigh:
			p.StoreOrder = []query.Order{query.CountDesc("doctors")}
		case SortNewest:
			p.StoreOrder = []query.Order{query.Desc("createdAt")}
		}
	}

	if len(p.StoreOrder) == 0 {
		p.StoreOrder = []query.Order{query.FoldAsc(nameField(entity))}
	}
	p.StoreOrder = append(p.StoreOrder, query.Asc("id"))
	return p
}

func nameField(entity EntityType) string {
	if entity == EntityDoctor {
		return "user.name"
	}
	return "name"
}
