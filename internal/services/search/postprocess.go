package search

import "sort"

// FilterByMinRating keeps doctors rated at least threshold. It runs on the
// fetched page only, so the page can come back shorter than the limit.
func FilterByMinRating(doctors []RankedDoctor, threshold float64) []RankedDoctor {
	out := make([]RankedDoctor, 0, len(doctors))
	for _, d := range doctors {
		if d.AvgRating >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// SortByExperience orders doctors by experience years, descending. Ties keep
// the store order.
func SortByExperience(doctors []RankedDoctor) {
	sort.SliceStable(doctors, func(i, j int) bool {
		return doctors[i].ExpYears > doctors[j].ExpYears
	})
}

func applyPostSort(doctors []RankedDoctor, p Plan) {
	if p.PostSort == PostSortExperienceDesc {
		SortByExperience(doctors)
	}
}
