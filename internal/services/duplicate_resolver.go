package services

import (
	"civic-commons/townhall/internal/geo"
	"civic-commons/townhall/internal/lifecycle"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

// DuplicateResolver decides whether a new report is another sighting of an open issue.
type DuplicateResolver struct {
	radiusMeters float64
}

func NewDuplicateResolver(radiusMeters float64) *DuplicateResolver {
	return &DuplicateResolver{radiusMeters: radiusMeters}
}

// FindMergeTarget returns the nearest candidate within the radius whose text shares enough
// meaningful words with the report, or nil. On equal distance the older issue wins.
func (r *DuplicateResolver) FindMergeTarget(candidates []gormModels.Issue, at geo.Coordinate, text string) *gormModels.Issue {
	var (
		best     *gormModels.Issue
		bestDist float64
	)
	for i := range candidates {
		c := &candidates[i]
		d, ok := geo.Within(at, c.Location(), r.radiusMeters)
		if !ok {
			continue
		}
		if !lifecycle.IsSimilarReport(text, c.Text()) {
			continue
		}
		if best == nil || d < bestDist || (d == bestDist && c.CreatedAt.Before(best.CreatedAt)) {
			best, bestDist = c, d
		}
	}
	return best
}
