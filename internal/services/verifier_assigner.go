package services

import (
	"fmt"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/geo"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

// VerifierAssigner picks and enforces the neighbor allowed to verify an issue.
type VerifierAssigner struct {
	radiusMeters float64
}

func NewVerifierAssigner(radiusMeters float64) *VerifierAssigner {
	return &VerifierAssigner{radiusMeters: radiusMeters}
}

// Nearest returns the closest located candidate within the radius. Ties keep the first one seen.
func (a *VerifierAssigner) Nearest(candidates []gormModels.User, at geo.Coordinate) (*gormModels.User, float64) {
	var (
		best     *gormModels.User
		bestDist float64
	)
	for i := range candidates {
		u := &candidates[i]
		if !u.HasLocation() {
			continue
		}
		d, ok := geo.Within(at, geo.Coordinate{Latitude: *u.LastLatitude, Longitude: *u.LastLongitude}, a.radiusMeters)
		if !ok {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best, bestDist
}

// CheckRadius rejects an actor standing outside the verification radius of the issue.
func (a *VerifierAssigner) CheckRadius(issue *gormModels.Issue, actorAt geo.Coordinate) (float64, error) {
	d, ok := geo.Within(issue.Location(), actorAt, a.radiusMeters)
	if !ok {
		return d, apperrors.OutOfRadius(fmt.Sprintf(constants.MsgOutOfRadius, a.radiusMeters))
	}
	return d, nil
}

// CheckExclusivity enforces the assigned verifier, or when nobody is assigned, that no other
// located member is strictly nearer than the actor. actorDist is the actor's current distance.
func (a *VerifierAssigner) CheckExclusivity(issue *gormModels.Issue, actorID string, actorDist float64, candidates []gormModels.User) error {
	if issue.AssignedVerifierID != nil {
		if *issue.AssignedVerifierID != actorID {
			return apperrors.Forbidden(apperrors.CodeNotAssignedVerifier, constants.MsgNotAssignedVerifier)
		}
		return nil
	}

	others := make([]gormModels.User, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != actorID {
			others = append(others, c)
		}
	}
	if nearest, d := a.Nearest(others, issue.Location()); nearest != nil && d < actorDist {
		return apperrors.Forbidden(apperrors.CodeNotNearestVerifier, fmt.Sprintf(constants.MsgNotNearestVerifier, a.radiusMeters))
	}
	return nil
}
