package game

import (
	"cmp"
	"slices"

	"github.com/plus3/circles/ecs"
)

// ClickableCircle is the view of a circle that can be hit.
type ClickableCircle struct {
	ecs.EntityId
	*Transform
	*Circle
	*Shrinking
	*Clickable
}

// Hit is one circle under a point.
type Hit struct {
	Entity   ecs.EntityId
	Distance float64
}

// FindCirclesNear returns every clickable circle whose centre lies strictly
// closer to point than its drawn radius times margin, nearest first.
func FindCirclesNear(query *ecs.Query[ClickableCircle], point Vec2, margin float64) []Hit {
	var hits []Hit
	for id, c := range query.Iter() {
		d := c.Position.Distance(point)
		if d < c.Radius*c.Scale*margin {
			hits = append(hits, Hit{Entity: id, Distance: d})
		}
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}
