package metrics

import (
	"github.com/paulmach/orb"

	"github.com/breezechen/abstreet/headless"
)

// PedestrianCentroid is the mean position of all active pedestrians in a
// snapshot. It returns headless.ErrNoPedestrians when the snapshot has
// none, since a centroid of nothing is undefined.
func PedestrianCentroid(agents []headless.AgentSnapshot) (orb.Point, error) {
	var sum orb.Point
	var n int
	for _, agent := range agents {
		if !agent.IsPedestrian() {
			continue
		}
		sum[0] += agent.Pos.Lon()
		sum[1] += agent.Pos.Lat()
		n++
	}
	if n == 0 {
		return orb.Point{}, headless.ErrNoPedestrians
	}
	return orb.Point{sum[0] / float64(n), sum[1] / float64(n)}, nil
}

// CountByVehicleType tallies a snapshot by vehicle type. Pedestrians are
// counted under "pedestrian".
func CountByVehicleType(agents []headless.AgentSnapshot) map[string]int {
	out := map[string]int{}
	for _, agent := range agents {
		kind := "pedestrian"
		if agent.VehicleType != nil {
			kind = *agent.VehicleType
		}
		out[kind]++
	}
	return out
}
