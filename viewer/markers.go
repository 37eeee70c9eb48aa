package viewer

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/parkview/camera"
	"github.com/pthm-cable/parkview/carpark"
	"github.com/pthm-cable/parkview/components"
	"github.com/pthm-cable/parkview/config"
	"github.com/pthm-cable/parkview/geo"
	"github.com/pthm-cable/parkview/ui"
)

// Max distance in pixels between a click and a marker center.
const pickRadiusPx = 16

// loadData replaces the dataset-backed state: projection, camera and
// marker entities. The camera keeps its heading across reloads so the
// view does not snap back to north.
func (v *Viewer) loadData(parks []carpark.Carpark, groups []carpark.Group, source string) {
	cfg := config.Cfg()

	v.dataset = carpark.NewDataset(parks)
	v.groups = groups
	v.source = source

	bounds := v.dataset.Bounds()
	for _, g := range groups {
		bounds.Extend(g.Latitude, g.Longitude)
	}
	v.proj = geo.NewProjector(bounds, cfg.Map.PaddingM)

	var heading float32
	if v.cam != nil {
		heading = v.cam.Heading
	}
	v.cam = camera.New(v.screenW, v.screenH, float32(v.proj.WidthM), float32(v.proj.HeightM))
	v.cam.SetHeading(heading)
	v.surface.cam = v.cam

	v.buildEntities()
	v.buildDistrictIndex()
	v.refreshLiveTotals()
}

// buildEntities rebuilds the ECS world from the current datasets.
func (v *Viewer) buildEntities() {
	world := ecs.NewWorld()

	v.world = world
	v.markerMapper = *ecs.NewMap5[
		components.Position,
		components.Spot,
		components.Marker,
		components.LiveStatus,
		components.Pulse,
	](world)
	v.markerFilter = ecs.NewFilter5[
		components.Position,
		components.Spot,
		components.Marker,
		components.LiveStatus,
		components.Pulse,
	](world)
	v.posMap = *ecs.NewMap1[components.Position](world)
	v.spotMap = *ecs.NewMap1[components.Spot](world)
	v.markerMap = *ecs.NewMap1[components.Marker](world)
	v.liveMap = *ecs.NewMap1[components.LiveStatus](world)
	v.pulseMap = *ecs.NewMap1[components.Pulse](world)
	v.hasSelection = false

	cfg := config.Cfg()

	for _, cp := range v.dataset.Carparks {
		x, y := v.proj.Project(cp.Latitude, cp.Longitude)
		pos := components.Position{X: float32(x), Y: float32(y)}
		spot := components.Spot{
			Kind:      components.KindCarpark,
			ID:        cp.ParkID,
			Name:      cp.Name,
			District:  cp.District,
			Address:   cp.Address,
			Latitude:  cp.Latitude,
			Longitude: cp.Longitude,
		}
		marker := components.Marker{Radius: float32(cfg.Map.MarkerRadiusPx)}
		live := components.LiveStatus{}
		pulse := components.Pulse{}
		v.markerMapper.NewEntity(&pos, &spot, &marker, &live, &pulse)
	}

	for _, g := range v.groups {
		x, y := v.proj.Project(g.Latitude, g.Longitude)
		pos := components.Position{X: float32(x), Y: float32(y)}
		spot := components.Spot{
			Kind:      components.KindMeteredGroup,
			ID:        g.ID,
			Name:      g.Name,
			District:  g.District,
			Address:   g.Street + ", " + g.SubDistrict,
			Spaces:    len(g.Spaces),
			Latitude:  g.Latitude,
			Longitude: g.Longitude,
		}
		marker := components.Marker{Radius: float32(cfg.Map.GroupMarkerRadiusPx)}
		st := g.Status(v.occ)
		live := components.LiveStatus{Tracked: st.Tracked, Vacant: st.Vacant}
		pulse := components.Pulse{}
		v.markerMapper.NewEntity(&pos, &spot, &marker, &live, &pulse)
	}
}

// buildDistrictIndex assigns palette indexes to district names. Names
// are sorted first so colors stay stable for a given dataset.
func (v *Viewer) buildDistrictIndex() {
	v.districtIndex = districtIndex(v.dataset.Carparks, v.groups)
}

func districtIndex(parks []carpark.Carpark, groups []carpark.Group) map[string]int {
	seen := make(map[string]bool)
	for _, cp := range parks {
		if cp.District != "" {
			seen[cp.District] = true
		}
	}
	for _, g := range groups {
		if g.District != "" {
			seen[g.District] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return index
}

// refreshLiveTotals recomputes the feed summary shown in the live
// panel.
func (v *Viewer) refreshLiveTotals() {
	var totals ui.LiveData
	var spaces int
	for _, g := range v.groups {
		st := g.Status(v.occ)
		totals.TrackedSpaces += st.Tracked
		totals.VacantSpaces += st.Vacant
		spaces += len(g.Spaces)
	}
	if spaces > 0 {
		totals.CoveragePct = float64(totals.TrackedSpaces) / float64(spaces) * 100
	}
	v.liveTotals = totals
}

// updateMarkers advances the selection pulse.
func (v *Viewer) updateMarkers() {
	if v.paused || !v.hasSelection || !v.world.Alive(v.selected) {
		return
	}
	pulse := v.pulseMap.Get(v.selected)
	pulse.Phase += rl.GetFrameTime()
}

// selectEntity marks the entity selected and restarts its pulse.
func (v *Viewer) selectEntity(e ecs.Entity) {
	v.selected = e
	v.hasSelection = true
	pulse := v.pulseMap.Get(e)
	pulse.Phase = 0
}

func (v *Viewer) deselect() {
	v.hasSelection = false
}

// findMarkerAt returns the marker entity nearest the screen point,
// within the pick radius.
func (v *Viewer) findMarkerAt(sx, sy float32) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := float32(pickRadiusPx)
	found := false

	query := v.markerFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, _, _, _ := query.Get()

		mx, my := v.cam.WorldToScreen(pos.X, pos.Y)
		dx := sx - mx
		dy := sy - my
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist < closestDist {
			closestDist = dist
			closest = entity
			found = true
		}
	}

	return closest, found
}

// selectedSpotData assembles the inspector payload for the selected
// marker. Distance and bearing are measured from the view center.
func (v *Viewer) selectedSpotData() (ui.SpotData, bool) {
	if !v.hasSelection || !v.world.Alive(v.selected) {
		return ui.SpotData{}, false
	}

	spot := v.spotMap.Get(v.selected)
	live := v.liveMap.Get(v.selected)

	idx, found := v.districtIndex[spot.District]
	if !found {
		idx = -1
	}

	centerLat, centerLon := v.proj.Unproject(float64(v.cam.X), float64(v.cam.Y))
	return ui.SpotData{
		Spot:          *spot,
		Live:          *live,
		HasLive:       live.Tracked > 0,
		DistrictIndex: idx,
		DistanceM:     geo.HaversineM(centerLat, centerLon, spot.Latitude, spot.Longitude),
		BearingDeg:    geo.InitialBearingDeg(centerLat, centerLon, spot.Latitude, spot.Longitude),
	}, true
}
