package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/parkview/components"
)

// SpotData holds all the data needed to render the inspector panel for
// a selected marker.
type SpotData struct {
	Spot          components.Spot
	Live          components.LiveStatus
	HasLive       bool
	DistrictIndex int
	DistanceM     float64 // from the camera center
	BearingDeg    float64 // from the camera center
}

// locationSection describes the marker's place in the dataset.
var locationSection = SectionDescriptor{
	Title: "Location",
	Fields: []FieldDescriptor{
		{
			Label:      "District",
			Widget:     WidgetText,
			TextGetter: func(d any) string { return d.(SpotData).Spot.District },
		},
		{
			Label:       "Color",
			Widget:      WidgetColorSwatch,
			ColorGetter: func(d any) rl.Color { return DistrictColor(d.(SpotData).DistrictIndex) },
		},
		{
			Label:      "Position",
			Widget:     WidgetText,
			TextGetter: func(d any) string {
				s := d.(SpotData).Spot
				return fmt.Sprintf("%.4f, %.4f", s.Latitude, s.Longitude)
			},
		},
	},
}

// parkingSection describes what kind of parking the marker stands for.
var parkingSection = SectionDescriptor{
	Title: "Parking",
	Fields: []FieldDescriptor{
		{
			Label:  "Kind",
			Widget: WidgetText,
			TextGetter: func(d any) string {
				if d.(SpotData).Spot.Kind == components.KindMeteredGroup {
					return "Metered spaces"
				}
				return "Carpark"
			},
		},
		{
			Label:      "Spaces",
			Widget:     WidgetText,
			Visible:    func(d any) bool { return d.(SpotData).Spot.Spaces > 0 },
			TextGetter: func(d any) string { return fmt.Sprintf("%d", d.(SpotData).Spot.Spaces) },
		},
	},
}

// viewSection relates the marker to the current camera position.
var viewSection = SectionDescriptor{
	Title: "From Center",
	Fields: []FieldDescriptor{
		{
			Label:      "Distance",
			Widget:     WidgetText,
			TextGetter: func(d any) string { return formatDistance(d.(SpotData).DistanceM) },
		},
		{
			Label:  "Bearing",
			Widget: WidgetText,
			TextGetter: func(d any) string {
				b := d.(SpotData).BearingDeg
				return fmt.Sprintf("%03.0f deg %s", b, compassPoint(b))
			},
		},
	},
}

// Inspector renders the selected marker's detail panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data SpotData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	y := ins.y + padding

	panelHeight := int32(240)
	if data.HasLive {
		panelHeight += 60
	}
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	contentWidth := ins.width - padding*2
	x := ins.x + padding

	// Header: marker name colored by kind
	headerColor := CarparkColor
	if data.Spot.Kind == components.KindMeteredGroup {
		headerColor = GroupColor
	}
	name := fitText(data.Spot.Name, 18, contentWidth)
	rl.DrawText(name, x, y, 18, headerColor)
	y += 22

	if data.Spot.Address != "" {
		rl.DrawText(fitText(data.Spot.Address, r.Theme.FontSize, contentWidth), x, y, r.Theme.FontSize, rl.Gray)
		y += r.Theme.LineHeight
	}
	y = r.DrawSpacer(y, 4)

	y = r.DrawSection(x, y, locationSection, data, contentWidth)
	y = r.DrawSection(x, y, parkingSection, data, contentWidth)

	if data.HasLive {
		y = ins.drawLiveSection(x, y, data, contentWidth)
	}

	y = r.DrawSection(x, y, viewSection, data, contentWidth)

	return y
}

// drawLiveSection renders the live occupancy state of a metered group.
func (ins *Inspector) drawLiveSection(x, y int32, data SpotData, width int32) int32 {
	r := ins.renderer

	y = r.DrawSectionHeader(x, y, "Live Status")
	y = r.DrawCountBar(x, y, "Vacant", data.Live.Vacant, data.Live.Tracked, width)

	if data.Spot.Spaces > 0 {
		ratio := float32(data.Live.Tracked) / float32(data.Spot.Spaces)
		y = r.DrawBar(x, y, "Coverage", ratio, width)
	}

	return y + 6
}

// compassPoints are the 16-wind rose names, clockwise from north.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassPoint returns the wind-rose name for a bearing in degrees.
func compassPoint(deg float64) string {
	idx := int((deg+11.25)/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// formatDistance renders a distance in meters or kilometers.
func formatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.0f m", m)
	}
	return fmt.Sprintf("%.1f km", m/1000)
}

// fitText ellipsizes text so it fits within maxWidth at the given size.
func fitText(text string, fontSize, maxWidth int32) string {
	if rl.MeasureText(text, fontSize) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if rl.MeasureText(candidate, fontSize) <= maxWidth {
			return candidate
		}
	}
	return "..."
}
