package ui

import (
	"image/color"

	"github.com/PlanLab/plancad/pkg/plan"
	"github.com/PlanLab/plancad/pkg/snap"
)

// Editor palette. All drawing goes through these so a theme swap stays a
// one-file change.
var (
	ColorBackground = color.NRGBA{R: 24, G: 26, B: 30, A: 255}
	ColorGridMinor  = color.NRGBA{R: 38, G: 41, B: 47, A: 255}
	ColorGridMajor  = color.NRGBA{R: 52, G: 56, B: 64, A: 255}

	ColorWallFill     = color.NRGBA{R: 216, G: 213, B: 205, A: 255}
	ColorWallExterior = color.NRGBA{R: 186, G: 181, B: 170, A: 255}
	ColorWallLoad     = color.NRGBA{R: 199, G: 193, B: 182, A: 255}
	ColorWallOutline  = color.NRGBA{R: 90, G: 92, B: 98, A: 255}
	ColorOpening      = color.NRGBA{R: 24, G: 26, B: 30, A: 255}
	ColorOpeningMark  = color.NRGBA{R: 148, G: 151, B: 158, A: 255}

	ColorSelection     = color.NRGBA{R: 66, G: 150, B: 250, A: 255}
	ColorSelectionFill = color.NRGBA{R: 66, G: 150, B: 250, A: 60}
	ColorHover         = color.NRGBA{R: 120, G: 180, B: 255, A: 140}
	ColorHandle        = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	ColorSnapMarker = color.NRGBA{R: 255, G: 170, B: 60, A: 255}
	ColorSnapGuide  = color.NRGBA{R: 255, G: 170, B: 60, A: 110}
	ColorPreview    = color.NRGBA{R: 230, G: 230, B: 230, A: 180}

	ColorBoxWindow   = color.NRGBA{R: 66, G: 150, B: 250, A: 40}
	ColorBoxCrossing = color.NRGBA{R: 110, G: 220, B: 130, A: 40}
	ColorBoxOutline  = color.NRGBA{R: 200, G: 210, B: 225, A: 200}
)

// Room fills keyed by room type, with a small cycling fallback palette for
// plain rooms so adjacent rooms read apart.
var roomTypeColors = map[plan.RoomType]color.NRGBA{
	plan.RoomTypeKitchen:  {R: 64, G: 72, B: 50, A: 255},
	plan.RoomTypeBathroom: {R: 48, G: 66, B: 74, A: 255},
	plan.RoomTypeBedroom:  {R: 62, G: 54, B: 70, A: 255},
	plan.RoomTypeLiving:   {R: 70, G: 62, B: 48, A: 255},
	plan.RoomTypeHallway:  {R: 52, G: 54, B: 58, A: 255},
}

var roomCycleColors = []color.NRGBA{
	{R: 46, G: 52, B: 60, A: 255},
	{R: 52, G: 58, B: 50, A: 255},
	{R: 58, G: 52, B: 54, A: 255},
	{R: 50, G: 56, B: 64, A: 255},
}

// RoomColor returns the fill color for a room. idx orders rooms stably so
// the cycling fallback does not flicker across frames.
func RoomColor(r plan.Room, idx int) color.NRGBA {
	if c, ok := roomTypeColors[r.Type]; ok {
		return c
	}
	return roomCycleColors[idx%len(roomCycleColors)]
}

// WallColor returns the fill color for a wall by its type.
func WallColor(w plan.Wall) color.NRGBA {
	switch w.Type {
	case plan.WallTypeExterior:
		return ColorWallExterior
	case plan.WallTypeLoadBearing:
		return ColorWallLoad
	default:
		return ColorWallFill
	}
}

// GuideColor returns the stroke color for a snap guide by kind.
func GuideColor(k snap.Kind) color.NRGBA {
	switch k {
	case snap.KindAngle, snap.KindParallel, snap.KindPerpendicular:
		return ColorSnapGuide
	default:
		return ColorSnapMarker
	}
}
