package render

// Viewport computes which part of a map fits on screen.
type Viewport struct {
	CamX, CamY   int // top-left map coordinate
	ViewW, ViewH int // viewport size in map cells
}

// NewViewport centres the view on (focusX, focusY), clamped to map edges.
// termW is in screen columns; each cell takes TileWidth of them. hudRows
// reserves space for the status line at the bottom.
func NewViewport(focusX, focusY, termW, termH, mapW, mapH, hudRows int) Viewport {
	viewW := termW / TileWidth
	viewH := termH - hudRows
	if viewW > mapW {
		viewW = mapW
	}
	if viewH > mapH {
		viewH = mapH
	}
	if viewW < 0 {
		viewW = 0
	}
	if viewH < 0 {
		viewH = 0
	}

	camX := focusX - viewW/2
	camY := focusY - viewH/2

	// Clamp to map edges
	if camX+viewW > mapW {
		camX = mapW - viewW
	}
	if camY+viewH > mapH {
		camY = mapH - viewH
	}
	if camX < 0 {
		camX = 0
	}
	if camY < 0 {
		camY = 0
	}

	return Viewport{
		CamX:  camX,
		CamY:  camY,
		ViewW: viewW,
		ViewH: viewH,
	}
}

// Full returns a viewport covering a whole map.
func Full(mapW, mapH int) Viewport {
	return Viewport{ViewW: mapW, ViewH: mapH}
}

// Center returns the map coordinate at the middle of the view.
func (v Viewport) Center() (int, int) {
	return v.CamX + v.ViewW/2, v.CamY + v.ViewH/2
}
