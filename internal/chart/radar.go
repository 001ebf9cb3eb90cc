package chart

import (
	"math"
	"strings"
)

// Series is one polygon on a radar chart, one value per axis.
type Series struct {
	Name   string
	Values []float64
}

const (
	radarWidth  = 640
	radarHeight = 520
	radarRadius = 170.0
	radarRings  = 5
)

// Radar draws a polar chart with one spoke per axis scaled to [0, max].
// Missing trailing values plot as 0.
func Radar(title string, axes []string, series []Series, max float64) []byte {
	if max <= 0 {
		max = 10
	}
	c := newCanvas(radarWidth, radarHeight)
	c.text(radarWidth/2, 28, 18, "middle", title)

	cx, cy := 260.0, 280.0
	n := len(axes)
	point := func(i int, r float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
	}

	if n > 0 {
		for ring := 1; ring <= radarRings; ring++ {
			r := radarRadius * float64(ring) / radarRings
			pts := make([]string, n)
			for i := range axes {
				x, y := point(i, r)
				pts[i] = num(x) + "," + num(y)
			}
			c.raw(`<polygon points="%s" fill="none" stroke="#dddddd"/>`, strings.Join(pts, " "))
		}
		for i, axis := range axes {
			x, y := point(i, radarRadius)
			c.line(cx, cy, x, y, "#bbbbbb")
			lx, ly := point(i, radarRadius+18)
			anchor := "middle"
			switch {
			case lx < cx-1:
				anchor = "end"
			case lx > cx+1:
				anchor = "start"
			}
			c.text(lx, ly+4, 12, anchor, axis)
		}
	}

	for si, s := range series {
		if n == 0 {
			break
		}
		pts := make([]string, n)
		for i := range axes {
			v := 0.0
			if i < len(s.Values) {
				v = clamp(s.Values[i], max)
			}
			x, y := point(i, radarRadius*v/max)
			pts[i] = num(x) + "," + num(y)
		}
		col := color(si)
		c.raw(`<polygon points="%s" fill="%s" fill-opacity="0.15" stroke="%s" stroke-width="2"/>`,
			strings.Join(pts, " "), col, col)
	}

	// Legend
	for si, s := range series {
		y := 70.0 + float64(si)*20
		c.raw(`<rect x="470" y="%s" width="12" height="12" fill="%s"/>`, num(y-10), color(si))
		c.text(488, y, 12, "start", s.Name)
	}
	return c.bytes()
}
