// Package chart renders the report's charts as standalone SVG documents.
// Output is a pure function of the inputs so charts can be cached or diffed.
package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
)

var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func color(i int) string { return palette[i%len(palette)] }

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

type canvas struct {
	buf bytes.Buffer
}

func newCanvas(width, height int) *canvas {
	c := &canvas{}
	fmt.Fprintf(&c.buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&c.buf, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", width, height)
	return c
}

func (c *canvas) text(x, y float64, size int, anchor, s string) {
	fmt.Fprintf(&c.buf, `<text x="%s" y="%s" font-size="%d" text-anchor="%s">%s</text>`+"\n",
		num(x), num(y), size, anchor, escape(s))
}

func (c *canvas) line(x1, y1, x2, y2 float64, stroke string) {
	fmt.Fprintf(&c.buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), stroke)
}

func (c *canvas) raw(format string, args ...interface{}) {
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

func (c *canvas) bytes() []byte {
	c.buf.WriteString("</svg>\n")
	return c.buf.Bytes()
}

// clamp keeps v within [0, max] so a stray out-of-scale value cannot draw
// outside the plot area.
func clamp(v, max float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
