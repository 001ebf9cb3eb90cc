package chart

// BarValue is one labelled bar.
type BarValue struct {
	Label string
	Value float64
}

const (
	barWidth    = 640
	barRowH     = 28
	barLabelW   = 200
	barPlotW    = 360
	barTopInset = 50
)

// Bar draws a horizontal bar chart in input order, bars scaled to [0, max].
// Each bar is annotated with its value to two decimals.
func Bar(title string, bars []BarValue, max float64) []byte {
	if max <= 0 {
		max = 10
	}
	height := barTopInset + len(bars)*barRowH + 20
	c := newCanvas(barWidth, height)
	c.text(barWidth/2, 28, 18, "middle", title)

	for i, b := range bars {
		y := float64(barTopInset + i*barRowH)
		w := barPlotW * clamp(b.Value, max) / max
		c.text(barLabelW-8, y+16, 12, "end", b.Label)
		c.raw(`<rect x="%d" y="%s" width="%s" height="%d" fill="%s"/>`,
			barLabelW, num(y+2), num(w), barRowH-6, color(i))
		c.text(barLabelW+w+6, y+16, 12, "start", num(b.Value))
	}
	c.line(barLabelW, barTopInset, barLabelW, float64(barTopInset+len(bars)*barRowH), "#333333")
	return c.bytes()
}
