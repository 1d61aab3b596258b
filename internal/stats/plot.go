package stats

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"tspga/internal/graph"
	"tspga/internal/tour"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 8 * vg.Inch
)

// PlotTour renders the closed tour over the graph points. The image format
// follows the extension of outPath (png, svg, pdf...).
func PlotTour(g *graph.Graph, p *tour.Path, title, outPath string) error {
	if p.Size() == 0 {
		return fmt.Errorf("tour is empty")
	}
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	route := make(plotter.XYs, p.Size()+1)
	for i := 0; i < p.Size(); i++ {
		pt := g.Point(p.At(i))
		route[i].X, route[i].Y = pt.X, pt.Y
	}
	route[p.Size()] = route[0]

	line, err := plotter.NewLine(route)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{B: 200, A: 255}

	nodes, err := plotter.NewScatter(route[:p.Size()])
	if err != nil {
		return err
	}
	nodes.GlyphStyle.Radius = vg.Points(1.5)

	start, err := plotter.NewScatter(route[:1])
	if err != nil {
		return err
	}
	start.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
	start.GlyphStyle.Radius = vg.Points(3)

	pl.Add(line, nodes, start)
	pl.Legend.Add(fmt.Sprintf("length %.2f", p.Length(g)), line)
	pl.Legend.Top = true

	return pl.Save(plotWidth, plotHeight, outPath)
}

// PlotHistory renders the best score per generation and, when summaries are
// given, the population median and quartile band.
func PlotHistory(best []float64, summaries []Summary, title, outPath string) error {
	if len(best) == 0 {
		return fmt.Errorf("history is empty")
	}
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Generation"
	pl.Y.Label.Text = "Score"

	bestPts := make(plotter.XYs, len(best))
	for i, v := range best {
		bestPts[i].X = float64(i)
		bestPts[i].Y = v
	}
	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return err
	}
	bestLine.Color = color.RGBA{R: 200, A: 255}
	pl.Add(bestLine)
	pl.Legend.Add("best", bestLine)

	if len(summaries) > 0 {
		medianPts := make(plotter.XYs, len(summaries))
		q25Pts := make(plotter.XYs, len(summaries))
		q75Pts := make(plotter.XYs, len(summaries))
		for i, s := range summaries {
			x := float64(s.Generation)
			medianPts[i] = plotter.XY{X: x, Y: s.Median}
			q25Pts[i] = plotter.XY{X: x, Y: s.Q25}
			q75Pts[i] = plotter.XY{X: x, Y: s.Q75}
		}
		medianLine, err := plotter.NewLine(medianPts)
		if err != nil {
			return err
		}
		medianLine.Color = color.RGBA{B: 200, A: 255}
		q25Line, err := plotter.NewLine(q25Pts)
		if err != nil {
			return err
		}
		q75Line, err := plotter.NewLine(q75Pts)
		if err != nil {
			return err
		}
		for _, l := range []*plotter.Line{q25Line, q75Line} {
			l.Color = color.Gray{Y: 150}
			l.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		}
		pl.Add(medianLine, q25Line, q75Line)
		pl.Legend.Add("median", medianLine)
		pl.Legend.Add("q25/q75", q25Line)
	}
	pl.Legend.Top = true

	return pl.Save(plotWidth, plotHeight/2, outPath)
}
