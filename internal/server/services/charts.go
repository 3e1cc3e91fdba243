package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/logging"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartStore persists a rendered image and returns a link the messaging
// provider can fetch.
type ChartStore interface {
	Save(ctx context.Context, png []byte) (string, error)
}

var renderPie = func(pie chart.PieChart, w io.Writer) error {
	return pie.Render(chart.PNG, w)
}

type macroSlice struct {
	label string
	color string
	value float64
}

// ChartService draws the macronutrient split of a daily summary.
type ChartService struct {
	store  ChartStore
	logger logging.Logger
}

func NewChartService(store ChartStore, logger logging.Logger) *ChartService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ChartService{store: store, logger: logger.With("module", "charts")}
}

// MacroValues builds the pie slices for totals. Non-positive macros are left
// out; an all-zero day yields no slices.
func MacroValues(totals models.Totals) []chart.Value {
	slices := []macroSlice{
		{"Protein", "ff9999", totals.ProteinG},
		{"Carbs", "66b3ff", totals.CarbsG},
		{"Fat", "99ff99", totals.FatG},
	}

	var sum float64
	for _, s := range slices {
		if s.value > 0 {
			sum += s.value
		}
	}
	if sum == 0 {
		return nil
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: s.value,
			Label: fmt.Sprintf("%s %.1f%%", s.label, s.value/sum*100),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(s.color),
				StrokeColor: drawing.ColorWhite,
			},
		})
	}
	return values
}

// Render returns a link to a fresh chart, or "" when there is nothing to plot.
func (s *ChartService) Render(ctx context.Context, totals models.Totals) (string, error) {
	values := MacroValues(totals)
	if len(values) == 0 {
		return "", nil
	}

	pie := chart.PieChart{
		Title:  "Today's Macronutrient Distribution",
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := renderPie(pie, &buf); err != nil {
		s.logger.Warn(ctx, "chart render failed", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrRenderFailure, err)
	}

	link, err := s.store.Save(ctx, buf.Bytes())
	if err != nil {
		s.logger.Warn(ctx, "chart upload failed", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrRenderFailure, err)
	}

	s.logger.Debug(ctx, "chart stored", "bytes", buf.Len())
	return link, nil
}
