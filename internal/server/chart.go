package server

import (
	"fmt"

	"github.com/samber/lo"

	"shaftmatch/internal/domain/entity"
	"shaftmatch/pkg/rest"
)

const referenceColor = "blue"

var overlayColors = []string{"green", "orange", "gray", "purple", "red", "teal"} //nolint:gochecknoglobals

// newChart draws main first and every overlay after it, cycling colours.
func newChart(main entity.Shaft, overlays []entity.Shaft) rest.Chart {
	datasets := make([]rest.ChartDataset, 0, len(overlays)+1)
	datasets = append(datasets, rest.ChartDataset{
		Label:       main.Model,
		Data:        main.EIProfile,
		BorderColor: referenceColor,
	})

	for i, s := range overlays {
		datasets = append(datasets, rest.ChartDataset{
			Label:       s.Model,
			Data:        s.EIProfile,
			BorderColor: overlayColors[i%len(overlayColors)],
		})
	}

	return rest.Chart{
		Labels:   lo.Times(len(main.EIProfile), func(i int) string { return fmt.Sprintf("EI%d", i+1) }),
		Datasets: datasets,
	}
}
