package inspect

import (
	"github.com/go-text/typesetting/font/opentype/tables"
)

// Axis is one variation axis from the fvar table.
type Axis struct {
	Tag     string
	Min     float64
	Default float64
	Max     float64
}

func parseFvar(data []byte) ([]Axis, error) {
	fvar, _, err := tables.ParseFvar(data)
	if err != nil {
		return nil, err
	}
	axes := make([]Axis, 0, len(fvar.Axis))
	for _, rec := range fvar.Axis {
		axes = append(axes, Axis{
			Tag:     rec.Tag.String(),
			Min:     float64(rec.Minimum),
			Default: float64(rec.Default),
			Max:     float64(rec.Maximum),
		})
	}
	return axes, nil
}
