package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"image-filter-tool/internal/filters"
)

// panelOrder is the order filters are listed and applied in
var panelOrder = []filters.Kind{
	filters.Grayscale,
	filters.Heart,
	filters.RoseBlush,
	filters.Blur,
	filters.Edge,
	filters.Rainbow,
	filters.SingleColour,
}

var panelLabels = map[filters.Kind]string{
	filters.Grayscale:    "Grayscale",
	filters.Heart:        "Heart",
	filters.RoseBlush:    "Rose blush",
	filters.Blur:         "Gaussian blur",
	filters.Edge:         "Edge detection",
	filters.Rainbow:      "Rainbow",
	filters.SingleColour: "Single colour",
}

type filterRow struct {
	kind    filters.Kind
	check   *widget.Check
	values  []func() string
	setters []func(string)
}

// FilterPanel holds one checkbox per filter kind plus its parameter inputs
type FilterPanel struct {
	rows      []*filterRow
	container *fyne.Container
}

func NewFilterPanel() *FilterPanel {
	fp := &FilterPanel{}

	items := make([]fyne.CanvasObject, 0, len(panelOrder))
	for _, kind := range panelOrder {
		row, obj := newFilterRow(kind)
		fp.rows = append(fp.rows, row)
		items = append(items, obj)
	}
	fp.container = container.NewVBox(items...)
	return fp
}

func newFilterRow(kind filters.Kind) (*filterRow, fyne.CanvasObject) {
	row := &filterRow{kind: kind, check: widget.NewCheck(panelLabels[kind], nil)}

	params := filters.Parameters(kind)
	if len(params) == 0 {
		return row, row.check
	}

	fields := make([]fyne.CanvasObject, 0, 2*len(params))
	for _, p := range params {
		fields = append(fields, widget.NewLabel(p.Name))
		if p.Type == "enum" {
			sel := widget.NewSelect(p.Options, nil)
			sel.SetSelected(p.Default)
			row.values = append(row.values, func() string { return sel.Selected })
			row.setters = append(row.setters, sel.SetSelected)
			fields = append(fields, sel)
			continue
		}

		entry := widget.NewEntry()
		entry.SetText(p.Default)
		entry.SetPlaceHolder(p.Description)
		row.values = append(row.values, func() string { return entry.Text })
		row.setters = append(row.setters, entry.SetText)
		fields = append(fields, entry)
	}

	return row, container.NewVBox(row.check, container.NewGridWithColumns(2, fields...))
}

// Specs returns the ticked filters in panel order. Parameter text is passed
// through unvalidated; the factory rejects bad values.
func (fp *FilterPanel) Specs() []filters.Spec {
	var specs []filters.Spec
	for _, row := range fp.rows {
		if !row.check.Checked {
			continue
		}
		params := make([]string, 0, len(row.values))
		for _, value := range row.values {
			params = append(params, value())
		}
		specs = append(specs, filters.Spec{Kind: row.kind, Params: params})
	}
	return specs
}

// SetSpecs ticks exactly the given kinds and copies their parameters into the
// inputs. A kind listed twice keeps the parameters of its last occurrence.
func (fp *FilterPanel) SetSpecs(specs []filters.Spec) {
	byKind := make(map[filters.Kind]filters.Spec, len(specs))
	for _, spec := range specs {
		byKind[spec.Kind] = spec
	}

	for _, row := range fp.rows {
		spec, ok := byKind[row.kind]
		row.check.SetChecked(ok)
		if !ok {
			continue
		}
		for i, set := range row.setters {
			if i < len(spec.Params) {
				set(spec.Params[i])
			}
		}
	}
}

// Clear unticks every filter
func (fp *FilterPanel) Clear() {
	for _, row := range fp.rows {
		row.check.SetChecked(false)
	}
}

func (fp *FilterPanel) GetContainer() fyne.CanvasObject {
	return fp.container
}
