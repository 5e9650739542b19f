// Filter abstraction and the closed set of filter kinds
package filters

import (
	"sort"
	"strings"

	"gocv.io/x/gocv"
)

// Filter transforms an image in place.
//
// Every filter receives a CV_8UC3 BGR Mat and may leave behind a single channel or
// float Mat; the Processor normalizes the result before the next step.
type Filter interface {
	Kind() Kind
	Name() string
	Process(img *gocv.Mat) error
}

// Recorder receives one message per completed filter and per pipeline failure.
// Implementations must not fail or block the caller.
type Recorder interface {
	Record(message string)
}

// Spec is a filter kind plus its raw positional parameters
type Spec struct {
	Kind   Kind
	Params []string
}

// Kind identifies one of the filters in the catalog
type Kind int

const (
	Grayscale Kind = iota + 1
	Blur
	Edge
	RoseBlush
	SingleColour
	Rainbow
	Heart
)

// Kinds lists every filter kind in catalog order
func Kinds() []Kind {
	return []Kind{Grayscale, Blur, Edge, RoseBlush, SingleColour, Rainbow, Heart}
}

func (k Kind) String() string {
	switch k {
	case Grayscale:
		return "gray"
	case Blur:
		return "blur"
	case Edge:
		return "edge"
	case RoseBlush:
		return "rose"
	case SingleColour:
		return "singlecolour"
	case Rainbow:
		return "rainbow"
	case Heart:
		return "heart"
	}
	return "unknown"
}

// Arity is the number of positional parameters the kind consumes
func (k Kind) Arity() int {
	return len(Parameters(k))
}

var kindAliases = map[string]Kind{
	"gray":         Grayscale,
	"grey":         Grayscale,
	"grayscale":    Grayscale,
	"blur":         Blur,
	"edge":         Edge,
	"canny":        Edge,
	"rose":         RoseBlush,
	"roseblush":    RoseBlush,
	"singlecolour": SingleColour,
	"singlecolor":  SingleColour,
	"rainbow":      Rainbow,
	"heart":        Heart,
}

// ParseKind resolves a case-insensitive filter tag such as "blur" or "Rose"
func ParseKind(name string) (Kind, error) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, Configurationf("invalid filter type: %s", name)
	}
	return kind, nil
}

// KindNames returns the accepted filter tags, sorted
func KindNames() []string {
	names := make([]string, 0, len(kindAliases))
	for name := range kindAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterInfo describes a positional parameter for usage text and UI generation
type ParameterInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "int", "float", "enum"
	Default     string   `json:"default"`
	Description string   `json:"description"`
	Options     []string `json:"options,omitempty"`
}

// Parameters returns the positional parameters of a kind in consumption order
func Parameters(kind Kind) []ParameterInfo {
	switch kind {
	case Blur:
		return []ParameterInfo{
			{Name: "kernel_size", Type: "int", Default: "9", Description: "Gaussian kernel size (positive, odd)"},
			{Name: "sigma", Type: "float", Default: "13", Description: "Gaussian standard deviation (positive)"},
		}
	case Edge:
		return []ParameterInfo{
			{Name: "threshold1", Type: "int", Default: "80", Description: "Lower hysteresis threshold"},
			{Name: "threshold2", Type: "int", Default: "300", Description: "Upper hysteresis threshold"},
		}
	case SingleColour:
		return []ParameterInfo{
			{Name: "red", Type: "int", Default: "255", Description: "Tint red component (0-255)"},
			{Name: "green", Type: "int", Default: "192", Description: "Tint green component (0-255)"},
			{Name: "blue", Type: "int", Default: "203", Description: "Tint blue component (0-255)"},
		}
	case Rainbow:
		return []ParameterInfo{
			{Name: "orientation", Type: "enum", Default: "r", Description: "Gradient along rows (r) or columns (c)", Options: []string{"r", "c"}},
		}
	}
	return nil
}
