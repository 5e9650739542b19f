package filters

import (
	"strconv"
	"strings"
)

// Build constructs a filter from its kind and positional parameters.
// Missing parameters take their documented defaults; extra ones are ignored.
func Build(kind Kind, params []string) (Filter, error) {
	args := positional{kind: kind, params: params}

	switch kind {
	case Grayscale:
		return NewGrayscaleFilter(), nil
	case Blur:
		kernelSize, err := args.intAt(0, defaultBlurKernel)
		if err != nil {
			return nil, err
		}
		sigma, err := args.floatAt(1, defaultBlurSigma)
		if err != nil {
			return nil, err
		}
		return built(NewBlurFilter(kernelSize, sigma))
	case Edge:
		t1, err := args.intAt(0, defaultEdgeThreshold1)
		if err != nil {
			return nil, err
		}
		t2, err := args.intAt(1, defaultEdgeThreshold2)
		if err != nil {
			return nil, err
		}
		return built(NewEdgeFilter(t1, t2))
	case RoseBlush:
		return NewRoseBlushFilter(), nil
	case SingleColour:
		r, err := args.intAt(0, defaultTintRed)
		if err != nil {
			return nil, err
		}
		g, err := args.intAt(1, defaultTintGreen)
		if err != nil {
			return nil, err
		}
		b, err := args.intAt(2, defaultTintBlue)
		if err != nil {
			return nil, err
		}
		return built(NewSingleColourFilter(r, g, b))
	case Rainbow:
		orientation := byte(RainbowRows)
		if len(params) > 0 {
			if params[0] == "" {
				return nil, Configurationf("rainbow orientation must be 'r' or 'c', got an empty value")
			}
			orientation = params[0][0]
		}
		return built(NewRainbowFilter(orientation))
	case Heart:
		return NewHeartFilter(), nil
	}

	return nil, Configurationf("unknown filter type: %d", int(kind))
}

// built keeps a failed constructor from leaking a typed nil into the interface.
func built[F Filter](f F, err error) (Filter, error) {
	if err != nil {
		return nil, err
	}
	return f, nil
}

// BuildSpec is Build for a parsed Spec
func BuildSpec(spec Spec) (Filter, error) {
	return Build(spec.Kind, spec.Params)
}

type positional struct {
	kind   Kind
	params []string
}

func (p positional) intAt(i, fallback int) (int, error) {
	if i >= len(p.params) {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(p.params[i]))
	if err != nil {
		return 0, wrapConfiguration(err, "%s parameter %d must be an integer, got %q", p.kind, i+1, p.params[i])
	}
	return v, nil
}

func (p positional) floatAt(i int, fallback float64) (float64, error) {
	if i >= len(p.params) {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(p.params[i]), 32)
	if err != nil {
		return 0, wrapConfiguration(err, "%s parameter %d must be a number, got %q", p.kind, i+1, p.params[i])
	}
	return v, nil
}
