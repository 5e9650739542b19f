// Positional command line grammar: <input> <output> --<filter> [params...] ...
package cli

import (
	"fmt"
	"strings"

	"image-filter-tool/internal/filters"
)

// Invocation is the parsed positional part of the command line
type Invocation struct {
	Input   string
	Output  string
	Filters []filters.Spec
}

// ParseArgs parses the arguments left over after flag parsing.
//
// Tokens starting with "--" name a filter and are followed by exactly Arity()
// parameters. Stray tokens between filters are ignored. When requireIO is false the
// input and output paths may be omitted so a job file can provide them.
func ParseArgs(args []string, requireIO bool) (*Invocation, error) {
	inv := &Invocation{}

	rest := args
	for len(rest) > 0 && !strings.HasPrefix(rest[0], "--") {
		switch {
		case inv.Input == "":
			inv.Input = rest[0]
		case inv.Output == "":
			inv.Output = rest[0]
		default:
			return nil, fmt.Errorf("unexpected argument %q, filters must start with --", rest[0])
		}
		rest = rest[1:]
	}

	if requireIO && (inv.Input == "" || inv.Output == "") {
		return nil, fmt.Errorf("invalid arguments count, usage: app <input> <output> <filters...>")
	}

	for i := 0; i < len(rest); {
		arg := rest[i]
		if !strings.HasPrefix(arg, "--") || len(arg) < 3 {
			i++
			continue
		}

		kind, err := filters.ParseKind(arg[2:])
		if err != nil {
			return nil, err
		}

		arity := kind.Arity()
		if i+arity >= len(rest) {
			return nil, filters.Configurationf("not enough parameters for filter %s, expected %d", arg, arity)
		}

		params := make([]string, arity)
		copy(params, rest[i+1:i+1+arity])
		inv.Filters = append(inv.Filters, filters.Spec{Kind: kind, Params: params})
		i += arity + 1
	}

	if requireIO && len(inv.Filters) == 0 {
		return nil, fmt.Errorf("no filters given, usage: app <input> <output> <filters...>")
	}
	return inv, nil
}

// Usage describes every filter and its parameters
func Usage() string {
	var b strings.Builder
	b.WriteString("Filters:\n")
	for _, kind := range filters.Kinds() {
		fmt.Fprintf(&b, "  --%s", kind)
		for _, p := range filters.Parameters(kind) {
			fmt.Fprintf(&b, " <%s=%s>", p.Name, p.Default)
		}
		b.WriteString("\n")
		for _, p := range filters.Parameters(kind) {
			fmt.Fprintf(&b, "      %-12s %s\n", p.Name, p.Description)
		}
	}
	return b.String()
}
