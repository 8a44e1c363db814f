package parser

import (
	"github.com/temirov/argsmith/internal/resolve"
)

// Result is the outcome of a successful parse.
type Result struct {
	// Subcommand is the selected subcommand, empty when none was given.
	Subcommand string
	// Values maps every declared name to its final value.
	Values map[string]any
	// Arguments holds the resolved state of every argument in declaration order.
	Arguments []resolve.ResolvedArgument
}

func newResult(subcommandName string, finalArguments []resolve.ResolvedArgument) *Result {
	values := make(map[string]any, len(finalArguments))
	for _, resolvedArgument := range finalArguments {
		values[resolvedArgument.Name] = resolvedArgument.Value
	}
	return &Result{
		Subcommand: subcommandName,
		Values:     values,
		Arguments:  finalArguments,
	}
}
