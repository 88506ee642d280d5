/*
Package command implements the textual command protocol: parsing one input
line into a verb with arguments, and dispatching it to the handler that
mutates the user directory, wallets, and market snapshot.

This file defines the Command struct and the line parser. A double-quoted
substring forms a single argument that may contain spaces, with the quotes
stripped.
*/
package command

import "strings"

// Command is one parsed client request: a verb and its ordered argument list.
type Command struct {
	Name string
	Args []string
}

// Parse splits a raw input line into a Command. An empty or blank line yields
// a Command with an empty name, which dispatches as an unknown command.
func Parse(line string) Command {
	tokens := tokenize(strings.TrimSpace(line))
	if len(tokens) == 0 {
		return Command{Args: []string{}}
	}
	return Command{Name: tokens[0], Args: tokens[1:]}
}

// tokenize splits on spaces, keeping double-quoted substrings together and
// stripping the quotes.
func tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}
