// Package dot serializes the attributed introduction graph as a Graphviz
// description. Layout is left entirely to the consumer (sfdp, dot, ...).
package dot

import (
	"fmt"
	"io"
	"strings"

	"msngraph/internal/attribution"
	"msngraph/internal/chat"
)

// Options control the emitted prologue and node set.
type Options struct {
	FontName        string
	IncludeMainUser bool // emit the main user as a distinguished root node
}

// Color maps an attribution category to its edge color.
func Color(c attribution.Category) string {
	switch c {
	case attribution.CategoryPresentBeforeLeft:
		return "black"
	case attribution.CategoryPresentAtJoin:
		return "blue"
	case attribution.CategoryPresentAtMainUserJoin:
		return "green"
	default:
		return "gray"
	}
}

// Write emits the full digraph: prologue, one node statement per contact,
// one edge statement per attribution edge. Output is deterministic for a
// given dataset and edge list.
func Write(w io.Writer, ds *chat.Dataset, edges []attribution.Edge, opts Options) error {
	font := opts.FontName
	if font == "" {
		font = "Roboto"
	}

	var b strings.Builder
	b.WriteString("digraph G {\n")
	fmt.Fprintf(&b, " graph[overlap=false, splines=ortho, fontname=%s];\n", quote(font))
	fmt.Fprintf(&b, " node[shape=box, style=rounded, fontname=%s, fontsize=10];\n", quote(font))
	fmt.Fprintf(&b, " edge[fontname=%s];\n", quote(font))

	if opts.IncludeMainUser {
		if p, ok := ds.Participants[ds.MainUser]; ok {
			fmt.Fprintf(&b, " %s [label=%s, shape=doublecircle];\n", quote(ds.MainUser), quote(p.Label()))
		} else {
			fmt.Fprintf(&b, " %s [shape=doublecircle];\n", quote(ds.MainUser))
		}
	}
	for _, id := range ds.Contacts() {
		fmt.Fprintf(&b, " %s [label=%s];\n", quote(id), quote(ds.Participants[id].Label()))
	}

	for _, e := range edges {
		fmt.Fprintf(&b, " %s -> %s [color=%s];\n", quote(e.Source), quote(e.Target), Color(e.Category))
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// quote wraps a value as a DOT double-quoted ID.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
