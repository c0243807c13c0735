// Package memreport provides a hierarchical byte-size report for the
// bptree and loudstree façades' ByteSize/MemDetailed methods.
package memreport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Report is a node in a byte-size breakdown tree: a component's total size,
// plus an optional breakdown of its children's sizes.
type Report struct {
	Name       string   `json:"name"`
	TotalBytes int      `json:"total_bytes"`
	Children   []Report `json:"children,omitempty"`
}

// Print writes the report as an indented tree to stdout.
func (r Report) Print(indent int) {
	fmt.Print(r.render(indent))
}

// String renders the report as an indented tree, with human-readable sizes.
func (r Report) String() string {
	var sb strings.Builder
	r.build(&sb, 0)
	return sb.String()
}

func (r Report) render(indent int) string {
	var sb strings.Builder
	r.build(&sb, indent)
	return sb.String()
}

func (r Report) build(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %s: %s (%d bytes)\n", prefix, r.Name, humanize.Bytes(uint64(r.TotalBytes)), r.TotalBytes))
	for _, child := range r.Children {
		child.build(sb, indent+1)
	}
}

// JSON returns a JSON representation of the report.
func (r Report) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}
