// File: dot.go
// Role: WriteDOT, the public entry point that renders a *dagraph.Graph as
// Graphviz DOT text via gonum's encoder.
package diagviz

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/graph/encoding/dot"

	"github.com/katalvlaran/symdiff/dagraph"
)

// WriteDOT renders g as Graphviz DOT text and writes it to w: nodes
// clustered by grad_level (forward=0, gradient=1, Hessian=2+) and coloured
// by NodeType. g is read-only throughout; WriteDOT never mutates it.
func WriteDOT(w io.Writer, g *dagraph.Graph) error {
	view := New(g)
	body, err := dot.Marshal(view, view.DOTID(), "", "  ")
	if err != nil {
		return fmt.Errorf("diagviz: marshal dot: %w", err)
	}
	_, err = w.Write(body)
	return err
}
