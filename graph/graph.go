// Package graph builds the declarative composition graph a render consumes:
// a tree-shaped DAG of crop/scale/overlay/mix operations that is inspectable
// without invoking the encoder.
package graph

import "fmt"

// Kind identifies the operation a node performs.
type Kind string

const (
	KindInput       Kind = "input"
	KindCrop        Kind = "crop"
	KindScale       Kind = "scale"
	KindOverlay     Kind = "overlay"
	KindColorMix    Kind = "colormix"
	KindDrawText    Kind = "drawtext"
	KindConcatAudio Kind = "concat_audio"
	KindMixAudio    Kind = "mix_audio"
	KindOutput      Kind = "output"
)

// NodeID is a handle into the graph's node arena.
type NodeID int

// Node is one transform in the graph. Inputs reference earlier nodes; a
// node is referenced at most once, so the graph is a tree rooted at the
// output node.
type Node struct {
	ID     NodeID
	Kind   Kind
	Inputs []NodeID
	Args   map[string]string
}

// Graph is an arena of nodes rooted at a single output. Built fresh per
// job and read-only afterwards.
type Graph struct {
	nodes  []Node
	output NodeID
}

func (g *Graph) add(kind Kind, args map[string]string, inputs ...NodeID) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		ID:     id,
		Kind:   kind,
		Inputs: inputs,
		Args:   args,
	})
	return id
}

// Len is the total node count.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns a copy of the node arena in creation order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node returns the node for the given handle.
func (g *Graph) Node(id NodeID) (Node, error) {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		return Node{}, fmt.Errorf("no node %d in graph of %d nodes", id, len(g.nodes))
	}
	return g.nodes[id], nil
}

// CountKind returns how many nodes of the given kind exist.
func (g *Graph) CountKind(kind Kind) int {
	n := 0
	for _, node := range g.nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

// Output returns the root output node.
func (g *Graph) Output() Node {
	return g.nodes[g.output]
}
