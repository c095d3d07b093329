package node

// Graph is the root container of a composed scene. Nodes are added once
// during assembly; afterwards only their transforms change.
type Graph struct {
	root *Node
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{root: New("scene")}
}

// Add attaches nodes directly under the root.
func (g *Graph) Add(nodes ...*Node) {
	g.root.Add(nodes...)
}

// Children returns the top-level nodes in attachment order.
func (g *Graph) Children() []*Node {
	return g.root.Children()
}

// Len returns the number of top-level nodes.
func (g *Graph) Len() int {
	return len(g.root.Children())
}

// Root returns the root node.
func (g *Graph) Root() *Node {
	return g.root
}

// Traverse visits every node below the root, depth first.
func (g *Graph) Traverse(fn func(*Node)) {
	for _, c := range g.root.Children() {
		c.Traverse(fn)
	}
}

// Lights returns every light node in the graph.
func (g *Graph) Lights() []*Node {
	var out []*Node
	g.Traverse(func(n *Node) {
		if n.Light != nil {
			out = append(out, n)
		}
	})
	return out
}
