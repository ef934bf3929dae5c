package scene

// GraphBuilderOption is a functional option for configuring a Graph.
type GraphBuilderOption func(g *graphImpl)

// WithCapacity preallocates room for n nodes.
//
// Parameters:
//   - n: the expected node count
//
// Returns:
//   - GraphBuilderOption: option function to apply
func WithCapacity(n int) GraphBuilderOption {
	return func(g *graphImpl) {
		if n > 0 {
			g.nodes = make([]*node, 0, n)
		}
	}
}
