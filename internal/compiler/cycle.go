package compiler

import (
	"github.com/49nord/humble/internal/ast"
	"github.com/49nord/humble/internal/ir"
)

// checkAcyclic rejects struct/enum chains that contain themselves by value.
//
// The algorithm:
//  1. Build the unconditional containment graph: an edge A -> B exists when
//     a field or variant payload of A holds B without passing through list,
//     option, or map indirection. Tuples, results, and newtype variants
//     store their contents inline and do not break containment.
//  2. Find strongly connected components with Tarjan's algorithm.
//  3. Any SCC with more than one node, or a single node with a self-loop,
//     has no finite instantiation and fails the build.
func (c *checker) checkAcyclic() error {
	graph, order := c.containmentGraph()

	sccs := tarjanSCC(graph, order)
	for _, scc := range sccs {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			return &CyclicTypeError{Cycle: cyclePath(scc, graph)}
		}
	}
	return nil
}

// containmentGraph returns adjacency lists plus a deterministic node order
// (declaration order) so the reported cycle is stable across runs.
func (c *checker) containmentGraph() (map[string][]string, []string) {
	graph := map[string][]string{}
	var order []string

	add := func(from string, types ...ir.Type) {
		for _, t := range types {
			for _, to := range valueRefs(t) {
				graph[from] = append(graph[from], to)
			}
		}
	}

	for _, item := range c.spec.Items {
		switch it := item.(type) {
		case *ast.Struct:
			order = append(order, it.Name)
			graph[it.Name] = nil
			for _, f := range it.Fields {
				add(it.Name, f.Type)
			}
		case *ast.Enum:
			order = append(order, it.Name)
			graph[it.Name] = nil
			for _, v := range it.Variants {
				add(it.Name, v.Tuple...)
				if v.Newtype != nil {
					add(it.Name, v.Newtype)
				}
				for _, f := range v.Fields {
					add(it.Name, f.Type)
				}
			}
		}
	}
	return graph, order
}

// valueRefs collects names held by value within t. List, option, and map
// introduce indirection and end the traversal.
func valueRefs(t ir.Type) []string {
	switch tt := t.(type) {
	case ir.Named:
		return []string{tt.Name}
	case ir.Tuple:
		var refs []string
		for _, e := range tt.Elems {
			refs = append(refs, valueRefs(e)...)
		}
		return refs
	case ir.Result:
		return append(valueRefs(tt.Ok), valueRefs(tt.Err)...)
	default:
		return nil
	}
}

func hasSelfLoop(node string, graph map[string][]string) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components, visiting roots in the
// given order for deterministic output.
func tarjanSCC(graph map[string][]string, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cyclePath renders an SCC as a closed path for the diagnostic. A self-loop
// becomes [A, A]; a multi-node SCC is traversed edge by edge back to its
// start.
func cyclePath(scc []string, graph map[string][]string) []string {
	if len(scc) == 1 {
		return []string{scc[0], scc[0]}
	}

	inSCC := make(map[string]bool, len(scc))
	for _, n := range scc {
		inSCC[n] = true
	}

	start := scc[len(scc)-1] // Tarjan pops the root last
	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		var next string
		for _, w := range graph[current] {
			if inSCC[w] && (w == start || !visited[w]) {
				next = w
				break
			}
		}
		if next == "" || next == start {
			path = append(path, start)
			return path
		}
		path = append(path, next)
		visited[next] = true
		current = next
	}
}
