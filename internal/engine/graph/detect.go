package graph

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	finished
)

// frame is one entry of the explicit DFS stack: a vertex and the position of
// the next successor to explore.
type frame struct {
	vertex int
	next   int
}

// FindCycle returns one cycle as an ordered vertex path (the closing edge runs
// from the last element back to the first), or nil when the graph is acyclic.
// The traversal is iterative so long chains cannot exhaust the stack.
func (g *Graph) FindCycle() []string {
	state := make([]visitState, len(g.ids))
	stack := make([]frame, 0, 16)

	for root := range g.ids {
		if state[root] != unvisited {
			continue
		}

		state[root] = inProgress
		stack = append(stack[:0], frame{vertex: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			successors := g.succ[top.vertex]

			if top.next == len(successors) {
				state[top.vertex] = finished
				stack = stack[:len(stack)-1]
				continue
			}

			next := successors[top.next]
			top.next++

			switch state[next] {
			case inProgress:
				// Back edge: the cycle is the stack suffix starting at next.
				return g.cyclePath(stack, next)
			case unvisited:
				state[next] = inProgress
				stack = append(stack, frame{vertex: next})
			}
		}
	}

	return nil
}

func (g *Graph) cyclePath(stack []frame, start int) []string {
	begin := len(stack) - 1
	for begin >= 0 && stack[begin].vertex != start {
		begin--
	}
	if begin < 0 {
		return []string{g.ids[start]}
	}

	cycle := make([]string, 0, len(stack)-begin)
	for _, f := range stack[begin:] {
		cycle = append(cycle, g.ids[f.vertex])
	}
	return cycle
}

// IsAcyclic reports whether the graph has no directed cycle, using DFS.
func (g *Graph) IsAcyclic() bool {
	return g.FindCycle() == nil
}

// IsAcyclicKahn reports acyclicity by repeatedly removing zero in-degree
// vertices. It must always agree with IsAcyclic.
func (g *Graph) IsAcyclicKahn() bool {
	inDegree := make([]int, len(g.ids))
	for _, successors := range g.succ {
		for _, next := range successors {
			inDegree[next]++
		}
	}

	queue := make([]int, 0, len(g.ids))
	for v, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, v)
		}
	}

	removed := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		removed++

		for _, next := range g.succ[v] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	return removed == len(g.ids)
}
