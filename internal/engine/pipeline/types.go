package pipeline

// Node is a pipeline editor node. Only ID takes part in the check; the other
// fields are carried through untouched.
type Node struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Position map[string]float64 `json:"position" binding:"required"`
	Data     map[string]any     `json:"data" binding:"required"`
}

// Edge connects two node handles. Only Source and Target take part in the
// check.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
}

// Pipeline is one submission from the editor.
type Pipeline struct {
	Nodes []Node `json:"nodes" binding:"required,dive"`
	Edges []Edge `json:"edges" binding:"required,dive"`
}

// Result is the answer returned for a Pipeline.
type Result struct {
	NumNodes int  `json:"num_nodes"`
	NumEdges int  `json:"num_edges"`
	IsDAG    bool `json:"is_dag"`
}
