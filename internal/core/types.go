package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract the viewer drives.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// LabelledSim exposes a label per cell in addition to the byte state. Zero
// means unlabelled.
type LabelledSim interface {
	Sim
	Labels() []uint32
}

// StatusProvider reports short status lines for the HUD.
type StatusProvider interface {
	Status() []string
}
