package hfsm

// NodeSpec is a build-time description of one tree element, produced by
// Leaf/Composite/Orthogonal and consumed by Build. It carries no dense IDs
// of its own; Build assigns those during its pre-order pass.
type NodeSpec struct {
	leaf     bool
	ortho    bool
	name     string
	state    State
	mixins   []Mixin
	strategy Strategy
	children []*NodeSpec
}

// Leaf declares a leaf state: no children, just a behavior and mixins.
func Leaf(name string, state State, mixins ...Mixin) *NodeSpec {
	return &NodeSpec{leaf: true, name: name, state: state, mixins: mixins}
}

// Composite declares a composite region: exactly one child active at a
// time, resolved by strategy for Change requests. state may be nil if the
// region's head carries no behavior of its own.
func Composite(name string, state State, strategy Strategy, children ...*NodeSpec) *NodeSpec {
	return &NodeSpec{name: name, state: state, strategy: strategy, children: children}
}

// Orthogonal declares an orthogonal region: every child active at once.
func Orthogonal(name string, state State, children ...*NodeSpec) *NodeSpec {
	return &NodeSpec{ortho: true, name: name, state: state, children: children}
}

// WithMixins attaches mixins to a composite or orthogonal region's head
// state. Leaves take mixins directly through Leaf's variadic parameter;
// Composite/Orthogonal already spend their variadic slot on children, so
// mixins for a region head are attached fluently instead.
func (s *NodeSpec) WithMixins(mixins ...Mixin) *NodeSpec {
	s.mixins = mixins
	return s
}

// BuildOption configures Build beyond the tree shape itself.
type BuildOption func(*buildConfig)

type buildConfig struct {
	taskCapacity int
}

// WithTaskCapacity sets the shared plan task-pool size (§3). Default: twice
// the total number of composite-region prongs in the tree.
func WithTaskCapacity(n int) BuildOption {
	return func(c *buildConfig) { c.taskCapacity = n }
}

// Build compiles a NodeSpec tree into an immutable Topology, assigning
// dense StateID/RegionID/ForkID values by pre-order traversal (§9).
func Build(root *NodeSpec, opts ...BuildOption) (*Topology, error) {
	if root == nil {
		return nil, newError(ErrCodeNotBuilt, "hfsm: Build called with a nil root")
	}
	cfg := buildConfig{taskCapacity: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &builder{
		seenNames: make(map[string]bool),
	}
	node, sz, err := b.assign(root, sentinelParent)
	if err != nil {
		return nil, err
	}
	if cfg.taskCapacity < 0 {
		prongs := 0
		for _, w := range b.compoWidths {
			prongs += w
		}
		cfg.taskCapacity = 2 * prongs
	}

	topo := &Topology{
		stateCount:       len(b.stateNames),
		regionCount:      b.regionCount,
		compoCount:       b.compoCount,
		orthoCount:       b.orthoCount,
		orthoUnits:       b.orthoUnits,
		taskCapacity:     cfg.taskCapacity,
		stateParents:     b.stateParents,
		stateNames:       b.stateNames,
		stateSpans:       b.stateSpans,
		compoHead:        b.compoHead,
		orthoHead:        b.orthoHead,
		compoWidths:      b.compoWidths,
		orthoWidths:      b.orthoWidths,
		orthoUnitOffsets: b.orthoUnitOffsets,
		regionSpans:      b.regionSpans,
		regionNode:       b.regionNode,
		root:             node,
	}
	_ = sz
	return topo, nil
}

// builder accumulates the parallel descriptor tables during the pre-order
// pass, mirroring Topology's own field layout.
type builder struct {
	seenNames map[string]bool

	stateParents []parent
	stateNames   []string
	stateSpans   []span

	compoHead        []StateID
	orthoHead        []StateID
	compoWidths      []int
	orthoWidths      []int
	orthoUnitOffsets []int

	regionSpans []span
	regionNode  []Node

	regionCount int
	compoCount  int
	orthoCount  int
	orthoUnits  int
}

func (b *builder) assign(spec *NodeSpec, p parent) (Node, int, error) {
	if spec.name == "" {
		return nil, 0, newError(ErrCodeNotBuilt, "hfsm: state name must not be empty")
	}
	if b.seenNames[spec.name] {
		return nil, 0, NewDuplicateStateNameError(spec.name)
	}
	b.seenNames[spec.name] = true

	id := StateID(len(b.stateNames))
	b.stateNames = append(b.stateNames, spec.name)
	b.stateParents = append(b.stateParents, p)
	b.stateSpans = append(b.stateSpans, span{}) // patched below once size is known

	if spec.leaf {
		if len(spec.children) != 0 {
			return nil, 0, newError(ErrCodeNotBuilt, "hfsm: leaf \""+spec.name+"\" must not declare children")
		}
		b.stateSpans[id] = span{first: id, size: 1}
		return &leafNode{id: id, name: spec.name, state: spec.state, mixins: spec.mixins}, 1, nil
	}

	if len(spec.children) == 0 {
		return nil, 0, NewEmptyRegionError(spec.name)
	}

	regionID := RegionID(b.regionCount)
	b.regionCount++
	b.regionSpans = append(b.regionSpans, span{})
	b.regionNode = append(b.regionNode, nil)

	if spec.ortho {
		orthoIdx := b.orthoCount
		b.orthoCount++
		b.orthoHead = append(b.orthoHead, id)
		b.orthoWidths = append(b.orthoWidths, len(spec.children))
		b.orthoUnitOffsets = append(b.orthoUnitOffsets, b.orthoUnits)
		b.orthoUnits += len(spec.children)

		fork := ForkID(-(orthoIdx + 1))
		children := make([]Node, len(spec.children))
		size := 1
		for i, childSpec := range spec.children {
			child, childSize, err := b.assign(childSpec, parent{fork: fork, prong: Prong(i)})
			if err != nil {
				return nil, 0, err
			}
			children[i] = child
			size += childSize
		}
		b.stateSpans[id] = span{first: id, size: size}
		b.regionSpans[regionID] = b.stateSpans[id]
		node := &orthogonalNode{
			id: id, name: spec.name, state: spec.state, mixins: spec.mixins,
			children: children, regionID: regionID, orthoIndex: orthoIdx, span: b.stateSpans[id],
		}
		b.regionNode[regionID] = node
		return node, size, nil
	}

	compoIdx := b.compoCount
	b.compoCount++
	b.compoHead = append(b.compoHead, id)
	b.compoWidths = append(b.compoWidths, len(spec.children))

	fork := ForkID(compoIdx + 1)
	strategy := spec.strategy
	if strategy == nil {
		strategy = RestartStrategy{}
	}
	children := make([]Node, len(spec.children))
	size := 1
	for i, childSpec := range spec.children {
		child, childSize, err := b.assign(childSpec, parent{fork: fork, prong: Prong(i)})
		if err != nil {
			return nil, 0, err
		}
		children[i] = child
		size += childSize
	}
	b.stateSpans[id] = span{first: id, size: size}
	b.regionSpans[regionID] = b.stateSpans[id]
	node := &compositeNode{
		id: id, name: spec.name, state: spec.state, mixins: spec.mixins,
		children: children, strategy: strategy, regionID: regionID, compoIndex: compoIdx, span: b.stateSpans[id],
	}
	b.regionNode[regionID] = node
	return node, size, nil
}
