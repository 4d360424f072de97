package hfsm

// taskLink is one node of the intrusive, fixed-capacity doubly-linked task
// list described in §3/§9: a pool slot reused via an explicit free list so
// that removal preserves the stable indices of surviving tasks.
type taskLink struct {
	inUse       bool
	kind        Kind
	origin      StateID
	destination StateID
	prev        int // -1 when this is the list head
	next        int // -1 when this is the list tail
}

const noLink = -1

// planData is the per-machine plan subsystem: a shared task pool plus one
// doubly-linked list head/tail per region, and the success/failure bit
// arrays consulted during plan advancement (§3, §4.2).
type planData struct {
	topo *Topology

	links    []taskLink
	freeHead int // head of the free list, or noLink when the pool is full

	first []int // per region: index of first task, or noLink
	last  []int // per region: index of last task, or noLink

	planExists bitArray // per region

	taskSucceeded bitArray // per state
	taskFailed    bitArray // per state
}

func newPlanData(topo *Topology) *planData {
	p := &planData{
		topo:          topo,
		links:         make([]taskLink, topo.taskCapacity),
		first:         make([]int, topo.regionCount),
		last:          make([]int, topo.regionCount),
		planExists:    newBitArray(topo.regionCount),
		taskSucceeded: newBitArray(topo.stateCount),
		taskFailed:    newBitArray(topo.stateCount),
	}
	for i := range p.links {
		p.links[i].prev = noLink
		if i+1 < len(p.links) {
			p.links[i].next = i + 1
		} else {
			p.links[i].next = noLink
		}
	}
	p.freeHead = 0
	if len(p.links) == 0 {
		p.freeHead = noLink
	}
	for r := range p.first {
		p.first[r] = noLink
		p.last[r] = noLink
	}
	return p
}

// Append allocates a task and links it at the tail of region's list,
// returning false if the shared pool is exhausted (§4.2, §7.3).
func (p *planData) Append(region RegionID, kind Kind, origin, destination StateID) bool {
	if p.freeHead == noLink {
		return false
	}
	idx := p.freeHead
	p.freeHead = p.links[idx].next

	p.links[idx] = taskLink{
		inUse:       true,
		kind:        kind,
		origin:      origin,
		destination: destination,
		prev:        p.last[region],
		next:        noLink,
	}
	if p.last[region] != noLink {
		p.links[p.last[region]].next = idx
	} else {
		p.first[region] = idx
	}
	p.last[region] = idx
	p.planExists.set(int(region), true)
	return true
}

// remove unlinks and frees task idx, fixing up the region's bounds.
func (p *planData) remove(region RegionID, idx int) {
	link := &p.links[idx]
	if link.prev != noLink {
		p.links[link.prev].next = link.next
	} else {
		p.first[region] = link.next
	}
	if link.next != noLink {
		p.links[link.next].prev = link.prev
	} else {
		p.last[region] = link.prev
	}

	*link = taskLink{prev: noLink, next: p.freeHead}
	p.freeHead = idx

	if p.first[region] == noLink {
		p.planExists.set(int(region), false)
	}
}

// Clear frees every task belonging to region and marks it planless.
func (p *planData) Clear(region RegionID) {
	cur := p.first[region]
	for cur != noLink {
		next := p.links[cur].next
		p.remove(region, cur)
		cur = next
	}
	p.planExists.set(int(region), false)
}

// clearRegionExit is invoked unconditionally on region exit (§3 invariant 5,
// §9's resolved "double-record" bug): the plan, its bounds, and the task
// bits of every state in the region's subtree are reset regardless of
// whether a plan had ever been built. first/size describe the region's
// subtree as a contiguous pre-order StateID range.
func (p *planData) clearRegionExit(region RegionID, first StateID, size int) {
	p.Clear(region)
	for i := 0; i < size; i++ {
		s := int(first) + i
		p.taskSucceeded.set(s, false)
		p.taskFailed.set(s, false)
	}
}

// Exists reports whether region currently has a non-empty plan.
func (p *planData) Exists(region RegionID) bool {
	return p.planExists.get(int(region))
}

// Task is a read-only view of one plan entry, used by iteration and by
// PlanControl's read/mutate surface.
type Task struct {
	Index       int
	Kind        Kind
	Origin      StateID
	Destination StateID
}

// Tasks returns the tasks of region in insertion (head-to-tail) order.
func (p *planData) Tasks(region RegionID) []Task {
	var out []Task
	cur := p.first[region]
	for cur != noLink {
		l := p.links[cur]
		out = append(out, Task{Index: cur, Kind: l.kind, Origin: l.origin, Destination: l.destination})
		cur = l.next
	}
	return out
}

// headTask returns the first task of region, if any.
func (p *planData) headTask(region RegionID) (Task, bool) {
	cur := p.first[region]
	if cur == noLink {
		return Task{}, false
	}
	l := p.links[cur]
	return Task{Index: cur, Kind: l.kind, Origin: l.origin, Destination: l.destination}, true
}
