package hfsm

// Strategy resolves which prong of a composite region becomes active in
// response to a Change request (§4.4.1). The other request kinds
// (Restart/Resume/Utilize/Randomize) bypass the region's configured
// Strategy and apply their own fixed algorithm directly — see
// compositeNode.resolveBranch in composite.go — but all four of those
// algorithms are also exposed here as Strategy implementations so the same code
// resolves both "the configured default" and "the explicitly requested
// behavior."
type Strategy interface {
	Select(ctx SelectContext) Prong
}

// SelectContext carries everything a Strategy needs to pick a prong,
// without exposing the region's mutable registry state directly.
type SelectContext struct {
	Control   Control
	Head      StateID
	Children  []Node
	Active    Prong
	Resumable Prong
	Random    Random
}

// RestartStrategy always selects prong 0, the literal "prong 0 of every
// composite down the spine" behavior §4.1 describes for a fresh entry.
type RestartStrategy struct{}

func (RestartStrategy) Select(ctx SelectContext) Prong { return 0 }

// ResumableStrategy selects the region's last-active prong, or 0 if the
// region has never been entered.
type ResumableStrategy struct{}

func (ResumableStrategy) Select(ctx SelectContext) Prong {
	if ctx.Resumable != InvalidProng {
		return ctx.Resumable
	}
	return 0
}

// UtilitarianStrategy selects the child reporting the greatest utility,
// breaking ties toward the lowest prong index.
type UtilitarianStrategy struct{}

func (UtilitarianStrategy) Select(ctx SelectContext) Prong {
	best := Prong(0)
	bestU := float32(-1)
	for i, child := range ctx.Children {
		u := child.utility(ctx.Control)
		if u > bestU {
			bestU = u
			best = Prong(i)
		}
	}
	ctx.Control.log().RecordUtilityResolution(ctx.Head, best, bestU)
	return best
}

// RandomUtilStrategy implements the rank-gated weighted random draw (§4.4.1,
// §9): only children reporting the highest rank among siblings are
// eligible; eligible children are drawn from with probability proportional
// to utility. If floating-point error causes the running scan to fall
// short of the drawn value (§9's flagged "Open Question"), the last
// eligible child is returned deterministically rather than panicking or
// returning an invalid prong.
type RandomUtilStrategy struct{}

func (RandomUtilStrategy) Select(ctx SelectContext) Prong {
	if len(ctx.Children) == 0 {
		return 0
	}
	bestRank := ctx.Children[0].rank(ctx.Control)
	for _, child := range ctx.Children[1:] {
		if r := child.rank(ctx.Control); r > bestRank {
			bestRank = r
		}
	}

	type eligible struct {
		prong   Prong
		utility float32
	}
	var pool []eligible
	var total float32
	for i, child := range ctx.Children {
		if child.rank(ctx.Control) != bestRank {
			continue
		}
		u := child.utility(ctx.Control)
		if u < 0 {
			u = 0
		}
		pool = append(pool, eligible{prong: Prong(i), utility: u})
		total += u
	}
	if len(pool) == 0 {
		return 0
	}
	if total <= 0 {
		ctx.Control.log().RecordRandomResolution(ctx.Head, pool[0].prong, 0)
		return pool[0].prong
	}

	draw := ctx.Random.Next() * float64(total)
	var acc float32
	for _, e := range pool {
		acc += e.utility
		if draw < float64(acc) {
			ctx.Control.log().RecordRandomResolution(ctx.Head, e.prong, draw)
			return e.prong
		}
	}
	// Scan underflow: fall back to the last eligible child deterministically.
	last := pool[len(pool)-1]
	ctx.Control.log().RecordRandomResolution(ctx.Head, last.prong, draw)
	return last.prong
}
