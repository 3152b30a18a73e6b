package sssp

// BatchDelete removes a batch of edges and restores the distance and
// tree invariants. Entries that are out of range, already deleted, or
// never existed are skipped; skipping one entry does not affect the
// others. The call never fails.
//
// The update runs in three stages. Pass 1 applies the deletions and
// records vertices that lost their tree parent. Pass 2 tries to
// re-parent each orphan at its current level by advancing its scan
// cursor. The phase loop then relaxes the remaining uncertainty layer
// by layer: a vertex that finds no in-neighbor one level up is promoted
// one level down and drags its subtree into the uncertain set. After
// phase L every survivor sits at L+1.
func (m *Maintainer) BatchDelete(edges []Edge) {
	n := int(m.n)
	parentDeleted := make([]bool, n)
	var orphans []uint32

	// Pass 1: apply deletions.
	for _, e := range edges {
		if e.From >= m.n || e.To >= m.n {
			continue
		}
		key := encodeEdge(e.From, e.To)
		if _, ok := m.alive[key]; !ok {
			continue
		}
		delete(m.alive, key)
		m.removeOut(e.From, e.To)

		if m.parent[e.To] == e.From {
			m.removeChild(e.From, e.To)
			m.parent[e.To] = NoVertex
			parentDeleted[e.To] = true
			orphans = append(orphans, e.To)
		}
	}

	// Pass 2: orphans may still have an in-neighbor at the same level;
	// the scan cursor continues from where previous searches stopped
	// (earlier ranks were already rejected for this level).
	for _, v := range orphans {
		pos := m.in[v].NextWith(m.scan[v], m.levelPred(v))
		m.scan[v] = pos
		if pos <= m.in[v].Size() {
			w := m.queryIn(v, pos)
			m.parent[v] = w
			m.children[w] = append(m.children[w], v)
			parentDeleted[v] = false
		}
	}

	// Phase loop. Invariant at the start of phase i: every vertex in u
	// has recorded distance i, and every vertex whose true distance is
	// at most i is settled or in u.
	inNew := make([]bool, n)
	var u []uint32
	for i := 0; i <= m.depthCap; i++ {
		var uNew []uint32
		add := func(v uint32) {
			if !inNew[v] {
				inNew[v] = true
				uNew = append(uNew, v)
			}
		}

		for _, v := range u {
			pos := m.in[v].NextWith(m.scan[v], m.levelPred(v))
			m.scan[v] = pos
			if pos <= m.in[v].Size() {
				// Re-parented at the current level; v settles.
				w := m.queryIn(v, pos)
				if m.parent[v] != NoVertex {
					m.removeChild(m.parent[v], v)
				}
				m.parent[v] = w
				m.children[w] = append(m.children[w], v)
			} else {
				// No in-neighbor one level up remains. v moves down a
				// level and its children become uncertain with it.
				m.scan[v] = 1
				add(v)
				for _, c := range m.children[v] {
					add(c)
				}
				m.children[v] = nil
			}
		}

		// Orphans from pass 2 become eligible when the frontier reaches
		// their layer.
		for v := uint32(0); v < m.n; v++ {
			if parentDeleted[v] && m.dist[v] == i+1 {
				add(v)
			}
		}

		u = uNew
		for _, v := range u {
			m.dist[v] = i + 1
			inNew[v] = false
		}
	}

	// Survivors of phase L sit beyond the horizon; they are in no child
	// list, so clear any stale parent left from the subtree drag.
	for _, v := range u {
		m.parent[v] = NoVertex
	}
}
