// Domain table: the arena of candidate domains, indexed by variable ID.
// The live session owns one; the feasibility search branches scratch
// copies off it. Because Domain values are immutable, a branch copies
// only the slice of headers, never the underlying bit words, so each
// search node costs O(variables) pointers rather than a deep copy.
package puzzlecheck

type domainTable struct {
	domains []Domain
}

// newDomainTable builds a table holding every variable's starting domain.
func newDomainTable(m *Model) *domainTable {
	t := &domainTable{domains: make([]Domain, len(m.variables))}
	for id, v := range m.variables {
		t.domains[id] = v.Domain
	}
	return t
}

// branch returns an independent copy for tentative exploration. Writes to
// the branch are invisible to the parent and vice versa.
func (t *domainTable) branch() *domainTable {
	domains := make([]Domain, len(t.domains))
	copy(domains, t.domains)
	return &domainTable{domains: domains}
}

func (t *domainTable) domain(id int) Domain {
	return t.domains[id]
}

func (t *domainTable) set(id int, d Domain) {
	t.domains[id] = d
}
