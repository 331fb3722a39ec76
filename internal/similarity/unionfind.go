package similarity

// unionFind is a disjoint-set arena over string ids. Elements map to dense
// indices; parent and rank live in flat slices rather than pointer chains.
type unionFind struct {
	index  map[string]int
	ids    []string
	parent []int
	rank   []int
}

func newUnionFind() *unionFind {
	return &unionFind{index: make(map[string]int)}
}

// add registers an id as its own singleton set. Idempotent.
func (u *unionFind) add(id string) int {
	if i, ok := u.index[id]; ok {
		return i
	}
	i := len(u.ids)
	u.index[id] = i
	u.ids = append(u.ids, id)
	u.parent = append(u.parent, i)
	u.rank = append(u.rank, 0)
	return i
}

// find returns the set root with path compression.
func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// union merges the sets containing a and b, by rank.
func (u *unionFind) union(a, b string) {
	ra, rb := u.find(u.add(a)), u.find(u.add(b))
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// groups returns the member ids of every set, preserving the insertion order
// of both roots and members.
func (u *unionFind) groups() [][]string {
	byRoot := make(map[int][]string)
	var roots []int
	for i, id := range u.ids {
		root := u.find(i)
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], id)
	}

	result := make([][]string, 0, len(roots))
	for _, root := range roots {
		result = append(result, byRoot[root])
	}
	return result
}
