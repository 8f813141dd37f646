package bits

// Tree is a binary coding tree in RFC 6386 layout. Entries come in pairs;
// a positive entry is the index of the next pair and a non-positive entry
// is a negated leaf value. The probability for the pair at index i is
// probs[i>>1].
type Tree []int8

// ReadTree decodes one leaf value from t.
//
// Source: RFC 6386 section 8.1 (treed_read)
func (r *Reader) ReadTree(t Tree, probs []Probability) int {
	return r.ReadTreeFrom(t, probs, 0)
}

// ReadTreeFrom decodes a leaf starting at node index start, skipping the
// branches above it.
func (r *Reader) ReadTreeFrom(t Tree, probs []Probability, start int) int {
	i := start
	for {
		bit := 0
		if r.ReadBool(probs[i>>1]) {
			bit = 1
		}
		next := int(t[i+bit])
		if next <= 0 {
			return -next
		}
		i = next
	}
}

// PutTree encodes leaf value v using t. It panics if v is not a leaf of t.
func (w *Writer) PutTree(t Tree, probs []Probability, v int) {
	w.PutTreeFrom(t, probs, v, 0)
}

// PutTreeFrom encodes leaf value v starting at node index start.
func (w *Writer) PutTreeFrom(t Tree, probs []Probability, v int, start int) {
	var path [32]bool
	var nodes [32]int
	n, ok := t.find(start, v, path[:0], nodes[:0])
	if !ok {
		panic(InvariantError("bits: value is not a leaf of the tree"))
	}
	for i := range n.path {
		w.PutBool(n.path[i], probs[n.nodes[i]>>1])
	}
}

type treePath struct {
	path  []bool
	nodes []int
}

// find returns the branch decisions leading from node i to leaf v.
func (t Tree) find(i, v int, path []bool, nodes []int) (treePath, bool) {
	for bit := 0; bit < 2; bit++ {
		next := int(t[i+bit])
		p := append(path, bit == 1)
		ns := append(nodes, i)
		if next <= 0 {
			if -next == v {
				return treePath{path: p, nodes: ns}, true
			}
			continue
		}
		if found, ok := t.find(next, v, p, ns); ok {
			return found, true
		}
	}
	return treePath{}, false
}
