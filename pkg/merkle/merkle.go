// Package merkle implements the sparse Merkle tree (component C5, §3.5/§4.5)
// and its in-circuit path-verification gadget (component C6, §4.6).
//
// Adapted from the teacher's fixed-depth, build-the-whole-tree-at-once
// SparseMerkleTree (which hashed an entire slice of file chunks in one
// call): this version exposes the mutation-based update(index, leaf) API
// the specification's I1-I3 invariants describe, backed by a db map from
// parent hash to (left, right) children plus a leaf_indices reverse lookup,
// instead of a map-of-levels built from a full leaf slice.
package merkle

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/MuriData/shielded-gadgets/pkg/gaderr"
	"github.com/MuriData/shielded-gadgets/pkg/params"
	"github.com/MuriData/shielded-gadgets/pkg/poseidon"
)

// SparseMerkleTree is a binary tree of height Depth over the scalar domain
// (§3.5). Only modified paths are physically stored; untouched subtrees are
// represented by precomputed empty-subtree hashes.
type SparseMerkleTree struct {
	Depth  int
	Root   fr.Element
	params *params.Params

	emptyHashes []fr.Element                 // emptyHashes[h] = root of an empty subtree of height h; len = Depth+1
	db          map[fr.Element][2]fr.Element // parent hash -> (left, right) children
	leafIndices map[fr.Element]uint64        // leaf value -> index, for application-side lookup
}

// EmptyHashes precomputes the empty-subtree hash chain:
//
//	empty[0] = 0
//	empty[h+1] = H2(empty[h], empty[h])
//
// for h in [0, depth). The returned slice has length depth+1.
func EmptyHashes(depth int, p *params.Params) ([]fr.Element, error) {
	if depth < 0 {
		return nil, fmt.Errorf("merkle: negative depth %d", depth)
	}
	hashes := make([]fr.Element, depth+1)
	// hashes[0] is the zero element by default.
	for h := 0; h < depth; h++ {
		next, err := poseidon.Hash2(hashes[h], hashes[h], p)
		if err != nil {
			return nil, fmt.Errorf("merkle: empty hash level %d: %w", h, err)
		}
		hashes[h+1] = next
	}
	return hashes, nil
}

// New builds an empty sparse Merkle tree of the given depth and Poseidon
// parameters. Its root is empty[depth] until the first Update.
func New(depth int, p *params.Params) (*SparseMerkleTree, error) {
	empty, err := EmptyHashes(depth, p)
	if err != nil {
		return nil, err
	}
	return &SparseMerkleTree{
		Depth:       depth,
		Root:        empty[depth],
		params:      p,
		emptyHashes: empty,
		db:          make(map[fr.Element][2]fr.Element),
		leafIndices: make(map[fr.Element]uint64),
	}, nil
}

// indexBits returns the little-endian depth-bit decomposition of index: bit
// 0 is the lowest bit. bit=1 means "leaf goes on the right" at that level —
// this tie-break must stay identical across Update, Get, VerifyProof and the
// in-circuit PathGadget, or proofs will verify against the wrong root (§4.5).
func indexBits(index uint64, depth int) []int {
	bits := make([]int, depth)
	for h := 0; h < depth; h++ {
		bits[h] = int((index >> uint(h)) & 1)
	}
	return bits
}

// Update sets the leaf at index and recomputes the root, walking from leaf
// to root and recording every interior node touched along the way (§4.5).
// Not safe for concurrent use on the same tree.
func (t *SparseMerkleTree) Update(index uint64, leaf fr.Element) error {
	bits := indexBits(index, t.Depth)

	cur := leaf
	// oldPath[h] holds the sibling at height h as it was BEFORE this update:
	// walk down from the (old) root along the same bit path collecting
	// siblings, then walk back up recomputing with the new leaf.
	oldPath, err := t.collectPath(index)
	if err != nil {
		return err
	}

	for h := 0; h < t.Depth; h++ {
		sibling := oldPath[h]
		var left, right fr.Element
		if bits[h] == 1 {
			left, right = sibling, cur
		} else {
			left, right = cur, sibling
		}
		parent, err := poseidon.Hash2(left, right, t.params)
		if err != nil {
			return fmt.Errorf("merkle: update level %d: %w", h, err)
		}
		t.db[parent] = [2]fr.Element{left, right}
		cur = parent
	}

	t.Root = cur
	t.leafIndices[leaf] = index
	return nil
}

// collectPath walks the current tree from root to leaf along index's bit
// path and returns the sibling at each level (index h = level of the leaf's
// parent chain, h=0 nearest the leaf), defaulting to empty-subtree hashes
// for nodes never stored. Used by Update to find what each new parent must
// absorb, and by Proof to build the sibling path.
func (t *SparseMerkleTree) collectPath(index uint64) ([]fr.Element, error) {
	bits := indexBits(index, t.Depth)
	siblings := make([]fr.Element, t.Depth)

	// Walk from the root downward, level = Depth-1 .. 0, tracking the node
	// value at the current subtree root.
	node := t.Root
	for level := t.Depth - 1; level >= 0; level-- {
		if node == t.emptyHashes[level+1] {
			// Untouched subtree: every descendant sibling is the
			// corresponding empty hash.
			for h := 0; h <= level; h++ {
				siblings[h] = t.emptyHashes[h]
			}
			return siblings, nil
		}
		children, ok := t.db[node]
		if !ok {
			return nil, fmt.Errorf("merkle: node at level %d: %w", level+1, gaderr.ErrMissingNode)
		}
		bit := bits[level]
		var sibling, next fr.Element
		if bit == 1 {
			next, sibling = children[1], children[0]
		} else {
			next, sibling = children[0], children[1]
		}
		siblings[level] = sibling
		node = next
	}
	return siblings, nil
}

// Get returns the leaf currently stored at index, reconstructed by walking
// the tree from root to leaf. Fails with ErrMissingNode if an interior node
// on the path is absent from db and is not an empty-subtree hash.
func (t *SparseMerkleTree) Get(index uint64) (fr.Element, error) {
	bits := indexBits(index, t.Depth)
	node := t.Root
	for level := t.Depth - 1; level >= 0; level-- {
		if node == t.emptyHashes[level+1] {
			return t.emptyHashes[0], nil
		}
		children, ok := t.db[node]
		if !ok {
			return fr.Element{}, fmt.Errorf("merkle: node at level %d: %w", level+1, gaderr.ErrMissingNode)
		}
		if bits[level] == 1 {
			node = children[1]
		} else {
			node = children[0]
		}
	}
	return node, nil
}

// Proof returns the depth-length sibling path and bit path for index,
// suitable for VerifyProof or for feeding PathGadget.
func (t *SparseMerkleTree) Proof(index uint64) (siblings []fr.Element, bits []int, err error) {
	siblings, err = t.collectPath(index)
	if err != nil {
		return nil, nil, err
	}
	return siblings, indexBits(index, t.Depth), nil
}

// LeafIndex returns the index a leaf value was last inserted at, and
// whether it is present in the tree's reverse lookup (§3.5 I3).
func (t *SparseMerkleTree) LeafIndex(leaf fr.Element) (uint64, bool) {
	idx, ok := t.leafIndices[leaf]
	return idx, ok
}

// VerifyProof reconstructs a root from leaf and proof (bit-direction rule
// matching Update/Get) and compares it against expectedRoot.
func VerifyProof(leaf fr.Element, siblings []fr.Element, bits []int, expectedRoot fr.Element, p *params.Params) (bool, error) {
	root, err := RecomputeRoot(leaf, siblings, bits, p)
	if err != nil {
		return false, err
	}
	return root.Equal(&expectedRoot), nil
}

// RecomputeRoot walks leaf up through siblings/bits and returns the
// resulting root, the out-of-circuit twin of PathGadget.
func RecomputeRoot(leaf fr.Element, siblings []fr.Element, bits []int, p *params.Params) (fr.Element, error) {
	if len(siblings) != len(bits) {
		return fr.Element{}, fmt.Errorf("merkle: siblings/bits length mismatch (%d vs %d)", len(siblings), len(bits))
	}
	cur := leaf
	for h := 0; h < len(siblings); h++ {
		var left, right fr.Element
		if bits[h] == 1 {
			left, right = siblings[h], cur
		} else {
			left, right = cur, siblings[h]
		}
		next, err := poseidon.Hash2(left, right, p)
		if err != nil {
			return fr.Element{}, fmt.Errorf("merkle: recompute level %d: %w", h, err)
		}
		cur = next
	}
	return cur, nil
}
