// Command zerotrees emits the empty-tree hash chain for a chosen
// (sbox, width, depth), for consumption by other languages or applications
// (§6's "auxiliary binary", supplemented from original_source's
// generate_zero_trees). It is deliberately outside pkg/ and circuits/: the
// core library never needs to print tables, only compute with them.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/MuriData/shielded-gadgets/pkg/merkle"
	"github.com/MuriData/shielded-gadgets/pkg/params"
)

func main() {
	width := flag.Int("width", 6, "Poseidon state width")
	sboxName := flag.String("sbox", "inverse", "Poseidon SBox: x3, x5, x17, inverse")
	depth := flag.Int("depth", 32, "sparse Merkle tree depth")
	flag.Parse()

	sbox, err := parseSBox(*sboxName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p, err := params.New(*width, sbox)
	if err != nil {
		fmt.Fprintln(os.Stderr, "params.New:", err)
		os.Exit(1)
	}

	empty, err := merkle.EmptyHashes(*depth, p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "merkle.EmptyHashes:", err)
		os.Exit(1)
	}

	for level, h := range empty {
		b := h.Bytes()
		fmt.Printf("%d %s\n", level, hex.EncodeToString(b[:]))
	}
}

func parseSBox(name string) (params.SBox, error) {
	switch name {
	case "x3":
		return params.X3, nil
	case "x5":
		return params.X5, nil
	case "x17":
		return params.X17, nil
	case "inverse":
		return params.Inverse, nil
	default:
		return 0, fmt.Errorf("unknown sbox %q (want x3, x5, x17, inverse)", name)
	}
}
