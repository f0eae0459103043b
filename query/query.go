// Package query implements the public degree-of-separation facade: given
// two member names, resolve them against a NameDict and report their
// distance over a FriendGraph, dispatching to bibfs only when neither the
// self-query nor the direct-friends fast path applies.
package query

import (
	"fmt"
	"strconv"

	"github.com/degreesep/degreesep/bibfs"
	"github.com/degreesep/degreesep/codec"
	"github.com/degreesep/degreesep/friendgraph"
	"github.com/degreesep/degreesep/namedict"
)

// Result is the outcome of a Search call.
type Result struct {
	OK       bool
	Message  string
	Distance codec.Index
}

// Search resolves a and b against dict and reports their degree of
// separation over graph.
//
//  1. a == b: degenerate "friend of yourself" case, distance IndexMax.
//  2. Either name unknown: failure.
//  3. AreFriends(a, b): distance 0.
//  4. Otherwise, dispatch to bibfs.Search.
func Search(a, b string, dict *namedict.NameDict, graph *friendgraph.FriendGraph) Result {
	if a == b {
		return Result{OK: true, Message: a + " You're supposed to be friend of yourself", Distance: codec.IndexMax}
	}

	if dict.Size() == 0 || graph.Size() == 0 {
		return Result{OK: false, Message: "Empty graph", Distance: codec.IndexMax}
	}
	if dict.Size() != graph.Size() {
		return Result{OK: false, Message: "Mismatched NameDict and FriendGraph structures", Distance: codec.IndexMax}
	}

	indexA, ok := resolve(a, dict)
	if !ok {
		return Result{OK: false, Message: fmt.Sprintf("Not found %s member in this social network", a), Distance: codec.IndexMax}
	}
	indexB, ok := resolve(b, dict)
	if !ok {
		return Result{OK: false, Message: fmt.Sprintf("Not found %s member in this social network", b), Distance: codec.IndexMax}
	}

	searchID := fmt.Sprintf("%s[%d]<-->%s[%d]", a, indexA, b, indexB)

	if graph.AreFriends(indexA, indexB) {
		return Result{OK: true, Message: searchID + " They are direct friends", Distance: 0}
	}

	distance, common, ok := bibfs.Search(graph, indexA, indexB)
	if !ok {
		return Result{OK: false, Message: searchID + " It seems they don't have a link of friends between them", Distance: codec.IndexMax}
	}

	commonName, _ := dict.NameOf(common)
	message := fmt.Sprintf("%s   %d should suffice   common=%s[%d]", searchID, distance, commonName, common)
	return Result{OK: true, Message: message, Distance: distance}
}

// resolve interprets raw as a decimal index in [0, dict.Size()) if it parses
// as one, falling back to a name lookup in dict otherwise.
func resolve(raw string, dict *namedict.NameDict) (codec.Index, bool) {
	if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
		idx := codec.Index(n)
		if int(idx) < dict.Size() {
			return idx, true
		}
	}
	return dict.IndexOf(raw)
}
