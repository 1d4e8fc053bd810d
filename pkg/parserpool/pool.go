// Package parserpool provides a pool of gnparser instances for concurrent
// name parsing. Parsing is pure computation; the pool only bounds how many
// parser instances exist at once.
//
// Interaction data mixes kingdoms, and the nomenclatural code changes how a
// name is read ("Aus (Bus)" is a subgenus under the zoological code and a
// plain genus under the botanical one). The pool keeps one parser set per
// code and picks the code from the organism's kingdom.
package parserpool

import (
	"fmt"
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool is a fixed-size pool of gnparser instances, safe for concurrent use.
type Pool interface {
	// Parse parses a scientific name under the given nomenclatural code.
	// It blocks while all parsers for that code are busy.
	Parse(name string, code nomcode.Code) (parsed.Parsed, error)

	// Canonical parses name under the code matching kingdom and returns
	// the simple canonical form. The boolean is false when the name does
	// not parse.
	Canonical(name, kingdom string) (string, bool)

	// Close releases the parsers. The pool must not be used afterwards.
	Close()
}

type pool struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
	size         int
}

// NewPool creates parser pools for the botanical and the zoological codes,
// size instances each. A size of 0 defaults to runtime.NumCPU().
func NewPool(size int) Pool {
	if size == 0 {
		size = runtime.NumCPU()
	}

	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
		gnparser.OptWithDetails(true),
	)
	zoologicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
		gnparser.OptWithDetails(true),
	)

	return &pool{
		botanicalCh:  gnparser.NewPool(botanicalCfg, size),
		zoologicalCh: gnparser.NewPool(zoologicalCfg, size),
		size:         size,
	}
}

// The botanical code governs plants, fungi and algae, so chromist and
// protist names parse botanically too. Everything else, unknown kingdoms
// included, parses as zoological: most interaction partners are insects.
var botanicalKingdoms = map[string]bool{
	"Plantae":        true,
	"Viridiplantae":  true,
	"Archaeplastida": true,
	"Fungi":          true,
	"Chromista":      true,
	"Protista":       true,
}

// CodeFor picks the nomenclatural code for an organism's kingdom.
func CodeFor(kingdom string) nomcode.Code {
	if botanicalKingdoms[kingdom] {
		return nomcode.Botanical
	}
	return nomcode.Zoological
}

func (p *pool) Parse(name string, code nomcode.Code) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Botanical:
		ch = p.botanicalCh
	case nomcode.Zoological:
		ch = p.zoologicalCh
	default:
		return parsed.Parsed{}, fmt.Errorf(
			"unsupported nomenclatural code: %v", code,
		)
	}

	parser := <-ch
	res := parser.ParseName(name)
	ch <- parser

	return res, nil
}

func (p *pool) Canonical(name, kingdom string) (string, bool) {
	res, err := p.Parse(name, CodeFor(kingdom))
	if err != nil || !res.Parsed || res.Canonical == nil {
		return "", false
	}
	return res.Canonical.Simple, true
}

func (p *pool) Close() {
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}
	if p.zoologicalCh != nil {
		close(p.zoologicalCh)
		for range p.zoologicalCh {
		}
	}
}
