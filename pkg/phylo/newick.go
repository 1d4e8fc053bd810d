package phylo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseNewick parses a serialized rooted tree with branch lengths into a
// Tree. The expected grammar is the common Newick subset:
//
//	tree    := subtree ";"
//	subtree := "(" subtree ("," subtree)* ")" [label] [":" length]
//	         | label [":" length]
//
// Labels are unquoted and end at "(", ")", ",", ":", ";" or whitespace.
// A missing ":length" means a zero-length branch.
func ParseNewick(data string) (*Tree, error) {
	p := &newickParser{data: data}

	p.skipSpace()
	root, err := p.parseSubtree()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.consume(';') {
		return nil, p.errorf("expected ';' after tree")
	}
	p.skipSpace()
	if p.pos != len(p.data) {
		return nil, p.errorf("trailing data after ';'")
	}

	return newTree(root)
}

type newickParser struct {
	data string
	pos  int
}

func (p *newickParser) parseSubtree() (*Node, error) {
	p.skipSpace()

	n := &Node{}
	if p.consume('(') {
		// Internal node: one or more comma-separated children.
		for {
			child, err := p.parseSubtree()
			if err != nil {
				return nil, err
			}
			child.Parent = n
			n.Children = append(n.Children, child)

			p.skipSpace()
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.consume(')') {
			return nil, p.errorf("expected ')' or ','")
		}
		n.Label = p.parseLabel()
	} else {
		n.Label = p.parseLabel()
		if n.Label == "" {
			return nil, p.errorf("expected tip label or '('")
		}
	}

	// Optional branch length.
	p.skipSpace()
	if p.consume(':') {
		length, err := p.parseLength()
		if err != nil {
			return nil, err
		}
		n.Length = length
	}

	return n, nil
}

func (p *newickParser) parseLabel() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '(' || c == ')' || c == ',' || c == ':' || c == ';' ||
			unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.data[start:p.pos]
}

func (p *newickParser) parseLength() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if strings.ContainsRune("0123456789.eE+-", rune(c)) {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, p.errorf("expected branch length after ':'")
	}
	length, err := strconv.ParseFloat(p.data[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid branch length %q", p.data[start:p.pos])
	}
	if length < 0 {
		return 0, p.errorf("negative branch length %v", length)
	}
	return length, nil
}

func (p *newickParser) consume(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.data) && unicode.IsSpace(rune(p.data[p.pos])) {
		p.pos++
	}
}

func (p *newickParser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("newick: %s at offset %d", msg, p.pos)
}
