// Package fieldpath parses bracketed field addresses such as "address[street]"
// or "list[2]" into ordered segments.
package fieldpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned for an empty address.
var ErrEmpty = errors.New("fieldpath: address cannot be empty")

// SyntaxError reports a malformed address and the byte offset of the problem.
type SyntaxError struct {
	Address string
	Offset  int
	Reason  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("fieldpath: %s at offset %d in %q", e.Reason, e.Offset, e.Address)
}

// Split resolves addr following the grammar name ( '[' name ']' )*.
//
//	Split("a")       -> ["a"]
//	Split("a[b][c]") -> ["a", "b", "c"]
func Split(addr string) ([]string, error) {
	if addr == "" {
		return nil, ErrEmpty
	}
	open := strings.IndexByte(addr, '[')
	if open < 0 {
		if i := strings.IndexByte(addr, ']'); i >= 0 {
			return nil, &SyntaxError{Address: addr, Offset: i, Reason: "unexpected ']'"}
		}
		return []string{addr}, nil
	}
	if open == 0 {
		return nil, &SyntaxError{Address: addr, Offset: 0, Reason: "missing field name"}
	}
	head := addr[:open]
	if i := strings.IndexByte(head, ']'); i >= 0 {
		return nil, &SyntaxError{Address: addr, Offset: i, Reason: "unexpected ']'"}
	}
	segs := []string{head}
	pos := open
	for pos < len(addr) {
		if addr[pos] != '[' {
			return nil, &SyntaxError{Address: addr, Offset: pos, Reason: "expected '['"}
		}
		end := strings.IndexByte(addr[pos+1:], ']')
		if end < 0 {
			return nil, &SyntaxError{Address: addr, Offset: pos, Reason: "unterminated '['"}
		}
		name := addr[pos+1 : pos+1+end]
		if name == "" {
			return nil, &SyntaxError{Address: addr, Offset: pos, Reason: "empty segment"}
		}
		if strings.IndexByte(name, '[') >= 0 {
			return nil, &SyntaxError{Address: addr, Offset: pos + 1 + strings.IndexByte(name, '['), Reason: "unexpected '['"}
		}
		segs = append(segs, name)
		pos += end + 2
	}
	return segs, nil
}

// Join is the inverse of Split.
func Join(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	b := &strings.Builder{}
	b.WriteString(segs[0])
	for _, s := range segs[1:] {
		b.WriteByte('[')
		b.WriteString(s)
		b.WriteByte(']')
	}
	return b.String()
}
