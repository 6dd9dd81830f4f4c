package model

import "strings"

// Names is the fixed set of people who can add dreams. Order is display order
// for the name chips.
type Names []string

// ParseNames splits a comma separated list, dropping blanks and duplicates.
func ParseNames(s string) Names {
	var out Names
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		n := strings.TrimSpace(part)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func (n Names) Contains(name string) bool {
	return n.Index(name) >= 0
}

// Index returns the chip position of name, or -1.
func (n Names) Index(name string) int {
	for i, v := range n {
		if v == name {
			return i
		}
	}
	return -1
}

// Validate checks name against the set.
func (n Names) Validate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !n.Contains(name) {
		return "", ErrUnknownAuthor
	}
	return name, nil
}
