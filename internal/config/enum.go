package config

import (
	"fmt"
	"strings"
)

// names maps a small enum to its upper-case environment spelling. The enum
// value is the index into the slice.
type names[T ~uint8] []string

func (n names[T]) format(v T) string {
	if int(v) >= len(n) {
		return fmt.Sprintf("UNKNOWN(%d)", v)
	}
	return n[v]
}

func (n names[T]) parse(kind string, text []byte) (T, error) {
	upper := strings.ToUpper(strings.TrimSpace(string(text)))
	for i, name := range n {
		if name == upper {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q, expected one of %s", kind, text, strings.Join(n, ", "))
}
