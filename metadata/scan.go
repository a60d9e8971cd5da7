package metadata

import (
	"fmt"
	"strings"
)

// Targets returns one scan destination per result column for e. Result
// columns are matched exactly first, then case-insensitively. Columns
// without an accessor scan into a discarded value. The returned function
// must be called after a successful scan; it applies values read through
// setter methods.
func (m *Entity[E]) Targets(e *E, columns []string) ([]any, func() error) {
	var (
		dests = make([]any, len(columns))
		after []func() error
	)
	for i, c := range columns {
		fd, ok := m.accessors[c]
		if !ok {
			fd, ok = m.folded[strings.ToLower(c)]
		}
		if !ok {
			dests[i] = new(any)
			continue
		}
		dest, done := fd.Target(e)
		dests[i] = dest
		if done != nil {
			after = append(after, func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = m.accessorError(fd, fmt.Errorf("panic: %v", r))
					}
				}()
				if err := done(); err != nil {
					return m.accessorError(fd, err)
				}
				return nil
			})
		}
	}
	return dests, func() error {
		for _, fn := range after {
			if err := fn(); err != nil {
				return err
			}
		}
		return nil
	}
}
