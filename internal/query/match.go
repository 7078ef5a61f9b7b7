package query

import (
	"fmt"
	"strings"
)

// Getter resolves a field path on one record. ok is false when the path
// crosses a missing relation.
type Getter func(field string) (value any, ok bool, err error)

// Match evaluates p in memory. A nil predicate matches everything.
func Match(p Predicate, get Getter) (bool, error) {
	switch v := p.(type) {
	case nil:
		return true, nil
	case And:
		for _, c := range v {
			ok, err := Match(c, get)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case Or:
		if len(v) == 0 {
			return true, nil
		}
		for _, c := range v {
			ok, err := Match(c, get)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Cond:
		return matchCond(v, get)
	default:
		return false, fmt.Errorf("unsupported predicate %T", p)
	}
}

func matchCond(c Cond, get Getter) (bool, error) {
	value, present, err := get(c.Field)
	if err != nil {
		return false, err
	}
	if !present || value == nil {
		return false, nil
	}
	got := fmt.Sprint(value)

	switch c.Op {
	case OpEq:
		return got == fmt.Sprint(c.Value), nil
	case OpContains:
		needle := strings.ToLower(fmt.Sprint(c.Value))
		return strings.Contains(strings.ToLower(got), needle), nil
	case OpNotEmpty:
		return strings.TrimSpace(got) != "", nil
	default:
		return false, fmt.Errorf("unsupported operator %q", c.Op)
	}
}
