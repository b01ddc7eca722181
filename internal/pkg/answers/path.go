package answers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPath  = errors.New("invalid answer path")
	ErrNilDocument  = errors.New("answer document is nil")
	ErrPathNotFound = errors.New("answer path not found")
)

// Path is a parsed dotted answer path. Bracketed parts stay inside their segment.
type Path []string

func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := Path(strings.Split(path, "."))
	if err := segments.validate(); err != nil {
		return nil, err
	}
	return segments, nil
}

// MustParsePath is ParsePath for paths known at compile time.
func MustParsePath(path string) Path {
	segments, err := ParsePath(path)
	if err != nil {
		panic(err)
	}
	return segments
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// TrimPrefix drops prefix from p when p starts with it.
func (p Path) TrimPrefix(prefix Path) Path {
	if len(prefix) >= len(p) {
		return p
	}
	for i, segment := range prefix {
		if p[i] != segment {
			return p
		}
	}
	return p[len(prefix):]
}

func (p Path) validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidPath)
	}
	for i, segment := range p {
		if segment == "" {
			return fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, p.String())
		}
	}
	return nil
}

// Set writes value at path below root, creating intermediate mappings on demand.
// A non-mapping value found on an intermediate segment is replaced with an empty mapping.
func Set(root Mapping, path Path, value Value) error {
	if root == nil {
		return ErrNilDocument
	}
	if err := path.validate(); err != nil {
		return err
	}
	if value == nil {
		value = Null
	}
	set(root, path, value)
	return nil
}

func set(node Mapping, path Path, value Value) {
	if len(path) > 1 {
		child, ok := node[path[0]].(Mapping)
		if !ok || child == nil {
			child = Mapping{}
			node[path[0]] = child
		}
		set(child, path[1:], value)
		return
	}
	node[path[0]] = value
}

// InitSequence installs an empty sequence at path. It is the write used for
// repeating nodes, whose scalar value is never stored directly.
func InitSequence(root Mapping, path Path) error {
	return Set(root, path, Sequence{})
}

func Get(root Mapping, path Path) (Value, error) {
	if err := path.validate(); err != nil {
		return nil, err
	}
	var current Value = root
	for _, segment := range path {
		mapping, ok := current.(Mapping)
		if !ok || mapping == nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path.String())
		}
		current, ok = mapping[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path.String())
		}
	}
	return current, nil
}

// Lookup is Get for callers that only care about presence.
func Lookup(root Mapping, path Path) (Value, bool) {
	value, err := Get(root, path)
	if err != nil {
		return nil, false
	}
	return value, true
}
