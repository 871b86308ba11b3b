package tiny

// Script is one compiled source unit.
type Script struct {
	Name string
	Root *Block
	// Locals maps every name declared with `var` to its last declaration.
	Locals map[string]Position
}

// IsLocal reports whether name was declared in the script.
func (s *Script) IsLocal(name string) bool {
	_, ok := s.Locals[name]
	return ok
}
