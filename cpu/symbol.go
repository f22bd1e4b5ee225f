package cpu

import (
	"strings"
)

// Label is an assembler label.
type Label struct {
	Name        string
	Addr        uint16 // Address, relative to the text start when Relocatable.
	Relocatable bool   // Set for code labels.
}

// SymbolTable holds the labels and constants of an assembly.
type SymbolTable struct {
	Label    map[string]Label  // Labels by full (scope qualified) name.
	Constant map[string]uint16 // Constants by name.

	scope     string
	textStart uint16
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Label:    make(map[string]Label),
		Constant: make(map[string]uint16),
	}
}

// isScoped returns true for a '.name' scoped label reference.
func isScoped(name string) bool {
	return strings.HasPrefix(name, ".") && len(name) > 1
}

// Scope opens a new label scope.
func (st *SymbolTable) Scope(name string) {
	st.scope = name
}

// Relocate sets the text start that relocatable labels are offset by.
func (st *SymbolTable) Relocate(textStart uint16) {
	st.textStart = textStart
}

// qualify returns the full name of a label in the current scope.
func (st *SymbolTable) qualify(name string) (full string, err error) {
	if !isScoped(name) {
		full = name
		return
	}
	if len(st.scope) == 0 {
		err = ErrLabelScope
		return
	}
	full = st.scope + name
	return
}

// DefineLabel adds a label. A top level code label also opens a new scope.
func (st *SymbolTable) DefineLabel(name string, addr uint16, relocatable bool) (err error) {
	full, err := st.qualify(name)
	if err != nil {
		return
	}

	_, ok := st.Label[full]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	st.Label[full] = Label{Name: full, Addr: addr, Relocatable: relocatable}

	if relocatable && !isScoped(name) {
		st.Scope(name)
	}

	return
}

// LookupLabel returns the address of a label, resolving scoped names
// against the current scope.
func (st *SymbolTable) LookupLabel(name string) (addr uint16, ok bool) {
	full, err := st.qualify(name)
	if err != nil {
		return
	}

	label, ok := st.Label[full]
	if !ok {
		return
	}

	addr = label.Addr
	if label.Relocatable {
		addr += st.textStart
	}

	return
}

// DefineConstant adds a constant.
func (st *SymbolTable) DefineConstant(name string, value uint16) (err error) {
	_, ok := st.Constant[name]
	if ok {
		err = ErrConstantDuplicate
		return
	}

	st.Constant[name] = value
	return
}

// LookupConstant returns the value of a constant.
func (st *SymbolTable) LookupConstant(name string) (value uint16, ok bool) {
	value, ok = st.Constant[name]
	return
}
