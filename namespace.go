package bas2c

import (
	"fmt"
	"sort"
)

// NameSpaceError reports a conflicting definition in a scope.
type NameSpaceError struct {
	Name string
}

func (e *NameSpaceError) Error() string {
	return fmt.Sprintf("variable %s is already defined", e.Name)
}

// NameSpace holds the global scope and one named local scope per user
// function. A nil current-local pointer means the main body or a subroutine
// is active. New entries are created during pass 1 only; pass 2 resolves the
// frozen tables and emits definitions.
type NameSpace struct {
	global map[string]*Variable
	locals map[string]map[string]*Variable
	cur    map[string]*Variable
	pass   int
}

// NewNameSpace returns an empty namespace.
func NewNameSpace() *NameSpace {
	return &NameSpace{
		global: make(map[string]*Variable),
		locals: make(map[string]map[string]*Variable),
	}
}

// SetPass selects the translation pass and resets the current local scope.
func (n *NameSpace) SetPass(pass int) {
	n.pass = pass
	n.cur = nil
}

// SetLocal activates the local scope of function name, creating it on
// pass 1. An empty name returns to the global-only view.
func (n *NameSpace) SetLocal(name string) {
	if name == "" {
		n.cur = nil
		return
	}
	if n.pass == 1 {
		n.locals[name] = make(map[string]*Variable)
	}
	n.cur = n.locals[name]
}

// Find looks name up in the current local scope, then (unless localonly) in
// the global scope. Returns nil when undefined.
func (n *NameSpace) Find(name string, localonly bool) *Variable {
	if n.cur != nil {
		if v, ok := n.cur[name]; ok {
			return v
		}
	}
	if localonly {
		return nil
	}
	if v, ok := n.global[name]; ok {
		return v
	}
	return nil
}

// Define registers a variable in the active scope (the global scope when no
// local is active or forceGlobal is set). Insertion happens on pass 1 only;
// both passes return the registered entry. Redefinition within one scope is
// a *NameSpaceError.
func (n *NameSpace) Define(name string, ty VarType, arg, init string, fn, fnarg, forceGlobal bool) (*Variable, error) {
	scope := n.cur
	if forceGlobal || scope == nil {
		scope = n.global
	}
	if n.pass == 1 {
		if _, ok := scope[name]; ok {
			return nil, &NameSpaceError{Name: name}
		}
		scope[name] = &Variable{Name: name, Type: ty, Arg: arg, Init: init, Func: fn, FuncArg: fnarg}
	}
	return scope[name], nil
}

// Definitions renders the definition list of the global scope (name "") or
// of the named local scope, in name order. Local definitions are indented
// one tab.
func (n *NameSpace) Definitions(name string) string {
	scope := n.global
	tab := ""
	global := true
	if name != "" {
		scope = n.locals[name]
		tab = "\t"
		global = false
	}
	names := make([]string, 0, len(scope))
	for k := range scope {
		names = append(names, k)
	}
	sort.Strings(names)
	r := ""
	for _, k := range names {
		if d := scope[k].Definition(global); d != "" {
			r += tab + d
		}
	}
	return r
}
