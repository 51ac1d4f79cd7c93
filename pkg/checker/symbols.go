package checker

import "github.com/YagoCrispim/pascal-interpreter/pkg/ast"

// SymbolKind separates built-in type names from declared variables.
type SymbolKind int

const (
	SymbolBuiltinType SymbolKind = iota
	SymbolVariable
)

// Symbol is a named entry of the table. Type is nil for built-in types.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type *Symbol
	Decl *ast.VarDecl
}

// SymbolTable holds the program's single global scope.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

// NewSymbolTable returns a table preloaded with INTEGER and REAL.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{symbols: make(map[string]*Symbol)}
	t.Define(&Symbol{Name: string(ast.TypeInteger), Kind: SymbolBuiltinType})
	t.Define(&Symbol{Name: string(ast.TypeReal), Kind: SymbolBuiltinType})
	return t
}

// Define binds a symbol, replacing any previous entry with the same name.
func (t *SymbolTable) Define(sym *Symbol) {
	if _, exists := t.symbols[sym.Name]; !exists {
		t.order = append(t.order, sym.Name)
	}
	t.symbols[sym.Name] = sym
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Variables returns declared variables in declaration order.
func (t *SymbolTable) Variables() []*Symbol {
	var out []*Symbol
	for _, name := range t.order {
		if sym := t.symbols[name]; sym.Kind == SymbolVariable {
			out = append(out, sym)
		}
	}
	return out
}
