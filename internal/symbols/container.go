package symbols

// Container is the enclosing function a local function is declared in.
// The local function keeps it as a back-reference only.
type Container interface {
	Symbol
	IsStatic() bool
	// EnclosingTypeParameters are the generic parameters visible from the
	// enclosing type; local type parameters with the same name shadow them.
	EnclosingTypeParameters() []*TypeParameterSymbol
	Equal(other Container) bool
}
