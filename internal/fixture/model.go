package fixture

// File is one decoded `*.lfn.toml` fixture: enclosing methods with the local
// functions declared in their bodies.
type File struct {
	// Types are named types the signatures may refer to, besides builtins.
	Types      []string    `toml:"types"`
	Containers []Container `toml:"container"`
}

// Container is an enclosing method.
type Container struct {
	Name       string   `toml:"name"`
	Static     bool     `toml:"static"`
	TypeParams []string `toml:"type_params"`
	Locals     []Local  `toml:"local"`
}

// Local is a local function declaration.
type Local struct {
	Name       string   `toml:"name"`
	Modifiers  []string `toml:"modifiers"`
	TypeParams []string `toml:"type_params"`
	// Returns is written like a type in source: `void`, `int[]`, `List?`, `var`.
	// Empty means the declaration has no return type.
	Returns string  `toml:"returns"`
	Params  []Param `toml:"param"`
}

// Param is one parameter; ArgList marks the `__arglist` entry.
type Param struct {
	Name      string   `toml:"name"`
	Type      string   `toml:"type"`
	Modifiers []string `toml:"modifiers"`
	ArgList   bool     `toml:"arglist"`
}

// Ext is the fixture file extension.
const Ext = ".lfn.toml"
