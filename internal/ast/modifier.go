package ast

import (
	"strings"

	"localfn/internal/source"
)

// ModifierKind is a declaration modifier keyword.
type ModifierKind uint8

const (
	ModInvalid ModifierKind = iota
	ModAsync
	ModUnsafe
	ModStatic
	ModExtern
	ModPublic
	ModPrivate
	ModProtected
	ModInternal
	ModVirtual
	ModOverride
	ModAbstract
	ModSealed
	ModNew
	ModReadonly
	ModConst
	ModPartial
)

var modifierNames = [...]string{
	ModInvalid:   "",
	ModAsync:     "async",
	ModUnsafe:    "unsafe",
	ModStatic:    "static",
	ModExtern:    "extern",
	ModPublic:    "public",
	ModPrivate:   "private",
	ModProtected: "protected",
	ModInternal:  "internal",
	ModVirtual:   "virtual",
	ModOverride:  "override",
	ModAbstract:  "abstract",
	ModSealed:    "sealed",
	ModNew:       "new",
	ModReadonly:  "readonly",
	ModConst:     "const",
	ModPartial:   "partial",
}

func (k ModifierKind) String() string {
	if int(k) < len(modifierNames) {
		return modifierNames[k]
	}
	return "unknown"
}

// ParseModifier maps a keyword to its ModifierKind.
func ParseModifier(s string) (ModifierKind, bool) {
	s = strings.TrimSpace(s)
	for k, name := range modifierNames {
		if name != "" && name == s {
			return ModifierKind(k), true
		}
	}
	return ModInvalid, false
}

// Modifier is one modifier keyword as written in the declaration.
type Modifier struct {
	Kind ModifierKind
	Span source.Span
}

// ParamModifierKind is a parameter modifier keyword.
type ParamModifierKind uint8

const (
	ParamModNone ParamModifierKind = iota
	ParamModThis
	ParamModRef
	ParamModOut
	ParamModIn
	ParamModParams
)

var paramModifierNames = [...]string{
	ParamModNone:   "",
	ParamModThis:   "this",
	ParamModRef:    "ref",
	ParamModOut:    "out",
	ParamModIn:     "in",
	ParamModParams: "params",
}

func (k ParamModifierKind) String() string {
	if int(k) < len(paramModifierNames) {
		return paramModifierNames[k]
	}
	return "unknown"
}

// ParseParamModifier maps a keyword to its ParamModifierKind.
func ParseParamModifier(s string) (ParamModifierKind, bool) {
	s = strings.TrimSpace(s)
	for k, name := range paramModifierNames {
		if name != "" && name == s {
			return ParamModifierKind(k), true
		}
	}
	return ParamModNone, false
}

// ParamModifier is one parameter modifier keyword as written.
type ParamModifier struct {
	Kind ParamModifierKind
	Span source.Span
}
