package types

import "fmt"

// maxLabelDepth bounds Elem chains; deeper wrappers print as "...".
const maxLabelDepth = 6

// Label renders id the way signatures are printed: "int32", "List?[]",
// "<error>" for failed bindings and "?" for missing types.
func Label(in *Interner, id TypeID) string {
	return label(in, id, 0)
}

func label(in *Interner, id TypeID, depth int) string {
	if depth > maxLabelDepth {
		return "..."
	}
	tt, ok := Type{}, false
	if in != nil {
		tt, ok = in.Lookup(id)
	}
	if !ok {
		return "?"
	}
	if tt.Kind.HasElem() {
		suffix := "[]"
		if tt.Kind == KindNullable {
			suffix = "?"
		}
		return label(in, tt.Elem, depth+1) + suffix
	}
	switch tt.Kind {
	case KindError:
		return "<error>"
	case KindInt, KindUint, KindFloat:
		if tt.Width == WidthAny {
			return tt.Kind.String()
		}
		return fmt.Sprintf("%s%d", tt.Kind, tt.Width)
	case KindNamed, KindTypeParam:
		if in.strings != nil {
			if name, ok := in.strings.Lookup(tt.Name); ok && name != "" {
				return name
			}
		}
		if tt.Kind == KindTypeParam {
			return fmt.Sprintf("!%d", tt.Index)
		}
		return fmt.Sprintf("named#%d", tt.Name)
	}
	return tt.Kind.String()
}
