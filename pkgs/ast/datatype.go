package ast

import "strings"

// NoPtrPrefix instructs the emitter to suppress the implicit pointer
// decoration it otherwise applies to user-defined class types. The IR
// generator prefixes a class's own storage type with this when it needs
// the *value* layout (e.g. `malloc(sizeof(_NOPTR_OwningClass))`).
const NoPtrPrefix = "_NOPTR_"

// DataTypeKind distinguishes the two DataType shapes the language has.
type DataTypeKind int

const (
	TypeCustom DataTypeKind = iota
	TypeFunction
)

// DataType is `Custom(String)` or `Function{return?, params[]}`.
type DataType struct {
	Kind    DataTypeKind
	Custom  string      // set when Kind == TypeCustom
	Return  *DataType   // set when Kind == TypeFunction (nil means no return type)
	Params  []DataType  // set when Kind == TypeFunction
}

// Custom builds a named/custom DataType.
func Custom(name string) DataType { return DataType{Kind: TypeCustom, Custom: name} }

// Function builds a function DataType.
func Function(ret *DataType, params []DataType) DataType {
	return DataType{Kind: TypeFunction, Return: ret, Params: params}
}

// WithNoPtr returns the _NOPTR_-prefixed form of a custom type name.
func WithNoPtr(t DataType) DataType {
	if t.Kind != TypeCustom || strings.HasPrefix(t.Custom, NoPtrPrefix) {
		return t
	}
	return Custom(NoPtrPrefix + t.Custom)
}

// IsNoPtr reports whether t is a _NOPTR_-prefixed custom type.
func IsNoPtr(t DataType) bool {
	return t.Kind == TypeCustom && strings.HasPrefix(t.Custom, NoPtrPrefix)
}

// StripNoPtr removes a _NOPTR_ prefix if present.
func StripNoPtr(t DataType) DataType {
	if !IsNoPtr(t) {
		return t
	}
	return Custom(strings.TrimPrefix(t.Custom, NoPtrPrefix))
}

// cAliases pairs source-level primitive spellings with their C-side alias;
// the checker treats either spelling of a pair as equivalent in either
// direction.
var cAliases = map[string]string{
	"String": "c_string",
	"c_string": "String",
	"I32":    "c_int",
	"c_int":  "I32",
	"F32":    "c_float",
	"c_float": "F32",
}

// EquivalentTypes reports whether a and b name the same type, treating the
// (c_string,String), (c_int,I32), (c_float,F32) pairs as interchangeable in
// either direction. Function types are not compared structurally; the
// checker treats function-typed values as opaque.
func EquivalentTypes(a, b DataType) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == TypeFunction {
		return false
	}
	if a.Custom == b.Custom {
		return true
	}
	return cAliases[a.Custom] == b.Custom
}

// String renders a DataType for diagnostics.
func (t DataType) String() string {
	if t.Kind == TypeCustom {
		return t.Custom
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return "fn(" + strings.Join(parts, ", ") + "): " + ret
}
