package codegen

import "github.com/Taly-projects/taly-lang/pkgs/ir"

// Compile runs the full codegen pipeline over a checked module's IR
// output: flatten away marker wrappers and resolved `.` access chains,
// then emit the flattened tree as a C header/source pair.
func Compile(out ir.Output) (*Project, error) {
	flattened := ir.Output{Includes: out.Includes, Body: Flatten(out.Body)}
	return NewEmitter().Generate(flattened)
}
