package common

// Config is the compiler's build configuration, threaded from the CLI
// driver down into the code generator. Grounded on cjo5-dingo's
// BuildConfig: a small flat struct of options rather than a config
// file format, since Cata's only configurable surface is its CLI.
type Config struct {
	// Output is the path IR (or, with EmitObject, an object file) is
	// written to. Empty means stdout for IR, and the input path with its
	// ".cata" suffix replaced by ".o" for an object file.
	Output string
	// EmitObject selects native object-code emission via the target
	// machine instead of printing textual IR.
	EmitObject bool
	// Verbose prints a single line to stderr after parsing, giving the
	// number of top-level forms parsed; nothing is printed per form.
	// Mirrors the teacher's -verbose flag.
	Verbose bool
	// DumpIR prints the whole module's textual IR to stderr once, after
	// every form has been lowered, mirroring the teacher's -dump-llvm-ir.
	DumpIR bool
	// Triple overrides the target triple; empty means the host's
	// default triple.
	Triple string
}

// NewConfig returns a Config with the host default triple and textual
// IR output.
func NewConfig() *Config {
	return &Config{}
}
