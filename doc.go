// Package fex implements a small field-extraction language.
//
// A pattern alternates between selecting fields and choosing the next
// separator to split them on, like a chain of cut invocations in one
// string:
//
//	3        third whitespace-separated field
//	{1,3}    fields 1 and 3, rejoined with the active separator
//	{2:4}    fields 2 through 4
//	,2       split on ',' and take the second field
//	2,1:3    field 2, split it on ',', take the first, split on ':', take the third
//	/re/     regex selector (a no-op unless RegexFilter is set)
//
// A pattern that starts with a digit or '{' first splits the line on
// single spaces. Field indices are 1-based.
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := fex.Run([]string{"1", "{2:3}"}, strings.NewReader("a b c"), nil)
//	// output: "a\nb c\n"
//
// # Compiled Programs
//
// For repeated application of the same pattern:
//
//	prog, err := fex.Compile(":1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	user, err := prog.Apply("root:x:0:0")
//
// # Configuration
//
// The [Config] type controls the output separator, regex selector mode,
// out-of-range handling, parallelism and logging.
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: malformed patterns
//   - [CompileError]: well-formed patterns that can never run, such as index 0
//   - [RuntimeError]: out-of-range selections and I/O failures
//
// # Thread Safety
//
// Compiled [Program] objects are safe for concurrent use.
package fex
