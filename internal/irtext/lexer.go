// Package irtext reads and writes the flat textual form ir.Print emits:
// one function per "func NAME(...) TYPE { ... }" block, one instruction
// per line. It exists so simplification runs can be driven from fixture
// files and the CLI instead of only from hand-built ir.Function values.
package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// irLexer tokenizes the textual form. Order matters: Arrow and Reg/Sym
// must be tried before Ident/Integer swallow their prefix characters.
var irLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Arrow", `->`, nil},
		{"Reg", `%[a-zA-Z]+[0-9]+`, nil},
		{"Sym", `@[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Punct", `[{}\[\]()\,:=+.*]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
