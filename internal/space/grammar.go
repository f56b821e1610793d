package space

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type declaration struct {
	Pos        lexer.Position
	Name       string      `parser:"'space' @Ident"`
	Key        *field      `parser:"'key' @@"`
	Attributes []*field    `parser:"( ( 'attributes' | 'attribute' ) @@ ( ',' @@ )* )?"`
	Subspaces  []*subspace `parser:"@@*"`
	Partitions *int        `parser:"( 'create' @Int 'partitions' )?"`
	Failures   *int        `parser:"( 'tolerate' @Int 'failures' )?"`
}

type field struct {
	Pos  lexer.Position
	Type *typeExpr `parser:"@@?"`
	Name string    `parser:"@Ident"`
}

type typeExpr struct {
	List *primitive `parser:"  'list' '(' @@ ')'"`
	Set  *primitive `parser:"| 'set' '(' @@ ')'"`
	Map  *mapExpr   `parser:"| 'map' '(' @@ ')'"`
	Prim *primitive `parser:"| @@"`
}

type mapExpr struct {
	Key   *primitive `parser:"@@ ','"`
	Value *primitive `parser:"@@"`
}

type primitive struct {
	Name string `parser:"@( 'string' | 'int64' | 'int' | 'float' )"`
}

type subspace struct {
	Pos   lexer.Position
	Names []string `parser:"'subspace' @Ident ( ',' @Ident )*"`
}

var declLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `[ \r\n\t]+`},
})

var declParser = participle.MustBuild[declaration](
	participle.Lexer(declLexer),
	participle.Elide("Whitespace"),
)
