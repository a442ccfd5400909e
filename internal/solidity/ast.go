package solidity

import "github.com/0x0918/sstan/internal/model"

// Node is any syntax node. Every node knows the span it was parsed from.
type Node interface {
	Location() model.Loc
}

// Expression nodes.
type Expression interface {
	Node
	exprNode()
}

// Statement nodes.
type Statement interface {
	Node
	stmtNode()
}

// TypeName nodes.
type TypeName interface {
	Node
	typeNode()
}

type span struct {
	Loc model.Loc
}

func (s *span) Location() model.Loc { return s.Loc }

// SourceUnit is the tree of one file.
type SourceUnit struct {
	span
	Path   string
	Source string
	Parts  []Node
}

type PragmaDirective struct {
	span
	Name  string
	Value string
}

type ImportDirective struct {
	span
	Path string
}

// UsingDirective keeps the library and target as written.
type UsingDirective struct {
	span
	Library string
	Target  string
}

type ContractKind string

const (
	KindContract  ContractKind = "contract"
	KindInterface ContractKind = "interface"
	KindLibrary   ContractKind = "library"
)

type ContractDefinition struct {
	span
	Kind     ContractKind
	Abstract bool
	Name     *Identifier
	Bases    []*InheritanceSpecifier
	Layout   Expression // `layout at <expr>`, nil when absent
	Parts    []Node
}

type InheritanceSpecifier struct {
	span
	Name Expression
	Args []Expression
}

type StructDefinition struct {
	span
	Name   *Identifier
	Fields []*VariableDeclaration
}

type EnumDefinition struct {
	span
	Name   *Identifier
	Values []*Identifier
}

type EventDefinition struct {
	span
	Name      *Identifier
	Params    []*VariableDeclaration
	Anonymous bool
}

type ErrorDefinition struct {
	span
	Name   *Identifier
	Params []*VariableDeclaration
}

type UserDefinedValueType struct {
	span
	Name       *Identifier
	Underlying TypeName
}

type FunctionKind string

const (
	FuncFunction    FunctionKind = "function"
	FuncConstructor FunctionKind = "constructor"
	FuncFallback    FunctionKind = "fallback"
	FuncReceive     FunctionKind = "receive"
)

type FunctionDefinition struct {
	span
	Kind       FunctionKind
	Name       *Identifier // nil for constructor, fallback and receive
	Params     []*VariableDeclaration
	Returns    []*VariableDeclaration
	Visibility string
	Mutability string
	Virtual    bool
	Override   bool
	Modifiers  []*ModifierInvocation
	Body       *Block // nil when unimplemented
}

// FuncName returns the declared name, or the kind for unnamed functions.
func (f *FunctionDefinition) FuncName() string {
	if f.Name != nil {
		return f.Name.Name
	}
	return string(f.Kind)
}

type ModifierDefinition struct {
	span
	Name     *Identifier
	Params   []*VariableDeclaration
	Virtual  bool
	Override bool
	Body     *Block
}

type ModifierInvocation struct {
	span
	Name Expression
	Args []Expression
}

type StateVariableDeclaration struct {
	span
	Type       TypeName
	Name       *Identifier
	Visibility string
	Constant   bool
	Immutable  bool
	Override   bool
	Initial    Expression
}

// VariableDeclaration is a parameter, struct field, return value or local.
type VariableDeclaration struct {
	span
	Type    TypeName
	Storage string
	Indexed bool
	Name    *Identifier // nil when unnamed
}

// Types

type ElementaryTypeName struct {
	span
	Name    string
	Payable bool
}

type UserDefinedTypeName struct {
	span
	Path []string
}

type MappingTypeName struct {
	span
	Key   TypeName
	Value TypeName
}

type ArrayTypeName struct {
	span
	Base   TypeName
	Length Expression
}

type FunctionTypeName struct {
	span
	Params     []*VariableDeclaration
	Returns    []*VariableDeclaration
	Visibility string
	Mutability string
}

func (*ElementaryTypeName) typeNode()  {}
func (*UserDefinedTypeName) typeNode() {}
func (*MappingTypeName) typeNode()     {}
func (*ArrayTypeName) typeNode()       {}
func (*FunctionTypeName) typeNode()    {}

// Statements

type Block struct {
	span
	Statements []Statement
	Unchecked  bool
}

type VariableDeclarationStatement struct {
	span
	Declarations []*VariableDeclaration // nil entries are tuple holes
	Initial      Expression
}

type ExpressionStatement struct {
	span
	Expression Expression
}

type IfStatement struct {
	span
	Cond Expression
	Then Statement
	Else Statement
}

type ForStatement struct {
	span
	Init   Statement
	Cond   Expression
	Update Expression
	Body   Statement
}

type WhileStatement struct {
	span
	Cond Expression
	Body Statement
}

type DoWhileStatement struct {
	span
	Body Statement
	Cond Expression
}

type ReturnStatement struct {
	span
	Value Expression
}

type EmitStatement struct {
	span
	Call Expression
}

// RevertStatement is `revert CustomError(...)`; `revert("reason")` parses
// as a call expression.
type RevertStatement struct {
	span
	Call Expression
}

type BreakStatement struct{ span }

type ContinueStatement struct{ span }

type PlaceholderStatement struct{ span }

// AssemblyStatement keeps inline assembly as raw text.
type AssemblyStatement struct {
	span
	Dialect string
	Body    string
}

type TryStatement struct {
	span
	Call    Expression
	Returns []*VariableDeclaration
	Body    *Block
	Catches []*CatchClause
}

type CatchClause struct {
	span
	Kind   string
	Params []*VariableDeclaration
	Body   *Block
}

func (*Block) stmtNode()                        {}
func (*VariableDeclarationStatement) stmtNode() {}
func (*ExpressionStatement) stmtNode()          {}
func (*IfStatement) stmtNode()                  {}
func (*ForStatement) stmtNode()                 {}
func (*WhileStatement) stmtNode()               {}
func (*DoWhileStatement) stmtNode()             {}
func (*ReturnStatement) stmtNode()              {}
func (*EmitStatement) stmtNode()                {}
func (*RevertStatement) stmtNode()              {}
func (*BreakStatement) stmtNode()               {}
func (*ContinueStatement) stmtNode()            {}
func (*PlaceholderStatement) stmtNode()         {}
func (*AssemblyStatement) stmtNode()            {}
func (*TryStatement) stmtNode()                 {}

// Expressions

type Identifier struct {
	span
	Name string
}

type LiteralKind string

const (
	LitNumber    LiteralKind = "number"
	LitHexNumber LiteralKind = "hexNumber"
	LitString    LiteralKind = "string"
	LitHexString LiteralKind = "hexString"
	LitUnicode   LiteralKind = "unicodeString"
	LitBool      LiteralKind = "bool"
)

// Literal holds the raw token text in Value; for strings Value is the
// decoded content.
type Literal struct {
	span
	Kind  LiteralKind
	Value string
	Unit  string
}

type MemberAccess struct {
	span
	Expr   Expression
	Member string
}

type IndexAccess struct {
	span
	Base  Expression
	Index Expression // nil for `T[]`
}

type IndexRangeAccess struct {
	span
	Base  Expression
	Start Expression
	End   Expression
}

type FunctionCall struct {
	span
	Callee Expression
	Args   []Expression
	Names  []string // set for named-argument calls
}

type FunctionCallOptions struct {
	span
	Callee Expression
	Names  []string
	Values []Expression
}

type UnaryOperation struct {
	span
	Op      string
	Prefix  bool
	Operand Expression
}

type BinaryOperation struct {
	span
	Op    string
	Left  Expression
	Right Expression
}

type Assignment struct {
	span
	Op    string
	Left  Expression
	Right Expression
}

type Conditional struct {
	span
	Cond  Expression
	True  Expression
	False Expression
}

// TupleExpression covers parenthesised expressions, tuples and inline
// arrays. Components may hold nil for omitted entries.
type TupleExpression struct {
	span
	Components []Expression
	IsArray    bool
}

type NewExpression struct {
	span
	Type TypeName
}

// ElementaryTypeExpression is an elementary type used as a value, as in
// `address(0)` or `abi.decode(data, (uint256))`.
type ElementaryTypeExpression struct {
	span
	Type *ElementaryTypeName
}

func (*Identifier) exprNode()               {}
func (*Literal) exprNode()                  {}
func (*MemberAccess) exprNode()             {}
func (*IndexAccess) exprNode()              {}
func (*IndexRangeAccess) exprNode()         {}
func (*FunctionCall) exprNode()             {}
func (*FunctionCallOptions) exprNode()      {}
func (*UnaryOperation) exprNode()           {}
func (*BinaryOperation) exprNode()          {}
func (*Assignment) exprNode()               {}
func (*Conditional) exprNode()              {}
func (*TupleExpression) exprNode()          {}
func (*NewExpression) exprNode()            {}
func (*ElementaryTypeExpression) exprNode() {}

// Text returns the source text a node was parsed from.
func (u *SourceUnit) Text(n Node) string {
	loc := n.Location()
	if loc.Start < 0 || loc.End > len(u.Source) || loc.Start > loc.End {
		return ""
	}
	return u.Source[loc.Start:loc.End]
}
