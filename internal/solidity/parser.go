package solidity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/0x0918/sstan/internal/model"
)

// SyntaxError reports where a file stopped parsing.
type SyntaxError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

type bailout struct{ err error }

type parser struct {
	path    string
	src     string
	toks    []token
	pos     int
	prevEnd int
	lines   []int
}

// Parse builds the syntax tree of one Solidity file.
func Parse(path string, src []byte) (*SourceUnit, error) {
	p, err := newParser(path, string(src))
	if err != nil {
		return nil, err
	}
	var unit *SourceUnit
	if err := p.guard(func() { unit = p.parseSourceUnit() }); err != nil {
		return nil, err
	}
	return unit, nil
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string) (Expression, error) {
	p, err := newParser("", src)
	if err != nil {
		return nil, err
	}
	var e Expression
	err = p.guard(func() {
		e = p.parseExpression()
		p.expectEOF()
	})
	return e, err
}

// ParseContractPart parses src as one contract member, such as an event,
// function or state variable.
func ParseContractPart(src string) (Node, error) {
	p, err := newParser("", src)
	if err != nil {
		return nil, err
	}
	var n Node
	err = p.guard(func() {
		n = p.parseContractPart()
		p.expectEOF()
	})
	return n, err
}

// ParseStatement parses src as one statement.
func ParseStatement(src string) (Statement, error) {
	p, err := newParser("", src)
	if err != nil {
		return nil, err
	}
	var s Statement
	err = p.guard(func() {
		s = p.parseStatement()
		p.expectEOF()
	})
	return s, err
}

func newParser(path, src string) (*parser, error) {
	toks, err := tokenize(src)
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.File = path
		}
		return nil, err
	}
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &parser{path: path, src: src, toks: toks, lines: lines}, nil
}

func (p *parser) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	fn()
	return nil
}

// token helpers

func (p *parser) tok() token { return p.peek(0) }

func (p *parser) peek(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (t token) is(text string) bool {
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) is(text string) bool { return p.tok().is(text) }

func (p *parser) advance() token {
	t := p.tok()
	if t.kind != tokEOF {
		p.pos++
	}
	p.prevEnd = t.end
	return t
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if !p.is(text) {
		p.fail("expected %q, found %s", text, describe(p.tok()))
	}
	return p.advance()
}

func (p *parser) expectEOF() {
	if p.tok().kind != tokEOF {
		p.fail("unexpected %s after end", describe(p.tok()))
	}
}

func (p *parser) ident() *Identifier {
	t := p.tok()
	if t.kind != tokIdent {
		p.fail("expected identifier, found %s", describe(t))
	}
	p.advance()
	id := &Identifier{Name: t.text}
	id.Loc = p.span(t.start, t.end)
	return id
}

func (p *parser) fail(format string, args ...any) {
	line, col := p.position(p.tok().start)
	panic(bailout{&SyntaxError{File: p.path, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}})
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokString, tokHexString, tokUnicodeString:
		return "string literal"
	}
	return fmt.Sprintf("%q", t.text)
}

func (p *parser) position(off int) (int, int) {
	i := sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > off }) - 1
	return i + 1, off - p.lines[i] + 1
}

func (p *parser) span(start, end int) model.Loc {
	sl, sc := p.position(start)
	el, ec := sl, sc
	if end > start {
		el, ec = p.position(end - 1)
	}
	return model.Loc{File: p.path, Start: start, End: end, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

func (p *parser) loc(start int) model.Loc { return p.span(start, p.prevEnd) }

// words that never name a variable
var reservedNames = map[string]bool{
	"memory": true, "storage": true, "calldata": true, "indexed": true,
	"public": true, "private": true, "internal": true, "external": true,
	"pure": true, "view": true, "payable": true, "constant": true,
	"immutable": true, "override": true, "virtual": true, "returns": true,
	"anonymous": true,
}

// words that never name a type
var reservedTypes = map[string]bool{
	"delete": true, "new": true, "return": true, "emit": true, "if": true,
	"else": true, "for": true, "while": true, "do": true, "break": true,
	"continue": true, "true": true, "false": true, "this": true, "super": true,
	"payable": true, "type": true, "revert": true, "assembly": true, "try": true,
}

var numberUnits = map[string]bool{
	"wei": true, "gwei": true, "ether": true, "szabo": true, "finney": true,
	"seconds": true, "minutes": true, "hours": true, "days": true, "weeks": true, "years": true,
}

func isElementaryName(s string) bool {
	switch s {
	case "address", "bool", "string", "bytes", "byte", "int", "uint", "fixed", "ufixed":
		return true
	}
	for _, prefix := range []string{"uint", "int", "bytes"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok && rest != "" && allDigits(rest) {
			return true
		}
	}
	for _, prefix := range []string{"ufixed", "fixed"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			m, n, found := strings.Cut(rest, "x")
			return found && allDigits(m) && allDigits(n) && m != "" && n != ""
		}
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isVisibility(s string) bool {
	return s == "public" || s == "private" || s == "internal" || s == "external"
}

func isMutability(s string) bool {
	return s == "pure" || s == "view" || s == "payable" || s == "constant"
}

func isStorage(s string) bool {
	return s == "memory" || s == "storage" || s == "calldata"
}

// source unit level

func (p *parser) parseSourceUnit() *SourceUnit {
	u := &SourceUnit{Path: p.path, Source: p.src}
	for p.tok().kind != tokEOF {
		u.Parts = append(u.Parts, p.parseSourceUnitPart())
	}
	u.Loc = p.span(0, len(p.src))
	return u
}

func (p *parser) parseSourceUnitPart() Node {
	switch t := p.tok(); {
	case t.is("pragma"):
		return p.parsePragma()
	case t.is("import"):
		return p.parseImport()
	case t.is("abstract"), t.is("contract"), t.is("interface"), t.is("library"):
		return p.parseContract()
	case t.is("function"):
		return p.parseFunction()
	}
	return p.parseContractPart()
}

func (p *parser) parsePragma() *PragmaDirective {
	start := p.expect("pragma").start
	name := p.advance()
	for !p.is(";") {
		if p.tok().kind == tokEOF {
			p.fail("unterminated pragma")
		}
		p.advance()
	}
	semi := p.advance()
	d := &PragmaDirective{Name: name.text, Value: strings.TrimSpace(p.src[name.end:semi.start])}
	d.Loc = p.loc(start)
	return d
}

func (p *parser) parseImport() *ImportDirective {
	start := p.expect("import").start
	d := &ImportDirective{}
	for !p.is(";") {
		t := p.tok()
		if t.kind == tokEOF {
			p.fail("unterminated import")
		}
		if t.kind == tokString && d.Path == "" {
			d.Path = t.text
		}
		p.advance()
	}
	p.advance()
	d.Loc = p.loc(start)
	return d
}

func (p *parser) parseContract() *ContractDefinition {
	start := p.tok().start
	c := &ContractDefinition{}
	c.Abstract = p.accept("abstract")
	c.Kind = ContractKind(p.advance().text)
	c.Name = p.ident()
	// inheritance and storage layout may come in either order, once each
specifiers:
	for seenBases := false; ; {
		switch {
		case p.is("is"):
			if seenBases {
				p.fail("duplicate inheritance list")
			}
			p.advance()
			seenBases = true
			c.Bases = p.parseBases()
		case p.is("layout") && p.peek(1).is("at"):
			if c.Layout != nil {
				p.fail("duplicate storage layout")
			}
			p.advance()
			p.advance()
			c.Layout = p.parseExpression()
		default:
			break specifiers
		}
	}
	p.expect("{")
	for !p.is("}") {
		if p.tok().kind == tokEOF {
			p.fail("unterminated %s %s", c.Kind, c.Name.Name)
		}
		c.Parts = append(c.Parts, p.parseContractPart())
	}
	p.advance()
	c.Loc = p.loc(start)
	return c
}

func (p *parser) parseBases() []*InheritanceSpecifier {
	var bases []*InheritanceSpecifier
	for {
		start := p.tok().start
		b := &InheritanceSpecifier{Name: p.parseIdentifierPath()}
		if p.is("(") {
			b.Args, _ = p.parseCallArgs()
		}
		b.Loc = p.loc(start)
		bases = append(bases, b)
		if !p.accept(",") {
			return bases
		}
	}
}

func (p *parser) parseIdentifierPath() Expression {
	start := p.tok().start
	var e Expression = p.ident()
	for p.is(".") {
		p.advance()
		m := p.ident()
		ma := &MemberAccess{Expr: e, Member: m.Name}
		ma.Loc = p.loc(start)
		e = ma
	}
	return e
}

func (p *parser) parseContractPart() Node {
	switch t := p.tok(); {
	case t.is("function"), t.is("constructor"), t.is("fallback") && p.peek(1).is("("), t.is("receive") && p.peek(1).is("("):
		return p.parseFunction()
	case t.is("modifier"):
		return p.parseModifier()
	case t.is("event"):
		return p.parseEvent()
	case t.is("error") && p.peek(1).kind == tokIdent && p.peek(2).is("("):
		return p.parseErrorDef()
	case t.is("struct"):
		return p.parseStruct()
	case t.is("enum"):
		return p.parseEnum()
	case t.is("using"):
		return p.parseUsing()
	case t.is("type") && p.peek(1).kind == tokIdent && p.peek(2).is("is"):
		return p.parseUserType()
	}
	return p.parseStateVariable()
}

func (p *parser) parseFunction() *FunctionDefinition {
	start := p.tok().start
	f := &FunctionDefinition{Kind: FuncFunction}
	switch p.advance().text {
	case "constructor":
		f.Kind = FuncConstructor
	case "fallback":
		f.Kind = FuncFallback
	case "receive":
		f.Kind = FuncReceive
	default:
		if p.tok().kind == tokIdent {
			f.Name = p.ident()
		} else {
			f.Kind = FuncFallback
		}
	}
	f.Params = p.parseParams(false)
loop:
	for {
		t := p.tok()
		switch {
		case t.kind != tokIdent:
			break loop
		case isVisibility(t.text):
			f.Visibility = p.advance().text
		case isMutability(t.text):
			f.Mutability = p.advance().text
		case t.text == "virtual":
			p.advance()
			f.Virtual = true
		case t.text == "override":
			p.advance()
			f.Override = true
			p.skipOverrideList()
		case t.text == "returns":
			p.advance()
			f.Returns = p.parseParams(false)
		default:
			f.Modifiers = append(f.Modifiers, p.parseModifierInvocation())
		}
	}
	if !p.accept(";") {
		f.Body = p.parseBlock()
	}
	f.Loc = p.loc(start)
	return f
}

func (p *parser) skipOverrideList() {
	if !p.accept("(") {
		return
	}
	for !p.accept(")") {
		p.parseIdentifierPath()
		if !p.is(")") {
			p.expect(",")
		}
	}
}

func (p *parser) parseModifierInvocation() *ModifierInvocation {
	start := p.tok().start
	m := &ModifierInvocation{Name: p.parseIdentifierPath()}
	if p.is("(") {
		m.Args, _ = p.parseCallArgs()
	}
	m.Loc = p.loc(start)
	return m
}

func (p *parser) parseModifier() *ModifierDefinition {
	start := p.expect("modifier").start
	m := &ModifierDefinition{Name: p.ident()}
	if p.is("(") {
		m.Params = p.parseParams(false)
	}
	for {
		if p.accept("virtual") {
			m.Virtual = true
			continue
		}
		if p.accept("override") {
			m.Override = true
			p.skipOverrideList()
			continue
		}
		break
	}
	if !p.accept(";") {
		m.Body = p.parseBlock()
	}
	m.Loc = p.loc(start)
	return m
}

func (p *parser) parseEvent() *EventDefinition {
	start := p.expect("event").start
	e := &EventDefinition{Name: p.ident()}
	e.Params = p.parseParams(true)
	e.Anonymous = p.accept("anonymous")
	p.expect(";")
	e.Loc = p.loc(start)
	return e
}

func (p *parser) parseErrorDef() *ErrorDefinition {
	start := p.expect("error").start
	e := &ErrorDefinition{Name: p.ident()}
	e.Params = p.parseParams(false)
	p.expect(";")
	e.Loc = p.loc(start)
	return e
}

func (p *parser) parseStruct() *StructDefinition {
	start := p.expect("struct").start
	s := &StructDefinition{Name: p.ident()}
	p.expect("{")
	for !p.accept("}") {
		s.Fields = append(s.Fields, p.parseVarDecl(false))
		p.expect(";")
	}
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseEnum() *EnumDefinition {
	start := p.expect("enum").start
	e := &EnumDefinition{Name: p.ident()}
	p.expect("{")
	for !p.accept("}") {
		e.Values = append(e.Values, p.ident())
		if !p.is("}") {
			p.expect(",")
		}
	}
	e.Loc = p.loc(start)
	return e
}

func (p *parser) parseUsing() *UsingDirective {
	start := p.expect("using").start
	libStart := p.tok().start
	depth := 0
	for depth > 0 || !p.is("for") {
		switch t := p.tok(); {
		case t.kind == tokEOF:
			p.fail("unterminated using directive")
		case t.is("{"):
			depth++
		case t.is("}"):
			depth--
		}
		p.advance()
	}
	forTok := p.advance()
	u := &UsingDirective{Library: strings.TrimSpace(p.src[libStart:forTok.start])}
	for !p.is(";") {
		if p.tok().kind == tokEOF {
			p.fail("unterminated using directive")
		}
		p.advance()
	}
	semi := p.advance()
	u.Target = strings.TrimSpace(p.src[forTok.end:semi.start])
	u.Loc = p.loc(start)
	return u
}

func (p *parser) parseUserType() *UserDefinedValueType {
	start := p.expect("type").start
	u := &UserDefinedValueType{Name: p.ident()}
	p.expect("is")
	u.Underlying = p.parseTypeName()
	p.expect(";")
	u.Loc = p.loc(start)
	return u
}

func (p *parser) parseStateVariable() *StateVariableDeclaration {
	start := p.tok().start
	v := &StateVariableDeclaration{Type: p.parseTypeName()}
loop:
	for {
		t := p.tok()
		switch {
		case t.kind != tokIdent:
			break loop
		case isVisibility(t.text):
			v.Visibility = p.advance().text
		case t.text == "constant":
			p.advance()
			v.Constant = true
		case t.text == "immutable":
			p.advance()
			v.Immutable = true
		case t.text == "override":
			p.advance()
			v.Override = true
			p.skipOverrideList()
		case t.text == "transient":
			p.advance()
		default:
			break loop
		}
	}
	v.Name = p.ident()
	if p.accept("=") {
		v.Initial = p.parseExpression()
	}
	p.expect(";")
	v.Loc = p.loc(start)
	return v
}

func (p *parser) parseParams(allowIndexed bool) []*VariableDeclaration {
	p.expect("(")
	var params []*VariableDeclaration
	for !p.accept(")") {
		params = append(params, p.parseVarDecl(allowIndexed))
		if !p.is(")") {
			p.expect(",")
		}
	}
	return params
}

func (p *parser) parseVarDecl(allowIndexed bool) *VariableDeclaration {
	start := p.tok().start
	d := &VariableDeclaration{Type: p.parseTypeName()}
	for {
		t := p.tok()
		if t.kind == tokIdent && isStorage(t.text) {
			d.Storage = p.advance().text
			continue
		}
		if allowIndexed && t.is("indexed") {
			p.advance()
			d.Indexed = true
			continue
		}
		break
	}
	if t := p.tok(); t.kind == tokIdent && !reservedNames[t.text] {
		d.Name = p.ident()
	}
	d.Loc = p.loc(start)
	return d
}

// types

func (p *parser) parseTypeName() TypeName {
	start := p.tok().start
	var t TypeName
	switch tk := p.tok(); {
	case tk.is("mapping"):
		t = p.parseMapping()
	case tk.is("function"):
		t = p.parseFunctionType()
	case tk.kind == tokIdent && isElementaryName(tk.text):
		t = p.parseElementaryType()
	case tk.kind == tokIdent && !reservedTypes[tk.text]:
		u := &UserDefinedTypeName{Path: []string{p.advance().text}}
		for p.is(".") && p.peek(1).kind == tokIdent {
			p.advance()
			u.Path = append(u.Path, p.advance().text)
		}
		u.Loc = p.loc(start)
		t = u
	default:
		p.fail("expected type name, found %s", describe(tk))
	}
	for p.is("[") {
		p.advance()
		arr := &ArrayTypeName{Base: t}
		if !p.is("]") {
			arr.Length = p.parseExpression()
		}
		p.expect("]")
		arr.Loc = p.loc(start)
		t = arr
	}
	return t
}

func (p *parser) parseElementaryType() *ElementaryTypeName {
	start := p.tok().start
	et := &ElementaryTypeName{Name: p.advance().text}
	if et.Name == "address" && p.accept("payable") {
		et.Payable = true
	}
	et.Loc = p.loc(start)
	return et
}

func (p *parser) parseMapping() *MappingTypeName {
	start := p.expect("mapping").start
	p.expect("(")
	m := &MappingTypeName{Key: p.parseTypeName()}
	if p.tok().kind == tokIdent {
		p.advance()
	}
	p.expect("=>")
	m.Value = p.parseTypeName()
	if p.tok().kind == tokIdent {
		p.advance()
	}
	p.expect(")")
	m.Loc = p.loc(start)
	return m
}

func (p *parser) parseFunctionType() *FunctionTypeName {
	start := p.expect("function").start
	f := &FunctionTypeName{Params: p.parseParams(false)}
	for {
		t := p.tok()
		switch {
		case t.kind == tokIdent && isVisibility(t.text):
			f.Visibility = p.advance().text
			continue
		case t.kind == tokIdent && isMutability(t.text):
			f.Mutability = p.advance().text
			continue
		case t.is("returns"):
			p.advance()
			f.Returns = p.parseParams(false)
		}
		break
	}
	f.Loc = p.loc(start)
	return f
}

// statements

func (p *parser) parseBlock() *Block {
	start := p.tok().start
	b := &Block{Unchecked: p.accept("unchecked")}
	p.expect("{")
	for !p.is("}") {
		if p.tok().kind == tokEOF {
			p.fail("unterminated block")
		}
		b.Statements = append(b.Statements, p.parseStatement())
	}
	p.advance()
	b.Loc = p.loc(start)
	return b
}

func (p *parser) parseStatement() Statement {
	t := p.tok()
	start := t.start
	switch {
	case t.is("{"), t.is("unchecked") && p.peek(1).is("{"):
		return p.parseBlock()
	case t.is("if"):
		p.advance()
		s := &IfStatement{}
		p.expect("(")
		s.Cond = p.parseExpression()
		p.expect(")")
		s.Then = p.parseStatement()
		if p.accept("else") {
			s.Else = p.parseStatement()
		}
		s.Loc = p.loc(start)
		return s
	case t.is("for"):
		return p.parseFor()
	case t.is("while"):
		p.advance()
		s := &WhileStatement{}
		p.expect("(")
		s.Cond = p.parseExpression()
		p.expect(")")
		s.Body = p.parseStatement()
		s.Loc = p.loc(start)
		return s
	case t.is("do"):
		p.advance()
		s := &DoWhileStatement{Body: p.parseStatement()}
		p.expect("while")
		p.expect("(")
		s.Cond = p.parseExpression()
		p.expect(")")
		p.expect(";")
		s.Loc = p.loc(start)
		return s
	case t.is("return"):
		p.advance()
		s := &ReturnStatement{}
		if !p.is(";") {
			s.Value = p.parseExpression()
		}
		p.expect(";")
		s.Loc = p.loc(start)
		return s
	case t.is("emit"):
		p.advance()
		s := &EmitStatement{Call: p.parseExpression()}
		p.expect(";")
		s.Loc = p.loc(start)
		return s
	case t.is("revert") && p.peek(1).kind == tokIdent:
		p.advance()
		s := &RevertStatement{Call: p.parseExpression()}
		p.expect(";")
		s.Loc = p.loc(start)
		return s
	case t.is("break"), t.is("continue"):
		p.advance()
		p.expect(";")
		if t.text == "break" {
			s := &BreakStatement{}
			s.Loc = p.loc(start)
			return s
		}
		s := &ContinueStatement{}
		s.Loc = p.loc(start)
		return s
	case t.is("_") && p.peek(1).is(";"):
		p.advance()
		p.advance()
		s := &PlaceholderStatement{}
		s.Loc = p.loc(start)
		return s
	case t.is("assembly"):
		return p.parseAssembly()
	case t.is("try"):
		return p.parseTry()
	}
	return p.parseSimpleStatement()
}

func (p *parser) parseFor() *ForStatement {
	start := p.expect("for").start
	s := &ForStatement{}
	p.expect("(")
	if !p.accept(";") {
		s.Init = p.parseSimpleStatement()
	}
	if !p.is(";") {
		s.Cond = p.parseExpression()
	}
	p.expect(";")
	if !p.is(")") {
		s.Update = p.parseExpression()
	}
	p.expect(")")
	s.Body = p.parseStatement()
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseAssembly() *AssemblyStatement {
	start := p.expect("assembly").start
	s := &AssemblyStatement{}
	if t := p.tok(); t.kind == tokString {
		s.Dialect = p.advance().text
	}
	if p.accept("(") {
		for !p.accept(")") {
			if p.tok().kind == tokEOF {
				p.fail("unterminated assembly flags")
			}
			p.advance()
		}
	}
	open := p.expect("{")
	for depth := 1; depth > 0; {
		t := p.advance()
		switch {
		case t.kind == tokEOF:
			p.fail("unterminated assembly block")
		case t.is("{"):
			depth++
		case t.is("}"):
			depth--
		}
	}
	s.Body = p.src[open.start:p.prevEnd]
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseTry() *TryStatement {
	start := p.expect("try").start
	s := &TryStatement{Call: p.parseExpression()}
	if p.accept("returns") {
		s.Returns = p.parseParams(false)
	}
	s.Body = p.parseBlock()
	for p.is("catch") {
		cstart := p.advance().start
		c := &CatchClause{}
		if t := p.tok(); t.kind == tokIdent {
			c.Kind = p.advance().text
		}
		if p.is("(") {
			c.Params = p.parseParams(false)
		}
		c.Body = p.parseBlock()
		c.Loc = p.loc(cstart)
		s.Catches = append(s.Catches, c)
	}
	s.Loc = p.loc(start)
	return s
}

func (p *parser) parseSimpleStatement() Statement {
	start := p.tok().start
	if decl, ok := p.tryVarDeclStatement(start); ok {
		return decl
	}
	s := &ExpressionStatement{Expression: p.parseExpression()}
	p.expect(";")
	s.Loc = p.loc(start)
	return s
}

// tryVarDeclStatement speculatively parses a local declaration and rewinds
// when the tokens turn out to be an expression.
func (p *parser) tryVarDeclStatement(start int) (*VariableDeclarationStatement, bool) {
	pos, prevEnd := p.pos, p.prevEnd
	var s *VariableDeclarationStatement
	if err := p.guard(func() { s = p.parseVarDeclStatement(start) }); err != nil {
		p.pos, p.prevEnd = pos, prevEnd
		return nil, false
	}
	return s, true
}

func (p *parser) parseVarDeclStatement(start int) *VariableDeclarationStatement {
	s := &VariableDeclarationStatement{}
	if p.accept("(") {
		for !p.is(")") {
			if p.accept(",") {
				s.Declarations = append(s.Declarations, nil)
				if p.is(")") {
					s.Declarations = append(s.Declarations, nil)
				}
				continue
			}
			d := p.parseVarDecl(false)
			if d.Name == nil {
				p.fail("not a declaration")
			}
			s.Declarations = append(s.Declarations, d)
			if !p.is(")") {
				p.expect(",")
				if p.is(")") {
					s.Declarations = append(s.Declarations, nil)
				}
			}
		}
		p.expect(")")
		p.expect("=")
		s.Initial = p.parseExpression()
	} else {
		d := p.parseVarDecl(false)
		if d.Name == nil {
			p.fail("not a declaration")
		}
		s.Declarations = []*VariableDeclaration{d}
		if p.accept("=") {
			s.Initial = p.parseExpression()
		}
	}
	p.expect(";")
	s.Loc = p.loc(start)
	return s
}

// expressions

var assignOps = map[string]bool{
	"=": true, "|=": true, "^=": true, "&=": true, "<<=": true, ">>=": true, ">>>=": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"|":  5,
	"^":  6,
	"&":  7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

func (p *parser) parseExpression() Expression {
	start := p.tok().start
	left := p.parseConditional()
	if t := p.tok(); t.kind == tokPunct && assignOps[t.text] {
		p.advance()
		a := &Assignment{Op: t.text, Left: left, Right: p.parseExpression()}
		a.Loc = p.loc(start)
		return a
	}
	return left
}

func (p *parser) parseConditional() Expression {
	start := p.tok().start
	cond := p.parseBinary(1)
	if !p.accept("?") {
		return cond
	}
	c := &Conditional{Cond: cond, True: p.parseExpression()}
	p.expect(":")
	c.False = p.parseExpression()
	c.Loc = p.loc(start)
	return c
}

func (p *parser) parseBinary(minPrec int) Expression {
	start := p.tok().start
	left := p.parseUnary()
	for {
		t := p.tok()
		prec, ok := binaryPrec[t.text]
		if t.kind != tokPunct || !ok || prec < minPrec {
			return left
		}
		p.advance()
		next := prec + 1
		if t.text == "**" {
			next = prec
		}
		b := &BinaryOperation{Op: t.text, Left: left, Right: p.parseBinary(next)}
		b.Loc = p.loc(start)
		left = b
	}
}

func (p *parser) parseUnary() Expression {
	t := p.tok()
	prefix := t.kind == tokPunct && (t.text == "!" || t.text == "~" || t.text == "-" || t.text == "++" || t.text == "--")
	if prefix || t.is("delete") {
		p.advance()
		u := &UnaryOperation{Op: t.text, Prefix: true, Operand: p.parseUnary()}
		u.Loc = p.loc(t.start)
		return u
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() Expression {
	start := p.tok().start
	e := p.parsePrimary()
	for {
		t := p.tok()
		if t.kind != tokPunct {
			return e
		}
		switch t.text {
		case ".":
			p.advance()
			m := p.tok()
			if m.kind != tokIdent {
				p.fail("expected member name, found %s", describe(m))
			}
			p.advance()
			ma := &MemberAccess{Expr: e, Member: m.text}
			ma.Loc = p.loc(start)
			e = ma
		case "[":
			p.advance()
			var first Expression
			if !p.is(":") && !p.is("]") {
				first = p.parseExpression()
			}
			if p.accept(":") {
				r := &IndexRangeAccess{Base: e, Start: first}
				if !p.is("]") {
					r.End = p.parseExpression()
				}
				p.expect("]")
				r.Loc = p.loc(start)
				e = r
				continue
			}
			p.expect("]")
			ia := &IndexAccess{Base: e, Index: first}
			ia.Loc = p.loc(start)
			e = ia
		case "(":
			args, names := p.parseCallArgs()
			c := &FunctionCall{Callee: e, Args: args, Names: names}
			c.Loc = p.loc(start)
			e = c
		case "{":
			if p.peek(1).kind != tokIdent || !p.peek(2).is(":") {
				return e
			}
			o := &FunctionCallOptions{Callee: e}
			p.advance()
			for !p.accept("}") {
				o.Names = append(o.Names, p.ident().Name)
				p.expect(":")
				o.Values = append(o.Values, p.parseExpression())
				if !p.is("}") {
					p.expect(",")
				}
			}
			o.Loc = p.loc(start)
			e = o
		case "++", "--":
			p.advance()
			u := &UnaryOperation{Op: t.text, Operand: e}
			u.Loc = p.loc(start)
			e = u
		default:
			return e
		}
	}
}

func (p *parser) parseCallArgs() ([]Expression, []string) {
	p.expect("(")
	var args []Expression
	var names []string
	if p.accept("{") {
		for !p.accept("}") {
			names = append(names, p.ident().Name)
			p.expect(":")
			args = append(args, p.parseExpression())
			if !p.is("}") {
				p.expect(",")
			}
		}
		p.expect(")")
		return args, names
	}
	for !p.accept(")") {
		args = append(args, p.parseExpression())
		if !p.is(")") {
			p.expect(",")
		}
	}
	return args, nil
}

func (p *parser) parsePrimary() Expression {
	t := p.tok()
	start := t.start
	switch t.kind {
	case tokNumber, tokHexNumber:
		p.advance()
		lit := &Literal{Kind: LitNumber, Value: t.text}
		if t.kind == tokHexNumber {
			lit.Kind = LitHexNumber
		}
		if u := p.tok(); u.kind == tokIdent && numberUnits[u.text] {
			lit.Unit = p.advance().text
		}
		lit.Loc = p.loc(start)
		return lit
	case tokString, tokHexString, tokUnicodeString:
		var b strings.Builder
		for p.tok().kind == t.kind {
			b.WriteString(p.advance().text)
		}
		kind := LitString
		switch t.kind {
		case tokHexString:
			kind = LitHexString
		case tokUnicodeString:
			kind = LitUnicode
		}
		lit := &Literal{Kind: kind, Value: b.String()}
		lit.Loc = p.loc(start)
		return lit
	case tokIdent:
		switch {
		case t.text == "true" || t.text == "false":
			p.advance()
			lit := &Literal{Kind: LitBool, Value: t.text}
			lit.Loc = p.loc(start)
			return lit
		case t.text == "new":
			p.advance()
			n := &NewExpression{Type: p.parseTypeName()}
			n.Loc = p.loc(start)
			return n
		case t.text == "payable" && p.peek(1).is("("):
			p.advance()
			et := &ElementaryTypeName{Name: "address", Payable: true}
			et.Loc = p.loc(start)
			return &ElementaryTypeExpression{span: et.span, Type: et}
		case isElementaryName(t.text):
			p.advance()
			et := &ElementaryTypeName{Name: t.text}
			et.Loc = p.loc(start)
			return &ElementaryTypeExpression{span: et.span, Type: et}
		}
		return p.ident()
	case tokPunct:
		switch t.text {
		case "(":
			return p.parseTuple()
		case "[":
			p.advance()
			tup := &TupleExpression{IsArray: true}
			for !p.accept("]") {
				tup.Components = append(tup.Components, p.parseExpression())
				if !p.is("]") {
					p.expect(",")
				}
			}
			tup.Loc = p.loc(start)
			return tup
		}
	}
	p.fail("unexpected %s in expression", describe(t))
	return nil
}

func (p *parser) parseTuple() *TupleExpression {
	start := p.expect("(").start
	tup := &TupleExpression{}
	for !p.is(")") {
		if p.accept(",") {
			tup.Components = append(tup.Components, nil)
			if p.is(")") {
				tup.Components = append(tup.Components, nil)
			}
			continue
		}
		tup.Components = append(tup.Components, p.parseExpression())
		if !p.is(")") {
			p.expect(",")
			if p.is(")") {
				tup.Components = append(tup.Components, nil)
			}
		}
	}
	p.advance()
	tup.Loc = p.loc(start)
	return tup
}
