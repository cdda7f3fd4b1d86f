// Package parser turns a token stream into the ast package's node
// surface. Front-end machinery: spec.md treats parsing as an opaque
// collaborator, but the module ships a parser covering exactly the
// restricted grammar spec.md §6 accepts, so the lowering engine is
// exercisable end to end.
package parser

import (
	"fmt"
	"lunar/internal/ast"
	"lunar/internal/lexer"
	"strconv"
)

const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -=
	TERNARY     // c ? a : b
	NULLISH     // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE     // & |
	EQUALS      // === !== == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // !x -x ++x --x
	POSTFIX     // x++ x--
	CALL        // f(x)
	INDEX       // a[i] a.b
)

var precedences = map[lexer.TokenType]int{
	lexer.QUESTION:     TERNARY,
	lexer.NULLISH:      NULLISH,
	lexer.OR:           LOGICAL_OR,
	lexer.AND:          LOGICAL_AND,
	lexer.AMP:          BITWISE,
	lexer.PIPE:         BITWISE,
	lexer.EQ:           EQUALS,
	lexer.NOT_EQ:       EQUALS,
	lexer.LOOSE_EQ:     EQUALS,
	lexer.LOOSE_NEQ:    EQUALS,
	lexer.LT:           LESSGREATER,
	lexer.GT:           LESSGREATER,
	lexer.LT_EQ:        LESSGREATER,
	lexer.GT_EQ:        LESSGREATER,
	lexer.PLUS:         SUM,
	lexer.MINUS:        SUM,
	lexer.ASTERISK:     PRODUCT,
	lexer.SLASH:        PRODUCT,
	lexer.MODULO:       PRODUCT,
	lexer.PLUS_PLUS:    POSTFIX,
	lexer.MINUS_MINUS:  POSTFIX,
	lexer.LPAREN:       CALL,
	lexer.DOT:          INDEX,
	lexer.LBRACKET:     INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a Pratt parser: a prefix-fn table for the token that starts
// an expression, an infix-fn table for the token that continues one,
// keyed by the token's binding power.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []string

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TEMPLATE_STRING, p.parseTemplateLiteral)
	p.registerPrefix(lexer.TEMPLATE_HEAD, p.parseTemplateLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.THIS, p.parseThisExpression)
	p.registerPrefix(lexer.SUPER, p.parseSuperExpression)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpression)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpression)
	p.registerPrefix(lexer.PLUS_PLUS, p.parseUpdateExpression)
	p.registerPrefix(lexer.MINUS_MINUS, p.parseUpdateExpression)
	p.registerPrefix(lexer.LPAREN, p.parseParenthesizedOrArrow)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionExpression)
	p.registerPrefix(lexer.LT, p.parseTypeAssertion)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.MODULO,
		lexer.EQ, lexer.NOT_EQ, lexer.LOOSE_EQ, lexer.LOOSE_NEQ,
		lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ,
		lexer.AND, lexer.OR, lexer.NULLISH, lexer.AMP, lexer.PIPE,
	} {
		p.registerInfix(tt, p.parseBinaryExpression)
	}
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.DOT, p.parseDotExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.QUESTION, p.parseConditionalExpression)
	p.registerInfix(lexer.PLUS_PLUS, p.parsePostfixUpdate)
	p.registerInfix(lexer.MINUS_MINUS, p.parsePostfixUpdate)
	p.registerInfix(lexer.AS, p.parseAsExpression)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) registerPrefix(t lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t lexer.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("expected next token to be %s, got %s (%q) instead", t, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// skipSemicolon consumes one optional trailing ';'.
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// ---- Top level -----------------------------------------------------

// ParseProgram parses a whole file into its top-level statement list.
func (p *Parser) ParseProgram() []ast.Statement {
	var statements []ast.Statement
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.nextToken()
	}
	return statements
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.AT:
		return p.parseDecorated()
	case lexer.DECLARE:
		return p.parseDeclare()
	case lexer.IMPORT:
		return p.parseImportStatement()
	case lexer.EXPORT:
		return p.parseExportStatement()
	case lexer.CLASS:
		return p.parseClassDeclaration(nil, false)
	case lexer.ENUM:
		return p.parseEnumDeclaration(false)
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.INTERFACE:
		return p.parseInterfaceDeclaration()
	case lexer.TYPE:
		return p.parseTypeAliasDeclaration()
	case lexer.LET, lexer.CONST, lexer.VAR:
		stmt := p.parseVariableDeclaration()
		p.skipSemicolon()
		return stmt
	case lexer.RETURN:
		stmt := p.parseReturnStatement()
		p.skipSemicolon()
		return stmt
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case lexer.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return nil
	default:
		stmt := p.parseExpressionOrAssignmentStatement()
		p.skipSemicolon()
		return stmt
	}
}

// parseDecorated parses one or more `@Name` decorators ahead of a class
// or enum declaration and folds them into the resulting node.
func (p *Parser) parseDecorated() ast.Statement {
	var decorators []string
	for p.curTokenIs(lexer.AT) {
		p.nextToken() // move to the decorator name
		decorators = append(decorators, p.curToken.Literal)
		p.nextToken() // move to whatever follows
	}
	switch p.curToken.Type {
	case lexer.CLASS:
		return p.parseClassDeclaration(decorators, false)
	case lexer.ENUM:
		return p.parseEnumDeclaration(hasDecorator(decorators, "CompileMembersOnly"))
	case lexer.DECLARE:
		return p.parseDeclare()
	default:
		return p.parseStatement()
	}
}

func hasDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name {
			return true
		}
	}
	return false
}

func (p *Parser) parseDeclare() ast.Statement {
	p.nextToken() // consume 'declare'
	stmt := p.parseStatement()
	switch node := stmt.(type) {
	case *ast.FunctionDeclaration:
		node.Declare = true
	case *ast.ClassDeclaration:
		node.Declare = true
	}
	return stmt
}

// ---- Imports / exports ----------------------------------------------

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if p.peekTokenIs(lexer.ASTERISK) {
		p.nextToken() // '*'
		stmt.IsWildcard = true
		if !p.expectPeek(lexer.AS) {
			return stmt
		}
		if !p.expectPeek(lexer.IDENT) {
			return stmt
		}
		stmt.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	} else if p.expectPeek(lexer.LBRACE) {
		for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
			p.nextToken()
			spec := ast.ImportSpecifier{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
			if p.peekTokenIs(lexer.AS) {
				p.nextToken() // 'as'
				p.nextToken()
				spec.Renamed = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			}
			stmt.Names = append(stmt.Names, spec)
			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		if !p.expectPeek(lexer.RBRACE) {
			return stmt
		}
	}

	if !p.expectPeek(lexer.FROM) {
		return stmt
	}
	if !p.expectPeek(lexer.STRING) {
		return stmt
	}
	stmt.Module = p.curToken.Literal
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseExportStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	inner := p.parseStatement()
	return &ast.ExportStatement{Token: tok, Statement: inner}
}

// ---- Declarations ---------------------------------------------------

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken, IsConstant: p.curToken.Type == lexer.CONST}

	for {
		var d ast.Declarator
		if p.peekTokenIs(lexer.LBRACKET) {
			p.nextToken() // '['
			d.Pattern = p.parseDestructuringPattern()
		} else if p.expectPeek(lexer.IDENT) {
			d.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			if p.peekTokenIs(lexer.COLON) {
				p.nextToken() // ':'
				p.nextToken()
				p.parseTypeAnnotation()
			}
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken() // '='
			p.nextToken()
			d.Value = p.parseExpression(ASSIGNMENT)
		}
		decl.Declarators = append(decl.Declarators, d)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	return decl
}

// parseDestructuringPattern parses `a, b, ...rest]` with the opening
// '[' already consumed as curToken.
func (p *Parser) parseDestructuringPattern() []ast.PatternElem {
	var elems []ast.PatternElem
	for !p.peekTokenIs(lexer.RBRACKET) && !p.peekTokenIs(lexer.EOF) {
		rest := false
		if p.peekTokenIs(lexer.SPREAD) {
			p.nextToken()
			rest = true
		}
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		elems = append(elems, ast.PatternElem{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}, Rest: rest})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACKET)
	return elems
}

// parseTypeAnnotation consumes a type expression after a `:` and
// returns a best-effort representation: a plain identifier, or an
// identifier suffixed "[]" for an array annotation. A trailing `?` and
// `| T` union members are consumed and discarded — type inference
// beyond this is explicitly out of the core's scope. Generic type
// arguments (`<...>`) and tuple types are not recognized.
func (p *Parser) parseTypeAnnotation() ast.Expression {
	name := p.curToken.Literal
	base := &ast.Identifier{Token: p.curToken, Value: name}
	for p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken() // '['
		if !p.expectPeek(lexer.RBRACKET) {
			break
		}
		base = &ast.Identifier{Token: base.Token, Value: base.Value + "[]"}
	}
	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
	}
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		p.nextToken()
		p.parseTypeAnnotation()
	}
	return base
}

func (p *Parser) parseParameter() *ast.Parameter {
	param := &ast.Parameter{Token: p.curToken}

	switch p.curToken.Type {
	case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.READONLY:
		param.Modifier = p.curToken.Literal
		p.nextToken()
	}

	param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		param.Optional = true
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken()
		param.Type = p.parseTypeAnnotation()
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken() // '='
		p.nextToken()
		p.parseExpression(ASSIGNMENT) // default value, not modelled further
	}

	return param
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseParameter())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParameter())
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	fd := &ast.FunctionDeclaration{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return fd
	}
	fd.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(lexer.LPAREN) {
		return fd
	}
	fd.Parameters = p.parseParameterList()
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		fd.ReturnType = p.parseTypeAnnotation()
	}
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		fd.Body = p.parseBlockStatement()
	} else {
		// An ambient (`declare function`) signature has no body at all.
		p.skipSemicolon()
	}
	return fd
}

func (p *Parser) parseInterfaceDeclaration() *ast.InterfaceDeclaration {
	decl := &ast.InterfaceDeclaration{Token: p.curToken}
	if p.expectPeek(lexer.IDENT) {
		decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		p.nextToken()
	}
	if p.expectPeek(lexer.LBRACE) {
		p.skipBalancedBraces()
	}
	return decl
}

func (p *Parser) parseTypeAliasDeclaration() *ast.TypeAliasDeclaration {
	decl := &ast.TypeAliasDeclaration{Token: p.curToken}
	if p.expectPeek(lexer.IDENT) {
		decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		p.parseTypeAnnotation()
	}
	p.skipSemicolon()
	return decl
}

// skipBalancedBraces consumes tokens up to and including the '}'
// matching the '{' already at curToken, used for interface bodies we
// don't need to model beyond recognizing their extent.
func (p *Parser) skipBalancedBraces() {
	depth := 1
	for depth > 0 && !p.curTokenIs(lexer.EOF) {
		p.nextToken()
		switch p.curToken.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
	}
}

// ---- Classes ---------------------------------------------------------

func (p *Parser) parseClassDeclaration(decorators []string, _ bool) *ast.ClassDeclaration {
	cd := &ast.ClassDeclaration{Token: p.curToken, Decorators: decorators}
	cd.IsExtension = hasDecorator(decorators, "extension")

	if p.expectPeek(lexer.IDENT) {
		cd.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		if p.expectPeek(lexer.IDENT) {
			cd.SuperClass = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		}
	}
	if p.peekTokenIs(lexer.IMPLEMENTS) {
		p.nextToken()
		p.nextToken()
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.LBRACE) {
		return cd
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		p.parseClassMember(cd)
		p.nextToken()
	}

	return cd
}

func (p *Parser) parseClassMember(cd *ast.ClassDeclaration) {
	static := false
	abstract := false
	declare := false
	var memberDecorators []string

	for p.curTokenIs(lexer.AT) {
		p.nextToken()
		memberDecorators = append(memberDecorators, p.curToken.Literal)
		p.nextToken()
	}

	for {
		switch p.curToken.Type {
		case lexer.STATIC:
			static = true
			p.nextToken()
			continue
		case lexer.ABSTRACT:
			abstract = true
			p.nextToken()
			continue
		case lexer.DECLARE:
			declare = true
			p.nextToken()
			continue
		case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.READONLY:
			p.nextToken()
			continue
		}
		break
	}

	if p.curToken.Type == lexer.IDENT && p.curToken.Literal == "constructor" && p.peekTokenIs(lexer.LPAREN) {
		method := &ast.ClassMethod{Token: p.curToken, Name: &ast.Identifier{Token: p.curToken, Value: "constructor"}}
		p.nextToken() // '('
		method.Parameters = p.parseParameterList()
		if p.expectPeek(lexer.LBRACE) {
			method.Body = p.parseBlockStatement()
		}
		cd.Constructor = method
		return
	}

	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken() // '('
		method := &ast.ClassMethod{Token: name.Token, Name: name, Static: static, Abstract: abstract}
		method.Parameters = p.parseParameterList()
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			method.ReturnType = p.parseTypeAnnotation()
		}
		if abstract || declare {
			p.skipSemicolon()
		} else if p.expectPeek(lexer.LBRACE) {
			method.Body = p.parseBlockStatement()
		}
		cd.Methods = append(cd.Methods, method)
		return
	}

	field := &ast.ClassField{Token: name.Token, Name: name, Static: static, Declare: declare}
	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		field.Type = p.parseTypeAnnotation()
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		field.Value = p.parseExpression(ASSIGNMENT)
	}
	p.skipSemicolon()
	cd.Fields = append(cd.Fields, field)
}

// ---- Enums -------------------------------------------------------

func (p *Parser) parseEnumDeclaration(compileMembersOnly bool) *ast.EnumDeclaration {
	ed := &ast.EnumDeclaration{Token: p.curToken, CompileMembersOnly: compileMembersOnly}
	if p.expectPeek(lexer.IDENT) {
		ed.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return ed
	}
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		member := ast.EnumMember{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			member.Value = p.parseExpression(ASSIGNMENT)
		}
		ed.Members = append(ed.Members, member)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACE)
	return ed
}

// ---- Statements ------------------------------------------------------

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) {
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			nested := p.parseIfStatement()
			stmt.Alternative = &ast.BlockStatement{Token: nested.Token, Statements: []ast.Statement{nested}}
		} else if p.expectPeek(lexer.LBRACE) {
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseForStatement distinguishes `for (x of/in expr)` from the
// generic three-clause `for (init; cond; post)` by looking one
// identifier ahead, matching the teacher's one-token-lookahead style.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.ForStatement{Token: tok}
	}

	declKind := lexer.ILLEGAL
	if p.peekTokenIs(lexer.LET) || p.peekTokenIs(lexer.CONST) || p.peekTokenIs(lexer.VAR) {
		declKind = p.peekToken.Type
	}

	if declKind != lexer.ILLEGAL {
		save := *p
		savedLexer := *p.l
		p.nextToken() // let/const/var
		p.nextToken() // identifier
		name := p.curToken.Literal
		if p.peekTokenIs(lexer.OF) || p.peekTokenIs(lexer.IN) {
			isOf := p.peekTokenIs(lexer.OF)
			p.nextToken() // of/in
			p.nextToken()
			iterable := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return &ast.ForStatement{Token: tok}
			}
			if !p.expectPeek(lexer.LBRACE) {
				return &ast.ForStatement{Token: tok}
			}
			body := p.parseBlockStatement()
			varName := &ast.Identifier{Value: name}
			if isOf {
				return &ast.ForOfStatement{Token: tok, VarName: varName, Iterable: iterable, Body: body}
			}
			return &ast.ForInStatement{Token: tok, VarName: varName, Iterable: iterable, Body: body}
		}
		*p.l = savedLexer
		*p = save
	}

	p.nextToken()
	var init ast.Statement
	if p.curToken.Type == lexer.LET || p.curToken.Type == lexer.CONST || p.curToken.Type == lexer.VAR {
		init = p.parseVariableDeclaration()
	} else if !p.curTokenIs(lexer.SEMICOLON) {
		init = p.parseExpressionOrAssignmentStatement()
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return &ast.ForStatement{Token: tok}
	}
	p.nextToken()
	var cond ast.Expression
	if !p.curTokenIs(lexer.SEMICOLON) {
		cond = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return &ast.ForStatement{Token: tok}
	}
	p.nextToken()
	var post ast.Statement
	if !p.curTokenIs(lexer.RPAREN) {
		post = p.parseExpressionOrAssignmentStatement()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return &ast.ForStatement{Token: tok}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.ForStatement{Token: tok}
	}
	body := p.parseBlockStatement()

	return &ast.ForStatement{Token: tok, Init: init, Cond: cond, Post: post, Body: body}
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Discriminant = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		var clause ast.SwitchClause
		if p.curTokenIs(lexer.CASE) {
			p.nextToken()
			clause.Test = p.parseExpression(LOWEST)
		} else if p.curTokenIs(lexer.DEFAULT) {
			clause.IsDefault = true
		}
		if !p.expectPeek(lexer.COLON) {
			return stmt
		}
		p.nextToken()
		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) && !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			s := p.parseStatement()
			if s != nil {
				clause.Body = append(clause.Body, s)
			}
			p.nextToken()
		}
		stmt.Clauses = append(stmt.Clauses, clause)
	}

	return stmt
}

// parseExpressionOrAssignmentStatement parses an expression and, if
// it's followed by `=`, `+=`, or `-=`, folds it into an assignment
// statement instead of a bare expression statement.
func (p *Parser) parseExpressionOrAssignmentStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)

	switch p.peekToken.Type {
	case lexer.ASSIGN:
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.AssignmentStatement{Token: tok, Name: expr, Value: value}
	case lexer.PLUS_EQ, lexer.MINUS_EQ:
		op := p.peekToken.Literal
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.CompoundAssignmentStatement{Token: tok, Name: expr, Operator: op, Value: value}
	}

	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// ---- Expressions -----------------------------------------------------

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errors = append(p.errors, fmt.Sprintf("no prefix parse function for %s found", p.curToken.Type))
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("could not parse %q as number", p.curToken.Literal))
		return nil
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Type == lexer.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

func (p *Parser) parseSuperExpression() ast.Expression {
	return &ast.SuperExpression{Token: p.curToken}
}

// parseTemplateLiteral assembles quasis/expressions from a
// TEMPLATE_STRING (no interpolation) or a TEMPLATE_HEAD followed by
// alternating expressions and TEMPLATE_MIDDLE/TAIL quasis.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.curToken
	node := &ast.TemplateExpression{Token: tok}
	node.Quasis = append(node.Quasis, tok.Literal)
	if tok.Type == lexer.TEMPLATE_STRING {
		return node
	}
	for {
		// Move onto the interpolated expression's first token. The
		// lookahead fetch that fills peekToken for it also lexes the
		// closing '}' as an ordinary RBRACE, which leaves the lexer
		// positioned right past it — exactly where the next raw quasi
		// chunk needs to start.
		p.nextToken()
		node.Expressions = append(node.Expressions, p.parseExpression(LOWEST))
		cont := p.l.ReadTemplateContinuation()
		node.Quasis = append(node.Quasis, cont.Literal)
		p.curToken = cont
		p.peekToken = p.l.NextToken()
		if cont.Type == lexer.TEMPLATE_TAIL {
			break
		}
	}
	return node
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseUpdateExpression() ast.Expression {
	expr := &ast.UpdateExpression{Token: p.curToken, Operator: p.curToken.Literal, Prefix: true}
	p.nextToken()
	expr.Argument = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	return &ast.UpdateExpression{Token: p.curToken, Operator: p.curToken.Literal, Argument: left, Prefix: false}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseConditionalExpression(cond ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.curToken, Condition: cond}
	p.nextToken()
	expr.Consequent = p.parseExpression(ASSIGNMENT)
	if !p.expectPeek(lexer.COLON) {
		return expr
	}
	p.nextToken()
	expr.Alternate = p.parseExpression(ASSIGNMENT)
	return expr
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	return &ast.CallExpression{Token: p.curToken, Function: fn, Arguments: p.parseExpressionList(lexer.RPAREN)}
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(ASSIGNMENT))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(ASSIGNMENT))
	}
	p.expectPeek(end)
	return list
}

func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return &ast.DotExpression{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	index := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACKET)
	return &ast.IndexExpression{Token: tok, Left: left, Index: index}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	return &ast.ArrayLiteral{Token: p.curToken, Elements: p.parseExpressionList(lexer.RBRACKET)}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	node := &ast.ObjectLiteral{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		var prop ast.ObjectProperty
		if p.curTokenIs(lexer.LBRACKET) {
			p.nextToken()
			prop.Key = p.parseExpression(LOWEST)
			prop.Computed = true
			if !p.expectPeek(lexer.RBRACKET) {
				return node
			}
		} else if p.curTokenIs(lexer.STRING) {
			prop.Key = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
		} else {
			prop.Key = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		}
		if !p.expectPeek(lexer.COLON) {
			return node
		}
		p.nextToken()
		prop.Value = p.parseExpression(ASSIGNMENT)
		node.Properties = append(node.Properties, prop)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACE)
	return node
}

// parseNewExpression parses the callee at CALL precedence so a dotted
// path (`new a.B(...)`) binds but the trailing '(' is left for this
// function to consume itself as the new-expression's own argument
// list, rather than folding it into the callee as a plain call.
func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	callee := p.parseExpression(CALL)
	var args []ast.Expression
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args = p.parseExpressionList(lexer.RPAREN)
	}
	return &ast.NewExpression{Token: tok, Callee: callee, Arguments: args}
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	fn := &ast.FunctionExpression{Token: p.curToken}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
	}
	if !p.expectPeek(lexer.LPAREN) {
		return fn
	}
	fn.Parameters = p.parseParameterList()
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		p.parseTypeAnnotation()
	}
	if p.expectPeek(lexer.LBRACE) {
		fn.Body = p.parseBlockStatement()
	}
	return fn
}

// parseParenthesizedOrArrow disambiguates `(expr)` from an arrow
// function `(params) => body` by scanning ahead to the matching `)`
// and checking whether `=>` follows — matching the teacher's
// lookahead-over-backtracking style rather than real backtracking.
func (p *Parser) parseParenthesizedOrArrow() ast.Expression {
	tok := p.curToken
	if p.looksLikeArrowParams() {
		return p.parseArrowFunction(tok)
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return exp
	}
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		return p.finishArrowFunction(tok, exp)
	}
	return &ast.ParenthesizedExpression{Token: tok, Expression: exp}
}

// looksLikeArrowParams scans from the current '(' to its matching ')'
// without consuming any tokens, reporting whether '=>' immediately
// follows.
func (p *Parser) looksLikeArrowParams() bool {
	save := *p
	savedLexer := *p.l
	defer func() {
		*p = save
		*p.l = savedLexer
	}()

	depth := 0
	for {
		if p.curTokenIs(lexer.LPAREN) {
			depth++
		} else if p.curTokenIs(lexer.RPAREN) {
			depth--
			if depth == 0 {
				return p.peekTokenIs(lexer.ARROW)
			}
		} else if p.curTokenIs(lexer.EOF) {
			return false
		}
		p.nextToken()
	}
}

func (p *Parser) parseArrowFunction(tok lexer.Token) ast.Expression {
	params := p.parseParameterList()
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		p.parseTypeAnnotation()
	}
	if !p.expectPeek(lexer.ARROW) {
		return &ast.FunctionExpression{Token: tok, Parameters: params, IsArrow: true}
	}
	return p.finishArrowFunctionParams(tok, params)
}

// finishArrowFunction wraps a single parenthesized parameter already
// parsed as a plain expression (only reachable for a single bare
// identifier, since that's the only expression shape `(x) => …` can
// take that this parser didn't already catch via looksLikeArrowParams).
func (p *Parser) finishArrowFunction(tok lexer.Token, paramExpr ast.Expression) ast.Expression {
	var params []*ast.Parameter
	if ident, ok := paramExpr.(*ast.Identifier); ok {
		params = append(params, &ast.Parameter{Name: ident})
	}
	return p.finishArrowFunctionParams(tok, params)
}

func (p *Parser) finishArrowFunctionParams(tok lexer.Token, params []*ast.Parameter) ast.Expression {
	fn := &ast.FunctionExpression{Token: tok, Parameters: params, IsArrow: true}
	p.nextToken()
	if p.curTokenIs(lexer.LBRACE) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.ConciseBody = p.parseExpression(ASSIGNMENT)
	}
	return fn
}

// parseTypeAssertion handles the `<T>expr` cast form. It shares the
// '<' token with less-than, so it is only registered as a prefix
// parse function — it never competes with the infix comparison.
func (p *Parser) parseTypeAssertion() ast.Expression {
	tok := p.curToken
	p.nextToken()
	p.parseTypeAnnotation()
	if !p.expectPeek(lexer.GT) {
		return nil
	}
	p.nextToken()
	inner := p.parseExpression(PREFIX)
	return &ast.TypeAssertionExpression{Token: tok, Expression: inner}
}

func (p *Parser) parseAsExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	p.parseTypeAnnotation()
	return &ast.AsExpression{Token: tok, Expression: left}
}
