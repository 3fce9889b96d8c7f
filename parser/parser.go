// Package parser builds an ast.Program from a token stream using a Pratt
// (precedence-climbing) parser: each token kind registers a prefix and/or
// infix parse function, and expression parsing recurses by comparing the
// current precedence against the precedence bound it was called with.
package parser

import (
	"fmt"
	"strconv"

	"github.com/lumen-lang/lumen/ast"
	"github.com/lumen-lang/lumen/lexer"
	"github.com/lumen-lang/lumen/token"
)

// Operator precedence levels, lowest to highest. Parsing an infix
// expression recurses into its right-hand side bound by its own
// precedence, which is what gives higher-precedence operators a tighter
// grouping in the resulting tree.
const (
	_ int = iota
	LOWEST
	EQUALS      // == or !=
	LESSGREATER // < or >
	SUM         // + or -
	PRODUCT     // * or /
	PREFIX      // -x or !x
	CALL        // fn(x)
)

var precedences = map[token.Type]int{
	token.EQ:       EQUALS,
	token.NEQ:      EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.FSLASH:   PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes tokens from a Lexer one at a time, keeping the current
// and next token in view, and accumulates any syntax errors it encounters
// rather than stopping at the first one.
type Parser struct {
	lex *lexer.Lexer

	currToken token.Token
	nextToken token.Token

	errors []string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser over lex, priming both the current and lookahead
// tokens, and registers every prefix/infix parse function.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{
		lex:    lex,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.ID, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.FSLASH, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NEQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)

	// Prime currToken/nextToken.
	p.advance()
	p.advance()

	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.Type, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

// Errors returns every syntax error collected while parsing. An empty
// program with a non-empty Errors means parsing failed outright.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) advance() {
	p.currToken = p.nextToken
	p.nextToken = p.lex.NextToken()
}

func (p *Parser) currIs(t token.Type) bool {
	return p.currToken.Type == t
}

func (p *Parser) nextIs(t token.Type) bool {
	return p.nextToken.Type == t
}

// expectAdvance checks that nextToken has kind t; if so it advances and
// returns true, otherwise it records an error and returns false without
// moving the cursor.
func (p *Parser) expectAdvance(t token.Type) bool {
	if p.nextIs(t) {
		p.advance()
		return true
	}
	p.errorNextToken(t)
	return false
}

func (p *Parser) errorNextToken(want token.Type) {
	p.errors = append(p.errors, fmt.Sprintf(
		"expected next token to be %s, got %s instead", want, p.nextToken.Type))
}

func (p *Parser) errorNoPrefixParseFn(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("no prefix parse function for %s found", t))
}

func (p *Parser) currPrecedence() int {
	if pr, ok := precedences[p.currToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) nextPrecedence() int {
	if pr, ok := precedences[p.nextToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// Parse consumes the entire token stream and returns the resulting
// Program together with every error encountered. It never evaluates any
// part of the tree it builds.
func Parse(source string) (*ast.Program, []string) {
	p := New(lexer.New(source))
	program := p.ParseProgram()
	return program, p.Errors()
}

// ParseProgram parses statements until EOF, collecting one Statement per
// top-level construct.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.currIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.advance()
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.currToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.currToken}

	if !p.expectAdvance(token.ID) {
		return nil
	}

	stmt.Name = &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal}

	if !p.expectAdvance(token.ASSIGN) {
		return nil
	}

	p.advance()
	stmt.Value = p.parseExpression(LOWEST)

	if p.nextIs(token.SEMICOLON) {
		p.advance()
	}

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.currToken}

	p.advance()
	stmt.ReturnValue = p.parseExpression(LOWEST)

	if p.nextIs(token.SEMICOLON) {
		p.advance()
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.currToken}
	stmt.Expression = p.parseExpression(LOWEST)

	if p.nextIs(token.SEMICOLON) {
		p.advance()
	}

	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.currToken.Type]
	if prefix == nil {
		p.errorNoPrefixParseFn(p.currToken.Type)
		return nil
	}
	left := prefix()

	for !p.nextIs(token.SEMICOLON) && precedence < p.nextPrecedence() {
		infix := p.infixParseFns[p.nextToken.Type]
		if infix == nil {
			return left
		}
		p.advance()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.currToken}

	value, err := strconv.ParseInt(p.currToken.Literal, 10, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("could not parse %q as integer", p.currToken.Literal))
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.currToken, Value: p.currIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.currToken, Operator: p.currToken.Literal}
	p.advance()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.currToken,
		Left:     left,
		Operator: p.currToken.Literal,
	}
	precedence := p.currPrecedence()
	p.advance()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance()
	expr := p.parseExpression(LOWEST)

	if !p.expectAdvance(token.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.currToken}

	if !p.expectAdvance(token.LPAREN) {
		return nil
	}

	p.advance()
	expr.Condition = p.parseExpression(LOWEST)

	if !p.expectAdvance(token.RPAREN) {
		return nil
	}

	if !p.expectAdvance(token.LBRAC) {
		return nil
	}

	expr.Consequence = p.parseBlockStatement()

	if p.nextIs(token.ELSE) {
		p.advance()

		if !p.expectAdvance(token.LBRAC) {
			return nil
		}

		expr.Alternative = p.parseBlockStatement()
	}

	return expr
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.currToken, Statements: []ast.Statement{}}

	p.advance()

	for !p.currIs(token.RBRAC) && !p.currIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.advance()
	}

	return block
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.currToken}

	if !p.expectAdvance(token.LPAREN) {
		return nil
	}

	lit.Parameters = p.parseFunctionParameters()

	if !p.expectAdvance(token.LBRAC) {
		return nil
	}

	lit.Body = p.parseBlockStatement()

	return lit
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if p.nextIs(token.RPAREN) {
		p.advance()
		return identifiers
	}

	p.advance()
	identifiers = append(identifiers, &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal})

	for p.nextIs(token.COMMA) {
		p.advance()
		p.advance()
		identifiers = append(identifiers, &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal})
	}

	if !p.expectAdvance(token.RPAREN) {
		return nil
	}

	return identifiers
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.currToken, Function: function}
	expr.Arguments = p.parseCallArguments()
	return expr
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.nextIs(token.RPAREN) {
		p.advance()
		return args
	}

	p.advance()
	args = append(args, p.parseExpression(LOWEST))

	for p.nextIs(token.COMMA) {
		p.advance()
		p.advance()
		args = append(args, p.parseExpression(LOWEST))
	}

	if !p.expectAdvance(token.RPAREN) {
		return nil
	}

	return args
}
