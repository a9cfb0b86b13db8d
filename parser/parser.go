// Package parser implements ParseFlow's recursive-descent parser, turning
// a token stream into a single root AST.
package parser

import (
	"fmt"
	"strconv"

	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/perror"
	"github.com/opal-lang/parseflow/position"
	"github.com/opal-lang/parseflow/token"
)

// Parser is a recursive-descent parser over a pre-lexed token stream.
type Parser struct {
	fileLabel string
	source    string
	tokens    []token.Token
	idx       int
}

// New creates a Parser over tokens (as produced by lexer.Tokenize).
func New(fileLabel, source string, tokens []token.Token) *Parser {
	return &Parser{fileLabel: fileLabel, source: source, tokens: tokens}
}

func (p *Parser) current() token.Token {
	if p.idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.idx]
}

func (p *Parser) peekIs(k token.Kind) bool {
	return p.current().Kind == k
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	return tok
}

func (p *Parser) reverse(count int) {
	p.idx -= count
	if p.idx < 0 {
		p.idx = 0
	}
}

// ParseProgram parses the entire token stream as a top-level statement
// list and requires EOF immediately after. Extra tokens before EOF are an
// InvalidSyntaxError, as spec.md §4.2 requires. A program of exactly one
// statement is returned as that statement's node; longer programs are
// returned as a StatementList.
func (p *Parser) ParseProgram() (ast.Node, *perror.Error) {
	res := p.parseStatements()
	if res.Err != nil {
		return nil, res.Err
	}
	if !p.peekIs(token.EOF) {
		tok := p.current()
		return nil, perror.NewInvalidSyntax(
			fmt.Sprintf("expected an operator, got %s", tok.Kind), tok.Span)
	}
	if list, ok := res.Node.(*ast.StatementList); ok && len(list.Statements) == 1 {
		return list.Statements[0], nil
	}
	return res.Node, nil
}

// parseStatements accepts leading/trailing NEWLINEs around one or more
// statements separated by NEWLINE; a statement that fails to parse
// without advancing terminates the list cleanly (used at block/program
// boundaries where END/ELSE/ELIF/EOF may follow).
func (p *Parser) parseStatements() *ParseResult {
	res := &ParseResult{}
	start := p.current().Span
	var statements []ast.Node

	for p.peekIs(token.NEWLINE) {
		res.RegisterAdvancement()
		p.advance()
	}

	first := p.parseStatement()
	if first.Err != nil {
		return first
	}
	res.Register(first)
	statements = append(statements, first.Node)

	moreStatements := true
	for {
		newlineCount := 0
		for p.peekIs(token.NEWLINE) {
			res.RegisterAdvancement()
			p.advance()
			newlineCount++
		}
		if newlineCount == 0 {
			moreStatements = false
		}
		if !moreStatements {
			break
		}
		before := p.idx
		stmt := p.parseStatement()
		if stmt.Err != nil {
			if p.idx > before {
				return stmt
			}
			moreStatements = false
			continue
		}
		res.Register(stmt)
		statements = append(statements, stmt.Node)
	}

	end := p.current().Span
	return Success(ast.NewStatementList(position.NewSpan(start.Start, end.Start), statements))
}

// parseStatement peeks for RETURN/CONTINUE/BREAK; otherwise parses expr.
func (p *Parser) parseStatement() *ParseResult {
	res := &ParseResult{}
	tok := p.current()

	switch {
	case tok.IsKeyword("RETURN"):
		res.RegisterAdvancement()
		p.advance()
		var value ast.Node
		if !p.atStatementEnd() {
			valRes := p.parseExpr()
			if valRes.Err != nil {
				return Failure(valRes.Err)
			}
			res.Register(valRes)
			value = valRes.Node
		}
		return Success(ast.NewReturn(tok.Span, value))
	case tok.IsKeyword("CONTINUE"):
		res.RegisterAdvancement()
		p.advance()
		return Success(ast.NewContinue(tok.Span))
	case tok.IsKeyword("BREAK"):
		res.RegisterAdvancement()
		p.advance()
		return Success(ast.NewBreak(tok.Span))
	}

	exprRes := p.parseExpr()
	if exprRes.Err != nil {
		return exprRes
	}
	res.Register(exprRes)
	return Success(exprRes.Node)
}

func (p *Parser) atStatementEnd() bool {
	switch p.current().Kind {
	case token.NEWLINE, token.EOF:
		return true
	}
	return p.current().IsKeyword("END") || p.current().IsKeyword("ELIF") || p.current().IsKeyword("ELSE")
}

// parseExpr handles "VAR IDENTIFIER EQ expr" and falls through to the
// OR/AND precedence chain otherwise.
func (p *Parser) parseExpr() *ParseResult {
	res := &ParseResult{}
	if p.current().IsKeyword("VAR") {
		start := p.current().Span
		res.RegisterAdvancement()
		p.advance()

		if !p.peekIs(token.IDENTIFIER) {
			return Failure(perror.NewInvalidSyntax("expected identifier after 'VAR'", p.current().Span))
		}
		nameTok := p.advance()
		res.RegisterAdvancement()

		if !p.peekIs(token.EQ) {
			return Failure(perror.NewInvalidSyntax("expected '=' after variable name", p.current().Span))
		}
		res.RegisterAdvancement()
		p.advance()

		valueRes := p.parseExpr()
		if valueRes.Err != nil {
			return valueRes
		}
		res.Register(valueRes)
		span := position.NewSpan(start.Start, valueRes.Node.Span().End)
		return Success(ast.NewVarAssign(span, nameTok.Value, valueRes.Node))
	}

	return p.parseBinOp(p.parseCompExpr, []token.Kind{}, []string{"AND", "OR"})
}

func (p *Parser) parseCompExpr() *ParseResult {
	if p.current().IsKeyword("NOT") {
		opTok := p.advance()
		res := &ParseResult{}
		res.RegisterAdvancement()
		operand := p.parseCompExpr()
		if operand.Err != nil {
			return operand
		}
		res.Register(operand)
		span := position.NewSpan(opTok.Span.Start, operand.Node.Span().End)
		return Success(ast.NewUnaryOp(span, opTok, operand.Node))
	}
	return p.parseBinOp(p.parseArithExpr, []token.Kind{token.EE, token.NE, token.LT, token.GT, token.LTE, token.GTE}, nil)
}

func (p *Parser) parseArithExpr() *ParseResult {
	return p.parseBinOp(p.parseTerm, []token.Kind{token.PLUS, token.MINUS}, nil)
}

func (p *Parser) parseTerm() *ParseResult {
	return p.parseBinOp(p.parseFactor, []token.Kind{token.MUL, token.DIV}, nil)
}

func (p *Parser) parseFactor() *ParseResult {
	tok := p.current()
	if tok.Kind == token.PLUS || tok.Kind == token.MINUS {
		res := &ParseResult{}
		res.RegisterAdvancement()
		p.advance()
		operand := p.parseFactor()
		if operand.Err != nil {
			return operand
		}
		res.Register(operand)
		span := position.NewSpan(tok.Span.Start, operand.Node.Span().End)
		return Success(ast.NewUnaryOp(span, tok, operand.Node))
	}
	return p.parsePower()
}

// parsePower is right-associative: a ^ b ^ c == a ^ (b ^ c).
func (p *Parser) parsePower() *ParseResult {
	res := &ParseResult{}
	left := p.parseCall()
	if left.Err != nil {
		return left
	}
	res.Register(left)
	node := left.Node

	if p.peekIs(token.POW) {
		opTok := p.advance()
		res.RegisterAdvancement()
		right := p.parseFactor()
		if right.Err != nil {
			return right
		}
		res.Register(right)
		span := position.NewSpan(node.Span().Start, right.Node.Span().End)
		node = ast.NewBinOp(span, node, opTok, right.Node)
	}
	return Success(node)
}

// parseBinOp parses left-associative binary expressions at one precedence
// level: operand ((kind|keyword) operand)*.
func (p *Parser) parseBinOp(operand func() *ParseResult, kinds []token.Kind, keywords []string) *ParseResult {
	res := &ParseResult{}
	left := operand()
	if left.Err != nil {
		return left
	}
	res.Register(left)
	node := left.Node

	for p.matchesOp(kinds, keywords) {
		opTok := p.advance()
		res.RegisterAdvancement()
		right := operand()
		if right.Err != nil {
			return right
		}
		res.Register(right)
		span := position.NewSpan(node.Span().Start, right.Node.Span().End)
		node = ast.NewBinOp(span, node, opTok, right.Node)
	}
	return Success(node)
}

func (p *Parser) matchesOp(kinds []token.Kind, keywords []string) bool {
	tok := p.current()
	for _, k := range kinds {
		if tok.Kind == k {
			return true
		}
	}
	for _, kw := range keywords {
		if tok.IsKeyword(kw) {
			return true
		}
	}
	return false
}

func (p *Parser) parseCall() *ParseResult {
	res := &ParseResult{}
	atomRes := p.parseAtom()
	if atomRes.Err != nil {
		return atomRes
	}
	res.Register(atomRes)
	node := atomRes.Node

	for p.peekIs(token.LPAREN) {
		p.advance()
		res.RegisterAdvancement()

		var args []ast.Node
		if !p.peekIs(token.RPAREN) {
			first := p.parseExpr()
			if first.Err != nil {
				return first
			}
			res.Register(first)
			args = append(args, first.Node)

			for p.peekIs(token.COMMA) {
				res.RegisterAdvancement()
				p.advance()
				argRes := p.parseExpr()
				if argRes.Err != nil {
					return argRes
				}
				res.Register(argRes)
				args = append(args, argRes.Node)
			}
		}

		if !p.peekIs(token.RPAREN) {
			return Failure(perror.NewInvalidSyntax("expected ')' or ','", p.current().Span))
		}
		closeTok := p.advance()
		res.RegisterAdvancement()
		span := position.NewSpan(node.Span().Start, closeTok.Span.End)
		node = ast.NewCall(span, node, args)
	}
	return Success(node)
}

func (p *Parser) parseAtom() *ParseResult {
	tok := p.current()
	switch {
	case tok.Kind == token.INT || tok.Kind == token.FLOAT:
		p.advance()
		value, _ := strconv.ParseFloat(tok.Value, 64)
		return Success(ast.NewNumber(tok.Span, value, tok.Value))
	case tok.Kind == token.STRING:
		p.advance()
		return Success(ast.NewString(tok.Span, tok.Value))
	case tok.Kind == token.IDENTIFIER:
		p.advance()
		return Success(ast.NewVarAccess(tok.Span, tok.Value))
	case tok.Kind == token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		if inner.Err != nil {
			return inner
		}
		if !p.peekIs(token.RPAREN) {
			return Failure(perror.NewInvalidSyntax("expected ')'", p.current().Span))
		}
		p.advance()
		return Success(inner.Node)
	case tok.Kind == token.LSQUARE:
		return p.parseListExpr()
	case tok.IsKeyword("IF"):
		return p.parseIfExpr()
	case tok.IsKeyword("FOR"):
		return p.parseForExpr()
	case tok.IsKeyword("WHILE"):
		return p.parseWhileExpr()
	case tok.IsKeyword("FUN"):
		return p.parseFuncDef()
	default:
		return Failure(perror.NewInvalidSyntax(
			fmt.Sprintf("expected int, float, identifier, '+', '-', '(', '[' or keyword, got %s", tok.Kind), tok.Span))
	}
}

func (p *Parser) parseListExpr() *ParseResult {
	openTok := p.advance() // [
	var elements []ast.Node
	if !p.peekIs(token.RSQUARE) {
		first := p.parseExpr()
		if first.Err != nil {
			return first
		}
		elements = append(elements, first.Node)
		for p.peekIs(token.COMMA) {
			p.advance()
			elemRes := p.parseExpr()
			if elemRes.Err != nil {
				return elemRes
			}
			elements = append(elements, elemRes.Node)
		}
	}
	if !p.peekIs(token.RSQUARE) {
		return Failure(perror.NewInvalidSyntax("expected ']' or ','", p.current().Span))
	}
	closeTok := p.advance()
	return Success(ast.NewList(position.NewSpan(openTok.Span.Start, closeTok.Span.End), elements))
}

// parseBlockOrInline parses either a single statement ("THEN stmt") or a
// NEWLINE-delimited statement list terminated by one of the endKeywords
// ("THEN NEWLINE statements END/ELIF/ELSE"), as spec.md §4.2 describes for
// if/for/while/func bodies. Returns the body node and whether it was the
// block form.
func (p *Parser) parseBlockOrInline(endKeywords ...string) (*ParseResult, bool) {
	if p.peekIs(token.NEWLINE) {
		p.advance()
		bodyRes := p.parseStatements()
		if bodyRes.Err != nil {
			return bodyRes, true
		}
		if !p.endsWith(endKeywords...) {
			return Failure(perror.NewInvalidSyntax(
				fmt.Sprintf("expected %s", joinExpected(endKeywords)), p.current().Span)), true
		}
		return bodyRes, true
	}
	stmtRes := p.parseStatement()
	return stmtRes, false
}

func (p *Parser) endsWith(keywords ...string) bool {
	for _, kw := range keywords {
		if p.current().IsKeyword(kw) {
			return true
		}
	}
	return false
}

func joinExpected(keywords []string) string {
	out := ""
	for i, kw := range keywords {
		if i > 0 {
			out += " or "
		}
		out += "'" + kw + "'"
	}
	return out
}

func (p *Parser) parseIfExpr() *ParseResult {
	startTok := p.advance() // IF
	var cases []ast.IfCase
	isBlock := false

	cond := p.parseExpr()
	if cond.Err != nil {
		return cond
	}
	if !p.current().IsKeyword("THEN") {
		return Failure(perror.NewInvalidSyntax("expected 'THEN'", p.current().Span))
	}
	p.advance()

	body, block := p.parseBlockOrInline("END", "ELIF", "ELSE")
	if body.Err != nil {
		return body
	}
	isBlock = isBlock || block
	cases = append(cases, ast.IfCase{Cond: cond.Node, Body: body.Node})

	for p.current().IsKeyword("ELIF") {
		p.advance()
		c := p.parseExpr()
		if c.Err != nil {
			return c
		}
		if !p.current().IsKeyword("THEN") {
			return Failure(perror.NewInvalidSyntax("expected 'THEN'", p.current().Span))
		}
		p.advance()
		b, blk := p.parseBlockOrInline("END", "ELIF", "ELSE")
		if b.Err != nil {
			return b
		}
		isBlock = isBlock || blk
		cases = append(cases, ast.IfCase{Cond: c.Node, Body: b.Node})
	}

	var elseBody ast.Node
	endSpan := p.current().Span
	if p.current().IsKeyword("ELSE") {
		p.advance()
		b, blk := p.parseBlockOrInline("END")
		if b.Err != nil {
			return b
		}
		isBlock = isBlock || blk
		elseBody = b.Node
	}

	if isBlock {
		if !p.current().IsKeyword("END") {
			return Failure(perror.NewInvalidSyntax("expected 'END'", p.current().Span))
		}
		endSpan = p.current().Span
		p.advance()
	}

	span := position.NewSpan(startTok.Span.Start, endSpan.End)
	return Success(ast.NewIf(span, cases, elseBody, isBlock))
}

func (p *Parser) parseForExpr() *ParseResult {
	startTok := p.advance() // FOR
	if !p.peekIs(token.IDENTIFIER) {
		return Failure(perror.NewInvalidSyntax("expected identifier after 'FOR'", p.current().Span))
	}
	nameTok := p.advance()

	if !p.peekIs(token.EQ) {
		return Failure(perror.NewInvalidSyntax("expected '=' after for-loop variable", p.current().Span))
	}
	p.advance()

	startRes := p.parseExpr()
	if startRes.Err != nil {
		return startRes
	}
	if !p.current().IsKeyword("TO") {
		return Failure(perror.NewInvalidSyntax("expected 'TO'", p.current().Span))
	}
	p.advance()

	endRes := p.parseExpr()
	if endRes.Err != nil {
		return endRes
	}

	var stepNode ast.Node
	if p.current().IsKeyword("STEP") {
		p.advance()
		stepRes := p.parseExpr()
		if stepRes.Err != nil {
			return stepRes
		}
		stepNode = stepRes.Node
	}

	if !p.current().IsKeyword("THEN") {
		return Failure(perror.NewInvalidSyntax("expected 'THEN'", p.current().Span))
	}
	p.advance()

	body, isBlock := p.parseBlockOrInline("END")
	if body.Err != nil {
		return body
	}
	endSpan := body.Node.Span()
	if isBlock {
		if !p.current().IsKeyword("END") {
			return Failure(perror.NewInvalidSyntax("expected 'END'", p.current().Span))
		}
		endSpan = p.current().Span
		p.advance()
	}

	span := position.NewSpan(startTok.Span.Start, endSpan.End)
	return Success(ast.NewFor(span, nameTok.Value, startRes.Node, endRes.Node, stepNode, body.Node, isBlock))
}

func (p *Parser) parseWhileExpr() *ParseResult {
	startTok := p.advance() // WHILE
	condRes := p.parseExpr()
	if condRes.Err != nil {
		return condRes
	}
	if !p.current().IsKeyword("THEN") {
		return Failure(perror.NewInvalidSyntax("expected 'THEN'", p.current().Span))
	}
	p.advance()

	body, isBlock := p.parseBlockOrInline("END")
	if body.Err != nil {
		return body
	}
	endSpan := body.Node.Span()
	if isBlock {
		if !p.current().IsKeyword("END") {
			return Failure(perror.NewInvalidSyntax("expected 'END'", p.current().Span))
		}
		endSpan = p.current().Span
		p.advance()
	}

	span := position.NewSpan(startTok.Span.Start, endSpan.End)
	return Success(ast.NewWhile(span, condRes.Node, body.Node, isBlock))
}

func (p *Parser) parseFuncDef() *ParseResult {
	startTok := p.advance() // FUN
	name := ""
	if p.peekIs(token.IDENTIFIER) {
		name = p.advance().Value
	}

	if !p.peekIs(token.LPAREN) {
		return Failure(perror.NewInvalidSyntax("expected '('", p.current().Span))
	}
	p.advance()

	var argNames []string
	if p.peekIs(token.IDENTIFIER) {
		argNames = append(argNames, p.advance().Value)
		for p.peekIs(token.COMMA) {
			p.advance()
			if !p.peekIs(token.IDENTIFIER) {
				return Failure(perror.NewInvalidSyntax("expected identifier", p.current().Span))
			}
			argNames = append(argNames, p.advance().Value)
		}
	}

	if !p.peekIs(token.RPAREN) {
		return Failure(perror.NewInvalidSyntax("expected ')' or ','", p.current().Span))
	}
	p.advance()

	if p.peekIs(token.ARROW) {
		p.advance()
		bodyRes := p.parseExpr()
		if bodyRes.Err != nil {
			return bodyRes
		}
		span := position.NewSpan(startTok.Span.Start, bodyRes.Node.Span().End)
		return Success(ast.NewFuncDef(span, name, argNames, bodyRes.Node, true))
	}

	if !p.peekIs(token.NEWLINE) {
		return Failure(perror.NewInvalidSyntax("expected '->' or newline", p.current().Span))
	}
	p.advance()
	bodyRes := p.parseStatements()
	if bodyRes.Err != nil {
		return bodyRes
	}
	if !p.current().IsKeyword("END") {
		return Failure(perror.NewInvalidSyntax("expected 'END'", p.current().Span))
	}
	endTok := p.advance()
	span := position.NewSpan(startTok.Span.Start, endTok.Span.End)
	return Success(ast.NewFuncDef(span, name, argNames, bodyRes.Node, false))
}
