package parser

import "github.com/VeriOpen/slang/internal/lexer"

// ParseModuleMember is the parser's module-item entry point, for callers
// parsing a single member in isolation (tests, ParseGuess probing).
func (p *Parser) ParseModuleMember() NodeHandle {
	member := p.parseModuleMember()
	p.tree.SetRoot(member)
	return member
}

var topLevelKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwModule: true, lexer.TokenKwInterface: true, lexer.TokenKwProgram: true,
	lexer.TokenKwPackage: true, lexer.TokenKwPrimitive: true,
}

var memberOnlyKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwParameter: true, lexer.TokenKwLocalparam: true, lexer.TokenKwGenvar: true,
	lexer.TokenKwNettype: true, lexer.TokenKwImport: true, lexer.TokenKwAssign: true,
	lexer.TokenKwInitial: true, lexer.TokenKwFinal: true,
	lexer.TokenKwTimeunit: true, lexer.TokenKwTimeprecision: true,
}

var statementOnlyKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwBegin: true, lexer.TokenKwFor: true, lexer.TokenKwWhile: true,
	lexer.TokenKwForever: true,
}

// ParseGuess classifies an arbitrary standalone snippet by its leading
// tokens and dispatches to the matching entry point (spec §4.F: parsing an
// isolated fragment without already knowing which grammar rule it is —
// used by tooling that parses a snippet out of context, e.g. incremental
// editing or a REPL). A module-item keyword that is also a statement
// keyword (if/case families are shared between both grammars only by
// coincidence of spelling in other HDLs, not here) is resolved by which
// map claims it first; when a token is genuinely ambiguous between an
// expression and the fallback declaration heuristic, parseStatement's own
// speculative data-decl attempt sorts it out.
func (p *Parser) ParseGuess() NodeHandle {
	k := p.peek(0).Kind
	switch {
	case topLevelKeywords[k]:
		return p.ParseCompilationUnit()
	case memberOnlyKeywords[k] || netTypeKeywords[k] || alwaysKeywords[k] || portDirections[k] || k == lexer.TokenSemi:
		return p.ParseModuleMember()
	case statementOnlyKeywords[k] || caseKeywords[k] || k == lexer.TokenKwIf || k == lexer.TokenAt || k == lexer.TokenHash:
		return p.ParseStatement()
	default:
		return p.ParseExpression()
	}
}
