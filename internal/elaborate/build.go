package elaborate

import (
	"strings"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// elaborateTopLevel dispatches one compilation-unit member to its
// declaration-kind elaborator, adding the resulting symbol to the shared
// compilation-unit scope (spec §4.H: "Compilation unit / Package / Module /
// Interface / Program / Primitive").
func (c *Compilation) elaborateTopLevel(tree *syntax.Tree, h nodeHandle) {
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindModuleDeclaration:
		c.elaborateModuleLike(tree, h, KindModule)
	case syntax.KindInterfaceDeclaration:
		c.elaborateModuleLike(tree, h, KindInterface)
	case syntax.KindProgramDeclaration:
		c.elaborateModuleLike(tree, h, KindProgram)
	case syntax.KindPackageDeclaration:
		c.elaboratePackage(tree, h)
	case syntax.KindUdpDeclaration:
		c.elaborateUdp(tree, h)
	}
}

// elaborateModuleLike handles the shared shape of module, interface, and
// program declarations: a header (name, optional parameter port list,
// optional ANSI/non-ANSI port list) and a member list.
func (c *Compilation) elaborateModuleLike(tree *syntax.Tree, h nodeHandle, kind Kind) SymbolHandle {
	n := tree.Get(h)
	header := tree.Get(childNode(n.Children, 0))
	nameTok := childToken(header.Children, 1)

	sym := Symbol{Kind: kind, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	handle := c.newSymbol(sym)
	scope := newScope(c, handle, c.units)
	c.Symbol(handle).Scope = scope
	c.units.AddMember(handle)

	ansi := false
	for _, ch := range header.Children {
		if ch.IsToken {
			continue
		}
		switch tree.Get(ch.Node).Kind {
		case syntax.KindParameterPortList:
			c.elaborateParameterPortList(tree, scope, ch.Node)
		case syntax.KindAnsiPortList:
			ansi = true
		case syntax.KindNonAnsiPortList:
			ansi = false
		}
	}

	for _, mh := range trailingNodes(n, 1) {
		c.elaborateMember(tree, scope, mh, ansi)
	}
	return handle
}

func (c *Compilation) elaborateParameterPortList(tree *syntax.Tree, scope *Scope, h nodeHandle) {
	tok, _ := firstToken(tree, h)
	lookupOffset := int(tok.Range.Start.Offset)
	ppl := tree.Get(h)
	for _, ch := range ppl.Children {
		if ch.IsToken {
			continue
		}
		list := tree.Get(ch.Node)
		if list.Kind != syntax.KindSeparatedList {
			continue
		}
		for _, ich := range list.Children {
			if ich.IsToken {
				continue
			}
			pd := tree.Get(ich.Node)
			if pd.Kind != syntax.KindParameterDecl {
				continue
			}
			c.elaborateParameterDecl(tree, scope, ich.Node, pd, lookupOffset)
		}
	}
}

// elaboratePackage handles a `package name; members endpackage` declaration.
func (c *Compilation) elaboratePackage(tree *syntax.Tree, h nodeHandle) SymbolHandle {
	n := tree.Get(h)
	nameTok := childToken(n.Children, 1)

	sym := Symbol{Kind: KindPackage, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	handle := c.newSymbol(sym)
	scope := newScope(c, handle, c.units)
	c.Symbol(handle).Scope = scope
	c.units.AddMember(handle)

	for _, mh := range trailingNodes(n, 3) {
		c.elaborateMember(tree, scope, mh, false)
	}
	return handle
}

// elaborateMember dispatches one module/interface/program/package body
// member. ansi records whether the enclosing module-like declaration's
// header used an ANSI port list, needed to flag a stray non-ANSI port
// direction declaration inside one (spec §4.H / §8 seed test 6).
func (c *Compilation) elaborateMember(tree *syntax.Tree, scope *Scope, h nodeHandle, ansi bool) {
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindEmptyMember:
	case syntax.KindTimeunitDeclaration:
		c.elaborateTimeunitDecl(tree, n, false)
	case syntax.KindTimeprecisionDeclaration:
		c.elaborateTimeunitDecl(tree, n, true)
	case syntax.KindDataDeclaration:
		c.elaborateDataDeclaration(tree, scope, h, n)
	case syntax.KindNetDeclaration:
		c.elaborateNetDeclaration(tree, scope, h, n)
	case syntax.KindContinuousAssign:
		c.elaborateContinuousAssign(tree, scope, n)
	case syntax.KindImportDeclaration:
		c.elaborateImportDeclaration(tree, scope, n)
	case syntax.KindNettypeDeclaration:
		c.elaborateNettypeDeclaration(tree, scope, h, n)
	case syntax.KindGenvarDeclaration:
		c.elaborateGenvarDeclaration(tree, scope, n)
	case syntax.KindPortDeclaration:
		c.elaboratePortDeclaration(tree, scope, n, ansi)
	case syntax.KindAlwaysBlock, syntax.KindInitialBlock, syntax.KindFinalBlock:
		c.elaborateProceduralBlock(tree, scope, childNode(n.Children, 1))
	case syntax.KindHierarchicalInstantiation:
		c.elaborateHierarchicalInstantiation(tree, scope, n)
	case syntax.KindModportDeclaration:
		c.elaborateModportDeclaration(tree, scope, n)
	case syntax.KindClockingDeclaration:
		c.elaborateClockingDeclaration(tree, scope, n)
	case syntax.KindSequenceDeclaration:
		c.elaborateSequenceDeclaration(tree, scope, h, n)
	case syntax.KindPropertyDeclaration:
		c.elaboratePropertyDeclaration(tree, scope, h, n)
	case syntax.KindLetDeclaration:
		c.elaborateLetDeclaration(tree, scope, h, n)
	}
}

func (c *Compilation) elaborateTimeunitDecl(tree *syntax.Tree, n *syntax.Node, isPrecision bool) {
	unitTok := childToken(n.Children, 1)
	c.checkTimescale(c.text(unitTok), unitTok.Range, isPrecision)
	if !isPrecision && len(n.Children) >= 4 && n.Children[2].IsToken && n.Children[2].Tok.Kind == lexer.TokenSlash {
		precTok := childToken(n.Children, 3)
		c.checkTimescale(c.text(precTok), precTok.Range, true)
	}
}

// checkTimescale is a simplified version of full SV unit-scope/timescale
// inheritance: it just compares every timeunit/timeprecision declaration
// seen across the whole compilation against the first one recorded, rather
// than tracking a per-scope effective timescale (spec §8 seed test 4 only
// exercises the two-differing-declarations case).
func (c *Compilation) checkTimescale(unit string, rng text.Range, isPrecision bool) {
	if c.timescale == nil {
		c.timescale = &timescaleState{}
	}
	if isPrecision {
		if c.timescale.precision != "" && c.timescale.precision != unit {
			diagnostics.ReportError(c.Diags, diagnostics.CodeMismatchedTimeScales, rng,
				"timeprecision '%s' conflicts with previously declared '%s'", unit, c.timescale.precision).Emit()
			return
		}
		c.timescale.precision = unit
		return
	}
	if c.timescale.unit != "" && c.timescale.unit != unit {
		diagnostics.ReportError(c.Diags, diagnostics.CodeMismatchedTimeScales, rng,
			"timeunit '%s' conflicts with previously declared '%s'", unit, c.timescale.unit).Emit()
		return
	}
	c.timescale.unit = unit
}

// resolveDataType resolves a DataType node (builtin keyword or user type
// name) to a Type, reporting isNet (and the backing nettype symbol) when the
// type name resolves to a user-defined nettype (spec §4.H: "m.a resolves to
// a net with ... nettype name foo"). A Nil dtHandle is the implicit-type
// case (spec's default vector type).
func (c *Compilation) resolveDataType(tree *syntax.Tree, scope *Scope, lookupOffset int, dtHandle nodeHandle, rng text.Range) (*Type, bool, SymbolHandle) {
	if dtHandle.IsNil() {
		return builtinType(lexer.TokenKwLogic, 0, false, false, false), false, SymbolHandle{}
	}
	n := tree.Get(dtHandle)
	if len(n.Children) == 0 {
		return errorType, false, SymbolHandle{}
	}
	first := n.Children[0]
	if first.IsToken {
		width, hasWidth := c.packedWidth(tree, n.Children[1:])
		signed, signedSet := signQualifier(n)
		return builtinType(first.Tok.Kind, width, hasWidth, signed, signedSet), false, SymbolHandle{}
	}

	name := c.identifierText(tree, first.Node)
	symHandle, ok := scope.Lookup(name, lookupOffset, 0)
	if !ok {
		diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, rng,
			"unknown identifier '%s'", name).Emit()
		return errorType, false, SymbolHandle{}
	}
	sym := c.Symbol(symHandle)
	if sym.Kind != KindNettype {
		diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, rng,
			"'%s' does not name a type", name).Emit()
		return errorType, false, SymbolHandle{}
	}
	if cell, ok := c.nettypeCells[symHandle]; ok {
		elem := cell.Type(c.Diags, rng)
		if elem == nil {
			return errorType, true, symHandle
		}
		return &Type{Kind: TypeKindNetAlias, Name: name, Alias: elem}, true, symHandle
	}
	elem := errorType
	if sym.Nettype != nil && sym.Nettype.ElementType != nil {
		elem = sym.Nettype.ElementType
	}
	return &Type{Kind: TypeKindNetAlias, Name: name, Alias: elem}, true, symHandle
}

func signQualifier(n *syntax.Node) (signed bool, signedSet bool) {
	for _, ch := range n.Children[1:] {
		if ch.IsToken && (ch.Tok.Kind == lexer.TokenKwSigned || ch.Tok.Kind == lexer.TokenKwUnsigned) {
			return ch.Tok.Kind == lexer.TokenKwSigned, true
		}
	}
	return false, false
}

// packedWidth folds a data type's packed-dimension children into a combined
// bit width, constant-evaluating each dimension's bounds.
func (c *Compilation) packedWidth(tree *syntax.Tree, rest []syntax.Child) (int, bool) {
	width := 0
	found := false
	for _, ch := range rest {
		if ch.IsToken {
			continue
		}
		dim := tree.Get(ch.Node)
		if dim.Kind != syntax.KindPackedDimension {
			continue
		}
		msb, ok1 := c.evalConstant(tree, childNode(dim.Children, 1))
		lsb, ok2 := c.evalConstant(tree, childNode(dim.Children, 3))
		if !ok1 || !ok2 {
			continue
		}
		w := msb - lsb
		if w < 0 {
			w = -w
		}
		w++
		if !found {
			width, found = int(w), true
		} else {
			width *= int(w)
		}
	}
	return width, found
}

func (c *Compilation) elaborateDataDeclaration(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	tok, _ := firstToken(tree, h)
	lookupOffset := int(tok.Range.Start.Offset)

	if len(n.Children) > 0 && !n.Children[0].IsToken {
		if first := tree.Get(n.Children[0].Node); first.Kind == syntax.KindParameterDecl {
			c.elaborateParameterDecl(tree, scope, n.Children[0].Node, first, lookupOffset)
			return
		}
	}

	idx := 0
	var dt nodeHandle
	if len(n.Children) > 0 && !n.Children[0].IsToken && tree.Get(n.Children[0].Node).Kind == syntax.KindDataType {
		dt = n.Children[0].Node
		idx = 1
	}
	t, isNet, netSym := c.resolveDataType(tree, scope, lookupOffset, dt, tok.Range)
	declared := constDeclaredType(t)
	kind := KindVariable
	if isNet {
		kind = KindNet
	}
	for i := idx; i < len(n.Children); i++ {
		ch := n.Children[i]
		if ch.IsToken {
			continue
		}
		if decl := tree.Get(ch.Node); decl.Kind == syntax.KindVariableDeclarator {
			sh := c.elaborateVariableDeclarator(tree, scope, kind, ch.Node, declared)
			if isNet {
				c.Symbol(sh).Value.NetType = netSym
			}
		}
	}
}

func (c *Compilation) elaborateVariableDeclarator(tree *syntax.Tree, scope *Scope, kind Kind, h nodeHandle, declared *DeclaredType) SymbolHandle {
	n := tree.Get(h)
	name, nameTok := c.declaratorName(tree, h)
	sym := Symbol{Kind: kind, Name: name, Range: nameTok.Range, Decl: h}
	sym.Value = &ValueData{DeclaredType: declared, Initializer: declaratorInitializer(n)}
	handle := c.newSymbol(sym)
	scope.AddMember(handle)
	return handle
}

func (c *Compilation) elaborateParameterDecl(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node, lookupOffset int) {
	idx := 0
	if n.Children[0].IsToken && (n.Children[0].Tok.Kind == lexer.TokenKwParameter || n.Children[0].Tok.Kind == lexer.TokenKwLocalparam) {
		idx = 1
	}
	var dt nodeHandle
	if idx < len(n.Children) && !n.Children[idx].IsToken && tree.Get(n.Children[idx].Node).Kind == syntax.KindDataType {
		dt = n.Children[idx].Node
		idx++
	}
	nameTok := childToken(n.Children, idx)
	idx++
	var init nodeHandle
	if idx+1 < len(n.Children) && n.Children[idx].IsToken && n.Children[idx].Tok.Kind == lexer.TokenEqual {
		init = childNode(n.Children, idx+1)
	}

	t, _, _ := c.resolveDataType(tree, scope, lookupOffset, dt, nameTok.Range)
	sym := Symbol{Kind: KindVariable, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	sym.Value = &ValueData{
		DeclaredType: constDeclaredType(t),
		Initializer:  init,
		Lifetime:     LifetimeStatic,
		Flags:        FlagConst,
	}
	handle := c.newSymbol(sym)
	scope.AddMember(handle)
}

func (c *Compilation) elaborateGenvarDeclaration(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	intType := constDeclaredType(builtinType(lexer.TokenKwInt, 0, false, true, true))
	for _, ch := range n.Children {
		if !ch.IsToken || ch.Tok.Kind != lexer.TokenIdentifier {
			continue
		}
		sym := Symbol{Kind: KindGenvar, Name: c.text(ch.Tok), Range: ch.Tok.Range}
		sym.Value = &ValueData{DeclaredType: intType, Lifetime: LifetimeStatic}
		scope.AddMember(c.newSymbol(sym))
	}
}

func (c *Compilation) elaborateNetDeclaration(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	tok, _ := firstToken(tree, h)
	lookupOffset := int(tok.Range.Start.Offset)

	idx := 1
	var dt nodeHandle
	if idx < len(n.Children) && !n.Children[idx].IsToken && tree.Get(n.Children[idx].Node).Kind == syntax.KindDataType {
		dt = n.Children[idx].Node
		idx++
	}
	t, _, _ := c.resolveDataType(tree, scope, lookupOffset, dt, tok.Range)
	declared := constDeclaredType(t)
	for i := idx; i < len(n.Children); i++ {
		ch := n.Children[i]
		if ch.IsToken {
			continue
		}
		decl := tree.Get(ch.Node)
		if decl.Kind != syntax.KindNetDeclarator {
			continue
		}
		name, nameTok := c.declaratorName(tree, ch.Node)
		sym := Symbol{Kind: KindNet, Name: name, Range: nameTok.Range, Decl: ch.Node}
		sym.Value = &ValueData{DeclaredType: declared, Initializer: declaratorInitializer(decl)}
		scope.AddMember(c.newSymbol(sym))
	}
}

func (c *Compilation) elaboratePortDeclaration(tree *syntax.Tree, scope *Scope, n *syntax.Node, ansi bool) {
	dirTok := childToken(n.Children, 0)
	if ansi {
		diagnostics.ReportError(c.Diags, diagnostics.CodePortDeclInANSIModule, dirTok.Range,
			"port direction declaration is not allowed in a module with an ANSI port list").Emit()
	}
	idx := 1
	var dt nodeHandle
	if idx < len(n.Children) && !n.Children[idx].IsToken && tree.Get(n.Children[idx].Node).Kind == syntax.KindDataType {
		dt = n.Children[idx].Node
		idx++
	}
	t, _, _ := c.resolveDataType(tree, scope, int(dirTok.Range.Start.Offset), dt, dirTok.Range)
	declared := constDeclaredType(t)
	for i := idx; i < len(n.Children); i++ {
		ch := n.Children[i]
		if ch.IsToken {
			continue
		}
		if decl := tree.Get(ch.Node); decl.Kind == syntax.KindVariableDeclarator {
			c.elaborateVariableDeclarator(tree, scope, KindNet, ch.Node, declared)
		}
	}
}

// elaborateContinuousAssign elaborates every `lhs = rhs` item of an `assign`
// statement, creating an implicit net for a bare-identifier LHS that names
// nothing yet (spec §4.H: "Continuous assignments may create implicit nets
// on their LHS when the default nettype is not none").
func (c *Compilation) elaborateContinuousAssign(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	for _, ch := range n.Children {
		if ch.IsToken {
			continue
		}
		assign := tree.Get(ch.Node)
		if assign.Kind != syntax.KindNetAssignment {
			continue
		}
		lhs := childNode(assign.Children, 0)
		rhs := childNode(assign.Children, 2)
		c.maybeCreateImplicitNet(tree, scope, lhs)

		tok, _ := firstToken(tree, ch.Node)
		sym := Symbol{Kind: KindContinuousAssign, Range: tok.Range, Decl: ch.Node}
		sym.Assign = &ContinuousAssignData{LHS: lhs, RHS: rhs}
		scope.AddMember(c.newSymbol(sym))
	}
}

func (c *Compilation) maybeCreateImplicitNet(tree *syntax.Tree, scope *Scope, lhs nodeHandle) {
	n := tree.Get(lhs)
	if n.Kind != syntax.KindIdentifierName {
		return
	}
	name := c.identifierText(tree, lhs)
	if name == "" || c.defaultNettype == nil {
		return
	}
	if _, ok := scope.lookupLocal(name, 1<<30, LookupAllowDeclaredAfter); ok {
		return
	}
	tok, _ := firstToken(tree, lhs)
	sym := Symbol{Kind: KindNet, Name: name, Range: tok.Range, Decl: lhs}
	sym.Value = &ValueData{DeclaredType: constDeclaredType(c.defaultNettype), Flags: FlagCompilerGenerated}
	scope.AddMember(c.newSymbol(sym))
}

func (c *Compilation) elaborateImportDeclaration(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	for _, ch := range n.Children {
		if ch.IsToken {
			continue
		}
		item := tree.Get(ch.Node)
		if item.Kind != syntax.KindImportItem {
			continue
		}
		pkgTok := childToken(item.Children, 0)
		last := item.Children[len(item.Children)-1]
		wildcard := last.IsToken && last.Tok.Kind == lexer.TokenStar
		memberName := ""
		if !wildcard {
			memberName = c.text(last.Tok)
		}
		sym := Symbol{Kind: KindImport, Name: memberName, Range: pkgTok.Range, Decl: ch.Node}
		sym.Import = &ImportData{PackageName: c.text(pkgTok), MemberName: memberName, Wildcard: wildcard}
		scope.AddMember(c.newSymbol(sym))
	}
}

// elaborateNettypeDeclaration parses `nettype type name [with func];`,
// resolving the element type through a cached DeclaredType cell so a
// nettype-to-nettype reference cycle is caught instead of looping forever
// (spec §9: "three-state lazy cell... in-progress acts as a cycle guard").
func (c *Compilation) elaborateNettypeDeclaration(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	dtHandle := childNode(n.Children, 1)
	nameTok := childToken(n.Children, 2)

	sym := Symbol{Kind: KindNettype, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	sym.Nettype = &NettypeData{}
	if len(n.Children) >= 5 && n.Children[3].IsToken && n.Children[3].Tok.Kind == lexer.TokenKwWith {
		sym.Nettype.ResolutionFunc = c.text(childToken(n.Children, 4))
	}
	handle := c.newSymbol(sym)
	scope.AddMember(handle)

	lookupOffset := int(nameTok.Range.Start.Offset)
	cell := NewDeclaredType(func() *Type {
		t, _, _ := c.resolveDataType(tree, scope, lookupOffset, dtHandle, nameTok.Range)
		return t
	})
	c.nettypeCells[handle] = cell
	c.Symbol(handle).Nettype.ElementType = cell.Type(c.Diags, nameTok.Range)
}

// elaborateUdp elaborates a `primitive` declaration: its port list (rejecting
// the wildcard `.*` form, spec §9's Open Question decision), the non-ANSI
// output/input/reg port declarations that classify it as combinational or
// sequential, and an optional `initial` statement.
func (c *Compilation) elaborateUdp(tree *syntax.Tree, h nodeHandle) SymbolHandle {
	n := tree.Get(h)
	nameTok := childToken(n.Children, 1)

	sym := Symbol{Kind: KindPrimitive, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	handle := c.newSymbol(sym)
	scope := newScope(c, handle, c.units)
	c.Symbol(handle).Scope = scope
	c.units.AddMember(handle)

	udp := &UdpData{}
	c.Symbol(handle).Udp = udp

	portsHandle := childNode(n.Children, 3)
	portsNode := tree.Get(portsHandle)
	if portsNode.Kind == syntax.KindUdpWildcardPortList {
		startTok := childToken(portsNode.Children, 0)
		diagnostics.ReportError(c.Diags, diagnostics.CodeUnsupportedUdpPortList, startTok.Range,
			"wildcard primitive port lists are not supported").Emit()
		return handle
	}

	declaredPorts := make(map[string]bool)
	for _, ch := range portsNode.Children {
		if ch.IsToken {
			continue
		}
		if id := tree.Get(ch.Node); id.Kind == syntax.KindIdentifierName {
			declaredPorts[c.identifierText(tree, ch.Node)] = true
		}
	}

	var outputName, regName string
	var inputNames []string
	outputSeen, seenNonOutput := false, false
	var initialTok syntax.Token
	var initialTarget, initialValue nodeHandle

	for _, mh := range trailingNodes(n, 6) {
		item := tree.Get(mh)
		switch item.Kind {
		case syntax.KindUdpOutputDecl:
			nt := childToken(item.Children, 1)
			if outputSeen {
				diagnostics.ReportError(c.Diags, diagnostics.CodeUdpDuplicatePortDecl, nt.Range,
					"duplicate output port declaration '%s'", c.text(nt)).Emit()
			} else if seenNonOutput {
				diagnostics.ReportError(c.Diags, diagnostics.CodeUdpOutputNotFirst, nt.Range,
					"output port declaration must come first").Emit()
			}
			outputSeen = true
			outputName = c.text(nt)
			c.addUdpPortSymbol(scope, KindUdpOutputPort, outputName, nt)
		case syntax.KindUdpInputDecl:
			seenNonOutput = true
			for i := 1; i < len(item.Children); i++ {
				ch := item.Children[i]
				if !ch.IsToken || ch.Tok.Kind != lexer.TokenIdentifier {
					continue
				}
				name := c.text(ch.Tok)
				inputNames = append(inputNames, name)
				c.addUdpPortSymbol(scope, KindUdpInputPort, name, ch.Tok)
			}
		case syntax.KindUdpRegDecl:
			seenNonOutput = true
			nt := childToken(item.Children, 1)
			if regName != "" {
				diagnostics.ReportError(c.Diags, diagnostics.CodeUdpDuplicatePortDecl, nt.Range,
					"duplicate reg port declaration '%s'", c.text(nt)).Emit()
			}
			regName = c.text(nt)
			if !declaredPorts[regName] {
				diagnostics.ReportError(c.Diags, diagnostics.CodeUdpMisnamedRegPort, nt.Range,
					"'%s' is not a declared primitive port", regName).Emit()
			}
		case syntax.KindUdpInitialStatement:
			initialTok = childToken(item.Children, 0)
			initialTarget = childNode(item.Children, 1)
			initialValue = childNode(item.Children, 3)
		}
	}

	if !outputSeen {
		diagnostics.ReportError(c.Diags, diagnostics.CodeUdpMissingPortDecl, nameTok.Range,
			"primitive has no output port declaration").Emit()
	}
	for name := range declaredPorts {
		if name == outputName {
			continue
		}
		declared := false
		for _, in := range inputNames {
			if in == name {
				declared = true
				break
			}
		}
		if !declared {
			diagnostics.ReportError(c.Diags, diagnostics.CodeUdpMissingPortDecl, nameTok.Range,
				"port '%s' has no direction declaration", name).Emit()
		}
	}

	udp.OutputPort = outputName
	udp.InputPorts = inputNames
	udp.Sequential = regName != "" && regName == outputName

	if !initialTarget.IsNil() {
		if c.identifierText(tree, initialTarget) != outputName {
			diagnostics.ReportError(c.Diags, diagnostics.CodeUdpInvalidInitialTarget, initialTok.Range,
				"'initial' target must be the output port").Emit()
		}
		if !udp.Sequential {
			diagnostics.ReportError(c.Diags, diagnostics.CodeUdpInitialNotSequential, initialTok.Range,
				"'initial' statement is only valid on a sequential primitive").Emit()
		}
		valNode := tree.Get(initialValue)
		valTok := childToken(valNode.Children, 0)
		v, ok := c.evalLiteral(valTok)
		if lit := valTok.Literal; lit != nil && lit.Kind == lexer.TokenBasedIntLiteral &&
			(!lit.HasSize || lit.SizeInBits == 1) && strings.EqualFold(strings.ReplaceAll(lit.Digits, "_", ""), "x") {
			udp.InitialValue = 'x'
		} else if !ok || (v != 0 && v != 1) {
			diagnostics.ReportError(c.Diags, diagnostics.CodeUdpInvalidInitialValue, valTok.Range,
				"'initial' value must be 0, 1, or x").Emit()
		} else {
			udp.InitialValue = byte(v) + '0'
		}
	}

	return handle
}

func (c *Compilation) addUdpPortSymbol(scope *Scope, kind Kind, name string, tok syntax.Token) {
	sym := Symbol{Kind: kind, Name: name, Range: tok.Range}
	scope.AddMember(c.newSymbol(sym))
}

// elaborateProceduralBlock walks an initial/always/final block's body,
// recognizing only the statement shapes that carry elaboration-visible
// content: local data declarations (added directly to the enclosing scope,
// a documented simplification of SV's nested block scoping) and elaboration
// system task calls. Everything else is walked for nested structure only.
func (c *Compilation) elaborateProceduralBlock(tree *syntax.Tree, scope *Scope, bodyHandle nodeHandle) {
	c.elaborateStatement(tree, scope, bodyHandle)
}

func (c *Compilation) elaborateStatement(tree *syntax.Tree, scope *Scope, h nodeHandle) {
	if h.IsNil() {
		return
	}
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindBlockStatement:
		for _, ch := range n.Children {
			if !ch.IsToken {
				c.elaborateStatement(tree, scope, ch.Node)
			}
		}
	case syntax.KindDataDeclaration:
		c.elaborateDataDeclaration(tree, scope, h, n)
	case syntax.KindExpressionStatement:
		c.elaborateExpressionStatement(tree, scope, n)
	case syntax.KindIfStatement, syntax.KindCaseStatement, syntax.KindCaseItem,
		syntax.KindForStatement, syntax.KindWhileStatement, syntax.KindForeverStatement,
		syntax.KindTimingControlStatement:
		for _, ch := range n.Children {
			if ch.IsToken {
				continue
			}
			if isStatementKind(tree.Get(ch.Node).Kind) {
				c.elaborateStatement(tree, scope, ch.Node)
			}
		}
	case syntax.KindRandSequenceStatement:
		c.elaborateRandSequenceStatement(tree, scope, n)
	}
}

func isStatementKind(k syntax.NodeKind) bool {
	switch k {
	case syntax.KindBlockStatement, syntax.KindIfStatement, syntax.KindCaseStatement, syntax.KindCaseItem,
		syntax.KindForStatement, syntax.KindWhileStatement, syntax.KindForeverStatement,
		syntax.KindTimingControlStatement, syntax.KindExpressionStatement, syntax.KindDataDeclaration,
		syntax.KindAssignmentStatement, syntax.KindRandSequenceStatement:
		return true
	default:
		return false
	}
}

func (c *Compilation) elaborateExpressionStatement(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	exprHandle := childNode(n.Children, 0)
	expr := tree.Get(exprHandle)
	if expr.Kind != syntax.KindCallExpression {
		return
	}
	callee := tree.Get(childNode(expr.Children, 0))
	if callee.Kind != syntax.KindIdentifierName {
		return
	}
	idTok := childToken(callee.Children, 0)
	if idTok.Kind != lexer.TokenSystemIdentifier {
		return
	}
	c.elaborateElabSystemTask(tree, scope, exprHandle, expr, c.text(idTok), idTok.Range)
}

// elaborateElabSystemTask recognizes the elaboration-time system tasks
// `$fatal`/`$error`/`$warning`/`$info`/`$static_assert` (spec §4.H:
// "Elaboration system tasks"), applying $fatal's constant finish-number rule
// and $static_assert's constant-evaluable condition rule.
func (c *Compilation) elaborateElabSystemTask(tree *syntax.Tree, scope *Scope, exprHandle nodeHandle, expr *syntax.Node, taskName string, rng text.Range) {
	var args []nodeHandle
	for _, ch := range expr.Children {
		if ch.IsToken {
			continue
		}
		if list := tree.Get(ch.Node); list.Kind == syntax.KindSeparatedList {
			for _, ach := range list.Children {
				if !ach.IsToken {
					args = append(args, ach.Node)
				}
			}
		}
	}

	data := &ElabTaskData{TaskName: taskName}
	switch taskName {
	case "$fatal":
		data.Severity = "fatal"
		if len(args) > 0 {
			v, ok := c.evalConstant(tree, args[0])
			if !ok || (v != 0 && v != 1 && v != 2) {
				diagnostics.ReportError(c.Diags, diagnostics.CodeElabSystemTaskBadArg, rng,
					"$fatal's first argument must be a constant 0, 1, or 2").Emit()
			} else {
				data.FinishNumber = int(v)
			}
			args = args[1:]
		}
		data.Message = c.formatElabMessage(tree, args)
		diagnostics.ReportError(c.Diags, diagnostics.CodeElabFatal, rng, "%s", data.Message).Emit()
	case "$error":
		data.Severity = "error"
		data.Message = c.formatElabMessage(tree, args)
		diagnostics.ReportError(c.Diags, diagnostics.CodeElabError, rng, "%s", data.Message).Emit()
	case "$warning":
		data.Severity = "warning"
		data.Message = c.formatElabMessage(tree, args)
		diagnostics.ReportWarning(c.Diags, diagnostics.CodeElabWarning, rng, "%s", data.Message).Emit()
	case "$info":
		data.Severity = "info"
		data.Message = c.formatElabMessage(tree, args)
		diagnostics.ReportInfo(c.Diags, diagnostics.CodeElabInfo, rng, "%s", data.Message).Emit()
	case "$static_assert":
		if len(args) > 0 {
			data.Condition = args[0]
			v, ok := c.evalConstant(tree, args[0])
			switch {
			case !ok:
				diagnostics.ReportError(c.Diags, diagnostics.CodeElabSystemTaskBadArg, rng,
					"$static_assert's condition must be a constant expression").Emit()
			case v == 0:
				diagnostics.ReportError(c.Diags, diagnostics.CodeElabFatal, rng, "static assertion failed").Emit()
			}
		}
	default:
		return
	}
	sym := Symbol{Kind: KindElabSystemTask, Name: taskName, Range: rng, Decl: exprHandle}
	sym.ElabTask = data
	scope.AddMember(c.newSymbol(sym))
}

func (c *Compilation) formatElabMessage(tree *syntax.Tree, args []nodeHandle) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		n := tree.Get(a)
		if n.Kind == syntax.KindLiteralExpression {
			tok := childToken(n.Children, 0)
			if tok.Kind == lexer.TokenStringLiteral && tok.Literal != nil {
				parts = append(parts, tok.Literal.Decoded)
				continue
			}
			parts = append(parts, c.text(tok))
			continue
		}
		if tok, ok := firstToken(tree, a); ok {
			parts = append(parts, c.text(tok))
		}
	}
	return strings.Join(parts, " ")
}
