// Package syntax implements spec §4.G: a generic, arena-resident concrete
// syntax tree. Every production the parser (§4.F) recognizes becomes a Node
// tagged with a NodeKind; traversal, rewriting, and printing are all
// implemented once, generically, by dispatching on that tag rather than by
// per-production visitor methods.
package syntax

// NodeKind discriminates a Node's grammar production (spec §3: "a
// discriminated variant over all grammar productions").
type NodeKind uint16

const (
	KindInvalid NodeKind = iota

	// Generic containers. A grammar list is represented directly as a Node
	// of one of these three kinds rather than as a distinct type per list
	// element, matching spec §3's "three list flavors": (i) homogeneous node
	// list, (ii) token list, (iii) separated list with delimiter tokens
	// interleaved as ordinary children alongside the element nodes.
	KindNodeList
	KindSeparatedList
	KindTokenList

	// Used by error recovery: a node that stands in for a production the
	// parser could not construct at all (every child it did manage to
	// consume is still attached, so no source is lost from the tree).
	KindError

	KindCompilationUnit

	// Top-level definitions (spec §4.H: "Compilation unit / Package /
	// Module / Interface / Program / Primitive").
	KindModuleDeclaration
	KindInterfaceDeclaration
	KindProgramDeclaration
	KindPackageDeclaration
	KindUdpDeclaration

	KindModuleHeader
	KindParameterPortList
	KindParameterDecl
	KindAnsiPortList
	KindAnsiPort
	KindNonAnsiPortList
	KindNonAnsiPort
	KindPortDeclaration
	KindUdpPortList
	KindUdpWildcardPortList
	KindUdpOutputDecl
	KindUdpInputDecl
	KindUdpRegDecl
	KindUdpInitialStatement
	KindUdpSequentialEntry

	KindDataType
	KindPackedDimension

	KindDataDeclaration
	KindVariableDeclarator
	KindNetDeclaration
	KindNetDeclarator
	KindContinuousAssign
	KindNetAssignment
	KindImportDeclaration
	KindImportItem
	KindNettypeDeclaration
	KindGenvarDeclaration
	KindTimeunitDeclaration
	KindTimeprecisionDeclaration
	KindEmptyMember

	KindAlwaysBlock
	KindInitialBlock
	KindFinalBlock

	KindBlockStatement
	KindIfStatement
	KindCaseStatement
	KindCaseItem
	KindForStatement
	KindWhileStatement
	KindForeverStatement
	KindAssignmentStatement
	KindExpressionStatement
	KindTimingControlStatement
	KindEventControl
	KindEventExpression

	KindIdentifierName
	KindScopedName
	KindLiteralExpression
	KindUnaryExpression
	KindBinaryExpression
	KindConditionalExpression
	KindParenthesizedExpression
	KindCastExpression
	KindConcatenationExpression
	KindReplicationExpression
	KindElementSelectExpression
	KindRangeSelectExpression
	KindMemberAccessExpression
	KindCallExpression
	KindAssignmentPatternExpression

	// Hierarchical instantiation (spec §3, §4.H: "Instance body ... a
	// parameter-bound realization of a module/interface/program. Two
	// instances with identical parameter bindings share a body").
	KindHierarchicalInstantiation
	KindParameterValueAssignment
	KindNamedParamAssignment
	KindHierarchicalInstance
	KindNamedPortConnection
	KindWildcardPortConnection

	// Modports (spec §4.H: simple/explicit/subroutine/clocking port kinds,
	// each with its own direction/lvalue rule).
	KindModportDeclaration
	KindModportItem
	KindModportSimplePort
	KindModportExplicitPort
	KindModportClockingPort

	// Clocking blocks (spec §4.H: default-skew items, clocking-variable
	// declarations with direction and optional per-signal skew).
	KindClockingDeclaration
	KindClockingSkewItem
	KindClockingSkew
	KindClockingVarDecl

	// Sequence/property/let declarations (spec §4.H: assertion-port typing,
	// `local` direction rules, untyped/inherited-type defaults).
	KindSequenceDeclaration
	KindPropertyDeclaration
	KindLetDeclaration
	KindAssertionPortList
	KindAssertionPort

	// Rand-sequence productions (spec §4.H: rule/weight/case binding).
	KindRandSequenceStatement
	KindRsProduction
	KindRsRule
	KindRsProdItem
	KindRsCodeBlock
	KindRsIfElse
	KindRsRepeat
	KindRsCase
	KindRsCaseItem
)

var kindNames = map[NodeKind]string{
	KindInvalid:                      "Invalid",
	KindNodeList:                     "NodeList",
	KindSeparatedList:                "SeparatedList",
	KindTokenList:                    "TokenList",
	KindError:                        "Error",
	KindCompilationUnit:              "CompilationUnit",
	KindModuleDeclaration:            "ModuleDeclaration",
	KindInterfaceDeclaration:         "InterfaceDeclaration",
	KindProgramDeclaration:           "ProgramDeclaration",
	KindPackageDeclaration:           "PackageDeclaration",
	KindUdpDeclaration:               "UdpDeclaration",
	KindModuleHeader:                 "ModuleHeader",
	KindParameterPortList:            "ParameterPortList",
	KindParameterDecl:                "ParameterDecl",
	KindAnsiPortList:                 "AnsiPortList",
	KindAnsiPort:                     "AnsiPort",
	KindNonAnsiPortList:              "NonAnsiPortList",
	KindNonAnsiPort:                  "NonAnsiPort",
	KindPortDeclaration:              "PortDeclaration",
	KindUdpPortList:                  "UdpPortList",
	KindUdpWildcardPortList:          "UdpWildcardPortList",
	KindUdpOutputDecl:                "UdpOutputDecl",
	KindUdpInputDecl:                 "UdpInputDecl",
	KindUdpRegDecl:                   "UdpRegDecl",
	KindUdpInitialStatement:          "UdpInitialStatement",
	KindUdpSequentialEntry:           "UdpSequentialEntry",
	KindDataType:                     "DataType",
	KindPackedDimension:              "PackedDimension",
	KindDataDeclaration:              "DataDeclaration",
	KindVariableDeclarator:           "VariableDeclarator",
	KindNetDeclaration:               "NetDeclaration",
	KindNetDeclarator:                "NetDeclarator",
	KindContinuousAssign:             "ContinuousAssign",
	KindNetAssignment:                "NetAssignment",
	KindImportDeclaration:            "ImportDeclaration",
	KindImportItem:                   "ImportItem",
	KindNettypeDeclaration:           "NettypeDeclaration",
	KindGenvarDeclaration:            "GenvarDeclaration",
	KindTimeunitDeclaration:          "TimeunitDeclaration",
	KindTimeprecisionDeclaration:     "TimeprecisionDeclaration",
	KindEmptyMember:                  "EmptyMember",
	KindAlwaysBlock:                  "AlwaysBlock",
	KindInitialBlock:                 "InitialBlock",
	KindFinalBlock:                   "FinalBlock",
	KindBlockStatement:               "BlockStatement",
	KindIfStatement:                  "IfStatement",
	KindCaseStatement:                "CaseStatement",
	KindCaseItem:                     "CaseItem",
	KindForStatement:                 "ForStatement",
	KindWhileStatement:               "WhileStatement",
	KindForeverStatement:             "ForeverStatement",
	KindAssignmentStatement:          "AssignmentStatement",
	KindExpressionStatement:          "ExpressionStatement",
	KindTimingControlStatement:       "TimingControlStatement",
	KindEventControl:                 "EventControl",
	KindEventExpression:              "EventExpression",
	KindIdentifierName:               "IdentifierName",
	KindScopedName:                   "ScopedName",
	KindLiteralExpression:            "LiteralExpression",
	KindUnaryExpression:              "UnaryExpression",
	KindBinaryExpression:             "BinaryExpression",
	KindConditionalExpression:        "ConditionalExpression",
	KindParenthesizedExpression:      "ParenthesizedExpression",
	KindCastExpression:               "CastExpression",
	KindConcatenationExpression:      "ConcatenationExpression",
	KindReplicationExpression:        "ReplicationExpression",
	KindElementSelectExpression:      "ElementSelectExpression",
	KindRangeSelectExpression:        "RangeSelectExpression",
	KindMemberAccessExpression:       "MemberAccessExpression",
	KindCallExpression:               "CallExpression",
	KindAssignmentPatternExpression:  "AssignmentPatternExpression",
	KindHierarchicalInstantiation:   "HierarchicalInstantiation",
	KindParameterValueAssignment:    "ParameterValueAssignment",
	KindNamedParamAssignment:        "NamedParamAssignment",
	KindHierarchicalInstance:        "HierarchicalInstance",
	KindNamedPortConnection:         "NamedPortConnection",
	KindWildcardPortConnection:      "WildcardPortConnection",
	KindModportDeclaration:          "ModportDeclaration",
	KindModportItem:                 "ModportItem",
	KindModportSimplePort:           "ModportSimplePort",
	KindModportExplicitPort:         "ModportExplicitPort",
	KindModportClockingPort:         "ModportClockingPort",
	KindClockingDeclaration:         "ClockingDeclaration",
	KindClockingSkewItem:            "ClockingSkewItem",
	KindClockingSkew:                "ClockingSkew",
	KindClockingVarDecl:             "ClockingVarDecl",
	KindSequenceDeclaration:         "SequenceDeclaration",
	KindPropertyDeclaration:         "PropertyDeclaration",
	KindLetDeclaration:              "LetDeclaration",
	KindAssertionPortList:           "AssertionPortList",
	KindAssertionPort:               "AssertionPort",
	KindRandSequenceStatement:       "RandSequenceStatement",
	KindRsProduction:                "RsProduction",
	KindRsRule:                      "RsRule",
	KindRsProdItem:                  "RsProdItem",
	KindRsCodeBlock:                 "RsCodeBlock",
	KindRsIfElse:                    "RsIfElse",
	KindRsRepeat:                    "RsRepeat",
	KindRsCase:                      "RsCase",
	KindRsCaseItem:                  "RsCaseItem",
}

func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "NodeKind(?)"
}
