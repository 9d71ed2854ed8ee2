package lexer

// Keyword tokens, allocated from tokenKeywordBase so TokenKind.IsKeyword can
// stay a map lookup instead of hand-maintained range checks.
const (
	TokenKwModule TokenKind = tokenKeywordBase + iota
	TokenKwEndmodule
	TokenKwInterface
	TokenKwEndinterface
	TokenKwProgram
	TokenKwEndprogram
	TokenKwPackage
	TokenKwEndpackage
	TokenKwPrimitive
	TokenKwEndprimitive
	TokenKwTable
	TokenKwEndtable
	TokenKwClass
	TokenKwEndclass
	TokenKwExtends
	TokenKwImplements
	TokenKwVirtual
	TokenKwSuper
	TokenKwThis
	TokenKwNew
	TokenKwLocal
	TokenKwProtected
	TokenKwStatic
	TokenKwAutomatic
	TokenKwConst
	TokenKwPure

	TokenKwInput
	TokenKwOutput
	TokenKwInout
	TokenKwRef
	TokenKwImport
	TokenKwExport

	TokenKwWire
	TokenKwWand
	TokenKwWor
	TokenKwTri
	TokenKwTriand
	TokenKwTrior
	TokenKwTri0
	TokenKwTri1
	TokenKwTrireg
	TokenKwSupply0
	TokenKwSupply1
	TokenKwUwire
	TokenKwReg
	TokenKwLogic
	TokenKwBit
	TokenKwByte
	TokenKwShortint
	TokenKwInt
	TokenKwLongint
	TokenKwInteger
	TokenKwTime
	TokenKwReal
	TokenKwRealtime
	TokenKwShortreal
	TokenKwString
	TokenKwVoid
	TokenKwChandle
	TokenKwEvent
	TokenKwSigned
	TokenKwUnsigned
	TokenKwPacked
	TokenKwUnpacked
	TokenKwStruct
	TokenKwUnion
	TokenKwEnum
	TokenKwTypedef
	TokenKwType
	TokenKwGenvar
	TokenKwParameter
	TokenKwLocalparam
	TokenKwSpecparam
	TokenKwNettype
	TokenKwVar
	TokenKwTimeunit
	TokenKwTimeprecision

	TokenKwAssign
	TokenKwDeassign
	TokenKwForce
	TokenKwRelease
	TokenKwAlways
	TokenKwAlwaysComb
	TokenKwAlwaysFF
	TokenKwAlwaysLatch
	TokenKwInitial
	TokenKwFinal
	TokenKwPosedge
	TokenKwNegedge
	TokenKwEdge

	TokenKwIf
	TokenKwElse
	TokenKwCase
	TokenKwCasex
	TokenKwCasez
	TokenKwEndcase
	TokenKwDefault
	TokenKwFor
	TokenKwForeach
	TokenKwWhile
	TokenKwDo
	TokenKwRepeat
	TokenKwForever
	TokenKwBreak
	TokenKwContinue
	TokenKwReturn
	TokenKwBegin
	TokenKwEnd
	TokenKwFork
	TokenKwJoin
	TokenKwJoinAny
	TokenKwJoinNone
	TokenKwDisable
	TokenKwWait
	TokenKwWaitOrder

	TokenKwFunction
	TokenKwEndfunction
	TokenKwTask
	TokenKwEndtask

	TokenKwGenerate
	TokenKwEndgenerate
	TokenKwModport
	TokenKwClocking
	TokenKwEndclocking

	TokenKwProperty
	TokenKwEndproperty
	TokenKwSequence
	TokenKwEndsequence
	TokenKwLet
	TokenKwAssert
	TokenKwAssume
	TokenKwCover
	TokenKwExpect
	TokenKwRestrict

	TokenKwRand
	TokenKwRandc
	TokenKwConstraint
	TokenKwEndconstraint
	TokenKwRandomize
	TokenKwRandsequence
	TokenKwRandcase
	TokenKwSolve
	TokenKwBefore
	TokenKwInside
	TokenKwDist

	TokenKwSpecify
	TokenKwEndspecify

	TokenKwDefparam
	TokenKwScalared
	TokenKwVectored

	TokenKwAnd
	TokenKwOr
	TokenKwNand
	TokenKwNor
	TokenKwXor
	TokenKwXnor
	TokenKwNot
	TokenKwBuf
	TokenKwBufif0
	TokenKwBufif1
	TokenKwNotif0
	TokenKwNotif1

	TokenKwTrue
	TokenKwFalse
	TokenKwNull

	TokenKwUnique
	TokenKwUnique0
	TokenKwPriority
	TokenKwTagged
	TokenKwMatches
	TokenKwWith

	TokenKwPulldown
	TokenKwPullup
)

// keywordKinds maps the default ("1800-2017") keyword spelling to its
// TokenKind. It is the only keyword table: every KeywordProfile uses it,
// and `begin_keywords does not switch to a historical subset.
var keywordKinds = map[string]TokenKind{
	"module": TokenKwModule, "endmodule": TokenKwEndmodule,
	"interface": TokenKwInterface, "endinterface": TokenKwEndinterface,
	"program": TokenKwProgram, "endprogram": TokenKwEndprogram,
	"package": TokenKwPackage, "endpackage": TokenKwEndpackage,
	"primitive": TokenKwPrimitive, "endprimitive": TokenKwEndprimitive,
	"table": TokenKwTable, "endtable": TokenKwEndtable,
	"class": TokenKwClass, "endclass": TokenKwEndclass,
	"extends": TokenKwExtends, "implements": TokenKwImplements,
	"virtual": TokenKwVirtual, "super": TokenKwSuper, "this": TokenKwThis, "new": TokenKwNew,
	"local": TokenKwLocal, "protected": TokenKwProtected,
	"static": TokenKwStatic, "automatic": TokenKwAutomatic,
	"const": TokenKwConst, "pure": TokenKwPure,

	"input": TokenKwInput, "output": TokenKwOutput, "inout": TokenKwInout, "ref": TokenKwRef,
	"import": TokenKwImport, "export": TokenKwExport,

	"wire": TokenKwWire, "wand": TokenKwWand, "wor": TokenKwWor,
	"tri": TokenKwTri, "triand": TokenKwTriand, "trior": TokenKwTrior,
	"tri0": TokenKwTri0, "tri1": TokenKwTri1, "trireg": TokenKwTrireg,
	"supply0": TokenKwSupply0, "supply1": TokenKwSupply1, "uwire": TokenKwUwire,
	"reg": TokenKwReg, "logic": TokenKwLogic, "bit": TokenKwBit,
	"byte": TokenKwByte, "shortint": TokenKwShortint, "int": TokenKwInt,
	"longint": TokenKwLongint, "integer": TokenKwInteger, "time": TokenKwTime,
	"real": TokenKwReal, "realtime": TokenKwRealtime, "shortreal": TokenKwShortreal,
	"string": TokenKwString, "void": TokenKwVoid, "chandle": TokenKwChandle,
	"event": TokenKwEvent, "signed": TokenKwSigned, "unsigned": TokenKwUnsigned,
	"packed": TokenKwPacked, "unpacked": TokenKwUnpacked,
	"struct": TokenKwStruct, "union": TokenKwUnion, "enum": TokenKwEnum,
	"typedef": TokenKwTypedef, "type": TokenKwType, "genvar": TokenKwGenvar,
	"parameter": TokenKwParameter, "localparam": TokenKwLocalparam,
	"specparam": TokenKwSpecparam, "nettype": TokenKwNettype, "var": TokenKwVar,
	"timeunit": TokenKwTimeunit, "timeprecision": TokenKwTimeprecision,

	"assign": TokenKwAssign, "deassign": TokenKwDeassign,
	"force": TokenKwForce, "release": TokenKwRelease,
	"always": TokenKwAlways, "always_comb": TokenKwAlwaysComb,
	"always_ff": TokenKwAlwaysFF, "always_latch": TokenKwAlwaysLatch,
	"initial": TokenKwInitial, "final": TokenKwFinal,
	"posedge": TokenKwPosedge, "negedge": TokenKwNegedge, "edge": TokenKwEdge,

	"if": TokenKwIf, "else": TokenKwElse,
	"case": TokenKwCase, "casex": TokenKwCasex, "casez": TokenKwCasez,
	"endcase": TokenKwEndcase, "default": TokenKwDefault,
	"for": TokenKwFor, "foreach": TokenKwForeach,
	"while": TokenKwWhile, "do": TokenKwDo, "repeat": TokenKwRepeat, "forever": TokenKwForever,
	"break": TokenKwBreak, "continue": TokenKwContinue, "return": TokenKwReturn,
	"begin": TokenKwBegin, "end": TokenKwEnd,
	"fork": TokenKwFork, "join": TokenKwJoin, "join_any": TokenKwJoinAny, "join_none": TokenKwJoinNone,
	"disable": TokenKwDisable, "wait": TokenKwWait, "wait_order": TokenKwWaitOrder,

	"function": TokenKwFunction, "endfunction": TokenKwEndfunction,
	"task": TokenKwTask, "endtask": TokenKwEndtask,

	"generate": TokenKwGenerate, "endgenerate": TokenKwEndgenerate,
	"modport": TokenKwModport,
	"clocking": TokenKwClocking, "endclocking": TokenKwEndclocking,

	"property": TokenKwProperty, "endproperty": TokenKwEndproperty,
	"sequence": TokenKwSequence, "endsequence": TokenKwEndsequence,
	"let": TokenKwLet, "assert": TokenKwAssert, "assume": TokenKwAssume,
	"cover": TokenKwCover, "expect": TokenKwExpect, "restrict": TokenKwRestrict,

	"rand": TokenKwRand, "randc": TokenKwRandc,
	"constraint": TokenKwConstraint, "endconstraint": TokenKwEndconstraint,
	"randomize": TokenKwRandomize, "randsequence": TokenKwRandsequence, "randcase": TokenKwRandcase,
	"solve": TokenKwSolve, "before": TokenKwBefore, "inside": TokenKwInside, "dist": TokenKwDist,

	"specify": TokenKwSpecify, "endspecify": TokenKwEndspecify,
	"defparam": TokenKwDefparam, "scalared": TokenKwScalared, "vectored": TokenKwVectored,

	"and": TokenKwAnd, "or": TokenKwOr, "nand": TokenKwNand, "nor": TokenKwNor,
	"xor": TokenKwXor, "xnor": TokenKwXnor, "not": TokenKwNot,
	"buf": TokenKwBuf, "bufif0": TokenKwBufif0, "bufif1": TokenKwBufif1,
	"notif0": TokenKwNotif0, "notif1": TokenKwNotif1,

	"true": TokenKwTrue, "false": TokenKwFalse, "null": TokenKwNull,

	"unique": TokenKwUnique, "unique0": TokenKwUnique0, "priority": TokenKwPriority,
	"tagged": TokenKwTagged, "matches": TokenKwMatches, "with": TokenKwWith,

	"pulldown": TokenKwPulldown, "pullup": TokenKwPullup,
}

var keywordNameByKind map[TokenKind]string

func init() {
	keywordNameByKind = make(map[TokenKind]string, len(keywordKinds))
	for spelling, kind := range keywordKinds {
		keywordNameByKind[kind] = spelling
	}
}

// KeywordProfile names a reserved-word set selectable via the `` `begin_keywords ``
// directive (spec §4.D: "reserved words under the selected keyword profile").
type KeywordProfile string

// Supported keyword profiles. Versions before 1800-2009 lack a handful of
// words (e.g. "uwire", "nettype") but accepting the superset for those
// profiles only widens what parses, never narrows correct programs, so a
// single shared table is used for every profile.
const (
	ProfileDefault  KeywordProfile = "1800-2017"
	Profile2012     KeywordProfile = "1800-2012"
	Profile2009     KeywordProfile = "1800-2009"
	Profile2005     KeywordProfile = "1800-2005"
	ProfileVerilog2001 KeywordProfile = "1364-2001"
	ProfileVerilog1995 KeywordProfile = "1364-1995"
)

// LookupKeyword returns the TokenKind for ident, or (TokenIdentifier, false)
// if ident is not reserved. profile does not change the result.
func LookupKeyword(ident string, profile KeywordProfile) (TokenKind, bool) {
	kind, ok := keywordKinds[ident]
	if !ok {
		return TokenIdentifier, false
	}
	return kind, true
}
