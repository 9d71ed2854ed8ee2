package diagnostics

// Diagnostic codes used across the front end. Grouped by the component that
// emits them; kept in one file so the full catalog is easy to scan (spec
// §8's seed tests reference several of these by name).
const (
	// Lexer (spec §4.D).
	CodeUnknownToken              Code = "UnknownToken"
	CodeUnterminatedBlockComment  Code = "UnterminatedBlockComment"
	CodeUnterminatedString        Code = "UnterminatedString"
	CodeUnterminatedNumericLit    Code = "UnterminatedNumericLiteral"
	CodeInvalidNumericLit         Code = "InvalidNumericLiteral"
	CodeEscapedIdentifierNoSpace  Code = "ExpectedWhitespaceAfterEscapedIdentifier"

	// Preprocessor (spec §4.E).
	CodeUnknownDirective       Code = "UnknownDirective"
	CodeUnterminatedMacroArgs  Code = "ExpectedMacroArgs"
	CodeTooFewMacroArgs        Code = "TooFewMacroArguments"
	CodeTooManyMacroArgs       Code = "TooManyMacroArguments"
	CodeMacroRedefinition      Code = "MacroRedefinition"
	CodeUndefinedMacro         Code = "UndefinedMacro"
	CodeMacroPasteFailed       Code = "InvalidMacroPaste"
	CodeUnbalancedConditional  Code = "UnbalancedMacroConditional"
	CodeIncludeNotFound        Code = "CouldNotOpenInclude"
	CodeIncludeDepth           Code = "ExceededMaxIncludeDepth"
	CodeMismatchedTimeScales   Code = "MismatchedTimeScales"

	// Parser (spec §4.F).
	CodeExpectedToken      Code = "ExpectedToken"
	CodeExpectedExpression Code = "ExpectedExpression"
	CodeExpectedIdentifier Code = "ExpectedIdentifier"
	CodeUnexpectedToken    Code = "UnexpectedToken"
	CodeSkippedTokens      Code = "SkippedTokens"
	CodePortDeclInANSIModule Code = "PortDeclInANSIModule"

	// Elaboration (spec §4.H).
	CodeRecursiveDefinition     Code = "RecursiveDefinition"
	CodeUnknownIdentifier       Code = "UnknownIdentifier"
	CodeMultipleDefaultInSkew   Code = "MultipleDefaultInputSkew"
	CodeMultipleDefaultOutSkew  Code = "MultipleDefaultOutputSkew"
	CodeUnsupportedUdpPortList  Code = "UnsupportedUdpPortList"
	CodeUdpDuplicatePortDecl    Code = "UdpDuplicatePortDecl"
	CodeUdpMissingPortDecl      Code = "UdpMissingPortDecl"
	CodeUdpMisnamedRegPort      Code = "UdpMisnamedRegPort"
	CodeUdpOutputNotFirst       Code = "UdpOutputPortNotFirst"
	CodeUdpInvalidInitialTarget Code = "UdpInvalidInitialTarget"
	CodeUdpInvalidInitialValue  Code = "UdpInvalidInitialValue"
	CodeUdpInitialNotSequential Code = "UdpInitialOnlyOnSequential"
	CodeAutomaticDemotedStatic  Code = "AutomaticNotAllowedHereDemotedToStatic"
	CodeStaticNeedsKeyword      Code = "StaticInitializerNeedsExplicitKeyword"
	CodeConstNeedsInitializer   Code = "ConstVarRequiresInitializer"
	CodeNetInPackageInitializer Code = "NetDeclaredInPackageCannotHaveInitializer"
	CodeModportNotLvalue        Code = "InvalidModportDirectionLvalue"
	CodeModportOnSubroutine     Code = "ModportSubroutinePortMustBeMethod"
	CodeAssertionPortLocalOutDir Code = "AssertionPortLocalOutputDisallowed"
	CodeAssertionPortDefaultOnOut Code = "AssertionPortDefaultValueOnOutputDisallowed"
	CodeElabSystemTaskBadArg    Code = "ElabSystemTaskBadFirstArgument"

	// Elaboration system tasks, issued under the task's own family code so
	// tools can filter `$fatal`/`$error`/etc. output distinctly.
	CodeElabFatal   Code = "StaticElabFatal"
	CodeElabError   Code = "StaticElabError"
	CodeElabWarning Code = "StaticElabWarning"
	CodeElabInfo    Code = "StaticElabInfo"

	// Source manager (spec §4.B).
	CodeIoError  Code = "IoError"
	CodeNotFound Code = "NotFound"
)
