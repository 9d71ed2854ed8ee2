package parser

import (
	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/syntax"
)

// NodeHandle is the handle type every parser production returns.
type NodeHandle = arena.Handle[syntax.Node]
