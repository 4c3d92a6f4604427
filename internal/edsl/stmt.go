package edsl

import "ember/internal/types"

// Stmt pairs a result placeholder with the expression computing it and
// the statements of its nested scope. Body is non-empty only for
// scoping constructs such as loops.
type Stmt struct {
	LHS  *Expr
	RHS  *Expr
	Body []Stmt
}

// NewStmt allocates a fresh result placeholder for rhs.
func NewStmt(rhs *Expr, body ...Stmt) Stmt {
	return Stmt{LHS: NewUnbound(rhs.Type), RHS: rhs, Body: body}
}

// For builds a loop statement; the statement's LHS placeholder binds to
// the induction variable when emitted.
func For(lb, ub, step *Expr, body ...Stmt) Stmt {
	return NewStmt(ForExpr(lb, ub, step), body...)
}

// StmtBlock is a named scope owning argument placeholders and a
// statement sequence. Identity is the pointer; the emitter materializes
// each block at most once.
type StmtBlock struct {
	Name     string
	Args     []*Expr
	ArgTypes []types.TypeID
	Body     []Stmt
}

// NewStmtBlock creates a block with one fresh unbound placeholder per
// declared argument type.
func NewStmtBlock(name string, argTypes []types.TypeID, body ...Stmt) *StmtBlock {
	args := make([]*Expr, len(argTypes))
	for i, t := range argTypes {
		args[i] = NewUnbound(t)
	}
	return &StmtBlock{Name: name, Args: args, ArgTypes: argTypes, Body: body}
}
