package emit

import (
	"fmt"

	"ember/internal/edsl"
	"ember/internal/ir"
)

// EmitStmt emits one statement and leaves the cursor after the
// instructions the statement inserted, so siblings follow in
// declaration order. The cursor is saved and restored only around the
// descent into a loop body: statements following a loop emit into the
// parent scope, never into the body.
func (e *Emitter) EmitStmt(st edsl.Stmt) {
	val := e.EmitExpr(st.RHS)
	if val == nil {
		if !st.RHS.Op.ZeroResult() {
			panic(fmt.Errorf("emit: statement computed no value from %s; only side-effecting operations may", st.RHS))
		}
		return
	}

	e.Bind(st.LHS, val)
	if st.RHS.Kind == edsl.ExprFor {
		saved := e.builder.Cursor()
		e.builder.SetCursorToEnd(ir.InductionVarOwner(val).Body)
		e.EmitStmts(st.Body)
		e.builder.SetCursor(saved)
		return
	}
	e.EmitStmts(st.Body)
}

// EmitStmts emits statements in order.
func (e *Emitter) EmitStmts(stmts []edsl.Stmt) {
	for _, st := range stmts {
		e.EmitStmt(st)
	}
}

// EmitBlock materializes a statement block at most once per block
// identity: re-invocation on an emitted block is a no-op. Each declared
// argument placeholder binds to a fresh concrete block argument.
func (e *Emitter) EmitBlock(sb *edsl.StmtBlock) {
	if _, done := e.blockBindings[sb]; done {
		return
	}

	saved := e.builder.Cursor()
	defer e.builder.SetCursor(saved)

	blk := e.builder.CreateBlock()
	e.blockBindings[sb] = blk
	for i, arg := range sb.Args {
		if arg.Kind != edsl.ExprUnbound {
			panic(fmt.Errorf("emit: block %q argument %d is %s; block arguments must be unbound placeholders", sb.Name, i, arg))
		}
		if _, bound := e.bindings[arg]; bound {
			panic(fmt.Errorf("emit: block %q argument %d (%s) is already bound", sb.Name, i, arg))
		}
		e.Bind(arg, e.builder.AddBlockArg(blk, sb.ArgTypes[i]))
	}
	e.EmitStmts(sb.Body)
}
