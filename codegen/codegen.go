// Package codegen lowers Cata's expression tree to LLVM IR. The shape
// (one builder positioned at the current insertion point, a scope
// stack, a prototype registry feeding lazy function materialisation,
// the three-block if-diamond) follows original_source/codegen.cpp; the
// LLVM plumbing itself — target machine creation and object emission
// via EmitToMemoryBuffer — follows the
// teacher's backend/llvm.go.
package codegen

import (
	"fmt"

	"github.com/cata-lang/catac/ast"
	"github.com/cata-lang/catac/common"
	"github.com/cata-lang/catac/token"
	"llvm.org/llvm/bindings/go/llvm"
)

// CodeGen owns one LLVM context's worth of state for a single
// compilation: the module being built, an IR builder, the current
// scope, and the prototype registry that lets a call reference a
// function whose def appears earlier in the same file (never later —
// see Compile).
type CodeGen struct {
	config *common.Config
	target llvm.TargetMachine
	module llvm.Module
	b      llvm.Builder

	scope  *scope
	protos map[string]*ast.Prototype
}

// New prepares a CodeGen targeting the host (or config.Triple, if set).
func New(config *common.Config) (*CodeGen, error) {
	if err := llvm.InitializeNativeTarget(); err != nil {
		return nil, err
	}
	if err := llvm.InitializeNativeAsmPrinter(); err != nil {
		return nil, err
	}

	target, err := createTargetMachine(config.Triple)
	if err != nil {
		return nil, err
	}

	return &CodeGen{
		config: config,
		target: target,
		module: llvm.NewModule("main"),
		b:      llvm.NewBuilder(),
		protos: make(map[string]*ast.Prototype),
	}, nil
}

func createTargetMachine(triple string) (llvm.TargetMachine, error) {
	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, err
	}
	return target.CreateTargetMachine(triple, "", "", llvm.CodeGenLevelNone, llvm.RelocDefault, llvm.CodeModelDefault), nil
}

// Compile lowers every top-level form in source order, then verifies
// the resulting module. Top-level forms are either a bare Prototype
// (from an extern declaration) or a Function (from a def). A forward
// call to a def appearing later in forms fails: there is no two-pass
// resolution, matching original_source/codegen.cpp.
func (cg *CodeGen) Compile(forms []ast.Expr) (err error) {
	defer common.Recover(&err)

	for _, f := range forms {
		switch n := f.(type) {
		case *ast.Prototype:
			cg.buildExternProto(n)
		case *ast.Function:
			cg.buildFunction(n)
		default:
			common.Fail(0, "unexpected top-level form %T", f)
		}
	}

	if verifyErr := llvm.VerifyModule(cg.module, llvm.ReturnStatusAction); verifyErr != nil {
		common.Fail(0, "module verification failed: %s", verifyErr)
	}
	return nil
}

// IR renders the compiled module as textual LLVM IR.
func (cg *CodeGen) IR() string {
	return cg.module.String()
}

// EmitObject lowers the compiled module to a native object file.
func (cg *CodeGen) EmitObject() ([]byte, error) {
	buf, err := cg.target.EmitToMemoryBuffer(cg.module, llvm.ObjectFile)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cg *CodeGen) buildExternProto(proto *ast.Prototype) {
	if existing, ok := cg.protos[proto.Name]; ok {
		if msg := paramMismatch(existing, proto); msg != "" {
			common.Fail(0, "%s", msg)
		}
		return
	}
	cg.protos[proto.Name] = proto
	cg.declareFunction(proto)
}

// buildFunction implements the function-lowering sequence from
// codegen.cpp: resolve/instantiate the prototype (arity and argument
// names must match any existing one), move it into the registry,
// create an entry block, bind parameters as allocas, lower the body,
// and verify — erasing the partial function on any lowering failure.
func (cg *CodeGen) buildFunction(fn *ast.Function) {
	proto := fn.Proto

	if existing, ok := cg.protos[proto.Name]; ok {
		if msg := paramMismatch(existing, proto); msg != "" {
			common.Fail(0, "%s", msg)
		}
	}

	llvmFn := cg.declareFunction(proto)
	if !llvmFn.FirstBasicBlock().IsNil() {
		common.Fail(0, "redefinition of function %q", proto.Name)
	}
	cg.protos[proto.Name] = proto

	entry := llvm.AddBasicBlock(llvmFn, "entry")
	cg.b.SetInsertPointAtEnd(entry)

	outer := cg.scope
	cg.scope = newScope(nil)
	defer func() { cg.scope = outer }()

	defer func() {
		if r := recover(); r != nil {
			llvmFn.EraseFromParent()
			panic(r)
		}
	}()

	for i, param := range llvmFn.Params() {
		name := proto.Params[i]
		if cg.scope.definedHere(name) {
			common.Fail(0, "function %q has duplicate parameter %q", proto.Name, name)
		}
		slot := cg.b.CreateAlloca(llvm.Int32Type(), name)
		cg.b.CreateStore(param, slot)
		cg.scope.define(name, slot)
	}

	result := cg.buildBlock(fn.Body)
	cg.b.CreateRet(result)

	if verifyErr := llvm.VerifyFunction(llvmFn, llvm.ReturnStatusAction); verifyErr != nil {
		common.Fail(0, "function %q failed verification: %s", proto.Name, verifyErr)
	}
}

// declareFunction returns the module's existing declaration for proto
// if one exists, otherwise emits a fresh external-linkage declaration.
// This is also the materialisation step of the function-lookup
// protocol: a call site that names a known prototype but no declared
// LLVM function yet gets one created here, lazily.
func (cg *CodeGen) declareFunction(proto *ast.Prototype) llvm.Value {
	if fn := cg.module.NamedFunction(proto.Name); !fn.IsNil() {
		return fn
	}

	paramTypes := make([]llvm.Type, len(proto.Params))
	for i := range paramTypes {
		paramTypes[i] = llvm.Int32Type()
	}
	fnType := llvm.FunctionType(llvm.Int32Type(), paramTypes, false)
	fn := llvm.AddFunction(cg.module, proto.Name, fnType)
	fn.SetLinkage(llvm.ExternalLinkage)
	for i, p := range fn.Params() {
		p.SetName(proto.Params[i])
	}
	return fn
}

func paramMismatch(existing, proto *ast.Prototype) string {
	if len(existing.Params) != len(proto.Params) {
		return fmt.Sprintf("function %q redeclared with %d parameters, expected %d",
			proto.Name, len(proto.Params), len(existing.Params))
	}
	for i := range existing.Params {
		if existing.Params[i] != proto.Params[i] {
			return fmt.Sprintf("function %q redeclared with parameter %q, expected %q",
				proto.Name, proto.Params[i], existing.Params[i])
		}
	}
	return ""
}

func (cg *CodeGen) pushScope() { cg.scope = newScope(cg.scope) }
func (cg *CodeGen) popScope()  { cg.scope = cg.scope.parent }

func zero() llvm.Value {
	return llvm.ConstInt(llvm.Int32Type(), 0, false)
}

// buildBlock lowers every statement in n; the block's value is its
// last statement's value, or zero for an empty block.
func (cg *CodeGen) buildBlock(n *ast.Block) llvm.Value {
	v := zero()
	for _, stmt := range n.Exprs {
		v = cg.buildExpr(stmt)
	}
	return v
}

func (cg *CodeGen) buildExpr(e ast.Expr) llvm.Value {
	switch n := e.(type) {
	case *ast.Literal:
		return llvm.ConstInt(llvm.Int32Type(), uint64(uint32(n.Value)), false)
	case *ast.Variable:
		return cg.buildVariable(n)
	case *ast.Prefix:
		return cg.buildPrefix(n)
	case *ast.Binary:
		return cg.buildBinary(n)
	case *ast.Block:
		return cg.buildBlock(n)
	case *ast.Call:
		return cg.buildCall(n)
	case *ast.Let:
		return cg.buildLet(n)
	case *ast.If:
		return cg.buildIf(n)
	default:
		common.Fail(0, "unexpected node %T in expression position", e)
		panic("unreachable")
	}
}

func (cg *CodeGen) buildVariable(n *ast.Variable) llvm.Value {
	slot, ok := cg.scope.lookup(n.Name)
	if !ok {
		common.Fail(0, "undefined variable %q", n.Name)
	}
	return cg.b.CreateLoad(slot, n.Name)
}

func (cg *CodeGen) buildLet(n *ast.Let) llvm.Value {
	init := cg.buildExpr(n.Init)
	slot := cg.b.CreateAlloca(llvm.Int32Type(), n.Name)
	cg.b.CreateStore(init, slot)
	cg.scope.define(n.Name, slot)
	return init
}

func (cg *CodeGen) buildPrefix(n *ast.Prefix) llvm.Value {
	val := cg.buildExpr(n.Operand)
	switch n.Op {
	case token.Plus:
		return val
	case token.Minus:
		return cg.b.CreateNeg(val, "negtmp")
	case token.Tilde:
		return cg.b.CreateNot(val, "nottmp")
	case token.Not:
		cmp := cg.b.CreateICmp(llvm.IntEQ, val, zero(), "")
		return cg.b.CreateZExt(cmp, llvm.Int32Type(), "lnottmp")
	default:
		panic(fmt.Sprintf("codegen: unhandled prefix operator %s", n.Op))
	}
}

func (cg *CodeGen) buildBinary(n *ast.Binary) llvm.Value {
	if n.Op == token.Equals {
		return cg.buildAssign(n)
	}

	left := cg.buildExpr(n.Left)
	right := cg.buildExpr(n.Right)

	switch n.Op {
	case token.Plus:
		return cg.b.CreateAdd(left, right, "addtmp")
	case token.Minus:
		return cg.b.CreateSub(left, right, "subtmp")
	case token.Star:
		return cg.b.CreateMul(left, right, "multmp")
	case token.Slash:
		return cg.b.CreateSDiv(left, right, "divtmp")
	case token.Percent:
		return cg.b.CreateSRem(left, right, "modtmp")
	case token.Ampersand:
		return cg.b.CreateAnd(left, right, "andtmp")
	case token.Pipe:
		return cg.b.CreateOr(left, right, "ortmp")
	case token.Caret:
		return cg.b.CreateXor(left, right, "xortmp")
	case token.LeftShift:
		return cg.b.CreateShl(left, right, "shltmp")
	case token.RightShift:
		return cg.b.CreateAShr(left, right, "ashrtmp")
	case token.Eq, token.Neq, token.Lt, token.Le, token.Gt, token.Ge:
		cmp := cg.b.CreateICmp(intPredicate(n.Op), left, right, "cmptmp")
		return cg.b.CreateZExt(cmp, llvm.Int32Type(), "cmpext")
	case token.And, token.Or:
		// Per the lowering rule, both operands are evaluated
		// unconditionally and combined bitwise: no short-circuit.
		lb := cg.b.CreateICmp(llvm.IntNE, left, zero(), "")
		rb := cg.b.CreateICmp(llvm.IntNE, right, zero(), "")
		var bit llvm.Value
		if n.Op == token.And {
			bit = cg.b.CreateAnd(lb, rb, "")
		} else {
			bit = cg.b.CreateOr(lb, rb, "")
		}
		return cg.b.CreateZExt(bit, llvm.Int32Type(), "booltmp")
	default:
		panic(fmt.Sprintf("codegen: unhandled binary operator %s", n.Op))
	}
}

func (cg *CodeGen) buildAssign(n *ast.Binary) llvm.Value {
	target, ok := n.Left.(*ast.Variable)
	if !ok {
		common.Fail(0, "left-hand side of assignment must be a variable")
	}
	slot, ok := cg.scope.lookup(target.Name)
	if !ok {
		common.Fail(0, "undefined variable %q", target.Name)
	}
	val := cg.buildExpr(n.Right)
	cg.b.CreateStore(val, slot)
	return val
}

func intPredicate(op token.Kind) llvm.IntPredicate {
	switch op {
	case token.Eq:
		return llvm.IntEQ
	case token.Neq:
		return llvm.IntNE
	case token.Lt:
		return llvm.IntSLT
	case token.Le:
		return llvm.IntSLE
	case token.Gt:
		return llvm.IntSGT
	case token.Ge:
		return llvm.IntSGE
	default:
		panic(fmt.Sprintf("codegen: unhandled comparison operator %s", op))
	}
}

func (cg *CodeGen) buildCall(n *ast.Call) llvm.Value {
	proto, ok := cg.protos[n.Callee]
	if !ok {
		common.Fail(0, "call to undeclared function %q", n.Callee)
	}
	if len(proto.Params) != len(n.Args) {
		common.Fail(0, "function %q expects %d argument(s), got %d", n.Callee, len(proto.Params), len(n.Args))
	}

	fn := cg.declareFunction(proto)
	args := make([]llvm.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = cg.buildExpr(a)
	}
	return cg.b.CreateCall(fn, args, "calltmp")
}

// buildIf lowers the if-diamond: a then block and an else block each
// branch unconditionally to merge, where a phi picks up whichever tail
// block actually ran. then/else each open their own scope.
func (cg *CodeGen) buildIf(n *ast.If) llvm.Value {
	cond := cg.buildExpr(n.Cond)
	condBool := cg.b.CreateICmp(llvm.IntNE, cond, zero(), "ifcond")

	fn := cg.b.GetInsertBlock().Parent()
	thenBlock := llvm.AddBasicBlock(fn, "then")
	elseBlock := llvm.AddBasicBlock(fn, "else")
	mergeBlock := llvm.AddBasicBlock(fn, "merge")

	cg.b.CreateCondBr(condBool, thenBlock, elseBlock)

	cg.b.SetInsertPointAtEnd(thenBlock)
	cg.pushScope()
	thenVal := cg.buildBlock(n.Then)
	cg.popScope()
	cg.b.CreateBr(mergeBlock)
	thenTail := cg.b.GetInsertBlock()

	elseBlock.MoveAfter(thenTail)
	cg.b.SetInsertPointAtEnd(elseBlock)
	cg.pushScope()
	elseVal := cg.buildElse(n.Else)
	cg.popScope()
	cg.b.CreateBr(mergeBlock)
	elseTail := cg.b.GetInsertBlock()

	mergeBlock.MoveAfter(elseTail)
	cg.b.SetInsertPointAtEnd(mergeBlock)

	phi := cg.b.CreatePHI(llvm.Int32Type(), "ifval")
	phi.AddIncoming([]llvm.Value{thenVal, elseVal}, []llvm.BasicBlock{thenTail, elseTail})
	return phi
}

func (cg *CodeGen) buildElse(e ast.Expr) llvm.Value {
	switch n := e.(type) {
	case nil:
		return zero()
	case *ast.If:
		return cg.buildIf(n)
	case *ast.Block:
		return cg.buildBlock(n)
	default:
		panic(fmt.Sprintf("codegen: unhandled if-else %T", e))
	}
}
