// Command linter runs the clockcheck analyzer, which reports:
//  1. calls to the built-in panic anywhere;
//  2. log.Fatal/log.Fatalf/log.Fatalln and os.Exit outside main.main;
//  3. blocking time calls (Sleep, After, NewTimer, NewTicker, Tick) outside
//     the clock package, so that waits stay injectable.
package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer is the clockcheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name: "clockcheck",
	Doc:  "reports panic, exits outside main.main and direct blocking time calls outside the clock package",
	Run:  run,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
	},
}

var exitFuncs = map[string]bool{
	"log.Fatal":   true,
	"log.Fatalf":  true,
	"log.Fatalln": true,
	"os.Exit":     true,
}

var blockingTimeFuncs = map[string]bool{
	"Sleep":     true,
	"After":     true,
	"NewTimer":  true,
	"NewTicker": true,
	"Tick":      true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
		(*ast.FuncDecl)(nil),
	}

	inMain := false
	inClockPkg := pass.Pkg.Name() == "clock"

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.FuncDecl:
			inMain = pass.Pkg.Name() == "main" && node.Recv == nil && node.Name.Name == "main"
		case *ast.CallExpr:
			if ident, ok := ast.Unparen(node.Fun).(*ast.Ident); ok {
				if _, builtin := pass.TypesInfo.Uses[ident].(*types.Builtin); builtin && ident.Name == "panic" {
					pass.Reportf(ident.Pos(), "found usage of panic")
				}
				return
			}

			fn, ok := typeutil.Callee(pass.TypesInfo, node).(*types.Func)
			if !ok || fn.Pkg() == nil {
				return
			}
			name := fn.Pkg().Path() + "." + fn.Name()
			if exitFuncs[name] && !inMain {
				pass.Reportf(node.Pos(), "found usage of %s outside of main function", name)
			}
			if fn.Pkg().Path() == "time" && blockingTimeFuncs[fn.Name()] && !inClockPkg && !isTestFile(pass, node) {
				pass.Reportf(node.Pos(), "found usage of %s, wait on an injected clock.Clock instead", name)
			}
		}
	})

	return nil, nil
}

// isTestFile lets tests bound their own waits with real timers.
func isTestFile(pass *analysis.Pass, n ast.Node) bool {
	return strings.HasSuffix(pass.Fset.Position(n.Pos()).Filename, "_test.go")
}
