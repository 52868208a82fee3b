package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"log"
	"os"
	"strings"
)

// gen_rt_expects writes a curried expectRT<What> wrapper for each
// rtTestCase.expect<What> builder method, so that scenario tables can pass
// expectations around as func(rtTestCase) rtTestCase values.
//
// Usage: go run scripts/gen_rt_expects.go -- rt_test.go rt_expects_test.go

const (
	recvType = "rtTestCase"
	prefix   = "expect"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		log.Fatalf("usage: gen_rt_expects <source.go> [<out.go>]")
	}
	src := args[0]

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, src, nil, 0)
	if err != nil {
		log.Fatalf("failed to parse %v: %v", src, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %v\n\n", file.Name.Name)
	fmt.Fprintf(&buf, "// @generated from %v\n\n", src)
	fmt.Fprintf(&buf, "//go:generate go run scripts/gen_rt_expects.go -- %v\n\n", strings.Join(args, " "))

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isBuilder(fn) {
			continue
		}
		if err := writeWrapper(&buf, fset, fn); err != nil {
			log.Fatalf("failed to wrap %v: %v", fn.Name.Name, err)
		}
	}

	code, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatalf("failed to format output: %v\n%s", err, buf.Bytes())
	}

	if len(args) < 2 {
		if _, err := os.Stdout.Write(code); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if err := os.WriteFile(args[1], code, 0644); err != nil {
		log.Fatalf("failed to write %v: %v", args[1], err)
	}
}

// isBuilder matches func (rtt rtTestCase) expectXxx(...) rtTestCase.
func isBuilder(fn *ast.FuncDecl) bool {
	if fn.Recv == nil || len(fn.Recv.List) != 1 {
		return false
	}
	if id, ok := fn.Recv.List[0].Type.(*ast.Ident); !ok || id.Name != recvType {
		return false
	}
	name := fn.Name.Name
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	res := fn.Type.Results
	if res == nil || len(res.List) != 1 {
		return false
	}
	id, ok := res.List[0].Type.(*ast.Ident)
	return ok && id.Name == recvType
}

func writeWrapper(buf *bytes.Buffer, fset *token.FileSet, fn *ast.FuncDecl) error {
	what := strings.TrimPrefix(fn.Name.Name, prefix)

	var params, call []string
	for _, field := range fn.Type.Params.List {
		var typ bytes.Buffer
		if err := printer.Fprint(&typ, fset, field.Type); err != nil {
			return err
		}
		_, variadic := field.Type.(*ast.Ellipsis)
		for _, name := range field.Names {
			params = append(params, name.Name+" "+typ.String())
			if variadic {
				call = append(call, name.Name+"...")
			} else {
				call = append(call, name.Name)
			}
		}
	}

	fmt.Fprintf(buf, "func %vRT%v(%v) func(%v) %v {\n", prefix, what, strings.Join(params, ", "), recvType, recvType)
	fmt.Fprintf(buf, "return func(rtt %v) %v {\n", recvType, recvType)
	fmt.Fprintf(buf, "return rtt.%v(%v)\n", fn.Name.Name, strings.Join(call, ", "))
	buf.WriteString("}\n}\n\n")
	return nil
}
