// Package diag implements ParseFlow's optional intermediate-code diagnostic
// sink: a linearized, content-fingerprinted dump of a parsed AST, injected
// by the caller rather than constructed by the interpreter itself.
package diag

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"

	"github.com/opal-lang/parseflow/ast"
)

// Writer receives a parsed root and records it somewhere — a file, a
// buffer, a test fixture. run() never constructs one itself; it is always
// injected by the caller (the CLI's --dump-ir, or a test).
type Writer interface {
	Write(fileLabel string, root ast.Node) error
}

// node is the linearized, CBOR-friendly mirror of an ast.Node: a tagged
// union flattened into one struct, since cbor (like encoding/json) cannot
// marshal through an unexported interface method set on its own.
type node struct {
	Kind     string  `cbor:"kind"`
	Text     string  `cbor:"text,omitempty"`
	Value    float64 `cbor:"value,omitempty"`
	Name     string  `cbor:"name,omitempty"`
	Op       string  `cbor:"op,omitempty"`
	Children []node  `cbor:"children,omitempty"`
}

// linearize walks an ast.Node into its CBOR-friendly mirror. Unknown node
// types degrade to a bare "kind" entry rather than failing the dump — a
// diagnostic sink should never be the reason a run aborts.
func linearize(n ast.Node) node {
	switch v := n.(type) {
	case *ast.Number:
		return node{Kind: "Number", Text: v.Text, Value: v.Value}
	case *ast.String:
		return node{Kind: "String", Text: v.Value}
	case *ast.VarAccess:
		return node{Kind: "VarAccess", Name: v.Name}
	case *ast.VarAssign:
		return node{Kind: "VarAssign", Name: v.Name, Children: []node{linearize(v.Value)}}
	case *ast.BinOp:
		return node{Kind: "BinOp", Op: v.Op.String(), Children: []node{linearize(v.Left), linearize(v.Right)}}
	case *ast.UnaryOp:
		return node{Kind: "UnaryOp", Op: v.Op.String(), Children: []node{linearize(v.Operand)}}
	case *ast.List:
		children := make([]node, len(v.Elements))
		for i, e := range v.Elements {
			children[i] = linearize(e)
		}
		return node{Kind: "List", Children: children}
	case *ast.If:
		var children []node
		for _, c := range v.Cases {
			children = append(children, linearize(c.Cond), linearize(c.Body))
		}
		if v.Else != nil {
			children = append(children, linearize(v.Else))
		}
		return node{Kind: "If", Children: children}
	case *ast.For:
		children := []node{linearize(v.Start), linearize(v.End)}
		if v.Step != nil {
			children = append(children, linearize(v.Step))
		}
		children = append(children, linearize(v.Body))
		return node{Kind: "For", Name: v.VarName, Children: children}
	case *ast.While:
		return node{Kind: "While", Children: []node{linearize(v.Cond), linearize(v.Body)}}
	case *ast.FuncDef:
		return node{Kind: "FuncDef", Name: v.Name, Children: []node{linearize(v.Body)}}
	case *ast.Call:
		children := []node{linearize(v.Callee)}
		for _, a := range v.Args {
			children = append(children, linearize(a))
		}
		return node{Kind: "Call", Children: children}
	case *ast.Return:
		if v.Value == nil {
			return node{Kind: "Return"}
		}
		return node{Kind: "Return", Children: []node{linearize(v.Value)}}
	case *ast.Continue:
		return node{Kind: "Continue"}
	case *ast.Break:
		return node{Kind: "Break"}
	case *ast.StatementList:
		children := make([]node, len(v.Statements))
		for i, s := range v.Statements {
			children[i] = linearize(s)
		}
		return node{Kind: "StatementList", Children: children}
	default:
		return node{Kind: fmt.Sprintf("%T", n)}
	}
}

// dump is the on-wire shape written to the sink: one canonical CBOR map
// holding the file label, a sha3-256 fingerprint of the canonical CBOR
// body, and the body itself. Two runs over identical source produce
// byte-identical dumps.
type dump struct {
	FileLabel   string   `cbor:"file_label"`
	Fingerprint [32]byte `cbor:"fingerprint"`
	Root        node     `cbor:"root"`
}

// CBORWriter writes CBOR-encoded, sha3-fingerprinted AST dumps to an
// underlying io.Writer. Grounded on core/planfmt/canonical.go's CBOR
// canonicalization and core/planfmt/idfactory.go's sha3 digesting.
type CBORWriter struct {
	out io.Writer
}

// NewCBORWriter wraps out as a diagnostic sink.
func NewCBORWriter(out io.Writer) *CBORWriter {
	return &CBORWriter{out: out}
}

// Write linearizes root, encodes it as canonical CBOR, fingerprints that
// encoding with sha3-256, and writes the fingerprinted dump.
func (w *CBORWriter) Write(fileLabel string, root ast.Node) error {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("diag: creating CBOR encoder: %w", err)
	}

	linearized := linearize(root)
	body, err := encMode.Marshal(linearized)
	if err != nil {
		return fmt.Errorf("diag: encoding AST: %w", err)
	}

	d := dump{
		FileLabel:   fileLabel,
		Fingerprint: sha3.Sum256(body),
		Root:        linearized,
	}

	final, err := encMode.Marshal(d)
	if err != nil {
		return fmt.Errorf("diag: encoding dump: %w", err)
	}
	_, err = w.out.Write(final)
	return err
}
