package rmlgen

// Node is the interface implemented by all document AST nodes.
type Node interface {
	node()         // marker method to ensure type safety
	Pos() Position // returns the source position of the node
}

// Document is the root of a compiled program: an optional state block, an
// optional computed block, and the top-level element tree. Built once by
// the parser and read-only afterward.
type Document struct {
	State    *StateBlock
	Computed *ComputedBlock
	Elements []*Element
	Position Position
}

func (d *Document) node()         {}
func (d *Document) Pos() Position { return d.Position }

// StateBlock declares the document's reactive fields.
type StateBlock struct {
	Fields   []*StateField
	Position Position
}

func (s *StateBlock) node()         {}
func (s *StateBlock) Pos() Position { return s.Position }

// StateField is one `name: literal` line. Value is restricted by the
// parser to literal expression nodes.
type StateField struct {
	Name     string
	Value    Expr
	Position Position
}

func (f *StateField) node()         {}
func (f *StateField) Pos() Position { return f.Position }

// ComputedBlock declares fields derived from state.
type ComputedBlock struct {
	Fields   []*ComputedField
	Position Position
}

func (c *ComputedBlock) node()         {}
func (c *ComputedBlock) Pos() Position { return c.Position }

// ComputedField is one `name: "expr"` line.
type ComputedField struct {
	Name     string
	Value    Expr
	Position Position
}

func (f *ComputedField) node()         {}
func (f *ComputedField) Pos() Position { return f.Position }

// Element is a node in the markup tree. Children are Elements and Texts;
// the parent owns them exclusively (tree, not graph).
type Element struct {
	Tag      string
	Classes  []string // ordered, duplicates collapsed
	Attrs    []*Attribute
	Children []Node
	Position Position
}

func (e *Element) node()         {}
func (e *Element) Pos() Position { return e.Position }

// AttrKind partitions element attributes.
type AttrKind int

const (
	AttrPlain     AttrKind = iota // key="value" or bare key
	AttrEvent                     // @event[.modifier]*="expr"
	AttrDirective                 // :directive="expr"
)

// Attribute is one parsed attribute of any kind. Plain attributes use
// Value/HasValue; event and directive attributes carry a parsed Expr and
// the position of their quoted value for diagnostics.
type Attribute struct {
	Kind      AttrKind
	Name      string
	Value     string // plain only, escape-decoded
	HasValue  bool   // plain only, false for bare boolean form
	Modifiers []string
	Expr      Expr
	Position  Position
	ValuePos  Position
}

func (a *Attribute) node()         {}
func (a *Attribute) Pos() Position { return a.Position }

// Text is inline element text decomposed into literal and interpolation
// segments by the parser's single left-to-right scan.
type Text struct {
	Segments []Segment
	Position Position
}

func (t *Text) node()         {}
func (t *Text) Pos() Position { return t.Position }

// Interpolated reports whether any segment embeds an expression.
func (t *Text) Interpolated() bool {
	for _, seg := range t.Segments {
		if seg.Expr != nil {
			return true
		}
	}
	return false
}

// Segment is one piece of a Text: either a literal run (Expr nil) or an
// embedded expression.
type Segment struct {
	Literal  string
	Expr     Expr
	Position Position
}

// Expr is the interface implemented by all expression nodes. The variant
// set is closed: the generator switches exhaustively over it when
// re-serializing to JavaScript.
type Expr interface {
	exprNode()
	Pos() Position
}

// NumberLit is a numeric literal. Text preserves the source spelling so
// re-serialization never reformats values.
type NumberLit struct {
	Text     string
	Value    float64
	Position Position
}

func (n *NumberLit) exprNode()     {}
func (n *NumberLit) Pos() Position { return n.Position }

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	Value    string
	Position Position
}

func (s *StringLit) exprNode()     {}
func (s *StringLit) Pos() Position { return s.Position }

// BoolLit is true or false.
type BoolLit struct {
	Value    bool
	Position Position
}

func (b *BoolLit) exprNode()     {}
func (b *BoolLit) Pos() Position { return b.Position }

// NullLit is the null literal.
type NullLit struct {
	Position Position
}

func (n *NullLit) exprNode()     {}
func (n *NullLit) Pos() Position { return n.Position }

// UndefinedLit is the undefined literal.
type UndefinedLit struct {
	Position Position
}

func (u *UndefinedLit) exprNode()     {}
func (u *UndefinedLit) Pos() Position { return u.Position }

// Ident is a name reference. `$event` is an Ident valid only inside event
// expressions.
type Ident struct {
	Name     string
	Position Position
}

func (i *Ident) exprNode()     {}
func (i *Ident) Pos() Position { return i.Position }

// UnaryOp enumerates prefix operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota // !
	OpNeg                // -
	OpTypeof
)

var unaryOpNames = map[UnaryOp]string{
	OpNot:    "!",
	OpNeg:    "-",
	OpTypeof: "typeof",
}

// String returns the operator's source form.
func (op UnaryOp) String() string { return unaryOpNames[op] }

// UnaryExpr is a prefix operator application.
type UnaryExpr struct {
	Op       UnaryOp
	Operand  Expr
	Position Position
}

func (u *UnaryExpr) exprNode()     {}
func (u *UnaryExpr) Pos() Position { return u.Position }

// BinaryOp enumerates infix operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpMod                 // %
	OpEq                  // ==
	OpNeq                 // !=
	OpStrictEq            // ===
	OpStrictNeq           // !==
	OpLt                  // <
	OpGt                  // >
	OpLe                  // <=
	OpGe                  // >=
	OpAnd                 // &&
	OpOr                  // ||
	OpNullish             // ??
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpEq:        "==",
	OpNeq:       "!=",
	OpStrictEq:  "===",
	OpStrictNeq: "!==",
	OpLt:        "<",
	OpGt:        ">",
	OpLe:        "<=",
	OpGe:        ">=",
	OpAnd:       "&&",
	OpOr:        "||",
	OpNullish:   "??",
}

// String returns the operator's source form.
func (op BinaryOp) String() string { return binaryOpNames[op] }

// BinaryExpr is an infix operator application.
type BinaryExpr struct {
	Op       BinaryOp
	Left     Expr
	Right    Expr
	Position Position
}

func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) Pos() Position { return b.Position }

// MemberExpr is dotted property access.
type MemberExpr struct {
	Object   Expr
	Property string
	Position Position
}

func (m *MemberExpr) exprNode()     {}
func (m *MemberExpr) Pos() Position { return m.Position }

// IndexExpr is bracketed property access.
type IndexExpr struct {
	Object   Expr
	Index    Expr
	Position Position
}

func (i *IndexExpr) exprNode()     {}
func (i *IndexExpr) Pos() Position { return i.Position }

// CallExpr is a call with positional arguments.
type CallExpr struct {
	Callee   Expr
	Args     []Expr
	Position Position
}

func (c *CallExpr) exprNode()     {}
func (c *CallExpr) Pos() Position { return c.Position }

// TernaryExpr is the conditional operator.
type TernaryExpr struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Position Position
}

func (t *TernaryExpr) exprNode()     {}
func (t *TernaryExpr) Pos() Position { return t.Position }

// ObjectProp is one `key: value` entry of an object literal. Shorthand
// entries carry an Ident value named like the key.
type ObjectProp struct {
	Key      string
	Value    Expr
	Position Position
}

// ObjectLit is an object literal, ordered as written.
type ObjectLit struct {
	Props    []ObjectProp
	Position Position
}

func (o *ObjectLit) exprNode()     {}
func (o *ObjectLit) Pos() Position { return o.Position }

// ArrayLit is an array literal.
type ArrayLit struct {
	Elems    []Expr
	Position Position
}

func (a *ArrayLit) exprNode()     {}
func (a *ArrayLit) Pos() Position { return a.Position }

// AssignOp enumerates assignment operators.
type AssignOp int

const (
	OpAssign    AssignOp = iota // =
	OpAddAssign                 // +=
	OpSubAssign                 // -=
	OpMulAssign                 // *=
	OpDivAssign                 // /=
)

var assignOpNames = map[AssignOp]string{
	OpAssign:    "=",
	OpAddAssign: "+=",
	OpSubAssign: "-=",
	OpMulAssign: "*=",
	OpDivAssign: "/=",
}

// String returns the operator's source form.
func (op AssignOp) String() string { return assignOpNames[op] }

// AssignExpr is an assignment. `x++`/`x--` desugar to AssignExpr at parse
// time, so the generator never sees increment operators.
type AssignExpr struct {
	Op       AssignOp
	Target   Expr // Ident, MemberExpr, or IndexExpr
	Value    Expr
	Position Position
}

func (a *AssignExpr) exprNode()     {}
func (a *AssignExpr) Pos() Position { return a.Position }
