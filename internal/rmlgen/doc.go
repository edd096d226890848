// Package rmlgen compiles .rml documents into HTML, CSS, and JavaScript.
//
// The pipeline consists of:
//   - [Lexer]: tokenizes .rml source, resolving indentation into Indent
//     and Dedent markers
//   - [Parser]: builds a Document from the token stream, parsing embedded
//     expressions with their own precedence grammar
//   - [Analyzer]: validates references, write targets, and directive
//     placement
//   - [Generator]: assigns structural identifiers in one pre-order pass
//     and emits the three artifacts
//
// [Compile] runs the four stages in order. Each stage fails fast: the
// first error stops the pipeline and is returned with its source
// position.
package rmlgen
