package rmlgen

// Compile runs the full pipeline on one source: tokenize, parse, analyze,
// generate. It is a pure function of its input; nothing is shared between
// calls, so concurrent compilations need no coordination. The first error
// from any stage stops the pipeline.
func Compile(filename, source string) (*Output, error) {
	tokens, err := NewLexer(filename, source).Tokenize()
	if err != nil {
		return nil, err
	}
	doc, err := NewParser(filename, tokens).Parse()
	if err != nil {
		return nil, err
	}
	if err := NewAnalyzer().Analyze(doc); err != nil {
		return nil, err
	}
	return NewGenerator().Generate(doc)
}
