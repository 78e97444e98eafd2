package internal

// ExprParser parses the tokens of one placeholder into an Expression
type ExprParser struct {
	tokens  []ExprToken
	pos     int
	content string
	base    Position // Source position of content[0]
}

// NewExprParser creates a new expression parser. content is the trimmed placeholder
// text the tokens came from and base is where that text starts in the template.
func NewExprParser(tokens []ExprToken, content string, base Position) *ExprParser {
	return &ExprParser{
		tokens:  tokens,
		content: content,
		base:    base,
	}
}

// ParsePlaceholder tokenizes and parses trimmed placeholder content.
// Every failure is returned as a *SyntaxError positioned in the template source.
func ParsePlaceholder(content string, base Position) (Expression, error) {
	tokens, err := NewExprTokenizer(content).Tokenize()
	if err != nil {
		if te, ok := err.(*ExprTokenError); ok {
			return nil, NewSyntaxError(te.Message, OffsetPosition(base, content, te.Pos), te.Detail)
		}
		return nil, err
	}
	return NewExprParser(tokens, content, base).Parse()
}

// Parse classifies the placeholder by its first token and parses it
func (p *ExprParser) Parse() (Expression, error) {
	if p.isAtEnd() {
		return nil, p.errorAt(p.peek(), ErrMsgEmptyPlaceholder, "")
	}

	switch p.peek().Type {
	case ExprTokenTypeAt:
		return p.parseDeclarations()
	case ExprTokenTypeReference:
		return p.parseValueReference()
	case ExprTokenTypeIdentifier:
		return p.parseEditableReference()
	}

	return nil, p.errorAt(p.peek(), ErrMsgExpectedName, p.peek().Value)
}

// parseDeclarations parses "@" declItem ("," declItem)*
func (p *ExprParser) parseDeclarations() (Expression, error) {
	at := p.advance()

	var decls []*Declaration
	for {
		decl, err := p.parseDeclarationItem()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)

		if p.isAtEnd() {
			break
		}
		if !p.match(ExprTokenTypeComma) {
			return nil, p.errorAt(p.peek(), ErrMsgExpectedComma, p.peek().Value)
		}
	}

	if len(decls) == 1 {
		return decls[0], nil
	}
	return &DeclarationBlock{Declarations: decls, Position: p.position(at)}, nil
}

// parseDeclarationItem parses name ":" typeName ("=" valueExpr)?
func (p *ExprParser) parseDeclarationItem() (*Declaration, error) {
	nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}

	if !p.match(ExprTokenTypeColon) {
		return nil, p.errorAt(p.peek(), ErrMsgExpectedColon, p.peek().Value)
	}

	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}

	decl := &Declaration{
		Name:     nameTok.Value,
		Type:     typ,
		Position: p.position(nameTok),
	}

	if p.match(ExprTokenTypeEquals) {
		decl.Default, err = p.parseValueExpr()
		if err != nil {
			return nil, err
		}
	}

	return decl, nil
}

// parseValueReference parses "$" name with nothing after it
func (p *ExprParser) parseValueReference() (Expression, error) {
	ref := p.advance()
	if !p.isAtEnd() {
		return nil, p.errorAt(p.peek(), ErrMsgTrailingReference, p.peek().Value)
	}
	return &ValueReference{Name: ref.Value, Position: p.position(ref)}, nil
}

// parseEditableReference parses name (":" typeName)? ("," metaPair)*
func (p *ExprParser) parseEditableReference() (Expression, error) {
	nameTok := p.advance()
	ref := &EditableReference{
		Name:     nameTok.Value,
		Position: p.position(nameTok),
	}
	seen := make(map[string]bool)

	if p.match(ExprTokenTypeColon) {
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		ref.Type = typ
		seen[MetaKeyType] = true
	}

	for !p.isAtEnd() {
		if !p.match(ExprTokenTypeComma) {
			return nil, p.errorAt(p.peek(), ErrMsgExpectedComma, p.peek().Value)
		}
		if err := p.parseMetaPair(ref, seen); err != nil {
			return nil, err
		}
	}

	return ref, nil
}

// parseMetaPair parses one key ":" value pair into ref
func (p *ExprParser) parseMetaPair(ref *EditableReference, seen map[string]bool) error {
	keyTok := p.peek()
	if keyTok.Type != ExprTokenTypeIdentifier {
		return p.errorAt(keyTok, ErrMsgUnknownMetaKey, keyTok.Value)
	}
	p.advance()

	key := keyTok.Value
	switch key {
	case MetaKeyType, MetaKeyFriendlyName, MetaKeyDefaultValue:
	default:
		detail := key + FormatSuggestions(FindSimilarStrings(key, KnownMetaKeys, MaxSuggestions))
		return p.errorAt(keyTok, ErrMsgUnknownMetaKey, detail)
	}
	if seen[key] {
		return p.errorAt(keyTok, ErrMsgDuplicateMetaKey, key)
	}
	seen[key] = true

	if !p.match(ExprTokenTypeColon) {
		return p.errorAt(p.peek(), ErrMsgExpectedColon, p.peek().Value)
	}

	switch key {
	case MetaKeyType:
		typ, err := p.parseTypeName()
		if err != nil {
			return err
		}
		ref.Type = typ
	case MetaKeyFriendlyName:
		tok := p.peek()
		if tok.Type != ExprTokenTypeString {
			return p.errorAt(tok, ErrMsgFriendlyNameNotString, tok.Value)
		}
		p.advance()
		label := tok.Value
		ref.FriendlyName = &label
	case MetaKeyDefaultValue:
		def, err := p.parseValueExpr()
		if err != nil {
			return err
		}
		ref.Default = def
	}

	return nil
}

// parseTypeName parses one of the supported type names
func (p *ExprParser) parseTypeName() (Type, error) {
	tok := p.peek()
	if tok.Type != ExprTokenTypeIdentifier {
		if tok.Type == ExprTokenTypeEOF {
			return TypeUnknown, p.errorAt(tok, ErrMsgExpectedTypeName, "")
		}
		return TypeUnknown, p.errorAt(tok, ErrMsgExpectedTypeName, tok.Value)
	}
	p.advance()

	typ, ok := ParseType(tok.Value)
	if !ok {
		detail := tok.Value + FormatSuggestions(FindSimilarStrings(tok.Value, TypeNames, MaxSuggestions))
		return TypeUnknown, p.errorAt(tok, ErrMsgUnknownType, detail)
	}
	return typ, nil
}

// parseValueExpr parses a literal or a $name reference
func (p *ExprParser) parseValueExpr() (ValueExpr, error) {
	tok := p.peek()
	pos := p.position(tok)

	switch tok.Type {
	case ExprTokenTypeString:
		p.advance()
		return NewLiteralExpr(NewString(tok.Value), pos), nil
	case ExprTokenTypeNumber:
		p.advance()
		return NewLiteralExpr(NewNumber(tok.Literal.(float64)), pos), nil
	case ExprTokenTypeBool:
		p.advance()
		return NewLiteralExpr(NewBoolean(tok.Literal.(bool)), pos), nil
	case ExprTokenTypeReference:
		p.advance()
		return NewVariableRefExpr(tok.Value, pos), nil
	case ExprTokenTypeEOF:
		return nil, p.errorAt(tok, ErrMsgUnexpectedEnd, "")
	}

	return nil, p.errorAt(tok, ErrMsgExpectedValue, tok.Value)
}

// expectName consumes an identifier used as a variable name
func (p *ExprParser) expectName() (ExprToken, error) {
	tok := p.peek()
	if tok.Type != ExprTokenTypeIdentifier {
		return ExprToken{}, p.errorAt(tok, ErrMsgExpectedName, tok.Value)
	}
	return p.advance(), nil
}

// Helper methods

// match consumes the current token if it has the given type
func (p *ExprParser) match(tokenType ExprTokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

// check returns true if the current token is of the given type
func (p *ExprParser) check(tokenType ExprTokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

// advance moves to the next token and returns the consumed one
func (p *ExprParser) advance() ExprToken {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

// peek returns the current token
func (p *ExprParser) peek() ExprToken {
	if p.pos >= len(p.tokens) {
		return ExprToken{Type: ExprTokenTypeEOF, Pos: len(p.content)}
	}
	return p.tokens[p.pos]
}

// isAtEnd returns true if only EOF remains
func (p *ExprParser) isAtEnd() bool {
	return p.peek().Type == ExprTokenTypeEOF
}

// position maps a token to its position in the template source
func (p *ExprParser) position(tok ExprToken) Position {
	return OffsetPosition(p.base, p.content, tok.Pos)
}

// errorAt creates a syntax error at the token's source position
func (p *ExprParser) errorAt(tok ExprToken, message, detail string) *SyntaxError {
	return NewSyntaxError(message, p.position(tok), detail)
}

// OffsetPosition returns the position of text[n] given that text starts at base
func OffsetPosition(base Position, text string, n int) Position {
	if n > len(text) {
		n = len(text)
	}
	pos := base
	for i := 0; i < n; i++ {
		pos.Offset++
		if text[i] == CharNewline {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
