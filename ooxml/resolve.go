package ooxml

// resolve.go — w:basedOn inheritance.
//
// Styles are resolved parent-first and merged field by field: a field set on
// the child replaces the inherited one, an unset field keeps it. Results are
// memoized per style id. A visited set bounds every walk, so cyclic chains and
// dangling references terminate with whatever was resolved so far; results
// touched by a cycle are recomputed per call so they never depend on call order.

// ResolvedParagraphStyle is a paragraph style flattened over its basedOn chain.
type ResolvedParagraphStyle struct {
	Indent    Indent
	Spacing   Spacing
	Alignment string
	Run       RunFormatting
}

// Merge returns i with every field set in o replacing the inherited value.
func (i Indent) Merge(o Indent) Indent {
	if o.Start != nil {
		i.Start = o.Start
	}
	if o.End != nil {
		i.End = o.End
	}
	if o.FirstLine != nil {
		i.FirstLine = o.FirstLine
	}
	if o.Hanging != nil {
		i.Hanging = o.Hanging
	}
	return i
}

// Merge returns s overridden by o. Line and LineRule travel together: the
// rule is meaningless without the value it qualifies.
func (s Spacing) Merge(o Spacing) Spacing {
	if o.Before != nil {
		s.Before = o.Before
	}
	if o.After != nil {
		s.After = o.After
	}
	if o.Line != nil {
		s.Line = o.Line
		s.LineRule = o.LineRule
	}
	return s
}

// Merge returns r overridden by o.
func (r RunFormatting) Merge(o RunFormatting) RunFormatting {
	if o.FontSize != nil {
		r.FontSize = o.FontSize
	}
	if o.FontFamily != "" {
		r.FontFamily = o.FontFamily
	}
	return r
}

// IsEmpty reports whether no run property is set.
func (r RunFormatting) IsEmpty() bool {
	return r.FontSize == nil && r.FontFamily == ""
}

// ResolveParagraphStyle flattens the paragraph style id. An empty id means the
// document default paragraph style; an unknown id resolves to that default.
func (c *Context) ResolveParagraphStyle(id string) ResolvedParagraphStyle {
	r, _ := c.resolveParagraph(id, make(map[string]bool))
	return r
}

// resolveParagraph reports cyclic when the walk hit a style already on the
// chain. Such results depend on where the walk entered the cycle and are not
// memoized.
func (c *Context) resolveParagraph(id string, visited map[string]bool) (r ResolvedParagraphStyle, cyclic bool) {
	if id == "" {
		id = c.defaultParagraph
	}
	if id == "" {
		return ResolvedParagraphStyle{}, false
	}
	if r, ok := c.resolvedParagraphs[id]; ok {
		return r, false
	}
	if visited[id] {
		return ResolvedParagraphStyle{}, true
	}
	visited[id] = true
	defer delete(visited, id)

	style, ok := c.paragraphs[id]
	if !ok {
		var base ResolvedParagraphStyle
		if id != c.defaultParagraph {
			base, cyclic = c.resolveParagraph(c.defaultParagraph, visited)
		}
		if !cyclic {
			c.resolvedParagraphs[id] = base
		}
		return base, cyclic
	}

	var base ResolvedParagraphStyle
	if style.BasedOn != "" {
		base, cyclic = c.resolveParagraph(style.BasedOn, visited)
	}
	resolved := ResolvedParagraphStyle{
		Indent:    base.Indent.Merge(style.Indent),
		Spacing:   base.Spacing.Merge(style.Spacing),
		Alignment: base.Alignment,
		Run:       base.Run.Merge(style.Run),
	}
	if style.Alignment != "" {
		resolved.Alignment = style.Alignment
	}
	if !cyclic {
		c.resolvedParagraphs[id] = resolved
	}
	return resolved, cyclic
}

// ResolveCharacterStyle flattens the character style id to its run
// formatting, with the same default and fallback rules as paragraphs.
func (c *Context) ResolveCharacterStyle(id string) RunFormatting {
	r, _ := c.resolveCharacter(id, make(map[string]bool))
	return r
}

func (c *Context) resolveCharacter(id string, visited map[string]bool) (r RunFormatting, cyclic bool) {
	if id == "" {
		id = c.defaultCharacter
	}
	if id == "" {
		return RunFormatting{}, false
	}
	if r, ok := c.resolvedCharacters[id]; ok {
		return r, false
	}
	if visited[id] {
		return RunFormatting{}, true
	}
	visited[id] = true
	defer delete(visited, id)

	style, ok := c.characters[id]
	if !ok {
		var base RunFormatting
		if id != c.defaultCharacter {
			base, cyclic = c.resolveCharacter(c.defaultCharacter, visited)
		}
		if !cyclic {
			c.resolvedCharacters[id] = base
		}
		return base, cyclic
	}

	var base RunFormatting
	if style.BasedOn != "" {
		base, cyclic = c.resolveCharacter(style.BasedOn, visited)
	}
	resolved := base.Merge(style.Run)
	if !cyclic {
		c.resolvedCharacters[id] = resolved
	}
	return resolved, cyclic
}
