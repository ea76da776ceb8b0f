package compiler

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/morphsynth/internal/ir"
)

// CompileYAML parses src as a YAML card and compiles it.
//
// Sections are decoded independently with unknown-field checking; a
// malformed section becomes a Diagnostic instead of failing the card.
func CompileYAML(filename string, src []byte) (*ir.LanguageCard, []Diagnostic, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, nil, &CompileError{Field: "yaml", Message: err.Error(), File: filename}
	}
	if len(doc.Content) == 0 {
		return nil, nil, &CompileError{Field: keyCode, Message: "language code is required", File: filename}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, &CompileError{
			Field:   "yaml",
			Message: "card must be a mapping",
			File:    filename,
			Line:    root.Line,
		}
	}

	card := &ir.LanguageCard{}
	var diags []Diagnostic

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value

		switch {
		case key == keyCode || key == keyFamily:
			var s string
			if err := valNode.Decode(&s); err != nil {
				return nil, nil, &CompileError{Field: key, Message: "must be a string", File: filename, Line: valNode.Line}
			}
			if key == keyCode {
				card.Code = s
			} else {
				card.Family = ir.Family(s)
			}
		case key == keyName:
			if err := valNode.Decode(&card.Name); err != nil {
				diags = append(diags, Diagnostic{Field: key, Message: "must be a string", Code: DiagMalformedField, Line: valNode.Line})
			}
		case isSectionKey(key):
			if err := decodeYAMLSection(valNode, sectionTarget(card, key)); err != nil {
				dropSection(card, key)
				diags = append(diags, Diagnostic{
					Field:   key,
					Message: "malformed section dropped: " + err.Error(),
					Code:    DiagMalformedSection,
					Line:    valNode.Line,
				})
			}
		default:
			diags = append(diags, Diagnostic{Field: key, Message: "unknown card key, ignored", Code: DiagUnknownKey, Line: keyNode.Line})
		}
	}

	card, diags, err := build(card, diags)
	if ce, ok := err.(*CompileError); ok {
		ce.File = filename
		if ce.Line == 0 {
			ce.Line = root.Line
		}
	}
	return card, diags, err
}

// decodeYAMLSection re-encodes node and decodes it strictly. yaml.Node.Decode
// has no KnownFields switch, hence the round trip.
func decodeYAMLSection(node *yaml.Node, out any) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", nodeKind(node))
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("re-encode section: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
