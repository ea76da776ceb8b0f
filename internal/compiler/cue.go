package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/morphsynth/internal/ir"
)

// CompileCUEBytes parses src as a CUE card and compiles it.
func CompileCUEBytes(filename string, src []byte) (*ir.LanguageCard, []Diagnostic, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}
	return CompileCUE(v)
}

// CompileCUE compiles a CUE value into a LanguageCard.
//
// Each section is decoded on its own; a section that fails to decode is
// reported as a Diagnostic and left absent.
func CompileCUE(v cue.Value) (*ir.LanguageCard, []Diagnostic, error) {
	if err := v.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}

	card := &ir.LanguageCard{}
	var diags []Diagnostic

	codeVal := v.LookupPath(cue.ParsePath(keyCode))
	if !codeVal.Exists() {
		return nil, nil, &CompileError{Field: keyCode, Message: "language code is required", Pos: v.Pos()}
	}
	code, err := codeVal.String()
	if err != nil {
		return nil, nil, &CompileError{Field: keyCode, Message: "must be a string", Pos: codeVal.Pos()}
	}
	card.Code = code

	famVal := v.LookupPath(cue.ParsePath(keyFamily))
	if famVal.Exists() {
		fam, err := famVal.String()
		if err != nil {
			return nil, nil, &CompileError{Field: keyFamily, Message: "must be a string", Pos: famVal.Pos()}
		}
		card.Family = ir.Family(fam)
	}

	if nameVal := v.LookupPath(cue.ParsePath(keyName)); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			diags = append(diags, cueDiagnostic(keyName, "must be a string", DiagMalformedField, nameVal))
		} else {
			card.Name = name
		}
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}
	for iter.Next() {
		key := iter.Label()
		if !isKnownKey(key) {
			diags = append(diags, cueDiagnostic(key, "unknown card key, ignored", DiagUnknownKey, iter.Value()))
			continue
		}
		if !isSectionKey(key) {
			continue
		}
		if err := decodeCUESection(iter.Value(), sectionTarget(card, key)); err != nil {
			dropSection(card, key)
			diags = append(diags, cueDiagnostic(key, "malformed section dropped: "+err.Error(), DiagMalformedSection, iter.Value()))
		}
	}

	card, diags, err = build(card, diags)
	if ce, ok := err.(*CompileError); ok && !ce.Pos.IsValid() {
		ce.Pos = v.Pos()
	}
	return card, diags, err
}

// decodeCUESection round-trips a section through JSON so unknown fields and
// type mismatches are rejected.
func decodeCUESection(v cue.Value, out any) error {
	if err := v.Err(); err != nil {
		return err
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal section: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}
	return nil
}

func cueDiagnostic(field, msg, code string, v cue.Value) Diagnostic {
	d := Diagnostic{Field: field, Message: msg, Code: code}
	if pos := v.Pos(); pos.IsValid() {
		d.Line = pos.Line()
	}
	return d
}
