package exi

import (
	"fmt"
	"maps"
	"slices"
)

// Fidelity feature keys: the four Preserve.* axes, lexical-value
// preservation, self-contained elements, and strict mode (which
// excludes all of the others except lexical values).
const (
	FeatureComment = "PRESERVE_COMMENTS"
	FeaturePI      = "PRESERVE_PIS"
	FeatureDTD     = "PRESERVE_DTDS"
	FeaturePrefix  = "PRESERVE_PREFIX"

	FeatureLexicalValue = "PRESERVE_LEXICAL_VALUES"

	FeatureSC = "SELF_CONTAINED"

	FeatureStrict = "STRICT"
)

// FidelityOptions tracks the enabled fidelity features both as a set
// (for enumeration into the options document) and as flags (for the
// per-event hot paths).
type FidelityOptions struct {
	options        map[string]struct{}
	isStrict       bool
	isComment      bool
	isPI           bool
	isDTD          bool
	isPrefix       bool
	isLexicalValue bool
	isSC           bool
}

func NewDefaultFidelityOptions() *FidelityOptions {
	return &FidelityOptions{options: map[string]struct{}{}}
}

// NewStrictFidelityOptions enables strict mode with every preserve
// option off.
func NewStrictFidelityOptions() *FidelityOptions {
	fo := NewDefaultFidelityOptions()
	fo.options[FeatureStrict] = struct{}{}
	fo.isStrict = true
	return fo
}

// NewAllFidelityOptions enables every preserve option that can coexist
// (all but self-containment and strict).
func NewAllFidelityOptions() *FidelityOptions {
	fo := NewDefaultFidelityOptions()
	for _, key := range []string{FeatureComment, FeaturePI, FeatureDTD, FeaturePrefix, FeatureLexicalValue} {
		fo.options[key] = struct{}{}
	}
	fo.isComment = true
	fo.isPI = true
	fo.isDTD = true
	fo.isPrefix = true
	fo.isLexicalValue = true
	return fo
}

func (f *FidelityOptions) SetFidelity(key string, decision bool) error {
	switch key {
	case FeatureStrict:
		if decision {
			_, prevContainedLexVal := f.options[FeatureLexicalValue]

			f.options = map[string]struct{}{}
			f.isComment = false
			f.isPI = false
			f.isDTD = false
			f.isPrefix = false
			f.isLexicalValue = false
			f.isSC = false

			if prevContainedLexVal {
				f.options[FeatureLexicalValue] = struct{}{}
				f.isLexicalValue = true
			}

			f.options[FeatureStrict] = struct{}{}
			f.isStrict = true
		} else {
			delete(f.options, key)
			f.isStrict = false
		}
	case FeatureLexicalValue:
		if decision {
			f.options[key] = struct{}{}
			f.isLexicalValue = true
		} else {
			delete(f.options, key)
			f.isLexicalValue = false
		}
	case FeatureComment, FeaturePI, FeatureDTD, FeaturePrefix, FeatureSC:
		if decision {
			if f.isStrict {
				delete(f.options, FeatureStrict)
				f.isStrict = false
			}

			f.options[key] = struct{}{}
			if key == FeatureComment {
				f.isComment = true
			}
			if key == FeaturePI {
				f.isPI = true
			}
			if key == FeatureDTD {
				f.isDTD = true
			}
			if key == FeaturePrefix {
				f.isPrefix = true
			}
			if key == FeatureSC {
				f.isSC = true
			}
		} else {
			delete(f.options, key)
			if key == FeatureComment {
				f.isComment = false
			}
			if key == FeaturePI {
				f.isPI = false
			}
			if key == FeatureDTD {
				f.isDTD = false
			}
			if key == FeaturePrefix {
				f.isPrefix = false
			}
			if key == FeatureSC {
				f.isSC = false
			}
		}
	default:
		return NewError(ErrInvalidConfig, fmt.Sprintf("FidelityOption '%s' is unknown", key))
	}

	return nil
}

func (f *FidelityOptions) IsFidelityEnabled(key string) bool {
	_, exists := f.options[key]
	return exists
}

func (f *FidelityOptions) IsStrict() bool {
	return f.isStrict
}

func (f *FidelityOptions) Get1stLevelEventCodeLength(gr Grammar) int {
	var cl1 int

	switch gr.GetGrammarType() {
	case GrammarTypeDocument, GrammarTypeFragment:
		cl1 = 0
	case GrammarTypeDocEnd:
		if f.isComment || f.isPI {
			cl1 = 1
		} else {
			cl1 = 0
		}
	case GrammarTypeSchemaInformedDocContent, GrammarTypeBuiltInDocContent:
		inc := 0
		if f.isDTD || f.isComment || f.isPI {
			inc = 1
		}
		cl1 = codingLength(gr.GetNumberOfEvents() + inc)
	case GrammarTypeSchemaInformedFragmentContent, GrammarTypeBuiltInFragmentContent:
		inc := 0
		if f.isComment || f.isPI {
			inc = 1
		}
		cl1 = codingLength(gr.GetNumberOfEvents() + inc)
	case GrammarTypeSchemaInformedFirstStartTagContent, GrammarTypeSchemaInformedStartTagContent, GrammarTypeSchemaInformedElementContent:
		inc := 0
		if f.Get2ndLevelCharacteristics(gr) > 0 {
			inc = 1
		}
		cl1 = codingLength(gr.GetNumberOfEvents() + inc)
	case GrammarTypeBuiltInStartTagContent, GrammarTypeBuiltInElementContent:
		cl1 = codingLength(gr.GetNumberOfEvents() + 1)
	default:
		cl1 = -1
	}

	return cl1
}

func (f *FidelityOptions) Get2ndLevelEventType(code2 int, gr Grammar) EventType {
	var et EventType = EventType(NotFound)

	switch gr.GetGrammarType() {
	case GrammarTypeDocument, GrammarTypeFragment, GrammarTypeDocEnd, GrammarTypeSchemaInformedFragmentContent, GrammarTypeBuiltInFragmentContent:
		// Root grammars
	case GrammarTypeSchemaInformedDocContent, GrammarTypeBuiltInDocContent:
		if f.isDTD && code2 == 0 {
			et = EventTypeDocType
		}
	case GrammarTypeSchemaInformedFirstStartTagContent:
		sifst := gr.(SchemaInformedFirstStartTagGrammar)
		if f.isStrict {
			if sifst.IsTypeCastable() {
				switch code2 {
				case 0:
					et = EventTypeAttributeXsiType
				case 1:
					et = EventTypeAttributeXsiNil
				}
			} else if sifst.IsNillable() && code2 == 0 {
				et = EventTypeAttributeXsiNil
			}
		} else {
			// {0,EE?, 1,xsi:type, 2,xsi:nil, 3,AT*, 4,AT-untyped, 5,NS,
			// 6,SC, 7,SE*, 8,CH, 9,ER, {CM, PI}}
			dec := 0
			if sifst.HasEndElement() {
				dec++
			}
			if code2 == 0-dec {
				et = EventTypeEndElementUndeclared
			} else {
				switch code2 {
				case 1 - dec:
					et = EventTypeAttributeXsiType
				case 2 - dec:
					et = EventTypeAttributeXsiNil
				case 3 - dec:
					et = EventTypeAttributeGenericUndeclared
				case 4 - dec:
					et = EventTypeAttributeInvalidValue
				default:
					if !f.isPrefix {
						dec++
					}
					if code2 == 5-dec {
						et = EventTypeNamespaceDeclaration
					} else {
						if !f.isSC {
							dec++
						}
						if code2 == 6-dec {
							et = EventTypeSelfContained
						} else {
							switch code2 {
							case 7 - dec:
								et = EventTypeStartElementGenericUndeclared
							case 8 - dec:
								et = EventTypeCharactersGenericUndeclared
							default:
								if !f.isDTD {
									dec++
								}
								if code2 == 9-dec {
									et = EventTypeEntityReference
								}
							}
						}
					}
				}
			}
		}
	case GrammarTypeSchemaInformedStartTagContent:
		sist := gr.(SchemaInformedStartTagGrammar)
		if f.isStrict {
		} else {
			// {0,EE?, 1,AT*, 2,AT-untyped, 3,SE*, 4,CH, 5,ER, {CM, PI}}
			dec := 0
			if sist.HasEndElement() {
				dec++
			}
			if code2 == 0-dec {
				et = EventTypeEndElementUndeclared
			} else {
				switch code2 {
				case 1 - dec:
					et = EventTypeAttributeGenericUndeclared
				case 2 - dec:
					et = EventTypeAttributeInvalidValue
				case 3 - dec:
					et = EventTypeStartElementGenericUndeclared
				case 4 - dec:
					et = EventTypeCharactersGenericUndeclared
				default:
					if !f.isDTD {
						dec++
					}
					if code2 == 5-dec {
						et = EventTypeEntityReference
					}
				}
			}
		}
	case GrammarTypeSchemaInformedElementContent:
		sig := gr.(SchemaInformedGrammar)
		if f.isStrict {
		} else {
			// {0,EE?, 1,SE*, 2,CH*, 3,ER?, {CM, PI}}
			dec := 0
			if sig.HasEndElement() {
				dec++
			}
			switch code2 {
			case 0 - dec:
				et = EventTypeEndElementUndeclared
			case 1 - dec:
				et = EventTypeStartElementGenericUndeclared
			case 2 - dec:
				et = EventTypeCharactersGenericUndeclared
			default:
				if !f.isDTD {
					dec++
				}
				if code2 == 3-dec {
					et = EventTypeEntityReference
				}
			}
		}
	case GrammarTypeBuiltInStartTagContent:
		// {0,EE, 1,AT*, 2,NS, 3,SC, 4,SE*, 5,CH, 6,ER, {CM, PI}}
		switch code2 {
		case 0:
			et = EventTypeEndElementUndeclared
		case 1:
			et = EventTypeAttributeGenericUndeclared
		default:
			dec := 0
			if !f.isPrefix {
				dec++
			}
			if code2 == 2-dec {
				et = EventTypeNamespaceDeclaration
			} else {
				if !f.isSC {
					dec++
				}
				switch code2 {
				case 3 - dec:
					et = EventTypeSelfContained
				case 4 - dec:
					et = EventTypeStartElementGenericUndeclared
				case 5 - dec:
					et = EventTypeCharactersGenericUndeclared
				default:
					if !f.isDTD {
						dec++
					}
					if code2 == 6-dec {
						et = EventTypeEntityReference
					}
				}
			}
		}
	case GrammarTypeBuiltInElementContent:
		// {0,SE*, 1,CH, 2,ER, {CM, PI}}
		switch code2 {
		case 0:
			et = EventTypeStartElementGenericUndeclared
		case 1:
			et = EventTypeCharactersGenericUndeclared
		default:
			if f.isDTD && code2 == 2 {
				et = EventTypeEntityReference
			}
		}
	}

	return et
}

func (f *FidelityOptions) Get2ndLevelEventCode(et EventType, gr Grammar) int {
	code2 := NotFound

	switch gr.GetGrammarType() {
	case GrammarTypeDocument, GrammarTypeFragment, GrammarTypeDocEnd, GrammarTypeSchemaInformedFragmentContent, GrammarTypeBuiltInFragmentContent:
		// Root grammars
	case GrammarTypeSchemaInformedDocContent, GrammarTypeBuiltInDocContent:
		/* Schema-informed Document and Fragment Grammars */
		/* Built-in Document and Fragment Grammars */
		if f.isDTD && et == EventTypeDocType {
			code2 = 0
		}
	case GrammarTypeSchemaInformedFirstStartTagContent:
		sifst := gr.(SchemaInformedFirstStartTagGrammar)
		if f.isStrict {
			if sifst.IsTypeCastable() {
				switch et {
				case EventTypeAttributeXsiType:
					code2 = 0
				case EventTypeAttributeXsiNil:
					code2 = 1
				}
			} else if sifst.IsNillable() && et == EventTypeAttributeXsiNil {
				code2 = 0
			}
		} else {
			// {0,EE?, 1,xsi:type, 2,xsi:nil, 3,AT*, 4,AT-untyped, 5,NS,
			// 6,SC, 7,SE*, 8,CH, 9,ER, {CM, PI}}
			dec := 0
			if sifst.HasEndElement() {
				dec++
			}
			switch et {
			case EventTypeEndElementUndeclared:
				code2 = 0 - dec
			case EventTypeAttributeXsiType:
				code2 = 1 - dec
			case EventTypeAttributeXsiNil:
				code2 = 2 - dec
			case EventTypeAttributeGenericUndeclared:
				code2 = 3 - dec
			case EventTypeAttributeInvalidValue:
				code2 = 4 - dec
			default:
				if !f.isPrefix {
					dec++
				}
				if et == EventTypeNamespaceDeclaration {
					code2 = 5 - dec
				} else {
					if !f.isSC {
						dec++
					}
					switch et {
					case EventTypeSelfContained:
						code2 = 6 - dec
					case EventTypeStartElementGenericUndeclared:
						code2 = 7 - dec
					case EventTypeCharactersGenericUndeclared:
						code2 = 8 - dec
					default:
						if !f.isDTD {
							dec++
						}
						if et == EventTypeEntityReference {
							code2 = 9 - dec
						}
					}
				}
			}
		}
	case GrammarTypeSchemaInformedStartTagContent:
		sist := gr.(SchemaInformedStartTagGrammar)
		if f.isStrict {
		} else {
			// {0,EE?, 1,AT*, 2,AT-untyped, 3,SE*, 4,CH, 5,ER, {CM, PI}}
			dec := 0
			if sist.HasEndElement() {
				dec++
			}
			switch et {
			case EventTypeEndElementUndeclared:
				code2 = 0 - dec
			case EventTypeAttributeGenericUndeclared:
				code2 = 1 - dec
			case EventTypeAttributeInvalidValue:
				code2 = 2 - dec
			case EventTypeStartElementGenericUndeclared:
				code2 = 3 - dec
			case EventTypeCharactersGenericUndeclared:
				code2 = 4 - dec
			default:
				if !f.isDTD {
					dec++
				}
				if et == EventTypeEntityReference {
					code2 = 5 - dec
				}
			}
		}
	case GrammarTypeSchemaInformedElementContent:
		sig := gr.(SchemaInformedGrammar)
		if f.isStrict {
		} else {
			// {0,EE?, 1,SE*, 2,CH*, 3,ER?, {CM, PI}}
			dec := 0
			if sig.HasEndElement() {
				dec++
			}
			switch et {
			case EventTypeEndElementUndeclared:
				code2 = 0 - dec
			case EventTypeStartElementGenericUndeclared:
				code2 = 1 - dec
			case EventTypeCharactersGenericUndeclared:
				code2 = 2 - dec
			default:
				if !f.isDTD {
					dec++
				}
				if et == EventTypeEntityReference {
					code2 = 3 - dec
				}
			}
		}
	case GrammarTypeBuiltInStartTagContent:
		// {0,EE, 1,AT*, 2,NS, 3,SC, 4,SE*, 5,CH, 6,ER, {CM, PI}}
		switch et {
		case EventTypeEndElementUndeclared:
			code2 = 0
		case EventTypeAttributeGenericUndeclared:
			code2 = 1
		default:
			dec := 0
			if !f.isPrefix {
				dec++
			}
			if et == EventTypeNamespaceDeclaration {
				code2 = 2 - dec
			} else {
				if !f.isSC {
					dec++
				}
				switch et {
				case EventTypeSelfContained:
					code2 = 3 - dec
				case EventTypeStartElementGenericUndeclared:
					code2 = 4 - dec
				case EventTypeCharactersGenericUndeclared:
					code2 = 5 - dec
				default:
					if !f.isDTD {
						dec++
					}
					if et == EventTypeEntityReference {
						code2 = 6 - dec
					}
				}
			}
		}
	case GrammarTypeBuiltInElementContent:
		// {0,SE*, 1,CH, 2,ER, {CM, PI}}
		switch et {
		case EventTypeStartElementGenericUndeclared:
			code2 = 0
		case EventTypeCharactersGenericUndeclared:
			code2 = 1
		default:
			if f.isDTD && et == EventTypeEntityReference {
				code2 = 2
			}
		}
	}

	return code2
}

func (f *FidelityOptions) Get2ndLevelCharacteristics(gr Grammar) int {
	n2 := 0

	switch gr.GetGrammarType() {
	case GrammarTypeDocument, GrammarTypeFragment:
		// Root grammars
		// n2 = 0
	case GrammarTypeDocEnd:
		if f.Get3rdLevelCharacteristics() > 0 {
			n2++
		}
	case GrammarTypeSchemaInformedDocContent, GrammarTypeBuiltInDocContent:
		if f.isDTD {
			n2++
		}
		if f.Get3rdLevelCharacteristics() > 0 {
			n2++
		}
	case GrammarTypeSchemaInformedFragmentContent, GrammarTypeBuiltInFragmentContent:
		if f.Get3rdLevelCharacteristics() > 0 {
			n2++
		}
	case GrammarTypeSchemaInformedFirstStartTagContent:
		sifst := gr.(SchemaInformedFirstStartTagGrammar)
		if f.isStrict {
			cst := 0
			if sifst.IsTypeCastable() {
				cst = 1
			}
			nlb := 0
			if sifst.IsNillable() {
				nlb = 1
			}
			n2 = cst + nlb
		} else {
			// {EE?, xsi:type, xsi:nil, AT*, AT-untyped, NS, SC, SE*, CH,
			// ER, {CM, PI}}
			if !sifst.HasEndElement() {
				n2++
			}
			n2 += 4 // xsi:type, xsi:nil, AT*, AT-untyped
			if f.isPrefix {
				n2++
			}
			if f.isSC {
				n2++
			}
			n2 += 2 // SE*, CH
			if f.isDTD {
				n2++
			}
			if f.Get3rdLevelCharacteristics() > 0 {
				n2++
			}
		}
	case GrammarTypeSchemaInformedStartTagContent:
		sist := gr.(SchemaInformedStartTagGrammar)
		if f.isStrict {
		} else {
			// {EE?, AT*, AT-untyped, SE*, CH, ER, {CM, PI}}
			if !sist.HasEndElement() {
				n2++
			}
			n2 += 4 // AT*, AT-untyped, SE*, CH
			if f.isDTD {
				n2++
			}
			if f.Get3rdLevelCharacteristics() > 0 {
				n2++
			}
		}
	case GrammarTypeSchemaInformedElementContent:
		sig := gr.(SchemaInformedGrammar)
		if f.isStrict {
		} else {
			// {EE?, SE*, CH*, ER?, {CM, PI}}
			if !sig.HasEndElement() {
				n2++
			}
			n2 += 2 // SE*, CH
			if f.isDTD {
				n2++
			}
			if f.Get3rdLevelCharacteristics() > 0 {
				n2++
			}
		}
	case GrammarTypeBuiltInStartTagContent:
		// {EE, AT*, NS, SC, SE*, CH, ER, {CM, PI}}
		n2 += 2 // EE, AT*
		if f.isPrefix {
			n2++
		}
		if f.isSC {
			n2++
		}
		n2 += 2 // SE*, CH
		if f.isDTD {
			n2++
		}
		if f.Get3rdLevelCharacteristics() > 0 {
			n2++
		}
	case GrammarTypeBuiltInElementContent:
		// {SE*, CH, ER, {CM, PI}}
		n2 += 2 // SE*, CH
		if f.isDTD {
			n2++
		}
		if f.Get3rdLevelCharacteristics() > 0 {
			n2++
		}
	}

	return n2
}

func (f *FidelityOptions) Get3rdLevelEventType(ec3 int) EventType {
	switch ec3 {
	case 0:
		if f.isComment {
			return EventTypeComment
		} else if f.isPI {
			return EventTypeProcessingInstruction
		}
	case 1:
		return EventTypeProcessingInstruction
	}

	return EventType(NotFound)
}

func (f *FidelityOptions) Get3rdLevelEventCode(et EventType) int {
	if !f.isStrict {
		if f.isComment {
			switch et {
			case EventTypeComment:
				return 0
			case EventTypeProcessingInstruction:
				return 1
			}
		} else if f.isPI {
			if et == EventTypeProcessingInstruction {
				return 0
			}
		}
	}

	return NotFound
}

func (f *FidelityOptions) Get3rdLevelCharacteristics() int {
	ch := 0

	if f.isComment {
		ch++
	}
	if f.isPI {
		ch++
	}

	return ch
}

func (f *FidelityOptions) Equals(other *FidelityOptions) bool {
	if other == nil {
		return false
	}

	so1 := slices.Collect(maps.Keys(f.options))
	so2 := slices.Collect(maps.Keys(other.options))

	slices.Sort(so1)
	slices.Sort(so2)

	return slices.Compare(so1, so2) == 0
}
