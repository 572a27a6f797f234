package sax

import (
	"encoding/xml"
	"fmt"

	"github.com/go-exi/exicore/exi"
)


func (sd *SAXDecoder) parseEXIEvents(decoder exi.EXIBodyDecoder, writer *xml.Encoder) (string, error) {
	var deferredStartElement *exi.QNameContext = nil
	var err error
	isStartElementDeferred := false
	rootName := ""

	eventType, exists, err := decoder.Next()
	if err != nil {
		return "", err
	}
	for exists {
		switch eventType {
		case exi.EventTypeStartDocument:
			if err := decoder.DecodeStartDocument(); err != nil {
				return "", err
			}
		case exi.EventTypeEndDocument:
			if err := decoder.DecodeEndDocument(); err != nil {
				return "", err
			}
		case exi.EventTypeAttributeXsiNil:
			qcx, err := decoder.DecodeAttributeXsiNil()
			if err != nil {
				return "", err
			}

			if err := sd.handleAttribute(decoder, qcx); err != nil {
				return "", err
			}
		case exi.EventTypeAttributeXsiType:
			qcx, err := decoder.DecodeAttributeXsiType()
			if err != nil {
				return "", err
			}
			if err := sd.handleAttribute(decoder, qcx); err != nil {
				return "", err
			}
		case exi.EventTypeAttribute,
			exi.EventTypeAttributeNS,
			exi.EventTypeAttributeGeneric,
			exi.EventTypeAttributeGenericUndeclared,
			exi.EventTypeAttributeInvalidValue,
			exi.EventTypeAttributeAnyInvalidValue:

			qcx, err := decoder.DecodeAttribute()
			if err != nil {
				return "", err
			}

			if err := sd.handleAttribute(decoder, qcx); err != nil {
				return "", err
			}
		case exi.EventTypeNamespaceDeclaration:
			nsDecl, err := decoder.DecodeNamespaceDeclaration()
			if err != nil {
				return "", err
			}
			if sd.debug {
				fmt.Printf("NSDECL: %+v\n", nsDecl)
			}

			sd.namespaceList = append(sd.namespaceList, *nsDecl)
		case exi.EventTypeSelfContained:
			if err := decoder.DecodeStartSelfContainedFragment(); err != nil {
				return "", err
			}
		case exi.EventTypeStartElement,
			exi.EventTypeStartElementNS,
			exi.EventTypeStartElementGeneric,
			exi.EventTypeStartElementGenericUndeclared:
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
			}
			// defer start element and keep on processing
			deferredStartElement, err = decoder.DecodeStartElement()
			if err != nil {
				return "", err
			}
			isStartElementDeferred = true

			if sd.isFirstElement {
				rootName = deferredStartElement.GetLocalName()
			}
		case exi.EventTypeEndElement, exi.EventTypeEndElementUndeclared:
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
				isStartElementDeferred = false
			}

			// eePrefixes := []exi.NamespaceDeclarationContainer{}
			// if sd.namespaces {
			// 	eePrefixes = decoder.GetDeclaredPrefixDeclarations()
			// }
			// eeQNameAsString := decoder.GetAttributeQNameAsString()
			eeQName, err := decoder.DecodeEndElement()
			if err != nil {
				return "", err
			}

			if err := writer.EncodeToken(xml.EndElement{
				Name: xml.Name{
					Local: eeQName.GetDefaultQNameAsString(),
				},
			}); err != nil {
				return "", err
			}
			if sd.debug {
				fmt.Printf("[ENCODE] EndElement{Space: %s, Local: %s}\n", eeQName.GetNamespaceUri(), eeQName.GetLocalName())
			}
		case exi.EventTypeCharacters, exi.EventTypeCharactersGeneric, exi.EventTypeCharactersGenericUndeclared:
			// handle deferred element if any first
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
				isStartElementDeferred = false
			}

			val, err := decoder.DecodeCharacters()
			if err != nil {
				return "", err
			}

			switch val.GetValueType() {
			case exi.ValueTypeBoolean, exi.ValueTypeString:
				chars, err := val.GetCharacters()
				if err != nil {
					return "", err
				}

				if err := writer.EncodeToken(xml.CharData(string(chars))); err != nil {
					return "", err
				}
				if sd.debug {
					fmt.Printf("[ENCODE] CharData: %s\n", string(chars))
				}
			case exi.ValueTypeList:
				lv := val.(*exi.ListValue)
				values := lv.ToValues()

				if len(values) > 0 {
					vt := values[0].GetValueType()

					for _, val2 := range values {
						switch vt {
						case exi.ValueTypeBoolean, exi.ValueTypeString:
							chars, err := val2.GetCharacters()
							if err != nil {
								return "", err
							}

							if err := writer.EncodeToken(xml.CharData(string(chars))); err != nil {
								return "", err
							}
							if sd.debug {
								fmt.Printf("[ENCODE] CharData: %s\n", string(chars))
							}
							if err := writer.EncodeToken(xml.CharData(string(exi.XSDListDelimCharArray))); err != nil {
								return "", err
							}
							if sd.debug {
								fmt.Printf("[ENCODE] CharData: %s\n", string(exi.XSDListDelimCharArray))
							}
						default:
							offset := 0
							length, err := val2.GetCharactersLength()
							if err != nil {
								return "", err
							}

							// Weird java code here
							if len(sd.cbuffer) < (offset + length + 1) {
								if err := writer.EncodeToken(xml.CharData(string(sd.cbuffer[:offset]))); err != nil {
									return "", err
								}
								if sd.debug {
									fmt.Printf("[ENCODE] CharData: %s\n", string(sd.cbuffer[:offset]))
								}
							}

							if err := val2.FillCharactersBuffer(sd.cbuffer, offset); err != nil {
								return "", err
							}
							offset += length
							sd.cbuffer[offset] = ' '
							offset++

							if err := writer.EncodeToken(xml.CharData(string(sd.cbuffer[:offset]))); err != nil {
								return "", err
							}
							if sd.debug {
								fmt.Printf("[ENCODE] CharData: %s\n", string(sd.cbuffer[:offset]))
							}
						}
					}
				}
			default:
				slen, err := val.GetCharactersLength()
				if err != nil {
					return "", err
				}
				if err := sd.ensureBufferCapacity(slen); err != nil {
					return "", err
				}

				// fills char array with value
				if err := val.FillCharactersBuffer(sd.cbuffer, 0); err != nil {
					return "", err
				}

				if err := writer.EncodeToken(xml.CharData(string(sd.cbuffer[0:slen]))); err != nil {
					return "", err
				}
				if sd.debug {
					fmt.Printf("[ENCODE] CharData: %s\n", string(sd.cbuffer[0:slen]))
				}
			}
		case exi.EventTypeDocType:
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
				isStartElementDeferred = false
			}

			docType, err := decoder.DecodeDocType()
			if err != nil {
				return "", err
			}
			if err := sd.handleDocType(docType); err != nil {
				return "", err
			}
		case exi.EventTypeEntityReference:
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
				isStartElementDeferred = false
			}

			ref, err := decoder.DecodeEntityReference()
			if err != nil {
				return "", err
			}

			if err := sd.handleEntityReference(ref); err != nil {
				return "", err
			}
		case exi.EventTypeComment:
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
				isStartElementDeferred = false
			}

			com, err := decoder.DecodeComment()
			if err != nil {
				return "", err
			}

			if err := sd.handleComment(com); err != nil {
				return "", err
			}
		case exi.EventTypeProcessingInstruction:
			if isStartElementDeferred {
				// handle deferred element if any first
				if err := sd.handleDeferredStartElement(decoder, deferredStartElement, writer); err != nil {
					return "", err
				}
				sd.isFirstElement = false
				isStartElementDeferred = false
			}

			pi, err := decoder.DecodeProcessingInstruction()
			if err != nil {
				return "", err
			}

			if err := writer.EncodeToken(xml.ProcInst{
				Target: pi.Target,
				Inst:   []byte(pi.Data),
			}); err != nil {
				return "", err
			}
			if sd.debug {
				fmt.Printf("[ENCODE] ProcInst{Target = %s, Data = %s}\n", pi.Target, pi.Data)
			}
		default:
			return "", fmt.Errorf("unexpected EXI event: %d", eventType)
		}

		eventType, exists, err = decoder.Next()
		if sd.debug {
			fmt.Printf("[NEXT] ET: %d, Exists: %v, Err: %v\n", eventType, exists, err)
		}
		if err != nil {
			return "", err
		}
	}

	return rootName, writer.Flush()
}

func (sd *SAXDecoder) handleDeferredStartElement(decoder exi.EXIBodyDecoder, deferredStartElement *exi.QNameContext, writer *xml.Encoder) error {
	nsAttrs := []xml.Attr{}

	if sd.namespaces && sd.isFirstElement {
		prefixes := decoder.GetDeclaredPrefixDeclarations()
		for _, pfx := range prefixes {
			p := ""
			if pfx.Prefix != nil {
				p = *pfx.Prefix
			}
			if sd.debug {
				fmt.Printf("NSDECL(DEF): %+v, Prefix: %s\n", pfx, p)
			}
			nsAttrs = append(nsAttrs, xml.Attr{
				Name: xml.Name{
					Local: fmt.Sprintf("xmlns:%s", p),
				},
				Value: pfx.NamespaceURI,
			})
		}
	}

	// flush the deferred start element now that its attributes and
	// namespace declarations are all known
	attrs := []xml.Attr{}
	if sd.isFirstElement {
		attrs = append(attrs, nsAttrs...)
	}
	attrs = append(attrs, sd.attributeList...)

	if err := writer.EncodeToken(xml.StartElement{
		Name: xml.Name{
			Local: deferredStartElement.GetDefaultQNameAsString(),
		},
		Attr: attrs,
	}); err != nil {
		return err
	}
	if sd.debug {
		fmt.Printf("[ENCODE] StartElement{Space: %s, Local: %s}\n", deferredStartElement.GetNamespaceUri(), deferredStartElement.GetLocalName())
	}

	// clear attributes
	sd.attributeList = []xml.Attr{}
	return nil
}