package sax

import (
	"encoding/xml"
	"fmt"

	"github.com/go-exi/exicore/exi"
)


func (sd *SAXDecoder) ensureBufferCapacity(reqSize int) error {
	if reqSize <= len(sd.cbuffer) {
		return nil
	}
	newSize := len(sd.cbuffer)
	for newSize < reqSize {
		newSize <<= 2
	}
	sd.cbuffer = make([]rune, newSize)
	return nil
}

func (sd *SAXDecoder) handleAttribute(decoder exi.EXIBodyDecoder, atQName *exi.QNameContext) error {
	val := decoder.GetAttributeValue()

	var (
		sVal string
		err  error
	)

	switch val.GetValueType() {
	case exi.ValueTypeBoolean, exi.ValueTypeString:
		sVal, err = val.ToString()
		if err != nil {
			return err
		}
	case exi.ValueTypeList:
		lv := val.(*exi.ListValue)

		if lv.GetNumberOfValues() > 0 {
			runes := []rune{}

			values := lv.ToValues()
			vt := values[0].GetValueType()

			for _, v2 := range values {
				switch vt {
				case exi.ValueTypeBoolean, exi.ValueTypeString:
					r, err := v2.GetCharacters()
					if err != nil {
						return err
					}
					runes = append(runes, r...)
				default:
					slen, err := v2.GetCharactersLength()
					if err != nil {
						return err
					}
					if err := sd.ensureBufferCapacity(slen); err != nil {
						return err
					}
					if err := v2.FillCharactersBuffer(sd.cbuffer, 0); err != nil {
						return err
					}
					runes = append(runes, sd.cbuffer[:slen]...)
				}
			}

			sVal = string(runes)
		} else {
			sVal = exi.EmptyString
		}
	default:
		slen, err := val.GetCharactersLength()
		if err != nil {
			return err
		}
		if err := sd.ensureBufferCapacity(slen); err != nil {
			return err
		}
		sVal, err = val.BufferToString(sd.cbuffer, 0)
		if err != nil {
			return err
		}
	}

	// the textual qname is reported even without prefix preservation,
	// matching what common SAX stacks do
	atQNameAsString := decoder.GetAttributeQNameAsString()
	attr := xml.Attr{
		Name: xml.Name{
			Local: atQNameAsString,
		},
		Value: sVal,
	}
	sd.attributeList = append(sd.attributeList, attr)

	if sd.debug {
		fmt.Printf("ADD ATTR: %s = %s\n", attr, sVal)
	}
	return nil
}