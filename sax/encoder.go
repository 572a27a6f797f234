package sax

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"

	"github.com/go-exi/exicore/exi"
)

type SAXEncoder struct {
	factory       exi.EXIFactory
	exiStream     exi.EXIStreamEncoder
	encoder       exi.EXIBodyEncoder
	exiAttributes exi.AttributeList
}

func NewSAXEncoder(factory exi.EXIFactory) (*SAXEncoder, error) {
	exiStream, err := factory.CreateEXIStreamEncoder()
	if err != nil {
		return nil, err
	}

	return &SAXEncoder{
		factory:       factory,
		exiStream:     exiStream,
		encoder:       nil,
		exiAttributes: exi.NewAttributeListImpl(factory),
	}, nil
}

func (sxe *SAXEncoder) SetWriter(writer *bufio.Writer) error {
	enc, err := sxe.exiStream.EncodeHeader(*writer)
	if err != nil {
		return err
	}
	sxe.encoder = enc
	return nil
}

func (sxe *SAXEncoder) StartPrefixMapping(prefix *string, uri string) error {
	sxe.exiAttributes.AddNamespaceDeclaration(uri, prefix)
	return nil
}

func (sxe *SAXEncoder) StartElement(uri, local string, raw *string, attributes []xml.Attr) error {
	return sxe.startElementPfx(uri, local, nil, attributes)
}

func (sxe *SAXEncoder) startElementPfx(uri, local string, prefix *string, attributes []xml.Attr) error {
	if err := sxe.encoder.EncodeStartElement(uri, local, prefix); err != nil {
		return err
	}

	for _, attr := range attributes {
		prefix := sxe.getPrefixOf(&attr)

		// Skip namespace declarations
		if attr.Name.Space == exi.XML_NS_Attribute {
			continue
		}

		sxe.exiAttributes.AddAttribute(&attr.Name.Space, attr.Name.Local, &prefix, attr.Value)
	}

	if err := sxe.encoder.EncodeAttributeList(sxe.exiAttributes); err != nil {
		return err
	}
	sxe.exiAttributes.Clear()

	return nil
}

func (sxe *SAXEncoder) getPrefixOf(attr *xml.Attr) string {
	idx := strings.Index(attr.Name.Local, ":")
	if idx == -1 {
		return exi.XMLDefaultNSPrefix
	} else {
		return attr.Name.Local[:idx]
	}
}

func (sxe *SAXEncoder) StartDocument() error {
	return sxe.encoder.EncodeStartDocument()
}

func (sxe *SAXEncoder) EndDocument() error {
	if err := sxe.encoder.EncodeEndDocument(); err != nil {
		return err
	}
	return sxe.encoder.Flush()
}

func (sxe *SAXEncoder) EndElement(uri, local string, raw *string) error {
	return sxe.encoder.EncodeEndElement()
}

func (sxe *SAXEncoder) Characters(ch []rune, start, length int) error {
	return sxe.encoder.EncodeCharacters(exi.NewStringValueFromSlice(ch[start : start+length]))
}

func (sxe *SAXEncoder) Encode(reader *bufio.Reader, reference []byte) error {
	dec := xml.NewDecoder(reader)

	start := true

	for {
		token, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				if err := sxe.EndDocument(); err != nil {
					return err
				}

				return nil
			}
			return err
		}

		if start {
			if err := sxe.StartDocument(); err != nil {
				return err
			}
			start = false
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if err := sxe.StartElement(tok.Name.Space, tok.Name.Local, nil, tok.Attr); err != nil {
				return err
			}
		case xml.EndElement:
			if err := sxe.EndElement(tok.Name.Space, tok.Name.Local, nil); err != nil {
				return err
			}
		case xml.CharData:
			runes := []rune(string(tok))

			if err := sxe.Characters(runes, 0, len(runes)); err != nil {
				return err
			}
		default:
			// Skip for now
		}
	}
}
