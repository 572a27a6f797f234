package sax

import (
	"bufio"
	"encoding/xml"
	"fmt"

	"github.com/go-exi/exicore/exi"
)

const (
	SAX_DefaultCharBufferSize int = 4096
)

type SAXDecoder struct {
	noOptionsFactory  exi.EXIFactory
	exiStream         exi.EXIStreamDecoder
	namespaces        bool
	namespacePrefixes bool
	exiBodyOnly       bool
	cbuffer           []rune
	debug             bool
	attributeList     []xml.Attr
	namespaceList     []exi.NamespaceDeclarationContainer
	isFirstElement    bool
}

func NewSAXDecoder(noOptionsFactory exi.EXIFactory) (*SAXDecoder, error) {
	return NewSAXDecoderWithBuffer(noOptionsFactory, make([]rune, SAX_DefaultCharBufferSize))
}

func NewSAXDecoderWithBuffer(noOptionsFactory exi.EXIFactory, cbuffer []rune) (*SAXDecoder, error) {
	exiStream, err := noOptionsFactory.CreateEXIStreamDecoder()
	if err != nil {
		return nil, err
	}

	return &SAXDecoder{
		noOptionsFactory:  noOptionsFactory,
		exiStream:         exiStream,
		namespaces:        true,
		namespacePrefixes: noOptionsFactory.GetFidelityOptions().IsFidelityEnabled(exi.FeaturePrefix),
		exiBodyOnly:       false,
		cbuffer:           cbuffer,
		debug:             false,
		attributeList:     []xml.Attr{},
		namespaceList:     []exi.NamespaceDeclarationContainer{},
		isFirstElement:    true,
	}, nil
}

func (sd *SAXDecoder) GetFeature(name string) (bool, error) {
	switch name {
	case "http://xml.org/sax/features/namespaces":
		return sd.namespaces, nil
	case "http://xml.org/sax/features/namespace-prefixes":
		return sd.namespacePrefixes, nil
	default:
		return false, nil
	}
}

func (sd *SAXDecoder) SetFeature(name string, value bool) error {
	switch name {
	case "http://xml.org/sax/features/namespaces":
		sd.namespaces = value
	case "http://xml.org/sax/features/namespace-prefixes":
		sd.namespacePrefixes = value
	case exi.W3C_EXI_FeatureBodyOnly:
		sd.exiBodyOnly = value
	default:
		return fmt.Errorf("SAX feature not supported: %s", name)
	}

	return nil
}

func (sd *SAXDecoder) reset() {
	sd.attributeList = []xml.Attr{}
	sd.namespaceList = []exi.NamespaceDeclarationContainer{}
	sd.isFirstElement = true
}

// Parse decodes an EXI-encoded message from the provided bufio.Reader source,
// writes the corresponding XML tokens to the given xml.Encoder writer, and returns
// the local name of the document's root element. If an error occurs during decoding
// or writing, it returns an empty string and the error.
func (sd *SAXDecoder) Parse(source *bufio.Reader, writer *xml.Encoder) (string, error) {
	sd.reset()

	var decoder exi.EXIBodyDecoder
	var err error
	if sd.exiBodyOnly {
		decoder, err = sd.exiStream.GetBodyOnlyDecoder(source)
		if err != nil {
			return "", err
		}
	} else {
		decoder, err = sd.exiStream.DecodeHeader(source)
		if err != nil {
			return "", err
		}
	}

	rootName, err := sd.parseEXIEvents(decoder, writer)
	if err != nil {
		return "", err
	}

	return rootName, nil
}