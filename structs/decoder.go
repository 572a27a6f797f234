package structs

import (
	"bufio"
	"fmt"
	"reflect"

	"github.com/go-exi/exicore/exi"
)

// StructResolver defines an interface for resolving structures by name
type StructResolver interface {
	// ResolveStruct creates and returns a pointer to a struct instance based on the element name
	ResolveStruct(elementName string) (any, error)
}

// StructDecoder decodes EXI data directly into Go structures using reflection
type StructDecoder struct {
	noOptionsFactory exi.EXIFactory
	exiStream        exi.EXIStreamDecoder
	exiBodyOnly      bool
	debug            bool
	typeRegistry     map[string]reflect.Type // Maps field paths to concrete types for interfaces
}

// NewStructDecoder creates a new struct decoder
func NewStructDecoder(noOptionsFactory exi.EXIFactory) (*StructDecoder, error) {
	exiStream, err := noOptionsFactory.CreateEXIStreamDecoder()
	if err != nil {
		return nil, err
	}

	return &StructDecoder{
		noOptionsFactory: noOptionsFactory,
		exiStream:        exiStream,
		exiBodyOnly:      false,
		debug:            false,
		typeRegistry:     make(map[string]reflect.Type),
	}, nil
}

// SetFeature sets decoder features like body-only mode
func (dec *StructDecoder) SetFeature(name string, value bool) error {
	switch name {
	case exi.W3C_EXI_FeatureBodyOnly:
		dec.exiBodyOnly = value
	case "debug":
		dec.debug = value
	default:
		return fmt.Errorf("struct decoder feature not supported: %s", name)
	}
	return nil
}

// RegisterType registers a concrete type for an interface field at the given path
// fieldPath should be in the format "FieldName" or "FieldName.SubFieldName" etc.
func (dec *StructDecoder) RegisterType(fieldPath string, concreteType reflect.Type) {
	dec.typeRegistry[fieldPath] = concreteType
}

// RegisterTypeFor is a convenience method to register a type using a sample instance
func (dec *StructDecoder) RegisterTypeFor(fieldPath string, sample any) {
	dec.typeRegistry[fieldPath] = reflect.TypeOf(sample)
}

// DecodeStruct decodes EXI data from source into the provided Go struct
func (dec *StructDecoder) DecodeStruct(source *bufio.Reader, target any) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer to struct")
	}

	targetElem := targetValue.Elem()
	if targetElem.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	var decoder exi.EXIBodyDecoder
	var err error
	if dec.exiBodyOnly {
		decoder, err = dec.exiStream.GetBodyOnlyDecoder(source)
		if err != nil {
			return err
		}
	} else {
		decoder, err = dec.exiStream.DecodeHeader(source)
		if err != nil {
			return err
		}
	}

	return dec.decodeEXIEvents(decoder, targetElem)
}

// Decode decodes EXI data from source using a resolver to construct the appropriate struct
// based on the root element name discovered during parsing
func (dec *StructDecoder) Decode(source *bufio.Reader, resolver StructResolver) (any, error) {
	var decoder exi.EXIBodyDecoder
	var err error
	if dec.exiBodyOnly {
		decoder, err = dec.exiStream.GetBodyOnlyDecoder(source)
		if err != nil {
			return nil, err
		}
	} else {
		decoder, err = dec.exiStream.DecodeHeader(source)
		if err != nil {
			return nil, err
		}
	}

	return dec.decodeEXIEventsWithResolver(decoder, resolver)
}
