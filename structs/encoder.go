package structs

import (
	"bufio"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-exi/exicore/exi"
)

// StructEncoder encodes Go structures directly into EXI data using reflection
type StructEncoder struct {
	noOptionsFactory exi.EXIFactory
	exiStream        exi.EXIStreamEncoder
	exiBodyOnly      bool
	debug            bool
	exiAttributes    exi.AttributeList
	elementStack     *encoderElementStack
	namespaceDecls   map[string]string // Maps prefix to namespace URI
	skipAnyType      bool              // Whether to skip xsi:type="anyType" attributes
}

// NewStructEncoder creates a new struct encoder
func NewStructEncoder(noOptionsFactory exi.EXIFactory) (*StructEncoder, error) {
	exiStream, err := noOptionsFactory.CreateEXIStreamEncoder()
	if err != nil {
		return nil, err
	}

	return &StructEncoder{
		noOptionsFactory: noOptionsFactory,
		exiStream:        exiStream,
		exiBodyOnly:      false,
		debug:            false,
		exiAttributes:    exi.NewAttributeListImpl(noOptionsFactory),
		elementStack:     newEncoderElementStack(),
		namespaceDecls:   make(map[string]string),
		skipAnyType:      true, // Default to skipping anyType attributes
	}, nil
}

// SetFeature sets encoder features like body-only mode
func (enc *StructEncoder) SetFeature(name string, value bool) error {
	switch name {
	case exi.W3C_EXI_FeatureBodyOnly:
		enc.exiBodyOnly = value
	case "debug":
		enc.debug = value
	case "skipAnyType":
		enc.skipAnyType = value
	default:
		return fmt.Errorf("struct encoder feature not supported: %s", name)
	}
	return nil
}

// DeclareNamespace registers a namespace declaration that will be added to the root element
func (enc *StructEncoder) DeclareNamespace(prefix, uri string) {
	enc.namespaceDecls[prefix] = uri
}

// DeclareDefaultNamespace registers the default namespace (empty prefix)
func (enc *StructEncoder) DeclareDefaultNamespace(uri string) {
	enc.namespaceDecls[""] = uri
}

// ClearNamespaces clears all registered namespace declarations
func (enc *StructEncoder) ClearNamespaces() {
	enc.namespaceDecls = make(map[string]string)
}

// AutoDeclareNamespace automatically declares a namespace if not already declared
func (enc *StructEncoder) AutoDeclareNamespace(prefix, uri string) {
	if _, exists := enc.namespaceDecls[prefix]; !exists {
		enc.namespaceDecls[prefix] = uri
		if enc.debug {
			fmt.Printf("[DEBUG] Auto-declared namespace: %s -> %s\n", prefix, uri)
		}
	}
}

// parseAttributeNamespace extracts namespace/prefix and local name from an attribute name
func (enc *StructEncoder) parseAttributeNamespace(attrName string) (namespace, lname string) {
	// Handle prefixed attribute names like "ns1:attr" or "xml:lang"
	if colonIndex := strings.Index(attrName, ":"); colonIndex != -1 {
		namespace = attrName[:colonIndex]
		lname = attrName[colonIndex+1:]
		return namespace, lname
	}

	// No prefix - attribute is in no namespace (or default namespace for elements)
	return "", attrName
}

// EncodeStruct encodes a Go struct into EXI data and writes it to the provided writer
func (enc *StructEncoder) EncodeStruct(writer *bufio.Writer, source any, rootElementName string, ns string) error {
	sourceValue := reflect.ValueOf(source)

	// Handle pointer to struct
	if sourceValue.Kind() == reflect.Ptr {
		if sourceValue.IsNil() {
			return fmt.Errorf("source cannot be nil")
		}
		sourceValue = sourceValue.Elem()
	}

	if sourceValue.Kind() != reflect.Struct {
		return fmt.Errorf("source must be a struct or pointer to struct")
	}

	// Initialize the EXI encoder
	var encoder exi.EXIBodyEncoder
	var err error
	if enc.exiBodyOnly {
		// For body-only mode, we'd need to get body-only encoder
		// This would require additional factory methods
		return fmt.Errorf("body-only encoding not yet implemented")
	} else {
		encoder, err = enc.exiStream.EncodeHeader(*writer)
		if err != nil {
			return err
		}
	}

	if err := encoder.EncodeStartDocument(); err != nil {
		return err
	}

	// Encode the struct as the root element
	//rootElementName := e.getStructElementName(sourceValue.Type())
	if err := enc.encodeStruct(encoder, sourceValue, rootElementName, ns); err != nil {
		return err
	}

	// End document and flush
	if err := encoder.EncodeEndDocument(); err != nil {
		return err
	}

	return encoder.Flush()
}
