package structs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-exi/exicore/exi"
)

// encodeStruct encodes a struct value as an XML element
func (enc *StructEncoder) encodeStruct(encoder exi.EXIBodyEncoder, structValue reflect.Value, elementName, ns string) error {
	if enc.debug {
		fmt.Printf("[DEBUG] Encoding struct element: %s (namespace: %s)\n", elementName, ns)
	}

	// Check if this is the root element (empty stack)
	isRootElement := enc.elementStack.isEmpty()

	// Start element with the resolved ns URI; the pfx is looked up for the
	// debug output only, and the element is started without a prefix
	namespaceURI := enc.resolveNamespace(ns)
	pfx := enc.getPrefixForNamespace(ns)

	if enc.debug {
		prefixStr := "nil"
		if pfx != nil {
			prefixStr = *pfx
		}
		fmt.Printf("[DEBUG] EncodeStartElement (struct): uri=%s, localName=%s, prefix=%s\n", namespaceURI, elementName, prefixStr)
	}

	pfx = nil
	if err := encoder.EncodeStartElement(namespaceURI, elementName, pfx); err != nil {
		return err
	}

	// Push to stack for context
	enc.elementStack.push(&encoderStackFrame{
		elementName: elementName,
		namespace:   ns,
	})

	// Clear attributes for this element
	enc.exiAttributes.Clear()

	// Add ns declarations to root element only if explicitly declared
	if isRootElement && len(enc.namespaceDecls) > 0 {
		enc.addNamespaceDeclarations()
	}

	// First pass: collect all attributes
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		fld := structType.Field(i)
		fval := structValue.Field(i)

		// Skip unexported fields
		if !fld.IsExported() {
			continue
		}

		xmlTag := fld.Tag.Get("xml")
		if xmlTag == "-" {
			continue // Skip fields marked with xml:"-"
		}

		fieldName, isAttribute, _, ns := enc.parseXMLTag(xmlTag, fld.Name)

		if isAttribute {
			// Handle as attribute - for attributes, we need to resolve ns to pfx
			var fullAttrName string
			if ns != "" {
				// Check if ns is a full URI that we need to resolve to a pfx
				if strings.Contains(ns, "://") || strings.HasPrefix(ns, "urn:") {
					// This is a full ns URI - find the corresponding pfx
					pfx := enc.findPrefixForNamespace(ns)
					if pfx != "" {
						fullAttrName = pfx + ":" + fieldName
					} else {
						// No pfx found, use just local name
						fullAttrName = fieldName
					}
				} else {
					// This is already a pfx, use it directly
					fullAttrName = ns + ":" + fieldName
				}
			} else {
				fullAttrName = fieldName
			}

			if err := enc.encodeAttribute(fullAttrName, ns, fval); err != nil {
				if enc.debug {
					fmt.Printf("[DEBUG] Failed to encode attribute %s: %v\n", fullAttrName, err)
				}
				// Continue with other fields even if one attribute fails
			}
		}
	}

	if enc.debug {
		fmt.Printf("[DEBUG] Attribute list: %+v\n", enc.exiAttributes)
	}

	// Encode all collected attributes BEFORE any content
	if err := encoder.EncodeAttributeList(enc.exiAttributes); err != nil {
		return err
	}

	// Second pass: encode character data fields AFTER attributes and BEFORE child elements
	for i := 0; i < structType.NumField(); i++ {
		fld := structType.Field(i)
		fval := structValue.Field(i)

		// Skip unexported fields
		if !fld.IsExported() {
			continue
		}

		xmlTag := fld.Tag.Get("xml")
		if xmlTag == "-" {
			continue // Skip fields marked with xml:"-"
		}

		_, _, isCharData, _ := enc.parseXMLTag(xmlTag, fld.Name)

		if isCharData {
			// Handle as character data
			if err := enc.encodeCharacterData(encoder, fval); err != nil {
				return err
			}
		}
	}

	// Third pass: encode all element children
	for i := 0; i < structType.NumField(); i++ {
		fld := structType.Field(i)
		fval := structValue.Field(i)

		// Skip unexported fields
		if !fld.IsExported() {
			continue
		}

		xmlTag := fld.Tag.Get("xml")
		if xmlTag == "-" {
			continue // Skip fields marked with xml:"-"
		}

		fieldName, isAttribute, isCharData, ns := enc.parseXMLTag(xmlTag, fld.Name)

		if !isAttribute && !isCharData {
			// Handle as element
			if err := enc.encodeField(encoder, fval, fieldName, ns); err != nil {
				return err
			}
		}
	}

	if enc.debug {
		fmt.Printf("[DEBUG] End element: %s\n", elementName)
	}

	if err := encoder.EncodeEndElement(); err != nil {
		return err
	}

	// Pop from stack
	enc.elementStack.pop()

	return nil
}

// encodeField encodes a struct field as an XML element
func (enc *StructEncoder) encodeField(encoder exi.EXIBodyEncoder, fval reflect.Value, fieldName, ns string) error {
	// Handle nil pointers
	if fval.Kind() == reflect.Ptr && fval.IsNil() {
		// Skip nil pointers (optional elements)
		return nil
	}

	// Dereference pointers
	if fval.Kind() == reflect.Ptr {
		fval = fval.Elem()
	}

	switch fval.Kind() {
	case reflect.Struct:
		return enc.encodeStruct(encoder, fval, fieldName, ns)

	case reflect.Slice:
		return enc.encodeSlice(encoder, fval, fieldName, ns)

	case reflect.Interface:
		// Handle interface types by encoding the concrete value
		if fval.IsNil() {
			return nil // Skip nil interfaces
		}
		// Get the concrete value and encode it
		concreteValue := fval.Elem()
		return enc.encodeField(encoder, concreteValue, fieldName, ns)

	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
		return enc.encodeSimpleField(encoder, fval, fieldName, ns)

	default:
		if enc.debug {
			fmt.Printf("[DEBUG] Skipping unsupported field type: %s\n", fval.Kind())
		}
		return nil
	}
}

// encodeSlice encodes a slice field
func (enc *StructEncoder) encodeSlice(encoder exi.EXIBodyEncoder, sliceValue reflect.Value, fieldName, ns string) error {
	if sliceValue.IsNil() {
		return nil // Skip nil slices
	}

	sliceType := sliceValue.Type()
	elemType := sliceType.Elem()

	// Handle different slice element types
	switch elemType.Kind() {
	case reflect.Struct:
		// Handle slices of structs - each element becomes a separate XML element
		for i := 0; i < sliceValue.Len(); i++ {
			item := sliceValue.Index(i)
			if err := enc.encodeField(encoder, item, fieldName, ns); err != nil {
				return err
			}
		}

	case reflect.Ptr:
		// Handle slices of pointers (usually to structs)
		for i := 0; i < sliceValue.Len(); i++ {
			item := sliceValue.Index(i)
			if err := enc.encodeField(encoder, item, fieldName, ns); err != nil {
				return err
			}
		}

	case reflect.Interface:
		// Handle slices of interfaces - each element becomes a separate XML element
		for i := 0; i < sliceValue.Len(); i++ {
			item := sliceValue.Index(i)
			if err := enc.encodeField(encoder, item, fieldName, ns); err != nil {
				return err
			}
		}

	case reflect.Uint8:
		// Handle []byte as character data
		if elemType == reflect.TypeOf(byte(0)) {
			bytes := sliceValue.Bytes()
			return enc.encodeSimpleValue(encoder, string(bytes), fieldName, ns)
		}
		fallthrough

	default:
		// For primitive types, encode as space-separated values in a single element
		// For complex types that can't be stringified, encode each as separate elements
		if enc.isSimpleSliceType(elemType) {
			// Handle simple slice types as space-separated values
			var parts []string
			for i := 0; i < sliceValue.Len(); i++ {
				item := sliceValue.Index(i)
				str, err := enc.valueToString(item)
				if err != nil {
					if enc.debug {
						fmt.Printf("[DEBUG] Failed to convert slice item to string, skipping: %v\n", err)
					}
					continue // Skip items that can't be converted to string
				}
				parts = append(parts, str)
			}
			if len(parts) > 0 {
				return enc.encodeSimpleValue(encoder, strings.Join(parts, " "), fieldName, ns)
			}
		} else {
			// For complex types, encode each item as a separate element
			for i := 0; i < sliceValue.Len(); i++ {
				item := sliceValue.Index(i)
				if err := enc.encodeField(encoder, item, fieldName, ns); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return nil
}

// encodeSimpleField encodes a simple field (string, number, bool) as an element with character data
func (enc *StructEncoder) encodeSimpleField(encoder exi.EXIBodyEncoder, fval reflect.Value, fieldName, ns string) error {
	str, err := enc.valueToString(fval)
	if err != nil {
		return err
	}

	return enc.encodeSimpleValue(encoder, str, fieldName, ns)
}

// encodeSimpleValue encodes a string value as an element with character data
func (enc *StructEncoder) encodeSimpleValue(encoder exi.EXIBodyEncoder, val, elementName, ns string) error {
	if enc.debug {
		fmt.Printf("[DEBUG] Encoding simple element: %s = %s (namespace: %s)\n", elementName, val, ns)
	}

	// Start element with the resolved ns URI; the pfx is looked up for the
	// debug output only, and the element is started without a prefix
	namespaceURI := enc.resolveNamespace(ns)
	pfx := enc.getPrefixForNamespace(ns)

	if enc.debug {
		prefixStr := "nil"
		if pfx != nil {
			prefixStr = *pfx
		}
		fmt.Printf("[DEBUG] EncodeStartElement (simple): uri=%s, localName=%s, prefix=%s\n", namespaceURI, elementName, prefixStr)
	}

	pfx = nil
	if err := encoder.EncodeStartElement(namespaceURI, elementName, pfx); err != nil {
		return err
	}

	// Encode empty attribute list BEFORE character data (simple elements have no attributes)
	enc.exiAttributes.Clear()
	if err := encoder.EncodeAttributeList(enc.exiAttributes); err != nil {
		return err
	}

	// Encode character data AFTER attributes
	if val != "" {
		if err := encoder.EncodeCharacters(exi.NewStringValueFromSlice([]rune(val))); err != nil {
			return err
		}
	}

	return encoder.EncodeEndElement()
}

// encodeAttribute adds an attribute to the current attribute list
func (enc *StructEncoder) encodeAttribute(attrName string, ns string, fval reflect.Value) error {
	// Handle nil pointers
	if fval.Kind() == reflect.Ptr && fval.IsNil() {
		return nil // Skip nil pointer attributes
	}

	// Dereference pointers
	if fval.Kind() == reflect.Ptr {
		fval = fval.Elem()
	}

	str, err := enc.valueToString(fval)
	if err != nil {
		return err
	}

	// Filter out xsi:type attributes with anyType values
	if enc.shouldSkipAttribute(attrName, str) {
		if enc.debug {
			fmt.Printf("[DEBUG] Skipping attribute: %s = %s\n", attrName, str)
		}
		return nil
	}

	if enc.debug {
		fmt.Printf("[DEBUG] Adding attribute: %s = %s\n", attrName, str)
	}

	// For attributes, use a simpler approach - don't auto-resolve namespaces
	// Only use namespace if explicitly specified in the attribute name
	if strings.Contains(attrName, ":") {
		// Attribute has explicit prefix, split it
		colonIndex := strings.Index(attrName, ":")
		prefix := attrName[:colonIndex]
		localName := attrName[colonIndex+1:]

		// Look up the namespace URI for this prefix
		var namespaceURI string
		if uri, exists := enc.namespaceDecls[prefix]; exists {
			namespaceURI = uri
		}

		if enc.debug {
			fmt.Printf("[DEBUG] Adding prefixed attribute: uri=%s, localName=%s, prefix=%s, value=%s\n",
				namespaceURI, localName, prefix, str)
		}

		var namespacePtr *string
		// if namespaceURI != "" {
		// 	namespacePtr = &namespaceURI
		// }
		namespacePtr = &ns
		prefixPtr := &prefix
		enc.exiAttributes.AddAttribute(namespacePtr, localName, prefixPtr, str)
	} else {
		// No prefix - the attribute takes ns from its tag (empty when the
		// tag names no namespace)
		if enc.debug {
			fmt.Printf("[DEBUG] Adding simple attribute: localName=%s, value=%s\n", attrName, str)
		}
		enc.exiAttributes.AddAttribute(&ns, attrName, nil, str)
	}

	return nil
}

// encodeCharacterData encodes a field as character data within the current element
func (enc *StructEncoder) encodeCharacterData(encoder exi.EXIBodyEncoder, fval reflect.Value) error {
	// Handle nil pointers
	if fval.Kind() == reflect.Ptr && fval.IsNil() {
		return nil // Skip nil pointer fields
	}

	// Dereference pointers
	if fval.Kind() == reflect.Ptr {
		fval = fval.Elem()
	}

	str, err := enc.valueToString(fval)
	if err != nil {
		return err
	}

	// Only encode if there's actual content
	if str != "" {
		if enc.debug {
			fmt.Printf("[DEBUG] Encoding character data: %s\n", str)
		}

		// Encode character data directly
		return encoder.EncodeCharacters(exi.NewStringValueFromSlice([]rune(str)))
	}

	return nil
}

// valueToString converts a reflect.Value to its string representation
func (enc *StructEncoder) valueToString(val reflect.Value) (string, error) {
	switch val.Kind() {
	case reflect.String:
		return val.String(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(val.Int(), 10), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(val.Uint(), 10), nil

	case reflect.Float32:
		return strconv.FormatFloat(val.Float(), 'f', -1, 32), nil

	case reflect.Float64:
		return strconv.FormatFloat(val.Float(), 'f', -1, 64), nil

	case reflect.Bool:
		return strconv.FormatBool(val.Bool()), nil

	case reflect.Interface:
		// Handle interface types by converting the concrete val
		if val.IsNil() {
			return "", nil
		}
		return enc.valueToString(val.Elem())

	case reflect.Slice:
		// Handle slice types
		if val.IsNil() {
			return "", nil
		}

		// Special handling for []byte - convert directly to string (common for base64 data)
		if val.Type().Elem().Kind() == reflect.Uint8 {
			bytes := val.Bytes()
			return string(bytes), nil
		}

		// For other slice types, convert elements to space-separated string
		var parts []string
		for i := 0; i < val.Len(); i++ {
			item := val.Index(i)
			str, err := enc.valueToString(item)
			if err != nil {
				// If we can't convert slice elements, return empty string
				return "", nil
			}
			parts = append(parts, str)
		}
		return strings.Join(parts, " "), nil

	case reflect.Array:
		// Handle array types similarly to slices

		// Special handling for byte arrays - convert directly to string
		if val.Type().Elem().Kind() == reflect.Uint8 {
			// Convert array to slice and then to string
			slice := val.Slice(0, val.Len())
			bytes := slice.Bytes()
			return string(bytes), nil
		}

		// For other array types, convert elements to space-separated string
		var parts []string
		for i := 0; i < val.Len(); i++ {
			item := val.Index(i)
			str, err := enc.valueToString(item)
			if err != nil {
				// If we can't convert array elements, return empty string
				return "", nil
			}
			parts = append(parts, str)
		}
		return strings.Join(parts, " "), nil

	default:
		return "", fmt.Errorf("unsupported value type for string conversion: %s", val.Kind())
	}
}

// parseXMLTag parses an XML struct tag and returns the field name, whether it's an attribute, whether it's chardata, and namespace
func (enc *StructEncoder) parseXMLTag(xmlTag, defaultName string) (string, bool, bool, string) {
	if xmlTag == "" {
		return defaultName, false, false, ""
	}

	// Split by comma to separate name from modifiers
	parts := strings.Split(xmlTag, ",")
	namepart := strings.TrimSpace(parts[0])

	// Check for attribute and chardata modifiers
	isAttribute := false
	isCharData := false
	for i := 1; i < len(parts); i++ {
		modifier := strings.TrimSpace(parts[i])
		if modifier == "attr" {
			isAttribute = true
		} else if modifier == "chardata" {
			isCharData = true
		}
	}

	// Handle ns in the name part
	var fieldName, ns string
	if namepart == "" {
		fieldName = defaultName
	} else {
		if isAttribute {
			// For attributes, check for space-separated format first (for full URIs)
			nameFields := strings.Fields(namepart)
			if len(nameFields) >= 2 {
				// Format: "namespace localname" - common for full URIs
				ns = strings.Join(nameFields[:len(nameFields)-1], " ")
				fieldName = nameFields[len(nameFields)-1]
			} else if colonIndex := strings.Index(namepart, ":"); colonIndex != -1 {
				// Check for simple pfx:localname format (but only if no spaces)
				ns = namepart[:colonIndex]
				fieldName = namepart[colonIndex+1:]
			} else {
				// Just local name - no ns for attribute
				fieldName = namepart
			}
		} else {
			// For elements, prefer space-separated format for ns URI
			nameFields := strings.Fields(namepart)
			if len(nameFields) >= 2 {
				// Format: "namespace localname"
				ns = strings.Join(nameFields[:len(nameFields)-1], " ")
				fieldName = nameFields[len(nameFields)-1]
			} else {
				// Check for pfx:localname format
				if colonIndex := strings.Index(namepart, ":"); colonIndex != -1 {
					ns = namepart[:colonIndex]
					fieldName = namepart[colonIndex+1:]
				} else {
					// Just local name
					fieldName = namepart
				}
			}
		}
	}

	return fieldName, isAttribute, isCharData, ns
}

// shouldSkipAttribute determines if an attribute should be skipped during encoding
func (enc *StructEncoder) shouldSkipAttribute(attrName, attrValue string) bool {
	// Skip xsi:type attributes with anyType values (if enabled)
	if enc.skipAnyType && strings.Contains(attrName, "type") {
		// Check for various forms of anyType
		if strings.Contains(attrValue, "anyType") ||
			strings.Contains(attrValue, ":anyType") ||
			attrValue == "anyType" {
			return true
		}
	}

	// Skip empty attribute values (optional)
	if strings.TrimSpace(attrValue) == "" {
		return true
	}

	return false
}

// resolveNamespace converts a namespace prefix to its full URI
func (enc *StructEncoder) resolveNamespace(ns string) string {
	if ns == "" {
		return "" // No ns
	}

	// Check if it's already a full URI (contains "://" or starts with "urn:")
	if strings.Contains(ns, "://") || strings.HasPrefix(ns, "urn:") {
		return ns // Already a full URI
	}

	// Look up prefix in registered namespaces
	if uri, exists := enc.namespaceDecls[ns]; exists {
		return uri
	}

	// If not found, treat as literal namespace URI
	return ns
}

// findPrefixForNamespace finds the prefix for a given namespace URI
func (enc *StructEncoder) findPrefixForNamespace(namespaceURI string) string {
	for pfx, uri := range enc.namespaceDecls {
		if uri == namespaceURI {
			return pfx
		}
	}
	return ""
}

// getPrefixForNamespace returns the prefix to use for a given namespace
func (enc *StructEncoder) getPrefixForNamespace(ns string) *string {
	if ns == "" {
		return nil // No pfx for default ns
	}

	// If it's already a URI, find the corresponding prefix
	if strings.Contains(ns, "://") || strings.HasPrefix(ns, "urn:") {
		for prefix, uri := range enc.namespaceDecls {
			if uri == ns && prefix != "" {
				return &prefix
			}
		}
		// No registered prefix found for this URI
		return nil
	}

	// If it's a pfx that exists in our declarations, return it
	if _, exists := enc.namespaceDecls[ns]; exists {
		if ns == "" {
			return nil // Empty pfx means default ns
		}
		prefixCopy := ns
		return &prefixCopy
	}

	// If ns looks like a pfx but not registered, still return it
	// This handles cases where struct tags use prefixes not explicitly declared
	if !strings.Contains(ns, ":") && len(ns) < 10 {
		prefixCopy := ns
		return &prefixCopy
	}

	return nil
}

// addNamespaceDeclarations adds registered namespace declarations as attributes
func (enc *StructEncoder) addNamespaceDeclarations() {
	for pfx, uri := range enc.namespaceDecls {
		var attrName string
		if pfx == "" {
			// Default namespace declaration
			attrName = "xmlns"
		} else {
			// Prefixed namespace declaration
			attrName = "xmlns:" + pfx
		}

		if enc.debug {
			fmt.Printf("[DEBUG] Adding namespace declaration: %s = %s\n", attrName, uri)
		}

		// Add namespace declaration as attribute
		enc.exiAttributes.AddAttribute(nil, attrName, nil, uri)
	}
}

// isSimpleSliceType determines if a slice element type can be converted to string
func (enc *StructEncoder) isSimpleSliceType(elemType reflect.Type) bool {
	switch elemType.Kind() {
	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
		return true
	default:
		return false
	}
}

// getStructElementName gets the element name for a struct type
func (enc *StructEncoder) getStructElementName(structType reflect.Type) string {
	// For now, just use the struct type name
	// In a more sophisticated implementation, you might look for xml tags on the struct itself
	return strings.ToLower(structType.Name())
}
