package structs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-exi/exicore/exi"
)

// findFieldWithName finds a struct field that matches the given element name and returns the field name
func (dec *StructDecoder) findFieldWithName(sval reflect.Value, elementName string) (reflect.Value, string, error) {
	if !sval.IsValid() || sval.Kind() != reflect.Struct {
		return reflect.Value{}, "", fmt.Errorf("not a valid struct")
	}

	structType := sval.Type()

	// Try exact match first
	for i := 0; i < structType.NumField(); i++ {
		fld := structType.Field(i)

		// Check XML tag first
		if xmlTag := fld.Tag.Get("xml"); xmlTag != "" {
			// Parse XML tag which may contain namespace URI and local name
			// Format: "namespace localname" or just "localname"
			tagParts := strings.Fields(xmlTag)
			var lname string

			if len(tagParts) >= 2 {
				// Has namespace: "http://someNamespace SomeValue"
				lname = tagParts[len(tagParts)-1] // Take the last part as local name
			} else if len(tagParts) == 1 {
				// No namespace, split on comma for attributes like "name,attr"
				lname = strings.Split(tagParts[0], ",")[0]
			}

			if lname == elementName {
				return sval.Field(i), fld.Name, nil
			}
		}

		// Check direct fld name match
		if fld.Name == elementName {
			return sval.Field(i), fld.Name, nil
		}

		// Check case-insensitive match
		if strings.EqualFold(fld.Name, elementName) {
			return sval.Field(i), fld.Name, nil
		}
	}

	return reflect.Value{}, "", fmt.Errorf("field not found for element: %s", elementName)
}

// findAttributeField finds a struct field that matches the given attribute name
func (dec *StructDecoder) findAttributeField(sval reflect.Value, attrName string) (reflect.Value, string, error) {
	if !sval.IsValid() || sval.Kind() != reflect.Struct {
		return reflect.Value{}, "", fmt.Errorf("not a valid struct")
	}

	structType := sval.Type()

	// Look for fields with attribute tags
	for i := 0; i < structType.NumField(); i++ {
		fld := structType.Field(i)

		// Check XML tag for attribute marker
		if xmlTag := fld.Tag.Get("xml"); xmlTag != "" {
			// Parse XML tag - attributes are marked with ",attr" suffix
			// Examples: "name,attr", "urn:namespace localname,attr"

			tagParts := strings.Split(xmlTag, ",")
			isAttribute := false

			// Check if this is marked as an attribute
			for _, part := range tagParts {
				if strings.TrimSpace(part) == "attr" {
					isAttribute = true
					break
				}
			}

			if isAttribute {
				// Extract the attribute name (everything before the first comma)
				attrTagName := strings.TrimSpace(tagParts[0])

				// Handle namespaced attributes like "urn:namespace localname"
				namespaceParts := strings.Fields(attrTagName)
				var lname string

				if len(namespaceParts) >= 2 {
					// Has namespace: take the last part as local name
					lname = namespaceParts[len(namespaceParts)-1]
				} else {
					// No namespace
					lname = attrTagName
				}

				if lname == attrName {
					return sval.Field(i), fld.Name, nil
				}
			}
		}

		// Also check direct fld name match for attributes (fallback)
		if fld.Name == attrName {
			return sval.Field(i), fld.Name, nil
		}

		// Check case-insensitive match for attributes (fallback)
		if strings.EqualFold(fld.Name, attrName) {
			return sval.Field(i), fld.Name, nil
		}
	}

	return reflect.Value{}, "", fmt.Errorf("attribute field not found for: %s", attrName)
}

// findCharDataField finds a struct field that is tagged with xml:",chardata"
func (dec *StructDecoder) findCharDataField(sval reflect.Value) (reflect.Value, string, error) {
	if !sval.IsValid() || sval.Kind() != reflect.Struct {
		return reflect.Value{}, "", fmt.Errorf("not a valid struct")
	}

	structType := sval.Type()

	// Look for fld with xml:",chardata" tag
	for i := 0; i < structType.NumField(); i++ {
		fld := structType.Field(i)

		// Check XML tag for chardata marker
		if xmlTag := fld.Tag.Get("xml"); xmlTag != "" {
			// Check for ",chardata" suffix or exact match ",chardata"
			if xmlTag == ",chardata" || strings.HasSuffix(xmlTag, ",chardata") {
				return sval.Field(i), fld.Name, nil
			}
		}
	}

	return reflect.Value{}, "", fmt.Errorf("chardata field not found")
}

// buildFieldPath constructs a dot-separated field path
func (dec *StructDecoder) buildFieldPath(parentPath, fieldName string) string {
	if parentPath == "" {
		return fieldName
	}
	return parentPath + "." + fieldName
}

// createInterfaceInstance creates a concrete instance for an interface field
func (dec *StructDecoder) createInterfaceInstance(interfaceField reflect.Value, fieldPath string) (reflect.Value, error) {
	// Look up the registered concrete type
	concreteType, exists := dec.typeRegistry[fieldPath]
	if !exists {
		return reflect.Value{}, fmt.Errorf("no concrete type registered for interface field at path: %s", fieldPath)
	}

	// Create new instance of the concrete type
	var inst reflect.Value
	if concreteType.Kind() == reflect.Ptr {
		inst = reflect.New(concreteType.Elem())
	} else {
		inst = reflect.New(concreteType)
	}

	// Set the interface field to point to the new instance
	if concreteType.Kind() == reflect.Ptr {
		interfaceField.Set(inst)
		return inst.Elem(), nil
	} else {
		interfaceField.Set(inst.Elem())
		return inst.Elem(), nil
	}
}

// createSliceItem creates a new item for a slice field
// Returns (workingValue, pointerValue, error) where:
// - workingValue is what we populate during parsing
// - pointerValue is what gets appended to the slice (for pointer types)
func (dec *StructDecoder) createSliceItem(sliceField reflect.Value, fieldPath string) (reflect.Value, reflect.Value, error) {
	sliceType := sliceField.Type()
	elemType := sliceType.Elem()

	if dec.debug {
		fmt.Printf("[DEBUG] Creating slice item of type %s for path %s\n", elemType, fieldPath)
	}

	// Handle different element types
	switch elemType.Kind() {
	case reflect.Struct:
		// Create new struct instance
		newItem := reflect.New(elemType).Elem()
		return newItem, newItem, nil

	case reflect.Ptr:
		if elemType.Elem().Kind() == reflect.Struct {
			// Create new pointer to struct
			newPtr := reflect.New(elemType.Elem())
			// Return the dereferenced struct for population, and the pointer for appending
			return newPtr.Elem(), newPtr, nil
		}
		// For other pointer types, create and return the pointer
		newItem := reflect.New(elemType.Elem())
		return newItem, newItem, nil

	case reflect.Slice:
		// Handle custom seq types
		// Create new seq instance
		newItem := reflect.New(elemType).Elem()
		return newItem, newItem, nil

	case reflect.Interface:
		// For interface slices, try to find a registered concrete type
		itemPath := fieldPath + "[]" // Special notation for seq items
		concreteType, exists := dec.typeRegistry[itemPath]
		if !exists {
			return reflect.Value{}, reflect.Value{}, fmt.Errorf("no concrete type registered for slice interface at path: %s", itemPath)
		}

		var inst reflect.Value
		if concreteType.Kind() == reflect.Ptr {
			inst = reflect.New(concreteType.Elem())
			return inst.Elem(), inst.Elem(), nil
		} else {
			inst = reflect.New(concreteType)
			return inst.Elem(), inst.Elem(), nil
		}

	default:
		// For primitive types, create zero value
		newItem := reflect.New(elemType).Elem()
		return newItem, newItem, nil
	}
}

// setFieldValue sets a field value from a string representation
func (dec *StructDecoder) setFieldValue(fld reflect.Value, raw string) error {
	if !fld.IsValid() || !fld.CanSet() {
		return nil
	}

	raw = strings.TrimSpace(raw)

	switch fld.Kind() {
	case reflect.String:
		fld.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		val, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse int: %v", err)
		}
		fld.SetInt(val)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return nil
		}
		val, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse uint: %v", err)
		}
		fld.SetUint(val)

	case reflect.Float32, reflect.Float64:
		if raw == "" {
			return nil
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("cannot parse float: %v", err)
		}
		fld.SetFloat(val)

	case reflect.Bool:
		if raw == "" {
			return nil
		}
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("cannot parse bool: %v", err)
		}
		fld.SetBool(val)

	case reflect.Ptr:
		// Handle pointer types by creating new instance
		if fld.IsNil() {
			fld.Set(reflect.New(fld.Type().Elem()))
		}
		// For pointer to struct with raw content, this might be invalid XML structure
		// but we'll handle it gracefully by setting the dereferenced value
		return dec.setFieldValue(fld.Elem(), raw)

	case reflect.Slice:
		return dec.setSliceValue(fld, raw)

	default:
		if dec.debug {
			fmt.Printf("[DEBUG] Unsupported field type for text content: %s\n", fld.Kind())
		}
		return nil
	}

	return nil
}

// setSliceValue sets a slice field value from a string representation
func (dec *StructDecoder) setSliceValue(fld reflect.Value, raw string) error {
	if !fld.IsValid() || !fld.CanSet() {
		return nil
	}

	raw = strings.TrimSpace(raw)
	sliceType := fld.Type()
	elemType := sliceType.Elem()

	// Handle []byte specifically for character data
	if elemType.Kind() == reflect.Uint8 {
		fld.Set(reflect.ValueOf([]byte(raw)))
		return nil
	}

	// Handle []rune for Unicode character data
	if elemType.Kind() == reflect.Int32 {
		fld.Set(reflect.ValueOf([]rune(raw)))
		return nil
	}

	// Handle slices of pointers to structs - this is unusual for raw content
	// but we'll handle it by creating a single element
	if elemType.Kind() == reflect.Ptr && elemType.Elem().Kind() == reflect.Struct {
		if raw == "" {
			fld.Set(reflect.MakeSlice(sliceType, 0, 0))
			return nil
		}

		// Create a single element slice with a new struct instance
		slice := reflect.MakeSlice(sliceType, 1, 1)
		newInstance := reflect.New(elemType.Elem())
		slice.Index(0).Set(newInstance)
		fld.Set(slice)
		return nil
	}

	// For other slice types, split text by whitespace and convert each element
	if raw == "" {
		fld.Set(reflect.MakeSlice(sliceType, 0, 0))
		return nil
	}

	parts := strings.Fields(raw)
	slice := reflect.MakeSlice(sliceType, len(parts), len(parts))

	for i, part := range parts {
		elem := slice.Index(i)
		if err := dec.setFieldValue(elem, part); err != nil {
			return fmt.Errorf("failed to set slice element %d: %v", i, err)
		}
	}

	fld.Set(slice)
	return nil
}

// extractTextValue extracts text from a Value interface
func (dec *StructDecoder) extractTextValue(val exi.Value) (string, error) {
	switch val.GetValueType() {
	case exi.ValueTypeBoolean, exi.ValueTypeString:
		return val.ToString()

	case exi.ValueTypeList:
		lv := val.(*exi.ListValue)
		if lv.GetNumberOfValues() == 0 {
			return "", nil
		}

		values := lv.ToValues()
		var parts []string

		for _, v := range values {
			raw, err := dec.extractTextValue(v)
			if err != nil {
				return "", err
			}
			parts = append(parts, raw)
		}

		return strings.Join(parts, " "), nil

	default:
		slen, err := val.GetCharactersLength()
		if err != nil {
			return "", err
		}

		buffer := make([]rune, slen)

		if err := val.FillCharactersBuffer(buffer, 0); err != nil {
			return "", err
		}

		return string(buffer[0:slen]), nil
	}
}