package structs

import (
	"fmt"
	"reflect"

	"github.com/go-exi/exicore/exi"
)

// decodeEXIEventsWithResolver processes EXI events using a resolver to determine the root structure
func (dec *StructDecoder) decodeEXIEventsWithResolver(decoder exi.EXIBodyDecoder, resolver StructResolver) (any, error) {
	elementStack := newElementStack()
	var rootStruct any

	eventType, exists, err := decoder.Next()
	if err != nil {
		return nil, err
	}

	for exists {
		if dec.debug {
			fmt.Printf("[DEBUG] Processing event: %d\n", eventType)
		}

		switch eventType {
		case exi.EventTypeStartDocument:
			if err := decoder.DecodeStartDocument(); err != nil {
				return nil, err
			}

		case exi.EventTypeEndDocument:
			if err := decoder.DecodeEndDocument(); err != nil {
				return nil, err
			}

		case exi.EventTypeAttributeXsiNil:
			qcx, err := decoder.DecodeAttributeXsiNil()
			if err != nil {
				return nil, err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] XSI Nil attribute: %s\n", qcx.GetLocalName())
			}
			if err := dec.handleAttribute(elementStack, "nil", "true"); err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to handle xsi:nil: %v\n", err)
				}
			}

		case exi.EventTypeAttributeXsiType:
			qcx, err := decoder.DecodeAttributeXsiType()
			if err != nil {
				return nil, err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] XSI Type attribute: %s\n", qcx.GetLocalName())
			}
			if err := dec.handleAttribute(elementStack, "type", qcx.GetLocalName()); err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to handle xsi:type: %v\n", err)
				}
			}

		case exi.EventTypeStartElement,
			exi.EventTypeStartElementNS,
			exi.EventTypeStartElementGeneric,
			exi.EventTypeStartElementGenericUndeclared:

			qcx, err := decoder.DecodeStartElement()
			if err != nil {
				return nil, err
			}

			elementName := qcx.GetLocalName()
			if dec.debug {
				fmt.Printf("[DEBUG] Start element: %s\n", elementName)
			}

			// Handle start element - for root element, use resolver
			if elementStack.isEmpty() {
				// Root element - use resolver to create the appropriate struct
				target, err := resolver.ResolveStruct(elementName)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve struct for root element '%s': %w", elementName, err)
				}

				// Validate that resolver returned a pointer to struct
				targetValue := reflect.ValueOf(target)
				if targetValue.Kind() != reflect.Ptr {
					return nil, fmt.Errorf("resolver must return a pointer to struct, got %T", target)
				}

				targetElem := targetValue.Elem()
				if targetElem.Kind() != reflect.Struct {
					return nil, fmt.Errorf("resolver must return a pointer to struct, got pointer to %s", targetElem.Kind())
				}

				rootStruct = target
				if dec.debug {
					fmt.Printf("[DEBUG] Root element %s resolved to type: %s\n", elementName, targetElem.Type().Name())
				}

				// Push the root struct onto the stack
				elementStack.push(&stackFrame{
					value:       targetElem,
					elementName: elementName,
					fieldPath:   "",
				})
			} else {
				// Non-root element - use existing logic
				if err := dec.handleStartElement(elementStack, elementStack.peek().value, elementName); err != nil {
					return nil, err
				}
			}

		case exi.EventTypeEndElement, exi.EventTypeEndElementUndeclared:
			qcx, err := decoder.DecodeEndElement()
			if err != nil {
				return nil, err
			}

			elementName := qcx.GetLocalName()
			if dec.debug {
				fmt.Printf("[DEBUG] End element: %s\n", elementName)
			}

			if err := dec.handleEndElement(elementStack); err != nil {
				return nil, err
			}

		case exi.EventTypeCharacters, exi.EventTypeCharactersGeneric, exi.EventTypeCharactersGenericUndeclared:
			val, err := decoder.DecodeCharacters()
			if err != nil {
				return nil, err
			}

			text, err := dec.extractTextValue(val)
			if err != nil {
				return nil, err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] Characters: %s\n", text)
			}

			if err := dec.handleCharacters(elementStack, text); err != nil {
				return nil, err
			}

		case exi.EventTypeAttribute,
			exi.EventTypeAttributeNS,
			exi.EventTypeAttributeGeneric,
			exi.EventTypeAttributeGenericUndeclared,
			exi.EventTypeAttributeInvalidValue,
			exi.EventTypeAttributeAnyInvalidValue:

			qcx, err := decoder.DecodeAttribute()
			if err != nil {
				return nil, err
			}

			attrName := qcx.GetLocalName()
			attrVal := decoder.GetAttributeValue()

			text, err := dec.extractTextValue(attrVal)
			if err != nil {
				return nil, err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] Attribute: %s = %s\n", attrName, text)
			}

			if err := dec.handleAttribute(elementStack, attrName, text); err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to handle attribute %s: %v\n", attrName, err)
				}
			}

		default:
			if dec.debug {
				fmt.Printf("[DEBUG] Skipping event type: %d\n", eventType)
			}
		}

		eventType, exists, err = decoder.Next()
		if err != nil {
			return nil, err
		}
	}

	return rootStruct, nil
}

// decodeEXIEvents processes EXI events and populates the target struct
func (dec *StructDecoder) decodeEXIEvents(decoder exi.EXIBodyDecoder, target reflect.Value) error {
	elementStack := newElementStack()

	eventType, exists, err := decoder.Next()
	if err != nil {
		return err
	}

	for exists {
		if dec.debug {
			fmt.Printf("[DEBUG] Processing event: %d\n", eventType)
		}

		switch eventType {
		case exi.EventTypeStartDocument:
			if err := decoder.DecodeStartDocument(); err != nil {
				return err
			}

		case exi.EventTypeEndDocument:
			if err := decoder.DecodeEndDocument(); err != nil {
				return err
			}

		case exi.EventTypeAttributeXsiNil:
			qcx, err := decoder.DecodeAttributeXsiNil()
			if err != nil {
				return err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] XSI Nil attribute: %s\n", qcx.GetLocalName())
			}
			// Handle xsi:nil attribute - typically indicates the element should be nil
			if err := dec.handleAttribute(elementStack, "nil", "true"); err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to handle xsi:nil: %v\n", err)
				}
			}

		case exi.EventTypeAttributeXsiType:
			qcx, err := decoder.DecodeAttributeXsiType()
			if err != nil {
				return err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] XSI Type attribute: %s\n", qcx.GetLocalName())
			}
			// Handle xsi:type attribute - indicates the runtime type
			if err := dec.handleAttribute(elementStack, "type", qcx.GetLocalName()); err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to handle xsi:type: %v\n", err)
				}
			}

		case exi.EventTypeStartElement,
			exi.EventTypeStartElementNS,
			exi.EventTypeStartElementGeneric,
			exi.EventTypeStartElementGenericUndeclared:

			qcx, err := decoder.DecodeStartElement()
			if err != nil {
				return err
			}

			elementName := qcx.GetLocalName()
			if dec.debug {
				fmt.Printf("[DEBUG] Start element: %s\n", elementName)
			}

			// Handle start element
			if err := dec.handleStartElement(elementStack, target, elementName); err != nil {
				return err
			}

		case exi.EventTypeEndElement, exi.EventTypeEndElementUndeclared:
			qcx, err := decoder.DecodeEndElement()
			if err != nil {
				return err
			}

			elementName := qcx.GetLocalName()
			if dec.debug {
				fmt.Printf("[DEBUG] End element: %s\n", elementName)
			}

			// Handle end element
			if err := dec.handleEndElement(elementStack); err != nil {
				return err
			}

		case exi.EventTypeCharacters, exi.EventTypeCharactersGeneric, exi.EventTypeCharactersGenericUndeclared:
			val, err := decoder.DecodeCharacters()
			if err != nil {
				return err
			}

			text, err := dec.extractTextValue(val)
			if err != nil {
				return err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] Characters: %s\n", text)
			}

			// Set the text value in the current field
			if err := dec.handleCharacters(elementStack, text); err != nil {
				return err
			}

		case exi.EventTypeAttribute,
			exi.EventTypeAttributeNS,
			exi.EventTypeAttributeGeneric,
			exi.EventTypeAttributeGenericUndeclared,
			exi.EventTypeAttributeInvalidValue,
			exi.EventTypeAttributeAnyInvalidValue:

			qcx, err := decoder.DecodeAttribute()
			if err != nil {
				return err
			}

			attrName := qcx.GetLocalName()
			attrVal := decoder.GetAttributeValue()

			text, err := dec.extractTextValue(attrVal)
			if err != nil {
				return err
			}

			if dec.debug {
				fmt.Printf("[DEBUG] Attribute: %s = %s\n", attrName, text)
			}

			// Handle attribute mapping to struct fields
			if err := dec.handleAttribute(elementStack, attrName, text); err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to handle attribute %s: %v\n", attrName, err)
				}
				// Continue processing even if attribute handling fails
			}

		default:
			// Skip other event types for now
			if dec.debug {
				fmt.Printf("[DEBUG] Skipping event type: %d\n", eventType)
			}
		}

		eventType, exists, err = decoder.Next()
		if err != nil {
			return err
		}
	}

	return nil
}

// handleStartElement processes a start element event
func (dec *StructDecoder) handleStartElement(stack *elementStack, target reflect.Value, elementName string) error {
	if stack.isEmpty() {
		// Root element - the target itself, whatever the element's name
		targetType := target.Type()
		if dec.debug {
			fmt.Printf("[DEBUG] Root element %s, target type: %s\n", elementName, targetType.Name())
		}

		// For root element, just push the target onto the stack
		stack.push(&stackFrame{
			value:       target,
			elementName: elementName,
			fieldPath:   "",
		})
		return nil
	}

	// Get current context
	current := stack.peek()
	if current == nil {
		return fmt.Errorf("no current context on stack")
	}

	// Find field in current struct that matches element name
	field, fieldName, err := dec.findFieldWithName(current.value, elementName)
	if err != nil {
		if dec.debug {
			fmt.Printf("[DEBUG] Field not found for element %s: %v\n", elementName, err)
		}
		// Push nil to maintain stack balance
		stack.push(&stackFrame{
			value:       reflect.Value{},
			elementName: elementName,
			fieldPath:   dec.buildFieldPath(current.fieldPath, elementName),
			isSliceItem: false,
		})
		return nil
	}

	// Build the field path
	fieldPath := dec.buildFieldPath(current.fieldPath, fieldName)

	if dec.debug {
		fmt.Printf("[DEBUG] Found field for element %s, type: %s, path: %s\n", elementName, field.Type(), fieldPath)
	}

	// Handle slice types - but only for struct/interface/pointer slices
	// Simple slices ([]byte, []string, etc.) are handled by setFieldValue via character data
	if field.Kind() == reflect.Slice {
		elemType := field.Type().Elem()

		// Handle complex slice elements (structs, pointers to structs, interfaces)
		// Also handle custom types that are themselves slices
		// Simple built-in types like []byte, []string are handled via character data in setFieldValue
		if elemType.Kind() == reflect.Struct ||
			elemType.Kind() == reflect.Interface ||
			elemType.Kind() == reflect.Slice || // Custom types like CertificateType ([]byte)
			(elemType.Kind() == reflect.Ptr && elemType.Elem().Kind() == reflect.Struct) {

			// Create a new element for the slice
			workingValue, appendValue, err := dec.createSliceItem(field, fieldPath)
			if err != nil {
				if dec.debug {
					fmt.Printf("[DEBUG] Failed to create slice item for path %s: %v\n", fieldPath, err)
				}
				// Push nil to maintain stack balance
				stack.push(&stackFrame{
					value:       reflect.Value{},
					elementName: elementName,
					fieldPath:   fieldPath,
					isSliceItem: false,
				})
				return nil
			}

			// Push the slice item onto the stack
			if dec.debug {
				fmt.Printf("[DEBUG] Creating slice item for element %s, current slice length: %d\n",
					elementName, field.Len())
			}
			stack.push(&stackFrame{
				value:        workingValue,
				elementName:  elementName,
				fieldPath:    fieldPath,
				isSliceItem:  true,
				sliceField:   field,
				sliceItemPtr: appendValue,
			})
			return nil
		}
		// For simple slice types, fall through to normal field handling
		// They will be populated via character data
	}

	// Handle interface types
	if field.Kind() == reflect.Interface {
		field, err = dec.createInterfaceInstance(field, fieldPath)
		if err != nil {
			if dec.debug {
				fmt.Printf("[DEBUG] Failed to create interface instance for path %s: %v\n", fieldPath, err)
			}
			// Push nil to maintain stack balance
			stack.push(&stackFrame{
				value:       reflect.Value{},
				elementName: elementName,
				fieldPath:   fieldPath,
				isSliceItem: false,
			})
			return nil
		}
	}

	// Handle pointer to struct types (optional fields)
	if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
		// Create new instance if nil
		if field.IsNil() {
			newInstance := reflect.New(field.Type().Elem())
			field.Set(newInstance)
			if dec.debug {
				fmt.Printf("[DEBUG] Created new instance for pointer field %s\n", fieldName)
			}
		}
		// Dereference the pointer to work with the struct
		field = field.Elem()
	}

	// Push the field onto the stack
	stack.push(&stackFrame{
		value:       field,
		elementName: elementName,
		fieldPath:   fieldPath,
		isSliceItem: false,
	})

	return nil
}

// handleCharacters processes character data
func (dec *StructDecoder) handleCharacters(stack *elementStack, text string) error {
	current := stack.peek()
	if current == nil || !current.value.IsValid() {
		return nil // No current context or invalid field
	}

	// If current value is a struct, look for a field tagged with xml:",chardata"
	if current.value.Kind() == reflect.Struct {
		field, fieldName, err := dec.findCharDataField(current.value)
		if err != nil {
			if dec.debug {
				fmt.Printf("[DEBUG] No chardata field found in struct: %v\n", err)
			}
			// If no chardata field found, this might be a struct that doesn't accept character data
			return nil
		}

		if dec.debug {
			fmt.Printf("[DEBUG] Found chardata field %s for character data\n", fieldName)
		}

		// Set the character data on the specific field
		return dec.setFieldValue(field, text)
	}

	// For non-struct values, set the value directly
	return dec.setFieldValue(current.value, text)
}

// handleEndElement processes an end element event and handles slice item completion
func (dec *StructDecoder) handleEndElement(stack *elementStack) error {
	current := stack.pop()
	if current == nil {
		return nil
	}

	// If this was a slice item, append it to the slice
	if current.isSliceItem && current.sliceField.IsValid() {
		if dec.debug {
			fmt.Printf("[DEBUG] Completing slice item for element %s, slice length before: %d\n",
				current.elementName, current.sliceField.Len())
		}

		// Use the appropriate value to append (handles pointer vs value types)
		valueToAppend := current.sliceItemPtr
		if !valueToAppend.IsValid() {
			valueToAppend = current.value
		}

		// Append the completed item to the slice
		newSlice := reflect.Append(current.sliceField, valueToAppend)
		current.sliceField.Set(newSlice)

		if dec.debug {
			fmt.Printf("[DEBUG] Slice now has %d items\n", newSlice.Len())
		}
	}

	return nil
}

// handleAttribute processes an attribute and maps it to a struct field
func (dec *StructDecoder) handleAttribute(stack *elementStack, attrName, attrValue string) error {
	current := stack.peek()
	if current == nil || !current.value.IsValid() {
		return nil // No current context or invalid field
	}

	// Only handle attributes for struct types
	if current.value.Kind() != reflect.Struct {
		return nil
	}

	// Find field that matches this attribute
	field, fieldName, err := dec.findAttributeField(current.value, attrName)
	if err != nil {
		// Attribute field not found - this is not an error, just skip
		return nil
	}

	if dec.debug {
		fmt.Printf("[DEBUG] Found attribute field %s for attribute %s\n", fieldName, attrName)
	}

	// Set the attribute value
	return dec.setFieldValue(field, attrValue)
}
