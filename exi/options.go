package exi

import (
	"fmt"
	"maps"
)

// Keys recognized by EncodingOptions.
const (
	// OptionIncludeCookie prepends the "$EXI" cookie to the header.
	OptionIncludeCookie = "INCLUDE_COOKIE"

	// OptionIncludeOptions embeds the options document in the header
	// (in Canonical EXI terms: omitOptionsDocument=false).
	OptionIncludeOptions = "INCLUDE_OPTIONS"

	// OptionIncludeSchemaID writes schemaId inside the options document.
	OptionIncludeSchemaID = "INCLUDE_SCHEMA_ID"

	// OptionRetainEntityReference keeps entity references as ER events
	// instead of resolving them.
	OptionRetainEntityReference = "KEEP_ENTITY_REFERENCES_UNRESOLVED"

	// OptionIncludeXsiSchemaLocation keeps xsi:schemaLocation and
	// xsi:noNamespaceSchemaLocation attributes.
	OptionIncludeXsiSchemaLocation = "INCLUDE_XSI_SCHEMALOCATION"

	// OptionIncludeInsignificanXsiNil keeps xsi:nil="false" and other
	// insignificant nil attributes.
	OptionIncludeInsignificanXsiNil = "INCLUDE_INSIGNIFICANT_XSI_NIL"

	// OptionIncludeProfileValues advertises the EXI profile parameters
	// through an exi:p element.
	OptionIncludeProfileValues = "INCLUDE_PROFILE_VALUES"

	// OptionUtcTime normalizes date-time values to UTC before coding.
	OptionUtcTime = "UTC_TIME"

	// OptionCanonicalExi applies the Canonical EXI rules
	// (http://www.w3.org/TR/exi-c14n).
	OptionCanonicalExi = "http://www.w3.org/TR/exi-c14n"

	// OptionDeflateCompressionValue overrides the deflate compression
	// level used in compression mode.
	OptionDeflateCompressionValue = "DEFLATE_COMPRESSION_VALUE"
)

// EncodingOptions holds the header-emission knobs of one encoder.
type EncodingOptions struct {
	options map[string]any
}

func NewEncodingOptions() *EncodingOptions {
	return &EncodingOptions{
		options: map[string]any{},
	}
}

func (o *EncodingOptions) SetOption(name string) error {
	return o.SetOptionKeyValue(name, nil)
}

func (o *EncodingOptions) SetOptionKeyValue(name string, val any) error {
	switch name {
	case OptionIncludeCookie, OptionIncludeSchemaID, OptionRetainEntityReference,
		OptionIncludeXsiSchemaLocation, OptionIncludeInsignificanXsiNil,
		OptionIncludeProfileValues, OptionUtcTime:
		o.options[name] = nil
	case OptionCanonicalExi:
		o.options[name] = nil
		// by default the Canonical EXI Option "omitOptionsDocument" is
		// false
		// --> include options
		o.options[OptionIncludeOptions] = nil
	case OptionDeflateCompressionValue:
		if val != nil {
			_, ok := val.(int)
			if ok {
				o.options[name] = val
				break
			}
		}

		return NewError(ErrInvalidConfig, fmt.Sprintf("EncodingOption '%s' requires value of type int", name))
	default:
		return NewError(ErrInvalidConfig, fmt.Sprintf("EncodingOption '%s' is unknown", name))
	}

	return nil
}

func (o *EncodingOptions) UnsetOption(name string) bool {
	_, exists := o.options[name]
	delete(o.options, name)
	return exists
}

func (o *EncodingOptions) IsOptionEnabled(name string) bool {
	_, exists := o.options[name]
	return exists
}

func (o *EncodingOptions) GetOptionValue(name string) any {
	return o.options[name]
}

func (o *EncodingOptions) Equals(other *EncodingOptions) bool {
	if other == nil {
		return false
	}

	return maps.Equal(o.options, other.options)
}

const (
	// OptionIgnoreSchemaID drops the schemaId announced in the header.
	OptionIgnoreSchemaID = "IGNORE_SCHEMA_ID"

	// OptionPushbackBufferSize is the pushback window for reading
	// several EXI streams out of one file.
	OptionPushbackBufferSize int = 512
)

// DecodingOptions holds the header-handling knobs of one decoder.
type DecodingOptions struct {
	options map[string]any
}

func NewDecodingOptions() *DecodingOptions {
	return &DecodingOptions{
		options: map[string]any{},
	}
}

func (o *DecodingOptions) SetOption(name string) error {
	return o.SetOptionKeyValue(name, nil)
}

func (o *DecodingOptions) SetOptionKeyValue(name string, val any) error {
	switch name {
	case OptionIgnoreSchemaID:
		o.options[name] = nil
	default:
		return NewError(ErrInvalidConfig, fmt.Sprintf("DecodingOption '%s' is unknown", name))
	}

	return nil
}

func (o *DecodingOptions) UnsetOption(name string) bool {
	_, exists := o.options[name]
	delete(o.options, name)
	return exists
}

func (o *DecodingOptions) IsOptionEnabled(name string) bool {
	_, exists := o.options[name]
	return exists
}

func (o *DecodingOptions) GetOptionValue(name string) any {
	return o.options[name]
}

func (o *DecodingOptions) Equals(other *DecodingOptions) bool {
	if other == nil {
		return false
	}

	return maps.Equal(o.options, other.options)
}
