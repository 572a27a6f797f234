package exi

// CodingMode selects the body stream flavor: bit-packed, byte-aligned,
// or one of the two DEFLATE-chunked modes (pre-compression keeps the
// channel reordering without the actual compression step).
type CodingMode int

const (
	CodingModeBitPacked CodingMode = iota
	CodingModeBytePacked
	CodingModePreCompression
	CodingModeCompression
)

// SchemaIDResolver maps a header schemaId onto the grammars to decode
// the body with.
type SchemaIDResolver interface {
	ResolveSchemaID(schemaID string) (Grammars, error)
}

// SelfContainedHandler is notified for every element encoded as a
// self-contained fragment, e.g. to record its offset for random access.
type SelfContainedHandler interface {
	ScElement(uri, localName *string, channel EncoderChannel) error
}

// ErrorHandler receives recoverable conditions an encoder chooses to
// report rather than fail on.
type ErrorHandler interface {
	Warning(err error)
	Error(err error)
}

// EXIFactory collects every knob a coding session can be configured
// with and manufactures the coders bound to that configuration. One
// factory can mint any number of independent coders.
type EXIFactory interface {
	// SetFidelityOptions chooses which XML constructs survive coding
	// (comments, PIs, DTDs, prefixes, lexical values).
	SetFidelityOptions(opts *FidelityOptions)

	GetFidelityOptions() *FidelityOptions

	// SetEncodingOptions controls header emission (cookie, options
	// document, canonical form).
	SetEncodingOptions(opts *EncodingOptions)

	GetEncodingOptions() *EncodingOptions

	// SetDecodingOptions controls header handling on the decode side
	// (e.g. ignoring the announced schemaId).
	SetDecodingOptions(opts *DecodingOptions)

	GetDecodingOptions() *DecodingOptions

	SetSchemaIDResolver(resolver SchemaIDResolver)

	GetSchemaIDResolver() SchemaIDResolver

	// SetFragment switches between the document and the fragment
	// grammar as the outermost production.
	SetFragment(fragment bool)

	IsFragment() bool

	SetGrammars(grammars Grammars)

	// GetGrammars reports the grammar set in use; schema-less grammars
	// unless a schema was supplied.
	GetGrammars() Grammars

	SetCodingMode(mode CodingMode)

	// GetCodingMode reports the body stream flavor; bit-packed unless
	// reconfigured.
	GetCodingMode() CodingMode

	// SetBlockSize bounds how many values a compression block holds.
	// The spec default of 1,000,000 suits most inputs; shrink it to
	// process huge documents in constrained memory.
	SetBlockSize(size int)

	GetBlockSize() int

	// SetValueMaxLength caps the length of value strings admitted to
	// the string table; longer values are always coded as misses.
	// Negative means unbounded (the spec default).
	SetValueMaxLength(maxLength int)

	GetValueMaxLength() int

	// SetValuePartitionCapacity caps how many value strings the string
	// table holds at once. Negative means unbounded (the spec default).
	SetValuePartitionCapacity(capacity int)

	GetValuePartitionCapacity() int

	// SetDatatypeRepresentationMap installs pairs of (schema type,
	// representation type) overriding the built-in datatype coding for
	// those schema types.
	SetDatatypeRepresentationMap(dtpMapTypes *[]QName, dtrMapRepresentations *[]QName)

	// RegisterDatatypeRepresentationMapDatatype binds a user-defined
	// Datatype to a DTR map representation QName.
	RegisterDatatypeRepresentationMapDatatype(dtrMapRepresentation QName, datatype Datatype) Datatype

	GetDatatypeRepresentationMapTypes() *[]QName

	GetDatatypeRepresentationMapRepresentations() *[]QName

	// SetSelfContainedElements marks the elements to encode as
	// self-contained fragments. Self-contained elements require the
	// pre-compression coding mode and cannot be combined with strict mode.
	SetSelfContainedElements(elements []QName)

	SetSelfContainedElementsWithHandler(elements []QName, handler SelfContainedHandler)

	IsSelfContainedElement(element QName) bool

	GetSelfContainedHandler() SelfContainedHandler

	// SetLocalValuePartitions toggles the EXI profile parameter that
	// disables local value partitions (false drops them, true keeps the
	// EXI 1.0 behavior).
	SetLocalValuePartitions(lvp bool)

	IsLocalValuePartitions() bool

	// SetMaximumNumberOfBuiltInElementGrammars bounds how many evolving
	// built-in element grammars may be instantiated (EXI profile);
	// negative means unbounded.
	SetMaximumNumberOfBuiltInElementGrammars(num int)

	GetMaximumNumberOfBuiltInElementGrammars() int

	// SetMaximumNumberOfBuiltInProductions bounds how many productions
	// may be learned into built-in grammars (EXI profile); negative
	// means unbounded.
	SetMaximumNumberOfBuiltInProductions(num int)

	GetMaximumNumberOfBuiltInProductions() int

	// IsGrammarLearningDisabled reports whether either profile bound
	// above restricts grammar learning.
	IsGrammarLearningDisabled() bool

	// SetSharedStrings pre-populates the value partitions with strings
	// both sides agreed on out of band. Experimental.
	SetSharedStrings(sharedStrings []string)

	GetSharedStrings() *[]string

	// SetUsingNonEvolvingGrammars freezes all grammars: nothing is
	// learned under any circumstance. Experimental.
	SetUsingNonEvolvingGrammars(nonEvolving bool)

	IsUsingNonEvolvingGrammars() bool

	CreateEXIBodyEncoder() (EXIBodyEncoder, error)

	CreateEXIStreamEncoder() (EXIStreamEncoder, error)

	CreateEXIBodyDecoder() (EXIBodyDecoder, error)

	CreateEXIStreamDecoder() (EXIStreamDecoder, error)

	// CreateStringEncoder builds the string-table encoder matching the
	// configured value bounds.
	CreateStringEncoder() StringEncoder

	// CreateTypeEncoder builds the value codec matching the grammar
	// kind, DTR map, and lexical-value preservation.
	CreateTypeEncoder() (TypeEncoder, error)

	CreateStringDecoder() StringDecoder

	CreateTypeDecoder() (TypeDecoder, error)

	// Clone returns a shallow copy of this factory.
	Clone() EXIFactory

	// SetDiagnostics installs a sink that receives the error of a failed
	// configuration check when an encoder or decoder is created, with bit
	// position -1; errors raised while a stream is encoded or decoded are
	// not passed to it. A nil sink is normalized to a no-op.
	SetDiagnostics(d Diagnostics)

	// GetDiagnostics returns the currently installed Diagnostics sink.
	GetDiagnostics() Diagnostics
}
