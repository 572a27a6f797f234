package exi

// DefaultErrorHandler swallows warnings and errors; hosts install a
// real handler through SetErrorHandler when they care.
type DefaultErrorHandler struct {
	ErrorHandler
}

func NewDefaultErrorHandler() *DefaultErrorHandler {
	return &DefaultErrorHandler{}
}

func (eh *DefaultErrorHandler) Warning(err error) {}

func (eh *DefaultErrorHandler) Error(err error) {}

// DefaultEXIFactory is the standard EXIFactory implementation: a plain
// bag of options plus the constructors assembling coders from them.
type DefaultEXIFactory struct {
	EXIFactory
	grammars                              Grammars
	isFragment                            bool
	codingMode                            CodingMode
	fidelityOptions                       *FidelityOptions
	encodingOptions                       *EncodingOptions
	decodingOptions                       *DecodingOptions
	schemaIDResolver                      SchemaIDResolver
	dtrMapTypes                           *[]QName
	dtrMapRepresentations                 *[]QName
	dtrMapRepresentationsDatatype         map[QName]Datatype
	scElements                            []QName
	scHandler                             SelfContainedHandler
	blockSize                             int
	valueMaxLength                        int
	valuePartitionCapacity                int
	localValuePartitions                  bool
	maximumNumberOfBuiltInElementGrammars int
	maximumNumberOfBuiltInProductions     int
	grammarLearningDisabled               bool
	sharedStrings                         []string
	isUsingNonEvolvingGrammrs             bool
	qnameSort                             func(q1, q2 QName) int
	diagnostics                           Diagnostics
}

func NewDefaultEXIFactory() *DefaultEXIFactory {
	return &DefaultEXIFactory{
		grammars:                              NewSchemaLessGrammars(),
		codingMode:                            CodingModeBitPacked,
		fidelityOptions:                       NewDefaultFidelityOptions(),
		encodingOptions:                       NewEncodingOptions(),
		decodingOptions:                       NewDecodingOptions(),
		scElements:                            []QName{},
		blockSize:                             DefaultBlockSize,
		valueMaxLength:                        DefaultValueMaxLength,
		valuePartitionCapacity:                DefaultValuePartitionCapacity,
		localValuePartitions:                  true,
		maximumNumberOfBuiltInElementGrammars: -1,
		maximumNumberOfBuiltInProductions:     -1,
		sharedStrings:                         []string{},
		qnameSort:                             QNameCompareFunc,
		diagnostics:                           NopDiagnostics{},
	}
}

// SetDiagnostics installs a sink that observes the configuration-check
// errors this factory returns when creating an encoder or decoder, with
// bit position -1. Errors from encoding or decoding a stream do not reach
// it. A nil sink is normalized to NopDiagnostics.
func (df *DefaultEXIFactory) SetDiagnostics(d Diagnostics) {
	if d == nil {
		d = NopDiagnostics{}
	}
	df.diagnostics = d
}

func (df *DefaultEXIFactory) GetDiagnostics() Diagnostics {
	return df.diagnostics
}

func (df *DefaultEXIFactory) observe(bitPos int64, err error) {
	ee, ok := err.(*Error)
	if !ok || df.diagnostics == nil {
		return
	}
	df.diagnostics.Observe(bitPos, ee)
}

func (df *DefaultEXIFactory) SetFidelityOptions(opts *FidelityOptions) {
	df.fidelityOptions = opts
}

func (df *DefaultEXIFactory) GetFidelityOptions() *FidelityOptions {
	return df.fidelityOptions
}

func (df *DefaultEXIFactory) SetEncodingOptions(opts *EncodingOptions) {
	df.encodingOptions = opts
}

func (df *DefaultEXIFactory) GetEncodingOptions() *EncodingOptions {
	return df.encodingOptions
}

func (df *DefaultEXIFactory) SetDecodingOptions(opts *DecodingOptions) {
	df.decodingOptions = opts
}

func (df *DefaultEXIFactory) GetDecodingOptions() *DecodingOptions {
	return df.decodingOptions
}

func (df *DefaultEXIFactory) SetSchemaIDResolver(resolver SchemaIDResolver) {
	df.schemaIDResolver = resolver
}

func (df *DefaultEXIFactory) GetSchemaIDResolver() SchemaIDResolver {
	return df.schemaIDResolver
}

func (df *DefaultEXIFactory) SetFragment(fragment bool) {
	df.isFragment = fragment
}

func (df *DefaultEXIFactory) IsFragment() bool {
	return df.isFragment
}

func (df *DefaultEXIFactory) SetGrammars(grammars Grammars) {
	if grammars == nil {
		panic("nil grammars")
	}
	df.grammars = grammars
}

func (df *DefaultEXIFactory) GetGrammars() Grammars {
	return df.grammars
}

func (df *DefaultEXIFactory) SetCodingMode(mode CodingMode) {
	df.codingMode = mode
}

func (df *DefaultEXIFactory) GetCodingMode() CodingMode {
	return df.codingMode
}

func (df *DefaultEXIFactory) SetBlockSize(size int) {
	if size < 0 {
		panic("negative block size")
	}
	df.blockSize = size
}

func (df *DefaultEXIFactory) GetBlockSize() int {
	return df.blockSize
}

func (df *DefaultEXIFactory) SetValueMaxLength(maxLength int) {
	df.valueMaxLength = maxLength
}

func (df *DefaultEXIFactory) GetValueMaxLength() int {
	return df.valueMaxLength
}

func (df *DefaultEXIFactory) SetValuePartitionCapacity(capacity int) {
	df.valuePartitionCapacity = capacity
}

func (df *DefaultEXIFactory) GetValuePartitionCapacity() int {
	return df.valuePartitionCapacity
}

func (df *DefaultEXIFactory) SetDatatypeRepresentationMap(dtpMapTypes *[]QName, dtrMapRepresentations *[]QName) {
	if dtpMapTypes == nil || dtrMapRepresentations == nil || len(*dtpMapTypes) != len(*dtrMapRepresentations) || len(*dtpMapTypes) == 0 {
		// un-set dtrMap
		df.dtrMapTypes = nil
		df.dtrMapRepresentations = nil
	} else {
		df.dtrMapTypes = dtpMapTypes
		df.dtrMapRepresentations = dtrMapRepresentations
	}
}

func (df *DefaultEXIFactory) RegisterDatatypeRepresentationMapDatatype(dtrMapRepresentation QName, dt Datatype) Datatype {
	if df.dtrMapRepresentationsDatatype == nil {
		df.dtrMapRepresentationsDatatype = map[QName]Datatype{}
	}
	prev := df.dtrMapRepresentationsDatatype[dtrMapRepresentation]
	df.dtrMapRepresentationsDatatype[dtrMapRepresentation] = dt
	return prev
}

func (df *DefaultEXIFactory) GetDatatypeRepresentationMapTypes() *[]QName {
	return df.dtrMapTypes
}

func (df *DefaultEXIFactory) GetDatatypeRepresentationMapRepresentations() *[]QName {
	return df.dtrMapRepresentations
}

func (df *DefaultEXIFactory) SetSelfContainedElements(elements []QName) {
	df.SetSelfContainedElementsWithHandler(elements, nil)
}

func (df *DefaultEXIFactory) SetSelfContainedElementsWithHandler(elements []QName, handler SelfContainedHandler) {
	df.scElements = elements
	df.scHandler = handler
}

func (df *DefaultEXIFactory) IsSelfContainedElement(element QName) bool {
	for _, e := range df.scElements {
		if e == element {
			return true
		}
	}

	return false
}

func (df *DefaultEXIFactory) GetSelfContainedHandler() SelfContainedHandler {
	return df.scHandler
}

func (df *DefaultEXIFactory) SetLocalValuePartitions(lvp bool) {
	df.localValuePartitions = lvp
}

func (df *DefaultEXIFactory) IsLocalValuePartitions() bool {
	return df.localValuePartitions
}

func (df *DefaultEXIFactory) SetMaximumNumberOfBuiltInElementGrammars(num int) {
	if num >= 0 {
		df.maximumNumberOfBuiltInElementGrammars = num
	} else {
		df.maximumNumberOfBuiltInElementGrammars = -1
	}
}

func (df *DefaultEXIFactory) GetMaximumNumberOfBuiltInElementGrammars() int {
	return df.maximumNumberOfBuiltInElementGrammars
}

func (df *DefaultEXIFactory) SetMaximumNumberOfBuiltInProductions(num int) {
	if num >= 0 {
		df.maximumNumberOfBuiltInProductions = num
	} else {
		df.maximumNumberOfBuiltInProductions = -1
	}
}

func (df *DefaultEXIFactory) GetMaximumNumberOfBuiltInProductions() int {
	return df.maximumNumberOfBuiltInProductions
}

func (df *DefaultEXIFactory) IsGrammarLearningDisabled() bool {
	return df.grammarLearningDisabled || df.maximumNumberOfBuiltInElementGrammars >= 0 || df.maximumNumberOfBuiltInProductions >= 0
}

func (df *DefaultEXIFactory) SetSharedStrings(sharedStrings []string) {
	df.sharedStrings = sharedStrings
}

func (df *DefaultEXIFactory) GetSharedStrings() *[]string {
	return &df.sharedStrings
}

func (df *DefaultEXIFactory) SetUsingNonEvolvingGrammars(nonEvolving bool) {
	df.isUsingNonEvolvingGrammrs = nonEvolving
}

func (df *DefaultEXIFactory) IsUsingNonEvolvingGrammars() bool {
	return df.isUsingNonEvolvingGrammrs
}

// doSanityCheck enforces the header-invariant table (spec §4.4): an
// EXIFactory configuration that violates one of these can never be
// exercised by the codec driver, so it is rejected before any
// encoder/decoder is constructed.
func (df *DefaultEXIFactory) doSanityCheck() error {
	if df.fidelityOptions.IsFidelityEnabled(FeatureSC) && df.codingMode != CodingModePreCompression {
		return NewError(ErrMismatch, "selfContained elements require pre-compression alignment")
	}

	if df.fidelityOptions.IsStrict() && df.fidelityOptions.IsFidelityEnabled(FeatureSC) {
		return NewError(ErrHeaderStrict, "strict mode cannot be combined with selfContained elements")
	}

	if df.dtrMapTypes != nil && len(*df.dtrMapTypes) > 0 && df.grammars.IsSchemaInformed() && !df.fidelityOptions.IsFidelityEnabled(FeatureLexicalValue) {
		return NewError(ErrMismatch, "datatypeRepresentationMap with a schema-informed grammar requires lexical value preservation")
	}

	if !df.grammars.IsSchemaInformed() {
		df.maximumNumberOfBuiltInElementGrammars = -1
		df.maximumNumberOfBuiltInProductions = -1
		df.grammarLearningDisabled = false
	}

	if df.GetEncodingOptions().IsOptionEnabled(OptionCanonicalExi) {
		if err := df.updateFactoryAccordingCanonicalEXI(); err != nil {
			return err
		}
	}

	return nil
}

func (df *DefaultEXIFactory) CreateEXIBodyEncoder() (EXIBodyEncoder, error) {
	if err := df.doSanityCheck(); err != nil {
		df.observe(-1, err)
		return nil, err
	}

	if df.fidelityOptions.IsFidelityEnabled(FeatureSC) {
		return newInOrderEncoderSC(df)
	}
	return newInOrderEncoder(df)
}

func (df *DefaultEXIFactory) CreateEXIStreamEncoder() (EXIStreamEncoder, error) {
	if err := df.doSanityCheck(); err != nil {
		df.observe(-1, err)
		return nil, err
	}

	return newStreamEncoder(df)
}

func (df *DefaultEXIFactory) updateFactoryAccordingCanonicalEXI() error {
	// update canonical options according to canonical EXI rules

	// * A Canonical EXI Header MUST NOT begin with the optional EXI Cookie
	df.GetEncodingOptions().UnsetOption(OptionIncludeCookie)
	// * When the alignment option compression is set, pre-compress MUST be
	// used instead of compression.
	if df.GetCodingMode() == CodingModeCompression || df.GetCodingMode() == CodingModePreCompression {
		df.SetCodingMode(CodingModePreCompression)
	}
	// * datatypeRepresentationMap: the tuples are to be sorted
	// lexicographically according to the schema datatype first by {name}
	// then by {namespace}
	if df.dtrMapTypes != nil && len(*df.dtrMapTypes) > 0 {
		df.bubbleSort(df.dtrMapTypes, df.dtrMapRepresentations)
	}

	return nil
}

func (df *DefaultEXIFactory) bubbleSort(dtrMapTypes, dtrMapRepresentations *[]QName) {
	swapped := true
	j := 0
	var tmpType QName
	var tmpRep QName

	for swapped {
		swapped = false
		j++

		for i := 0; i < len(*dtrMapTypes)-j; i++ {
			if df.qnameSort((*dtrMapTypes)[i], (*dtrMapTypes)[i+1]) > 0 {
				tmpType = (*dtrMapTypes)[i]
				(*dtrMapTypes)[i] = (*dtrMapTypes)[i+1]
				(*dtrMapTypes)[i+1] = tmpType
				tmpRep = (*dtrMapRepresentations)[i]
				(*dtrMapRepresentations)[i] = (*dtrMapRepresentations)[i+1]
				(*dtrMapRepresentations)[i+1] = tmpRep
				swapped = true
			}
		}
	}
}

func (df *DefaultEXIFactory) CreateEXIBodyDecoder() (EXIBodyDecoder, error) {
	if err := df.doSanityCheck(); err != nil {
		df.observe(-1, err)
		return nil, err
	}

	if df.fidelityOptions.IsFidelityEnabled(FeatureSC) {
		return newInOrderDecoderSC(df)
	}
	return newInOrderDecoder(df)
}

func (df *DefaultEXIFactory) CreateEXIStreamDecoder() (EXIStreamDecoder, error) {
	if err := df.doSanityCheck(); err != nil {
		df.observe(-1, err)
		return nil, err
	}

	return newStreamDecoder(df)
}

func (df *DefaultEXIFactory) CreateStringEncoder() StringEncoder {
	var encoder StringEncoder
	if df.GetValueMaxLength() != DefaultValueMaxLength || df.GetValuePartitionCapacity() != DefaultValuePartitionCapacity {
		encoder = NewBoundedStringEncoderImpl(df.IsLocalValuePartitions(), df.GetValueMaxLength(), df.GetValuePartitionCapacity())
	} else {
		encoder = NewStringEncoderImpl(df.IsLocalValuePartitions())
	}

	return encoder
}

func (df *DefaultEXIFactory) isSchemaInformed() bool {
	return df.grammars.IsSchemaInformed()
}

func (df *DefaultEXIFactory) checkDtrMap() error {
	if df.dtrMapTypes == nil {
		df.dtrMapRepresentations = nil
	} else {
		if df.dtrMapRepresentations == nil || len(*df.dtrMapTypes) != len(*df.dtrMapRepresentations) {
			return NewError(ErrInvalidConfig, "number of arguments for DTR map must match")
		}
	}
	return nil
}

func (df *DefaultEXIFactory) CreateTypeEncoder() (TypeEncoder, error) {
	if df.isSchemaInformed() {
		if err := df.checkDtrMap(); err != nil {
			return nil, err
		}

		if df.fidelityOptions.IsFidelityEnabled(FeatureLexicalValue) {
			return newLexicalValueEncoder(df.dtrMapTypes, df.dtrMapRepresentations, &df.dtrMapRepresentationsDatatype)
		} else {
			doNormalize := df.GetEncodingOptions().IsOptionEnabled(OptionUtcTime)
			return newTypedValueEncoderNormalized(df.dtrMapTypes, df.dtrMapRepresentations, &df.dtrMapRepresentationsDatatype, doNormalize)
		}
	} else {
		// use strings only
		return newStringOnlyEncoder()
	}
}

func (df *DefaultEXIFactory) CreateStringDecoder() StringDecoder {
	var decoder StringDecoder
	if df.GetValueMaxLength() != DefaultValueMaxLength || df.GetValuePartitionCapacity() != DefaultValuePartitionCapacity {
		decoder = NewBoundedStringDecoderImpl(df.IsLocalValuePartitions(), df.GetValueMaxLength(), df.GetValuePartitionCapacity())
	} else {
		decoder = NewStringDecoderImpl(df.IsLocalValuePartitions())
	}

	return decoder
}

func (df *DefaultEXIFactory) CreateTypeDecoder() (TypeDecoder, error) {
	if df.isSchemaInformed() {
		if err := df.checkDtrMap(); err != nil {
			return nil, err
		}

		if df.fidelityOptions.IsFidelityEnabled(FeatureLexicalValue) {
			return newLexicalValueDecoder(df.dtrMapTypes, df.dtrMapRepresentations, &df.dtrMapRepresentationsDatatype)
		} else {
			return newTypedValueDecoder(df.dtrMapTypes, df.dtrMapRepresentations, &df.dtrMapRepresentationsDatatype)
		}
	} else {
		// use strings only
		return newStringOnlyDecoder()
	}
}

func (df *DefaultEXIFactory) Clone() EXIFactory {
	z := *df
	return &z
}
