package exi

// Tokens and bit-level framing constants of the EXI header and its
// nested options document (W3C EXI 1.0 appendix C schema).
const (
	EXIHeader_Header                    = "header"
	EXIHeader_LessCommon                = "lesscommon"
	EXIHeader_Uncommon                  = "uncommon"
	EXIHeader_Alignment                 = "alignment"
	EXIHeader_Byte                      = "byte"
	EXIHeader_PreCompress               = "pre-compress"
	EXIHeader_SelfContained             = "selfContained"
	EXIHeader_ValueMaxLength            = "valueMaxLength"
	EXIHeader_ValuePartitionCapacity    = "valuePartitionCapacity"
	EXIHeader_DatatypeRepresentationMap = "datatypeRepresentationMap"
	EXIHeader_Preserve                  = "preserve"
	EXIHeader_Dtd                       = "dtd"
	EXIHeader_Prefixes                  = "prefixes"
	EXIHeader_LexicalValues             = "lexicalValues"
	EXIHeader_Comments                  = "comments"
	EXIHeader_Pis                       = "pis"
	EXIHeader_BlockSize                 = "blockSize"
	EXIHeader_Common                    = "common"
	EXIHeader_Compression               = "compression"
	EXIHeader_Fragment                  = "fragment"
	EXIHeader_SchemaID                  = "schemaId"
	EXIHeader_Strict                    = "strict"
	EXIHeader_Profile                   = "p"

	EXIHeader_NumberOfDistinguishingBits = 2
	EXIHeader_DistinguishingBitsValue    = 2
	EXIHeader_NumberOfFormatVersionBits  = 4
	EXIHeader_FormatVersionContinueValue = 15
)

// AbstractEXIHeader lazily builds the factory every header
// coder shares: the options document is itself an EXI body, decoded
// against the schema-informed grammar set below under strict fidelity.
type AbstractEXIHeader struct {
	headerFactory EXIFactory
}

func (h *AbstractEXIHeader) GetHeaderFactory() (EXIFactory, error) {
	if h.headerFactory != nil {
		return h.headerFactory, nil
	}
	gr, err := NewEXIOptionsHeaderGrammars()
	if err != nil {
		return nil, err
	}
	h.headerFactory = NewDefaultEXIFactory()
	h.headerFactory.SetGrammars(gr)
	h.headerFactory.SetFidelityOptions(NewStrictFidelityOptions())
	return h.headerFactory, nil
}

// EXIOptionsHeaderGrammars is the schema-informed grammar set for the
// EXI options document, pre-built from the appendix C XSD so no schema
// ingestion is needed at run time.
type EXIOptionsHeaderGrammars struct {
	schemaID       *string
	grammarContext *GrammarContext
	document       *Document
	fragment       *Fragment
	sief           SchemaInformedGrammar
}

// Local names of the options-document schema, one slice per namespace,
// ordered by compact ID.
var optionsDocXSDNames = []string{"ENTITIES", "ENTITY", "ID", "IDREF", "IDREFS", "NCName", "NMTOKEN", "NMTOKENS", "NOTATION", "Name", "QName", "anySimpleType", "anyType", "anyURI", "base64Binary", "boolean", "byte", "date", "dateTime", "decimal", "double", "duration", "float", "gDay", "gMonth", "gMonthDay", "gYear", "gYearMonth", "hexBinary", "int", "integer", "language", "long", "negativeInteger", "nonNegativeInteger", "nonPositiveInteger", "normalizedString", "positiveInteger", "short", "string", "time", "token", "unsignedByte", "unsignedInt", "unsignedLong", "unsignedShort"}

var optionsDocEXINames = []string{"alignment", "base64Binary", "blockSize", "boolean", "byte", "comments", "common", "compression", "datatypeRepresentationMap", "date", "dateTime", "decimal", "double", "dtd", "fragment", "gDay", "gMonth", "gMonthDay", "gYear", "gYearMonth", "header", "hexBinary", "ieeeBinary32", "ieeeBinary64", "integer", "lesscommon", "lexicalValues", "pis", "pre-compress", "prefixes", "preserve", "schemaId", "selfContained", "strict", "string", "time", "uncommon", "valueMaxLength", "valuePartitionCapacity"}

func NewEXIOptionsHeaderGrammars() (*EXIOptionsHeaderGrammars, error) {
	newQNames := func(uriID int, uri string, locals []string) []*QNameContext {
		qs := make([]*QNameContext, len(locals))
		for i, l := range locals {
			qs[i] = NewQNameContext(uriID, i, QName{Space: uri, Local: l})
		}
		return qs
	}

	xmlq := newQNames(1, XML_NS_URI, []string{"base", "id", "lang", "space"})
	xsiq := newQNames(2, XMLSchemaInstanceNS_URI, []string{"nil", "type"})
	xsdq := newQNames(3, XMLSchemaNS_URI, optionsDocXSDNames)
	exiq := newQNames(4, W3C_EXI_NS_URI, optionsDocEXINames)

	gctx := NewGrammarContext([]*GrammarUriContext{
		NewGrammarUriContext(0, "", nil, []string{""}),
		NewGrammarUriContext(1, XML_NS_URI, xmlq, []string{"xml"}),
		NewGrammarUriContext(2, XMLSchemaInstanceNS_URI, xsiq, []string{"xsi"}),
		NewGrammarUriContext(3, XMLSchemaNS_URI, xsdq, []string{}),
		NewGrammarUriContext(4, W3C_EXI_NS_URI, exiq, []string{}),
	}, 91)

	doc := NewDocument()
	docContent := NewSchemaInformedDocContent()
	docEnd := NewDocEnd()
	frag := NewFragment()
	fragContent := NewSchemaInformedFragmentContent()

	// Element-content grammars, then the first-start-tag grammars that
	// wrap them. Index positions mirror the compiled appendix C schema.
	elem := make([]*SchemaInformedElement, 45)
	for i := range elem {
		elem[i] = NewSchemaInformedElement()
	}
	contentOf := []int{25, 18, 10, 2, 1, 5, 9, 16, 23, 22, 26, 27, 22, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44}
	fst := make([]*SchemaInformedFirstStartTag, len(contentOf))
	for i, ci := range contentOf {
		fst[i] = NewSchemaInformedFirstStartTagWithEC2(elem[ci])
		fst[i].SetElementContentGrammar(elem[ci])
	}
	sief := fst[10]
	fst[9].SetNillable(true)
	sief.SetTypeCastable(true)
	sief.SetNillable(true)

	seHeader := NewStartElementWithGrammar(exiq[20], fst[0])
	exiq[20].SetGlobalStartElement(seHeader)

	// Simple-type grammars for the schema's global type definitions.
	for _, tg := range []struct {
		q *QNameContext
		g SchemaInformedFirstStartTagGrammar
	}{
		{xsdq[0], fst[11]},
		{xsdq[1], fst[12]},
		{xsdq[2], fst[12]},
		{xsdq[3], fst[12]},
		{xsdq[4], fst[11]},
		{xsdq[5], fst[12]},
		{xsdq[6], fst[12]},
		{xsdq[7], fst[11]},
		{xsdq[8], fst[12]},
		{xsdq[9], fst[12]},
		{xsdq[10], fst[12]},
		{xsdq[11], fst[12]},
		{xsdq[12], fst[13]},
		{xsdq[13], fst[12]},
		{xsdq[14], fst[14]},
		{xsdq[15], fst[15]},
		{xsdq[16], fst[16]},
		{xsdq[17], fst[17]},
		{xsdq[18], fst[18]},
		{xsdq[19], fst[19]},
		{xsdq[20], fst[20]},
		{xsdq[21], fst[12]},
		{xsdq[22], fst[20]},
		{xsdq[23], fst[21]},
		{xsdq[24], fst[22]},
		{xsdq[25], fst[23]},
		{xsdq[26], fst[24]},
		{xsdq[27], fst[25]},
		{xsdq[28], fst[26]},
		{xsdq[29], fst[27]},
		{xsdq[30], fst[27]},
		{xsdq[31], fst[12]},
		{xsdq[32], fst[27]},
		{xsdq[33], fst[27]},
		{xsdq[34], fst[5]},
		{xsdq[35], fst[27]},
		{xsdq[36], fst[12]},
		{xsdq[37], fst[5]},
		{xsdq[38], fst[27]},
		{xsdq[39], fst[12]},
		{xsdq[40], fst[28]},
		{xsdq[41], fst[12]},
		{xsdq[42], fst[29]},
		{xsdq[43], fst[5]},
		{xsdq[44], fst[5]},
		{xsdq[45], fst[5]},
		{exiq[1], fst[14]},
		{exiq[3], fst[15]},
		{exiq[9], fst[17]},
		{exiq[10], fst[18]},
		{exiq[11], fst[19]},
		{exiq[12], fst[20]},
		{exiq[15], fst[21]},
		{exiq[16], fst[22]},
		{exiq[17], fst[23]},
		{exiq[18], fst[24]},
		{exiq[19], fst[25]},
		{exiq[21], fst[26]},
		{exiq[22], fst[20]},
		{exiq[23], fst[20]},
		{exiq[24], fst[27]},
		{exiq[34], fst[12]},
		{exiq[35], fst[28]},
	} {
		tg.q.SetTypeGrammar(tg.g)
	}

	doc.AddProduction(NewStartDocument(), docContent)
	docContent.AddProduction(seHeader, docEnd)
	docContent.AddProduction(NewStartElementGeneric(), docEnd)
	docEnd.AddProduction(NewEndDocument(), elem[0])
	frag.AddProduction(NewStartDocument(), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[0], fst[3]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[4], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[6], fst[8]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[7], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[13], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[14], fst[4]), fragContent)
	fragContent.AddProduction(seHeader, fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[25], fst[1]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[28], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[29], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[30], fst[7]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[32], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[36], fst[2]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), fragContent)
	fragContent.AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), fragContent)
	fragContent.AddProduction(NewStartElementGeneric(), fragContent)
	fragContent.AddProduction(NewEndDocument(), elem[0])
	fst[0].AddProduction(NewStartElementWithGrammar(exiq[25], fst[1]), elem[19])
	fst[0].AddProduction(NewStartElementWithGrammar(exiq[6], fst[8]), elem[24])
	fst[0].AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), elem[1])
	fst[0].AddProduction(NewEndElement(), elem[0])
	fst[1].AddProduction(NewStartElementWithGrammar(exiq[36], fst[2]), elem[11])
	fst[1].AddProduction(NewStartElementWithGrammar(exiq[30], fst[7]), elem[17])
	fst[1].AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), elem[1])
	fst[1].AddProduction(NewEndElement(), elem[0])
	fst[2].AddProduction(NewStartElementWithGrammar(exiq[0], fst[3]), elem[3])
	fst[2].AddProduction(NewStartElementWithGrammar(exiq[32], fst[4]), elem[4])
	fst[2].AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), elem[6])
	fst[2].AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[7])
	fst[2].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[7])
	fst[2].AddProduction(NewStartElementGeneric(), elem[10])
	fst[2].AddProduction(NewEndElement(), elem[0])
	fst[3].AddProduction(NewStartElementWithGrammar(exiq[4], fst[4]), elem[1])
	fst[3].AddProduction(NewStartElementWithGrammar(exiq[28], fst[4]), elem[1])
	fst[4].AddProduction(NewEndElement(), elem[0])
	fst[5].AddProduction(NewCharacters(NewUnsignedIntegerDatatype(xsdq[43])), elem[1])
	fst[6].AddProduction(NewStartElementGeneric(), elem[8])
	fst[7].AddProduction(NewStartElementWithGrammar(exiq[13], fst[4]), elem[12])
	fst[7].AddProduction(NewStartElementWithGrammar(exiq[29], fst[4]), elem[13])
	fst[7].AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), elem[14])
	fst[7].AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[15])
	fst[7].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[1])
	fst[7].AddProduction(NewEndElement(), elem[0])
	fst[8].AddProduction(NewStartElementWithGrammar(exiq[7], fst[4]), elem[20])
	fst[8].AddProduction(NewStartElementWithGrammar(exiq[14], fst[4]), elem[21])
	fst[8].AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), elem[1])
	fst[8].AddProduction(NewEndElement(), elem[0])
	fst[9].AddProduction(NewCharacters(NewStringDatatype(xsdq[39])), elem[1])
	sief.AddProduction(NewAttributeGeneric(), sief)
	sief.AddProduction(NewStartElementWithGrammar(exiq[0], fst[3]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[4], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[6], fst[8]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[7], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[13], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[14], fst[4]), elem[26])
	sief.AddProduction(seHeader, elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[25], fst[1]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[28], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[29], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[30], fst[7]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[32], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[36], fst[2]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), elem[26])
	sief.AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[26])
	sief.AddProduction(NewStartElementGeneric(), elem[26])
	sief.AddProduction(NewEndElement(), elem[0])
	sief.AddProduction(NewCharactersGeneric(), elem[26])
	fst[11].AddProduction(NewCharacters(NewListDatatype(NewStringDatatype(xsdq[1]), xsdq[0])), elem[1])
	fst[12].AddProduction(NewCharacters(NewStringDatatype(xsdq[1])), elem[1])
	fst[13].AddProduction(NewAttributeGeneric(), fst[13])
	fst[13].AddProduction(NewStartElementGeneric(), elem[28])
	fst[13].AddProduction(NewEndElement(), elem[0])
	fst[13].AddProduction(NewCharactersGeneric(), elem[28])
	fst[14].AddProduction(NewCharacters(NewBinaryBase64Datatype(xsdq[14])), elem[1])
	fst[15].AddProduction(NewCharacters(NewBooleanDatatype(xsdq[15])), elem[1])
	fst[16].AddProduction(NewCharacters(NewNBitUnsignedIntegerDatatype(NewIntegerValue32(-128), NewIntegerValue32(127), xsdq[16])), elem[1])
	fst[17].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeDate, xsdq[17])), elem[1])
	fst[18].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeDateTime, xsdq[18])), elem[1])
	fst[19].AddProduction(NewCharacters(NewDecimalDatatype(xsdq[19])), elem[1])
	fst[20].AddProduction(NewCharacters(NewFloatDatatype(xsdq[20])), elem[1])
	fst[21].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGDay, xsdq[23])), elem[1])
	fst[22].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGMonth, xsdq[24])), elem[1])
	fst[23].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGMonthDay, xsdq[25])), elem[1])
	fst[24].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGYear, xsdq[26])), elem[1])
	fst[25].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGYearMonth, xsdq[27])), elem[1])
	fst[26].AddProduction(NewCharacters(NewBinaryHexDatatype(xsdq[28])), elem[1])
	fst[27].AddProduction(NewCharacters(NewIntegerDatatype(xsdq[29])), elem[1])
	fst[28].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeTime, xsdq[40])), elem[1])
	fst[29].AddProduction(NewCharacters(NewNBitUnsignedIntegerDatatype(NewIntegerValue32(0), NewIntegerValue32(255), xsdq[42])), elem[1])
	elem[1].AddProduction(NewEndElement(), elem[0])
	elem[2].AddProduction(NewStartElementWithGrammar(exiq[4], fst[4]), elem[1])
	elem[2].AddProduction(NewStartElementWithGrammar(exiq[28], fst[4]), elem[1])
	elem[3].AddProduction(NewStartElementWithGrammar(exiq[32], fst[4]), elem[4])
	elem[3].AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), elem[6])
	elem[3].AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[7])
	elem[3].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[7])
	elem[3].AddProduction(NewEndElement(), elem[0])
	elem[4].AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), elem[6])
	elem[4].AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[7])
	elem[4].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[7])
	elem[4].AddProduction(NewEndElement(), elem[0])
	elem[5].AddProduction(NewCharacters(NewUnsignedIntegerDatatype(xsdq[43])), elem[1])
	elem[6].AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[7])
	elem[6].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[7])
	elem[6].AddProduction(NewEndElement(), elem[0])
	elem[7].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[7])
	elem[7].AddProduction(NewEndElement(), elem[0])
	elem[8].AddProduction(NewStartElementGeneric(), elem[1])
	elem[9].AddProduction(NewStartElementGeneric(), elem[8])
	elem[10].AddProduction(NewStartElementWithGrammar(exiq[0], fst[3]), elem[3])
	elem[10].AddProduction(NewStartElementWithGrammar(exiq[32], fst[4]), elem[4])
	elem[10].AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), elem[6])
	elem[10].AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[7])
	elem[10].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[7])
	elem[10].AddProduction(NewStartElementGeneric(), elem[10])
	elem[10].AddProduction(NewEndElement(), elem[0])
	elem[11].AddProduction(NewStartElementWithGrammar(exiq[30], fst[7]), elem[17])
	elem[11].AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), elem[1])
	elem[11].AddProduction(NewEndElement(), elem[0])
	elem[12].AddProduction(NewStartElementWithGrammar(exiq[29], fst[4]), elem[13])
	elem[12].AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), elem[14])
	elem[12].AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[15])
	elem[12].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[1])
	elem[12].AddProduction(NewEndElement(), elem[0])
	elem[13].AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), elem[14])
	elem[13].AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[15])
	elem[13].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[1])
	elem[13].AddProduction(NewEndElement(), elem[0])
	elem[14].AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[15])
	elem[14].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[1])
	elem[14].AddProduction(NewEndElement(), elem[0])
	elem[15].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[1])
	elem[15].AddProduction(NewEndElement(), elem[0])
	elem[16].AddProduction(NewStartElementWithGrammar(exiq[13], fst[4]), elem[12])
	elem[16].AddProduction(NewStartElementWithGrammar(exiq[29], fst[4]), elem[13])
	elem[16].AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), elem[14])
	elem[16].AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[15])
	elem[16].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[1])
	elem[16].AddProduction(NewEndElement(), elem[0])
	elem[17].AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), elem[1])
	elem[17].AddProduction(NewEndElement(), elem[0])
	elem[18].AddProduction(NewStartElementWithGrammar(exiq[36], fst[2]), elem[11])
	elem[18].AddProduction(NewStartElementWithGrammar(exiq[30], fst[7]), elem[17])
	elem[18].AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), elem[1])
	elem[18].AddProduction(NewEndElement(), elem[0])
	elem[19].AddProduction(NewStartElementWithGrammar(exiq[6], fst[8]), elem[24])
	elem[19].AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), elem[1])
	elem[19].AddProduction(NewEndElement(), elem[0])
	elem[20].AddProduction(NewStartElementWithGrammar(exiq[14], fst[4]), elem[21])
	elem[20].AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), elem[1])
	elem[20].AddProduction(NewEndElement(), elem[0])
	elem[21].AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), elem[1])
	elem[21].AddProduction(NewEndElement(), elem[0])
	elem[22].AddProduction(NewCharacters(NewStringDatatype(xsdq[39])), elem[1])
	elem[23].AddProduction(NewStartElementWithGrammar(exiq[7], fst[4]), elem[20])
	elem[23].AddProduction(NewStartElementWithGrammar(exiq[14], fst[4]), elem[21])
	elem[23].AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), elem[1])
	elem[23].AddProduction(NewEndElement(), elem[0])
	elem[24].AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), elem[1])
	elem[24].AddProduction(NewEndElement(), elem[0])
	elem[25].AddProduction(NewStartElementWithGrammar(exiq[25], fst[1]), elem[19])
	elem[25].AddProduction(NewStartElementWithGrammar(exiq[6], fst[8]), elem[24])
	elem[25].AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), elem[1])
	elem[25].AddProduction(NewEndElement(), elem[0])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[0], fst[3]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[2], fst[5]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[4], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[5], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[6], fst[8]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[7], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[8], fst[6]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[13], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[14], fst[4]), elem[26])
	elem[26].AddProduction(seHeader, elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[25], fst[1]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[26], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[27], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[28], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[29], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[30], fst[7]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[31], fst[9]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[32], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[33], fst[4]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[36], fst[2]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[37], fst[5]), elem[26])
	elem[26].AddProduction(NewStartElementWithGrammar(exiq[38], fst[5]), elem[26])
	elem[26].AddProduction(NewStartElementGeneric(), elem[26])
	elem[26].AddProduction(NewEndElement(), elem[0])
	elem[26].AddProduction(NewCharactersGeneric(), elem[26])
	elem[27].AddProduction(NewCharacters(NewListDatatype(NewStringDatatype(xsdq[1]), xsdq[0])), elem[1])
	elem[28].AddProduction(NewStartElementGeneric(), elem[28])
	elem[28].AddProduction(NewEndElement(), elem[0])
	elem[28].AddProduction(NewCharactersGeneric(), elem[28])
	elem[29].AddProduction(NewCharacters(NewBinaryBase64Datatype(xsdq[14])), elem[1])
	elem[30].AddProduction(NewCharacters(NewBooleanDatatype(xsdq[15])), elem[1])
	elem[31].AddProduction(NewCharacters(NewNBitUnsignedIntegerDatatype(NewIntegerValue32(-128), NewIntegerValue32(127), xsdq[16])), elem[1])
	elem[32].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeDate, xsdq[17])), elem[1])
	elem[33].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeDateTime, xsdq[18])), elem[1])
	elem[34].AddProduction(NewCharacters(NewDecimalDatatype(xsdq[19])), elem[1])
	elem[35].AddProduction(NewCharacters(NewFloatDatatype(xsdq[20])), elem[1])
	elem[36].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGDay, xsdq[23])), elem[1])
	elem[37].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGMonth, xsdq[24])), elem[1])
	elem[38].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGMonthDay, xsdq[25])), elem[1])
	elem[39].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGYear, xsdq[26])), elem[1])
	elem[40].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeGYearMonth, xsdq[27])), elem[1])
	elem[41].AddProduction(NewCharacters(NewBinaryHexDatatype(xsdq[28])), elem[1])
	elem[42].AddProduction(NewCharacters(NewIntegerDatatype(xsdq[29])), elem[1])
	elem[43].AddProduction(NewCharacters(NewDatetimeDatatype(DateTimeTime, xsdq[40])), elem[1])
	elem[44].AddProduction(NewCharacters(NewNBitUnsignedIntegerDatatype(NewIntegerValue32(0), NewIntegerValue32(255), xsdq[42])), elem[1])

	return &EXIOptionsHeaderGrammars{
		grammarContext: gctx,
		document:       doc,
		fragment:       frag,
		sief:           sief,
	}, nil
}

func (hg *EXIOptionsHeaderGrammars) IsSchemaInformed() bool {
	return true
}

func (hg *EXIOptionsHeaderGrammars) GetSchemaID() *string {
	return hg.schemaID
}

func (hg *EXIOptionsHeaderGrammars) SetSchemaID(schemaID *string) error {
	hg.schemaID = schemaID
	return nil
}

func (hg *EXIOptionsHeaderGrammars) IsBuiltInXMLSchemaTypesOnly() bool {
	return false
}

func (hg *EXIOptionsHeaderGrammars) GetDocumentGrammar() Grammar {
	return hg.document
}

func (hg *EXIOptionsHeaderGrammars) GetFragmentGrammar() Grammar {
	return hg.fragment
}

func (hg *EXIOptionsHeaderGrammars) GetGrammarContext() *GrammarContext {
	return hg.grammarContext
}

func (hg *EXIOptionsHeaderGrammars) GetSchemaInformedGrammars() (*SchemaInformedGrammars, error) {
	gs := NewSchemaInformedGrammars(hg.grammarContext, hg.document, hg.fragment, hg.sief)
	if err := gs.SetSchemaID(hg.schemaID); err != nil {
		return nil, err
	}
	return gs, nil
}
