package exi

// Namespace URIs, local names, and numeric limits fixed by the EXI 1.0,
// XML Namespaces, and XML Schema specifications.
const (
	W3C_EXI_NS_URI          = "http://www.w3.org/2009/exi"
	W3C_EXI_LN_Base64Binary = "base64Binary"
	W3C_EXI_LN_HexBinary    = "hexBinary"
	W3C_EXI_LN_Boolean      = "boolean"
	W3C_EXI_LN_DateTime     = "dateTime"
	W3C_EXI_LN_Time         = "time"
	W3C_EXI_LN_Date         = "date"
	W3C_EXI_LN_GYearMonth   = "gYearMonth"
	W3C_EXI_LN_GYear        = "gYear"
	W3C_EXI_LN_GMonthDay    = "gMonthDay"
	W3C_EXI_LN_GDay         = "gDay"
	W3C_EXI_LN_GMonth       = "gMonth"
	W3C_EXI_LN_Decimal      = "decimal"
	W3C_EXI_LN_Double       = "double"
	W3C_EXI_LN_Integer      = "integer"
	W3C_EXI_LN_String       = "string"
	W3C_EXI_FeatureBodyOnly = "http://www.w3.org/exi/features/exi-body-only"

	EmptyString = ""

	XSISchemaLocation            = "schemaLocation"
	XSINoNamespaceSchemaLocation = "noNamespaceSchemaLocation"

	XML_NS_Prefix           = "xml"
	XMLNullNS_URI           = ""
	XMLDefaultNSPrefix      = ""
	XML_NS_AttributeNS_URI  = "http://www.w3.org/2000/xmlns/"
	XML_NS_Attribute        = "xmlns"
	XML_NS_URI              = "http://www.w3.org/XML/1998/namespace"
	XMLSchemaInstanceNS_URI = "http://www.w3.org/2001/XMLSchema-instance"
	XMLSchemaNS_URI         = "http://www.w3.org/2001/XMLSchema"

	XSIPrefix = "xsi"
	XSIType   = "type"
	XSINil    = "nil"

	XSDListDelim          = " "
	XSDListDelimChar rune = ' '

	XSDAnyType      = "anyType"
	XSDBooleanTrue  = "true"
	XSDBoolean1     = "1"
	XSDBooleanFalse = "false"
	XSDBoolean0     = "0"

	DecodedBooleanTrue  = XSDBooleanTrue
	DecodedBooleanFalse = XSDBooleanFalse

	NotFound = -1

	// compression channel limits
	MaxNumberOfValues = 100
	DefaultBlockSize  = 1000000

	// string-table bounds, negative meaning unbounded
	DefaultValueMaxLength         = -1
	DefaultValuePartitionCapacity = -1

	FloatInfinity      = "INF"
	FloatMinusInfinity = "-INF"
	FloatNotANumber    = "NaN"

	// exponent sentinel -(2^14) marks INF/-INF/NaN mantissas
	FloatSpecialValues         = -16384
	FloatMantissaInfinity      = 1
	FloatMantissaMinusInfinity = -1
	FloatMantissaNotANumber    = 0

	// representable float range: |exponent| < 2^14, mantissa in int64
	FloatExponentMinRange int64 = -16383
	FloatExponentMaxRange int64 = 16383
	FloatMantissaMinRange int64 = -9223372036854775808
	FloatMantissaMaxRange int64 = 9223372036854775807
)

// Seed content of the four built-in string-table partitions (EXI §7.2).
var (
	PrefixesEmpty   = []string{""}
	LocalNamesEmpty = []string{}
	PrefixesXML     = []string{"xml"}
	LocalNamesXML   = []string{"base", "id", "lang", "space"}
	PrefixesXSI     = []string{"xsi"}
	LocalNamesXSI   = []string{"nil", "type"}
	PrefixesXSD     = []string{}
	LocalNamesXSD   = []string{
		"ENTITIES", "ENTITY", "ID", "IDREF", "IDREFS", "NCName",
		"NMTOKEN", "NMTOKENS", "NOTATION", "Name", "QName",
		"anySimpleType", "anyType", "anyURI", "base64Binary", "boolean",
		"byte", "date", "dateTime", "decimal", "double", "duration",
		"float", "gDay", "gMonth", "gMonthDay", "gYear", "gYearMonth",
		"hexBinary", "int", "integer", "language", "long",
		"negativeInteger", "nonNegativeInteger", "nonPositiveInteger",
		"normalizedString", "positiveInteger", "short", "string", "time",
		"token", "unsignedByte", "unsignedInt", "unsignedLong",
		"unsignedShort",
	}

	XSDListDelimCharArray = []rune{' '}
	XSDBooleanTrueArray   = []rune(XSDBooleanTrue)
	XSDBoolean1Array      = []rune(XSDBoolean1)
	XSDBooleanFalseArray  = []rune(XSDBooleanFalse)
	XSDBoolean0Array      = []rune(XSDBoolean0)

	DecodedBooleanTrueArray  = XSDBooleanTrueArray
	DecodedBooleanFalseArray = XSDBooleanFalseArray

	FloatInfinityCharArray      = []rune(FloatInfinity)
	FloatMinusInfinityCharArray = []rune(FloatMinusInfinity)
	FloatNotANumberCharArray    = []rune(FloatNotANumber)
)
