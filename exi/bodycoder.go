package exi

import (
	"fmt"
	"slices"
)

const ElementContextsInitialStackSize = 16

// bodyCoderBase carries the state both coding directions share: the
// grammar set, the element-context stack (one frame per open element),
// the runtime URI/QName tables, and the EXI profile learning bounds.
type bodyCoderBase struct {
	exiFactory                EXIFactory
	grammar                   Grammars
	grammarContext            *GrammarContext
	fidelityOptions           *FidelityOptions
	preservePrefix            bool
	preserveLexicalValues     bool
	errorHandler              ErrorHandler
	booleanDatatype           *BooleanDatatype
	elementContext            *ElementContext
	elementContextStack       []*ElementContext
	elementContextStackIndex  int
	runtimeGlobalElements     map[QNameContextMapKey]*StartElement
	runtimeURIs               []*RuntimeUriContext
	xsiTypeContext            *QNameContext
	xsiNilContext             *QNameContext
	gURIs                     int
	nextUriID                 int
	limitGrammarLearning      bool
	maxBuiltInElementGrammars int
	maxBuiltInProductions     int
	learnedProductions        int
}

func newBodyCoderBase(factory EXIFactory) (*bodyCoderBase, error) {
	gr := factory.GetGrammars()
	gctx := gr.GetGrammarContext()
	fopts := factory.GetFidelityOptions()
	gURIs := gctx.GetNumberOfGrammarUriContexts()

	preservePrefix := fopts.IsFidelityEnabled(FeaturePrefix)
	preserveLexicalValues := fopts.IsFidelityEnabled(FeatureLexicalValue)

	runtimeURIs := make([]*RuntimeUriContext, gURIs)
	for i := range gURIs {
		ctx := gctx.GetGrammarUriContextByID(i)
		runtimeURIs[i] = RuntimeUriContextFromContext(ctx)
	}

	var maxBuiltInElementGrammars int
	var maxBuiltInProductions int
	var limitGrammarLearning bool

	if gr.IsSchemaInformed() {
		maxBuiltInElementGrammars = factory.GetMaximumNumberOfBuiltInElementGrammars()
		maxBuiltInProductions = factory.GetMaximumNumberOfBuiltInProductions()
		limitGrammarLearning = (maxBuiltInElementGrammars >= 0) || (maxBuiltInProductions >= 0)
	} else {
		maxBuiltInElementGrammars = -1
		maxBuiltInProductions = -1
		limitGrammarLearning = false
	}

	return &bodyCoderBase{
		exiFactory:                factory,
		grammar:                   gr,
		grammarContext:            gctx,
		fidelityOptions:           fopts,
		preservePrefix:            preservePrefix,
		preserveLexicalValues:     preserveLexicalValues,
		errorHandler:              NewDefaultErrorHandler(),
		booleanDatatype:           NewBooleanDatatype(nil),
		elementContext:            nil,
		elementContextStack:       make([]*ElementContext, ElementContextsInitialStackSize),
		elementContextStackIndex:  0,
		runtimeGlobalElements:     map[QNameContextMapKey]*StartElement{},
		runtimeURIs:               runtimeURIs,
		xsiTypeContext:            nil,
		xsiNilContext:             nil,
		gURIs:                     gURIs,
		nextUriID:                 gURIs,
		limitGrammarLearning:      limitGrammarLearning,
		maxBuiltInElementGrammars: maxBuiltInElementGrammars,
		maxBuiltInProductions:     maxBuiltInProductions,
		learnedProductions:        0,
	}, nil
}

func (bc *bodyCoderBase) getXsiTypeContext() *QNameContext {
	if bc.xsiTypeContext == nil {
		bc.xsiTypeContext = bc.grammarContext.GetGrammarUriContextByID(2).GetQNameContextByLocalNameID(1)
	}
	return bc.xsiTypeContext
}

func (bc *bodyCoderBase) getXsiNilContext() *QNameContext {
	if bc.xsiNilContext == nil {
		bc.xsiNilContext = bc.grammarContext.GetGrammarUriContextByID(2).GetQNameContextByLocalNameID(0)
	}
	return bc.xsiNilContext
}

func (bc *bodyCoderBase) isBuiltInStartTagGrammarWithAtXsiTypeOnly(g Grammar) bool {
	if g.GetNumberOfEvents() == 1 {
		p0 := g.GetProductionByEventCode(0)
		ev0 := p0.GetEvent()

		if ev0.IsEventType(EventTypeAttribute) {
			at := ev0.(*Attribute)
			qn0 := at.GetQNameContext()

			if qn0.GetNamespaceUriID() == 2 && qn0.GetLocalNameID() == 1 {
				// AT type cast only
				return true
			}
		}
	}

	return false
}

func (bc *bodyCoderBase) getGlobalStartElement(qcx *QNameContext) *StartElement {
	se := qcx.GetGlobalStartElement()
	if se == nil {
		// no global StartElement stemming from schema-informed grammars
		// --> check for previous runtime SE
		se = bc.runtimeGlobalElements[qcx.GetMapKey()]
		if se == nil {
			// no global runtime grammar yet
			se = NewStartElement(qcx)
			if bc.grammar.IsSchemaInformed() && bc.exiFactory.IsUsingNonEvolvingGrammars() {
				sig := bc.grammar.(*SchemaInformedGrammars)
				se.SetGrammar(sig.GetSchemaInformedElementFragmentGrammar())
			} else {
				se.SetGrammar(NewBuiltInStartTag())
			}

			bc.runtimeGlobalElements[qcx.GetMapKey()] = se
		}
	}

	return se
}

func (bc *bodyCoderBase) getCurrentGrammar() Grammar {
	return bc.elementContext.gr
}

func (bc *bodyCoderBase) updateCurrentRule(newCurrentGrammar Grammar) {
	bc.elementContext.gr = newCurrentGrammar
}

func (bc *bodyCoderBase) getElementContext() *ElementContext {
	return bc.elementContext
}

func (bc *bodyCoderBase) updateElementContext(elementContext *ElementContext) {
	bc.elementContext = elementContext
}

func (bc *bodyCoderBase) SetErrorHandler(handler ErrorHandler) {
	bc.errorHandler = handler
}

// re-init (rule stack etc)
func (bc *bodyCoderBase) InitForEachRun() error {
	// clear runtime data
	bc.runtimeGlobalElements = map[QNameContextMapKey]*StartElement{}
	for i := range bc.nextUriID {
		bc.runtimeURIs[i].clear(bc.preservePrefix)
	}

	// re-set schema-informed grammar IDs
	bc.nextUriID = bc.gURIs

	// possible document/fragment grammar
	var startRule Grammar
	if bc.exiFactory.IsFragment() {
		startRule = bc.grammar.GetFragmentGrammar()
	} else {
		startRule = bc.grammar.GetDocumentGrammar()
	}

	// (core) context
	ec := NewElementContext(nil, startRule)

	bc.elementContextStackIndex = 0
	bc.elementContextStack[0] = ec
	bc.elementContext = ec

	return nil
}

func (bc *bodyCoderBase) declarePrefix(prefix *string, uri string) {
	bc.declarePrefixWithNamespaceDeclaraion(NewNamespaceDeclarationContainer(uri, prefix))
}

func (bc *bodyCoderBase) declarePrefixWithNamespaceDeclaraion(nsDecl NamespaceDeclarationContainer) {
	if slices.Contains(bc.elementContext.nsDeclarations, nsDecl) {
		panic("multiple equal namespace declarations")
	}

	bc.elementContext.nsDeclarations = append(bc.elementContext.nsDeclarations, nsDecl)
}

func (bc *bodyCoderBase) getURI(prefix *string) *string {
	for i := bc.elementContextStackIndex; i > 0; i-- {
		ec := bc.elementContextStack[i]

		for k := range len(ec.nsDeclarations) {
			ns := ec.nsDeclarations[k]
			if ns.Prefix == prefix || (ns.Prefix != nil && prefix != nil && *ns.Prefix == *prefix) {
				return &ns.NamespaceURI
			}
		}
	}

	if prefix == nil || len(*prefix) == 0 {
		return ptrTo(XMLNullNS_URI)
	} else {
		return nil
	}
}

func (bc *bodyCoderBase) getPrefix(uri string) *string {
	for i := bc.elementContextStackIndex; i > 0; i-- {
		ec := bc.elementContextStack[i]

		for k := range len(ec.nsDeclarations) {
			ns := ec.nsDeclarations[k]
			if ns.NamespaceURI == uri {
				return ns.Prefix
			}
		}
	}

	return nil
}

func (bc *bodyCoderBase) pushElement(updContextGrammar Grammar, se *StartElement) {
	// update "rule" item of current peak (for popElement() later on)
	bc.elementContext.gr = updContextGrammar

	// check element context array size
	bc.elementContextStackIndex++
	if len(bc.elementContextStack) == bc.elementContextStackIndex {
		elementContextStackNew := make([]*ElementContext, len(bc.elementContextStack)<<2)
		copy(elementContextStackNew, bc.elementContextStack)
		bc.elementContextStack = elementContextStackNew
	}

	// create new stack item & push it
	bc.elementContext = NewElementContext(se.GetQNameContext(), se.GetGrammar())
	bc.elementContextStack[bc.elementContextStackIndex] = bc.elementContext
}

func (bc *bodyCoderBase) popElement() *ElementContext {
	if bc.elementContextStackIndex < 0 {
		panic("index out of bounds")
	}

	poppedEC := bc.elementContextStack[bc.elementContextStackIndex]
	bc.elementContextStack[bc.elementContextStackIndex] = nil
	bc.elementContextStackIndex--
	bc.elementContext = bc.elementContextStack[bc.elementContextStackIndex]

	return poppedEC
}

func (bc *bodyCoderBase) addUri(uri string) *RuntimeUriContext {
	var uc *RuntimeUriContext
	uriID := bc.nextUriID
	bc.nextUriID++

	if uriID < len(bc.runtimeURIs) {
		// re-use existing entry
		uc = bc.runtimeURIs[uriID]
		// Update namespace uri (ID is already ok)
		uc.SetNamespaceUri(uri)
	} else {
		// create new uri entry
		uc = NewRuntimeUriContext(uriID, uri)
		bc.runtimeURIs = append(bc.runtimeURIs, uc)
	}

	return uc
}

func (bc *bodyCoderBase) GetNumberOfURIs() int {
	return bc.nextUriID
}

func (bc *bodyCoderBase) GetURI(uri string) *RuntimeUriContext {
	for i := 0; i < bc.nextUriID && i < len(bc.runtimeURIs); i++ {
		uc := bc.runtimeURIs[i]
		if uc.namespaceURI == uri {
			return uc
		}
	}

	return nil
}

func (bc *bodyCoderBase) GetURIByNamespaceID(namespaceUriID int) *RuntimeUriContext {
	if namespaceUriID < 0 || namespaceUriID >= len(bc.runtimeURIs) {
		panic("index out of bounds")
	}
	return bc.runtimeURIs[namespaceUriID]
}

func (bc *bodyCoderBase) emitWarning(message string) {
	bc.errorHandler.Warning(fmt.Errorf("%s, options = %+v", message, bc.fidelityOptions))
}

