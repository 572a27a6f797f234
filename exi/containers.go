package exi

// NamespaceDeclarationContainer carries one prefix binding of an NS
// event; a nil Prefix is the default namespace.
type NamespaceDeclarationContainer struct {
	NamespaceURI string
	Prefix       *string
}

func NewNamespaceDeclarationContainer(uri string, prefix *string) NamespaceDeclarationContainer {
	return NamespaceDeclarationContainer{NamespaceURI: uri, Prefix: prefix}
}

func (nc *NamespaceDeclarationContainer) Equals(o any) bool {
	other, ok := o.(*NamespaceDeclarationContainer)
	if !ok || other == nil {
		return false
	}
	if nc.NamespaceURI != other.NamespaceURI {
		return false
	}
	if nc.Prefix == nil || other.Prefix == nil {
		return nc.Prefix == other.Prefix
	}
	return *nc.Prefix == *other.Prefix
}

// DocTypeContainer carries the four information items of a DT event.
type DocTypeContainer struct {
	Name     []rune
	PublicID []rune
	SystemID []rune
	Text     []rune
}

// ProcessingInstructionContainer carries the target and data of a PI
// event.
type ProcessingInstructionContainer struct {
	Target string
	Data   string
}
