package exi

import "strings"

// QName is a namespace-qualified name: a namespace URI (Space), a local
// name (Local), and the prefix it was written with, if any.
type QName struct {
	Space  string
	Local  string
	Prefix *string
}

func compareQName(ns1, ln1, ns2, ln2 string) int {
	if c := strings.Compare(ln1, ln2); c != 0 {
		return c
	}
	return strings.Compare(ns1, ns2)
}

// QNameCompareFunc orders two QNames by local name first, then by
// namespace URI, matching the ordering EXI's built-in grammar uses when
// it lists AT events in canonical order.
func QNameCompareFunc(q1, q2 QName) int {
	return compareQName(q1.Space, q1.Local, q2.Space, q2.Local)
}

func AttributeCompareFunc(a1, a2 *Attribute) int {
	q1, q2 := a1.GetQName(), a2.GetQName()
	return compareQName(q1.Space, q1.Local, q2.Space, q2.Local)
}

// qualifiedName joins a prefix and local name into "prefix:local", or
// returns the local name unchanged when there is no prefix.
func qualifiedName(lname string, prefix *string) string {
	if prefix == nil || *prefix == "" {
		return lname
	}
	return *prefix + ":" + lname
}

// prefixPart extracts the prefix half of a qualified name, or "" if qname
// carries no prefix.
func prefixPart(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i]
	}
	return ""
}

// localPart extracts the local-name half of a qualified name.
func localPart(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
