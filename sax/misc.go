package sax

import (
	"fmt"

	"github.com/go-exi/exicore/exi"
)


func (sd *SAXDecoder) handleDocType(docType *exi.DocTypeContainer) error {
	if docType != nil {
		if sd.debug {
			fmt.Printf("DOC TYPE: %+v\n", *docType)
		}
	}
	return nil
}

func (sd *SAXDecoder) handleEntityReference(erName []rune) error {
	if sd.debug {
		fmt.Printf("EREF: %s\n", string(erName))
	}
	return nil
}

func (sd *SAXDecoder) handleComment(comment []rune) error {
	if sd.debug {
		fmt.Printf("COM: %s\n", string(comment))
	}
	return nil
}
