// Command exicode encodes XML documents to EXI and decodes them back,
// driving the github.com/go-exi/exicore/exi body codec through the sax
// serializer adapter.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
