// Command xampler generates random XML documents that follow an XML
// Schema, for use as test fixtures.
//
//	xampler generate [--element name] [--seed n] [--repeat name=n] schema.xsd...
//	xampler elements schema.xsd...
package main

import (
	_ "embed"
	"os"

	"github.com/untillpro/goutils/cobrau"
	"github.com/untillpro/goutils/logger"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	rootCmd := cobrau.PrepareRootCmd(
		"xampler",
		"Generate random XML documents from an XML Schema",
		args,
		ver,
		newGenerateCmd(nil),
		newElementsCmd(nil),
	)
	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}
