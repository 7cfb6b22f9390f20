// Command shfit evaluates single histogram µSR fits described in a YAML
// file.
//
// Usage:
//
//	shfit eval -c fit.yaml [--kind chisq] [--fit-range "FIT_RANGE fgb+5 lgb-3"]
//	shfit view -c fit.yaml [--run 1] [--theory]
//	shfit fourier -c fit.yaml [--apodization medium] [--zero-padding 12]
//	shfit window [--attenuation 60 --width 0.2]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
