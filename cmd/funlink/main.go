// Command funlink explains how a call site shape links against a target
// signature: which match decision applies and what the built adapter will do
// at each invocation.
//
// Usage:
//
//	funlink explain [-rules rules.yaml] 'join(String, String...)' '(String, Any)'
//
// The target signature lists the fixed parameter types, with a trailing
// 'T...' marking a variadic run of T. The shape lists the call site's static
// argument types.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/funlink/pkg/funlink"
)

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

func main() {
	log.SetFlags(0)
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "explain":
		if err := runExplain(args[1:]); err != nil {
			log.Fatalf("funlink: %v", err)
		}
	case "help", "-h", "--help":
		usage()
	default:
		log.Printf("funlink: unknown command %q", args[0])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: funlink explain [-rules rules.yaml] 'name(T1, T2, E...)' '(S1, S2, ...)'")
}

func runExplain(args []string) error {
	rulesPath := ""
	if len(args) >= 2 && args[0] == "-rules" {
		rulesPath = args[1]
		args = args[2:]
	}
	if len(args) != 2 {
		usage()
		return fmt.Errorf("explain expects a target signature and a shape")
	}

	l := funlink.New()
	if rulesPath != "" {
		var err error
		l, err = funlink.NewFromRules(rulesPath)
		if err != nil {
			return err
		}
	}

	target, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	site, err := parseShape(args[1])
	if err != nil {
		return err
	}

	decision := l.Match(target, site)
	fmt.Printf("target:   %s\n", target)
	fmt.Printf("site:     %s\n", site)
	fmt.Printf("decision: %s\n", paint(decision.Kind.String(), decisionColor(decision.Kind)))
	fmt.Printf("adapter:  %s\n", describePlan(target, decision, site))
	return nil
}

func decisionColor(kind funlink.DecisionKind) string {
	switch kind {
	case funlink.NoMatch:
		return colorRed
	case funlink.AmbiguousSingle:
		return colorYellow
	default:
		return colorGreen
	}
}

func paint(s, color string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + colorReset
}
