package main

import (
	"github.com/sirupsen/logrus"

	"github.com/opsforge/ecr-janitor/cmd"
)

// init configures the initial logging level for the janitor.
//
// It sets logrus to InfoLevel by default, ensuring basic operational logs
// are visible unless overridden by flags like --debug or --log-level in cmd.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main serves as the entry point for the ECR janitor.
//
// It delegates execution to the cmd package, which handles CLI setup,
// flag parsing, and the core cleanup and report publishing logic.
func main() {
	cmd.Execute()
}
