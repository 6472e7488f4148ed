package main

import "flag"

// AnalyzeFlags holds all command line flags for the analyze command.
type AnalyzeFlags struct {
	EnvFile     *string
	EvalDate    *string
	XLSXPath    *string
	Quiet       *bool
	ShowVersion *bool
}

// NewAnalyzeFlags defines the analyze command's flag set.
func NewAnalyzeFlags() *AnalyzeFlags {
	return &AnalyzeFlags{
		EnvFile:     flag.String("env", "", "Path to .env file (default: .env in working directory)"),
		EvalDate:    flag.String("eval-date", "", "Evaluation date YYYY-MM-DD (default: today). Fixing it makes runs byte-reproducible"),
		XLSXPath:    flag.String("xlsx", "", "Also write an Excel workbook to this path"),
		Quiet:       flag.Bool("quiet", false, "Skip the console findings tables"),
		ShowVersion: flag.Bool("version", false, "Show version and exit"),
	}
}
