// Package launcher runs the installed qspin binary, either as a transparent
// passthrough (Run) or as a one-shot "version" probe (Smoke).
package launcher
