// Package logging provides types.Logger implementations.
//
//   - ZerologLogger: adapter over zerolog, used by the CLI for console or JSON output
//   - NopLogger: discards everything, the default of every component
package logging
