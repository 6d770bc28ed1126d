// Package logger wraps zap with a global sugared logger, context helpers
// (ToContext/FromContext/WithName/WithKV) and level parsing.
//
// Output goes to stderr: several binaries print their result to stdout for
// shell scripts to capture.
package logger
