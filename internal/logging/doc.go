// Package logging provides the structured logger shared by the pipeline,
// the strategies and the HTTP server. Components depend on the Logger
// interface; the default backend is zerolog, with a std log adapter for
// callers that already own a *log.Logger.
package logging
