// Package orchestration runs one or more prime-finding strategies
// concurrently and checks that they agree. It decouples business logic from
// presentation via the ProgressReporter and ResultPresenter interfaces.
package orchestration
