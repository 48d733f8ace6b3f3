// Package report captures HTTP exchanges for test reports.
//
// The transport hands a RequestSnapshot and a ResponseSnapshot to a Sink once
// per attempt. Sinks decide what to do with them: LogSink writes them through
// the structured logger, MemorySink keeps them for assertions, DirSink writes
// one JSON attachment per exchange, and Multi fans out to several sinks.
//
//	sink := report.Multi(report.NewLogSink(log), report.NewDirSink(afero.NewOsFs(), "reports"))
//
// Curl renders a request as a shell command so a failing step can be replayed
// by hand.
package report
