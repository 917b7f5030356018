/*
Package log provides structured logging for the planner using zerolog.

Call Init once at process start to configure the global Logger, then derive
component loggers with WithComponent (and WithProjectID/WithPrinterID/
WithCycleID where a log line concerns one entity) rather than logging through
the global Logger directly, so every line carries a component field:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("cycle-scheduler")
	logger.Info().Str("project_id", p.ID).Msg("placed cycle")
*/
package log
