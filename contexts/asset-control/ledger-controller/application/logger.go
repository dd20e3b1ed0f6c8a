package application

import "log/slog"

// ModuleName is the value of the "module" attribute on every log line.
const ModuleName = "asset-control/ledger-controller"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
