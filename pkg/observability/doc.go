/*
Package observability turns adapter CommitHooks into metrics and structured logs.

Metrics registers Prometheus collectors for mutations, commits and mount effects.
LogHooks reports commits through a slog.Logger. Combine both with domain.ChainHooks.
*/
package observability
