package logger

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// BunQueryHook implementa hook para logging de queries do Bun ORM
type BunQueryHook struct {
	logger Logger
}

// NewBunQueryHook cria um novo hook para logging de queries do Bun
func NewBunQueryHook(logger Logger) bun.QueryHook {
	return &BunQueryHook{
		logger: logger.WithComponent("database"),
	}
}

// BeforeQuery é chamado antes da execução da query
func (h *BunQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery é chamado após a execução da query
func (h *BunQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	durationMs := duration.Milliseconds()

	if event.Err != nil {
		h.logger.Error().
			Err(event.Err).
			Str("query", h.sanitizeQuery(event.Query)).
			Int64("duration_ms", durationMs).
			Str("operation", h.getQueryOperation(event.Query)).
			Msg("Database query failed")
		return
	}

	// Queries rotineiras e rápidas só aparecem em TRACE; lentas viram warning
	if durationMs < 10 && h.isRoutineQuery(event.Query) {
		h.logger.Trace().
			Str("operation", h.getQueryOperation(event.Query)).
			Int64("duration_ms", durationMs).
			Msg("Fast DB operation")
		return
	}

	if durationMs > 100 {
		h.logger.Warn().
			Str("query", h.sanitizeQuery(event.Query)).
			Int64("duration_ms", durationMs).
			Msg("Slow database query")
		return
	}

	h.logger.Debug().
		Str("operation", h.getQueryOperation(event.Query)).
		Int64("duration_ms", durationMs).
		Msg("Database query")
}

// isRoutineQuery identifica queries de rotina que não merecem log em DEBUG
func (h *BunQueryHook) isRoutineQuery(query string) bool {
	upper := strings.ToUpper(query)
	routineTables := []string{"ATENDO_USERS", "ATENDO_ATENDIMENTOS"}
	for _, table := range routineTables {
		if strings.Contains(upper, table) {
			return true
		}
	}
	return false
}

// getQueryOperation extrai a operação SQL (SELECT, INSERT, ...) da query
func (h *BunQueryHook) getQueryOperation(query string) string {
	trimmed := strings.TrimSpace(strings.ToUpper(query))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP"} {
		if strings.HasPrefix(trimmed, op) {
			return op
		}
	}
	return "UNKNOWN"
}

// sanitizeQuery trunca queries longas para o log
func (h *BunQueryHook) sanitizeQuery(query string) string {
	const maxLen = 200
	query = strings.Join(strings.Fields(query), " ")
	if len(query) > maxLen {
		return query[:maxLen] + "..."
	}
	return query
}
