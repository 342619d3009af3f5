package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"atendo/internal/http/responses"
	"atendo/pkg/logger"
)

// Authenticator resolve a credencial de uma requisição para um usuário
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (uuid.UUID, error)
}

type contextKey string

const userIDKey contextKey = "authUserID"

// NewAuthMiddleware cria o middleware de autenticação. A credencial vem do
// header Authorization (Bearer) ou do query param "token" — clientes de
// WebSocket do browser não conseguem setar headers no handshake.
func NewAuthMiddleware(auth Authenticator, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := extractCredential(r)
			if credential == "" {
				responses.Unauthorized(w, "Credencial de autenticação ausente")
				return
			}

			userID, err := auth.Authenticate(r.Context(), credential)
			if err != nil {
				log.WithError(err).
					WithField("path", r.URL.Path).
					Warn().Msg("Authentication failed")
				responses.Unauthorized(w, "Credencial de autenticação inválida")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractCredential(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return header
	}
	return r.URL.Query().Get("token")
}

// UserFromContext retorna o ID do usuário autenticado na requisição
func UserFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
