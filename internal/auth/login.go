package auth

import (
	"context"
	"log/slog"

	"trustlens/pkg/audit"
	dErrors "trustlens/pkg/domain-errors"
	"trustlens/pkg/secrets"
)

// LoginService exchanges a pre-shared operator key for a short-lived token.
// The key is stored only as a bcrypt hash in configuration.
type LoginService struct {
	tokens  *TokenService
	keyHash string
	auditor *audit.Publisher
	logger  *slog.Logger
}

func NewLoginService(tokens *TokenService, keyHash string, auditor *audit.Publisher, logger *slog.Logger) *LoginService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{tokens: tokens, keyHash: keyHash, auditor: auditor, logger: logger}
}

// Login verifies the operator key and issues a token. Failures are audited
// with the operator name but never the submitted key.
func (s *LoginService) Login(ctx context.Context, operator, key string) (string, error) {
	if operator == "" || key == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "operator and key are required")
	}
	if s.keyHash == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "admin access is not configured")
	}

	if err := secrets.Verify(key, s.keyHash); err != nil {
		s.logger.WarnContext(ctx, "admin login rejected", "operator", operator)
		s.emit(ctx, audit.EventAdminLoginFailed, operator)
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid operator key")
	}

	token, err := s.tokens.GenerateToken(operator)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "issue operator token")
	}

	s.emit(ctx, audit.EventAdminLogin, operator)
	return token, nil
}

func (s *LoginService) emit(ctx context.Context, action audit.AuditEvent, operator string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{Action: string(action), Actor: operator})
}
