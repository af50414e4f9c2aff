package port

import "context"

// Mailer delivers transactional mail. The flow awaits completion but never
// retries; a failure propagates to the caller.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
}
