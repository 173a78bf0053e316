package folders

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=surface.go -destination=../internal/mock/surface_mock.go -package=mock

// Surface is an authenticated view onto the web UI.  Login is called once before any
// Breadcrumbs; implementations are not safe for concurrent use.
type Surface interface {
	Login(ctx context.Context) error
	Breadcrumbs(ctx context.Context, orgID, folderID string) ([]string, error)
	Close() error
}

// LoginError means no session could be established, so no folder can be resolved.
type LoginError struct {
	Step string
	Err  error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("folders: login failed at step %q: %v", e.Step, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
