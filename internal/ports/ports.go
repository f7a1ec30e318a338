package ports

import (
	"context"

	"appdriver/internal/entity"
)

// AppManager owns the lifecycle of the application under automation and
// hands out the active page. Launch, process discovery and transport are
// collaborator concerns; the core never sees them.
type AppManager interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Page() (Page, error)
	IsReady() bool
}

// Page is the narrow surface the core consumes from the remote-control
// session.
type Page interface {
	Title(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)
	Screenshot(ctx context.Context) ([]byte, error)
}

// Element is a live handle to a single UI element. Handles go stale when
// the UI re-renders; callers re-resolve through the session instead of
// holding on to them.
type Element interface {
	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	TagName(ctx context.Context) (string, error)
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	BoundingBox(ctx context.Context) (*entity.BoundingBox, error)
	Click(ctx context.Context) error
	SetValue(ctx context.Context, text string) error
	TypeText(ctx context.Context, text string) error
	ClearValue(ctx context.Context) error
	GetValue(ctx context.Context) (string, error)
}
