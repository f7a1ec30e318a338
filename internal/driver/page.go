package driver

import (
	"context"
	"strings"

	"appdriver/internal/entity"
	"appdriver/internal/ports"

	"github.com/playwright-community/playwright-go"
)

// pageAdapter exposes a playwright page through the narrow ports.Page
// surface. The playwright client carries its own timeouts; the contexts are
// accepted for interface symmetry and tracing propagation.
type pageAdapter struct {
	page playwright.Page
}

func (p *pageAdapter) Title(ctx context.Context) (string, error) {
	return p.page.Title()
}

func (p *pageAdapter) URL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

func (p *pageAdapter) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}

	elements := make([]ports.Element, 0, len(handles))
	for _, handle := range handles {
		elements = append(elements, &elementAdapter{handle: handle})
	}

	return elements, nil
}

func (p *pageAdapter) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if len(args) == 0 {
		return p.page.Evaluate(script)
	}

	return p.page.Evaluate(script, args...)
}

func (p *pageAdapter) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Screenshot()
}

type elementAdapter struct {
	handle playwright.ElementHandle
}

func (e *elementAdapter) IsVisible(ctx context.Context) (bool, error) {
	return e.handle.IsVisible()
}

func (e *elementAdapter) IsEnabled(ctx context.Context) (bool, error) {
	return e.handle.IsEnabled()
}

func (e *elementAdapter) TagName(ctx context.Context) (string, error) {
	prop, err := e.handle.GetProperty("tagName")
	if err != nil {
		return "", err
	}

	value, err := prop.JSONValue()
	if err != nil {
		return "", err
	}

	tag, _ := value.(string)

	return strings.ToLower(tag), nil
}

func (e *elementAdapter) Text(ctx context.Context) (string, error) {
	return e.handle.TextContent()
}

func (e *elementAdapter) Attribute(ctx context.Context, name string) (string, error) {
	return e.handle.GetAttribute(name)
}

func (e *elementAdapter) BoundingBox(ctx context.Context) (*entity.BoundingBox, error) {
	rect, err := e.handle.BoundingBox()
	if err != nil {
		return nil, err
	}

	if rect == nil {
		return nil, nil
	}

	return &entity.BoundingBox{
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
	}, nil
}

func (e *elementAdapter) Click(ctx context.Context) error {
	return e.handle.Click()
}

func (e *elementAdapter) SetValue(ctx context.Context, text string) error {
	return e.handle.Fill(text)
}

func (e *elementAdapter) TypeText(ctx context.Context, text string) error {
	return e.handle.Type(text)
}

func (e *elementAdapter) ClearValue(ctx context.Context) error {
	return e.handle.Fill("")
}

func (e *elementAdapter) GetValue(ctx context.Context) (string, error) {
	return e.handle.InputValue()
}
