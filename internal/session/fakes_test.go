package session

import (
	"context"
	"errors"
	"strings"

	"appdriver/internal/config"
	"appdriver/internal/entity"
	"appdriver/internal/ports"

	"go.uber.org/zap"
)

// fakeElement is an in-memory stand-in for a live element handle. Attributes
// double as storage for aria-label and role.
type fakeElement struct {
	tag        string
	text       string
	attrs      map[string]string
	visible    bool
	enabled    bool
	box        *entity.BoundingBox
	value      string
	clicks     int
	typed      []string
	tagNameErr error
}

func (e *fakeElement) attr(name string) string {
	if e.attrs == nil {
		return ""
	}

	return e.attrs[name]
}

func (e *fakeElement) matches(selector string) bool {
	for _, part := range strings.Split(selector, ", ") {
		if e.matchesOne(part) {
			return true
		}
	}

	return false
}

func (e *fakeElement) matchesOne(selector string) bool {
	switch {
	case strings.HasPrefix(selector, "#"):
		return e.attr("id") == selector[1:]
	case strings.HasPrefix(selector, "["):
		inner := strings.TrimSuffix(strings.TrimPrefix(selector, "["), "]")
		if key, value, ok := strings.Cut(inner, "="); ok {
			return e.attr(key) == strings.Trim(value, `"`)
		}

		return e.attr(inner) != ""
	default:
		return e.tag == selector
	}
}

func (e *fakeElement) IsVisible(ctx context.Context) (bool, error) { return e.visible, nil }
func (e *fakeElement) IsEnabled(ctx context.Context) (bool, error) { return e.enabled, nil }

func (e *fakeElement) TagName(ctx context.Context) (string, error) {
	if e.tagNameErr != nil {
		return "", e.tagNameErr
	}

	return e.tag, nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, error) {
	return e.attr(name), nil
}

func (e *fakeElement) BoundingBox(ctx context.Context) (*entity.BoundingBox, error) {
	return e.box, nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.clicks++

	return nil
}

func (e *fakeElement) SetValue(ctx context.Context, text string) error {
	e.value = text

	return nil
}

func (e *fakeElement) TypeText(ctx context.Context, text string) error {
	e.typed = append(e.typed, text)
	e.value += text

	return nil
}

func (e *fakeElement) ClearValue(ctx context.Context) error {
	e.value = ""

	return nil
}

func (e *fakeElement) GetValue(ctx context.Context) (string, error) { return e.value, nil }

type fakePage struct {
	title    string
	url      string
	elements []*fakeElement
	shot     []byte
	script   string
}

func (p *fakePage) Title(ctx context.Context) (string, error) { return p.title, nil }
func (p *fakePage) URL(ctx context.Context) (string, error)   { return p.url, nil }

func (p *fakePage) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	var out []ports.Element

	for _, el := range p.elements {
		if el.matches(selector) {
			out = append(out, el)
		}
	}

	return out, nil
}

func (p *fakePage) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	p.script = script

	return "ok", nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	if p.shot == nil {
		return []byte{0x89, 0x50, 0x4e, 0x47}, nil
	}

	return p.shot, nil
}

// handlePage re-wraps every element on every query, the way the driver
// adapter does: handle values from two queries never compare equal even for
// the same underlying element.
type handlePage struct {
	inner *fakePage
}

func (p *handlePage) Title(ctx context.Context) (string, error) { return p.inner.Title(ctx) }
func (p *handlePage) URL(ctx context.Context) (string, error)   { return p.inner.URL(ctx) }

func (p *handlePage) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	handles, err := p.inner.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}

	out := make([]ports.Element, 0, len(handles))
	for _, handle := range handles {
		out = append(out, &wrappedElement{Element: handle})
	}

	return out, nil
}

func (p *handlePage) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	return p.inner.ExecuteScript(ctx, script, args...)
}

func (p *handlePage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.inner.Screenshot(ctx)
}

type wrappedElement struct {
	ports.Element
}

type fakeManager struct {
	page  ports.Page
	ready bool
}

func (m *fakeManager) Launch(ctx context.Context) error { m.ready = true; return nil }
func (m *fakeManager) Close(ctx context.Context) error  { m.ready = false; return nil }
func (m *fakeManager) IsReady() bool                    { return m.ready }

func (m *fakeManager) Page() (ports.Page, error) {
	if !m.ready {
		return nil, errors.New("not ready")
	}

	return m.page, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppConfig:    &config.AppConfig{},
		DriverConfig: &config.DriverConfig{},
		SessionConfig: &config.SessionConfig{
			MaxSnapshotElements: 100,
			PositionTolerance:   10,
			ResolveTextLimit:    30,
			RenderLabelLimit:    50,
			ExtractTextLimit:    100,
		},
	}
}

func newTestSession(page ports.Page) *Session {
	return NewSession(Params{
		Config:  testConfig(),
		Logger:  zap.NewNop(),
		Manager: &fakeManager{page: page, ready: true},
	})
}

func visibleButton(id, text string) *fakeElement {
	attrs := map[string]string{}
	if id != "" {
		attrs["id"] = id
	}

	return &fakeElement{
		tag:     "button",
		text:    text,
		attrs:   attrs,
		visible: true,
		enabled: true,
		box:     &entity.BoundingBox{X: 10, Y: 20, Width: 80, Height: 24},
	}
}
