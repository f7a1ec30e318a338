package codegen

import (
	"fmt"
	"strings"

	"appdriver/internal/entity"
	"appdriver/pkg/apperr"

	jsoniter "github.com/json-iterator/go"
)

// Sorted-key encoding keeps synthesis byte-identical across runs.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format identifies one (framework, language) synthesis target.
type Format string

const (
	FormatWebdriverIOJS Format = "webdriverio-js"
	FormatWebdriverIOTS Format = "webdriverio-ts"
	FormatPlaywrightJS  Format = "playwright-js"
	FormatPlaywrightTS  Format = "playwright-ts"
)

// textSelectorLimit bounds the text embedded in generated text selectors.
const textSelectorLimit = 30

// Formats lists the supported synthesis targets.
func Formats() []Format {
	return []Format{
		FormatWebdriverIOJS,
		FormatWebdriverIOTS,
		FormatPlaywrightJS,
		FormatPlaywrightTS,
	}
}

// The recorded log compiles into a small statement AST; each renderer only
// knows how to print these nodes, so adding a target means adding a renderer.
type statement interface {
	stmt()
}

type commentStmt struct {
	text string
}

type clickStmt struct {
	target selector
}

type typeStmt struct {
	target selector
	text   string
	clear  bool
}

type screenshotStmt struct {
	path string
}

type todoStmt struct {
	tool       string
	paramsJSON string
}

func (commentStmt) stmt()    {}
func (clickStmt) stmt()      {}
func (typeStmt) stmt()       {}
func (screenshotStmt) stmt() {}
func (todoStmt) stmt()       {}

// selector carries either a CSS expression or a tag+text lookup; text
// lookups render differently per framework.
type selector struct {
	css      string
	textTag  string
	textBody string
}

func (s selector) isText() bool {
	return s.textTag != ""
}

type renderer interface {
	render(stmts []statement, testName, appPath string) string
}

var renderers = map[Format]renderer{
	FormatWebdriverIOJS: wdioRenderer{},
	FormatWebdriverIOTS: wdioRenderer{typed: true},
	FormatPlaywrightJS:  playwrightRenderer{},
	FormatPlaywrightTS:  playwrightRenderer{typed: true},
}

// Synthesize compiles a recorded action log into test source for the given
// target. Pure function of its inputs: identical logs and format produce
// byte-identical output. Unknown action types degrade to TODO markers so
// partial progress is never lost.
func Synthesize(log []entity.RecordedAction, format Format, testName, appPath string) (string, error) {
	const op = "Synthesize"

	r, ok := renderers[format]
	if !ok {
		return "", apperr.Wrap(op, apperr.CodeUnsupportedFormat,
			fmt.Errorf("unsupported target format %q", format),
			map[string]any{
				apperr.MetaFormat: string(format),
				apperr.MetaStage:  apperr.StageSynthesis,
			})
	}

	return r.render(compile(log, appPath), testName, appPath), nil
}

func compile(log []entity.RecordedAction, appPath string) []statement {
	stmts := make([]statement, 0, len(log))

	for _, action := range log {
		switch action.Tool {
		case "launch":
			path := paramString(action.Params, "appPath")
			if path == "" {
				path = appPath
			}

			stmts = append(stmts, commentStmt{text: "launch: " + path + " (performed in setup)"})
		case "click":
			stmts = append(stmts, clickStmt{target: bestSelector(action.Element)})
		case "type":
			stmts = append(stmts, typeStmt{
				target: bestSelector(action.Element),
				text:   paramString(action.Params, "text"),
				clear:  paramBool(action.Params, "clear"),
			})
		case "screenshot":
			path := paramString(action.Params, "filename")
			if path == "" {
				path = "screenshot.png"
			}

			stmts = append(stmts, screenshotStmt{path: path})
		case "close":
			stmts = append(stmts, commentStmt{text: "close: handled in teardown"})
		default:
			stmts = append(stmts, todoStmt{
				tool:       action.Tool,
				paramsJSON: encodeParams(action.Params),
			})
		}
	}

	return stmts
}

// bestSelector picks the most stable selector the captured descriptor
// allows: id > name > aria-label > text (links and buttons) > bare tag.
func bestSelector(el *entity.RecordedElement) selector {
	if el == nil {
		return selector{css: "body"}
	}

	if id := el.Attributes["id"]; id != "" {
		return selector{css: "#" + id}
	}

	if name := el.Attributes["name"]; name != "" {
		return selector{css: fmt.Sprintf(`[name=%q]`, name)}
	}

	if ariaLabel := el.Attributes["aria-label"]; ariaLabel != "" {
		return selector{css: fmt.Sprintf(`[aria-label=%q]`, ariaLabel)}
	}

	if (el.Tag == "a" || el.Tag == "button") && el.Text != "" {
		return selector{textTag: el.Tag, textBody: truncate(el.Text, textSelectorLimit)}
	}

	if el.Tag != "" {
		return selector{css: el.Tag}
	}

	return selector{css: "body"}
}

func encodeParams(params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}

	data, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}

	return string(data)
}

func paramString(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}

	return ""
}

func paramBool(params map[string]any, key string) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}

	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}

// jsQuote renders s as a single-quoted JavaScript string literal.
func jsQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)

	return "'" + s + "'"
}
