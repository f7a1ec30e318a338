package codegen

import (
	"fmt"
	"strings"
)

// wdioRenderer emits a WebdriverIO mocha suite. The application binary is
// launched once by wdio-electron-service, so launch/close actions stay
// comments inside the statement block.
type wdioRenderer struct {
	typed bool
}

func (r wdioRenderer) render(stmts []statement, testName, appPath string) string {
	var b strings.Builder

	if r.typed {
		b.WriteString("import { browser } from '@wdio/globals';\n\n")
	} else {
		b.WriteString("const { browser } = require('@wdio/globals');\n\n")
	}

	fmt.Fprintf(&b, "describe(%s, () => {\n", jsQuote(testName))

	b.WriteString("  before(async () => {\n")
	fmt.Fprintf(&b, "    // application binary: %s (launched by wdio-electron-service)\n", appPath)
	b.WriteString("    await browser.waitUntil(async () => (await browser.getTitle()) !== '');\n")
	b.WriteString("  });\n\n")

	b.WriteString("  it('replays the recorded session', async () => {\n")

	elCount := 0

	for _, st := range stmts {
		switch st := st.(type) {
		case commentStmt:
			fmt.Fprintf(&b, "    // %s\n", st.text)
		case clickStmt:
			elCount++
			name := fmt.Sprintf("el%d", elCount)
			fmt.Fprintf(&b, "    const %s%s = await browser.$(%s);\n", name, r.elementType(), jsQuote(wdioSelector(st.target)))
			fmt.Fprintf(&b, "    await %s.click();\n", name)
		case typeStmt:
			elCount++
			name := fmt.Sprintf("el%d", elCount)
			fmt.Fprintf(&b, "    const %s%s = await browser.$(%s);\n", name, r.elementType(), jsQuote(wdioSelector(st.target)))

			if st.clear {
				fmt.Fprintf(&b, "    await %s.setValue(%s);\n", name, jsQuote(st.text))
			} else {
				fmt.Fprintf(&b, "    await %s.addValue(%s);\n", name, jsQuote(st.text))
			}
		case screenshotStmt:
			fmt.Fprintf(&b, "    await browser.saveScreenshot(%s);\n", jsQuote(st.path))
		case todoStmt:
			fmt.Fprintf(&b, "    // TODO: unsupported action %q params=%s\n", st.tool, st.paramsJSON)
		}
	}

	b.WriteString("  });\n\n")

	b.WriteString("  after(async () => {\n")
	b.WriteString("    await browser.reloadSession();\n")
	b.WriteString("  });\n")
	b.WriteString("});\n")

	return b.String()
}

func (r wdioRenderer) elementType() string {
	if r.typed {
		return ": WebdriverIO.Element"
	}

	return ""
}

// wdioSelector renders text lookups in WebdriverIO's partial link/button
// text syntax; everything else is plain CSS.
func wdioSelector(s selector) string {
	if s.isText() {
		return s.textTag + "*=" + s.textBody
	}

	return s.css
}
