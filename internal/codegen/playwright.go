package codegen

import (
	"fmt"
	"strings"
)

// playwrightRenderer emits a Playwright test suite that launches the
// application binary through the _electron entry point.
type playwrightRenderer struct {
	typed bool
}

func (r playwrightRenderer) render(stmts []statement, testName, appPath string) string {
	var b strings.Builder

	if r.typed {
		b.WriteString("import { test, _electron as electron, type ElectronApplication, type Page } from '@playwright/test';\n\n")
	} else {
		b.WriteString("const { test, _electron: electron } = require('@playwright/test');\n\n")
	}

	fmt.Fprintf(&b, "test.describe(%s, () => {\n", jsQuote(testName))

	if r.typed {
		b.WriteString("  let app: ElectronApplication;\n")
		b.WriteString("  let page: Page;\n\n")
	} else {
		b.WriteString("  let app;\n")
		b.WriteString("  let page;\n\n")
	}

	b.WriteString("  test.beforeAll(async () => {\n")
	fmt.Fprintf(&b, "    app = await electron.launch({ executablePath: %s });\n", jsQuote(appPath))
	b.WriteString("    page = await app.firstWindow();\n")
	b.WriteString("  });\n\n")

	b.WriteString("  test.afterAll(async () => {\n")
	b.WriteString("    await app.close();\n")
	b.WriteString("  });\n\n")

	b.WriteString("  test('replays the recorded session', async () => {\n")

	for _, st := range stmts {
		switch st := st.(type) {
		case commentStmt:
			fmt.Fprintf(&b, "    // %s\n", st.text)
		case clickStmt:
			fmt.Fprintf(&b, "    await page.click(%s);\n", jsQuote(playwrightSelector(st.target)))
		case typeStmt:
			if st.clear {
				fmt.Fprintf(&b, "    await page.fill(%s, %s);\n", jsQuote(playwrightSelector(st.target)), jsQuote(st.text))
			} else {
				fmt.Fprintf(&b, "    await page.type(%s, %s);\n", jsQuote(playwrightSelector(st.target)), jsQuote(st.text))
			}
		case screenshotStmt:
			fmt.Fprintf(&b, "    await page.screenshot({ path: %s });\n", jsQuote(st.path))
		case todoStmt:
			fmt.Fprintf(&b, "    // TODO: unsupported action %q params=%s\n", st.tool, st.paramsJSON)
		}
	}

	b.WriteString("  });\n")
	b.WriteString("});\n")

	return b.String()
}

func playwrightSelector(s selector) string {
	if s.isText() {
		return fmt.Sprintf("%s:has-text(%q)", s.textTag, s.textBody)
	}

	return s.css
}
