package driver

import (
	"context"
	"fmt"
	"os"

	"appdriver/internal/config"
	"appdriver/internal/ports"
	"appdriver/pkg/apperr"
	"appdriver/pkg/logg"
	"appdriver/pkg/tracing"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	managerName   = "AppManager"
	managerTracer = "driver.manager"
)

// Manager launches and owns the application under automation. Binary
// discovery, transport and version negotiation live entirely here; the core
// only sees the ports interfaces.
type Manager struct {
	config     *config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
	playwright *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       playwright.Page
	ready      bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewManager(params Params) *Manager {
	return &Manager{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, managerName)),
		tracer: otel.Tracer(managerTracer),
		ready:  false,
	}
}

func (m *Manager) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching application...")
	step.AddEvent("installing playwright")

	err = playwright.Install()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_install_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}
	m.playwright = pw

	if m.config.DriverConfig.UserDataDir != "" {
		return m.launchPersistent(ctx)
	}

	return m.launchNew(ctx)
}

func (m *Manager) launchPersistent(ctx context.Context) (err error) {
	const op = "launchPersistent"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching persistent application context")

	userDataDir := m.config.DriverConfig.UserDataDir

	if err := os.MkdirAll(userDataDir, 0755); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "mkdir_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}

	options := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(m.config.DriverConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.DriverConfig.SlowMo)),
	}

	if m.config.DriverConfig.BinaryPath != "" {
		options.ExecutablePath = playwright.String(m.config.DriverConfig.BinaryPath)
	}

	browserCtx, err := m.playwright.Chromium.LaunchPersistentContext(userDataDir, options)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "launch_persistent_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}

	m.browserCtx = browserCtx

	pages := browserCtx.Pages()

	if len(pages) > 0 {
		m.page = pages[0]
		logger.Info("Using existing window")
	} else {
		page, err := browserCtx.NewPage()
		if err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "new_page_failed",
				apperr.MetaStage:  apperr.StageDriver,
			})
		}
		m.page = page
		logger.Info("Created new window")
	}

	m.ready = true
	logger.Info("Application launched successfully")

	return nil
}

func (m *Manager) launchNew(ctx context.Context) (err error) {
	const op = "launchNew"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching new application instance")

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.config.DriverConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.DriverConfig.SlowMo)),
	}

	if m.config.DriverConfig.BinaryPath != "" {
		launchOptions.ExecutablePath = playwright.String(m.config.DriverConfig.BinaryPath)
	}

	browser, err := m.playwright.Chromium.Launch(launchOptions)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "app_launch_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}
	m.browser = browser

	browserCtx, err := browser.NewContext()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}

	m.browserCtx = browserCtx

	page, err := browserCtx.NewPage()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageDriver,
		})
	}
	m.page = page

	m.ready = true
	logger.Info("Application launched successfully")

	return nil
}

func (m *Manager) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Closing application session...")

	if m.config.DriverConfig.UserDataDir != "" {
		logger.Info("Persistent context - keeping the application open")
		m.ready = false

		return nil
	}

	if m.browserCtx != nil {
		if err := m.browserCtx.Close(); err != nil {
			logger.Warn("Failed to close context", zap.Error(err))
		}
	}

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			logger.Warn("Failed to close application", zap.Error(err))
		}
	}

	if m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_stop_failed",
			})
		}
	}

	m.ready = false
	logger.Info("Application closed")

	return nil
}

func (m *Manager) ensurePageActive() error {
	if m.browserCtx == nil {
		return fmt.Errorf("application context is nil")
	}

	if m.page != nil && !m.page.IsClosed() {
		return nil
	}

	m.logger.Info("Window closed, reconnecting to active window...")

	for _, p := range m.browserCtx.Pages() {
		if !p.IsClosed() {
			m.page = p
			m.logger.Info("Reconnected to existing window")

			return nil
		}
	}

	page, err := m.browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create new window: %w", err)
	}

	m.page = page
	m.logger.Info("Created new window")

	return nil
}

// Page returns the active window as a ports.Page.
func (m *Manager) Page() (ports.Page, error) {
	const op = "Page"

	if !m.ready {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeAppNotReady, "app_not_ready")
	}

	if err := m.ensurePageActive(); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeAppNotReady, err, map[string]any{
			apperr.MetaReason: "page_not_active",
		})
	}

	return &pageAdapter{page: m.page}, nil
}

func (m *Manager) IsReady() bool {
	return m.ready
}
