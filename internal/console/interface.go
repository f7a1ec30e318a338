package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"appdriver/internal/config"
	"appdriver/internal/usecase"
	"appdriver/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Interface struct {
	config   *config.Config
	logger   *zap.Logger
	usecase  *usecase.Service
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	stopping bool
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)

	return &Interface{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:  params.Usecase,
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  sigChan,
		stopping: false,
	}
}

func (i *Interface) Start() error {
	i.printHelp()

	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-i.sigChan
		fmt.Println("\nInterrupt received, shutting down...")
		i.stopping = true
		i.Stop()
	}()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		if i.stopping {
			break
		}

		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if err.Error() == "exit" {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Printf("Error: %v\n", err)
		}
	}

	return nil
}

func (i *Interface) Stop() error {
	if i.stopping {
		return nil
	}

	i.stopping = true
	i.logger.Info("Stopping console interface...")

	i.cancel()
	i.usecase.Session.Reset()

	fmt.Println("Goodbye!")
	os.Exit(0)

	return nil
}

func (i *Interface) handleCommand(input string) error {
	fields := strings.Fields(input)
	command := fields[0]
	args := fields[1:]

	switch command {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Println("Shutting down...")

		return fmt.Errorf("exit")
	case "snapshot":
		return i.cmdSnapshot()
	case "show":
		return i.cmdShow()
	case "click":
		return i.cmdClick(args)
	case "type":
		return i.cmdType(args, true)
	case "append":
		return i.cmdType(args, false)
	case "value":
		return i.cmdValue(args)
	case "locate":
		return i.cmdLocate(args)
	case "record":
		return i.cmdRecord(args)
	case "export":
		return i.cmdExport(args)
	case "codegen":
		return i.cmdCodegen(args)
	case "screenshot":
		return i.cmdScreenshot(args)
	default:
		return fmt.Errorf("unknown command %q, type 'help' for usage", command)
	}
}

func (i *Interface) cmdSnapshot() error {
	if _, err := i.usecase.Session.CaptureSnapshot(i.ctx); err != nil {
		return err
	}

	return i.cmdShow()
}

func (i *Interface) cmdShow() error {
	text, err := i.usecase.Session.FormatSnapshotAsText()
	if err != nil {
		return err
	}

	fmt.Print(text)

	return nil
}

func (i *Interface) cmdClick(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: click <ref>")
	}

	if err := i.usecase.Session.ClickRef(i.ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Clicked %s\n", args[0])

	return nil
}

func (i *Interface) cmdType(args []string, clear bool) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: type|append <ref> <text>")
	}

	text := strings.Join(args[1:], " ")

	if err := i.usecase.Session.TypeRef(i.ctx, args[0], text, clear); err != nil {
		return err
	}

	fmt.Printf("Typed into %s\n", args[0])

	return nil
}

func (i *Interface) cmdValue(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: value <ref>")
	}

	value, err := i.usecase.Session.ValueOfRef(i.ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s = %q\n", args[0], value)

	return nil
}

func (i *Interface) cmdLocate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: locate <description>")
	}

	candidates, err := i.usecase.Session.GenerateLocator(strings.Join(args, " "))
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		fmt.Println("No matching elements")

		return nil
	}

	for _, c := range candidates {
		fmt.Printf("[%s] score=%d selectors=%s\n", c.Reference, c.Score, strings.Join(c.Selectors, " | "))
	}

	return nil
}

func (i *Interface) cmdRecord(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: record start|stop|status|clear")
	}

	switch args[0] {
	case "start":
		i.usecase.Session.StartRecording()
		i.usecase.Session.RecordTool("launch", map[string]any{
			"appPath": i.config.DriverConfig.BinaryPath,
		})
		fmt.Println("Recording started")
	case "stop":
		i.usecase.Session.RecordTool("close", map[string]any{})
		log := i.usecase.Session.StopRecording()
		fmt.Printf("Recording stopped, %d actions captured\n", len(log))
	case "status":
		status := i.usecase.Session.RecordingStatus()
		fmt.Printf("enabled=%v count=%d\n", status.Enabled, status.Count)
	case "clear":
		i.usecase.Session.ClearRecording()
		fmt.Println("Recording cleared")
	default:
		return fmt.Errorf("usage: record start|stop|status|clear")
	}

	return nil
}

func (i *Interface) cmdExport(args []string) error {
	target := "recording"
	if len(args) > 0 {
		target = args[0]
	}

	var (
		data []byte
		err  error
	)

	switch target {
	case "recording":
		data, err = i.usecase.Session.ExportRecording()
	case "console":
		data, err = i.usecase.Session.ExportConsole()
	case "network":
		data, err = i.usecase.Session.ExportNetwork()
	default:
		return fmt.Errorf("usage: export [recording|console|network]")
	}

	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}

func (i *Interface) cmdCodegen(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: codegen <format> [test name]")
	}

	testName := strings.Join(args[1:], " ")

	src, err := i.usecase.Codegen.SynthesizeTest(i.ctx, args[0], testName, "")
	if err != nil {
		return err
	}

	fmt.Println(src)

	return nil
}

func (i *Interface) cmdScreenshot(args []string) error {
	filename := "screenshot.png"
	if len(args) > 0 {
		filename = args[0]
	}

	data, err := i.usecase.Session.CaptureScreen(i.ctx, filename)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return err
	}

	fmt.Printf("Saved %s (%d bytes)\n", filename, len(data))

	return nil
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  snapshot                 - Capture a fresh snapshot and print it
  show                     - Print the current snapshot
  click <ref>              - Click the element behind a reference (e.g. click e3)
  type <ref> <text>        - Replace the element's value with text
  append <ref> <text>      - Append text to the element's value
  value <ref>              - Print the element's current value
  locate <description>     - Rank locator candidates for a free-text description
  record start|stop|status|clear
  export [recording|console|network]
                           - Print a session buffer as JSON (default: recording)
  codegen <format> [name]  - Synthesize test source (webdriverio-js, webdriverio-ts,
                             playwright-js, playwright-ts)
  screenshot [file]        - Capture a screenshot to a file
  help, h                  - Show this help message
  exit, quit, q            - Exit
`
	fmt.Println(help)
}
