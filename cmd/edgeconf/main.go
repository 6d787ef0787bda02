package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/edgeconf/internal/application"
	"github.com/eugenenazirov/edgeconf/internal/config"
	"github.com/eugenenazirov/edgeconf/internal/logging"
	"github.com/eugenenazirov/edgeconf/internal/prompt"
	"github.com/eugenenazirov/edgeconf/internal/propagate"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("edgeconf", "Propagates controller, orchestrator and node addresses into EDGELESS configuration files")
	kingpinApp.UsageWriter(stdout)
	kingpinApp.ErrorWriter(stderr)

	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	root := kingpinApp.Flag("root", "Directory containing the EDGELESS checkout and the latency measurement tool").String()
	edgelessDir := kingpinApp.Flag("edgeless-dir", "EDGELESS checkout directory, relative to --root").String()
	latencyConfig := kingpinApp.Flag("latency-config", "Latency measurement config.json, relative to --root").String()
	variant := kingpinApp.Flag("variant", "Build variant to update (skips the menu)").Enum("", propagate.VariantDebug, propagate.VariantRelease)
	nodeIP := kingpinApp.Flag("node-ip", "Node IP address (skips the prompt)").String()
	controllerIP := kingpinApp.Flag("controller-ip", "Controller/Orchestrator IP address (skips the prompt)").String()
	logFormat := kingpinApp.Flag("log-format", "Log output format").Enum("", "console", "json")

	var dryRunSet, strictSet, verboseSet bool
	dryRun := kingpinApp.Flag("dry-run", "Report planned changes without writing files").IsSetByUser(&dryRunSet).Bool()
	strict := kingpinApp.Flag("strict", "Exit with status 1 when any file is not updated").IsSetByUser(&strictSet).Bool()
	verbose := kingpinApp.Flag("verbose", "Log every rewritten key").Short('v').IsSetByUser(&verboseSet).Bool()

	if _, err := kingpinApp.Parse(args); err != nil {
		fmt.Fprintf(stderr, "edgeconf: %v\n", err)
		return exitUsage
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *root != "" {
		overrides.Root = root
	}

	if *edgelessDir != "" {
		overrides.EdgelessDir = edgelessDir
	}

	if *latencyConfig != "" {
		overrides.LatencyConfig = latencyConfig
	}

	if *variant != "" {
		overrides.Variant = variant
	}

	if *nodeIP != "" {
		overrides.NodeIP = nodeIP
	}

	if *controllerIP != "" {
		overrides.ControllerIP = controllerIP
	}

	if *logFormat != "" {
		overrides.LogFormat = logFormat
	}

	if dryRunSet {
		overrides.DryRun = dryRun
	}
	if strictSet {
		overrides.Strict = strict
	}
	if verboseSet {
		overrides.Verbose = verbose
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(logging.Options{
		Format:  cfg.LogFormat,
		Verbose: cfg.Verbose,
		Output:  zapcore.AddSync(stdout),
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitUsage
	}
	defer func() {
		_ = logger.Sync()
	}()

	selected, in, err := collectInputs(cfg, prompt.New(stdin, stdout))
	if errors.Is(err, prompt.ErrInvalidChoice) {
		logger.Error("Invalid choice")
		return exitOK
	}
	if err != nil {
		logger.Error("failed to read operator input", zap.Error(err))
		return exitFailed
	}

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return exitFailed
	}

	// Only installed once prompting is over, so Ctrl-C still aborts a pending prompt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.Run(ctx, selected, in); err != nil {
		logger.Error("propagation incomplete", zap.Error(err))
		return exitFailed
	}
	return exitOK
}

// collectInputs asks for whatever the configuration left unset, in the order
// variant, node address, controller address.
func collectInputs(cfg config.Config, p *prompt.Prompter) (string, propagate.Inputs, error) {
	in := propagate.Inputs{NodeIP: cfg.NodeIP, ControllerIP: cfg.ControllerIP}

	variant := cfg.Variant
	if variant == "" {
		v, err := p.Variant(cfg.EdgelessDir)
		if err != nil {
			return "", in, err
		}
		variant = v
	}

	if in.NodeIP == "" {
		ip, err := p.NodeIP()
		if err != nil {
			return "", in, err
		}
		in.NodeIP = ip
	}

	if in.ControllerIP == "" {
		ip, err := p.ControllerIP()
		if err != nil {
			return "", in, err
		}
		in.ControllerIP = ip
	}

	return variant, in, nil
}
