// Package main implements the device capability negotiation tool. It runs
// one negotiation pass against a physical device (live or snapshot) and
// prints the resulting enabled-extension list.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
	"github.com/darkace1998/vulkan-device-info/internal/config"
	"github.com/darkace1998/vulkan-device-info/internal/device"
	"github.com/darkace1998/vulkan-device-info/internal/logger"
	"github.com/darkace1998/vulkan-device-info/internal/probe"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	snapshotPath := flag.String("snapshot", "", "Negotiate against a device snapshot file instead of live hardware")
	capturePath := flag.String("capture", "", "Capture a snapshot of the live device to this path and exit")
	preferred := flag.String("device", "", "Preferred device name (substring match)")
	guardList := flag.String("guards", "", "Comma-separated guard names to activate")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text, json")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags override file settings.
	if *snapshotPath != "" {
		cfg.Device.Snapshot = *snapshotPath
	}
	if *preferred != "" {
		cfg.Device.Preferred = *preferred
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if *guardList != "" {
		cfg.Guards = append(cfg.Guards, strings.Split(*guardList, ",")...)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		var err error
		cat, err = config.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			slog.Error("Failed to load catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
	}

	guards := make(probe.GuardSet, len(cfg.Guards))
	for _, g := range cfg.Guards {
		guards[strings.TrimSpace(g)] = true
	}

	var dev probe.DeviceQueries
	if cfg.Device.Snapshot != "" {
		snap, err := device.LoadSnapshot(cfg.Device.Snapshot)
		if err != nil {
			slog.Error("Failed to load device snapshot", "path", cfg.Device.Snapshot, "error", err)
			os.Exit(1)
		}
		slog.Info("Negotiating against device snapshot",
			"path", cfg.Device.Snapshot,
			"device", snap.DeviceName,
		)
		dev = device.NewStaticProvider(snap)
	} else {
		provider, err := device.NewDetector(cfg.Device.Preferred).Open()
		if err != nil {
			slog.Error("Failed to open Vulkan device", "error", err)
			os.Exit(1)
		}
		defer provider.Close()

		if *capturePath != "" {
			snap, err := provider.Capture()
			if err != nil {
				slog.Error("Failed to capture device snapshot", "error", err)
				os.Exit(1)
			}
			if err := snap.WriteFile(*capturePath); err != nil {
				slog.Error("Failed to write device snapshot", "path", *capturePath, "error", err)
				os.Exit(1)
			}
			slog.Info("Device snapshot written", "path", *capturePath, "device", snap.DeviceName)
			return
		}
		dev = provider
	}

	passID := uuid.New().String()[:8]
	info, err := probe.Negotiate(dev, cat, probe.Options{Guards: guards, PassID: passID})
	if err != nil {
		slog.Error("Capability negotiation failed", "pass", passID, "error", err)
		os.Exit(1)
	}

	fmt.Printf("API version: %s\n", info.APIVersion)
	fmt.Printf("Enabled extensions (%d):\n", info.Enabled.Count())
	for _, name := range info.Enabled.Names {
		fmt.Printf("  %s\n", name)
	}
}
