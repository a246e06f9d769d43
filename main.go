package main

import (
	"os"

	"github.com/BayAreaMetro/transit-fares/network"
	"golang.org/x/exp/slog"
)

func main() {
	InitLogging()

	config_file := "./config.yaml"
	if len(os.Args) > 1 {
		config_file = os.Args[1]
	}
	config, err := ReadConfig(config_file)
	if err != nil {
		slog.Error("invalid config: " + err.Error())
		os.Exit(1)
	}
	if err := os.MkdirAll(config.Run.OutputDir, 0755); err != nil {
		slog.Error("failed to create output dir: " + err.Error())
		os.Exit(1)
	}

	slog.Info("loading network snapshot", "file", config.Network.Snapshot)
	net := network.Load(config.Network.Snapshot)
	slog.Info("loaded network", "nodes", net.NodeCount(), "links", net.LinkCount(), "lines", net.Lines().Length())

	if err := RunFareCalculation(config, net); err != nil {
		slog.Error("run failed: " + err.Error())
		os.Exit(1)
	}
	slog.Info("fare calculation finished")
}
