package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/BayAreaMetro/transit-fares/fares"
	"github.com/BayAreaMetro/transit-fares/journey"
	"github.com/BayAreaMetro/transit-fares/network"
	"github.com/BayAreaMetro/transit-fares/report"
	. "github.com/BayAreaMetro/transit-fares/util"
	"golang.org/x/exp/slog"
)

// RunFareCalculation executes the full fare pipeline against the network
// snapshot. The report is flushed to both renderings whether the run
// succeeds or fails; errors and panics are appended to it first.
func RunFareCalculation(config Config, net *network.Network) (err error) {
	rep := report.New("fare_calculation_" + config.Run.Period)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fare calculation failed: %v", r)
			rep.Error(err, string(debug.Stack()))
		} else if err != nil {
			rep.Error(err, "")
		}
		if werr := rep.WriteFiles(config.Run.OutputDir); werr != nil {
			slog.Error("failed to write report", "error", werr.Error())
		}
	}()

	rep.Header("Fare calculation for period " + config.Run.Period)

	systems, matrices, err := _LoadFareInputs(config)
	if err != nil {
		return err
	}
	slog.Info("parsed fare inputs", "systems", systems.Length(), "matrices", matrices.Length())

	estimator := fares.NewEstimator(net, matrices, rep, config.Fares.ZoneShareThreshold)
	estimator.AssignLines(systems)
	for _, system := range systems {
		if err = estimator.EstimateSystem(system); err != nil {
			return err
		}
	}

	rep.Header("Fare system transfers")
	distances := fares.BuildDistanceTable(systems)
	transfers := fares.BuildTransferTable(systems, distances, config.Fares.MaxTransferDistance, rep)
	fares.ReportTables(systems, distances, transfers, rep)

	groups := fares.GroupSystems(systems, transfers, rep)

	builder := journey.NewBuilder(net, rep)
	table, patch, err := builder.Build(groups)
	if err != nil {
		return err
	}
	if err = patch.Apply(net); err != nil {
		return err
	}

	rep.Header("Journey level tables")
	file := journey.WriteSpec(table, config.Run.OutputDir, config.Run.Period, "ALLPEN")
	rep.Text("wrote " + file)
	for _, variant := range config.Variants {
		filtered := table.FilterByModes(variant.Modes)
		file = journey.WriteSpec(filtered, config.Run.OutputDir, config.Run.Period, variant.Name)
		rep.Text("wrote " + file)
	}
	return nil
}

func _LoadFareInputs(config Config) (List[*fares.FareSystem], fares.FareMatrix, error) {
	system_file, err := os.Open(config.Fares.SystemFile)
	if err != nil {
		return nil, nil, err
	}
	defer system_file.Close()
	systems, err := fares.ParseFareSystems(system_file, config.Fares.SystemFile)
	if err != nil {
		return nil, nil, err
	}

	matrix_file, err := os.Open(config.Fares.MatrixFile)
	if err != nil {
		return nil, nil, err
	}
	defer matrix_file.Close()
	matrices, err := fares.ParseFareMatrix(matrix_file, config.Fares.MatrixFile)
	if err != nil {
		return nil, nil, err
	}
	return systems, matrices, nil
}
