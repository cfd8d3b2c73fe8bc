package main

import (
	"fmt"
	"os"

	"detbench/src/bench"
	"detbench/src/misc"
)

func main() {
	command_line_parser := InitCommandLineParser()
	command_line_parser.Parse(os.Args)

	if command_line_parser.IsArgSet("help") {
		fmt.Printf("%s", command_line_parser.StringifyHelpMsgs())
		return
	}

	misc.ConfigureRuntime(command_line_parser)

	command_line_validator := new(misc.CommandLineValidator)
	command_line_validator.Init(command_line_parser)
	command_line_validator.Validate()

	logger := misc.NewLogger(misc.RuntimeVerbosity())

	opts := bench.Options{
		Test:            command_line_parser.StringParameter("test"),
		NumItems:        int(command_line_parser.IntParameter("num_items")),
		Seed:            command_line_parser.IntParameter("seed"),
		MatrixSize:      int(command_line_parser.IntParameter("matrix_size")),
		MatBusWidth:     int(command_line_parser.IntParameter("mat_bus_width")),
		DetBusWidth:     int(command_line_parser.IntParameter("det_bus_width")),
		IdleData:        command_line_parser.StringParameter("idle_data"),
		DelayTolerance:  int(command_line_parser.IntParameter("delay_tolerance")),
		PipelineLatency: int(command_line_parser.IntParameter("pipeline_latency")),
		AckDelay:        int(command_line_parser.IntParameter("ack_delay")),
		NumCycles:       int(command_line_parser.IntParameter("num_cycles")),
		ResetPulses:     int(command_line_parser.IntParameter("reset_pulses")),
	}

	bench_, err := bench.NewBench(opts, logger)
	if err != nil {
		panic(err)
	}

	if run_err := bench_.Run(); run_err != nil {
		logger.Error("run failed", "err", run_err)
		os.Exit(1)
	}

	check_err := bench_.Check()
	bench_.Report()

	if check_err != nil {
		logger.Error("check failed", "err", check_err)
		os.Exit(1)
	}
	logger.Info("check passed")
}

func InitCommandLineParser() *misc.CommandLineParser {
	command_line_parser := new(misc.CommandLineParser)
	command_line_parser.Init()

	// NOTE: Explanation of verbose level
	// level 0: run progress, reports and verdicts
	// level 1: level 0 + per-transaction detail
	// level 2: level 1 + per-edge detail with source locations
	command_line_parser.AddOption(misc.INT, "verbose", "0", "verbosity of the bench")

	command_line_parser.AddOption(
		misc.STRING,
		"test",
		"simple",
		"test to run (simple|random|stress|small|multi_reset)",
	)
	command_line_parser.AddOption(misc.INT, "num_items", "5",
		"number of items generated by looping sequences")
	command_line_parser.AddOption(misc.INT, "seed", "1", "random seed")

	command_line_parser.AddOption(misc.INT, "matrix_size", "3", "matrix dimension N")
	command_line_parser.AddOption(misc.INT, "mat_bus_width", "16",
		"element bus width in bits")
	command_line_parser.AddOption(misc.INT, "det_bus_width", "16",
		"determinant bus width in bits")

	command_line_parser.AddOption(
		misc.STRING,
		"idle_data",
		"zero",
		"data driven between elements (zero|unknown|hiz)",
	)
	command_line_parser.AddOption(misc.INT, "delay_tolerance", "2",
		"accepted deviation from the expected output delay in cycles")
	command_line_parser.AddOption(misc.INT, "pipeline_latency", "9",
		"fixed pipeline term of the expected output delay in cycles")

	command_line_parser.AddOption(misc.INT, "ack_delay", "0",
		"extra cycles the core model holds off the ack strobe after each element")
	command_line_parser.AddOption(misc.INT, "num_cycles", "100000",
		"clock cycle budget for the whole run")
	command_line_parser.AddOption(misc.INT, "reset_pulses", "20",
		"mid-run reset pulses injected by the multi_reset test")

	return command_line_parser
}
