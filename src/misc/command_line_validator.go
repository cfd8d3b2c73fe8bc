package misc

import (
	"errors"
	"fmt"
	"math"
)

type CommandLineValidator struct {
	command_line_parser *CommandLineParser
}

func (this *CommandLineValidator) Init(command_line_parser *CommandLineParser) {
	this.command_line_parser = command_line_parser
}

func (this *CommandLineValidator) Validate() {
	test := this.command_line_parser.StringParameter("test")
	switch test {
	case "simple", "random", "stress", "small", "multi_reset":
	default:
		err := fmt.Errorf("test %s is not supported", test)
		panic(err)
	}

	if this.command_line_parser.IntParameter("num_items") <= 0 {
		err := errors.New("num_items <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("verbose") < 0 {
		err := errors.New("verbose < 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("matrix_size") <= 0 {
		err := errors.New("matrix_size <= 0")
		panic(err)
	}

	mat_bus_width := this.command_line_parser.IntParameter("mat_bus_width")
	width_limit := maxMatBusWidth(this.command_line_parser.IntParameter("matrix_size"))
	if mat_bus_width < 2 || mat_bus_width > width_limit {
		err := fmt.Errorf("mat_bus_width %d is out of range (2 to %d for matrix_size %d)",
			mat_bus_width, width_limit, this.command_line_parser.IntParameter("matrix_size"))
		panic(err)
	}

	det_bus_width := this.command_line_parser.IntParameter("det_bus_width")
	if det_bus_width < 2 || det_bus_width > 62 {
		err := fmt.Errorf("det_bus_width %d is out of range", det_bus_width)
		panic(err)
	}

	idle_data := this.command_line_parser.StringParameter("idle_data")
	if idle_data != "zero" && idle_data != "unknown" && idle_data != "hiz" {
		err := fmt.Errorf("idle_data %s is not supported", idle_data)
		panic(err)
	}

	if this.command_line_parser.IntParameter("delay_tolerance") < 0 {
		err := errors.New("delay_tolerance < 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("pipeline_latency") <= 0 {
		err := errors.New("pipeline_latency <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("ack_delay") < 0 {
		err := errors.New("ack_delay < 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("num_cycles") <= 0 {
		err := errors.New("num_cycles <= 0")
		panic(err)
	}

	if this.command_line_parser.IntParameter("reset_pulses") < 0 {
		err := errors.New("reset_pulses < 0")
		panic(err)
	}
}

// maxMatBusWidth returns the widest signed element width for which an
// N-by-N integer determinant stays within int64: the cofactor expansion is
// bounded by N! * 2^(N*(W-1)), which must not exceed 2^62.
func maxMatBusWidth(matrix_size int64) int64 {
	log_factorial := 0.0
	for i := int64(2); i <= matrix_size; i++ {
		log_factorial += math.Log2(float64(i))
	}
	width := int64(math.Floor((62.0-log_factorial)/float64(matrix_size))) + 1
	if width > 62 {
		width = 62
	}
	return width
}
