package misc

import "testing"

func validatedParser() *CommandLineParser {
	parser := new(CommandLineParser)
	parser.Init()
	parser.AddOption(INT, "verbose", "0", "verbosity of the bench")
	parser.AddOption(STRING, "test", "simple", "test to run")
	parser.AddOption(INT, "num_items", "5", "number of items")
	parser.AddOption(INT, "seed", "1", "random seed")
	parser.AddOption(INT, "matrix_size", "3", "matrix dimension N")
	parser.AddOption(INT, "mat_bus_width", "16", "element bus width")
	parser.AddOption(INT, "det_bus_width", "16", "determinant bus width")
	parser.AddOption(STRING, "idle_data", "zero", "idle data policy")
	parser.AddOption(INT, "delay_tolerance", "2", "delay tolerance")
	parser.AddOption(INT, "pipeline_latency", "9", "pipeline latency")
	parser.AddOption(INT, "ack_delay", "0", "ack delay")
	parser.AddOption(INT, "num_cycles", "100000", "cycle budget")
	parser.AddOption(INT, "reset_pulses", "20", "reset pulses")
	return parser
}

func validate(parser *CommandLineParser) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()

	validator := new(CommandLineValidator)
	validator.Init(parser)
	validator.Validate()
	return false
}

func TestValidateAcceptsDefaults(t *testing.T) {
	parser := validatedParser()
	parser.Parse([]string{"detbench"})

	if validate(parser) {
		t.Fatalf("defaults must validate")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := [][]string{
		{"detbench", "--test", "bogus"},
		{"detbench", "--num_items", "0"},
		{"detbench", "--verbose", "-1"},
		{"detbench", "--matrix_size", "0"},
		{"detbench", "--mat_bus_width", "1"},
		{"detbench", "--mat_bus_width", "21"},
		{"detbench", "--matrix_size", "4", "--mat_bus_width", "16"},
		{"detbench", "--det_bus_width", "1"},
		{"detbench", "--idle_data", "floating"},
		{"detbench", "--delay_tolerance", "-1"},
		{"detbench", "--pipeline_latency", "0"},
		{"detbench", "--ack_delay", "-1"},
		{"detbench", "--num_cycles", "0"},
		{"detbench", "--reset_pulses", "-1"},
	}

	for _, args := range cases {
		parser := validatedParser()
		parser.Parse(args)

		if !validate(parser) {
			t.Fatalf("expected validation panic for %v", args)
		}
	}
}

// The element width is capped so the integer determinant cannot overflow
// int64: 20 bits is the widest safe width for a 3x3 matrix, 15 for 4x4.
func TestValidateMatBusWidthDeterminantBound(t *testing.T) {
	accepts := [][]string{
		{"detbench", "--mat_bus_width", "20"},
		{"detbench", "--matrix_size", "4", "--mat_bus_width", "15"},
		{"detbench", "--matrix_size", "1", "--mat_bus_width", "62"},
	}
	for _, args := range accepts {
		parser := validatedParser()
		parser.Parse(args)

		if validate(parser) {
			t.Fatalf("expected %v to validate", args)
		}
	}

	if limit := maxMatBusWidth(3); limit != 20 {
		t.Fatalf("safe width for matrix_size 3: expected 20, got %d", limit)
	}
	if limit := maxMatBusWidth(4); limit != 15 {
		t.Fatalf("safe width for matrix_size 4: expected 15, got %d", limit)
	}
}

func TestValidateAcceptsHizIdleData(t *testing.T) {
	parser := validatedParser()
	parser.Parse([]string{"detbench", "--idle_data", "hiz"})

	if validate(parser) {
		t.Fatalf("hiz idle_data must validate")
	}
}
