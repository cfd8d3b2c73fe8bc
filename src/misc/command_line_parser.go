package misc

import (
	"fmt"
	"strconv"
	"strings"
)

type OptionType int

const (
	INT OptionType = iota
	STRING
)

type Option struct {
	option_type   OptionType
	name          string
	default_value string
	help_msg      string
	value         string
}

type CommandLineParser struct {
	options map[string]*Option
	order   []string

	args     []string
	args_set map[string]bool
}

func (this *CommandLineParser) Init() {
	this.options = make(map[string]*Option)
	this.order = make([]string, 0)
	this.args = make([]string, 0)
	this.args_set = make(map[string]bool)
}

func (this *CommandLineParser) AddOption(
	option_type OptionType,
	name string,
	default_value string,
	help_msg string,
) {
	if _, ok := this.options[name]; ok {
		err := fmt.Errorf("option %s is already registered", name)
		panic(err)
	}

	if option_type == INT {
		if _, atoi_err := strconv.ParseInt(default_value, 10, 64); atoi_err != nil {
			panic(atoi_err)
		}
	}

	this.options[name] = &Option{
		option_type:   option_type,
		name:          name,
		default_value: default_value,
		help_msg:      help_msg,
		value:         default_value,
	}
	this.order = append(this.order, name)
}

func (this *CommandLineParser) Parse(args []string) {
	this.args = args

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			err := fmt.Errorf("argument %s does not start with --", arg)
			panic(err)
		}

		name := strings.TrimPrefix(arg, "--")
		value := ""
		has_value := false
		if eq := strings.Index(name, "="); eq >= 0 {
			value = name[eq+1:]
			name = name[:eq]
			has_value = true
		}

		this.args_set[name] = true

		if name == "help" {
			continue
		}

		option, ok := this.options[name]
		if !ok {
			err := fmt.Errorf("option %s is not registered", name)
			panic(err)
		}

		if !has_value {
			i++
			if i >= len(args) {
				err := fmt.Errorf("option %s requires a value", name)
				panic(err)
			}
			value = args[i]
		}

		if option.option_type == INT {
			if _, atoi_err := strconv.ParseInt(value, 10, 64); atoi_err != nil {
				panic(atoi_err)
			}
		}

		option.value = value
	}
}

func (this *CommandLineParser) IsArgSet(name string) bool {
	return this.args_set[name]
}

func (this *CommandLineParser) IntParameter(name string) int64 {
	option, ok := this.options[name]
	if !ok {
		err := fmt.Errorf("option %s is not registered", name)
		panic(err)
	}

	if option.option_type != INT {
		err := fmt.Errorf("option %s is not an int option", name)
		panic(err)
	}

	value, atoi_err := strconv.ParseInt(option.value, 10, 64)
	if atoi_err != nil {
		panic(atoi_err)
	}
	return value
}

func (this *CommandLineParser) StringParameter(name string) string {
	option, ok := this.options[name]
	if !ok {
		err := fmt.Errorf("option %s is not registered", name)
		panic(err)
	}

	if option.option_type != STRING {
		err := fmt.Errorf("option %s is not a string option", name)
		panic(err)
	}
	return option.value
}

func (this *CommandLineParser) StringifyHelpMsgs() string {
	lines := make([]string, 0, len(this.order))
	for _, name := range this.order {
		option := this.options[name]
		lines = append(
			lines,
			fmt.Sprintf("--%s (default: %s): %s", option.name, option.default_value, option.help_msg),
		)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (this *CommandLineParser) StringifyArgs() string {
	return strings.Join(this.args, " ")
}

func (this *CommandLineParser) StringifyOptions() string {
	lines := make([]string, 0, len(this.order))
	for _, name := range this.order {
		option := this.options[name]
		lines = append(lines, fmt.Sprintf("%s=%s", option.name, option.value))
	}
	return strings.Join(lines, "\n")
}
