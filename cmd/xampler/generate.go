package main

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/pihentagy/xampler/internal/commandline"
	"github.com/pihentagy/xampler/xmlgen"
	"github.com/pihentagy/xampler/xmltree"
)

type generateParams struct {
	element    string
	namespace  string
	configFile string
	out        string
	indent     string
	logLevel   string
	seed       int64
	maxRepeat  int
	maxDepth   int
	nilChance  float64
	defaults   bool
	repeat     commandline.Pairs
	values     commandline.Pairs
}

func newGenerateCmd(client *http.Client) *cobra.Command {
	params := generateParams{}
	cmd := &cobra.Command{
		Use:   "generate schema.xsd...",
		Short: "Generate a random XML document that follows the schema",
		Long: `Generate a random XML document that follows the schema.

The schema documents named on the command line are read together with the
documents they import or include. The root element is chosen with --element;
it may be left out when the schema declares a single top-level element.

Occurrence counts and values can be fixed by element name, or by
element@attribute for attributes, with --repeat and --value or with the
repeat and values maps of a YAML file given with --config.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevel(params.logLevel); err != nil {
				return err
			}
			ov, err := params.overrides(cmd)
			if err != nil {
				return err
			}
			schemas, err := parseSchemas(client, args)
			if err != nil {
				return err
			}
			root, err := selectRoot(schemas, params.element, params.namespace)
			if err != nil {
				return err
			}
			doc, err := xmlgen.New(ov.options()...).Generate(root)
			if err != nil {
				return err
			}
			return params.write(cmd.OutOrStdout(), doc)
		},
	}
	cmd.SilenceErrors = true
	flags := cmd.Flags()
	flags.StringVarP(&params.element, "element", "e", "", "Name of the root element")
	flags.StringVar(&params.namespace, "ns", "", "Name space of the root element")
	flags.StringVarP(&params.configFile, "config", "c", "", "YAML file with generation settings")
	flags.StringVarP(&params.out, "out", "o", "", "Write the document to a file instead of standard output")
	flags.StringVar(&params.indent, "indent", "  ", "Indentation of nested elements")
	flags.StringVar(&params.logLevel, "log-level", "", "Log level: none, error, warning, info, verbose or trace")
	flags.Int64Var(&params.seed, "seed", 0, "Seed of the random generator (default: random)")
	flags.IntVar(&params.maxRepeat, "max-repeat", 100, "Largest number of occurrences of an unbounded element")
	flags.IntVar(&params.maxDepth, "max-depth", 64, "Deepest allowed nesting of elements")
	flags.Float64Var(&params.nilChance, "nil-chance", 0, "Probability that a nillable element is generated with xsi:nil")
	flags.BoolVar(&params.defaults, "use-defaults", false, "Use declared default values instead of generated ones")
	flags.Var(&params.repeat, "repeat", "Fix the occurrences of an element or presence of an attribute, as name=count (repeatable)")
	flags.Var(&params.values, "value", "Fix the value of an element or attribute, as name=value (repeatable)")
	return cmd
}

// overrides reads the config file, if any, and applies the flags that
// were set on the command line on top of it.
func (p *generateParams) overrides(cmd *cobra.Command) (ov overrides, err error) {
	if p.configFile != "" {
		if ov, err = readOverrides(p.configFile); err != nil {
			return ov, err
		}
	}
	var flags overrides
	changed := cmd.Flags().Changed
	if changed("seed") {
		flags.Seed = &p.seed
	}
	if changed("max-repeat") {
		flags.MaxRepeat = &p.maxRepeat
	}
	if changed("max-depth") {
		flags.MaxDepth = &p.maxDepth
	}
	if changed("nil-chance") {
		flags.NilChance = &p.nilChance
	}
	if changed("use-defaults") {
		flags.UseDefaults = &p.defaults
	}
	if flags.Repeat, err = p.repeat.Ints(); err != nil {
		return ov, err
	}
	flags.Values = p.values.Strings()
	if err := flags.validate(); err != nil {
		return ov, err
	}
	ov.merge(flags)
	return ov, nil
}

func (p *generateParams) write(stdout io.Writer, doc *xmltree.Element) (err error) {
	w := stdout
	if p.out != "" {
		f, ferr := os.Create(p.out)
		if ferr != nil {
			return errors.Trace(ferr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = errors.Trace(cerr)
			}
		}()
		w = f
	}
	if _, err := io.WriteString(w, xmltree.Header); err != nil {
		return errors.Trace(err)
	}
	if err := xmltree.EncodeIndent(w, doc, "", p.indent); err != nil {
		return errors.Trace(err)
	}
	_, err = io.WriteString(w, "\n")
	return errors.Trace(err)
}

var logLevels = map[string]logger.TLogLevel{
	"none":    logger.LogLevelNone,
	"error":   logger.LogLevelError,
	"warning": logger.LogLevelWarning,
	"info":    logger.LogLevelInfo,
	"verbose": logger.LogLevelVerbose,
	"trace":   logger.LogLevelTrace,
}

func setLogLevel(name string) error {
	if name == "" {
		return nil
	}
	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return errors.NotValidf("log level %q", name)
	}
	logger.SetLogLevel(level)
	return nil
}
