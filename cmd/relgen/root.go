package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonlawlor/relpipe/internal/gen"
	"github.com/jonlawlor/relpipe/source"
)

const version = "relgen 1.0"

// knownError is a failure relgen expects, like a bad argument.  Its message
// is printed as it is.
type knownError struct {
	msg string
}

func (e *knownError) Error() string { return e.msg }

func fatalf(format string, args ...any) error {
	return &knownError{fmt.Sprintf(format, args...)}
}

// isKnown is true for errors that are reported without the "unexpected"
// prefix
func isKnown(err error) bool {
	cause := errors.Cause(err)
	if _, ok := cause.(*knownError); ok {
		return true
	}
	return cause == source.ErrNotFound || cause == source.ErrUnsupportedKind
}

// traceLevels maps the --trace flag to logrus levels
var traceLevels = []logrus.Level{logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel, logrus.DebugLevel, logrus.TraceLevel}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "relgen <sourceKind> <rootName> <connectionLocator>",
		Short: "Generate Go tuple types from the tables of a source",
		Long: `relgen reads the schema of a source and writes <rootName>.gen.go, with one
tuple struct per table.  System tables are skipped.

sourceKind is one of ` + strings.Join(source.Kinds, ", ") + `.  For csv and txt
sources the locator is a directory, and for databases it is a connection string.

$ relgen sqlite Northwind ./northwind.db --package northwind
$ relgen sql Sales "user:pass@tcp(localhost:3306)/sales" --driver mysql -n 2`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return fatalf("three arguments required, see relgen --help")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, cmd, args[0], args[1], args[2])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fatalf("%v", err)
	})
	cmd.Flags().IntP("trace", "n", 1, "tracing level, 0 to 4")
	cmd.Flags().String("driver", "sqlite", "database driver for the sql kind of source")
	cmd.Flags().String("package", "", "package of the generated file (default is the lower cased root name)")
	cmd.Flags().String("out", ".", "directory the generated file is written to")
	cmd.Flags().String("config", "", "config file")
	return cmd
}

// loadConfig reads flags, the config file and RELGEN_ environment variables
// into v.  Flags that are set take precedence.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("relgen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return fatalf("reading config file %s: %v", cfg, err)
		}
	}
	return nil
}

func newLogger(cmd *cobra.Command, trace int) (*logrus.Logger, error) {
	if trace < 0 || trace >= len(traceLevels) {
		return nil, fatalf("trace level %d is not between 0 and %d", trace, len(traceLevels)-1)
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(traceLevels[trace])
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}

func run(ctx context.Context, v *viper.Viper, cmd *cobra.Command, kind, root, locator string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if root == "" {
		return fatalf("data source must have a name")
	}
	if !lo.Contains(source.Kinds, kind) {
		return fatalf("invalid source kind %q", kind)
	}
	trace := v.GetInt("trace")
	log, err := newLogger(cmd, trace)
	if err != nil {
		return err
	}
	driver := v.GetString("driver")
	if kind != "sql" {
		driver = kind
	}
	shown := source.Redact(driver, locator)
	log.Infof("%s %s %s", kind, root, shown)

	src, err := source.Open(kind, locator, source.WithLogger(log), source.WithDriver(driver))
	if err != nil {
		return err
	}
	defer src.Close()

	tables, err := readSchema(ctx, log, src)
	if err != nil {
		return err
	}

	pkg := v.GetString("package")
	if pkg == "" {
		pkg = strings.ToLower(gen.Identifier(root))
	}
	var buf bytes.Buffer
	if err := gen.Generate(&buf, gen.Options{Package: pkg, Root: root, Kind: kind, Locator: shown}, tables); err != nil {
		return err
	}
	if trace >= 3 {
		fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	}
	path := filepath.Join(v.GetString("out"), root+".gen.go")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing generated file")
	}
	log.WithField("tables", len(tables)).Infof("wrote %s", path)
	return nil
}

// readSchema lists the user tables of src, with their fields
func readSchema(ctx context.Context, log logrus.FieldLogger, src source.Source) ([]gen.Table, error) {
	schema, err := src.Select(ctx, "")
	if err != nil {
		return nil, err
	}
	rows, err := schema.Rows(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []gen.Table
	for rows.Next() {
		vals := rows.Values()
		name, typ := fmt.Sprint(vals[0]), fmt.Sprint(vals[1])
		if typ == source.SystemTable {
			log.Debugf("%s (%s) skipped", name, typ)
			continue
		}
		tbl, err := src.Select(ctx, name)
		if err != nil {
			log.WithError(err).Warnf("table %q of type %s skipped", name, typ)
			continue
		}
		tables = append(tables, gen.Table{Name: name, Fields: tbl.Fields()})
		log.Debugf("%s (%s) => %s", name, typ, strings.Join(lo.Map(tbl.Fields(), func(f source.Field, _ int) string { return f.String() }), ","))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// execute runs cmd with args, prints any error to the command's output, and
// returns the exit status.
func execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	fmt.Fprintln(cmd.OutOrStdout(), version)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if isKnown(err) {
		fmt.Fprintln(cmd.OutOrStdout(), err)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Unexpected exception: %+v\n", err)
	}
	return 1
}
