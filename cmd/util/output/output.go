package output

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

type OutputFormat string

const (
	TableFormat OutputFormat = "table"
	CSVFormat   OutputFormat = "csv"
	JSONFormat  OutputFormat = "json"
	YAMLFormat  OutputFormat = "yaml"
)

const (
	bold  = "\033[1m"
	red   = "\033[31m"
	reset = "\033[0m"
)

var AllFormats = []OutputFormat{TableFormat, CSVFormat, JSONFormat, YAMLFormat}

var noStyle = table.Style{
	Name:   "StyleDefault",
	Box:    table.StyleBoxDefault,
	Color:  table.ColorOptionsDefault,
	Format: table.FormatOptionsDefault,
	HTML:   table.DefaultHTMLOptions,
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	},
	Title: table.TitleOptionsDefault,
}

type OutputOptions struct {
	Format     OutputFormat // The output format for the list of records
	Pretty     bool         // Pretty print the output
	HideHeader bool         // Hide the column headers
	NoStyle    bool         // Remove all styling from table output.
	Wide       bool         // Print full values in the table results
	SortBy     []table.SortBy
}

type TableColumn[T any] struct {
	table.ColumnConfig
	Value func(T) string
}

func Output[T any](cmd *cobra.Command, columns []TableColumn[T], options OutputOptions, items []T) error {
	switch options.Format {
	case TableFormat, CSVFormat:
		outputTable[T](cmd, columns, options, items)
		return nil
	case JSONFormat:
		encoder := json.NewEncoder(cmd.OutOrStdout())
		if options.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(items)
	case YAMLFormat:
		b, err := yaml.Marshal(items)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	default:
		return fmt.Errorf("invalid format %q", options.Format)
	}
}

func OutputOne[T any](cmd *cobra.Command, columns []TableColumn[T], options OutputOptions, item T) error {
	switch options.Format {
	case TableFormat, CSVFormat:
		outputTable[T](cmd, columns, options, []T{item})
		return nil
	case JSONFormat:
		encoder := json.NewEncoder(cmd.OutOrStdout())
		if options.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(item)
	case YAMLFormat:
		b, err := yaml.Marshal(item)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	default:
		return fmt.Errorf("invalid format %q", options.Format)
	}
}

// Pair is one row of KeyValue output.
type Pair struct {
	Key   string
	Value any
}

// KeyValue prints key-value pairs in a human-readable format with the keys
// aligned.
func KeyValue(cmd *cobra.Command, data []Pair) {
	maxKeyLength := 0
	for _, pair := range data {
		if len(pair.Key) > maxKeyLength {
			maxKeyLength = len(pair.Key)
		}
	}
	for _, pair := range data {
		if fmt.Sprintf("%v", pair.Value) == "" {
			continue
		}
		cmd.Printf("%-*s = %v\n", maxKeyLength, pair.Key, pair.Value)
	}
}

// Bold prints the given string in bold
func Bold(cmd *cobra.Command, s string) {
	cmd.Print(bold + s + reset)
}

// RedStr wraps the given string in red
func RedStr(s string) string {
	return red + s + reset
}

func outputTable[T any](cmd *cobra.Command, columns []TableColumn[T], options OutputOptions, items []T) {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	if options.SortBy != nil {
		tw.SortBy(options.SortBy)
	}

	configs := lo.Map(columns, func(c TableColumn[T], i int) table.ColumnConfig {
		config := c.ColumnConfig
		config.Number = i + 1
		if options.Wide {
			config.WidthMax = 0
			config.WidthMaxEnforcer = nil
		}
		return config
	})
	tw.SetColumnConfigs(configs)

	if !options.HideHeader {
		headers := lo.Map(columns, func(c TableColumn[T], _ int) any { return c.Name })
		tw.AppendHeader(headers)
	}

	tw.SetStyle(table.StyleColoredGreenWhiteOnBlack)
	if options.NoStyle {
		tw.SetStyle(noStyle)
	}

	for _, item := range items {
		values := lo.Map(columns, func(c TableColumn[T], _ int) any {
			return c.Value(item)
		})
		tw.AppendRow(values)
	}

	switch options.Format {
	case TableFormat:
		tw.Render()
	case CSVFormat:
		tw.RenderCSV()
	}
}
