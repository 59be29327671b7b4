package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed data/mtcars.csv
var mtcarsCSV []byte

//go:embed data/iris.csv
var irisCSV []byte

// BuiltinInfo describes one of the bundled tutorial datasets.
type BuiltinInfo struct {
	Name        string
	Description string
}

// Builtins lists the bundled datasets in presentation order.
func Builtins() []BuiltinInfo {
	return []BuiltinInfo{
		{
			Name:        "mtcars",
			Description: "32 automobiles (1974 Motor Trend road tests): 11 numeric design and performance measures, model names as row labels",
		},
		{
			Name:        "iris",
			Description: "150 iris flowers: 4 numeric measurements plus species (setosa, versicolor, virginica); contains one exact duplicate row",
		},
	}
}

// Builtin loads a bundled dataset by name.
func Builtin(name string) (*Dataset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mtcars":
		ds, err := ReadCSV(bytes.NewReader(mtcarsCSV), "mtcars")
		if err != nil {
			return nil, fmt.Errorf("load mtcars: %w", err)
		}
		if err := ds.PromoteRowNames("model"); err != nil {
			return nil, fmt.Errorf("load mtcars: %w", err)
		}
		return ds, nil
	case "iris":
		ds, err := ReadCSV(bytes.NewReader(irisCSV), "iris")
		if err != nil {
			return nil, fmt.Errorf("load iris: %w", err)
		}
		return ds, nil
	default:
		names := make([]string, 0, 2)
		for _, b := range Builtins() {
			names = append(names, b.Name)
		}
		return nil, fmt.Errorf("unknown dataset %q (built-ins: %s)", name, strings.Join(names, ", "))
	}
}
