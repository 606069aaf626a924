/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/soundlens/soundlens/internal/catalog"
)

type Analysis struct {
	results [][]string
	summary string
}

// Analyser is a derived statistic that can be rendered as a table, both
// on the CLI and in the emailed report.
type Analyser interface {
	GetResults(ctx context.Context, client *catalog.Client) (Analysis, error)

	GetName() string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(a.results[0])
	for _, row := range a.results[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}

	out.WriteString(a.summary)
	return out.String()
}

// parseTimeRange maps the CLI's short/medium/long arguments onto the
// catalog's fixed lookback windows. An empty argument means medium.
func parseTimeRange(arg string) (string, error) {
	switch arg {
	case "", "medium":
		return catalog.RangeMedium, nil
	case "short":
		return catalog.RangeShort, nil
	case "long":
		return catalog.RangeLong, nil
	default:
		return "", fmt.Errorf("invalid time range %q - expected short, medium, or long", arg)
	}
}

func getActionFromName(actionName string) (Analyser, error) {
	actionMap := map[string]Analyser{
		"top-artists": &TopArtistsAnalyzer{Number: 10, TimeRange: catalog.RangeMedium},
		"top-tracks":  &TopTracksAnalyzer{Number: 10, TimeRange: catalog.RangeMedium},
		"moods":       &MoodsAnalyzer{TimeRange: catalog.RangeMedium},
		"genres":      &GenresAnalyzer{TimeRange: catalog.RangeMedium},
	}

	action, ok := actionMap[actionName]
	if !ok {
		return nil, fmt.Errorf("Invalid analysis_name: %s", actionName)
	}

	return action, nil
}
