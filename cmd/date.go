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
	"fmt"
	"regexp"
	"time"
)

type ParsedDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool
}

// parseDateRangeFromArgs accepts one or two date strings. One date
// covers that whole year/month/day; two dates form an explicit range.
func parseDateRangeFromArgs(args []string) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 1:
		return getImplicitDateRange(args[0])

	case 2:
		var startParsed, endParsed ParsedDate
		startParsed, err = parseSingleDatestring(args[0])
		if err != nil {
			return
		}
		endParsed, err = parseSingleDatestring(args[1])
		if err != nil {
			return
		}
		start = startParsed.Date
		end = endParsed.Date
		return

	default:
		err = fmt.Errorf("Expected one or two date arguments")
		return
	}
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	layouts := []struct {
		pattern string
		layout  string
		mark    func(*ParsedDate)
	}{
		{`^\d{4}$`, "2006", func(d *ParsedDate) { d.Year = true }},
		{`^\d{4}-\d{2}$`, "2006-01", func(d *ParsedDate) { d.Month = true }},
		{`^\d{4}-\d{2}-\d{2}$`, "2006-01-02", func(d *ParsedDate) { d.Day = true }},
	}

	for _, l := range layouts {
		matched, matchErr := regexp.MatchString(l.pattern, ds)
		if matchErr != nil {
			err = fmt.Errorf("Parsing datestring: %w", matchErr)
			return
		}
		if !matched {
			continue
		}
		date.Date, err = time.Parse(l.layout, ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring %q: %w", ds, err)
			return
		}
		l.mark(&date)
		return
	}

	err = fmt.Errorf("Invalid format: %q", ds)
	return
}
