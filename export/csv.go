// Package export writes simulation tables as CSV.
//
// Columns follow the table: run (raw tables only), time, one column per state
// in declaration order, then one column per monitored transition.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alexini-mv/kinetic-neurotransmission/solver"
)

// WriteTable writes every row of tab.
func WriteTable(w io.Writer, tab *solver.Table) error {
	if tab == nil {
		return fmt.Errorf("export: %w", solver.ErrEmptyTable)
	}

	writer := csv.NewWriter(w)
	headers := append([]string{"run", "time"}, tab.StateNames...)
	headers = append(headers, tab.TransitionNames...)
	if err := writer.Write(headers); err != nil {
		return err
	}

	record := make([]string, len(headers))
	for _, row := range tab.Rows {
		record = record[:0]
		record = append(record, strconv.Itoa(row.Run), formatFloat(row.Time))
		for _, c := range row.States {
			record = append(record, strconv.Itoa(c))
		}
		for _, c := range row.Transitions {
			record = append(record, strconv.Itoa(c))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()

	return writer.Error()
}

// WriteMean writes the per-time averages of mt.
func WriteMean(w io.Writer, mt *solver.MeanTable) error {
	if mt == nil {
		return fmt.Errorf("export: %w", solver.ErrEmptyTable)
	}

	writer := csv.NewWriter(w)
	headers := append([]string{"time"}, mt.StateNames...)
	headers = append(headers, mt.TransitionNames...)
	if err := writer.Write(headers); err != nil {
		return err
	}

	record := make([]string, len(headers))
	for _, row := range mt.Rows {
		record = record[:0]
		record = append(record, formatFloat(row.Time))
		for _, v := range row.States {
			record = append(record, formatFloat(v))
		}
		for _, v := range row.Transitions {
			record = append(record, formatFloat(v))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()

	return writer.Error()
}

// WriteSeries writes two equally long columns, e.g. a sampled stimulation profile.
func WriteSeries(w io.Writer, xName, yName string, xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("export: series lengths differ: %d != %d", len(xs), len(ys))
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{xName, yName}); err != nil {
		return err
	}
	for i := range xs {
		if err := writer.Write([]string{formatFloat(xs[i]), formatFloat(ys[i])}); err != nil {
			return err
		}
	}
	writer.Flush()

	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
