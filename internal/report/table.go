package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/logzilla/query2excel/internal/report/types"
)

const (
	detailsField = "details"
	tsFromField  = "ts_from"
	countField   = "count"
)

// Record is one time bucket of the query results. Fields other than
// ts_from and count are ignored.
type Record struct {
	TsFrom *json.Number `json:"ts_from"`
	Count  *json.Number `json:"count"`
}

// BuildTable turns the results field of a completed query into the report
// table, one row per record and in the same order.
func BuildTable(results json.RawMessage) (*types.Table, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(results, &payload); err != nil || payload == nil {
		return nil, NewErrMalformedResults("results is not an object")
	}

	rawDetails, ok := payload[detailsField]
	if !ok {
		return nil, NewErrMalformedResults("results has no " + detailsField)
	}

	var details []json.RawMessage
	if err := json.Unmarshal(rawDetails, &details); err != nil || bytes.Equal(bytes.TrimSpace(rawDetails), []byte("null")) {
		return nil, NewErrMalformedResults(detailsField + " is not an array")
	}

	table := &types.Table{Rows: make([]types.Row, 0, len(details))}
	for i, raw := range details {
		row, err := buildRow(i, raw)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func buildRow(index int, raw json.RawMessage) (types.Row, error) {
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return types.Row{}, NewErrMalformedRecord(index, "record", "is not an object with numeric fields: "+err.Error())
	}
	if record.TsFrom == nil {
		return types.Row{}, NewErrMalformedRecord(index, tsFromField, "is missing")
	}
	if record.Count == nil {
		return types.Row{}, NewErrMalformedRecord(index, countField, "is missing")
	}

	ts, err := parseTimestamp(*record.TsFrom)
	if err != nil {
		return types.Row{}, NewErrMalformedRecord(index, tsFromField, err.Error())
	}
	count, err := parseCount(*record.Count)
	if err != nil {
		return types.Row{}, NewErrMalformedRecord(index, countField, err.Error())
	}

	return types.Row{Date: ts.Format(types.DateLayout), Count: count}, nil
}

// parseTimestamp reads Unix seconds, possibly fractional, as a UTC time.
func parseTimestamp(n json.Number) (time.Time, error) {
	if sec, err := n.Int64(); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	f, err := n.Float64()
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), nil
}

func parseCount(n json.Number) (int64, error) {
	if count, err := n.Int64(); err == nil {
		return count, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("is not an integer: %s", n.String())
	}
	return int64(f), nil
}
