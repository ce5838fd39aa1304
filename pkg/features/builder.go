package features

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/SomethingReallCool234/NexGen/pkg/data"
	"github.com/SomethingReallCool234/NexGen/pkg/dataprep"
)

// Report counts rows through a Build.
type Report struct {
	Joined    int // rows after both left joins
	Kept      int // rows with every feature and a label
	Dropped   int
	Positives int // kept rows with DelayFlag == 1
}

// Build joins delivery onto orders and routes by order ID (left joins, so
// every delivery row survives the join), derives the delay label and returns
// the rows that have every feature and a defined label.
func Build(t *data.Tables) ([]Example, Report, error) {
	var rep Report

	delivery, err := project(t.Delivery, data.DeliveryTable, data.ColOrderID, data.ColCarrier, data.ColActualDeliveryDays)
	if err != nil {
		return nil, rep, err
	}
	orders, err := project(t.Orders, data.OrdersTable, data.ColOrderID, data.ColPriority, data.ColPromisedDeliveryDays)
	if err != nil {
		return nil, rep, err
	}
	routes, err := project(t.Routes, data.RoutesTable, data.ColOrderID, data.ColRoute, data.ColWeatherImpact)
	if err != nil {
		return nil, rep, err
	}

	merged := delivery.LeftJoin(orders, data.ColOrderID)
	if merged.Err != nil {
		return nil, rep, errors.Wrap(merged.Err, "join orders")
	}
	merged = merged.LeftJoin(routes, data.ColOrderID)
	if merged.Err != nil {
		return nil, rep, errors.Wrap(merged.Err, "join routes")
	}
	rep.Joined = merged.Nrow()
	if rep.Joined == 0 {
		return nil, rep, nil
	}

	merged = merged.Mutate(labelSeries(merged))
	if merged.Err != nil {
		return nil, rep, errors.Wrap(merged.Err, "derive label")
	}

	cols := append(append([]string(nil), Columns...), LabelColumn)
	selected := dataprep.DropIncomplete(merged.Select(cols), cols...)
	if selected.Err != nil {
		return nil, rep, errors.Wrap(selected.Err, "select features")
	}

	examples := make([]Example, 0, selected.Nrow())
	for i := 0; i < selected.Nrow(); i++ {
		promised, ok := data.Float(selected.Col(data.ColPromisedDeliveryDays).Elem(i))
		if !ok {
			continue
		}
		flag, err := strconv.Atoi(selected.Col(LabelColumn).Elem(i).String())
		if err != nil {
			continue
		}
		examples = append(examples, Example{
			Shipment: Shipment{
				Carrier:              selected.Col(data.ColCarrier).Elem(i).String(),
				Priority:             selected.Col(data.ColPriority).Elem(i).String(),
				PromisedDeliveryDays: promised,
				Route:                selected.Col(data.ColRoute).Elem(i).String(),
				WeatherImpact:        selected.Col(data.ColWeatherImpact).Elem(i).String(),
			},
			DelayFlag: flag,
		})
		rep.Positives += flag
	}
	rep.Kept = len(examples)
	rep.Dropped = rep.Joined - rep.Kept
	return examples, rep, nil
}

// project checks and keeps only the columns the join needs, so that other
// columns shared between tables cannot collide in the merged frame.
func project(df dataframe.DataFrame, table string, cols ...string) (dataframe.DataFrame, error) {
	if err := data.RequireColumns(df, table, cols...); err != nil {
		return dataframe.DataFrame{}, err
	}
	out := df.Select(cols)
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(out.Err, "select %s", table)
	}
	return out, nil
}

// labelSeries derives Delay_Flag per merged row. Rows where either duration
// is missing or not a number get NaN, which DropIncomplete removes.
func labelSeries(merged dataframe.DataFrame) series.Series {
	actual := merged.Col(data.ColActualDeliveryDays)
	promised := merged.Col(data.ColPromisedDeliveryDays)
	labels := make([]string, merged.Nrow())
	for i := range labels {
		a, okA := data.Float(actual.Elem(i))
		p, okP := data.Float(promised.Elem(i))
		if !okA || !okP {
			labels[i] = "NaN"
			continue
		}
		labels[i] = strconv.Itoa(DelayFlag(a, p))
	}
	return series.New(labels, series.String, LabelColumn)
}
