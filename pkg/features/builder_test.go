package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomethingReallCool234/NexGen/internal/fixture"
	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
	"github.com/SomethingReallCool234/NexGen/pkg/data"
)

func load(t *testing.T, delivery, orders, routes string) *data.Tables {
	t.Helper()
	dir := t.TempDir()
	fixture.WriteFile(t, dir, data.DeliveryFile, delivery)
	fixture.WriteFile(t, dir, data.OrdersFile, orders)
	fixture.WriteFile(t, dir, data.RoutesFile, routes)
	tables, err := data.LoadTables(dir)
	require.NoError(t, err)
	return tables
}

const deliveryHeader = "Order_ID,Carrier,Delivery_Status,Customer_Rating,Quality_Issue,Actual_Delivery_Days\n"

func TestDelayFlag(t *testing.T) {
	tests := []struct {
		actual, promised float64
		want             int
	}{
		{5, 3, 1},
		{3, 3, 0},
		{2, 3, 0},
		{3.5, 3, 1},
	}
	for _, tt := range tests {
		if got := DelayFlag(tt.actual, tt.promised); got != tt.want {
			t.Errorf("DelayFlag(%v, %v) = %d, want %d", tt.actual, tt.promised, got, tt.want)
		}
	}
}

func TestBuildLabelsAndDrops(t *testing.T) {
	tables := load(t,
		deliveryHeader+
			"O1,DHL,Slightly-Delayed,3,Perfect,5\n"+ // late
			"O2,DHL,On-Time,5,Perfect,3\n"+ // equal: on time
			"O3,BlueDart,On-Time,4,Perfect,2\n"+ // no order row
			"O4,BlueDart,On-Time,4,Perfect,2\n"+ // no route row
			"O5,BlueDart,On-Time,4,Perfect,abc\n"+ // unparseable actual days
			"O6,BlueDart,On-Time,4,Perfect,1\n", // missing weather
		"Order_ID,Priority,Promised_Delivery_Days\nO1,Express,3\nO2,Standard,3\nO4,Economy,2\nO5,Economy,2\nO6,Economy,2\n",
		"Order_ID,Route,Weather_Impact\nO1,Delhi-Mumbai,Storm\nO2,Delhi-Mumbai,None\nO3,A-B,None\nO5,A-B,Fog\nO6,A-B,\n",
	)

	examples, rep, err := Build(tables)
	require.NoError(t, err)
	assert.Equal(t, Report{Joined: 6, Kept: 2, Dropped: 4, Positives: 1}, rep)
	require.Len(t, examples, 2)

	byPriority := map[string]Example{}
	for _, ex := range examples {
		byPriority[ex.Priority] = ex
	}
	assert.Equal(t, Example{
		Shipment:  Shipment{Carrier: "DHL", Priority: "Express", PromisedDeliveryDays: 3, Route: "Delhi-Mumbai", WeatherImpact: "Storm"},
		DelayFlag: 1,
	}, byPriority["Express"])
	assert.Equal(t, 0, byPriority["Standard"].DelayFlag)
}

func TestBuildNoMissingValuesInOutput(t *testing.T) {
	dir := t.TempDir()
	fixture.WriteDataset(t, dir, 40)
	tables, err := data.LoadTables(dir)
	require.NoError(t, err)

	examples, rep, err := Build(tables)
	require.NoError(t, err)
	assert.Equal(t, 40, rep.Kept)
	for _, ex := range examples {
		assert.NotEmpty(t, ex.Carrier)
		assert.NotEmpty(t, ex.Priority)
		assert.NotEmpty(t, ex.Route)
		assert.NotEmpty(t, ex.WeatherImpact)
		assert.Contains(t, []int{0, 1}, ex.DelayFlag)
	}
	positives := 0
	for i := 0; i < 40; i++ {
		if fixture.Delayed(i) {
			positives++
		}
	}
	assert.Equal(t, positives, rep.Positives)
}

func TestBuildSharedColumnNames(t *testing.T) {
	// Orders also carries a Carrier column; only the delivery one is used.
	tables := load(t,
		deliveryHeader+"O1,DHL,On-Time,5,Perfect,2\n",
		"Order_ID,Carrier,Priority,Promised_Delivery_Days\nO1,OTHER,Express,3\n",
		"Order_ID,Route,Weather_Impact\nO1,Delhi-Mumbai,None\n",
	)
	examples, _, err := Build(tables)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "DHL", examples[0].Carrier)
}

func TestBuildSchemaError(t *testing.T) {
	tables := load(t,
		deliveryHeader+"O1,DHL,On-Time,5,Perfect,2\n",
		"Order_ID,Priority,Promised_Delivery_Days\nO1,Express,3\n",
		"Order_ID,Route,Weather_Impact\nO1,Delhi-Mumbai,None\n",
	)
	tables.Routes = tables.Routes.Drop(data.ColWeatherImpact)

	_, _, err := Build(tables)
	var schemaErr *apperr.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, data.ColWeatherImpact, schemaErr.Column)
}
