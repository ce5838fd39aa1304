// Package fixture writes small synthetic delivery datasets for tests.
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Category pools cycled through by WriteDataset.
var (
	Carriers   = []string{"BlueDart", "DHL", "Delhivery", "Ecom Express", "SpeedyLogistics"}
	Priorities = []string{"Economy", "Express", "Standard"}
	Routes     = []string{"Bangalore-Chennai", "Delhi-Mumbai", "Hyderabad-Pune", "Kolkata-Delhi", "Mumbai-Dubai"}
	Weather    = []string{"Fog", "Heavy_Rain", "Light_Rain", "None", "Storm"}
	Statuses   = []string{"On-Time", "Severely-Delayed", "Slightly-Delayed"}
	Issues     = []string{"Damaged", "Perfect", "Wrong_Item"}
)

// Delayed is the rule WriteDataset uses to decide whether order i ran late.
func Delayed(i int) bool {
	w := Weather[i%len(Weather)]
	return w == "Heavy_Rain" || w == "Storm" || (Carriers[(i/5)%len(Carriers)] == "SpeedyLogistics" && promised(i) <= 2)
}

func promised(i int) int { return 1 + (i*7)%5 }

// WriteFile writes content to dir/name.
func WriteFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
	return path
}

// WriteDataset writes delivery_performance.csv, orders.csv and
// routes_distance.csv for n orders into dir. Every order is complete, so all
// n rows survive feature building.
func WriteDataset(tb testing.TB, dir string, n int) {
	tb.Helper()
	var delivery, orders, routes strings.Builder
	delivery.WriteString("Order_ID,Carrier,Delivery_Status,Customer_Rating,Quality_Issue,Actual_Delivery_Days,Delivery_Cost_INR\n")
	orders.WriteString("Order_ID,Order_Date,Priority,Promised_Delivery_Days,Order_Value_INR\n")
	routes.WriteString("Order_ID,Route,Distance_KM,Weather_Impact\n")

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("ORD%06d", i+1)
		p := promised(i)
		actual := p
		status := Statuses[0]
		if Delayed(i) {
			actual = p + 1 + i%3
			status = Statuses[1+i%2]
		}
		rating := 1 + i%5
		fmt.Fprintf(&delivery, "%s,%s,%s,%d,%s,%d,%d.50\n",
			id, Carriers[(i/5)%len(Carriers)], status, rating, Issues[i%len(Issues)], actual, 100+i)
		fmt.Fprintf(&orders, "%s,2025-01-%02d,%s,%d,%d\n",
			id, 1+i%28, Priorities[i%len(Priorities)], p, 1000+i)
		fmt.Fprintf(&routes, "%s,%s,%d,%s\n",
			id, Routes[(i/3)%len(Routes)], 100+10*i, Weather[i%len(Weather)])
	}

	WriteFile(tb, dir, "delivery_performance.csv", delivery.String())
	WriteFile(tb, dir, "orders.csv", orders.String())
	WriteFile(tb, dir, "routes_distance.csv", routes.String())
}
