package data

// Column names as they appear in the CSV headers.
const (
	ColOrderID              = "Order_ID"
	ColCarrier              = "Carrier"
	ColDeliveryStatus       = "Delivery_Status"
	ColCustomerRating       = "Customer_Rating"
	ColQualityIssue         = "Quality_Issue"
	ColActualDeliveryDays   = "Actual_Delivery_Days"
	ColPriority             = "Priority"
	ColPromisedDeliveryDays = "Promised_Delivery_Days"
	ColRoute                = "Route"
	ColWeatherImpact        = "Weather_Impact"
)

// File names inside the data directory.
const (
	DeliveryFile = "delivery_performance.csv"
	OrdersFile   = "orders.csv"
	RoutesFile   = "routes_distance.csv"
)

// Table names used in schema errors.
const (
	DeliveryTable = "delivery_performance"
	OrdersTable   = "orders"
	RoutesTable   = "routes_distance"
)

// Columns each table must carry. Extra columns are kept as-is.
var (
	DeliveryColumns = []string{ColOrderID, ColCarrier, ColDeliveryStatus, ColCustomerRating, ColQualityIssue, ColActualDeliveryDays}
	OrderColumns    = []string{ColOrderID, ColPriority, ColPromisedDeliveryDays}
	RouteColumns    = []string{ColOrderID, ColRoute, ColWeatherImpact}
)
