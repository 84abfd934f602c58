package tpch

// Column names of the lineitem table, in .tbl field order.
const (
	ColumnOrderKey      = "l_orderkey"
	ColumnPartKey       = "l_partkey"
	ColumnSuppKey       = "l_suppkey"
	ColumnLineNumber    = "l_linenumber"
	ColumnQuantity      = "l_quantity"
	ColumnExtendedPrice = "l_extendedprice"
	ColumnDiscount      = "l_discount"
	ColumnTax           = "l_tax"
	ColumnReturnFlag    = "l_returnflag"
	ColumnLineStatus    = "l_linestatus"
	ColumnShipDate      = "l_shipdate"
	ColumnCommitDate    = "l_commitdate"
	ColumnReceiptDate   = "l_receiptdate"
	ColumnShipInstruct  = "l_shipinstruct"
	ColumnShipMode      = "l_shipmode"
	ColumnComment       = "l_comment"
)

// LineItemDDL is the lineitem table schema. l_linenumber is the clustering
// key, so scans of a single order return lines in ascending line number
// order; the update path depends on that.
const LineItemDDL = `CREATE TABLE IF NOT EXISTS %s.%s (
	l_orderkey bigint,
	l_partkey bigint,
	l_suppkey bigint,
	l_linenumber bigint,
	l_quantity bigint,
	l_extendedprice double,
	l_discount double,
	l_tax double,
	l_returnflag text,
	l_linestatus text,
	l_shipdate text,
	l_commitdate text,
	l_receiptdate text,
	l_shipinstruct text,
	l_shipmode text,
	l_comment text,
	PRIMARY KEY (l_orderkey, l_linenumber)
) WITH compression = { }`

// LineItem is one parsed line of the lineitem dataset.
type LineItem struct {
	OrderKey      int64
	PartKey       int64
	SuppKey       int64
	LineNumber    int64
	Quantity      int64
	ExtendedPrice float64
	Discount      float64
	Tax           float64
	ReturnFlag    string
	LineStatus    string
	ShipDate      string
	CommitDate    string
	ReceiptDate   string
	ShipInstruct  string
	ShipMode      string
	Comment       string
}

// QueryRow is the projection the update path scans: the two key columns
// plus the column it rewrites.
type QueryRow struct {
	OrderKey   int64
	LineNumber int64
	Quantity   int64
}

// RowKey identifies a single lineitem row.
type RowKey struct {
	OrderKey   int64
	LineNumber int64
}

// Mutation is a single-column update, built once per update iteration and
// consumed opaquely by the DAO.
type Mutation struct {
	Column string
	Value  int64
}

// QuantityUpdate encodes "set l_quantity to value" for one row.
func QuantityUpdate(value int64) Mutation {
	return Mutation{Column: ColumnQuantity, Value: value}
}
