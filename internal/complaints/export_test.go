package complaints

var (
	RowArgs = rowArgs
	ScanRow = scanner
)
