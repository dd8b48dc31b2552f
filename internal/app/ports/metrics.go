package ports

// CommandMetrics counts engine command dispositions.
type CommandMetrics interface {
	RecordApplied(kind string)
	RecordRejected(kind string)
}
