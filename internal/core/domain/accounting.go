package domain

// AccountingRecord is one job's row from the scheduler accounting database.
// Fields other than State are carried verbatim as sacct prints them; the
// report does not reinterpret timestamps or memory sizes.
type AccountingRecord struct {
	JobID     string
	State     SlurmState
	JobName   string
	Partition string
	Submit    string
	Start     string
	End       string
	Elapsed   string
	AllocCPUS string
	NodeList  string
	MaxRSS    string
	ReqMem    string
}
