package domain

// Sentinel fills report fields the accounting database could not supply,
// e.g. for jobs never submitted or records already purged.
const Sentinel = "n/a"

// ReportRow joins a unit's classified status with its accounting fields.
type ReportRow struct {
	Directory string
	Status    Status
	JobID     string
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
	Error     string
}

// ReportHeader is the fixed 14-column header of the report file.
func ReportHeader() []string {
	return []string{
		"directory", "status", "job_id", "job_name", "partition",
		"submit", "start", "end", "elapsed", "alloc_cpus",
		"node_list", "max_rss", "req_mem", "error",
	}
}

// NewReportRow builds a row from a classified unit. A nil accounting record
// fills every accounting column with the sentinel.
func NewReportRow(dir string, status Status, rec *AccountingRecord, errLine string) ReportRow {
	row := ReportRow{
		Directory: dir,
		Status:    status,
		JobID:     Sentinel,
		JobName:   Sentinel,
		Partition: Sentinel,
		Submit:    Sentinel,
		Start:     Sentinel,
		End:       Sentinel,
		Elapsed:   Sentinel,
		AllocCPUS: Sentinel,
		NodeList:  Sentinel,
		MaxRSS:    Sentinel,
		ReqMem:    Sentinel,
		Error:     errLine,
	}
	if rec != nil {
		row.JobID = orSentinel(rec.JobID)
		row.JobName = orSentinel(rec.JobName)
		row.Partition = orSentinel(rec.Partition)
		row.Submit = orSentinel(rec.Submit)
		row.Start = orSentinel(rec.Start)
		row.End = orSentinel(rec.End)
		row.Elapsed = orSentinel(rec.Elapsed)
		row.AllocCPUS = orSentinel(rec.AllocCPUS)
		row.NodeList = orSentinel(rec.NodeList)
		row.MaxRSS = orSentinel(rec.MaxRSS)
		row.ReqMem = orSentinel(rec.ReqMem)
	}
	return row
}

// Fields renders the row in header order.
func (r ReportRow) Fields() []string {
	return []string{
		r.Directory, string(r.Status), r.JobID, r.JobName, r.Partition,
		r.Submit, r.Start, r.End, r.Elapsed, r.AllocCPUS,
		r.NodeList, r.MaxRSS, r.ReqMem, r.Error,
	}
}

func orSentinel(s string) string {
	if s == "" {
		return Sentinel
	}
	return s
}
