package model

// Report is one hazard finding inside a project.
//
// InternalID is the primary key within the project: assigned once by the
// project store at add time and never reassigned, even when the user edits
// every other field. ReportID is the user-facing number (editable, unique
// per project).
type Report struct {
	InternalID          string              `json:"id"`
	HazardType          string              `json:"hazard_type"`
	ReportName          string              `json:"report_name"`
	HazardLevel         string              `json:"hazard_level"`
	ReportID            string              `json:"report_id"`
	Target              string              `json:"target"`
	VulName             string              `json:"vul_name"`
	WarningLevel        string              `json:"warning_level"`
	City                string              `json:"city"`
	UnitType            string              `json:"unit_type"`
	Industry            string              `json:"industry"`
	CustomerCompanyName string              `json:"customer_company_name"`
	WebsiteName         string              `json:"website_name"`
	Domain              string              `json:"domain"`
	IPAddress           string              `json:"ip_address"`
	CaseNumber          string              `json:"case_number"`
	ReportTime          string              `json:"report_time"`
	ProblemDescription  string              `json:"problem_description"`
	VulModifyRepair     string              `json:"vul_modify_repair"`
	EvidenceScreenshots []ScreenshotContent `json:"evidence_screenshots"`
	FilingScreenshots   []ScreenshotContent `json:"filing_screenshots"`
	Remark              string              `json:"remark"`
}

// Clone returns a deep copy, including attachment bytes.
func (r Report) Clone() Report {
	out := r
	out.EvidenceScreenshots = cloneScreenshots(r.EvidenceScreenshots)
	out.FilingScreenshots = cloneScreenshots(r.FilingScreenshots)
	return out
}

// Project is a named, ordered container of reports. ProjectName doubles as
// the storage key in the projects namespace.
type Project struct {
	ProjectName string   `json:"projectName"`
	ReportList  []Report `json:"reportList"`
}

// Clone returns a deep copy of the project document.
func (p Project) Clone() Project {
	out := p
	if p.ReportList != nil {
		out.ReportList = make([]Report, len(p.ReportList))
		for i, r := range p.ReportList {
			out.ReportList[i] = r.Clone()
		}
	}
	return out
}

// FindReport returns the report with the given internal ID, or nil.
func (p *Project) FindReport(internalID string) *Report {
	for i := range p.ReportList {
		if p.ReportList[i].InternalID == internalID {
			return &p.ReportList[i]
		}
	}
	return nil
}
