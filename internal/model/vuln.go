package model

// VulnEntry is one knowledge-base record pairing a vulnerability name with
// stock description and remediation text. VulName is the primary key,
// compared case-sensitively.
//
// Entries are advisory: a report's VulName may or may not match one, and the
// match is used only to pre-fill report fields at edit time. There is no
// foreign-key relationship.
type VulnEntry struct {
	VulName            string `json:"vul_name" yaml:"vul_name"`
	ProblemDescription string `json:"problem_description" yaml:"problem_description"`
	VulModifyRepair    string `json:"vul_modify_repair" yaml:"vul_modify_repair"`
}
