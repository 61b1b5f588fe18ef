package cli

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"hazreport/internal/ingest"
	"hazreport/internal/model"
	"hazreport/internal/vulndb"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

// reportSchema compiles the embedded report-document schema once.
func reportSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		compiled := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			schemaErr = fmt.Errorf("compile report schema: %w", err)
			return
		}
		schemaVal = compiled.LookupPath(cue.ParsePath("#Report"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Report: %w", err)
		}
	})
	return schemaVal, schemaErr
}

// reportInput is the YAML/JSON document format for `report add`.
type reportInput struct {
	ReportID            string            `yaml:"report_id"`
	ReportName          string            `yaml:"report_name"`
	HazardType          string            `yaml:"hazard_type"`
	HazardLevel         string            `yaml:"hazard_level"`
	Target              string            `yaml:"target"`
	VulName             string            `yaml:"vul_name"`
	WarningLevel        string            `yaml:"warning_level"`
	City                string            `yaml:"city"`
	UnitType            string            `yaml:"unit_type"`
	Industry            string            `yaml:"industry"`
	CustomerCompanyName string            `yaml:"customer_company_name"`
	WebsiteName         string            `yaml:"website_name"`
	Domain              string            `yaml:"domain"`
	IPAddress           string            `yaml:"ip_address"`
	CaseNumber          string            `yaml:"case_number"`
	ReportTime          string            `yaml:"report_time"`
	ProblemDescription  string            `yaml:"problem_description"`
	VulModifyRepair     string            `yaml:"vul_modify_repair"`
	Remark              string            `yaml:"remark"`
	Evidence            []attachmentInput `yaml:"evidence"`
	Filing              []attachmentInput `yaml:"filing"`
}

// attachmentInput is either inline text or a path to a picked image file.
type attachmentInput struct {
	Text string `yaml:"text"`
	File string `yaml:"file"`
}

// loadReportInput reads, schema-validates, and decodes a report document.
func loadReportInput(path string) (*reportInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report document: %w", err)
	}

	// Validate the raw document against the CUE schema first, so typos in
	// field names surface as schema errors instead of silently dropped data.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse report document: %w", err)
	}
	schema, err := reportSchema()
	if err != nil {
		return nil, err
	}
	doc := schema.Context().Encode(raw)
	if err := doc.Err(); err != nil {
		return nil, fmt.Errorf("encode report document: %w", err)
	}
	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%s: invalid report document: %w", path, err)
	}

	var input reportInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("decode report document: %w", err)
	}
	return &input, nil
}

// buildReport converts a validated input document into a model report:
// ingests file attachments, fills a default report number when none was
// given, and autofills description/remediation from the knowledge base.
//
// The autofill is advisory and happens here, at the form layer, not inside
// the store: a vul_name with no knowledge-base match passes through as-is.
func buildReport(input *reportInput, vulns *vulndb.Store) (model.Report, error) {
	r := model.Report{
		ReportID:            input.ReportID,
		ReportName:          input.ReportName,
		HazardType:          input.HazardType,
		HazardLevel:         input.HazardLevel,
		Target:              input.Target,
		VulName:             input.VulName,
		WarningLevel:        input.WarningLevel,
		City:                input.City,
		UnitType:            input.UnitType,
		Industry:            input.Industry,
		CustomerCompanyName: input.CustomerCompanyName,
		WebsiteName:         input.WebsiteName,
		Domain:              input.Domain,
		IPAddress:           input.IPAddress,
		CaseNumber:          input.CaseNumber,
		ReportTime:          input.ReportTime,
		ProblemDescription:  input.ProblemDescription,
		VulModifyRepair:     input.VulModifyRepair,
		Remark:              input.Remark,
	}

	if model.CanonicalName(r.ReportID) == "" {
		r.ReportID = model.NewReportNumber(time.Now())
	}
	if r.ReportTime == "" {
		r.ReportTime = time.Now().Format("2006-01-02")
	}

	if entry, ok := vulns.Get(r.VulName); ok {
		if r.ProblemDescription == "" {
			r.ProblemDescription = entry.ProblemDescription
		}
		if r.VulModifyRepair == "" {
			r.VulModifyRepair = entry.VulModifyRepair
		}
	}

	var err error
	if r.EvidenceScreenshots, err = buildAttachments(input.Evidence); err != nil {
		return model.Report{}, fmt.Errorf("evidence: %w", err)
	}
	if r.FilingScreenshots, err = buildAttachments(input.Filing); err != nil {
		return model.Report{}, fmt.Errorf("filing: %w", err)
	}
	return r, nil
}

func buildAttachments(inputs []attachmentInput) ([]model.ScreenshotContent, error) {
	var out []model.ScreenshotContent
	for _, in := range inputs {
		if in.File != "" {
			data, err := os.ReadFile(in.File)
			if err != nil {
				return nil, fmt.Errorf("read attachment: %w", err)
			}
			sc, err := ingest.FromFile(in.File, data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", in.File, err)
			}
			out = append(out, sc)
			continue
		}
		out = append(out, model.TextContent(in.Text))
	}
	return out, nil
}
