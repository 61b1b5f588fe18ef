package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"hazreport/internal/model"
)

// minimalPNG builds a PNG header plus IHDR chunk for the given dimensions.
func minimalPNG(w, h uint32) []byte {
	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	data = append(data, 0, 0, 0, 13)
	data = append(data, 'I', 'H', 'D', 'R')
	data = append(data, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	data = append(data, byte(h>>24), byte(h>>16), byte(h>>8), byte(h))
	data = append(data, 8, 2, 0, 0, 0)
	data = append(data, 0, 0, 0, 0)
	return data
}

func sampleReport() model.Report {
	return model.Report{
		InternalID:          "report_fixed",
		HazardType:          "漏洞报告",
		ReportName:          "演示报告 1",
		HazardLevel:         "高危",
		ReportID:            "HN-2024-01-15-000001",
		Target:              "目标系统",
		VulName:             "SQL注入漏洞",
		WarningLevel:        "中",
		City:                "北京",
		UnitType:            "企业",
		Industry:            "信息技术",
		CustomerCompanyName: "演示公司",
		WebsiteName:         "演示网站",
		Domain:              "demo.example.com",
		IPAddress:           "192.168.1.101",
		CaseNumber:          "CASE-2024-0001",
		ReportTime:          "2024-01-15",
		ProblemDescription:  "存在SQL注入风险",
		VulModifyRepair:     "使用参数化查询",
		EvidenceScreenshots: []model.ScreenshotContent{
			model.TextContent("证据截图 1-1"),
			model.ImageContent(minimalPNG(8, 6)),
		},
		FilingScreenshots: []model.ScreenshotContent{
			model.TextContent("备案信息"),
		},
		Remark: "无",
	}
}

func TestRenderDocument_Golden(t *testing.T) {
	doc := renderDocument("演示项目A", []model.Report{sampleReport()})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "single_report", []byte(doc))
}

func TestGenerate_WritesDocument(t *testing.T) {
	dir := t.TempDir()
	r := &TextRenderer{OutDir: dir}

	summary, err := r.Generate(context.Background(), "演示项目A", []model.Report{sampleReport()})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	path := filepath.Join(dir, "演示项目A_风险隐患报告.txt")
	if !strings.Contains(summary, path) {
		t.Errorf("summary %q does not name the output path", summary)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if !strings.Contains(string(data), "【漏洞报告】演示报告 1 【高危】") {
		t.Error("document missing report title line")
	}
}

func TestGenerate_PageBreakBetweenReports(t *testing.T) {
	r2 := sampleReport()
	r2.ReportID = "HN-2024-01-15-000002"
	r2.ReportName = "演示报告 2"

	doc := renderDocument("P", []model.Report{sampleReport(), r2})
	if strings.Count(doc, "\f") != 1 {
		t.Errorf("expected exactly one page break between two reports, got %d", strings.Count(doc, "\f"))
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Site-A", "Site-A"},
		{`a/b\c:d`, "a_b_c_d"},
		{"  spaced  ", "spaced"},
		{"报告<1>?", "报告_1__"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
