// Package render turns a project's report list into a delivered document.
//
// The project store depends only on the project.Renderer capability; this
// package ships the plain-text implementation used by the CLI. A docx or pdf
// renderer would slot in behind the same interface.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hazreport/internal/ingest"
	"hazreport/internal/model"
)

// TextRenderer writes one plain-text document per generation into OutDir.
type TextRenderer struct {
	OutDir string
}

// Generate renders every report and writes the document to
// <OutDir>/<project>_风险隐患报告.txt, returning a summary naming the path.
func (r *TextRenderer) Generate(ctx context.Context, projectName string, reports []model.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := renderDocument(projectName, reports)

	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(r.OutDir, SanitizeFilename(projectName)+"_风险隐患报告.txt")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return fmt.Sprintf("report generated: %s", path), nil
}

// fieldRow pairs a display label with a report field accessor.
var fieldRows = []struct {
	label string
	value func(r *model.Report) string
}{
	{"隐患编号", func(r *model.Report) string { return r.ReportID }},
	{"隐患类型", func(r *model.Report) string { return r.HazardType }},
	{"隐患级别", func(r *model.Report) string { return r.HazardLevel }},
	{"预警级别", func(r *model.Report) string { return r.WarningLevel }},
	{"检测对象", func(r *model.Report) string { return r.Target }},
	{"漏洞名称", func(r *model.Report) string { return r.VulName }},
	{"所属城市", func(r *model.Report) string { return r.City }},
	{"单位类型", func(r *model.Report) string { return r.UnitType }},
	{"所属行业", func(r *model.Report) string { return r.Industry }},
	{"客户单位", func(r *model.Report) string { return r.CustomerCompanyName }},
	{"网站名称", func(r *model.Report) string { return r.WebsiteName }},
	{"网站域名", func(r *model.Report) string { return r.Domain }},
	{"IP地址", func(r *model.Report) string { return r.IPAddress }},
	{"备案编号", func(r *model.Report) string { return r.CaseNumber }},
	{"报送时间", func(r *model.Report) string { return r.ReportTime }},
	{"问题描述", func(r *model.Report) string { return r.ProblemDescription }},
	{"修复建议", func(r *model.Report) string { return r.VulModifyRepair }},
	{"备注", func(r *model.Report) string { return r.Remark }},
}

func renderDocument(projectName string, reports []model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s 风险隐患报告\n", projectName)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 40))

	for i := range reports {
		r := &reports[i]
		fmt.Fprintf(&b, "【%s】%s 【%s】\n", r.HazardType, r.ReportName, r.HazardLevel)
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 40))
		for _, row := range fieldRows {
			fmt.Fprintf(&b, "%s: %s\n", row.label, row.value(r))
		}
		renderAttachments(&b, "证据截图", r.EvidenceScreenshots)
		renderAttachments(&b, "备案截图", r.FilingScreenshots)
		if i != len(reports)-1 {
			b.WriteString("\n\f\n") // page break between reports
		}
	}
	return b.String()
}

func renderAttachments(b *strings.Builder, label string, items []model.ScreenshotContent) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for i, item := range items {
		switch item.Kind {
		case model.KindImage:
			fmt.Fprintf(b, "  %d. %s\n", i+1, describeImage(item.Image))
		default:
			fmt.Fprintf(b, "  %d. %s\n", i+1, item.Text)
		}
	}
}

func describeImage(data []byte) string {
	format := ingest.DetectFormat(data)
	if w, h, err := ingest.Dimensions(data); err == nil {
		return fmt.Sprintf("[%s 图片 %dx%d, %d 字节]", format, w, h, len(data))
	}
	return fmt.Sprintf("[%s 图片, %d 字节]", format, len(data))
}

// SanitizeFilename replaces characters that are invalid in file names on at
// least one supported platform.
func SanitizeFilename(name string) string {
	out := strings.Map(func(c rune) rune {
		switch c {
		case '<', '>', ':', '"', '|', '?', '*', '\\', '/':
			return '_'
		}
		if c < 0x20 {
			return '_'
		}
		return c
	}, name)
	return strings.TrimSpace(out)
}
