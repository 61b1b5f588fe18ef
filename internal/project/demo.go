package project

import (
	"context"
	"fmt"
	"time"

	"hazreport/internal/model"
)

// LoadDemo seeds the store with sample projects for first-run exploration.
// Projects whose names already exist are left untouched. Returns the names
// of the projects actually created.
func (s *Store) LoadDemo(ctx context.Context) ([]string, error) {
	seeds := []struct {
		name    string
		reports int
	}{
		{"演示项目A", 2},
		{"演示项目B", 3},
		{"企业安全评估", 1},
	}

	var created []string
	for _, seed := range seeds {
		s.mu.Lock()
		if s.find(seed.name) != nil {
			s.mu.Unlock()
			continue
		}
		p := model.Project{ProjectName: seed.name}
		for i := 1; i <= seed.reports; i++ {
			p.ReportList = append(p.ReportList, demoReport(i))
		}
		if err := s.persistProject(ctx, p); err != nil {
			s.mu.Unlock()
			return created, err
		}
		s.projects = append(s.projects, p)
		if s.current == "" {
			s.current = p.ProjectName
		}
		s.mu.Unlock()
		created = append(created, seed.name)
	}
	return created, nil
}

func demoReport(index int) model.Report {
	return model.Report{
		InternalID:          model.NewInternalID(),
		ReportID:            fmt.Sprintf("DEMO-%03d", index),
		HazardType:          "漏洞报告",
		ReportName:          fmt.Sprintf("演示报告 %d", index),
		HazardLevel:         "高危",
		Target:              fmt.Sprintf("目标系统 %d", index),
		VulName:             fmt.Sprintf("SQL注入漏洞_%d", index),
		WarningLevel:        "中",
		City:                "北京",
		UnitType:            "企业",
		Industry:            "信息技术",
		CustomerCompanyName: fmt.Sprintf("演示公司 %d", index),
		WebsiteName:         fmt.Sprintf("演示网站 %d", index),
		Domain:              fmt.Sprintf("demo%d.example.com", index),
		IPAddress:           fmt.Sprintf("192.168.1.%d", 100+index),
		CaseNumber:          fmt.Sprintf("CASE-2024-%04d", index),
		ReportTime:          time.Now().Format("2006-01-02"),
		ProblemDescription:  fmt.Sprintf("这是演示报告 %d 的问题描述。该系统存在SQL注入风险，攻击者可能利用此漏洞获取数据库敏感信息。", index),
		VulModifyRepair:     "建议立即修复SQL注入漏洞：\n1. 使用参数化查询\n2. 输入验证和过滤\n3. 最小权限原则\n4. 定期安全审计",
		EvidenceScreenshots: []model.ScreenshotContent{
			model.TextContent(fmt.Sprintf("证据截图 %d-1: 漏洞验证截图", index)),
			model.TextContent(fmt.Sprintf("证据截图 %d-2: 攻击payload截图", index)),
		},
		FilingScreenshots: []model.ScreenshotContent{
			model.TextContent(fmt.Sprintf("备案截图 %d-1: 系统备案信息", index)),
		},
		Remark: fmt.Sprintf("演示报告 %d 的备注信息", index),
	}
}
