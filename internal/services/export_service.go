package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/ncst-capstone/evaluation-service/internal/models"
)

type exportService struct {
	report ReportService
	logger *slog.Logger
}

func NewExportService(report ReportService, logger *slog.Logger) ExportService {
	return &exportService{
		report: report,
		logger: logger,
	}
}

// TeacherResultsWorkbook renders one teacher's full report as an xlsx
// workbook: a summary sheet, per-question averages, and the remarks
// feed. Access control is delegated to the report service, so a
// teacher exporting their own results works the same as an admin.
func (s *exportService) TeacherResultsWorkbook(ctx context.Context, actor models.Actor, teacherID uint) ([]byte, error) {
	summary, err := s.report.TeacherSummary(ctx, actor, teacherID)
	if err != nil {
		return nil, err
	}
	report, err := s.report.TeacherReport(ctx, actor, teacherID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName(f.GetSheetName(0), summarySheet)

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, NewInternalError(err)
	}

	teacherName := summary.Teacher.FirstName + " " + summary.Teacher.LastName
	summaryRows := [][]interface{}{
		{"Teacher", teacherName},
		{"Course", summary.Teacher.Course},
		{"Responses", summary.EvaluationCount},
		{"Approved students", summary.ApprovedStudents},
		{"Overall average", cellValue(summary.OverallAverage)},
	}
	for i, row := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, NewInternalError(err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A5", header); err != nil {
		return nil, NewInternalError(err)
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return nil, NewInternalError(err)
	}

	const questionsSheet = "Questions"
	if _, err := f.NewSheet(questionsSheet); err != nil {
		return nil, NewInternalError(err)
	}
	questionHeader := []interface{}{"#", "Question", "Average", "Responses"}
	if err := f.SetSheetRow(questionsSheet, "A1", &questionHeader); err != nil {
		return nil, NewInternalError(err)
	}
	if err := f.SetCellStyle(questionsSheet, "A1", "D1", header); err != nil {
		return nil, NewInternalError(err)
	}
	for i, stat := range report.QuestionStats {
		row := []interface{}{i + 1, stat.QuestionText, cellValue(stat.AverageRating), stat.ResponseCount}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(questionsSheet, cell, &row); err != nil {
			return nil, NewInternalError(err)
		}
	}
	if err := f.SetColWidth(questionsSheet, "B", "B", 64); err != nil {
		return nil, NewInternalError(err)
	}

	const remarksSheet = "Remarks"
	if _, err := f.NewSheet(remarksSheet); err != nil {
		return nil, NewInternalError(err)
	}
	remarkHeader := []interface{}{"Submitted", "Year level", "Remarks"}
	if err := f.SetSheetRow(remarksSheet, "A1", &remarkHeader); err != nil {
		return nil, NewInternalError(err)
	}
	if err := f.SetCellStyle(remarksSheet, "A1", "C1", header); err != nil {
		return nil, NewInternalError(err)
	}
	for i, remark := range report.Remarks {
		row := []interface{}{remark.SubmittedAt.Format("2006-01-02 15:04"), remark.YearLevel, remark.Remarks}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(remarksSheet, cell, &row); err != nil {
			return nil, NewInternalError(err)
		}
	}
	if err := f.SetColWidth(remarksSheet, "C", "C", 80); err != nil {
		return nil, NewInternalError(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("Workbook exported", "teacher_id", teacherID, "questions", len(report.QuestionStats), "remarks", len(report.Remarks))
	return buf.Bytes(), nil
}

// cellValue renders a nullable average; questions with no responses
// show N/A instead of a misleading zero.
func cellValue(v *float64) interface{} {
	if v == nil {
		return "N/A"
	}
	return *v
}
