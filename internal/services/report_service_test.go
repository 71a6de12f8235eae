package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncst-capstone/evaluation-service/internal/models"
)

func newReportFixture(t *testing.T) (*mockRepository, ReportService) {
	t.Helper()
	repo := newMockRepository()
	svc := NewReportService(repo, testLogger())
	return repo, svc
}

func addEvaluation(repo *mockRepository, studentID string, teacherID uint, remarks string, submittedAt time.Time, values map[uint]int) {
	evaluation := &models.Evaluation{
		ID:          uint(len(repo.evaluations) + 1),
		StudentID:   studentID,
		TeacherID:   teacherID,
		SubmittedAt: submittedAt,
	}
	if remarks != "" {
		evaluation.Remarks = &remarks
	}
	for questionID, value := range values {
		evaluation.Details = append(evaluation.Details, models.EvaluationDetail{
			EvaluationID: evaluation.ID,
			QuestionID:   questionID,
			Value:        value,
		})
	}
	repo.evaluations = append(repo.evaluations, evaluation)
}

func TestQuestionStats(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	teacher := repo.seedTeacher("cruz", "BSIT")
	other := repo.seedTeacher("alonzo", "BSCS")
	q1 := repo.seedQuestion("Q1")
	q2 := repo.seedQuestion("Q2")
	q3 := repo.seedQuestion("Q3")

	now := time.Now()
	addEvaluation(repo, "2021-00001", teacher.ID, "", now, map[uint]int{q1.ID: 4, q2.ID: 5})
	addEvaluation(repo, "2021-00002", teacher.ID, "", now, map[uint]int{q1.ID: 2, q2.ID: 3})
	// Another teacher's ratings must not leak into this report.
	addEvaluation(repo, "2021-00001", other.ID, "", now, map[uint]int{q1.ID: 1, q3.ID: 1})

	stats, err := svc.QuestionStats(ctx, models.AdminActor(1), teacher.ID)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, q1.ID, stats[0].QuestionID)
	require.NotNil(t, stats[0].AverageRating)
	assert.InDelta(t, 3.0, *stats[0].AverageRating, 0.001)
	assert.Equal(t, int64(2), stats[0].ResponseCount)

	require.NotNil(t, stats[1].AverageRating)
	assert.InDelta(t, 4.0, *stats[1].AverageRating, 0.001)

	// A question nobody rated for this teacher still gets a row, with a
	// null average rather than zero.
	assert.Equal(t, q3.ID, stats[2].QuestionID)
	assert.Nil(t, stats[2].AverageRating)
	assert.Equal(t, int64(0), stats[2].ResponseCount)
}

func TestReportAccessControl(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	teacher := repo.seedTeacher("cruz", "BSIT")

	// Teachers read their own results only.
	_, err := svc.QuestionStats(ctx, models.TeacherActor(teacher.ID), teacher.ID)
	require.NoError(t, err)

	_, err = svc.QuestionStats(ctx, models.TeacherActor(teacher.ID+1), teacher.ID)
	assert.True(t, IsNotAuthorizedError(err))

	_, err = svc.QuestionStats(ctx, models.StudentActor("2021-00001"), teacher.ID)
	assert.True(t, IsNotAuthorizedError(err))

	_, err = svc.AdminOverview(ctx, models.TeacherActor(teacher.ID))
	assert.True(t, IsNotAuthorizedError(err))
}

func TestRemarksFeed(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	repo.seedStudent("2021-00001", "", models.StudentApproved)
	repo.seedStudent("2021-00002", "", models.StudentApproved)
	teacher := repo.seedTeacher("cruz", "BSIT")
	q1 := repo.seedQuestion("Q1")

	base := time.Now()
	addEvaluation(repo, "2021-00001", teacher.ID, "Older remark", base.Add(-time.Hour), map[uint]int{q1.ID: 4})
	addEvaluation(repo, "2021-00002", teacher.ID, "Newer remark", base, map[uint]int{q1.ID: 5})
	// Evaluations without remarks stay out of the feed.
	addEvaluation(repo, "2021-00003", teacher.ID, "", base, map[uint]int{q1.ID: 3})

	teacherView, err := svc.RemarksFeed(ctx, models.TeacherActor(teacher.ID), teacher.ID)
	require.NoError(t, err)
	require.Len(t, teacherView, 2)
	assert.Equal(t, "Newer remark", teacherView[0].Remarks)
	assert.Equal(t, "Older remark", teacherView[1].Remarks)
	assert.Empty(t, teacherView[0].YearLevel, "teacher view stays anonymous")

	adminView, err := svc.RemarksFeed(ctx, models.AdminActor(1), teacher.ID)
	require.NoError(t, err)
	require.Len(t, adminView, 2)
	assert.Equal(t, "3rd Year", adminView[0].YearLevel)
}

func TestTeacherSummary(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	repo.seedStudent("2021-00001", "", models.StudentApproved)
	repo.seedStudent("2021-00002", "", models.StudentPending)
	teacher := repo.seedTeacher("cruz", "BSIT")
	q1 := repo.seedQuestion("Q1")

	addEvaluation(repo, "2021-00001", teacher.ID, "", time.Now(), map[uint]int{q1.ID: 4})

	summary, err := svc.TeacherSummary(ctx, models.AdminActor(1), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.EvaluationCount)
	assert.Equal(t, int64(1), summary.ApprovedStudents)
	require.NotNil(t, summary.OverallAverage)
	assert.InDelta(t, 4.0, *summary.OverallAverage, 0.001)

	_, err = svc.TeacherSummary(ctx, models.AdminActor(1), teacher.ID+10)
	assert.True(t, IsNotFoundError(err))
}

func TestTeacherReportBundle(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	repo.seedStudent("2021-00001", "", models.StudentApproved)
	teacher := repo.seedTeacher("cruz", "BSIT")
	q1 := repo.seedQuestion("Q1")
	repo.seedQuestion("Q2")

	addEvaluation(repo, "2021-00001", teacher.ID, "Great mentor", time.Now(), map[uint]int{q1.ID: 5})

	report, err := svc.TeacherReport(ctx, models.AdminActor(1), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, report.Teacher.ID)
	require.Len(t, report.QuestionStats, 2)
	require.NotNil(t, report.OverallAverage)
	assert.InDelta(t, 5.0, *report.OverallAverage, 0.001)
	require.Len(t, report.Remarks, 1)
}

func TestTeacherWithNoEvaluations(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	teacher := repo.seedTeacher("cruz", "BSIT")
	repo.seedQuestion("Q1")

	avg, err := svc.OverallAverage(ctx, models.AdminActor(1), teacher.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)

	summary, err := svc.TeacherSummary(ctx, models.AdminActor(1), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.EvaluationCount)
	assert.Nil(t, summary.OverallAverage)
}

func TestAdminOverview(t *testing.T) {
	ctx := context.Background()
	repo, svc := newReportFixture(t)
	repo.seedStudent("2021-00001", "", models.StudentApproved)
	repo.seedStudent("2021-00002", "", models.StudentPending)
	repo.seedTeacher("cruz", "BSIT")
	repo.seedQuestion("Q1")
	repo.seedQuestion("Q2")

	overview, err := svc.AdminOverview(ctx, models.AdminActor(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.TotalTeachers)
	assert.Equal(t, int64(2), overview.TotalStudents)
	assert.Equal(t, int64(2), overview.TotalQuestions)
	assert.Equal(t, int64(1), overview.PendingStudents)
}
