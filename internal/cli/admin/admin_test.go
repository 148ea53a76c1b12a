package admin

import (
	"net/http"
	"strings"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/cli/clitest"
	"github.com/julianstephens/neurogrowth/internal/models"
)

func adminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/students", func(w http.ResponseWriter, r *http.Request) {
		clitest.JSON(w, http.StatusOK, []models.StudentSummary{
			{ID: 3, Name: "Asha Rao", Email: "asha@example.com", LogCount: 12, LatestPrediction: &models.PredictionSnapshot{PredictedScore: 71.5, BurnoutRisk: 0.7}},
			{ID: 4, Name: "Ravi Kumar", Email: "ravi@example.com"},
		})
	})
	mux.HandleFunc("GET /admin/risk-heatmap", func(w http.ResponseWriter, r *http.Request) {
		clitest.JSON(w, http.StatusOK, []models.RiskEntry{
			{StudentID: 4, Name: "Ravi Kumar", BurnoutRisk: 0.2, PredictedScore: 60},
			{StudentID: 3, Name: "Asha Rao", BurnoutRisk: 0.7, PredictedScore: 71},
		})
	})
	mux.HandleFunc("GET /admin/performance-distribution", func(w http.ResponseWriter, r *http.Request) {
		clitest.JSON(w, http.StatusOK, models.PerformanceDistribution{
			Distribution:  []models.DistributionBucket{{Range: "60-70", Count: 1}, {Range: "70-80", Count: 1}},
			TotalStudents: 2,
			AvgScore:      65.5,
		})
	})
	mux.HandleFunc("GET /admin/clustering", func(w http.ResponseWriter, r *http.Request) {
		clitest.JSON(w, http.StatusOK, models.Clustering{})
	})
	mux.HandleFunc("POST /admin/retrain", func(w http.ResponseWriter, r *http.Request) {
		clitest.JSON(w, http.StatusOK, models.RetrainResult{Message: "Models retrained successfully", StudentsUsed: 2})
	})
	return mux
}

func TestStudentsCmd(t *testing.T) {
	ctx, out := clitest.New(t, adminHandler())
	clitest.Login(t, ctx, clitest.Admin())

	if err := (&StudentsCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Asha Rao", "71.5", "Ravi Kumar"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestStudentsCmd_StudentRejected(t *testing.T) {
	ctx, _ := clitest.New(t, adminHandler())
	clitest.Login(t, ctx, clitest.Student())

	if err := (&StudentsCmd{}).Run(ctx); err == nil {
		t.Error("students should not reach admin commands")
	}
}

func TestRiskCmd_List(t *testing.T) {
	ctx, out := clitest.New(t, adminHandler())
	clitest.Login(t, ctx, clitest.Admin())

	if err := (&RiskCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	text := out.String()
	if strings.Index(text, "Asha Rao") > strings.Index(text, "Ravi Kumar") {
		t.Errorf("highest risk should be listed first:\n%s", text)
	}
	if !strings.Contains(text, "70%") {
		t.Errorf("output missing risk percentage:\n%s", text)
	}
}

func TestClustersCmd_NoData(t *testing.T) {
	ctx, out := clitest.New(t, adminHandler())
	clitest.Login(t, ctx, clitest.Admin())

	if err := (&ClustersCmd{Width: 40, Height: 10}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not enough student data") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDistributionCmd(t *testing.T) {
	ctx, out := clitest.New(t, adminHandler())
	clitest.Login(t, ctx, clitest.Admin())

	if err := (&DistributionCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "2 students, average predicted score 65.5") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRetrainCmd(t *testing.T) {
	ctx, out := clitest.New(t, adminHandler())
	clitest.Login(t, ctx, clitest.Admin())

	if err := (&RetrainCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Models retrained successfully (2 students used)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
