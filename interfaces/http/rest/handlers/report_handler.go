package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"ddbench/application/report"
)

// ReportHandler serves the latest run's measurements and rendered report.
type ReportHandler struct {
	resultsPath string
	logger      *zap.Logger
}

// NewReportHandler creates a report handler reading from resultsPath.
func NewReportHandler(resultsPath string, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{resultsPath: resultsPath, logger: logger}
}

// GetReport renders the comparison document as markdown.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	artifact, err := report.LoadRun(h.resultsPath)
	if err != nil {
		h.logger.Warn("Failed to load run artifact", zap.Error(err))
		http.Error(w, "no benchmark results available", http.StatusNotFound)
		return
	}

	md := report.RenderMarkdown(report.Aggregate(artifact.Measurements), artifact.GeneratedAt)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

// GetSummaries returns the aggregated summaries as JSON.
func (h *ReportHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	artifact, err := report.LoadRun(h.resultsPath)
	if err != nil {
		h.logger.Warn("Failed to load run artifact", zap.Error(err))
		http.Error(w, "no benchmark results available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report.Aggregate(artifact.Measurements))
}

// GetMeasurements returns the raw measurement records as JSON.
func (h *ReportHandler) GetMeasurements(w http.ResponseWriter, r *http.Request) {
	artifact, err := report.LoadRun(h.resultsPath)
	if err != nil {
		h.logger.Warn("Failed to load run artifact", zap.Error(err))
		http.Error(w, "no benchmark results available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(artifact.Measurements)
}
